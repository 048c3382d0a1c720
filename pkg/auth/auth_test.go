package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimulator() *Simulator {
	return NewSimulator(DefaultCredentials(), func() time.Time {
		return time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
	})
}

func TestIssueToken(t *testing.T) {
	t.Parallel()
	s := newSimulator()

	t.Run("valid credentials", func(t *testing.T) {
		res := s.IssueToken("demo", "demo-pass")
		require.Equal(t, 200, res.Status)
		assert.Equal(t, "sandbox-token-abc123", res.Body["token"])
		assert.Equal(t, "Bearer", res.Body["tokenType"])
		assert.Equal(t, "2025-03-15T10:00:00Z", res.Body["expiresAt"])
	})

	t.Run("missing password", func(t *testing.T) {
		res := s.IssueToken("demo", "")
		require.Equal(t, 400, res.Status)
		assert.Equal(t, "VALIDATION_FAILED", res.Body["code"])
	})
}

func TestCheckSandboxKey(t *testing.T) {
	t.Parallel()
	s := newSimulator()

	t.Run("valid key yields read and write scope", func(t *testing.T) {
		res := s.CheckSandboxKey("sandbox-key-789")
		require.Equal(t, 200, res.Status)
		scope, ok := res.Body["scope"].([]string)
		require.True(t, ok)
		assert.Contains(t, scope, "read")
		assert.Contains(t, scope, "write")
	})

	t.Run("invalid key", func(t *testing.T) {
		res := s.CheckSandboxKey("wrong-key")
		require.Equal(t, 403, res.Status)
		assert.Equal(t, "FORBIDDEN", res.Body["code"])
	})

	t.Run("missing key", func(t *testing.T) {
		res := s.CheckSandboxKey("")
		require.Equal(t, 403, res.Status)
		assert.Contains(t, res.Body["error"], "Missing")
	})
}

func TestCheckProKey(t *testing.T) {
	t.Parallel()
	s := newSimulator()

	t.Run("valid key carries tier header", func(t *testing.T) {
		res := s.CheckProKey("pro-key-456")
		require.Equal(t, 200, res.Status)
		assert.Equal(t, "pro", res.Headers["X-Auth-Tier"])
		assert.Equal(t, "pro", res.Body["tier"])
	})

	t.Run("sandbox key is not a pro key", func(t *testing.T) {
		res := s.CheckProKey("sandbox-key-789")
		assert.Equal(t, 403, res.Status)
	})
}

func TestCheckJWT(t *testing.T) {
	t.Parallel()
	s := newSimulator()

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "anyone",
	}).SignedString([]byte("not-a-real-secret"))
	require.NoError(t, err)

	t.Run("structurally valid token", func(t *testing.T) {
		res := s.CheckJWT("Bearer " + signed)
		require.Equal(t, 200, res.Status)
		assert.Equal(t, true, res.Body["authenticated"])
	})

	t.Run("signature is not verified", func(t *testing.T) {
		// Same token signed with a different key still passes: the
		// check is structural only.
		other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub": "anyone",
		}).SignedString([]byte("different-secret"))
		require.NoError(t, err)
		assert.Equal(t, 200, s.CheckJWT("Bearer "+other).Status)
	})

	t.Run("missing header", func(t *testing.T) {
		res := s.CheckJWT("")
		require.Equal(t, 401, res.Status)
		assert.Equal(t, "UNAUTHORIZED", res.Body["code"])
	})

	t.Run("not bearer scheme", func(t *testing.T) {
		assert.Equal(t, 401, s.CheckJWT("Basic dXNlcjpwYXNz").Status)
	})

	t.Run("two segments", func(t *testing.T) {
		assert.Equal(t, 401, s.CheckJWT("Bearer abc.def").Status)
	})

	t.Run("not a token at all", func(t *testing.T) {
		assert.Equal(t, 401, s.CheckJWT("Bearer not-a-jwt").Status)
	})
}

func TestHasBearerToken(t *testing.T) {
	t.Parallel()
	s := newSimulator()

	assert.True(t, s.HasBearerToken("sandbox-token-abc123"))
	assert.False(t, s.HasBearerToken("stolen-token"))
	assert.False(t, s.HasBearerToken(""))
}

func TestBearerFromHeader(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "tok", BearerFromHeader("Bearer tok"))
	assert.Empty(t, BearerFromHeader("bearer tok"))
	assert.Empty(t, BearerFromHeader(""))
}
