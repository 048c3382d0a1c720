// Package auth evaluates credential-bearing requests against the static
// credential set of the simulation.
//
// None of this is cryptographically sound and it is not meant to be: the
// simulator exists so that callers can exercise success and failure paths
// deterministically. The JWT check in particular is purely structural.
package auth

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// tokenTTL is the advertised lifetime of an issued bearer token.
const tokenTTL = time.Hour

// Credentials is the static, process-lifetime credential set. There is no
// registration or rotation.
type Credentials struct {
	BearerTokens []string `yaml:"bearerTokens"`
	SandboxKey   string   `yaml:"sandboxKey"`
	ProKey       string   `yaml:"proKey"`
}

// DefaultCredentials returns the credential set callers are documented
// against.
func DefaultCredentials() Credentials {
	return Credentials{
		BearerTokens: []string{"sandbox-token-abc123"},
		SandboxKey:   "sandbox-key-789",
		ProKey:       "pro-key-456",
	}
}

// Result is the outcome of an auth evaluation: a status code plus the
// payload and headers the dispatcher should return verbatim.
type Result struct {
	Status  int
	Body    map[string]any
	Headers map[string]string
}

// Simulator evaluates credential-bearing requests. It holds no mutable
// state; the credential set is immutable for the process lifetime.
type Simulator struct {
	creds Credentials
	now   func() time.Time
}

// NewSimulator creates a simulator over the given credential set.
// Zero-value credentials fall back to the defaults; a nil now func uses
// time.Now.
func NewSimulator(creds Credentials, now func() time.Time) *Simulator {
	def := DefaultCredentials()
	if len(creds.BearerTokens) == 0 {
		creds.BearerTokens = def.BearerTokens
	}
	if creds.SandboxKey == "" {
		creds.SandboxKey = def.SandboxKey
	}
	if creds.ProKey == "" {
		creds.ProKey = def.ProKey
	}
	if now == nil {
		now = time.Now
	}
	return &Simulator{creds: creds, now: now}
}

// IssueToken simulates a login: non-empty username and password yield the
// static bearer token with an expiry. The credentials themselves are not
// checked against anything.
func (s *Simulator) IssueToken(username, password string) Result {
	if username == "" || password == "" {
		return Result{
			Status: 400,
			Body: map[string]any{
				"error": "username and password are required",
				"code":  "VALIDATION_FAILED",
			},
		}
	}
	return Result{
		Status: 200,
		Body: map[string]any{
			"token":     s.creds.BearerTokens[0],
			"tokenType": "Bearer",
			"expiresAt": s.now().UTC().Add(tokenTTL).Format(time.RFC3339),
		},
	}
}

// CheckSandboxKey evaluates the sandbox-scope API key. Missing and invalid
// keys both deny with 403; only the message text differs.
func (s *Simulator) CheckSandboxKey(key string) Result {
	switch key {
	case "":
		return keyDenied("Missing API key")
	case s.creds.SandboxKey:
		return Result{
			Status: 200,
			Body: map[string]any{
				"status":      "ok",
				"environment": "sandbox",
				"scope":       []string{"read", "write"},
			},
		}
	default:
		return keyDenied("Invalid API key")
	}
}

// CheckProKey evaluates the pro-scope API key. Success carries a
// confidential payload and a response header marking the tier.
func (s *Simulator) CheckProKey(key string) Result {
	switch key {
	case "":
		return keyDenied("Missing pro API key")
	case s.creds.ProKey:
		return Result{
			Status: 200,
			Body: map[string]any{
				"status": "ok",
				"tier":   "pro",
				"data": map[string]any{
					"accountId": "acct_pro_0001",
					"apiQuota":  100000,
					"contact":   "enterprise@stubdock.dev",
				},
			},
			Headers: map[string]string{"X-Auth-Tier": "pro"},
		}
	default:
		return keyDenied("Invalid pro API key")
	}
}

func keyDenied(msg string) Result {
	return Result{
		Status: 403,
		Body:   map[string]any{"error": msg, "code": "FORBIDDEN"},
	}
}

// CheckJWT performs a structural JWT check on an Authorization header
// value: a Bearer token that parses as three dot-separated base64
// segments. No signature verification is performed.
func (s *Simulator) CheckJWT(authorization string) Result {
	if authorization == "" {
		return jwtDenied("Missing Authorization header")
	}
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return jwtDenied("Authorization header must use the Bearer scheme")
	}
	raw := strings.TrimPrefix(authorization, bearerPrefix)

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(raw, jwt.MapClaims{}); err != nil {
		return jwtDenied("Malformed JWT")
	}

	return Result{
		Status: 200,
		Body: map[string]any{
			"sub":           "usr_mock_1",
			"email":         "dev@sandbox.test",
			"plan":          "sandbox",
			"authenticated": true,
		},
	}
}

func jwtDenied(msg string) Result {
	return Result{
		Status: 401,
		Body:   map[string]any{"error": msg, "code": "UNAUTHORIZED"},
	}
}

// HasBearerToken reports whether the raw token belongs to the credential
// set's token list. This is the catch-all gate for protected paths and is
// distinct from the structural JWT check.
func (s *Simulator) HasBearerToken(token string) bool {
	for _, t := range s.creds.BearerTokens {
		if t != "" && t == token {
			return true
		}
	}
	return false
}

// BearerFromHeader extracts the raw bearer token from an Authorization
// header value. Returns "" when the header is absent or not Bearer.
func BearerFromHeader(authorization string) string {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(authorization, bearerPrefix)
}
