package shipments

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var idPattern = regexp.MustCompile(`^SHP-\d+$`)

func TestCreate_RoundTrip(t *testing.T) {
	t.Parallel()
	s := NewStore()

	created := s.Create(map[string]any{
		"origin":      "Paris",
		"destination": "London",
	})

	assert.Regexp(t, idPattern, created.ID)
	assert.Equal(t, "Paris", created.Origin)
	assert.Equal(t, "London", created.Destination)
	assert.Equal(t, StatusPending, created.Status)
	assert.Nil(t, created.Weight)

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
}

func TestCreate_ForcesPendingStatus(t *testing.T) {
	t.Parallel()
	s := NewStore()

	created := s.Create(map[string]any{
		"origin": "Oslo",
		"status": StatusDelivered,
	})

	assert.Equal(t, StatusPending, created.Status)
}

func TestUpdate_MergeLaw(t *testing.T) {
	t.Parallel()
	s := NewStore()
	created := s.Create(map[string]any{
		"origin":      "Tokyo",
		"destination": "Seoul",
		"weight":      200,
	})

	updated, err := s.Update(created.ID, map[string]any{
		"status": StatusInTransit,
		"weight": 250,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Tokyo", updated.Origin)
	assert.Equal(t, "Seoul", updated.Destination)
	assert.Equal(t, StatusInTransit, updated.Status)
	require.NotNil(t, updated.Weight)
	assert.Equal(t, 250.0, *updated.Weight)
}

func TestUpdate_NotFound(t *testing.T) {
	t.Parallel()
	s := NewStore()

	_, err := s.Update("SHP-9999", map[string]any{"status": StatusDelivered})
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "SHP-9999", nf.ID)
	assert.Equal(t, 404, nf.StatusCode())
}

func TestDelete_Finality(t *testing.T) {
	t.Parallel()
	s := NewStore()
	created := s.Create(map[string]any{"origin": "Lima"})

	require.NoError(t, s.Delete(created.ID))

	for _, item := range s.List() {
		assert.NotEqual(t, created.ID, item.ID)
	}

	err := s.Delete(created.ID)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
}

func TestList_InsertionOrder(t *testing.T) {
	t.Parallel()
	s := NewStore()
	a := s.Create(map[string]any{"origin": "A"})
	b := s.Create(map[string]any{"origin": "B"})
	c := s.Create(map[string]any{"origin": "C"})

	require.NoError(t, s.Delete(b.ID))
	d := s.Create(map[string]any{"origin": "D"})

	list := s.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{a.ID, c.ID, d.ID}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestCreate_UniqueIDsUnderConcurrency(t *testing.T) {
	t.Parallel()
	s := NewStore()

	const n = 200
	var wg sync.WaitGroup
	ids := make(chan string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- s.Create(map[string]any{"origin": "X"}).ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]bool, n)
	for id := range ids {
		assert.False(t, seen[id], "id %s assigned twice", id)
		seen[id] = true
	}
	assert.Equal(t, n, s.Count())
}

func TestReset_RestoresSeedWithoutRewindingIDs(t *testing.T) {
	t.Parallel()
	weight := 12.5
	s := NewStore(Shipment{Origin: "Rotterdam", Destination: "Hamburg", Weight: &weight})

	created := s.Create(map[string]any{"origin": "Lyon"})
	s.Reset()

	list := s.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Rotterdam", list[0].Origin)
	assert.Equal(t, StatusPending, list[0].Status)

	// Ids keep climbing after a reset.
	next := s.Create(map[string]any{"origin": "Lyon"})
	assert.NotEqual(t, created.ID, next.ID)
}

func TestCreate_NeverCollidesWithSeededIDs(t *testing.T) {
	t.Parallel()
	s := NewStore(Shipment{ID: "SHP-1001", Origin: "Antwerp"})

	created := s.Create(map[string]any{"origin": "Ghent"})
	assert.NotEqual(t, "SHP-1001", created.ID)

	list := s.List()
	require.Len(t, list, 2)
	seen := make(map[string]bool, len(list))
	for _, item := range list {
		assert.False(t, seen[item.ID], "id %s appears twice in List", item.ID)
		seen[item.ID] = true
	}

	// The seeded record survives untouched.
	got, err := s.Get("SHP-1001")
	require.NoError(t, err)
	assert.Equal(t, "Antwerp", got.Origin)
}

func TestCreate_DoesNotReissueDeletedSeedID(t *testing.T) {
	t.Parallel()
	s := NewStore(Shipment{ID: "SHP-1005", Origin: "Antwerp"})
	require.NoError(t, s.Delete("SHP-1005"))

	for i := 0; i < 10; i++ {
		created := s.Create(map[string]any{"origin": "Ghent"})
		assert.NotEqual(t, "SHP-1005", created.ID)
	}
}

func TestSeed_DefaultsStatusToPending(t *testing.T) {
	t.Parallel()
	s := NewStore(Shipment{ID: "SHP-1", Origin: "Cork"})

	got, err := s.Get("SHP-1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, got.Status)
}
