package shipments

import (
	"sync"

	"github.com/stubdock/stubdock/internal/id"
)

// idBase is the starting point for assigned shipment numbers, so the first
// created shipment is SHP-1001.
const idBase = 1000

// Store is the in-memory shipment collection. It is safe for concurrent
// use; every shared-state access happens under a single mutex per store.
//
// Ids are assigned from a monotonic sequence that is never rewound, so an
// id observed once can never be reassigned to a different shipment and a
// deleted id never reappears in a later List.
type Store struct {
	mu    sync.RWMutex
	seq   *id.Sequence
	order []string
	items map[string]*Shipment
	seed  []Shipment
}

// NewStore creates a store pre-populated with the given seed shipments.
// Seed records without an id are assigned one.
func NewStore(seed ...Shipment) *Store {
	s := &Store{
		seq:   id.NewSequence("SHP-", idBase),
		items: make(map[string]*Shipment),
		seed:  seed,
	}
	s.load(seed)
	return s
}

// load populates the collection. Caller must not hold s.mu.
func (s *Store) load(records []Shipment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.order = s.order[:0]
	s.items = make(map[string]*Shipment, len(records))
	for _, rec := range records {
		cp := rec
		if cp.ID == "" {
			cp.ID = s.seq.Next()
		} else {
			// Keep the sequence ahead of explicit seed ids so Create can
			// never hand out an id the collection already holds or held.
			s.seq.Observe(cp.ID)
		}
		if cp.Status == "" {
			cp.Status = StatusPending
		}
		if _, exists := s.items[cp.ID]; exists {
			continue
		}
		s.items[cp.ID] = &cp
		s.order = append(s.order, cp.ID)
	}
}

// List returns the live collection in insertion order.
func (s *Store) List() []Shipment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Shipment, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, *s.items[key])
	}
	return out
}

// Get retrieves a single shipment by id.
func (s *Store) Get(shipmentID string) (Shipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.items[shipmentID]
	if !ok {
		return Shipment{}, &NotFoundError{ID: shipmentID}
	}
	return *item, nil
}

// Create assigns a fresh id, forces status to PENDING regardless of any
// caller-supplied status, appends the record, and returns it.
func (s *Store) Create(fields map[string]any) Shipment {
	s.mu.Lock()
	defer s.mu.Unlock()

	item := &Shipment{ID: s.seq.Next()}
	item.applyFields(fields)
	item.Status = StatusPending

	s.items[item.ID] = item
	s.order = append(s.order, item.ID)
	return *item
}

// Update merges the supplied fields into an existing shipment. Supplied
// fields win, including status and weight; omitted fields keep their
// prior value. The id is immutable.
func (s *Store) Update(shipmentID string, fields map[string]any) (Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	item, ok := s.items[shipmentID]
	if !ok {
		return Shipment{}, &NotFoundError{ID: shipmentID}
	}
	item.applyFields(fields)
	return *item, nil
}

// Delete removes a shipment from the collection.
func (s *Store) Delete(shipmentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[shipmentID]; !ok {
		return &NotFoundError{ID: shipmentID}
	}
	delete(s.items, shipmentID)
	for i, key := range s.order {
		if key == shipmentID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of live shipments.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Reset restores the collection to its seed state. The id sequence is not
// rewound, so ids handed out before the reset are never reissued.
func (s *Store) Reset() {
	s.load(s.seed)
}
