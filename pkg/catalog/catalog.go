// Package catalog serves the read-only inventory list. Items are seeded
// once at construction and never mutated by any simulated operation.
package catalog

// Item is a single inventory record.
type Item struct {
	SKU   string `json:"sku" yaml:"sku"`
	Name  string `json:"name" yaml:"name"`
	Stock int    `json:"stock" yaml:"stock"`
}

// Store holds the immutable inventory.
type Store struct {
	items []Item
}

// NewStore creates a catalog seeded with the given items. A nil or empty
// seed uses the built-in defaults.
func NewStore(items []Item) *Store {
	if len(items) == 0 {
		items = DefaultItems()
	}
	cp := make([]Item, len(items))
	copy(cp, items)
	return &Store{items: cp}
}

// DefaultItems returns the built-in inventory seed.
func DefaultItems() []Item {
	return []Item{
		{SKU: "CNT-20FT", Name: "20ft Dry Container", Stock: 14},
		{SKU: "CNT-40FT", Name: "40ft High Cube Container", Stock: 6},
		{SKU: "PLT-EUR", Name: "EUR Pallet", Stock: 320},
		{SKU: "LBL-FRAGILE", Name: "Fragile Handling Label Roll", Stock: 48},
		{SKU: "STRAP-HD", Name: "Heavy Duty Lashing Strap", Stock: 75},
	}
}

// List returns a copy of the inventory, so callers cannot mutate the seed.
func (s *Store) List() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Count returns the number of inventory items.
func (s *Store) Count() int {
	return len(s.items)
}
