// Package shipments owns the mutable shipment collection of the
// simulation: the create/read/update/delete lifecycle and id assignment.
package shipments

// Status values a shipment can hold.
const (
	StatusPending   = "PENDING"
	StatusInTransit = "IN_TRANSIT"
	StatusDelivered = "DELIVERED"
)

// Shipment is a single record in the collection. Weight is a pointer so
// that a record without a weight serializes without the field at all.
type Shipment struct {
	ID          string   `json:"id" yaml:"id"`
	Origin      string   `json:"origin" yaml:"origin"`
	Destination string   `json:"destination" yaml:"destination"`
	Status      string   `json:"status" yaml:"status"`
	Weight      *float64 `json:"weight,omitempty" yaml:"weight,omitempty"`
}

// applyFields merges caller-supplied fields into the shipment.
// Supplied fields overwrite, omitted fields retain their prior value.
// Unknown fields are ignored rather than rejected; the simulator mirrors
// the permissive behavior callers expect from a sandbox.
func (s *Shipment) applyFields(fields map[string]any) {
	if v, ok := fields["origin"].(string); ok {
		s.Origin = v
	}
	if v, ok := fields["destination"].(string); ok {
		s.Destination = v
	}
	if v, ok := fields["status"].(string); ok {
		s.Status = v
	}
	if raw, ok := fields["weight"]; ok {
		if w, ok := toFloat(raw); ok {
			s.Weight = &w
		}
	}
}

// toFloat normalizes the numeric types a decoded JSON or YAML body can carry.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
