package types

import "encoding/json"

// Record is a schemaless row: field names mapped to values. Values follow
// JSON semantics once a record has been through the store (numbers come back
// as float64, nested values as []any / map[string]any). Callers that need
// typed access use the accessor methods rather than asserting directly.
type Record map[string]any

// String returns the named field as a string. Missing or non-string fields
// return the empty string.
func (r Record) String(field string) string {
	s, _ := r[field].(string)
	return s
}

// Int returns the named field coerced to int. JSON decoding produces
// float64, so all numeric widths are accepted.
func (r Record) Int(field string) int {
	switch n := r[field].(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	default:
		return 0
	}
}

// Float returns the named field coerced to float64.
func (r Record) Float(field string) float64 {
	switch n := r[field].(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}

// Bool returns the named field as a bool. Missing or non-bool fields
// return false.
func (r Record) Bool(field string) bool {
	b, _ := r[field].(bool)
	return b
}

// Has reports whether the field is present and non-nil.
func (r Record) Has(field string) bool {
	v, ok := r[field]
	return ok && v != nil
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Merge returns a copy of the record with every field from patch applied
// over it. Fields absent from patch survive unchanged.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	for k, v := range patch {
		out[k] = v
	}
	return out
}

// Normalize round-trips the record through JSON so its values carry the
// same shapes they would after a store read. Used when comparing records
// that have not been persisted against ones that have.
func (r Record) Normalize() (Record, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var out Record
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
