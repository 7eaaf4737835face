package carrier

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// Predicate is one node of a shipment-matching pattern. A node either
// constrains a field to a set of exact values or descends into a nested
// record. In the instruction JSON an array leaf is an exact value set and an
// object is a nested predicate per field.
type Predicate struct {
	Exact  []any
	Nested map[string]Predicate
}

// UnmarshalJSON decodes the pattern shape: array leaf or object node.
func (p *Predicate) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return errors.New("empty predicate")
	}

	switch trimmed[0] {
	case '[':
		var values []any
		if err := json.Unmarshal(data, &values); err != nil {
			return errors.Wrap(err, "decoding exact value set")
		}
		*p = Predicate{Exact: values}
		return nil
	case '{':
		var fields map[string]Predicate
		if err := json.Unmarshal(data, &fields); err != nil {
			return errors.Wrap(err, "decoding nested predicate")
		}
		*p = Predicate{Nested: fields}
		return nil
	default:
		return errors.Newf("predicate must be an array or an object, got %s", string(data))
	}
}

// MarshalJSON encodes the predicate back to its wire shape.
func (p Predicate) MarshalJSON() ([]byte, error) {
	if p.Exact != nil {
		return json.Marshal(p.Exact)
	}
	if p.Nested == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(p.Nested)
}

// Matches reports whether the record satisfies the predicate. Fields absent
// from the pattern are unconstrained; an empty pattern matches everything.
// A nested predicate over a missing or non-record field is a non-match,
// never an error.
func (p Predicate) Matches(record map[string]any) bool {
	for field, sub := range p.Nested {
		value, present := record[field]

		if sub.Exact != nil {
			if !present || !containsValue(sub.Exact, value) {
				return false
			}
			continue
		}

		nested, isRecord := value.(map[string]any)
		if !present || !isRecord {
			return false
		}
		if !sub.Matches(nested) {
			return false
		}
	}
	return true
}

func containsValue(set []any, value any) bool {
	for _, candidate := range set {
		if scalarEqual(candidate, value) {
			return true
		}
	}
	return false
}

// scalarEqual compares two decoded JSON values. Only scalars are comparable;
// records and lists never equal anything.
func scalarEqual(a, b any) bool {
	switch a.(type) {
	case string, float64, bool, nil:
	default:
		return false
	}
	switch b.(type) {
	case string, float64, bool, nil:
	default:
		return false
	}
	return a == b
}

// asRecord flattens a typed value to its wire representation so patterns
// match on the same field names the IMS API uses.
func asRecord(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "encoding record for matching")
	}
	var record map[string]any
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, errors.Wrap(err, "decoding record for matching")
	}
	return record, nil
}
