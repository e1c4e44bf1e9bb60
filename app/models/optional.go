package models

import "encoding/json"

// Optional is a submitted string field. Set is false when the field was
// absent from the request; an explicit JSON null is Set with an empty Value.
type Optional struct {
	Value string
	Set   bool
}

// Some returns a set Optional holding v.
func Some(v string) Optional {
	return Optional{Value: v, Set: true}
}

// UnmarshalJSON marks the field as set, including for null.
func (o *Optional) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = ""
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// MarshalJSON writes the value, or null when the field was not set.
func (o Optional) MarshalJSON() ([]byte, error) {
	if !o.Set {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Apply stores the value into dst when the field was set.
func (o Optional) Apply(dst *string) {
	if o.Set {
		*dst = o.Value
	}
}
