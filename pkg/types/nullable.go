package types

import (
	"bytes"
	"encoding/json"
)

// NullableBool tracks whether a boolean field was explicitly present in
// JSON. Valid=false means the field was absent; Valid=true with a nil
// Value means an explicit null (a meaningful "unset" for the wizard's
// tri-state fields).
type NullableBool struct {
	Valid bool
	Value *bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableBool) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed bool
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}

// NullableString tracks whether a string field was explicitly present in
// JSON, distinguishing absent from explicit null.
type NullableString struct {
	Valid bool
	Value *string
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *NullableString) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	if bytes.Equal(trimmed, []byte("null")) {
		n.Valid = true
		n.Value = nil
		return nil
	}

	var parsed string
	if err := json.Unmarshal(trimmed, &parsed); err != nil {
		return err
	}
	n.Valid = true
	n.Value = &parsed
	return nil
}
