package dto

import (
	"bytes"
	"encoding/json"
)

// Optional tells an omitted field apart from an explicit null.
type Optional[T any] struct {
	Present bool
	Null    bool
	Value   T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Present: true, Value: v}
}

func (o *Optional[T]) UnmarshalJSON(b []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Get returns the value when one was supplied.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present && !o.Null
}
