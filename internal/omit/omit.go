package omit

import (
	"bytes"
	"encoding/json"
)

var null = []byte("null")

func New[T any](value T) Omit[T] {
	return Omit[T]{
		Value: value,
		OK:    true,
	}
}

func NewZero[T any]() Omit[T] {
	return Omit[T]{
		OK: false,
	}
}

// Omit is a value which may be unknown. A JSON field that is missing or null
// decodes to an unknown Omit instead of the zero value of T.
type Omit[T any] struct {
	Value T
	OK    bool
}

func (o Omit[T]) IsZero() bool {
	return !o.OK
}

func (o Omit[T]) Or(fallback T) T {
	if !o.OK {
		return fallback
	}
	return o.Value
}

func (o Omit[T]) MarshalJSON() ([]byte, error) {
	if !o.OK {
		return null, nil
	}
	return json.Marshal(o.Value)
}

func (o *Omit[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, null) {
		*o = NewZero[T]()
		return nil
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}

	*o = New(value)
	return nil
}
