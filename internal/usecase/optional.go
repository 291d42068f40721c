package usecase

import "encoding/json"

// Optional holds a value that may be absent, present but empty, or present
// with content. Fields of this type are emitted with `omitzero`, so an
// unset Optional disappears from the JSON document while a set one is
// always written, even when its value is an empty map or slice.
type Optional[T any] struct {
	Value T
	Set   bool
}

// Some returns a set Optional wrapping v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// None returns an unset Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the wrapped value and whether it was set.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// IsZero reports whether the Optional is unset. encoding/json consults it
// for `omitzero` fields.
func (o Optional[T]) IsZero() bool {
	return !o.Set
}

// MarshalJSON encodes the wrapped value.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Value)
}

// UnmarshalJSON marks the Optional as set and decodes the wrapped value.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Value = v
	o.Set = true
	return nil
}
