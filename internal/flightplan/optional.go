package flightplan

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Presence distinguishes a field that was never observed from one a record
// declared absent.
type Presence uint8

const (
	Unset      Presence = iota // never observed
	NotPresent                 // explicitly absent in the producing record
	Present
)

// Optional is a snapshot field with three states: unset, not present, or a
// value.
type Optional[T comparable] struct {
	value    T
	presence Presence
}

// Some returns a present Optional holding v.
func Some[T comparable](v T) Optional[T] {
	return Optional[T]{value: v, presence: Present}
}

// Absent returns an Optional explicitly marked not present.
func Absent[T comparable]() Optional[T] {
	return Optional[T]{presence: NotPresent}
}

// State returns the presence state.
func (o Optional[T]) State() Presence {
	return o.presence
}

// IsSet reports whether o holds a value.
func (o Optional[T]) IsSet() bool {
	return o.presence == Present
}

// IsZero reports whether o was never observed. It lets encoding/json omit
// unset fields via omitzero.
func (o Optional[T]) IsZero() bool {
	return o.presence == Unset
}

// Get returns the held value, or the zero value when o is not set.
func (o Optional[T]) Get() T {
	return o.value
}

// GetOr returns the held value or def when o is not set.
func (o Optional[T]) GetOr(def T) T {
	if o.IsSet() {
		return o.value
	}
	return def
}

// Changed reports whether next holds a different value. Transitions into or
// out of a non-value state are not changes.
func (o Optional[T]) Changed(next Optional[T]) bool {
	return o.IsSet() && next.IsSet() && o.value != next.value
}

// String renders the value with %v, or "<nil>" when not set.
func (o Optional[T]) String() string {
	if !o.IsSet() {
		return "<nil>"
	}
	if s, ok := any(o.value).(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(o.value)
}

// MarshalJSON encodes a set value as itself and a not-present value as null.
func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.IsSet() {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON decodes null as not present. Unset only arises from a missing key.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Absent[T]()
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
