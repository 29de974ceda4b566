package model

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Optional is a change carried by a patch. An unset Optional leaves the
// target field untouched; a set one replaces it, zero value included.
type Optional[T any] struct {
	value T
	set   bool
}

func Set[T any](value T) Optional[T] {
	return Optional[T]{value: value, set: true}
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// ApplyTo overwrites *target when the optional is set.
func (o Optional[T]) ApplyTo(target *T) {
	if o.set {
		*target = o.value
	}
}

// UnmarshalJSON marks the optional as set whenever its key is present,
// including an explicit null.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	var value T
	if string(data) != "null" {
		if err := json.Unmarshal(data, &value); err != nil {
			return errors.WithStack(err)
		}
	}
	o.value = value
	o.set = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}
