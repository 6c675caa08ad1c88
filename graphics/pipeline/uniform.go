package pipeline

import (
	"errors"
	"fmt"

	"github.com/passagegfx/passage/graphics/backend"
)

// Uniform is a name-keyed, type-tagged value holder bound to a backend
// uniform location. It is created by pass reflection and owned by the pass.
// The value kind is fixed by the first successful Set; later sets with a
// different kind fail without mutating the stored value.
type Uniform struct {
	name     string
	kind     backend.ValueKind
	size     int
	location backend.Location

	setter backend.UniformSetter

	valueKind backend.ValueKind
	value     backend.Value
}

// Name returns the reflected uniform name.
func (u *Uniform) Name() string { return u.name }

// Kind returns the uniform's reflected value kind.
func (u *Uniform) Kind() backend.ValueKind { return u.kind }

// Size returns the reflected element count (1 for non-arrays).
func (u *Uniform) Size() int { return u.size }

// Location returns the backend location.
func (u *Uniform) Location() backend.Location { return u.location }

// Value returns the stored value and whether one has been set.
func (u *Uniform) Value() (backend.Value, bool) {
	return u.value, u.valueKind != backend.KindInvalid
}

// Set uploads a value to the uniform's location. The first successful Set
// fixes the uniform's value kind; a later Set with a different kind returns
// a *TypeMismatchError and leaves the stored value unchanged. Values with no
// backend setter return an *UnsupportedTypeError.
func (u *Uniform) Set(value any) error {
	v, ok := backend.ValueOf(value)
	if !ok {
		return &UnsupportedTypeError{Name: u.name, TypeName: fmt.Sprintf("%T", value)}
	}
	if u.valueKind != backend.KindInvalid && v.Kind() != u.valueKind {
		return &TypeMismatchError{Name: u.name, Want: u.valueKind, Got: v.Kind()}
	}
	if err := u.setter.SetUniform(u.location, v); err != nil {
		if errors.Is(err, backend.ErrUnsupportedValue) {
			return &UnsupportedTypeError{Name: u.name, TypeName: v.Kind().String()}
		}
		return err
	}
	u.value = v
	u.valueKind = v.Kind()
	return nil
}
