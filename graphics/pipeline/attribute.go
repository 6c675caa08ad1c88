package pipeline

import "github.com/passagegfx/passage/graphics/backend"

// Attribute is a name-keyed binding for one active vertex attribute,
// created by pass reflection and owned by the pass. Enable, Disable, and
// Bind delegate to the backend's attribute binder; on profiles that declare
// the binder optional and a backend that lacks it, all three are silent
// no-ops.
type Attribute struct {
	name     string
	kind     backend.ValueKind
	size     int
	location backend.Location

	binder backend.AttributeBinder
}

// Name returns the reflected attribute name.
func (a *Attribute) Name() string { return a.name }

// Kind returns the attribute's reflected value kind.
func (a *Attribute) Kind() backend.ValueKind { return a.kind }

// Size returns the reflected element count (1 for non-arrays).
func (a *Attribute) Size() int { return a.size }

// Location returns the backend location.
func (a *Attribute) Location() backend.Location { return a.location }

// Enable enables the attribute's vertex array.
func (a *Attribute) Enable() {
	if a.binder == nil {
		return
	}
	a.binder.EnableAttribute(a.location)
}

// Disable disables the attribute's vertex array.
func (a *Attribute) Disable() {
	if a.binder == nil {
		return
	}
	a.binder.DisableAttribute(a.location)
}

// Bind binds a vertex data layout to the attribute's location.
func (a *Attribute) Bind(layout backend.AttributeLayout) error {
	if a.binder == nil {
		return nil
	}
	return a.binder.BindAttribute(a.location, layout)
}
