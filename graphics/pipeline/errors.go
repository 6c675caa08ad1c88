package pipeline

import (
	"fmt"

	"github.com/passagegfx/passage/graphics/backend"
)

// CompilationError reports a shader compile failure. It carries the stage
// and the backend's diagnostic log; the partially created shader handle has
// already been deleted by the time this error is returned.
type CompilationError struct {
	// Stage is the stage of the shader that failed to compile.
	Stage backend.ShaderStage

	// Log is the backend's compile diagnostic text.
	Log string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("pipeline: compile %s shader: COMPILATION_FAILED\n%s", e.Stage, e.Log)
}

// LinkError reports a program link failure. The program handle and all
// shader handles have already been freed by the time this error is returned.
type LinkError struct {
	// Log is the backend's link diagnostic text.
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("pipeline: link program: LINK_FAILED\n%s", e.Log)
}

// UniformNotFoundError reports a lookup miss in a pass's reflected uniforms.
type UniformNotFoundError struct {
	// Name is the requested uniform name.
	Name string
}

func (e *UniformNotFoundError) Error() string {
	return fmt.Sprintf("pipeline: UNIFORM_NOT_FOUND: uniform %q not found", e.Name)
}

// AttributeNotFoundError reports a lookup miss in a pass's reflected
// attributes.
type AttributeNotFoundError struct {
	// Name is the requested attribute name.
	Name string
}

func (e *AttributeNotFoundError) Error() string {
	return fmt.Sprintf("pipeline: ATTRIBUTE_NOT_FOUND: attribute %q not found", e.Name)
}

// TypeMismatchError reports a set with a value kind different from the
// binding's established kind. The stored value is unchanged.
type TypeMismatchError struct {
	// Name is the binding's name.
	Name string

	// Want is the binding's established kind.
	Want backend.ValueKind

	// Got is the rejected value's kind.
	Got backend.ValueKind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("pipeline: TYPE_MISMATCH: binding %q holds %s, got %s", e.Name, e.Want, e.Got)
}

// UnsupportedTypeError reports a set with a value type no backend setter
// exists for.
type UnsupportedTypeError struct {
	// Name is the binding's name.
	Name string

	// TypeName describes the rejected value's type.
	TypeName string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("pipeline: UNSUPPORTED_TYPE: binding %q: no setter for %s", e.Name, e.TypeName)
}

// InvalidContextError reports an operation invoked on a resource that has no
// valid backend handle.
type InvalidContextError struct {
	// Op is the operation that was attempted, e.g. "pass.use".
	Op string
}

func (e *InvalidContextError) Error() string {
	return fmt.Sprintf("pipeline: %s: no valid handle (null context)", e.Op)
}

// ErrNoShaders is returned when a pass is constructed with an empty shader set.
var ErrNoShaders = fmt.Errorf("pipeline: a pass requires at least one shader")
