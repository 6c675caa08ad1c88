// Package backend defines the graphics API collaborator that the passage
// resource types drive. The surface is split in two: a minimal Backend
// interface every implementation satisfies, and a set of narrow operation
// interfaces (ShaderCompiler, ProgramLinker, ...) that a backend implements
// only when it actually supplies that operation. The validator package
// checks, per profile, that a backend supplies every operation a resource
// kind requires before any resource can be constructed.
package backend

import "errors"

// Handle is an opaque backend object identifier for shaders and programs.
// Handle 0 is never a live object; fresh backends allocate from 1.
type Handle uint32

// Location is an opaque backend location for a reflected uniform or
// attribute binding. -1 means "not found".
type Location int32

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not registered.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")

	// ErrUnknownHandle is returned when an operation references a handle the
	// backend did not allocate or has already deleted.
	ErrUnknownHandle = errors.New("backend: unknown handle")

	// ErrUnsupportedValue is returned by SetUniform when the backend has no
	// setter for the value's kind.
	ErrUnsupportedValue = errors.New("backend: unsupported uniform value kind")
)

// ShaderStage identifies the pipeline stage a shader unit targets.
type ShaderStage uint8

const (
	// StageVertex is a vertex shader.
	StageVertex ShaderStage = iota

	// StageFragment is a fragment shader.
	StageFragment

	// StageGeometry is a geometry shader.
	StageGeometry

	// StageTessControl is a tessellation control shader.
	StageTessControl

	// StageTessEval is a tessellation evaluation shader.
	StageTessEval

	// StageCompute is a compute shader.
	StageCompute
)

// String returns the lowercase stage name.
func (s ShaderStage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageGeometry:
		return "geometry"
	case StageTessControl:
		return "tess-control"
	case StageTessEval:
		return "tess-eval"
	case StageCompute:
		return "compute"
	default:
		return "unknown"
	}
}

// Backend is the minimal interface every graphics backend satisfies.
// Operation interfaces are discovered from the same value by type assertion;
// see the validator package.
type Backend interface {
	// Name returns the backend identifier (e.g. "soft", "gl", "webgpu").
	Name() string

	// Init initializes the backend. It must be called before any operation.
	Init() error

	// Close releases all backend resources. The backend must not be used
	// after Close returns.
	Close()
}

// Profiled is implemented by backends that declare which profiles they
// support. Describe returns the operation descriptor for the profile, or
// false if the backend does not support it.
type Profiled interface {
	Describe(p Profile) (Descriptor, bool)
}
