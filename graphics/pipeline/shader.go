package pipeline

import "github.com/passagegfx/passage/graphics/backend"

// ShaderState tracks a shader resource through its lifecycle.
type ShaderState uint8

const (
	// StateUnloaded means the shader has not been compiled yet.
	StateUnloaded ShaderState = iota

	// StateCompiled means the shader holds a live backend handle.
	StateCompiled

	// StateFreed means the shader's handle has been deleted. A freed shader
	// is never reused.
	StateFreed
)

// String returns the lowercase state name.
func (s ShaderState) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateCompiled:
		return "compiled"
	case StateFreed:
		return "freed"
	default:
		return "unknown"
	}
}

// shaderResource is the implementation of the Shader interface. It owns one
// shader unit's source, compiled handle, and stage type.
type shaderResource struct {
	dev    *Device
	path   string
	stage  backend.ShaderStage
	source string
	handle backend.Handle
	state  ShaderState
}

// Shader is one compiled unit of rendering code of a single stage type. It
// drives read → compile → free: Load reads the source (at most once) and
// compiles it, Free deletes the backend handle. A Shader is owned by the
// Pass that links it; pass construction loads and then frees the individual
// shader handles once the program retains the compiled code.
type Shader interface {
	// Path returns the source path the shader was created with.
	Path() string

	// Stage returns the shader's stage type. The stage is supplied
	// explicitly at construction, never inferred from file naming.
	Stage() backend.ShaderStage

	// Source returns the source text, empty until the first Load.
	Source() string

	// Handle returns the backend handle, 0 unless the shader is compiled.
	Handle() backend.Handle

	// State returns the shader's lifecycle state.
	State() ShaderState

	// Load reads the source if it has not been read yet, then compiles it.
	// Re-invoking Load skips the read but re-issues the compile. On compile
	// failure the partial handle is deleted and a *CompilationError carrying
	// the stage and diagnostic log is returned; the handle is never left
	// dangling.
	Load() error

	// Free deletes the backend handle and transitions to StateFreed.
	// Idempotent: a second Free is a no-op.
	Free() error
}

var _ Shader = &shaderResource{}

// NewShader creates a shader resource for the given source path and stage.
// Nothing is read or compiled until Load.
//
// Parameters:
//   - path: the shader source path, resolved through the device's reader
//   - stage: the shader's stage type
//
// Returns:
//   - Shader: the unloaded shader resource
func (d *Device) NewShader(path string, stage backend.ShaderStage) Shader {
	return &shaderResource{
		dev:   d,
		path:  path,
		stage: stage,
	}
}

func (s *shaderResource) Path() string { return s.path }

func (s *shaderResource) Stage() backend.ShaderStage { return s.stage }

func (s *shaderResource) Source() string { return s.source }

func (s *shaderResource) Handle() backend.Handle { return s.handle }

func (s *shaderResource) State() ShaderState { return s.state }

func (s *shaderResource) Load() error {
	if s.state == StateFreed {
		return &InvalidContextError{Op: "shader.load"}
	}

	// Source is read at most once; a reloaded shader recompiles the text it
	// already holds.
	if s.source == "" {
		src, err := s.dev.reader.Read(s.path)
		if err != nil {
			return err
		}
		s.source = src
	}

	handle, err := s.dev.compiler.CreateShader(s.stage)
	if err != nil {
		return err
	}
	if err := s.dev.compiler.ShaderSource(handle, s.source); err != nil {
		s.dev.compiler.DeleteShader(handle)
		return err
	}
	if !s.dev.compiler.CompileShader(handle) {
		log := s.dev.compiler.CompileLog(handle)
		s.dev.compiler.DeleteShader(handle)
		return &CompilationError{Stage: s.stage, Log: log}
	}

	// A recompile replaces the previous handle; the old object is deleted so
	// no handle leaks.
	if s.handle != 0 {
		s.dev.compiler.DeleteShader(s.handle)
	}
	s.handle = handle
	s.state = StateCompiled
	s.dev.log.Debug("shader compiled", "path", s.path, "stage", s.stage.String(), "handle", uint32(handle))
	return nil
}

func (s *shaderResource) Free() error {
	if s.state == StateFreed {
		return nil
	}
	if s.handle != 0 {
		s.dev.compiler.DeleteShader(s.handle)
		s.handle = 0
	}
	s.state = StateFreed
	return nil
}
