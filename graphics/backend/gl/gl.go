// Package gl is the OpenGL 4.1 core backend. It supplies the complete
// operation set, including vertex attribute binding, and supports the CORE
// profile with every operation required.
//
// All calls must happen on the thread that owns the GL context, after
// Init has been called with that context current. Shader and program
// handles are the GL object names, allocated by the driver.
package gl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/passagegfx/passage/graphics/backend"
)

func init() {
	backend.Register("gl", func() backend.Backend { return New() })
}

// Backend drives an OpenGL 4.1 core context. Not safe for concurrent use.
type Backend struct {
	initialized bool
}

var (
	_ backend.Backend            = (*Backend)(nil)
	_ backend.Profiled           = (*Backend)(nil)
	_ backend.ShaderCompiler     = (*Backend)(nil)
	_ backend.ProgramLinker      = (*Backend)(nil)
	_ backend.ProgramUser        = (*Backend)(nil)
	_ backend.ProgramResetter    = (*Backend)(nil)
	_ backend.UniformReflector   = (*Backend)(nil)
	_ backend.UniformSetter      = (*Backend)(nil)
	_ backend.AttributeReflector = (*Backend)(nil)
	_ backend.AttributeBinder    = (*Backend)(nil)
)

// New creates an uninitialized GL backend.
func New() *Backend {
	return &Backend{}
}

// Name returns "gl".
func (b *Backend) Name() string { return "gl" }

// Init loads the GL function pointers. A GL context must be current on the
// calling thread.
func (b *Backend) Init() error {
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl: init: %w", err)
	}
	b.initialized = true
	return nil
}

// Close resets the active program. GL object cleanup is per-handle via
// DeleteShader/DeleteProgram; the context itself belongs to the window layer.
func (b *Backend) Close() {
	if b.initialized {
		gl.UseProgram(0)
	}
	b.initialized = false
}

// Describe declares support for the CORE profile with every operation
// required.
func (b *Backend) Describe(p backend.Profile) (backend.Descriptor, bool) {
	if p != backend.ProfileCore {
		return backend.Descriptor{}, false
	}
	return backend.Descriptor{Profile: p}, true
}

var glStages = map[backend.ShaderStage]uint32{
	backend.StageVertex:      gl.VERTEX_SHADER,
	backend.StageFragment:    gl.FRAGMENT_SHADER,
	backend.StageGeometry:    gl.GEOMETRY_SHADER,
	backend.StageTessControl: gl.TESS_CONTROL_SHADER,
	backend.StageTessEval:    gl.TESS_EVALUATION_SHADER,
}

// CreateShader allocates a GL shader object for stage. Compute shaders need
// GL 4.3 and are rejected on a 4.1 core context.
func (b *Backend) CreateShader(stage backend.ShaderStage) (backend.Handle, error) {
	if !b.initialized {
		return 0, backend.ErrNotInitialized
	}
	glStage, ok := glStages[stage]
	if !ok {
		return 0, fmt.Errorf("gl: %s shaders are not supported on a 4.1 core context", stage)
	}
	h := gl.CreateShader(glStage)
	if h == 0 {
		return 0, fmt.Errorf("gl: CreateShader(%s) failed", stage)
	}
	return backend.Handle(h), nil
}

// ShaderSource uploads null-terminated source to the shader object.
func (b *Backend) ShaderSource(shader backend.Handle, src string) error {
	csources, free := gl.Strs(src + "\x00")
	gl.ShaderSource(uint32(shader), 1, csources, nil)
	free()
	return nil
}

// CompileShader compiles the shader object and reports success.
func (b *Backend) CompileShader(shader backend.Handle) bool {
	gl.CompileShader(uint32(shader))
	var status int32
	gl.GetShaderiv(uint32(shader), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

// CompileLog returns the shader's info log.
func (b *Backend) CompileLog(shader backend.Handle) string {
	var logLength int32
	gl.GetShaderiv(uint32(shader), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(uint32(shader), logLength, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

// DeleteShader deletes the shader object.
func (b *Backend) DeleteShader(shader backend.Handle) {
	gl.DeleteShader(uint32(shader))
}

// CreateProgram allocates a GL program object.
func (b *Backend) CreateProgram() (backend.Handle, error) {
	if !b.initialized {
		return 0, backend.ErrNotInitialized
	}
	h := gl.CreateProgram()
	if h == 0 {
		return 0, fmt.Errorf("gl: CreateProgram failed")
	}
	return backend.Handle(h), nil
}

// AttachShader attaches a compiled shader object to the program.
func (b *Backend) AttachShader(program, shader backend.Handle) error {
	gl.AttachShader(uint32(program), uint32(shader))
	return nil
}

// LinkProgram links the program and reports success.
func (b *Backend) LinkProgram(program backend.Handle) bool {
	gl.LinkProgram(uint32(program))
	var status int32
	gl.GetProgramiv(uint32(program), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

// LinkLog returns the program's info log.
func (b *Backend) LinkLog(program backend.Handle) string {
	var logLength int32
	gl.GetProgramiv(uint32(program), gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	msg := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(uint32(program), logLength, nil, gl.Str(msg))
	return strings.TrimRight(msg, "\x00")
}

// DeleteProgram deletes the program object.
func (b *Backend) DeleteProgram(program backend.Handle) {
	gl.DeleteProgram(uint32(program))
}

// UseProgram makes program the active program.
func (b *Backend) UseProgram(program backend.Handle) error {
	gl.UseProgram(uint32(program))
	return nil
}

// ResetProgram unbinds the active program.
func (b *Backend) ResetProgram() {
	gl.UseProgram(0)
}

// ActiveUniformCount returns the program's active uniform count.
func (b *Backend) ActiveUniformCount(program backend.Handle) int {
	var count int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_UNIFORMS, &count)
	return int(count)
}

// ActiveUniform returns reflection info for the active uniform at index.
// Array uniforms reflect under their base name, without the "[0]" suffix GL
// appends.
func (b *Backend) ActiveUniform(program backend.Handle, index int) (backend.UniformInfo, error) {
	var length, size int32
	var xtype uint32
	buf := strings.Repeat("\x00", 256)
	gl.GetActiveUniform(uint32(program), uint32(index), 255, &length, &size, &xtype, gl.Str(buf))
	if length == 0 {
		return backend.UniformInfo{}, fmt.Errorf("gl: no active uniform at index %d", index)
	}
	name := strings.TrimSuffix(buf[:length], "[0]")
	return backend.UniformInfo{Name: name, Kind: kindOf(xtype), Size: int(size)}, nil
}

// UniformLocation returns the named uniform's location, -1 when absent.
func (b *Backend) UniformLocation(program backend.Handle, name string) backend.Location {
	return backend.Location(gl.GetUniformLocation(uint32(program), gl.Str(name+"\x00")))
}

// SetUniform uploads a value to location on the active program.
func (b *Backend) SetUniform(location backend.Location, v backend.Value) error {
	loc := int32(location)
	switch v.Kind() {
	case backend.KindBool:
		var i int32
		if v.Bool() {
			i = 1
		}
		gl.Uniform1i(loc, i)
	case backend.KindInt:
		gl.Uniform1i(loc, v.Int())
	case backend.KindUint:
		gl.Uniform1ui(loc, v.Uint())
	case backend.KindFloat:
		gl.Uniform1f(loc, v.Float())
	case backend.KindVec2:
		f := v.Floats()
		gl.Uniform2fv(loc, 1, &f[0])
	case backend.KindVec3:
		f := v.Floats()
		gl.Uniform3fv(loc, 1, &f[0])
	case backend.KindVec4:
		f := v.Floats()
		gl.Uniform4fv(loc, 1, &f[0])
	case backend.KindMat3:
		f := v.Floats()
		gl.UniformMatrix3fv(loc, 1, false, &f[0])
	case backend.KindMat4:
		f := v.Floats()
		gl.UniformMatrix4fv(loc, 1, false, &f[0])
	default:
		return backend.ErrUnsupportedValue
	}
	return nil
}

// ActiveAttributeCount returns the program's active attribute count.
func (b *Backend) ActiveAttributeCount(program backend.Handle) int {
	var count int32
	gl.GetProgramiv(uint32(program), gl.ACTIVE_ATTRIBUTES, &count)
	return int(count)
}

// ActiveAttribute returns reflection info for the active attribute at index.
func (b *Backend) ActiveAttribute(program backend.Handle, index int) (backend.AttributeInfo, error) {
	var length, size int32
	var xtype uint32
	buf := strings.Repeat("\x00", 256)
	gl.GetActiveAttrib(uint32(program), uint32(index), 255, &length, &size, &xtype, gl.Str(buf))
	if length == 0 {
		return backend.AttributeInfo{}, fmt.Errorf("gl: no active attribute at index %d", index)
	}
	return backend.AttributeInfo{Name: buf[:length], Kind: kindOf(xtype), Size: int(size)}, nil
}

// AttributeLocation returns the named attribute's location, -1 when absent.
func (b *Backend) AttributeLocation(program backend.Handle, name string) backend.Location {
	return backend.Location(gl.GetAttribLocation(uint32(program), gl.Str(name+"\x00")))
}

// EnableAttribute enables the vertex attribute array at location.
func (b *Backend) EnableAttribute(location backend.Location) {
	gl.EnableVertexAttribArray(uint32(location))
}

// DisableAttribute disables the vertex attribute array at location.
func (b *Backend) DisableAttribute(location backend.Location) {
	gl.DisableVertexAttribArray(uint32(location))
}

// BindAttribute points the attribute at the bound array buffer with the
// given layout. Component data is float.
func (b *Backend) BindAttribute(location backend.Location, layout backend.AttributeLayout) error {
	if layout.Components < 1 || layout.Components > 4 {
		return fmt.Errorf("gl: attribute component count %d out of range", layout.Components)
	}
	gl.VertexAttribPointerWithOffset(uint32(location), int32(layout.Components), gl.FLOAT,
		layout.Normalized, int32(layout.Stride), uintptr(layout.Offset))
	return nil
}

// kindOf maps a GL type enum from reflection to a value kind. Sampler types
// map to KindInt; they are set with a texture unit index.
func kindOf(xtype uint32) backend.ValueKind {
	switch xtype {
	case gl.BOOL:
		return backend.KindBool
	case gl.INT, gl.SAMPLER_2D, gl.SAMPLER_3D, gl.SAMPLER_CUBE, gl.SAMPLER_2D_SHADOW:
		return backend.KindInt
	case gl.UNSIGNED_INT:
		return backend.KindUint
	case gl.FLOAT:
		return backend.KindFloat
	case gl.FLOAT_VEC2:
		return backend.KindVec2
	case gl.FLOAT_VEC3:
		return backend.KindVec3
	case gl.FLOAT_VEC4:
		return backend.KindVec4
	case gl.FLOAT_MAT3:
		return backend.KindMat3
	case gl.FLOAT_MAT4:
		return backend.KindMat4
	default:
		return backend.KindStruct
	}
}
