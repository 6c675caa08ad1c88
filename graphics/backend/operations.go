package backend

// UniformInfo describes one active uniform reported by program reflection.
type UniformInfo struct {
	// Name is the uniform's name as declared in shader source.
	Name string

	// Kind is the uniform's value kind.
	Kind ValueKind

	// Size is the element count: 1 for non-arrays, the array length otherwise.
	Size int
}

// AttributeInfo describes one active vertex attribute reported by program
// reflection.
type AttributeInfo struct {
	// Name is the attribute's name as declared in shader source.
	Name string

	// Kind is the attribute's value kind.
	Kind ValueKind

	// Size is the element count: 1 for non-arrays, the array length otherwise.
	Size int
}

// AttributeLayout describes how vertex data is bound to an attribute
// location: component count per vertex, byte stride between consecutive
// vertices, byte offset of the first component, and whether integer data is
// normalized to [0,1] / [-1,1].
type AttributeLayout struct {
	Components int
	Stride     int
	Offset     int
	Normalized bool
}

// ShaderCompiler supplies the shader unit operations: create, source upload,
// compile, diagnostic log retrieval, delete.
type ShaderCompiler interface {
	// CreateShader allocates a shader object for the given stage.
	CreateShader(stage ShaderStage) (Handle, error)

	// ShaderSource uploads source code to a shader object.
	ShaderSource(shader Handle, src string) error

	// CompileShader compiles the shader object, returning false on failure.
	CompileShader(shader Handle) bool

	// CompileLog returns the diagnostic log from the last compile of shader.
	CompileLog(shader Handle) string

	// DeleteShader deletes the shader object. Deleting an unknown handle is a no-op.
	DeleteShader(shader Handle)
}

// ProgramLinker supplies the program operations: create, attach, link,
// diagnostic log retrieval, delete.
type ProgramLinker interface {
	// CreateProgram allocates a program object.
	CreateProgram() (Handle, error)

	// AttachShader attaches a compiled shader object to a program.
	AttachShader(program, shader Handle) error

	// LinkProgram links the program, returning false on failure.
	LinkProgram(program Handle) bool

	// LinkLog returns the diagnostic log from the last link of program.
	LinkLog(program Handle) string

	// DeleteProgram deletes the program object. Deleting an unknown handle is a no-op.
	DeleteProgram(program Handle)
}

// ProgramUser supplies program activation.
type ProgramUser interface {
	// UseProgram makes program the active program.
	UseProgram(program Handle) error
}

// ProgramResetter supplies the "no active pass" reset hook invoked by
// pipeline reset.
type ProgramResetter interface {
	// ResetProgram clears any backend binding state associated with the
	// active program.
	ResetProgram()
}

// UniformReflector supplies active-uniform reflection on a linked program.
type UniformReflector interface {
	// ActiveUniformCount returns the number of active uniforms in program.
	ActiveUniformCount(program Handle) int

	// ActiveUniform returns info for the active uniform at index.
	ActiveUniform(program Handle, index int) (UniformInfo, error)

	// UniformLocation returns the location of the named uniform, or -1.
	UniformLocation(program Handle, name string) Location
}

// UniformSetter supplies typed uniform value upload. Implementations return
// ErrUnsupportedValue for kinds they have no setter for.
type UniformSetter interface {
	SetUniform(location Location, v Value) error
}

// AttributeReflector supplies active-attribute reflection on a linked program.
type AttributeReflector interface {
	// ActiveAttributeCount returns the number of active attributes in program.
	ActiveAttributeCount(program Handle) int

	// ActiveAttribute returns info for the active attribute at index.
	ActiveAttribute(program Handle, index int) (AttributeInfo, error)

	// AttributeLocation returns the location of the named attribute, or -1.
	AttributeLocation(program Handle, name string) Location
}

// AttributeBinder supplies vertex attribute enable/disable and pointer
// binding.
type AttributeBinder interface {
	// EnableAttribute enables the vertex attribute array at location.
	EnableAttribute(location Location)

	// DisableAttribute disables the vertex attribute array at location.
	DisableAttribute(location Location)

	// BindAttribute binds vertex data layout to the attribute at location.
	BindAttribute(location Location, layout AttributeLayout) error
}
