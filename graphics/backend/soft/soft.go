// Package soft is a pure-Go graphics backend. Shader source is WGSL and
// "compiling" really compiles: the source is parsed, lowered, and validated
// with the naga shader compiler, and the diagnostic log on failure is the
// naga error text. Linking checks stage completeness and reflects uniforms
// and vertex attributes out of the naga IR. No GPU or display is touched,
// which makes soft the default backend for tests and headless tools.
//
// soft supplies every operation except attribute binding (there is no
// vertex stream to bind), so it supports the HEADLESS profile, which
// declares the attribute binder optional. Handles are allocated from 1.
package soft

import (
	"fmt"
	"sort"

	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"

	"github.com/passagegfx/passage/graphics/backend"
)

func init() {
	backend.Register("soft", func() backend.Backend { return New() })
}

type shaderObject struct {
	stage    backend.ShaderStage
	source   string
	module   *ir.Module
	log      string
	compiled bool
}

type programObject struct {
	modules []*ir.Module
	stages  []backend.ShaderStage
	linked  bool
	log     string

	uniforms   []backend.UniformInfo
	uniformLoc map[string]backend.Location
	attributes []backend.AttributeInfo
	attribLoc  map[string]backend.Location

	// values records uploaded uniform values by location.
	values map[backend.Location]backend.Value
}

// Backend is the pure-Go WGSL backend. Not safe for concurrent use; like a
// real graphics context it belongs to one thread.
type Backend struct {
	initialized bool
	next        backend.Handle
	shaders     map[backend.Handle]*shaderObject
	programs    map[backend.Handle]*programObject
	current     backend.Handle
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
)

// New creates an uninitialized soft backend. The first allocated handle is 1.
func New() *Backend {
	return &Backend{
		next:     1,
		shaders:  make(map[backend.Handle]*shaderObject),
		programs: make(map[backend.Handle]*programObject),
	}
}

// Name returns "soft".
func (b *Backend) Name() string { return "soft" }

// Init marks the backend ready. It never fails.
func (b *Backend) Init() error {
	b.initialized = true
	return nil
}

// Close drops every live object.
func (b *Backend) Close() {
	b.shaders = make(map[backend.Handle]*shaderObject)
	b.programs = make(map[backend.Handle]*programObject)
	b.current = 0
	b.initialized = false
}

// Describe declares support for the HEADLESS profile with attribute binding
// optional.
func (b *Backend) Describe(p backend.Profile) (backend.Descriptor, bool) {
	if p != backend.ProfileHeadless {
		return backend.Descriptor{}, false
	}
	return backend.Descriptor{
		Profile: p,
		Operations: map[backend.Operation]backend.Presence{
			backend.OpAttributeBinder:   backend.Optional,
			backend.OpAttributeUnbinder: backend.Optional,
		},
	}, true
}

func (b *Backend) alloc() backend.Handle {
	h := b.next
	b.next++
	return h
}

// CreateShader allocates a shader object for stage.
func (b *Backend) CreateShader(stage backend.ShaderStage) (backend.Handle, error) {
	if !b.initialized {
		return 0, backend.ErrNotInitialized
	}
	h := b.alloc()
	b.shaders[h] = &shaderObject{stage: stage}
	return h, nil
}

// ShaderSource stores WGSL source on the shader object.
func (b *Backend) ShaderSource(shader backend.Handle, src string) error {
	obj, ok := b.shaders[shader]
	if !ok {
		return backend.ErrUnknownHandle
	}
	obj.source = src
	return nil
}

// CompileShader parses, lowers, and validates the WGSL source and verifies
// an entry point for the shader's stage exists. On failure the diagnostic
// is retrievable via CompileLog.
func (b *Backend) CompileShader(shader backend.Handle) bool {
	obj, ok := b.shaders[shader]
	if !ok {
		return false
	}
	obj.compiled = false
	obj.module = nil

	irStage, ok := irStageFor(obj.stage)
	if !ok {
		obj.log = fmt.Sprintf("soft: %s shaders are not supported by this backend", obj.stage)
		return false
	}

	ast, err := naga.Parse(obj.source)
	if err != nil {
		obj.log = err.Error()
		return false
	}
	mod, err := naga.LowerWithSource(ast, obj.source)
	if err != nil {
		obj.log = err.Error()
		return false
	}
	verrs, err := naga.Validate(mod)
	if err != nil {
		obj.log = err.Error()
		return false
	}
	if len(verrs) > 0 {
		obj.log = verrs[0].Error()
		return false
	}

	found := false
	for _, ep := range mod.EntryPoints {
		if ep.Stage == irStage {
			found = true
			break
		}
	}
	if !found {
		obj.log = fmt.Sprintf("soft: source has no %s entry point", obj.stage)
		return false
	}

	obj.module = mod
	obj.compiled = true
	obj.log = ""
	return true
}

// CompileLog returns the diagnostic from the last compile.
func (b *Backend) CompileLog(shader backend.Handle) string {
	if obj, ok := b.shaders[shader]; ok {
		return obj.log
	}
	return ""
}

// DeleteShader deletes the shader object. Unknown handles are a no-op.
func (b *Backend) DeleteShader(shader backend.Handle) {
	delete(b.shaders, shader)
}

// CreateProgram allocates a program object.
func (b *Backend) CreateProgram() (backend.Handle, error) {
	if !b.initialized {
		return 0, backend.ErrNotInitialized
	}
	h := b.alloc()
	b.programs[h] = &programObject{
		uniformLoc: make(map[string]backend.Location),
		attribLoc:  make(map[string]backend.Location),
		values:     make(map[backend.Location]backend.Value),
	}
	return h, nil
}

// AttachShader attaches a compiled shader's module to the program.
func (b *Backend) AttachShader(program, shader backend.Handle) error {
	prog, ok := b.programs[program]
	if !ok {
		return backend.ErrUnknownHandle
	}
	obj, ok := b.shaders[shader]
	if !ok {
		return backend.ErrUnknownHandle
	}
	if !obj.compiled {
		return fmt.Errorf("soft: attach of uncompiled shader %d", shader)
	}
	prog.modules = append(prog.modules, obj.module)
	prog.stages = append(prog.stages, obj.stage)
	return nil
}

// LinkProgram verifies stage completeness (vertex+fragment, or a single
// compute module) and reflects uniforms and attributes from the IR.
func (b *Backend) LinkProgram(program backend.Handle) bool {
	prog, ok := b.programs[program]
	if !ok {
		return false
	}
	prog.linked = false

	if len(prog.modules) == 0 {
		prog.log = "soft: no shaders attached"
		return false
	}

	var hasVertex, hasFragment, hasCompute bool
	for _, stage := range prog.stages {
		switch stage {
		case backend.StageVertex:
			hasVertex = true
		case backend.StageFragment:
			hasFragment = true
		case backend.StageCompute:
			hasCompute = true
		}
	}
	switch {
	case hasVertex && hasFragment:
	case hasCompute && len(prog.modules) == 1:
	default:
		prog.log = "soft: program requires a vertex and a fragment shader, or exactly one compute shader"
		return false
	}

	prog.reflect()
	prog.linked = true
	prog.log = ""
	return true
}

// LinkLog returns the diagnostic from the last link.
func (b *Backend) LinkLog(program backend.Handle) string {
	if prog, ok := b.programs[program]; ok {
		return prog.log
	}
	return ""
}

// DeleteProgram deletes the program object. Unknown handles are a no-op.
func (b *Backend) DeleteProgram(program backend.Handle) {
	if b.current == program {
		b.current = 0
	}
	delete(b.programs, program)
}

// UseProgram makes program current.
func (b *Backend) UseProgram(program backend.Handle) error {
	prog, ok := b.programs[program]
	if !ok {
		return backend.ErrUnknownHandle
	}
	if !prog.linked {
		return fmt.Errorf("soft: use of unlinked program %d", program)
	}
	b.current = program
	return nil
}

// ResetProgram clears the current program.
func (b *Backend) ResetProgram() {
	b.current = 0
}

// Current returns the currently active program handle, 0 when reset.
func (b *Backend) Current() backend.Handle { return b.current }

// ActiveUniformCount returns the number of reflected uniforms.
func (b *Backend) ActiveUniformCount(program backend.Handle) int {
	if prog, ok := b.programs[program]; ok {
		return len(prog.uniforms)
	}
	return 0
}

// ActiveUniform returns the reflected uniform at index.
func (b *Backend) ActiveUniform(program backend.Handle, index int) (backend.UniformInfo, error) {
	prog, ok := b.programs[program]
	if !ok {
		return backend.UniformInfo{}, backend.ErrUnknownHandle
	}
	if index < 0 || index >= len(prog.uniforms) {
		return backend.UniformInfo{}, fmt.Errorf("soft: uniform index %d out of range", index)
	}
	return prog.uniforms[index], nil
}

// UniformLocation returns the named uniform's location, or -1.
func (b *Backend) UniformLocation(program backend.Handle, name string) backend.Location {
	if prog, ok := b.programs[program]; ok {
		if loc, ok := prog.uniformLoc[name]; ok {
			return loc
		}
	}
	return -1
}

// SetUniform records a value for the active program. Aggregate kinds have
// no scalar setter.
func (b *Backend) SetUniform(location backend.Location, v backend.Value) error {
	if b.current == 0 {
		return fmt.Errorf("soft: SetUniform with no active program")
	}
	switch v.Kind() {
	case backend.KindInvalid, backend.KindStruct:
		return backend.ErrUnsupportedValue
	}
	b.programs[b.current].values[location] = v
	return nil
}

// UniformValue returns the recorded value at location on the active
// program. Tests and headless tools use this to observe uploads.
func (b *Backend) UniformValue(location backend.Location) (backend.Value, bool) {
	if b.current == 0 {
		return backend.Value{}, false
	}
	v, ok := b.programs[b.current].values[location]
	return v, ok
}

// ActiveAttributeCount returns the number of reflected vertex attributes.
func (b *Backend) ActiveAttributeCount(program backend.Handle) int {
	if prog, ok := b.programs[program]; ok {
		return len(prog.attributes)
	}
	return 0
}

// ActiveAttribute returns the reflected attribute at index.
func (b *Backend) ActiveAttribute(program backend.Handle, index int) (backend.AttributeInfo, error) {
	prog, ok := b.programs[program]
	if !ok {
		return backend.AttributeInfo{}, backend.ErrUnknownHandle
	}
	if index < 0 || index >= len(prog.attributes) {
		return backend.AttributeInfo{}, fmt.Errorf("soft: attribute index %d out of range", index)
	}
	return prog.attributes[index], nil
}

// AttributeLocation returns the named attribute's location, or -1.
func (b *Backend) AttributeLocation(program backend.Handle, name string) backend.Location {
	if prog, ok := b.programs[program]; ok {
		if loc, ok := prog.attribLoc[name]; ok {
			return loc
		}
	}
	return -1
}

func irStageFor(stage backend.ShaderStage) (ir.ShaderStage, bool) {
	switch stage {
	case backend.StageVertex:
		return ir.StageVertex, true
	case backend.StageFragment:
		return ir.StageFragment, true
	case backend.StageCompute:
		return ir.StageCompute, true
	default:
		// WGSL has no geometry or tessellation stages.
		return 0, false
	}
}

// reflect populates the program's uniform and attribute tables from its
// modules. Uniforms are ordered by (group, binding) and locations are
// assigned in that order; attributes take their locations from @location
// declarations on the vertex entry point's arguments.
func (p *programObject) reflect() {
	type uniformEntry struct {
		info           backend.UniformInfo
		group, binding uint32
	}
	var entries []uniformEntry
	seen := make(map[string]bool)

	for _, mod := range p.modules {
		for _, gv := range mod.GlobalVariables {
			if gv.Space != ir.SpaceUniform || gv.Name == "" || seen[gv.Name] {
				continue
			}
			seen[gv.Name] = true
			kind, size := kindOf(mod, gv.Type)
			entry := uniformEntry{
				info: backend.UniformInfo{Name: gv.Name, Kind: kind, Size: size},
			}
			if gv.Binding != nil {
				entry.group = gv.Binding.Group
				entry.binding = gv.Binding.Binding
			}
			entries = append(entries, entry)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].group != entries[j].group {
			return entries[i].group < entries[j].group
		}
		return entries[i].binding < entries[j].binding
	})

	p.uniforms = p.uniforms[:0]
	for i, e := range entries {
		p.uniforms = append(p.uniforms, e.info)
		p.uniformLoc[e.info.Name] = backend.Location(i)
	}

	p.attributes = p.attributes[:0]
	for _, mod := range p.modules {
		for _, ep := range mod.EntryPoints {
			if ep.Stage != ir.StageVertex {
				continue
			}
			fn := ep.Function
			for _, arg := range fn.Arguments {
				p.reflectArgument(mod, arg)
			}
		}
	}
}

// reflectArgument records a vertex input argument: either a directly
// @location-bound scalar/vector, or a struct whose members carry locations.
func (p *programObject) reflectArgument(mod *ir.Module, arg ir.FunctionArgument) {
	if arg.Binding != nil {
		if lb, ok := (*arg.Binding).(ir.LocationBinding); ok {
			kind, size := kindOf(mod, arg.Type)
			p.addAttribute(arg.Name, kind, size, backend.Location(lb.Location))
		}
		return
	}
	st, ok := mod.Types[arg.Type].Inner.(ir.StructType)
	if !ok {
		return
	}
	for _, member := range st.Members {
		if member.Binding == nil {
			continue
		}
		if lb, ok := (*member.Binding).(ir.LocationBinding); ok {
			kind, size := kindOf(mod, member.Type)
			p.addAttribute(member.Name, kind, size, backend.Location(lb.Location))
		}
	}
}

func (p *programObject) addAttribute(name string, kind backend.ValueKind, size int, loc backend.Location) {
	if name == "" {
		return
	}
	if _, ok := p.attribLoc[name]; ok {
		return
	}
	p.attributes = append(p.attributes, backend.AttributeInfo{Name: name, Kind: kind, Size: size})
	p.attribLoc[name] = loc
}

// kindOf maps an IR type to a value kind and element count.
func kindOf(mod *ir.Module, th ir.TypeHandle) (backend.ValueKind, int) {
	switch inner := mod.Types[th].Inner.(type) {
	case ir.ScalarType:
		return scalarKind(inner.Kind), 1
	case ir.VectorType:
		switch inner.Size {
		case ir.Vec2:
			return backend.KindVec2, 1
		case ir.Vec3:
			return backend.KindVec3, 1
		default:
			return backend.KindVec4, 1
		}
	case ir.MatrixType:
		if inner.Columns == ir.Vec3 && inner.Rows == ir.Vec3 {
			return backend.KindMat3, 1
		}
		return backend.KindMat4, 1
	case ir.ArrayType:
		kind, _ := kindOf(mod, inner.Base)
		size := 1
		if inner.Size.Constant != nil {
			size = int(*inner.Size.Constant)
		}
		return kind, size
	case ir.StructType:
		return backend.KindStruct, 1
	default:
		return backend.KindStruct, 1
	}
}

func scalarKind(k ir.ScalarKind) backend.ValueKind {
	switch k {
	case ir.ScalarSint:
		return backend.KindInt
	case ir.ScalarUint:
		return backend.KindUint
	case ir.ScalarBool:
		return backend.KindBool
	default:
		return backend.KindFloat
	}
}
