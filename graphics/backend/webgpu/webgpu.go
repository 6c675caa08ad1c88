// Package webgpu is the WebGPU backend, built on the wgpu-native bindings.
// Shader source is WGSL; compiling creates a real shader module on the GPU
// device, so malformed source is rejected by the native compiler. Programs
// group the modules per stage and reflect uniforms and vertex attributes
// from the WGSL text, the same way render pipeline creation derives its
// bind group and vertex buffer layouts.
//
// WebGPU has no program unbind and no client-side attribute pointers, so
// the backend omits the reset and attribute binding operations and supports
// the MODERN profile, which declares both optional.
package webgpu

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/passagegfx/passage/graphics/backend"
)

func init() {
	backend.Register("webgpu", func() backend.Backend { return New() })
}

type shaderObject struct {
	stage  backend.ShaderStage
	source string
	module *wgpu.ShaderModule
	log    string
}

type programObject struct {
	sources []string
	stages  []backend.ShaderStage
	linked  bool
	log     string

	uniforms   []backend.UniformInfo
	uniformLoc map[string]backend.Location
	attributes []backend.AttributeInfo
	attribLoc  map[string]backend.Location

	// values stages uniform uploads until a render pipeline binds them.
	values map[backend.Location]backend.Value
}

// Backend drives a WebGPU device without a surface. Not safe for concurrent
// use.
type Backend struct {
	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	next     backend.Handle
	shaders  map[backend.Handle]*shaderObject
	programs map[backend.Handle]*programObject
	current  backend.Handle
}

var (
	_ backend.Backend            = (*Backend)(nil)
	_ backend.Profiled           = (*Backend)(nil)
	_ backend.ShaderCompiler     = (*Backend)(nil)
	_ backend.ProgramLinker      = (*Backend)(nil)
	_ backend.ProgramUser        = (*Backend)(nil)
	_ backend.UniformReflector   = (*Backend)(nil)
	_ backend.UniformSetter      = (*Backend)(nil)
	_ backend.AttributeReflector = (*Backend)(nil)
)

// New creates an uninitialized WebGPU backend. The first allocated handle
// is 1.
func New() *Backend {
	return &Backend{
		next:     1,
		shaders:  make(map[backend.Handle]*shaderObject),
		programs: make(map[backend.Handle]*programObject),
	}
}

// Name returns "webgpu".
func (b *Backend) Name() string { return "webgpu" }

// Init creates the instance and requests an adapter and device. No surface
// is attached; shader compilation and reflection work offscreen.
func (b *Backend) Init() error {
	b.instance = wgpu.CreateInstance(nil)

	adapter, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{})
	if err != nil {
		return fmt.Errorf("webgpu: request adapter: %w", err)
	}
	b.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "passage",
	})
	if err != nil {
		return fmt.Errorf("webgpu: request device: %w", err)
	}
	b.device = device
	b.queue = device.GetQueue()
	return nil
}

// Close releases every shader module and the device chain.
func (b *Backend) Close() {
	for h, obj := range b.shaders {
		if obj.module != nil {
			obj.module.Release()
		}
		delete(b.shaders, h)
	}
	b.programs = make(map[backend.Handle]*programObject)
	b.current = 0
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
	b.queue = nil
}

// Describe declares support for the MODERN profile with attribute binding
// and program reset optional.
func (b *Backend) Describe(p backend.Profile) (backend.Descriptor, bool) {
	if p != backend.ProfileModern {
		return backend.Descriptor{}, false
	}
	return backend.Descriptor{
		Profile: p,
		Operations: map[backend.Operation]backend.Presence{
			backend.OpAttributeBinder:   backend.Optional,
			backend.OpAttributeUnbinder: backend.Optional,
			backend.OpPipelineResetter:  backend.Optional,
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
	if b.device == nil {
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

// CompileShader creates a shader module from the stored WGSL source and
// verifies an entry point for the shader's stage exists.
func (b *Backend) CompileShader(shader backend.Handle) bool {
	obj, ok := b.shaders[shader]
	if !ok {
		return false
	}
	if obj.module != nil {
		obj.module.Release()
		obj.module = nil
	}

	if !hasEntryPoint(obj.source, obj.stage) {
		switch obj.stage {
		case backend.StageVertex, backend.StageFragment, backend.StageCompute:
			obj.log = fmt.Sprintf("webgpu: source has no %s entry point", obj.stage)
		default:
			obj.log = fmt.Sprintf("webgpu: %s shaders are not supported by this backend", obj.stage)
		}
		return false
	}

	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fmt.Sprintf("shader-%d", shader),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: obj.source,
		},
	})
	if err != nil {
		obj.log = err.Error()
		return false
	}

	obj.module = module
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

// DeleteShader releases the shader module and deletes the object. Unknown
// handles are a no-op.
func (b *Backend) DeleteShader(shader backend.Handle) {
	if obj, ok := b.shaders[shader]; ok && obj.module != nil {
		obj.module.Release()
	}
	delete(b.shaders, shader)
}

// CreateProgram allocates a program object.
func (b *Backend) CreateProgram() (backend.Handle, error) {
	if b.device == nil {
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

// AttachShader attaches a compiled shader's source to the program. Linking
// and reflection work from the WGSL text, so deleting the shader afterwards
// does not unlink it.
func (b *Backend) AttachShader(program, shader backend.Handle) error {
	prog, ok := b.programs[program]
	if !ok {
		return backend.ErrUnknownHandle
	}
	obj, ok := b.shaders[shader]
	if !ok {
		return backend.ErrUnknownHandle
	}
	if obj.module == nil {
		return fmt.Errorf("webgpu: attach of uncompiled shader %d", shader)
	}
	prog.sources = append(prog.sources, obj.source)
	prog.stages = append(prog.stages, obj.stage)
	return nil
}

// LinkProgram verifies stage completeness (vertex+fragment, or a single
// compute module) and reflects uniforms and attributes from the WGSL text.
func (b *Backend) LinkProgram(program backend.Handle) bool {
	prog, ok := b.programs[program]
	if !ok {
		return false
	}
	prog.linked = false

	if len(prog.sources) == 0 {
		prog.log = "webgpu: no shaders attached"
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
	case hasCompute && len(prog.sources) == 1:
	default:
		prog.log = "webgpu: program requires a vertex and a fragment shader, or exactly one compute shader"
		return false
	}

	prog.uniforms, prog.uniformLoc = reflectUniforms(prog.sources)
	prog.attributes, prog.attribLoc = reflectAttributes(prog.sources)
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
		return fmt.Errorf("webgpu: use of unlinked program %d", program)
	}
	b.current = program
	return nil
}

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
		return backend.UniformInfo{}, fmt.Errorf("webgpu: uniform index %d out of range", index)
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

// SetUniform stages a value for the active program.
// TODO: write staged values into a uniform buffer via queue.WriteBuffer once
// render pipeline creation lands.
func (b *Backend) SetUniform(location backend.Location, v backend.Value) error {
	if b.current == 0 {
		return fmt.Errorf("webgpu: SetUniform with no active program")
	}
	switch v.Kind() {
	case backend.KindInvalid, backend.KindStruct:
		return backend.ErrUnsupportedValue
	}
	b.programs[b.current].values[location] = v
	return nil
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
		return backend.AttributeInfo{}, fmt.Errorf("webgpu: attribute index %d out of range", index)
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
