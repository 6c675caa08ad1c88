package pipeline_test

import (
	"github.com/passagegfx/passage/graphics/backend"
)

// mockBackend is a recording in-memory backend supplying the full operation
// set. Handles are allocated from 1. Compile and link failures are opt-in
// per test via the fail fields.
type mockBackend struct {
	next backend.Handle

	createdShaders  []backend.Handle
	deletedShaders  []backend.Handle
	createdPrograms []backend.Handle
	deletedPrograms []backend.Handle

	sources  map[backend.Handle]string
	stages   map[backend.Handle]backend.ShaderStage
	attached map[backend.Handle][]backend.Handle

	failCompile map[backend.ShaderStage]bool
	compileLog  string
	failLink    bool
	linkLog     string

	used   []backend.Handle
	resets int

	uniforms   []backend.UniformInfo
	attributes []backend.AttributeInfo

	setValues   map[backend.Location]backend.Value
	rejectKinds map[backend.ValueKind]bool

	enabled  []backend.Location
	disabled []backend.Location
	bound    map[backend.Location]backend.AttributeLayout
}

var (
	_ backend.Backend            = (*mockBackend)(nil)
	_ backend.Profiled           = (*mockBackend)(nil)
	_ backend.ShaderCompiler     = (*mockBackend)(nil)
	_ backend.ProgramLinker      = (*mockBackend)(nil)
	_ backend.ProgramUser        = (*mockBackend)(nil)
	_ backend.ProgramResetter    = (*mockBackend)(nil)
	_ backend.UniformReflector   = (*mockBackend)(nil)
	_ backend.UniformSetter      = (*mockBackend)(nil)
	_ backend.AttributeReflector = (*mockBackend)(nil)
	_ backend.AttributeBinder    = (*mockBackend)(nil)
)

func newMockBackend() *mockBackend {
	return &mockBackend{
		next:        1,
		sources:     make(map[backend.Handle]string),
		stages:      make(map[backend.Handle]backend.ShaderStage),
		attached:    make(map[backend.Handle][]backend.Handle),
		failCompile: make(map[backend.ShaderStage]bool),
		setValues:   make(map[backend.Location]backend.Value),
		rejectKinds: make(map[backend.ValueKind]bool),
		bound:       make(map[backend.Location]backend.AttributeLayout),
	}
}

func (m *mockBackend) Name() string { return "mock" }
func (m *mockBackend) Init() error  { return nil }
func (m *mockBackend) Close()       {}

func (m *mockBackend) Describe(p backend.Profile) (backend.Descriptor, bool) {
	switch p {
	case backend.ProfileCore:
		return backend.Descriptor{Profile: p}, true
	case backend.ProfileHeadless:
		return backend.Descriptor{
			Profile: p,
			Operations: map[backend.Operation]backend.Presence{
				backend.OpAttributeBinder:   backend.Optional,
				backend.OpAttributeUnbinder: backend.Optional,
			},
		}, true
	default:
		return backend.Descriptor{}, false
	}
}

func (m *mockBackend) alloc() backend.Handle {
	h := m.next
	m.next++
	return h
}

func (m *mockBackend) CreateShader(stage backend.ShaderStage) (backend.Handle, error) {
	h := m.alloc()
	m.createdShaders = append(m.createdShaders, h)
	m.stages[h] = stage
	return h, nil
}

func (m *mockBackend) ShaderSource(shader backend.Handle, src string) error {
	m.sources[shader] = src
	return nil
}

func (m *mockBackend) CompileShader(shader backend.Handle) bool {
	return !m.failCompile[m.stages[shader]]
}

func (m *mockBackend) CompileLog(shader backend.Handle) string { return m.compileLog }

func (m *mockBackend) DeleteShader(shader backend.Handle) {
	m.deletedShaders = append(m.deletedShaders, shader)
}

func (m *mockBackend) CreateProgram() (backend.Handle, error) {
	h := m.alloc()
	m.createdPrograms = append(m.createdPrograms, h)
	return h, nil
}

func (m *mockBackend) AttachShader(program, shader backend.Handle) error {
	m.attached[program] = append(m.attached[program], shader)
	return nil
}

func (m *mockBackend) LinkProgram(program backend.Handle) bool { return !m.failLink }

func (m *mockBackend) LinkLog(program backend.Handle) string { return m.linkLog }

func (m *mockBackend) DeleteProgram(program backend.Handle) {
	m.deletedPrograms = append(m.deletedPrograms, program)
}

func (m *mockBackend) UseProgram(program backend.Handle) error {
	m.used = append(m.used, program)
	return nil
}

func (m *mockBackend) ResetProgram() { m.resets++ }

func (m *mockBackend) ActiveUniformCount(program backend.Handle) int { return len(m.uniforms) }

func (m *mockBackend) ActiveUniform(program backend.Handle, index int) (backend.UniformInfo, error) {
	return m.uniforms[index], nil
}

func (m *mockBackend) UniformLocation(program backend.Handle, name string) backend.Location {
	for i, u := range m.uniforms {
		if u.Name == name {
			return backend.Location(i)
		}
	}
	return -1
}

func (m *mockBackend) SetUniform(location backend.Location, v backend.Value) error {
	if m.rejectKinds[v.Kind()] {
		return backend.ErrUnsupportedValue
	}
	m.setValues[location] = v
	return nil
}

func (m *mockBackend) ActiveAttributeCount(program backend.Handle) int { return len(m.attributes) }

func (m *mockBackend) ActiveAttribute(program backend.Handle, index int) (backend.AttributeInfo, error) {
	return m.attributes[index], nil
}

func (m *mockBackend) AttributeLocation(program backend.Handle, name string) backend.Location {
	for i, a := range m.attributes {
		if a.Name == name {
			return backend.Location(i)
		}
	}
	return -1
}

func (m *mockBackend) EnableAttribute(location backend.Location) {
	m.enabled = append(m.enabled, location)
}

func (m *mockBackend) DisableAttribute(location backend.Location) {
	m.disabled = append(m.disabled, location)
}

func (m *mockBackend) BindAttribute(location backend.Location, layout backend.AttributeLayout) error {
	m.bound[location] = layout
	return nil
}

// bareBackend supplies no operation interfaces at all; it declares the CORE
// profile so validation proceeds to the per-resource checks and fails there.
type bareBackend struct {
	backend.Backend
}

func (bareBackend) Describe(p backend.Profile) (backend.Descriptor, bool) {
	if p != backend.ProfileCore {
		return backend.Descriptor{}, false
	}
	return backend.Descriptor{Profile: p}, true
}

// unprofiledBackend does not implement backend.Profiled.
type unprofiledBackend struct{}

func (unprofiledBackend) Name() string { return "unprofiled" }
func (unprofiledBackend) Init() error  { return nil }
func (unprofiledBackend) Close()       {}

// headlessBackend wraps a mock but hides its attribute binder, the shape of
// a backend with no vertex stream.
type headlessBackend struct {
	backend.Backend
	backend.ShaderCompiler
	backend.ProgramLinker
	backend.ProgramUser
	backend.ProgramResetter
	backend.UniformReflector
	backend.UniformSetter
	backend.AttributeReflector
}

func newHeadlessBackend(m *mockBackend) *headlessBackend {
	return &headlessBackend{
		Backend:            m,
		ShaderCompiler:     m,
		ProgramLinker:      m,
		ProgramUser:        m,
		ProgramResetter:    m,
		UniformReflector:   m,
		UniformSetter:      m,
		AttributeReflector: m,
	}
}

func (h *headlessBackend) Describe(p backend.Profile) (backend.Descriptor, bool) {
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
