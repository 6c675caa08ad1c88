package pipeline

import "github.com/passagegfx/passage/graphics/backend"

// passResource is the implementation of the Pass interface. A pass owns its
// shaders, exactly one backend program handle for its lifetime, and the
// uniform/attribute bindings reflected from the linked program.
type passResource struct {
	dev        *Device
	shaders    []Shader
	program    backend.Handle
	uniforms   map[string]*Uniform
	attributes map[string]*Attribute
	freed      bool
}

// Pass is a linked, executable program formed from one or more shader
// resources, plus its reflected uniform/attribute bindings. A pass links its
// program exactly once, at construction; see Device.NewPass.
type Pass interface {
	// Shaders returns the pass's shader resources in attach order. After a
	// successful link the individual shader handles are freed; the program
	// retains the compiled code.
	Shaders() []Shader

	// Program returns the backend program handle, 0 after Free.
	Program() backend.Handle

	// Uniforms returns the reflected uniform bindings keyed by name.
	Uniforms() map[string]*Uniform

	// Attributes returns the reflected attribute bindings keyed by name.
	Attributes() map[string]*Attribute

	// Uniform looks up a reflected uniform by name.
	Uniform(name string) (*Uniform, bool)

	// Attribute looks up a reflected attribute by name.
	Attribute(name string) (*Attribute, bool)

	// WithUniform sets the named uniform's value. A lookup miss returns a
	// *UniformNotFoundError whose message names the miss; the uniform map is
	// unchanged. Typed set failures come back from Uniform.Set unchanged.
	WithUniform(name string, value any) error

	// WithAttribute enables the named attribute and binds a vertex data
	// layout to it. A lookup miss returns an *AttributeNotFoundError.
	WithAttribute(name string, layout backend.AttributeLayout) error

	// Use makes the pass's program the active program. A pass whose program
	// has been freed returns an *InvalidContextError.
	Use() error

	// Free deletes the program handle. Idempotent: a second Free is a no-op.
	Free() error

	// Close frees the pass and logs — never returns — any teardown failure.
	// Callers that need the error call Free directly.
	Close()
}

var _ Pass = &passResource{}

// NewPass creates a pass from an ordered, non-empty shader set and
// immediately loads it: each shader is loaded, a program is created, the
// compiled shaders are attached and linked, the shader handles are freed,
// and the program's active uniforms and attributes are reflected into the
// pass's binding maps.
//
// On any failure every handle allocated so far is freed before the error is
// returned: shader load failure frees the already-loaded shaders, link
// failure frees the program and all shaders and returns a *LinkError
// carrying the backend's diagnostic log.
//
// Parameters:
//   - shaders: the shader resources to link, in attach order (must not be empty)
//
// Returns:
//   - Pass: the linked pass
//   - error: the typed failure, with no handles leaked
func (d *Device) NewPass(shaders ...Shader) (Pass, error) {
	if len(shaders) == 0 {
		return nil, ErrNoShaders
	}
	p := &passResource{
		dev:        d,
		shaders:    shaders,
		uniforms:   make(map[string]*Uniform),
		attributes: make(map[string]*Attribute),
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

// load runs the link flow once. Called only from NewPass.
func (p *passResource) load() error {
	for i, s := range p.shaders {
		if err := s.Load(); err != nil {
			for _, loaded := range p.shaders[:i] {
				_ = loaded.Free()
			}
			return err
		}
	}

	program, err := p.dev.linker.CreateProgram()
	if err != nil {
		p.freeShaders()
		return err
	}
	for _, s := range p.shaders {
		if err := p.dev.linker.AttachShader(program, s.Handle()); err != nil {
			p.dev.linker.DeleteProgram(program)
			p.freeShaders()
			return err
		}
	}

	if !p.dev.linker.LinkProgram(program) {
		log := p.dev.linker.LinkLog(program)
		p.dev.linker.DeleteProgram(program)
		p.freeShaders()
		return &LinkError{Log: log}
	}

	// The program retains the compiled code independent of the shader
	// objects, so the individual handles are freed right after a successful
	// link.
	p.freeShaders()
	p.program = program

	p.reflectUniforms()
	p.reflectAttributes()
	p.dev.log.Debug("pass linked", "program", uint32(program),
		"uniforms", len(p.uniforms), "attributes", len(p.attributes))
	return nil
}

func (p *passResource) freeShaders() {
	for _, s := range p.shaders {
		_ = s.Free()
	}
}

func (p *passResource) reflectUniforms() {
	count := p.dev.uniforms.ActiveUniformCount(p.program)
	for i := 0; i < count; i++ {
		info, err := p.dev.uniforms.ActiveUniform(p.program, i)
		if err != nil {
			continue
		}
		p.uniforms[info.Name] = &Uniform{
			name:     info.Name,
			kind:     info.Kind,
			size:     info.Size,
			location: p.dev.uniforms.UniformLocation(p.program, info.Name),
			setter:   p.dev.setter,
		}
	}
}

func (p *passResource) reflectAttributes() {
	// The attribute reader may be declared optional by the profile; a
	// backend without it leaves the attribute map empty.
	if p.dev.attribs == nil {
		return
	}
	count := p.dev.attribs.ActiveAttributeCount(p.program)
	for i := 0; i < count; i++ {
		info, err := p.dev.attribs.ActiveAttribute(p.program, i)
		if err != nil {
			continue
		}
		p.attributes[info.Name] = &Attribute{
			name:     info.Name,
			kind:     info.Kind,
			size:     info.Size,
			location: p.dev.attribs.AttributeLocation(p.program, info.Name),
			binder:   p.dev.binder,
		}
	}
}

func (p *passResource) Shaders() []Shader { return p.shaders }

func (p *passResource) Program() backend.Handle { return p.program }

func (p *passResource) Uniforms() map[string]*Uniform { return p.uniforms }

func (p *passResource) Attributes() map[string]*Attribute { return p.attributes }

func (p *passResource) Uniform(name string) (*Uniform, bool) {
	u, ok := p.uniforms[name]
	return u, ok
}

func (p *passResource) Attribute(name string) (*Attribute, bool) {
	a, ok := p.attributes[name]
	return a, ok
}

func (p *passResource) WithUniform(name string, value any) error {
	u, ok := p.uniforms[name]
	if !ok {
		return &UniformNotFoundError{Name: name}
	}
	return u.Set(value)
}

func (p *passResource) WithAttribute(name string, layout backend.AttributeLayout) error {
	a, ok := p.attributes[name]
	if !ok {
		return &AttributeNotFoundError{Name: name}
	}
	a.Enable()
	return a.Bind(layout)
}

func (p *passResource) Use() error {
	if p.program == 0 {
		return &InvalidContextError{Op: "pass.use"}
	}
	return p.dev.user.UseProgram(p.program)
}

func (p *passResource) Free() error {
	if p.freed {
		return nil
	}
	if p.program != 0 {
		p.dev.linker.DeleteProgram(p.program)
		p.program = 0
	}
	p.freed = true
	return nil
}

func (p *passResource) Close() {
	if err := p.Free(); err != nil {
		p.dev.log.Warn("pass teardown failed", "error", err)
	}
}
