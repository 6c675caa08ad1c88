// Package pipeline implements the shader resource lifecycle: Device (the
// capability-validated resource factory), Shader (one compiled shader
// unit), Pass (a linked program with reflected uniform/attribute bindings),
// and Pipeline (an ordered pass sequence with an activation cursor).
//
// All operations are synchronous and single-threaded: a Load, Use, or Free
// call either completes or returns a typed error before returning, and no
// locking is performed. Backend handles are assumed bound to one graphics
// context accessed from exactly one thread.
package pipeline

import (
	"log/slog"

	"github.com/passagegfx/passage"
	"github.com/passagegfx/passage/graphics/backend"
	"github.com/passagegfx/passage/graphics/source"
	"github.com/passagegfx/passage/graphics/validator"
)

// Device is the validated factory for every resource type. NewDevice runs
// capability validation for the backend+profile pair once; resources
// constructed from a Device can assume every required operation is present
// and every absent operation was declared optional by the profile.
type Device struct {
	b       backend.Backend
	profile backend.Profile
	desc    backend.Descriptor
	reader  source.Reader
	log     *slog.Logger

	// Operation components resolved once at construction. A nil field means
	// the profile declared the operation optional and the backend lacks it;
	// resources skip such operations silently.
	compiler backend.ShaderCompiler
	linker   backend.ProgramLinker
	user     backend.ProgramUser
	resetter backend.ProgramResetter
	uniforms backend.UniformReflector
	setter   backend.UniformSetter
	attribs  backend.AttributeReflector
	binder   backend.AttributeBinder
}

// DeviceOption configures a Device.
type DeviceOption func(*Device)

// WithReader selects the shader source reader (default: source.FileReader).
func WithReader(r source.Reader) DeviceOption {
	return func(d *Device) {
		if r != nil {
			d.reader = r
		}
	}
}

// WithLogger overrides the logger used for suppressed teardown errors
// (default: the module logger, see passage.SetLogger).
func WithLogger(l *slog.Logger) DeviceOption {
	return func(d *Device) {
		if l != nil {
			d.log = l
		}
	}
}

// NewDevice validates the backend+profile pair and returns the resource
// factory bound to it. Validation failure returns a
// *validator.ValidationError and no resource type can be constructed.
//
// Parameters:
//   - b: the graphics backend (must not be nil, must be initialized by the caller)
//   - profile: the profile to validate the backend against
//   - options: functional options to further configure the device
//
// Returns:
//   - *Device: the validated resource factory
//   - error: a *validator.ValidationError if the pair fails validation
func NewDevice(b backend.Backend, profile backend.Profile, options ...DeviceOption) (*Device, error) {
	if b == nil {
		panic("pipeline: NewDevice requires a non-nil Backend")
	}
	desc, err := validator.Describe(b, profile)
	if err != nil {
		return nil, err
	}
	for _, r := range validator.Resources {
		if err := validator.ValidateResource(b, desc, r); err != nil {
			return nil, err
		}
	}

	d := &Device{
		b:       b,
		profile: profile,
		desc:    desc,
		reader:  source.FileReader{},
		log:     passage.Logger(),
	}
	for _, option := range options {
		option(d)
	}

	d.compiler, _ = b.(backend.ShaderCompiler)
	d.linker, _ = b.(backend.ProgramLinker)
	d.user, _ = b.(backend.ProgramUser)
	d.resetter, _ = b.(backend.ProgramResetter)
	d.uniforms, _ = b.(backend.UniformReflector)
	d.setter, _ = b.(backend.UniformSetter)
	d.attribs, _ = b.(backend.AttributeReflector)
	d.binder, _ = b.(backend.AttributeBinder)

	return d, nil
}

// Backend returns the backend this device is bound to.
func (d *Device) Backend() backend.Backend { return d.b }

// Profile returns the profile this device was validated against.
func (d *Device) Profile() backend.Profile { return d.profile }

// Descriptor returns the profile descriptor the backend declared.
func (d *Device) Descriptor() backend.Descriptor { return d.desc }
