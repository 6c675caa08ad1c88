// Package validator implements the construction-time capability gate: given
// a live backend and a profile, it decides whether the backend supplies
// every operation component each resource kind requires. Validation is a
// pure check with no side effects; a failure prevents the pipeline.Device —
// and therefore every resource type — from being constructed.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/passagegfx/passage/graphics/backend"
)

// Resource names a resource kind whose operation requirements are validated.
type Resource string

const (
	ResourceShader    Resource = "shader"
	ResourcePass      Resource = "pass"
	ResourcePipeline  Resource = "pipeline"
	ResourceUniform   Resource = "uniform"
	ResourceAttribute Resource = "attribute"
)

// Resources lists every validated resource kind.
var Resources = []Resource{
	ResourceShader,
	ResourcePass,
	ResourcePipeline,
	ResourceUniform,
	ResourceAttribute,
}

// requirements maps each resource kind to the operations it invokes.
// Whether a listed operation may be absent is decided by the profile
// descriptor, not here.
var requirements = map[Resource][]backend.Operation{
	ResourceShader: {
		backend.OpShaderLoader,
		backend.OpShaderFreer,
	},
	ResourcePass: {
		backend.OpPassLoader,
		backend.OpPassAttacher,
		backend.OpPassFreer,
		backend.OpPassUser,
		backend.OpPassUniformReader,
		backend.OpPassAttribReader,
	},
	ResourcePipeline: {
		backend.OpPipelineUser,
		backend.OpPipelineResetter,
	},
	ResourceUniform: {
		backend.OpUniformSetter,
	},
	ResourceAttribute: {
		backend.OpAttributeBinder,
		backend.OpAttributeUnbinder,
	},
}

// supplies maps each operation to the interface check that detects whether a
// backend value supplies it.
var supplies = map[backend.Operation]func(b backend.Backend) bool{
	backend.OpShaderLoader:      func(b backend.Backend) bool { _, ok := b.(backend.ShaderCompiler); return ok },
	backend.OpShaderFreer:       func(b backend.Backend) bool { _, ok := b.(backend.ShaderCompiler); return ok },
	backend.OpPassLoader:        func(b backend.Backend) bool { _, ok := b.(backend.ProgramLinker); return ok },
	backend.OpPassAttacher:      func(b backend.Backend) bool { _, ok := b.(backend.ProgramLinker); return ok },
	backend.OpPassFreer:         func(b backend.Backend) bool { _, ok := b.(backend.ProgramLinker); return ok },
	backend.OpPassUser:          func(b backend.Backend) bool { _, ok := b.(backend.ProgramUser); return ok },
	backend.OpPassUniformReader: func(b backend.Backend) bool { _, ok := b.(backend.UniformReflector); return ok },
	backend.OpPassAttribReader:  func(b backend.Backend) bool { _, ok := b.(backend.AttributeReflector); return ok },
	backend.OpPipelineUser:      func(b backend.Backend) bool { _, ok := b.(backend.ProgramUser); return ok },
	backend.OpPipelineResetter:  func(b backend.Backend) bool { _, ok := b.(backend.ProgramResetter); return ok },
	backend.OpUniformSetter:     func(b backend.Backend) bool { _, ok := b.(backend.UniformSetter); return ok },
	backend.OpAttributeBinder:   func(b backend.Backend) bool { _, ok := b.(backend.AttributeBinder); return ok },
	backend.OpAttributeUnbinder: func(b backend.Backend) bool { _, ok := b.(backend.AttributeBinder); return ok },
}

// ValidationError reports a backend+profile pair that fails capability
// validation. It is the only failure that occurs before any resource exists.
type ValidationError struct {
	// Backend is the backend's name.
	Backend string

	// Profile is the profile being validated.
	Profile backend.Profile

	// Resource is the resource kind whose requirements were not met, or
	// empty when the profile itself is unsupported.
	Resource Resource

	// Missing lists the required operations the backend does not supply.
	Missing []backend.Operation
}

func (e *ValidationError) Error() string {
	if len(e.Missing) == 0 {
		return fmt.Sprintf("validator: backend %q does not support profile %q", e.Backend, e.Profile)
	}
	ops := make([]string, len(e.Missing))
	for i, op := range e.Missing {
		ops[i] = string(op)
	}
	return fmt.Sprintf("validator: backend %q profile %q: %s is missing required operations: %s",
		e.Backend, e.Profile, e.Resource, strings.Join(ops, ", "))
}

// Describe resolves the descriptor a backend declares for profile. Backends
// that do not implement backend.Profiled, and profiles a backend does not
// declare, both fail with a *ValidationError.
func Describe(b backend.Backend, profile backend.Profile) (backend.Descriptor, error) {
	p, ok := b.(backend.Profiled)
	if !ok {
		return backend.Descriptor{}, &ValidationError{Backend: b.Name(), Profile: profile}
	}
	desc, ok := p.Describe(profile)
	if !ok {
		return backend.Descriptor{}, &ValidationError{Backend: b.Name(), Profile: profile}
	}
	return desc, nil
}

// ValidateResource checks that b supplies every operation the resource kind
// requires under desc. Operations the profile declares optional may be
// absent; everything else missing is collected into a *ValidationError.
func ValidateResource(b backend.Backend, desc backend.Descriptor, r Resource) error {
	var missing []backend.Operation
	for _, op := range requirements[r] {
		if desc.Optional(op) {
			continue
		}
		check, ok := supplies[op]
		if !ok || !check(b) {
			missing = append(missing, op)
		}
	}
	if len(missing) > 0 {
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return &ValidationError{Backend: b.Name(), Profile: desc.Profile, Resource: r, Missing: missing}
	}
	return nil
}

// Validate runs ValidateResource for every resource kind against the
// descriptor b declares for profile. The first failure is returned.
func Validate(b backend.Backend, profile backend.Profile) error {
	desc, err := Describe(b, profile)
	if err != nil {
		return err
	}
	for _, r := range Resources {
		if err := ValidateResource(b, desc, r); err != nil {
			return err
		}
	}
	return nil
}
