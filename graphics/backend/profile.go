package backend

// Profile names a variant of operation behavior selected per backend. A
// backend+profile pair is chosen once per device build; the profile's
// descriptor declares which operations the resource types will use and
// whether each is required or optional for that profile.
type Profile string

const (
	// ProfileCore is the full desktop profile: every operation required,
	// including attribute binding. The gl backend supports it.
	ProfileCore Profile = "core"

	// ProfileHeadless targets offscreen and test use: attribute binding is
	// optional since no vertex data is ever bound. The soft backend
	// supports it.
	ProfileHeadless Profile = "headless"

	// ProfileModern targets WebGPU-shaped backends: attribute binding and
	// the program reset hook are optional (bindings travel in pipeline
	// descriptors, and "no active pass" has no API-level representation).
	ProfileModern Profile = "modern"
)

// Operation names one operation component a resource kind depends on.
type Operation string

const (
	OpShaderLoader       Operation = "shader.loader"
	OpShaderFreer        Operation = "shader.freer"
	OpPassLoader         Operation = "pass.loader"
	OpPassAttacher       Operation = "pass.attacher"
	OpPassFreer          Operation = "pass.freer"
	OpPassUser           Operation = "pass.user"
	OpPassUniformReader  Operation = "pass.uniform-reader"
	OpPassAttribReader   Operation = "pass.attribute-reader"
	OpPipelineUser       Operation = "pipeline.user"
	OpPipelineResetter   Operation = "pipeline.resetter"
	OpUniformSetter      Operation = "uniform.setter"
	OpAttributeBinder    Operation = "attribute.binder"
	OpAttributeUnbinder  Operation = "attribute.unbinder"
)

// Presence states whether a profile requires an operation or merely uses it
// when the backend happens to supply it.
type Presence uint8

const (
	// Required operations must be supplied by the backend; a missing
	// required operation fails capability validation.
	Required Presence = iota

	// Optional operations may be absent; resources silently skip them.
	// Optionality is always an explicit per-profile declaration.
	Optional
)

// Descriptor declares, for one profile, the presence of every operation the
// resource types may invoke. Operations not listed default to Required.
type Descriptor struct {
	// Profile is the profile this descriptor describes.
	Profile Profile

	// Operations maps each operation to its declared presence.
	Operations map[Operation]Presence
}

// Presence returns the declared presence for op. Undeclared operations are
// Required.
func (d Descriptor) Presence(op Operation) Presence {
	if p, ok := d.Operations[op]; ok {
		return p
	}
	return Required
}

// Optional reports whether op is declared optional for this profile.
func (d Descriptor) Optional(op Operation) bool {
	return d.Presence(op) == Optional
}
