package pipeline

// pipelineResource is the implementation of the Pipeline interface: an
// ordered pass sequence and a cursor selecting the currently active pass.
type pipelineResource struct {
	dev     *Device
	passes  []Pass
	current int
}

// Pipeline is an ordered sequence of passes with a single "currently
// active" cursor. The cursor is always in [-1, PassCount()-1]; -1 means
// "not activated / reset".
type Pipeline interface {
	// Use sets the cursor to index and activates that pass. The index is
	// the caller's responsibility: out-of-range indices panic.
	Use(index int) error

	// HasNext reports whether a pass remains after the cursor.
	HasNext() bool

	// UseNext advances the cursor by one and activates that pass, returning
	// HasNext() after the advance — true while more passes remain. When no
	// pass remains it resets the pipeline and returns false.
	UseNext() (bool, error)

	// Reset returns the cursor to -1 and invokes the backend's reset hook,
	// clearing any binding state associated with "no active pass".
	Reset()

	// Pass returns the pass at index.
	Pass(index int) Pass

	// PassCount returns the number of passes.
	PassCount() int

	// Current returns the cursor position, -1 when reset.
	Current() int
}

var _ Pipeline = &pipelineResource{}

// NewPipeline creates a pipeline over an ordered pass sequence. The passes
// are already linked (pass construction links); the pipeline only manages
// activation order. The cursor starts at -1.
//
// Parameters:
//   - passes: the passes in activation order
//
// Returns:
//   - Pipeline: the pipeline with its cursor reset
func (d *Device) NewPipeline(passes ...Pass) Pipeline {
	return &pipelineResource{
		dev:     d,
		passes:  passes,
		current: -1,
	}
}

func (p *pipelineResource) Use(index int) error {
	pass := p.passes[index]
	p.current = index
	return pass.Use()
}

func (p *pipelineResource) HasNext() bool {
	return p.current+1 < len(p.passes)
}

func (p *pipelineResource) UseNext() (bool, error) {
	if p.HasNext() {
		if err := p.Use(p.current + 1); err != nil {
			return p.HasNext(), err
		}
		return p.HasNext(), nil
	}
	p.Reset()
	return false, nil
}

func (p *pipelineResource) Reset() {
	p.current = -1
	if p.dev.resetter != nil {
		p.dev.resetter.ResetProgram()
	}
}

func (p *pipelineResource) Pass(index int) Pass {
	return p.passes[index]
}

func (p *pipelineResource) PassCount() int {
	return len(p.passes)
}

func (p *pipelineResource) Current() int {
	return p.current
}
