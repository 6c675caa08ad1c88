package pipeline_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passagegfx/passage/graphics/backend"
	"github.com/passagegfx/passage/graphics/pipeline"
	"github.com/passagegfx/passage/graphics/source"
)

func TestShaderLoadFirstHandleIsOne(t *testing.T) {
	m := newMockBackend()
	dev := newDevice(t, m, backend.ProfileCore, map[string]string{"a.vert": "void main() {}"})

	s := dev.NewShader("a.vert", backend.StageVertex)
	assert.Equal(t, pipeline.StateUnloaded, s.State())
	require.NoError(t, s.Load())

	assert.Equal(t, backend.Handle(1), s.Handle())
	assert.Equal(t, pipeline.StateCompiled, s.State())
	assert.Equal(t, "void main() {}", s.Source())
}

func TestShaderLoadReadsSourceOnce(t *testing.T) {
	m := newMockBackend()
	reader := source.NewMapReader(map[string]string{"a.vert": "void main() {}"})
	dev, err := pipeline.NewDevice(m, backend.ProfileCore, pipeline.WithReader(reader))
	require.NoError(t, err)

	s := dev.NewShader("a.vert", backend.StageVertex)
	require.NoError(t, s.Load())
	require.NoError(t, s.Load())

	assert.Equal(t, 1, reader.Reads["a.vert"], "source must be read exactly once")
}

func TestShaderReloadReplacesHandle(t *testing.T) {
	m := newMockBackend()
	dev := newDevice(t, m, backend.ProfileCore, map[string]string{"a.vert": "void main() {}"})

	s := dev.NewShader("a.vert", backend.StageVertex)
	require.NoError(t, s.Load())
	first := s.Handle()
	require.NoError(t, s.Load())

	assert.NotEqual(t, first, s.Handle())
	assert.Contains(t, m.deletedShaders, first, "the replaced handle must be deleted")
}

func TestShaderLoadCompileFailure(t *testing.T) {
	m := newMockBackend()
	m.failCompile[backend.StageFragment] = true
	m.compileLog = "0:1: syntax error"
	dev := newDevice(t, m, backend.ProfileCore, map[string]string{"bad.frag": "garbage"})

	s := dev.NewShader("bad.frag", backend.StageFragment)
	err := s.Load()

	var cerr *pipeline.CompilationError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, backend.StageFragment, cerr.Stage)
	assert.Equal(t, "0:1: syntax error", cerr.Log)
	assert.Contains(t, err.Error(), "COMPILATION_FAILED")
	assert.Contains(t, err.Error(), "0:1: syntax error")

	assert.Equal(t, backend.Handle(0), s.Handle())
	assert.Equal(t, m.createdShaders, m.deletedShaders, "the failed handle must not leak")
}

func TestShaderLoadReadFailure(t *testing.T) {
	m := newMockBackend()
	dev := newDevice(t, m, backend.ProfileCore, nil)

	s := dev.NewShader("missing.vert", backend.StageVertex)
	err := s.Load()

	var rerr *source.ReadError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, "missing.vert", rerr.Path)
	assert.Empty(t, m.createdShaders, "nothing may be allocated when the read fails")
}

func TestShaderFree(t *testing.T) {
	m := newMockBackend()
	dev := newDevice(t, m, backend.ProfileCore, map[string]string{"a.vert": "src"})

	s := dev.NewShader("a.vert", backend.StageVertex)
	require.NoError(t, s.Load())
	h := s.Handle()

	require.NoError(t, s.Free())
	assert.Equal(t, pipeline.StateFreed, s.State())
	assert.Equal(t, backend.Handle(0), s.Handle())
	assert.Contains(t, m.deletedShaders, h)

	deletions := len(m.deletedShaders)
	require.NoError(t, s.Free())
	assert.Len(t, m.deletedShaders, deletions, "a second Free must not touch the backend")
}

func TestShaderLoadAfterFree(t *testing.T) {
	m := newMockBackend()
	dev := newDevice(t, m, backend.ProfileCore, map[string]string{"a.vert": "src"})

	s := dev.NewShader("a.vert", backend.StageVertex)
	require.NoError(t, s.Load())
	require.NoError(t, s.Free())

	var ierr *pipeline.InvalidContextError
	require.ErrorAs(t, s.Load(), &ierr)
}
