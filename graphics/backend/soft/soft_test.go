package soft_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/passagegfx/passage/graphics/backend"
	"github.com/passagegfx/passage/graphics/backend/soft"
)

const vertexSrc = `
@vertex
fn vs_main(
    @location(0) position: vec2<f32>,
    @location(1) uv: vec2<f32>,
) -> @builtin(position) vec4<f32> {
    return vec4<f32>(position + uv, 0.0, 1.0);
}
`

const fragmentSrc = `
@group(0) @binding(0) var<uniform> tint: vec4<f32>;

@fragment
fn fs_main() -> @location(0) vec4<f32> {
    return tint;
}
`

func newBackend(t *testing.T) *soft.Backend {
	t.Helper()
	b := soft.New()
	require.NoError(t, b.Init())
	t.Cleanup(b.Close)
	return b
}

func compile(t *testing.T, b *soft.Backend, stage backend.ShaderStage, src string) backend.Handle {
	t.Helper()
	h, err := b.CreateShader(stage)
	require.NoError(t, err)
	require.NoError(t, b.ShaderSource(h, src))
	require.True(t, b.CompileShader(h), "compile log: %s", b.CompileLog(h))
	return h
}

func link(t *testing.T, b *soft.Backend) backend.Handle {
	t.Helper()
	vs := compile(t, b, backend.StageVertex, vertexSrc)
	fs := compile(t, b, backend.StageFragment, fragmentSrc)
	prog, err := b.CreateProgram()
	require.NoError(t, err)
	require.NoError(t, b.AttachShader(prog, vs))
	require.NoError(t, b.AttachShader(prog, fs))
	require.True(t, b.LinkProgram(prog), "link log: %s", b.LinkLog(prog))
	return prog
}

func TestHandlesStartAtOne(t *testing.T) {
	b := newBackend(t)

	h, err := b.CreateShader(backend.StageVertex)
	require.NoError(t, err)
	assert.Equal(t, backend.Handle(1), h)

	prog, err := b.CreateProgram()
	require.NoError(t, err)
	assert.Equal(t, backend.Handle(2), prog)
}

func TestUninitializedCreateFails(t *testing.T) {
	b := soft.New()

	_, err := b.CreateShader(backend.StageVertex)
	assert.ErrorIs(t, err, backend.ErrNotInitialized)

	_, err = b.CreateProgram()
	assert.ErrorIs(t, err, backend.ErrNotInitialized)
}

func TestCompileAndLink(t *testing.T) {
	b := newBackend(t)
	prog := link(t, b)

	require.Equal(t, 1, b.ActiveUniformCount(prog))
	info, err := b.ActiveUniform(prog, 0)
	require.NoError(t, err)
	assert.Equal(t, "tint", info.Name)
	assert.Equal(t, backend.KindVec4, info.Kind)
	assert.Equal(t, 1, info.Size)
	assert.Equal(t, backend.Location(0), b.UniformLocation(prog, "tint"))
	assert.Equal(t, backend.Location(-1), b.UniformLocation(prog, "missing"))

	require.Equal(t, 2, b.ActiveAttributeCount(prog))
	pos, err := b.ActiveAttribute(prog, 0)
	require.NoError(t, err)
	assert.Equal(t, "position", pos.Name)
	assert.Equal(t, backend.KindVec2, pos.Kind)
	assert.Equal(t, backend.Location(0), b.AttributeLocation(prog, "position"))
	assert.Equal(t, backend.Location(1), b.AttributeLocation(prog, "uv"))
}

func TestStructVertexInputReflection(t *testing.T) {
	const src = `
struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> @builtin(position) vec4<f32> {
    return vec4<f32>(in.position + in.normal, 1.0);
}
`
	b := newBackend(t)
	vs := compile(t, b, backend.StageVertex, src)
	fs := compile(t, b, backend.StageFragment, fragmentSrc)
	prog, err := b.CreateProgram()
	require.NoError(t, err)
	require.NoError(t, b.AttachShader(prog, vs))
	require.NoError(t, b.AttachShader(prog, fs))
	require.True(t, b.LinkProgram(prog), "link log: %s", b.LinkLog(prog))

	require.Equal(t, 2, b.ActiveAttributeCount(prog))
	assert.Equal(t, backend.Location(0), b.AttributeLocation(prog, "position"))
	assert.Equal(t, backend.Location(1), b.AttributeLocation(prog, "normal"))
	info, err := b.ActiveAttribute(prog, 1)
	require.NoError(t, err)
	assert.Equal(t, backend.KindVec3, info.Kind)
}

func TestCompileFailureHasLog(t *testing.T) {
	b := newBackend(t)
	h, err := b.CreateShader(backend.StageVertex)
	require.NoError(t, err)
	require.NoError(t, b.ShaderSource(h, "fn broken( {"))

	assert.False(t, b.CompileShader(h))
	assert.NotEmpty(t, b.CompileLog(h))
}

func TestCompileWrongEntryPoint(t *testing.T) {
	b := newBackend(t)
	h, err := b.CreateShader(backend.StageFragment)
	require.NoError(t, err)
	require.NoError(t, b.ShaderSource(h, vertexSrc))

	assert.False(t, b.CompileShader(h))
	assert.Contains(t, b.CompileLog(h), "no fragment entry point")
}

func TestCompileUnsupportedStage(t *testing.T) {
	b := newBackend(t)
	h, err := b.CreateShader(backend.StageGeometry)
	require.NoError(t, err)
	require.NoError(t, b.ShaderSource(h, vertexSrc))

	assert.False(t, b.CompileShader(h))
	assert.Contains(t, b.CompileLog(h), "not supported")
}

func TestLinkRequiresStagePair(t *testing.T) {
	b := newBackend(t)
	vs := compile(t, b, backend.StageVertex, vertexSrc)
	prog, err := b.CreateProgram()
	require.NoError(t, err)
	require.NoError(t, b.AttachShader(prog, vs))

	assert.False(t, b.LinkProgram(prog))
	assert.NotEmpty(t, b.LinkLog(prog))
}

func TestLinkComputeOnly(t *testing.T) {
	const src = `
@compute @workgroup_size(1)
fn main(@builtin(global_invocation_id) id: vec3<u32>) {
}
`
	b := newBackend(t)
	cs := compile(t, b, backend.StageCompute, src)
	prog, err := b.CreateProgram()
	require.NoError(t, err)
	require.NoError(t, b.AttachShader(prog, cs))

	assert.True(t, b.LinkProgram(prog), "link log: %s", b.LinkLog(prog))
}

func TestUseAndSetUniform(t *testing.T) {
	b := newBackend(t)
	prog := link(t, b)

	err := b.SetUniform(0, backend.Vec4([4]float32{1, 0, 0, 1}))
	require.Error(t, err, "set without an active program must fail")

	require.NoError(t, b.UseProgram(prog))
	assert.Equal(t, prog, b.Current())

	loc := b.UniformLocation(prog, "tint")
	require.NoError(t, b.SetUniform(loc, backend.Vec4([4]float32{1, 0, 0, 1})))
	v, ok := b.UniformValue(loc)
	require.True(t, ok)
	assert.Equal(t, backend.KindVec4, v.Kind())
	assert.Equal(t, []float32{1, 0, 0, 1}, v.Floats())

	assert.ErrorIs(t, b.SetUniform(loc, backend.Value{}), backend.ErrUnsupportedValue)

	b.ResetProgram()
	assert.Equal(t, backend.Handle(0), b.Current())
}

func TestUseUnlinkedProgramFails(t *testing.T) {
	b := newBackend(t)
	prog, err := b.CreateProgram()
	require.NoError(t, err)

	assert.Error(t, b.UseProgram(prog))
	assert.Error(t, b.UseProgram(backend.Handle(99)))
}

func TestDeleteIsForgiving(t *testing.T) {
	b := newBackend(t)
	prog := link(t, b)
	require.NoError(t, b.UseProgram(prog))

	b.DeleteProgram(prog)
	assert.Equal(t, backend.Handle(0), b.Current())
	b.DeleteProgram(prog)
	b.DeleteShader(backend.Handle(42))
}

func TestDescribe(t *testing.T) {
	b := soft.New()

	desc, ok := b.Describe(backend.ProfileHeadless)
	require.True(t, ok)
	assert.True(t, desc.Optional(backend.OpAttributeBinder))
	assert.True(t, desc.Optional(backend.OpAttributeUnbinder))
	assert.Equal(t, backend.Required, desc.Presence(backend.OpShaderLoader))

	_, ok = b.Describe(backend.ProfileCore)
	assert.False(t, ok)
}

func TestRegistered(t *testing.T) {
	assert.True(t, backend.IsRegistered("soft"))
	b, err := backend.Get("soft")
	require.NoError(t, err)
	assert.Equal(t, "soft", b.Name())
}
