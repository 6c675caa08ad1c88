// Package passage is a backend-agnostic shader resource lifecycle framework.
//
// passage manages the multi-stage creation, linking, activation, and teardown
// of shader units, linked shader programs ("passes"), and ordered sequences of
// passes ("pipelines"). Before any resource is touched, a capability validator
// verifies that the chosen backend+profile combination exposes every operation
// the resource types require, so a misconfigured backend is rejected at
// construction time rather than mid-frame.
//
// The core packages are:
//
//   - graphics/backend: the graphics API collaborator interface, split into
//     narrow operation interfaces (compile, link, reflect, activate, set),
//     plus profile descriptors and a named backend registry.
//   - graphics/validator: the construction-time capability validation gate.
//   - graphics/pipeline: the resource types themselves — Device (the
//     validated factory), Shader, Pass, Pipeline, and the reflected
//     Uniform/Attribute bindings.
//   - graphics/source: the filesystem collaborator for shader source, with
//     caching and batch prefetching.
//
// Concrete backends live under graphics/backend: soft (pure Go, compiles
// WGSL via naga — the default for tests and headless use), gl (OpenGL 4.1
// core), and webgpu (WebGPU shader modules).
package passage
