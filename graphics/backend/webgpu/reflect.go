package webgpu

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/passagegfx/passage/graphics/backend"
)

var (
	// lineCommentRegex matches // comments to end of line
	lineCommentRegex = regexp.MustCompile(`//[^\n]*`)

	// blockCommentRegex matches /* ... */ comments, non-nested
	blockCommentRegex = regexp.MustCompile(`(?s)/\*.*?\*/`)

	// structBlockRegex matches struct declarations and captures the name and body
	structBlockRegex = regexp.MustCompile(`struct\s+(\w+)\s*\{([^}]*)\}`)

	// uniformDeclRegex captures group, binding, name, and type from
	// declarations like: @group(0) @binding(1) var<uniform> tint: vec4<f32>;
	uniformDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var<uniform>\s+(\w+)\s*:\s*([^;]+?)\s*;`)

	// locationFieldRegex captures location index, name, and type from a
	// @location(N) declaration, either a struct field or a parameter
	locationFieldRegex = regexp.MustCompile(`@location\((\d+)\)\s*(\w+)\s*:\s*([\w<>]+)`)

	// entryRegexes capture the entry point name per stage attribute
	vertexEntryRegex   = regexp.MustCompile(`(?s)@vertex\b.*?\bfn\s+(\w+)\s*\(([^)]*)\)`)
	fragmentEntryRegex = regexp.MustCompile(`(?s)@fragment\b.*?\bfn\s+(\w+)`)
	computeEntryRegex  = regexp.MustCompile(`(?s)@compute\b.*?\bfn\s+(\w+)`)

	// paramStructRegex matches a plain parameter "name: Type" with no attributes
	paramStructRegex = regexp.MustCompile(`^(\w+)\s*:\s*(\w+)$`)

	// arrayTypeRegex captures element type and length from array<T, N>
	arrayTypeRegex = regexp.MustCompile(`^array<\s*(.+?)\s*,\s*(\d+)\s*>$`)
)

// wgslKindMap maps WGSL value type spellings to value kinds. Both the
// template and shorthand spellings are listed.
var wgslKindMap = map[string]backend.ValueKind{
	"bool":        backend.KindBool,
	"i32":         backend.KindInt,
	"u32":         backend.KindUint,
	"f32":         backend.KindFloat,
	"vec2<f32>":   backend.KindVec2,
	"vec2f":       backend.KindVec2,
	"vec3<f32>":   backend.KindVec3,
	"vec3f":       backend.KindVec3,
	"vec4<f32>":   backend.KindVec4,
	"vec4f":       backend.KindVec4,
	"mat3x3<f32>": backend.KindMat3,
	"mat3x3f":     backend.KindMat3,
	"mat4x4<f32>": backend.KindMat4,
	"mat4x4f":     backend.KindMat4,
}

func stripComments(source string) string {
	return lineCommentRegex.ReplaceAllString(blockCommentRegex.ReplaceAllString(source, ""), "")
}

// kindOf resolves a WGSL type spelling to a value kind and element count.
// Unrecognized spellings (struct names, texture types) resolve to KindStruct.
func kindOf(typeName string) (backend.ValueKind, int) {
	typeName = strings.TrimSpace(typeName)
	if m := arrayTypeRegex.FindStringSubmatch(typeName); m != nil {
		kind, _ := kindOf(m[1])
		n, _ := strconv.Atoi(m[2])
		return kind, n
	}
	if kind, ok := wgslKindMap[typeName]; ok {
		return kind, 1
	}
	return backend.KindStruct, 1
}

// hasEntryPoint reports whether source declares an entry point for stage.
// WGSL has no geometry or tessellation stages.
func hasEntryPoint(source string, stage backend.ShaderStage) bool {
	cleaned := stripComments(source)
	switch stage {
	case backend.StageVertex:
		return vertexEntryRegex.MatchString(cleaned)
	case backend.StageFragment:
		return fragmentEntryRegex.MatchString(cleaned)
	case backend.StageCompute:
		return computeEntryRegex.MatchString(cleaned)
	default:
		return false
	}
}

// reflectUniforms extracts var<uniform> declarations from the sources and
// returns them ordered by (group, binding), with locations assigned in that
// order. Duplicate names across stages collapse to the first declaration.
func reflectUniforms(sources []string) ([]backend.UniformInfo, map[string]backend.Location) {
	type entry struct {
		info           backend.UniformInfo
		group, binding int
	}
	var entries []entry
	seen := make(map[string]bool)

	for _, src := range sources {
		cleaned := stripComments(src)
		for _, m := range uniformDeclRegex.FindAllStringSubmatch(cleaned, -1) {
			group, _ := strconv.Atoi(m[1])
			binding, _ := strconv.Atoi(m[2])
			name := m[3]
			if seen[name] {
				continue
			}
			seen[name] = true
			kind, size := kindOf(m[4])
			entries = append(entries, entry{
				info:  backend.UniformInfo{Name: name, Kind: kind, Size: size},
				group: group, binding: binding,
			})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].group != entries[j].group {
			return entries[i].group < entries[j].group
		}
		return entries[i].binding < entries[j].binding
	})

	infos := make([]backend.UniformInfo, 0, len(entries))
	locations := make(map[string]backend.Location, len(entries))
	for i, e := range entries {
		infos = append(infos, e.info)
		locations[e.info.Name] = backend.Location(i)
	}
	return infos, locations
}

// reflectAttributes extracts the vertex entry point's @location inputs from
// the sources, both direct parameters and fields of a struct parameter.
// Locations come from the @location indices.
func reflectAttributes(sources []string) ([]backend.AttributeInfo, map[string]backend.Location) {
	var infos []backend.AttributeInfo
	locations := make(map[string]backend.Location)

	add := func(name, typeName string, loc int) {
		if _, ok := locations[name]; ok {
			return
		}
		kind, size := kindOf(typeName)
		infos = append(infos, backend.AttributeInfo{Name: name, Kind: kind, Size: size})
		locations[name] = backend.Location(loc)
	}

	for _, src := range sources {
		cleaned := stripComments(src)
		m := vertexEntryRegex.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		params := m[2]

		for _, f := range locationFieldRegex.FindAllStringSubmatch(params, -1) {
			loc, _ := strconv.Atoi(f[1])
			add(f[2], f[3], loc)
		}

		// A bare struct-typed parameter pulls in that struct's located fields.
		structs := make(map[string]string)
		for _, s := range structBlockRegex.FindAllStringSubmatch(cleaned, -1) {
			structs[s[1]] = s[2]
		}
		for _, param := range strings.Split(params, ",") {
			pm := paramStructRegex.FindStringSubmatch(strings.TrimSpace(param))
			if pm == nil {
				continue
			}
			body, ok := structs[pm[2]]
			if !ok {
				continue
			}
			for _, f := range locationFieldRegex.FindAllStringSubmatch(body, -1) {
				loc, _ := strconv.Atoi(f[1])
				add(f[2], f[3], loc)
			}
		}
	}
	return infos, locations
}
