package backend

// ValueKind tags the type of a uniform or attribute value. The kind of a
// binding is fixed the first time a value is set; later sets with a
// different kind are rejected without mutating the stored value.
type ValueKind uint8

const (
	// KindInvalid is the zero ValueKind; no value has been set.
	KindInvalid ValueKind = iota

	// KindBool is a single boolean.
	KindBool

	// KindInt is a single signed 32-bit integer. Sampler bindings reflect as
	// KindInt (they are set with a texture unit index).
	KindInt

	// KindUint is a single unsigned 32-bit integer.
	KindUint

	// KindFloat is a single 32-bit float.
	KindFloat

	// KindVec2 is a 2-component float vector.
	KindVec2

	// KindVec3 is a 3-component float vector.
	KindVec3

	// KindVec4 is a 4-component float vector.
	KindVec4

	// KindMat3 is a 3x3 float matrix in column-major order.
	KindMat3

	// KindMat4 is a 4x4 float matrix in column-major order.
	KindMat4

	// KindStruct is an opaque aggregate (e.g. a WGSL uniform block). Struct
	// bindings are reflected but have no scalar setter.
	KindStruct
)

// String returns the lowercase kind name.
func (k ValueKind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindUint:
		return "uint"
	case KindFloat:
		return "float"
	case KindVec2:
		return "vec2"
	case KindVec3:
		return "vec3"
	case KindVec4:
		return "vec4"
	case KindMat3:
		return "mat3"
	case KindMat4:
		return "mat4"
	case KindStruct:
		return "struct"
	default:
		return "invalid"
	}
}

// Components returns the float component count for float-payload kinds, and
// 0 for scalar bool/int/uint and aggregate kinds.
func (k ValueKind) Components() int {
	switch k {
	case KindFloat:
		return 1
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4:
		return 4
	case KindMat3:
		return 9
	case KindMat4:
		return 16
	default:
		return 0
	}
}

// Value is a type-erased uniform/attribute value: a kind tag plus an opaque
// payload. Values are immutable once constructed.
type Value struct {
	kind ValueKind
	f    [16]float32
	i    int32
	u    uint32
	b    bool
}

// Kind returns the value's kind tag.
func (v Value) Kind() ValueKind { return v.kind }

// Bool returns the boolean payload. Only meaningful for KindBool.
func (v Value) Bool() bool { return v.b }

// Int returns the signed integer payload. Only meaningful for KindInt.
func (v Value) Int() int32 { return v.i }

// Uint returns the unsigned integer payload. Only meaningful for KindUint.
func (v Value) Uint() uint32 { return v.u }

// Float returns the first float component. Only meaningful for KindFloat.
func (v Value) Float() float32 { return v.f[0] }

// Floats returns the float payload sized for the value's kind (2 for vec2,
// 16 for mat4, ...), or nil for non-float kinds.
func (v Value) Floats() []float32 {
	n := v.kind.Components()
	if n == 0 {
		return nil
	}
	out := make([]float32, n)
	copy(out, v.f[:n])
	return out
}

// Bool wraps a boolean as a Value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed integer as a Value.
func Int(i int32) Value { return Value{kind: KindInt, i: i} }

// Uint wraps an unsigned integer as a Value.
func Uint(u uint32) Value { return Value{kind: KindUint, u: u} }

// Float wraps a float as a Value.
func Float(f float32) Value { return Value{kind: KindFloat, f: [16]float32{f}} }

// Vec2 wraps a 2-component vector as a Value.
func Vec2(v [2]float32) Value {
	val := Value{kind: KindVec2}
	copy(val.f[:], v[:])
	return val
}

// Vec3 wraps a 3-component vector as a Value.
func Vec3(v [3]float32) Value {
	val := Value{kind: KindVec3}
	copy(val.f[:], v[:])
	return val
}

// Vec4 wraps a 4-component vector as a Value.
func Vec4(v [4]float32) Value {
	val := Value{kind: KindVec4}
	copy(val.f[:], v[:])
	return val
}

// Mat3 wraps a column-major 3x3 matrix as a Value.
func Mat3(m [9]float32) Value {
	val := Value{kind: KindMat3}
	copy(val.f[:], m[:])
	return val
}

// Mat4 wraps a column-major 4x4 matrix as a Value.
func Mat4(m [16]float32) Value {
	val := Value{kind: KindMat4}
	copy(val.f[:], m[:])
	return val
}

// ValueOf converts a plain Go value into a tagged Value. The second return
// is false when no kind exists for the value's type.
func ValueOf(v any) (Value, bool) {
	switch x := v.(type) {
	case Value:
		return x, x.kind != KindInvalid
	case bool:
		return Bool(x), true
	case int:
		return Int(int32(x)), true
	case int32:
		return Int(x), true
	case uint32:
		return Uint(x), true
	case float32:
		return Float(x), true
	case float64:
		return Float(float32(x)), true
	case [2]float32:
		return Vec2(x), true
	case [3]float32:
		return Vec3(x), true
	case [4]float32:
		return Vec4(x), true
	case [9]float32:
		return Mat3(x), true
	case [16]float32:
		return Mat4(x), true
	default:
		return Value{}, false
	}
}
