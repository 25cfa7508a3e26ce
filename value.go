package namedsql

import (
	"database/sql/driver"
	"reflect"
	"sort"
)

// valueKind tags the variant held by a Value.
type valueKind uint8

const (
	kindScalar valueKind = iota // single bound value
	kindArray                   // ordered list of bound values
)

// Value is the value supplied for one placeholder: either a scalar, passed
// to the driver unchanged, or an array that expands to a (…) list.
// The zero Value is a nil scalar.
type Value struct {
	kind   valueKind
	scalar any
	elems  []any
}

// Placeholders maps placeholder names to their values.
type Placeholders map[string]Value

// P is a convenient alias for map[string]any to use with Bind() and FromMap().
type P = map[string]any

var bytesType = reflect.TypeOf([]byte(nil))

// Scalar wraps v as a single bound value, even if it is a slice.
// Useful for ANY(:ids)-style idioms where the driver takes the whole slice.
func Scalar(v any) Value {
	return Value{kind: kindScalar, scalar: v}
}

// Array wraps vs as an array value. Each element is bound separately.
func Array(vs ...any) Value {
	elems := make([]any, len(vs))
	copy(elems, vs)
	return Value{kind: kindArray, elems: elems}
}

// ArrayOf is like Array for a typed slice.
func ArrayOf[T any](vs []T) Value {
	elems := make([]any, len(vs))
	for i, v := range vs {
		elems[i] = v
	}
	return Value{kind: kindArray, elems: elems}
}

// IsArray reports whether v is an array value.
func (v Value) IsArray() bool {
	return v.kind == kindArray
}

// Len returns the number of values v binds: 1 for a scalar.
func (v Value) Len() int {
	if v.kind == kindArray {
		return len(v.elems)
	}
	return 1
}

// Elems returns a copy of the array elements, or nil for a scalar.
func (v Value) Elems() []any {
	if v.kind != kindArray {
		return nil
	}
	out := make([]any, len(v.elems))
	copy(out, v.elems)
	return out
}

// Scalar returns the wrapped scalar, or nil for an array.
func (v Value) Scalar() any {
	return v.scalar
}

// Names returns the placeholder names in ascending order.
func (p Placeholders) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromMap classifies plain Go values into Placeholders:
//   - Value (from Scalar/Array) is kept as is
//   - driver.Valuer, []byte and byte-slice aliases stay scalars
//   - other slices and arrays become array values
//   - everything else (including nil) is a scalar
func FromMap(m map[string]any) Placeholders {
	out := make(Placeholders, len(m))
	for name, v := range m {
		out[name] = valueOf(v)
	}
	return out
}

// valueOf classifies a single bound value; see FromMap.
func valueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Scalar(nil)
	case Value:
		return x
	case driver.Valuer:
		return Scalar(x)
	case []byte:
		return Scalar(x)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			// Treat any byte slice-like (even aliases) as one []byte argument
			if rv.Kind() == reflect.Slice && rv.Type() != bytesType && rv.Type().ConvertibleTo(bytesType) {
				return Scalar(rv.Convert(bytesType).Interface())
			}
			return Scalar(v)
		}
		elems := make([]any, rv.Len())
		for i := range elems {
			elems[i] = rv.Index(i).Interface()
		}
		return Value{kind: kindArray, elems: elems}
	default:
		return Scalar(v)
	}
}
