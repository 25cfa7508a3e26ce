package namedsql

import (
	"strconv"
	"strings"
)

// ordinalFunc renders the marker for the idx'th bound value, idx starting at 1.
type ordinalFunc func(b *strings.Builder, idx int)

// reusedResolver binds each distinct name once and reuses its markers for
// every later occurrence. It lives for a single resolve call.
type reusedResolver struct {
	supplied Placeholders
	ordinal  ordinalFunc
	values   []any
	memo     map[string]string
	order    []string // memo keys, first occurrence first
}

// ResolveReused rewrites template with "$1", "$2", ... markers, as used by
// Postgres. Repeated occurrences of a name share the markers and the values
// bound at its first occurrence.
func ResolveReused(template string, supplied Placeholders) (string, []any, error) {
	return resolveReused(template, supplied, dollarOrdinal)
}

func resolveReused(template string, supplied Placeholders, ordinal ordinalFunc) (string, []any, error) {
	r := &reusedResolver{
		supplied: supplied,
		ordinal:  ordinal,
		values:   make([]any, 0, 8),
		memo:     make(map[string]string, len(supplied)),
	}

	out := replacePlaceholders(template, r.resolvePlaceholder)

	if err := CheckExhaustivity(supplied, r.usedNames()); err != nil {
		return "", nil, err
	}
	return out, r.values, nil
}

func (r *reusedResolver) usedNames() []string {
	return r.order
}

func (r *reusedResolver) resolveScalar(v any) string {
	r.values = append(r.values, v)
	var b strings.Builder
	r.ordinal(&b, len(r.values))
	return b.String()
}

// resolveArray appends elems as one contiguous block and builds ($k, $k+1, ...).
func (r *reusedResolver) resolveArray(elems []any) string {
	if len(elems) == 0 {
		return emptyListSQL
	}
	offset := len(r.values)
	r.values = append(r.values, elems...)

	var b strings.Builder
	b.Grow(len(elems) * 5)
	b.WriteByte('(')
	for i := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		r.ordinal(&b, offset+i+1)
	}
	b.WriteByte(')')
	return b.String()
}

func (r *reusedResolver) resolvePlaceholder(name string) string {
	if text, ok := r.memo[name]; ok {
		return text
	}

	v := r.supplied[name]
	var text string
	switch v.kind {
	case kindArray:
		text = r.resolveArray(v.elems)
	default:
		text = r.resolveScalar(v.scalar)
	}

	r.memo[name] = text
	r.order = append(r.order, name)
	return text
}

// dollarOrdinal writes $idx (Postgres).
func dollarOrdinal(b *strings.Builder, idx int) {
	b.WriteByte('$')
	var tmp [20]byte
	b.Write(strconv.AppendInt(tmp[:0], int64(idx), 10))
}

// atOrdinal writes @pidx (SQL Server).
func atOrdinal(b *strings.Builder, idx int) {
	b.WriteString("@p")
	var tmp [20]byte
	b.Write(strconv.AppendInt(tmp[:0], int64(idx), 10))
}
