package namedsql

import "strings"

// emptyListSQL replaces an empty array value. An empty list "()" is illegal
// SQL, so a sub-query returning zero rows is used instead.
// Legacy MySQL (< 5.6) rejects it because FROM is mandatory there.
const emptyListSQL = "(select 0 where 0 = 1)"

// numberedResolver binds a fresh value for every placeholder occurrence,
// emitting the same marker each time. Order is conveyed by position only.
// It lives for a single resolve call.
type numberedResolver struct {
	supplied  Placeholders
	marker    string
	values    []any
	usedNames []string
}

// ResolveNumbered rewrites template with "?" markers, as used by MySQL and
// SQLite. Each occurrence of a name binds its value again.
func ResolveNumbered(template string, supplied Placeholders) (string, []any, error) {
	return resolveNumbered(template, supplied, "?")
}

func resolveNumbered(template string, supplied Placeholders, marker string) (string, []any, error) {
	r := &numberedResolver{
		supplied: supplied,
		marker:   marker,
		values:   make([]any, 0, 8),
	}

	out := replacePlaceholders(template, r.resolvePlaceholder)

	if err := CheckExhaustivity(supplied, r.usedNames); err != nil {
		return "", nil, err
	}
	return out, r.values, nil
}

func (r *numberedResolver) resolveScalar(v any) string {
	r.values = append(r.values, v)
	return r.marker
}

// resolveArray builds (?, ?, ...).
func (r *numberedResolver) resolveArray(elems []any) string {
	if len(elems) == 0 {
		return emptyListSQL
	}
	var b strings.Builder
	b.Grow(len(elems) * (len(r.marker) + 2))
	b.WriteByte('(')
	for i, v := range elems {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(r.resolveScalar(v))
	}
	b.WriteByte(')')
	return b.String()
}

func (r *numberedResolver) resolvePlaceholder(name string) string {
	r.usedNames = append(r.usedNames, name)

	v := r.supplied[name]
	switch v.kind {
	case kindArray:
		return r.resolveArray(v.elems)
	default:
		return r.resolveScalar(v.scalar)
	}
}
