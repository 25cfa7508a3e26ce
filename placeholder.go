package namedsql

import (
	"regexp"
	"strings"
)

// placeholderRegexp matches a colon followed by ASCII word characters. The
// optional prefix keeps a colon glued to a preceding word character (as in
// 00:01:00) from starting a placeholder; RE2 has no lookbehind.
var placeholderRegexp = regexp.MustCompile(`(?:^|\W):(\w+)`)

// Placeholder is a single :name occurrence in a template.
// Start and End delimit the colon and the name, End exclusive.
type Placeholder struct {
	Start int
	End   int
	Name  string
}

// ScanPlaceholders returns every placeholder of template in left-to-right order.
// Repeated names are reported once per occurrence.
func ScanPlaceholders(template string) []Placeholder {
	locs := placeholderRegexp.FindAllStringSubmatchIndex(template, -1)
	if len(locs) == 0 {
		return nil
	}
	out := make([]Placeholder, len(locs))
	for i, loc := range locs {
		// loc[2:4] is the name group; the colon sits right before it.
		out[i] = Placeholder{
			Start: loc[2] - 1,
			End:   loc[3],
			Name:  template[loc[2]:loc[3]],
		}
	}
	return out
}

// replacePlaceholders rewrites template in a single pass, substituting each
// placeholder with the text returned by fn.
func replacePlaceholders(template string, fn func(name string) string) string {
	phs := ScanPlaceholders(template)
	if len(phs) == 0 {
		return template
	}

	var buf strings.Builder
	buf.Grow(len(template) + 4*len(phs))
	last := 0
	for _, ph := range phs {
		buf.WriteString(template[last:ph.Start])
		buf.WriteString(fn(ph.Name))
		last = ph.End
	}
	buf.WriteString(template[last:])
	return buf.String()
}
