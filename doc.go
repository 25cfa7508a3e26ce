// Package namedsql turns SQL templates with :named placeholders into dialect-specific statements with positional placeholders and an ordered list of bound values. Every name used in the template must be supplied and every supplied name must be used; mismatches are reported all at once through a *PlaceholderError. Slice values expand into (…) lists, and an empty slice expands to a sub-query that matches nothing.
package namedsql
