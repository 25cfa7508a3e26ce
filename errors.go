package namedsql

import (
	"errors"
	"strings"
)

var (
	ErrPlaceholderMismatch = errors.New("namedsql: placeholder mismatch")
	ErrTooManyParams       = errors.New("namedsql: too many parameters")
	ErrUnknownDialect      = errors.New("namedsql: unknown dialect")
	ErrBindUnsupported     = errors.New("namedsql: unsupported bind input")
	ErrBuilderReleased     = errors.New("namedsql: builder already released; call Write() on *SQLR for a new query")
)

// PlaceholderError reports the names that were used in a statement without a
// value (UndefinedNames) and the names given a value but never used
// (UnusedNames). At least one of the two lists is non-empty.
type PlaceholderError struct {
	Message        string
	UndefinedNames []string
	UnusedNames    []string
}

// Error returns the composed message.
func (e *PlaceholderError) Error() string {
	return "namedsql: " + e.Message
}

// Is reports whether target is ErrPlaceholderMismatch.
func (e *PlaceholderError) Is(target error) bool {
	return target == ErrPlaceholderMismatch
}

// newPlaceholderError builds the error for the given name lists, or returns
// nil if both are empty.
func newPlaceholderError(undefinedNames, unusedNames []string) *PlaceholderError {
	if len(undefinedNames) == 0 && len(unusedNames) == 0 {
		return nil
	}

	msgs := make([]string, 0, 2)
	if len(undefinedNames) > 0 {
		msgs = append(msgs, "SQL placeholders '"+strings.Join(undefinedNames, "', '")+"' are used in SQL statement but value not given.")
	}
	if len(unusedNames) > 0 {
		msgs = append(msgs, "SQL placeholders '"+strings.Join(unusedNames, "', '")+"' are given but didn't appear in SQL statement.")
	}

	return &PlaceholderError{
		Message:        strings.Join(msgs, " "),
		UndefinedNames: nonNil(undefinedNames),
		UnusedNames:    nonNil(unusedNames),
	}
}

// CheckExhaustivity compares the supplied names against the names used in a
// statement. Duplicates in used are ignored. Undefined names keep their first
// occurrence order, unused names follow Placeholders.Names order.
// It returns nil or a *PlaceholderError.
func CheckExhaustivity(supplied Placeholders, used []string) error {
	seen := make(map[string]struct{}, len(used))
	var undefinedNames []string
	for _, name := range used {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if _, ok := supplied[name]; !ok {
			undefinedNames = append(undefinedNames, name)
		}
	}

	var unusedNames []string
	for _, name := range supplied.Names() {
		if _, ok := seen[name]; !ok {
			unusedNames = append(unusedNames, name)
		}
	}

	if err := newPlaceholderError(undefinedNames, unusedNames); err != nil {
		return err
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
