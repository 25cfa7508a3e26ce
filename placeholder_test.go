package namedsql

import (
	"reflect"
	"testing"
)

// names returns the names of the scanned placeholders in order.
func names(phs []Placeholder) []string {
	out := make([]string, 0, len(phs))
	for _, ph := range phs {
		out = append(out, ph.Name)
	}
	return out
}

// TestScanPlaceholders_Matches verifies the accepted name grammar: ASCII letters,
// digits and underscores after a colon, with the name taken as the maximal run.
func TestScanPlaceholders_Matches(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{":foo", []string{"foo"}},
		{":Pascal_9_8", []string{"Pascal_9_8"}},
		{":00", []string{"00"}},
		{":_", []string{"_"}},
		{":a:b", []string{"a"}},       // :b is glued to the word a
		{":a::b", []string{"a", "b"}}, // second colon is not a word char
		{"a = :a and b = :b", []string{"a", "b"}},
		{"(:a,:b)", []string{"a", "b"}},
		{":x or :x", []string{"x", "x"}},
		{"name=:name;", []string{"name"}},
		{":name-1", []string{"name"}},
		{":abcゆ", []string{"abc"}},
		{"::int", []string{"int"}},
	}
	for _, tt := range tests {
		if got := names(ScanPlaceholders(tt.in)); !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("ScanPlaceholders(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// TestScanPlaceholders_NoMatch covers colon forms that must never be placeholders.
func TestScanPlaceholders_NoMatch(t *testing.T) {
	for _, in := range []string{
		"",
		":",
		": foo",
		"00:01:00",
		"a:b",
		":ゆ",
		":🧐",
		"select 1",
		"trailing :",
	} {
		if got := ScanPlaceholders(in); len(got) != 0 {
			t.Fatalf("ScanPlaceholders(%q) = %v, want no match", in, names(got))
		}
	}
}

// TestScanPlaceholders_Spans checks that Start/End delimit the colon and the name.
func TestScanPlaceholders_Spans(t *testing.T) {
	in := "x = :abc, y = :d"
	got := ScanPlaceholders(in)
	want := []Placeholder{
		{Start: 4, End: 8, Name: "abc"},
		{Start: 14, End: 16, Name: "d"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("spans = %+v, want %+v", got, want)
	}
	for _, ph := range got {
		if in[ph.Start:ph.End] != ":"+ph.Name {
			t.Fatalf("span %d:%d = %q, want %q", ph.Start, ph.End, in[ph.Start:ph.End], ":"+ph.Name)
		}
	}
}

// TestReplacePlaceholders_PreservesText ensures text around placeholders,
// including the character before the colon, is copied unchanged.
func TestReplacePlaceholders_PreservesText(t *testing.T) {
	var seen []string
	out := replacePlaceholders("at 00:01:00 (:a, :b) ゆ:c", func(name string) string {
		seen = append(seen, name)
		return "<" + name + ">"
	})
	if want := "at 00:01:00 (<a>, <b>) ゆ<c>"; out != want {
		t.Fatalf("out = %q, want %q", out, want)
	}
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(seen, want) {
		t.Fatalf("seen = %v, want %v", seen, want)
	}

	if out := replacePlaceholders("no placeholders", nil); out != "no placeholders" {
		t.Fatalf("out = %q", out)
	}
}
