package copybuffer

import (
	"strings"
	"testing"

	"github.com/omniscale/gazetteer/tags"
)

func TestEscapeCopyField(t *testing.T) {
	tests := []struct{ in, out string }{
		{"plain", "plain"},
		{"a\\b", `a\\b`},
		{"a\nb", `a\nb`},
		{"a\rb", `a\rb`},
		{"a\tb", `a\tb`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EscapeCopyField(tt.in); got != tt.out {
			t.Errorf("EscapeCopyField(%q) = %q, want %q", tt.in, got, tt.out)
		}
	}
}

func TestEscapeHstoreEntryBackslashRoundTrip(t *testing.T) {
	got := EscapeHstoreEntry(`back\slash`)
	want := "back" + strings.Repeat(`\`, 8) + "slash"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeHstoreEntryDropsControlChars(t *testing.T) {
	got := EscapeHstoreEntry("a\nb\rc\td\"e")
	want := "a b c d e"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatHstoreEmpty(t *testing.T) {
	if got := FormatHstore(nil); got != NullField {
		t.Fatalf("expected null sentinel for an empty pair list, got %q", got)
	}
}

func TestFormatHstoreBackslashInValue(t *testing.T) {
	pairs := []tags.Pair{{Key: "name", Value: `O'Brien\Sons`}}
	got := FormatHstore(pairs)
	want := `"name"=>"O'Brien` + strings.Repeat(`\`, 8) + `Sons"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatHstoreMultiplePairs(t *testing.T) {
	pairs := []tags.Pair{
		{Key: "name", Value: "Berlin"},
		{Key: "name:de", Value: "Berlin"},
	}
	got := FormatHstore(pairs)
	want := `"name"=>"Berlin", "name:de"=>"Berlin"`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
