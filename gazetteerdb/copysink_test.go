package gazetteerdb

import (
	"strings"
	"testing"

	"github.com/omniscale/gazetteer/copybuffer"
	"github.com/omniscale/gazetteer/place"
	"github.com/omniscale/gazetteer/tags"
)

func TestUnescapeCopyFieldNull(t *testing.T) {
	if got := unescapeCopyField(`\N`); got != nil {
		t.Fatalf("expected nil for null sentinel, got %v", got)
	}
}

func TestUnescapeCopyFieldRoundTrip(t *testing.T) {
	tests := []struct{ in, want string }{
		{`a\\b`, `a\b`},
		{`a\nb`, "a\nb"},
		{`a\rb`, "a\rb"},
		{`a\tb`, "a\tb"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		got := unescapeCopyField(tt.in)
		if got != tt.want {
			t.Fatalf("unescapeCopyField(%q) = %v, want %q", tt.in, got, tt.want)
		}
	}
}

type recordingSink struct {
	chunks []string
}

func (s *recordingSink) WriteCopyData(chunk string) error {
	s.chunks = append(s.chunks, chunk)
	return nil
}

func (s *recordingSink) EndCopy() error { return nil }

// TestBackslashInNameRoundTripsThroughCopyPipeline composes the full chain
// a name tag's value travels: place.Row.RenderLine's hstore encoding, the
// copybuffer.Buffer framing/flush state machine, and this package's
// COPY-field decode, the way copySink.WriteCopyData applies it to every
// field before handing rows to lib/pq. A literal backslash survives the
// hstore layer as eight backslashes (copybuffer.EscapeHstoreEntry); the
// COPY layer this module owns halves that to four on decode; the hstore
// parser on the Postgres side halves it again to two, and one further
// round of SQL/JSON unescaping downstream takes it the rest of the way to
// one.
func TestBackslashInNameRoundTripsThroughCopyPipeline(t *testing.T) {
	row := &place.Row{
		OSMType:    place.TypeNode,
		OSMID:      1,
		Class:      "place",
		Type:       "city",
		Names:      []tags.Pair{{Key: "name", Value: `O'Brien\Sons`}},
		AdminLevel: place.AdminLevelNone,
		WKT:        "SRID=4326;POINT(1 2)",
	}

	sink := &recordingSink{}
	buf := copybuffer.New(sink, 0)
	if err := buf.Append(row.RenderLine()); err != nil {
		t.Fatal(err)
	}
	if len(sink.chunks) == 0 {
		t.Fatal("expected the buffer to flush the completed line")
	}

	chunk := strings.Join(sink.chunks, "")
	fields := strings.Split(strings.TrimSuffix(chunk, "\n"), "\t")
	if len(fields) != len(columns) {
		t.Fatalf("expected %d columns, got %d: %+v", len(columns), len(fields), fields)
	}

	nameField := unescapeCopyField(fields[4])
	want := `"name"=>"O'Brien` + strings.Repeat(`\`, 4) + `Sons"`
	if nameField != want {
		t.Fatalf("name field after copy decode = %v, want %q", nameField, want)
	}
}

func TestTablespaceClause(t *testing.T) {
	if got := tablespaceClause(""); got != "" {
		t.Fatalf("expected empty clause, got %q", got)
	}
	if got := tablespaceClause("fast_ssd"); got != ` TABLESPACE "fast_ssd"` {
		t.Fatalf("unexpected clause: %q", got)
	}
}
