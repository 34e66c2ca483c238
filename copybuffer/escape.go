package copybuffer

import (
	"strings"

	"github.com/omniscale/gazetteer/tags"
)

// EscapeCopyField encodes a single field for the Postgres COPY text format:
// backslash, newline, carriage return and tab are backslash-escaped. An
// empty string is not special-cased here — callers pass the no-value
// sentinel explicitly via NullField so that "" (a legitimately empty but
// present value) and "missing" stay distinguishable.
func EscapeCopyField(s string) string {
	if !strings.ContainsAny(s, "\\\n\r\t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NullField is the COPY text representation of SQL NULL.
const NullField = `\N`

// EscapeHstoreEntry prepares a string to sit inside a double-quoted hstore
// entry of a COPY line. This does not follow the documented hstore text
// format: newline, carriage return, tab and double quote are replaced by a
// single space (losing information, on purpose — downstream consumers
// already ignore these characters in name/extratag values) and backslash
// is expanded to eight backslashes, enough to survive the COPY layer, the
// hstore input parser and one more round of SQL/JSON re-escaping further
// downstream.
func EscapeHstoreEntry(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\\\\\\\`)
		case '\n', '\r', '\t', '"':
			b.WriteByte(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatHstore renders pairs as hstore literal text, already wrapped in the
// double quotes and backslash-escaping an hstore COPY column expects:
// `"k1"=>"v1", "k2"=>"v2"`. An empty pair list renders as NullField, same
// as every other optional column when it has nothing to carry.
func FormatHstore(pairs []tags.Pair) string {
	if len(pairs) == 0 {
		return NullField
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('"')
		b.WriteString(EscapeHstoreEntry(p.Key))
		b.WriteString(`"=>"`)
		b.WriteString(EscapeHstoreEntry(p.Value))
		b.WriteString(`"`)
	}
	return b.String()
}
