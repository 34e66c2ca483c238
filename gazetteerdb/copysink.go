package gazetteerdb

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

// copySink adapts copybuffer.Sink to a *sql.Stmt built from pq.CopyInSchema.
// copybuffer hands us fully framed COPY text (tab-separated, newline
// terminated, backslash-escaped per the text format) because that framing
// is the pure, independently-testable part of the pipeline; here we decode
// it back into typed values so lib/pq's Stmt.Exec can re-encode it onto the
// wire itself. Each row becomes one Exec call, exactly like the teacher's
// bulk-load table transaction.
type copySink struct {
	stmt  *sql.Stmt
	query string
}

func (s *copySink) WriteCopyData(chunk string) error {
	for _, line := range strings.Split(chunk, "\n") {
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		row := make([]interface{}, len(fields))
		for i, f := range fields {
			row[i] = unescapeCopyField(f)
		}
		if _, err := s.stmt.Exec(row...); err != nil {
			return &SQLRowError{SQLError{s.query, err}, row}
		}
	}
	return nil
}

// EndCopy flushes the COPY statement with a final, argument-less Exec —
// the same idiom lib/pq documents for terminating a COPY-IN statement.
func (s *copySink) EndCopy() error {
	if _, err := s.stmt.Exec(); err != nil {
		return errors.Wrap(err, ErrCopyProtocol.Error())
	}
	return nil
}

// unescapeCopyField reverses EscapeCopyField and maps the \N null sentinel
// to a real nil, so the COPY statement receives SQL NULL rather than the
// four-character string "\N".
func unescapeCopyField(f string) interface{} {
	if f == `\N` {
		return nil
	}
	if !strings.Contains(f, `\`) {
		return f
	}
	var b strings.Builder
	b.Grow(len(f))
	for i := 0; i < len(f); i++ {
		if f[i] == '\\' && i+1 < len(f) {
			i++
			switch f[i] {
			case 'n':
				b.WriteByte('\n')
			case 'r':
				b.WriteByte('\r')
			case 't':
				b.WriteByte('\t')
			case '\\':
				b.WriteByte('\\')
			default:
				b.WriteByte(f[i])
			}
			continue
		}
		b.WriteByte(f[i])
	}
	return b.String()
}
