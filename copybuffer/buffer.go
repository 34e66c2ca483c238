// Package copybuffer frames rendered place rows into the textual shape the
// Postgres COPY protocol expects, and owns the idle/copying state machine a
// bulk-load connection cycles through while alternating COPY runs with
// ordinary statements (the incremental-update deletes).
package copybuffer

import (
	"strings"

	"github.com/pkg/errors"
)

// DefaultCapacity is the buffer size used when New is called without an
// explicit capacity. The source uses a fixed per-connection buffer of this
// rough order of magnitude.
const DefaultCapacity = 64 * 1024

// reserve is subtracted from Capacity before the "is this fragment too big"
// comparisons, leaving slack for whatever the caller appends next.
const reserve = 16

// Sink receives framed COPY text. Implementations own the actual database
// connection; copybuffer only decides when to call it.
type Sink interface {
	// WriteCopyData delivers one or more complete, newline-terminated
	// COPY lines.
	WriteCopyData(chunk string) error
	// EndCopy terminates the active COPY-IN statement. Called only when
	// the buffer has an active copy and is being drained.
	EndCopy() error
}

// Buffer accumulates rendered PlaceRow lines and flushes them to a Sink
// once a capacity threshold is crossed, a fragment arrives that cannot fit
// on its own, or a line completes. It tracks whether a COPY is currently
// active so callers (PlaceWriter) know when they must call EndCopy before
// issuing a DELETE.
type Buffer struct {
	sink     Sink
	capacity int
	buf      strings.Builder
	active   bool
}

// New returns a Buffer with the given capacity writing to sink. A capacity
// of 0 selects DefaultCapacity.
func New(sink Sink, capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{sink: sink, capacity: capacity}
}

// Active reports whether a COPY is currently open on the sink.
func (b *Buffer) Active() bool {
	return b.active
}

// Append adds a rendered, newline-terminated line to the buffer, flushing
// as needed per the fill/flush contract: if appending would overflow the
// capacity, the buffered data is flushed first; if the new fragment alone
// is too big to buffer, it bypasses the buffer entirely; otherwise it is
// appended, and flushed immediately if it completes a line.
func (b *Buffer) Append(line string) error {
	b.active = true

	if b.buf.Len()+len(line) > b.capacity-reserve {
		if err := b.flush(); err != nil {
			return err
		}
	}

	if len(line) > b.capacity-reserve {
		if err := b.sink.WriteCopyData(line); err != nil {
			return errors.Wrap(err, "copy protocol error writing oversized row")
		}
		return nil
	}

	b.buf.WriteString(line)
	if strings.HasSuffix(line, "\n") {
		return b.flush()
	}
	return nil
}

// flush sends any buffered bytes to the sink and resets the buffer.
func (b *Buffer) flush() error {
	if b.buf.Len() == 0 {
		return nil
	}
	data := b.buf.String()
	b.buf.Reset()
	if err := b.sink.WriteCopyData(data); err != nil {
		return errors.Wrap(err, "copy protocol error")
	}
	return nil
}

// EndCopy flushes any remaining buffered data and terminates the active
// COPY, if one is open. It is a no-op when nothing has been appended since
// the last EndCopy. Callers must invoke this before issuing any non-COPY
// statement on the same connection, in particular the class-diff DELETE
// that precedes a re-emitted row set.
func (b *Buffer) EndCopy() error {
	if !b.active {
		return nil
	}
	if err := b.flush(); err != nil {
		return err
	}
	if err := b.sink.EndCopy(); err != nil {
		return errors.Wrap(err, "copy protocol error ending copy")
	}
	b.active = false
	return nil
}
