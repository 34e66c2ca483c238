package gazetteerdb

import (
	"fmt"

	"github.com/pkg/errors"
)

// SQLError wraps a failing query with the statement text, matching the
// shape callers of database/sql already expect to log.
type SQLError struct {
	query string
	err   error
}

func (e *SQLError) Error() string {
	return fmt.Sprintf("sql error: %s in query %s", e.err.Error(), e.query)
}

// SQLRowError additionally carries the row that failed to insert.
type SQLRowError struct {
	SQLError
	row interface{}
}

func (e *SQLRowError) Error() string {
	return fmt.Sprintf("sql error: %s in query %s (%+v)", e.err.Error(), e.query, e.row)
}

// Sentinel fatal error kinds. All of these abort the import. Driver
// failures are wrapped with the sentinel's text as the message, not with
// the sentinel itself, so errors.Cause recovers the originating driver
// error while errors.Is matches only ErrRequiresSlimMode, the one sentinel
// that is wrapped directly.
var (
	ErrConnectionFailed = errors.New("connection to database failed")
	ErrQueryFailed      = errors.New("query failed")
	ErrCopyProtocol     = errors.New("copy protocol error")
	ErrRequiresSlimMode = errors.New("modify/delete requires slim mode")
)
