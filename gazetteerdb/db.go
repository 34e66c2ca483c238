// Package gazetteerdb is the Postgres-facing half of the importer: schema
// bootstrap, the bulk-load COPY connection and, in slim mode, the second
// connection used to look up and delete stale classifications.
package gazetteerdb

import (
	"database/sql"

	pq "github.com/lib/pq"
	"github.com/omniscale/gazetteer/copybuffer"
	"github.com/omniscale/gazetteer/logging"
	"github.com/pkg/errors"
)

var log = logging.NewLogger("gazetteerdb")

// Config describes how to reach Postgres and how the importer is running.
type Config struct {
	Connection      string
	Schema          string
	Srid            int
	SlimMode        bool
	DataTablespace  string
	IndexTablespace string
}

// DB owns the bulk-load connection and, in slim mode, the query connection
// used to resolve existing classes for an (osm_type, osm_id) pair. It is
// the single-threaded, stateful writer side of the system; see Clone for
// the worker-pool story.
type DB struct {
	cfg Config

	bulkConn  *sql.DB
	bulkTx    *sql.Tx
	copyStmt  *sql.Stmt
	buf       *copybuffer.Buffer

	queryConn  *sql.DB
	getClasses *sql.Stmt
	deleteAll  *sql.Stmt
	deleteSome *sql.Stmt
}

// Open establishes the bulk-load connection (and, in slim mode, the query
// connection) and pings both. A connection failure is fatal per the error
// model: callers should abort the import.
func Open(cfg Config) (*DB, error) {
	bulkConn, err := sql.Open("postgres", cfg.Connection)
	if err != nil {
		return nil, wrapConnErr(err)
	}
	if err := bulkConn.Ping(); err != nil {
		return nil, wrapConnErr(err)
	}

	db := &DB{cfg: cfg, bulkConn: bulkConn}

	if cfg.SlimMode {
		queryConn, err := sql.Open("postgres", cfg.Connection)
		if err != nil {
			return nil, wrapConnErr(err)
		}
		if err := queryConn.Ping(); err != nil {
			return nil, wrapConnErr(err)
		}
		db.queryConn = queryConn
	}

	return db, nil
}

// Init runs the schema bootstrap. On a fresh import it drops and recreates
// the place table and its composite types; in slim mode it only prepares
// the get_classes lookup and the two class-diff delete statements on the
// second, append-only connection.
func (db *DB) Init() error {
	if !db.cfg.SlimMode {
		tx, err := db.bulkConn.Begin()
		if err != nil {
			return errors.Wrap(err, ErrConnectionFailed.Error())
		}
		defer rollbackIfTx(&tx)

		boot := &Bootstrap{
			Schema:          db.cfg.Schema,
			Srid:            db.cfg.Srid,
			DataTablespace:  db.cfg.DataTablespace,
			IndexTablespace: db.cfg.IndexTablespace,
		}
		if err := boot.CreateSchema(tx); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return errors.Wrap(err, ErrQueryFailed.Error())
		}
		tx = nil
		return nil
	}

	return db.prepareStatements()
}

// prepareStatements prepares the three slim-mode statements on queryConn.
// Split out of Init so Clone can reuse it without re-running the DDL
// bootstrap, which must only ever happen once per import.
func (db *DB) prepareStatements() error {
	stmt, err := db.queryConn.Prepare(getClassesSQL(db.cfg.Schema))
	if err != nil {
		return &SQLError{getClassesSQL(db.cfg.Schema), err}
	}
	db.getClasses = stmt

	del, err := db.queryConn.Prepare(deleteAllSQL(db.cfg.Schema))
	if err != nil {
		return &SQLError{deleteAllSQL(db.cfg.Schema), err}
	}
	db.deleteAll = del

	delSome, err := db.queryConn.Prepare(deleteClassesSQL(db.cfg.Schema))
	if err != nil {
		return &SQLError{deleteClassesSQL(db.cfg.Schema), err}
	}
	db.deleteSome = delSome

	return nil
}

// Clone opens a second, independent set of connections against the same
// configuration, for use by a worker processing a disjoint range of OSM
// ids. The DDL bootstrap never runs again; in slim mode the clone prepares
// its own copies of the three lookup/delete statements since *sql.Stmt is
// bound to the connection (pool) it was prepared on.
func (db *DB) Clone() (*DB, error) {
	clone, err := Open(db.cfg)
	if err != nil {
		return nil, err
	}
	if db.cfg.SlimMode {
		if err := clone.prepareStatements(); err != nil {
			clone.Close()
			return nil, err
		}
	}
	if err := clone.BeginBulk(); err != nil {
		clone.Close()
		return nil, err
	}
	return clone, nil
}

// BeginBulk opens the transaction and prepares the COPY statement the
// write path appends rows to. PlaceWriter calls this once at the start of
// an import/diff run.
func (db *DB) BeginBulk() error {
	tx, err := db.bulkConn.Begin()
	if err != nil {
		return errors.Wrap(err, ErrConnectionFailed.Error())
	}
	db.bulkTx = tx

	copyQuery := pq.CopyInSchema(db.cfg.Schema, "place", columns...)
	stmt, err := tx.Prepare(copyQuery)
	if err != nil {
		return &SQLError{copyQuery, err}
	}
	db.copyStmt = stmt
	db.buf = copybuffer.New(&copySink{stmt: stmt, query: copyQuery}, 0)
	return nil
}

// AppendLine frames one rendered PlaceRow line into the COPY buffer.
func (db *DB) AppendLine(line string) error {
	return db.buf.Append(line)
}

// Active reports whether a COPY is currently open — callers must flush
// (EndCopy) before issuing a DELETE on the same transaction.
func (db *DB) Active() bool {
	return db.buf != nil && db.buf.Active()
}

// EndCopy flushes any buffered rows and closes the COPY statement so the
// transaction can run ordinary statements again.
func (db *DB) EndCopy() error {
	if db.buf == nil {
		return nil
	}
	return db.buf.EndCopy()
}

// Commit ends any open copy, commits the bulk transaction and clears the
// prepared COPY statement.
func (db *DB) Commit() error {
	if err := db.EndCopy(); err != nil {
		return err
	}
	if db.bulkTx == nil {
		return nil
	}
	if err := db.bulkTx.Commit(); err != nil {
		return errors.Wrap(err, ErrQueryFailed.Error())
	}
	db.bulkTx = nil
	db.copyStmt = nil
	return nil
}

// Close releases both connections. Safe to call after Commit or on an
// aborted import; any still-open COPY is abandoned by the server when the
// connection drops.
func (db *DB) Close() error {
	if db.bulkTx != nil {
		db.bulkTx.Rollback()
		db.bulkTx = nil
	}
	var firstErr error
	if err := db.bulkConn.Close(); err != nil {
		firstErr = err
	}
	if db.queryConn != nil {
		if err := db.queryConn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func rollbackIfTx(tx **sql.Tx) {
	if *tx != nil {
		if err := (*tx).Rollback(); err != nil {
			log.Errorf("rollback failed: %s", err)
		}
	}
}
