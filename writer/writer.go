package writer

import (
	"fmt"

	"github.com/omniscale/gazetteer/gazetteerdb"
	"github.com/omniscale/gazetteer/logging"
)

var log = logging.NewLogger("writer")

// PlaceWriter orchestrates classification, geometry building and row
// emission for one stream of OSM events: it is the only component that
// touches the database directly. It is single-threaded and stateful; see
// Clone for how a worker pool processing disjoint id ranges gets its own
// independent instance with its own connections.
type PlaceWriter struct {
	db                   *gazetteerdb.DB
	mid                  MiddleStore
	geom                 GeomBuilder
	srid                 int
	slimMode             bool
	excludeBrokenPolygon bool

	// errorPolygonSink would receive relation geometry candidates that
	// fail the POLYGON/MULTIPOLYGON prefix filter in buildRelationRows,
	// for reporting as administrative-boundary errors. Never set; no
	// caller constructs one yet.
	errorPolygonSink interface{}
}

// NewPlaceWriter wraps an already-initialized DB (Init must have run)
// with the collaborators needed to turn OSM events into place rows.
// excludeBrokenPolygon is pushed onto geom at Begin and at every Clone,
// matching the two lifecycle points the original applies the same option.
func NewPlaceWriter(db *gazetteerdb.DB, mid MiddleStore, geom GeomBuilder, srid int, slimMode, excludeBrokenPolygon bool) *PlaceWriter {
	return &PlaceWriter{
		db:                   db,
		mid:                  mid,
		geom:                 geom,
		srid:                 srid,
		slimMode:             slimMode,
		excludeBrokenPolygon: excludeBrokenPolygon,
	}
}

// Begin opens the bulk-load COPY transaction and applies the configured
// exclude-broken-polygon setting to the geometry builder. Call once before
// the first event reaches this writer.
func (pw *PlaceWriter) Begin() error {
	pw.geom.SetExcludeBrokenPolygon(pw.excludeBrokenPolygon)
	return pw.db.BeginBulk()
}

// Clone produces an independent writer with its own pair of database
// connections, for use by a worker processing a disjoint range of OSM ids.
// Only the geometry builder, projection and slim-mode setting are shared;
// per the no-shared-mutable-state rule every clone owns all of its own
// database state, down to its own prepared statements. The shared geometry
// builder has its exclude-broken-polygon setting reapplied here too, the
// same as the original reapplies it on every worker's copy-constructed
// builder.
func (pw *PlaceWriter) Clone(mid MiddleStore) (*PlaceWriter, error) {
	clonedDB, err := pw.db.Clone()
	if err != nil {
		log.Errorf("cloning writer: %s", err)
		return nil, err
	}
	pw.geom.SetExcludeBrokenPolygon(pw.excludeBrokenPolygon)
	return &PlaceWriter{
		db:                   clonedDB,
		mid:                  mid,
		geom:                 pw.geom,
		srid:                 pw.srid,
		slimMode:             pw.slimMode,
		excludeBrokenPolygon: pw.excludeBrokenPolygon,
	}, nil
}

// Commit flushes any open COPY and commits the bulk transaction.
func (pw *PlaceWriter) Commit() error {
	return pw.db.Commit()
}

// Close releases the underlying database connections. Safe to call after
// Commit, or to abandon an import on error: any uncommitted COPY is
// abandoned by the server when the connection drops.
func (pw *PlaceWriter) Close() error {
	return pw.db.Close()
}

func (pw *PlaceWriter) sridWKT(wkt string) string {
	return fmt.Sprintf("SRID=%d;%s", pw.srid, wkt)
}
