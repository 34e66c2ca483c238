package gazetteerdb

import (
	"database/sql"
	"fmt"

	"github.com/pkg/errors"
)

// columns lists the place table columns in the exact order the COPY
// statement, the CREATE TABLE statement and place.Row.RenderLine agree on.
var columns = []string{
	"osm_type", "osm_id", "class", "type", "name", "admin_level",
	"housenumber", "street", "addr_place", "isin", "postcode",
	"country_code", "extratags", "geometry",
}

// Bootstrap creates the place table and its supporting types. It runs only
// on a fresh import, where it drops and recreates everything; in
// slim/append mode DB.Init skips it and prepares the lookup statements
// used for incremental updates instead.
type Bootstrap struct {
	Schema          string
	Srid            int
	DataTablespace  string
	IndexTablespace string
}

// CreateSchema drops and recreates the place table, the keyvalue/wordscore
// composite types and the osm_type/osm_id index, optionally placed in the
// configured tablespaces. It runs inside tx so the caller controls the
// transaction boundary (one BEGIN/COMMIT around the whole bootstrap, same
// as the rest of the import).
func (b *Bootstrap) CreateSchema(tx *sql.Tx) error {
	stmts := []string{
		fmt.Sprintf(`DROP TABLE IF EXISTS "%s"."place"`, b.Schema),
		`DROP TYPE IF EXISTS keyvalue CASCADE`,
		`DROP TYPE IF EXISTS wordscore CASCADE`,
		`CREATE TYPE keyvalue AS (key TEXT, value TEXT)`,
		`CREATE TYPE wordscore AS (word TEXT, score FLOAT)`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return &SQLError{s, err}
		}
	}

	createTable := fmt.Sprintf(`CREATE TABLE "%s"."place" (
		osm_type CHAR(1) NOT NULL,
		osm_id INT8 NOT NULL,
		class TEXT NOT NULL,
		type TEXT NOT NULL,
		name HSTORE,
		admin_level INTEGER,
		housenumber TEXT,
		street TEXT,
		addr_place TEXT,
		isin TEXT,
		postcode TEXT,
		country_code VARCHAR(2),
		extratags HSTORE
	)%s`, b.Schema, tablespaceClause(b.DataTablespace))
	if _, err := tx.Exec(createTable); err != nil {
		return &SQLError{createTable, err}
	}

	addGeom := fmt.Sprintf(`SELECT AddGeometryColumn('%s', 'place', 'geometry', %d, 'GEOMETRY', 2)`, b.Schema, b.Srid)
	if _, err := tx.Exec(addGeom); err != nil {
		return &SQLError{addGeom, err}
	}
	alterNotNull := fmt.Sprintf(`ALTER TABLE "%s"."place" ALTER COLUMN geometry SET NOT NULL`, b.Schema)
	if _, err := tx.Exec(alterNotNull); err != nil {
		return &SQLError{alterNotNull, err}
	}

	createIndex := fmt.Sprintf(`CREATE INDEX place_id_idx ON "%s"."place" USING BTREE (osm_type, osm_id)%s`,
		b.Schema, tablespaceClause(b.IndexTablespace))
	if _, err := tx.Exec(createIndex); err != nil {
		return &SQLError{createIndex, err}
	}

	return nil
}

func tablespaceClause(name string) string {
	if name == "" {
		return ""
	}
	return fmt.Sprintf(` TABLESPACE "%s"`, name)
}

// getClassesSQL is prepared only in slim/append mode, never on a fresh
// import — mirroring the upstream gazetteer output, which opens its second
// connection and prepares this statement only when appending to existing
// data.
func getClassesSQL(schema string) string {
	return fmt.Sprintf(`SELECT class FROM "%s"."place" WHERE osm_type = $1 AND osm_id = $2`, schema)
}

func deleteAllSQL(schema string) string {
	return fmt.Sprintf(`DELETE FROM "%s"."place" WHERE osm_type = $1 AND osm_id = $2`, schema)
}

func deleteClassesSQL(schema string) string {
	return fmt.Sprintf(`DELETE FROM "%s"."place" WHERE osm_type = $1 AND osm_id = $2 AND class = ANY($3)`, schema)
}

func wrapConnErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, ErrConnectionFailed.Error())
}
