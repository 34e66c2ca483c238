package gazetteerdb

import (
	pq "github.com/lib/pq"
	"github.com/pkg/errors"
)

// ExistingClasses returns the class values currently stored for
// (osmType, osmID). Only valid in slim mode; callers must check SlimMode
// before calling, since the query connection and prepared statement only
// exist there.
func (db *DB) ExistingClasses(osmType byte, osmID int64) ([]string, error) {
	if !db.cfg.SlimMode {
		return nil, errors.Wrap(ErrRequiresSlimMode, "ExistingClasses")
	}
	rows, err := db.getClasses.Query(string(osmType), osmID)
	if err != nil {
		return nil, &SQLError{"get_classes", err}
	}
	defer rows.Close()

	var classes []string
	for rows.Next() {
		var class string
		if err := rows.Scan(&class); err != nil {
			return nil, errors.Wrap(err, ErrQueryFailed.Error())
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

// DeleteAll removes every row for (osmType, osmID). Callers must flush the
// COPY buffer (EndCopy) before calling, since DELETE cannot run while a
// COPY is active on the same transaction.
func (db *DB) DeleteAll(osmType byte, osmID int64) error {
	_, err := db.deleteAll.Exec(string(osmType), osmID)
	if err != nil {
		return &SQLRowError{SQLError{"delete place (all classes)", err}, osmID}
	}
	return nil
}

// DeleteClasses removes only the given classes for (osmType, osmID),
// leaving rows whose class is not in the list untouched. As with
// DeleteAll, the COPY buffer must be flushed first.
func (db *DB) DeleteClasses(osmType byte, osmID int64, classes []string) error {
	if len(classes) == 0 {
		return nil
	}
	_, err := db.deleteSome.Exec(string(osmType), osmID, pq.Array(classes))
	if err != nil {
		return &SQLRowError{SQLError{"delete place (class diff)", err}, classes}
	}
	return nil
}

// ClassDiff computes existing-minus-new, the set of classes that no longer
// appear in the fresh classification and so must be deleted.
func ClassDiff(existing, fresh []string) []string {
	if len(existing) == 0 {
		return nil
	}
	freshSet := make(map[string]bool, len(fresh))
	for _, c := range fresh {
		freshSet[c] = true
	}
	var stale []string
	for _, c := range existing {
		if !freshSet[c] {
			stale = append(stale, c)
		}
	}
	return stale
}
