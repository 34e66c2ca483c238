package writer

import (
	"github.com/omniscale/gazetteer/classify"
	"github.com/omniscale/gazetteer/gazetteerdb"
	"github.com/omniscale/gazetteer/place"
	"github.com/pkg/errors"
)

// rowsFor builds one place.Row per classification candidate, each sharing
// the same geometry, names, extratags and structured address fields; wkt
// must already carry its SRID=<n>; prefix.
func rowsFor(osmType place.OSMType, osmID int64, c classify.Classification, wkt string) []place.Row {
	rows := make([]place.Row, len(c.Places))
	for i, p := range c.Places {
		rows[i] = place.Row{
			OSMType:     osmType,
			OSMID:       osmID,
			Class:       p.Class,
			Type:        p.Type,
			Names:       c.Names,
			AdminLevel:  c.AdminLevel,
			HouseNumber: c.HouseNumber,
			HasHouseNum: c.HasHouseNum,
			Street:      c.Street,
			HasStreet:   c.HasStreet,
			AddrPlace:   c.AddrPlace,
			HasAddr:     c.HasAddrPlace,
			Isin:        c.Isin,
			HasIsin:     c.HasIsin,
			Postcode:    c.Postcode,
			HasPostcode: c.HasPostcode,
			CountryCode: c.CountryCode,
			HasCountry:  c.HasCountry,
			ExtraTags:   c.ExtraTags,
			WKT:         wkt,
		}
	}
	return rows
}

func classNames(rows []place.Row) []string {
	if len(rows) == 0 {
		return nil
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Class
	}
	return names
}

// applyClassDiff runs the incremental update protocol: look up the classes
// currently stored for (osmType, osmID) and delete whatever the fresh
// classification no longer claims, before any replacement row is emitted.
// The class-diff delete must precede the COPY of the replacement row for
// the same object, so any active COPY is flushed first.
func (pw *PlaceWriter) applyClassDiff(osmType place.OSMType, osmID int64, freshClasses []string) error {
	existing, err := pw.db.ExistingClasses(byte(osmType), osmID)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return nil
	}
	if len(freshClasses) == 0 {
		if err := pw.db.EndCopy(); err != nil {
			return err
		}
		return pw.db.DeleteAll(byte(osmType), osmID)
	}
	stale := gazetteerdb.ClassDiff(existing, freshClasses)
	if len(stale) == 0 {
		return nil
	}
	if err := pw.db.EndCopy(); err != nil {
		return err
	}
	return pw.db.DeleteClasses(byte(osmType), osmID, stale)
}

// emit runs the update protocol on a modify/delete event and then appends
// every fresh row through the COPY buffer. On an add event (isUpdate
// false) it skips straight to appending, since there is nothing to diff
// against yet.
func (pw *PlaceWriter) emit(osmType place.OSMType, osmID int64, rows []place.Row, isUpdate bool) error {
	if isUpdate {
		if !pw.slimMode {
			return errors.Wrap(gazetteerdb.ErrRequiresSlimMode, "PlaceWriter")
		}
		if err := pw.applyClassDiff(osmType, osmID, classNames(rows)); err != nil {
			return err
		}
	}
	for i := range rows {
		if err := pw.db.AppendLine(rows[i].RenderLine()); err != nil {
			return err
		}
	}
	return nil
}
