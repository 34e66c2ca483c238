package writer

import (
	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/gazetteer/classify"
	"github.com/omniscale/gazetteer/place"
	"github.com/omniscale/gazetteer/tags"
)

// AddWay classifies a newly seen way and, if it contributes any places,
// resolves its node references through the MiddleStore and appends one row
// per (class, type) pair sharing the resulting geometry.
func (pw *PlaceWriter) AddWay(w *osm.Way) error {
	return pw.processWay(w, false)
}

// ModifyWay reclassifies a way whose rows already exist, diffing away any
// class that no longer applies. Only valid in slim mode.
func (pw *PlaceWriter) ModifyWay(w *osm.Way) error {
	return pw.processWay(w, true)
}

// DeleteWay removes every row for a way that no longer exists. Only valid
// in slim mode.
func (pw *PlaceWriter) DeleteWay(id int64) error {
	return pw.emit(place.TypeWay, id, nil, true)
}

func (pw *PlaceWriter) processWay(w *osm.Way, isUpdate bool) error {
	c := classify.Classify(tags.FromStringMap(w.Tags))

	var rows []place.Row
	if len(c.Places) > 0 {
		coords, err := pw.mid.NodesGetList(w.Refs)
		if err != nil {
			return err
		}
		// the upstream tag splitter always reports this way as an area
		// candidate regardless of its tags; GeomBuilder.Simple itself
		// decides whether the ring actually closes.
		if wkt, ok := pw.geom.Simple(coords, true); ok {
			rows = rowsFor(place.TypeWay, w.ID, c, pw.sridWKT(wkt))
		}
	}
	return pw.emit(place.TypeWay, w.ID, rows, isUpdate)
}
