package writer

import (
	"fmt"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/gazetteer/classify"
	"github.com/omniscale/gazetteer/place"
	"github.com/omniscale/gazetteer/tags"
)

// AddNode classifies a newly seen node and, if it contributes any places,
// appends one row per (class, type) pair.
func (pw *PlaceWriter) AddNode(n *osm.Node) error {
	return pw.processNode(n, false)
}

// ModifyNode reclassifies a node that the store has already emitted rows
// for, diffing away any class that no longer applies. Only valid in slim
// mode.
func (pw *PlaceWriter) ModifyNode(n *osm.Node) error {
	return pw.processNode(n, true)
}

// DeleteNode removes every row for a node that no longer exists. Only
// valid in slim mode.
func (pw *PlaceWriter) DeleteNode(id int64) error {
	return pw.emit(place.TypeNode, id, nil, true)
}

func (pw *PlaceWriter) processNode(n *osm.Node, isUpdate bool) error {
	c := classify.Classify(tags.FromStringMap(n.Tags))

	var rows []place.Row
	if len(c.Places) > 0 {
		wkt := pw.sridWKT(fmt.Sprintf("POINT(%.15g %.15g)", n.Long, n.Lat))
		rows = rowsFor(place.TypeNode, n.ID, c, wkt)
	}
	return pw.emit(place.TypeNode, n.ID, rows, isUpdate)
}
