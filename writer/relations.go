package writer

import (
	"strings"

	osm "github.com/omniscale/go-osm"
	"github.com/omniscale/gazetteer/classify"
	"github.com/omniscale/gazetteer/place"
	"github.com/omniscale/gazetteer/tags"
)

// AddRelation classifies a newly seen relation and, if its "type" tag
// admits it to classification and it contributes any places, resolves its
// member ways through the MiddleStore and builds the appropriate
// polygon/multipolygon or multiline geometry.
func (pw *PlaceWriter) AddRelation(r *osm.Relation) error {
	return pw.processRelation(r, false)
}

// ModifyRelation reclassifies a relation whose rows already exist, diffing
// away any class that no longer applies. Only valid in slim mode.
func (pw *PlaceWriter) ModifyRelation(r *osm.Relation) error {
	return pw.processRelation(r, true)
}

// DeleteRelation removes every row for a relation that no longer exists.
// Only valid in slim mode.
func (pw *PlaceWriter) DeleteRelation(id int64) error {
	return pw.emit(place.TypeRelation, id, nil, true)
}

func (pw *PlaceWriter) processRelation(r *osm.Relation, isUpdate bool) error {
	relType := r.Tags["type"]
	if !classify.ShouldClassifyRelation(relType) {
		// associatedStreet, a missing type tag, and every other value never
		// reach the classifier at all: only a delete can happen for them.
		return pw.emit(place.TypeRelation, r.ID, nil, isUpdate)
	}

	c := classify.Classify(tags.FromStringMap(r.Tags))

	var rows []place.Row
	if len(c.Places) > 0 {
		memberWayIDs := make([]int64, 0, len(r.Members))
		for _, m := range r.Members {
			if m.Type == osm.WayMember {
				memberWayIDs = append(memberWayIDs, m.ID)
			}
		}
		if len(memberWayIDs) > 0 {
			ways, err := pw.mid.WaysGetList(memberWayIDs)
			if err != nil {
				return err
			}
			if len(ways.FoundIDs) > 0 {
				rows = pw.buildRelationRows(r.ID, relType, c, ways)
			}
		}
	}
	return pw.emit(place.TypeRelation, r.ID, rows, isUpdate)
}

func (pw *PlaceWriter) buildRelationRows(id int64, relType string, c classify.Classification, ways WayList) []place.Row {
	if relType == "waterway" {
		wkt, ok := pw.geom.BuildMultilines(ways.Nodes, ways.NodeCounts, id)
		if !ok || wkt == "" {
			return nil
		}
		return rowsFor(place.TypeRelation, id, c, pw.sridWKT(wkt))
	}

	wkts, ok := pw.geom.BuildBoth(ways.Nodes, ways.NodeCounts, BuildPolygon|BuildMultiPolygon, relationGapThreshold, id)
	if !ok {
		return nil
	}
	var rows []place.Row
	for _, wkt := range wkts {
		if strings.HasPrefix(wkt, "POLYGON") || strings.HasPrefix(wkt, "MULTIPOLYGON") {
			rows = append(rows, rowsFor(place.TypeRelation, id, c, pw.sridWKT(wkt))...)
		}
	}
	return rows
}
