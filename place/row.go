// Package place defines the record written per classification and the COPY
// line it renders to.
package place

import (
	"strconv"
	"strings"

	"github.com/omniscale/gazetteer/copybuffer"
	"github.com/omniscale/gazetteer/tags"
)

// OSMType is the single-character discriminator stored in the osm_type
// column.
type OSMType byte

const (
	TypeNode     OSMType = 'N'
	TypeWay      OSMType = 'W'
	TypeRelation OSMType = 'R'
)

// ADMINLEVEL_NONE go-vet-unfriendly name avoided: exported as AdminLevelNone,
// the sentinel stored when no admin_level tag was present on the object.
const AdminLevelNone = 100

// Row is one emitted classification of one OSM object: everything needed
// to render a single COPY line for the place table.
type Row struct {
	OSMType     OSMType
	OSMID       int64
	Class       string
	Type        string
	Names       []tags.Pair
	AdminLevel  int
	HouseNumber string
	HasHouseNum bool
	Street      string
	HasStreet   bool
	AddrPlace   string
	HasAddr     bool
	Isin        string
	HasIsin     bool
	Postcode    string
	HasPostcode bool
	CountryCode string
	HasCountry  bool
	ExtraTags   []tags.Pair
	WKT         string // already SRID-prefixed, e.g. "SRID=4326;POINT(1 2)"
}

// field renders one nullable text column: \N when absent, the
// COPY-escaped value otherwise.
func field(value string, present bool) string {
	if !present {
		return copybuffer.NullField
	}
	return copybuffer.EscapeCopyField(value)
}

// RenderLine produces the full tab-separated, newline-terminated COPY line
// for this row, in the exact column order
// (osm_type, osm_id, class, type, name, admin_level, housenumber, street,
// addr_place, isin, postcode, country_code, extratags, geometry).
func (r *Row) RenderLine() string {
	cols := []string{
		string(r.OSMType),
		strconv.FormatInt(r.OSMID, 10),
		copybuffer.EscapeCopyField(r.Class),
		copybuffer.EscapeCopyField(r.Type),
		copybuffer.FormatHstore(r.Names),
		strconv.Itoa(r.AdminLevel),
		field(r.HouseNumber, r.HasHouseNum),
		field(r.Street, r.HasStreet),
		field(r.AddrPlace, r.HasAddr),
		field(r.Isin, r.HasIsin),
		field(r.Postcode, r.HasPostcode),
		field(r.CountryCode, r.HasCountry),
		copybuffer.FormatHstore(r.ExtraTags),
		copybuffer.EscapeCopyField(r.WKT),
	}
	return strings.Join(cols, "\t") + "\n"
}
