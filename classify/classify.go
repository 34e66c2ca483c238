// Package classify turns a raw OSM tag dictionary into a Classification:
// the set of place candidates, names, extra tags and structured address
// fields that one object contributes to the place table. This is the
// decision tree the rest of the importer is built around.
package classify

import (
	"strconv"
	"strings"

	"github.com/omniscale/gazetteer/tags"
)

// PrimitiveKind identifies the OSM primitive a tag dictionary came from.
// The classification rules themselves do not branch on it and Classify does
// not take it; the writer picks the osm_type column per primitive itself
// and, for relations, decides whether to classify at all via
// ShouldClassifyRelation.
type PrimitiveKind int

const (
	Node PrimitiveKind = iota
	Way
	AreaRelation
)

// AdminLevelNone is the sentinel stored when an object carries no
// admin_level tag at all. place.AdminLevelNone must stay equal to this.
const AdminLevelNone = 100

// ClassType is one (class, type) place candidate.
type ClassType struct {
	Class string
	Type  string
}

// Classification is the output of Classify.
type Classification struct {
	Names     []tags.Pair
	Places    []ClassType
	ExtraTags []tags.Pair

	AdminLevel int

	HouseNumber string
	HasHouseNum bool
	Street      string
	HasStreet   bool
	AddrPlace   string
	HasAddrPlace bool
	Postcode    string
	HasPostcode bool
	CountryCode string
	HasCountry  bool

	// isin is assembled with a leading comma per entry and stripped at
	// the end; Isin never carries the leading comma once Classify
	// returns.
	Isin    string
	HasIsin bool
}

// relationTypes is the set of relation "type" tag values that are
// classified at all; everything else (including a missing type tag) is
// delete-only in update mode and never reaches Classify.
var relationTypes = map[string]bool{
	"boundary":     true,
	"multipolygon": true,
	"waterway":     true,
}

// ShouldClassifyRelation reports whether a relation's "type" tag admits it
// to classification. associatedStreet and any other value (including no
// type tag at all) are delete-only.
func ShouldClassifyRelation(relType string) bool {
	return relationTypes[relType]
}

// nameKeys is the exact-match half of rule (1).
var nameKeys = map[string]bool{
	"ref": true, "int_ref": true, "nat_ref": true, "reg_ref": true,
	"loc_ref": true, "old_ref": true, "ncn_ref": true, "rcn_ref": true,
	"lcn_ref": true, "iata": true, "icao": true,
	"pcode:1": true, "pcode:2": true, "pcode:3": true,
	"un:pcode:1": true, "un:pcode:2": true, "un:pcode:3": true,
	"name": true, "int_name": true, "nat_name": true, "reg_name": true,
	"loc_name": true, "old_name": true, "alt_name": true,
	"official_name": true, "commonname": true, "common_name": true,
	"place_name": true, "short_name": true, "operator": true,
}

// nameKeyPrefixes is the prefix-match half of rule (1).
var nameKeyPrefixes = []string{
	"name:", "int_name:", "nat_name:", "reg_name:", "loc_name:",
	"old_name:", "alt_name_", "alt_name:", "official_name:",
	"commonname:", "common_name:", "place_name:", "short_name:",
}

func isNameKey(key string) bool {
	if nameKeys[key] {
		return true
	}
	for _, p := range nameKeyPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

// yesNoRejectKeys reject only "yes"/"no".
var yesNoRejectKeys = map[string]bool{
	"emergency": true, "tourism": true, "historic": true,
	"military": true, "natural": true,
}

// noRejectKeys reject only "no".
var noRejectKeys = map[string]bool{
	"aerialway": true, "aeroway": true, "amenity": true, "boundary": true,
	"bridge": true, "craft": true, "leisure": true, "office": true,
	"railway": true, "shop": true, "tunnel": true,
}

var highwayReject = map[string]bool{
	"no": true, "turning_circle": true, "traffic_signals": true,
	"mini_roundabout": true, "noexit": true, "crossing": true,
}

var postcodeKeys = map[string]bool{
	"postal_code": true, "post_code": true, "postcode": true,
	"addr:postcode": true, "tiger:zip_left": true, "tiger:zip_right": true,
}

var countryCodeKeys = map[string]bool{
	"country_code_iso3166_1_alpha_2": true, "country_code_iso3166_1": true,
	"country_code_iso3166": true, "country_code": true,
	"iso3166-1:alpha2": true, "iso3166-1": true, "ISO3166-1": true,
	"iso3166": true, "is_in:country_code": true, "addr:country": true,
	"addr:country_code": true,
}

var isinKeys = map[string]bool{
	"is_in": true, "addr:suburb": true, "addr:county": true,
	"addr:city": true, "addr:state_code": true, "addr:state": true,
}

// extraTagKeys is the fixed enumeration of rule (7). bicyle is misspelled
// in the upstream rule table and is kept misspelled here. The upstream
// table also lists disused twice; a set holds it once, which behaves the
// same, so only bicyle's misspelling is externally observable.
var extraTagKeys = map[string]bool{
	"tracktype": true, "traffic_calming": true, "service": true,
	"cuisine": true, "capital": true, "dispensing": true, "religion": true,
	"denomination": true, "sport": true, "internet_access": true,
	"lanes": true, "surface": true, "smoothness": true, "width": true,
	"est_width": true, "incline": true, "opening_hours": true,
	"food_hours": true, "collection_times": true, "service_times": true,
	"smoking_hours": true, "disused": true, "wheelchair": true,
	"sac_scale": true, "trail_visibility": true, "mtb:scale": true,
	"mtb:description": true, "wood": true, "drive_thru": true,
	"drive_in": true, "access": true, "vehicle": true, "bicyle": true,
	"foot": true, "goods": true, "hgv": true, "motor_vehicle": true,
	"motor_car": true, "oneway": true, "date_on": true, "date_off": true,
	"day_on": true, "day_off": true, "hour_on": true, "hour_off": true,
	"maxweight": true, "maxheight": true, "maxspeed": true, "toll": true,
	"charge": true, "population": true, "description": true, "image": true,
	"attribution": true, "fax": true, "email": true, "url": true,
	"website": true, "phone": true, "tel": true, "real_ale": true,
	"smoking": true, "food": true, "camera": true, "brewery": true,
	"locality": true, "wikipedia": true,
}

var extraTagKeyPrefixes = []string{"access:", "contact:", "drink:", "wikipedia:"}

func isExtraTagKey(key string) bool {
	if extraTagKeys[key] {
		return true
	}
	for _, p := range extraTagKeyPrefixes {
		if strings.HasPrefix(key, p) {
			return true
		}
	}
	return false
}

type scanState struct {
	out Classification

	placeAdmin     bool
	placeHouse     bool
	placeBuilding  bool
	deferredPlace  tags.Pair
	hasDeferred    bool
	landuse        tags.Pair
	hasLanduse     bool
	conscription   string
	hasConscrip    bool
	streetNumber   string
	hasStreetNum   bool
	isinBuilder    strings.Builder
}

// Classify scans every tag in tm once, in order, and dispatches by key
// following the single if/else-if waterfall of the upstream rule table:
// the first matching branch wins a tag, keys matching none of the
// branches are dropped. It never fails; malformed values degrade silently.
func Classify(tm *tags.TagMap) Classification {
	st := &scanState{}
	st.out.AdminLevel = AdminLevelNone

	for _, p := range tm.Pairs() {
		st.dispatch(p.Key, p.Value)
	}

	st.finalize()
	return st.out
}

func (st *scanState) dispatch(key, value string) {
	switch {
	case isNameKey(key):
		if key == "name:prefix" {
			st.out.ExtraTags = append(st.out.ExtraTags, tags.Pair{Key: key, Value: value})
		} else {
			st.out.Names = append(st.out.Names, tags.Pair{Key: key, Value: value})
		}
	case yesNoRejectKeys[key]:
		if value != "yes" && value != "no" {
			st.out.Places = append(st.out.Places, ClassType{key, value})
		}
	case key == "highway":
		if !highwayReject[value] {
			st.out.Places = append(st.out.Places, ClassType{key, value})
		}
	case noRejectKeys[key]:
		if value != "no" {
			st.out.Places = append(st.out.Places, ClassType{key, value})
			if key == "boundary" && value == "administrative" {
				st.placeAdmin = true
			}
		}
	case key == "waterway":
		if value != "riverbank" {
			st.out.Places = append(st.out.Places, ClassType{key, value})
		}
	case key == "place":
		st.deferredPlace = tags.Pair{Key: key, Value: value}
		st.hasDeferred = true
	case key == "addr:housename":
		st.out.Names = append(st.out.Names, tags.Pair{Key: key, Value: value})
		st.placeHouse = true
	case key == "landuse":
		if value == "cemetery" {
			st.out.Places = append(st.out.Places, ClassType{key, value})
		} else {
			st.landuse = tags.Pair{Key: key, Value: value}
			st.hasLanduse = true
		}
	case postcodeKeys[key]:
		if !st.out.HasPostcode {
			st.out.Postcode = value
			st.out.HasPostcode = true
		}
	case key == "addr:street":
		if !st.out.HasStreet {
			st.out.Street = value
			st.out.HasStreet = true
		}
	case key == "addr:place":
		if !st.out.HasAddrPlace {
			st.out.AddrPlace = value
			st.out.HasAddrPlace = true
		}
	case countryCodeKeys[key] && len(value) == 2:
		st.out.CountryCode = value
		st.out.HasCountry = true
	case key == "addr:housenumber":
		if !st.out.HasHouseNum {
			st.out.HouseNumber = value
			st.out.HasHouseNum = true
		}
		st.placeHouse = true
	case key == "addr:conscriptionnumber":
		if !st.hasConscrip {
			st.conscription = value
			st.hasConscrip = true
		}
		st.placeHouse = true
	case key == "addr:streetnumber":
		if !st.hasStreetNum {
			st.streetNumber = value
			st.hasStreetNum = true
		}
		st.placeHouse = true
	case key == "addr:interpolation":
		if !st.out.HasHouseNum {
			st.out.HouseNumber = value
			st.out.HasHouseNum = true
			st.out.Places = append(st.out.Places, ClassType{"place", "houses"})
		}
	case key == "tiger:county":
		before, _, _ := strings.Cut(value, ",")
		st.appendIsin(before + " county")
	case key == "is_in" || strings.HasPrefix(key, "is_in") || isinKeys[key]:
		st.appendIsin(value)
	case key == "admin_level":
		st.out.AdminLevel = parseAdminLevel(value)
	case isExtraTagKey(key):
		st.out.ExtraTags = append(st.out.ExtraTags, tags.Pair{Key: key, Value: value})
	case key == "building":
		st.placeBuilding = true
	case key == "mountain_pass":
		st.out.Places = append(st.out.Places, ClassType{key, value})
	default:
		// dropped
	}
}

func (st *scanState) appendIsin(value string) {
	st.isinBuilder.WriteByte(',')
	st.isinBuilder.WriteString(value)
	st.out.HasIsin = true
}

// parseAdminLevel mirrors C's atoi: parse a leading optional sign and
// digits, 0 if nothing parses.
func parseAdminLevel(value string) int {
	end := 0
	if end < len(value) && (value[end] == '-' || value[end] == '+') {
		end++
	}
	start := end
	for end < len(value) && value[end] >= '0' && value[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	n, err := strconv.Atoi(value[:end])
	if err != nil {
		return 0
	}
	return n
}

func (st *scanState) finalize() {
	// (1) Czech/Slovak compounding.
	if st.hasConscrip || st.hasStreetNum {
		st.out.HasHouseNum = false
		st.out.HouseNumber = ""
		switch {
		case st.hasConscrip && st.hasStreetNum:
			st.out.HouseNumber = st.conscription + "/" + st.streetNumber
			st.out.HasHouseNum = true
		case st.hasStreetNum:
			st.out.HouseNumber = st.streetNumber
			st.out.HasHouseNum = true
		case st.hasConscrip:
			st.out.HouseNumber = st.conscription
			st.out.HasHouseNum = true
		}
	}

	// (2) Deferred place insertion.
	if st.hasDeferred {
		if st.placeAdmin {
			st.out.ExtraTags = append(st.out.ExtraTags, st.deferredPlace)
		} else {
			st.out.Places = append(st.out.Places, ClassType{st.deferredPlace.Key, st.deferredPlace.Value})
		}
	}

	// (3) placehouse fallback.
	if st.placeHouse && len(st.out.Places) == 0 {
		st.out.Places = append(st.out.Places, ClassType{"place", "house"})
	}

	// (4) placebuilding fallback.
	if st.placeBuilding && len(st.out.Places) == 0 &&
		(len(st.out.Names) > 0 || st.out.HasHouseNum || st.out.HasPostcode) {
		st.out.Places = append(st.out.Places, ClassType{"building", "yes"})
	}

	// (5) landuse fallback.
	if st.hasLanduse && len(st.out.Places) == 0 && len(st.out.Names) > 0 {
		st.out.Places = append(st.out.Places, ClassType{st.landuse.Key, st.landuse.Value})
	}

	// (6) postcode fallback.
	if st.out.HasPostcode && len(st.out.Places) == 0 {
		st.out.Places = append(st.out.Places, ClassType{"place", "postcode"})
	}

	if st.out.HasIsin {
		st.out.Isin = strings.TrimPrefix(st.isinBuilder.String(), ",")
	}
}
