package classify

import (
	"testing"

	"github.com/omniscale/gazetteer/tags"
)

func tagMap(pairs ...string) *tags.TagMap {
	tm := tags.New(len(pairs) / 2)
	for i := 0; i < len(pairs); i += 2 {
		tm.Add(pairs[i], pairs[i+1])
	}
	return tm
}

func hasPlace(c Classification, class, typ string) bool {
	for _, p := range c.Places {
		if p.Class == class && p.Type == typ {
			return true
		}
	}
	return false
}

func TestClassifyScenarios(t *testing.T) {
	tests := []struct {
		name   string
		tags   *tags.TagMap
		check  func(t *testing.T, c Classification)
	}{
		{
			"simple city node",
			tagMap("place", "city", "name", "Berlin", "population", "3500000"),
			func(t *testing.T, c Classification) {
				if len(c.Places) != 1 || !hasPlace(c, "place", "city") {
					t.Fatalf("places = %+v", c.Places)
				}
				if len(c.Names) != 1 || c.Names[0].Value != "Berlin" {
					t.Fatalf("names = %+v", c.Names)
				}
				if len(c.ExtraTags) != 1 || c.ExtraTags[0].Key != "population" {
					t.Fatalf("extratags = %+v", c.ExtraTags)
				}
			},
		},
		{
			"administrative boundary demotes place",
			tagMap("boundary", "administrative", "admin_level", "6", "place", "city", "name", "Foo"),
			func(t *testing.T, c Classification) {
				if len(c.Places) != 1 || !hasPlace(c, "boundary", "administrative") {
					t.Fatalf("places = %+v", c.Places)
				}
				if c.AdminLevel != 6 {
					t.Fatalf("admin_level = %d", c.AdminLevel)
				}
				found := false
				for _, e := range c.ExtraTags {
					if e.Key == "place" && e.Value == "city" {
						found = true
					}
				}
				if !found {
					t.Fatalf("expected demoted place=city in extratags, got %+v", c.ExtraTags)
				}
			},
		},
		{
			"housenumber and street",
			tagMap("addr:housenumber", "12", "addr:street", "Main St"),
			func(t *testing.T, c Classification) {
				if !hasPlace(c, "place", "house") {
					t.Fatalf("places = %+v", c.Places)
				}
				if !c.HasHouseNum || c.HouseNumber != "12" {
					t.Fatalf("housenumber = %+v", c)
				}
				if !c.HasStreet || c.Street != "Main St" {
					t.Fatalf("street = %+v", c)
				}
			},
		},
		{
			"czech slovak compounding",
			tagMap("addr:conscriptionnumber", "100", "addr:streetnumber", "7", "name", "Dum"),
			func(t *testing.T, c Classification) {
				if !hasPlace(c, "place", "house") {
					t.Fatalf("places = %+v", c.Places)
				}
				if !c.HasHouseNum || c.HouseNumber != "100/7" {
					t.Fatalf("housenumber = %+v", c)
				}
			},
		},
		{
			"highway crossing rejected",
			tagMap("highway", "crossing"),
			func(t *testing.T, c Classification) {
				if len(c.Places) != 0 {
					t.Fatalf("expected zero places, got %+v", c.Places)
				}
			},
		},
		{
			"landuse fallback requires names",
			tagMap("landuse", "forest", "name", "Sherwood"),
			func(t *testing.T, c Classification) {
				if len(c.Places) != 1 || !hasPlace(c, "landuse", "forest") {
					t.Fatalf("places = %+v", c.Places)
				}
			},
		},
		{
			"placehouse beats placebuilding",
			tagMap("building", "yes", "addr:housenumber", "3"),
			func(t *testing.T, c Classification) {
				if len(c.Places) != 1 || !hasPlace(c, "place", "house") {
					t.Fatalf("places = %+v", c.Places)
				}
				if !c.HasHouseNum || c.HouseNumber != "3" {
					t.Fatalf("housenumber = %+v", c)
				}
			},
		},
		{
			"country code length gate rejects",
			tagMap("country_code", "USA", "place", "country"),
			func(t *testing.T, c Classification) {
				if c.HasCountry {
					t.Fatalf("expected country code rejected, got %q", c.CountryCode)
				}
				if len(c.Places) != 1 || !hasPlace(c, "place", "country") {
					t.Fatalf("places = %+v", c.Places)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.tags)
			tt.check(t, c)
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	a := Classify(tagMap("place", "city", "name", "Berlin", "old_name", "Preussen"))
	b := Classify(tagMap("old_name", "Preussen", "name", "Berlin", "place", "city"))

	if len(a.Places) != len(b.Places) || !hasPlace(a, "place", "city") || !hasPlace(b, "place", "city") {
		t.Fatalf("places differ: %+v vs %+v", a.Places, b.Places)
	}
	if len(a.Names) != len(b.Names) {
		t.Fatalf("names differ: %+v vs %+v", a.Names, b.Names)
	}
}

func TestFirstWinsFields(t *testing.T) {
	a := Classify(tagMap("addr:housenumber", "1", "addr:housenumber", "2"))
	b := Classify(tagMap("addr:housenumber", "2", "addr:housenumber", "1"))
	if a.HouseNumber != "1" || b.HouseNumber != "2" {
		t.Fatalf("expected first-wins regardless of which value came first: %q %q", a.HouseNumber, b.HouseNumber)
	}

	c := Classify(tagMap("addr:street", "A", "addr:street", "B"))
	if c.Street != "A" {
		t.Fatalf("street should be first-wins, got %q", c.Street)
	}

	d := Classify(tagMap("postcode", "11111", "postcode", "22222"))
	if d.Postcode != "11111" {
		t.Fatalf("postcode should be first-wins, got %q", d.Postcode)
	}
}

func TestCountryCodeLengthGate(t *testing.T) {
	for _, v := range []string{"USA", "", "D", "GER"} {
		c := Classify(tagMap("country_code", v))
		if c.HasCountry {
			t.Fatalf("value %q should have been rejected", v)
		}
	}
	c := Classify(tagMap("country_code", "DE"))
	if !c.HasCountry || c.CountryCode != "DE" {
		t.Fatalf("2-letter code should be accepted, got %+v", c)
	}
}

func TestIso3166Alpha2Quirk(t *testing.T) {
	// iso3166-1:alpha2 is in the country-code family, strict len==2, so
	// a 2-character value is accepted even though it reads like a
	// sub-key of a country tag.
	c := Classify(tagMap("iso3166-1:alpha2", "en"))
	if !c.HasCountry || c.CountryCode != "en" {
		t.Fatalf("expected upstream quirk to accept len-2 value, got %+v", c)
	}
}

func TestIsInNeverLeadsWithComma(t *testing.T) {
	c := Classify(tagMap("is_in", "Berlin", "addr:county", "Mitte"))
	if !c.HasIsin {
		t.Fatalf("expected isin to be set")
	}
	if len(c.Isin) > 0 && c.Isin[0] == ',' {
		t.Fatalf("isin must not begin with a comma, got %q", c.Isin)
	}
}

func TestBicyleMisspellingPreserved(t *testing.T) {
	c := Classify(tagMap("bicyle", "yes"))
	if len(c.ExtraTags) != 1 || c.ExtraTags[0].Key != "bicyle" {
		t.Fatalf("expected misspelled key preserved verbatim, got %+v", c.ExtraTags)
	}

	c2 := Classify(tagMap("bicycle", "yes"))
	if len(c2.ExtraTags) != 0 {
		t.Fatalf("correctly-spelled bicycle is not in the extratags enumeration, got %+v", c2.ExtraTags)
	}
}

func TestAdminLevelDefaultsAndMalformed(t *testing.T) {
	none := Classify(tagMap("name", "x"))
	if none.AdminLevel != AdminLevelNone {
		t.Fatalf("expected default sentinel, got %d", none.AdminLevel)
	}

	malformed := Classify(tagMap("admin_level", "not-a-number"))
	if malformed.AdminLevel != 0 {
		t.Fatalf("expected malformed admin_level to degrade to 0, got %d", malformed.AdminLevel)
	}

	last := Classify(tagMap("admin_level", "4", "admin_level", "8"))
	if last.AdminLevel != 8 {
		t.Fatalf("expected last admin_level to win, got %d", last.AdminLevel)
	}
}

func TestShouldClassifyRelation(t *testing.T) {
	for _, ok := range []string{"boundary", "multipolygon", "waterway"} {
		if !ShouldClassifyRelation(ok) {
			t.Fatalf("%q should be classified", ok)
		}
	}
	for _, skip := range []string{"associatedStreet", "", "route"} {
		if ShouldClassifyRelation(skip) {
			t.Fatalf("%q should be delete-only", skip)
		}
	}
}
