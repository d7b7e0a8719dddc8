// Package models holds the entity kinds of the GeoNames gazetteer: the
// immutable records the resolver reads, never the resolver's own state.
package models

// Base carries the fields common to every non-postcode entity kind.
type Base struct {
	GID         int64               `bson:"gid" json:"gid"`
	Name        string              `bson:"name" json:"name"`
	ASCIIName   string              `bson:"asciiname" json:"asciiname"`
	CountryCode string              `bson:"country_code,omitempty" json:"country_code,omitempty"`
	Names       map[string]struct{} `bson:"names" json:"names"`
	NamesLang   map[string][]string `bson:"names_lang" json:"names_lang"`
	Abbr        map[string]struct{} `bson:"abbr" json:"abbr"`
	Latitude    float64             `bson:"latitude" json:"latitude"`
	Longitude   float64             `bson:"longitude" json:"longitude"`
	Population  int64               `bson:"population" json:"population"`
	FeatureClass string             `bson:"feature_class" json:"feature_class"`
	FeatureCode  string             `bson:"feature_code" json:"feature_code"`
}

// Record is the common read surface every entity kind satisfies, letting
// the Gazetteer Index apply the (−population, gid) ordering invariant
// once, generically, instead of per collection.
type Record interface {
	GazID() int64
	Pop() int64
}

func (b *Base) GazID() int64 { return b.GID }
func (b *Base) Pop() int64   { return b.Population }

// AddName records a normalized lookup key. Per §3 invariant 1, the
// primary normalized name must always be present; callers are
// responsible for normalizing before calling AddName — this method only
// enforces the no-duplicates set semantics.
func (b *Base) AddName(normalized string) {
	if b.Names == nil {
		b.Names = make(map[string]struct{})
	}
	b.Names[normalized] = struct{}{}
}

func (b *Base) HasName(normalized string) bool {
	_, ok := b.Names[normalized]
	return ok
}

// AddLangName appends a normalized name to the ordered, dedup-enforced
// per-language list. Insertion order is preserved per §3.
func (b *Base) AddLangName(lang, normalized string) {
	if b.NamesLang == nil {
		b.NamesLang = make(map[string][]string)
	}
	for _, existing := range b.NamesLang[lang] {
		if existing == normalized {
			return
		}
	}
	b.NamesLang[lang] = append(b.NamesLang[lang], normalized)
}

func (b *Base) AddAbbr(normalized string) {
	if b.Abbr == nil {
		b.Abbr = make(map[string]struct{})
	}
	b.Abbr[normalized] = struct{}{}
}

// Country is a top-level entity; Base.CountryCode is left empty for it,
// Iso playing that role instead, per §3.
type Country struct {
	Base       `bson:",inline"`
	Iso        string   `bson:"iso" json:"iso"`
	Iso3       string   `bson:"iso3" json:"iso3"`
	Capital    int64    `bson:"capital" json:"capital"`
	Neighbours []string `bson:"neighbours" json:"neighbours"`
	Languages  []string `bson:"languages" json:"languages"`
}

// Admin1 is a first-level administrative division (state/province).
type Admin1 struct {
	Base         `bson:",inline"`
	Admin1Code   string              `bson:"admin1" json:"admin1"`
	Admin1Names  map[string]struct{} `bson:"admin1names" json:"admin1names"`
}

// Admin2 is a second-level administrative division (county/district).
type Admin2 struct {
	Base        `bson:",inline"`
	Admin1Code  string              `bson:"admin1" json:"admin1"`
	Admin2Code  string              `bson:"admin2" json:"admin2"`
	Admin2Names map[string]struct{} `bson:"admin2names" json:"admin2names"`
}

// Admd is any other administrative entity (GeoNames feature code ADMD),
// used as a city-resolution fallback for countries whose cities are
// conventionally indexed under a ward/district-level record instead.
type Admd struct {
	Base       `bson:",inline"`
	Admin1Code string `bson:"admin1" json:"admin1"`
	Admin2Code string `bson:"admin2" json:"admin2"`
}

// City is a populated place (GeoNames feature class P).
type City struct {
	Base       `bson:",inline"`
	Admin1Code string `bson:"admin1" json:"admin1"`
	Admin2Code string `bson:"admin2" json:"admin2"`
}

// Postcode carries no gid per §3 invariant 5 and is not a Record.
type Postcode struct {
	CountryCode string `bson:"country_code" json:"country_code"`
	PostCode    string `bson:"post_code" json:"post_code"`
	PlaceName   string `bson:"place_name" json:"place_name"`
	AdminName   string `bson:"admin_name" json:"admin_name"`
}

// Collection names the logical collection an entity kind lives in,
// mirroring §6's persisted index layout.
type Collection string

const (
	CollCountries Collection = "countries"
	CollAdmin1    Collection = "admin1"
	CollAdmin2    Collection = "admin2"
	CollAdmd      Collection = "admind"
	CollCities    Collection = "cities"
	CollPostcodes Collection = "postcodes"
)
