// Package gazetteer implements the §4.C Gazetteer Index: read-only
// lookups over typed collections of GeoNames entities, backed by any
// store that honors the ordering and query-shape contract below.
package gazetteer

import (
	"context"
	"errors"
	"sort"

	"github.com/geonames/csc-resolver/app/models"
)

// Query is a conjunction of equality predicates over normalized
// fields. The zero value matches everything in the collection. Per
// §4.C, at minimum {CountryCode,Names}, {Names}, {CountryCode,Admin1,
// Names}, {CountryCode,Admin1Names}, {CountryCode,Admin2Names},
// {Abbr}, {NamesLang} must be supported — callers set only the fields
// that apply to their lookup shape.
type Query struct {
	CountryCode string
	ISO         string // exact match against Country.Iso (§4.D steps 3)
	ISO3        string // exact match against Country.Iso3 (§4.D step 4)
	Admin1      string
	Names       string // a normalized name that must be a member of the record's Names set
	Admin1Names string // a normalized name that must be a member of the record's Admin1Names set
	Admin2Names string // a normalized name that must be a member of the record's Admin2Names set
	Abbr        string // a normalized abbreviation that must be a member of the record's Abbr set
	Lang        string // restricts NamesLang lookups to this language code
	NamesLang   string // a normalized name that must be a member of NamesLang[Lang]
}

// ErrIndexMissing is the §7 fatal startup error: the backing store is
// unavailable or its version record is absent.
var ErrIndexMissing = errors.New("gazetteer: index missing or unversioned")

// ErrAmbiguousWithoutResolution is the §7 fatal index-integrity error:
// tie-breaking by (population, gid) is undefined because the records
// at stake have equal population and colliding gid.
var ErrAmbiguousWithoutResolution = errors.New("gazetteer: ambiguous candidates with no population/gid tiebreak")

// Index is the abstract store the resolver depends on. Implementations
// — MongoIndex, MeiliIndex, MemoryIndex, and the CachedIndex wrapper —
// all must return results ordered by (−population, gid) per §4.C.
type Index interface {
	Find(ctx context.Context, collection models.Collection, q Query) ([]models.Record, error)
	Count(ctx context.Context, collection models.Collection, q Query) (int, error)
	Get(ctx context.Context, collection models.Collection, gid int64) (models.Record, error)
	// Version returns the `util` collection's version string, or
	// ErrIndexMissing if the index has not completed a build.
	Version(ctx context.Context) (string, error)
}

// SortByPopulationThenGID enforces the §4.C / §5 ordering guarantee:
// descending population, ties broken by ascending gid. It is exported
// so every Index implementation can share one ordering routine rather
// than reimplementing the tiebreak.
func SortByPopulationThenGID(records []models.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		pi, pj := records[i].Pop(), records[j].Pop()
		if pi != pj {
			return pi > pj
		}
		return records[i].GazID() < records[j].GazID()
	})
}
