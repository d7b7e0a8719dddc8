package gazetteer

import (
	"context"

	"github.com/geonames/csc-resolver/app/models"
)

// MemoryIndex is an in-memory fixture Index, used by resolver and
// scrubber tests so they never depend on a live Mongo/Meilisearch
// deployment — the "tests construct an in-memory index fixture" design
// note in §9.
type MemoryIndex struct {
	collections map[models.Collection][]models.Record
	version     string
}

// NewMemoryIndex builds a fixture index from a fixed set of records
// per collection. version stands in for the §6 `util` collection's
// version record; an empty version makes Version return ErrIndexMissing.
func NewMemoryIndex(version string) *MemoryIndex {
	return &MemoryIndex{
		collections: make(map[models.Collection][]models.Record),
		version:     version,
	}
}

func (m *MemoryIndex) Seed(collection models.Collection, records ...models.Record) {
	m.collections[collection] = append(m.collections[collection], records...)
}

func (m *MemoryIndex) Version(ctx context.Context) (string, error) {
	if m.version == "" {
		return "", ErrIndexMissing
	}
	return m.version, nil
}

func (m *MemoryIndex) Get(ctx context.Context, collection models.Collection, gid int64) (models.Record, error) {
	for _, r := range m.collections[collection] {
		if r.GazID() == gid {
			return r, nil
		}
	}
	return nil, nil
}

func (m *MemoryIndex) Find(ctx context.Context, collection models.Collection, q Query) ([]models.Record, error) {
	var out []models.Record
	for _, r := range m.collections[collection] {
		if matches(r, q) {
			out = append(out, r)
		}
	}
	SortByPopulationThenGID(out)
	return out, nil
}

func (m *MemoryIndex) Count(ctx context.Context, collection models.Collection, q Query) (int, error) {
	records, err := m.Find(ctx, collection, q)
	return len(records), err
}

// matches applies every predicate set on q; unset predicates (empty
// string) are ignored, per the conjunction semantics of §4.C.
func matches(r models.Record, q Query) bool {
	switch rec := r.(type) {
	case *models.Country:
		return matchBase(&rec.Base, q) &&
			(q.CountryCode == "" || rec.Iso == q.CountryCode) &&
			(q.ISO == "" || rec.Iso == q.ISO) &&
			(q.ISO3 == "" || rec.Iso3 == q.ISO3)
	case *models.Admin1:
		if q.Admin1Names != "" {
			if _, ok := rec.Admin1Names[q.Admin1Names]; !ok {
				return false
			}
		}
		return matchBase(&rec.Base, q) &&
			(q.Admin1 == "" || rec.Admin1Code == q.Admin1)
	case *models.Admin2:
		if q.Admin2Names != "" {
			if _, ok := rec.Admin2Names[q.Admin2Names]; !ok {
				return false
			}
		}
		return matchBase(&rec.Base, q) &&
			(q.Admin1 == "" || rec.Admin1Code == q.Admin1)
	case *models.Admd:
		return matchBase(&rec.Base, q) &&
			(q.Admin1 == "" || rec.Admin1Code == q.Admin1)
	case *models.City:
		return matchBase(&rec.Base, q) &&
			(q.Admin1 == "" || rec.Admin1Code == q.Admin1)
	default:
		return false
	}
}

func matchBase(b *models.Base, q Query) bool {
	if q.CountryCode != "" && b.CountryCode != "" && b.CountryCode != q.CountryCode {
		return false
	}
	if q.Names != "" {
		if _, ok := b.Names[q.Names]; !ok {
			return false
		}
	}
	if q.Abbr != "" {
		if _, ok := b.Abbr[q.Abbr]; !ok {
			return false
		}
	}
	if q.NamesLang != "" {
		found := false
		for lang, names := range b.NamesLang {
			if q.Lang != "" && lang != q.Lang {
				continue
			}
			for _, n := range names {
				if n == q.NamesLang {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
