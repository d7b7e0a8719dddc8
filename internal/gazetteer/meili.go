package gazetteer

import (
	"context"
	"fmt"

	"github.com/geonames/csc-resolver/app/models"
	ms "github.com/meilisearch/meilisearch-go"
)

// MeiliIndex is a secondary, typo-tolerant Index over the same
// collections, backed by Meilisearch. No resolver selects it as a
// fallback: each resolver queries the single Index it is given, so
// MeiliIndex serves lookups only when it is that Index. Results are re-ranked by
// SortByPopulationThenGID before being handed back, so Meilisearch's
// own relevance ranking never leaks into the resolver's output
// ordering (§4.C).
type MeiliIndex struct {
	client  ms.ServiceManager
	version string
}

func NewMeiliIndex(url, apiKey, version string) *MeiliIndex {
	return &MeiliIndex{
		client:  ms.New(url, ms.WithAPIKey(apiKey)),
		version: version,
	}
}

func (idx *MeiliIndex) Version(ctx context.Context) (string, error) {
	if idx.version == "" {
		return "", ErrIndexMissing
	}
	return idx.version, nil
}

func (idx *MeiliIndex) Find(ctx context.Context, collection models.Collection, q Query) ([]models.Record, error) {
	filter := meiliFilter(q)
	term := q.Names
	if term == "" {
		term = q.Admin1Names
	}
	if term == "" {
		term = q.Admin2Names
	}

	resp, err := idx.client.Index(string(collection)).Search(term, &ms.SearchRequest{
		Filter: filter,
		Limit:  50,
	})
	if err != nil {
		return nil, fmt.Errorf("gazetteer: meilisearch query against %s: %w", collection, err)
	}

	out := make([]models.Record, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		m, ok := hit.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("gazetteer: meilisearch hit against %s: unexpected type %T", collection, hit)
		}
		rec, err := decodeMeiliHit(collection, m)
		if err != nil {
			return nil, err
		}
		if rec != nil {
			out = append(out, rec)
		}
	}
	SortByPopulationThenGID(out)
	return out, nil
}

func (idx *MeiliIndex) Count(ctx context.Context, collection models.Collection, q Query) (int, error) {
	records, err := idx.Find(ctx, collection, q)
	return len(records), err
}

func (idx *MeiliIndex) Get(ctx context.Context, collection models.Collection, gid int64) (models.Record, error) {
	var doc map[string]interface{}
	if err := idx.client.Index(string(collection)).GetDocument(fmt.Sprintf("%d", gid), nil, &doc); err != nil {
		return nil, err
	}
	return recordFromDoc(collection, doc)
}

// meiliFilter mirrors the teacher's FilterLevelParent helper,
// generalized from (level, parent_id) address hierarchy filters to
// country_code/admin1/iso/iso3 gazetteer filters.
func meiliFilter(q Query) string {
	var clauses []string
	if q.CountryCode != "" {
		clauses = append(clauses, fmt.Sprintf("country_code = %q", q.CountryCode))
	}
	if q.Admin1 != "" {
		clauses = append(clauses, fmt.Sprintf("admin1 = %q", q.Admin1))
	}
	if q.ISO != "" {
		clauses = append(clauses, fmt.Sprintf("iso = %q", q.ISO))
	}
	if q.ISO3 != "" {
		clauses = append(clauses, fmt.Sprintf("iso3 = %q", q.ISO3))
	}
	if len(clauses) == 0 {
		return ""
	}
	out := clauses[0]
	for _, c := range clauses[1:] {
		out += " AND " + c
	}
	return out
}

func decodeMeiliHit(collection models.Collection, hit map[string]interface{}) (models.Record, error) {
	return recordFromDoc(collection, hit)
}

func recordFromDoc(collection models.Collection, doc map[string]interface{}) (models.Record, error) {
	rec := newRecord(collection)
	if rec == nil {
		return nil, fmt.Errorf("gazetteer: unknown collection %q", collection)
	}
	base, ok := baseOf(rec)
	if !ok {
		return nil, nil
	}
	if gid, ok := doc["gid"].(float64); ok {
		base.GID = int64(gid)
	}
	if name, ok := doc["name"].(string); ok {
		base.Name = name
	}
	if cc, ok := doc["country_code"].(string); ok {
		base.CountryCode = cc
	}
	if pop, ok := doc["population"].(float64); ok {
		base.Population = int64(pop)
	}
	return rec, nil
}

func baseOf(rec models.Record) (*models.Base, bool) {
	switch r := rec.(type) {
	case *models.Country:
		return &r.Base, true
	case *models.Admin1:
		return &r.Base, true
	case *models.Admin2:
		return &r.Base, true
	case *models.Admd:
		return &r.Base, true
	case *models.City:
		return &r.Base, true
	default:
		return nil, false
	}
}
