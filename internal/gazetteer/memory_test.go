package gazetteer

import (
	"context"
	"testing"

	"github.com/geonames/csc-resolver/app/models"
)

func newCountry(gid int64, iso string, pop int64, names ...string) *models.Country {
	c := &models.Country{Base: models.Base{GID: gid, CountryCode: "", Population: pop}, Iso: iso}
	for _, n := range names {
		c.AddName(n)
	}
	return c
}

func TestMemoryIndexOrdering(t *testing.T) {
	idx := NewMemoryIndex("v1")
	idx.Seed(models.CollCountries,
		newCountry(1, "AU", 100, "australia"),
		newCountry(2, "US", 500, "united states", "usa"),
		newCountry(3, "GB", 500, "united kingdom"), // same population as US, higher gid
	)

	records, err := idx.Find(context.Background(), models.CollCountries, Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// US and GB tie on population; the lowest gid wins ties, so US
	// (gid 2) comes before GB (gid 3), and AU (smaller population) is last.
	if records[0].GazID() != 2 || records[1].GazID() != 3 || records[2].GazID() != 1 {
		t.Errorf("ordering = %v, %v, %v; want gid order 2,3,1", records[0].GazID(), records[1].GazID(), records[2].GazID())
	}
}

func TestMemoryIndexFindByNames(t *testing.T) {
	idx := NewMemoryIndex("v1")
	idx.Seed(models.CollCountries, newCountry(1, "AU", 100, "australia"))

	records, err := idx.Find(context.Background(), models.CollCountries, Query{Names: "australia"})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	none, err := idx.Find(context.Background(), models.CollCountries, Query{Names: "atlantis"})
	if err != nil {
		t.Fatal(err)
	}
	if len(none) != 0 {
		t.Errorf("got %d records for unknown name, want 0", len(none))
	}
}

func TestMemoryIndexVersionMissing(t *testing.T) {
	idx := NewMemoryIndex("")
	if _, err := idx.Version(context.Background()); err != ErrIndexMissing {
		t.Errorf("Version() err = %v, want ErrIndexMissing", err)
	}
}
