package scrub

import (
	"context"
	"testing"

	"github.com/geonames/csc-resolver/app/models"
	"github.com/geonames/csc-resolver/internal/expand"
	"github.com/geonames/csc-resolver/internal/gazetteer"
	"github.com/geonames/csc-resolver/internal/normalizer"
)

func noClash(string, string, string) bool { return false }

// seedExpanded builds a City record whose Names set is populated the
// way the (out-of-scope) ingest pipeline would: by feeding the
// GeoNames primary name through expand.Expand and indexing every
// variant it returns, alongside the normalized primary name itself.
func seedExpanded(idx *gazetteer.MemoryIndex, gid int64, primaryName, cc, admin1 string) error {
	city := &models.City{Base: models.Base{GID: gid, Name: primaryName, CountryCode: cc, Population: 1000}, Admin1Code: admin1}
	city.AddName(normalizer.Normalize(primaryName))
	variants, err := expand.Expand(cc, admin1, primaryName, noClash)
	if err != nil {
		return err
	}
	for _, v := range variants {
		city.AddName(v)
	}
	idx.Seed(models.CollCities, city)
	return nil
}

// TestScrubConsumesExpandedBarenames proves the Name Expander's output
// is exactly what the City Resolver consumes, by building index
// entries through expand.Expand rather than hand-listing the expected
// alias strings, then driving them through the full Scrubber.
func TestScrubConsumesExpandedBarenames(t *testing.T) {
	idx := gazetteer.NewMemoryIndex("v1")

	us := &models.Country{Base: models.Base{GID: 1, Population: 330000000}, Iso: "US"}
	us.AddName(normalizer.Normalize("United States"))
	idx.Seed(models.CollCountries, us)

	ca := &models.Admin1{Base: models.Base{GID: 10, CountryCode: "US", Population: 39000000}, Admin1Code: "CA"}
	ca.AddName(normalizer.Normalize("California"))
	ca.AddAbbr(normalizer.Normalize("CA"))
	ny := &models.Admin1{Base: models.Base{GID: 11, CountryCode: "US", Population: 19000000}, Admin1Code: "NY"}
	ny.AddName(normalizer.Normalize("New York"))
	ny.AddAbbr(normalizer.Normalize("NY"))
	idx.Seed(models.CollAdmin1, ca, ny)

	if err := seedExpanded(idx, 100, "Cardiff-by-the-Sea", "US", "CA"); err != nil {
		t.Fatal(err)
	}
	if err := seedExpanded(idx, 101, "Annandale-on-Hudson", "US", "NY"); err != nil {
		t.Fatal(err)
	}

	s := New(idx, nil)

	t.Run("barename extraction", func(t *testing.T) {
		// spec.md §8 row 9: (Cardiff, CA, US) → Cardiff-by-the-Sea.
		// Only resolvable because expand.Expand's onByVariants rule
		// derived "Cardiff" as an alias at index-build time.
		res, err := s.Scrub(context.Background(), "Cardiff", "CA", "US", models.ScrubOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if res.Result == nil || res.Result.Name != "Cardiff-by-the-Sea" {
			t.Fatalf("Result = %v, want Cardiff-by-the-Sea", res.Result)
		}
		if res.Score != 1.0 {
			t.Errorf("Score = %v, want 1.0", res.Score)
		}
	})

	t.Run("on barename extraction", func(t *testing.T) {
		// spec.md §8 row 10: (Annandale, NY, US) → Annandale-on-Hudson.
		// Only resolvable because expand.Expand's onByVariants rule
		// also fires on the bare "on" form, not just "by".
		res, err := s.Scrub(context.Background(), "Annandale", "NY", "US", models.ScrubOptions{})
		if err != nil {
			t.Fatal(err)
		}
		if res.Result == nil || res.Result.Name != "Annandale-on-Hudson" {
			t.Fatalf("Result = %v, want Annandale-on-Hudson", res.Result)
		}
		if res.Score != 1.0 {
			t.Errorf("Score = %v, want 1.0", res.Score)
		}
	})
}
