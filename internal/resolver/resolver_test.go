package resolver

import (
	"context"
	"testing"

	"github.com/geonames/csc-resolver/app/models"
	"github.com/geonames/csc-resolver/internal/gazetteer"
)

func fixtureIndex() *gazetteer.MemoryIndex {
	idx := gazetteer.NewMemoryIndex("v1")

	au := &models.Country{Base: models.Base{GID: 1, Population: 25000000}, Iso: "AU", Iso3: "AUS"}
	au.AddName("australia")
	gb := &models.Country{Base: models.Base{GID: 2, Population: 67000000}, Iso: "GB", Iso3: "GBR"}
	gb.AddName("united kingdom")
	us := &models.Country{Base: models.Base{GID: 3, Population: 330000000}, Iso: "US", Iso3: "USA"}
	us.AddName("united states")
	pr := &models.Country{Base: models.Base{GID: 4, Population: 3200000}, Iso: "PR", Iso3: "PRI"}
	pr.AddName("puerto rico")
	idx.Seed(models.CollCountries, au, gb, us, pr)

	nsw := &models.Admin1{Base: models.Base{GID: 10, Name: "New South Wales", CountryCode: "AU", Population: 8000000}, Admin1Code: "NSW"}
	nsw.AddName("new south wales")
	nsw.AddAbbr("nsw")
	idx.Seed(models.CollAdmin1, nsw)

	mi := &models.Admin1{Base: models.Base{GID: 11, CountryCode: "US", Population: 10000000}, Admin1Code: "MI"}
	mi.AddName("michigan")
	mi.AddAbbr("mi")
	idx.Seed(models.CollAdmin1, mi)

	sydney := &models.City{Base: models.Base{GID: 100, Name: "Sydney", CountryCode: "AU", Population: 5300000}, Admin1Code: "NSW"}
	sydney.AddName("sydney")
	idx.Seed(models.CollCities, sydney)

	clinton := &models.City{Base: models.Base{GID: 101, Name: "Clinton", CountryCode: "US", Population: 100000}, Admin1Code: "MI"}
	clinton.AddName("clinton township")
	clinton.AddName("clinton")
	idx.Seed(models.CollCities, clinton)

	return idx
}

func TestCountryResolverISO(t *testing.T) {
	idx := fixtureIndex()
	r := NewCountryResolver(idx, nil)
	c, amb, err := r.Resolve(context.Background(), "AU")
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.Iso != "AU" {
		t.Fatalf("Resolve(AU) = %v, want AU", c)
	}
	if amb != nil {
		t.Errorf("unexpected ambiguity: %v", amb)
	}
}

func TestCountryResolverByName(t *testing.T) {
	idx := fixtureIndex()
	r := NewCountryResolver(idx, nil)
	c, _, err := r.Resolve(context.Background(), "Australia")
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.Iso != "AU" {
		t.Fatalf("Resolve(Australia) = %v, want AU", c)
	}
}

func TestCountryResolverEmpty(t *testing.T) {
	idx := fixtureIndex()
	r := NewCountryResolver(idx, nil)
	c, _, err := r.Resolve(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if c != nil {
		t.Errorf("Resolve(\"\") = %v, want nil", c)
	}
}

func TestStateResolverByAbbr(t *testing.T) {
	idx := fixtureIndex()
	r := NewStateResolver(idx, nil)
	s, _, err := r.Resolve(context.Background(), "NSW", "AU")
	if err != nil {
		t.Fatal(err)
	}
	if s == nil || s.AdminCode() != "NSW" {
		t.Fatalf("Resolve(NSW, AU) = %v, want NSW", s)
	}
}

func TestCityResolverWithinState(t *testing.T) {
	idx := fixtureIndex()
	r := NewCityResolver(idx, nil)
	c, _, err := r.Resolve(context.Background(), "Sydney", "AU", "NSW")
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.Name() != "Sydney" {
		t.Fatalf("Resolve(Sydney) = %v, want Sydney", c)
	}
}

func TestCityResolverSuffixedAlias(t *testing.T) {
	idx := fixtureIndex()
	r := NewCityResolver(idx, nil)
	c, _, err := r.Resolve(context.Background(), "Clinton", "US", "MI")
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.City.GID != 101 {
		t.Fatalf("Resolve(Clinton) = %v, want gid 101", c)
	}
}

func TestResolveUSTerritory(t *testing.T) {
	idx := fixtureIndex()
	c, err := ResolveUSTerritory(context.Background(), idx, "PR")
	if err != nil {
		t.Fatal(err)
	}
	if c == nil || c.Iso != "PR" {
		t.Fatalf("ResolveUSTerritory(PR) = %v, want PR", c)
	}
}
