package resolver

import (
	"context"
	"fmt"

	"github.com/geonames/csc-resolver/app/models"
	"github.com/geonames/csc-resolver/internal/gazetteer"
	"github.com/geonames/csc-resolver/internal/normalizer"
)

// CountryInfo implements the Query API's country_info(token) operation:
// a thin wrapper over the Country Resolver (§4.D) for callers that only
// need country lookup, not a full csc_scrub.
func CountryInfo(ctx context.Context, idx gazetteer.Index, token string) (*models.Country, error) {
	country, _, err := NewCountryResolver(idx, nil).Resolve(ctx, token)
	return country, err
}

// Norm implements the Query API's norm(field, cc, value) operation:
// resolve value as the given field kind ("country", "state", or
// "city") and return just its canonical name, grounded on the
// teacher's pattern of thin controller-style wrappers over a shared
// matcher, adapted here into a plain function rather than an HTTP
// handler.
func Norm(ctx context.Context, idx gazetteer.Index, field, cc, value string) (string, error) {
	switch field {
	case "country":
		country, _, err := NewCountryResolver(idx, nil).Resolve(ctx, value)
		if err != nil || country == nil {
			return "", err
		}
		return country.Name, nil
	case "state":
		state, _, err := NewStateResolver(idx, nil).Resolve(ctx, value, cc)
		if err != nil || state == nil {
			return "", err
		}
		if state.Admin1 != nil {
			return state.Admin1.Name, nil
		}
		return state.Admin2.Name, nil
	case "city":
		match, _, err := NewCityResolver(idx, nil).Resolve(ctx, value, cc, "")
		if err != nil || match == nil {
			return "", err
		}
		return match.Name(), nil
	default:
		return "", fmt.Errorf("resolver: norm: unknown field %q, want country|state|city", field)
	}
}

// FindCities implements the Query API's find_cities(name) operation:
// the full population-ordered candidate list for a name, unlike
// CityResolver.Resolve which collapses to a single winner. Only City
// records are returned — the ADMD/ADM2 fallback entities CityResolver
// may substitute in are specific to csc_scrub's single-result shape.
func FindCities(ctx context.Context, idx gazetteer.Index, name string) ([]*models.City, error) {
	k := normalizer.Normalize(name)
	records, err := idx.Find(ctx, models.CollCities, gazetteer.Query{Names: k})
	if err != nil {
		return nil, err
	}
	cities := make([]*models.City, 0, len(records))
	for _, rec := range records {
		if city, ok := rec.(*models.City); ok {
			cities = append(cities, city)
		}
	}
	return cities, nil
}
