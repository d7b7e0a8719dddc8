package resolver

import (
	"context"

	"github.com/geonames/csc-resolver/app/models"
	"github.com/geonames/csc-resolver/internal/gazetteer"
	"github.com/geonames/csc-resolver/internal/normalizer"
	"go.uber.org/zap"
)

// CityMatch wraps the City|Admd|Admin2 return union of §4.F.
type CityMatch struct {
	City   *models.City
	Admd   *models.Admd
	Admin2 *models.Admin2
}

// Name returns the display name of whichever kind matched — used by
// the Scrubber to promote an ADMD/ADM2 localized name into the output
// city field per §4.G step 4.
func (m *CityMatch) Name() string {
	switch {
	case m.City != nil:
		return m.City.Name
	case m.Admd != nil:
		return m.Admd.Name
	case m.Admin2 != nil:
		return m.Admin2.Name
	default:
		return ""
	}
}

func (m *CityMatch) CountryCode() string {
	switch {
	case m.City != nil:
		return m.City.CountryCode
	case m.Admd != nil:
		return m.Admd.CountryCode
	case m.Admin2 != nil:
		return m.Admin2.CountryCode
	default:
		return ""
	}
}

func (m *CityMatch) Admin1Code() string {
	switch {
	case m.City != nil:
		return m.City.Admin1Code
	case m.Admd != nil:
		return m.Admd.Admin1Code
	default:
		return ""
	}
}

// CityResolver implements §4.F.
type CityResolver struct {
	idx    gazetteer.Index
	logger *zap.Logger
}

func NewCityResolver(idx gazetteer.Index, logger *zap.Logger) *CityResolver {
	return &CityResolver{idx: idx, logger: logger}
}

// Resolve implements resolve_city(token, countryCode, admin1Code) →
// Option<City|Admd|Admin2>, per §4.F steps 1–4.
func (r *CityResolver) Resolve(ctx context.Context, token, countryCode, admin1Code string) (*CityMatch, *Ambiguity, error) {
	if token == "" {
		return nil, nil, nil
	}
	k := normalizer.Normalize(token)

	queries := []gazetteer.Query{
		{CountryCode: countryCode, Admin1: admin1Code, Names: k},
		{CountryCode: countryCode, Names: k},
		{Names: k},
	}
	for _, q := range queries {
		if q.CountryCode == "" && q.Admin1 != "" {
			continue // admin1 without a country is not a valid filter shape
		}
		candidates, err := r.idx.Find(ctx, models.CollCities, q)
		if err != nil {
			return nil, nil, err
		}
		if len(candidates) > 0 {
			return r.winner(candidates)
		}
	}

	if countryCode != "" && NonEnglishSpeaking[countryCode] {
		for _, coll := range []models.Collection{models.CollAdmd, models.CollAdmin2} {
			for _, q := range []gazetteer.Query{
				{CountryCode: countryCode, Admin1: admin1Code, Names: k},
				{CountryCode: countryCode, Names: k},
			} {
				if q.Admin1 != "" && q.CountryCode == "" {
					continue
				}
				candidates, err := r.idx.Find(ctx, coll, q)
				if err != nil {
					return nil, nil, err
				}
				if len(candidates) > 0 {
					return r.winner(candidates)
				}
			}
		}
	}

	return nil, nil, nil
}

func (r *CityResolver) winner(candidates []models.Record) (*CityMatch, *Ambiguity, error) {
	var amb *Ambiguity
	if len(candidates) > 1 {
		amb = &Ambiguity{CandidateCount: len(candidates)}
	}
	switch top := candidates[0].(type) {
	case *models.City:
		return &CityMatch{City: top}, amb, nil
	case *models.Admd:
		return &CityMatch{Admd: top}, amb, nil
	case *models.Admin2:
		return &CityMatch{Admin2: top}, amb, nil
	}
	return nil, nil, nil
}
