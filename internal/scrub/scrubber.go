// Package scrub implements the §4.G CSC Scrubber: the orchestrator
// that runs the Country/State/City resolvers in the step order the
// spec mandates, tracks per-field status, and scores the result.
package scrub

import (
	"context"
	"strings"

	"github.com/geonames/csc-resolver/app/models"
	"github.com/geonames/csc-resolver/internal/gazetteer"
	"github.com/geonames/csc-resolver/internal/normalizer"
	"github.com/geonames/csc-resolver/internal/resolver"
	"go.uber.org/zap"
)

// Scrubber orchestrates the Country/State/City resolvers per §4.G.
type Scrubber struct {
	idx      gazetteer.Index
	countryR *resolver.CountryResolver
	stateR   *resolver.StateResolver
	cityR    *resolver.CityResolver
	logger   *zap.Logger
}

func New(idx gazetteer.Index, logger *zap.Logger) *Scrubber {
	return &Scrubber{
		idx:      idx,
		countryR: resolver.NewCountryResolver(idx, logger),
		stateR:   resolver.NewStateResolver(idx, logger),
		cityR:    resolver.NewCityResolver(idx, logger),
		logger:   logger,
	}
}

// field holds one input's trimmed value and resolution status as the
// algorithm progresses.
type field struct {
	value  string
	status models.FieldStatus
}

func newField(raw string) field {
	return field{value: strings.TrimSpace(raw)}
}

func (f field) missing() bool { return f.value == "" }

// Scrub implements csc_scrub(city, state, cc, opts), §4.G steps 1–7.
// All three inputs may be empty; a query with all three empty is the
// §7 MalformedQuery case, which returns NoMatch rather than erroring.
func (s *Scrubber) Scrub(ctx context.Context, city, state, cc string, opts models.ScrubOptions) (*models.ScrubResult, error) {
	cityF, stateF, ccF := newField(city), newField(state), newField(cc)

	if cityF.missing() && stateF.missing() && ccF.missing() {
		return &models.ScrubResult{Result: nil, Count: 0, Score: 0}, nil
	}

	// Step 2: resolve country.
	ccCandidate := ""
	if !ccF.missing() {
		country, _, err := s.countryR.Resolve(ctx, ccF.value)
		if err != nil {
			return nil, err
		}
		if country != nil {
			ccCandidate = country.Iso
			if strings.EqualFold(ccCandidate, strings.ToUpper(ccF.value)) {
				ccF.status = models.StatusOriginal
			} else {
				ccF.status = models.StatusModified
			}
		}
	}

	// Step 3: resolve state against the current country candidate.
	state3, stAmb, err := s.stateR.Resolve(ctx, stateF.value, ccCandidate)
	if err != nil {
		return nil, err
	}
	foreignState := false
	if state3 == nil && ccCandidate != "" && !stateF.missing() {
		// The state may exist only under another country (e.g. NSW given
		// with GB): look it up without the country filter so the override
		// below can weigh it.
		state3, stAmb, err = s.stateR.Resolve(ctx, stateF.value, "")
		if err != nil {
			return nil, err
		}
		foreignState = state3 != nil
	}
	if !stateF.missing() {
		if state3 != nil {
			stateF.status = models.StatusOriginal
		}
	}

	if state3 != nil {
		var stateCountry string
		if state3.Admin1 != nil {
			stateCountry = state3.Admin1.CountryCode
		} else if state3.Admin2 != nil {
			stateCountry = state3.Admin2.CountryCode
		}
		switch {
		case ccCandidate == "" && stateCountry != "":
			// The cc input was missing entirely: the state's own country
			// supplies it, per §4.G step 2's D-status derivation path.
			ccCandidate = stateCountry
			ccF.status = models.StatusDerived
		case ccCandidate != "" && stateCountry != "" && stateCountry != ccCandidate:
			// Candidate override: only take it if the (city, state) pair
			// is globally unambiguous, per §4.G step 3.
			unique, onlyCC, uerr := s.globallyUniqueCityState(ctx, cityF.value, stateF.value)
			if uerr != nil {
				return nil, uerr
			}
			if unique {
				ccCandidate = onlyCC
				ccF.status = models.StatusModified
				state3, stAmb, err = s.stateR.Resolve(ctx, stateF.value, ccCandidate)
				if err != nil {
					return nil, err
				}
			} else if foreignState {
				// No override: the state does not exist under the
				// tentative country, so it cannot scope the city lookup.
				state3, stAmb = nil, nil
			}
		}
	}

	if state3 == nil && !stateF.missing() {
		// §4.E's US-territory special case: a "state" token that is
		// really a territory's own ISO2 code (e.g. "PR") resolves to a
		// Country, not an Admin1 — recognized as given, so st_status
		// stays Original even though it drives a country correction.
		if territory, terr := resolver.ResolveUSTerritory(ctx, s.idx, stateF.value); terr == nil && territory != nil {
			if ccCandidate != territory.Iso {
				if ccF.missing() {
					ccF.status = models.StatusDerived
				} else {
					ccF.status = models.StatusModified
				}
				ccCandidate = territory.Iso
			} else if ccF.status == "" {
				ccF.status = models.StatusOriginal
			}
			stateF.status = models.StatusOriginal
		}
	}

	if stateF.missing() && state3 == nil && !cityF.missing() {
		// State input absent: see if the city alone implies a unique state.
		if derived, derr := s.deriveStateFromCity(ctx, cityF.value, ccCandidate); derr == nil && derived != nil {
			state3 = derived
			stateF.status = models.StatusDerived
		}
	}

	admin1 := state3.AdminCode()

	// Step 4: resolve city using the most specific filter available.
	cityMatch, cityAmb, err := s.cityR.Resolve(ctx, cityF.value, ccCandidate, admin1)
	if err != nil {
		return nil, err
	}
	if cityMatch == nil && admin1 != "" {
		// Loosen state and retry without the admin1 filter.
		cityMatch, cityAmb, err = s.cityR.Resolve(ctx, cityF.value, ccCandidate, "")
		if err != nil {
			return nil, err
		}
		if cityMatch != nil {
			stateF.status = models.StatusModified
		}
	}

	// Step 5: global fallback — drop cc entirely.
	finalCount := 0
	if cityMatch != nil {
		finalCount = 1
		if cityAmb != nil {
			finalCount = cityAmb.CandidateCount
		}
	}
	if cityMatch == nil {
		global, gAmb, gerr := s.cityR.Resolve(ctx, cityF.value, "", "")
		if gerr != nil {
			return nil, gerr
		}
		if global != nil {
			cityMatch = global
			finalCount = 1
			if gAmb != nil {
				finalCount = gAmb.CandidateCount
			}
			resolvedCC := global.CountryCode()
			if resolvedCC != "" && resolvedCC != ccCandidate {
				ccCandidate = resolvedCC
				ccF.status = models.StatusModified
			}
		}
	}

	if cityMatch == nil {
		return &models.ScrubResult{Result: nil, Count: 0, Score: 0}, nil
	}

	if cityF.missing() {
		cityF.status = models.StatusDerived
	} else if cityF.status == "" {
		cityF.status = models.StatusOriginal
	}
	if ccF.missing() && ccCandidate != "" {
		ccF.status = models.StatusDerived
	}
	if stateF.status == "" && !stateF.missing() {
		stateF.status = models.StatusOriginal
	}

	if stAmb != nil && s.logger != nil {
		s.logger.Debug("state resolution ambiguous", zap.Int("candidates", stAmb.CandidateCount))
	}

	result := &models.ScrubResult{
		Result:   matchToCity(cityMatch),
		CCStatus: ccF.status,
		StStatus: stateF.status,
		Count:    finalCount,
	}
	result.Score = score(ccF.status, stateF.status)

	if opts.Verbose {
		result.Candidates = []*models.City{result.Result}
	}

	return result, nil
}

// score implements §4.G step 6: 1.0 base, −0.1 per M field, −0.2 per D
// field, clamped at 0. The city field's own status never subtracts —
// spec.md's scoring table only ever penalizes cc_status/st_status, and
// every worked example in §8 is consistent with that reading.
func score(ccStatus, stStatus models.FieldStatus) float64 {
	s := 1.0
	for _, st := range []models.FieldStatus{ccStatus, stStatus} {
		switch st {
		case models.StatusModified:
			s -= 0.1
		case models.StatusDerived:
			s -= 0.2
		}
	}
	if s < 0 {
		s = 0
	}
	return s
}

func matchToCity(m *resolver.CityMatch) *models.City {
	if m == nil {
		return nil
	}
	if m.City != nil {
		return m.City
	}
	// ADMD/ADM2 fallback promotes the localized admin name into the
	// city output field per §4.G step 4.
	name := m.Name()
	cc := m.CountryCode()
	promoted := &models.City{Base: models.Base{Name: name, CountryCode: cc}}
	promoted.AddName(normalizer.Normalize(name))
	return promoted
}

// globallyUniqueCityState supports §4.G step 3's override rule: a
// (city, state) pair unambiguous across the whole gazetteer licenses
// adopting the state's own country over the tentative country guess.
func (s *Scrubber) globallyUniqueCityState(ctx context.Context, city, state string) (bool, string, error) {
	if city == "" || state == "" {
		return false, "", nil
	}
	matched, _, err := s.cityR.Resolve(ctx, city, "", "")
	if err != nil || matched == nil {
		return false, "", err
	}
	cc := matched.CountryCode()
	st, _, err := s.stateR.Resolve(ctx, state, cc)
	if err != nil || st == nil {
		return false, "", err
	}
	count, err := s.idx.Count(ctx, models.CollCities, gazetteer.Query{Names: normalizer.Normalize(city)})
	if err != nil {
		return false, "", err
	}
	return count == 1, cc, nil
}

// deriveStateFromCity supports §4.G step 3's D-status path: when the
// state input is absent, check whether resolving the city alone
// (within the tentative country) already pins down a single admin1.
func (s *Scrubber) deriveStateFromCity(ctx context.Context, city, cc string) (*resolver.StateOrDivision, error) {
	match, amb, err := s.cityR.Resolve(ctx, city, cc, "")
	if err != nil || match == nil || amb != nil {
		return nil, err
	}
	admin1 := match.Admin1Code()
	if admin1 == "" {
		return nil, nil
	}
	st, _, err := s.stateR.Resolve(ctx, admin1, match.CountryCode())
	return st, err
}
