package consensus

import (
	"time"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

// Field extractors turn one member's partially-filled record into a fully
// defaulted view so the reducers never have to null-check. They are total:
// a completely empty MemberPreference extracts cleanly on every dimension.

type dateView struct {
	earliestStart *time.Time
	latestEnd     *time.Time
	idealDuration string
}

// hasWindow reports whether the member stated both bounds. Members without a
// full window contribute nothing to the overlap computation.
func (v dateView) hasWindow() bool {
	return v.earliestStart != nil && v.latestEnd != nil
}

func extractDates(p domain.MemberPreference) dateView {
	if p.Dates == nil {
		return dateView{}
	}
	return dateView{
		earliestStart: cloneTimePtr(p.Dates.EarliestStart),
		latestEnd:     cloneTimePtr(p.Dates.LatestEnd),
		idealDuration: domain.NormalizeFreeText(p.Dates.IdealDuration),
	}
}

type budgetView struct {
	present bool

	min float64
	max float64

	includeFlights       bool
	includeAccommodation bool
	includeFood          bool
	includeActivities    bool

	flexibility domain.BudgetFlexibility
}

func extractBudget(p domain.MemberPreference) budgetView {
	if p.Budget == nil {
		// Absent budget sections are excluded from the feasibility band; a 0/0
		// default here would read as "demands a free trip" and manufacture
		// conflicts out of missing data.
		return budgetView{}
	}
	v := budgetView{
		present:              true,
		min:                  p.Budget.Min,
		max:                  p.Budget.Max,
		includeFlights:       p.Budget.IncludeFlights,
		includeAccommodation: p.Budget.IncludeAccommodation,
		includeFood:          p.Budget.IncludeFood,
		includeActivities:    p.Budget.IncludeActivities,
		flexibility:          p.Budget.Flexibility,
	}
	if v.flexibility == "" {
		v.flexibility = domain.DefaultBudgetFlexibility
	}
	return v
}

type destinationView struct {
	present bool

	// vibes is normalized and deduplicated per member.
	vibes []string
	scope domain.TripScope

	specificPlaces string
	placesToAvoid  string
}

func extractDestination(p domain.MemberPreference) destinationView {
	if p.Destination == nil {
		return destinationView{}
	}
	v := destinationView{
		present:        true,
		vibes:          normalizeTagSet(p.Destination.Vibes),
		scope:          p.Destination.Scope,
		specificPlaces: domain.NormalizeFreeText(p.Destination.SpecificPlaces),
		placesToAvoid:  domain.NormalizeFreeText(p.Destination.PlacesToAvoid),
	}
	if v.scope == "" {
		v.scope = domain.ScopeEither
	}
	return v
}

type constraintView struct {
	present bool

	dietary       []string
	accessibility []string

	hardNo string
}

func extractConstraints(p domain.MemberPreference) constraintView {
	if p.Constraints == nil {
		return constraintView{}
	}
	dietary := normalizeTagSet(p.Constraints.Dietary)
	if other := domain.NormalizeFreeText(p.Constraints.OtherDietary); other != "" {
		dietary = appendUnique(dietary, other)
	}
	accessibility := normalizeTagSet(p.Constraints.Accessibility)
	if other := domain.NormalizeFreeText(p.Constraints.OtherAccessibility); other != "" {
		accessibility = appendUnique(accessibility, other)
	}
	return constraintView{
		present:       true,
		dietary:       dietary,
		accessibility: accessibility,
		hardNo:        domain.NormalizeFreeText(p.Constraints.HardNos),
	}
}

// normalizeTagSet normalizes each tag, drops empties, and deduplicates while
// keeping first-seen order.
func normalizeTagSet(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		n := domain.NormalizeTag(t)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func appendUnique(set []string, v string) []string {
	for _, s := range set {
		if s == v {
			return set
		}
	}
	return append(set, v)
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
