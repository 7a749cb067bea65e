package httpapi

import (
	"time"

	"github.com/oapi-codegen/nullable"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/tripsync-app/consensus-api/internal/app/preferences"
	"github.com/tripsync-app/consensus-api/internal/app/trips"
	"github.com/tripsync-app/consensus-api/internal/domain"
)

// Wire DTOs. Dates on the wire are date-only strings (2026-05-01); timestamps
// are RFC 3339.

type createTripRequest struct {
	Name string `json:"name"`
}

type tripResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Organizer string    `json:"organizer"`
	MemberIDs []string  `json:"memberIds"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type tripListResponse struct {
	Trips []tripResponse `json:"trips"`
}

type datePrefsDTO struct {
	EarliestStart *openapi_types.Date `json:"earliestStart,omitempty"`
	LatestEnd     *openapi_types.Date `json:"latestEnd,omitempty"`
	IdealDuration string              `json:"idealDuration,omitempty"`
	Flexible      bool                `json:"flexible,omitempty"`
}

type budgetPrefsDTO struct {
	Min                  float64 `json:"min"`
	Max                  float64 `json:"max"`
	IncludeFlights       bool    `json:"includeFlights,omitempty"`
	IncludeAccommodation bool    `json:"includeAccommodation,omitempty"`
	IncludeFood          bool    `json:"includeFood,omitempty"`
	IncludeActivities    bool    `json:"includeActivities,omitempty"`
	Flexibility          string  `json:"flexibility,omitempty"`
}

type destinationPrefsDTO struct {
	Vibes          []string `json:"vibes,omitempty"`
	Scope          string   `json:"scope,omitempty"`
	SpecificPlaces string   `json:"specificPlaces,omitempty"`
	PlacesToAvoid  string   `json:"placesToAvoid,omitempty"`
}

type constraintPrefsDTO struct {
	Dietary            []string `json:"dietary,omitempty"`
	OtherDietary       string   `json:"otherDietary,omitempty"`
	Accessibility      []string `json:"accessibility,omitempty"`
	OtherAccessibility string   `json:"otherAccessibility,omitempty"`
	HardNos            string   `json:"hardNos,omitempty"`
}

type putPreferenceRequest struct {
	Dates       *datePrefsDTO        `json:"dates,omitempty"`
	Budget      *budgetPrefsDTO      `json:"budget,omitempty"`
	Destination *destinationPrefsDTO `json:"destination,omitempty"`
	Constraints *constraintPrefsDTO  `json:"constraints,omitempty"`
}

// patchPreferenceRequest distinguishes omitted sections from explicit nulls.
type patchPreferenceRequest struct {
	Dates       nullable.Nullable[datePrefsDTO]        `json:"dates,omitempty"`
	Budget      nullable.Nullable[budgetPrefsDTO]      `json:"budget,omitempty"`
	Destination nullable.Nullable[destinationPrefsDTO] `json:"destination,omitempty"`
	Constraints nullable.Nullable[constraintPrefsDTO]  `json:"constraints,omitempty"`
}

type preferenceResponse struct {
	TripID      string               `json:"tripId"`
	MemberID    string               `json:"memberId"`
	Dates       *datePrefsDTO        `json:"dates,omitempty"`
	Budget      *budgetPrefsDTO      `json:"budget,omitempty"`
	Destination *destinationPrefsDTO `json:"destination,omitempty"`
	Constraints *constraintPrefsDTO  `json:"constraints,omitempty"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

type preferenceListResponse struct {
	Preferences []preferenceResponse `json:"preferences"`
}

type dateRangeDTO struct {
	Start openapi_types.Date `json:"start"`
	End   openapi_types.Date `json:"end"`
}

type groupDateWindowDTO struct {
	EarliestCommonStart *openapi_types.Date `json:"earliestCommonStart,omitempty"`
	LatestCommonEnd     *openapi_types.Date `json:"latestCommonEnd,omitempty"`
	CommonWindow        *dateRangeDTO       `json:"commonWindow,omitempty"`
	OverlapDays         int                 `json:"overlapDays"`
	IdealDurations      []string            `json:"idealDurations"`
	MembersWithDates    int                 `json:"membersWithDates"`
}

type groupBudgetDTO struct {
	MinBudget          float64        `json:"minBudget"`
	MaxBudget          float64        `json:"maxBudget"`
	AverageBudget      float64        `json:"averageBudget"`
	CommonInclusions   []string       `json:"commonInclusions"`
	FlexibilityLevels  map[string]int `json:"flexibilityLevels"`
	MembersWithBudgets int            `json:"membersWithBudgets"`
}

type groupDestinationDTO struct {
	CommonVibes      []string       `json:"commonVibes"`
	AllVibes         []string       `json:"allVibes"`
	VibeCounts       map[string]int `json:"vibeCounts"`
	PopularScopes    map[string]int `json:"popularScopes"`
	SpecificPlaces   []string       `json:"specificPlaces"`
	PlacesToAvoid    []string       `json:"placesToAvoid"`
	MembersWithVibes int            `json:"membersWithVibes"`
}

type groupConstraintsDTO struct {
	Dietary                []string `json:"dietary"`
	Accessibility          []string `json:"accessibility"`
	HardNos                []string `json:"hardNos"`
	MembersWithConstraints int      `json:"membersWithConstraints"`
}

type conflictReportDTO struct {
	HasConflicts    bool     `json:"hasConflicts"`
	NoDateOverlap   bool     `json:"noDateOverlap"`
	NoBudgetOverlap bool     `json:"noBudgetOverlap"`
	NoCommonVibes   bool     `json:"noCommonVibes"`
	Details         []string `json:"details"`
}

type groupProfileDTO struct {
	Dates            groupDateWindowDTO  `json:"dates"`
	Budget           groupBudgetDTO      `json:"budget"`
	Destination      groupDestinationDTO `json:"destination"`
	Constraints      groupConstraintsDTO `json:"constraints"`
	Conflicts        conflictReportDTO   `json:"conflicts"`
	RespondedMembers int                 `json:"respondedMembers"`
}

type groupConsensusResponse struct {
	TripID       string          `json:"tripId"`
	Profile      groupProfileDTO `json:"profile"`
	TotalMembers int             `json:"totalMembers"`
	ResponseRate float64         `json:"responseRate"`
}

// --- conversions ---

func tripResponseFromView(v trips.TripView) tripResponse {
	members := make([]string, 0, len(v.MemberIDs))
	for _, m := range v.MemberIDs {
		members = append(members, string(m))
	}
	return tripResponse{
		ID:        string(v.ID),
		Name:      v.Name,
		Organizer: string(v.Organizer),
		MemberIDs: members,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func datesInputFromDTO(d datePrefsDTO) preferences.DatesInput {
	return preferences.DatesInput{
		EarliestStart: timeFromDatePtr(d.EarliestStart),
		LatestEnd:     timeFromDatePtr(d.LatestEnd),
		IdealDuration: d.IdealDuration,
		Flexible:      d.Flexible,
	}
}

func budgetInputFromDTO(d budgetPrefsDTO) preferences.BudgetInput {
	return preferences.BudgetInput{
		Min:                  d.Min,
		Max:                  d.Max,
		IncludeFlights:       d.IncludeFlights,
		IncludeAccommodation: d.IncludeAccommodation,
		IncludeFood:          d.IncludeFood,
		IncludeActivities:    d.IncludeActivities,
		Flexibility:          d.Flexibility,
	}
}

func destinationInputFromDTO(d destinationPrefsDTO) preferences.DestinationInput {
	return preferences.DestinationInput{
		Vibes:          d.Vibes,
		Scope:          d.Scope,
		SpecificPlaces: d.SpecificPlaces,
		PlacesToAvoid:  d.PlacesToAvoid,
	}
}

func constraintsInputFromDTO(d constraintPrefsDTO) preferences.ConstraintsInput {
	return preferences.ConstraintsInput{
		Dietary:            d.Dietary,
		OtherDietary:       d.OtherDietary,
		Accessibility:      d.Accessibility,
		OtherAccessibility: d.OtherAccessibility,
		HardNos:            d.HardNos,
	}
}

func putInputFromRequest(req putPreferenceRequest) preferences.PutPreferenceInput {
	var in preferences.PutPreferenceInput
	if req.Dates != nil {
		v := datesInputFromDTO(*req.Dates)
		in.Dates = &v
	}
	if req.Budget != nil {
		v := budgetInputFromDTO(*req.Budget)
		in.Budget = &v
	}
	if req.Destination != nil {
		v := destinationInputFromDTO(*req.Destination)
		in.Destination = &v
	}
	if req.Constraints != nil {
		v := constraintsInputFromDTO(*req.Constraints)
		in.Constraints = &v
	}
	return in
}

func patchInputFromRequest(req patchPreferenceRequest) (preferences.PatchPreferenceInput, error) {
	var in preferences.PatchPreferenceInput
	if req.Dates.IsSpecified() {
		if req.Dates.IsNull() {
			in.Dates = preferences.Null[preferences.DatesInput]()
		} else {
			v, err := req.Dates.Get()
			if err != nil {
				return in, err
			}
			in.Dates = preferences.Some(datesInputFromDTO(v))
		}
	}
	if req.Budget.IsSpecified() {
		if req.Budget.IsNull() {
			in.Budget = preferences.Null[preferences.BudgetInput]()
		} else {
			v, err := req.Budget.Get()
			if err != nil {
				return in, err
			}
			in.Budget = preferences.Some(budgetInputFromDTO(v))
		}
	}
	if req.Destination.IsSpecified() {
		if req.Destination.IsNull() {
			in.Destination = preferences.Null[preferences.DestinationInput]()
		} else {
			v, err := req.Destination.Get()
			if err != nil {
				return in, err
			}
			in.Destination = preferences.Some(destinationInputFromDTO(v))
		}
	}
	if req.Constraints.IsSpecified() {
		if req.Constraints.IsNull() {
			in.Constraints = preferences.Null[preferences.ConstraintsInput]()
		} else {
			v, err := req.Constraints.Get()
			if err != nil {
				return in, err
			}
			in.Constraints = preferences.Some(constraintsInputFromDTO(v))
		}
	}
	return in, nil
}

func preferenceResponseFromDomain(p domain.MemberPreference) preferenceResponse {
	resp := preferenceResponse{
		TripID:    string(p.TripID),
		MemberID:  string(p.MemberID),
		UpdatedAt: p.UpdatedAt,
	}
	if p.Dates != nil {
		resp.Dates = &datePrefsDTO{
			EarliestStart: dateFromTimePtr(p.Dates.EarliestStart),
			LatestEnd:     dateFromTimePtr(p.Dates.LatestEnd),
			IdealDuration: p.Dates.IdealDuration,
			Flexible:      p.Dates.Flexible,
		}
	}
	if p.Budget != nil {
		resp.Budget = &budgetPrefsDTO{
			Min:                  p.Budget.Min,
			Max:                  p.Budget.Max,
			IncludeFlights:       p.Budget.IncludeFlights,
			IncludeAccommodation: p.Budget.IncludeAccommodation,
			IncludeFood:          p.Budget.IncludeFood,
			IncludeActivities:    p.Budget.IncludeActivities,
			Flexibility:          string(p.Budget.Flexibility),
		}
	}
	if p.Destination != nil {
		resp.Destination = &destinationPrefsDTO{
			Vibes:          p.Destination.Vibes,
			Scope:          string(p.Destination.Scope),
			SpecificPlaces: p.Destination.SpecificPlaces,
			PlacesToAvoid:  p.Destination.PlacesToAvoid,
		}
	}
	if p.Constraints != nil {
		resp.Constraints = &constraintPrefsDTO{
			Dietary:            p.Constraints.Dietary,
			OtherDietary:       p.Constraints.OtherDietary,
			Accessibility:      p.Constraints.Accessibility,
			OtherAccessibility: p.Constraints.OtherAccessibility,
			HardNos:            p.Constraints.HardNos,
		}
	}
	return resp
}

func consensusResponseFromDomain(c domain.GroupConsensus) groupConsensusResponse {
	p := c.Profile

	dates := groupDateWindowDTO{
		EarliestCommonStart: dateFromTimePtr(p.Dates.EarliestCommonStart),
		LatestCommonEnd:     dateFromTimePtr(p.Dates.LatestCommonEnd),
		OverlapDays:         p.Dates.OverlapDays,
		IdealDurations:      emptyIfNil(p.Dates.IdealDurations),
		MembersWithDates:    p.Dates.MembersWithDates,
	}
	if p.Dates.CommonWindow != nil {
		dates.CommonWindow = &dateRangeDTO{
			Start: openapi_types.Date{Time: p.Dates.CommonWindow.Start},
			End:   openapi_types.Date{Time: p.Dates.CommonWindow.End},
		}
	}

	flex := make(map[string]int, len(p.Budget.FlexibilityLevels))
	for k, v := range p.Budget.FlexibilityLevels {
		flex[string(k)] = v
	}
	scopes := make(map[string]int, len(p.Destination.PopularScopes))
	for k, v := range p.Destination.PopularScopes {
		scopes[string(k)] = v
	}

	return groupConsensusResponse{
		TripID: string(c.TripID),
		Profile: groupProfileDTO{
			Dates: dates,
			Budget: groupBudgetDTO{
				MinBudget:          p.Budget.MinBudget,
				MaxBudget:          p.Budget.MaxBudget,
				AverageBudget:      p.Budget.AverageBudget,
				CommonInclusions:   emptyIfNil(p.Budget.CommonInclusions),
				FlexibilityLevels:  flex,
				MembersWithBudgets: p.Budget.MembersWithBudgets,
			},
			Destination: groupDestinationDTO{
				CommonVibes:      emptyIfNil(p.Destination.CommonVibes),
				AllVibes:         emptyIfNil(p.Destination.AllVibes),
				VibeCounts:       p.Destination.VibeCounts,
				PopularScopes:    scopes,
				SpecificPlaces:   emptyIfNil(p.Destination.SpecificPlaces),
				PlacesToAvoid:    emptyIfNil(p.Destination.PlacesToAvoid),
				MembersWithVibes: p.Destination.MembersWithVibes,
			},
			Constraints: groupConstraintsDTO{
				Dietary:                emptyIfNil(p.Constraints.Dietary),
				Accessibility:          emptyIfNil(p.Constraints.Accessibility),
				HardNos:                emptyIfNil(p.Constraints.HardNos),
				MembersWithConstraints: p.Constraints.MembersWithConstraints,
			},
			Conflicts: conflictReportDTO{
				HasConflicts:    p.Conflicts.HasConflicts,
				NoDateOverlap:   p.Conflicts.NoDateOverlap,
				NoBudgetOverlap: p.Conflicts.NoBudgetOverlap,
				NoCommonVibes:   p.Conflicts.NoCommonVibes,
				Details:         emptyIfNil(p.Conflicts.Details),
			},
			RespondedMembers: p.RespondedMembers,
		},
		TotalMembers: c.TotalMembers,
		ResponseRate: c.ResponseRate,
	}
}

func timeFromDatePtr(d *openapi_types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func dateFromTimePtr(t *time.Time) *openapi_types.Date {
	if t == nil {
		return nil
	}
	return &openapi_types.Date{Time: *t}
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
