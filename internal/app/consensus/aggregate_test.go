package consensus

import (
	"reflect"
	"testing"
	"time"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func prefWithDates(member string, start, end *time.Time) domain.MemberPreference {
	return domain.MemberPreference{
		TripID:   "trip-1",
		MemberID: domain.MemberID(member),
		Dates:    &domain.DatePrefs{EarliestStart: start, LatestEnd: end},
	}
}

func prefWithBudget(member string, min, max float64) domain.MemberPreference {
	return domain.MemberPreference{
		TripID:   "trip-1",
		MemberID: domain.MemberID(member),
		Budget:   &domain.BudgetPrefs{Min: min, Max: max},
	}
}

func prefWithVibes(member string, vibes ...string) domain.MemberPreference {
	return domain.MemberPreference{
		TripID:      "trip-1",
		MemberID:    domain.MemberID(member),
		Destination: &domain.DestinationPrefs{Vibes: vibes},
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	t.Parallel()

	p := Aggregate(nil)

	if p.RespondedMembers != 0 {
		t.Fatalf("RespondedMembers = %d, want 0", p.RespondedMembers)
	}
	if p.Dates.EarliestCommonStart != nil || p.Dates.LatestCommonEnd != nil || p.Dates.CommonWindow != nil {
		t.Fatalf("expected nil date bounds, got %+v", p.Dates)
	}
	if p.Budget.MembersWithBudgets != 0 {
		t.Fatalf("MembersWithBudgets = %d, want 0", p.Budget.MembersWithBudgets)
	}
	if p.Conflicts.HasConflicts {
		t.Fatalf("empty input must not conflict: %+v", p.Conflicts)
	}
	if p.Conflicts.Details == nil || len(p.Conflicts.Details) != 0 {
		t.Fatalf("Details must be an empty non-nil slice, got %#v", p.Conflicts.Details)
	}
}

func TestAggregate_DateWindowIntersection(t *testing.T) {
	t.Parallel()

	p := Aggregate([]domain.MemberPreference{
		prefWithDates("m-a", dayPtr(2026, time.May, 1), dayPtr(2026, time.May, 10)),
		prefWithDates("m-b", dayPtr(2026, time.May, 8), dayPtr(2026, time.May, 20)),
	})

	if p.Dates.CommonWindow == nil {
		t.Fatalf("expected a common window, got none")
	}
	if got, want := p.Dates.CommonWindow.Start, day(2026, time.May, 8); !got.Equal(want) {
		t.Fatalf("window start = %v, want %v", got, want)
	}
	if got, want := p.Dates.CommonWindow.End, day(2026, time.May, 10); !got.Equal(want) {
		t.Fatalf("window end = %v, want %v", got, want)
	}
	if p.Dates.OverlapDays != 3 {
		t.Fatalf("OverlapDays = %d, want 3", p.Dates.OverlapDays)
	}
	if p.Conflicts.NoDateOverlap {
		t.Fatalf("did not expect a date conflict")
	}
}

func TestAggregate_DisjointDatesConflict(t *testing.T) {
	t.Parallel()

	p := Aggregate([]domain.MemberPreference{
		prefWithDates("m-a", dayPtr(2026, time.May, 1), dayPtr(2026, time.May, 5)),
		prefWithDates("m-b", dayPtr(2026, time.June, 1), dayPtr(2026, time.June, 10)),
	})

	if p.Dates.CommonWindow != nil {
		t.Fatalf("expected no common window, got %+v", p.Dates.CommonWindow)
	}
	if !p.Conflicts.NoDateOverlap || !p.Conflicts.HasConflicts {
		t.Fatalf("expected a date conflict, got %+v", p.Conflicts)
	}
	if len(p.Conflicts.Details) != 1 || p.Conflicts.Details[0] != DetailNoDateOverlap {
		t.Fatalf("Details = %#v", p.Conflicts.Details)
	}
	// The infeasible bounds are still reported for the dashboard.
	if p.Dates.EarliestCommonStart == nil || !p.Dates.EarliestCommonStart.Equal(day(2026, time.June, 1)) {
		t.Fatalf("EarliestCommonStart = %v", p.Dates.EarliestCommonStart)
	}
	if p.Dates.LatestCommonEnd == nil || !p.Dates.LatestCommonEnd.Equal(day(2026, time.May, 5)) {
		t.Fatalf("LatestCommonEnd = %v", p.Dates.LatestCommonEnd)
	}
}

func TestAggregate_BudgetConflict(t *testing.T) {
	t.Parallel()

	p := Aggregate([]domain.MemberPreference{
		prefWithBudget("m-a", 500, 2000),
		prefWithBudget("m-b", 1800, 1500),
	})

	if p.Budget.MinBudget != 1800 || p.Budget.MaxBudget != 1500 {
		t.Fatalf("band = [%v, %v], want [1800, 1500]", p.Budget.MinBudget, p.Budget.MaxBudget)
	}
	if !p.Conflicts.NoBudgetOverlap {
		t.Fatalf("expected a budget conflict, got %+v", p.Conflicts)
	}
}

func TestAggregate_CommonVibes(t *testing.T) {
	t.Parallel()

	p := Aggregate([]domain.MemberPreference{
		prefWithVibes("m-a", "Beach", "City"),
		prefWithVibes("m-b", "City", "Nature"),
	})

	if got, want := p.Destination.CommonVibes, []string{"City"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("CommonVibes = %v, want %v", got, want)
	}
	if got, want := p.Destination.AllVibes, []string{"Beach", "City", "Nature"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("AllVibes = %v, want %v", got, want)
	}
	if p.Conflicts.NoCommonVibes {
		t.Fatalf("did not expect a vibe conflict")
	}
}

func TestAggregate_NoCommonVibesConflict(t *testing.T) {
	t.Parallel()

	p := Aggregate([]domain.MemberPreference{
		prefWithVibes("m-a", "Beach"),
		prefWithVibes("m-b", "Nightlife"),
	})

	if len(p.Destination.CommonVibes) != 0 {
		t.Fatalf("CommonVibes = %v, want empty", p.Destination.CommonVibes)
	}
	if !p.Conflicts.NoCommonVibes || !p.Conflicts.HasConflicts {
		t.Fatalf("expected a vibe conflict, got %+v", p.Conflicts)
	}
}

func TestAggregate_ConstraintOnlyMemberFlagsNothing(t *testing.T) {
	t.Parallel()

	p := Aggregate([]domain.MemberPreference{
		{
			TripID:   "trip-1",
			MemberID: "m-a",
			Constraints: &domain.ConstraintPrefs{
				Dietary: []string{"vegetarian"},
			},
		},
	})

	if p.Conflicts.HasConflicts {
		t.Fatalf("constraint-only input must not conflict: %+v", p.Conflicts)
	}
	if got, want := p.Constraints.Dietary, []string{"vegetarian"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Dietary = %v, want %v", got, want)
	}
	if p.RespondedMembers != 1 {
		t.Fatalf("RespondedMembers = %d, want 1", p.RespondedMembers)
	}
}

func TestAggregate_ConflictDetailOrder(t *testing.T) {
	t.Parallel()

	p := Aggregate([]domain.MemberPreference{
		{
			TripID:   "trip-1",
			MemberID: "m-a",
			Dates:    &domain.DatePrefs{EarliestStart: dayPtr(2026, time.May, 1), LatestEnd: dayPtr(2026, time.May, 5)},
			Budget:   &domain.BudgetPrefs{Min: 500, Max: 800},
			Destination: &domain.DestinationPrefs{
				Vibes: []string{"Beach"},
			},
		},
		{
			TripID:   "trip-1",
			MemberID: "m-b",
			Dates:    &domain.DatePrefs{EarliestStart: dayPtr(2026, time.June, 1), LatestEnd: dayPtr(2026, time.June, 5)},
			Budget:   &domain.BudgetPrefs{Min: 2000, Max: 3000},
			Destination: &domain.DestinationPrefs{
				Vibes: []string{"Nightlife"},
			},
		},
	})

	want := []string{DetailNoDateOverlap, DetailNoBudgetOverlap, DetailNoCommonVibes}
	if !reflect.DeepEqual(p.Conflicts.Details, want) {
		t.Fatalf("Details = %#v, want %#v", p.Conflicts.Details, want)
	}
}

func TestAggregate_IsDeterministic(t *testing.T) {
	t.Parallel()

	prefs := []domain.MemberPreference{
		{
			TripID:   "trip-1",
			MemberID: "m-a",
			Dates: &domain.DatePrefs{
				EarliestStart: dayPtr(2026, time.July, 1),
				LatestEnd:     dayPtr(2026, time.July, 14),
				IdealDuration: "1 week",
			},
			Budget: &domain.BudgetPrefs{
				Min: 800, Max: 1500,
				IncludeFlights: true, IncludeFood: true,
				Flexibility: domain.BudgetPreferUnder,
			},
			Destination: &domain.DestinationPrefs{
				Vibes:          []string{"Beach", "Food & Dining"},
				Scope:          domain.ScopeInternational,
				SpecificPlaces: "Lisbon",
			},
			Constraints: &domain.ConstraintPrefs{
				Dietary: []string{"vegan"},
				HardNos: "no hostels",
			},
		},
		{
			TripID:   "trip-1",
			MemberID: "m-b",
			Dates: &domain.DatePrefs{
				EarliestStart: dayPtr(2026, time.July, 5),
				LatestEnd:     dayPtr(2026, time.July, 20),
				IdealDuration: "2-3 days",
			},
			Budget: &domain.BudgetPrefs{
				Min: 1000, Max: 2500,
				IncludeFlights: true,
			},
			Destination: &domain.DestinationPrefs{
				Vibes: []string{"Food & Dining", "Nature"},
			},
			Constraints: &domain.ConstraintPrefs{
				HardNos: "no hostels",
			},
		},
	}

	first := Aggregate(prefs)
	second := Aggregate(prefs)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same input produced different profiles:\n%+v\n%+v", first, second)
	}

	// Identical hard-no text from two members stays two entries.
	if got, want := first.Constraints.HardNos, []string{"no hostels", "no hostels"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("HardNos = %v, want %v", got, want)
	}
}
