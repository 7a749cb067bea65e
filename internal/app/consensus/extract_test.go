package consensus

import (
	"reflect"
	"testing"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

func TestExtract_EmptyRecordIsTotal(t *testing.T) {
	t.Parallel()

	p := domain.MemberPreference{TripID: "trip-1", MemberID: "m-a"}

	if v := extractDates(p); v.hasWindow() || v.idealDuration != "" {
		t.Fatalf("dateView = %+v, want zero", v)
	}
	if v := extractBudget(p); v.present {
		t.Fatalf("budgetView = %+v, want absent", v)
	}
	if v := extractDestination(p); v.present {
		t.Fatalf("destinationView = %+v, want absent", v)
	}
	if v := extractConstraints(p); v.present {
		t.Fatalf("constraintView = %+v, want absent", v)
	}
}

func TestExtractBudget_DefaultsFlexibility(t *testing.T) {
	t.Parallel()

	v := extractBudget(domain.MemberPreference{
		Budget: &domain.BudgetPrefs{Min: 100, Max: 200},
	})

	if !v.present {
		t.Fatalf("expected present budget view")
	}
	if v.flexibility != domain.BudgetHardLimit {
		t.Fatalf("flexibility = %q, want %q", v.flexibility, domain.BudgetHardLimit)
	}
}

func TestExtractDestination_NormalizesAndDefaultsScope(t *testing.T) {
	t.Parallel()

	v := extractDestination(domain.MemberPreference{
		Destination: &domain.DestinationPrefs{
			Vibes: []string{"  Beach ", "Beach", "", "City"},
		},
	})

	if got, want := v.vibes, []string{"Beach", "City"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("vibes = %v, want %v", got, want)
	}
	if v.scope != domain.ScopeEither {
		t.Fatalf("scope = %q, want %q", v.scope, domain.ScopeEither)
	}
}

func TestExtractConstraints_FoldsOtherTextIntoSets(t *testing.T) {
	t.Parallel()

	v := extractConstraints(domain.MemberPreference{
		Constraints: &domain.ConstraintPrefs{
			Dietary:            []string{"vegetarian"},
			OtherDietary:       " shellfish allergy ",
			Accessibility:      []string{},
			OtherAccessibility: "limited walking",
			HardNos:            "  no overnight buses  ",
		},
	})

	if got, want := v.dietary, []string{"vegetarian", "shellfish allergy"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("dietary = %v, want %v", got, want)
	}
	if got, want := v.accessibility, []string{"limited walking"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("accessibility = %v, want %v", got, want)
	}
	if v.hardNo != "no overnight buses" {
		t.Fatalf("hardNo = %q", v.hardNo)
	}
}

func TestExtractDates_ClonesBounds(t *testing.T) {
	t.Parallel()

	start := day(2026, 5, 1)
	p := domain.MemberPreference{
		Dates: &domain.DatePrefs{EarliestStart: &start, LatestEnd: dayPtr(2026, 5, 10)},
	}
	v := extractDates(p)

	if v.earliestStart == p.Dates.EarliestStart {
		t.Fatalf("view must not alias the input record's pointers")
	}
	if !v.earliestStart.Equal(start) {
		t.Fatalf("earliestStart = %v, want %v", v.earliestStart, start)
	}
}
