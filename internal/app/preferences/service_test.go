package preferences_test

import (
	"context"
	"errors"
	"testing"
	"time"

	memclock "github.com/tripsync-app/consensus-api/internal/adapters/memory/clock"
	memprefrepo "github.com/tripsync-app/consensus-api/internal/adapters/memory/prefrepo"
	memtriprepo "github.com/tripsync-app/consensus-api/internal/adapters/memory/triprepo"
	"github.com/tripsync-app/consensus-api/internal/app/preferences"
	"github.com/tripsync-app/consensus-api/internal/domain"
	triprepoport "github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

func newFixture(t *testing.T) (*preferences.Service, *memtriprepo.Repo, *memclock.ManualClock) {
	t.Helper()
	trips := memtriprepo.NewRepo()
	prefs := memprefrepo.NewRepo()
	clk := memclock.NewManualClock(time.Unix(5000, 0).UTC())
	return preferences.NewService(trips, prefs, clk), trips, clk
}

func seedTrip(t *testing.T, trips *memtriprepo.Repo, id domain.TripID, members ...domain.MemberID) {
	t.Helper()
	now := time.Unix(1000, 0).UTC()
	err := trips.Create(context.Background(), triprepoport.Trip{
		ID:        id,
		Name:      "Test Trip",
		Organizer: members[0],
		MemberIDs: members,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed trip: %v", err)
	}
}

func TestPut_CreatesAndStampsTime(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, trips, clk := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-a")

	got, err := svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Budget: &preferences.BudgetInput{Min: 500, Max: 1500, IncludeFlights: true},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got.Budget == nil || got.Budget.Min != 500 || got.Budget.Max != 1500 {
		t.Fatalf("Budget = %+v", got.Budget)
	}
	if got.Budget.Flexibility != domain.BudgetHardLimit {
		t.Fatalf("Flexibility = %q, want default %q", got.Budget.Flexibility, domain.BudgetHardLimit)
	}
	if !got.UpdatedAt.Equal(clk.Now()) {
		t.Fatalf("UpdatedAt = %v, want %v", got.UpdatedAt, clk.Now())
	}
	if got.Dates != nil || got.Destination != nil || got.Constraints != nil {
		t.Fatalf("omitted sections must stay nil: %+v", got)
	}
}

func TestPut_ReplacesWholesale(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, trips, _ := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-a")

	_, err := svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Budget:      &preferences.BudgetInput{Min: 500, Max: 1500},
		Destination: &preferences.DestinationInput{Vibes: []string{"Beach"}},
	})
	if err != nil {
		t.Fatalf("first Put: %v", err)
	}

	got, err := svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Destination: &preferences.DestinationInput{Vibes: []string{"City"}},
	})
	if err != nil {
		t.Fatalf("second Put: %v", err)
	}
	if got.Budget != nil {
		t.Fatalf("Budget must be dropped by a replacing Put: %+v", got.Budget)
	}
	if got.Destination == nil || len(got.Destination.Vibes) != 1 || got.Destination.Vibes[0] != "City" {
		t.Fatalf("Destination = %+v", got.Destination)
	}
}

func TestPut_AcceptsInvertedBudget(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, trips, _ := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-a")

	// min > max is feasibility data for the aggregator, not an input error.
	got, err := svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Budget: &preferences.BudgetInput{Min: 1800, Max: 1500},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if got.Budget.Min != 1800 || got.Budget.Max != 1500 {
		t.Fatalf("Budget = %+v", got.Budget)
	}
}

func TestPut_RejectsBadEnums(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, trips, _ := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-a")

	_, err := svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Destination: &preferences.DestinationInput{Scope: "interstellar"},
	})
	assertAppError(t, err, 422, "VALIDATION_ERROR")

	_, err = svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Budget: &preferences.BudgetInput{Min: -1, Max: 100},
	})
	assertAppError(t, err, 422, "VALIDATION_ERROR")
}

func TestPatch_SectionTriState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, trips, _ := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-a")

	_, err := svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Budget:      &preferences.BudgetInput{Min: 500, Max: 1500},
		Destination: &preferences.DestinationInput{Vibes: []string{"Beach"}},
	})
	if err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := svc.Patch(ctx, "m-a", "trip-1", preferences.PatchPreferenceInput{
		Budget:      preferences.Null[preferences.BudgetInput](),
		Constraints: preferences.Some(preferences.ConstraintsInput{Dietary: []string{"vegan"}}),
	})
	if err != nil {
		t.Fatalf("Patch: %v", err)
	}
	if got.Budget != nil {
		t.Fatalf("null patch must clear the section: %+v", got.Budget)
	}
	if got.Destination == nil || got.Destination.Vibes[0] != "Beach" {
		t.Fatalf("unspecified section must be kept: %+v", got.Destination)
	}
	if got.Constraints == nil || got.Constraints.Dietary[0] != "vegan" {
		t.Fatalf("Constraints = %+v", got.Constraints)
	}
}

func TestPatch_MissingRecordIsNotFound(t *testing.T) {
	t.Parallel()
	svc, trips, _ := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-a")

	_, err := svc.Patch(context.Background(), "m-a", "trip-1", preferences.PatchPreferenceInput{
		Budget: preferences.Some(preferences.BudgetInput{Min: 1, Max: 2}),
	})
	assertAppError(t, err, 404, "PREFERENCE_NOT_FOUND")
}

func TestGetAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, trips, _ := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-a")

	_, err := svc.Get(ctx, "m-a", "trip-1")
	assertAppError(t, err, 404, "PREFERENCE_NOT_FOUND")

	if _, err := svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Constraints: &preferences.ConstraintsInput{HardNos: "no camping"},
	}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := svc.Get(ctx, "m-a", "trip-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Constraints == nil || got.Constraints.HardNos != "no camping" {
		t.Fatalf("Constraints = %+v", got.Constraints)
	}

	if err := svc.Delete(ctx, "m-a", "trip-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	_, err = svc.Get(ctx, "m-a", "trip-1")
	assertAppError(t, err, 404, "PREFERENCE_NOT_FOUND")
	err = svc.Delete(ctx, "m-a", "trip-1")
	assertAppError(t, err, 404, "PREFERENCE_NOT_FOUND")
}

func TestMembershipGatesEveryOperation(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, trips, _ := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-a")

	_, err := svc.Put(ctx, "m-outsider", "trip-1", preferences.PutPreferenceInput{})
	assertAppError(t, err, 404, "TRIP_NOT_FOUND")
	_, err = svc.Get(ctx, "m-outsider", "trip-1")
	assertAppError(t, err, 404, "TRIP_NOT_FOUND")
	_, err = svc.ListForTrip(ctx, "m-outsider", "trip-1")
	assertAppError(t, err, 404, "TRIP_NOT_FOUND")
	err = svc.Delete(ctx, "m-outsider", "trip-1")
	assertAppError(t, err, 404, "TRIP_NOT_FOUND")
}

func TestListForTrip_OrderedByMember(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc, trips, _ := newFixture(t)
	seedTrip(t, trips, "trip-1", "m-b", "m-a")

	if _, err := svc.Put(ctx, "m-b", "trip-1", preferences.PutPreferenceInput{
		Destination: &preferences.DestinationInput{Vibes: []string{"City"}},
	}); err != nil {
		t.Fatalf("Put b: %v", err)
	}
	if _, err := svc.Put(ctx, "m-a", "trip-1", preferences.PutPreferenceInput{
		Destination: &preferences.DestinationInput{Vibes: []string{"Beach"}},
	}); err != nil {
		t.Fatalf("Put a: %v", err)
	}

	list, err := svc.ListForTrip(ctx, "m-a", "trip-1")
	if err != nil {
		t.Fatalf("ListForTrip: %v", err)
	}
	if len(list) != 2 || list[0].MemberID != "m-a" || list[1].MemberID != "m-b" {
		t.Fatalf("unexpected order: %v, %v", list[0].MemberID, list[1].MemberID)
	}
}

func assertAppError(t *testing.T, err error, status int, code string) {
	t.Helper()
	var appErr *preferences.Error
	if !errors.As(err, &appErr) {
		t.Fatalf("err = %v, want *preferences.Error", err)
	}
	if appErr.Status != status || appErr.Code != code {
		t.Fatalf("error = %+v, want status=%d code=%s", appErr, status, code)
	}
}
