package contracttest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tripsync-app/consensus-api/internal/domain"
	idempotencyport "github.com/tripsync-app/consensus-api/internal/ports/out/idempotency"
	prefrepoport "github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
	triprepoport "github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

type CleanupFunc = func()

type TripRepoFactory func(t *testing.T) (triprepoport.Repository, CleanupFunc)
type PrefRepoFactory func(t *testing.T) (prefrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	fp := idempotencyport.Fingerprint{
		Key:      "k-1",
		Subject:  domain.SubjectID("sub-1"),
		Method:   "PUT",
		Route:    "/trips/{tripId}/preferences/me",
		BodyHash: "hash-abc",
	}
	rec := idempotencyport.Record{
		StatusCode:  200,
		ContentType: "application/json",
		Body:        []byte(`{"ok":true}`),
		CreatedAt:   time.Unix(123, 0).UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != `{"ok":true}` || got.ContentType != "application/json" || got.StatusCode != 200 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// A different body hash is a different fingerprint.
	fp2 := fp
	fp2.BodyHash = "hash-def"
	if _, ok, err := store.Get(ctx, fp2); err != nil || ok {
		t.Fatalf("expected miss for different body hash, got ok=%v err=%v", ok, err)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte(`{"ok":false}`)
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != `{"ok":false}` {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}
}

func RunTripRepo(t *testing.T, newRepo TripRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(1000, 0).UTC()
	organizer := domain.MemberID(uuid.NewString())
	tripID := domain.TripID(uuid.NewString())
	trip := triprepoport.Trip{
		ID:        tripID,
		Name:      "Spring Trip",
		Organizer: organizer,
		MemberIDs: []domain.MemberID{organizer},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Create(ctx, trip); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Create(ctx, trip); !errors.Is(err, triprepoport.ErrAlreadyExists) {
		t.Fatalf("duplicate Create: err = %v, want ErrAlreadyExists", err)
	}

	got, err := repo.GetByID(ctx, tripID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Name != "Spring Trip" || !got.HasMember(organizer) {
		t.Fatalf("unexpected trip: %+v", got)
	}

	if _, err := repo.GetByID(ctx, domain.TripID(uuid.NewString())); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("GetByID missing: err = %v, want ErrNotFound", err)
	}

	// Roster growth via Save.
	joiner := domain.MemberID(uuid.NewString())
	got.MemberIDs = append(got.MemberIDs, joiner)
	got.UpdatedAt = now.Add(time.Minute)
	if err := repo.Save(ctx, got); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err = repo.GetByID(ctx, tripID)
	if err != nil {
		t.Fatalf("GetByID after Save: %v", err)
	}
	if len(got.MemberIDs) != 2 || !got.HasMember(joiner) {
		t.Fatalf("roster = %v, want organizer+joiner", got.MemberIDs)
	}

	missing := triprepoport.Trip{ID: domain.TripID(uuid.NewString()), Name: "ghost", Organizer: organizer, MemberIDs: []domain.MemberID{organizer}, CreatedAt: now, UpdatedAt: now}
	if err := repo.Save(ctx, missing); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("Save missing: err = %v, want ErrNotFound", err)
	}

	// AddMember appends atomically and reports duplicates and missing trips.
	added := domain.MemberID("c-" + uuid.NewString())
	got, err = repo.AddMember(ctx, tripID, added, now.Add(2*time.Minute))
	if err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if len(got.MemberIDs) != 3 || !got.HasMember(added) {
		t.Fatalf("roster after AddMember = %v", got.MemberIDs)
	}
	if _, err := repo.AddMember(ctx, tripID, added, now.Add(3*time.Minute)); !errors.Is(err, triprepoport.ErrMemberExists) {
		t.Fatalf("duplicate AddMember: err = %v, want ErrMemberExists", err)
	}
	if _, err := repo.AddMember(ctx, domain.TripID(uuid.NewString()), added, now); !errors.Is(err, triprepoport.ErrNotFound) {
		t.Fatalf("AddMember missing trip: err = %v, want ErrNotFound", err)
	}

	// Simultaneous joiners must all land on the roster.
	const joiners = 8
	start := make(chan struct{})
	errs := make(chan error, joiners)
	var wg sync.WaitGroup
	for i := 0; i < joiners; i++ {
		member := domain.MemberID("d-" + uuid.NewString())
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := repo.AddMember(ctx, tripID, member, now.Add(4*time.Minute))
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("concurrent AddMember: %v", err)
		}
	}
	got, err = repo.GetByID(ctx, tripID)
	if err != nil {
		t.Fatalf("GetByID after concurrent joins: %v", err)
	}
	if len(got.MemberIDs) != 3+joiners {
		t.Fatalf("roster lost members: have %d, want %d", len(got.MemberIDs), 3+joiners)
	}

	// ListByMember returns only the member's trips, CreatedAt ascending.
	second := triprepoport.Trip{
		ID:        domain.TripID(uuid.NewString()),
		Name:      "Fall Trip",
		Organizer: joiner,
		MemberIDs: []domain.MemberID{joiner},
		CreatedAt: now.Add(time.Hour),
		UpdatedAt: now.Add(time.Hour),
	}
	if err := repo.Create(ctx, second); err != nil {
		t.Fatalf("Create second: %v", err)
	}
	trips, err := repo.ListByMember(ctx, joiner)
	if err != nil {
		t.Fatalf("ListByMember: %v", err)
	}
	if len(trips) != 2 || trips[0].ID != tripID || trips[1].ID != second.ID {
		t.Fatalf("ListByMember order: got %v", tripIDs(trips))
	}
	trips, err = repo.ListByMember(ctx, organizer)
	if err != nil {
		t.Fatalf("ListByMember organizer: %v", err)
	}
	if len(trips) != 1 || trips[0].ID != tripID {
		t.Fatalf("ListByMember organizer: got %v", tripIDs(trips))
	}
}

func RunPrefRepo(t *testing.T, newRepo PrefRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	now := time.Unix(2000, 0).UTC()
	tripID := domain.TripID(uuid.NewString())
	memberB := domain.MemberID("b-" + uuid.NewString())
	memberA := domain.MemberID("a-" + uuid.NewString())

	start := time.Date(2026, time.May, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.May, 10, 0, 0, 0, 0, time.UTC)
	recB := prefrepoport.Preference{
		TripID:   tripID,
		MemberID: memberB,
		Dates:    &domain.DatePrefs{EarliestStart: &start, LatestEnd: &end, IdealDuration: "1 week"},
		Budget:   &domain.BudgetPrefs{Min: 500, Max: 1500, IncludeFlights: true, Flexibility: domain.BudgetHardLimit},
		Destination: &domain.DestinationPrefs{
			Vibes: []string{"Beach", "City"},
			Scope: domain.ScopeEither,
		},
		Constraints: &domain.ConstraintPrefs{Dietary: []string{"vegetarian"}, HardNos: "no camping"},
		UpdatedAt:   now,
	}
	if err := repo.Upsert(ctx, recB); err != nil {
		t.Fatalf("Upsert b: %v", err)
	}
	recA := prefrepoport.Preference{
		TripID:      tripID,
		MemberID:    memberA,
		Constraints: &domain.ConstraintPrefs{Dietary: []string{"vegan"}},
		UpdatedAt:   now,
	}
	if err := repo.Upsert(ctx, recA); err != nil {
		t.Fatalf("Upsert a: %v", err)
	}

	got, err := repo.Get(ctx, tripID, memberB)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Dates == nil || got.Dates.IdealDuration != "1 week" || got.Budget == nil || got.Budget.Max != 1500 {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.Destination.Vibes) != 2 {
		t.Fatalf("Vibes = %v", got.Destination.Vibes)
	}

	// Upsert replaces wholesale: dropped sections stay dropped.
	recB.Budget = nil
	recB.UpdatedAt = now.Add(time.Minute)
	if err := repo.Upsert(ctx, recB); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	got, err = repo.Get(ctx, tripID, memberB)
	if err != nil {
		t.Fatalf("Get after replace: %v", err)
	}
	if got.Budget != nil {
		t.Fatalf("Budget survived a replacing upsert: %+v", got.Budget)
	}

	// ListByTrip is ordered by member ID ascending and scoped to the trip.
	otherTrip := domain.TripID(uuid.NewString())
	if err := repo.Upsert(ctx, prefrepoport.Preference{TripID: otherTrip, MemberID: memberA, UpdatedAt: now}); err != nil {
		t.Fatalf("Upsert other trip: %v", err)
	}
	list, err := repo.ListByTrip(ctx, tripID)
	if err != nil {
		t.Fatalf("ListByTrip: %v", err)
	}
	if len(list) != 2 || list[0].MemberID != memberA || list[1].MemberID != memberB {
		t.Fatalf("ListByTrip order: got %v", memberIDsOf(list))
	}

	if _, err := repo.Get(ctx, tripID, domain.MemberID(uuid.NewString())); !errors.Is(err, prefrepoport.ErrNotFound) {
		t.Fatalf("Get missing: err = %v, want ErrNotFound", err)
	}

	if err := repo.Delete(ctx, tripID, memberB); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.Get(ctx, tripID, memberB); !errors.Is(err, prefrepoport.ErrNotFound) {
		t.Fatalf("Get after Delete: err = %v, want ErrNotFound", err)
	}
	if err := repo.Delete(ctx, tripID, memberB); !errors.Is(err, prefrepoport.ErrNotFound) {
		t.Fatalf("double Delete: err = %v, want ErrNotFound", err)
	}
}

func tripIDs(ts []triprepoport.Trip) []domain.TripID {
	out := make([]domain.TripID, 0, len(ts))
	for _, t := range ts {
		out = append(out, t.ID)
	}
	return out
}

func memberIDsOf(ps []prefrepoport.Preference) []domain.MemberID {
	out := make([]domain.MemberID, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.MemberID)
	}
	return out
}
