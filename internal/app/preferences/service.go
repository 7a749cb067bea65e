package preferences

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tripsync-app/consensus-api/internal/domain"
	"github.com/tripsync-app/consensus-api/internal/ports/out/clock"
	"github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
	"github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

// Service manages a member's preference record on a trip.
type Service struct {
	trips triprepo.Repository
	prefs prefrepo.Repository
	clock clock.Clock

	validate *validator.Validate
}

func NewService(trips triprepo.Repository, prefs prefrepo.Repository, clk clock.Clock) *Service {
	return &Service{
		trips:    trips,
		prefs:    prefs,
		clock:    clk,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Put replaces the caller's record wholesale. Sections absent from the input
// are dropped from storage; "I no longer have a budget opinion" is expressed by
// omitting the section.
func (s *Service) Put(ctx context.Context, caller domain.MemberID, tripID domain.TripID, in PutPreferenceInput) (domain.MemberPreference, error) {
	if _, err := s.requireMembership(ctx, caller, tripID); err != nil {
		return domain.MemberPreference{}, err
	}
	if err := s.validateInput(in); err != nil {
		return domain.MemberPreference{}, err
	}

	rec := prefrepo.Preference{
		TripID:      tripID,
		MemberID:    caller,
		Dates:       datesFromInput(in.Dates),
		Budget:      budgetFromInput(in.Budget),
		Destination: destinationFromInput(in.Destination),
		Constraints: constraintsFromInput(in.Constraints),
		UpdatedAt:   s.clock.Now().UTC(),
	}
	if err := s.prefs.Upsert(ctx, rec); err != nil {
		return domain.MemberPreference{}, err
	}
	return toDomain(rec), nil
}

// Patch updates sections individually against the stored record.
// Patching a record that was never created is reported as not found; the
// client should PUT first.
func (s *Service) Patch(ctx context.Context, caller domain.MemberID, tripID domain.TripID, in PatchPreferenceInput) (domain.MemberPreference, error) {
	if _, err := s.requireMembership(ctx, caller, tripID); err != nil {
		return domain.MemberPreference{}, err
	}

	stored, err := s.prefs.Get(ctx, tripID, caller)
	if err != nil {
		if errors.Is(err, prefrepo.ErrNotFound) {
			return domain.MemberPreference{}, errPreferenceNotFound()
		}
		return domain.MemberPreference{}, err
	}

	if in.Dates.IsSpecified() {
		if in.Dates.IsNull() {
			stored.Dates = nil
		} else {
			v := in.Dates.Value()
			if err := s.validateInput(v); err != nil {
				return domain.MemberPreference{}, err
			}
			stored.Dates = datesFromInput(&v)
		}
	}
	if in.Budget.IsSpecified() {
		if in.Budget.IsNull() {
			stored.Budget = nil
		} else {
			v := in.Budget.Value()
			if err := s.validateInput(v); err != nil {
				return domain.MemberPreference{}, err
			}
			stored.Budget = budgetFromInput(&v)
		}
	}
	if in.Destination.IsSpecified() {
		if in.Destination.IsNull() {
			stored.Destination = nil
		} else {
			v := in.Destination.Value()
			if err := s.validateInput(v); err != nil {
				return domain.MemberPreference{}, err
			}
			stored.Destination = destinationFromInput(&v)
		}
	}
	if in.Constraints.IsSpecified() {
		if in.Constraints.IsNull() {
			stored.Constraints = nil
		} else {
			v := in.Constraints.Value()
			if err := s.validateInput(v); err != nil {
				return domain.MemberPreference{}, err
			}
			stored.Constraints = constraintsFromInput(&v)
		}
	}

	stored.UpdatedAt = s.clock.Now().UTC()
	if err := s.prefs.Upsert(ctx, stored); err != nil {
		return domain.MemberPreference{}, err
	}
	return toDomain(stored), nil
}

func (s *Service) Get(ctx context.Context, caller domain.MemberID, tripID domain.TripID) (domain.MemberPreference, error) {
	if _, err := s.requireMembership(ctx, caller, tripID); err != nil {
		return domain.MemberPreference{}, err
	}
	rec, err := s.prefs.Get(ctx, tripID, caller)
	if err != nil {
		if errors.Is(err, prefrepo.ErrNotFound) {
			return domain.MemberPreference{}, errPreferenceNotFound()
		}
		return domain.MemberPreference{}, err
	}
	return toDomain(rec), nil
}

func (s *Service) Delete(ctx context.Context, caller domain.MemberID, tripID domain.TripID) error {
	if _, err := s.requireMembership(ctx, caller, tripID); err != nil {
		return err
	}
	if err := s.prefs.Delete(ctx, tripID, caller); err != nil {
		if errors.Is(err, prefrepo.ErrNotFound) {
			return errPreferenceNotFound()
		}
		return err
	}
	return nil
}

// ListForTrip returns every member's record on the trip, member ID ascending.
// Any trip member may read the full set; the dashboard shows who wants what.
func (s *Service) ListForTrip(ctx context.Context, caller domain.MemberID, tripID domain.TripID) ([]domain.MemberPreference, error) {
	if _, err := s.requireMembership(ctx, caller, tripID); err != nil {
		return nil, err
	}
	recs, err := s.prefs.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.MemberPreference, 0, len(recs))
	for _, r := range recs {
		out = append(out, toDomain(r))
	}
	return out, nil
}

func (s *Service) requireMembership(ctx context.Context, caller domain.MemberID, tripID domain.TripID) (triprepo.Trip, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return triprepo.Trip{}, errTripNotFound(tripID)
		}
		return triprepo.Trip{}, err
	}
	if !t.HasMember(caller) {
		// Existence is not disclosed to non-members.
		return triprepo.Trip{}, errTripNotFound(tripID)
	}
	return t, nil
}

func (s *Service) validateInput(in any) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	details := make(map[string]any, len(verrs))
	for _, fe := range verrs {
		details[fe.Namespace()] = fe.Tag()
	}
	return &Error{
		Status:  http.StatusUnprocessableEntity,
		Code:    "VALIDATION_ERROR",
		Message: "invalid preference payload",
		Details: details,
	}
}

func errTripNotFound(id domain.TripID) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    "TRIP_NOT_FOUND",
		Message: "trip not found",
		Details: map[string]any{"tripId": string(id)},
	}
}

func errPreferenceNotFound() *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    "PREFERENCE_NOT_FOUND",
		Message: "no preference record for this member on this trip",
	}
}

func datesFromInput(in *DatesInput) *domain.DatePrefs {
	if in == nil {
		return nil
	}
	return &domain.DatePrefs{
		EarliestStart: cloneTimePtr(in.EarliestStart),
		LatestEnd:     cloneTimePtr(in.LatestEnd),
		IdealDuration: domain.NormalizeFreeText(in.IdealDuration),
		Flexible:      in.Flexible,
	}
}

func budgetFromInput(in *BudgetInput) *domain.BudgetPrefs {
	if in == nil {
		return nil
	}
	flex := domain.BudgetFlexibility(in.Flexibility)
	if flex == "" {
		flex = domain.DefaultBudgetFlexibility
	}
	return &domain.BudgetPrefs{
		Min:                  in.Min,
		Max:                  in.Max,
		IncludeFlights:       in.IncludeFlights,
		IncludeAccommodation: in.IncludeAccommodation,
		IncludeFood:          in.IncludeFood,
		IncludeActivities:    in.IncludeActivities,
		Flexibility:          flex,
	}
}

func destinationFromInput(in *DestinationInput) *domain.DestinationPrefs {
	if in == nil {
		return nil
	}
	scope := domain.TripScope(in.Scope)
	if scope == "" {
		scope = domain.ScopeEither
	}
	return &domain.DestinationPrefs{
		Vibes:          normalizeTags(in.Vibes),
		Scope:          scope,
		SpecificPlaces: domain.NormalizeFreeText(in.SpecificPlaces),
		PlacesToAvoid:  domain.NormalizeFreeText(in.PlacesToAvoid),
	}
}

func constraintsFromInput(in *ConstraintsInput) *domain.ConstraintPrefs {
	if in == nil {
		return nil
	}
	return &domain.ConstraintPrefs{
		Dietary:            normalizeTags(in.Dietary),
		OtherDietary:       domain.NormalizeFreeText(in.OtherDietary),
		Accessibility:      normalizeTags(in.Accessibility),
		OtherAccessibility: domain.NormalizeFreeText(in.OtherAccessibility),
		HardNos:            domain.NormalizeFreeText(in.HardNos),
	}
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if n := domain.NormalizeTag(t); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func toDomain(rec prefrepo.Preference) domain.MemberPreference {
	return domain.MemberPreference{
		TripID:      rec.TripID,
		MemberID:    rec.MemberID,
		Dates:       rec.Dates,
		Budget:      rec.Budget,
		Destination: rec.Destination,
		Constraints: rec.Constraints,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func cloneTimePtr(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := (*p).UTC()
	return &v
}
