package trips

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/tripsync-app/consensus-api/internal/domain"
	"github.com/tripsync-app/consensus-api/internal/ports/out/clock"
	"github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

// Service manages trips and their member rosters.
type Service struct {
	trips triprepo.Repository
	clock clock.Clock

	validate  *validator.Validate
	newTripID func() domain.TripID
}

func NewService(trips triprepo.Repository, clk clock.Clock) *Service {
	return &Service{
		trips:    trips,
		clock:    clk,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		newTripID: func() domain.TripID {
			return domain.TripID(uuid.NewString())
		},
	}
}

// SetNewTripIDForTest overrides trip ID generation for deterministic tests.
// It should not be used in production code.
func (s *Service) SetNewTripIDForTest(fn func() domain.TripID) {
	if fn != nil {
		s.newTripID = fn
	}
}

// Create stores a new trip with the caller as organizer and sole member.
func (s *Service) Create(ctx context.Context, caller domain.MemberID, in CreateTripInput) (TripView, error) {
	in.Name = domain.NormalizeFreeText(in.Name)
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		details := map[string]any{}
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				details[fe.Field()] = fe.Tag()
			}
		}
		return TripView{}, &Error{
			Status:  http.StatusUnprocessableEntity,
			Code:    "VALIDATION_ERROR",
			Message: "invalid trip payload",
			Details: details,
		}
	}

	now := s.clock.Now().UTC()
	t := triprepo.Trip{
		ID:        s.newTripID(),
		Name:      in.Name,
		Organizer: caller,
		MemberIDs: []domain.MemberID{caller},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.trips.Create(ctx, t); err != nil {
		return TripView{}, err
	}
	return toView(t), nil
}

// Get returns the trip for members; non-members get not-found.
func (s *Service) Get(ctx context.Context, caller domain.MemberID, tripID domain.TripID) (TripView, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return TripView{}, errTripNotFound(tripID)
		}
		return TripView{}, err
	}
	if !t.HasMember(caller) {
		return TripView{}, errTripNotFound(tripID)
	}
	return toView(t), nil
}

// Join adds the caller to the roster. Unlike reads, joining does disclose the
// trip's existence; invited members arrive with only a trip ID.
//
// The append happens inside the repository so simultaneous joiners cannot
// overwrite each other's roster update.
func (s *Service) Join(ctx context.Context, caller domain.MemberID, tripID domain.TripID) (TripView, error) {
	t, err := s.trips.AddMember(ctx, tripID, caller, s.clock.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, triprepo.ErrNotFound):
			return TripView{}, errTripNotFound(tripID)
		case errors.Is(err, triprepo.ErrMemberExists):
			return TripView{}, &Error{
				Status:  http.StatusConflict,
				Code:    "MEMBER_ALREADY_IN_TRIP",
				Message: "member is already on the trip roster",
				Details: map[string]any{"tripId": string(tripID)},
			}
		}
		return TripView{}, err
	}
	return toView(t), nil
}

// ListMine returns the caller's trips ordered by creation time.
func (s *Service) ListMine(ctx context.Context, caller domain.MemberID) ([]TripView, error) {
	ts, err := s.trips.ListByMember(ctx, caller)
	if err != nil {
		return nil, err
	}
	out := make([]TripView, 0, len(ts))
	for _, t := range ts {
		out = append(out, toView(t))
	}
	return out, nil
}

func errTripNotFound(id domain.TripID) *Error {
	return &Error{
		Status:  http.StatusNotFound,
		Code:    "TRIP_NOT_FOUND",
		Message: "trip not found",
		Details: map[string]any{"tripId": string(id)},
	}
}

func toView(t triprepo.Trip) TripView {
	return TripView{
		ID:        t.ID,
		Name:      t.Name,
		Organizer: t.Organizer,
		MemberIDs: append([]domain.MemberID(nil), t.MemberIDs...),
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
