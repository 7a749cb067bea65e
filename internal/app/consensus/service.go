package consensus

import (
	"context"
	"errors"
	"math"
	"net/http"

	"github.com/tripsync-app/consensus-api/internal/domain"
	"github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
	"github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

// Service answers consensus queries for trips the caller belongs to.
type Service struct {
	trips triprepo.Repository
	prefs prefrepo.Repository
}

func NewService(trips triprepo.Repository, prefs prefrepo.Repository) *Service {
	return &Service{trips: trips, prefs: prefs}
}

// GroupConsensus loads every preference record on the trip, aggregates them,
// and attaches roster metadata (member count, response rate).
//
// Trips the caller is not a member of are reported as not found; existence is
// not disclosed to non-members.
func (s *Service) GroupConsensus(ctx context.Context, caller domain.MemberID, tripID domain.TripID) (domain.GroupConsensus, error) {
	t, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, triprepo.ErrNotFound) {
			return domain.GroupConsensus{}, errTripNotFound(tripID)
		}
		return domain.GroupConsensus{}, err
	}
	if !t.HasMember(caller) {
		return domain.GroupConsensus{}, errTripNotFound(tripID)
	}

	records, err := s.prefs.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.GroupConsensus{}, err
	}

	prefs := make([]domain.MemberPreference, 0, len(records))
	for _, r := range records {
		prefs = append(prefs, domain.MemberPreference{
			TripID:      r.TripID,
			MemberID:    r.MemberID,
			Dates:       r.Dates,
			Budget:      r.Budget,
			Destination: r.Destination,
			Constraints: r.Constraints,
			UpdatedAt:   r.UpdatedAt,
		})
	}

	out := domain.GroupConsensus{
		TripID:       tripID,
		Profile:      Aggregate(prefs),
		TotalMembers: len(t.MemberIDs),
	}
	if out.TotalMembers > 0 {
		out.ResponseRate = round1(float64(out.Profile.RespondedMembers) / float64(out.TotalMembers) * 100)
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

func round1(f float64) float64 {
	return math.Round(f*10) / 10
}
