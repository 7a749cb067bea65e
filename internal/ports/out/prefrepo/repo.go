package prefrepo

import (
	"context"
	"time"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

// Preference is the persistence shape for one member's preference record on one
// trip. It mirrors the domain shape: sub-objects are optional and nil means the
// member never filled in that section. It is an internal record, not an HTTP DTO.
type Preference struct {
	TripID   domain.TripID
	MemberID domain.MemberID

	Dates       *domain.DatePrefs
	Budget      *domain.BudgetPrefs
	Destination *domain.DestinationPrefs
	Constraints *domain.ConstraintPrefs

	UpdatedAt time.Time
}

// Repository provides access to persisted preference records.
//
// Result ordering expectations:
// - ListByTrip returns records ordered by MemberID ascending so aggregation
//   input (and therefore free-text list output) is deterministic.
type Repository interface {
	// Upsert writes the record for (trip, member) using last-write-wins semantics.
	Upsert(ctx context.Context, p Preference) error

	Get(ctx context.Context, tripID domain.TripID, memberID domain.MemberID) (Preference, error)

	ListByTrip(ctx context.Context, tripID domain.TripID) ([]Preference, error)

	// Delete removes the record for (trip, member). ErrNotFound if absent.
	Delete(ctx context.Context, tripID domain.TripID, memberID domain.MemberID) error
}
