package triprepo

import (
	"context"
	"time"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

// Trip is the persistence shape for a trip and its member roster.
type Trip struct {
	ID        domain.TripID
	Name      string
	Organizer domain.MemberID

	// MemberIDs always contains the organizer. Order is join order.
	MemberIDs []domain.MemberID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasMember reports whether id is on the trip roster.
func (t Trip) HasMember(id domain.MemberID) bool {
	for _, m := range t.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}

// Repository provides access to persisted trips.
type Repository interface {
	// Create stores a new trip. ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, t Trip) error

	// Save replaces an existing trip. ErrNotFound if absent.
	Save(ctx context.Context, t Trip) error

	// AddMember atomically appends a member to the roster and returns the
	// updated trip. Concurrent calls must not lose appends. ErrNotFound if
	// the trip is absent, ErrMemberExists if the member is already on it.
	AddMember(ctx context.Context, id domain.TripID, member domain.MemberID, joinedAt time.Time) (Trip, error)

	GetByID(ctx context.Context, id domain.TripID) (Trip, error)

	// ListByMember returns the trips whose roster contains the member,
	// ordered by CreatedAt ascending.
	ListByMember(ctx context.Context, memberID domain.MemberID) ([]Trip, error)
}
