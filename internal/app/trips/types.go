package trips

import (
	"time"

	"github.com/tripsync-app/consensus-api/internal/domain"
)

type CreateTripInput struct {
	Name string `validate:"required,max=120"`
}

// TripView is the trip as members see it.
type TripView struct {
	ID        domain.TripID
	Name      string
	Organizer domain.MemberID
	MemberIDs []domain.MemberID
	CreatedAt time.Time
	UpdatedAt time.Time
}
