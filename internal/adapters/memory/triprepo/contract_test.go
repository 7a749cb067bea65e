package triprepo

import (
	"testing"

	"github.com/tripsync-app/consensus-api/internal/adapters/contracttest"
	triprepoport "github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

func TestContract_TripRepo(t *testing.T) {
	contracttest.RunTripRepo(t, func(t *testing.T) (triprepoport.Repository, contracttest.CleanupFunc) {
		t.Helper()
		return NewRepo(), nil
	})
}
