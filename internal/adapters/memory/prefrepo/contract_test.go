package prefrepo

import (
	"testing"

	"github.com/tripsync-app/consensus-api/internal/adapters/contracttest"
	prefrepoport "github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
)

func TestContract_PrefRepo(t *testing.T) {
	contracttest.RunPrefRepo(t, func(t *testing.T) (prefrepoport.Repository, contracttest.CleanupFunc) {
		t.Helper()
		return NewRepo(), nil
	})
}
