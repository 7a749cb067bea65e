package prefrepo

import (
	"testing"

	"github.com/tripsync-app/consensus-api/internal/adapters/contracttest"
	"github.com/tripsync-app/consensus-api/internal/adapters/postgres/testutil"
	prefrepoport "github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
)

func TestContract_PostgresPrefRepo(t *testing.T) {
	pool := testutil.OpenMigratedPool(t)

	contracttest.RunPrefRepo(t, func(t *testing.T) (prefrepoport.Repository, contracttest.CleanupFunc) {
		t.Helper()
		testutil.TruncateAll(t, pool)
		return NewRepo(pool), nil
	})
}
