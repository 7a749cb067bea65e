package itest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/tripsync-app/consensus-api/internal/adapters/httpapi"
	memclock "github.com/tripsync-app/consensus-api/internal/adapters/memory/clock"
	memidempotency "github.com/tripsync-app/consensus-api/internal/adapters/memory/idempotency"
	memprefrepo "github.com/tripsync-app/consensus-api/internal/adapters/memory/prefrepo"
	memtriprepo "github.com/tripsync-app/consensus-api/internal/adapters/memory/triprepo"
	pgidempotency "github.com/tripsync-app/consensus-api/internal/adapters/postgres/idempotency"
	pgprefrepo "github.com/tripsync-app/consensus-api/internal/adapters/postgres/prefrepo"
	postgres_testutil "github.com/tripsync-app/consensus-api/internal/adapters/postgres/testutil"
	pgtriprepo "github.com/tripsync-app/consensus-api/internal/adapters/postgres/triprepo"
	"github.com/tripsync-app/consensus-api/internal/app/consensus"
	"github.com/tripsync-app/consensus-api/internal/app/preferences"
	"github.com/tripsync-app/consensus-api/internal/app/trips"
	idempotencyport "github.com/tripsync-app/consensus-api/internal/ports/out/idempotency"
	prefrepoport "github.com/tripsync-app/consensus-api/internal/ports/out/prefrepo"
	triprepoport "github.com/tripsync-app/consensus-api/internal/ports/out/triprepo"
)

type backend string

const (
	backendMemory   backend = "memory"
	backendPostgres backend = "postgres"
)

func backendsFromEnv(t *testing.T) []backend {
	t.Helper()
	switch strings.ToLower(strings.TrimSpace(os.Getenv("ITEST_BACKEND"))) {
	case "", "memory":
		return []backend{backendMemory}
	case "postgres":
		return []backend{backendPostgres}
	case "all":
		return []backend{backendMemory, backendPostgres}
	default:
		t.Fatalf("unknown ITEST_BACKEND value (expected memory|postgres|all)")
		return nil
	}
}

type testServer struct {
	baseURL string
	client  *http.Client
}

func newTestServer(t *testing.T, b backend) *testServer {
	t.Helper()

	clk := memclock.NewManualClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	var (
		tripRepo  triprepoport.Repository
		prefRepo  prefrepoport.Repository
		idemStore idempotencyport.Store
	)

	switch b {
	case backendPostgres:
		pool := postgres_testutil.OpenMigratedPool(t)
		postgres_testutil.TruncateAll(t, pool)
		tripRepo = pgtriprepo.NewRepo(pool)
		prefRepo = pgprefrepo.NewRepo(pool)
		idemStore = pgidempotency.NewStore(pool)
	case backendMemory:
		tripRepo = memtriprepo.NewRepo()
		prefRepo = memprefrepo.NewRepo()
		idemStore = memidempotency.NewStore()
	default:
		t.Fatalf("unknown backend: %s", b)
	}

	api := httpapi.NewServer(
		trips.NewService(tripRepo, clk),
		preferences.NewService(tripRepo, prefRepo, clk),
		consensus.NewService(tripRepo, prefRepo),
		idemStore,
	)

	// Integration tests use the dev auth middleware to stay fully local and
	// deterministic. The empty default subject means requests MUST provide
	// X-Debug-Subject, which keeps auth-failure coverage.
	handler := httpapi.NewRouter(api, httpapi.NewDevAuthMiddleware(""))

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &testServer{
		baseURL: srv.URL,
		client:  srv.Client(),
	}
}

func (s *testServer) url(path string) string {
	if strings.HasPrefix(path, "/") {
		return s.baseURL + path
	}
	return s.baseURL + "/" + path
}

func (s *testServer) doJSON(t *testing.T, method string, path string, subject string, body any) (int, []byte, http.Header) {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.url(path), r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if subject != "" {
		req.Header.Set("X-Debug-Subject", subject)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out, resp.Header
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func mustUnmarshal[T any](t *testing.T, b []byte) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v\nbody=%s", err, string(b))
	}
	return out
}

func requireErrorCode(t *testing.T, status int, body []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status=%d want=%d body=%s", status, wantStatus, string(body))
	}
	got := mustUnmarshal[errorResponse](t, body)
	if got.Error.Code != wantCode {
		t.Fatalf("error.code=%q want=%q body=%s", got.Error.Code, wantCode, string(body))
	}
}
