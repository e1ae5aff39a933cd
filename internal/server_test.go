package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raphskal/gymtracker/internal/auth"
	"github.com/raphskal/gymtracker/internal/config"
	"github.com/raphskal/gymtracker/internal/docstore"
	"github.com/raphskal/gymtracker/internal/lifts"
	"github.com/raphskal/gymtracker/internal/telemetry/metrics"
)

func newTestServer(t *testing.T) (*Server, redismock.ClientMock) {
	t.Helper()
	rdb, redisMock := redismock.NewClientMock()
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		SessionTTLHours:             168,
		LoginRateLimitAllowedPerMin: 15,
		AllowedOrigins:              []string{"https://gymtracker.app"},
	}

	s := &Server{
		config:         cfg,
		versionInfo:    "test-version",
		mcpSecret:      "mcp-secret",
		redisClient:    rdb,
		authService:    auth.NewService(nil, cfg.SessionTTL(), rdb),
		liftsService:   lifts.NewService(docstore.NewTestStore()),
		metricsManager: metrics.NewTestManager(),
	}
	return s, redisMock
}

func serve(t *testing.T, s *Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	router, err := s.routerSetup()
	require.NoError(t, err)
	req.Header.Set("Origin", "https://gymtracker.app")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestServer_Router_Unprotected(t *testing.T) {
	s, _ := newTestServer(t)

	rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "https://gymtracker.app", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = serve(t, s, httptest.NewRequest(http.MethodGet, "/version", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "test-version", rr.Body.String())

	rr = serve(t, s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_Router_GuardRedirects(t *testing.T) {
	s, _ := newTestServer(t)

	rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/lifts/last", nil))
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/login", rr.Header().Get("Location"))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.CounterGuardRedirects))
}

func TestServer_Router_SignedIn(t *testing.T) {
	s, redisMock := newTestServer(t)
	ctx := context.Background()

	session := &auth.Session{UID: "u1"}
	_, err := s.liftsService.Create(ctx, session, lifts.LiftInput{Exercise: "Squat", Weight: 100, Reps: 5, Date: "2024-03-01"})
	require.NoError(t, err)
	_, err = s.liftsService.Create(ctx, session, lifts.LiftInput{Exercise: "Bench", Weight: 80, Reps: 5, Date: "2024-03-03"})
	require.NoError(t, err)

	redisMock.ExpectHGetAll("gymtracker-session||tok-1").SetVal(map[string]string{
		"uid":        "u1",
		"email":      "ana@example.com",
		"created_at": strconv.FormatInt(time.Now().Unix(), 10),
	})

	req := httptest.NewRequest(http.MethodGet, "/lifts/last", nil)
	req.Header.Set("Authorization", "Bearer tok-1")
	rr := serve(t, s, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exercise":"B"}`, rr.Body.String())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}

func TestServer_Router_AnalyticsUnguarded(t *testing.T) {
	s, _ := newTestServer(t)

	_, err := s.liftsService.Create(context.Background(), &auth.Session{UID: "u1"},
		lifts.LiftInput{Exercise: "Squat", Weight: 90, Reps: 30, Date: "2024-03-01"})
	require.NoError(t, err)

	rr := serve(t, s, httptest.NewRequest(http.MethodGet, "/analytics/u1/Squat", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"date":"2024-03-01","oneRepMax":180}]`, rr.Body.String())
}

func TestServer_Router_MCPRequiresSecret(t *testing.T) {
	s, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	rr := serve(t, s, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req = httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`))
	req.Header.Set(mcpSecretHeader, "wrong")
	rr = serve(t, s, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestServer_Router_MCPDisabledWithoutSecret(t *testing.T) {
	s, _ := newTestServer(t)
	s.mcpSecret = ""

	rr := serve(t, s, httptest.NewRequest(http.MethodPost, "/mcp", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestServer_OnAuthStateChanged(t *testing.T) {
	s, _ := newTestServer(t)

	s.onAuthStateChanged(auth.StateChange{UID: "u1", SignedIn: true})
	s.onAuthStateChanged(auth.StateChange{UID: "u1", SignedIn: false})
	s.onAuthStateChanged(auth.StateChange{UID: "u2", SignedIn: true})

	assert.Equal(t, float64(2), testutil.ToFloat64(s.metricsManager.CounterAuthStateChanges.WithLabelValues("signed_in")))
	assert.Equal(t, float64(1), testutil.ToFloat64(s.metricsManager.CounterAuthStateChanges.WithLabelValues("signed_out")))
}

func TestRunSessionCleanup_StopsOnCancel(t *testing.T) {
	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		runSessionCleanup(ctx, auth.NewService(nil, time.Hour, rdb), time.Hour)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("session cleanup did not stop")
	}
}
