package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/liftbook/internal/adapters/cache"
	adapterHTTP "github.com/comitanigiacomo/liftbook/internal/adapters/handler/http"
	"github.com/comitanigiacomo/liftbook/internal/adapters/metrics"
	"github.com/comitanigiacomo/liftbook/internal/adapters/repository"
	"github.com/comitanigiacomo/liftbook/internal/core/domain"
	"github.com/comitanigiacomo/liftbook/internal/core/services"
	"github.com/comitanigiacomo/liftbook/internal/core/session"
)

const testPassword = "password123"

type testApp struct {
	handler      http.Handler
	measurements *repository.InMemoryMeasurementRepository
	hub          *session.Hub
	metrics      *metrics.Manager
}

// newTestApp wires the real router and services over in-memory stores.
// today fixes the calendar date every service sees.
func newTestApp(t *testing.T, today string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() domain.Date { return domain.MustParseDate(today) }
	logger, _ := test.NewNullLogger()

	users := repository.NewInMemoryUserRepository()
	measurements := repository.NewInMemoryMeasurementRepository()
	routines := repository.NewInMemoryRoutineRepository()
	profiles := repository.NewInMemoryProfileRepository()

	hub := session.NewHub()
	t.Cleanup(hub.Close)

	m, reg := metrics.NewTestManagerAndRegistry()
	m.WatchSessions(hub)

	tokens := services.NewTokenService("test-secret", "liftbook-test", time.Hour, users, cache.NewMemoryDenylist())
	auth := services.NewAuthService(users, tokens, hub)
	lifts := services.NewLiftService(measurements, nil, clock)
	stats := services.NewStatsService(measurements, nil, clock, logger)
	health := services.NewHealthService(measurements, clock)
	routineSvc := services.NewRoutineService(routines, measurements, nil, clock)
	profileSvc := services.NewProfileService(profiles, users, clock)

	handler := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(auth),
		LiftHandler:    adapterHTTP.NewLiftHandler(lifts, stats),
		StatsHandler:   adapterHTTP.NewStatsHandler(stats),
		HealthHandler:  adapterHTTP.NewHealthHandler(health),
		RoutineHandler: adapterHTTP.NewRoutineHandler(routineSvc),
		ProfileHandler: adapterHTTP.NewProfileHandler(profileSvc),
		TokenService:   tokens,
		Metrics:        m,
		Gatherer:       reg,
		Log:            logger,
		StartTime:      time.Now(),
	})

	return &testApp{handler: handler, measurements: measurements, hub: hub, metrics: m}
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

// signUp registers and logs in a user, returning the bearer token and id.
func (a *testApp) signUp(t *testing.T, email string) (string, string) {
	t.Helper()

	w := a.do(t, http.MethodPost, "/api/v1/auth/register", "", gin.H{"email": email, "password": testPassword})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var res struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(t, w, &res)
	return res.Token, res.User.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}
