package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wayplan/backend/api/controllers"
	pkgauth "github.com/wayplan/backend/pkg/auth"
	"github.com/wayplan/backend/pkg/config"
	"github.com/wayplan/backend/pkg/enums"
)

type okPinger struct{}

func (okPinger) Ping(_ context.Context) error { return nil }

type allowAllChecker struct{}

func (allowAllChecker) UserHasRole(_ context.Context, _, _ uuid.UUID, _ ...enums.TripRole) (bool, error) {
	return true, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "wayplan",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	health := controllers.NewHealthController(okPinger{}, okPinger{}, nil)
	return New(RouterParams{
		Config:            testConfig(),
		Auth:              controllers.NewAuthController(nil, nil),
		Users:             controllers.NewUsersController(nil, nil),
		Trips:             controllers.NewTripsController(nil, nil, nil),
		Activities:        controllers.NewActivitiesController(nil, nil, nil),
		Geo:               controllers.NewGeoController(nil, nil),
		Assist:            controllers.NewAssistController(nil, nil),
		Health:            health,
		MembershipChecker: allowAllChecker{},
	})
}

func TestHealthEndpointsArePublic(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/ping", "/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s returned %d, want 200", path, rec.Code)
		}
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/users/me"},
		{http.MethodGet, "/api/v1/trips"},
		{http.MethodPost, "/api/v1/geo/geocode"},
		{http.MethodPost, "/api/v1/assist/chat"},
	}
	for _, tc := range paths {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s returned %d, want 401", tc.method, tc.path, rec.Code)
		}
	}
}

func TestAuthMiddlewareAcceptsValidToken(t *testing.T) {
	cfg := testConfig()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgauth.AccessTokenPayload{
		UserID:    uuid.New(),
		Email:     "jane@example.com",
		FirstName: "Jane",
	})
	if err != nil {
		t.Fatalf("MintAccessToken: %v", err)
	}

	router := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// the nil service behind the handler 500s via the recoverer; only a 401
	// would mean the middleware rejected the token
	if rec.Code == http.StatusUnauthorized {
		t.Fatalf("valid token rejected: %s", rec.Body.String())
	}
}
