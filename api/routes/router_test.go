package routes

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rentrackhq/rentrack-backend/api/controllers"
	"github.com/rentrackhq/rentrack-backend/internal/subscriptions"
	pkgauth "github.com/rentrackhq/rentrack-backend/pkg/auth"
	"github.com/rentrackhq/rentrack-backend/pkg/config"
	"github.com/rentrackhq/rentrack-backend/pkg/db/testdb"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type memCache struct {
	values map[string]int
}

func (c *memCache) GetInt(_ context.Context, key string) (int, bool, error) {
	v, ok := c.values[key]
	return v, ok, nil
}

func (c *memCache) SetInt(_ context.Context, key string, value int, _ time.Duration) error {
	c.values[key] = value
	return nil
}

func (c *memCache) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(c.values, key)
	}
	return nil
}

func newTestRouter(t *testing.T) (http.Handler, config.JWTConfig, *gorm.DB) {
	t.Helper()
	gdb := testdb.Open(t)
	require.NoError(t, gdb.Table("organization").Create(map[string]any{
		"organizationID": 1,
		"name":           "Org One",
	}).Error)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "rentrack", ExpirationMinutes: 60}
	cfg := &config.Config{JWT: jwtCfg}
	svc := subscriptions.NewService(gdb, nil, time.Minute, logg)

	deps := map[string]controllers.Pinger{"database": stubPinger{}}
	return NewRouter(cfg, logg, gdb, deps, svc, nil), jwtCfg, gdb
}

func bearer(t *testing.T, cfg config.JWTConfig, admin bool) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID:         10,
		OrganizationID: 1,
		Admin:          admin,
	})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthEndpoints(t *testing.T) {
	h, _, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthReadyReportsFailingDependency(t *testing.T) {
	gdb := testdb.Open(t)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "s", ExpirationMinutes: 60}}
	svc := subscriptions.NewService(gdb, nil, time.Minute, logg)
	deps := map[string]controllers.Pinger{"database": stubPinger{err: errors.New("down")}}
	h := NewRouter(cfg, logg, gdb, deps, svc, nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResourceRoutesRequireAuth(t *testing.T) {
	h, _, _ := newTestRouter(t)

	for _, path := range []string{"/item", "/rental", "/external-renter", "/brand", "/custom-field"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAuthenticatedListSucceeds(t *testing.T) {
	h, jwtCfg, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/item", nil)
	req.Header.Set("Authorization", bearer(t, jwtCfg, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"results":[]}`, rec.Body.String())
}

func TestRentalDeleteRequiresAdmin(t *testing.T) {
	h, jwtCfg, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodDelete, "/rental/1", nil)
	req.Header.Set("Authorization", bearer(t, jwtCfg, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusForbidden, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/rental/1", nil)
	req.Header.Set("Authorization", bearer(t, jwtCfg, true))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestItemCreateIsSubscriptionGated(t *testing.T) {
	h, jwtCfg, gdb := newTestRouter(t)

	// Unlimited organization: create passes.
	req := httptest.NewRequest(http.MethodPut, "/item", strings.NewReader(`{"barcode":"A1"}`))
	req.Header.Set("Authorization", bearer(t, jwtCfg, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Capped at the current count: further creates are rejected.
	require.NoError(t, gdb.Table("organization").
		Where(`"organizationID" = ?`, 1).
		Updates(map[string]any{"maxItems": 1}).Error)

	req = httptest.NewRequest(http.MethodPut, "/item", strings.NewReader(`{"barcode":"A2"}`))
	req.Header.Set("Authorization", bearer(t, jwtCfg, false))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
}

// With a caching service the gate must see every create and delete, not a
// count frozen until the TTL elapses.
func TestItemWritesInvalidateCachedCount(t *testing.T) {
	gdb := testdb.Open(t)
	require.NoError(t, gdb.Table("organization").Create(map[string]any{
		"organizationID": 1,
		"name":           "Org One",
		"maxItems":       2,
	}).Error)

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	jwtCfg := config.JWTConfig{Secret: "test-secret", Issuer: "rentrack", ExpirationMinutes: 60}
	cfg := &config.Config{JWT: jwtCfg}
	cache := &memCache{values: map[string]int{}}
	svc := subscriptions.NewService(gdb, cache, time.Hour, logg)
	deps := map[string]controllers.Pinger{"database": stubPinger{}}
	h := NewRouter(cfg, logg, gdb, deps, svc, nil)

	create := func(barcode string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/item", strings.NewReader(`{"barcode":"`+barcode+`"}`))
		req.Header.Set("Authorization", bearer(t, jwtCfg, false))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, create("A1").Code)
	require.Equal(t, http.StatusOK, create("A2").Code)
	require.Equal(t, http.StatusPaymentRequired, create("A3").Code)

	// Deleting frees headroom right away.
	req := httptest.NewRequest(http.MethodDelete, "/item/A1", nil)
	req.Header.Set("Authorization", bearer(t, jwtCfg, false))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Equal(t, http.StatusOK, create("A3").Code)
}
