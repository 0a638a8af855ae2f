package rentals

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rentrackhq/rentrack-backend/api/middleware"
	"github.com/rentrackhq/rentrack-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func capturedBody(t *testing.T, body string) map[string]any {
	t.Helper()
	var got map[string]any
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	})

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(http.MethodPut, "/rental", reader)
	req = req.WithContext(middleware.WithIdentity(req.Context(), 10, 1, false))
	rec := httptest.NewRecorder()
	AttachUserID(testLogger())(next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	return got
}

func TestAttachUserIDStampsCaller(t *testing.T) {
	got := capturedBody(t, `{"barcode":"A1","startDate":"2026-08-01"}`)
	require.EqualValues(t, 10, got["userID"])
	require.Equal(t, "A1", got["barcode"])
}

func TestAttachUserIDOverridesClientValue(t *testing.T) {
	got := capturedBody(t, `{"barcode":"A1","userID":999}`)
	require.EqualValues(t, 10, got["userID"])
}

func TestAttachUserIDHandlesEmptyBody(t *testing.T) {
	got := capturedBody(t, "")
	require.EqualValues(t, 10, got["userID"])
}

func TestAttachUserIDRejectsInvalidJSON(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not run")
	})

	req := httptest.NewRequest(http.MethodPut, "/rental", strings.NewReader(`{"barcode":`))
	req = req.WithContext(middleware.WithIdentity(req.Context(), 10, 1, false))
	rec := httptest.NewRecorder()
	AttachUserID(testLogger())(next).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
