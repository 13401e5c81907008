package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/domain"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	router := NewRouter(NewHandler(nil, stubPinger{}), slog.New(slog.NewTextHandler(io.Discard, nil)))

	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Errorf("%s: got status %d", path, rec.Code)
		}
		var body map[string]any
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: invalid body: %v", path, err)
		}
		if body["status"] != "success" {
			t.Errorf("%s: got body %#v", path, body)
		}
		if rec.Header().Get("X-Request-Id") == "" {
			t.Errorf("%s: missing request id header", path)
		}
	}
}

func TestReadyzReflectsStoreReachability(t *testing.T) {
	t.Parallel()

	router := NewRouter(
		NewHandler(nil, stubPinger{err: errors.New("connection refused")}),
		slog.New(slog.NewTextHandler(io.Discard, nil)))

	req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unreachable store must fail readiness, got status %d", rec.Code)
	}
	var body apiError
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if body.Code != "SERVICE_UNAVAILABLE" {
		t.Fatalf("unexpected error code %q", body.Code)
	}
}

func TestMapDomainError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.ErrInvalidInput, http.StatusBadRequest, "VALIDATION_ERROR"},
		{domain.ErrAuthentication, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrAuthorization, http.StatusForbidden, "FORBIDDEN"},
		{domain.ErrIdentityMismatch, http.StatusConflict, "IDENTITY_MISMATCH"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrUpstreamFetch, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{domain.ErrCacheUnavailable, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{errors.New("anything else"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		status, code, _ := mapDomainError(tc.err)
		if status != tc.wantStatus || code != tc.wantCode {
			t.Errorf("%v: got %d %s, want %d %s", tc.err, status, code, tc.wantStatus, tc.wantCode)
		}
	}
}
