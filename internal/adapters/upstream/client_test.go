package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{
		ProfileBaseURL:    server.URL,
		EnrollmentBaseURL: server.URL,
		BearerToken:       "test-token",
	}, nil)
}

func TestFetchProfileExtractsResponse(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header: got %q", got)
		}
		if r.URL.Path != "/api/user/v2/read/user-1" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"params": {"status": "SUCCESS"},
			"result": {"response": {"identifier": "user-1", "firstName": "Asha"}}
		}`))
	})

	profile, err := client.FetchProfile(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("fetch profile failed: %v", err)
	}
	if profile["firstName"] != "Asha" {
		t.Fatalf("profile body: got %#v", profile)
	}
}

func TestFetchProfileStatusCodeMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code int
		want error
	}{
		{http.StatusUnauthorized, domain.ErrAuthentication},
		{http.StatusForbidden, domain.ErrAuthorization},
		{http.StatusNotFound, domain.ErrNotFound},
		{http.StatusInternalServerError, domain.ErrUpstreamFetch},
	}
	for _, tc := range cases {
		client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(tc.code)
		})
		_, err := client.FetchProfile(context.Background(), "user-1")
		if !errors.Is(err, tc.want) {
			t.Errorf("status %d: got %v, want %v", tc.code, err, tc.want)
		}
	}
}

func TestFetchProfileRejectedEnvelope(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"params": {"status": "FAILED", "errmsg": "unknown user"}, "result": {}}`))
	})

	_, err := client.FetchProfile(context.Background(), "user-1")
	if !errors.Is(err, domain.ErrUpstreamFetch) {
		t.Fatalf("expected upstream fetch error, got %v", err)
	}
}

func TestFetchCourseEnrollments(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/course/v1/user/enrollment/list/user-1" {
			t.Errorf("path: got %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"params": {"status": "SUCCESS"},
			"result": {
				"courses": [{"courseName": "Go Basics"}],
				"userCourseEnrolmentInfo": {"karmaPoints": 80}
			}
		}`))
	})

	feed, err := client.FetchCourseEnrollments(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("fetch course enrollments failed: %v", err)
	}
	if len(feed.Courses) != 1 {
		t.Fatalf("courses: got %#v", feed.Courses)
	}
	if karma, ok := feed.EnrolmentInfo["karmaPoints"].(float64); !ok || karma != 80 {
		t.Fatalf("enrolment info: got %#v", feed.EnrolmentInfo)
	}
}

func TestFetchEventEnrollmentsToleratesMissingList(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"params": {"status": "SUCCESS"}, "result": {}}`))
	})

	events, err := client.FetchEventEnrollments(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("fetch event enrollments failed: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("expected no events, got %#v", events)
	}
}
