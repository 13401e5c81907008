package upstream

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/domain"
	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/ports"
)

// Config carries the upstream learning-platform endpoints and credentials.
type Config struct {
	ProfileBaseURL    string
	EnrollmentBaseURL string
	BearerToken       string
	ProfileTimeout    time.Duration
	EnrollmentTimeout time.Duration
}

// Client talks to the learning platform's read APIs.
type Client struct {
	profile    *resty.Client
	enrollment *resty.Client
	logger     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.ProfileTimeout <= 0 {
		cfg.ProfileTimeout = 60 * time.Second
	}
	if cfg.EnrollmentTimeout <= 0 {
		cfg.EnrollmentTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}

	profile := resty.New().
		SetBaseURL(cfg.ProfileBaseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.BearerToken).
		SetTimeout(cfg.ProfileTimeout)

	enrollment := resty.New().
		SetBaseURL(cfg.EnrollmentBaseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(cfg.BearerToken).
		SetTimeout(cfg.EnrollmentTimeout)

	return &Client{profile: profile, enrollment: enrollment, logger: logger}
}

// apiEnvelope is the platform's standard response wrapper.
type apiEnvelope struct {
	Params struct {
		Status string `json:"status"`
		ErrMsg string `json:"errmsg"`
	} `json:"params"`
	Result map[string]any `json:"result"`
}

func (c *Client) FetchProfile(ctx context.Context, userID string) (map[string]any, error) {
	var envelope apiEnvelope
	resp, err := c.profile.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get("/api/user/v2/read/" + userID)
	if err != nil {
		return nil, fmt.Errorf("%w: profile read: %v", domain.ErrUpstreamFetch, err)
	}
	if mapErr := statusError(resp.StatusCode(), "profile read"); mapErr != nil {
		return nil, mapErr
	}
	if envelope.Params.Status != "" && envelope.Params.Status != "SUCCESS" && envelope.Params.Status != "success" {
		c.logger.Warn("profile read rejected by upstream",
			"user_id", userID, "upstream_status", envelope.Params.Status)
		return nil, fmt.Errorf("%w: profile read rejected: %s", domain.ErrUpstreamFetch, envelope.Params.ErrMsg)
	}

	profile, ok := envelope.Result["response"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: profile read returned no response body", domain.ErrUpstreamFetch)
	}
	return profile, nil
}

func (c *Client) FetchCourseEnrollments(ctx context.Context, userID string) (ports.CourseEnrollmentFeed, error) {
	var envelope apiEnvelope
	resp, err := c.enrollment.R().
		SetContext(ctx).
		SetResult(&envelope).
		SetQueryParams(map[string]string{
			"orgdetails":     "orgName",
			"licenseDetails": "name",
			"fields":         "contentType,topic,name,channel,mimeType,appIcon,gradeLevel,resourceType,identifier,medium,pkgVersion,board,subject,trackable,posterImage,duration,creatorLogo,license,version,versionKey",
			"batchDetails":   "name,endDate,startDate,status,enrollmentType,createdBy,certificates,enrollmentEndDate",
		}).
		Get("/api/course/v1/user/enrollment/list/" + userID)
	if err != nil {
		return ports.CourseEnrollmentFeed{}, fmt.Errorf("%w: course enrollment list: %v", domain.ErrUpstreamFetch, err)
	}
	if mapErr := statusError(resp.StatusCode(), "course enrollment list"); mapErr != nil {
		return ports.CourseEnrollmentFeed{}, mapErr
	}

	feed := ports.CourseEnrollmentFeed{}
	if courses, ok := envelope.Result["courses"].([]any); ok {
		feed.Courses = courses
	}
	if info, ok := envelope.Result["userCourseEnrolmentInfo"].(map[string]any); ok {
		feed.EnrolmentInfo = info
	}
	return feed, nil
}

func (c *Client) FetchEventEnrollments(ctx context.Context, userID string) ([]any, error) {
	var envelope apiEnvelope
	resp, err := c.enrollment.R().
		SetContext(ctx).
		SetResult(&envelope).
		Get("/api/event/v1/enrollment/list/" + userID)
	if err != nil {
		return nil, fmt.Errorf("%w: event enrollment list: %v", domain.ErrUpstreamFetch, err)
	}
	if mapErr := statusError(resp.StatusCode(), "event enrollment list"); mapErr != nil {
		return nil, mapErr
	}

	events, _ := envelope.Result["events"].([]any)
	return events, nil
}

func statusError(code int, operation string) error {
	switch {
	case code == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrAuthentication, operation)
	case code == http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrAuthorization, operation)
	case code == http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, operation)
	case code >= 400:
		return fmt.Errorf("%w: %s returned status %d", domain.ErrUpstreamFetch, operation, code)
	}
	return nil
}

var _ ports.UpstreamClient = (*Client)(nil)
