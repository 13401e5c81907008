package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/domain"
	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/ports"
)

// EventTypeSnapshotRefreshed is published after a fresh snapshot replaces a
// stale or missing cache entry.
const EventTypeSnapshotRefreshed = "learner.snapshot_refreshed"

// GetSnapshot returns the learner's aggregated snapshot, serving from cache
// when a live entry exists. The second return reports whether the snapshot
// came from cache. forceRefresh bypasses the cache read but still writes the
// rebuilt entry back.
func (s *Service) GetSnapshot(ctx context.Context, userID string, forceRefresh bool) (domain.LearnerSnapshot, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return domain.LearnerSnapshot{}, false, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	key := s.cacheKey(userID)
	if !forceRefresh {
		if snapshot, ok := s.readCached(ctx, userID, key); ok {
			s.logger.Info("snapshot served from cache",
				"operation", "get_snapshot", "user_id", userID, "outcome", "hit")
			return snapshot, true, nil
		}
	}

	snapshot, err := s.buildSnapshot(ctx, userID)
	if err != nil {
		s.logger.Error("snapshot rebuild failed",
			"operation", "get_snapshot", "user_id", userID, "error", err)
		return domain.LearnerSnapshot{}, false, err
	}

	s.storeSnapshot(ctx, userID, key, snapshot)
	s.publishRefreshed(ctx, userID, snapshot)

	s.logger.Info("snapshot rebuilt",
		"operation", "get_snapshot", "user_id", userID, "outcome", "miss",
		"courses", snapshot.Metadata.TotalCourses, "events", snapshot.Metadata.TotalEvents)
	return snapshot, false, nil
}

// GetSummary returns the lightweight cached projection, or nil when no live
// entry exists. It never triggers a rebuild.
func (s *Service) GetSummary(ctx context.Context, userID string) (*domain.SnapshotSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	raw, err := s.cache.Get(ctx, s.summaryKey(userID))
	if err != nil {
		if errors.Is(err, ports.ErrCacheMiss) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	var summary domain.SnapshotSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		s.logger.Warn("discarding corrupt summary entry",
			"operation", "get_summary", "user_id", userID, "error", err)
		return nil, nil
	}

	if written, parseErr := time.Parse(time.RFC3339, summary.LastUpdated); parseErr == nil {
		summary.CacheAgeMinutes = s.nowFn().Sub(written).Minutes()
	}
	return &summary, nil
}

// Invalidate removes the learner's snapshot and summary entries, reporting
// whether anything was actually removed.
func (s *Service) Invalidate(ctx context.Context, userID string) (bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return false, fmt.Errorf("%w: user id is required", domain.ErrInvalidInput)
	}

	removed, err := s.cache.Delete(ctx, s.cacheKey(userID), s.summaryKey(userID))
	if err != nil {
		return false, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}

	s.logger.Info("snapshot invalidated",
		"operation", "invalidate", "user_id", userID, "removed", removed)
	return removed > 0, nil
}

// readCached returns the cached snapshot when the entry exists, decodes, and
// has not outlived its own TTL. Corrupt and expired entries are treated as
// misses; the subsequent store overwrites them.
func (s *Service) readCached(ctx context.Context, userID, key string) (domain.LearnerSnapshot, bool) {
	raw, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			s.logger.Warn("cache read failed, falling through to rebuild",
				"operation", "get_snapshot", "user_id", userID, "error", err)
		}
		return domain.LearnerSnapshot{}, false
	}

	var cached domain.CachedLearnerDetails
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		s.logger.Warn("discarding corrupt snapshot entry",
			"operation", "get_snapshot", "user_id", userID, "error", err)
		s.dropEntry(ctx, userID, key)
		return domain.LearnerSnapshot{}, false
	}
	if cached.IsExpired(s.nowFn()) {
		s.logger.Info("cached snapshot expired",
			"operation", "get_snapshot", "user_id", userID, "outcome", "expired")
		s.dropEntry(ctx, userID, key)
		return domain.LearnerSnapshot{}, false
	}
	return cached.Snapshot, true
}

// dropEntry removes a dead entry so the summary projection cannot outlive the
// snapshot it was derived from. Best effort; the rebuild overwrites both keys
// anyway.
func (s *Service) dropEntry(ctx context.Context, userID, key string) {
	if _, err := s.cache.Delete(ctx, key, s.summaryKey(userID)); err != nil {
		s.logger.Warn("failed to drop dead cache entry",
			"operation", "get_snapshot", "user_id", userID, "error", err)
	}
}

// storeSnapshot writes the snapshot and its summary projection in one
// pipelined round trip. A failed write degrades to a log line; the caller
// already holds the fresh snapshot.
func (s *Service) storeSnapshot(ctx context.Context, userID, key string, snapshot domain.LearnerSnapshot) {
	now := s.nowFn()
	cached := domain.CachedLearnerDetails{
		Snapshot:       snapshot,
		CacheTimestamp: now.Unix(),
		TTLMinutes:     int(s.cfg.CacheTTL.Minutes()),
	}

	entry, err := json.Marshal(cached)
	if err != nil {
		s.logger.Error("snapshot marshal failed",
			"operation", "store_snapshot", "user_id", userID, "error", err)
		return
	}
	summary, err := json.Marshal(cached.Summary(now))
	if err != nil {
		s.logger.Error("summary marshal failed",
			"operation", "store_snapshot", "user_id", userID, "error", err)
		return
	}

	err = s.cache.SetPair(ctx,
		ports.KV{Key: key, Value: string(entry)},
		ports.KV{Key: s.summaryKey(userID), Value: string(summary)},
		s.cfg.CacheTTL)
	if err != nil {
		s.logger.Warn("cache write failed, serving uncached snapshot",
			"operation", "store_snapshot", "user_id", userID, "error", err)
	}
}

func (s *Service) publishRefreshed(ctx context.Context, userID string, snapshot domain.LearnerSnapshot) {
	if s.publisher == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"user_id":           userID,
		"total_courses":     snapshot.Metadata.TotalCourses,
		"total_events":      snapshot.Metadata.TotalEvents,
		"total_enrollments": snapshot.Metadata.TotalEnrollments,
		"refreshed_at":      s.nowFn().Format(time.RFC3339),
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, EventTypeSnapshotRefreshed, payload, userID); err != nil {
		s.logger.Warn("snapshot refresh event not published",
			"operation", "publish_refreshed", "user_id", userID, "error", err)
	}
}

// buildSnapshot runs the full aggregation pipeline: profile fetch, identity
// cross-check, concurrent enrollment fetches, normalization, summarization.
func (s *Service) buildSnapshot(ctx context.Context, userID string) (domain.LearnerSnapshot, error) {
	profile, err := s.upstream.FetchProfile(ctx, userID)
	if err != nil {
		return domain.LearnerSnapshot{}, err
	}

	sanitized := domain.Sanitize(profile)

	// The upstream read is by user id, but the response body carries its own
	// identifier. A mismatch means the wrong learner's data came back, and
	// nothing downstream may run with it.
	if got := domain.StringField(sanitized, domain.IdentityField); got != userID {
		return domain.LearnerSnapshot{}, fmt.Errorf("%w: requested %q, upstream returned %q",
			domain.ErrIdentityMismatch, userID, got)
	}

	var (
		wg        sync.WaitGroup
		courseRaw ports.CourseEnrollmentFeed
		eventRaw  []any
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		feed, feedErr := s.upstream.FetchCourseEnrollments(ctx, userID)
		if feedErr != nil {
			s.logger.Warn("course enrollment feed unavailable, continuing without it",
				"operation", "build_snapshot", "user_id", userID, "error", feedErr)
			return
		}
		courseRaw = feed
	}()
	go func() {
		defer wg.Done()
		events, feedErr := s.upstream.FetchEventEnrollments(ctx, userID)
		if feedErr != nil {
			s.logger.Warn("event enrollment feed unavailable, continuing without it",
				"operation", "build_snapshot", "user_id", userID, "error", feedErr)
			return
		}
		eventRaw = events
	}()
	wg.Wait()

	courses := domain.NormalizeCourses(courseRaw.Courses)
	events := domain.NormalizeEvents(eventRaw)
	summary := domain.CourseSummary(courseRaw.EnrolmentInfo, courses).
		Merge(domain.EventSummary(events))

	return domain.LearnerSnapshot{
		UserDetails:       learnerDetails(userID, sanitized, summary),
		EnrollmentSummary: summary,
		CourseEnrollments: courses,
		EventEnrollments:  events,
		Metadata: domain.SnapshotMetadata{
			TotalCourses:     len(courses),
			TotalEvents:      len(events),
			TotalEnrollments: len(courses) + len(events),
			Timestamp:        s.nowFn(),
			UserID:           userID,
		},
		IsAuthenticated: true,
		IsRegistered:    true,
	}, nil
}

// learnerDetails lifts the identity fields out of the sanitized profile.
// Contact fields live under profileDetails.personalDetails in the upstream
// shape, with flat keys as a fallback.
func learnerDetails(userID string, sanitized map[string]any, summary domain.EnrollmentSummary) domain.LearnerDetails {
	details := domain.LearnerDetails{
		UserID:      userID,
		FirstName:   domain.StringField(sanitized, "firstName"),
		LastName:    domain.StringField(sanitized, "lastName"),
		KarmaPoints: summary.KarmaPoints,
	}

	if profileDetails := domain.MapField(sanitized, "profileDetails"); profileDetails != nil {
		if personal := domain.MapField(profileDetails, "personalDetails"); personal != nil {
			details.PrimaryEmail = domain.StringField(personal, "primaryEmail")
			details.Phone = domain.StringField(personal, "mobile")
		}
	}
	if details.PrimaryEmail == "" {
		details.PrimaryEmail = domain.StringField(sanitized, "email")
	}
	if details.Phone == "" {
		details.Phone = domain.StringField(sanitized, "phone")
	}
	return details
}
