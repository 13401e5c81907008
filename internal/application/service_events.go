package application

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/domain"
)

// Consumed event types. Both carry a user_id and both resolve to cache
// invalidation, so the next snapshot read rebuilds from upstream.
const (
	EventTypeProfileUpdated = "learner.profile_updated"
	EventTypeLearnerDeleted = "learner.deleted"
)

type learnerEvent struct {
	UserID string `json:"user_id"`
}

// HandleProfileUpdated drops the learner's cached snapshot after an upstream
// profile mutation.
func (s *Service) HandleProfileUpdated(ctx context.Context, payload []byte) error {
	return s.invalidateFromEvent(ctx, EventTypeProfileUpdated, payload)
}

// HandleLearnerDeleted drops the cached snapshot of a removed learner.
func (s *Service) HandleLearnerDeleted(ctx context.Context, payload []byte) error {
	return s.invalidateFromEvent(ctx, EventTypeLearnerDeleted, payload)
}

func (s *Service) invalidateFromEvent(ctx context.Context, eventType string, payload []byte) error {
	var event learnerEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return fmt.Errorf("%w: decode %s payload: %v", domain.ErrInvalidInput, eventType, err)
	}
	if event.UserID == "" {
		return fmt.Errorf("%w: %s payload missing user_id", domain.ErrInvalidInput, eventType)
	}

	removed, err := s.Invalidate(ctx, event.UserID)
	if err != nil {
		return err
	}
	s.logger.Info("event-driven invalidation handled",
		"operation", "consume_event", "event_type", eventType,
		"user_id", event.UserID, "removed", removed)
	return nil
}
