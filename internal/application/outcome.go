package application

import (
	"errors"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/domain"
)

// SnapshotOutcome tags why a snapshot request did or did not produce data, so
// callers can phrase the failure without inspecting error chains.
type SnapshotOutcome string

const (
	OutcomeOK                  SnapshotOutcome = "ok"
	OutcomeNeedsAuthentication SnapshotOutcome = "needs_authentication"
	OutcomeNotRegistered       SnapshotOutcome = "not_registered"
	OutcomeUnavailable         SnapshotOutcome = "unavailable"
)

// OutcomeForError classifies a snapshot pipeline error.
func OutcomeForError(err error) SnapshotOutcome {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrAuthentication), errors.Is(err, domain.ErrAuthorization):
		return OutcomeNeedsAuthentication
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrIdentityMismatch):
		return OutcomeNotRegistered
	default:
		return OutcomeUnavailable
	}
}
