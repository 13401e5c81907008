package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/learnforge/mesh/services/learning-platform/M12-learner-context-service/internal/application"
)

// ready reports whether the service can actually serve: the process is up
// and the cache store answers a ping.
func (h *Handler) ready(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "cache store unreachable")
			return
		}
	}
	writeMessage(w, http.StatusOK, "ready")
}

type snapshotResponse struct {
	Snapshot  any                         `json:"snapshot"`
	WasCached bool                        `json:"was_cached"`
	Outcome   application.SnapshotOutcome `json:"outcome"`
}

func (h *Handler) getSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")
	forceRefresh, _ := strconv.ParseBool(r.URL.Query().Get("force_refresh"))

	snapshot, wasCached, err := h.service.GetSnapshot(r.Context(), userID, forceRefresh)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, snapshotResponse{
		Snapshot:  snapshot,
		WasCached: wasCached,
		Outcome:   application.OutcomeOK,
	})
}

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	summary, err := h.service.GetSummary(r.Context(), userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	if summary == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no cached summary for learner")
		return
	}
	writeSuccess(w, http.StatusOK, summary)
}

func (h *Handler) invalidateSnapshot(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "user_id")

	removed, err := h.service.Invalidate(r.Context(), userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	if !removed {
		writeMessage(w, http.StatusOK, "no cached snapshot to remove")
		return
	}
	writeMessage(w, http.StatusOK, "cached snapshot removed")
}
