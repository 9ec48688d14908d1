package handlers

import (
	"encoding/json"
	"net/http"

	"starbound/internal/models"
	"starbound/internal/service"
)

// SessionHandler opens and closes play sessions
type SessionHandler struct {
	sessionService *service.SessionService
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// Start opens a play session for a game
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	gameID := r.PathValue("game_id")

	session, err := h.sessionService.Start(user.UserID, gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{
		"session_id": session.SessionID,
		"started_at": session.StartedAt,
	})
}

// Finish closes a play session with its outcome summary and raw events
func (h *SessionHandler) Finish(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	gameID := r.PathValue("game_id")
	sessionID := r.PathValue("session_id")

	var req struct {
		Reason  string                `json:"reason"`
		Summary models.SessionSummary `json:"summary"`
		Events  []json.RawMessage     `json:"events"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "summary_required")
		return
	}

	result, err := h.sessionService.Finish(r.Context(), user.UserID, gameID, sessionID, req.Reason, req.Summary, req.Events)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{
		"stars_total": result.StarsTotal,
		"best_stars":  result.BestStars,
		"raw_key":     result.RawKey,
	})
}
