package handlers

import (
	"net/http"

	"starbound/internal/service"
)

// MeHandler serves the authenticated player's profile and progress board
type MeHandler struct {
	authService *service.AuthService
	progression *service.ProgressionService
}

// NewMeHandler creates a new profile handler
func NewMeHandler(authService *service.AuthService, progression *service.ProgressionService) *MeHandler {
	return &MeHandler{authService: authService, progression: progression}
}

// Get returns the player's profile and per-game dashboard
func (h *MeHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	board, err := h.progression.Dashboard(user.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondOK(w, map[string]interface{}{
		"user": map[string]interface{}{
			"user_id": user.UserID,
			"phone":   user.Phone,
			"name":    user.Name,
		},
		"games": board,
	})
}

// UpdateName sets the player's display name
func (h *MeHandler) UpdateName(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "name_required")
		return
	}

	if err := h.authService.UpdateName(user.UserID, req.Name); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, nil)
}
