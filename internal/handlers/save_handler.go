package handlers

import (
	"encoding/json"
	"net/http"

	"starbound/internal/service"
)

// SaveHandler serves per-game save blobs
type SaveHandler struct {
	saveService *service.SaveService
}

// NewSaveHandler creates a new save handler
func NewSaveHandler(saveService *service.SaveService) *SaveHandler {
	return &SaveHandler{saveService: saveService}
}

// Get returns the player's save for a game, with save set to null when none
// exists
func (h *SaveHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	gameID := r.PathValue("game_id")

	save, err := h.saveService.Get(user.UserID, gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	payload := map[string]interface{}{"save": nil}
	if save != nil {
		payload["save"] = json.RawMessage(save.Payload)
		payload["updated_at"] = save.UpdatedAt
	}
	respondOK(w, payload)
}

// Put replaces the player's save for a game. The save document is accepted
// under either the save or payload key.
func (h *SaveHandler) Put(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	gameID := r.PathValue("game_id")

	var req struct {
		Save    json.RawMessage `json:"save"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "save_required")
		return
	}

	doc := req.Save
	if len(doc) == 0 || string(doc) == "null" {
		doc = req.Payload
	}
	if len(doc) == 0 || string(doc) == "null" {
		respondError(w, http.StatusBadRequest, "save_required")
		return
	}

	if err := h.saveService.Put(user.UserID, gameID, doc); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, nil)
}

// Delete removes the player's save for a game
func (h *SaveHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	gameID := r.PathValue("game_id")

	if err := h.saveService.Delete(user.UserID, gameID); err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, nil)
}
