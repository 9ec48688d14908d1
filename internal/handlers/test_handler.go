package handlers

import (
	"net/http"

	"starbound/internal/service"
)

// TestHandler serves knowledge quiz questions and submissions
type TestHandler struct {
	testService *service.TestService
}

// NewTestHandler creates a new test handler
func NewTestHandler(testService *service.TestService) *TestHandler {
	return &TestHandler{testService: testService}
}

// Get returns the test questions, or the recorded score when the player has
// already taken the test
func (h *TestHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	gameID := r.PathValue("game_id")
	testType := r.PathValue("test_type")

	view, err := h.testService.View(user.UserID, gameID, testType)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{"test": view})
}

// Submit scores the player's answers and records the attempt
func (h *TestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	gameID := r.PathValue("game_id")
	testType := r.PathValue("test_type")

	var req struct {
		Answers map[string]interface{} `json:"answers"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "answers_required")
		return
	}

	result, err := h.testService.Submit(user.UserID, gameID, testType, req.Answers)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondOK(w, map[string]interface{}{
		"score":     result.Score,
		"max_score": result.MaxScore,
		"correct":   result.Correct,
	})
}
