package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"starbound/internal/quiz"
	"starbound/internal/service"
	"starbound/internal/validation"
)

// respondOK writes the success envelope with any extra payload fields
func respondOK(w http.ResponseWriter, payload map[string]interface{}) {
	body := map[string]interface{}{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	writeJSON(w, http.StatusOK, body)
}

// respondError writes the failure envelope with a machine-readable code
func respondError(w http.ResponseWriter, status int, code string) {
	respondErrorFields(w, status, code, nil)
}

func respondErrorFields(w http.ResponseWriter, status int, code string, extra map[string]interface{}) {
	body := map[string]interface{}{"ok": false, "error": code}
	for k, v := range extra {
		body[k] = v
	}
	writeJSON(w, status, body)
}

func writeJSON(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// respondServiceError maps domain errors onto the API error taxonomy.
// Unrecognized errors are logged and reported as internal_error.
func respondServiceError(w http.ResponseWriter, err error) {
	var valErr validation.ValidationError
	var delErr *service.DeliveryError
	var lockErr *service.ExitLockedError
	var optErr quiz.InvalidOptionError
	var pickErr quiz.InvalidPickError

	switch {
	case errors.As(err, &valErr):
		respondError(w, http.StatusBadRequest, valErr.Field+"_required")
	case errors.As(err, &delErr):
		log.Printf("code delivery failed: %v", err)
		respondError(w, http.StatusBadGateway, delErr.Code)
	case errors.Is(err, service.ErrCodeInvalid):
		respondError(w, http.StatusUnauthorized, "code_invalid")
	case errors.Is(err, service.ErrCodeExpired):
		respondError(w, http.StatusUnauthorized, "code_expired")
	case errors.Is(err, service.ErrUnknownGame):
		respondError(w, http.StatusNotFound, "unknown_game")
	case errors.Is(err, quiz.ErrTestNotFound):
		respondError(w, http.StatusNotFound, "test_not_found")
	case errors.Is(err, service.ErrTestAlreadyDone):
		respondError(w, http.StatusConflict, "test_already_done")
	case errors.As(err, &lockErr):
		respondErrorFields(w, http.StatusForbidden, "exit_test_locked", map[string]interface{}{
			"best_stars":     lockErr.BestStars,
			"required_stars": lockErr.RequiredStars,
		})
	case errors.As(err, &optErr):
		respondErrorFields(w, http.StatusBadRequest, "invalid_option", map[string]interface{}{
			"question_id": optErr.QuestionID,
		})
	case errors.As(err, &pickErr):
		respondErrorFields(w, http.StatusBadRequest, "invalid_pick", map[string]interface{}{
			"question_id": pickErr.QuestionID,
			"expected":    pickErr.Expected,
			"actual":      pickErr.Actual,
		})
	case errors.Is(err, service.ErrEntryTestRequired):
		respondError(w, http.StatusForbidden, "entry_test_required")
	case errors.Is(err, service.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error")
	}
}

// NotFound is the JSON fallback for unmatched routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, "not_found")
}

// decodeJSON reads a request body into dst
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
