package handlers

import (
	"net/http"

	"starbound/internal/service"
)

// AuthHandler handles the phone login endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Start sends a one-time code to the submitted phone
func (h *AuthHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "phone_required")
		return
	}

	result, err := h.authService.StartAuth(r.Context(), req.Phone)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	payload := map[string]interface{}{}
	if result.DebugCode != "" {
		payload["debug_code"] = result.DebugCode
	}
	respondOK(w, payload)
}

// Verify checks the submitted code and returns a bearer token
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone string `json:"phone"`
		Code  string `json:"code"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Phone == "" || req.Code == "" {
		respondError(w, http.StatusBadRequest, "phone_and_code_required")
		return
	}

	tokenString, user, err := h.authService.VerifyAuth(r.Context(), req.Phone, req.Code)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondOK(w, map[string]interface{}{
		"token": tokenString,
		"user": map[string]interface{}{
			"user_id": user.UserID,
			"phone":   user.Phone,
			"name":    user.Name,
		},
	})
}
