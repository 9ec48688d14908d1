package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"starbound/internal/quiz"
	"starbound/internal/service"
	"starbound/internal/validation"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return body
}

func TestRespondOK(t *testing.T) {
	rec := httptest.NewRecorder()
	respondOK(rec, map[string]interface{}{"token": "abc"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["ok"] != true || body["token"] != "abc" {
		t.Errorf("body = %v", body)
	}
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "validation",
			err:        validation.ValidationError{Field: "phone", Message: "phone is required"},
			wantStatus: http.StatusBadRequest,
			wantCode:   "phone_required",
		},
		{
			name:       "delivery failure",
			err:        &service.DeliveryError{Code: "telegram_failed", Err: errors.New("down")},
			wantStatus: http.StatusBadGateway,
			wantCode:   "telegram_failed",
		},
		{
			name:       "bad code",
			err:        service.ErrCodeInvalid,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "code_invalid",
		},
		{
			name:       "expired code",
			err:        service.ErrCodeExpired,
			wantStatus: http.StatusUnauthorized,
			wantCode:   "code_expired",
		},
		{
			name:       "unknown game",
			err:        service.ErrUnknownGame,
			wantStatus: http.StatusNotFound,
			wantCode:   "unknown_game",
		},
		{
			name:       "missing test",
			err:        quiz.ErrTestNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "test_not_found",
		},
		{
			name:       "repeat test",
			err:        service.ErrTestAlreadyDone,
			wantStatus: http.StatusConflict,
			wantCode:   "test_already_done",
		},
		{
			name:       "entry gate",
			err:        service.ErrEntryTestRequired,
			wantStatus: http.StatusForbidden,
			wantCode:   "entry_test_required",
		},
		{
			name:       "missing session",
			err:        service.ErrSessionNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "session_not_found",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			body := decodeBody(t, rec)
			if body["ok"] != false || body["error"] != tt.wantCode {
				t.Errorf("body = %v, want error %q", body, tt.wantCode)
			}
		})
	}
}

func TestRespondServiceErrorExitLocked(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, &service.ExitLockedError{BestStars: 8, RequiredStars: 9})

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "exit_test_locked" {
		t.Errorf("error = %v, want exit_test_locked", body["error"])
	}
	if body["best_stars"] != float64(8) || body["required_stars"] != float64(9) {
		t.Errorf("stars = %v/%v, want 8/9", body["best_stars"], body["required_stars"])
	}
}

func TestRespondServiceErrorQuizDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	respondServiceError(rec, quiz.InvalidPickError{QuestionID: "q4", Expected: 2, Actual: 3})

	body := decodeBody(t, rec)
	if rec.Code != http.StatusBadRequest || body["error"] != "invalid_pick" {
		t.Fatalf("got %d %v", rec.Code, body)
	}
	if body["question_id"] != "q4" || body["expected"] != float64(2) || body["actual"] != float64(3) {
		t.Errorf("details = %v", body)
	}

	rec = httptest.NewRecorder()
	respondServiceError(rec, quiz.InvalidOptionError{QuestionID: "q2"})
	body = decodeBody(t, rec)
	if body["error"] != "invalid_option" || body["question_id"] != "q2" {
		t.Errorf("body = %v", body)
	}
}

func TestCORSMiddleware(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS origin header")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Error("missing no-store header")
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/api/me", nil))
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
}

func TestNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "not_found" {
		t.Errorf("error = %v, want not_found", body["error"])
	}
}
