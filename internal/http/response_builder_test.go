package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/log"
)

func decodeEnvelope(t *testing.T, body []byte) (Envelope, map[string]any) {
	t.Helper()
	var raw struct {
		Success bool           `json:"success"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		t.Fatalf("decode envelope %q: %v", body, err)
	}
	return Envelope{Success: raw.Success, Message: raw.Message}, raw.Data
}

func TestResponseBuilder_Basic(t *testing.T) {
	w := httptest.NewRecorder()

	NewResponse().
		Message("done").
		Data(map[string]int{"count": 2}).
		Header("X-Test", "yes").
		Write(w)

	if w.Code != http.StatusOK {
		t.Errorf("Status code = %d, want %d", w.Code, http.StatusOK)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Header().Get("X-Test") != "yes" {
		t.Error("custom header not written")
	}
	env, data := decodeEnvelope(t, w.Body.Bytes())
	if !env.Success || env.Message != "done" || data["count"] != float64(2) {
		t.Errorf("envelope = %+v data = %v", env, data)
	}
}

func TestResponseBuilder_Shortcuts(t *testing.T) {
	tests := []struct {
		name        string
		builder     *ResponseBuilder
		wantStatus  int
		wantSuccess bool
		wantMessage string
	}{
		{"ok", OK(nil), http.StatusOK, true, ""},
		{"created", Created(nil, "made"), http.StatusCreated, true, "made"},
		{"bad request", BadRequestError("nope"), http.StatusBadRequest, false, "nope"},
		{"unauthorized", UnauthorizedError("who"), http.StatusUnauthorized, false, "who"},
		{"not found", NotFoundError("gone"), http.StatusNotFound, false, "gone"},
		{"rate limited", TooManyRequestsError(), http.StatusTooManyRequests, false, "rate limit exceeded, please try again later"},
		{"internal", InternalServerError(), http.StatusInternalServerError, false, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)
			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			env, _ := decodeEnvelope(t, w.Body.Bytes())
			if env.Success != tt.wantSuccess || env.Message != tt.wantMessage {
				t.Errorf("envelope = %+v", env)
			}
		})
	}
}

func TestServiceError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantField   string
	}{
		{"validation", core.Validation("amount", "amount must be greater than 0"), http.StatusBadRequest, "amount: amount must be greater than 0", "amount"},
		{"not found", core.NotFound("wallet"), http.StatusNotFound, "wallet not found", ""},
		{"wrapped not found sentinel", fmt.Errorf("load: %w", core.ErrNotFound), http.StatusNotFound, "resource not found", ""},
		{"conflict", core.Conflict("wallet already exists", core.ErrDuplicate), http.StatusConflict, "wallet already exists", ""},
		{"insufficient funds", core.ErrInsufficientFunds, http.StatusConflict, "resource already exists", ""},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			logger := log.New(log.Config{Output: &logs})
			r := httptest.NewRequest(http.MethodGet, "/api/wallets", nil)
			r = r.WithContext(log.WithLogger(r.Context(), logger))

			w := httptest.NewRecorder()
			ServiceError(r, tt.err).Write(w)

			if w.Code != tt.wantStatus {
				t.Errorf("Status code = %d, want %d", w.Code, tt.wantStatus)
			}
			env, data := decodeEnvelope(t, w.Body.Bytes())
			if env.Success || env.Message != tt.wantMessage {
				t.Errorf("envelope = %+v, want message %q", env, tt.wantMessage)
			}
			if got, _ := data["field"].(string); got != tt.wantField {
				t.Errorf("field = %q, want %q", got, tt.wantField)
			}
			if strings.Contains(w.Body.String(), "disk on fire") {
				t.Error("internal error detail leaked to the client")
			}

			logged := strings.Contains(logs.String(), "disk on fire")
			if logged != (tt.wantStatus == http.StatusInternalServerError) {
				t.Errorf("logged = %v for status %d: %s", logged, tt.wantStatus, logs.String())
			}
		})
	}
}
