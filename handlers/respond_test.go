package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasur737/Mafia/internal/mafia"
	"github.com/jasur737/Mafia/services"
)

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestRespondWithGameError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"not found", fmt.Errorf("get game x: %w", mafia.ErrNotFound), http.StatusNotFound, "Game not found"},
		{"unauthenticated", mafia.ErrUnauthenticated, http.StatusUnauthorized, "Not authenticated"},
		{"forbidden", mafia.ErrForbidden, http.StatusForbidden, "Not allowed"},
		{"already started", fmt.Errorf("join game x: %w", mafia.ErrGameNotStartable), http.StatusBadRequest, "Game already started"},
		{"wrong phase", mafia.ErrWrongPhase, http.StatusBadRequest, "Not allowed in the current phase"},
		{"invalid target", mafia.ErrInvalidTarget, http.StatusBadRequest, "Invalid target"},
		{"self heal", mafia.ErrSelfHealExhausted, http.StatusBadRequest, "Self-heal already used"},
		{"roster", mafia.ErrRosterSizeInvalid, http.StatusBadRequest, "Players must be between 4 and 15 to start"},
		{"full", mafia.ErrGameFull, http.StatusBadRequest, "Game is full (max 15)"},
		{"credentials", services.ErrCredentialsRequired, http.StatusBadRequest, "Username and password required"},
		{"taken", services.ErrUsernameTaken, http.StatusBadRequest, "Username already exists"},
		{"long password", services.ErrPasswordTooLong, http.StatusBadRequest, "Password is too long"},
		{"bad login", services.ErrInvalidCredentials, http.StatusBadRequest, "Invalid credentials"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithGameError(rec, tt.err)

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.message, decodeError(t, rec))
		})
	}
}

func TestRespondOK(t *testing.T) {
	rec := httptest.NewRecorder()
	respondOK(rec)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}
