package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/jasur737/Mafia/internal/mafia"
	"github.com/jasur737/Mafia/middleware"
	"github.com/jasur737/Mafia/services"
)

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondOK(w http.ResponseWriter) {
	respondWithJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// respondWithGameError maps engine and service errors onto HTTP statuses
func respondWithGameError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, mafia.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Game not found")
	case errors.Is(err, mafia.ErrUnauthenticated):
		respondWithError(w, http.StatusUnauthorized, "Not authenticated")
	case errors.Is(err, mafia.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Not allowed")
	case errors.Is(err, mafia.ErrGameNotStartable):
		respondWithError(w, http.StatusBadRequest, "Game already started")
	case errors.Is(err, mafia.ErrWrongPhase):
		respondWithError(w, http.StatusBadRequest, "Not allowed in the current phase")
	case errors.Is(err, mafia.ErrInvalidTarget):
		respondWithError(w, http.StatusBadRequest, "Invalid target")
	case errors.Is(err, mafia.ErrSelfHealExhausted):
		respondWithError(w, http.StatusBadRequest, "Self-heal already used")
	case errors.Is(err, mafia.ErrRosterSizeInvalid):
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Players must be between %d and %d to start", mafia.MinPlayers, mafia.MaxPlayers))
	case errors.Is(err, mafia.ErrGameFull):
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Game is full (max %d)", mafia.MaxPlayers))
	case errors.Is(err, services.ErrCredentialsRequired):
		respondWithError(w, http.StatusBadRequest, "Username and password required")
	case errors.Is(err, services.ErrUsernameTaken):
		respondWithError(w, http.StatusBadRequest, "Username already exists")
	case errors.Is(err, services.ErrPasswordTooLong):
		respondWithError(w, http.StatusBadRequest, "Password is too long")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(w, http.StatusBadRequest, "Invalid credentials")
	default:
		log.Printf("Unhandled error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// requireUsername fetches the caller set by the session middleware
func requireUsername(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		respondWithGameError(w, mafia.ErrUnauthenticated)
		return "", false
	}
	return username, true
}
