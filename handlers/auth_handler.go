package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/jasur737/Mafia/middleware"
	"github.com/jasur737/Mafia/services"
)

type AuthHandler struct {
	accounts *services.AccountService
	sessions *middleware.SessionAuth
}

func NewAuthHandler(accounts *services.AccountService, sessions *middleware.SessionAuth) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		sessions: sessions,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return req, false
	}
	return req, true
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.SignUp(req.Username, req.Password)
	if err != nil {
		respondWithGameError(w, err)
		return
	}

	h.startSession(w, account.Username)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeCredentials(w, r)
	if !ok {
		return
	}

	account, err := h.accounts.Login(req.Username, req.Password)
	if err != nil {
		respondWithGameError(w, err)
		return
	}

	h.startSession(w, account.Username)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, username string) {
	token, expires, err := h.sessions.Issue(username)
	if err != nil {
		log.Printf("Issue session for %s: %v", username, err)
		respondWithError(w, http.StatusInternalServerError, "Could not start session")
		return
	}

	h.sessions.SetCookie(w, token, expires)
	respondWithJSON(w, http.StatusOK, sessionResponse{Username: username, Token: token})
}

// Logout closes the caller's session so its token stops working
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Revoke(r)
	h.sessions.ClearCookie(w)
	respondOK(w)
}

// Me reports the current user, or null when there is no session
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"user": map[string]string{"username": username},
	})
}
