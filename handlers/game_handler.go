package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/jasur737/Mafia/internal/mafia"
	"github.com/jasur737/Mafia/services"
)

type GameHandler struct {
	games *services.GameManager
}

func NewGameHandler(games *services.GameManager) *GameHandler {
	return &GameHandler{
		games: games,
	}
}

type targetRequest struct {
	Target string `json:"target"`
}

// decodeTarget reads {"target": "..."}; an empty body means no target
func decodeTarget(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req targetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return "", false
	}
	return req.Target, true
}

func (h *GameHandler) CreateGame(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	respondWithJSON(w, http.StatusOK, h.games.CreateGame(username))
}

func (h *GameHandler) ListOpenGames(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.games.ListOpenGames())
}

func (h *GameHandler) JoinGame(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.games.JoinGame)
}

func (h *GameHandler) StartGame(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.games.StartGame)
}

func (h *GameHandler) GetGame(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.games.GetState)
}

func (h *GameHandler) SubmitMafiaTarget(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.games.SubmitMafiaTarget)
}

func (h *GameHandler) SubmitDoctorTarget(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.games.SubmitDoctorTarget)
}

// SubmitDayVote accepts {"target": ""} or an empty body to withdraw a vote
func (h *GameHandler) SubmitDayVote(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, h.games.SubmitDayVote)
}

func (h *GameHandler) submit(w http.ResponseWriter, r *http.Request, action func(id, username, target string) error) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	target, ok := decodeTarget(w, r)
	if !ok {
		return
	}

	if err := action(mux.Vars(r)["id"], username, target); err != nil {
		respondWithGameError(w, err)
		return
	}
	respondOK(w)
}

func (h *GameHandler) ResolveNight(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.games.ResolveNight)
}

func (h *GameHandler) ResolveDay(w http.ResponseWriter, r *http.Request) {
	h.view(w, r, h.games.ResolveDay)
}

// view runs action for the caller and responds with their view of the game
func (h *GameHandler) view(w http.ResponseWriter, r *http.Request, action func(id, username string) (mafia.View, error)) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}

	view, err := action(mux.Vars(r)["id"], username)
	if err != nil {
		respondWithGameError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, view)
}
