package services

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jasur737/Mafia/internal/mafia"
)

const gameIDLength = 8

var ErrGameNotFound = mafia.ErrNotFound

type gameEntry struct {
	mu   sync.Mutex
	game *mafia.Game
}

// lockedShuffler shares one random source between games
type lockedShuffler struct {
	mu sync.Mutex
	r  *rand.Rand
}

func (s *lockedShuffler) Shuffle(n int, swap func(i, j int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Shuffle(n, swap)
}

// GameManager owns every game in the process. Each game sits behind its own
// mutex so requests for one game run one at a time while different games
// never wait on each other. The manager lock only guards the id -> game map.
type GameManager struct {
	games map[string]*gameEntry
	mu    sync.RWMutex

	rng   mafia.Shuffler
	now   func() time.Time
	newID func() string
}

type GameManagerOption func(*GameManager)

// WithRand makes role dealing draw from r
func WithRand(r *rand.Rand) GameManagerOption {
	return func(m *GameManager) {
		m.rng = &lockedShuffler{r: r}
	}
}

func WithClock(now func() time.Time) GameManagerOption {
	return func(m *GameManager) {
		m.now = now
	}
}

func WithIDGenerator(newID func() string) GameManagerOption {
	return func(m *GameManager) {
		m.newID = newID
	}
}

func NewGameManager(opts ...GameManagerOption) *GameManager {
	m := &GameManager{
		games: make(map[string]*gameEntry),
		rng:   &lockedShuffler{r: rand.New(rand.NewSource(time.Now().UnixNano()))},
		now:   time.Now,
		newID: func() string {
			return strings.ReplaceAll(uuid.New().String(), "-", "")[:gameIDLength]
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

type CreatedGame struct {
	GameID   string `json:"gameId"`
	JoinLink string `json:"joinLink"`
}

// CreateGame opens a new lobby hosted by host
func (m *GameManager) CreateGame(host string) CreatedGame {
	m.mu.Lock()
	id := m.newID()
	for m.games[id] != nil {
		id = m.newID()
	}
	m.games[id] = &gameEntry{game: mafia.NewGame(id, host, m.now())}
	gamesActive.Set(float64(len(m.games)))
	m.mu.Unlock()

	gamesCreated.Inc()
	phaseTransitions.WithLabelValues(string(mafia.PhaseLobby)).Inc()
	log.Printf("[Game %s] Created by %s", id, host)

	return CreatedGame{
		GameID:   id,
		JoinLink: "/game.html?gameId=" + id,
	}
}

// withGame runs fn while holding the game's lock
func (m *GameManager) withGame(id string, fn func(g *mafia.Game) error) error {
	m.mu.RLock()
	entry, ok := m.games[id]
	m.mu.RUnlock()
	if !ok {
		return ErrGameNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return fn(entry.game)
}

func (m *GameManager) JoinGame(id, username string) (mafia.View, error) {
	var view mafia.View
	err := m.withGame(id, func(g *mafia.Game) error {
		before := g.PlayerCount()
		if err := g.Join(username); err != nil {
			return err
		}
		if g.PlayerCount() > before {
			log.Printf("[Game %s] %s joined. Count: %d", id, username, g.PlayerCount())
		}
		view = g.Project(username)
		return nil
	})
	if err != nil {
		return mafia.View{}, fmt.Errorf("join game %s: %w", id, err)
	}
	return view, nil
}

func (m *GameManager) StartGame(id, username string) (mafia.View, error) {
	var view mafia.View
	err := m.withGame(id, func(g *mafia.Game) error {
		if err := g.Start(username, m.rng, m.now()); err != nil {
			return err
		}
		phaseTransitions.WithLabelValues(string(g.Phase())).Inc()
		log.Printf("[Game %s] Started with %d players", id, g.PlayerCount())
		view = g.Project(username)
		return nil
	})
	if err != nil {
		return mafia.View{}, fmt.Errorf("start game %s: %w", id, err)
	}
	return view, nil
}

func (m *GameManager) GetState(id, username string) (mafia.View, error) {
	var view mafia.View
	err := m.withGame(id, func(g *mafia.Game) error {
		view = g.Project(username)
		return nil
	})
	if err != nil {
		return mafia.View{}, fmt.Errorf("get game %s: %w", id, err)
	}
	return view, nil
}

func (m *GameManager) SubmitMafiaTarget(id, username, target string) error {
	err := m.withGame(id, func(g *mafia.Game) error {
		return g.SubmitMafiaTarget(username, target)
	})
	if err != nil {
		return fmt.Errorf("mafia target in game %s: %w", id, err)
	}
	return nil
}

func (m *GameManager) SubmitDoctorTarget(id, username, target string) error {
	err := m.withGame(id, func(g *mafia.Game) error {
		return g.SubmitDoctorTarget(username, target)
	})
	if err != nil {
		return fmt.Errorf("doctor target in game %s: %w", id, err)
	}
	return nil
}

// SubmitDayVote records username's vote; an empty target withdraws it
func (m *GameManager) SubmitDayVote(id, username, target string) error {
	err := m.withGame(id, func(g *mafia.Game) error {
		return g.SubmitDayVote(username, target)
	})
	if err != nil {
		return fmt.Errorf("day vote in game %s: %w", id, err)
	}
	return nil
}

func (m *GameManager) ResolveNight(id, username string) (mafia.View, error) {
	return m.resolve(id, username, (*mafia.Game).ResolveNight)
}

func (m *GameManager) ResolveDay(id, username string) (mafia.View, error) {
	return m.resolve(id, username, (*mafia.Game).ResolveDay)
}

type resolveFunc func(g *mafia.Game, actor string, now time.Time) (mafia.Resolution, error)

func (m *GameManager) resolve(id, username string, fn resolveFunc) (mafia.View, error) {
	var view mafia.View
	err := m.withGame(id, func(g *mafia.Game) error {
		res, err := fn(g, username, m.now())
		if err != nil {
			return err
		}
		recordResolution(id, res, g.Phase())
		view = g.Project(username)
		return nil
	})
	if err != nil {
		return mafia.View{}, fmt.Errorf("resolve game %s: %w", id, err)
	}
	return view, nil
}

func recordResolution(id string, res mafia.Resolution, entered mafia.Phase) {
	switch {
	case res.Victim != "":
		eliminations.WithLabelValues(string(res.Phase)).Inc()
		log.Printf("[Game %s] %s eliminated during %s", id, res.Victim, res.Phase)
	case res.Saved != "":
		doctorSaves.Inc()
		log.Printf("[Game %s] Doctor saved the mafia's target", id)
	default:
		log.Printf("[Game %s] No one eliminated during %s", id, res.Phase)
	}

	phaseTransitions.WithLabelValues(string(entered)).Inc()
	if res.Ended {
		gamesEnded.WithLabelValues(string(res.Winner)).Inc()
		log.Printf("[Game %s] Ended, %s win", id, res.Winner)
	}
}

type OpenGame struct {
	GameID    string    `json:"gameId"`
	Host      string    `json:"host"`
	Players   int       `json:"players"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListOpenGames returns the games still waiting in the lobby, oldest first
func (m *GameManager) ListOpenGames() []OpenGame {
	m.mu.RLock()
	entries := make([]*gameEntry, 0, len(m.games))
	for _, e := range m.games {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	// Initialize as empty slice so it returns [] instead of null in JSON
	games := make([]OpenGame, 0)
	for _, e := range entries {
		e.mu.Lock()
		if e.game.Phase() == mafia.PhaseLobby {
			games = append(games, OpenGame{
				GameID:    e.game.ID(),
				Host:      e.game.Host(),
				Players:   e.game.PlayerCount(),
				CreatedAt: e.game.CreatedAt(),
			})
		}
		e.mu.Unlock()
	}

	sort.Slice(games, func(i, j int) bool {
		if !games[i].CreatedAt.Equal(games[j].CreatedAt) {
			return games[i].CreatedAt.Before(games[j].CreatedAt)
		}
		return games[i].GameID < games[j].GameID
	})
	return games
}
