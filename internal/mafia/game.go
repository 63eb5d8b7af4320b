// Package mafia implements the rules engine of the Mafia party game:
// roster management, role dealing, the night/day cycle, vote tallies
// and win detection.
//
// A Game is not safe for concurrent use; callers serialize access per game.
package mafia

import "time"

// Player is one participant of a single game
type Player struct {
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Alive        bool   `json:"alive"`
	SelfHealUsed bool   `json:"selfHealUsed"`
}

// Game holds the state of one match from lobby to the end
type Game struct {
	id      string
	host    string
	phase   Phase
	players []*Player
	winner  Winner
	round   int

	mafiaTargets Ballots
	doctorTarget string
	dayVotes     Ballots

	createdAt       time.Time
	lastPhaseChange time.Time
}

// Shuffler permutes n elements in place. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewGame opens a lobby with the host already seated
func NewGame(id, host string, now time.Time) *Game {
	return &Game{
		id:              id,
		host:            host,
		phase:           PhaseLobby,
		players:         []*Player{{Username: host, Alive: true}},
		createdAt:       now,
		lastPhaseChange: now,
	}
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) Host() string {
	return g.host
}

func (g *Game) Phase() Phase {
	return g.phase
}

func (g *Game) Winner() Winner {
	return g.winner
}

func (g *Game) Round() int {
	return g.round
}

func (g *Game) CreatedAt() time.Time {
	return g.createdAt
}

func (g *Game) LastPhaseChange() time.Time {
	return g.lastPhaseChange
}

func (g *Game) PlayerCount() int {
	return len(g.players)
}

// Players returns a copy of the roster in seating order
func (g *Game) Players() []Player {
	out := make([]Player, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, *p)
	}
	return out
}

// DoctorTarget returns the player the doctor is shielding tonight
func (g *Game) DoctorTarget() (string, bool) {
	return g.doctorTarget, g.doctorTarget != ""
}

// MafiaTargets lists tonight's mafia ballots in voter order
func (g *Game) MafiaTargets() []string {
	return g.mafiaTargets.Targets()
}

// DayVotes lists today's ballots in voter order
func (g *Game) DayVotes() []string {
	return g.dayVotes.Targets()
}

func (g *Game) player(username string) *Player {
	for _, p := range g.players {
		if p.Username == username {
			return p
		}
	}
	return nil
}

func (g *Game) alivePlayer(username string) *Player {
	p := g.player(username)
	if p == nil || !p.Alive {
		return nil
	}
	return p
}

// Join seats a player in the lobby. Joining twice is a no-op.
func (g *Game) Join(username string) error {
	if g.phase != PhaseLobby {
		return ErrGameNotStartable
	}
	if g.player(username) != nil {
		return nil
	}
	if len(g.players) >= MaxPlayers {
		return ErrGameFull
	}
	g.players = append(g.players, &Player{Username: username, Alive: true})
	return nil
}

// Start deals roles and moves the lobby into the first night
func (g *Game) Start(actor string, rng Shuffler, now time.Time) error {
	if actor != g.host {
		return ErrForbidden
	}
	if g.phase != PhaseLobby {
		return ErrWrongPhase
	}
	if err := g.assignRoles(rng); err != nil {
		return err
	}
	g.enterPhase(PhaseNight, now)
	return nil
}

// enterPhase switches phase and wipes every phase-scoped ballot.
func (g *Game) enterPhase(phase Phase, now time.Time) {
	g.phase = phase
	g.mafiaTargets.Reset()
	g.doctorTarget = ""
	g.dayVotes.Reset()
	g.lastPhaseChange = now
	if phase == PhaseNight {
		g.round++
	}
}
