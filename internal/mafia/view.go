package mafia

import "time"

// PlayerSummary is what everyone may see about a player
type PlayerSummary struct {
	Username string `json:"username"`
	Alive    bool   `json:"alive"`
}

// View is the state of a game as seen by one viewer. Only the viewer's
// own record carries a role.
type View struct {
	ID              string          `json:"id"`
	Host            string          `json:"host"`
	Phase           Phase           `json:"phase"`
	Round           int             `json:"round"`
	LastPhaseChange time.Time       `json:"lastPhaseChange"`
	Me              *Player         `json:"me"`
	Players         []PlayerSummary `json:"players"`
	Winner          Winner          `json:"winner"`
}

// Project builds the view of the game for viewer
func (g *Game) Project(viewer string) View {
	v := View{
		ID:              g.id,
		Host:            g.host,
		Phase:           g.phase,
		Round:           g.round,
		LastPhaseChange: g.lastPhaseChange,
		Players:         make([]PlayerSummary, 0, len(g.players)),
		Winner:          g.winner,
	}
	if me := g.player(viewer); me != nil {
		cp := *me
		v.Me = &cp
	}
	for _, p := range g.players {
		v.Players = append(v.Players, PlayerSummary{Username: p.Username, Alive: p.Alive})
	}
	return v
}
