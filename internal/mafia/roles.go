package mafia

import "encoding/json"

const (
	// MinPlayers is the smallest roster that can start a game
	MinPlayers = 4

	// MaxPlayers caps the roster in the lobby and at role assignment
	MaxPlayers = 15

	// largeRoster is the roster size above which the mafia grows to three
	largeRoster = 12
)

// Role is the secret identity dealt to a player at the start of the game
type Role string

const (
	RoleNone     Role = ""
	RoleVillager Role = "villager"
	RoleMafia    Role = "mafia"
	RoleDoctor   Role = "doctor"
)

// MarshalJSON encodes an unassigned role as null
func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(r))
}

// Phase is the current stage of a game
type Phase string

const (
	PhaseLobby Phase = "lobby"
	PhaseNight Phase = "night"
	PhaseDay   Phase = "day"
	PhaseEnded Phase = "ended"
)

// Winner names the side that won an ended game
type Winner string

const (
	WinnerNone      Winner = ""
	WinnerVillagers Winner = "villagers"
	WinnerMafia     Winner = "mafia"
)

// MarshalJSON encodes a game without a winner as null
func (w Winner) MarshalJSON() ([]byte, error) {
	if w == WinnerNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(w))
}

// mafiaCount returns how many mafia members a roster of n players gets.
func mafiaCount(n int) int {
	if n > largeRoster {
		return 3
	}
	return 1
}
