package mafia

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("game not found")
	ErrUnauthenticated   = errors.New("not authenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrWrongPhase        = errors.New("wrong phase")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrSelfHealExhausted = errors.New("self-heal already used")
	ErrRosterSizeInvalid = fmt.Errorf("players must be between %d and %d to start", MinPlayers, MaxPlayers)
	ErrGameFull          = fmt.Errorf("game is full (max %d)", MaxPlayers)

	// ErrGameNotStartable is returned when joining a game that already left the lobby
	ErrGameNotStartable = fmt.Errorf("%w: game already started", ErrWrongPhase)
)
