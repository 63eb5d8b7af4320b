package mafia

import "time"

// SubmitDayVote records a living player's accusation. An empty target
// withdraws the player's current vote.
func (g *Game) SubmitDayVote(actor, target string) error {
	if g.phase != PhaseDay {
		return ErrWrongPhase
	}
	me := g.alivePlayer(actor)
	if me == nil {
		return ErrForbidden
	}
	if target == "" {
		g.dayVotes.Retract(me.Username)
		return nil
	}
	accused := g.alivePlayer(target)
	if accused == nil {
		return ErrInvalidTarget
	}
	g.dayVotes.Cast(me.Username, accused.Username)
	return nil
}

// ResolveDay eliminates the plurality choice of the town, then either
// ends the game or moves to the next night.
func (g *Game) ResolveDay(actor string, now time.Time) (Resolution, error) {
	if actor != g.host {
		return Resolution{}, ErrForbidden
	}
	if g.phase != PhaseDay {
		return Resolution{}, ErrWrongPhase
	}

	res := Resolution{Phase: PhaseDay}
	if chosen, ok := Tally(g.dayVotes.Targets()); ok {
		if victim := g.player(chosen); victim != nil {
			victim.Alive = false
			res.Victim = victim.Username
		}
	}

	g.finish(&res, PhaseNight, now)
	return res, nil
}
