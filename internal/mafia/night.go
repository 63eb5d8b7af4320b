package mafia

import "time"

// Resolution reports what a night or day resolution did
type Resolution struct {
	Phase  Phase  `json:"phase"`
	Victim string `json:"victim,omitempty"`
	Saved  string `json:"saved,omitempty"`
	Ended  bool   `json:"ended"`
	Winner Winner `json:"winner"`
}

// SubmitMafiaTarget records a mafia member's choice of victim for tonight.
// A later submission from the same member replaces the earlier one.
func (g *Game) SubmitMafiaTarget(actor, target string) error {
	if g.phase != PhaseNight {
		return ErrWrongPhase
	}
	me := g.alivePlayer(actor)
	if me == nil || me.Role != RoleMafia {
		return ErrForbidden
	}
	victim := g.alivePlayer(target)
	if victim == nil {
		return ErrInvalidTarget
	}
	g.mafiaTargets.Cast(me.Username, victim.Username)
	return nil
}

// SubmitDoctorTarget shields one living player for tonight.
// Shielding oneself is allowed once per game and is spent on submission.
func (g *Game) SubmitDoctorTarget(actor, target string) error {
	if g.phase != PhaseNight {
		return ErrWrongPhase
	}
	me := g.alivePlayer(actor)
	if me == nil || me.Role != RoleDoctor {
		return ErrForbidden
	}
	if target == me.Username && me.SelfHealUsed {
		return ErrSelfHealExhausted
	}
	patient := g.alivePlayer(target)
	if patient == nil {
		return ErrInvalidTarget
	}
	g.doctorTarget = patient.Username
	if patient == me {
		me.SelfHealUsed = true
	}
	return nil
}

// ResolveNight applies the mafia's plurality choice unless the doctor
// shielded that player, then either ends the game or moves to day.
func (g *Game) ResolveNight(actor string, now time.Time) (Resolution, error) {
	if actor != g.host {
		return Resolution{}, ErrForbidden
	}
	if g.phase != PhaseNight {
		return Resolution{}, ErrWrongPhase
	}

	res := Resolution{Phase: PhaseNight}
	if chosen, ok := Tally(g.mafiaTargets.Targets()); ok {
		if chosen == g.doctorTarget {
			res.Saved = chosen
		} else if victim := g.player(chosen); victim != nil {
			victim.Alive = false
			res.Victim = victim.Username
		}
	}

	g.finish(&res, PhaseDay, now)
	return res, nil
}

// finish runs the win check and moves to next, or ends the game.
func (g *Game) finish(res *Resolution, next Phase, now time.Time) {
	if winner, ended := g.evaluateWinner(); ended {
		g.winner = winner
		g.enterPhase(PhaseEnded, now)
		res.Ended = true
		res.Winner = winner
		return
	}
	g.enterPhase(next, now)
}
