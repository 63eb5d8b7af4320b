package mafia

// evaluateWinner decides whether the living roster ends the game.
func (g *Game) evaluateWinner() (Winner, bool) {
	mafiaAlive, othersAlive := 0, 0
	for _, p := range g.players {
		if !p.Alive {
			continue
		}
		if p.Role == RoleMafia {
			mafiaAlive++
		} else {
			othersAlive++
		}
	}

	switch {
	case mafiaAlive == 0:
		return WinnerVillagers, true
	case mafiaAlive >= othersAlive:
		return WinnerMafia, true
	default:
		return WinnerNone, false
	}
}
