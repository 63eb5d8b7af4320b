package mafia

// assignRoles shuffles the roster and deals the mafia block, then one
// doctor, then villagers. The shuffled order becomes the seating order.
func (g *Game) assignRoles(rng Shuffler) error {
	n := len(g.players)
	if n < MinPlayers || n > MaxPlayers {
		return ErrRosterSizeInvalid
	}

	shuffled := make([]*Player, n)
	copy(shuffled, g.players)
	rng.Shuffle(n, func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	mafia := mafiaCount(n)
	for i, p := range shuffled {
		switch {
		case i < mafia:
			p.Role = RoleMafia
		case i == mafia:
			p.Role = RoleDoctor
		default:
			p.Role = RoleVillager
		}
	}

	g.players = shuffled
	return nil
}
