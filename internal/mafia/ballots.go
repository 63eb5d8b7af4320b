package mafia

// Ballots records one target per voter for a single phase.
//
// Voters keep the position of their first ballot when they change their
// mind. Retracting drops the voter, so a later ballot goes to the back.
// The zero value is an empty ballot box.
type Ballots struct {
	order  []string
	choice map[string]string
}

// Cast records or overwrites the voter's target
func (b *Ballots) Cast(voter, target string) {
	if b.choice == nil {
		b.choice = make(map[string]string)
	}
	if _, ok := b.choice[voter]; !ok {
		b.order = append(b.order, voter)
	}
	b.choice[voter] = target
}

// Retract removes the voter's ballot, if any
func (b *Ballots) Retract(voter string) {
	if _, ok := b.choice[voter]; !ok {
		return
	}
	delete(b.choice, voter)
	for i, v := range b.order {
		if v == voter {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Targets lists the chosen targets in voter order
func (b *Ballots) Targets() []string {
	targets := make([]string, 0, len(b.order))
	for _, voter := range b.order {
		targets = append(targets, b.choice[voter])
	}
	return targets
}

func (b *Ballots) Reset() {
	b.order = nil
	b.choice = nil
}
