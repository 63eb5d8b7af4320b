package mafia

// Tally returns the plurality target among the given ballots.
//
// Candidates are ranked in the order they first appear; a later candidate
// only wins with a strictly higher count, so ties go to whoever showed up
// first. An empty input has no winner.
func Tally(targets []string) (string, bool) {
	counts := make(map[string]int, len(targets))
	candidates := make([]string, 0, len(targets))
	for _, t := range targets {
		if _, seen := counts[t]; !seen {
			candidates = append(candidates, t)
		}
		counts[t]++
	}

	winner := ""
	maxVotes := 0
	for _, c := range candidates {
		if counts[c] > maxVotes {
			maxVotes = counts[c]
			winner = c
		}
	}
	return winner, maxVotes > 0
}
