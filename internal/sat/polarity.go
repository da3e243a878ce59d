package sat

// applyJeroslowWangPolarity runs a one-shot Jeroslow-Wang tally over the
// original (non-learnt) clauses and overrides each variable's saved
// polarity from the tally. Grounded on cmsat/CalcDefPolars.cpp's
// tallyVotes/tallyVotesBin: every clause casts a vote of weight
// 1/2^(len-1) onto each of its variables, negative occurrences voting
// positive and positive occurrences voting negative, so a variable that
// appears mostly negated across short clauses (positive tally) starts
// decided false and one that appears mostly positive starts decided true
// (the polarity most likely to satisfy those clauses without search). A
// zero tally keeps the default false polarity.
//
// Runs once per Solver, before the first search episode, regardless of
// whether startup simplification is enabled: the vote is a property of the
// original clause set, not of any preprocessing pass.
func (s *Solver) applyJeroslowWangPolarity() {
	n := len(s.removed)
	if n == 0 {
		return
	}
	votes := make([]float64, n)

	for _, b := range s.binaryClauses {
		tallyVote(votes, b[:], 0.5)
	}
	for _, t := range s.ternaryClauses {
		tallyVote(votes, t[:], 0.25)
	}
	for _, ref := range s.constraints {
		cl := s.arena.Get(ref)
		tallyVote(votes, cl.lits, jeroslowWangWeight(cl.Len()))
	}

	for v := 0; v < n; v++ {
		if s.removed[v] != removedNone {
			continue
		}
		s.heuristic.setInitialPolarity(Variable(v), votes[v] < 0)
	}
}

// jeroslowWangWeight returns 1/2^(size-1), saturating to 0 for clauses so
// long the shift would overflow (cryptominisat's own cutoff at size 63).
func jeroslowWangWeight(size int) float64 {
	if size > 63 {
		return 0
	}
	return 1.0 / float64(uint64(1)<<uint(size-1))
}

func tallyVote(votes []float64, lits []Literal, weight float64) {
	for _, l := range lits {
		if l.IsPositive() {
			votes[l.Var()] -= weight
		} else {
			votes[l.Var()] += weight
		}
	}
}
