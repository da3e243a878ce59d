package sat

// explainConflict returns, in out[:0] reused, the trail literals (i.e.
// already negated, currently True) implicated by the falsified clause c.
func (s *Solver) explainConflict(c conflictClause, out []Literal) []Literal {
	out = out[:0]
	switch c.kind {
	case reasonBinary:
		return append(out, c.lit1.Opposite(), c.lit2.Opposite())
	case reasonTernary:
		return append(out, c.lit1.Opposite(), c.lit2.Opposite(), c.lit3.Opposite())
	default: // reasonLong
		cl := s.arena.Get(c.ref)
		if cl.learnt {
			s.bumpClauseActivity(cl)
		}
		for _, l := range cl.lits {
			out = append(out, l.Opposite())
		}
		return out
	}
}

// explainReason returns, in out[:0] reused, the trail literals implicated
// in forcing the assignment recorded by r (excluding the assigned literal
// itself).
func (s *Solver) explainReason(r Reason, out []Literal) []Literal {
	out = out[:0]
	switch r.kind {
	case reasonBinary:
		return append(out, r.other.Opposite())
	case reasonTernary:
		return append(out, r.other.Opposite(), r.other2.Opposite())
	case reasonLong:
		cl := s.arena.Get(r.ref)
		if cl.learnt {
			s.bumpClauseActivity(cl)
		}
		for _, l := range cl.lits[1:] {
			out = append(out, l.Opposite())
		}
		return out
	default: // reasonDecision, reasonRoot: nothing forced it
		return out
	}
}

// analyze performs first-UIP conflict analysis starting from confl, which
// must have been reached at the current decision level d >= 1. It returns
// the learnt clause (UIP at position 0), the backjump level, and the
// clause's glue (number of distinct decision levels it spans).
func (s *Solver) analyze(confl conflictClause) ([]Literal, int, int) {
	d := s.decisionLevel()
	s.seen.Clear()

	s.tmpLearnt = append(s.tmpLearnt[:0], -1) // reserve slot 0 for the UIP
	nextIdx := len(s.trail) - 1
	pathCount := 0
	backjump := 0

	lits := s.explainConflict(confl, s.tmpExplain)
	for {
		for _, q := range lits {
			v := q.Var()
			if s.seen.Contains(int(v)) {
				continue
			}
			s.seen.Add(int(v))
			s.bumpVarActivity(v)
			if s.levelOf(v) == d {
				pathCount++
				continue
			}
			if s.levelOf(v) > 0 {
				s.tmpLearnt = append(s.tmpLearnt, q.Opposite())
				if lvl := s.levelOf(v); lvl > backjump {
					backjump = lvl
				}
			}
		}

		// Find the next seen trail literal walking backward; it is the
		// next implication node (or the UIP once pathCount drops to 0).
		var uip Literal
		for {
			uip = s.trail[nextIdx]
			nextIdx--
			if s.seen.Contains(int(uip.Var())) {
				break
			}
		}
		pathCount--
		if pathCount == 0 {
			s.tmpLearnt[0] = uip.Opposite()
			break
		}
		lits = s.explainReason(s.varReason[uip.Var()], s.tmpExplain)
	}

	learnt := s.tmpLearnt
	if s.cfg.EnableMinimize {
		learnt = s.minimizeRecursive(learnt)
	}
	if s.cfg.EnableBinaryMinimize {
		learnt = s.minimizeBinary(learnt)
	}
	s.tmpLearnt = learnt

	backjump, glue := backjumpAndGlue(s, learnt)
	return learnt, backjump, glue
}

// backjumpAndGlue recomputes the backjump level (max level among the
// non-UIP literals, 0 if none) and glue (count of distinct levels across
// the whole clause) after minimisation may have dropped literals.
func backjumpAndGlue(s *Solver, learnt []Literal) (int, int) {
	s.seenLevels.Clear()
	glue := 0
	backjump := 0
	for i, l := range learnt {
		lvl := s.levelOf(l.Var())
		if !s.seenLevels.Contains(lvl) {
			s.seenLevels.Add(lvl)
			glue++
		}
		if i > 0 && lvl > backjump {
			backjump = lvl
		}
	}
	return backjump, glue
}

// minimizeRecursive drops a non-UIP literal l from learnt whenever every
// ancestor in its implication reason is already in learnt or at level 0
// (the "self-subsuming" minimisation of §4.6). It reuses the seen bitset
// populated by analyze and an explicit work stack instead of recursion.
func (s *Solver) minimizeRecursive(learnt []Literal) []Literal {
	out := learnt[:1]
	for _, l := range learnt[1:] {
		if s.literalRedundant(l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

// literalRedundant reports whether l (a literal of the tentative learnt
// clause, already marked seen) is implied by literals that are themselves
// all either seen or at level 0. Every learnt literal has level > 0 by
// construction of the main analyze loop, but it may itself be a decision:
// l's own reason is checked first, and a decision is never redundant.
//
// Ancestors marked seen while exploring a chain that turns out to bottom
// out in a bare decision must be unmarked before returning false: seen is
// shared with the rest of analyze's call to minimizeRecursive, and a mark
// left over from an abandoned chain would cause some later, unrelated
// literal to be misjudged redundant on the strength of an ancestor that was
// never actually explained. Marks from a chain that succeeds (returns true)
// stay set, same as the teacher's seen bitset; they are only ever cleared
// in bulk at the top of the next analyze call.
func (s *Solver) literalRedundant(l Literal) bool {
	stack := s.tmpAnalysisStack[:0]
	stack = append(stack, l.Var())

	marked := s.tmpMinimizeMarked[:0]

	for len(stack) > 0 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		r := s.varReason[v]
		if r.kind == reasonDecision {
			s.tmpAnalysisStack = stack
			s.unmarkMinimizeCandidates(marked)
			return false
		}

		for _, a := range s.explainReason(r, s.tmpExplain2) {
			av := a.Var()
			if s.levelOf(av) == 0 || s.seen.Contains(int(av)) {
				continue // root fact, or already accounted for
			}
			if s.varReason[av].kind == reasonDecision {
				s.tmpAnalysisStack = stack
				s.unmarkMinimizeCandidates(marked)
				return false
			}
			s.seen.Add(int(av))
			marked = append(marked, av)
			stack = append(stack, av)
		}
	}
	s.tmpAnalysisStack = stack
	s.tmpMinimizeMarked = marked[:0]
	return true
}

// unmarkMinimizeCandidates reverts every seen bit literalRedundant set
// during a call that ultimately failed, matching reference 1-UIP
// minimisation's truncate-on-failure behaviour (MiniSat's analyze_toclear).
func (s *Solver) unmarkMinimizeCandidates(marked []Variable) {
	for _, v := range marked {
		s.seen.Remove(int(v))
	}
	s.tmpMinimizeMarked = marked[:0]
}

// minimizeBinary drops a non-UIP literal l from learnt if a binary clause
// (¬l ∨ x) exists where x also occurs in learnt and is kept: resolving the
// learnt clause with it on l yields the clause without l. Such binaries
// are the binary watchers stored at index l (see watch.go).
func (s *Solver) minimizeBinary(learnt []Literal) []Literal {
	if len(learnt) <= 1 {
		return learnt
	}
	present := s.tmpLitSet
	for k := range present {
		delete(present, k)
	}
	for _, l := range learnt {
		present[l] = true
	}

	out := learnt[:1]
	for _, l := range learnt[1:] {
		redundant := false
		for _, w := range s.watches[l] {
			if w.kind != watchBinary {
				continue
			}
			if present[w.other] && w.other != l {
				redundant = true
				break
			}
		}
		if redundant {
			delete(present, l)
			continue
		}
		out = append(out, l)
	}
	s.tmpLitSet = present
	return out
}
