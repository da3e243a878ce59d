package sat

import "github.com/rhartert/yagh"

// clauseInc/clauseDecay mirror the variable-activity bump/decay scheme
// (heuristic.go) applied to long learnt clauses instead of variables: a
// clause used as a conflict-analysis reason is "interesting" and should
// survive reduction passes longer than one that has gone unused.

// bumpClauseActivity increases cl's activity, rescaling every learnt
// clause's activity (and the increment) on overflow, same 1e100 threshold
// as the variable heuristic.
func (s *Solver) bumpClauseActivity(cl *Clause) {
	cl.activity += s.clauseInc
	if cl.activity > 1e100 {
		for _, ref := range s.learnts {
			c := s.arena.Get(ref)
			c.activity *= 1e-100
		}
		s.clauseInc *= 1e-100
	}
}

func (s *Solver) decayClauseActivity() {
	s.clauseInc /= s.cfg.ClauseDecay
}

// reduceDB discards roughly the worse half of the learnt-clause database,
// keeping clauses that are glue <= 2 (binary-like, almost always cheap and
// useful), currently a propagation reason (freeing it would orphan the
// trail entry it justifies), or that rank in the better half by
// activity/glue. Ranking reuses the same yagh.IntMap ordering structure
// the decision heuristic uses for variables (see heuristic.go), keyed here
// by an index into a compacted candidate list rather than by variable.
func (s *Solver) reduceDB() {
	pinned := 0
	candidates := make([]ClauseRef, 0, len(s.learnts))
	for _, ref := range s.learnts {
		cl := s.arena.Get(ref)
		if cl.glue <= 2 || s.isReason(ref) {
			cl.protected = true
			pinned++
			continue
		}
		cl.protected = false
		candidates = append(candidates, ref)
	}

	keep := len(candidates) / 2

	// Score ascending = keep first: lower glue first, and within equal
	// glue, higher activity (so negate activity) sorts first.
	order := yagh.New[float64](len(candidates))
	for i, ref := range candidates {
		cl := s.arena.Get(ref)
		score := float64(cl.glue)*1e18 - cl.activity
		order.Put(i, score)
	}

	kept := make([]ClauseRef, 0, pinned+keep)
	for _, ref := range s.learnts {
		if s.arena.Get(ref).protected {
			kept = append(kept, ref)
		}
	}

	for i := 0; i < keep; i++ {
		idx, ok := order.Pop()
		if !ok {
			break
		}
		kept = append(kept, candidates[idx.Elem])
	}
	for {
		idx, ok := order.Pop()
		if !ok {
			break
		}
		s.detachAndFree(candidates[idx.Elem])
	}

	s.learnts = kept
	s.arena.Consolidate(s.remapRef)
	s.stats.Reductions++
}

// isReason reports whether ref is currently justifying a trail assignment.
// A clause in this state must never be freed: doing so would leave
// analyze() unable to explain that assignment if a later conflict needs to
// walk back through it.
func (s *Solver) isReason(ref ClauseRef) bool {
	cl := s.arena.Get(ref)
	if len(cl.lits) == 0 {
		return false
	}
	v := cl.lits[0].Var()
	r := s.varReason[v]
	return r.kind == reasonLong && r.ref == ref && s.levelOf(v) >= 0
}

// detachAndFree removes ref's watchers and returns its body to the arena.
func (s *Solver) detachAndFree(ref ClauseRef) {
	cl := s.arena.Get(ref)
	if s.observer != nil {
		s.observer.OnClauseFreed(cl.lits)
	}
	s.detachLong(ref)
	s.arena.Free(ref)
}

// remapRef is passed to ClauseArena.Consolidate: it fixes up every
// surviving long-clause watcher, reason, and learnt/original clause index
// entry that pointed at a ref whose offset changed during compaction.
func (s *Solver) remapRef(old, new ClauseRef) {
	// Use old, not new: Consolidate calls remap before it installs the
	// compacted body slice, so new is not yet a valid index into the arena.
	cl := s.arena.Get(old)
	for _, key := range [2]Literal{cl.lits[0].Opposite(), cl.lits[1].Opposite()} {
		list := s.watches[key]
		for i := range list {
			if list[i].kind == watchLong && list[i].ref == old {
				list[i].ref = new
			}
		}
	}
	for v := range s.varReason {
		if s.varReason[v].kind == reasonLong && s.varReason[v].ref == old {
			s.varReason[v].ref = new
		}
	}
	for i, ref := range s.learnts {
		if ref == old {
			s.learnts[i] = new
		}
	}
	for i, ref := range s.constraints {
		if ref == old {
			s.constraints[i] = new
		}
	}
}
