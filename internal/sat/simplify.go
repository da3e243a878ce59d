package sat

// simplify runs the preprocessing pipeline (C9) to a fixpoint: unit
// propagation closure at level 0, equivalent-literal replacement via SCC
// over the binary implication graph, and subsumption / self-subsuming
// resolution over the original (non-learnt) clauses. It must only be
// called at decision level 0. A shared "bogo-props" counter bounds total
// work so a pathological instance cannot make preprocessing itself take
// longer than the search it is meant to speed up; when the budget runs
// out mid-pass, simplify stops cleanly at the next safe boundary rather
// than leaving a half-rewritten clause behind.
func (s *Solver) simplify() error {
	if s.decisionLevel() != 0 {
		return newSolverError(KindConfigInvalid, "simplify called above decision level 0")
	}

	budget := s.cfg.SimplifyBudget
	for {
		if _, conflict := s.propagate(); conflict {
			s.unsat = true
			return nil
		}

		changed := false
		if s.cfg.EnableSCC {
			c, spent := s.replaceEquivalences(budget)
			budget -= spent
			changed = changed || c
			if s.unsat {
				return nil
			}
		}
		if budget <= 0 {
			break
		}
		if s.cfg.EnableSubsumption {
			c, spent := s.subsumeOriginals(budget)
			budget -= spent
			changed = changed || c
			if s.unsat {
				return nil
			}
		}
		if !changed || budget <= 0 {
			break
		}
	}
	s.stats.Simplifications++
	return nil
}

// canonicalize follows l's equivalence-class representative, if any. Every
// literal of every clause added after equivalences are discovered should be
// routed through this before being attached.
func (s *Solver) canonicalize(l Literal) Literal {
	rep := s.equivRep[l.Var()]
	if rep == PositiveLiteral(l.Var()) {
		return l
	}
	if l.IsPositive() {
		return rep
	}
	return rep.Opposite()
}

// replaceEquivalences finds literal equivalence classes via Tarjan's SCC
// algorithm over the binary implication graph (an edge ¬a -> b for every
// binary clause (a ∨ b), since asserting ¬a forces b), picks one
// representative literal per class, rewrites every original clause to use
// representatives in place of eliminated literals, and marks the
// eliminated variables so the decision heuristic and model-extension code
// skip them. Grounded on the teacher's watch-list-only binary clause
// storage: the implication graph is read directly off s.watches rather
// than a separately maintained adjacency list.
func (s *Solver) replaceEquivalences(budget int64) (changed bool, spent int64) {
	n := len(s.equivRep)
	if n == 0 {
		return false, 0
	}

	idx := make([]int, 2*n)
	low := make([]int, 2*n)
	onStk := make([]bool, 2*n)
	comp := make([]int, 2*n)
	for i := range idx {
		idx[i] = -1
		comp[i] = -1
	}
	var stack []int
	var tstack []int // Tarjan work stack, literal indices
	next := 0
	nComp := 0

	litIndex := func(l Literal) int { return int(l) }

	var strongconnect func(v int)
	strongconnect = func(v int) {
		idx[v] = next
		low[v] = next
		next++
		tstack = append(tstack, v)
		onStk[v] = true
		stack = append(stack, v)

		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			l := Literal(cur)
			spent++
			advanced := false
			for _, w := range s.watches[l] {
				if w.kind != watchBinary {
					continue
				}
				to := litIndex(w.other)
				if idx[to] == -1 {
					idx[to] = next
					low[to] = next
					next++
					tstack = append(tstack, to)
					onStk[to] = true
					stack = append(stack, to)
					advanced = true
					break
				} else if onStk[to] && low[to] < low[cur] {
					low[cur] = low[to]
				}
			}
			if advanced {
				continue
			}
			stack = stack[:len(stack)-1]
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				if low[cur] < low[parent] {
					low[parent] = low[cur]
				}
			}
			if low[cur] == idx[cur] {
				for {
					w := tstack[len(tstack)-1]
					tstack = tstack[:len(tstack)-1]
					onStk[w] = false
					comp[w] = nComp
					if w == cur {
						break
					}
				}
				nComp++
			}
		}
	}

	for v := 0; v < n; v++ {
		for _, l := range [2]Literal{PositiveLiteral(Variable(v)), NegativeLiteral(Variable(v))} {
			if idx[litIndex(l)] == -1 {
				strongconnect(litIndex(l))
			}
			if spent > budget {
				return changed, spent
			}
		}
	}

	for v := 0; v < n; v++ {
		p, neg := litIndex(PositiveLiteral(Variable(v))), litIndex(NegativeLiteral(Variable(v)))
		if comp[p] == comp[neg] {
			// a ≡ ¬a under unit propagation: the formula is unsatisfiable.
			s.unsat = true
			return true, spent
		}
	}

	repOf := make(map[int]Literal, nComp)
	for v := 0; v < n; v++ {
		if s.removed[v] != removedNone {
			continue
		}
		for _, l := range [2]Literal{PositiveLiteral(Variable(v)), NegativeLiteral(Variable(v))} {
			c := comp[litIndex(l)]
			if r, ok := repOf[c]; !ok || int(l) < int(r) {
				repOf[c] = l
			}
		}
	}

	for v := 0; v < n; v++ {
		if s.removed[v] != removedNone || s.VarValue(Variable(v)) != Unknown {
			continue
		}
		pos := PositiveLiteral(Variable(v))
		rep := repOf[comp[litIndex(pos)]]
		if rep.Var() == Variable(v) {
			continue // v is its own class representative
		}
		s.equivRep[v] = rep
		s.removed[v] = removedEquivalent
		s.heuristic.setEligible(Variable(v), false)
		if s.observer != nil {
			s.observer.OnEquivalence(pos, rep)
		}
		changed = true
	}

	if changed {
		s.rewriteOriginalClauses()
	}
	return changed, spent
}

// rewriteOriginalClauses applies canonicalize to every literal of every
// original clause, drops clauses that became tautological, and re-attaches
// binary/ternary clauses whose watched pair changed. Long clauses are
// rewritten in place in the arena (their length can only shrink, which
// Shrink supports) and reattached if their watched pair moved.
func (s *Solver) rewriteOriginalClauses() {
	kept := s.binaryClauses[:0]
	for _, b := range s.binaryClauses {
		a, c := s.canonicalize(b[0]), s.canonicalize(b[1])
		s.detachBinary(b[0], b[1])
		if a == c.Opposite() {
			continue // tautology, a ∨ ¬a
		}
		if a == c {
			s.enqueueUnitAtRoot(a)
			continue
		}
		s.attachBinary(a, c, false)
		kept = append(kept, [2]Literal{a, c})
	}
	s.binaryClauses = kept

	keptT := s.ternaryClauses[:0]
	for _, t := range s.ternaryClauses {
		a, b, c := s.canonicalize(t[0]), s.canonicalize(t[1]), s.canonicalize(t[2])
		s.detachTernary(t[0], t[1], t[2])
		if a == b.Opposite() || a == c.Opposite() || b == c.Opposite() {
			continue
		}
		if a == b {
			b = c
			c = Literal(0)
		}
		if a == c {
			c = Literal(0)
		}
		if c == 0 {
			s.attachBinary(a, b, false)
			s.binaryClauses = append(s.binaryClauses, [2]Literal{a, b})
			continue
		}
		s.attachTernary(a, b, c, false)
		keptT = append(keptT, [3]Literal{a, b, c})
	}
	s.ternaryClauses = keptT

	keptL := s.constraints[:0]
	for _, ref := range s.constraints {
		cl := s.arena.Get(ref)
		old0, old1 := cl.lits[0], cl.lits[1]

		n := 0
		tautology := false
		for _, l := range cl.lits {
			cl.lits[n] = s.canonicalize(l)
			n++
		}
		cl.lits = dedupLiterals(cl.lits[:n])
		for i := 0; i < len(cl.lits) && !tautology; i++ {
			for j := i + 1; j < len(cl.lits); j++ {
				if cl.lits[i] == cl.lits[j].Opposite() {
					tautology = true
					break
				}
			}
		}
		if tautology {
			s.detachLong(ref)
			s.arena.Free(ref)
			continue
		}
		if cl.lits[0] != old0 || cl.lits[1] != old1 {
			s.watches[old0.Opposite()] = removeWatcher(s.watches[old0.Opposite()], func(w watcher) bool {
				return w.kind == watchLong && w.ref == ref
			})
			s.watches[old1.Opposite()] = removeWatcher(s.watches[old1.Opposite()], func(w watcher) bool {
				return w.kind == watchLong && w.ref == ref
			})
			s.attachLong(ref)
		}
		keptL = append(keptL, ref)
	}
	s.constraints = keptL
}

// dedupLiterals removes duplicate literals in place, preserving order of
// first occurrence.
func dedupLiterals(lits []Literal) []Literal {
	n := 0
	for i, l := range lits {
		dup := false
		for j := 0; j < n; j++ {
			if lits[j] == l {
				dup = true
				break
			}
		}
		if !dup {
			lits[n] = lits[i]
			n++
		}
	}
	return lits[:n]
}

// enqueueUnitAtRoot asserts lit as a level-0 fact discovered by
// simplification (an original binary/ternary clause collapsed to a unit
// once its literals were canonicalized).
func (s *Solver) enqueueUnitAtRoot(lit Literal) {
	if s.Value(lit) == False {
		s.unsat = true
		return
	}
	if s.Value(lit) == Unknown {
		s.enqueue(lit, Reason{kind: reasonRoot})
		if s.observer != nil {
			s.observer.OnUnit(lit)
		}
	}
}

// clauseAbstraction returns a 64-bit signature of lits, used to cheaply
// rule out subset/self-subsumption candidates before a literal-by-literal
// check: if sig(a) &^ sig(b) != 0 then a cannot be a subset of b.
func clauseAbstraction(lits []Literal) uint64 {
	var sig uint64
	for _, l := range lits {
		sig |= 1 << (uint(l.Var()) & 63)
	}
	return sig
}

// subsumeOriginals performs one occurrence-list pass of subsumption and
// self-subsuming resolution over the original (non-learnt) clauses: a
// clause C1 removes C2 if C1 ⊆ C2, and shrinks C2 by one literal if C1 ⊆
// (C2 with exactly one literal's polarity flipped). Learnt clauses are
// left untouched here; reduceDB already prunes them by glue/activity, and
// subsuming against the (much larger, constantly churning) learnt
// database would spend most of the budget on clauses likely to be thrown
// away anyway.
func (s *Solver) subsumeOriginals(budget int64) (changed bool, spent int64) {
	type entry struct {
		lits []Literal
		sig  uint64
	}
	all := make([]entry, 0, len(s.binaryClauses)+len(s.ternaryClauses)+len(s.constraints))
	for _, b := range s.binaryClauses {
		lits := []Literal{b[0], b[1]}
		all = append(all, entry{lits, clauseAbstraction(lits)})
	}
	for _, t := range s.ternaryClauses {
		lits := []Literal{t[0], t[1], t[2]}
		all = append(all, entry{lits, clauseAbstraction(lits)})
	}
	for _, ref := range s.constraints {
		lits := s.arena.Get(ref).lits
		all = append(all, entry{lits, clauseAbstraction(lits)})
	}

	occ := make(map[Literal][]int)
	for i, e := range all {
		for _, l := range e.lits {
			occ[l] = append(occ[l], i)
		}
	}

	removed := make(map[int]bool)
	for i, e := range all {
		if removed[i] || len(e.lits) == 0 {
			continue
		}
		pivot := e.lits[0]
		for _, l := range e.lits {
			if len(occ[l]) < len(occ[pivot]) {
				pivot = l
			}
		}
		for _, j := range occ[pivot] {
			spent++
			if spent > budget {
				return changed, spent
			}
			if i == j || removed[j] || len(all[j].lits) <= len(e.lits) {
				continue
			}
			if e.sig&^all[j].sig != 0 {
				continue
			}
			if extra, ok := subsumesOrSelfSubsumes(e.lits, all[j].lits); ok {
				if extra == 0 {
					removed[j] = true
					changed = true
				} else {
					all[j].lits = removeLiteral(all[j].lits, extra)
					all[j].sig = clauseAbstraction(all[j].lits)
					changed = true
				}
			}
		}
	}
	if !changed {
		return false, spent
	}

	// Rewrite s.binaryClauses/ternaryClauses/constraints from the surviving
	// (possibly shrunk) entries, reattaching watchers as needed.
	idx := 0
	newBinary := s.binaryClauses[:0]
	for range s.binaryClauses {
		e := all[idx]
		idx++
		if removed[idx-1] {
			continue
		}
		if len(e.lits) == 1 {
			s.enqueueUnitAtRoot(e.lits[0])
			continue
		}
		newBinary = append(newBinary, [2]Literal{e.lits[0], e.lits[1]})
	}
	s.binaryClauses = newBinary

	newTernary := s.ternaryClauses[:0]
	for range s.ternaryClauses {
		e := all[idx]
		idx++
		if removed[idx-1] {
			continue
		}
		switch len(e.lits) {
		case 1:
			s.enqueueUnitAtRoot(e.lits[0])
		case 2:
			s.binaryClauses = append(s.binaryClauses, [2]Literal{e.lits[0], e.lits[1]})
		default:
			newTernary = append(newTernary, [3]Literal{e.lits[0], e.lits[1], e.lits[2]})
		}
	}
	s.ternaryClauses = newTernary

	newLong := s.constraints[:0]
	for _, ref := range s.constraints {
		e := all[idx]
		idx++
		if removed[idx-1] {
			s.detachLong(ref)
			s.arena.Free(ref)
			continue
		}
		cl := s.arena.Get(ref)
		if len(e.lits) != cl.Len() {
			s.detachLong(ref)
			copy(cl.lits, e.lits)
			s.arena.Shrink(ref, len(e.lits))
		}
		switch len(e.lits) {
		case 1:
			s.enqueueUnitAtRoot(e.lits[0])
			s.arena.Free(ref)
		case 2:
			s.binaryClauses = append(s.binaryClauses, [2]Literal{e.lits[0], e.lits[1]})
			s.arena.Free(ref)
		default:
			s.attachLong(ref)
			newLong = append(newLong, ref)
		}
	}
	s.constraints = newLong

	// Detach/reattach for binary/ternary clauses whose literal sets were
	// not touched above happens implicitly: shrink-only edits to long
	// clauses call attachLong unconditionally, and unshrunk binary/ternary
	// entries were never detached, so nothing further to do.
	return changed, spent
}

// subsumesOrSelfSubsumes reports whether small ⊆ big (extra==0, big should
// be dropped entirely) or small ⊆ (big with exactly one literal's polarity
// flipped (extra is that literal of big, to be dropped from big).
func subsumesOrSelfSubsumes(small, big []Literal) (extra Literal, ok bool) {
	flips := 0
	var flipped Literal
	for _, l := range small {
		found := false
		for _, b := range big {
			if l == b {
				found = true
				break
			}
			if l == b.Opposite() {
				found = true
				flips++
				flipped = b
			}
		}
		if !found {
			return 0, false
		}
	}
	if flips == 0 {
		return 0, true
	}
	if flips == 1 {
		return flipped, true
	}
	return 0, false
}

func removeLiteral(lits []Literal, l Literal) []Literal {
	out := lits[:0]
	for _, x := range lits {
		if x != l {
			out = append(out, x)
		}
	}
	return out
}
