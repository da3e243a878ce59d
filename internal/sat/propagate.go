package sat

// conflictClause identifies, offset-only, the clause that was falsified
// under the current assignment. For binary/ternary conflicts every literal
// of the (implicit) clause is listed explicitly since there is no arena
// body to consult; for long conflicts ref points at the arena clause.
type conflictClause struct {
	kind           reasonKind
	lit1, lit2, lit3 Literal
	ref            ClauseRef
}

// propagate runs BCP to fixpoint over the watched-literal scheme, starting
// from s.qhead, and reports whether a conflict was reached. Our watch
// lists are keyed by the literal whose assignment to True makes some
// clause's watched literal False: a clause watching lits[0] registers
// under lits[0].Opposite() (see watch.go), so "the watch list of ¬p" in
// the spec's algorithmic description is exactly the list stored at index p
// in s.watches once p has been assigned True.
//
// Binary and ternary watchers are resolved inline in O(1) and never move;
// only long watchers may relocate to another literal's list. Propagation
// visits the trail in FIFO order and, within one list, visits entries in
// stored order; both orders are depended upon by tests and are fully
// deterministic for a fixed watch-list order.
func (s *Solver) propagate() (conflictClause, bool) {
	for s.qhead < len(s.trail) {
		p := s.trail[s.qhead]
		s.qhead++
		s.stats.Propagations++

		list := s.watches[p]
		i, j := 0, 0
		for i < len(list) {
			w := list[i]

			switch w.kind {
			case watchBinary:
				switch s.Value(w.other) {
				case True:
					list[j] = w
					i, j = i+1, j+1
				case Unknown:
					s.enqueue(w.other, Reason{kind: reasonBinary, other: p.Opposite()})
					list[j] = w
					i, j = i+1, j+1
				default: // False: conflict, preserve remaining watchers untouched.
					j = keepRest(list, i, j, w)
					s.watches[p] = list[:j]
					return conflictClause{kind: reasonBinary, lit1: p.Opposite(), lit2: w.other}, true
				}

			case watchTernary:
				v1, v2 := s.Value(w.other), s.Value(w.other2)
				switch {
				case v1 == True || v2 == True:
					list[j] = w
					i, j = i+1, j+1
				case v1 == False && v2 == False:
					j = keepRest(list, i, j, w)
					s.watches[p] = list[:j]
					return conflictClause{kind: reasonTernary, lit1: p.Opposite(), lit2: w.other, lit3: w.other2}, true
				case v1 == Unknown && v2 == Unknown:
					list[j] = w
					i, j = i+1, j+1
				default:
					unk, other := w.other2, w.other
					if v1 == Unknown {
						unk, other = w.other, w.other2
					}
					s.enqueue(unk, Reason{kind: reasonTernary, other: p.Opposite(), other2: other})
					list[j] = w
					i, j = i+1, j+1
				}

			case watchLong:
				if s.Value(w.blocker) == True {
					list[j] = w
					i, j = i+1, j+1
					continue
				}

				c := s.arena.Get(w.ref)
				if c.lits[0] == p.Opposite() {
					c.lits[0], c.lits[1] = c.lits[1], c.lits[0]
				}

				if s.Value(c.lits[0]) == True {
					list[j] = watcher{kind: watchLong, ref: w.ref, blocker: c.lits[0], learnt: w.learnt}
					i, j = i+1, j+1
					continue
				}

				moved := false
				for k := 2; k < len(c.lits); k++ {
					if s.Value(c.lits[k]) != False {
						c.lits[1], c.lits[k] = c.lits[k], c.lits[1]
						s.watches[c.lits[1].Opposite()] = append(s.watches[c.lits[1].Opposite()], watcher{
							kind: watchLong, ref: w.ref, blocker: c.lits[0], learnt: w.learnt,
						})
						moved = true
						break
					}
				}
				if moved {
					i++
					continue
				}

				if s.Value(c.lits[0]) == False {
					j = keepRest(list, i, j, watcher{kind: watchLong, ref: w.ref, blocker: c.lits[0], learnt: w.learnt})
					s.watches[p] = list[:j]
					return conflictClause{kind: reasonLong, ref: w.ref}, true
				}
				s.enqueue(c.lits[0], Reason{kind: reasonLong, ref: w.ref})
				list[j] = watcher{kind: watchLong, ref: w.ref, blocker: c.lits[0], learnt: w.learnt}
				i, j = i+1, j+1
			}
		}
		s.watches[p] = list[:j]
	}
	return conflictClause{}, false
}

// keepRest writes w at position j of list and copies every remaining
// not-yet-visited entry (list[i+1:]) right after it, returning the new
// write cursor. Used on the conflict path, where the spec requires the
// remaining watchers to be preserved without rearrangement.
func keepRest(list []watcher, i, j int, w watcher) int {
	list[j] = w
	j++
	n := copy(list[j:], list[i+1:])
	return j + n
}
