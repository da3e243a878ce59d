package sat

// watchKind tags the variant a watcher carries. Kept as a small tagged
// union (matching the teacher's general style of plain structs dispatched
// by field rather than an interface hierarchy) so the propagation hot loop
// is a switch over 3 cases instead of a virtual call.
type watchKind uint8

const (
	watchBinary watchKind = iota
	watchTernary
	watchLong
)

// watcher is one entry in the watch list of some literal l, meaning "some
// clause needs re-examining when l becomes true".
type watcher struct {
	kind watchKind

	// Binary: the clause is implicitly (¬l ∨ other). Ternary: the clause is
	// implicitly (¬l ∨ other ∨ other2).
	other  Literal
	other2 Literal

	// Long: ref identifies the arena clause; blocker is a non-watched
	// literal that, if already true, lets the propagator skip loading the
	// clause body entirely.
	ref     ClauseRef
	blocker Literal

	learnt bool
}

// watchLists holds, for every literal, the ordered sequence of watchers
// registered against it.
type watchLists [][]watcher

func newWatchLists() watchLists {
	return watchLists{}
}

func (w *watchLists) growBy(n int) {
	for i := 0; i < n; i++ {
		*w = append(*w, nil)
	}
}

// removeWatcher deletes every watcher in list matching pred, using the
// canonical two-cursor copy-through/truncate pattern.
func removeWatcher(list []watcher, pred func(watcher) bool) []watcher {
	j := 0
	for i := 0; i < len(list); i++ {
		if pred(list[i]) {
			continue
		}
		list[j] = list[i]
		j++
	}
	return list[:j]
}

// attachBinary registers the implicit binary clause (l1 ∨ l2) in the watch
// lists of both of its negated literals, maintaining the symmetric-pair
// invariant.
func (s *Solver) attachBinary(l1, l2 Literal, learnt bool) {
	s.watches[l1.Opposite()] = append(s.watches[l1.Opposite()], watcher{
		kind: watchBinary, other: l2, learnt: learnt,
	})
	s.watches[l2.Opposite()] = append(s.watches[l2.Opposite()], watcher{
		kind: watchBinary, other: l1, learnt: learnt,
	})
}

func (s *Solver) detachBinary(l1, l2 Literal) {
	s.watches[l1.Opposite()] = removeWatcher(s.watches[l1.Opposite()], func(w watcher) bool {
		return w.kind == watchBinary && w.other == l2
	})
	s.watches[l2.Opposite()] = removeWatcher(s.watches[l2.Opposite()], func(w watcher) bool {
		return w.kind == watchBinary && w.other == l1
	})
}

// attachTernary registers the implicit ternary clause (l1 ∨ l2 ∨ l3) in the
// watch lists of all three negated literals.
func (s *Solver) attachTernary(l1, l2, l3 Literal, learnt bool) {
	s.watches[l1.Opposite()] = append(s.watches[l1.Opposite()], watcher{
		kind: watchTernary, other: l2, other2: l3, learnt: learnt,
	})
	s.watches[l2.Opposite()] = append(s.watches[l2.Opposite()], watcher{
		kind: watchTernary, other: l1, other2: l3, learnt: learnt,
	})
	s.watches[l3.Opposite()] = append(s.watches[l3.Opposite()], watcher{
		kind: watchTernary, other: l1, other2: l2, learnt: learnt,
	})
}

func (s *Solver) detachTernary(l1, l2, l3 Literal) {
	match := func(a, b Literal) func(watcher) bool {
		return func(w watcher) bool {
			return w.kind == watchTernary &&
				((w.other == a && w.other2 == b) || (w.other == b && w.other2 == a))
		}
	}
	s.watches[l1.Opposite()] = removeWatcher(s.watches[l1.Opposite()], match(l2, l3))
	s.watches[l2.Opposite()] = removeWatcher(s.watches[l2.Opposite()], match(l1, l3))
	s.watches[l3.Opposite()] = removeWatcher(s.watches[l3.Opposite()], match(l1, l2))
}

// attachLong registers the long clause at ref in the watch lists of the
// negations of its first two literals (its watched pair).
func (s *Solver) attachLong(ref ClauseRef) {
	c := s.arena.Get(ref)
	blocker0, blocker1 := c.lits[1], c.lits[0]
	if len(c.lits) > 2 {
		blocker0, blocker1 = c.lits[2], c.lits[2]
	}
	s.watches[c.lits[0].Opposite()] = append(s.watches[c.lits[0].Opposite()], watcher{
		kind: watchLong, ref: ref, blocker: blocker0, learnt: c.learnt,
	})
	s.watches[c.lits[1].Opposite()] = append(s.watches[c.lits[1].Opposite()], watcher{
		kind: watchLong, ref: ref, blocker: blocker1, learnt: c.learnt,
	})
}

func (s *Solver) detachLong(ref ClauseRef) {
	c := s.arena.Get(ref)
	s.watches[c.lits[0].Opposite()] = removeWatcher(s.watches[c.lits[0].Opposite()], func(w watcher) bool {
		return w.kind == watchLong && w.ref == ref
	})
	s.watches[c.lits[1].Opposite()] = removeWatcher(s.watches[c.lits[1].Opposite()], func(w watcher) bool {
		return w.kind == watchLong && w.ref == ref
	})
}
