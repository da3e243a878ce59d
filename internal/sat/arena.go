package sat

// ClauseArena is the exclusive owner of every long clause's literal body.
// Every other structure (watch lists, trail reasons, the learnt-clause
// index) holds only ClauseRef offsets into it; those references are
// weak, lookup-only, and only the arena may allocate or free the
// underlying storage.
//
// This mirrors the teacher's slice-pool allocators in clause_alloc.go /
// clauses_alloc.go, generalized from "one literal slice per clause, handed
// back to a sync.Pool on free" into "one arena of clause bodies, with
// offsets that can be remapped by Consolidate" as the spec requires —
// pool-style reuse is still where the backing literal slices come from
// (allocLiteralSlice below).
type ClauseArena struct {
	bodies []*Clause
	free   []ClauseRef
}

// NewClauseArena returns an empty arena.
func NewClauseArena() *ClauseArena {
	return &ClauseArena{}
}

// Allocate copies lits into a new arena-owned clause body and returns its
// ref. The caller retains ownership of the lits slice passed in.
func (a *ClauseArena) Allocate(lits []Literal, learnt bool) ClauseRef {
	dst := allocLiteralSlice(len(lits))
	dst = append(dst, lits...)
	c := &Clause{lits: dst, learnt: learnt}

	if n := len(a.free); n > 0 {
		ref := a.free[n-1]
		a.free = a.free[:n-1]
		a.bodies[ref] = c
		return ref
	}
	a.bodies = append(a.bodies, c)
	return ClauseRef(len(a.bodies) - 1)
}

// Get returns the clause body for ref. The returned pointer must not be
// retained across a Free/Consolidate of ref.
func (a *ClauseArena) Get(ref ClauseRef) *Clause {
	return a.bodies[ref]
}

// Free tombstones ref. The offset is invalid from this point; the next
// Allocate call may hand the same offset out again for a new clause.
func (a *ClauseArena) Free(ref ClauseRef) {
	c := a.bodies[ref]
	c.freed = true
	freeLiteralSlice(c.lits)
	a.bodies[ref] = nil
	a.free = append(a.free, ref)
}

// Shrink truncates the clause at ref to newLen literals in place. Growth is
// not supported: callers that need a larger clause must Allocate a new one
// and Free the old.
func (a *ClauseArena) Shrink(ref ClauseRef, newLen int) {
	c := a.bodies[ref]
	if newLen > len(c.lits) {
		panic("sat: arena clause shrink given a larger length")
	}
	c.lits = c.lits[:newLen]
}

// Len reports the number of slots the arena has ever handed out (including
// freed, not-yet-consolidated ones). It is an upper bound on live refs.
func (a *ClauseArena) Len() int { return len(a.bodies) }

// Consolidate compacts the arena, dropping freed bodies and reassigning
// refs so they are contiguous again. For every surviving clause whose ref
// changes, remap is called exactly once, in one pass, before any
// pre-existing ref is read again by the caller.
func (a *ClauseArena) Consolidate(remap func(old, new ClauseRef)) {
	live := a.bodies[:0:0]
	for oldIdx, c := range a.bodies {
		if c == nil {
			continue
		}
		newRef := ClauseRef(len(live))
		live = append(live, c)
		if oldRef := ClauseRef(oldIdx); oldRef != newRef {
			remap(oldRef, newRef)
		}
	}
	a.bodies = live
	a.free = a.free[:0]
}
