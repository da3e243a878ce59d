package sat

import (
	"math/bits"
	"sync"
)

// Number of size-class slice pools backing arena clause bodies.
const nPools = 4

// The minimum capacity for slices in the last pool.
const lastCapa = 1 << nPools

// Pools of slices with different capacities so that pool i contains slices
// with a capacity between 2^(i+1) and 2^(i+2)-1 inclusive. The last pool k
// contains slices with a capacity of at least 2^(k+1).
//
// Grounded on the teacher's clauses_alloc.go, which sized clause-literal
// backing slices the same way; reused here as the arena's allocation
// strategy for long-clause bodies (ClauseArena.Allocate / Free) instead of
// backing per-clause-owned slices directly.
var pools = [nPools]sync.Pool{}

func init() {
	for i := 0; i < nPools; i++ {
		capa := 1 << (i + 1)
		pools[i].New = func() any {
			s := make([]Literal, 0, capa)
			return &s
		}
	}
}

// pid returns the ID of the pool responsible for a slice of the given
// capacity.
func pid(capa int) int {
	if capa >= lastCapa {
		return nPools - 1
	}
	id := bits.Len(uint(capa)) - 2
	if capa < (1 << id) {
		id--
	}
	return id
}

// allocLiteralSlice returns an empty slice with at least the requested
// capacity, reused from a size-class pool where possible.
func allocLiteralSlice(capa int) []Literal {
	ref := pools[pid(capa)].Get().(*[]Literal)
	s := *ref
	if cap(s) < capa {
		s = make([]Literal, 0, capa)
	}
	return s[:0]
}

// freeLiteralSlice returns s to the pool matching its capacity so it can be
// handed out again by allocLiteralSlice.
func freeLiteralSlice(s []Literal) {
	s = s[:0]
	pools[pid(cap(s))].Put(&s)
}
