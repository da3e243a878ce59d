package sat

import "testing"

func TestClauseArena_allocateGetFree(t *testing.T) {
	a := NewClauseArena()

	lits := []Literal{PositiveLiteral(0), NegativeLiteral(1), PositiveLiteral(2)}
	ref := a.Allocate(lits, false)

	got := a.Get(ref)
	if got.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", got.Len())
	}
	if got.Learnt() {
		t.Errorf("Learnt() = true, want false")
	}
	for i, l := range lits {
		if got.Lits()[i] != l {
			t.Errorf("Lits()[%d] = %v, want %v", i, got.Lits()[i], l)
		}
	}

	a.Free(ref)
	if a.Len() != 1 {
		t.Errorf("Len() = %d, want 1 (tombstoned, not yet consolidated)", a.Len())
	}

	ref2 := a.Allocate([]Literal{PositiveLiteral(3), PositiveLiteral(4)}, true)
	if ref2 != ref {
		t.Errorf("Allocate() did not reuse the freed slot: got %d, want %d", ref2, ref)
	}
}

func TestClauseArena_consolidateRemapsSurvivors(t *testing.T) {
	a := NewClauseArena()

	r0 := a.Allocate([]Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)
	r1 := a.Allocate([]Literal{PositiveLiteral(2), PositiveLiteral(3)}, false)
	r2 := a.Allocate([]Literal{PositiveLiteral(4), PositiveLiteral(5)}, false)

	a.Free(r1)

	remaps := map[ClauseRef]ClauseRef{}
	a.Consolidate(func(old, new ClauseRef) {
		remaps[old] = new
	})

	if a.Len() != 2 {
		t.Fatalf("Len() after Consolidate = %d, want 2", a.Len())
	}
	if newR2, ok := remaps[r2]; !ok || a.Get(newR2).Lits()[0] != PositiveLiteral(4) {
		t.Errorf("r2 was not correctly remapped: remaps=%v", remaps)
	}
	if _, moved := remaps[r0]; moved {
		t.Errorf("r0 should not have moved (already at offset 0)")
	}
}

func TestClauseArena_shrink(t *testing.T) {
	a := NewClauseArena()
	ref := a.Allocate([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}, false)
	a.Shrink(ref, 2)
	if got := a.Get(ref).Len(); got != 2 {
		t.Errorf("Len() after Shrink = %d, want 2", got)
	}
}
