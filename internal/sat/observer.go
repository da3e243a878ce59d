package sat

// Observer is the solver's proof hook: an opaque collaborator notified of
// every learnt/freed clause and every simplification-derived fact. It has
// no effect on search; a nil Observer (the default) means no one is
// listening.
type Observer interface {
	// OnLearnt is called whenever a new clause (binary, ternary, or long)
	// is learnt from a conflict, with its literals and its glue.
	OnLearnt(lits []Literal, glue int)
	// OnClauseFreed is called whenever a learnt clause is detached and
	// freed during reduction.
	OnClauseFreed(lits []Literal)
	// OnUnit is called whenever a unit literal is asserted at the root
	// outside of ordinary conflict analysis: a unit clause passed to
	// AddClause, or a unit derived by the simplifier (unit closure or SCC).
	OnUnit(lit Literal)
	// OnEquivalence is called whenever the simplifier determines that lit
	// is equivalent to representative.
	OnEquivalence(lit, representative Literal)
}

// noopObserver is installed by default so the search loop never needs to
// nil-check s.observer.
type noopObserver struct{}

func (noopObserver) OnLearnt([]Literal, int)       {}
func (noopObserver) OnClauseFreed([]Literal)        {}
func (noopObserver) OnUnit(Literal)                 {}
func (noopObserver) OnEquivalence(Literal, Literal) {}
