package sat

// ClauseRef is a compact offset identifying a long clause body owned by a
// ClauseArena. It is only valid for the arena's current generation: once a
// clause is freed the ref must not be dereferenced, and a Consolidate pass
// may renumber every surviving ref.
type ClauseRef int32

// Clause is a long (3+ literal) clause body owned by a ClauseArena. Binary
// and ternary clauses never materialize a Clause: they live only as
// watcher entries (see watch.go).
type Clause struct {
	lits []Literal

	learnt    bool
	glue      int
	activity  float64
	protected bool // pinned against the next reduction pass
	freed     bool // tombstoned, awaiting Consolidate
}

// Lits returns the clause's literals. The first two are always the
// currently watched pair; positions beyond that carry no meaning and may be
// reordered freely by the propagator.
func (c *Clause) Lits() []Literal { return c.lits }

// Len returns the clause's current size.
func (c *Clause) Len() int { return len(c.lits) }

// Learnt reports whether the clause is redundant (derived) rather than an
// original input clause.
func (c *Clause) Learnt() bool { return c.learnt }

// Glue returns the clause's literal-block distance, computed at learning
// time (meaningless for original clauses).
func (c *Clause) Glue() int { return c.glue }
