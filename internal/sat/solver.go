package sat

import (
	"sync/atomic"
	"time"
)

// Solver is a CDCL SAT solver core: clause storage (arena-backed long
// clauses, watcher-only binary/ternary clauses), BCP propagation,
// activity-ordered decisions, 1-UIP conflict analysis with minimisation,
// glue-based restarts, learnt-clause reduction, and a level-0 simplifier.
// Grounded on the teacher's Solver (internal/sat/solver.go), restructured
// around an offset-owning clause arena instead of *Clause pointers and
// split across one file per concern instead of one monolithic solver.go.
type Solver struct {
	cfg Config

	arena   *ClauseArena
	watches watchLists

	assigns   []LBool // indexed by Literal
	varLevel  []int
	varReason []Reason
	removed   []removedTag
	equivRep  []Literal // equivRep[v] == PositiveLiteral(v) means "not replaced"

	trail    []Literal
	trailLim []int
	qhead    int

	constraints    []ClauseRef // original (non-learnt) long clauses
	binaryClauses  [][2]Literal
	ternaryClauses [][3]Literal
	learnts        []ClauseRef

	heuristic *heuristicState
	restart   *restartController

	clauseInc float64

	// Scratch reused across analyze/minimize/simplify calls; see §5's
	// "temporary scratch is owned by the solver" resource rule.
	seen             *ResetSet
	seenLevels       *ResetSet
	tmpLearnt        []Literal
	tmpExplain       []Literal
	tmpExplain2      []Literal
	tmpAnalysisStack []Variable
	tmpMinimizeMarked []Variable
	tmpLitSet        map[Literal]bool

	unsat bool

	polaritySet bool // whether applyJeroslowWangPolarity has already run

	assumptions     []Literal
	nextAssumption  int // index into assumptions not yet pushed as a decision
	assumptionLevel int
	unsatCore       []Literal

	observer Observer
	stats    Stats

	interrupt  *atomic.Bool
	startTime  time.Time
	conflicts0 int64 // Stats.Conflicts snapshot at the start of the current Solve call

	learntLimit int64
}

// NewSolver validates cfg and returns an empty solver (no variables, no
// clauses).
func NewSolver(cfg Config) (*Solver, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		cfg:         cfg,
		arena:       NewClauseArena(),
		watches:     newWatchLists(),
		heuristic:   newHeuristicState(cfg),
		restart:     newRestartController(cfg),
		clauseInc:   1,
		seen:        &ResetSet{},
		seenLevels:  &ResetSet{},
		observer:    noopObserver{},
		tmpLitSet:   make(map[Literal]bool),
		learntLimit: int64(cfg.LearntCleaningFirstThreshold),
	}
	return s, nil
}

// SetObserver installs the proof-hook observer; passing nil restores the
// no-op default.
func (s *Solver) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	s.observer = o
}

// SetInterruptFlag installs a shared flag the search loop polls at clause
// boundaries (top of the search loop, entry to simplification). A nil
// pointer disables cooperative interruption.
func (s *Solver) SetInterruptFlag(flag *atomic.Bool) {
	s.interrupt = flag
}

// Stats returns a snapshot of the running search statistics.
func (s *Solver) Stats() Stats { return s.stats }

// NumVariables reports how many variables have been declared.
func (s *Solver) NumVariables() int { return len(s.removed) }

// AddVariable declares a new variable and returns it.
func (s *Solver) AddVariable() Variable {
	v := Variable(len(s.removed))
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.varLevel = append(s.varLevel, -1)
	s.varReason = append(s.varReason, Reason{kind: reasonDecision})
	s.removed = append(s.removed, removedNone)
	s.equivRep = append(s.equivRep, PositiveLiteral(v))
	s.watches.growBy(2)
	s.seen.Expand()
	s.seenLevels.Expand()
	s.heuristic.addVar()
	return v
}

// AddClause adds an input clause. It may only be called at decision level
// 0. Literals already false under the root-level assignment are dropped; a
// clause already satisfied is dropped; an empty resulting clause marks the
// formula unsatisfiable (sticky: every later AddClause/Solve call is then a
// no-op returning that same verdict).
func (s *Solver) AddClause(lits []Literal) error {
	if s.unsat {
		return newSolverError(KindFormulaUnsat, "AddClause called after formula already proven unsatisfiable")
	}
	if s.decisionLevel() != 0 {
		return newSolverError(KindConfigInvalid, "AddClause called above decision level 0")
	}

	buf := append([]Literal(nil), lits...)
	for i, l := range buf {
		buf[i] = s.canonicalize(l)
	}
	buf = dedupLiterals(buf)

	satisfied := false
	n := 0
	for i := 0; i < len(buf); i++ {
		l := buf[i]
		switch s.Value(l) {
		case True:
			satisfied = true
		case False:
			continue
		default:
			buf[n] = l
			n++
		}
	}
	buf = buf[:n]
	if satisfied {
		return nil
	}
	for i := 0; i < len(buf); i++ {
		for j := i + 1; j < len(buf); j++ {
			if buf[i] == buf[j].Opposite() {
				return nil // tautology
			}
		}
	}

	switch len(buf) {
	case 0:
		s.unsat = true
		return newSolverError(KindFormulaUnsat, "empty clause derived at construction")
	case 1:
		s.enqueueUnitAtRoot(buf[0])
	case 2:
		s.attachBinary(buf[0], buf[1], false)
		s.binaryClauses = append(s.binaryClauses, [2]Literal{buf[0], buf[1]})
	case 3:
		s.attachTernary(buf[0], buf[1], buf[2], false)
		s.ternaryClauses = append(s.ternaryClauses, [3]Literal{buf[0], buf[1], buf[2]})
	default:
		ref := s.arena.Allocate(buf, false)
		s.attachLong(ref)
		s.constraints = append(s.constraints, ref)
	}
	return nil
}

// bumpVarActivity delegates to the decision heuristic.
func (s *Solver) bumpVarActivity(v Variable) { s.heuristic.bump(v) }

// Model returns the value assigned to v by the last Solve call that
// returned StatusSatisfiable. For a variable eliminated by equivalence
// replacement, the value is extended from its representative.
func (s *Solver) Model(v Variable) LBool {
	if s.removed[v] == removedEquivalent {
		rep := s.equivRep[v]
		val := s.VarValue(rep.Var())
		if !rep.IsPositive() {
			val = val.Opposite()
		}
		return val
	}
	return s.VarValue(v)
}

// UnsatCore returns the subset of the assumptions passed to the last Solve
// call that is responsible for a StatusUnsatisfiable verdict reached under
// assumptions. It is empty if the formula is unsatisfiable outright.
func (s *Solver) UnsatCore() []Literal { return s.unsatCore }

func (s *Solver) interrupted() bool {
	return s.interrupt != nil && s.interrupt.Load()
}

func (s *Solver) budgetExhausted() bool {
	if s.cfg.MaxConflicts >= 0 && s.stats.Conflicts-s.conflicts0 >= s.cfg.MaxConflicts {
		return true
	}
	if s.cfg.MaxTime >= 0 && time.Since(s.startTime) >= s.cfg.MaxTime {
		return true
	}
	return false
}

// Solve runs the search loop to completion, interruption, or budget
// exhaustion, optionally under a set of unit assumptions (§4.10). It is
// the core's only entry point that performs search; AddClause only ever
// extends the formula.
func (s *Solver) Solve(assumptions ...Literal) (Status, error) {
	if s.unsat {
		return StatusUnsatisfiable, newSolverError(KindFormulaUnsat, "")
	}

	s.startTime = time.Now()
	s.conflicts0 = s.stats.Conflicts
	s.assumptions = assumptions
	s.nextAssumption = 0
	s.assumptionLevel = 0
	s.unsatCore = nil
	s.backtrackTo(0)

	if s.cfg.EnableJeroslowWang && !s.polaritySet {
		s.applyJeroslowWangPolarity()
		s.polaritySet = true
	}

	if s.cfg.SimplifyAtStartup {
		if err := s.simplify(); err != nil {
			return StatusUnknown, err
		}
		if s.unsat {
			return StatusUnsatisfiable, newSolverError(KindFormulaUnsat, "")
		}
	}

	for {
		if s.interrupted() || s.budgetExhausted() {
			s.backtrackTo(0)
			return StatusUnknown, nil
		}

		if s.decisionLevel() == 0 {
			if err := s.simplify(); err != nil {
				return StatusUnknown, err
			}
			if s.unsat {
				return StatusUnsatisfiable, newSolverError(KindFormulaUnsat, "")
			}
		}

		status, core, err := s.searchEpisode()
		if err != nil {
			return StatusUnknown, err
		}
		switch status {
		case StatusSatisfiable:
			return StatusSatisfiable, nil
		case StatusUnsatisfiable:
			s.unsatCore = core
			if core == nil {
				// Conflict reached independent of any assumption (either
				// none were given, or the conflict predates the first
				// assumption's decision level): the formula itself is
				// unsatisfiable.
				s.unsat = true
				return StatusUnsatisfiable, newSolverError(KindFormulaUnsat, "")
			}
			return StatusUnsatisfiable, newSolverError(KindUnsatUnderAssumptions, "")
		default:
			if s.interrupted() || s.budgetExhausted() {
				s.backtrackTo(0)
				return StatusUnknown, nil
			}
			// Restart requested: loop back to the outer level, which
			// re-simplifies if at level 0 before resuming search.
		}
	}
}

// searchEpisode runs propagate/analyze/decide until a restart is due, a
// verdict is reached, or the loop should yield back to Solve for an
// interrupt/budget check. s.nextAssumption and s.assumptionLevel are
// solver-owned, not local, because a restart returns StatusUnknown and
// Solve re-invokes searchEpisode: the assumptions already pushed as
// decisions survive the restart's backtrackTo(s.assumptionLevel), and
// re-deriving either counter from zero here would reopen a fresh empty
// decision level per already-enqueued assumption on every restart,
// inflating assumptionLevel further each cycle.
func (s *Solver) searchEpisode() (Status, []Literal, error) {
	for {
		if s.interrupted() || s.budgetExhausted() {
			return StatusUnknown, nil, nil
		}

		confl, hasConflict := s.propagate()
		if hasConflict {
			s.stats.Conflicts++
			if s.decisionLevel() <= s.assumptionLevel {
				if s.assumptionLevel == 0 {
					return StatusUnsatisfiable, nil, nil
				}
				return StatusUnsatisfiable, s.assumptionCore(confl), nil
			}

			learnt, bj, glue := s.analyze(confl)
			s.stats.LearntLiterals += int64(len(learnt))
			s.restart.onConflict(glue, len(s.trail))
			s.observer.OnLearnt(learnt, glue)

			s.backtrackTo(bj)
			if bj < s.assumptionLevel {
				// Assumption i sits alone at level i+1: backjumping below the
				// assumption levels undoes every assumption above bj, so they
				// are pushed again starting from index bj.
				s.assumptionLevel = bj
				s.nextAssumption = bj
			}
			s.attachLearnt(learnt, glue)

			s.heuristic.decay()
			s.decayClauseActivity()

			if int64(len(s.learnts)) >= s.learntLimit {
				s.reduceDB()
				s.learntLimit = int64(float64(s.learntLimit) * s.cfg.LearntCleaningGrowth)
			}
			continue
		}

		if s.restart.wantsRestart(len(s.trail)) {
			s.restart.onRestart()
			s.stats.Restarts++
			s.backtrackTo(s.assumptionLevel)
			return StatusUnknown, nil, nil
		}

		if s.nextAssumption < len(s.assumptions) {
			lit := s.assumptions[s.nextAssumption]
			s.nextAssumption++
			s.newDecisionLevel()
			s.assumptionLevel = s.decisionLevel()
			if s.Value(lit) == False {
				core := s.explainAssumptionConflict(lit)
				return StatusUnsatisfiable, core, nil
			}
			if s.Value(lit) == Unknown {
				s.enqueue(lit, Reason{kind: reasonDecision})
			}
			continue
		}

		lit, ok := s.heuristic.pick(s)
		if !ok {
			return StatusSatisfiable, nil, nil
		}
		s.stats.Decisions++
		s.newDecisionLevel()
		s.enqueue(lit, Reason{kind: reasonDecision})
	}
}

// attachLearnt installs a freshly learnt clause (UIP at position 0) and
// asserts it by unit propagation, matching the spec's
// attach_and_enqueue(learnt) step. A unit learnt clause (empty backjump) is
// simply enqueued as a root fact with no clause body.
func (s *Solver) attachLearnt(learnt []Literal, glue int) {
	switch len(learnt) {
	case 1:
		s.enqueue(learnt[0], Reason{kind: reasonRoot})
	case 2:
		s.attachBinary(learnt[0], learnt[1], true)
		s.enqueue(learnt[0], Reason{kind: reasonBinary, other: learnt[1]})
	case 3:
		s.attachTernary(learnt[0], learnt[1], learnt[2], true)
		s.enqueue(learnt[0], Reason{kind: reasonTernary, other: learnt[1], other2: learnt[2]})
	default:
		ref := s.arena.Allocate(learnt, true)
		cl := s.arena.Get(ref)
		cl.glue = glue
		s.attachLong(ref)
		s.learnts = append(s.learnts, ref)
		s.enqueue(learnt[0], Reason{kind: reasonLong, ref: ref})
	}
}

// assumptionCore computes the subset of s.assumptions implicated in a
// conflict reached at or below the assumption level: every trail literal
// reachable from the conflicting clause is walked back through its reason
// until either a level-0 fact (ignored, it holds regardless of
// assumptions) or an assumption decision (recorded) is found.
func (s *Solver) assumptionCore(confl conflictClause) []Literal {
	s.seen.Clear()
	var core []Literal

	var walk func(l Literal)
	walk = func(l Literal) {
		v := l.Var()
		if s.seen.Contains(int(v)) {
			return
		}
		s.seen.Add(int(v))
		if s.levelOf(v) == 0 {
			return
		}
		r := s.varReason[v]
		if r.kind == reasonDecision {
			for _, a := range s.assumptions {
				if a.Var() == v {
					core = append(core, a)
					return
				}
			}
			return
		}
		reasons := append([]Literal(nil), s.explainReason(r, s.tmpExplain)...)
		for _, q := range reasons {
			walk(q)
		}
	}

	conflLits := append([]Literal(nil), s.explainConflict(confl, s.tmpExplain2)...)
	for _, l := range conflLits {
		walk(l)
	}
	return core
}

// explainAssumptionConflict computes, per §4.10, the subset of
// s.assumptions that conflicts when lit was about to be enqueued as an
// assumption while already false: lit itself, plus every assumption-level
// literal reachable by walking reasons back from the trail entry that
// falsified lit. The result is never empty.
func (s *Solver) explainAssumptionConflict(lit Literal) []Literal {
	s.seen.Clear()
	falseLit := lit.Opposite() // currently True on the trail
	core := []Literal{lit}

	var walk func(l Literal)
	walk = func(l Literal) {
		v := l.Var()
		if s.seen.Contains(int(v)) {
			return
		}
		s.seen.Add(int(v))
		r := s.varReason[v]
		switch r.kind {
		case reasonDecision:
			for _, a := range s.assumptions {
				if a.Var() == v {
					core = append(core, a)
					return
				}
			}
		case reasonRoot:
			// Root-level fact, not assumption-dependent.
		default:
			reasons := append([]Literal(nil), s.explainReason(r, s.tmpExplain)...)
			for _, q := range reasons {
				walk(q)
			}
		}
	}
	walk(falseLit)
	return core
}
