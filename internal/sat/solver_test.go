package sat

import (
	"math/rand/v2"
	"testing"
)

// lits builds a clause from signed 1-based DIMACS-style integers, e.g.
// lits(1, -2, 3) is the clause (x0 ∨ ¬x1 ∨ x2).
func lits(xs ...int) []Literal {
	out := make([]Literal, len(xs))
	for i, x := range xs {
		out[i] = litFromDIMACS(x)
	}
	return out
}

func newTestSolver(t *testing.T, nVars int) *Solver {
	t.Helper()
	s, err := NewSolver(DefaultConfig)
	if err != nil {
		t.Fatalf("NewSolver(): %s", err)
	}
	for i := 0; i < nVars; i++ {
		s.AddVariable()
	}
	return s
}

// checkModel reports every clause (as signed-int form) that evaluates to
// false under s's current model, matching §8's "model checking" property.
func checkModel(t *testing.T, s *Solver, clauses [][]int) {
	t.Helper()
	for _, c := range clauses {
		satisfied := false
		for _, x := range c {
			l := litFromDIMACS(x)
			v := s.Model(l.Var())
			if (l.IsPositive() && v == True) || (!l.IsPositive() && v == False) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			t.Errorf("clause %v not satisfied by model", c)
		}
	}
}

func TestSolve_twoClauseSat(t *testing.T) {
	// p cnf 2 2 / 1 2 0 / -1 -2 0
	s := newTestSolver(t, 2)
	mustAddClause(t, s, lits(1, 2))
	mustAddClause(t, s, lits(-1, -2))

	status, err := s.Solve()
	if status != StatusSatisfiable {
		t.Fatalf("Solve() = %v, %v; want Satisfiable", status, err)
	}
	checkModel(t, s, [][]int{{1, 2}, {-1, -2}})
}

func TestSolve_unitConflictUnsat(t *testing.T) {
	// p cnf 1 2 / 1 0 / -1 0
	s := newTestSolver(t, 1)
	mustAddClause(t, s, lits(1))
	mustAddClause(t, s, lits(-1))

	status, _ := s.Solve()
	if status != StatusUnsatisfiable {
		t.Fatalf("Solve() = %v; want Unsatisfiable", status)
	}
}

func TestSolve_assumptionConflict(t *testing.T) {
	// p cnf 3 3 / 1 2 0 / -1 2 0 / -2 3 0 under assumption -3
	s := newTestSolver(t, 3)
	mustAddClause(t, s, lits(1, 2))
	mustAddClause(t, s, lits(-1, 2))
	mustAddClause(t, s, lits(-2, 3))

	status, err := s.Solve(litFromDIMACS(-3))
	if status != StatusUnsatisfiable {
		t.Fatalf("Solve(-3) = %v, %v; want UnsatUnderAssumptions", status, err)
	}
	serr, ok := err.(*SolverError)
	if !ok || serr.Kind != KindUnsatUnderAssumptions {
		t.Fatalf("Solve(-3) error = %v; want KindUnsatUnderAssumptions", err)
	}

	core := s.UnsatCore()
	if len(core) != 1 || core[0] != litFromDIMACS(-3) {
		t.Errorf("UnsatCore() = %v, want [{-3}]", core)
	}
}

// TestSearchEpisode_restartPreservesAssumptionState reproduces the boundary
// scenario named by the restart/assumptions property: a restart triggered
// while assumptions are enqueued must return to the assumption level, not
// below it, and must not re-push assumptions already sitting on the trail.
//
// It drives searchEpisode directly (rather than through Solve, whose
// DefaultConfig restart windows are far too wide to fire on small test
// formulas) so the restart fires deterministically on the very first
// wantsRestart check, with the assumption already pushed as a decision.
func TestSearchEpisode_restartPreservesAssumptionState(t *testing.T) {
	s := newTestSolver(t, 1)
	lit := litFromDIMACS(1)

	s.assumptions = []Literal{lit}
	s.nextAssumption = 0
	s.assumptionLevel = 0

	// Replay exactly what searchEpisode's assumption-push branch does, to
	// land on "one assumption already pushed" as the state a restart
	// mid-search would see.
	s.newDecisionLevel()
	s.assumptionLevel = s.decisionLevel()
	s.enqueue(lit, Reason{kind: reasonDecision})
	s.nextAssumption = 1

	wantLevel := s.assumptionLevel
	wantTrailLen := len(s.trail)

	// Force the first wantsRestart check inside searchEpisode to fire
	// immediately, regardless of conflict/glue history.
	s.restart.cfg.Restart = RestartLuby
	s.restart.conflictsSinceRestart = 1 << 20

	status, _, err := s.searchEpisode()
	if status != StatusUnknown || err != nil {
		t.Fatalf("searchEpisode() = %v, %v; want Unknown, nil (restart)", status, err)
	}

	if s.assumptionLevel != wantLevel {
		t.Errorf("assumptionLevel after restart = %d, want %d (must not reset mid-search)", s.assumptionLevel, wantLevel)
	}
	if s.nextAssumption != 1 {
		t.Errorf("nextAssumption after restart = %d, want 1 (assumption must not be re-pushed)", s.nextAssumption)
	}
	if got := s.decisionLevel(); got != wantLevel {
		t.Errorf("decisionLevel() after restart = %d, want %d", got, wantLevel)
	}
	if len(s.trail) != wantTrailLen {
		t.Errorf("trail length after restart = %d, want %d (pushed assumption must survive backtrackTo(assumptionLevel))", len(s.trail), wantTrailLen)
	}
	if s.Value(lit) != True {
		t.Errorf("Value(assumption) after restart = %v, want True (still enqueued)", s.Value(lit))
	}
}

func TestSolve_chainSat(t *testing.T) {
	// p cnf 4 4 / 1 2 0 / -1 3 0 / -3 4 0 / -2 -4 0
	s := newTestSolver(t, 4)
	clauses := [][]int{{1, 2}, {-1, 3}, {-3, 4}, {-2, -4}}
	for _, c := range clauses {
		mustAddClause(t, s, lits(c...))
	}

	status, err := s.Solve()
	if status != StatusSatisfiable {
		t.Fatalf("Solve() = %v, %v; want Satisfiable", status, err)
	}
	checkModel(t, s, clauses)
}

// pigeonhole returns the standard PHP(pigeons, holes) encoding: variable
// p*holes+h means "pigeon p sits in hole h". Unsatisfiable whenever
// pigeons > holes.
func pigeonhole(pigeons, holes int) [][]int {
	var clauses [][]int
	varOf := func(p, h int) int { return p*holes + h + 1 }

	for p := 0; p < pigeons; p++ {
		c := make([]int, holes)
		for h := 0; h < holes; h++ {
			c[h] = varOf(p, h)
		}
		clauses = append(clauses, c)
	}
	for h := 0; h < holes; h++ {
		for p1 := 0; p1 < pigeons; p1++ {
			for p2 := p1 + 1; p2 < pigeons; p2++ {
				clauses = append(clauses, []int{-varOf(p1, h), -varOf(p2, h)})
			}
		}
	}
	return clauses
}

func TestSolve_pigeonholeUnsat(t *testing.T) {
	pigeons, holes := 4, 3
	clauses := pigeonhole(pigeons, holes)

	s := newTestSolver(t, pigeons*holes)
	for _, c := range clauses {
		mustAddClause(t, s, lits(c...))
	}

	status, _ := s.Solve()
	if status != StatusUnsatisfiable {
		t.Fatalf("Solve() on PHP(%d,%d) = %v; want Unsatisfiable", pigeons, holes, status)
	}
}

func TestSolve_randomCNF(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	const nVars = 100
	const ratio = 4.2
	nClauses := int(nVars * ratio)

	var clauses [][]int
	for i := 0; i < nClauses; i++ {
		seen := map[int]bool{}
		var c []int
		for len(c) < 3 {
			v := rng.IntN(nVars) + 1
			if seen[v] {
				continue
			}
			seen[v] = true
			if rng.IntN(2) == 0 {
				v = -v
			}
			c = append(c, v)
		}
		clauses = append(clauses, c)
	}

	s := newTestSolver(t, nVars)
	for _, c := range clauses {
		mustAddClause(t, s, lits(c...))
	}

	status, err := s.Solve()
	switch status {
	case StatusSatisfiable:
		checkModel(t, s, clauses)
	case StatusUnsatisfiable:
		// Nothing further to check without a reference solver.
	default:
		t.Fatalf("Solve() on random 3-CNF = %v, %v; want a verdict", status, err)
	}
}

func TestSolve_emptyCNF(t *testing.T) {
	s := newTestSolver(t, 0)
	status, err := s.Solve()
	if status != StatusSatisfiable {
		t.Fatalf("Solve() on empty CNF = %v, %v; want Satisfiable", status, err)
	}
}

func TestSolve_emptyClauseUnsat(t *testing.T) {
	s := newTestSolver(t, 1)
	if err := s.AddClause(nil); err == nil {
		t.Fatalf("AddClause(nil) should report the formula as unsatisfiable")
	}
	status, _ := s.Solve()
	if status != StatusUnsatisfiable {
		t.Fatalf("Solve() after an empty clause = %v; want Unsatisfiable", status)
	}
}

func TestSolve_unitClauseModel(t *testing.T) {
	s := newTestSolver(t, 1)
	mustAddClause(t, s, lits(1))

	status, err := s.Solve()
	if status != StatusSatisfiable {
		t.Fatalf("Solve() = %v, %v; want Satisfiable", status, err)
	}
	if got := s.Model(0); got != True {
		t.Errorf("Model(0) = %v, want True", got)
	}
}

func TestBacktrackTo_transitiveEquivalence(t *testing.T) {
	s := newTestSolver(t, 4)
	for v := Variable(0); v < 4; v++ {
		s.newDecisionLevel()
		s.enqueue(PositiveLiteral(v), Reason{kind: reasonDecision})
	}
	if s.decisionLevel() != 4 {
		t.Fatalf("decisionLevel() = %d, want 4", s.decisionLevel())
	}

	s.backtrackTo(1)
	if s.decisionLevel() != 1 {
		t.Fatalf("decisionLevel() after backtrackTo(1) = %d, want 1", s.decisionLevel())
	}
	trailAfterOneStep := append([]Literal(nil), s.trail...)

	s2 := newTestSolver(t, 4)
	for v := Variable(0); v < 4; v++ {
		s2.newDecisionLevel()
		s2.enqueue(PositiveLiteral(v), Reason{kind: reasonDecision})
	}
	s2.backtrackTo(2)
	s2.backtrackTo(1)

	if len(trailAfterOneStep) != len(s2.trail) {
		t.Fatalf("backtrackTo(1) directly vs via level 2 produced different trail lengths: %d vs %d",
			len(trailAfterOneStep), len(s2.trail))
	}
	for i := range trailAfterOneStep {
		if trailAfterOneStep[i] != s2.trail[i] {
			t.Errorf("trail[%d] = %v, want %v (backtrackTo(2) then (1) should equal backtrackTo(1) directly)",
				i, s2.trail[i], trailAfterOneStep[i])
		}
	}
}

func mustAddClause(t *testing.T, s *Solver, lits []Literal) {
	t.Helper()
	if err := s.AddClause(lits); err != nil {
		if serr, ok := err.(*SolverError); ok && serr.Kind == KindFormulaUnsat {
			return // expected for some boundary tests
		}
		t.Fatalf("AddClause(%v): %s", lits, err)
	}
}
