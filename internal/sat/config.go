package sat

import "time"

// RestartPolicy selects the restart scheme driving the search loop's
// restart controller (see restart.go).
type RestartPolicy int

const (
	// RestartGlue restarts when the short-window average learnt-clause glue
	// multiplied by Config.RestartMargin exceeds the long-window average.
	RestartGlue RestartPolicy = iota
	// RestartLuby restarts on a Luby sequence, scaled by a unit of 32
	// conflicts.
	RestartLuby
	// RestartGeometric restarts every N conflicts, with N growing by a
	// fixed factor after every restart.
	RestartGeometric
	// RestartNever disables the restart controller entirely.
	RestartNever
)

// Config holds every tunable the core exposes to embedders. Unknown options
// are rejected at construction (NewSolver), never silently ignored.
type Config struct {
	Restart           RestartPolicy
	RestartShortWindow int     // K_short, conflicts averaged for the short glue window
	RestartLongWindow  int     // K_long, conflicts averaged for the long glue window
	RestartMargin      float64 // restart requested when short*margin > long (see wantsRestart)

	VarDecay    float64 // in (0, 1)
	ClauseDecay float64 // in (0, 1)

	RandomVarFreq float64 // in [0, 1]
	RandomSeed    uint64

	PhaseSaving bool

	SimplifyAtStartup bool
	EnableSubsumption bool
	EnableSCC         bool
	EnableMinimize    bool // recursive self-subsuming minimisation of learnt clauses
	EnableBinaryMinimize bool

	// EnableJeroslowWang runs a one-shot Jeroslow-Wang tally over the
	// original clauses before the first decision, overriding the decision
	// heuristic's default saved polarity per variable (see polarity.go).
	EnableJeroslowWang bool

	LearntCleaningFirstThreshold int
	LearntCleaningGrowth         float64

	MaxConflicts int64 // < 0 disables
	MaxTime      time.Duration // < 0 disables

	// SimplifyBudget bounds the "bogo-props" cost counter spent per
	// simplification pass before it aborts cleanly.
	SimplifyBudget int64
}

// DefaultConfig returns the configuration used when embedders do not
// override it; numeric defaults follow the teacher's DefaultOptions where a
// field exists there, and otherwise common CDCL literature defaults (the
// spec fixes the mechanism, not the numerics — see DESIGN.md, "Open
// Question decisions").
var DefaultConfig = Config{
	Restart:            RestartGlue,
	RestartShortWindow: 50,
	RestartLongWindow:  5000,
	RestartMargin:      0.8,

	VarDecay:    0.95,
	ClauseDecay: 0.999,

	RandomVarFreq: 0.02,
	RandomSeed:    1,

	PhaseSaving: true,

	SimplifyAtStartup: true,
	EnableSubsumption: true,
	EnableSCC:         true,
	EnableMinimize:    true,
	EnableBinaryMinimize: true,
	EnableJeroslowWang: true,

	LearntCleaningFirstThreshold: 2000,
	LearntCleaningGrowth:         1.1,

	MaxConflicts: -1,
	MaxTime:      -1,

	SimplifyBudget: 50_000_000,
}

// validate checks Config for out-of-range values, returning a
// KindConfigInvalid SolverError naming the first problem found.
func (c Config) validate() error {
	switch {
	case c.Restart < RestartGlue || c.Restart > RestartNever:
		return newSolverError(KindConfigInvalid, "unknown restart policy %d", c.Restart)
	case c.VarDecay <= 0 || c.VarDecay >= 1:
		return newSolverError(KindConfigInvalid, "VarDecay must be in (0,1), got %v", c.VarDecay)
	case c.ClauseDecay <= 0 || c.ClauseDecay >= 1:
		return newSolverError(KindConfigInvalid, "ClauseDecay must be in (0,1), got %v", c.ClauseDecay)
	case c.RandomVarFreq < 0 || c.RandomVarFreq > 1:
		return newSolverError(KindConfigInvalid, "RandomVarFreq must be in [0,1], got %v", c.RandomVarFreq)
	case c.RestartShortWindow <= 0:
		return newSolverError(KindConfigInvalid, "RestartShortWindow must be positive")
	case c.RestartLongWindow <= 0:
		return newSolverError(KindConfigInvalid, "RestartLongWindow must be positive")
	case c.LearntCleaningFirstThreshold <= 0:
		return newSolverError(KindConfigInvalid, "LearntCleaningFirstThreshold must be positive")
	case c.LearntCleaningGrowth <= 1:
		return newSolverError(KindConfigInvalid, "LearntCleaningGrowth must be > 1")
	}
	return nil
}
