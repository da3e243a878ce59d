package sat

import (
	"math/rand/v2"

	"github.com/rhartert/yagh"
)

// heuristicState is the activity-ordered decision heuristic (C6): a
// max-heap of variables keyed by activity, with decay, saved polarity, and
// a small-probability random fallback. Grounded on the teacher's
// internal/sat/ordering.go, generalized to track per-variable decision
// eligibility (a variable eliminated or replaced by the simplifier is
// never offered as a decision) and a solver-owned PRNG instead of the
// package-global math/rand the teacher never actually used here.
type heuristicState struct {
	heap *yagh.IntMap[float64]

	activities []float64
	varInc     float64
	varDecay   float64

	polarity    []LBool
	phaseSaving bool

	eligible []bool // false once a variable is eliminated/replaced

	rng        *rand.Rand
	randomFreq float64
}

func newHeuristicState(cfg Config) *heuristicState {
	return &heuristicState{
		heap:        yagh.New[float64](0),
		varInc:      1,
		varDecay:    cfg.VarDecay,
		phaseSaving: cfg.PhaseSaving,
		rng:         rand.New(rand.NewPCG(cfg.RandomSeed, cfg.RandomSeed^0x9e3779b97f4a7c15)),
		randomFreq:  cfg.RandomVarFreq,
	}
}

// addVar registers a newly created variable with zero activity and a
// default negative saved polarity.
func (h *heuristicState) addVar() {
	v := len(h.activities)
	h.activities = append(h.activities, 0)
	h.polarity = append(h.polarity, False)
	h.eligible = append(h.eligible, true)
	h.heap.GrowBy(1)
	h.heap.Put(v, 0)
}

// setInitialPolarity overrides the default saved polarity of v, e.g. from
// the Jeroslow-Wang pre-analysis Solve runs (see polarity.go).
func (h *heuristicState) setInitialPolarity(v Variable, positive bool) {
	h.polarity[v] = Lift(positive)
}

// setEligible flips whether v may be offered as a decision. Marking a
// variable ineligible does not evict it from the heap immediately (the
// library does not expose arbitrary-key removal); pick() instead discards
// it lazily the next time it is popped and never reinserts it afterwards,
// matching the teacher's own lazy-deletion NextDecision loop.
func (h *heuristicState) setEligible(v Variable, eligible bool) {
	h.eligible[v] = eligible
	if eligible && !h.heap.Contains(int(v)) {
		h.heap.Put(int(v), -h.activities[v])
	}
}

// onUnassign reinserts v into the heap (if still eligible) when it is
// undone by a backtrack, saving its last value as its polarity.
func (h *heuristicState) onUnassign(v Variable, val LBool) {
	if h.phaseSaving && val != Unknown {
		h.polarity[v] = val
	}
	if h.eligible[v] {
		h.heap.Put(int(v), -h.activities[v])
	}
}

// bump increases v's activity, rescaling every activity (and the
// increment) if the threshold is exceeded to avoid float overflow while
// preserving relative order.
func (h *heuristicState) bump(v Variable) {
	h.activities[v] += h.varInc
	if h.heap.Contains(int(v)) {
		h.heap.Put(int(v), -h.activities[v])
	}
	if h.activities[v] > 1e100 {
		h.rescale()
	}
}

func (h *heuristicState) rescale() {
	h.varInc *= 1e-100
	for v, a := range h.activities {
		na := a * 1e-100
		h.activities[v] = na
		if h.heap.Contains(v) {
			h.heap.Put(v, -na)
		}
	}
}

// decay shrinks past bumps' relative weight by growing the increment used
// for future ones, which is equivalent to (and cheaper than) multiplying
// every activity by the decay factor.
func (h *heuristicState) decay() {
	h.varInc /= h.varDecay
	if h.varInc > 1e100 {
		h.rescale()
	}
}

// pick pops the next decision literal: the highest-activity unassigned,
// eligible variable, using its saved polarity, or (with probability
// randomFreq) a uniformly random unassigned eligible variable instead. It
// reports false once no eligible unassigned variable remains.
func (h *heuristicState) pick(s *Solver) (Literal, bool) {
	if h.randomFreq > 0 && h.rng.Float64() < h.randomFreq {
		if l, ok := h.pickRandom(s); ok {
			return l, true
		}
	}

	for {
		v, ok := h.heap.Pop()
		if !ok {
			return 0, false
		}
		vid := Variable(v.Elem)
		if s.VarValue(vid) != Unknown || !h.eligible[vid] {
			continue
		}
		return h.literalFor(vid), true
	}
}

func (h *heuristicState) pickRandom(s *Solver) (Literal, bool) {
	n := len(h.activities)
	if n == 0 {
		return 0, false
	}
	start := h.rng.IntN(n)
	for i := 0; i < n; i++ {
		vid := Variable((start + i) % n)
		if s.VarValue(vid) == Unknown && h.eligible[vid] {
			// Left in the heap: once it is eventually popped there it will
			// be skipped as already-assigned, same as any stale entry.
			return h.literalFor(vid), true
		}
	}
	return 0, false
}

func (h *heuristicState) literalFor(v Variable) Literal {
	if h.polarity[v] == False {
		return NegativeLiteral(v)
	}
	return PositiveLiteral(v)
}
