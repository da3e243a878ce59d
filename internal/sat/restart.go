package sat

// windowAvg is a fixed-size ring-buffer moving average, used for the
// short/long glue windows and the trail-length blocking signal.
type windowAvg struct {
	buf   []float64
	sum   float64
	pos   int
	count int
}

func newWindowAvg(size int) *windowAvg {
	return &windowAvg{buf: make([]float64, size)}
}

func (w *windowAvg) add(x float64) {
	if w.count < len(w.buf) {
		w.buf[w.pos] = x
		w.sum += x
		w.count++
	} else {
		w.sum += x - w.buf[w.pos]
		w.buf[w.pos] = x
	}
	w.pos = (w.pos + 1) % len(w.buf)
}

func (w *windowAvg) full() bool { return w.count == len(w.buf) }

func (w *windowAvg) avg() float64 {
	if w.count == 0 {
		return 0
	}
	return w.sum / float64(w.count)
}

// restartController implements C8's restart half: a glue-based policy by
// default (Glucose-style short/long windowed averages with a
// progress-blocking guard), with Luby and fixed-geometric schemes available
// as drop-in alternatives sharing the same "wants a restart, yield at the
// next clause boundary" contract.
type restartController struct {
	cfg Config

	shortGlue *windowAvg
	longGlue  *windowAvg
	trailLen  *windowAvg

	conflictsSinceRestart int64

	lubyIdx     int64
	geoNext     int64
}

func newRestartController(cfg Config) *restartController {
	return &restartController{
		cfg:       cfg,
		shortGlue: newWindowAvg(cfg.RestartShortWindow),
		longGlue:  newWindowAvg(cfg.RestartLongWindow),
		trailLen:  newWindowAvg(cfg.RestartLongWindow),
		geoNext:   100,
	}
}

// onConflict records the glue of a just-learnt clause and the trail length
// at conflict time, feeding the windowed averages.
func (r *restartController) onConflict(glue int, trailLen int) {
	r.shortGlue.add(float64(glue))
	r.longGlue.add(float64(glue))
	r.trailLen.add(float64(trailLen))
	r.conflictsSinceRestart++
}

// wantsRestart reports whether the controller believes this is a good
// moment to restart. It never second-guesses the caller on *when* it is
// safe to act on that signal (only a clause boundary is ever a safe
// restart point): it only says whether one is desired at all.
func (r *restartController) wantsRestart(trailLen int) bool {
	switch r.cfg.Restart {
	case RestartNever:
		return false

	case RestartLuby:
		want := r.conflictsSinceRestart >= 32*luby(r.lubyIdx)
		return want

	case RestartGeometric:
		return r.conflictsSinceRestart >= r.geoNext

	default: // RestartGlue
		if !r.longGlue.full() {
			return false
		}
		// Blocking: suppress the restart if the trail is unusually long
		// compared to its recent history, since that suggests the search
		// is making real progress rather than thrashing.
		if r.trailLen.full() && float64(trailLen) > 1.4*r.trailLen.avg() {
			return false
		}
		return r.shortGlue.avg()*r.cfg.RestartMargin > r.longGlue.avg()
	}
}

// onRestart resets the per-episode conflict counter and advances the
// scheduled-policy state (Luby index / geometric threshold).
func (r *restartController) onRestart() {
	r.conflictsSinceRestart = 0
	switch r.cfg.Restart {
	case RestartLuby:
		r.lubyIdx++
	case RestartGeometric:
		r.geoNext = int64(float64(r.geoNext) * 1.5)
	}
}

// luby returns the i-th term (0-indexed) of the Luby sequence
// 1 1 2 1 1 2 4 1 1 2 1 1 2 4 8 ...
func luby(i int64) int64 {
	// Find the finite subsequence length 2^k-1 that contains i.
	var size, seq int64 = 1, 0
	for size < i+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != i {
		size = (size - 1) / 2
		seq--
		i %= size
	}
	return 1 << uint(seq)
}
