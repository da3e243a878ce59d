package sat

// Stats collects running search statistics. All fields are safe to read
// between Solve calls; they are only mutated during an active search
// episode.
type Stats struct {
	Conflicts  int64
	Restarts   int64
	Decisions  int64
	Propagations int64
	LearntLiterals int64
	Simplifications int64
	Reductions int64
}
