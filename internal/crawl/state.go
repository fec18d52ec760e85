package crawl

// State tracks per-run crawl progress. Seen is the only shared mutable data
// structure in the subsystem: written by the listing parser, read for skip
// checks and run summaries. It is scoped to the crawler instance, so URL
// deduplication is global to a run, not per category. Access is strictly
// sequential; no locking is needed.
type State struct {
	Seen           map[string]bool
	PagesVisited   int
	PostsCollected int
}

// NewState creates an empty run state.
func NewState() *State {
	return &State{Seen: make(map[string]bool)}
}
