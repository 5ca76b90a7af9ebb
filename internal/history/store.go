package history

import "github.com/brainventure/neuroleader/internal/scoring"

// Store persists test results for the single local user. Both operations
// are fail-soft: SaveResult reports failure with false and History degrades
// to an empty slice; neither ever panics or returns an error to the caller.
type Store interface {
	// SaveResult stamps the record with an id and the current timestamp,
	// prepends it to the history (most-recent-first) and persists it.
	SaveResult(rec *scoring.Result) bool
	// History returns all saved results, most recent first.
	History() []*scoring.Result
}
