package filter

import "sync"

// rowResult records a row's verdict per active filter slot. The row is
// visible only when every recorded verdict passes.
type rowResult struct {
	verdicts map[FilterType]bool
}

func (r *rowResult) isVisible() bool {
	for _, visible := range r.verdicts {
		if !visible {
			return false
		}
	}
	return true
}

// resultCache holds the last verdict of every evaluated row, keyed by row id.
// Concurrent recompute tasks share it; each row's entry is swapped under the
// cache lock, never mutated in place.
type resultCache struct {
	mu      sync.Mutex
	results map[string]*rowResult
}

func newResultCache() *resultCache {
	return &resultCache{results: make(map[string]*rowResult)}
}

// apply replaces a row's verdict set atomically and reports the new aggregate
// visibility plus whether it flipped. Filter slots absent from the new set are
// implicitly dropped, so a filter whose field was deleted or retyped can no
// longer keep the row hidden. A row with no prior entry counts as visible;
// every row starts visible until a filter says otherwise.
func (rc *resultCache) apply(rowID string, verdicts map[FilterType]bool) (visible, changed bool) {
	rc.mu.Lock()
	defer rc.mu.Unlock()

	was := true
	if prior, ok := rc.results[rowID]; ok {
		was = prior.isVisible()
	}
	next := &rowResult{verdicts: verdicts}
	rc.results[rowID] = next

	now := next.isVisible()
	return now, now != was
}

func (rc *resultCache) remove(rowID string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	delete(rc.results, rowID)
}
