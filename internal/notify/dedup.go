package notify

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// seenCap bounds the remembered message IDs. The set must survive for the
// process lifetime but not grow with it; 512 covers far more pushes than an
// admin session ever sees, and eviction of ancient IDs is harmless because
// the provider does not redeliver that far back.
const seenCap = 512

// dedupFilter enforces at-most-one locally-displayed alert per distinct
// provider message ID, across all delivery paths.
type dedupFilter struct {
	seen *lru.Cache[string, struct{}]
}

func newDedupFilter() *dedupFilter {
	// Only errors on non-positive size.
	cache, err := lru.New[string, struct{}](seenCap)
	if err != nil {
		panic(err)
	}
	return &dedupFilter{seen: cache}
}

// FirstSeen records id and reports whether this is its first appearance.
// Messages without an ID cannot be de-duplicated and always pass.
func (d *dedupFilter) FirstSeen(id string) bool {
	if id == "" {
		return true
	}
	if _, ok := d.seen.Get(id); ok {
		return false
	}
	d.seen.Add(id, struct{}{})
	return true
}
