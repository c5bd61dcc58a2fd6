package cell

import (
	"strings"
	"sync"

	"github.com/rpggio/tabula/internal/domain/field"
)

// DataCache memoizes decoded cell values. It is shared by concurrent filter
// and group recompute tasks, so access is guarded per call rather than by the
// callers. Keys include the owning field's current type, so switching a field
// type naturally misses old entries; Invalidate drops a field's entries
// eagerly when its configuration changes.
type DataCache struct {
	mu      sync.RWMutex
	entries map[string]Data
}

func NewDataCache() *DataCache {
	return &DataCache{entries: make(map[string]Data)}
}

func (dc *DataCache) Get(fieldID string, fieldType field.FieldType, c Cell) (Data, bool) {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	data, ok := dc.entries[cacheKey(fieldID, fieldType, c)]
	return data, ok
}

func (dc *DataCache) Put(fieldID string, fieldType field.FieldType, c Cell, data Data) {
	dc.mu.Lock()
	defer dc.mu.Unlock()
	dc.entries[cacheKey(fieldID, fieldType, c)] = data
}

// Invalidate drops every cached value of the given field.
func (dc *DataCache) Invalidate(fieldID string) {
	prefix := fieldID + "\x00"
	dc.mu.Lock()
	defer dc.mu.Unlock()
	for key := range dc.entries {
		if strings.HasPrefix(key, prefix) {
			delete(dc.entries, key)
		}
	}
}

// Len returns the number of cached entries.
func (dc *DataCache) Len() int {
	dc.mu.RLock()
	defer dc.mu.RUnlock()
	return len(dc.entries)
}
