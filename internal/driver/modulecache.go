package driver

import (
	"sync"

	"chimp/internal/project"
	"chimp/internal/symbols"
)

type cachedUnit struct {
	path string
	snap *symbols.Snapshot
}

// UnitCache is the in-process layer in front of DiskCache. Units with
// identical keys (same content, builtins and options) resolve once per run.
type UnitCache struct {
	mu    sync.RWMutex
	byKey map[project.Digest]cachedUnit
}

// NewUnitCache creates a UnitCache with the given capacity hint.
func NewUnitCache(capHint int) *UnitCache {
	return &UnitCache{byKey: make(map[project.Digest]cachedUnit, capHint)}
}

// Get returns the snapshot stored under key and the path of the unit that
// stored it.
func (c *UnitCache) Get(key project.Digest) (*symbols.Snapshot, string, bool) {
	if c == nil {
		return nil, "", false
	}
	c.mu.RLock()
	u, ok := c.byKey[key]
	c.mu.RUnlock()
	return u.snap, u.path, ok
}

// Put stores the snapshot resolved from path. Snapshots are shared between
// results and must not be modified afterwards.
func (c *UnitCache) Put(key project.Digest, path string, snap *symbols.Snapshot) {
	if c == nil || snap == nil {
		return
	}
	c.mu.Lock()
	c.byKey[key] = cachedUnit{path: path, snap: snap}
	c.mu.Unlock()
}

// Len reports the number of stored snapshots.
func (c *UnitCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byKey)
}

// retarget returns snap as seen from path. A snapshot named after the unit
// that stored it is copied under the new path; a name taken from the
// document itself is kept, since equal keys mean equal documents.
func retarget(snap *symbols.Snapshot, storedPath, path string) *symbols.Snapshot {
	if snap == nil || storedPath == path || snap.Filename != storedPath {
		return snap
	}
	cp := *snap
	cp.Filename = path
	return &cp
}
