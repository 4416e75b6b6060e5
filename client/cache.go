package client

import "sync"

// ShiftCache holds the last known shift list per dashboard. It is the local
// stand-in for the web client's query cache and is what the optimistic
// counter update mutates before the server answers.
type ShiftCache struct {
	mu      sync.RWMutex
	entries map[uint][]Shift
}

func NewShiftCache() *ShiftCache {
	return &ShiftCache{entries: make(map[uint][]Shift)}
}

func (c *ShiftCache) Get(dashboardID uint) ([]Shift, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	shifts, ok := c.entries[dashboardID]
	if !ok {
		return nil, false
	}
	return cloneShifts(shifts), true
}

func (c *ShiftCache) Set(dashboardID uint, shifts []Shift) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[dashboardID] = cloneShifts(shifts)
}

func (c *ShiftCache) Invalidate(dashboardID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, dashboardID)
}

// Snapshot returns a deep copy suitable for Restore.
func (c *ShiftCache) Snapshot(dashboardID uint) ([]Shift, bool) {
	return c.Get(dashboardID)
}

func (c *ShiftCache) Restore(dashboardID uint, snapshot []Shift) {
	c.Set(dashboardID, snapshot)
}

// ApplyCounts speculatively merges the partial counter values into the
// cached entry for one shift. Missing cache entries and shifts without a
// counts object are left alone, the reconciling refetch covers those.
func (c *ShiftCache) ApplyCounts(dashboardID, shiftID uint, counts CountUpdates) {
	c.mu.Lock()
	defer c.mu.Unlock()

	shifts, ok := c.entries[dashboardID]
	if !ok {
		return
	}
	for i := range shifts {
		if shifts[i].ID != shiftID || shifts[i].Counts == nil {
			continue
		}
		if counts.Member1 != nil {
			shifts[i].Counts.Member1 = *counts.Member1
		}
		if counts.Member2 != nil {
			shifts[i].Counts.Member2 = *counts.Member2
		}
		if counts.Member3 != nil {
			shifts[i].Counts.Member3 = *counts.Member3
		}
		if counts.PrivateCount != nil {
			shifts[i].Counts.PrivateCount = *counts.PrivateCount
		}
	}
}

func cloneShifts(shifts []Shift) []Shift {
	cloned := make([]Shift, len(shifts))
	copy(cloned, shifts)
	for i := range cloned {
		if cloned[i].Counts != nil {
			counts := *cloned[i].Counts
			cloned[i].Counts = &counts
		}
	}
	return cloned
}
