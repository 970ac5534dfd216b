package filter

import "sync"

// Locked serializes writes against reads on a shared Filter. Checks run
// concurrently with each other; Add waits for in-flight Checks to finish.
type Locked struct {
	mu sync.RWMutex
	f  *Filter
}

// NewLocked takes ownership of f. The caller must not use f directly afterwards.
func NewLocked(f *Filter) *Locked {
	return &Locked{f: f}
}

func (l *Locked) Add(key []byte) {
	l.mu.Lock()
	l.f.Add(key)
	l.mu.Unlock()
}

func (l *Locked) Check(key []byte) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.Check(key)
}

// AddAll inserts keys under a single write lock.
func (l *Locked) AddAll(keys [][]byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, k := range keys {
		l.f.Add(k)
	}
}

// FillRatio reads the fill ratio under the read lock.
func (l *Locked) FillRatio() float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.f.FillRatio()
}

// Params returns m and k. They never change, so no lock is taken.
func (l *Locked) Params() (m, k uint64) { return l.f.BitLength(), l.f.HashCount() }
