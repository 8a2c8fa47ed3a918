package services

import "sync"

// keyedMutex serializes operations per key. The ledger uses it to linearize
// all segment/shift mutations of one worker, which keeps the one-open-segment
// and non-overlap invariants race-free across concurrent requests.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns the matching unlock function.
// Mutexes are retained for the process lifetime; the key space is bounded by
// the number of workers.
func (k *keyedMutex) Lock(key int64) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
