// Package keylock serializes work per key within one process.
package keylock

import "sync"

type entry struct {
	mu   sync.Mutex
	refs int
}

// KeyLock hands out one mutex per key and forgets keys nobody holds
type KeyLock struct {
	mu      sync.Mutex
	entries map[int64]*entry
}

// New creates an empty KeyLock
func New() *KeyLock {
	return &KeyLock{entries: make(map[int64]*entry)}
}

// Lock blocks until the key is free and returns its unlock function
func (k *KeyLock) Lock(key int64) (unlock func()) {
	k.mu.Lock()
	e, ok := k.entries[key]
	if !ok {
		e = &entry{}
		k.entries[key] = e
	}
	e.refs++
	k.mu.Unlock()

	e.mu.Lock()

	var once sync.Once
	return func() {
		once.Do(func() {
			e.mu.Unlock()
			k.mu.Lock()
			e.refs--
			if e.refs == 0 {
				delete(k.entries, key)
			}
			k.mu.Unlock()
		})
	}
}
