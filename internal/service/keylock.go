package service

import (
	"fmt"
	"sync"
)

// keyedLocks serializes writers per logical record without a global lock.
// Entries are reference counted and removed once the last holder releases.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*lockEntry)}
}

// lock blocks until the key is exclusively held and returns the release func.
func (k *keyedLocks) lock(key string) func() {
	k.mu.Lock()
	entry, ok := k.locks[key]
	if !ok {
		entry = &lockEntry{}
		k.locks[key] = entry
	}
	entry.refs++
	k.mu.Unlock()

	entry.mu.Lock()

	return func() {
		entry.mu.Unlock()

		k.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

func feeCellKey(branch, code string, month int) string {
	return fmt.Sprintf("fee:%s:%s:%d", branch, code, month)
}

func creditKey(id uint) string {
	return fmt.Sprintf("credit:%d", id)
}
