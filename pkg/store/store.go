// Package store provides the MappingStore implementations: encrypted
// records on the local filesystem or in Postgres, selected by
// mapping_store.type. Both encrypt with pkg/crypto and serialize the
// mapping as JSON, so a record round-trips exactly.
package store

import (
	"errors"
	"sync"

	"github.com/getveil/veil/internal"
)

var log = internal.GetLogger()

// ErrInvalidKey is returned when a mapping key cannot name a stored
// record, e.g. a path traversal attempt against the file store.
var ErrInvalidKey = errors.New("invalid mapping key")

// keyedMutex serializes a write against a read/delete on the same mapping
// key, so a reader can never observe a partially written record. Writes
// for different keys proceed independently. Entries are reference counted
// and removed once the last holder unlocks, so the map never grows with
// the number of keys ever seen.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

type keyLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyLock)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}
