// Package locks serializes work per key, either within one process or across
// instances sharing a Redis.
package locks

import (
	"context"
	"sync"
)

// Locker grants exclusive access to key until the returned unlock is called.
// Lock blocks until it succeeds or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// KeyedMutex is a Locker for a single process. Entries are reference counted and
// dropped once nobody holds or waits on them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	// token holds one value while the key is free.
	token chan struct{}
	refs  int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedEntry)}
}

func (k *KeyedMutex) Lock(ctx context.Context, key string) (func(), error) {
	k.mu.Lock()
	e, ok := k.locks[key]
	if !ok {
		e = &keyedEntry{token: make(chan struct{}, 1)}
		e.token <- struct{}{}
		k.locks[key] = e
	}
	e.refs++
	k.mu.Unlock()

	select {
	case <-e.token:
	case <-ctx.Done():
		k.release(key, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			e.token <- struct{}{}
			k.release(key, e)
		})
	}, nil
}

func (k *KeyedMutex) release(key string, e *keyedEntry) {
	k.mu.Lock()
	defer k.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(k.locks, key)
	}
}

// size reports how many keys are tracked.
func (k *KeyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}
