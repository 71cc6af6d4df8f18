package allocation

import "sync"

// keyedLocks serializes work per entity id. Locks are created on first use
// and never reclaimed; the key space (organ and recipient ids in flight) is
// small enough that this is not a concern.
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedLocks) forKey(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

// Lock acquires the lock for key and returns its unlock func.
func (k *keyedLocks) Lock(key string) func() {
	l := k.forKey(key)
	l.Lock()
	return l.Unlock
}
