package invoke

import "sync"

// AccountLocks serializes invocations per source account. Two envelopes
// built from the same fetched sequence number collide on-chain, so each
// account's build-to-submit window is exclusive; different accounts
// proceed in parallel.
type AccountLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAccountLocks creates an empty lock set.
func NewAccountLocks() *AccountLocks {
	return &AccountLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the lock for an address, creating it on first use.
func (a *AccountLocks) Lock(address string) {
	a.get(address).Lock()
}

// Unlock releases the lock for an address.
func (a *AccountLocks) Unlock(address string) {
	a.get(address).Unlock()
}

func (a *AccountLocks) get(address string) *sync.Mutex {
	a.mu.Lock()
	defer a.mu.Unlock()
	lock, ok := a.locks[address]
	if !ok {
		lock = &sync.Mutex{}
		a.locks[address] = lock
	}
	return lock
}
