package users

import "sync"

// nameLocks serializes operations per key. Registration takes the lock for
// the submitted username around its existence check and save, so two
// concurrent registrations for the same name cannot both pass the check.
type nameLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newNameLocks() *nameLocks {
	return &nameLocks{locks: make(map[string]*sync.Mutex)}
}

// lock acquires the mutex for name, creating it on first use, and returns
// the matching unlock func.
func (n *nameLocks) lock(name string) func() {
	n.mu.Lock()
	l, ok := n.locks[name]
	if !ok {
		l = &sync.Mutex{}
		n.locks[name] = l
	}
	n.mu.Unlock()

	l.Lock()
	return l.Unlock
}
