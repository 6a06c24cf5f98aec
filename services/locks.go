package services

import "sync"

// accountLocks serializes mutations per account id. Distinct accounts take
// distinct mutexes, so they never contend with each other.
type accountLocks struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	sync.Mutex
	refs int
}

func newAccountLocks() *accountLocks {
	return &accountLocks{locks: map[string]*accountLock{}}
}

func (a *accountLocks) lock(id string) {
	a.mu.Lock()
	l, ok := a.locks[id]
	if !ok {
		l = &accountLock{}
		a.locks[id] = l
	}
	l.refs++
	a.mu.Unlock()

	l.Lock()
}

func (a *accountLocks) unlock(id string) {
	a.mu.Lock()
	l := a.locks[id]
	l.refs--
	if l.refs == 0 {
		delete(a.locks, id)
	}
	a.mu.Unlock()

	l.Unlock()
}
