package billing

import "sync"

// keyedMutex serializes mutating operations per normalized email, narrowing
// the window in which an explicit API call and a webhook delivery for the
// same customer can interleave. It only covers a single process; the unique
// constraints on subscriptions and payment logs remain the last line of
// defense across instances.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*emailLock
}

type emailLock struct {
	sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*emailLock)}
}

// Lock acquires the lock for key and returns the matching unlock func.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &emailLock{}
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
