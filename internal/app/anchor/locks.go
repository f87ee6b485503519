package anchor

import (
	"strings"
	"sync"
)

type submissionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSubmissionLocks() *submissionLocks {
	return &submissionLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *submissionLocks) acquire(rpcURL, address string) func() {
	key := rpcURL + "|" + strings.ToLower(address)
	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[key] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}
