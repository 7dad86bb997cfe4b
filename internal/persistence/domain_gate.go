package persistence

import (
	"sync"

	"talkpad/internal/domain"
)

// domainGate serializes storage operations per settings domain so a load
// issued after a save for the same domain can never complete first and clobber
// the fresher value. Different domains proceed independently.
type domainGate struct {
	mu    sync.Mutex
	locks map[domain.SettingsDomain]*sync.Mutex
}

func newDomainGate() *domainGate {
	return &domainGate{locks: make(map[domain.SettingsDomain]*sync.Mutex)}
}

func (g *domainGate) acquire(d domain.SettingsDomain) func() {
	g.mu.Lock()
	lock, ok := g.locks[d]
	if !ok {
		lock = &sync.Mutex{}
		g.locks[d] = lock
	}
	g.mu.Unlock()

	lock.Lock()

	return lock.Unlock
}
