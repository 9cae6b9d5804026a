package service

import "sync"

// TournamentLocks serializes state changes per tournament. The bracket
// structure lives in a single JSON column, so every mutation is a
// read-modify-write cycle spanning several queries; one mutex per tournament
// keeps concurrent bets and winner recordings from interleaving.
type TournamentLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTournamentLocks() *TournamentLocks {
	return &TournamentLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for the given tournament and returns its unlock.
func (l *TournamentLocks) Lock(id string) func() {
	l.mu.Lock()
	m, ok := l.locks[id]
	if !ok {
		m = &sync.Mutex{}
		l.locks[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
