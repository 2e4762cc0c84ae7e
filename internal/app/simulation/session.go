package simulation

import (
	"sync"
	"time"

	"covidsim/internal/domain/epidemic"
)

// Session is the single live world handle. Every read, tick and restart runs
// under mu.
type Session struct {
	mu         sync.Mutex
	id         string
	game       *epidemic.Game
	lastUpdate time.Time
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}
