package service

import (
	"sync"
	"time"
)

// distributionScheduler defers one distribution run per room: the first
// valid winner opens the tie window, later winners inside the window must
// not schedule a duplicate. No lock is held while the window elapses.
type distributionScheduler struct {
	window time.Duration
	fire   func(roomID int64)

	mu      sync.Mutex
	pending map[int64]*time.Timer
}

func newDistributionScheduler(window time.Duration, fire func(roomID int64)) *distributionScheduler {
	return &distributionScheduler{
		window:  window,
		fire:    fire,
		pending: make(map[int64]*time.Timer),
	}
}

// Schedule arms the tie window for the room. Reports false when a window is
// already pending.
func (s *distributionScheduler) Schedule(roomID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pending[roomID]; ok {
		return false
	}
	s.pending[roomID] = time.AfterFunc(s.window, func() {
		s.mu.Lock()
		delete(s.pending, roomID)
		s.mu.Unlock()
		s.fire(roomID)
	})
	return true
}

// Stop cancels all pending windows, for shutdown.
func (s *distributionScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, t := range s.pending {
		t.Stop()
		delete(s.pending, id)
	}
}
