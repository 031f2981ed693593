package service

import (
	"math/rand"
	"sync"
	"time"
)

// lockedRand serializes access to one rand.Rand so card generation and
// draws from different rooms can run on concurrent goroutines.
type lockedRand struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newLockedRand() *lockedRand {
	return &lockedRand{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (l *lockedRand) do(f func(rng *rand.Rand) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return f(l.rng)
}
