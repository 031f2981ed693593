package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDistributionSchedulerFiresOncePerRoom(t *testing.T) {
	var fired int64
	done := make(chan int64, 4)
	s := newDistributionScheduler(20*time.Millisecond, func(roomID int64) {
		atomic.AddInt64(&fired, 1)
		done <- roomID
	})
	defer s.Stop()

	if !s.Schedule(7) {
		t.Fatal("first schedule must arm the window")
	}
	// co-winners inside the window must not arm a second run
	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.Schedule(7) {
				t.Error("duplicate schedule while window pending")
			}
		}()
	}
	wg.Wait()

	select {
	case roomID := <-done:
		if roomID != 7 {
			t.Fatalf("fired for room %d, want 7", roomID)
		}
	case <-time.After(time.Second):
		t.Fatal("window never fired")
	}

	time.Sleep(50 * time.Millisecond)
	if n := atomic.LoadInt64(&fired); n != 1 {
		t.Fatalf("fired %d times, want 1", n)
	}
}

func TestDistributionSchedulerIndependentRooms(t *testing.T) {
	done := make(chan int64, 2)
	s := newDistributionScheduler(10*time.Millisecond, func(roomID int64) {
		done <- roomID
	})
	defer s.Stop()

	if !s.Schedule(1) || !s.Schedule(2) {
		t.Fatal("distinct rooms must schedule independently")
	}

	got := map[int64]bool{}
	for i := 0; i < 2; i++ {
		select {
		case id := <-done:
			got[id] = true
		case <-time.After(time.Second):
			t.Fatal("window never fired")
		}
	}
	if !got[1] || !got[2] {
		t.Fatalf("expected both rooms to fire, got %v", got)
	}
}
