package service

import (
	"context"
	"errors"
	"testing"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

type recordingDistributor struct {
	calls []int64
	err   error
}

func (d *recordingDistributor) Distribute(_ context.Context, roomID int64) error {
	d.calls = append(d.calls, roomID)
	return d.err
}

func TestMonitorSettle(t *testing.T) {
	t.Run("drives distribution for the room", func(t *testing.T) {
		d := &recordingDistributor{}
		m := &MonitorService{payout: d}
		m.settle(context.Background(), &models.Room{ID: 12, Code: "ABC123"})
		if len(d.calls) != 1 || d.calls[0] != 12 {
			t.Fatalf("Distribute calls = %v, want [12]", d.calls)
		}
	})

	t.Run("a failing room does not stop the sweep", func(t *testing.T) {
		d := &recordingDistributor{err: errors.New("boom")}
		m := &MonitorService{payout: d}
		m.settle(context.Background(), &models.Room{ID: 4, Code: "DEF456"})
		m.settle(context.Background(), &models.Room{ID: 5, Code: "GHI789"})
		if len(d.calls) != 2 {
			t.Fatalf("Distribute calls = %v, want both rooms attempted", d.calls)
		}
	})
}
