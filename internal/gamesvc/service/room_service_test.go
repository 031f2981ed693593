package service

import (
	"errors"
	"testing"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

func TestJoinCapacity(t *testing.T) {
	room := &models.Room{MaxPlayers: 3, MaxCardsPerPlayer: 4}

	t.Run("new player with free seat", func(t *testing.T) {
		if err := joinCapacity(room, nil, 2, 2); err != nil {
			t.Fatalf("joinCapacity = %v, want nil", err)
		}
	})

	t.Run("room full rejects a new player", func(t *testing.T) {
		if err := joinCapacity(room, nil, 3, 1); !errors.Is(err, ErrRoomFull) {
			t.Fatalf("joinCapacity = %v, want ErrRoomFull", err)
		}
	})

	t.Run("returning player is not a new seat", func(t *testing.T) {
		p := &models.RoomPlayer{CardCount: 1}
		if err := joinCapacity(room, p, 3, 2); err != nil {
			t.Fatalf("joinCapacity = %v, want nil", err)
		}
	})

	t.Run("top up to the exact card cap", func(t *testing.T) {
		p := &models.RoomPlayer{CardCount: 2}
		if err := joinCapacity(room, p, 0, 2); err != nil {
			t.Fatalf("joinCapacity = %v, want nil", err)
		}
	})

	t.Run("cumulative cards over the cap", func(t *testing.T) {
		p := &models.RoomPlayer{CardCount: 3}
		if err := joinCapacity(room, p, 0, 2); !errors.Is(err, ErrTooManyCards) {
			t.Fatalf("joinCapacity = %v, want ErrTooManyCards", err)
		}
	})

	t.Run("single purchase over the cap", func(t *testing.T) {
		if err := joinCapacity(room, nil, 0, 5); !errors.Is(err, ErrTooManyCards) {
			t.Fatalf("joinCapacity = %v, want ErrTooManyCards", err)
		}
	})

	t.Run("zero cards", func(t *testing.T) {
		if err := joinCapacity(room, nil, 0, 0); !errors.Is(err, ErrTooManyCards) {
			t.Fatalf("joinCapacity = %v, want ErrTooManyCards", err)
		}
	})
}

func TestStartEligible(t *testing.T) {
	const hostID = 11

	cases := []struct {
		name   string
		status string
		caller int64
		want   error
	}{
		{"ready room starts", models.RoomStatusReady, hostID, nil},
		{"lobby cannot start", models.RoomStatusLobby, hostID, ErrNotAllReady},
		{"already playing", models.RoomStatusPlaying, hostID, ErrAlreadyStarted},
		{"finished", models.RoomStatusFinished, hostID, ErrRoomClosed},
		{"canceled", models.RoomStatusCanceled, hostID, ErrRoomClosed},
		{"non-host", models.RoomStatusReady, 99, ErrNotHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			room := &models.Room{HostID: hostID, Status: tc.status}
			if err := startEligible(room, tc.caller); !errors.Is(err, tc.want) {
				t.Fatalf("startEligible = %v, want %v", err, tc.want)
			}
		})
	}
}
