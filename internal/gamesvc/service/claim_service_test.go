package service

import (
	"errors"
	"reflect"
	"testing"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
)

func TestClaimEligible(t *testing.T) {
	room := &models.Room{ID: 7, Status: models.RoomStatusPlaying}
	card := &models.Card{ID: 3, RoomID: 7, UserID: 42}

	t.Run("live game, own card", func(t *testing.T) {
		if err := claimEligible(room, card, 42); err != nil {
			t.Fatalf("claimEligible = %v, want nil", err)
		}
	})

	t.Run("already winning card cannot claim again", func(t *testing.T) {
		won := &models.Card{ID: 3, RoomID: 7, UserID: 42, IsWinner: true}
		if err := claimEligible(room, won, 42); !errors.Is(err, ErrAlreadyClaimed) {
			t.Fatalf("claimEligible = %v, want ErrAlreadyClaimed", err)
		}
	})

	t.Run("someone else's card", func(t *testing.T) {
		if err := claimEligible(room, card, 99); !errors.Is(err, store.ErrCardNotFound) {
			t.Fatalf("claimEligible = %v, want ErrCardNotFound", err)
		}
	})

	t.Run("card from another room", func(t *testing.T) {
		stray := &models.Card{ID: 3, RoomID: 8, UserID: 42}
		if err := claimEligible(room, stray, 42); !errors.Is(err, store.ErrCardNotFound) {
			t.Fatalf("claimEligible = %v, want ErrCardNotFound", err)
		}
	})

	t.Run("finished game", func(t *testing.T) {
		done := &models.Room{ID: 7, Status: models.RoomStatusFinished}
		if err := claimEligible(done, card, 42); !errors.Is(err, ErrGameAlreadyFinished) {
			t.Fatalf("claimEligible = %v, want ErrGameAlreadyFinished", err)
		}
	})

	t.Run("lobby", func(t *testing.T) {
		lobby := &models.Room{ID: 7, Status: models.RoomStatusLobby}
		if err := claimEligible(lobby, card, 42); !errors.Is(err, ErrRoomClosed) {
			t.Fatalf("claimEligible = %v, want ErrRoomClosed", err)
		}
	})
}

func TestMarkedAndDrawn(t *testing.T) {
	t.Run("filters marks never drawn", func(t *testing.T) {
		got := markedAndDrawn([]int{4, 19, 62, 70}, []int{19, 70, 3, 44})
		want := []int{19, 70}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("markedAndDrawn = %v, want %v", got, want)
		}
	})

	t.Run("no draws means no covered numbers", func(t *testing.T) {
		if got := markedAndDrawn([]int{1, 2, 3}, nil); len(got) != 0 {
			t.Fatalf("markedAndDrawn with empty draw history = %v, want empty", got)
		}
	})

	t.Run("preserves mark order", func(t *testing.T) {
		got := markedAndDrawn([]int{9, 5, 1}, []int{1, 5, 9})
		want := []int{9, 5, 1}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("markedAndDrawn = %v, want %v", got, want)
		}
	})
}
