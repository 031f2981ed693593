package service

import (
	"errors"
	"testing"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/bingo"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

func TestMarkable(t *testing.T) {
	card := &models.Card{
		Grid: bingo.Grid{
			{1, 16, 31, 46, 61},
			{2, 17, 32, 47, 62},
			{3, 18, bingo.FreeCell, 48, 63},
			{4, 19, 34, 49, 64},
			{5, 20, 35, 50, 65},
		},
	}
	drawn := []int{16, 47, 63}

	t.Run("drawn number on the card", func(t *testing.T) {
		if err := markable(card, drawn, 47); err != nil {
			t.Fatalf("markable = %v, want nil", err)
		}
	})

	t.Run("undrawn number is rejected", func(t *testing.T) {
		if err := markable(card, drawn, 34); !errors.Is(err, ErrNumberNotDrawn) {
			t.Fatalf("markable = %v, want ErrNumberNotDrawn", err)
		}
	})

	t.Run("number not on the card", func(t *testing.T) {
		if err := markable(card, drawn, 75); !errors.Is(err, ErrNumberNotOnCard) {
			t.Fatalf("markable = %v, want ErrNumberNotOnCard", err)
		}
	})

	t.Run("nothing drawn yet", func(t *testing.T) {
		if err := markable(card, nil, 1); !errors.Is(err, ErrNumberNotDrawn) {
			t.Fatalf("markable = %v, want ErrNumberNotDrawn", err)
		}
	})
}
