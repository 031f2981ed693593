package bingo

import (
	"errors"
	"testing"
)

// grid75 is a fixed 5x5 card used across the validator tests.
func grid75() Grid {
	return Grid{
		{1, 16, 31, 46, 61},
		{2, 17, 32, 47, 62},
		{3, 18, FreeCell, 48, 63},
		{4, 19, 34, 49, 64},
		{5, 20, 35, 50, 65},
	}
}

func TestIsWinningLine(t *testing.T) {
	g := grid75()

	t.Run("full row", func(t *testing.T) {
		ok, err := IsWinning(g, []int{1, 16, 31, 46, 61}, VictoryLine)
		if err != nil || !ok {
			t.Fatalf("expected row win, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("full column", func(t *testing.T) {
		ok, err := IsWinning(g, []int{16, 17, 18, 19, 20}, VictoryLine)
		if err != nil || !ok {
			t.Fatalf("expected column win, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("diagonal through free center", func(t *testing.T) {
		ok, err := IsWinning(g, []int{1, 17, 49, 65}, VictoryLine)
		if err != nil || !ok {
			t.Fatalf("expected diagonal win, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("row through free center", func(t *testing.T) {
		ok, err := IsWinning(g, []int{3, 18, 48, 63}, VictoryLine)
		if err != nil || !ok {
			t.Fatalf("expected middle row win, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("incomplete", func(t *testing.T) {
		ok, err := IsWinning(g, []int{1, 16, 31, 46}, VictoryLine)
		if err != nil || ok {
			t.Fatalf("expected no win, got ok=%v err=%v", ok, err)
		}
	})
}

func TestIsWinningCorners(t *testing.T) {
	g := grid75()

	ok, err := IsWinning(g, []int{1, 61, 5, 65}, VictoryCorners)
	if err != nil || !ok {
		t.Fatalf("expected corners win, got ok=%v err=%v", ok, err)
	}

	ok, err = IsWinning(g, []int{1, 61, 5}, VictoryCorners)
	if err != nil || ok {
		t.Fatalf("expected no win with three corners, got ok=%v err=%v", ok, err)
	}
}

func TestIsWinningFull(t *testing.T) {
	g := grid75()

	all := []int{}
	for _, row := range g {
		for _, v := range row {
			if v != FreeCell {
				all = append(all, v)
			}
		}
	}

	ok, err := IsWinning(g, all, VictoryFull)
	if err != nil || !ok {
		t.Fatalf("expected blackout win, got ok=%v err=%v", ok, err)
	}

	ok, err = IsWinning(g, all[:len(all)-1], VictoryFull)
	if err != nil || ok {
		t.Fatalf("expected no blackout with one cell open, got ok=%v err=%v", ok, err)
	}
}

func TestIsWinning90ModeBlanks(t *testing.T) {
	g := Grid{
		{1, FreeCell, 21, FreeCell, 41, FreeCell, 61, FreeCell, 81},
		{FreeCell, 12, FreeCell, 32, FreeCell, 52, FreeCell, 72, 82},
		{2, 13, 22, FreeCell, 42, FreeCell, FreeCell, FreeCell, 83},
	}

	t.Run("row win with blanks covered", func(t *testing.T) {
		ok, err := IsWinning(g, []int{1, 21, 41, 61, 81}, VictoryLine)
		if err != nil || !ok {
			t.Fatalf("expected 90-mode row win, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("incomplete row is no win", func(t *testing.T) {
		ok, err := IsWinning(g, []int{1, 21, 41, 61}, VictoryLine)
		if err != nil || ok {
			t.Fatalf("expected no win, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("column of one number is no line", func(t *testing.T) {
		// column 6 holds only 61; blanks must not complete it
		ok, err := IsWinning(g, []int{61}, VictoryLine)
		if err != nil || ok {
			t.Fatalf("expected no column win on 9x3, got ok=%v err=%v", ok, err)
		}
	})

	t.Run("blank corner never satisfies corners", func(t *testing.T) {
		b := Grid{
			{FreeCell, 12, 21, FreeCell, 41, FreeCell, 61, FreeCell, 81},
			{1, FreeCell, FreeCell, 32, FreeCell, 52, FreeCell, 72, 82},
			{2, 13, 22, FreeCell, 42, FreeCell, FreeCell, FreeCell, 83},
		}
		ok, err := IsWinning(b, []int{81, 2, 83}, VictoryCorners)
		if err != nil || ok {
			t.Fatalf("expected no corners win with blank corner, got ok=%v err=%v", ok, err)
		}
	})
}

func TestIsWinningUnknownModeFailsClosed(t *testing.T) {
	ok, err := IsWinning(grid75(), []int{1, 2, 3}, Victory("zigzag"))
	if ok {
		t.Fatal("unknown victory mode must never win")
	}
	if !errors.Is(err, ErrUnknownVictory) {
		t.Fatalf("expected ErrUnknownVictory, got %v", err)
	}
}
