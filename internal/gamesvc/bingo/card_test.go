package bingo

import (
	"math/rand"
	"testing"
)

func TestNewCard75(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 200; i++ {
		g, err := NewCard(Mode75, rng)
		if err != nil {
			t.Fatalf("NewCard(75): %v", err)
		}
		if len(g) != 5 {
			t.Fatalf("expected 5 rows, got %d", len(g))
		}

		seen := map[int]bool{}
		for r := 0; r < 5; r++ {
			if len(g[r]) != 5 {
				t.Fatalf("row %d: expected 5 cols, got %d", r, len(g[r]))
			}
			for c := 0; c < 5; c++ {
				v := g[r][c]
				if r == 2 && c == 2 {
					if v != FreeCell {
						t.Fatalf("center cell = %d, want free", v)
					}
					continue
				}
				lo, hi := 15*c+1, 15*c+15
				if v < lo || v > hi {
					t.Fatalf("cell (%d,%d)=%d outside column range [%d,%d]", r, c, v, lo, hi)
				}
				if seen[v] {
					t.Fatalf("duplicate number %d on card", v)
				}
				seen[v] = true
			}
		}
	}
}

func TestNewCard90(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		g, err := NewCard(Mode90, rng)
		if err != nil {
			t.Fatalf("NewCard(90): %v", err)
		}
		if len(g) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(g))
		}

		total := 0
		seen := map[int]bool{}
		for r := 0; r < 3; r++ {
			filled := 0
			for c := 0; c < 9; c++ {
				v := g[r][c]
				if v == FreeCell {
					continue
				}
				filled++
				total++
				lo, hi := 10*c+1, 10*c+10
				if v < lo || v > hi {
					t.Fatalf("cell (%d,%d)=%d outside column range [%d,%d]", r, c, v, lo, hi)
				}
				if seen[v] {
					t.Fatalf("duplicate number %d on card", v)
				}
				seen[v] = true
			}
			if filled != 5 {
				t.Fatalf("row %d has %d numbers, want 5", r, filled)
			}
		}
		if total != 15 {
			t.Fatalf("card has %d numbers, want 15", total)
		}

		for c := 0; c < 9; c++ {
			count := 0
			prev := 0
			for r := 0; r < 3; r++ {
				if v := g[r][c]; v != FreeCell {
					count++
					if v <= prev {
						t.Fatalf("column %d not ascending", c)
					}
					prev = v
				}
			}
			if count < 1 || count > 3 {
				t.Fatalf("column %d has %d numbers, want 1..3", c, count)
			}
		}
	}
}

func TestNewCards(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	grids, err := NewCards(Mode75, 4, rng)
	if err != nil {
		t.Fatalf("NewCards: %v", err)
	}
	if len(grids) != 4 {
		t.Fatalf("expected 4 cards, got %d", len(grids))
	}
}

func TestNewCardUnknownMode(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	if _, err := NewCard(Mode(42), rng); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}
