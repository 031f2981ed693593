package bingo

import (
	"fmt"
	"math/rand"
	"sort"
)

// FreeCell marks the free center square (75-mode) or a blank cell (90-mode)
// inside a card grid. A free cell always counts as marked.
const FreeCell = 0

// Grid is a row-major bingo card grid.
type Grid [][]int

// NewCard generates one rule-valid card for the mode. Cards are independent:
// the same number may appear on several cards in one room.
func NewCard(mode Mode, rng *rand.Rand) (Grid, error) {
	switch mode {
	case Mode75:
		return newCard75(rng), nil
	case Mode90:
		return newCard90(rng), nil
	}
	return nil, fmt.Errorf("unknown numbering mode %d", mode)
}

// NewCards generates n independent cards.
func NewCards(mode Mode, n int, rng *rand.Rand) ([]Grid, error) {
	grids := make([]Grid, 0, n)
	for i := 0; i < n; i++ {
		g, err := NewCard(mode, rng)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}

// newCard75 builds the classic 5x5 card: column ranges 1-15, 16-30, 31-45,
// 46-60, 61-75, five unique numbers per column, free center.
func newCard75(rng *rand.Rand) Grid {
	g := make(Grid, 5)
	for r := range g {
		g[r] = make([]int, 5)
	}
	for c := 0; c < 5; c++ {
		perm := rng.Perm(15)
		for r := 0; r < 5; r++ {
			g[r][c] = 15*c + perm[r] + 1
		}
	}
	g[2][2] = FreeCell
	return g
}

// newCard90 builds the classic 9x3 card: 15 numbers, five per row, one to
// three per column, column c drawn from 10c+1..10c+10, ascending down each
// column. Unfilled cells are blank.
func newCard90(rng *rand.Rand) Grid {
	// one number per column, then spread the remaining six
	counts := make([]int, 9)
	for c := range counts {
		counts[c] = 1
	}
	for extra := 6; extra > 0; {
		c := rng.Intn(9)
		if counts[c] < 3 {
			counts[c]++
			extra--
		}
	}

	// place the fullest columns first so every row ends up with five cells
	order := rng.Perm(9)
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	g := make(Grid, 3)
	for r := range g {
		g[r] = make([]int, 9)
	}
	rowCap := []int{5, 5, 5}
	for _, c := range order {
		rows := rng.Perm(3)
		sort.SliceStable(rows, func(i, j int) bool {
			return rowCap[rows[i]] > rowCap[rows[j]]
		})
		rows = rows[:counts[c]]
		sort.Ints(rows)

		nums := rng.Perm(10)[:counts[c]]
		sort.Ints(nums)
		for i, r := range rows {
			g[r][c] = 10*c + nums[i] + 1
			rowCap[r]--
		}
	}
	return g
}
