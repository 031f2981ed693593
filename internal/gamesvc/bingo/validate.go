package bingo

import "errors"

// ErrUnknownVictory is returned for a victory mode outside the closed set.
// Callers treat it as "not a win" (fail closed).
var ErrUnknownVictory = errors.New("unknown victory mode")

// IsWinning decides whether the marked numbers complete the victory pattern
// on the grid. Free and blank cells count as covered inside rows and the
// full house; columns and diagonals only exist on square cards, because on
// the 9x3 layout the blanks would turn any short column into a free line.
// A corner must hold a real marked number.
func IsWinning(grid Grid, marked []int, victory Victory) (bool, error) {
	if len(grid) == 0 {
		return false, nil
	}

	markedSet := make(map[int]bool, len(marked))
	for _, n := range marked {
		markedSet[n] = true
	}
	covered := func(r, c int) bool {
		v := grid[r][c]
		return v == FreeCell || markedSet[v]
	}

	rows, cols := len(grid), len(grid[0])

	switch victory {
	case VictoryLine:
		for r := 0; r < rows; r++ {
			full := true
			for c := 0; c < cols; c++ {
				if !covered(r, c) {
					full = false
					break
				}
			}
			if full {
				return true, nil
			}
		}
		if rows != cols {
			return false, nil
		}
		for c := 0; c < cols; c++ {
			full := true
			for r := 0; r < rows; r++ {
				if !covered(r, c) {
					full = false
					break
				}
			}
			if full {
				return true, nil
			}
		}
		diag1, diag2 := true, true
		for i := 0; i < rows; i++ {
			if !covered(i, i) {
				diag1 = false
			}
			if !covered(i, rows-1-i) {
				diag2 = false
			}
		}
		return diag1 || diag2, nil

	case VictoryCorners:
		corner := func(r, c int) bool {
			v := grid[r][c]
			return v != FreeCell && markedSet[v]
		}
		return corner(0, 0) && corner(0, cols-1) &&
			corner(rows-1, 0) && corner(rows-1, cols-1), nil

	case VictoryFull:
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				if !covered(r, c) {
					return false, nil
				}
			}
		}
		return true, nil
	}

	return false, ErrUnknownVictory
}
