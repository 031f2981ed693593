package bingo

import (
	"errors"
	"math/rand"
)

// ErrNoNumbersRemaining is returned when the draw pool is exhausted.
var ErrNoNumbersRemaining = errors.New("no numbers remaining")

// Remaining returns the ascending complement of drawn within [1, max].
func Remaining(drawn []int, max int) []int {
	seen := make(map[int]bool, len(drawn))
	for _, v := range drawn {
		seen[v] = true
	}
	rest := make([]int, 0, max-len(drawn))
	for n := 1; n <= max; n++ {
		if !seen[n] {
			rest = append(rest, n)
		}
	}
	return rest
}

// Draw samples one undrawn number uniformly at random from [1, max].
func Draw(drawn []int, max int, rng *rand.Rand) (int, error) {
	rest := Remaining(drawn, max)
	if len(rest) == 0 {
		return 0, ErrNoNumbersRemaining
	}
	return rest[rng.Intn(len(rest))], nil
}
