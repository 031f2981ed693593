package bingo

import (
	"errors"
	"math/rand"
	"testing"
)

func TestDrawExhaustsPoolWithoutRepeats(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for _, mode := range []Mode{Mode75, Mode90} {
		max := mode.MaxNumber()
		drawn := []int{}
		seen := map[int]bool{}

		for i := 0; i < max; i++ {
			v, err := Draw(drawn, max, rng)
			if err != nil {
				t.Fatalf("draw %d: %v", i+1, err)
			}
			if v < 1 || v > max {
				t.Fatalf("drawn value %d outside [1,%d]", v, max)
			}
			if seen[v] {
				t.Fatalf("value %d drawn twice", v)
			}
			seen[v] = true
			drawn = append(drawn, v)
		}

		if _, err := Draw(drawn, max, rng); !errors.Is(err, ErrNoNumbersRemaining) {
			t.Fatalf("expected ErrNoNumbersRemaining after %d draws, got %v", max, err)
		}
		if len(drawn) != max {
			t.Fatalf("drawn count %d, want %d", len(drawn), max)
		}
	}
}

func TestRemaining(t *testing.T) {
	rest := Remaining([]int{1, 3, 5}, 6)
	want := []int{2, 4, 6}
	if len(rest) != len(want) {
		t.Fatalf("remaining %v, want %v", rest, want)
	}
	for i := range want {
		if rest[i] != want[i] {
			t.Fatalf("remaining %v, want %v", rest, want)
		}
	}
}
