package roomcode

import (
	"math/rand"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	rng := rand.New(rand.NewSource(5))

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		code := New(rng)
		if len(code) != Length {
			t.Fatalf("code %q has length %d, want %d", code, len(code), Length)
		}
		for _, ch := range code {
			if !strings.ContainsRune(alphabet, ch) {
				t.Fatalf("code %q contains %q outside alphabet", code, ch)
			}
		}
		seen[code] = true
	}
	// ~31^6 space, 1000 draws should essentially never collide
	if len(seen) < 995 {
		t.Fatalf("too many collisions: %d unique of 1000", len(seen))
	}
}
