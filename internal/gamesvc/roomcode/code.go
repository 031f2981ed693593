// Package roomcode generates human-shareable room codes. Uniqueness among
// active rooms is enforced by the rooms table unique index; callers retry on
// collision.
package roomcode

import "math/rand"

// alphabet avoids look-alike characters (0/O, 1/I/L).
const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

// Length of a room code.
const Length = 6

// New returns a fresh random room code.
func New(rng *rand.Rand) string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = alphabet[rng.Intn(len(alphabet))]
	}
	return string(b)
}
