package prize

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestComputeSingleWinner(t *testing.T) {
	// pot 20: winner 14, host 4, platform 2
	s, err := Compute(decimal.NewFromInt(20), 1, false)
	require.NoError(t, err)
	require.Len(t, s.WinnerShares, 1)
	require.True(t, s.WinnerShares[0].Equal(decimal.NewFromInt(14)), "winner share %s", s.WinnerShares[0])
	require.True(t, s.HostShare.Equal(decimal.NewFromInt(4)), "host share %s", s.HostShare)
	require.True(t, s.PlatformShare.Equal(decimal.NewFromInt(2)), "platform share %s", s.PlatformShare)
}

func TestComputeAbandonedHost(t *testing.T) {
	// pot 20, host abandoned: winner 14, host 0, platform 6
	s, err := Compute(decimal.NewFromInt(20), 1, true)
	require.NoError(t, err)
	require.True(t, s.WinnerShares[0].Equal(decimal.NewFromInt(14)))
	require.True(t, s.HostShare.IsZero())
	require.True(t, s.PlatformShare.Equal(decimal.NewFromInt(6)), "platform share %s", s.PlatformShare)
}

func TestComputeCoWinners(t *testing.T) {
	// pot 20, two winners: 7 each, host 4, platform 2
	s, err := Compute(decimal.NewFromInt(20), 2, false)
	require.NoError(t, err)
	require.Len(t, s.WinnerShares, 2)
	require.True(t, s.WinnerShares[0].Equal(decimal.NewFromInt(7)))
	require.True(t, s.WinnerShares[1].Equal(decimal.NewFromInt(7)))
	require.True(t, s.HostShare.Equal(decimal.NewFromInt(4)))
	require.True(t, s.PlatformShare.Equal(decimal.NewFromInt(2)))
}

func TestComputeNoWinners(t *testing.T) {
	_, err := Compute(decimal.NewFromInt(20), 0, false)
	require.ErrorIs(t, err, ErrNoWinners)
}

// Conservation: for any pot, winner count and abandonment flag the shares
// must sum to the pot exactly.
func TestComputeConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 500; i++ {
		pot := decimal.NewFromInt(int64(rng.Intn(100000) + 1)).
			Div(decimal.NewFromInt(int64(rng.Intn(9) + 1)))
		winners := rng.Intn(7) + 1
		abandoned := rng.Intn(2) == 0

		s, err := Compute(pot, winners, abandoned)
		require.NoError(t, err)
		require.True(t, s.Total().Equal(pot),
			"pot %s winners %d abandoned %v: distributed %s", pot, winners, abandoned, s.Total())
		if abandoned {
			require.True(t, s.HostShare.IsZero())
		}
		for _, w := range s.WinnerShares {
			require.True(t, w.IsPositive(), "winner share must be positive, got %s", w)
		}
	}
}
