package prize

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoWinners is an invariant violation: distribution must never run
// without at least one validated winner.
var ErrNoWinners = errors.New("no validated winners")

var (
	winnerRate        = decimal.RequireFromString("0.70")
	hostRate          = decimal.RequireFromString("0.20")
	platformRate      = decimal.RequireFromString("0.10")
	platformRateAband = decimal.RequireFromString("0.30")
)

// Split is a fully computed prize distribution. The shares always sum to the
// pot exactly: the platform share absorbs the pot-level remainder and the
// last co-winner absorbs the division residue of the winner pool.
type Split struct {
	WinnerShares  []decimal.Decimal
	HostShare     decimal.Decimal
	PlatformShare decimal.Decimal
}

// Total returns the sum of every share.
func (s Split) Total() decimal.Decimal {
	t := s.HostShare.Add(s.PlatformShare)
	for _, w := range s.WinnerShares {
		t = t.Add(w)
	}
	return t
}

// Compute splits the pot: 70% to winners (divided evenly), 20% to the host
// and 10% to the platform. When the host is flagged abandoned the host share
// is forfeited to the platform (70/0/30).
func Compute(pot decimal.Decimal, winnerCount int, abandoned bool) (Split, error) {
	if winnerCount < 1 {
		return Split{}, ErrNoWinners
	}

	pool := pot.Mul(winnerRate)
	host := pot.Mul(hostRate)
	if abandoned {
		host = decimal.Zero
	}
	platform := pot.Sub(pool).Sub(host)

	shares := make([]decimal.Decimal, winnerCount)
	per := pool.Div(decimal.NewFromInt(int64(winnerCount)))
	rest := pool
	for i := 0; i < winnerCount-1; i++ {
		shares[i] = per
		rest = rest.Sub(per)
	}
	shares[winnerCount-1] = rest

	return Split{WinnerShares: shares, HostShare: host, PlatformShare: platform}, nil
}
