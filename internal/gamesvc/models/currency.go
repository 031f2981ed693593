package models

import "fmt"

// Currency is the closed set of virtual currencies a room can be played for.
// It is always a column value in balances and ledger rows, never a
// dynamically selected field.
type Currency string

const (
	CurrencyCoins Currency = "coins"
	CurrencyFires Currency = "fires"
)

var currencies = map[Currency]string{
	CurrencyCoins: "Coins",
	CurrencyFires: "Fires",
}

func ParseCurrency(s string) (Currency, error) {
	c := Currency(s)
	if _, ok := currencies[c]; !ok {
		return "", fmt.Errorf("unknown currency %q", s)
	}
	return c, nil
}

func (c Currency) Valid() bool {
	_, ok := currencies[c]
	return ok
}

// Label is the display name used in ledger descriptions.
func (c Currency) Label() string {
	return currencies[c]
}
