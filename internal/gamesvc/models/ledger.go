package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ledger entry types.
const (
	LedgerCardPurchase  = "card_purchase"
	LedgerRefund        = "refund"
	LedgerPrizeWinner   = "prize_winner"
	LedgerPrizeHost     = "prize_host"
	LedgerPrizePlatform = "prize_platform"
)

// LedgerEntry is the append-only audit record written in the same unit of
// work as every wallet mutation. Amount is signed: negative for debits,
// positive for credits. BalanceAfter = BalanceBefore + Amount always holds.
type LedgerEntry struct {
	ID            int64           `json:"id"`
	OwnerID       int64           `json:"owner_id"`
	TType         string          `json:"ttype"`
	Currency      Currency        `json:"currency"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Description   string          `json:"description"`
	RoomRef       string          `json:"room_ref"` // room code, empty for off-room entries
	CreatedAt     time.Time       `json:"created_at"`
}
