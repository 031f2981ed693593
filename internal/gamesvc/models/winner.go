package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/bingo"
)

// Winner is a validated claim. Prize stays zero until distribution runs.
// Multiple rows per room exist only when claims land inside the
// tie-arbitration window.
type Winner struct {
	ID        int64           `json:"id"`
	RoomID    int64           `json:"room_id"`
	UserID    int64           `json:"user_id"`
	CardID    int64           `json:"card_id"`
	Pattern   bingo.Victory   `json:"pattern"`
	Prize     decimal.Decimal `json:"prize"`
	ClaimedAt time.Time       `json:"claimed_at"`
}
