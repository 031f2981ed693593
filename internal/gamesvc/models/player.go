package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomPlayer is the membership of one user in one room. Created on room
// creation (host) or first card purchase, accumulated on later purchases,
// never hard-deleted.
type RoomPlayer struct {
	ID          int64           `json:"id"`
	RoomID      int64           `json:"room_id"`
	UserID      int64           `json:"user_id"`
	CardCount   int             `json:"card_count"`
	ReadyAt     *time.Time      `json:"ready_at,omitempty"` // nil until the player marks ready
	IsHost      bool            `json:"is_host"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	Wins        int             `json:"wins"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func (p *RoomPlayer) Ready() bool {
	return p.ReadyAt != nil
}
