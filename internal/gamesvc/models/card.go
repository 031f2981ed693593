package models

import (
	"time"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/bingo"
)

// Card is one purchased ticket. The grid is immutable after purchase; the
// marked set only ever grows while the room is playing.
type Card struct {
	ID        int64      `json:"id"`
	RoomID    int64      `json:"room_id"`
	UserID    int64      `json:"user_id"`
	CardNo    int        `json:"card_no"` // sequential within the room
	Grid      bingo.Grid `json:"grid"`
	Marked    []int      `json:"marked"`
	IsWinner  bool       `json:"is_winner"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasNumber reports whether n appears on the card grid.
func (c *Card) HasNumber(n int) bool {
	for _, row := range c.Grid {
		for _, v := range row {
			if v == n {
				return true
			}
		}
	}
	return false
}

// HasMarked reports whether the owner already marked n.
func (c *Card) HasMarked(n int) bool {
	for _, v := range c.Marked {
		if v == n {
			return true
		}
	}
	return false
}
