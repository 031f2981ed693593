package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/bingo"
)

// Room statuses. lobby, ready and starting are all pre-game and joinable;
// playing, finished and canceled are not.
const (
	RoomStatusLobby    = "lobby"
	RoomStatusReady    = "ready"
	RoomStatusStarting = "starting"
	RoomStatusPlaying  = "playing"
	RoomStatusFinished = "finished"
	RoomStatusCanceled = "canceled"
)

// Room is one bingo game instance with its own pot, players and draw history.
type Room struct {
	ID                int64           `json:"id"`
	Code              string          `json:"code"` // human-shareable, unique
	HostID            int64           `json:"host_id"`
	Currency          Currency        `json:"currency"`
	Mode              bingo.Mode      `json:"mode"`
	VictoryMode       bingo.Victory   `json:"victory_mode"`
	CardCost          decimal.Decimal `json:"card_cost"`
	MaxPlayers        int             `json:"max_players"`
	MaxCardsPerPlayer int             `json:"max_cards_per_player"`
	Pot               decimal.Decimal `json:"pot"`
	Password          string          `json:"-"` // empty means public
	Status            string          `json:"status"`
	Abandoned         bool            `json:"abandoned"`
	CreatedAt         time.Time       `json:"created_at"`
	StartedAt         *time.Time      `json:"started_at,omitempty"`
	EndedAt           *time.Time      `json:"ended_at,omitempty"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// Joinable reports whether players may still buy into the room.
func (r *Room) Joinable() bool {
	switch r.Status {
	case RoomStatusLobby, RoomStatusReady, RoomStatusStarting:
		return true
	}
	return false
}
