package comm

import (
	"encoding/json"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

// WSMessage is the envelope every message crosses NATS and the websocket
// in. SocketId routes replies back to one client; broadcasts leave it empty.
type WSMessage struct {
	Type     string          `json:"type"` // e.g. "create-room", "number-drawn"
	Data     json.RawMessage `json:"data"`
	SocketId string          `json:"socketid"`
}

// Request types, socket -> game service.
const (
	TypeCreateRoom = "create-room"
	TypeJoinRoom   = "join-room"
	TypeMarkReady  = "mark-ready"
	TypeStartGame  = "start-game"
	TypeDrawNumber = "draw-number"
	TypeMarkNumber = "mark-number"
	TypeClaimBingo = "claim-bingo"
	TypeGetRoom    = "get-room"
	TypeGetCards   = "get-cards"
	TypeGetDraws   = "get-draws"
	TypeGetBalance = "get-balance"
)

// Event types, game service -> sockets.
const (
	EventPlayerJoined  = "player-joined"
	EventGameStarted   = "game-started"
	EventNumberDrawn   = "number-drawn"
	EventNumberMarked  = "number-marked"
	EventClaimPending  = "claim-pending"
	EventClaimInvalid  = "claim-invalid"
	EventGameOver      = "game-over"
	EventRoomCanceled  = "room-canceled"
	EventHostAbandoned = "host-abandoned"
	EventError         = "error"
)

type CreateRoomData struct {
	UserID   int64  `json:"user_id"`
	Currency string `json:"currency"`
	Mode     int    `json:"mode"`
	Victory  string `json:"victory"`
	CardCost string `json:"card_cost"`
	MaxCards int    `json:"max_cards"`
	Capacity int    `json:"capacity"`
	Password string `json:"password,omitempty"`
}

type JoinRoomData struct {
	UserID    int64  `json:"user_id"`
	RoomCode  string `json:"room_code"`
	CardCount int    `json:"card_count"`
	Password  string `json:"password,omitempty"`
}

type RoomActionData struct {
	UserID int64 `json:"user_id"`
	RoomID int64 `json:"room_id"`
}

type MarkNumberData struct {
	UserID int64 `json:"user_id"`
	RoomID int64 `json:"room_id"`
	CardID int64 `json:"card_id"`
	Value  int   `json:"value"`
}

type ClaimBingoData struct {
	UserID int64 `json:"user_id"`
	RoomID int64 `json:"room_id"`
	CardID int64 `json:"card_id"`
}

type GetRoomData struct {
	RoomCode string `json:"room_code"`
}

type GetCardsData struct {
	UserID int64 `json:"user_id"`
	RoomID int64 `json:"room_id"`
}

type GetBalanceData struct {
	UserID   int64  `json:"user_id"`
	Currency string `json:"currency"`
}

type PlayerJoinedData struct {
	Room      *models.Room `json:"room"`
	UserID    int64        `json:"user_id"`
	CardCount int          `json:"card_count"`
}

type GameStartedData struct {
	RoomID int64  `json:"room_id"`
	Code   string `json:"code"`
}

type NumberDrawnData struct {
	RoomID    int64  `json:"room_id"`
	Code      string `json:"code"`
	Value     int    `json:"value"`
	Seq       int    `json:"seq"`
	Remaining int    `json:"remaining"`
}

type NumberMarkedData struct {
	RoomID int64  `json:"room_id"`
	Code   string `json:"code"`
	CardID int64  `json:"card_id"`
	UserID int64  `json:"user_id"`
	Value  int    `json:"value"`
}

type ClaimPendingData struct {
	RoomID  int64  `json:"room_id"`
	Code    string `json:"code"`
	UserID  int64  `json:"user_id"`
	CardID  int64  `json:"card_id"`
	Pattern string `json:"pattern"`
}

type ClaimInvalidData struct {
	RoomID int64  `json:"room_id"`
	Code   string `json:"code"`
	UserID int64  `json:"user_id"`
	CardID int64  `json:"card_id"`
	Reason string `json:"reason"`
}

type WinnerData struct {
	UserID int64  `json:"user_id"`
	CardID int64  `json:"card_id"`
	Prize  string `json:"prize"`
}

type GameOverData struct {
	RoomID        int64        `json:"room_id"`
	Code          string       `json:"code"`
	Pot           string       `json:"pot"`
	Winners       []WinnerData `json:"winners"`
	HostShare     string       `json:"host_share"`
	PlatformShare string       `json:"platform_share"`
}

type RoomCanceledData struct {
	RoomID int64  `json:"room_id"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type HostAbandonedData struct {
	RoomID int64  `json:"room_id"`
	Code   string `json:"code"`
}

type RoomStateData struct {
	Room    *models.Room         `json:"room"`
	Players []*models.RoomPlayer `json:"players"`
}

type CardsData struct {
	RoomID int64          `json:"room_id"`
	Cards  []*models.Card `json:"cards"`
}

type DrawsData struct {
	RoomID int64                 `json:"room_id"`
	Draws  []*models.DrawnNumber `json:"draws"`
}

type BalanceData struct {
	UserID   int64  `json:"user_id"`
	Currency string `json:"currency"`
	Balance  string `json:"balance"`
}

type ErrorData struct {
	Request string `json:"request"`
	Message string `json:"message"`
}
