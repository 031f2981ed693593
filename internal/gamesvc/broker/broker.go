package broker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/bingo"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/service"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
)

const (
	publishTopic   = "game.service"
	requestTimeout = 30 * time.Second
)

// Broker bridges socket traffic to the game services: it consumes request
// messages from the socket service, invokes the matching operation and
// publishes the reply. Room-wide broadcasts are emitted by the services
// themselves; the broker only answers the requesting socket.
type Broker struct {
	Conn         *nats.Conn
	RoomService  *service.RoomService
	DrawService  *service.DrawService
	ClaimService *service.ClaimService
	Wallets      *store.WalletStore
}

func NewBroker(nc *nats.Conn, roomService *service.RoomService,
	drawService *service.DrawService, claimService *service.ClaimService,
	wallets *store.WalletStore) *Broker {
	return &Broker{
		Conn:         nc,
		RoomService:  roomService,
		DrawService:  drawService,
		ClaimService: claimService,
		Wallets:      wallets,
	}
}

// handles message coming from socket
func (b *Broker) handleMessage(msgNat *nats.Msg) {
	msg := &comm.WSMessage{}
	err := json.Unmarshal(msgNat.Data, &msg)
	if err != nil {
		log.Errorf("Error nats message %s", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	switch msg.Type {
	case comm.TypeCreateRoom:
		b.handleCreateRoom(ctx, msg)
	case comm.TypeJoinRoom:
		b.handleJoinRoom(ctx, msg)
	case comm.TypeMarkReady:
		b.handleMarkReady(ctx, msg)
	case comm.TypeStartGame:
		b.handleStartGame(ctx, msg)
	case comm.TypeDrawNumber:
		b.handleDrawNumber(ctx, msg)
	case comm.TypeMarkNumber:
		b.handleMarkNumber(ctx, msg)
	case comm.TypeClaimBingo:
		b.handleClaimBingo(ctx, msg)
	case comm.TypeGetRoom:
		b.handleGetRoom(ctx, msg)
	case comm.TypeGetCards:
		b.handleGetCards(ctx, msg)
	case comm.TypeGetDraws:
		b.handleGetDraws(ctx, msg)
	case comm.TypeGetBalance:
		b.handleGetBalance(ctx, msg)
	default:
		log.Errorf("Unknown message type %q", msg.Type)
	}
}

func (b *Broker) handleCreateRoom(ctx context.Context, msg *comm.WSMessage) {
	var req comm.CreateRoomData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	cost, err := decimal.NewFromString(req.CardCost)
	if err != nil {
		b.publishError(msg, "invalid card cost")
		return
	}
	cfg := service.RoomConfig{
		Currency:          models.Currency(req.Currency),
		Mode:              bingo.Mode(req.Mode),
		VictoryMode:       bingo.Victory(req.Victory),
		CardCost:          cost,
		MaxPlayers:        req.Capacity,
		MaxCardsPerPlayer: req.MaxCards,
		Password:          req.Password,
	}

	room, card, err := b.RoomService.CreateRoom(ctx, req.UserID, cfg)
	if err != nil {
		log.Errorf("Error [RoomService.CreateRoom] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.CardsData{RoomID: room.ID, Cards: []*models.Card{card}})
}

func (b *Broker) handleJoinRoom(ctx context.Context, msg *comm.WSMessage) {
	var req comm.JoinRoomData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	room, cards, err := b.RoomService.JoinRoom(ctx, req.RoomCode, req.UserID, req.CardCount, req.Password)
	if err != nil {
		log.Errorf("Error [RoomService.JoinRoom] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.CardsData{RoomID: room.ID, Cards: cards})
}

func (b *Broker) handleMarkReady(ctx context.Context, msg *comm.WSMessage) {
	var req comm.RoomActionData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	allReady, err := b.RoomService.MarkReady(ctx, req.RoomID, req.UserID)
	if err != nil {
		log.Errorf("Error [RoomService.MarkReady] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, struct {
		RoomID   int64 `json:"room_id"`
		AllReady bool  `json:"all_ready"`
	}{req.RoomID, allReady})
}

func (b *Broker) handleStartGame(ctx context.Context, msg *comm.WSMessage) {
	var req comm.RoomActionData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	room, err := b.RoomService.StartGame(ctx, req.RoomID, req.UserID)
	if err != nil {
		log.Errorf("Error [RoomService.StartGame] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.GameStartedData{RoomID: room.ID, Code: room.Code})
}

func (b *Broker) handleDrawNumber(ctx context.Context, msg *comm.WSMessage) {
	var req comm.RoomActionData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	drawn, remaining, err := b.DrawService.DrawNumber(ctx, req.RoomID, req.UserID)
	if err != nil {
		log.Errorf("Error [DrawService.DrawNumber] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.NumberDrawnData{
		RoomID: req.RoomID, Value: drawn.Value, Seq: drawn.Seq, Remaining: remaining,
	})
}

func (b *Broker) handleMarkNumber(ctx context.Context, msg *comm.WSMessage) {
	var req comm.MarkNumberData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	card, err := b.DrawService.MarkNumber(ctx, req.RoomID, req.UserID, req.CardID, req.Value)
	if err != nil {
		log.Errorf("Error [DrawService.MarkNumber] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.CardsData{RoomID: req.RoomID, Cards: []*models.Card{card}})
}

func (b *Broker) handleClaimBingo(ctx context.Context, msg *comm.WSMessage) {
	var req comm.ClaimBingoData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	winner, err := b.ClaimService.CallBingo(ctx, req.RoomID, req.UserID, req.CardID)
	if err != nil {
		log.Errorf("Error [ClaimService.CallBingo] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.ClaimPendingData{
		RoomID: req.RoomID, UserID: winner.UserID, CardID: winner.CardID,
		Pattern: string(winner.Pattern),
	})
}

func (b *Broker) handleGetRoom(ctx context.Context, msg *comm.WSMessage) {
	var req comm.GetRoomData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	room, err := b.RoomService.GetRoom(ctx, req.RoomCode)
	if err != nil {
		log.Errorf("Error [RoomService.GetRoom] %s", err)
		b.publishError(msg, err.Error())
		return
	}
	players, err := b.RoomService.GetRoomPlayers(ctx, room.ID)
	if err != nil {
		log.Errorf("Error [RoomService.GetRoomPlayers] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.RoomStateData{Room: room, Players: players})
}

func (b *Broker) handleGetCards(ctx context.Context, msg *comm.WSMessage) {
	var req comm.GetCardsData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	cards, err := b.RoomService.GetPlayerCards(ctx, req.RoomID, req.UserID)
	if err != nil {
		log.Errorf("Error [RoomService.GetPlayerCards] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.CardsData{RoomID: req.RoomID, Cards: cards})
}

func (b *Broker) handleGetDraws(ctx context.Context, msg *comm.WSMessage) {
	var req comm.GetCardsData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	draws, err := b.DrawService.DrawHistory(ctx, req.RoomID)
	if err != nil {
		log.Errorf("Error [DrawService.DrawHistory] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.DrawsData{RoomID: req.RoomID, Draws: draws})
}

func (b *Broker) handleGetBalance(ctx context.Context, msg *comm.WSMessage) {
	var req comm.GetBalanceData
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		log.Errorf("Error decoding %s: %s", msg.Type, err)
		return
	}

	currency, err := models.ParseCurrency(req.Currency)
	if err != nil {
		b.publishError(msg, err.Error())
		return
	}
	balance, err := b.Wallets.Balance(ctx, req.UserID, currency)
	if err != nil {
		log.Errorf("Error [Wallets.Balance] %s", err)
		b.publishError(msg, err.Error())
		return
	}

	b.publishResponse(msg, comm.BalanceData{
		UserID: req.UserID, Currency: string(currency), Balance: balance.StringFixed(2),
	})
}

// publishResponse answers the requesting socket with "<request>-response".
func (b *Broker) publishResponse(req *comm.WSMessage, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Errorf("unable to marshal %s response: %s", req.Type, err)
		return
	}

	msg := &comm.WSMessage{
		Type:     req.Type + "-response",
		Data:     data,
		SocketId: req.SocketId,
	}

	out, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(publishTopic, out)
}

func (b *Broker) publishError(req *comm.WSMessage, message string) {
	data, err := json.Marshal(comm.ErrorData{Request: req.Type, Message: message})
	if err != nil {
		log.Errorf("unable to marshal error response: %s", err)
		return
	}

	msg := &comm.WSMessage{
		Type:     comm.EventError,
		Data:     data,
		SocketId: req.SocketId,
	}

	out, err := json.Marshal(msg)
	if err != nil {
		log.Errorf("Error %s", err)
		return
	}

	b.Publish(publishTopic, out)
}

// consume message from socket service
func (b *Broker) SubscribSocketService(topic string) (*nats.Subscription, error) {
	sub, err := b.Conn.Subscribe(topic, b.handleMessage)
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (b *Broker) Publish(topic string, payload []byte) error {
	err := b.Conn.Publish(topic, payload)
	if err != nil {
		log.Errorf("Error publishing to topic %s: %s", topic, err)
		return err
	}

	return nil
}
