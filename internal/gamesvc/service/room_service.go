package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/bingo"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/events"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/roomcode"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
)

const codeAttempts = 5

// RoomConfig is the host's room setup.
type RoomConfig struct {
	Currency          models.Currency `json:"currency"`
	Mode              bingo.Mode      `json:"mode"`
	VictoryMode       bingo.Victory   `json:"victory_mode"`
	CardCost          decimal.Decimal `json:"card_cost"`
	MaxPlayers        int             `json:"max_players"`
	MaxCardsPerPlayer int             `json:"max_cards_per_player"`
	Password          string          `json:"password,omitempty"`
}

func (c RoomConfig) validate() error {
	if !c.Currency.Valid() {
		return fmt.Errorf("%w: currency %q", ErrInvalidConfig, c.Currency)
	}
	if _, err := bingo.ParseMode(int(c.Mode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := bingo.ParseVictory(string(c.VictoryMode)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if !c.CardCost.IsPositive() {
		return fmt.Errorf("%w: card cost must be positive", ErrInvalidConfig)
	}
	if c.MaxPlayers < 2 {
		return fmt.Errorf("%w: need at least two player slots", ErrInvalidConfig)
	}
	if c.MaxCardsPerPlayer < 1 {
		return fmt.Errorf("%w: max cards per player must be at least one", ErrInvalidConfig)
	}
	return nil
}

// RoomService owns the room lifecycle: creation, joining and card purchase,
// ready-marking and game start. Every operation is one transaction under the
// room row lock.
type RoomService struct {
	pool    *pgxpool.Pool
	rooms   *store.RoomStore
	players *store.PlayerStore
	cards   *store.CardStore
	wallets *store.WalletStore
	ledger  *store.LedgerStore
	emitter *events.Emitter
	rng     *lockedRand
}

func NewRoomService(pool *pgxpool.Pool, rooms *store.RoomStore, players *store.PlayerStore,
	cards *store.CardStore, wallets *store.WalletStore, ledger *store.LedgerStore,
	emitter *events.Emitter) *RoomService {
	return &RoomService{
		pool:    pool,
		rooms:   rooms,
		players: players,
		cards:   cards,
		wallets: wallets,
		ledger:  ledger,
		emitter: emitter,
		rng:     newLockedRand(),
	}
}

// CreateRoom reserves a unique code, debits the host one card cost into the
// pot and seats the host with their first card, all in one unit of work.
func (s *RoomService) CreateRoom(ctx context.Context, hostID int64, cfg RoomConfig) (*models.Room, *models.Card, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}

	var (
		room *models.Room
		card *models.Card
	)
	for attempt := 0; attempt < codeAttempts; attempt++ {
		var code string
		var grid bingo.Grid
		err := s.rng.do(func(rng *rand.Rand) error {
			code = roomcode.New(rng)
			g, err := bingo.NewCard(cfg.Mode, rng)
			grid = g
			return err
		})
		if err != nil {
			return nil, nil, err
		}

		room, card, err = s.createRoomTx(ctx, hostID, cfg, code, grid)
		if errors.Is(err, store.ErrCodeTaken) {
			log.Warnf("room code %s collided, retrying", code)
			continue
		}
		if err != nil {
			return nil, nil, err
		}

		s.emitter.Emit(comm.EventPlayerJoined, comm.PlayerJoinedData{
			Room: room, UserID: hostID, CardCount: 1,
		}, "")
		return room, card, nil
	}
	return nil, nil, fmt.Errorf("could not reserve a unique room code after %d attempts", codeAttempts)
}

func (s *RoomService) createRoomTx(ctx context.Context, hostID int64, cfg RoomConfig, code string, grid bingo.Grid) (*models.Room, *models.Card, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room := &models.Room{
		Code:              code,
		HostID:            hostID,
		Currency:          cfg.Currency,
		Mode:              cfg.Mode,
		VictoryMode:       cfg.VictoryMode,
		CardCost:          cfg.CardCost,
		MaxPlayers:        cfg.MaxPlayers,
		MaxCardsPerPlayer: cfg.MaxCardsPerPlayer,
		Pot:               cfg.CardCost,
		Password:          cfg.Password,
		Status:            models.RoomStatusLobby,
	}
	if err := s.rooms.Create(ctx, tx, room); err != nil {
		return nil, nil, err
	}

	ref := purchaseRef()
	before, after, err := s.wallets.Debit(ctx, tx, hostID, room.Currency, room.CardCost, models.LedgerCardPurchase, ref)
	if err != nil {
		return nil, nil, err
	}

	host := &models.RoomPlayer{
		RoomID:    room.ID,
		UserID:    hostID,
		CardCount: 1,
		ReadyAt:   &room.CreatedAt, // host is ready from the start
		IsHost:    true,
	}
	if err := s.players.Create(ctx, tx, host); err != nil {
		return nil, nil, err
	}

	card := &models.Card{RoomID: room.ID, UserID: hostID, CardNo: 1, Grid: grid}
	if err := s.cards.Create(ctx, tx, card); err != nil {
		return nil, nil, err
	}

	err = s.ledger.Append(ctx, tx, &models.LedgerEntry{
		OwnerID:       hostID,
		TType:         models.LedgerCardPurchase,
		Currency:      room.Currency,
		Amount:        room.CardCost.Neg(),
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   fmt.Sprintf("room %s created, 1 card", room.Code),
		RoomRef:       room.Code,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := s.ledger.AppendAudit(ctx, tx, room.ID, hostID, models.LedgerCardPurchase, room.Currency, room.CardCost, ref); err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}
	return room, card, nil
}

// JoinRoom seats a user (or tops up a returning buyer) with cardCount new
// cards. Capacity applies to new players only; the per-player card cap
// applies to the cumulative total.
func (s *RoomService) JoinRoom(ctx context.Context, code string, userID int64, cardCount int, password string) (*models.Room, []*models.Card, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByCodeForUpdate(ctx, tx, code)
	if err != nil {
		return nil, nil, err
	}
	if !room.Joinable() {
		return nil, nil, ErrRoomClosed
	}
	if room.Password != "" && room.Password != password {
		return nil, nil, ErrBadPassword
	}
	player, err := s.players.GetForUpdate(ctx, tx, room.ID, userID)
	if err != nil {
		return nil, nil, err
	}
	seated := 0
	if player == nil {
		seated, err = s.players.Count(ctx, tx, room.ID)
		if err != nil {
			return nil, nil, err
		}
	}
	if err := joinCapacity(room, player, seated, cardCount); err != nil {
		return nil, nil, err
	}

	cost := room.CardCost.Mul(decimal.NewFromInt(int64(cardCount)))
	ref := purchaseRef()
	before, after, err := s.wallets.Debit(ctx, tx, userID, room.Currency, cost, models.LedgerCardPurchase, ref)
	if err != nil {
		return nil, nil, err
	}

	if player == nil {
		player = &models.RoomPlayer{RoomID: room.ID, UserID: userID, CardCount: cardCount}
		if err := s.players.Create(ctx, tx, player); err != nil {
			return nil, nil, err
		}
	} else {
		if err := s.players.AddCards(ctx, tx, room.ID, userID, cardCount); err != nil {
			return nil, nil, err
		}
	}

	nextNo, err := s.cards.NextCardNo(ctx, tx, room.ID)
	if err != nil {
		return nil, nil, err
	}
	var grids []bingo.Grid
	err = s.rng.do(func(rng *rand.Rand) error {
		g, err := bingo.NewCards(room.Mode, cardCount, rng)
		grids = g
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	cards := make([]*models.Card, 0, cardCount)
	for i, grid := range grids {
		c := &models.Card{RoomID: room.ID, UserID: userID, CardNo: nextNo + i, Grid: grid}
		if err := s.cards.Create(ctx, tx, c); err != nil {
			return nil, nil, err
		}
		cards = append(cards, c)
	}

	if err := s.rooms.AddToPot(ctx, tx, room.ID, cost); err != nil {
		return nil, nil, err
	}
	room.Pot = room.Pot.Add(cost)

	err = s.ledger.Append(ctx, tx, &models.LedgerEntry{
		OwnerID:       userID,
		TType:         models.LedgerCardPurchase,
		Currency:      room.Currency,
		Amount:        cost.Neg(),
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   fmt.Sprintf("room %s, %d card(s)", room.Code, cardCount),
		RoomRef:       room.Code,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := s.ledger.AppendAudit(ctx, tx, room.ID, userID, models.LedgerCardPurchase, room.Currency, cost, ref); err != nil {
		return nil, nil, err
	}

	// a fresh joiner is not ready yet
	if room.Status == models.RoomStatusReady {
		if err := s.rooms.SetStatus(ctx, tx, room.ID, models.RoomStatusLobby); err != nil {
			return nil, nil, err
		}
		room.Status = models.RoomStatusLobby
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, nil, fmt.Errorf("commit tx: %w", err)
	}

	s.emitter.Emit(comm.EventPlayerJoined, comm.PlayerJoinedData{
		Room: room, UserID: userID, CardCount: cardCount,
	}, "")
	return room, cards, nil
}

// MarkReady timestamps the player's ready flag (idempotent) and reports
// whether the whole room is now ready. Starting stays an explicit host
// action so a fast joiner is never excluded by an automatic start.
func (s *RoomService) MarkReady(ctx context.Context, roomID, userID int64) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return false, err
	}
	if !room.Joinable() {
		return false, ErrRoomClosed
	}

	if err := s.players.MarkReady(ctx, tx, room.ID, userID); err != nil {
		return false, err
	}
	notReady, err := s.players.CountNotReady(ctx, tx, room.ID)
	if err != nil {
		return false, err
	}
	allReady := notReady == 0
	if allReady && room.Status == models.RoomStatusLobby {
		if err := s.rooms.SetStatus(ctx, tx, room.ID, models.RoomStatusReady); err != nil {
			return false, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return allReady, nil
}

// StartGame transitions the room to playing. Host-only, and legal from the
// ready status only, so a solo host cannot start before marking ready.
func (s *RoomService) StartGame(ctx context.Context, roomID, hostID int64) (*models.Room, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if err := startEligible(room, hostID); err != nil {
		return nil, err
	}
	notReady, err := s.players.CountNotReady(ctx, tx, room.ID)
	if err != nil {
		return nil, err
	}
	if notReady > 0 {
		return nil, ErrNotAllReady
	}

	if err := s.rooms.MarkStarted(ctx, tx, room.ID); err != nil {
		return nil, err
	}
	room.Status = models.RoomStatusPlaying

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.emitter.Emit(comm.EventGameStarted, comm.GameStartedData{
		RoomID: room.ID, Code: room.Code,
	}, "")
	return room, nil
}

// GetRoom is a plain read used by the transport layer.
func (s *RoomService) GetRoom(ctx context.Context, code string) (*models.Room, error) {
	return s.rooms.GetByCode(ctx, code)
}

// GetRoomPlayers is a plain read used by the transport layer.
func (s *RoomService) GetRoomPlayers(ctx context.Context, roomID int64) ([]*models.RoomPlayer, error) {
	return s.players.ListByRoom(ctx, roomID)
}

// GetPlayerCards is a plain read used by resuming clients.
func (s *RoomService) GetPlayerCards(ctx context.Context, roomID, userID int64) ([]*models.Card, error) {
	return s.cards.ListByRoomAndUser(ctx, roomID, userID)
}

// joinCapacity enforces the seat and per-player card caps for a purchase of
// cardCount cards. player is nil for a first-time joiner; seated is the
// current headcount and is consulted only then.
func joinCapacity(room *models.Room, player *models.RoomPlayer, seated, cardCount int) error {
	if cardCount < 1 || cardCount > room.MaxCardsPerPlayer {
		return ErrTooManyCards
	}
	if player == nil {
		if seated >= room.MaxPlayers {
			return ErrRoomFull
		}
		return nil
	}
	if player.CardCount+cardCount > room.MaxCardsPerPlayer {
		return ErrTooManyCards
	}
	return nil
}

// startEligible gates the start on host identity and room status. Only a
// room promoted to ready can start; a fresh lobby reports ErrNotAllReady.
func startEligible(room *models.Room, hostID int64) error {
	if room.HostID != hostID {
		return ErrNotHost
	}
	switch room.Status {
	case models.RoomStatusReady:
		return nil
	case models.RoomStatusPlaying:
		return ErrAlreadyStarted
	case models.RoomStatusFinished, models.RoomStatusCanceled:
		return ErrRoomClosed
	default:
		return ErrNotAllReady
	}
}

func purchaseRef() string {
	return "BUY-" + uuid.New().String()[:8]
}
