package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/events"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
)

// distributor settles a room's pot. Satisfied by PayoutService; Distribute
// must stay a no-op on rooms no longer playing.
type distributor interface {
	Distribute(ctx context.Context, roomID int64) error
}

// MonitorService is the periodic sweep over sick rooms: lobbies nobody else
// joined get refunded and canceled, playing rooms with a silent caller get
// flagged abandoned, rooms whose tie window was lost to a restart get
// settled, and rooms that exhausted the pool without a winner get refunded
// and canceled. Each room is re-checked under its row lock before anything
// is written, so the sweep stays safe against concurrent play.
type MonitorService struct {
	pool    *pgxpool.Pool
	rooms   *store.RoomStore
	players *store.PlayerStore
	draws   *store.DrawStore
	winners *store.WinnerStore
	wallets *store.WalletStore
	ledger  *store.LedgerStore
	payout  distributor
	emitter *events.Emitter

	lobbyTTL      time.Duration
	abandonAfter  time.Duration
	settleAfter   time.Duration
	sweepInterval time.Duration
}

func NewMonitorService(pool *pgxpool.Pool, rooms *store.RoomStore, players *store.PlayerStore,
	draws *store.DrawStore, winners *store.WinnerStore, wallets *store.WalletStore,
	ledger *store.LedgerStore, payout distributor, emitter *events.Emitter,
	lobbyTTL, abandonAfter, settleAfter, sweepInterval time.Duration) *MonitorService {
	return &MonitorService{
		pool:          pool,
		rooms:         rooms,
		players:       players,
		draws:         draws,
		winners:       winners,
		wallets:       wallets,
		ledger:        ledger,
		payout:        payout,
		emitter:       emitter,
		lobbyTTL:      lobbyTTL,
		abandonAfter:  abandonAfter,
		settleAfter:   settleAfter,
		sweepInterval: sweepInterval,
	}
}

// Run sweeps on a fixed interval until ctx is canceled.
func (s *MonitorService) Run(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep runs one pass of all checks. Failures on one room never stop the
// rest of the sweep.
func (s *MonitorService) Sweep(ctx context.Context) {
	s.sweepIdleLobbies(ctx)
	s.sweepStalledRooms(ctx)
	s.sweepUnsettledRooms(ctx)
	s.sweepExhaustedRooms(ctx)
}

// sweepUnsettledRooms distributes playing rooms whose oldest validated claim
// has outlived the tie window. Normally the in-process timer settles first;
// this path recovers rooms orphaned by a restart. Distribute takes the room
// lock and no-ops on anything already settled, so racing the timer is safe.
func (s *MonitorService) sweepUnsettledRooms(ctx context.Context) {
	rooms, err := s.rooms.ListUnsettledPlaying(ctx, s.settleAfter)
	if err != nil {
		log.Errorf("sweep unsettled rooms: %v", err)
		return
	}
	for _, r := range rooms {
		s.settle(ctx, r)
	}
}

func (s *MonitorService) settle(ctx context.Context, room *models.Room) {
	log.Warnf("room %s: settling pot outside the tie window", room.Code)
	if err := s.payout.Distribute(ctx, room.ID); err != nil {
		log.Errorf("settle room %s: %v", room.Code, err)
	}
}

func (s *MonitorService) sweepIdleLobbies(ctx context.Context) {
	rooms, err := s.rooms.ListSingleIdleLobbies(ctx, s.lobbyTTL)
	if err != nil {
		log.Errorf("sweep idle lobbies: %v", err)
		return
	}
	for _, r := range rooms {
		if err := s.refundIdleLobby(ctx, r.ID); err != nil {
			log.Errorf("refund idle lobby %s: %v", r.Code, err)
		}
	}
}

// refundIdleLobby cancels a pre-game room that only ever held its host and
// returns the pot. The idle and headcount conditions are re-checked under
// the lock; a join racing the sweep wins.
func (s *MonitorService) refundIdleLobby(ctx context.Context, roomID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return err
	}
	if !room.Joinable() || time.Since(room.CreatedAt) < s.lobbyTTL {
		return nil
	}
	count, err := s.players.Count(ctx, tx, room.ID)
	if err != nil {
		return err
	}
	if count != 1 {
		return nil
	}

	if err := s.refundPlayers(ctx, tx, room, "idle lobby refund"); err != nil {
		return err
	}
	if err := s.rooms.MarkCanceled(ctx, tx, room.ID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	log.Infof("room %s canceled: idle lobby, pot %s refunded", room.Code, room.Pot)
	s.emitter.Emit(comm.EventRoomCanceled, comm.RoomCanceledData{
		RoomID: room.ID, Code: room.Code, Reason: "no players joined",
	}, "")
	return nil
}

func (s *MonitorService) sweepStalledRooms(ctx context.Context) {
	rooms, err := s.rooms.ListStalledPlaying(ctx, s.abandonAfter)
	if err != nil {
		log.Errorf("sweep stalled rooms: %v", err)
		return
	}
	for _, r := range rooms {
		if err := s.flagAbandoned(ctx, r.ID); err != nil {
			log.Errorf("flag abandoned room %s: %v", r.Code, err)
		}
	}
}

// flagAbandoned opens the caller role to all seated players and drops the
// host from the eventual split. One-way for the rest of the game.
func (s *MonitorService) flagAbandoned(ctx context.Context, roomID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return err
	}
	if room.Status != models.RoomStatusPlaying || room.Abandoned {
		return nil
	}
	if err := s.rooms.SetAbandoned(ctx, tx, room.ID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	log.Warnf("room %s flagged abandoned: caller idle past %s", room.Code, s.abandonAfter)
	s.emitter.Emit(comm.EventHostAbandoned, comm.HostAbandonedData{
		RoomID: room.ID, Code: room.Code,
	}, "")
	return nil
}

func (s *MonitorService) sweepExhaustedRooms(ctx context.Context) {
	rooms, err := s.rooms.ListExhaustedPlaying(ctx)
	if err != nil {
		log.Errorf("sweep exhausted rooms: %v", err)
		return
	}
	for _, r := range rooms {
		if err := s.expireExhausted(ctx, r.ID); err != nil {
			log.Errorf("expire exhausted room %s: %v", r.Code, err)
		}
	}
}

// expireExhausted cancels a room whose whole pool was drawn with no valid
// claim, refunding each player's buy-in. A claim racing the sweep wins.
func (s *MonitorService) expireExhausted(ctx context.Context, roomID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return err
	}
	if room.Status != models.RoomStatusPlaying {
		return nil
	}
	winners, err := s.winners.CountByRoom(ctx, tx, room.ID)
	if err != nil {
		return err
	}
	if winners > 0 {
		return nil
	}
	drawn, err := s.draws.Values(ctx, tx, room.ID)
	if err != nil {
		return err
	}
	if len(drawn) < room.Mode.MaxNumber() {
		return nil
	}

	if err := s.refundPlayers(ctx, tx, room, "pool exhausted, no winner"); err != nil {
		return err
	}
	if err := s.rooms.MarkCanceled(ctx, tx, room.ID); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	log.Infof("room %s canceled: pool exhausted without a winner, pot %s refunded", room.Code, room.Pot)
	s.emitter.Emit(comm.EventRoomCanceled, comm.RoomCanceledData{
		RoomID: room.ID, Code: room.Code, Reason: "pool exhausted without a winner",
	}, "")
	return nil
}

// refundPlayers returns card_count * card_cost to every seated player. The
// per-player refunds sum to the pot exactly, because the pot only ever grew
// by whole card purchases.
func (s *MonitorService) refundPlayers(ctx context.Context, tx pgx.Tx, room *models.Room, reason string) error {
	players, err := s.players.ListByRoomTx(ctx, tx, room.ID)
	if err != nil {
		return err
	}
	ref := "RFD-" + uuid.New().String()[:8]
	for _, p := range players {
		amount := room.CardCost.Mul(decimal.NewFromInt(int64(p.CardCount)))
		before, after, err := s.wallets.Credit(ctx, tx, p.UserID, room.Currency, amount, models.LedgerRefund, ref)
		if err != nil {
			return err
		}
		err = s.ledger.Append(ctx, tx, &models.LedgerEntry{
			OwnerID:       p.UserID,
			TType:         models.LedgerRefund,
			Currency:      room.Currency,
			Amount:        amount,
			BalanceBefore: before,
			BalanceAfter:  after,
			Description:   fmt.Sprintf("%s, room %s", reason, room.Code),
			RoomRef:       room.Code,
		})
		if err != nil {
			return err
		}
		if err := s.ledger.AppendAudit(ctx, tx, room.ID, p.UserID, models.LedgerRefund, room.Currency, amount, ref); err != nil {
			return err
		}
	}
	return nil
}
