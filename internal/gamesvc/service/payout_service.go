package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/events"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/prize"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
)

// PlatformAccountResolver maps the well-known platform account to a wallet
// owner. Injected so the engine carries no baked-in account constant.
type PlatformAccountResolver interface {
	PlatformAccount(ctx context.Context) (int64, error)
}

// StaticPlatformResolver resolves to a fixed user id from configuration.
type StaticPlatformResolver int64

func (r StaticPlatformResolver) PlatformAccount(ctx context.Context) (int64, error) {
	if r == 0 {
		return 0, errors.New("platform account not configured")
	}
	return int64(r), nil
}

// OpsNotifier surfaces conditions that need operator attention. Best-effort.
type OpsNotifier interface {
	Send(message string)
}

// PayoutService runs prize distribution: exactly once per room, inside the
// same unit of work as the room's terminal transition, conserving the pot.
type PayoutService struct {
	pool     *pgxpool.Pool
	rooms    *store.RoomStore
	players  *store.PlayerStore
	winners  *store.WinnerStore
	wallets  *store.WalletStore
	ledger   *store.LedgerStore
	platform PlatformAccountResolver
	emitter  *events.Emitter
	ops      OpsNotifier
}

func NewPayoutService(pool *pgxpool.Pool, rooms *store.RoomStore, players *store.PlayerStore,
	winners *store.WinnerStore, wallets *store.WalletStore, ledger *store.LedgerStore,
	platform PlatformAccountResolver, emitter *events.Emitter, ops OpsNotifier) *PayoutService {
	return &PayoutService{
		pool:     pool,
		rooms:    rooms,
		players:  players,
		winners:  winners,
		wallets:  wallets,
		ledger:   ledger,
		platform: platform,
		emitter:  emitter,
		ops:      ops,
	}
}

// Distribute splits the pot across winners, host and platform and closes the
// room. A room that already left playing state is a no-op, so concurrent or
// repeated triggers pay out at most once.
func (s *PayoutService) Distribute(ctx context.Context, roomID int64) error {
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
		log.Infof("room %s already %s, distribution skipped", room.Code, room.Status)
		return nil
	}

	winners, err := s.winners.ListByRoom(ctx, tx, room.ID)
	if err != nil {
		return err
	}
	if len(winners) == 0 {
		s.alert(fmt.Sprintf("INVARIANT: distribution for room %s with no validated winners", room.Code))
		return ErrNoValidatedWinners
	}

	split, err := prize.Compute(room.Pot, len(winners), room.Abandoned)
	if err != nil {
		return ErrNoValidatedWinners
	}
	if !split.Total().Equal(room.Pot) {
		s.alert(fmt.Sprintf("INVARIANT: room %s split %s != pot %s", room.Code, split.Total(), room.Pot))
		return ErrPotMismatch
	}

	ref := "PRZ-" + uuid.New().String()[:8]
	for i, w := range winners {
		share := split.WinnerShares[i]
		if err := s.pay(ctx, tx, room, w.UserID, share, models.LedgerPrizeWinner, ref,
			fmt.Sprintf("winner share %d/%d, room %s", i+1, len(winners), room.Code)); err != nil {
			return err
		}
		if err := s.winners.SetPrize(ctx, tx, w.ID, share); err != nil {
			return err
		}
		if err := s.players.RecordWin(ctx, tx, room.ID, w.UserID, share); err != nil {
			return err
		}
	}

	if split.HostShare.IsPositive() {
		if err := s.pay(ctx, tx, room, room.HostID, split.HostShare, models.LedgerPrizeHost, ref,
			fmt.Sprintf("host share, room %s", room.Code)); err != nil {
			return err
		}
	}

	platformID, err := s.platform.PlatformAccount(ctx)
	if err != nil {
		return fmt.Errorf("resolve platform account: %w", err)
	}
	if err := s.pay(ctx, tx, room, platformID, split.PlatformShare, models.LedgerPrizePlatform, ref,
		fmt.Sprintf("platform share, room %s", room.Code)); err != nil {
		return err
	}

	finished, err := s.rooms.MarkFinished(ctx, tx, room.ID)
	if err != nil {
		return err
	}
	if !finished {
		// unreachable while the room lock is held
		return fmt.Errorf("room %s left playing state mid-distribution", room.Code)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	log.Infof("room %s distributed: pot %s to %d winner(s), host %s, platform %s",
		room.Code, room.Pot, len(winners), split.HostShare, split.PlatformShare)

	over := comm.GameOverData{
		RoomID:        room.ID,
		Code:          room.Code,
		Pot:           room.Pot.String(),
		HostShare:     split.HostShare.String(),
		PlatformShare: split.PlatformShare.String(),
	}
	for i, w := range winners {
		over.Winners = append(over.Winners, comm.WinnerData{
			UserID: w.UserID, CardID: w.CardID, Prize: split.WinnerShares[i].String(),
		})
	}
	s.emitter.Emit(comm.EventGameOver, over, "")
	s.notifySummary(room, len(winners), split)
	return nil
}

// pay is one atomic balance increment paired with its ledger entry and a
// room-scoped audit row.
func (s *PayoutService) pay(ctx context.Context, tx pgx.Tx, room *models.Room, userID int64,
	amount decimal.Decimal, ttype, ref, desc string) error {
	before, after, err := s.wallets.Credit(ctx, tx, userID, room.Currency, amount, ttype, ref)
	if err != nil {
		return err
	}
	err = s.ledger.Append(ctx, tx, &models.LedgerEntry{
		OwnerID:       userID,
		TType:         ttype,
		Currency:      room.Currency,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Description:   desc,
		RoomRef:       room.Code,
	})
	if err != nil {
		return err
	}
	return s.ledger.AppendAudit(ctx, tx, room.ID, userID, ttype, room.Currency, amount, ref)
}

func (s *PayoutService) alert(msg string) {
	log.Error(msg)
	if s.ops != nil {
		s.ops.Send(msg)
	}
}

func (s *PayoutService) notifySummary(room *models.Room, winnerCount int, split prize.Split) {
	if s.ops == nil {
		return
	}
	s.ops.Send(fmt.Sprintf(
		"Room %s finished: pot %s %s, %d winner(s), host %s, platform %s, abandoned=%v",
		room.Code, room.Pot, room.Currency.Label(), winnerCount,
		split.HostShare, split.PlatformShare, room.Abandoned))
}
