package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"

	"github.com/wilwaps/bingo-engine/internal/comm"
	"github.com/wilwaps/bingo-engine/internal/diag"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/bingo"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/events"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
)

const distributeTimeout = 30 * time.Second

// ClaimService arbitrates bingo calls. A claim is validated against the
// draw history under the room lock, so a number drawn after the call can
// never retroactively make it valid. The first valid claim opens the tie
// window; claims landing inside it become co-winners.
type ClaimService struct {
	pool      *pgxpool.Pool
	rooms     *store.RoomStore
	cards     *store.CardStore
	draws     *store.DrawStore
	winners   *store.WinnerStore
	payout    *PayoutService
	emitter   *events.Emitter
	recorder  *diag.Recorder
	scheduler *distributionScheduler
}

func NewClaimService(pool *pgxpool.Pool, rooms *store.RoomStore, cards *store.CardStore,
	draws *store.DrawStore, winners *store.WinnerStore, payout *PayoutService,
	emitter *events.Emitter, recorder *diag.Recorder, tieWindow time.Duration) *ClaimService {
	s := &ClaimService{
		pool:     pool,
		rooms:    rooms,
		cards:    cards,
		draws:    draws,
		winners:  winners,
		payout:   payout,
		emitter:  emitter,
		recorder: recorder,
	}
	s.scheduler = newDistributionScheduler(tieWindow, s.runDistribution)
	return s
}

// Close cancels pending tie windows.
func (s *ClaimService) Close() {
	s.scheduler.Stop()
}

// CallBingo validates a claim on the caller's own card. The winning check
// runs on the intersection of the card's marks and the room's draw history,
// so stale or forged marks cannot carry a claim.
func (s *ClaimService) CallBingo(ctx context.Context, roomID, userID, cardID int64) (*models.Winner, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	card, err := s.cards.GetByID(ctx, tx, cardID)
	if err != nil {
		return nil, err
	}
	if err := claimEligible(room, card, userID); err != nil {
		return nil, err
	}

	drawn, err := s.draws.Values(ctx, tx, room.ID)
	if err != nil {
		return nil, err
	}
	covered := markedAndDrawn(card.Marked, drawn)

	winning, err := bingo.IsWinning(card.Grid, covered, room.VictoryMode)
	if err != nil {
		return nil, err
	}
	if !winning {
		s.recordClaim(ctx, room, userID, cardID, len(drawn), false, "pattern not satisfied")
		s.emitter.Emit(comm.EventClaimInvalid, comm.ClaimInvalidData{
			RoomID: room.ID, Code: room.Code, UserID: userID, CardID: cardID,
			Reason: "pattern not satisfied",
		}, "")
		return nil, ErrInvalidClaim
	}

	prior, err := s.winners.CountByRoom(ctx, tx, room.ID)
	if err != nil {
		return nil, err
	}
	w := &models.Winner{
		RoomID:  room.ID,
		UserID:  userID,
		CardID:  cardID,
		Pattern: room.VictoryMode,
	}
	if err := s.winners.Create(ctx, tx, w); err != nil {
		return nil, err
	}
	if err := s.cards.SetWinner(ctx, tx, cardID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.recordClaim(ctx, room, userID, cardID, len(drawn), true, "")
	log.Infof("room %s: valid bingo from user %d on card %d", room.Code, userID, cardID)

	s.emitter.Emit(comm.EventClaimPending, comm.ClaimPendingData{
		RoomID: room.ID, Code: room.Code, UserID: userID, CardID: cardID,
		Pattern: string(room.VictoryMode),
	}, "")

	if prior == 0 {
		s.scheduler.Schedule(room.ID)
	}
	return w, nil
}

// Winners lists validated claims for a room, for clients catching up.
func (s *ClaimService) Winners(ctx context.Context, roomID int64) ([]*models.Winner, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)
	winners, err := s.winners.ListByRoom(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	return winners, tx.Commit(ctx)
}

func (s *ClaimService) runDistribution(roomID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), distributeTimeout)
	defer cancel()
	if err := s.payout.Distribute(ctx, roomID); err != nil {
		log.Errorf("distribute room %d: %v", roomID, err)
	}
}

func (s *ClaimService) recordClaim(ctx context.Context, room *models.Room, userID, cardID int64, drawCount int, valid bool, reason string) {
	s.recorder.RecordClaim(ctx, diag.ClaimAttempt{
		RoomID:    room.ID,
		RoomCode:  room.Code,
		UserID:    userID,
		CardID:    cardID,
		Pattern:   string(room.VictoryMode),
		Valid:     valid,
		Reason:    reason,
		DrawCount: drawCount,
	})
}

// claimEligible gates a claim before pattern validation: the game must be
// live, the card must belong to the caller in this room, and a card that
// already won cannot win a second share of the split.
func claimEligible(room *models.Room, card *models.Card, userID int64) error {
	switch room.Status {
	case models.RoomStatusPlaying:
	case models.RoomStatusFinished, models.RoomStatusCanceled:
		return ErrGameAlreadyFinished
	default:
		return ErrRoomClosed
	}
	if card.RoomID != room.ID || card.UserID != userID {
		return store.ErrCardNotFound
	}
	if card.IsWinner {
		return ErrAlreadyClaimed
	}
	return nil
}

func markedAndDrawn(marked, drawn []int) []int {
	set := make(map[int]struct{}, len(drawn))
	for _, v := range drawn {
		set[v] = struct{}{}
	}
	out := make([]int, 0, len(marked))
	for _, v := range marked {
		if _, ok := set[v]; ok {
			out = append(out, v)
		}
	}
	return out
}
