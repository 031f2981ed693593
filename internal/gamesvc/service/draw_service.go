package service

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wilwaps/bingo-engine/internal/comm"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/bingo"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/events"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
	"github.com/wilwaps/bingo-engine/internal/gamesvc/store"
)

// DrawService owns the per-room draw history and mark validation. Draw and
// mark both serialize on the room row lock so the complement computation can
// never interleave with another draw or a claim.
type DrawService struct {
	pool    *pgxpool.Pool
	rooms   *store.RoomStore
	players *store.PlayerStore
	cards   *store.CardStore
	draws   *store.DrawStore
	emitter *events.Emitter
	rng     *lockedRand
}

func NewDrawService(pool *pgxpool.Pool, rooms *store.RoomStore, players *store.PlayerStore,
	cards *store.CardStore, draws *store.DrawStore, emitter *events.Emitter) *DrawService {
	return &DrawService{
		pool:    pool,
		rooms:   rooms,
		players: players,
		cards:   cards,
		draws:   draws,
		emitter: emitter,
		rng:     newLockedRand(),
	}
}

// DrawNumber calls the next ball: uniformly at random from the undrawn
// complement of the room's pool. Host-only, except that in an abandoned room
// any seated player may substitute as caller.
func (s *DrawService) DrawNumber(ctx context.Context, roomID, callerID int64) (*models.DrawnNumber, int, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, 0, err
	}
	switch room.Status {
	case models.RoomStatusPlaying:
	case models.RoomStatusFinished, models.RoomStatusCanceled:
		return nil, 0, ErrGameAlreadyFinished
	default:
		return nil, 0, ErrRoomClosed
	}

	if callerID != room.HostID {
		if !room.Abandoned {
			return nil, 0, ErrNotHost
		}
		player, err := s.players.GetForUpdate(ctx, tx, room.ID, callerID)
		if err != nil {
			return nil, 0, err
		}
		if player == nil {
			return nil, 0, ErrNotHost
		}
	}

	drawn, err := s.draws.Values(ctx, tx, room.ID)
	if err != nil {
		return nil, 0, err
	}
	var value int
	err = s.rng.do(func(rng *rand.Rand) error {
		v, err := bingo.Draw(drawn, room.Mode.MaxNumber(), rng)
		value = v
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	d := &models.DrawnNumber{
		RoomID:   room.ID,
		Seq:      len(drawn) + 1,
		Value:    value,
		CalledBy: callerID,
	}
	if err := s.draws.Append(ctx, tx, d); err != nil {
		return nil, 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, 0, fmt.Errorf("commit tx: %w", err)
	}

	remaining := room.Mode.MaxNumber() - d.Seq
	s.emitter.Emit(comm.EventNumberDrawn, comm.NumberDrawnData{
		RoomID: room.ID, Code: room.Code, Value: d.Value, Seq: d.Seq, Remaining: remaining,
	}, "")
	return d, remaining, nil
}

// MarkNumber records the owner's mark on a card. A number is markable only
// if it sits on the card and has actually been drawn in the room; repeat
// marks are a no-op.
func (s *DrawService) MarkNumber(ctx context.Context, roomID, userID, cardID int64, number int) (*models.Card, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	room, err := s.rooms.GetByIDForUpdate(ctx, tx, roomID)
	if err != nil {
		return nil, err
	}
	if room.Status != models.RoomStatusPlaying {
		return nil, ErrRoomClosed
	}

	card, err := s.cards.GetByID(ctx, tx, cardID)
	if err != nil {
		return nil, err
	}
	if card.RoomID != room.ID || card.UserID != userID {
		return nil, store.ErrCardNotFound
	}
	drawn, err := s.draws.Values(ctx, tx, room.ID)
	if err != nil {
		return nil, err
	}
	if err := markable(card, drawn, number); err != nil {
		return nil, err
	}

	if !card.HasMarked(number) {
		card.Marked = append(card.Marked, number)
		if err := s.cards.UpdateMarked(ctx, tx, card.ID, card.Marked); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	s.emitter.Emit(comm.EventNumberMarked, comm.NumberMarkedData{
		RoomID: room.ID, Code: room.Code, CardID: card.ID, UserID: userID, Value: number,
	}, "")
	return card, nil
}

// markable validates a mark: the number must sit on the card and must have
// been called in this room. A mark can never get ahead of the draw history.
func markable(card *models.Card, drawn []int, number int) error {
	if !card.HasNumber(number) {
		return ErrNumberNotOnCard
	}
	for _, v := range drawn {
		if v == number {
			return nil
		}
	}
	return ErrNumberNotDrawn
}

// DrawHistory is a plain read used by resuming clients.
func (s *DrawService) DrawHistory(ctx context.Context, roomID int64) ([]*models.DrawnNumber, error) {
	return s.draws.List(ctx, roomID)
}
