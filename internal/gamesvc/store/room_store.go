package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

const roomColumns = `id, code, host_id, currency, mode, victory_mode, card_cost,
	max_players, max_cards_per_player, pot, password, status, abandoned,
	created_at, started_at, ended_at, updated_at`

type RoomStore struct {
	db *pgxpool.Pool
}

func NewRoomStore(db *pgxpool.Pool) *RoomStore {
	return &RoomStore{db: db}
}

func scanRoom(row pgx.Row) (*models.Room, error) {
	r := &models.Room{}
	err := row.Scan(
		&r.ID,
		&r.Code,
		&r.HostID,
		&r.Currency,
		&r.Mode,
		&r.VictoryMode,
		&r.CardCost,
		&r.MaxPlayers,
		&r.MaxCardsPerPlayer,
		&r.Pot,
		&r.Password,
		&r.Status,
		&r.Abandoned,
		&r.CreatedAt,
		&r.StartedAt,
		&r.EndedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("scan room: %w", err)
	}
	return r, nil
}

// Create inserts the room. Returns ErrCodeTaken when the reserved code
// collides with a live room, so the caller can retry with a fresh code.
func (s *RoomStore) Create(ctx context.Context, tx pgx.Tx, r *models.Room) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO rooms (code, host_id, currency, mode, victory_mode, card_cost,
			max_players, max_cards_per_player, pot, password, status, abandoned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, false)
		RETURNING id, created_at, updated_at
	`, r.Code, r.HostID, r.Currency, r.Mode, r.VictoryMode, r.CardCost,
		r.MaxPlayers, r.MaxCardsPerPlayer, r.Pot, r.Password, r.Status,
	).Scan(&r.ID, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrCodeTaken
		}
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (s *RoomStore) GetByCode(ctx context.Context, code string) (*models.Room, error) {
	return scanRoom(s.db.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE code = $1`, code))
}

func (s *RoomStore) GetByID(ctx context.Context, id int64) (*models.Room, error) {
	return scanRoom(s.db.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
}

// GetByCodeForUpdate locks the room row for the duration of the unit of
// work; every room-mutating operation goes through this or GetByIDForUpdate.
func (s *RoomStore) GetByCodeForUpdate(ctx context.Context, tx pgx.Tx, code string) (*models.Room, error) {
	return scanRoom(tx.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE code = $1 FOR UPDATE`, code))
}

func (s *RoomStore) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*models.Room, error) {
	return scanRoom(tx.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE id = $1 FOR UPDATE`, id))
}

func (s *RoomStore) AddToPot(ctx context.Context, tx pgx.Tx, roomID int64, amount decimal.Decimal) error {
	_, err := tx.Exec(ctx,
		`UPDATE rooms SET pot = pot + $2, updated_at = now() WHERE id = $1`,
		roomID, amount)
	if err != nil {
		return fmt.Errorf("add to pot: %w", err)
	}
	return nil
}

func (s *RoomStore) SetStatus(ctx context.Context, tx pgx.Tx, roomID int64, status string) error {
	_, err := tx.Exec(ctx,
		`UPDATE rooms SET status = $2, updated_at = now() WHERE id = $1`,
		roomID, status)
	if err != nil {
		return fmt.Errorf("set room status: %w", err)
	}
	return nil
}

func (s *RoomStore) MarkStarted(ctx context.Context, tx pgx.Tx, roomID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE rooms SET status = $2, started_at = now(), updated_at = now()
		WHERE id = $1
	`, roomID, models.RoomStatusPlaying)
	if err != nil {
		return fmt.Errorf("mark room started: %w", err)
	}
	return nil
}

// MarkFinished transitions playing -> finished. Reports false when the room
// was already terminal, so distribution stays a no-op on a second run.
func (s *RoomStore) MarkFinished(ctx context.Context, tx pgx.Tx, roomID int64) (bool, error) {
	res, err := tx.Exec(ctx, `
		UPDATE rooms SET status = $2, ended_at = now(), updated_at = now()
		WHERE id = $1 AND status = $3
	`, roomID, models.RoomStatusFinished, models.RoomStatusPlaying)
	if err != nil {
		return false, fmt.Errorf("mark room finished: %w", err)
	}
	return res.RowsAffected() == 1, nil
}

func (s *RoomStore) MarkCanceled(ctx context.Context, tx pgx.Tx, roomID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE rooms SET status = $2, ended_at = now(), updated_at = now()
		WHERE id = $1
	`, roomID, models.RoomStatusCanceled)
	if err != nil {
		return fmt.Errorf("mark room canceled: %w", err)
	}
	return nil
}

func (s *RoomStore) SetAbandoned(ctx context.Context, tx pgx.Tx, roomID int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE rooms SET abandoned = true, updated_at = now() WHERE id = $1`,
		roomID)
	if err != nil {
		return fmt.Errorf("set room abandoned: %w", err)
	}
	return nil
}

// ListSingleIdleLobbies finds pre-game rooms older than minAge that hold
// exactly one player, for the inactivity refund sweep.
func (s *RoomStore) ListSingleIdleLobbies(ctx context.Context, minAge time.Duration) ([]*models.Room, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms r
		WHERE r.status IN ($1, $2)
		  AND r.created_at < now() - ($3 * interval '1 second')
		  AND (SELECT COUNT(*) FROM room_players p WHERE p.room_id = r.id) = 1
	`, models.RoomStatusLobby, models.RoomStatusReady, minAge.Seconds())
	if err != nil {
		return nil, fmt.Errorf("list idle lobbies: %w", err)
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListStalledPlaying finds playing rooms not yet flagged abandoned whose
// last draw (or start, if nothing was drawn) is older than idle.
func (s *RoomStore) ListStalledPlaying(ctx context.Context, idle time.Duration) ([]*models.Room, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms r
		WHERE r.status = $1
		  AND r.abandoned = false
		  AND COALESCE(
			(SELECT MAX(d.called_at) FROM drawn_numbers d WHERE d.room_id = r.id),
			r.started_at
		  ) < now() - ($2 * interval '1 second')
	`, models.RoomStatusPlaying, idle.Seconds())
	if err != nil {
		return nil, fmt.Errorf("list stalled rooms: %w", err)
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListUnsettledPlaying finds playing rooms whose first validated claim is
// older than grace. The tie window timer lives in process memory, so after a
// restart these rooms would otherwise stay playing with the pot locked.
func (s *RoomStore) ListUnsettledPlaying(ctx context.Context, grace time.Duration) ([]*models.Room, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms r
		WHERE r.status = $1
		  AND (SELECT MIN(w.claimed_at) FROM winners w WHERE w.room_id = r.id)
		      < now() - ($2 * interval '1 second')
	`, models.RoomStatusPlaying, grace.Seconds())
	if err != nil {
		return nil, fmt.Errorf("list unsettled rooms: %w", err)
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListExhaustedPlaying finds playing rooms whose number pool is fully drawn
// with no validated winner, for the no-winner expiry sweep.
func (s *RoomStore) ListExhaustedPlaying(ctx context.Context) ([]*models.Room, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms r
		WHERE r.status = $1
		  AND (SELECT COUNT(*) FROM drawn_numbers d WHERE d.room_id = r.id) >= r.mode
		  AND NOT EXISTS (SELECT 1 FROM winners w WHERE w.room_id = r.id)
	`, models.RoomStatusPlaying)
	if err != nil {
		return nil, fmt.Errorf("list exhausted rooms: %w", err)
	}
	defer rows.Close()
	return collectRooms(rows)
}

func collectRooms(rows pgx.Rows) ([]*models.Room, error) {
	var out []*models.Room
	for rows.Next() {
		r, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
