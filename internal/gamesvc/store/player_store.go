package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

const playerColumns = `id, room_id, user_id, card_count, ready_at, is_host,
	total_payout, wins, created_at, updated_at`

type PlayerStore struct {
	db *pgxpool.Pool
}

func NewPlayerStore(db *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{db: db}
}

func scanPlayer(row pgx.Row) (*models.RoomPlayer, error) {
	p := &models.RoomPlayer{}
	err := row.Scan(
		&p.ID,
		&p.RoomID,
		&p.UserID,
		&p.CardCount,
		&p.ReadyAt,
		&p.IsHost,
		&p.TotalPayout,
		&p.Wins,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PlayerStore) Create(ctx context.Context, tx pgx.Tx, p *models.RoomPlayer) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO room_players (room_id, user_id, card_count, ready_at, is_host, total_payout, wins)
		VALUES ($1, $2, $3, CASE WHEN $4 THEN now() END, $5, 0, 0)
		RETURNING id, ready_at, created_at, updated_at
	`, p.RoomID, p.UserID, p.CardCount, p.ReadyAt != nil, p.IsHost,
	).Scan(&p.ID, &p.ReadyAt, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert room player: %w", err)
	}
	return nil
}

// GetForUpdate locks the membership row. Returns (nil, nil) when the user
// has not joined the room yet.
func (s *PlayerStore) GetForUpdate(ctx context.Context, tx pgx.Tx, roomID, userID int64) (*models.RoomPlayer, error) {
	p, err := scanPlayer(tx.QueryRow(ctx, `
		SELECT `+playerColumns+`
		FROM room_players
		WHERE room_id = $1 AND user_id = $2
		FOR UPDATE
	`, roomID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get room player: %w", err)
	}
	return p, nil
}

// AddCards accumulates a returning buyer's card count; the membership row is
// never duplicated.
func (s *PlayerStore) AddCards(ctx context.Context, tx pgx.Tx, roomID, userID int64, n int) error {
	_, err := tx.Exec(ctx, `
		UPDATE room_players SET card_count = card_count + $3, updated_at = now()
		WHERE room_id = $1 AND user_id = $2
	`, roomID, userID, n)
	if err != nil {
		return fmt.Errorf("add cards: %w", err)
	}
	return nil
}

func (s *PlayerStore) Count(ctx context.Context, tx pgx.Tx, roomID int64) (int, error) {
	var n int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM room_players WHERE room_id = $1`, roomID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count room players: %w", err)
	}
	return n, nil
}

// MarkReady timestamps the ready flag once; repeat calls keep the original
// timestamp.
func (s *PlayerStore) MarkReady(ctx context.Context, tx pgx.Tx, roomID, userID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE room_players SET ready_at = now(), updated_at = now()
		WHERE room_id = $1 AND user_id = $2 AND ready_at IS NULL
	`, roomID, userID)
	if err != nil {
		return fmt.Errorf("mark ready: %w", err)
	}
	return nil
}

func (s *PlayerStore) CountNotReady(ctx context.Context, tx pgx.Tx, roomID int64) (int, error) {
	var n int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM room_players WHERE room_id = $1 AND ready_at IS NULL`,
		roomID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count not ready: %w", err)
	}
	return n, nil
}

func (s *PlayerStore) ListByRoom(ctx context.Context, roomID int64) ([]*models.RoomPlayer, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+playerColumns+`
		FROM room_players
		WHERE room_id = $1
		ORDER BY created_at
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room players: %w", err)
	}
	defer rows.Close()

	var out []*models.RoomPlayer
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListByRoomTx is the in-transaction variant used by distribution and the
// refund sweeps.
func (s *PlayerStore) ListByRoomTx(ctx context.Context, tx pgx.Tx, roomID int64) ([]*models.RoomPlayer, error) {
	rows, err := tx.Query(ctx, `
		SELECT `+playerColumns+`
		FROM room_players
		WHERE room_id = $1
		ORDER BY created_at
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list room players: %w", err)
	}
	defer rows.Close()

	var out []*models.RoomPlayer
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan room player: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// RecordWin accumulates a winner's payout and win counters for the room.
func (s *PlayerStore) RecordWin(ctx context.Context, tx pgx.Tx, roomID, userID int64, amount decimal.Decimal) error {
	_, err := tx.Exec(ctx, `
		UPDATE room_players
		SET total_payout = total_payout + $3, wins = wins + 1, updated_at = now()
		WHERE room_id = $1 AND user_id = $2
	`, roomID, userID, amount)
	if err != nil {
		return fmt.Errorf("record win: %w", err)
	}
	return nil
}
