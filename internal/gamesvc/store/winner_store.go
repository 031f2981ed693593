package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

type WinnerStore struct {
	db *pgxpool.Pool
}

func NewWinnerStore(db *pgxpool.Pool) *WinnerStore {
	return &WinnerStore{db: db}
}

// Create inserts a validated claim. winners carries a unique index on
// card_id, so a card can never hold two shares of the split.
func (s *WinnerStore) Create(ctx context.Context, tx pgx.Tx, w *models.Winner) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO winners (room_id, user_id, card_id, pattern, prize)
		VALUES ($1, $2, $3, $4, 0)
		RETURNING id, claimed_at
	`, w.RoomID, w.UserID, w.CardID, w.Pattern,
	).Scan(&w.ID, &w.ClaimedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrWinnerExists
		}
		return fmt.Errorf("insert winner: %w", err)
	}
	return nil
}

func (s *WinnerStore) CountByRoom(ctx context.Context, tx pgx.Tx, roomID int64) (int, error) {
	var n int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM winners WHERE room_id = $1`, roomID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count winners: %w", err)
	}
	return n, nil
}

func (s *WinnerStore) ListByRoom(ctx context.Context, tx pgx.Tx, roomID int64) ([]*models.Winner, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, room_id, user_id, card_id, pattern, prize, claimed_at
		FROM winners
		WHERE room_id = $1
		ORDER BY claimed_at
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list winners: %w", err)
	}
	defer rows.Close()

	var out []*models.Winner
	for rows.Next() {
		w := &models.Winner{}
		if err := rows.Scan(&w.ID, &w.RoomID, &w.UserID, &w.CardID, &w.Pattern, &w.Prize, &w.ClaimedAt); err != nil {
			return nil, fmt.Errorf("scan winner: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// SetPrize fills in the awarded amount during distribution.
func (s *WinnerStore) SetPrize(ctx context.Context, tx pgx.Tx, winnerID int64, amount decimal.Decimal) error {
	_, err := tx.Exec(ctx,
		`UPDATE winners SET prize = $2 WHERE id = $1`, winnerID, amount)
	if err != nil {
		return fmt.Errorf("set winner prize: %w", err)
	}
	return nil
}
