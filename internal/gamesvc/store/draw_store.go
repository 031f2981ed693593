package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

type DrawStore struct {
	db *pgxpool.Pool
}

func NewDrawStore(db *pgxpool.Pool) *DrawStore {
	return &DrawStore{db: db}
}

// Values returns every drawn value for the room in call order. Runs inside
// the caller's transaction so the complement computation is serialized by
// the room lock.
func (s *DrawStore) Values(ctx context.Context, tx pgx.Tx, roomID int64) ([]int, error) {
	rows, err := tx.Query(ctx,
		`SELECT value FROM drawn_numbers WHERE room_id = $1 ORDER BY seq`, roomID)
	if err != nil {
		return nil, fmt.Errorf("drawn values: %w", err)
	}
	defer rows.Close()

	var out []int
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan drawn value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Append records one call; seq and value are both unique within the room by
// table constraint, so a duplicate draw can never be persisted.
func (s *DrawStore) Append(ctx context.Context, tx pgx.Tx, d *models.DrawnNumber) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO drawn_numbers (room_id, seq, value, called_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, called_at
	`, d.RoomID, d.Seq, d.Value, d.CalledBy,
	).Scan(&d.ID, &d.CalledAt)
	if err != nil {
		return fmt.Errorf("append drawn number: %w", err)
	}
	return nil
}

// List returns the full draw history, for resuming clients.
func (s *DrawStore) List(ctx context.Context, roomID int64) ([]*models.DrawnNumber, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, room_id, seq, value, called_by, called_at
		FROM drawn_numbers
		WHERE room_id = $1
		ORDER BY seq
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("list drawn numbers: %w", err)
	}
	defer rows.Close()

	var out []*models.DrawnNumber
	for rows.Next() {
		d := &models.DrawnNumber{}
		if err := rows.Scan(&d.ID, &d.RoomID, &d.Seq, &d.Value, &d.CalledBy, &d.CalledAt); err != nil {
			return nil, fmt.Errorf("scan drawn number: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
