package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

const cardColumns = `id, room_id, user_id, card_no, grid, marked, is_winner,
	created_at, updated_at`

type CardStore struct {
	db *pgxpool.Pool
}

func NewCardStore(db *pgxpool.Pool) *CardStore {
	return &CardStore{db: db}
}

func scanCard(row pgx.Row) (*models.Card, error) {
	c := &models.Card{}
	err := row.Scan(
		&c.ID,
		&c.RoomID,
		&c.UserID,
		&c.CardNo,
		&c.Grid,
		&c.Marked,
		&c.IsWinner,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("scan card: %w", err)
	}
	return c, nil
}

func (s *CardStore) Create(ctx context.Context, tx pgx.Tx, c *models.Card) error {
	if c.Marked == nil {
		c.Marked = []int{}
	}
	err := tx.QueryRow(ctx, `
		INSERT INTO cards (room_id, user_id, card_no, grid, marked, is_winner)
		VALUES ($1, $2, $3, $4, $5, false)
		RETURNING id, created_at, updated_at
	`, c.RoomID, c.UserID, c.CardNo, c.Grid, c.Marked,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert card: %w", err)
	}
	return nil
}

// NextCardNo returns the next sequential card number for the room. Safe only
// while the room row lock is held.
func (s *CardStore) NextCardNo(ctx context.Context, tx pgx.Tx, roomID int64) (int, error) {
	var n int
	err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(card_no), 0) + 1 FROM cards WHERE room_id = $1`,
		roomID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next card no: %w", err)
	}
	return n, nil
}

func (s *CardStore) GetByID(ctx context.Context, tx pgx.Tx, id int64) (*models.Card, error) {
	return scanCard(tx.QueryRow(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
}

func (s *CardStore) ListByRoomAndUser(ctx context.Context, roomID, userID int64) ([]*models.Card, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+cardColumns+`
		FROM cards
		WHERE room_id = $1 AND user_id = $2
		ORDER BY card_no
	`, roomID, userID)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var out []*models.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateMarked replaces the marked set. The set only ever grows; the service
// layer appends under the room lock.
func (s *CardStore) UpdateMarked(ctx context.Context, tx pgx.Tx, cardID int64, marked []int) error {
	_, err := tx.Exec(ctx,
		`UPDATE cards SET marked = $2, updated_at = now() WHERE id = $1`,
		cardID, marked)
	if err != nil {
		return fmt.Errorf("update marked: %w", err)
	}
	return nil
}

// SetWinner flags the card; the flag is set at most once per card.
func (s *CardStore) SetWinner(ctx context.Context, tx pgx.Tx, cardID int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE cards SET is_winner = true, updated_at = now() WHERE id = $1`,
		cardID)
	if err != nil {
		return fmt.Errorf("set card winner: %w", err)
	}
	return nil
}
