package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

// LedgerStore writes the append-only audit trail. Every wallet mutation gets
// one ledger entry in the same transaction; room-scoped operations get an
// additional room_audit row for operational traceability.
type LedgerStore struct {
	db *pgxpool.Pool
}

func NewLedgerStore(db *pgxpool.Pool) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) Append(ctx context.Context, tx pgx.Tx, e *models.LedgerEntry) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO ledger_entries (owner_id, ttype, currency, amount,
			balance_before, balance_after, description, room_ref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`, e.OwnerID, e.TType, e.Currency, e.Amount,
		e.BalanceBefore, e.BalanceAfter, e.Description, e.RoomRef,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

func (s *LedgerStore) AppendAudit(ctx context.Context, tx pgx.Tx, roomID, userID int64, ttype string, currency models.Currency, amount decimal.Decimal, tref string) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO room_audit (room_id, user_id, ttype, currency, amount, tref)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, roomID, userID, ttype, currency, amount, tref)
	if err != nil {
		return fmt.Errorf("append room audit: %w", err)
	}
	return nil
}

// ListByRoom returns the room's ledger trail, newest first.
func (s *LedgerStore) ListByRoom(ctx context.Context, roomRef string) ([]*models.LedgerEntry, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, owner_id, ttype, currency, amount, balance_before,
			balance_after, description, room_ref, created_at
		FROM ledger_entries
		WHERE room_ref = $1
		ORDER BY created_at DESC
	`, roomRef)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	defer rows.Close()

	var out []*models.LedgerEntry
	for rows.Next() {
		e := &models.LedgerEntry{}
		err := rows.Scan(&e.ID, &e.OwnerID, &e.TType, &e.Currency, &e.Amount,
			&e.BalanceBefore, &e.BalanceAfter, &e.Description, &e.RoomRef, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
