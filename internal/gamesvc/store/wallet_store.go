package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/wilwaps/bingo-engine/internal/gamesvc/models"
)

// WalletStore keeps per-user, per-currency balances as double-entry rows:
// dr adds funds, cr removes them, the balance is SUM(dr) - SUM(cr) over
// completed rows. A user "has a wallet" for a currency once at least one row
// exists for it.
type WalletStore struct {
	db *pgxpool.Pool
}

func NewWalletStore(db *pgxpool.Pool) *WalletStore {
	return &WalletStore{db: db}
}

func (s *WalletStore) Balance(ctx context.Context, userID int64, currency models.Currency) (decimal.Decimal, error) {
	var totalDr, totalCr decimal.Decimal
	err := s.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(dr), 0), COALESCE(SUM(cr), 0)
		FROM balances
		WHERE user_id = $1 AND currency = $2 AND status = 'completed'
	`, userID, currency).Scan(&totalDr, &totalCr)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get balance: %w", err)
	}
	return totalDr.Sub(totalCr), nil
}

// balanceForUpdate locks the user's balance rows for the currency and
// returns the current balance plus whether any wallet rows exist at all.
func (s *WalletStore) balanceForUpdate(ctx context.Context, tx pgx.Tx, userID int64, currency models.Currency) (decimal.Decimal, bool, error) {
	rows, err := tx.Query(ctx, `
		SELECT dr, cr
		FROM balances
		WHERE user_id = $1 AND currency = $2 AND status = 'completed'
		FOR UPDATE
	`, userID, currency)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("lock balance rows: %w", err)
	}
	defer rows.Close()

	var totalDr, totalCr decimal.Decimal
	found := false
	for rows.Next() {
		var dr, cr decimal.Decimal
		if err := rows.Scan(&dr, &cr); err != nil {
			return decimal.Zero, false, fmt.Errorf("scan balance row: %w", err)
		}
		totalDr = totalDr.Add(dr)
		totalCr = totalCr.Add(cr)
		found = true
	}
	if err := rows.Err(); err != nil {
		return decimal.Zero, false, fmt.Errorf("balance rows: %w", err)
	}
	return totalDr.Sub(totalCr), found, nil
}

// Debit removes amount from the wallet inside the caller's unit of work.
// Fails with ErrWalletMissing when the user has no wallet rows for the
// currency and ErrInsufficientFunds when the balance is too low; either way
// nothing is written.
func (s *WalletStore) Debit(ctx context.Context, tx pgx.Tx, userID int64, currency models.Currency, amount decimal.Decimal, ttype, tref string) (before, after decimal.Decimal, err error) {
	before, found, err := s.balanceForUpdate(ctx, tx, userID, currency)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !found {
		return decimal.Zero, decimal.Zero, ErrWalletMissing
	}
	if before.LessThan(amount) {
		return decimal.Zero, decimal.Zero, ErrInsufficientFunds
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO balances (user_id, currency, ttype, dr, cr, tref, status)
		VALUES ($1, $2, $3, 0, $4, $5, 'completed')
	`, userID, currency, ttype, amount, tref)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("insert debit row: %w", err)
	}
	return before, before.Sub(amount), nil
}

// Credit adds amount to the wallet inside the caller's unit of work.
func (s *WalletStore) Credit(ctx context.Context, tx pgx.Tx, userID int64, currency models.Currency, amount decimal.Decimal, ttype, tref string) (before, after decimal.Decimal, err error) {
	before, _, err = s.balanceForUpdate(ctx, tx, userID, currency)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO balances (user_id, currency, ttype, dr, cr, tref, status)
		VALUES ($1, $2, $3, $4, 0, $5, 'completed')
	`, userID, currency, ttype, amount, tref)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("insert credit row: %w", err)
	}
	return before, before.Add(amount), nil
}
