package store

import "errors"

// Resource errors detected at the storage layer. Services translate or pass
// them through to callers unchanged.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrCardNotFound      = errors.New("card not found")
	ErrCodeTaken         = errors.New("room code already taken")
	ErrWinnerExists      = errors.New("card already recorded as winner")
	ErrWalletMissing     = errors.New("wallet missing")
	ErrInsufficientFunds = errors.New("insufficient funds")
)
