package service

import "errors"

// State and validation errors surfaced to callers with a specific kind so
// the client can present an accurate message. None of them leave partial
// mutations behind: the unit of work rolls back as a whole.
var (
	ErrInvalidConfig       = errors.New("invalid room config")
	ErrRoomClosed          = errors.New("room closed to this operation")
	ErrRoomFull            = errors.New("room full")
	ErrBadPassword         = errors.New("bad room password")
	ErrTooManyCards        = errors.New("too many cards")
	ErrNotHost             = errors.New("caller is not the host")
	ErrNotAllReady         = errors.New("not all players ready")
	ErrAlreadyStarted      = errors.New("game already started")
	ErrNumberNotDrawn      = errors.New("number has not been drawn")
	ErrNumberNotOnCard     = errors.New("number not on card")
	ErrInvalidClaim        = errors.New("invalid claim")
	ErrAlreadyClaimed      = errors.New("card already claimed")
	ErrGameAlreadyFinished = errors.New("game already finished")
)

// Invariant violations. These are fatal conditions surfaced for operator
// attention, never silently patched.
var (
	ErrNoValidatedWinners = errors.New("distribution without validated winners")
	ErrPotMismatch        = errors.New("distribution does not sum to pot")
)
