package poker

import "errors"

// Errors returned when an action is rejected. A rejected action leaves the
// input state untouched.
var (
	ErrInvalidSeat       = errors.New("invalid seat")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrHandComplete      = errors.New("hand is complete")
	ErrInvalidCheck      = errors.New("cannot check, must call or raise")
	ErrNothingToCall     = errors.New("nothing to call")
	ErrRaiseBelowMinimum = errors.New("raise below minimum")
	ErrUnknownAction     = errors.New("unknown action")
	ErrSeatTaken         = errors.New("seat is taken")
	ErrTableFull         = errors.New("table is full")
)
