package lobby

import "errors"

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrInvalidToken     = errors.New("invalid player token")
	ErrRoomFull         = errors.New("room is full")
	ErrNameTaken        = errors.New("name already taken")
	ErrInvalidName      = errors.New("name must be 1-20 characters")
	ErrNotCreator       = errors.New("only the room creator can start the game")
	ErrNotEnoughPlayers = errors.New("need at least 2 players with chips")
	ErrAlreadyStarted   = errors.New("game already started")
	ErrConflictRetries  = errors.New("room is busy, try again")

	// errNoChange aborts an update without writing.
	errNoChange = errors.New("no change")
)
