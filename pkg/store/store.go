// Package store persists poker rooms. Every write is a compare-and-swap on
// the room's version so concurrent requests against the same room never
// overwrite each other.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/vctt94/holdemtable/pkg/poker"
)

var (
	// ErrNotFound is returned when a room does not exist.
	ErrNotFound = errors.New("room not found")
	// ErrConflict is returned when a room changed since it was read.
	ErrConflict = errors.New("room was modified concurrently")
	// ErrExists is returned when creating a room whose code is taken.
	ErrExists = errors.New("room already exists")
)

// RoomStatus is the lifecycle state of a room.
type RoomStatus string

const (
	StatusWaiting RoomStatus = "waiting"
	StatusPlaying RoomStatus = "playing"
)

// Room is one table and its persisted game state.
type Room struct {
	Code      string           `json:"code"`
	Status    RoomStatus       `json:"status"`
	State     *poker.GameState `json:"state"`
	Version   int64            `json:"version"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// Database defines the room persistence operations.
type Database interface {
	// CreateRoom inserts a new room at version 1.
	CreateRoom(ctx context.Context, room *Room) error
	// GetRoom loads a room by code.
	GetRoom(ctx context.Context, code string) (*Room, error)
	// UpdateRoom writes room if the stored version still equals
	// room.Version, then bumps room.Version. room.UpdatedAt is stored as
	// given, or stamped with the current time when zero.
	UpdateRoom(ctx context.Context, room *Room) error
	// ListRooms returns every room ordered by code.
	ListRooms(ctx context.Context) ([]*Room, error)
	// DeleteRoom removes a room.
	DeleteRoom(ctx context.Context, code string) error
	// Close releases the backend.
	Close() error
}
