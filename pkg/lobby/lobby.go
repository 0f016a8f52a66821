// Package lobby runs poker rooms on top of a store.Database. Every
// operation is a read-modify-write of one room retried on version
// conflicts, so any number of server processes may share a backend.
package lobby

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	mrand "math/rand/v2"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vctt94/holdemtable/pkg/poker"
	"github.com/vctt94/holdemtable/pkg/store"
)

const (
	roomCodeChars  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength = 6
	maxNameLength  = 20
	createAttempts = 5
)

// Config holds the room policy.
type Config struct {
	Table         poker.TableConfig
	StartingChips int64
	// TurnTimeout is how long the seat to act may stay idle before it is
	// folded.
	TurnTimeout time.Duration
	// AutoDealDelay is how long a finished hand stays on screen.
	AutoDealDelay time.Duration
	// ListWindow hides rooms idle for longer from ListRooms. Zero lists all.
	ListWindow time.Duration
	// IdleExpiry is how long a waiting room may sit untouched before the
	// sweeper deletes it. Zero keeps rooms forever.
	IdleExpiry time.Duration
	MaxRetries int
}

// DefaultConfig returns the standard room policy.
func DefaultConfig() Config {
	return Config{
		Table:         poker.DefaultTableConfig(),
		StartingChips: 1000,
		TurnTimeout:   30 * time.Second,
		AutoDealDelay: 5 * time.Second,
		ListWindow:    5 * time.Minute,
		IdleExpiry:    time.Hour,
		MaxRetries:    3,
	}
}

// Service implements the room operations.
type Service struct {
	db  store.Database
	cfg Config
	now func() time.Time

	rngMu sync.Mutex
	rng   *mrand.Rand
}

// NewService creates a room service backed by db. Decks are shuffled from a
// crypto seeded source unless SetRand is called.
func NewService(db store.Database, cfg Config) *Service {
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}
	return &Service{
		db:  db,
		cfg: cfg,
		now: time.Now,
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// SetRand makes shuffles come from rng.
func (s *Service) SetRand(rng *mrand.Rand) {
	s.rngMu.Lock()
	s.rng = rng
	s.rngMu.Unlock()
}

// JoinResult identifies a seated player.
type JoinResult struct {
	RoomCode string `json:"roomCode"`
	Token    string `json:"playerToken"`
	Seat     int    `json:"seatIndex"`
}

// RoomView is what a player sees of a room.
type RoomView struct {
	RoomCode string            `json:"roomCode"`
	Status   store.RoomStatus  `json:"roomStatus"`
	Version  int64             `json:"version"`
	State    *poker.ClientView `json:"gameState"`
}

// RoomSummary is one entry of the public table list.
type RoomSummary struct {
	RoomCode    string           `json:"roomCode"`
	Status      store.RoomStatus `json:"status"`
	PlayerCount int              `json:"playerCount"`
	MaxPlayers  int              `json:"maxPlayers"`
	Blinds      string           `json:"blinds"`
	PlayerNames []string         `json:"playerNames"`
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func cleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}

func newRoomCode() (string, error) {
	var sb strings.Builder
	max := big.NewInt(int64(len(roomCodeChars)))
	for i := 0; i < roomCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		sb.WriteByte(roomCodeChars[n.Int64()])
	}
	return sb.String(), nil
}

// update loads room code, lets fn modify it and writes it back, retrying
// from a fresh read when another writer got there first. fn returning
// errNoChange skips the write.
func (s *Service) update(ctx context.Context, code string, fn func(room *store.Room, now time.Time) error) (*store.Room, error) {
	for attempt := 0; attempt < s.cfg.MaxRetries; attempt++ {
		room, err := s.db.GetRoom(ctx, code)
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		if err != nil {
			return nil, err
		}

		now := s.now()
		err = fn(room, now)
		if errors.Is(err, errNoChange) {
			return room, nil
		}
		if err != nil {
			return nil, err
		}
		room.UpdatedAt = now

		err = s.db.UpdateRoom(ctx, room)
		switch {
		case err == nil:
			return room, nil
		case errors.Is(err, store.ErrConflict):
			log.Debugf("room %s: version conflict (attempt %d)", code, attempt+1)
			continue
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrRoomNotFound
		default:
			return nil, err
		}
	}
	return nil, ErrConflictRetries
}

func (s *Service) seatOf(room *store.Room, token string) (int, error) {
	seat := poker.FindPlayerByToken(room.State, token)
	if seat < 0 {
		return -1, ErrInvalidToken
	}
	return seat, nil
}

func (s *Service) view(room *store.Room, token string) *RoomView {
	return &RoomView{
		RoomCode: room.Code,
		Status:   room.Status,
		Version:  room.Version,
		State:    poker.SanitizeForViewer(room.State, token, s.now()),
	}
}

// CreateRoom opens a new room with name in seat 0.
func (s *Service) CreateRoom(ctx context.Context, name string) (*JoinResult, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	now := s.now()
	token := uuid.NewString()

	gs := poker.NewGameState(s.cfg.Table)
	gs, seat, err := poker.SeatPlayer(gs, 0, name, token, s.cfg.StartingChips, now)
	if err != nil {
		return nil, err
	}

	for i := 0; i < createAttempts; i++ {
		code, err := newRoomCode()
		if err != nil {
			return nil, fmt.Errorf("failed to generate room code: %w", err)
		}
		room := &store.Room{
			Code:      code,
			Status:    store.StatusWaiting,
			State:     gs,
			CreatedAt: now,
		}
		err = s.db.CreateRoom(ctx, room)
		if errors.Is(err, store.ErrExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		log.Infof("%s created room %s", name, code)
		return &JoinResult{RoomCode: code, Token: token, Seat: seat}, nil
	}
	return nil, fmt.Errorf("no free room code after %d attempts", createAttempts)
}

// JoinRoom seats name in the lowest empty seat of room code.
func (s *Service) JoinRoom(ctx context.Context, code, name string) (*JoinResult, error) {
	name, err := cleanName(name)
	if err != nil {
		return nil, err
	}
	code = normalizeCode(code)
	token := uuid.NewString()

	var seat int
	_, err = s.update(ctx, code, func(room *store.Room, now time.Time) error {
		if poker.FirstEmptySeat(room.State) < 0 {
			return ErrRoomFull
		}
		if poker.NameTaken(room.State, name) {
			return ErrNameTaken
		}
		ns, sat, err := poker.SeatPlayer(room.State, -1, name, token, s.cfg.StartingChips, now)
		if err != nil {
			return err
		}
		room.State, seat = ns, sat
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Infof("%s joined room %s in seat %d", name, code, seat)
	return &JoinResult{RoomCode: code, Token: token, Seat: seat}, nil
}

// StartGame deals the first hand. Only the player in seat 0 may start.
func (s *Service) StartGame(ctx context.Context, code, token string) (*RoomView, error) {
	code = normalizeCode(code)
	room, err := s.update(ctx, code, func(room *store.Room, now time.Time) error {
		creator := room.State.Player(0)
		if creator == nil || token == "" || creator.Token != token {
			return ErrNotCreator
		}
		return transition(room, eventStart, s.dealer(now))
	})
	if err != nil {
		return nil, err
	}
	log.Infof("room %s started", code)
	return s.view(room, token), nil
}

// Act applies a betting action for the holder of token.
func (s *Service) Act(ctx context.Context, code, token string, action poker.Action) (*RoomView, error) {
	code = normalizeCode(code)
	room, err := s.update(ctx, code, func(room *store.Room, now time.Time) error {
		seat, err := s.seatOf(room, token)
		if err != nil {
			return err
		}
		ns, err := poker.ApplyAction(room.State, seat, action, now)
		if err != nil {
			return err
		}
		room.State = poker.TouchPlayer(ns, seat, now)
		return transition(room, eventRefresh, s.dealer(now))
	})
	if err != nil {
		return nil, err
	}
	return s.view(room, token), nil
}

// Poll records that the holder of token is connected, applies any due
// timeout or deal, and returns their view.
func (s *Service) Poll(ctx context.Context, code, token string) (*RoomView, error) {
	code = normalizeCode(code)
	room, err := s.update(ctx, code, func(room *store.Room, now time.Time) error {
		seat, err := s.seatOf(room, token)
		if err != nil {
			return err
		}
		room.State = poker.TouchPlayer(room.State, seat, now)
		_, err = s.applyTimers(room, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.view(room, token), nil
}

// State returns the view of the holder of token without changing anything.
func (s *Service) State(ctx context.Context, code, token string) (*RoomView, error) {
	room, err := s.db.GetRoom(ctx, normalizeCode(code))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrRoomNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.seatOf(room, token); err != nil {
		return nil, err
	}
	return s.view(room, token), nil
}

// Leave removes the holder of token from the room, folding their hand.
func (s *Service) Leave(ctx context.Context, code, token string) error {
	code = normalizeCode(code)
	var name string
	_, err := s.update(ctx, code, func(room *store.Room, now time.Time) error {
		seat, err := s.seatOf(room, token)
		if err != nil {
			return err
		}
		name = room.State.Players[seat].Name
		room.State = poker.RemovePlayer(room.State, seat, now)
		return transition(room, eventRefresh, s.dealer(now))
	})
	if err != nil {
		return err
	}
	log.Infof("%s left room %s", name, code)
	return nil
}

// ListRooms summarises recently active rooms, newest first.
func (s *Service) ListRooms(ctx context.Context) ([]RoomSummary, error) {
	rooms, err := s.db.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sort.SliceStable(rooms, func(i, j int) bool {
		return rooms[i].CreatedAt.After(rooms[j].CreatedAt)
	})

	summaries := make([]RoomSummary, 0, len(rooms))
	for _, room := range rooms {
		if s.cfg.ListWindow > 0 && now.Sub(room.UpdatedAt) > s.cfg.ListWindow {
			continue
		}
		sum := RoomSummary{
			RoomCode:   room.Code,
			Status:     room.Status,
			MaxPlayers: poker.NumSeats,
			Blinds:     fmt.Sprintf("%d/%d", room.State.SmallBlind, room.State.BigBlind),
		}
		for _, p := range room.State.Players {
			if p != nil {
				sum.PlayerCount++
				sum.PlayerNames = append(sum.PlayerNames, p.Name)
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, nil
}

// applyTimers folds an idle seat and deals the next hand once the last
// one has been shown long enough. It reports whether the room changed.
func (s *Service) applyTimers(room *store.Room, now time.Time) (bool, error) {
	if room.Status != store.StatusPlaying {
		return false, nil
	}
	changed := false

	if poker.TimedOut(room.State, s.cfg.TurnTimeout, now) {
		ns, err := poker.FoldOnTimeout(room.State, now)
		if err != nil {
			log.Warnf("room %s: auto-fold failed: %v", room.Code, err)
		} else {
			log.Debugf("room %s: seat %d timed out", room.Code, room.State.ActiveSeat)
			room.State = ns
			changed = true
		}
	}

	if poker.ReadyToDeal(room.State, s.cfg.AutoDealDelay, now) {
		room.State = s.dealer(now)(room.State)
		changed = true
	}

	before := room.Status
	if err := transition(room, eventRefresh, s.dealer(now)); err != nil {
		return changed, err
	}
	return changed || room.Status != before, nil
}
