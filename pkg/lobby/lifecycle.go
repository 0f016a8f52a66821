package lobby

import (
	"fmt"
	"time"

	"github.com/vctt94/holdemtable/pkg/poker"
	"github.com/vctt94/holdemtable/pkg/statemachine"
	"github.com/vctt94/holdemtable/pkg/store"
)

type roomEvent int

const (
	// eventStart is the creator asking to begin play.
	eventStart roomEvent = iota
	// eventRefresh re-checks whether the room can keep playing.
	eventRefresh
)

// lifecycle is the entity the room state functions operate on.
type lifecycle struct {
	room  *store.Room
	event roomEvent
	deal  func(*poker.GameState) *poker.GameState
	err   error
}

type roomStateFn = statemachine.StateFn[lifecycle]

// roomWaiting is a room whose players are gathering.
func roomWaiting(l *lifecycle) roomStateFn {
	if l.event != eventStart {
		return roomWaiting
	}
	if poker.PlayersWithChips(l.room.State) < 2 {
		l.err = ErrNotEnoughPlayers
		return roomWaiting
	}
	l.room.State = l.deal(l.room.State)
	return roomPlaying
}

// roomPlaying is a room dealing hands. It falls back to waiting once fewer
// than two players are seated, or a hand has ended and fewer than two can
// post again.
func roomPlaying(l *lifecycle) roomStateFn {
	if l.event == eventStart {
		l.err = ErrAlreadyStarted
		return roomPlaying
	}
	gs := l.room.State
	if poker.SeatedCount(gs) < 2 {
		return roomWaiting
	}
	if gs.HandComplete && poker.PlayersWithChips(gs) < 2 {
		return roomWaiting
	}
	return roomPlaying
}

// transition runs one lifecycle step for room and stores the resulting
// status on it.
func transition(room *store.Room, ev roomEvent, deal func(*poker.GameState) *poker.GameState) error {
	l := &lifecycle{room: room, event: ev, deal: deal}
	sm := statemachine.NewStateMachine(l, roomWaiting).
		Register(string(store.StatusWaiting), roomWaiting).
		Register(string(store.StatusPlaying), roomPlaying)
	if !sm.SetStateByName(string(room.Status)) {
		return fmt.Errorf("room %s has unknown status %q", room.Code, room.Status)
	}

	sm.Dispatch()

	next := store.RoomStatus(sm.StateName())
	if next != room.Status {
		log.Infof("room %s: %s -> %s", room.Code, room.Status, next)
		room.Status = next
	}
	return l.err
}

// dealer returns a deal function bound to the service's shuffle source.
func (s *Service) dealer(now time.Time) func(*poker.GameState) *poker.GameState {
	return func(gs *poker.GameState) *poker.GameState {
		s.rngMu.Lock()
		defer s.rngMu.Unlock()
		return poker.DealNewHand(gs, s.rng, now)
	}
}
