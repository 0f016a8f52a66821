package poker

import (
	"fmt"
	"time"
)

// PlayerStatus is a seated player's participation in the current hand.
type PlayerStatus int

const (
	StatusActive PlayerStatus = iota
	StatusFolded
	StatusAllIn
	StatusSittingOut
)

func (s PlayerStatus) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusFolded:
		return "folded"
	case StatusAllIn:
		return "all-in"
	case StatusSittingOut:
		return "sitting-out"
	}
	return fmt.Sprintf("PlayerStatus(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s PlayerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *PlayerStatus) UnmarshalText(b []byte) error {
	switch string(b) {
	case "active":
		*s = StatusActive
	case "folded":
		*s = StatusFolded
	case "all-in":
		*s = StatusAllIn
	case "sitting-out":
		*s = StatusSittingOut
	default:
		return fmt.Errorf("unknown player status %q", b)
	}
	return nil
}

// Player is a seated participant. The token is a bearer credential and must
// never be sent to other clients.
type Player struct {
	Name       string       `json:"name"`
	Token      string       `json:"token"`
	Seat       int          `json:"seatIndex"`
	Chips      int64        `json:"chips"`
	HoleCards  []Card       `json:"holeCards"`
	Status     PlayerStatus `json:"status"`
	CurrentBet int64        `json:"currentBet"`
	LastAction string       `json:"lastAction,omitempty"`
	HasActed   bool         `json:"hasActed"`
	LastSeen   time.Time    `json:"lastSeen"`
}

// NewPlayer creates a player that will join the next hand dealt.
func NewPlayer(name, token string, seat int, chips int64, now time.Time) *Player {
	return &Player{
		Name:     name,
		Token:    token,
		Seat:     seat,
		Chips:    chips,
		Status:   StatusSittingOut,
		LastSeen: now,
	}
}

func (p *Player) clone() *Player {
	if p == nil {
		return nil
	}
	cp := *p
	if p.HoleCards != nil {
		cp.HoleCards = append([]Card(nil), p.HoleCards...)
	}
	return &cp
}

// InHand reports whether the player still contests the pot.
func (p *Player) InHand() bool {
	return p != nil && (p.Status == StatusActive || p.Status == StatusAllIn)
}

// CanAct reports whether the player may still make betting decisions.
func (p *Player) CanAct() bool {
	return p != nil && p.Status == StatusActive
}

// commit moves up to amount chips from the player's stack into their street
// bet and returns what was actually moved. A player whose stack reaches zero
// is all-in.
func (p *Player) commit(amount int64) int64 {
	if amount > p.Chips {
		amount = p.Chips
	}
	if amount < 0 {
		amount = 0
	}
	p.Chips -= amount
	p.CurrentBet += amount
	if p.Chips == 0 && p.Status == StatusActive {
		p.Status = StatusAllIn
	}
	return amount
}

// resetForNewHand clears per-hand fields. Players with no chips sit out.
func (p *Player) resetForNewHand() {
	p.HoleCards = nil
	p.CurrentBet = 0
	p.LastAction = ""
	p.HasActed = false
	if p.Chips > 0 {
		p.Status = StatusActive
	} else {
		p.Status = StatusSittingOut
	}
}

func (p *Player) resetForNewStreet() {
	p.CurrentBet = 0
	p.HasActed = false
	p.LastAction = ""
}
