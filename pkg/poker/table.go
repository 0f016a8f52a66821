package poker

import (
	"strings"
	"time"
)

// SeatPlayer seats a new player. A seat of -1 picks the lowest empty seat.
// Players seated while a hand is running sit out until the next deal.
func SeatPlayer(gs *GameState, seat int, name, token string, chips int64, now time.Time) (*GameState, int, error) {
	if seat == -1 {
		seat = FirstEmptySeat(gs)
		if seat == -1 {
			return nil, -1, ErrTableFull
		}
	}
	if seat < 0 || seat >= NumSeats {
		return nil, -1, ErrInvalidSeat
	}
	if gs.Players[seat] != nil {
		return nil, -1, ErrSeatTaken
	}

	ns := gs.Clone()
	ns.Players[seat] = NewPlayer(name, token, seat, chips, now)
	ns.logf("%s sits down in seat %d", name, seat+1)
	return ns, seat, nil
}

// RemovePlayer empties seat. A player leaving a hand in progress folds
// first; if that was their turn the action moves on as for any fold.
func RemovePlayer(gs *GameState, seat int, now time.Time) *GameState {
	p := gs.Player(seat)
	if p == nil {
		return gs.Clone()
	}

	var ns *GameState
	if gs.ActiveSeat == seat && !gs.HandComplete && p.CanAct() {
		var err error
		ns, err = ApplyAction(gs, seat, Action{Type: ActionFold}, now)
		if err != nil {
			log.Errorf("folding departing player %s: %v", p.Name, err)
			ns = gs.Clone()
		}
	} else {
		ns = gs.Clone()
		if !ns.HandComplete && ns.Players[seat].InHand() {
			ns.Players[seat].Status = StatusFolded
			ns.logf("%s folds", p.Name)
			if ns.count((*Player).InHand) == 1 {
				ns.awardLastPlayer(now)
			}
		}
	}

	ns.Players[seat] = nil
	ns.logf("%s left the table", p.Name)
	return ns
}

// TouchPlayer records that seat's owner was just heard from.
func TouchPlayer(gs *GameState, seat int, now time.Time) *GameState {
	ns := gs.Clone()
	if p := ns.Player(seat); p != nil {
		p.LastSeen = now
	}
	return ns
}

// FirstEmptySeat returns the lowest unoccupied seat, or -1.
func FirstEmptySeat(gs *GameState) int {
	for s, p := range gs.Players {
		if p == nil {
			return s
		}
	}
	return -1
}

// FindPlayerByToken returns the seat holding token, or -1.
func FindPlayerByToken(gs *GameState, token string) int {
	if token == "" {
		return -1
	}
	for s, p := range gs.Players {
		if p != nil && p.Token == token {
			return s
		}
	}
	return -1
}

// NameTaken reports whether a seated player already uses name, ignoring case.
func NameTaken(gs *GameState, name string) bool {
	for _, p := range gs.Players {
		if p != nil && strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

// SeatedCount returns the number of occupied seats.
func SeatedCount(gs *GameState) int {
	return gs.count(func(*Player) bool { return true })
}

// PlayersWithChips returns the number of seated players able to post.
func PlayersWithChips(gs *GameState) int {
	return gs.count(hasChips)
}

// TimedOut reports whether the seat to act has exceeded timeout.
func TimedOut(gs *GameState, timeout time.Duration, now time.Time) bool {
	return gs.HandInProgress() && now.Sub(gs.LastActionAt) > timeout
}

// ReadyToDeal reports whether a completed hand has been shown for long
// enough and there are enough stacks to deal another.
func ReadyToDeal(gs *GameState, delay time.Duration, now time.Time) bool {
	return gs.HandComplete && now.Sub(gs.HandCompleteAt) > delay && PlayersWithChips(gs) >= 2
}

// FoldOnTimeout folds the seat to act and notes the timeout in the log.
func FoldOnTimeout(gs *GameState, now time.Time) (*GameState, error) {
	seat := gs.ActiveSeat
	p := gs.Player(seat)
	if p == nil {
		return nil, ErrNotYourTurn
	}
	ns, err := ApplyAction(gs, seat, Action{Type: ActionFold}, now)
	if err != nil {
		return nil, err
	}
	ns.logf("%s (auto-fold: timeout)", p.Name)
	return ns, nil
}
