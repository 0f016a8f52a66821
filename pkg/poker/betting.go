package poker

import (
	"fmt"
	"strconv"
	"time"
)

// ActionType is a betting decision.
type ActionType string

const (
	ActionFold  ActionType = "fold"
	ActionCheck ActionType = "check"
	ActionCall  ActionType = "call"
	ActionRaise ActionType = "raise"
	ActionAllIn ActionType = "all-in"
)

// ParseActionType validates an action name.
func ParseActionType(s string) (ActionType, error) {
	switch t := ActionType(s); t {
	case ActionFold, ActionCheck, ActionCall, ActionRaise, ActionAllIn:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAction, s)
}

// Action is a player's decision. Amount is only meaningful for a raise and
// is the total the raiser's street bet becomes, not the increment.
type Action struct {
	Type   ActionType `json:"type"`
	Amount int64      `json:"amount,omitempty"`
}

func (a Action) String() string {
	if a.Type == ActionRaise {
		return string(a.Type) + " " + strconv.FormatInt(a.Amount, 10)
	}
	return string(a.Type)
}

// AvailableActions describes what the seat to act may do.
type AvailableActions struct {
	Actions    []ActionType `json:"actions"`
	CallAmount int64        `json:"callAmount"`
	MinRaiseTo int64        `json:"minRaiseTo"`
	MaxRaiseTo int64        `json:"maxRaiseTo"`
}

// Has reports whether t is among the available actions.
func (a AvailableActions) Has(t ActionType) bool {
	for _, at := range a.Actions {
		if at == t {
			return true
		}
	}
	return false
}

// GetAvailableActions lists the legal actions for seat. Only the seat whose
// turn it is has any.
func GetAvailableActions(gs *GameState, seat int) AvailableActions {
	p := gs.Player(seat)
	if p == nil || gs.HandComplete || gs.ActiveSeat != seat || p.Status != StatusActive {
		return AvailableActions{}
	}

	toCall := gs.CurrentBet - p.CurrentBet
	if toCall < 0 {
		toCall = 0
	}
	res := AvailableActions{Actions: []ActionType{ActionFold}}
	if toCall == 0 {
		res.Actions = append(res.Actions, ActionCheck)
	}
	if toCall > 0 && p.Chips > 0 {
		res.Actions = append(res.Actions, ActionCall)
	}
	if p.Chips > toCall {
		res.Actions = append(res.Actions, ActionRaise)
		res.MaxRaiseTo = p.CurrentBet + p.Chips
		res.MinRaiseTo = gs.CurrentBet + gs.MinRaise
		if res.MinRaiseTo > res.MaxRaiseTo {
			res.MinRaiseTo = res.MaxRaiseTo
		}
	}
	if p.Chips > 0 {
		res.Actions = append(res.Actions, ActionAllIn)
	}
	res.CallAmount = toCall
	if res.CallAmount > p.Chips {
		res.CallAmount = p.Chips
	}
	return res
}

// ApplyAction validates and applies a betting action for seat, returning the
// resulting state. On error the input state is unchanged and the returned
// state is nil.
func ApplyAction(gs *GameState, seat int, action Action, now time.Time) (*GameState, error) {
	if seat < 0 || seat >= NumSeats {
		return nil, ErrInvalidSeat
	}
	if gs.HandComplete {
		return nil, ErrHandComplete
	}
	if gs.ActiveSeat != seat || gs.Players[seat] == nil || gs.Players[seat].Status != StatusActive {
		return nil, ErrNotYourTurn
	}

	ns := gs.Clone()
	p := ns.Players[seat]

	switch action.Type {
	case ActionFold:
		p.Status = StatusFolded
		p.HasActed = true
		p.LastAction = "fold"
		ns.logf("%s folds", p.Name)

	case ActionCheck:
		if p.CurrentBet < ns.CurrentBet {
			return nil, ErrInvalidCheck
		}
		p.HasActed = true
		p.LastAction = "check"
		ns.logf("%s checks", p.Name)

	case ActionCall:
		owed := ns.CurrentBet - p.CurrentBet
		if owed <= 0 || p.Chips == 0 {
			return nil, ErrNothingToCall
		}
		paid := ns.commit(seat, owed)
		p.HasActed = true
		p.LastAction = "call"
		ns.logf("%s calls %d", p.Name, paid)

	case ActionRaise:
		stack := p.CurrentBet + p.Chips
		if action.Amount >= stack {
			// Raising to the whole stack is an all-in.
			ns.allIn(seat)
			break
		}
		if action.Amount < ns.CurrentBet+ns.MinRaise {
			return nil, fmt.Errorf("%w: raise to %d, minimum is %d",
				ErrRaiseBelowMinimum, action.Amount, ns.CurrentBet+ns.MinRaise)
		}
		increment := action.Amount - ns.CurrentBet
		if increment > ns.MinRaise {
			ns.MinRaise = increment
		}
		ns.commit(seat, action.Amount-p.CurrentBet)
		ns.CurrentBet = action.Amount
		p.HasActed = true
		p.LastAction = "raise " + strconv.FormatInt(action.Amount, 10)
		ns.reopenAction(seat)
		ns.logf("%s raises to %d", p.Name, action.Amount)

	case ActionAllIn:
		if p.Chips == 0 {
			return nil, ErrNothingToCall
		}
		ns.allIn(seat)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action.Type)
	}

	ns.LastActionAt = now

	if ns.count((*Player).InHand) == 1 {
		ns.awardLastPlayer(now)
		return ns, nil
	}

	ns.advanceAction(seat, now)
	return ns, nil
}

// commit moves chips from seat's stack into the pot.
func (gs *GameState) commit(seat int, amount int64) int64 {
	paid := gs.Players[seat].commit(amount)
	gs.Pot += paid
	gs.Contributions[seat] += paid
	return paid
}

// allIn pushes seat's whole stack. Only a full raise reopens the betting for
// players who have already acted.
func (gs *GameState) allIn(seat int) {
	p := gs.Players[seat]
	paid := gs.commit(seat, p.Chips)
	p.HasActed = true
	p.LastAction = "all-in " + strconv.FormatInt(paid, 10)

	if p.CurrentBet > gs.CurrentBet {
		increment := p.CurrentBet - gs.CurrentBet
		gs.CurrentBet = p.CurrentBet
		if increment >= gs.MinRaise {
			gs.MinRaise = increment
			gs.reopenAction(seat)
		}
	}
	gs.logf("%s goes all-in for %d", p.Name, paid)
}

// reopenAction requires every other active player to act again.
func (gs *GameState) reopenAction(raiser int) {
	for s, p := range gs.Players {
		if s != raiser && p.CanAct() {
			p.HasActed = false
		}
	}
}

// awardLastPlayer gives every chip in the middle to the only player left.
func (gs *GameState) awardLastPlayer(now time.Time) {
	seat := gs.nextSeat(gs.DealerSeat, (*Player).InHand)
	winner := gs.Players[seat]
	amount := gs.TotalPot()
	winner.Chips += amount
	gs.Winners = []Winner{{
		Seat:     seat,
		Name:     winner.Name,
		Amount:   amount,
		HandName: "Last player standing",
	}}
	gs.Pot = 0
	gs.SidePots = nil
	gs.completeHand(now)
	gs.logf("%s wins %d", winner.Name, amount)
}

func (gs *GameState) completeHand(now time.Time) {
	gs.HandComplete = true
	gs.HandCompleteAt = now
	gs.ActiveSeat = -1
}

// needsToAct reports whether an active player still owes a decision this
// street.
func (gs *GameState) needsToAct(p *Player) bool {
	return p.CanAct() && (!p.HasActed || p.CurrentBet < gs.CurrentBet)
}

// advanceAction moves the turn clockwise from the seat that just acted, or
// closes the street when nobody owes a decision.
func (gs *GameState) advanceAction(from int, now time.Time) {
	active := gs.count((*Player).CanAct)
	if active == 1 {
		// A lone active player who has matched the bet has nobody left to
		// bet against.
		s := gs.nextSeat(from, (*Player).CanAct)
		if gs.Players[s].CurrentBet >= gs.CurrentBet {
			active = 0
		}
	}
	if active > 0 {
		if next := gs.nextSeat(from, gs.needsToAct); next >= 0 {
			gs.ActiveSeat = next
			return
		}
	}
	gs.advancePhase(now)
}

// advancePhase closes the current street and deals the next one, or goes to
// showdown after the river.
func (gs *GameState) advancePhase(now time.Time) {
	gs.buildSidePots()
	for _, p := range gs.Players {
		if p != nil {
			p.resetForNewStreet()
		}
	}
	gs.CurrentBet = 0
	gs.MinRaise = gs.BigBlind

	var err error
	switch gs.Phase {
	case PhasePreflop:
		gs.Phase = PhaseFlop
		err = gs.burnAndDeal(3)
	case PhaseFlop:
		gs.Phase = PhaseTurn
		err = gs.burnAndDeal(1)
	case PhaseTurn:
		gs.Phase = PhaseRiver
		err = gs.burnAndDeal(1)
	default:
		gs.resolveShowdown(now)
		return
	}
	if err != nil {
		// Six seats never exhaust a 52 card deck.
		log.Errorf("hand %d: %v", gs.HandNumber, err)
	}
	gs.logf("%s: %s", gs.Phase, cardsString(gs.CommunityCards))

	if gs.fastForwardIfNeeded(now) {
		return
	}
	gs.ActiveSeat = gs.nextSeat(gs.DealerSeat, (*Player).CanAct)
}

// fastForwardIfNeeded runs the board out and resolves the hand once fewer
// than two players can still bet. A single active player facing an unmatched
// bet keeps the turn so they can call or fold. It reports whether the hand
// was resolved.
func (gs *GameState) fastForwardIfNeeded(now time.Time) bool {
	if gs.count((*Player).InHand) < 2 || gs.count((*Player).CanAct) > 1 {
		return false
	}
	if s := gs.nextSeat(gs.DealerSeat, (*Player).CanAct); s >= 0 {
		p := gs.Players[s]
		if p.CurrentBet < gs.CurrentBet && p.Chips > 0 {
			gs.ActiveSeat = s
			return false
		}
	}

	gs.buildSidePots()
	for len(gs.CommunityCards) < 5 {
		n := 1
		if len(gs.CommunityCards) == 0 {
			n = 3
		}
		if err := gs.burnAndDeal(n); err != nil {
			log.Errorf("hand %d: %v", gs.HandNumber, err)
			break
		}
	}
	if len(gs.CommunityCards) > 0 {
		gs.logf("Board: %s", cardsString(gs.CommunityCards))
	}
	gs.resolveShowdown(now)
	return true
}

func cardsString(cards []Card) string {
	s := ""
	for i, c := range cards {
		if i > 0 {
			s += " "
		}
		s += c.String()
	}
	return s
}
