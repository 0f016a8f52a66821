package poker

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// NumSeats is the fixed number of seats at a table.
const NumSeats = 6

// Phase is the betting street of the hand in progress.
type Phase int

const (
	PhasePreflop Phase = iota
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	switch string(b) {
	case "preflop":
		*p = PhasePreflop
	case "flop":
		*p = PhaseFlop
	case "turn":
		*p = PhaseTurn
	case "river":
		*p = PhaseRiver
	case "showdown":
		*p = PhaseShowdown
	default:
		return fmt.Errorf("unknown phase %q", b)
	}
	return nil
}

// TableConfig holds the blind structure of a table.
type TableConfig struct {
	SmallBlind int64
	BigBlind   int64
}

// DefaultTableConfig returns 10/20 blinds.
func DefaultTableConfig() TableConfig {
	return TableConfig{SmallBlind: 10, BigBlind: 20}
}

// SidePot is one tier of the pot together with the seats that can win it.
type SidePot struct {
	Amount        int64 `json:"amount"`
	EligibleSeats []int `json:"eligibleSeats"`
}

// Winner records chips awarded to one seat at the end of a hand.
type Winner struct {
	Seat     int    `json:"seatIndex"`
	Name     string `json:"name"`
	Amount   int64  `json:"amount"`
	HandName string `json:"handName"`
}

// ShowdownHand is a hand revealed at showdown.
type ShowdownHand struct {
	Seat      int    `json:"seatIndex"`
	Name      string `json:"name"`
	HoleCards []Card `json:"holeCards"`
	HandName  string `json:"handName"`
	BestCards []Card `json:"bestCards"`
}

// GameState is the complete, serializable state of one table. The engine
// never mutates a GameState it is given; every transition returns a copy.
//
// Pot holds chips committed to the undivided pot. Once side pots have been
// built those chips move into SidePots and Pot only accumulates bets made
// after that point, so the chips on the table are always Pot plus the sum of
// the side pot amounts.
type GameState struct {
	Players        [NumSeats]*Player `json:"players"`
	Deck           []Card            `json:"deck"`
	CommunityCards []Card            `json:"communityCards"`
	Pot            int64             `json:"pot"`
	SidePots       []SidePot         `json:"sidePots"`
	Contributions  [NumSeats]int64   `json:"contributions"`
	CurrentBet     int64             `json:"currentBet"`
	MinRaise       int64             `json:"minRaise"`
	SmallBlind     int64             `json:"smallBlind"`
	BigBlind       int64             `json:"bigBlind"`
	DealerSeat     int               `json:"dealerSeat"`
	ActiveSeat     int               `json:"activeSeat"`
	Phase          Phase             `json:"phase"`
	HandNumber     int               `json:"handNumber"`
	HandComplete   bool              `json:"handComplete"`
	Winners        []Winner          `json:"winners"`
	ShowdownHands  []ShowdownHand    `json:"showdownHands,omitempty"`
	ActionLog      []string          `json:"actionLog"`
	LastActionAt   time.Time         `json:"lastActionAt"`
	HandCompleteAt time.Time         `json:"handCompleteAt"`
}

// NewGameState returns an empty table with the given blinds.
func NewGameState(cfg TableConfig) *GameState {
	if cfg.SmallBlind <= 0 || cfg.BigBlind <= 0 {
		cfg = DefaultTableConfig()
	}
	return &GameState{
		SmallBlind: cfg.SmallBlind,
		BigBlind:   cfg.BigBlind,
		MinRaise:   cfg.BigBlind,
		ActiveSeat: -1,
		Phase:      PhasePreflop,
	}
}

// Clone returns a deep copy of the state.
func (gs *GameState) Clone() *GameState {
	ns := *gs
	for i, p := range gs.Players {
		ns.Players[i] = p.clone()
	}
	ns.Deck = append([]Card(nil), gs.Deck...)
	ns.CommunityCards = append([]Card(nil), gs.CommunityCards...)
	if gs.SidePots != nil {
		ns.SidePots = make([]SidePot, len(gs.SidePots))
		for i, sp := range gs.SidePots {
			ns.SidePots[i] = SidePot{
				Amount:        sp.Amount,
				EligibleSeats: append([]int(nil), sp.EligibleSeats...),
			}
		}
	}
	ns.Winners = append([]Winner(nil), gs.Winners...)
	if gs.ShowdownHands != nil {
		ns.ShowdownHands = make([]ShowdownHand, len(gs.ShowdownHands))
		for i, sh := range gs.ShowdownHands {
			sh.HoleCards = append([]Card(nil), sh.HoleCards...)
			sh.BestCards = append([]Card(nil), sh.BestCards...)
			ns.ShowdownHands[i] = sh
		}
	}
	ns.ActionLog = append([]string(nil), gs.ActionLog...)
	return &ns
}

// TotalPot returns every chip committed to the hand and not yet awarded.
func (gs *GameState) TotalPot() int64 {
	total := gs.Pot
	for _, sp := range gs.SidePots {
		total += sp.Amount
	}
	return total
}

// Player returns the player in seat, or nil.
func (gs *GameState) Player(seat int) *Player {
	if seat < 0 || seat >= NumSeats {
		return nil
	}
	return gs.Players[seat]
}

// HandInProgress reports whether a dealt hand is awaiting action.
func (gs *GameState) HandInProgress() bool {
	return gs.HandNumber > 0 && !gs.HandComplete && gs.ActiveSeat >= 0
}

// nextSeat returns the first seat clockwise after from whose occupant
// satisfies pred, or -1.
func (gs *GameState) nextSeat(from int, pred func(*Player) bool) int {
	for i := 1; i <= NumSeats; i++ {
		s := ((from+i)%NumSeats + NumSeats) % NumSeats
		if p := gs.Players[s]; p != nil && pred(p) {
			return s
		}
	}
	return -1
}

func (gs *GameState) count(pred func(*Player) bool) int {
	n := 0
	for _, p := range gs.Players {
		if p != nil && pred(p) {
			n++
		}
	}
	return n
}

// seatsFrom lists occupied seats satisfying pred, clockwise starting after
// seat from.
func (gs *GameState) seatsFrom(from int, pred func(*Player) bool) []int {
	var seats []int
	for i := 1; i <= NumSeats; i++ {
		s := ((from+i)%NumSeats + NumSeats) % NumSeats
		if p := gs.Players[s]; p != nil && pred(p) {
			seats = append(seats, s)
		}
	}
	return seats
}

func hasChips(p *Player) bool { return p.Chips > 0 }

func (gs *GameState) logf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	gs.ActionLog = append(gs.ActionLog, line)
	log.Debugf("hand %d: %s", gs.HandNumber, line)
}

// postBlind takes up to amount chips from seat as a forced bet.
func (gs *GameState) postBlind(seat int, amount int64, label string) int64 {
	p := gs.Players[seat]
	posted := p.commit(amount)
	gs.Pot += posted
	gs.Contributions[seat] += posted
	gs.logf("%s posts %s (%d)", p.Name, label, posted)
	return posted
}

// DealNewHand starts the next hand. Players with chips become active, the
// button moves, blinds are posted and two hole cards are dealt to each
// active player. The deck is shuffled with rng, or with a crypto seeded
// source when rng is nil. If fewer than two players have chips the returned
// state has its per-hand fields reset and no seat to act; callers are
// expected to check before dealing.
func DealNewHand(gs *GameState, rng *rand.Rand, now time.Time) *GameState {
	ns := gs.Clone()

	ns.Deck = NewDeck(rng)
	ns.CommunityCards = nil
	ns.Pot = 0
	ns.SidePots = nil
	ns.Contributions = [NumSeats]int64{}
	ns.CurrentBet = 0
	ns.MinRaise = ns.BigBlind
	ns.Phase = PhasePreflop
	ns.HandComplete = false
	ns.HandCompleteAt = time.Time{}
	ns.Winners = nil
	ns.ShowdownHands = nil
	ns.ActionLog = nil
	ns.ActiveSeat = -1
	ns.LastActionAt = now

	for _, p := range ns.Players {
		if p != nil {
			p.resetForNewHand()
		}
	}

	eligible := ns.count(func(p *Player) bool { return p.Status == StatusActive })
	if eligible < 2 {
		log.Debugf("not dealing: %d eligible players", eligible)
		return ns
	}

	ns.HandNumber++
	ns.DealerSeat = ns.nextSeat(ns.DealerSeat, (*Player).CanAct)

	var sbSeat, bbSeat int
	if eligible == 2 {
		// Heads-up the button posts the small blind.
		sbSeat = ns.DealerSeat
	} else {
		sbSeat = ns.nextSeat(ns.DealerSeat, (*Player).CanAct)
	}
	bbSeat = ns.nextSeat(sbSeat, (*Player).CanAct)

	ns.logf("Hand #%d, dealer %s", ns.HandNumber, ns.Players[ns.DealerSeat].Name)
	sb := ns.postBlind(sbSeat, ns.SmallBlind, "small blind")
	bb := ns.postBlind(bbSeat, ns.BigBlind, "big blind")
	ns.CurrentBet = bb
	if sb > bb {
		ns.CurrentBet = sb
	}

	// Two passes, one card at a time, starting left of the button.
	order := ns.seatsFrom(ns.DealerSeat, (*Player).InHand)
	for pass := 0; pass < 2; pass++ {
		for _, s := range order {
			card, _ := ns.draw()
			ns.Players[s].HoleCards = append(ns.Players[s].HoleCards, card)
		}
	}

	if ns.fastForwardIfNeeded(now) {
		return ns
	}
	ns.ActiveSeat = ns.nextSeat(bbSeat, (*Player).CanAct)
	return ns
}
