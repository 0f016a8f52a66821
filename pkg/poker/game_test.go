package poker

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

// newTestTable seats one player per stack starting at seat 0.
func newTestTable(t *testing.T, cfg TableConfig, stacks ...int64) *GameState {
	t.Helper()
	gs := NewGameState(cfg)
	for i, chips := range stacks {
		var err error
		gs, _, err = SeatPlayer(gs, i, fmt.Sprintf("p%d", i), fmt.Sprintf("tok%d", i), chips, testNow)
		require.NoError(t, err)
	}
	return gs
}

// rigDeck replaces the hole cards of the given seats and orders the deck so
// the board comes out as given. It must be called before the flop.
func rigDeck(t *testing.T, gs *GameState, holes map[int]string, board string) {
	t.Helper()
	used := make(map[Card]bool)
	for seat, h := range holes {
		cards := MustParseCards(h)
		require.Len(t, cards, 2)
		gs.Players[seat].HoleCards = cards
		for _, c := range cards {
			used[c] = true
		}
	}
	b := MustParseCards(board)
	require.Len(t, b, 5)
	for _, c := range b {
		used[c] = true
	}
	var filler []Card
	for _, c := range NewDeck(rand.New(rand.NewPCG(1, 0))) {
		if !used[c] {
			filler = append(filler, c)
		}
	}
	deck := []Card{filler[0], b[0], b[1], b[2], filler[1], b[3], filler[2], b[4]}
	gs.Deck = append(deck, filler[3:]...)
}

func mustAct(t *testing.T, gs *GameState, seat int, a Action) *GameState {
	t.Helper()
	ns, err := ApplyAction(gs, seat, a, testNow)
	require.NoError(t, err, "seat %d %v\n%s", seat, a, spew.Sdump(gs))
	return ns
}

// checkDown has every player check (or call) until the hand ends.
func checkDown(t *testing.T, gs *GameState) *GameState {
	t.Helper()
	for i := 0; !gs.HandComplete; i++ {
		require.Less(t, i, 100, "hand did not finish")
		seat := gs.ActiveSeat
		avail := GetAvailableActions(gs, seat)
		if avail.Has(ActionCheck) {
			gs = mustAct(t, gs, seat, Action{Type: ActionCheck})
		} else {
			gs = mustAct(t, gs, seat, Action{Type: ActionCall})
		}
	}
	return gs
}

func totalChips(gs *GameState) int64 {
	total := gs.TotalPot()
	for _, p := range gs.Players {
		if p != nil {
			total += p.Chips
		}
	}
	return total
}

func TestNewGameState(t *testing.T) {
	gs := NewGameState(DefaultTableConfig())
	require.Equal(t, int64(10), gs.SmallBlind)
	require.Equal(t, int64(20), gs.BigBlind)
	require.Equal(t, int64(20), gs.MinRaise)
	require.Equal(t, -1, gs.ActiveSeat)
	require.Equal(t, PhasePreflop, gs.Phase)
	for _, p := range gs.Players {
		require.Nil(t, p)
	}
}

func TestDealNewHandBlindsAndFirstToAct(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000, 1000)
	ns := DealNewHand(gs, rand.New(rand.NewPCG(3, 0)), testNow)

	require.Equal(t, 1, ns.HandNumber)
	require.Equal(t, 1, ns.DealerSeat)
	// Small blind left of the button, big blind after that.
	require.Equal(t, int64(10), ns.Players[2].CurrentBet)
	require.Equal(t, int64(20), ns.Players[0].CurrentBet)
	require.Equal(t, int64(30), ns.Pot)
	require.Equal(t, int64(20), ns.CurrentBet)
	require.Equal(t, int64(20), ns.MinRaise)
	// First to act is left of the big blind.
	require.Equal(t, 1, ns.ActiveSeat)
	require.Len(t, ns.Deck, 52-6)
	for _, p := range ns.Players[:3] {
		require.Len(t, p.HoleCards, 2)
		require.Equal(t, StatusActive, p.Status)
	}
	require.Contains(t, ns.ActionLog, "p2 posts small blind (10)")
	require.Contains(t, ns.ActionLog, "p0 posts big blind (20)")

	// The input state is untouched.
	require.Equal(t, 0, gs.HandNumber)
	require.Nil(t, gs.Players[0].HoleCards)

	// The button moves one occupied seat per hand.
	ns.HandComplete = true
	next := DealNewHand(ns, rand.New(rand.NewPCG(4, 0)), testNow)
	require.Equal(t, 2, next.DealerSeat)
	require.Equal(t, 2, next.HandNumber)
}

func TestDealNewHandHeadsUpDealerPostsSmallBlind(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000)
	ns := DealNewHand(gs, rand.New(rand.NewPCG(3, 0)), testNow)

	require.Equal(t, 1, ns.DealerSeat)
	require.Equal(t, int64(10), ns.Players[1].CurrentBet)
	require.Equal(t, int64(20), ns.Players[0].CurrentBet)
	// Heads-up the button acts first before the flop.
	require.Equal(t, 1, ns.ActiveSeat)
}

func TestDealNewHandSkipsBrokePlayers(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 0, 1000, 1000)
	ns := DealNewHand(gs, rand.New(rand.NewPCG(3, 0)), testNow)

	require.Equal(t, StatusSittingOut, ns.Players[1].Status)
	require.Empty(t, ns.Players[1].HoleCards)
	require.NotEqual(t, 1, ns.DealerSeat)
	require.Equal(t, 2, ns.DealerSeat)
	require.Equal(t, int64(10), ns.Players[3].CurrentBet)
	require.Equal(t, int64(20), ns.Players[0].CurrentBet)
	require.Equal(t, 2, ns.ActiveSeat)
}

func TestDealNewHandNeedsTwoPlayers(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 0)
	ns := DealNewHand(gs, nil, testNow)
	require.Equal(t, 0, ns.HandNumber)
	require.Equal(t, -1, ns.ActiveSeat)
	require.False(t, ns.HandComplete)
	require.Equal(t, int64(0), ns.Pot)
}

func TestDealNewHandShortBlindGoesAllIn(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000, 15)
	ns := DealNewHand(gs, rand.New(rand.NewPCG(5, 0)), testNow)

	// Seat 2 is the small blind and can only post 10 of its 15.
	require.Equal(t, StatusActive, ns.Players[2].Status)
	require.Equal(t, int64(5), ns.Players[2].Chips)

	gs = newTestTable(t, DefaultTableConfig(), 15, 1000, 1000)
	ns = DealNewHand(gs, rand.New(rand.NewPCG(5, 0)), testNow)
	// Seat 0 is the big blind and is all-in for 15.
	require.Equal(t, StatusAllIn, ns.Players[0].Status)
	require.Equal(t, int64(15), ns.Players[0].CurrentBet)
	require.Equal(t, int64(15), ns.CurrentBet)
	require.Equal(t, 1, ns.ActiveSeat)
}

func TestCloneIsDeep(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000)
	gs = DealNewHand(gs, rand.New(rand.NewPCG(3, 0)), testNow)

	cp := gs.Clone()
	require.Equal(t, gs, cp)

	cp.Players[0].Chips = 1
	cp.Players[0].HoleCards[0] = NewCard(Two, Clubs)
	cp.Deck[0] = NewCard(Two, Clubs)
	cp.ActionLog[0] = "changed"
	require.NotEqual(t, int64(1), gs.Players[0].Chips)
	require.NotEqual(t, "changed", gs.ActionLog[0])
}

func TestPhaseText(t *testing.T) {
	for _, p := range []Phase{PhasePreflop, PhaseFlop, PhaseTurn, PhaseRiver, PhaseShowdown} {
		b, err := p.MarshalText()
		require.NoError(t, err)
		var back Phase
		require.NoError(t, back.UnmarshalText(b))
		require.Equal(t, p, back)
	}
	var p Phase
	require.Error(t, p.UnmarshalText([]byte("dealing")))

	var s PlayerStatus
	require.NoError(t, s.UnmarshalText([]byte("all-in")))
	require.Equal(t, StatusAllIn, s)
	require.Error(t, s.UnmarshalText([]byte("busted")))
}
