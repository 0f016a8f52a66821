package poker

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSanitizeHidesOpponentsCards(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000, 1000)
	gs = DealNewHand(gs, rand.New(rand.NewPCG(1, 0)), testNow)

	view := SanitizeForViewer(gs, "tok1", testNow)
	require.Equal(t, 1, view.MySeat)
	require.True(t, view.MyTurn)
	require.Equal(t, gs.Players[1].HoleCards, view.Players[1].HoleCards)
	require.Nil(t, view.Players[0].HoleCards)
	require.Nil(t, view.Players[2].HoleCards)
	require.True(t, view.AvailableActions.Has(ActionCall))
	require.Equal(t, int64(20), view.AvailableActions.CallAmount)

	// Neither tokens nor the deck appear in the serialized view.
	b, err := json.Marshal(view)
	require.NoError(t, err)
	require.NotContains(t, string(b), "tok0")
	require.NotContains(t, string(b), "tok2")
	require.NotContains(t, string(b), "deck")

	other := SanitizeForViewer(gs, "tok0", testNow)
	require.False(t, other.MyTurn)
	require.Empty(t, other.AvailableActions.Actions)
}

func TestSanitizeSpectator(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000)
	gs = DealNewHand(gs, rand.New(rand.NewPCG(1, 0)), testNow)

	view := SanitizeForViewer(gs, "nobody", testNow)
	require.Equal(t, -1, view.MySeat)
	require.False(t, view.MyTurn)
	for _, p := range view.Players[:2] {
		require.Nil(t, p.HoleCards)
	}
	require.Nil(t, view.Players[2])
}

func TestSanitizeRevealsShowdownHands(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000, 1000)
	gs = DealNewHand(gs, rand.New(rand.NewPCG(1, 0)), testNow)
	rigDeck(t, gs, map[int]string{0: "Ah Ad", 1: "Kh Kd", 2: "2c 7d"}, "As 9c 5h 3s Jd")

	gs = mustAct(t, gs, 1, Action{Type: ActionCall})
	gs = mustAct(t, gs, 2, Action{Type: ActionFold})
	gs = checkDown(t, gs)
	require.Equal(t, PhaseShowdown, gs.Phase)

	view := SanitizeForViewer(gs, "tok2", testNow)
	require.Equal(t, MustParseCards("Ah Ad"), view.Players[0].HoleCards)
	require.Equal(t, MustParseCards("Kh Kd"), view.Players[1].HoleCards)
	// The viewer's own folded hand stays visible to them.
	require.Equal(t, MustParseCards("2c 7d"), view.Players[2].HoleCards)
	require.Len(t, view.ShowdownHands, 2)

	// A folded opponent's cards stay hidden from everyone else.
	view = SanitizeForViewer(gs, "tok0", testNow)
	require.Nil(t, view.Players[2].HoleCards)
}

func TestSanitizeWinnerByFoldIsNotShown(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000)
	gs = DealNewHand(gs, rand.New(rand.NewPCG(1, 0)), testNow)
	gs = mustAct(t, gs, 1, Action{Type: ActionFold})

	view := SanitizeForViewer(gs, "tok1", testNow)
	require.True(t, view.HandComplete)
	require.Nil(t, view.Players[0].HoleCards)
	require.Empty(t, view.ShowdownHands)
}

func TestSanitizeConnectivityAndLog(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 1000, 1000)
	gs.Players[1].LastSeen = time.Time{}
	for i := 0; i < 30; i++ {
		gs.ActionLog = append(gs.ActionLog, fmt.Sprintf("line %d", i))
	}

	view := SanitizeForViewer(gs, "tok0", testNow.Add(10*time.Second))
	require.True(t, view.Players[0].Connected)
	require.True(t, view.Players[1].Connected)
	require.Len(t, view.ActionLog, 20)
	require.Equal(t, "line 10", view.ActionLog[0])
	require.Equal(t, "line 29", view.ActionLog[19])

	view = SanitizeForViewer(gs, "tok0", testNow.Add(DisconnectThreshold))
	require.False(t, view.Players[0].Connected)
	// Never heard from counts as connected.
	require.True(t, view.Players[1].Connected)
}

func TestSanitizeReportsTotalPot(t *testing.T) {
	gs := newTestTable(t, DefaultTableConfig(), 100, 1000, 1000)
	gs = DealNewHand(gs, rand.New(rand.NewPCG(1, 0)), testNow)
	gs = mustAct(t, gs, 1, Action{Type: ActionRaise, Amount: 200})
	gs = mustAct(t, gs, 2, Action{Type: ActionCall})
	gs = mustAct(t, gs, 0, Action{Type: ActionAllIn})

	view := SanitizeForViewer(gs, "tok1", testNow)
	require.Equal(t, int64(500), view.Pot)
	require.Len(t, view.SidePots, 2)
}
