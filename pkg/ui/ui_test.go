package ui

import (
	"context"
	"errors"
	"math/rand/v2"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/vctt94/holdemtable/pkg/lobby"
	"github.com/vctt94/holdemtable/pkg/poker"
	"github.com/vctt94/holdemtable/pkg/store"
)

func newHeadsUp(t *testing.T) (*lobby.Service, string, map[int]string, int) {
	t.Helper()
	ctx := context.Background()
	db, err := store.NewSQLiteDB(filepath.Join(t.TempDir(), "rooms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	svc := lobby.NewService(db, lobby.DefaultConfig())
	svc.SetRand(rand.New(rand.NewPCG(3, 0)))
	alice, err := svc.CreateRoom(ctx, "alice")
	require.NoError(t, err)
	bob, err := svc.JoinRoom(ctx, alice.RoomCode, "bob")
	require.NoError(t, err)
	view, err := svc.StartGame(ctx, alice.RoomCode, alice.Token)
	require.NoError(t, err)
	tokens := map[int]string{alice.Seat: alice.Token, bob.Seat: bob.Token}
	return svc, alice.RoomCode, tokens, view.State.ActiveSeat
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// step feeds msg to m and runs the command it returns, if any.
func step(t *testing.T, m tea.Model, msg tea.Msg) (tea.Model, tea.Msg) {
	t.Helper()
	m, cmd := m.Update(msg)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func TestModelPollsAndActs(t *testing.T) {
	svc, code, tokens, active := newHeadsUp(t)
	ctx := context.Background()

	var m tea.Model = NewModel(ctx, svc, code, tokens[active], time.Millisecond)
	require.Contains(t, m.View(), "Connecting...")

	msg := m.(Model).Init()()
	vm, ok := msg.(viewMsg)
	require.True(t, ok)
	require.True(t, vm.polled)

	// A polled view schedules the next tick.
	m, cmd := m.Update(msg)
	require.NotNil(t, cmd)
	require.IsType(t, tickMsg{}, cmd())
	out := m.View()
	require.Contains(t, out, "Room "+code)
	require.Contains(t, out, "YOUR TURN")

	m, msg = step(t, m, key("r"))
	vm = msg.(viewMsg)
	require.NoError(t, vm.err)
	require.False(t, vm.polled)
	require.Equal(t, int64(40), vm.view.State.CurrentBet)

	// Action results do not start another tick chain.
	m, cmd = m.Update(msg)
	require.Nil(t, cmd)
	require.Contains(t, m.View(), "sent raise 40")

	// Not our turn any more.
	m, msg = step(t, m, key("c"))
	require.Nil(t, msg)
	require.Contains(t, m.View(), "not available")

	room, err := svc.State(ctx, code, tokens[1-active])
	require.NoError(t, err)
	require.Equal(t, 1-active, room.State.ActiveSeat)
}

func TestModelShowsErrors(t *testing.T) {
	svc, code, _, _ := newHeadsUp(t)
	var m tea.Model = NewModel(context.Background(), svc, code, "bogus", time.Millisecond)

	m, _ = step(t, m, m.(Model).Init()())
	require.Contains(t, m.View(), "Error: "+lobby.ErrInvalidToken.Error())

	// Errors keep the last good view and the tick running.
	m, cmd := m.Update(viewMsg{err: errors.New("boom"), polled: true})
	require.NotNil(t, cmd)
	require.Contains(t, m.View(), "Error: boom")
}

func TestModelQuits(t *testing.T) {
	svc, code, tokens, _ := newHeadsUp(t)
	m := NewModel(context.Background(), svc, code, tokens[0], 0)
	require.Equal(t, time.Second, m.interval)

	for _, k := range []tea.KeyMsg{key("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		require.NotNil(t, cmd)
		require.IsType(t, tea.QuitMsg{}, cmd())
	}
}

func TestActionKeys(t *testing.T) {
	svc, code, tokens, active := newHeadsUp(t)
	ctx := context.Background()
	view, err := svc.Poll(ctx, code, tokens[active])
	require.NoError(t, err)

	m := NewModel(ctx, svc, code, tokens[active], time.Second)
	m.view = view

	tests := []struct {
		key  string
		want poker.Action
	}{
		{"f", poker.Action{Type: poker.ActionFold}},
		{"c", poker.Action{Type: poker.ActionCall}},
		{"r", poker.Action{Type: poker.ActionRaise, Amount: 40}},
		{"a", poker.Action{Type: poker.ActionAllIn}},
	}
	for _, tt := range tests {
		a, ok := m.action(tt.key)
		require.True(t, ok, tt.key)
		require.Equal(t, tt.want, a)
	}
	_, ok := m.action("x")
	require.False(t, ok)
}
