// Package ui is an interactive terminal client for a single seat. It polls
// the room on a timer, draws the table with pkg/render and sends the
// player's actions back.
package ui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vctt94/holdemtable/pkg/lobby"
	"github.com/vctt94/holdemtable/pkg/poker"
	"github.com/vctt94/holdemtable/pkg/render"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	msgStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("140"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Margin(1, 0)
)

const helpText = "f fold • c check/call • r min raise • a all-in • q quit"

// Table is the part of the room service a seat needs.
type Table interface {
	Poll(ctx context.Context, code, token string) (*lobby.RoomView, error)
	Act(ctx context.Context, code, token string, action poker.Action) (*lobby.RoomView, error)
}

type tickMsg time.Time

// viewMsg carries the result of a poll or an action.
type viewMsg struct {
	view   *lobby.RoomView
	err    error
	polled bool
}

// Model holds the UI state for one seat.
type Model struct {
	ctx      context.Context
	table    Table
	code     string
	token    string
	interval time.Duration

	view    *lobby.RoomView
	err     error
	message string
}

// NewModel creates a model that watches room code as token, polling every
// interval.
func NewModel(ctx context.Context, table Table, code, token string, interval time.Duration) Model {
	if interval <= 0 {
		interval = time.Second
	}
	return Model{
		ctx:      ctx,
		table:    table,
		code:     code,
		token:    token,
		interval: interval,
	}
}

func (m Model) Init() tea.Cmd {
	return m.pollCmd()
}

func (m Model) pollCmd() tea.Cmd {
	return func() tea.Msg {
		view, err := m.table.Poll(m.ctx, m.code, m.token)
		return viewMsg{view: view, err: err, polled: true}
	}
}

func (m Model) actCmd(a poker.Action) tea.Cmd {
	return func() tea.Msg {
		view, err := m.table.Act(m.ctx, m.code, m.token, a)
		return viewMsg{view: view, err: err}
	}
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// action picks the action bound to key, if it is available right now.
func (m Model) action(key string) (poker.Action, bool) {
	if m.view == nil || m.view.State == nil || !m.view.State.MyTurn {
		return poker.Action{}, false
	}
	avail := m.view.State.AvailableActions
	switch key {
	case "f":
		return poker.Action{Type: poker.ActionFold}, avail.Has(poker.ActionFold)
	case "c":
		if avail.Has(poker.ActionCheck) {
			return poker.Action{Type: poker.ActionCheck}, true
		}
		return poker.Action{Type: poker.ActionCall}, avail.Has(poker.ActionCall)
	case "r":
		return poker.Action{Type: poker.ActionRaise, Amount: avail.MinRaiseTo}, avail.Has(poker.ActionRaise)
	case "a":
		return poker.Action{Type: poker.ActionAllIn}, avail.Has(poker.ActionAllIn)
	}
	return poker.Action{}, false
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "f", "c", "r", "a":
			a, ok := m.action(key)
			if !ok {
				m.message = "not available"
				return m, nil
			}
			m.message = "sent " + a.String()
			return m, m.actCmd(a)
		}

	case tickMsg:
		return m, m.pollCmd()

	case viewMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.view = msg.view
		}
		// Only polls keep the timer going so there is a single tick chain.
		if msg.polled {
			return m, m.tickCmd()
		}
	}
	return m, nil
}

func (m Model) View() string {
	title := titleStyle.Render(fmt.Sprintf("Room %s", m.code))
	var body string
	if m.view == nil {
		body = msgStyle.Render("Connecting...")
	} else {
		body = render.View(m.view.State, string(m.view.Status))
	}

	out := title + "\n" + body
	if m.err != nil {
		out += "\n" + errStyle.Render("Error: "+m.err.Error())
	}
	if m.message != "" {
		out += "\n" + msgStyle.Render(m.message)
	}
	return out + "\n" + helpStyle.Render(helpText)
}

// Run shows the table full screen until the user quits or ctx is done.
func Run(ctx context.Context, table Table, code, token string, interval time.Duration) error {
	p := tea.NewProgram(NewModel(ctx, table, code, token, interval),
		tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
