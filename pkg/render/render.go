// Package render draws a player's view of a table for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vctt94/holdemtable/pkg/poker"
)

const logLines = 8

// View renders v as seen by its viewer. status is the room status shown in
// the header.
func View(v *poker.ClientView, status string) string {
	if v == nil {
		return helpStyle.Render("no table state")
	}

	var sections []string
	sections = append(sections, header(v, status))
	sections = append(sections, board(v))
	sections = append(sections, players(v))
	if v.HandComplete && len(v.Winners) > 0 {
		sections = append(sections, winners(v))
	}
	if v.MyTurn {
		sections = append(sections, actions(v.AvailableActions))
	}
	if len(v.ActionLog) > 0 {
		sections = append(sections, actionLog(v.ActionLog))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func header(v *poker.ClientView, status string) string {
	title := fmt.Sprintf("Hand #%d  blinds %d/%d  [%s]", v.HandNumber, v.SmallBlind, v.BigBlind, status)
	phase := strings.ToUpper(v.Phase.String())
	switch {
	case v.HandNumber == 0:
		phase = "Waiting for the game to start"
	case v.HandComplete:
		phase += "  hand complete"
	case v.MyTurn:
		phase += "  <- YOUR TURN"
	}
	return titleStyle.Render(title) + "\n" + phaseStyle.Render(phase)
}

// Card renders one face-up card.
func Card(c poker.Card) string {
	if c.IsRed() {
		return redCardStyle.Render(c.String())
	}
	return cardStyle.Render(c.String())
}

func hiddenCard() string {
	return hiddenCardStyle.Render("??")
}

func cardRow(cards []poker.Card, slots int) string {
	var out []string
	for _, c := range cards {
		out = append(out, Card(c))
	}
	for i := len(cards); i < slots; i++ {
		out = append(out, hiddenCard())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func board(v *poker.ClientView) string {
	pot := fmt.Sprintf("POT: %d", v.Pot)
	if v.CurrentBet > 0 && !v.HandComplete {
		pot += fmt.Sprintf("  to call: %d", v.CurrentBet)
	}
	for i, sp := range v.SidePots {
		seats := make([]string, len(sp.EligibleSeats))
		for j, s := range sp.EligibleSeats {
			seats[j] = fmt.Sprint(s + 1)
		}
		pot += fmt.Sprintf("\npot %d: %d (seats %s)", i+1, sp.Amount, strings.Join(seats, ","))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		cardRow(v.CommunityCards, 5),
		potStyle.Render(pot),
	)
}

func playerBox(v *poker.ClientView, p *poker.ClientPlayer) string {
	var lines []string
	name := p.Name
	if p.Seat == v.DealerSeat && v.HandNumber > 0 {
		name += " (D)"
	}
	lines = append(lines, fmt.Sprintf("Seat %d: %s", p.Seat+1, name))
	lines = append(lines, fmt.Sprintf("chips %d", p.Chips))
	if p.CurrentBet > 0 {
		lines = append(lines, fmt.Sprintf("bet %d", p.CurrentBet))
	}
	state := p.Status.String()
	if p.LastAction != "" {
		state += " / " + p.LastAction
	}
	if !p.Connected {
		state += " / away"
	}
	lines = append(lines, state)

	switch {
	case len(p.HoleCards) > 0:
		lines = append(lines, cardRow(p.HoleCards, 0))
	case p.Status == poker.StatusActive || p.Status == poker.StatusAllIn:
		lines = append(lines, cardRow(nil, 2))
	}

	style := playerBoxStyle
	switch {
	case p.Seat == v.MySeat:
		style = yourPlayerStyle
	case p.Seat == v.ActiveSeat && !v.HandComplete:
		style = currentPlayerStyle
	case p.Status == poker.StatusFolded || p.Status == poker.StatusSittingOut:
		style = foldedPlayerStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

func players(v *poker.ClientView) string {
	var boxes []string
	for _, p := range v.Players {
		if p != nil {
			boxes = append(boxes, playerBox(v, p))
		}
	}
	if len(boxes) == 0 {
		return helpStyle.Render("No players at table")
	}
	// Three seats per row.
	var rows []string
	for i := 0; i < len(boxes); i += 3 {
		end := i + 3
		if end > len(boxes) {
			end = len(boxes)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, boxes[i:end]...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func winners(v *poker.ClientView) string {
	var lines []string
	for _, w := range v.Winners {
		line := fmt.Sprintf("%s wins %d", w.Name, w.Amount)
		if w.HandName != "" {
			line += " with " + w.HandName
		}
		lines = append(lines, line)
	}
	for _, sh := range v.ShowdownHands {
		lines = append(lines, fmt.Sprintf("%s: %s", sh.Name, sh.HandName))
	}
	return winnerStyle.Render(strings.Join(lines, "\n"))
}

func actions(a poker.AvailableActions) string {
	var opts []string
	for _, t := range a.Actions {
		switch t {
		case poker.ActionCall:
			opts = append(opts, fmt.Sprintf("call %d", a.CallAmount))
		case poker.ActionRaise:
			opts = append(opts, fmt.Sprintf("raise %d-%d", a.MinRaiseTo, a.MaxRaiseTo))
		default:
			opts = append(opts, string(t))
		}
	}
	return titleStyle.Render("Your options: " + strings.Join(opts, " | "))
}

func actionLog(lines []string) string {
	if len(lines) > logLines {
		lines = lines[len(lines)-logLines:]
	}
	return logStyle.Render(strings.Join(lines, "\n"))
}
