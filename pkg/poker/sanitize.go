package poker

import "time"

const (
	// DisconnectThreshold is how long a player may go unheard before they
	// are shown as disconnected.
	DisconnectThreshold = 15 * time.Second

	// viewLogLines is how much of the action log a client sees.
	viewLogLines = 20
)

// ClientPlayer is a seated player as seen by one viewer.
type ClientPlayer struct {
	Name       string       `json:"name"`
	Seat       int          `json:"seatIndex"`
	Chips      int64        `json:"chips"`
	HoleCards  []Card       `json:"holeCards"`
	Status     PlayerStatus `json:"status"`
	CurrentBet int64        `json:"currentBet"`
	LastAction string       `json:"lastAction,omitempty"`
	Connected  bool         `json:"isConnected"`
}

// ClientView is the per-viewer projection of a GameState. It carries no
// tokens, no deck and only the hole cards the viewer is entitled to see.
type ClientView struct {
	Players          [NumSeats]*ClientPlayer `json:"players"`
	CommunityCards   []Card                  `json:"communityCards"`
	Pot              int64                   `json:"pot"`
	SidePots         []SidePot               `json:"sidePots"`
	CurrentBet       int64                   `json:"currentBet"`
	MinRaise         int64                   `json:"minRaise"`
	DealerSeat       int                     `json:"dealerSeat"`
	ActiveSeat       int                     `json:"activeSeat"`
	Phase            Phase                   `json:"phase"`
	HandNumber       int                     `json:"handNumber"`
	HandComplete     bool                    `json:"handComplete"`
	Winners          []Winner                `json:"winners"`
	ShowdownHands    []ShowdownHand          `json:"showdownHands,omitempty"`
	ActionLog        []string                `json:"actionLog"`
	SmallBlind       int64                   `json:"smallBlind"`
	BigBlind         int64                   `json:"bigBlind"`
	MySeat           int                     `json:"mySeatIndex"`
	MyTurn           bool                    `json:"isMyTurn"`
	AvailableActions AvailableActions        `json:"availableActions"`
}

// SanitizeForViewer projects gs for the holder of token. Hole cards of other
// players are hidden unless the hand reached showdown and they did not fold.
// An unknown token yields a spectator view.
func SanitizeForViewer(gs *GameState, token string, now time.Time) *ClientView {
	mySeat := FindPlayerByToken(gs, token)
	showdown := gs.Phase == PhaseShowdown

	view := &ClientView{
		CommunityCards: append([]Card(nil), gs.CommunityCards...),
		Pot:            gs.TotalPot(),
		CurrentBet:     gs.CurrentBet,
		MinRaise:       gs.MinRaise,
		DealerSeat:     gs.DealerSeat,
		ActiveSeat:     gs.ActiveSeat,
		Phase:          gs.Phase,
		HandNumber:     gs.HandNumber,
		HandComplete:   gs.HandComplete,
		Winners:        append([]Winner(nil), gs.Winners...),
		SmallBlind:     gs.SmallBlind,
		BigBlind:       gs.BigBlind,
		MySeat:         mySeat,
		MyTurn:         mySeat >= 0 && gs.ActiveSeat == mySeat && !gs.HandComplete,
	}
	for _, sp := range gs.SidePots {
		view.SidePots = append(view.SidePots, SidePot{
			Amount:        sp.Amount,
			EligibleSeats: append([]int(nil), sp.EligibleSeats...),
		})
	}
	if showdown {
		view.ShowdownHands = append([]ShowdownHand(nil), gs.ShowdownHands...)
	}

	logStart := 0
	if len(gs.ActionLog) > viewLogLines {
		logStart = len(gs.ActionLog) - viewLogLines
	}
	view.ActionLog = append([]string(nil), gs.ActionLog[logStart:]...)

	for s, p := range gs.Players {
		if p == nil {
			continue
		}
		cp := &ClientPlayer{
			Name:       p.Name,
			Seat:       s,
			Chips:      p.Chips,
			Status:     p.Status,
			CurrentBet: p.CurrentBet,
			LastAction: p.LastAction,
			Connected:  p.LastSeen.IsZero() || now.Sub(p.LastSeen) < DisconnectThreshold,
		}
		if s == mySeat || (showdown && p.InHand()) {
			cp.HoleCards = append([]Card(nil), p.HoleCards...)
		}
		view.Players[s] = cp
	}

	if view.MyTurn {
		view.AvailableActions = GetAvailableActions(gs, mySeat)
	}
	return view
}
