package poker

import (
	"sort"
	"time"
)

// BuildPotsFromTotals splits the chips on the table into tiers using each
// seat's total contribution to the hand. Tier levels are the distinct
// all-in totals of players still in the hand plus the largest total among
// them. A tier holds what every seat put in between the previous level and
// its own, and any contenders whose total reaches the level are eligible.
// Chips that no level accounts for are added to the first tier. It returns
// nil when the pot does not need splitting.
func (gs *GameState) BuildPotsFromTotals() []SidePot {
	var (
		levels    []int64
		seen      = make(map[int64]bool)
		maxLevel  int64
		haveAllIn bool
		contender [NumSeats]bool
	)
	for s, p := range gs.Players {
		if !p.InHand() {
			continue
		}
		contender[s] = true
		total := gs.Contributions[s]
		if total > maxLevel {
			maxLevel = total
		}
		if p.Status == StatusAllIn && total > 0 && !seen[total] {
			seen[total] = true
			levels = append(levels, total)
			haveAllIn = true
		}
	}
	if !haveAllIn {
		return nil
	}
	if !seen[maxLevel] {
		levels = append(levels, maxLevel)
	}
	if len(levels) < 2 {
		return nil
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })

	pots := make([]SidePot, 0, len(levels))
	var prev, accounted int64
	for _, lvl := range levels {
		var sp SidePot
		for s := 0; s < NumSeats; s++ {
			c := gs.Contributions[s]
			if c > lvl {
				c = lvl
			}
			if c > prev {
				sp.Amount += c - prev
			}
			if contender[s] && gs.Contributions[s] >= lvl {
				sp.EligibleSeats = append(sp.EligibleSeats, s)
			}
		}
		accounted += sp.Amount
		pots = append(pots, sp)
		prev = lvl
	}

	if dead := gs.TotalPot() - accounted; dead != 0 {
		pots[0].Amount += dead
	}
	return pots
}

// buildSidePots replaces the undivided pot with tiers when the totals call
// for more than one. Tiers left over from an earlier street collapse back
// into the pot once they no longer apply, e.g. after the all-in player they
// were built for has left the table.
func (gs *GameState) buildSidePots() {
	pots := gs.BuildPotsFromTotals()
	if len(pots) < 2 {
		if len(gs.SidePots) > 0 {
			gs.Pot = gs.TotalPot()
			gs.SidePots = nil
		}
		return
	}
	gs.SidePots = pots
	gs.Pot = 0
}

// evaluatedHand pairs a seat with its best hand.
type evaluatedHand struct {
	seat int
	hand HandValue
}

// resolveShowdown evaluates every contender and pays each tier to its best
// eligible hand. Tied winners split a tier evenly and any odd chips go to
// the tied winner seated first clockwise from the button.
func (gs *GameState) resolveShowdown(now time.Time) {
	gs.Phase = PhaseShowdown
	gs.buildSidePots()

	// Seat order clockwise from the button fixes the odd-chip order.
	order := gs.seatsFrom(gs.DealerSeat, (*Player).InHand)
	hands := make(map[int]HandValue, len(order))
	gs.ShowdownHands = nil
	for _, s := range order {
		p := gs.Players[s]
		hv := EvaluateHand(p.HoleCards, gs.CommunityCards)
		hands[s] = hv
		gs.ShowdownHands = append(gs.ShowdownHands, ShowdownHand{
			Seat:      s,
			Name:      p.Name,
			HoleCards: append([]Card(nil), p.HoleCards...),
			HandName:  hv.HandDescription,
			BestCards: hv.BestHand,
		})
		gs.logf("%s shows %s (%s)", p.Name, cardsString(p.HoleCards), hv.HandDescription)
	}

	pots := gs.SidePots
	if len(pots) == 0 {
		pots = []SidePot{{Amount: gs.Pot, EligibleSeats: order}}
	}

	won := make(map[int]int64)
	for _, pot := range pots {
		eligible := make(map[int]bool, len(pot.EligibleSeats))
		for _, s := range pot.EligibleSeats {
			eligible[s] = true
		}

		var winners []evaluatedHand
		for _, s := range order {
			if !eligible[s] {
				continue
			}
			eh := evaluatedHand{seat: s, hand: hands[s]}
			if len(winners) == 0 {
				winners = []evaluatedHand{eh}
				continue
			}
			switch CompareHands(eh.hand, winners[0].hand) {
			case 1:
				winners = []evaluatedHand{eh}
			case 0:
				winners = append(winners, eh)
			}
		}
		if len(winners) == 0 {
			log.Errorf("hand %d: pot of %d has no eligible contenders", gs.HandNumber, pot.Amount)
			continue
		}

		share := pot.Amount / int64(len(winners))
		for _, w := range winners {
			won[w.seat] += share
		}
		won[winners[0].seat] += pot.Amount % int64(len(winners))
	}

	gs.Winners = nil
	for _, s := range order {
		amt, ok := won[s]
		if !ok || amt == 0 {
			continue
		}
		p := gs.Players[s]
		p.Chips += amt
		gs.Winners = append(gs.Winners, Winner{
			Seat:     s,
			Name:     p.Name,
			Amount:   amt,
			HandName: hands[s].HandDescription,
		})
		gs.logf("%s wins %d with %s", p.Name, amt, hands[s].HandDescription)
	}

	gs.Pot = 0
	gs.SidePots = nil
	gs.completeHand(now)
}
