package poker

import (
	"fmt"
	"sort"
)

// HandRank is the category of a poker hand, ordered from weakest to strongest.
type HandRank int

const (
	HighCard HandRank = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

var handRankNames = [...]string{
	HighCard:      "High Card",
	Pair:          "Pair",
	TwoPair:       "Two Pair",
	ThreeOfAKind:  "Three of a Kind",
	Straight:      "Straight",
	Flush:         "Flush",
	FullHouse:     "Full House",
	FourOfAKind:   "Four of a Kind",
	StraightFlush: "Straight Flush",
	RoyalFlush:    "Royal Flush",
}

func (r HandRank) String() string {
	if r < HighCard || r > RoyalFlush {
		return fmt.Sprintf("HandRank(%d)", int(r))
	}
	return handRankNames[r]
}

// HandValue is the result of evaluating a hand. Two hands compare by Rank
// first and then lexicographically by Tiebreakers.
type HandValue struct {
	Rank            HandRank `json:"category"`
	HandDescription string   `json:"name"`
	Tiebreakers     []int    `json:"tiebreakers"`
	BestHand        []Card   `json:"bestCards"`
}

// valueToInt converts a card value to its numeric rank (ace high).
func valueToInt(v Value) int {
	switch v {
	case Two:
		return 2
	case Three:
		return 3
	case Four:
		return 4
	case Five:
		return 5
	case Six:
		return 6
	case Seven:
		return 7
	case Eight:
		return 8
	case Nine:
		return 9
	case Ten:
		return 10
	case Jack:
		return 11
	case Queen:
		return 12
	case King:
		return 13
	case Ace:
		return 14
	}
	return 0
}

// EvaluateFiveCards classifies exactly five cards.
func EvaluateFiveCards(cards [5]Card) HandValue {
	return evaluateCards(cards[:])
}

// EvaluateHand returns the strongest hand that can be made from the hole
// cards and whatever community cards are out. With seven cards every one of
// the 21 five-card subsets is scored. With fewer than five cards in total
// only the pair-based categories can be made.
func EvaluateHand(holeCards, communityCards []Card) HandValue {
	all := make([]Card, 0, len(holeCards)+len(communityCards))
	all = append(all, holeCards...)
	all = append(all, communityCards...)

	if len(all) <= 5 {
		return evaluateCards(all)
	}

	var best HandValue
	found := false
	for _, combo := range generateCombinations(all, 5) {
		hv := evaluateCards(combo)
		if !found || CompareHands(hv, best) > 0 {
			best = hv
			found = true
		}
	}
	return best
}

// CompareHands returns 1 if a beats b, -1 if b beats a and 0 on a tie.
func CompareHands(a, b HandValue) int {
	if a.Rank != b.Rank {
		if a.Rank > b.Rank {
			return 1
		}
		return -1
	}
	n := len(a.Tiebreakers)
	if len(b.Tiebreakers) > n {
		n = len(b.Tiebreakers)
	}
	for i := 0; i < n; i++ {
		var av, bv int
		if i < len(a.Tiebreakers) {
			av = a.Tiebreakers[i]
		}
		if i < len(b.Tiebreakers) {
			bv = b.Tiebreakers[i]
		}
		if av != bv {
			if av > bv {
				return 1
			}
			return -1
		}
	}
	return 0
}

// generateCombinations returns every k-card subset of cards.
func generateCombinations(cards []Card, k int) [][]Card {
	var result [][]Card
	combo := make([]Card, k)
	var rec func(start, depth int)
	rec = func(start, depth int) {
		if depth == k {
			c := make([]Card, k)
			copy(c, combo)
			result = append(result, c)
			return
		}
		for i := start; i <= len(cards)-(k-depth); i++ {
			combo[depth] = cards[i]
			rec(i+1, depth+1)
		}
	}
	rec(0, 0)
	return result
}

type rankGroup struct {
	rank  int
	count int
}

// evaluateCards classifies up to five cards. Straights and flushes are only
// recognised with exactly five cards.
func evaluateCards(cards []Card) HandValue {
	if len(cards) == 0 {
		return HandValue{Rank: HighCard, HandDescription: HighCard.String()}
	}
	sorted := make([]Card, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rank() > sorted[j].Rank()
	})

	counts := make(map[int]int)
	for _, c := range sorted {
		counts[c.Rank()]++
	}
	groups := make([]rankGroup, 0, len(counts))
	for r, n := range counts {
		groups = append(groups, rankGroup{rank: r, count: n})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].count != groups[j].count {
			return groups[i].count > groups[j].count
		}
		return groups[i].rank > groups[j].rank
	})

	flush := len(sorted) == 5
	for _, c := range sorted {
		if c.suit != sorted[0].suit {
			flush = false
			break
		}
	}

	straightHigh := 0
	if len(sorted) == 5 && len(groups) == 5 {
		hi, lo := sorted[0].Rank(), sorted[4].Rank()
		switch {
		case hi-lo == 4:
			straightHigh = hi
		case hi == 14 && sorted[1].Rank() == 5:
			// A-2-3-4-5 plays as a five-high straight.
			straightHigh = 5
			sorted = append(sorted[1:], sorted[0])
		}
	}

	groupRanks := func() []int {
		out := make([]int, len(groups))
		for i, g := range groups {
			out[i] = g.rank
		}
		return out
	}
	// Cards ordered by group so BestHand reads quads/trips/pairs first.
	groupOrdered := func() []Card {
		out := make([]Card, 0, len(sorted))
		for _, g := range groups {
			for _, c := range sorted {
				if c.Rank() == g.rank {
					out = append(out, c)
				}
			}
		}
		return out
	}
	ranksOf := func(cs []Card) []int {
		out := make([]int, len(cs))
		for i, c := range cs {
			out[i] = c.Rank()
		}
		return out
	}

	var hv HandValue
	switch {
	case straightHigh > 0 && flush && straightHigh == 14:
		hv = HandValue{Rank: RoyalFlush, Tiebreakers: []int{14}, BestHand: sorted}
	case straightHigh > 0 && flush:
		hv = HandValue{Rank: StraightFlush, Tiebreakers: []int{straightHigh}, BestHand: sorted}
	case groups[0].count == 4:
		hv = HandValue{Rank: FourOfAKind, Tiebreakers: groupRanks(), BestHand: groupOrdered()}
	case groups[0].count == 3 && len(groups) > 1 && groups[1].count >= 2:
		hv = HandValue{Rank: FullHouse, Tiebreakers: groupRanks(), BestHand: groupOrdered()}
	case flush:
		hv = HandValue{Rank: Flush, Tiebreakers: ranksOf(sorted), BestHand: sorted}
	case straightHigh > 0:
		hv = HandValue{Rank: Straight, Tiebreakers: []int{straightHigh}, BestHand: sorted}
	case groups[0].count == 3:
		hv = HandValue{Rank: ThreeOfAKind, Tiebreakers: groupRanks(), BestHand: groupOrdered()}
	case groups[0].count == 2 && len(groups) > 1 && groups[1].count == 2:
		hv = HandValue{Rank: TwoPair, Tiebreakers: groupRanks(), BestHand: groupOrdered()}
	case groups[0].count == 2:
		hv = HandValue{Rank: Pair, Tiebreakers: groupRanks(), BestHand: groupOrdered()}
	default:
		hv = HandValue{Rank: HighCard, Tiebreakers: ranksOf(sorted), BestHand: sorted}
	}
	hv.HandDescription = hv.Rank.String()
	return hv
}
