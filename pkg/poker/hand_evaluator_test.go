package poker

import (
	"math/rand/v2"
	"testing"

	chpoker "github.com/chehsunliu/poker"
	"github.com/stretchr/testify/require"
)

func TestEvaluateFiveCards(t *testing.T) {
	tests := []struct {
		name        string
		cards       string
		wantRank    HandRank
		wantBreaker []int
	}{
		{"royal flush", "Ah Kh Qh Jh Th", RoyalFlush, []int{14}},
		{"straight flush", "9s 8s 7s 6s 5s", StraightFlush, []int{9}},
		{"steel wheel", "5d 4d 3d 2d Ad", StraightFlush, []int{5}},
		{"four of a kind", "Ac Ad Ah As Kd", FourOfAKind, []int{14, 13}},
		{"full house", "3c 3d 3h 9s 9d", FullHouse, []int{3, 9}},
		{"flush", "Kc 9c 7c 4c 2c", Flush, []int{13, 9, 7, 4, 2}},
		{"broadway", "Ac Kd Qh Js Tc", Straight, []int{14}},
		{"wheel", "Ah 2c 3d 4s 5h", Straight, []int{5}},
		{"three of a kind", "7c 7d 7h Ks 2d", ThreeOfAKind, []int{7, 13, 2}},
		{"two pair", "Jc Jd 4h 4s Ad", TwoPair, []int{11, 4, 14}},
		{"pair", "Tc Td 8h 5s 2d", Pair, []int{10, 8, 5, 2}},
		{"high card", "Ac Jd 8h 5s 3d", HighCard, []int{14, 11, 8, 5, 3}},
		{"ace-king-queen is not a wraparound straight", "Qh Kd As 2c 3d", HighCard, []int{14, 13, 12, 3, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cards := MustParseCards(tt.cards)
			hv := EvaluateFiveCards([5]Card{cards[0], cards[1], cards[2], cards[3], cards[4]})
			require.Equal(t, tt.wantRank, hv.Rank)
			require.Equal(t, tt.wantBreaker, hv.Tiebreakers)
			require.Equal(t, tt.wantRank.String(), hv.HandDescription)
			require.Len(t, hv.BestHand, 5)
		})
	}
}

func TestWheelOrdersAceLast(t *testing.T) {
	cards := MustParseCards("Ah 2c 3d 4s 5h")
	hv := EvaluateFiveCards([5]Card{cards[0], cards[1], cards[2], cards[3], cards[4]})
	require.Equal(t, Five, hv.BestHand[0].Value())
	require.Equal(t, Ace, hv.BestHand[4].Value())
}

func TestEvaluateHandSevenCards(t *testing.T) {
	tests := []struct {
		name      string
		hole      string
		community string
		wantRank  HandRank
		wantBest  string
	}{
		{
			name:      "royal flush uses both hole cards",
			hole:      "Ah Kh",
			community: "Qh Jh Th 3c 4d",
			wantRank:  RoyalFlush,
			wantBest:  "Ah Kh Qh Jh Th",
		},
		{
			name:      "board plays",
			hole:      "2c 3d",
			community: "As Ks Qs Js 9d",
			wantRank:  HighCard,
			wantBest:  "As Ks Qs Js 9d",
		},
		{
			name:      "six card straight picks the top five",
			hole:      "4c 9h",
			community: "5d 6s 7c 8h Kd",
			wantRank:  Straight,
			wantBest:  "9h 8h 7c 6s 5d",
		},
		{
			name:      "flush beats straight on the same board",
			hole:      "2h 9h",
			community: "5h 6h 7c 8h Kd",
			wantRank:  Flush,
			wantBest:  "9h 8h 6h 5h 2h",
		},
		{
			name:      "two trips make a full house",
			hole:      "8c 8d",
			community: "8h 4s 4d 4c Ad",
			wantRank:  FullHouse,
			wantBest:  "8c 8d 8h 4s 4d",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hv := EvaluateHand(MustParseCards(tt.hole), MustParseCards(tt.community))
			require.Equal(t, tt.wantRank, hv.Rank)
			want := MustParseCards(tt.wantBest)
			require.ElementsMatch(t, want, hv.BestHand)
		})
	}
}

func TestEvaluateHandPartialBoard(t *testing.T) {
	hv := EvaluateHand(MustParseCards("Ah Ad"), nil)
	require.Equal(t, Pair, hv.Rank)
	require.Equal(t, []int{14}, hv.Tiebreakers)

	hv = EvaluateHand(MustParseCards("Ah Kd"), MustParseCards("Ac Kc 2s"))
	require.Equal(t, TwoPair, hv.Rank)

	// Six cards: the best five of six.
	hv = EvaluateHand(MustParseCards("Ah Kd"), MustParseCards("Ac Kc 2s Ks"))
	require.Equal(t, FullHouse, hv.Rank)
	require.Equal(t, []int{13, 14}, hv.Tiebreakers)
}

func TestCompareHands(t *testing.T) {
	eval := func(hole, board string) HandValue {
		return EvaluateHand(MustParseCards(hole), MustParseCards(board))
	}
	board := "Ad 9c 7h 4s 2d"

	tests := []struct {
		name string
		a, b HandValue
		want int
	}{
		{"kicker decides", eval("Ah Kc", board), eval("As Qc", board), 1},
		{"second pair decides", eval("9d 7c", board), eval("9h 4c", board), 1},
		{"board plays for both", eval("3c 5c", "Ad Kc Qh Js 9d"), eval("3d 5h", "Ad Kc Qh Js 9d"), 0},
		{"six high straight beats the wheel", eval("6c 5d", "4h 3s 2d Kc Ac"), eval("Ah 5c", "4h 3s 2d Kc 9c"), 1},
		{"lower category loses", eval("Kc Kd", board), eval("7c 7d", board), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CompareHands(tt.a, tt.b))
			require.Equal(t, -tt.want, CompareHands(tt.b, tt.a))
		})
	}
}

func TestGenerateCombinations(t *testing.T) {
	cards := MustParseCards("Ah Kh Qh Jh Th 9h 8h")
	require.Len(t, generateCombinations(cards, 5), 21)
	require.Len(t, generateCombinations(cards[:6], 5), 6)
	require.Len(t, generateCombinations(cards[:5], 5), 1)
}

// TestEvaluateHandIsBestOfSeven checks random seven card draws against the
// best of all 21 five card subsets scored one by one.
func TestEvaluateHandIsBestOfSeven(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 52))
	for i := 0; i < 500; i++ {
		seven := NewDeck(rng)[:7]

		var best HandValue
		subsets := 0
		// Each subset leaves out exactly two of the seven cards.
		for a := 0; a < 7; a++ {
			for b := a + 1; b < 7; b++ {
				var five [5]Card
				n := 0
				for k, c := range seven {
					if k != a && k != b {
						five[n] = c
						n++
					}
				}
				hv := EvaluateFiveCards(five)
				if subsets == 0 || CompareHands(hv, best) > 0 {
					best = hv
				}
				subsets++
			}
		}
		require.Equal(t, 21, subsets)

		got := EvaluateHand(seven[:2], seven[2:])
		require.Equal(t, 0, CompareHands(got, best), "cards %v: got %s, best %s", seven, got.HandDescription, best.HandDescription)
		require.Equal(t, best.Rank, got.Rank)
		require.Equal(t, best.Tiebreakers, got.Tiebreakers)
	}
}

// toOracle converts a card to the reference evaluator's representation.
func toOracle(c Card) chpoker.Card {
	return chpoker.NewCard(string(c.Value()) + string(c.Suit()))
}

// oracleRank maps a reference evaluator rank class (1 best, 9 worst) onto a
// HandRank. Royal flushes are reported as straight flushes there.
func oracleRank(class int32) HandRank {
	return HandRank(9 - class)
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}

func TestEvaluateHandMatchesReferenceEvaluator(t *testing.T) {
	rng := rand.New(rand.NewPCG(20240611, 0))

	type sample struct {
		ours   HandValue
		oracle int32
	}
	samples := make([]sample, 0, 400)

	for i := 0; i < 400; i++ {
		deck := NewDeck(rng)
		hole, board := deck[:2], deck[2:7]
		ours := EvaluateHand(hole, board)

		oc := make([]chpoker.Card, 0, 7)
		for _, c := range deck[:7] {
			oc = append(oc, toOracle(c))
		}
		ref := chpoker.Evaluate(oc)

		wantRank := oracleRank(chpoker.RankClass(ref))
		gotRank := ours.Rank
		if gotRank == RoyalFlush {
			gotRank = StraightFlush
		}
		require.Equal(t, wantRank, gotRank, "hand %v %v (%s)", hole, board, chpoker.RankString(ref))
		samples = append(samples, sample{ours: ours, oracle: ref})
	}

	for i := 1; i < len(samples); i++ {
		a, b := samples[i-1], samples[i]
		// Lower is stronger for the reference evaluator.
		want := sign(int(b.oracle) - int(a.oracle))
		require.Equal(t, want, CompareHands(a.ours, b.ours), "sample %d", i)
	}
}
