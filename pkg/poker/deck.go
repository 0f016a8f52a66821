package poker

import (
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
)

// Suit represents a card suit
type Suit string

const (
	Spades   Suit = "s"
	Hearts   Suit = "h"
	Diamonds Suit = "d"
	Clubs    Suit = "c"
)

// Value represents a card rank
type Value string

const (
	Two   Value = "2"
	Three Value = "3"
	Four  Value = "4"
	Five  Value = "5"
	Six   Value = "6"
	Seven Value = "7"
	Eight Value = "8"
	Nine  Value = "9"
	Ten   Value = "T"
	Jack  Value = "J"
	Queen Value = "Q"
	King  Value = "K"
	Ace   Value = "A"
)

var (
	allSuits  = []Suit{Hearts, Diamonds, Clubs, Spades}
	allValues = []Value{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
)

// Card represents a playing card. Cards are immutable values.
type Card struct {
	suit  Suit
	value Value
}

// CardJSON represents a card for JSON serialization
type CardJSON struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// NewCard creates a new Card with the given value and suit.
func NewCard(value Value, suit Suit) Card {
	return Card{suit: suit, value: value}
}

// MarshalJSON implements json.Marshaler interface for Card
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(CardJSON{
		Rank: string(c.value),
		Suit: string(c.suit),
	})
}

// UnmarshalJSON implements json.Unmarshaler interface for Card
func (c *Card) UnmarshalJSON(data []byte) error {
	var cardJSON CardJSON
	if err := json.Unmarshal(data, &cardJSON); err != nil {
		return err
	}

	suit, err := parseSuit(cardJSON.Suit)
	if err != nil {
		return err
	}
	value, err := parseValue(cardJSON.Rank)
	if err != nil {
		return err
	}
	c.suit = suit
	c.value = value
	return nil
}

func parseSuit(s string) (Suit, error) {
	switch s {
	case "♠", "s", "S", "spades", "Spades":
		return Spades, nil
	case "♥", "h", "H", "hearts", "Hearts":
		return Hearts, nil
	case "♦", "d", "D", "diamonds", "Diamonds":
		return Diamonds, nil
	case "♣", "c", "C", "clubs", "Clubs":
		return Clubs, nil
	}
	return "", fmt.Errorf("invalid suit: %q", s)
}

func parseValue(s string) (Value, error) {
	switch s {
	case "A", "a", "ace", "Ace":
		return Ace, nil
	case "K", "k", "king", "King":
		return King, nil
	case "Q", "q", "queen", "Queen":
		return Queen, nil
	case "J", "j", "jack", "Jack":
		return Jack, nil
	case "T", "t", "10", "ten", "Ten":
		return Ten, nil
	case "9":
		return Nine, nil
	case "8":
		return Eight, nil
	case "7":
		return Seven, nil
	case "6":
		return Six, nil
	case "5":
		return Five, nil
	case "4":
		return Four, nil
	case "3":
		return Three, nil
	case "2":
		return Two, nil
	}
	return "", fmt.Errorf("invalid rank: %q", s)
}

// ParseCard parses a short card notation such as "Ah", "Td" or "10s".
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card: %q", s)
	}
	value, err := parseValue(s[:len(s)-1])
	if err != nil {
		return Card{}, err
	}
	suit, err := parseSuit(s[len(s)-1:])
	if err != nil {
		return Card{}, err
	}
	return Card{suit: suit, value: value}, nil
}

// ParseCards parses a whitespace separated list of cards, e.g. "Ah Kd 7c".
func ParseCards(s string) ([]Card, error) {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards is like ParseCards but panics on malformed input.
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(err)
	}
	return cards
}

// String returns a string representation of the card
func (c Card) String() string {
	var sym string
	switch c.suit {
	case Spades:
		sym = "♠"
	case Hearts:
		sym = "♥"
	case Diamonds:
		sym = "♦"
	case Clubs:
		sym = "♣"
	}
	return string(c.value) + sym
}

// Suit returns the card's suit
func (c Card) Suit() Suit {
	return c.suit
}

// Value returns the card's rank symbol
func (c Card) Value() Value {
	return c.value
}

// Rank returns the numeric rank of the card, 2 through 14 (ace high).
func (c Card) Rank() int {
	return valueToInt(c.value)
}

// IsRed reports whether the card is a heart or a diamond.
func (c Card) IsRed() bool {
	return c.suit == Hearts || c.suit == Diamonds
}

// NewDeck returns the 52 cards of a standard deck in a uniformly random order
// drawn from rng. A nil rng uses a source seeded from crypto/rand.
func NewDeck(rng *rand.Rand) []Card {
	if rng == nil {
		rng = newSeededRand()
	}
	cards := make([]Card, 0, 52)
	for _, suit := range allSuits {
		for _, value := range allValues {
			cards = append(cards, Card{suit: suit, value: value})
		}
	}

	// Fisher-Yates over the full index range.
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
	return cards
}

// newSeededRand returns a ChaCha8 source keyed with 32 bytes from
// crypto/rand. 256 bits of key cover all 52! deck orders.
func newSeededRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		panic(fmt.Sprintf("poker: unable to seed deck shuffle: %v", err))
	}
	return rand.New(rand.NewChaCha8(seed))
}

// draw removes and returns the top card of the state's deck.
func (gs *GameState) draw() (Card, bool) {
	if len(gs.Deck) == 0 {
		return Card{}, false
	}
	card := gs.Deck[0]
	gs.Deck = gs.Deck[1:]
	return card, true
}

// burnAndDeal discards one card and moves n cards to the board.
func (gs *GameState) burnAndDeal(n int) error {
	if _, ok := gs.draw(); !ok {
		return fmt.Errorf("deck exhausted while burning")
	}
	for i := 0; i < n; i++ {
		card, ok := gs.draw()
		if !ok {
			return fmt.Errorf("deck exhausted while dealing board")
		}
		gs.CommunityCards = append(gs.CommunityCards, card)
	}
	return nil
}
