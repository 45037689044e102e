package deck

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
	JokerSuit
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case JokerSuit:
		return "Joker"
	default:
		return "?"
	}
}

// IsRed returns true if the suit is red (Hearts or Diamonds)
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank
type Rank int

const (
	Ace Rank = iota + 1
	Two
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	JokerRank
)

var rankNames = map[Rank]string{
	Ace:       "A",
	Two:       "2",
	Three:     "3",
	Four:      "4",
	Five:      "5",
	Six:       "6",
	Seven:     "7",
	Eight:     "8",
	Nine:      "9",
	Ten:       "10",
	Jack:      "J",
	Queen:     "Q",
	King:      "K",
	JokerRank: "Joker",
}

// String returns the string representation of a rank
func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return "?"
}

// Card represents a playing card. The zero value is not a valid card.
type Card struct {
	Suit Suit
	Rank Rank
}

// Joker is the single unpaired card added to every deck.
var Joker = Card{Suit: JokerSuit, Rank: JokerRank}

// NewCard creates a new card
func NewCard(suit Suit, rank Rank) Card {
	return Card{Suit: suit, Rank: rank}
}

// IsJoker reports whether c is the Joker
func (c Card) IsJoker() bool {
	return c.Suit == JokerSuit
}

// String returns the string representation of a card (e.g., "A♠")
func (c Card) String() string {
	if c.IsJoker() {
		return "Joker"
	}
	return c.Rank.String() + c.Suit.String()
}

// IsRed returns true if the card is red
func (c Card) IsRed() bool {
	return c.Suit.IsRed()
}

type wireCard struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
}

// MarshalJSON encodes the card as {"suit":"♠","rank":"A"}.
func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(wireCard{Suit: c.Suit.String(), Rank: c.Rank.String()})
}

// UnmarshalJSON decodes the {"suit","rank"} form produced by MarshalJSON.
func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	suit, ok := parseSuit(w.Suit)
	if !ok {
		return fmt.Errorf("invalid suit %q", w.Suit)
	}
	rank, ok := parseRank(w.Rank)
	if !ok {
		return fmt.Errorf("invalid rank %q", w.Rank)
	}
	if (suit == JokerSuit) != (rank == JokerRank) {
		return fmt.Errorf("invalid card %s/%s", w.Rank, w.Suit)
	}
	*c = Card{Suit: suit, Rank: rank}
	return nil
}

// ParseCard parses the String form of a card ("10♥", "Q♣", "Joker").
func ParseCard(s string) (Card, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "joker") {
		return Joker, nil
	}
	for suit := Spades; suit <= Clubs; suit++ {
		sym := suit.String()
		if !strings.HasSuffix(s, sym) {
			continue
		}
		rank, ok := parseRank(strings.TrimSuffix(s, sym))
		if !ok || rank == JokerRank {
			return Card{}, fmt.Errorf("invalid rank in card %q", s)
		}
		return NewCard(suit, rank), nil
	}
	return Card{}, fmt.Errorf("invalid card %q", s)
}

// MustParseCards parses a space separated list of cards, panicking on error.
// Intended for tests and fixtures.
func MustParseCards(s string) []Card {
	fields := strings.Fields(s)
	cards := make([]Card, 0, len(fields))
	for _, f := range fields {
		c, err := ParseCard(f)
		if err != nil {
			panic(err)
		}
		cards = append(cards, c)
	}
	return cards
}

func parseSuit(s string) (Suit, bool) {
	for suit := Spades; suit <= JokerSuit; suit++ {
		if suit.String() == s {
			return suit, true
		}
	}
	return 0, false
}

func parseRank(s string) (Rank, bool) {
	for rank, name := range rankNames {
		if name == s {
			return rank, true
		}
	}
	return 0, false
}
