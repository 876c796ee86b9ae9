package deck

import "fmt"

// Suit represents a card suit.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// String returns the one-letter suit code used in logs and tests.
func (s Suit) String() string {
	switch s {
	case Clubs:
		return "c"
	case Diamonds:
		return "d"
	case Hearts:
		return "h"
	case Spades:
		return "s"
	default:
		return "?"
	}
}

// Symbol returns the suit glyph for display surfaces.
func (s Suit) Symbol() string {
	switch s {
	case Clubs:
		return "♣"
	case Diamonds:
		return "♦"
	case Hearts:
		return "♥"
	case Spades:
		return "♠"
	default:
		return "?"
	}
}

// IsRed returns true for Hearts and Diamonds.
func (s Suit) IsRed() bool {
	return s == Hearts || s == Diamonds
}

// Rank represents a card rank. Ranks are zero-based: Two is 0 and Ace is 12,
// so rank values pack directly into hand-strength nibbles.
type Rank uint8

const (
	Two Rank = iota
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
	Ace
)

const rankChars = "23456789TJQKA"

// String returns the one-letter rank code.
func (r Rank) String() string {
	if r > Ace {
		return "?"
	}
	return string(rankChars[r])
}

// Card is a rank and suit packed into a single byte: rank in the high bits,
// suit in the low two. Values 0..51 are the 52 cards; NoCard marks an empty
// slot (undealt hole cards, unrevealed board slots).
type Card uint8

const suitBits = 2

// NoCard is the absent-card sentinel.
const NoCard Card = 0xFF

// NewCard packs a rank and suit into a Card.
func NewCard(r Rank, s Suit) Card {
	return Card(uint8(r)<<suitBits | uint8(s))
}

// Rank extracts the card's rank.
func (c Card) Rank() Rank {
	return Rank(c >> suitBits)
}

// Suit extracts the card's suit.
func (c Card) Suit() Suit {
	return Suit(c & 0x03)
}

// Valid reports whether c is one of the 52 real cards.
func (c Card) Valid() bool {
	return c <= NewCard(Ace, Spades)
}

// String returns the two-letter card code, e.g. "As" or "Td", or "--" for
// NoCard.
func (c Card) String() string {
	if !c.Valid() {
		return "--"
	}
	return c.Rank().String() + c.Suit().String()
}

// Parse converts a two-letter card code back into a Card.
func Parse(s string) (Card, error) {
	if len(s) != 2 {
		return NoCard, fmt.Errorf("deck: malformed card %q", s)
	}
	var r Rank
	switch {
	case s[0] >= '2' && s[0] <= '9':
		r = Rank(s[0] - '2')
	case s[0] == 'T':
		r = Ten
	case s[0] == 'J':
		r = Jack
	case s[0] == 'Q':
		r = Queen
	case s[0] == 'K':
		r = King
	case s[0] == 'A':
		r = Ace
	default:
		return NoCard, fmt.Errorf("deck: unknown rank %q", s[0])
	}
	var su Suit
	switch s[1] {
	case 'c':
		su = Clubs
	case 'd':
		su = Diamonds
	case 'h':
		su = Hearts
	case 's':
		su = Spades
	default:
		return NoCard, fmt.Errorf("deck: unknown suit %q", s[1])
	}
	return NewCard(r, su), nil
}

// MustParse is Parse for test fixtures and panics on malformed input.
func MustParse(s string) Card {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}
