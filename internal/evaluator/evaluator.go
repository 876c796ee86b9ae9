package evaluator

import (
	"errors"
	"math/bits"

	"github.com/tablewire/tablewire/internal/deck"
)

// Category enumerates hand categories in ascending strength. The zero value
// is reserved so that any valid Value compares above an empty one.
type Category uint8

const (
	HighCard Category = iota + 1
	Pair
	TwoPair
	Trips
	Straight
	Flush
	FullHouse
	Quads
	StraightFlush
)

// String returns a human-readable category name.
func (c Category) String() string {
	switch c {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case Trips:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case Quads:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	default:
		return "Unknown"
	}
}

// Value is the packed strength of a seven-card hand. The category ordinal
// occupies the top four bits and the deciding ranks follow as nibbles in
// descending significance, so hand A beats hand B exactly when
// Value(A) > Value(B) and equal values are ties.
type Value uint64

const categoryShift = 60

// Category extracts the category ordinal from the top bits.
func (v Value) Category() Category {
	return Category(v >> categoryShift)
}

// ErrInvalidHand is returned when fewer than five real cards are supplied.
var ErrInvalidHand = errors.New("evaluator: fewer than five real cards")

// Evaluate scores the best five-card hand available in the seven slots.
// NoCard slots are ignored; at least five real cards must be present, which
// the driver guarantees by never evaluating before the board is complete.
func Evaluate(cards [7]deck.Card) (Value, error) {
	var rankCount [13]uint8
	var suitMasks [4]uint16
	var rankMask uint16
	real := 0
	for _, c := range cards {
		if !c.Valid() {
			continue
		}
		real++
		r, s := c.Rank(), c.Suit()
		rankCount[r]++
		suitMasks[s] |= 1 << uint(r)
		rankMask |= 1 << uint(r)
	}
	if real < 5 {
		return 0, ErrInvalidHand
	}

	flushSuit := -1
	for s, m := range suitMasks {
		if bits.OnesCount16(m) >= 5 {
			flushSuit = s
			break
		}
	}

	if flushSuit >= 0 {
		if hi := straightHigh(suitMasks[flushSuit]); hi >= 0 {
			return pack(StraightFlush, uint64(hi)), nil
		}
	}

	// Group ranks from the occurrence counts, scanning aces down so the
	// first hit of each multiplicity is the strongest.
	quad, trip1, trip2, pair1, pair2 := -1, -1, -1, -1, -1
	for r := 12; r >= 0; r-- {
		switch rankCount[r] {
		case 4:
			if quad < 0 {
				quad = r
			}
		case 3:
			if trip1 < 0 {
				trip1 = r
			} else if trip2 < 0 {
				trip2 = r
			}
		case 2:
			if pair1 < 0 {
				pair1 = r
			} else if pair2 < 0 {
				pair2 = r
			}
		}
	}

	if quad >= 0 {
		kicker := topRanks(rankMask&^rankBit(quad), 1)
		return pack(Quads, packRanks(quad, kicker[0])), nil
	}

	// A second set of trips demotes to the boat's pair; seven cards cannot
	// hold two trips and a pair besides.
	if trip1 >= 0 && (trip2 >= 0 || pair1 >= 0) {
		two := trip2
		if two < 0 {
			two = pair1
		}
		return pack(FullHouse, packRanks(trip1, two)), nil
	}

	if flushSuit >= 0 {
		body := topRanks(suitMasks[flushSuit], 5)
		return pack(Flush, packRanks(body...)), nil
	}

	if hi := straightHigh(rankMask); hi >= 0 {
		return pack(Straight, uint64(hi)), nil
	}

	if trip1 >= 0 {
		ks := topRanks(rankMask&^rankBit(trip1), 2)
		return pack(Trips, packRanks(trip1, ks[0], ks[1])), nil
	}

	if pair1 >= 0 && pair2 >= 0 {
		kicker := topRanks(rankMask&^(rankBit(pair1)|rankBit(pair2)), 1)
		return pack(TwoPair, packRanks(pair1, pair2, kicker[0])), nil
	}

	if pair1 >= 0 {
		ks := topRanks(rankMask&^rankBit(pair1), 3)
		return pack(Pair, packRanks(pair1, ks[0], ks[1], ks[2])), nil
	}

	return pack(HighCard, packRanks(topRanks(rankMask, 5)...)), nil
}

func pack(c Category, body uint64) Value {
	return Value(uint64(c)<<categoryShift | body)
}

// packRanks folds ranks into nibbles, most significant first.
func packRanks(ranks ...int) uint64 {
	var v uint64
	for _, r := range ranks {
		v = v<<4 | uint64(r)
	}
	return v
}

func rankBit(r int) uint16 {
	return 1 << uint(r)
}

// topRanks returns the n highest ranks set in mask, descending. Callers only
// ask for kickers that seven cards guarantee to exist.
func topRanks(mask uint16, n int) []int {
	out := make([]int, 0, n)
	for len(out) < n && mask != 0 {
		top := bits.Len16(mask) - 1
		out = append(out, top)
		mask &^= 1 << uint(top)
	}
	return out
}

// straightHigh returns the high rank of the best straight in the 13-bit rank
// mask, or -1. The mask is shifted up one bit so the ace can be folded in
// below the deuce, letting the wheel A-2-3-4-5 surface with high card Five.
func straightHigh(mask uint16) int {
	m := (mask & 0x1FFF) << 1
	if mask&rankBit(12) != 0 {
		m |= 1
	}

	// Each set bit of seq marks the low card of five consecutive present
	// ranks; the highest run wins.
	seq := m & (m >> 1) & (m >> 2) & (m >> 3) & (m >> 4)
	if seq == 0 {
		return -1
	}
	low := bits.Len16(seq) - 1
	return low + 3
}
