package deck

import (
	rand "math/rand/v2"
)

// Deck is the standard 52 cards with a cursor marking the next card to deal.
// Cards behind the cursor are considered consumed until the next Shuffle.
type Deck struct {
	cards [52]Card
	next  int
	rng   *rand.Rand
}

// NewDeck creates an ordered deck with the given random source. The deck is
// not shuffled; the hand driver shuffles at the start of every hand.
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}
	i := 0
	for r := Two; r <= Ace; r++ {
		for s := Clubs; s <= Spades; s++ {
			d.cards[i] = NewCard(r, s)
			i++
		}
	}
	return d
}

// Shuffle reshuffles all 52 cards with Fisher-Yates and resets the cursor,
// returning previously dealt cards to play.
func (d *Deck) Shuffle() {
	d.next = 0
	for i := len(d.cards) - 1; i > 0; i-- {
		var j int
		if d.rng != nil {
			j = d.rng.IntN(i + 1)
		} else {
			j = rand.IntN(i + 1)
		}
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// DealOne deals the next card, or NoCard if the deck is exhausted.
func (d *Deck) DealOne() Card {
	if d.next >= len(d.cards) {
		return NoCard
	}
	c := d.cards[d.next]
	d.next++
	return c
}

// Deal deals n cards, or nil if fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := d.cards[d.next : d.next+n]
	d.next += n
	return cards
}

// Remaining returns the number of undealt cards.
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}
