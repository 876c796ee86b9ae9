package game

import (
	"errors"

	"github.com/tablewire/tablewire/internal/deck"
	"github.com/tablewire/tablewire/internal/evaluator"
)

// ErrNoContenders is returned when showdown finds no seat still in the
// hand. With the driver enforcing at least two active seats per hand
// this indicates a state machine bug.
var ErrNoContenders = errors.New("showdown with no contenders")

// Result describes how a hand ended.
type Result struct {
	Winner int
	// Value is the winning seven-card strength. It is zero when the
	// pot was uncontested and no hands were evaluated.
	Value evaluator.Value
	// Uncontested is true when everyone else folded before showdown.
	Uncontested bool
}

// Showdown compares the remaining hands and moves the pot to the
// winner's stack. Ties go to the lowest seat id. When a single
// contender remains it wins without evaluation; its hole cards or the
// board may still be unrevealed.
func (t *Table) Showdown() (Result, error) {
	if t.ContenderCount() == 1 {
		for i := range t.Seats {
			if t.Seats[i].InHand() {
				t.award(i)
				return Result{Winner: i, Uncontested: true}, nil
			}
		}
	}

	winner := -1
	var best evaluator.Value
	for i := range t.Seats {
		s := &t.Seats[i]
		if !s.InHand() {
			continue
		}
		var cards [7]deck.Card
		cards[0] = s.Hole[0]
		cards[1] = s.Hole[1]
		copy(cards[2:], t.Community[:])
		v, err := evaluator.Evaluate(cards)
		if err != nil {
			return Result{}, err
		}
		if winner == -1 || v > best {
			winner = i
			best = v
		}
	}
	if winner == -1 {
		return Result{}, ErrNoContenders
	}

	t.award(winner)
	return Result{Winner: winner, Value: best}, nil
}

// award moves the pot into the winner's stack.
func (t *Table) award(winner int) {
	t.Seats[winner].Stack += t.Pot
	t.Pot = 0
	t.Stage = StageShowdown
}
