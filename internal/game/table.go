// Package game holds the authoritative table state for a six-seat
// no-blind hold'em game and the rules for mutating it: dealing,
// betting actions, street transitions, and showdown.
//
// A Table is owned by a single hand driver goroutine. Nothing in this
// package locks; the driver's single-threaded discipline is the
// concurrency model.
package game

import (
	"github.com/tablewire/tablewire/internal/deck"
)

// NumSeats is the fixed number of seats at the table.
const NumSeats = 6

// BetUnset marks a seat that has not acted this street and still owes
// the highest bet. It is never sent on the wire; viewers see 0.
const BetUnset = -1

// Status describes a seat's standing in the current hand.
type Status int

const (
	StatusFolded Status = iota // out of the hand, or waiting to ready up
	StatusActive               // in the hand with chips behind
	StatusAllIn                // in the hand, stack fully committed
	StatusLeft                 // connection gone, seat retired
)

// String returns the status name used in logs.
func (s Status) String() string {
	switch s {
	case StatusFolded:
		return "folded"
	case StatusActive:
		return "active"
	case StatusAllIn:
		return "all-in"
	case StatusLeft:
		return "left"
	default:
		return "unknown"
	}
}

// Stage identifies how far the current hand has progressed.
type Stage int

const (
	StageInit Stage = iota
	StagePreflop
	StageFlop
	StageTurn
	StageRiver
	StageShowdown
)

// String returns the stage name used in logs.
func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StagePreflop:
		return "preflop"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	case StageShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// Reveals returns how many community cards are face up at this stage.
func (s Stage) Reveals() int {
	switch s {
	case StageFlop:
		return 3
	case StageTurn:
		return 4
	case StageRiver, StageShowdown:
		return 5
	default:
		return 0
	}
}

// Seat is one of the six fixed positions at the table.
type Seat struct {
	ID     int
	Status Status
	Stack  int
	Hole   [2]deck.Card

	// Bet is the amount committed this street, or BetUnset when the
	// seat has yet to act against the current highest bet.
	Bet int
}

// Committed returns the chips actually wagered this street, treating
// the unset marker as zero.
func (s *Seat) Committed() int {
	if s.Bet < 0 {
		return 0
	}
	return s.Bet
}

// InHand reports whether the seat still contends for the pot.
func (s *Seat) InHand() bool {
	return s.Status == StatusActive || s.Status == StatusAllIn
}

// Table is the complete state of one game. All mutation happens
// through the methods in this package, called from the hand driver.
type Table struct {
	Seats      [NumSeats]Seat
	Community  [5]deck.Card
	Pot        int
	HighestBet int
	Dealer     int
	Current    int
	Stage      Stage
	HandsDealt int

	deck *deck.Deck
}

// NewTable seats six players with the given starting stack. The deck
// supplies every card dealt; it is reshuffled at the start of each
// hand.
func NewTable(startingStack int, d *deck.Deck) *Table {
	t := &Table{deck: d}
	for i := range t.Seats {
		t.Seats[i] = Seat{
			ID:     i,
			Status: StatusFolded,
			Stack:  startingStack,
			Hole:   [2]deck.Card{deck.NoCard, deck.NoCard},
		}
	}
	for i := range t.Community {
		t.Community[i] = deck.NoCard
	}
	return t
}

// ResetBetweenHands returns every surviving seat to the folded resting
// state so the next ready phase starts from a clean baseline. Left
// seats stay left.
func (t *Table) ResetBetweenHands() {
	t.Stage = StageInit
	for i := range t.Seats {
		s := &t.Seats[i]
		s.Hole = [2]deck.Card{deck.NoCard, deck.NoCard}
		s.Bet = 0
		if s.Status != StatusLeft {
			s.Status = StatusFolded
		}
	}
}

// BeginHand starts a new hand: clears the board, rotates the dealer
// (except on the very first hand), reshuffles, and deals two cards to
// each active seat in seat order starting left of the dealer. The
// caller must have at least two seats active.
func (t *Table) BeginHand() {
	for i := range t.Community {
		t.Community[i] = deck.NoCard
	}
	t.Pot = 0
	t.HighestBet = 0

	for i := range t.Seats {
		s := &t.Seats[i]
		s.Hole = [2]deck.Card{deck.NoCard, deck.NoCard}
		if s.Status == StatusActive {
			s.Bet = BetUnset
		} else {
			s.Bet = 0
		}
	}

	if t.HandsDealt > 0 {
		t.Dealer = t.NextNonLeft(t.Dealer)
	}
	t.HandsDealt++

	t.deck.Shuffle()
	for off := 1; off <= NumSeats; off++ {
		s := &t.Seats[(t.Dealer+off)%NumSeats]
		if s.Status != StatusActive {
			continue
		}
		s.Hole[0] = t.deck.DealOne()
		s.Hole[1] = t.deck.DealOne()
	}

	t.Current = t.NextActive(t.Dealer)
	t.Stage = StagePreflop
}

// AdvanceStreet reveals the next community cards, reopens betting for
// the active seats, and hands the action to the first active seat left
// of the dealer. It does nothing once the river is out.
func (t *Table) AdvanceStreet() {
	switch t.Stage {
	case StagePreflop:
		t.Community[0] = t.deck.DealOne()
		t.Community[1] = t.deck.DealOne()
		t.Community[2] = t.deck.DealOne()
		t.Stage = StageFlop
	case StageFlop:
		t.Community[3] = t.deck.DealOne()
		t.Stage = StageTurn
	case StageTurn:
		t.Community[4] = t.deck.DealOne()
		t.Stage = StageRiver
	default:
		return
	}

	t.HighestBet = 0
	for i := range t.Seats {
		if t.Seats[i].Status == StatusActive {
			t.Seats[i].Bet = BetUnset
		} else {
			t.Seats[i].Bet = 0
		}
	}
	t.Current = t.NextActive(t.Dealer)
}

// ForceFold folds a seat outside the normal action flow, as when its
// connection drops mid-hand. The seat plays no further part in the
// hand; chips it already committed stay in the pot. If the action was
// on the folding seat it moves to the next active one.
func (t *Table) ForceFold(seat int) {
	if seat < 0 || seat >= NumSeats {
		return
	}
	s := &t.Seats[seat]
	if s.Status != StatusActive {
		return
	}
	s.Status = StatusFolded
	s.Bet = 0
	if t.Current == seat {
		t.Current = t.NextActive(seat)
	}
}

// Retire removes a seat from the table for good, as when the player
// leaves or its connection is torn down. Committed chips stay in the
// pot and the turn advances if the seat held it.
func (t *Table) Retire(seat int) {
	if seat < 0 || seat >= NumSeats {
		return
	}
	s := &t.Seats[seat]
	if s.Status == StatusLeft {
		return
	}
	s.Status = StatusLeft
	s.Bet = 0
	if t.Current == seat {
		t.Current = t.NextActive(seat)
	}
}

// NextActive returns the next active seat after from in seat order,
// wrapping around the table. If no other seat is active it returns
// from unchanged.
func (t *Table) NextActive(from int) int {
	for i := 1; i <= NumSeats; i++ {
		id := (from + i) % NumSeats
		if t.Seats[id].Status == StatusActive {
			return id
		}
	}
	return from
}

// NextNonLeft returns the next seat after from that has not left,
// wrapping around the table. If every other seat has left it returns
// from unchanged.
func (t *Table) NextNonLeft(from int) int {
	for i := 1; i <= NumSeats; i++ {
		id := (from + i) % NumSeats
		if t.Seats[id].Status != StatusLeft {
			return id
		}
	}
	return from
}

// ActiveCount returns the number of seats with status active.
func (t *Table) ActiveCount() int {
	n := 0
	for i := range t.Seats {
		if t.Seats[i].Status == StatusActive {
			n++
		}
	}
	return n
}

// ContenderCount returns the number of seats still contending for the
// pot, active and all-in alike.
func (t *Table) ContenderCount() int {
	n := 0
	for i := range t.Seats {
		if t.Seats[i].InHand() {
			n++
		}
	}
	return n
}

// NonLeftCount returns the number of seats still bound to a
// connection.
func (t *Table) NonLeftCount() int {
	n := 0
	for i := range t.Seats {
		if t.Seats[i].Status != StatusLeft {
			n++
		}
	}
	return n
}
