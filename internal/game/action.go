package game

import (
	"errors"
	"fmt"
)

// ErrInvalidAction is returned when an action fails validation. The
// table is left untouched and the turn does not advance; the caller
// answers the seat with a NACK and awaits it again.
var ErrInvalidAction = errors.New("invalid action")

// ActionKind enumerates the betting actions a seat may take.
type ActionKind uint8

const (
	ActionCheck ActionKind = iota
	ActionCall
	ActionRaise
	ActionFold
)

// String returns the action name used in logs.
func (k ActionKind) String() string {
	switch k {
	case ActionCheck:
		return "check"
	case ActionCall:
		return "call"
	case ActionRaise:
		return "raise"
	case ActionFold:
		return "fold"
	default:
		return "unknown"
	}
}

// Action is one betting decision. Amount is only meaningful for a
// raise, where it is the total the seat wants wagered this street,
// not the increment.
type Action struct {
	Kind   ActionKind
	Amount int
}

// Apply validates and applies one action from seat. On success the
// turn advances to the next active seat; on failure it returns an
// error wrapping ErrInvalidAction and changes nothing.
func (t *Table) Apply(seat int, act Action) error {
	if seat != t.Current {
		return fmt.Errorf("%w: seat %d acted out of turn", ErrInvalidAction, seat)
	}
	s := &t.Seats[seat]
	if s.Status != StatusActive {
		return fmt.Errorf("%w: seat %d is %s", ErrInvalidAction, seat, s.Status)
	}

	call := t.HighestBet - s.Committed()

	switch act.Kind {
	case ActionCheck:
		if call != 0 {
			return fmt.Errorf("%w: cannot check with %d to call", ErrInvalidAction, call)
		}
		if s.Bet == BetUnset {
			s.Bet = 0
		}

	case ActionCall:
		if call <= 0 {
			return fmt.Errorf("%w: nothing to call", ErrInvalidAction)
		}
		if s.Stack <= call {
			// Short call: the whole stack goes in and the seat is
			// all-in, owing nothing further.
			t.Pot += s.Stack
			s.Bet = s.Committed() + s.Stack
			s.Stack = 0
			s.Status = StatusAllIn
		} else {
			s.Stack -= call
			s.Bet = s.Committed() + call
			t.Pot += call
		}

	case ActionRaise:
		amount := act.Amount
		if amount <= t.HighestBet {
			return fmt.Errorf("%w: raise to %d does not exceed highest bet %d", ErrInvalidAction, amount, t.HighestBet)
		}
		if amount <= s.Committed() {
			return fmt.Errorf("%w: raise to %d does not exceed own bet %d", ErrInvalidAction, amount, s.Committed())
		}
		diff := amount - s.Committed()
		if diff > s.Stack {
			return fmt.Errorf("%w: raise to %d needs %d more, stack is %d", ErrInvalidAction, amount, diff, s.Stack)
		}
		s.Stack -= diff
		s.Bet = amount
		t.HighestBet = amount
		t.Pot += diff
		// Everyone else must act again to match the new high.
		for i := range t.Seats {
			if i != seat && t.Seats[i].Status == StatusActive {
				t.Seats[i].Bet = BetUnset
			}
		}

	case ActionFold:
		s.Status = StatusFolded
		s.Bet = 0

	default:
		return fmt.Errorf("%w: unknown action %d", ErrInvalidAction, act.Kind)
	}

	t.Current = t.NextActive(t.Current)
	return nil
}
