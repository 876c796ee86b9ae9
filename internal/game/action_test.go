package game

import (
	"errors"
	"testing"
)

// bettingTable returns a table mid-preflop with every seat active,
// unset bets, and the action on seat 1.
func bettingTable(t *testing.T, seed int64) *Table {
	t.Helper()
	tbl := newTestTable(seed)
	readyAll(tbl)
	tbl.BeginHand()
	if tbl.Current != 1 {
		t.Fatalf("setup: Current = %d, want 1", tbl.Current)
	}
	return tbl
}

func mustApply(t *testing.T, tbl *Table, seat int, act Action) {
	t.Helper()
	if err := tbl.Apply(seat, act); err != nil {
		t.Fatalf("Apply(seat %d, %v): %v", seat, act.Kind, err)
	}
}

func TestApplyPreconditions(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Table)
		seat  int
		act   Action
	}{
		{
			"out of turn",
			func(tbl *Table) {},
			3, Action{Kind: ActionCheck},
		},
		{
			"folded seat",
			func(tbl *Table) { tbl.Seats[1].Status = StatusFolded },
			1, Action{Kind: ActionCheck},
		},
		{
			"all-in seat",
			func(tbl *Table) {
				tbl.Seats[1].Status = StatusAllIn
				tbl.Seats[1].Stack = 0
			},
			1, Action{Kind: ActionCheck},
		},
		{
			"check facing a bet",
			func(tbl *Table) { tbl.HighestBet = 10 },
			1, Action{Kind: ActionCheck},
		},
		{
			"call with nothing owed",
			func(tbl *Table) {},
			1, Action{Kind: ActionCall},
		},
		{
			"raise equal to highest bet",
			func(tbl *Table) { tbl.HighestBet = 10 },
			1, Action{Kind: ActionRaise, Amount: 10},
		},
		{
			"raise below highest bet",
			func(tbl *Table) { tbl.HighestBet = 10 },
			1, Action{Kind: ActionRaise, Amount: 5},
		},
		{
			"raise not above own bet",
			func(tbl *Table) {
				tbl.Seats[1].Bet = 10
				tbl.HighestBet = 10
			},
			1, Action{Kind: ActionRaise, Amount: 10},
		},
		{
			"raise beyond stack",
			func(tbl *Table) {},
			1, Action{Kind: ActionRaise, Amount: 101},
		},
		{
			"unknown action kind",
			func(tbl *Table) {},
			1, Action{Kind: ActionKind(99)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := bettingTable(t, 1)
			tt.setup(tbl)

			before := *tbl
			err := tbl.Apply(tt.seat, tt.act)
			if !errors.Is(err, ErrInvalidAction) {
				t.Fatalf("err = %v, want ErrInvalidAction", err)
			}
			if *tbl != before {
				t.Error("table mutated by a rejected action")
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tbl := bettingTable(t, 2)

	mustApply(t, tbl, 1, Action{Kind: ActionCheck})
	if got := tbl.Seats[1].Bet; got != 0 {
		t.Errorf("Bet = %d, want 0 after checking an unset bet", got)
	}
	if tbl.Current != 2 {
		t.Errorf("Current = %d, want 2", tbl.Current)
	}
	if tbl.Pot != 0 || tbl.Seats[1].Stack != 100 {
		t.Error("check moved chips")
	}

	// Checking again later in the street with a matched bet leaves it
	// alone.
	tbl.Seats[1].Bet = 0
	tbl.Current = 1
	mustApply(t, tbl, 1, Action{Kind: ActionCheck})
	if got := tbl.Seats[1].Bet; got != 0 {
		t.Errorf("Bet = %d, want 0", got)
	}
}

func TestCall(t *testing.T) {
	tbl := bettingTable(t, 3)
	mustApply(t, tbl, 1, Action{Kind: ActionRaise, Amount: 10})

	mustApply(t, tbl, 2, Action{Kind: ActionCall})
	s := &tbl.Seats[2]
	if s.Bet != 10 {
		t.Errorf("Bet = %d, want 10 (exactly the highest bet)", s.Bet)
	}
	if s.Stack != 90 {
		t.Errorf("Stack = %d, want 90", s.Stack)
	}
	if s.Status != StatusActive {
		t.Errorf("Status = %v, want active", s.Status)
	}
	if tbl.Pot != 20 {
		t.Errorf("Pot = %d, want 20", tbl.Pot)
	}
}

func TestCallAllInBoundaries(t *testing.T) {
	t.Run("stack equals call", func(t *testing.T) {
		tbl := bettingTable(t, 4)
		tbl.Seats[2].Stack = 10
		mustApply(t, tbl, 1, Action{Kind: ActionRaise, Amount: 10})

		mustApply(t, tbl, 2, Action{Kind: ActionCall})
		s := &tbl.Seats[2]
		if s.Stack != 0 {
			t.Errorf("Stack = %d, want 0", s.Stack)
		}
		if s.Status != StatusAllIn {
			t.Errorf("Status = %v, want all-in", s.Status)
		}
		if s.Bet != 10 {
			t.Errorf("Bet = %d, want 10", s.Bet)
		}
		if tbl.Pot != 20 {
			t.Errorf("Pot = %d, want 20", tbl.Pot)
		}
	})

	t.Run("stack short of call", func(t *testing.T) {
		tbl := bettingTable(t, 5)
		tbl.Seats[2].Stack = 4
		mustApply(t, tbl, 1, Action{Kind: ActionRaise, Amount: 10})

		mustApply(t, tbl, 2, Action{Kind: ActionCall})
		s := &tbl.Seats[2]
		if s.Stack != 0 {
			t.Errorf("Stack = %d, want 0", s.Stack)
		}
		if s.Status != StatusAllIn {
			t.Errorf("Status = %v, want all-in", s.Status)
		}
		// The seat owes nothing beyond its stack.
		if s.Bet != 4 {
			t.Errorf("Bet = %d, want 4", s.Bet)
		}
		if tbl.Pot != 14 {
			t.Errorf("Pot = %d, want 14", tbl.Pot)
		}
	})
}

func TestRaise(t *testing.T) {
	tbl := bettingTable(t, 6)

	// Seat 1 checks, then seat 2 raises; seat 1's matched bet must be
	// reopened so it owes action again.
	mustApply(t, tbl, 1, Action{Kind: ActionCheck})
	mustApply(t, tbl, 2, Action{Kind: ActionRaise, Amount: 10})

	if got := tbl.Seats[2].Bet; got != 10 {
		t.Errorf("raiser Bet = %d, want 10", got)
	}
	if got := tbl.Seats[2].Stack; got != 90 {
		t.Errorf("raiser Stack = %d, want 90", got)
	}
	if tbl.HighestBet != 10 {
		t.Errorf("HighestBet = %d, want 10", tbl.HighestBet)
	}
	if tbl.Pot != 10 {
		t.Errorf("Pot = %d, want 10", tbl.Pot)
	}
	if got := tbl.Seats[1].Bet; got != BetUnset {
		t.Errorf("seat 1 Bet = %d, want unset after the raise", got)
	}
	for _, id := range []int{3, 4, 5, 0} {
		if got := tbl.Seats[id].Bet; got != BetUnset {
			t.Errorf("seat %d Bet = %d, want unset", id, got)
		}
	}

	// Re-raise over the top: diff is measured from the raiser's own
	// committed chips.
	mustApply(t, tbl, 3, Action{Kind: ActionRaise, Amount: 30})
	if got := tbl.Seats[3].Stack; got != 70 {
		t.Errorf("re-raiser Stack = %d, want 70", got)
	}
	if tbl.Pot != 40 {
		t.Errorf("Pot = %d, want 40", tbl.Pot)
	}
	if got := tbl.Seats[2].Bet; got != BetUnset {
		t.Errorf("original raiser Bet = %d, want unset after re-raise", got)
	}
}

func TestRaiseExactStackStaysActive(t *testing.T) {
	// A raise that consumes the whole stack leaves the seat active
	// with zero behind; it goes all-in only through a later call.
	tbl := bettingTable(t, 7)
	mustApply(t, tbl, 1, Action{Kind: ActionRaise, Amount: 100})

	s := &tbl.Seats[1]
	if s.Stack != 0 {
		t.Errorf("Stack = %d, want 0", s.Stack)
	}
	if s.Status != StatusActive {
		t.Errorf("Status = %v, want active", s.Status)
	}
	if tbl.HighestBet != 100 || tbl.Pot != 100 {
		t.Errorf("HighestBet = %d, Pot = %d, want 100, 100", tbl.HighestBet, tbl.Pot)
	}
}

func TestFold(t *testing.T) {
	tbl := bettingTable(t, 8)
	mustApply(t, tbl, 1, Action{Kind: ActionRaise, Amount: 10})

	mustApply(t, tbl, 2, Action{Kind: ActionFold})
	s := &tbl.Seats[2]
	if s.Status != StatusFolded {
		t.Errorf("Status = %v, want folded", s.Status)
	}
	if s.Bet != 0 {
		t.Errorf("Bet = %d, want 0", s.Bet)
	}
	if s.Stack != 100 {
		t.Errorf("Stack = %d, want 100 (no chips were committed)", s.Stack)
	}
	if tbl.Current != 3 {
		t.Errorf("Current = %d, want 3", tbl.Current)
	}

	// A second fold is out of turn and changes nothing.
	before := *tbl
	if err := tbl.Apply(2, Action{Kind: ActionFold}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("second fold: err = %v, want ErrInvalidAction", err)
	}
	if *tbl != before {
		t.Error("second fold mutated the table")
	}
}

func TestTurnAdvanceSkipsNonActive(t *testing.T) {
	tbl := bettingTable(t, 9)
	tbl.Seats[2].Status = StatusFolded
	tbl.Seats[3].Status = StatusAllIn
	tbl.Seats[3].Stack = 0
	tbl.Seats[3].Bet = 0

	mustApply(t, tbl, 1, Action{Kind: ActionCheck})
	if tbl.Current != 4 {
		t.Errorf("Current = %d, want 4 (skipping folded and all-in seats)", tbl.Current)
	}
}

func TestTurnUnchangedWhenNoneActive(t *testing.T) {
	tbl := bettingTable(t, 10)
	for _, id := range []int{2, 3, 4, 5, 0} {
		tbl.Seats[id].Status = StatusFolded
	}

	mustApply(t, tbl, 1, Action{Kind: ActionCheck})
	if tbl.Current != 1 {
		t.Errorf("Current = %d, want 1 (no other active seat)", tbl.Current)
	}
}

func TestSingleRaiseAllCall(t *testing.T) {
	// The classic street: one raise, five calls, pot 60, street done.
	tbl := bettingTable(t, 11)

	mustApply(t, tbl, 1, Action{Kind: ActionRaise, Amount: 10})
	for _, id := range []int{2, 3, 4, 5, 0} {
		if got := tbl.CheckStreet(); got != Continue {
			t.Fatalf("before seat %d calls: CheckStreet = %v, want continue", id, got)
		}
		mustApply(t, tbl, id, Action{Kind: ActionCall})
	}

	if tbl.Pot != 60 {
		t.Errorf("Pot = %d, want 60", tbl.Pot)
	}
	for i := range tbl.Seats {
		if got := tbl.Seats[i].Bet; got != 10 {
			t.Errorf("seat %d Bet = %d, want 10", i, got)
		}
		if got := tbl.Seats[i].Stack; got != 90 {
			t.Errorf("seat %d Stack = %d, want 90", i, got)
		}
	}
	if got := tbl.CheckStreet(); got != StreetDone {
		t.Errorf("CheckStreet = %v, want street done", got)
	}
}

func TestChipConservation(t *testing.T) {
	tbl := bettingTable(t, 12)
	start := totalChips(tbl)

	script := []struct {
		seat int
		act  Action
	}{
		{1, Action{Kind: ActionRaise, Amount: 10}},
		{2, Action{Kind: ActionCall}},
		{3, Action{Kind: ActionRaise, Amount: 40}},
		{4, Action{Kind: ActionFold}},
		{5, Action{Kind: ActionCall}},
		{0, Action{Kind: ActionFold}},
		{1, Action{Kind: ActionCall}},
		{2, Action{Kind: ActionCall}},
	}
	for _, step := range script {
		mustApply(t, tbl, step.seat, step.act)
		if got := totalChips(tbl); got != start {
			t.Fatalf("after seat %d %v: total chips = %d, want %d",
				step.seat, step.act.Kind, got, start)
		}
	}
	if got := tbl.CheckStreet(); got != StreetDone {
		t.Errorf("CheckStreet = %v, want street done", got)
	}

	// A raise wipes the other seats' street credit: seats 1 and 2 had
	// 10 in but pay the full 40 to call the re-raise.
	if got := tbl.Seats[1].Stack; got != 50 {
		t.Errorf("seat 1 Stack = %d, want 50", got)
	}
	if got := tbl.Seats[2].Stack; got != 50 {
		t.Errorf("seat 2 Stack = %d, want 50", got)
	}
	if tbl.Pot != 180 {
		t.Errorf("Pot = %d, want 180", tbl.Pot)
	}
}
