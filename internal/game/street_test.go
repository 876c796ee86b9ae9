package game

import "testing"

func TestCheckStreet(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Table)
		want  Progress
	}{
		{
			"fresh street, everyone unset",
			func(tbl *Table) {
				readyAll(tbl)
				for i := range tbl.Seats {
					tbl.Seats[i].Bet = BetUnset
				}
			},
			Continue,
		},
		{
			"all matched at zero",
			func(tbl *Table) {
				readyAll(tbl)
			},
			StreetDone,
		},
		{
			"all matched at the highest bet",
			func(tbl *Table) {
				readyAll(tbl)
				tbl.HighestBet = 10
				for i := range tbl.Seats {
					tbl.Seats[i].Bet = 10
				}
			},
			StreetDone,
		},
		{
			"one seat still owes",
			func(tbl *Table) {
				readyAll(tbl)
				tbl.HighestBet = 10
				for i := range tbl.Seats {
					tbl.Seats[i].Bet = 10
				}
				tbl.Seats[4].Bet = BetUnset
			},
			Continue,
		},
		{
			"short all-in does not hold the street open",
			func(tbl *Table) {
				readyAll(tbl)
				tbl.HighestBet = 10
				for i := range tbl.Seats {
					tbl.Seats[i].Bet = 10
				}
				tbl.Seats[3].Status = StatusAllIn
				tbl.Seats[3].Stack = 0
				tbl.Seats[3].Bet = 4
			},
			StreetDone,
		},
		{
			"lone contender after folds",
			func(tbl *Table) {
				tbl.Seats[2].Status = StatusActive
				tbl.Seats[2].Bet = BetUnset
			},
			HandOverEarly,
		},
		{
			"lone all-in contender",
			func(tbl *Table) {
				tbl.Seats[5].Status = StatusAllIn
				tbl.Seats[5].Stack = 0
			},
			HandOverEarly,
		},
		{
			"everyone all-in runs the board out",
			func(tbl *Table) {
				for _, id := range []int{1, 3} {
					tbl.Seats[id].Status = StatusAllIn
					tbl.Seats[id].Stack = 0
				}
			},
			StreetDone,
		},
		{
			"all-in pair plus a matched active seat",
			func(tbl *Table) {
				tbl.Seats[0].Status = StatusActive
				tbl.Seats[0].Bet = 30
				tbl.Seats[2].Status = StatusAllIn
				tbl.Seats[2].Stack = 0
				tbl.Seats[2].Bet = 12
				tbl.HighestBet = 30
			},
			StreetDone,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := newTestTable(1)
			tt.setup(tbl)
			if got := tbl.CheckStreet(); got != tt.want {
				t.Errorf("CheckStreet = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStreetReopensOnTransition(t *testing.T) {
	// A settled street stays settled until the transition hands out
	// fresh unset bets. The driver stops soliciting actions as soon as
	// the verdict is non-continue, so nothing can unsettle it.
	tbl := newTestTable(2)
	readyAll(tbl)
	tbl.BeginHand()
	for _, id := range []int{1, 2, 3, 4, 5, 0} {
		mustApply(t, tbl, id, Action{Kind: ActionCheck})
	}
	if got := tbl.CheckStreet(); got != StreetDone {
		t.Fatalf("CheckStreet = %v, want street done", got)
	}
	if got := tbl.CheckStreet(); got != StreetDone {
		t.Fatalf("second look disagrees: %v", got)
	}

	tbl.AdvanceStreet()
	if got := tbl.CheckStreet(); got != Continue {
		t.Errorf("after transition: CheckStreet = %v, want continue", got)
	}
}
