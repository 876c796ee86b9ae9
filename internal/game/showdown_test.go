package game

import (
	"errors"
	"testing"

	"github.com/tablewire/tablewire/internal/deck"
	"github.com/tablewire/tablewire/internal/evaluator"
)

func setBoard(tbl *Table, codes ...string) {
	for i, s := range codes {
		tbl.Community[i] = deck.MustParse(s)
	}
}

func setHole(tbl *Table, seat int, a, b string) {
	tbl.Seats[seat].Hole = [2]deck.Card{deck.MustParse(a), deck.MustParse(b)}
}

func TestShowdownBestHandWins(t *testing.T) {
	tbl := newTestTable(1)
	setBoard(tbl, "2c", "7d", "9h", "Jc", "3s")

	tbl.Seats[0].Status = StatusActive
	setHole(tbl, 0, "Kh", "Ks")
	tbl.Seats[4].Status = StatusActive
	setHole(tbl, 4, "Ah", "As")
	tbl.Pot = 40

	res, err := tbl.Showdown()
	if err != nil {
		t.Fatalf("Showdown: %v", err)
	}
	if res.Winner != 4 {
		t.Errorf("Winner = %d, want 4 (aces over kings)", res.Winner)
	}
	if res.Uncontested {
		t.Error("Uncontested = true for a contested pot")
	}
	if res.Value.Category() != evaluator.Pair {
		t.Errorf("winning category = %v, want Pair", res.Value.Category())
	}
	if got := tbl.Seats[4].Stack; got != 140 {
		t.Errorf("winner stack = %d, want 140", got)
	}
	if tbl.Pot != 0 {
		t.Errorf("Pot = %d, want 0 after the award", tbl.Pot)
	}
}

func TestShowdownAllInContenderCanWin(t *testing.T) {
	tbl := newTestTable(2)
	setBoard(tbl, "2c", "7d", "9h", "Jc", "3s")

	tbl.Seats[1].Status = StatusActive
	setHole(tbl, 1, "Qh", "Qs")
	tbl.Seats[2].Status = StatusAllIn
	tbl.Seats[2].Stack = 0
	setHole(tbl, 2, "Ah", "As")
	tbl.Pot = 75

	res, err := tbl.Showdown()
	if err != nil {
		t.Fatalf("Showdown: %v", err)
	}
	if res.Winner != 2 {
		t.Errorf("Winner = %d, want the all-in seat 2", res.Winner)
	}
	if got := tbl.Seats[2].Stack; got != 75 {
		t.Errorf("winner stack = %d, want 75", got)
	}
}

func TestShowdownTieGoesToLowestSeat(t *testing.T) {
	// The board plays for both contenders; no pot split, the lowest
	// seat id takes it all.
	tbl := newTestTable(3)
	setBoard(tbl, "Ts", "Js", "Qs", "Ks", "As")

	tbl.Seats[2].Status = StatusActive
	setHole(tbl, 2, "2c", "3c")
	tbl.Seats[4].Status = StatusActive
	setHole(tbl, 4, "2d", "3d")
	tbl.Pot = 30

	res, err := tbl.Showdown()
	if err != nil {
		t.Fatalf("Showdown: %v", err)
	}
	if res.Winner != 2 {
		t.Errorf("Winner = %d, want 2", res.Winner)
	}
	if res.Value.Category() != evaluator.StraightFlush {
		t.Errorf("winning category = %v, want StraightFlush", res.Value.Category())
	}
	if got := tbl.Seats[2].Stack; got != 130 {
		t.Errorf("winner stack = %d, want 130", got)
	}
	if got := tbl.Seats[4].Stack; got != 100 {
		t.Errorf("loser stack = %d, want 100", got)
	}
}

func TestShowdownUncontested(t *testing.T) {
	// Everyone folded preflop: no board, no evaluation, the lone
	// contender takes the pot with unrevealed cards.
	tbl := newTestTable(4)
	tbl.Seats[3].Status = StatusActive
	tbl.Pot = 12

	res, err := tbl.Showdown()
	if err != nil {
		t.Fatalf("Showdown: %v", err)
	}
	if res.Winner != 3 {
		t.Errorf("Winner = %d, want 3", res.Winner)
	}
	if !res.Uncontested {
		t.Error("Uncontested = false for a walkover")
	}
	if res.Value != 0 {
		t.Errorf("Value = %#x, want 0 (no hands evaluated)", uint64(res.Value))
	}
	if got := tbl.Seats[3].Stack; got != 112 {
		t.Errorf("winner stack = %d, want 112", got)
	}
	if tbl.Stage != StageShowdown {
		t.Errorf("Stage = %v, want showdown", tbl.Stage)
	}
}

func TestShowdownNoContenders(t *testing.T) {
	tbl := newTestTable(5)
	if _, err := tbl.Showdown(); !errors.Is(err, ErrNoContenders) {
		t.Errorf("err = %v, want ErrNoContenders", err)
	}
}
