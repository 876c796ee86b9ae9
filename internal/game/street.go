package game

// Progress is the street-completion verdict the hand driver consults
// before awaiting each action.
type Progress int

const (
	// Continue means at least one active seat still owes a decision.
	Continue Progress = iota
	// StreetDone means betting is settled; reveal the next street or,
	// after the river, go to showdown.
	StreetDone
	// HandOverEarly means a single contender remains and wins
	// uncontested; skip straight to showdown.
	HandOverEarly
)

// String returns the verdict name used in logs.
func (p Progress) String() string {
	switch p {
	case Continue:
		return "continue"
	case StreetDone:
		return "street done"
	case HandOverEarly:
		return "hand over early"
	default:
		return "unknown"
	}
}

// CheckStreet reports whether the current street needs more action.
// A street is settled when every active seat has matched the highest
// bet with no unset bets remaining; all-in seats never owe action. A
// lone contender ends the hand outright.
func (t *Table) CheckStreet() Progress {
	contenders := 0
	pending := 0
	for i := range t.Seats {
		switch t.Seats[i].Status {
		case StatusActive:
			contenders++
			if t.Seats[i].Bet == BetUnset || t.Seats[i].Bet != t.HighestBet {
				pending++
			}
		case StatusAllIn:
			contenders++
		}
	}
	if contenders <= 1 {
		return HandOverEarly
	}
	if pending == 0 {
		return StreetDone
	}
	return Continue
}
