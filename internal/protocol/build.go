package protocol

import (
	"github.com/tablewire/tablewire/internal/deck"
	"github.com/tablewire/tablewire/internal/game"
)

// Client packet constructors.

func Join() ClientPacket  { return ClientPacket{Type: TypeJoin} }
func Ready() ClientPacket { return ClientPacket{Type: TypeReady} }
func Leave() ClientPacket { return ClientPacket{Type: TypeLeave} }
func Check() ClientPacket { return ClientPacket{Type: TypeCheck} }
func Call() ClientPacket  { return ClientPacket{Type: TypeCall} }
func Fold() ClientPacket  { return ClientPacket{Type: TypeFold} }

// Raise builds a raise to amount, the total the seat wants wagered
// this street.
func Raise(amount int) ClientPacket {
	return ClientPacket{Type: TypeRaise, Params: [2]int32{int32(amount), 0}}
}

// Action maps an action packet onto the game's action descriptor. The
// second return is false for non-action packets.
func (p *ClientPacket) Action() (game.Action, bool) {
	switch p.Type {
	case TypeCheck:
		return game.Action{Kind: game.ActionCheck}, true
	case TypeCall:
		return game.Action{Kind: game.ActionCall}, true
	case TypeRaise:
		return game.Action{Kind: game.ActionRaise, Amount: int(p.Params[0])}, true
	case TypeFold:
		return game.Action{Kind: game.ActionFold}, true
	default:
		return game.Action{}, false
	}
}

// blank returns a packet of the given type with every card slot empty
// and the seat cursors parked, so a stray reader never mistakes
// padding for state.
func blank(t Type) ServerPacket {
	p := ServerPacket{Type: t, Current: -1, Winner: -1}
	for i := range p.Community {
		p.Community[i] = deck.NoCard
	}
	for i := range p.Holes {
		p.Holes[i] = [2]deck.Card{deck.NoCard, deck.NoCard}
	}
	return p
}

// Ack acknowledges an accepted action.
func Ack() ServerPacket { return blank(TypeAck) }

// Nack rejects an invalid action; the sender stays on the clock.
func Nack() ServerPacket { return blank(TypeNack) }

// Halt tells a client the table is shutting down.
func Halt() ServerPacket { return blank(TypeHalt) }

// Info builds the table snapshot for one viewer. Public fields are
// identical across viewers; hole cards show only the viewer's own.
// Unset bets are surfaced as zero.
func Info(t *game.Table, viewer int) ServerPacket {
	p := blank(TypeInfo)
	fillPublic(&p, t)
	p.Current = int32(t.Current)
	if viewer >= 0 && viewer < game.NumSeats {
		p.Holes[viewer] = t.Seats[viewer].Hole
	}
	return p
}

// End builds the hand summary: the pot has already moved to the
// winner's stack, and every seat's hole cards are revealed.
func End(t *game.Table, winner int) ServerPacket {
	p := blank(TypeEnd)
	fillPublic(&p, t)
	p.Winner = int32(winner)
	for i := range t.Seats {
		p.Holes[i] = t.Seats[i].Hole
	}
	return p
}

func fillPublic(p *ServerPacket, t *game.Table) {
	p.Community = t.Community
	p.Pot = int32(t.Pot)
	p.Highest = int32(t.HighestBet)
	p.Dealer = int32(t.Dealer)
	for i := range t.Seats {
		s := &t.Seats[i]
		p.Stacks[i] = int32(s.Stack)
		p.Bets[i] = int32(s.Committed())
		p.Statuses[i] = statusCode(s.Status)
	}
}

func statusCode(s game.Status) uint8 {
	switch s {
	case game.StatusFolded:
		return SeatFolded
	case game.StatusActive:
		return SeatActive
	default:
		return SeatOther
	}
}
