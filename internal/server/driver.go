// Package server hosts the table: six per-seat TCP listeners, the
// hand driver that plays the game over them, and the ops endpoint.
//
// Everything the driver touches is single-threaded. It owns the table
// and all six connections exclusively, reads from exactly one socket
// at a time, and writes broadcasts sequentially, so the game state
// needs no locks.
package server

import (
	"context"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/tablewire/tablewire/internal/deck"
	"github.com/tablewire/tablewire/internal/game"
	"github.com/tablewire/tablewire/internal/handid"
	"github.com/tablewire/tablewire/internal/history"
	"github.com/tablewire/tablewire/internal/protocol"
)

// stateFn is one phase of the table loop and returns the next phase.
// Run drives phases until one returns nil.
type stateFn func(*Driver) stateFn

// Driver plays hands over the seat connections until the table halts.
type Driver struct {
	table    *game.Table
	conns    [game.NumSeats]*Connection
	logger   *log.Logger
	metrics  *Metrics
	recorder history.Recorder
	clock    quartz.Clock
	ids      *handid.Generator

	ctx    context.Context
	handID string
}

// NewDriver assembles a driver over already-joined connections. A nil
// entry is a seat that was never filled; the first ready poll retires
// it.
func NewDriver(table *game.Table, conns [game.NumSeats]*Connection, logger *log.Logger, m *Metrics, rec history.Recorder, clock quartz.Clock) *Driver {
	return &Driver{
		table:    table,
		conns:    conns,
		logger:   logger,
		metrics:  m,
		recorder: rec,
		clock:    clock,
		ids:      handid.NewGenerator(nil),
	}
}

// Run plays hands until a ready poll finds fewer than two takers. By
// then every seat has been sent HALT and every socket is closed. The
// context is used for history writes; cancelling it does not interrupt
// a blocked read, so shutdown works by closing the connections, which
// drains the loop to the same halt path.
func (d *Driver) Run(ctx context.Context) {
	d.ctx = ctx
	d.metrics.SeatsConnected.Set(d.connectedCount())
	for state := collectReady; state != nil; {
		state = state(d)
	}
}

// collectReady polls every surviving seat for the next hand. READY
// plays, LEAVE goes, anything else sits the hand out.
func collectReady(d *Driver) stateFn {
	d.table.ResetBetweenHands()

	for seat := range d.conns {
		if d.table.Seats[seat].Status == game.StatusLeft {
			continue
		}
		conn := d.conns[seat]
		if conn == nil {
			// Connection was lost mid-hand; the seat is gone for good
			// now.
			d.table.Retire(seat)
			continue
		}
		pkt, err := conn.Read()
		if err != nil {
			d.logger.Warn("Seat disconnected in ready poll", "seat", seat, "error", err)
			d.metrics.Disconnects.Inc()
			d.retireSeat(seat)
			continue
		}
		switch pkt.Type {
		case protocol.TypeReady:
			d.table.Seats[seat].Status = game.StatusActive
		case protocol.TypeLeave:
			d.logger.Info("Seat left", "seat", seat)
			d.retireSeat(seat)
		default:
			d.logger.Debug("Seat sitting out", "seat", seat, "type", pkt.Type)
		}
	}

	if d.table.ActiveCount() < 2 {
		return haltTable
	}
	return dealHand
}

// dealHand starts a hand and shows every seat its private view of it.
func dealHand(d *Driver) stateFn {
	d.table.BeginHand()
	d.handID = d.ids.New()
	d.logger.Info("Hand dealt",
		"hand_id", d.handID,
		"hand_no", d.table.HandsDealt,
		"dealer", d.table.Dealer,
		"first_to_act", d.table.Current,
		"players", d.table.ActiveCount())
	d.broadcastInfo()
	return playStreets
}

// playStreets runs the betting rounds. Before every receive it asks
// whether the street is settled: settled streets reveal the next one
// (or end the hand after the river), and with nobody left to bet the
// remaining streets run out on their own. Otherwise it reads one
// packet from the seat on the clock and applies it.
func playStreets(d *Driver) stateFn {
	for {
		switch d.table.CheckStreet() {
		case game.HandOverEarly:
			return resolveHand
		case game.StreetDone:
			if d.table.Stage == game.StageRiver {
				return resolveHand
			}
			d.table.AdvanceStreet()
			d.logger.Debug("Street revealed",
				"hand_id", d.handID,
				"stage", d.table.Stage,
				"board", boardString(d.table),
				"pot", d.table.Pot)
			d.broadcastInfo()
			continue
		}

		seat := d.table.Current
		conn := d.conns[seat]
		if conn == nil {
			// Should not happen: an active seat always has a live
			// connection. Fold it rather than wedge the table.
			d.table.ForceFold(seat)
			d.broadcastInfo()
			continue
		}

		pkt, err := conn.Read()
		if err != nil {
			d.logger.Warn("Seat disconnected mid-hand", "hand_id", d.handID, "seat", seat, "error", err)
			d.metrics.Disconnects.Inc()
			d.dropSeat(seat)
			d.broadcastInfo()
			continue
		}

		if pkt.Type == protocol.TypeLeave {
			d.logger.Info("Seat left mid-hand", "hand_id", d.handID, "seat", seat)
			d.retireSeat(seat)
			d.broadcastInfo()
			continue
		}

		act, ok := pkt.Action()
		if !ok {
			d.logger.Debug("Unexpected packet during betting", "hand_id", d.handID, "seat", seat, "type", pkt.Type)
			d.metrics.Nacks.Inc()
			d.sendTo(seat, protocol.Nack())
			continue
		}
		if err := d.table.Apply(seat, act); err != nil {
			d.logger.Debug("Action rejected",
				"hand_id", d.handID,
				"seat", seat,
				"action", act.Kind,
				"amount", act.Amount,
				"error", err)
			d.metrics.Nacks.Inc()
			d.sendTo(seat, protocol.Nack())
			continue
		}

		d.metrics.Actions.WithLabelValues(act.Kind.String()).Inc()
		d.metrics.PotChips.Set(float64(d.table.Pot))
		d.logger.Debug("Action",
			"hand_id", d.handID,
			"seat", seat,
			"action", act.Kind,
			"amount", act.Amount,
			"pot", d.table.Pot,
			"highest", d.table.HighestBet)
		d.sendTo(seat, protocol.Ack())
		d.broadcastInfo()
	}
}

// resolveHand settles the pot and reports the outcome to every seat
// still listening.
func resolveHand(d *Driver) stateFn {
	if d.table.ContenderCount() == 0 {
		// Every seat vanished mid-hand; there is no one to award.
		d.logger.Info("Hand abandoned", "hand_id", d.handID, "pot", d.table.Pot)
		return haltTable
	}

	pot := d.table.Pot
	res, err := d.table.Showdown()
	if err != nil {
		// Nothing sane can follow a failed showdown.
		d.logger.Error("Showdown failed", "hand_id", d.handID, "error", err)
		return haltTable
	}

	d.metrics.HandsPlayed.Inc()
	d.metrics.PotChips.Set(0)

	category := ""
	if !res.Uncontested {
		category = res.Value.Category().String()
	}
	d.logger.Info("Hand finished",
		"hand_id", d.handID,
		"winner", res.Winner,
		"pot", pot,
		"uncontested", res.Uncontested,
		"category", category,
		"board", boardString(d.table),
		"stack", d.table.Seats[res.Winner].Stack)

	end := protocol.End(d.table, res.Winner)
	for seat := range d.conns {
		d.sendTo(seat, end)
	}

	d.recordHand(pot, res, category)
	return collectReady
}

// haltTable tells everyone still connected that play is over and tears
// the sockets down.
func haltTable(d *Driver) stateFn {
	d.logger.Info("Halting table", "active", d.table.ActiveCount(), "hands", d.table.HandsDealt)
	for seat := range d.conns {
		d.sendTo(seat, protocol.Halt())
	}
	for seat, conn := range d.conns {
		if conn == nil {
			continue
		}
		conn.Close()
		d.conns[seat] = nil
	}
	d.metrics.SeatsConnected.Set(0)
	return nil
}

// broadcastInfo sends each connected seat its own view of the table.
func (d *Driver) broadcastInfo() {
	for seat := range d.conns {
		if d.conns[seat] == nil {
			continue
		}
		d.sendTo(seat, protocol.Info(d.table, seat))
	}
}

// sendTo writes one packet to a seat. A failed write retires the seat:
// if we cannot reach it there is no point reading from it either.
func (d *Driver) sendTo(seat int, pkt protocol.ServerPacket) {
	conn := d.conns[seat]
	if conn == nil {
		return
	}
	if err := conn.Send(&pkt); err != nil {
		d.logger.Warn("Send failed, retiring seat", "seat", seat, "type", pkt.Type, "error", err)
		d.metrics.Disconnects.Inc()
		d.retireSeat(seat)
	}
}

// dropSeat handles a read failure mid-hand: the seat folds out of the
// hand and its socket is forgotten. The next ready poll retires it.
func (d *Driver) dropSeat(seat int) {
	d.table.ForceFold(seat)
	if c := d.conns[seat]; c != nil {
		c.Close()
		d.conns[seat] = nil
	}
	d.metrics.SeatsConnected.Set(d.connectedCount())
}

// retireSeat removes a seat permanently and closes its socket.
func (d *Driver) retireSeat(seat int) {
	d.table.Retire(seat)
	if c := d.conns[seat]; c != nil {
		c.Close()
		d.conns[seat] = nil
	}
	d.metrics.SeatsConnected.Set(d.connectedCount())
}

func (d *Driver) connectedCount() float64 {
	n := 0
	for _, c := range d.conns {
		if c != nil {
			n++
		}
	}
	return float64(n)
}

// recordHand writes the finished hand to the history ledger.
func (d *Driver) recordHand(pot int, res game.Result, category string) {
	stacks := make([]int, game.NumSeats)
	for i := range d.table.Seats {
		stacks[i] = d.table.Seats[i].Stack
	}
	rec := history.HandRecord{
		HandID:      d.handID,
		PlayedAt:    d.clock.Now().UTC(),
		HandNo:      d.table.HandsDealt,
		Dealer:      d.table.Dealer,
		Winner:      res.Winner,
		Pot:         pot,
		Uncontested: res.Uncontested,
		Category:    category,
		Board:       boardString(d.table),
		Stacks:      stacks,
	}
	if err := d.recorder.Record(d.ctx, rec); err != nil {
		d.logger.Error("Hand record failed", "hand_id", d.handID, "error", err)
	}
}

// boardString renders the dealt community cards for logs and history.
func boardString(t *game.Table) string {
	var sb strings.Builder
	for _, c := range t.Community {
		if c == deck.NoCard {
			break
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(c.String())
	}
	return sb.String()
}
