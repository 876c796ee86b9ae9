// Package protocol defines the fixed-size binary packets exchanged
// between the table server and its seat clients, and builders that
// project table state into them.
//
// Every packet is a fixed-length big-endian record whose first byte is
// the packet type. Fixed sizes keep framing trivial: one write sends a
// whole packet, one full-length read receives one.
package protocol

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/tablewire/tablewire/internal/deck"
	"github.com/tablewire/tablewire/internal/game"
)

// Type discriminates packets in both directions.
type Type uint8

// Client to server.
const (
	TypeJoin Type = iota + 1
	TypeReady
	TypeLeave
	TypeCheck
	TypeCall
	TypeRaise
	TypeFold
)

// Server to client.
const (
	TypeAck Type = iota + 8
	TypeNack
	TypeInfo
	TypeEnd
	TypeHalt
)

// String returns the packet type name used in logs.
func (t Type) String() string {
	switch t {
	case TypeJoin:
		return "JOIN"
	case TypeReady:
		return "READY"
	case TypeLeave:
		return "LEAVE"
	case TypeCheck:
		return "CHECK"
	case TypeCall:
		return "CALL"
	case TypeRaise:
		return "RAISE"
	case TypeFold:
		return "FOLD"
	case TypeAck:
		return "ACK"
	case TypeNack:
		return "NACK"
	case TypeInfo:
		return "INFO"
	case TypeEnd:
		return "END"
	case TypeHalt:
		return "HALT"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

// Seat status codes as surfaced to clients.
const (
	SeatFolded uint8 = 0
	SeatActive uint8 = 1
	SeatOther  uint8 = 2
)

// Record sizes in bytes on the wire.
const (
	ClientPacketSize = 9
	ServerPacketSize = 92
)

// ClientPacket is the nine-byte record a client sends. Params[0]
// carries the raise target; everything else ignores the params.
type ClientPacket struct {
	Type   Type
	Params [2]int32
}

// ServerPacket is the 92-byte record the server sends. INFO and END
// fill the table snapshot; ACK, NACK, and HALT carry only the type
// with a blank body.
type ServerPacket struct {
	Type      Type
	Community [5]deck.Card
	Holes     [game.NumSeats][2]deck.Card
	Statuses  [game.NumSeats]uint8
	Stacks    [game.NumSeats]int32
	Bets      [game.NumSeats]int32
	Pot       int32
	Highest   int32
	Dealer    int32
	Current   int32
	Winner    int32
}

// WriteClient sends one client packet as a single write.
func WriteClient(w io.Writer, p *ClientPacket) error {
	return binary.Write(w, binary.BigEndian, p)
}

// ReadClient receives exactly one client packet. A connection closed
// mid-record surfaces as an error.
func ReadClient(r io.Reader) (ClientPacket, error) {
	var p ClientPacket
	err := binary.Read(r, binary.BigEndian, &p)
	return p, err
}

// WriteServer sends one server packet as a single write.
func WriteServer(w io.Writer, p *ServerPacket) error {
	return binary.Write(w, binary.BigEndian, p)
}

// ReadServer receives exactly one server packet.
func ReadServer(r io.Reader) (ServerPacket, error) {
	var p ServerPacket
	err := binary.Read(r, binary.BigEndian, &p)
	return p, err
}
