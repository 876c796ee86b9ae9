package server

import (
	"net"
	"sync"

	"github.com/tablewire/tablewire/internal/protocol"
)

// Connection wraps one seat's TCP socket. The hand driver is the only
// reader and the only writer, so no locking is needed beyond making
// Close safe to call from every error path.
type Connection struct {
	seat int
	conn net.Conn

	closeOnce sync.Once
	closeErr  error
}

// NewConnection binds an accepted socket to a seat.
func NewConnection(seat int, conn net.Conn) *Connection {
	return &Connection{seat: seat, conn: conn}
}

// Seat returns the seat this connection occupies.
func (c *Connection) Seat() int { return c.seat }

// RemoteAddr returns the peer address for logging.
func (c *Connection) RemoteAddr() string {
	if c.conn == nil {
		return ""
	}
	return c.conn.RemoteAddr().String()
}

// Read blocks until one full client packet arrives. Any error,
// including a connection closed mid-record, is a disconnect from the
// driver's point of view.
func (c *Connection) Read() (protocol.ClientPacket, error) {
	return protocol.ReadClient(c.conn)
}

// Send writes one server packet as a single write.
func (c *Connection) Send(pkt *protocol.ServerPacket) error {
	return protocol.WriteServer(c.conn, pkt)
}

// Close tears the socket down once; later calls return the first
// result.
func (c *Connection) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}
