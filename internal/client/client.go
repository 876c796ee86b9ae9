// Package client implements the player side of the table protocol: a
// TCP connection that claims a seat with JOIN, pumps server records
// onto a channel, and writes action packets.
package client

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tablewire/tablewire/internal/protocol"
)

// writeTimeout bounds every outbound packet write.
const writeTimeout = 10 * time.Second

// Client is one seat's connection to the table. A reader goroutine
// decodes server records onto the Packets channel; writes happen on
// the caller's goroutine, one packet per call.
type Client struct {
	conn    net.Conn
	logger  *log.Logger
	packets chan protocol.ServerPacket

	mu        sync.Mutex
	readErr   error
	closeOnce sync.Once
}

// Dial connects to a seat port, sends JOIN, and returns a client with
// the read pump running.
func Dial(addr string, timeout time.Duration, logger *log.Logger) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	c := NewClient(conn, logger)
	if err := c.Join(); err != nil {
		_ = c.Close()
		return nil, err
	}
	c.logger.Info("Joined table", "addr", addr)
	return c, nil
}

// NewClient wraps an established connection and starts the read pump.
// It does not send JOIN; Dial does that.
func NewClient(conn net.Conn, logger *log.Logger) *Client {
	c := &Client{
		conn:    conn,
		logger:  logger.WithPrefix("client"),
		packets: make(chan protocol.ServerPacket, 64),
	}
	go c.readLoop()
	return c
}

// Packets returns the stream of server records. The channel closes
// when the connection ends; Err reports why.
func (c *Client) Packets() <-chan protocol.ServerPacket {
	return c.packets
}

// Err returns the read error that closed the Packets channel, or nil
// while the connection is still up.
func (c *Client) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readErr
}

// RemoteAddr returns the server's address.
func (c *Client) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}

// Close tears down the connection. The read pump notices and closes
// the Packets channel. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
		c.logger.Info("Disconnected from server")
	})
	return nil
}

// Join claims the seat. The server accepts nothing else first.
func (c *Client) Join() error { return c.send(protocol.Join()) }

// Ready answers the between-hands poll.
func (c *Client) Ready() error { return c.send(protocol.Ready()) }

// Leave gives up the seat for good.
func (c *Client) Leave() error { return c.send(protocol.Leave()) }

// Check passes the action without betting.
func (c *Client) Check() error { return c.send(protocol.Check()) }

// Call matches the highest bet on the street.
func (c *Client) Call() error { return c.send(protocol.Call()) }

// Raise wagers amount in total for the street.
func (c *Client) Raise(amount int) error { return c.send(protocol.Raise(amount)) }

// Fold surrenders the hand.
func (c *Client) Fold() error { return c.send(protocol.Fold()) }

func (c *Client) send(p protocol.ClientPacket) error {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return fmt.Errorf("send %s: %w", p.Type, err)
	}
	if err := protocol.WriteClient(c.conn, &p); err != nil {
		return fmt.Errorf("send %s: %w", p.Type, err)
	}
	c.logger.Debug("Sent packet", "type", p.Type)
	return nil
}

func (c *Client) readLoop() {
	for {
		pkt, err := protocol.ReadServer(c.conn)
		if err != nil {
			c.mu.Lock()
			c.readErr = err
			c.mu.Unlock()
			close(c.packets)
			return
		}
		c.logger.Debug("Received packet", "type", pkt.Type)
		c.packets <- pkt
	}
}
