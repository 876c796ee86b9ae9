package server

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/tablewire/tablewire/internal/deck"
	"github.com/tablewire/tablewire/internal/game"
	"github.com/tablewire/tablewire/internal/history"
	"github.com/tablewire/tablewire/internal/protocol"
	"github.com/tablewire/tablewire/internal/randutil"
)

// Server owns the six per-seat listeners and everything a table needs
// to play: the game state, the hand driver's collaborators, and the
// optional ops endpoint.
type Server struct {
	cfg      *Config
	logger   *log.Logger
	metrics  *Metrics
	recorder history.Recorder
	clock    quartz.Clock
	table    *game.Table

	listeners [game.NumSeats]net.Listener
	lnOnce    sync.Once
}

// New builds a server from configuration. The history backend is
// opened here so a bad DSN fails before any port binds.
func New(cfg *Config, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	clock := quartz.NewReal()
	rec, err := history.Open(cfg.History.Driver, cfg.History.DSN, clock)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	rng := randutil.New(cfg.Table.Seed)
	return &Server{
		cfg:      cfg,
		logger:   logger,
		metrics:  NewMetrics(),
		recorder: rec,
		clock:    clock,
		table:    game.NewTable(cfg.Table.StartingStack, deck.NewDeck(rng)),
	}, nil
}

// Listen binds one TCP listener per seat on consecutive ports. On any
// failure it unwinds the ports already bound and returns the error;
// there is no partial table.
func (s *Server) Listen() error {
	for seat := 0; seat < game.NumSeats; seat++ {
		addr := s.cfg.SeatAddr(seat)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			s.closeListeners()
			return fmt.Errorf("bind seat %d on %s: %w", seat, addr, err)
		}
		s.listeners[seat] = ln
		s.logger.Info("Seat listening", "seat", seat, "addr", ln.Addr())
	}
	return nil
}

// Run fills the table and plays it: it blocks through the join phase,
// then hands the connections to the driver and plays hands until the
// table halts. Cancelling ctx aborts the join phase and, once a game
// is underway, closes the seat connections so the driver drains to its
// halt path. Returns nil on a normal halt.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Ops.Listen != "" {
		go serveOps(ctx, s.cfg.Ops.Listen, s.metrics, s.logger)
	}

	conns, err := s.acceptSeats(ctx)
	if err != nil {
		return err
	}
	s.logger.Info("All seats filled, table starting",
		"stack", s.cfg.Table.StartingStack,
		"seed", s.cfg.Table.Seed)

	// Each port accepts exactly one player; no one else may join.
	s.closeListeners()

	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			// Closing the sockets fails the driver's reads, which folds
			// the seats out and halts the table.
			for _, c := range conns {
				if c != nil {
					c.Close()
				}
			}
		case <-done:
		}
	}()

	drv := NewDriver(s.table, conns, s.logger, s.metrics, s.recorder, s.clock)
	drv.Run(ctx)
	close(done)
	return nil
}

// acceptSeats waits for all six seats to fill. Each listener accepts
// connections until one opens with a JOIN packet; a connection that
// leads with anything else is dropped and the port keeps listening.
func (s *Server) acceptSeats(ctx context.Context) ([game.NumSeats]*Connection, error) {
	var conns [game.NumSeats]*Connection

	g, gctx := errgroup.WithContext(ctx)
	stop := make(chan struct{})
	go func() {
		select {
		case <-gctx.Done():
			s.closeListeners()
		case <-stop:
		}
	}()
	defer close(stop)

	for seat := 0; seat < game.NumSeats; seat++ {
		g.Go(func() error {
			conn, err := s.acceptSeat(seat)
			if err != nil {
				return err
			}
			conns[seat] = conn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		for _, c := range conns {
			if c != nil {
				c.Close()
			}
		}
		if ctx.Err() != nil {
			err = ctx.Err()
		}
		return conns, fmt.Errorf("join phase: %w", err)
	}
	return conns, nil
}

func (s *Server) acceptSeat(seat int) (*Connection, error) {
	for {
		conn, err := s.listeners[seat].Accept()
		if err != nil {
			return nil, err
		}
		pkt, err := protocol.ReadClient(conn)
		if err != nil || pkt.Type != protocol.TypeJoin {
			s.logger.Warn("Rejected connection, JOIN expected",
				"seat", seat,
				"remote", conn.RemoteAddr(),
				"type", pkt.Type,
				"error", err)
			conn.Close()
			continue
		}
		s.logger.Info("Seat joined", "seat", seat, "remote", conn.RemoteAddr())
		s.metrics.SeatsConnected.Inc()
		return NewConnection(seat, conn), nil
	}
}

func (s *Server) closeListeners() {
	s.lnOnce.Do(func() {
		for _, ln := range s.listeners {
			if ln != nil {
				ln.Close()
			}
		}
	})
}

// Close releases everything Run left open. Safe after a failed Listen.
func (s *Server) Close() error {
	s.closeListeners()
	return s.recorder.Close()
}
