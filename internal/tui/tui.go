// Package tui renders one seat's view of the table: a scrolling event
// log, a status bar with the live table state, and a command input.
// All table state comes off the wire; the UI holds no game logic.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tablewire/tablewire/internal/deck"
	"github.com/tablewire/tablewire/internal/game"
	"github.com/tablewire/tablewire/internal/protocol"
)

// Sender is the outbound half of the connection, as the UI sees it.
type Sender interface {
	Ready() error
	Check() error
	Call() error
	Raise(amount int) error
	Fold() error
	Leave() error
}

// PacketMsg delivers one decoded server record to the program.
type PacketMsg protocol.ServerPacket

// DisconnectMsg reports that the server connection ended.
type DisconnectMsg struct{}

// Model is the Bubble Tea model for the table client.
type Model struct {
	seat    int
	sender  Sender
	packets <-chan protocol.ServerPacket
	logger  *log.Logger

	logView viewport.Model
	input   textinput.Model

	lines     []string
	state     protocol.ServerPacket
	haveState bool
	inHand    bool
	shown     int // community cards already logged
	lastPot   int // pot before END zeroes it
	halted    bool
	quitting  bool

	focused int // 0 = log, 1 = input
	width   int
	height  int
	sized   bool
}

// New builds the model for one seat. packets is the stream the read
// pump fills; sender writes action packets on the same connection.
func New(seat int, sender Sender, packets <-chan protocol.ServerPacket, logger *log.Logger) *Model {
	vp := viewport.New(10, 5)

	ti := textinput.New()
	ti.Placeholder = "type a command and press enter"
	ti.Prompt = "> "
	ti.PromptStyle = SuccessStyle
	ti.CharLimit = 32
	ti.Focus()

	return &Model{
		seat:    seat,
		sender:  sender,
		packets: packets,
		logger:  logger.WithPrefix("tui"),
		logView: vp,
		input:   ti,
		focused: 1,
		lines: []string{
			InfoStyle.Render(fmt.Sprintf("Connected as seat %d. Type 'ready' once the table fills.", seat)),
		},
	}
}

// Halted reports whether the server shut the table down.
func (m *Model) Halted() bool { return m.halted }

// Init starts the cursor blink and the packet wait.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, waitPacket(m.packets))
}

// waitPacket blocks on the packet channel and turns the result into a
// message. Re-issued after every packet.
func waitPacket(ch <-chan protocol.ServerPacket) tea.Cmd {
	return func() tea.Msg {
		pkt, ok := <-ch
		if !ok {
			return DisconnectMsg{}
		}
		return PacketMsg(pkt)
	}
}

// Update handles messages in the TUI.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case PacketMsg:
		cmd := m.apply(protocol.ServerPacket(msg))
		if m.quitting {
			return m, cmd
		}
		return m, tea.Batch(cmd, waitPacket(m.packets))

	case DisconnectMsg:
		m.addLine(InfoStyle.Render("Connection closed."))
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			_ = m.sender.Leave()
			m.quitting = true
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		case "tab":
			if m.focused == 0 {
				m.focused = 1
				m.input.Focus()
			} else {
				m.focused = 0
				m.input.Blur()
			}
		case "enter":
			if m.focused == 1 {
				return m, m.submit()
			}
		case "up", "k":
			if m.focused == 0 {
				m.logView.ScrollUp(1)
			}
		case "down", "j":
			if m.focused == 0 {
				m.logView.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focused == 0 {
				m.logView.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focused == 0 {
				m.logView.HalfPageDown()
			}
		case "home", "g":
			if m.focused == 0 {
				m.logView.GotoTop()
			}
		case "end", "G":
			if m.focused == 0 {
				m.logView.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focused == 1 {
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logView, cmd = m.logView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// apply folds one server record into the display state.
func (m *Model) apply(pkt protocol.ServerPacket) tea.Cmd {
	switch pkt.Type {
	case protocol.TypeAck:
		m.logger.Debug("Action acknowledged")
	case protocol.TypeNack:
		m.addLine(ErrorStyle.Render("Server rejected that; still your turn."))
	case protocol.TypeInfo:
		m.applyInfo(pkt)
	case protocol.TypeEnd:
		m.applyEnd(pkt)
	case protocol.TypeHalt:
		m.addLine("")
		m.addLine(HeaderStyle.Render(" TABLE HALTED "))
		m.halted = true
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	default:
		m.logger.Warn("Unhandled packet", "type", pkt.Type)
	}
	return nil
}

func (m *Model) applyInfo(pkt protocol.ServerPacket) {
	prev, havePrev := m.state, m.haveState

	newHand := !m.inHand
	if newHand {
		m.inHand = true
		m.shown = 0
		m.addLine("")
		m.addLine(HeaderStyle.Render(fmt.Sprintf(" NEW HAND (dealer: seat %d) ", pkt.Dealer)))
		if pkt.Holes[m.seat][0].Valid() {
			m.addLine("Dealt to you: " + m.cards(pkt.Holes[m.seat][:]))
		} else {
			m.addLine(InfoStyle.Render("Sitting out this hand."))
		}
	}

	prevShown := m.shown
	n := communityCount(pkt)
	if m.shown < 3 && n >= 3 {
		m.addLine(ActionsStyle.Render("*** FLOP ***") + "  " + m.cards(pkt.Community[:3]))
	}
	if m.shown < 4 && n >= 4 {
		m.addLine(ActionsStyle.Render("*** TURN ***") + "  " + m.cards(pkt.Community[:4]))
	}
	if m.shown < 5 && n >= 5 {
		m.addLine(ActionsStyle.Render("*** RIVER ***") + "  " + m.cards(pkt.Community[:5]))
	}
	m.shown = n

	if havePrev && !newHand {
		for i := range pkt.Statuses {
			if i == m.seat || pkt.Statuses[i] == prev.Statuses[i] {
				continue
			}
			switch pkt.Statuses[i] {
			case protocol.SeatFolded:
				m.addLine(fmt.Sprintf("Seat %d folds.", i))
			case protocol.SeatOther:
				// A stack at zero means all in; anything else left.
				if pkt.Stacks[i] == 0 {
					m.addLine(WarningStyle.Render(fmt.Sprintf("Seat %d is all in.", i)))
				} else {
					m.addLine(InfoStyle.Render(fmt.Sprintf("Seat %d left the table.", i)))
				}
			}
		}
	}

	myTurn := pkt.Current == int32(m.seat)
	turnChanged := newHand || !havePrev || prev.Current != pkt.Current || n > prevShown
	if myTurn && turnChanged {
		call := int(pkt.Highest - pkt.Bets[m.seat])
		if call > 0 {
			m.addLine(SuccessStyle.Render(fmt.Sprintf("Your turn: %d to call.", call)))
		} else {
			m.addLine(SuccessStyle.Render("Your turn: check or raise."))
		}
	}

	m.lastPot = int(pkt.Pot)
	m.state = pkt
	m.haveState = true
}

func (m *Model) applyEnd(pkt protocol.ServerPacket) {
	m.addLine("")
	m.addLine(HeaderStyle.Render(" HAND COMPLETE "))
	if board := m.cards(pkt.Community[:]); board != "" {
		m.addLine("Board: " + board)
	}
	for i := range pkt.Holes {
		if pkt.Statuses[i] == protocol.SeatFolded || !pkt.Holes[i][0].Valid() {
			continue
		}
		who := fmt.Sprintf("Seat %d", i)
		if i == m.seat {
			who += " (you)"
		}
		m.addLine(fmt.Sprintf("%s shows %s", who, m.cards(pkt.Holes[i][:])))
	}
	if pkt.Winner >= 0 {
		who := fmt.Sprintf("Seat %d", pkt.Winner)
		if int(pkt.Winner) == m.seat {
			who += " (you)"
		}
		m.addLine(WarningStyle.Render(fmt.Sprintf("%s wins the pot of %d.", who, m.lastPot)))
	}
	m.addLine(InfoStyle.Render("Type 'ready' for the next hand, or 'leave' to give up the seat."))

	m.inHand = false
	m.shown = 0
	m.state = pkt
	m.haveState = true
}

// submit parses the input line and sends the matching packet. The
// server validates; the only local checks are syntactic.
func (m *Model) submit() tea.Cmd {
	raw := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")
	if raw == "" {
		return nil
	}

	fields := strings.Fields(strings.ToLower(raw))
	var err error
	switch fields[0] {
	case "ready":
		err = m.sender.Ready()
		m.addLine("You: ready")
	case "check":
		err = m.sender.Check()
		m.addLine("You: check")
	case "call":
		err = m.sender.Call()
		m.addLine("You: call")
	case "fold":
		err = m.sender.Fold()
		m.addLine("You: fold")
	case "raise":
		if len(fields) != 2 {
			m.addLine(ErrorStyle.Render("Usage: raise <amount>"))
			return nil
		}
		amount, convErr := strconv.Atoi(fields[1])
		if convErr != nil || amount <= 0 {
			m.addLine(ErrorStyle.Render("Invalid raise amount: " + fields[1]))
			return nil
		}
		err = m.sender.Raise(amount)
		m.addLine(fmt.Sprintf("You: raise to %d", amount))
	case "leave":
		err = m.sender.Leave()
		m.addLine("You: leave")
	case "quit":
		_ = m.sender.Leave()
		m.quitting = true
		return tea.Sequence(tea.ClearScreen, tea.Quit)
	default:
		m.addLine(ErrorStyle.Render("Unknown command: " + fields[0]))
		m.addLine(InfoStyle.Render("Commands: ready, check, call, raise <n>, fold, leave, quit"))
		return nil
	}

	if err != nil {
		m.addLine(ErrorStyle.Render(fmt.Sprintf("Send failed: %v", err)))
		m.logger.Error("Failed to send packet", "error", err)
	}
	return nil
}

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	statusBar := m.renderStatus()

	inputContent := m.input.View() + "\n" + m.renderHelp()
	inputStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(max(1, m.width-2))
	if m.focused == 1 {
		inputStyle = inputStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	inputPane := inputStyle.Render(inputContent)

	logWidth := max(1, m.width-2)
	logHeight := max(1, m.height-lipgloss.Height(statusBar)-lipgloss.Height(inputPane)-2)
	m.logView.Width = logWidth
	m.logView.Height = logHeight
	m.logView.SetContent(strings.Join(m.lines, "\n"))
	if !m.sized {
		m.logView.GotoBottom()
		m.sized = true
	}

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#626262")).
		Width(logWidth).
		Height(logHeight)
	if m.focused == 0 {
		logStyle = logStyle.BorderForeground(lipgloss.Color("#04B575"))
	}
	logPane := logStyle.Render(m.logView.View())

	return lipgloss.JoinVertical(lipgloss.Left, statusBar, logPane, inputPane)
}

// renderStatus builds the two-line table summary above the log.
func (m *Model) renderStatus() string {
	if !m.haveState {
		return HandInfoStyle.Render(fmt.Sprintf("You: seat %d  |  waiting for the table", m.seat))
	}
	s := m.state

	parts := []string{fmt.Sprintf("You: seat %d", m.seat)}
	board := m.cards(s.Community[:])
	if board == "" {
		board = "--"
	}
	parts = append(parts, "Board "+board, fmt.Sprintf("Pot %d", s.Pot))
	if s.Highest > 0 {
		parts = append(parts, fmt.Sprintf("Bet %d", s.Highest))
	}
	if s.Current >= 0 {
		turn := fmt.Sprintf("To act: seat %d", s.Current)
		if int(s.Current) == m.seat {
			turn = "To act: YOU"
		}
		parts = append(parts, turn)
	}

	return HandInfoStyle.Render(strings.Join(parts, "  |  ")) + "\n" + m.renderSeats()
}

// renderSeats builds one cell per seat with stack, street bet, dealer
// button, and status coloring.
func (m *Model) renderSeats() string {
	s := m.state
	cells := make([]string, 0, game.NumSeats)
	for i := 0; i < game.NumSeats; i++ {
		cell := fmt.Sprintf("s%d %d", i, s.Stacks[i])
		if s.Bets[i] > 0 {
			cell += fmt.Sprintf("+%d", s.Bets[i])
		}
		if int(s.Dealer) == i {
			cell = "D " + cell
		}
		if i == m.seat {
			cell += " (you)"
		}
		switch s.Statuses[i] {
		case protocol.SeatFolded:
			cell = InfoStyle.Render(cell)
		case protocol.SeatOther:
			cell = WarningStyle.Render(cell)
		default:
			if s.Current == int32(i) {
				cell = ActionsStyle.Render(cell)
			}
		}
		cells = append(cells, cell)
	}
	return strings.Join(cells, "   ")
}

func (m *Model) renderHelp() string {
	if m.focused == 0 {
		return InfoStyle.Render("Log focused: arrows scroll, tab back to input, ctrl+c quits")
	}
	return InfoStyle.Render("Commands: ready, check, call, raise <n>, fold, leave, quit")
}

// addLine appends to the event log and keeps the viewport pinned to
// the newest entry.
func (m *Model) addLine(line string) {
	m.lines = append(m.lines, line)
	if m.logView.Height > 0 && m.logView.Width > 0 {
		m.logView.SetContent(strings.Join(m.lines, "\n"))
		m.logView.GotoBottom()
	}
}

// cards renders the valid cards in cs with suit glyphs and coloring.
func (m *Model) cards(cs []deck.Card) string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		if !c.Valid() {
			continue
		}
		text := c.Rank().String() + c.Suit().Symbol()
		if c.Suit().IsRed() {
			text = RedCardStyle.Render(text)
		} else {
			text = BlackCardStyle.Render(text)
		}
		out = append(out, text)
	}
	return strings.Join(out, " ")
}

func communityCount(p protocol.ServerPacket) int {
	n := 0
	for _, c := range p.Community {
		if c.Valid() {
			n++
		}
	}
	return n
}
