package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/oldmaid/internal/deck"
	"github.com/lox/oldmaid/internal/protocol"
	"github.com/muesli/termenv"
)

// Renderer formats server messages for a terminal
type Renderer struct {
	header   lipgloss.Style
	red      lipgloss.Style
	black    lipgloss.Style
	joker    lipgloss.Style
	turn     lipgloss.Style
	finished lipgloss.Style
	info     lipgloss.Style
	success  lipgloss.Style
	err      lipgloss.Style
}

// NewRenderer builds styles for w. With color off everything is plain text.
func NewRenderer(w io.Writer, color bool) *Renderer {
	r := lipgloss.NewRenderer(w)
	if !color {
		r.SetColorProfile(termenv.Ascii)
	}

	return &Renderer{
		header:   r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Bold(true).Padding(0, 1),
		red:      r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
		black:    r.NewStyle().Foreground(lipgloss.Color("#FAFAFA")).Bold(true),
		joker:    r.NewStyle().Foreground(lipgloss.Color("#FFD700")).Bold(true),
		turn:     r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		finished: r.NewStyle().Foreground(lipgloss.Color("#626262")).Strikethrough(true),
		info:     r.NewStyle().Foreground(lipgloss.Color("#626262")),
		success:  r.NewStyle().Foreground(lipgloss.Color("#96CEB4")).Bold(true),
		err:      r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true),
	}
}

// Card renders a single card
func (r *Renderer) Card(c deck.Card) string {
	switch {
	case c.IsJoker():
		return r.joker.Render(c.String())
	case c.IsRed():
		return r.red.Render(c.String())
	default:
		return r.black.Render(c.String())
	}
}

// Hand renders cards separated by spaces
func (r *Renderer) Hand(cards []deck.Card) string {
	if len(cards) == 0 {
		return r.info.Render("(no cards)")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = r.Card(c)
	}
	return strings.Join(parts, " ")
}

// State renders the table from the point of view of playerID
func (r *Renderer) State(state protocol.State, playerID string) string {
	var b strings.Builder

	mode := "normal"
	if state.Reverse {
		mode = "reverse"
	}
	status := "waiting"
	if state.Started {
		status = "playing"
	}
	b.WriteString(r.header.Render(fmt.Sprintf("Old Maid · %s · %s", mode, status)))
	b.WriteString("\n")

	for i, p := range state.Players {
		marker := "  "
		if state.Started && i == state.CurrentTurn {
			marker = r.turn.Render("> ")
		}

		line := fmt.Sprintf("%-12s %2d cards", p.Name, p.HandCount)
		if p.ID == playerID {
			line += " (you)"
		}
		if p.Finished && state.Started {
			line = r.finished.Render(line)
		}
		b.WriteString(marker + line + "\n")
	}

	if state.Winner != nil {
		b.WriteString(r.success.Render("Winner: "+*state.Winner) + "\n")
	}
	if state.Loser != nil {
		b.WriteString(r.err.Render("Old Maid: "+*state.Loser) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Message renders any server message after it has been applied to s
func (r *Renderer) Message(msg Message, s *Session) string {
	if msg.Error != "" {
		return r.Error(msg.Error)
	}

	switch msg.Type {
	case protocol.TypeGameCreated:
		if msg.Joined {
			return r.success.Render("Created and joined game " + msg.GameID)
		}
		return r.success.Render("Created game " + msg.GameID)
	case protocol.TypeJoined:
		return r.success.Render("Joined game " + msg.GameID)
	case protocol.TypeHand:
		return "Your hand: " + r.Hand(msg.Hand)
	case protocol.TypeGameState:
		if msg.State == nil {
			return ""
		}
		out := r.State(*msg.State, s.PlayerID)
		if s.MyTurn() {
			if target, ok := s.NextTarget(); ok {
				out += "\n" + r.turn.Render(fmt.Sprintf("Your turn: pick 0-%d from %s", target.HandCount-1, target.Name))
			}
		}
		return out
	case protocol.TypeLeftGame:
		return r.info.Render("Left the game")
	}
	return r.info.Render("Unhandled message: " + msg.Type)
}

// Error renders an error line
func (r *Renderer) Error(message string) string {
	return r.err.Render("Error: " + message)
}

// Info renders a muted line
func (r *Renderer) Info(message string) string {
	return r.info.Render(message)
}
