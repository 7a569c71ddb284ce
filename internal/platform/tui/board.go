package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/lockrush/internal/session"
)

// boardView renders the leaderboard screen with a scrollable table.
type boardView struct {
	table  table.Model
	width  int
	height int
}

func newBoardView(width, height int) boardView {
	b := boardView{width: width, height: height}
	b.table = b.createTable()
	return b
}

// createTable creates a new table sized to the terminal.
func (b boardView) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 6},
		{Title: "Name", Width: 18},
		{Title: "Score", Width: 8},
		{Title: "Time", Width: 9},
	}

	// Give spare width to the name column
	if spare := b.width - 4 - 6 - 18 - 8 - 9 - 8; spare > 0 {
		columns[1].Width += min(spare, 20)
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(b.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// Resize rebuilds the table for a new terminal size.
func (b boardView) Resize(width, height int) boardView {
	rows := b.table.Rows()
	b.width, b.height = width, height
	b.table = b.createTable()
	b.table.SetRows(rows)
	return b
}

// SetBoard fills the table and puts the cursor on the player's entry.
func (b boardView) SetBoard(board session.Board, email string) boardView {
	rows := make([]table.Row, len(board.View))
	cursor := 0
	for i, r := range board.View {
		name := r.Name
		if r.Email == email {
			name = "> " + name
			cursor = i
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			name,
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%.2fs", r.Time),
		}
	}
	b.table.SetRows(rows)
	b.table.SetCursor(cursor)
	return b
}

// Update forwards scrolling keys to the table.
func (b boardView) Update(msg tea.Msg) (boardView, tea.Cmd) {
	var cmd tea.Cmd
	b.table, cmd = b.table.Update(msg)
	return b, cmd
}

// View renders the table or a status message.
func (b boardView) View(board session.Board) string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)
	noteStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true)
	errStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("9")).
		Padding(2, 4)

	var sb strings.Builder
	sb.WriteString(center(titleStyle.Render("LEADERBOARD"), b.width))
	sb.WriteString("\n\n")

	switch {
	case board.Status == session.BoardError:
		sb.WriteString(center(tableStyle.Render(errStyle.Render("Error loading leaderboard.\nPress esc and try again.")), b.width))
	case len(board.View) == 0 && board.Status == session.BoardLoading:
		sb.WriteString(center(tableStyle.Render(noteStyle.Padding(2, 4).Render("Loading...")), b.width))
	case len(board.View) == 0:
		sb.WriteString(center(tableStyle.Render(noteStyle.Padding(2, 4).Render("No scores recorded yet.\nPlay a game to set a high score!")), b.width))
	default:
		sb.WriteString(center(tableStyle.Render(b.table.View()), b.width))
		if board.Cached {
			sb.WriteString("\n")
			sb.WriteString(center(noteStyle.Render("offline copy - refreshing..."), b.width))
		}
	}

	return sb.String()
}
