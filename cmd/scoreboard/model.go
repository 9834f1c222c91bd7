package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3498db"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e74c3c"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7f8c8d"))
	tableStyle = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#9b59b6"))
)

type boardMsg struct {
	entries []leaderboardEntry
	err     error
	at      time.Time
}

type tickMsg time.Time

type fetchFunc func(ctx context.Context) ([]leaderboardEntry, error)

type model struct {
	contestID string
	fetch     fetchFunc
	interval  time.Duration

	table     table.Model
	spinner   spinner.Model
	loading   bool
	err       error
	updatedAt time.Time
}

func newModel(contestID string, fetch fetchFunc, interval time.Duration) model {
	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Vieta", Width: 6},
			{Title: "Dalībnieks", Width: 10},
			{Title: "Punkti", Width: 7},
			{Title: "Uzdevumi", Width: 40},
		}),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#3498db"))

	return model{
		contestID: contestID,
		fetch:     fetch,
		interval:  interval,
		table:     t,
		spinner:   s,
		loading:   true,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m model) load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		entries, err := m.fetch(ctx)
		return boardMsg{entries: entries, err: err, at: time.Now()}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			m.loading = true
			return m, m.load()
		}
	case boardMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.table.SetRows(toRows(msg.entries))
			m.updatedAt = msg.at
		}
		return m, tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
	case tickMsg:
		m.loading = true
		return m, m.load()
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Sacensības " + m.contestID))
	b.WriteString("\n\n")
	b.WriteString(tableStyle.Render(m.table.View()))
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errStyle.Render("kļūda: " + m.err.Error()))
		b.WriteString("\n")
	}
	status := "atjaunots " + m.updatedAt.Format("15:04:05")
	if m.updatedAt.IsZero() {
		status = "vēl nav ielādēts"
	}
	if m.loading {
		status = m.spinner.View() + " " + status
	}
	b.WriteString(helpStyle.Render(status + " · r atjaunot · q iziet"))
	b.WriteString("\n")
	return b.String()
}

func toRows(entries []leaderboardEntry) []table.Row {
	rows := make([]table.Row, len(entries))
	for i, e := range entries {
		scores := make([]string, len(e.ProblemScores))
		for j, s := range e.ProblemScores {
			scores[j] = fmt.Sprintf("%s:%d", s.ProblemID, s.Score)
		}
		user := e.Username
		if user == "" {
			user = e.UserUUID
		}
		if len(user) > 8 && user == e.UserUUID {
			user = user[:8]
		}
		rows[i] = table.Row{
			fmt.Sprint(e.Rank),
			user,
			fmt.Sprint(e.TotalScore),
			strings.Join(scores, " "),
		}
	}
	return rows
}
