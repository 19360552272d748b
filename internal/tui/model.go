// Package tui implements the watch mode: a terminal card that polls the
// balance endpoint on an interval and charts the recent trend.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"

	"dsbc/internal/deepseek"
	"dsbc/internal/history"
)

// maxSeriesPoints caps the in-memory balance series shown in the sparkline.
const maxSeriesPoints = 120

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

type balanceMsg struct {
	balance deepseek.Balance
	err     error
}

// ClientFunc builds a client with a freshly resolved token. Resolving on
// every fetch is what lets a credentials-file change take effect live.
type ClientFunc func() (*deepseek.Client, error)

type Model struct {
	newClient ClientFunc
	store     *history.Store // nil disables recording
	interval  time.Duration

	credentialsPath string
	watcher         *fsnotify.Watcher
	watchCmd        tea.Cmd

	balance     deepseek.Balance
	hasBalance  bool
	fetchedAt   time.Time
	fetchErr    error
	refreshing  bool
	series      []float64
	nextRefresh time.Time

	width  int
	height int
}

func NewModel(newClient ClientFunc, store *history.Store, interval time.Duration, credentialsPath string) Model {
	if interval < 5*time.Second {
		interval = 30 * time.Second
	}

	m := Model{
		newClient:       newClient,
		store:           store,
		interval:        interval,
		credentialsPath: credentialsPath,
		// Init schedules the first fetch; the ticker only takes over after
		// a full interval has passed.
		nextRefresh: time.Now().Add(interval),
	}

	// Live credential reload is optional; the watch view works without it.
	if watcher, err := newCredentialsWatcher(credentialsPath); err == nil {
		m.watcher = watcher
		m.watchCmd = waitForCredentialChange(watcher, credentialsPath)
	}

	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.fetchCmd(), tickCmd()}
	if m.watchCmd != nil {
		cmds = append(cmds, m.watchCmd)
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.watcher != nil {
				m.watcher.Close()
			}
			return m, tea.Quit
		case "r":
			if !m.refreshing {
				m.refreshing = true
				return m, m.fetchCmd()
			}
		}
		return m, nil

	case tickMsg:
		if !m.refreshing && time.Now().After(m.nextRefresh) {
			m.refreshing = true
			return m, tea.Batch(m.fetchCmd(), tickCmd())
		}
		return m, tickCmd()

	case credentialsChangedMsg:
		// Token source changed on disk; refresh with the new credentials.
		cmds := []tea.Cmd{}
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.fetchCmd())
		}
		if m.watchCmd != nil {
			cmds = append(cmds, m.watchCmd)
		}
		return m, tea.Batch(cmds...)

	case balanceMsg:
		m.refreshing = false
		m.fetchedAt = time.Now()
		m.nextRefresh = m.fetchedAt.Add(m.interval)
		m.fetchErr = msg.err
		if msg.err == nil {
			m.balance = msg.balance
			m.hasBalance = true
			m.series = append(m.series, msg.balance.Available)
			if len(m.series) > maxSeriesPoints {
				m.series = m.series[len(m.series)-maxSeriesPoints:]
			}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		client, err := m.newClient()
		if err != nil {
			return balanceMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		bal, err := client.GetBalance(ctx)
		if err != nil {
			return balanceMsg{err: err}
		}

		if m.store != nil {
			// Recording is best-effort; a store failure never breaks the view.
			_ = m.store.Record(ctx, bal)
		}
		return balanceMsg{balance: bal}
	}
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("DeepSeek Balance"))
	sb.WriteString("\n\n")

	switch {
	case !m.hasBalance && m.fetchErr != nil:
		sb.WriteString(errStyle.Render("Error: " + m.fetchErr.Error()))
	case !m.hasBalance:
		sb.WriteString(labelStyle.Render("Fetching balance..."))
	default:
		sb.WriteString(m.balanceLines())
	}

	sb.WriteString("\n\n")
	sb.WriteString(m.statusLine())

	card := cardStyle.Render(sb.String())
	help := helpStyle.Render("r refresh · q quit")
	view := card + "\n" + help

	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, view)
	}
	return view
}

func (m Model) balanceLines() string {
	rows := []string{
		kv("Available", fmt.Sprintf("%.2f %s", m.balance.Available, m.balance.Currency)),
		kv("Total", fmt.Sprintf("%.2f %s", m.balance.Total, m.balance.Currency)),
		kv("Used", fmt.Sprintf("%.2f %s", m.balance.Used, m.balance.Currency)),
	}
	if pct := m.balance.UsagePercent(); pct >= 0 {
		rows = append(rows, kv("Usage", fmt.Sprintf("%.1f%%", pct)))
	}

	if len(m.series) >= 2 {
		rows = append(rows, "")
		rows = append(rows, labelStyle.Render("Trend ")+
			history.Sparkline(m.series, 32, colorTeal))
	}

	if m.fetchErr != nil {
		rows = append(rows, "")
		rows = append(rows, errStyle.Render("Last fetch failed: "+m.fetchErr.Error()))
	}

	return strings.Join(rows, "\n")
}

func (m Model) statusLine() string {
	if m.refreshing {
		return labelStyle.Render("Refreshing...")
	}
	if m.fetchedAt.IsZero() {
		return ""
	}

	next := time.Until(m.nextRefresh).Round(time.Second)
	if next < 0 {
		next = 0
	}
	return labelStyle.Render(fmt.Sprintf("Updated %s · next refresh in %s",
		m.fetchedAt.Format("15:04:05"), next))
}

func kv(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-10s", label)) + valueStyle.Render(value)
}
