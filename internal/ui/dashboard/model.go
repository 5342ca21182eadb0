package dashboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"irctrack/internal/modules/tracking/dto"
	"irctrack/internal/ui/theme"
)

// TrackingPort is the slice of the tracking handler the dashboard reads from.
type TrackingPort interface {
	Summary(ctx context.Context, refresh bool) (dto.SummaryOutput, error)
	Reports(ctx context.Context, refresh bool) ([]dto.ReportOutput, error)
}

type loadedMsg struct {
	summary dto.SummaryOutput
	reports []dto.ReportOutput
	err     error
}

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Filter  key.Binding
	Refresh key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Filter:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Refresh, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Filter},
		{k.Refresh, k.Help, k.Quit},
	}
}

type reportItem struct {
	report dto.ReportOutput
}

func (i reportItem) Title() string {
	title := i.report.RequestID + "  " + i.report.Service
	if i.report.Overdue {
		title += "  " + theme.Hot.Render("overdue")
	}
	if i.report.NeedsAttention {
		title += "  " + theme.Alert.Render("attention")
	}
	return title
}

func (i reportItem) Description() string {
	r := i.report
	return fmt.Sprintf("%s %3.0f%%  %s  %s", theme.Bar(r.Percentage, 12), r.Percentage,
		theme.Status(r.StatusColor, r.StatusLabel), r.Label)
}

func (i reportItem) FilterValue() string {
	return i.report.RequestID + " " + i.report.Service
}

// Model shows the summary counters above a filterable list of request
// reports. Loading goes through the port in a tea.Cmd.
type Model struct {
	port    TrackingPort
	keys    keyMap
	help    help.Model
	spinner spinner.Model
	list    list.Model

	summary dto.SummaryOutput
	loading bool
	err     error
	width   int
	height  int
}

func New(port TrackingPort) Model {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(theme.Lavender).BorderForeground(theme.Lavender)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(theme.Sapphire).BorderForeground(theme.Lavender)

	l := list.New(nil, delegate, 80, 12)
	l.Title = "Requests"
	l.Styles.Title = theme.Title
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.SetStatusBarItemName("request", "requests")

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Lavender)
	return Model{
		port:    port,
		keys:    defaultKeys(),
		help:    help.New(),
		spinner: sp,
		list:    l,
		loading: true,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(false), m.spinner.Tick)
}

func (m Model) loadCmd(refresh bool) tea.Cmd {
	port := m.port
	return func() tea.Msg {
		if port == nil {
			return loadedMsg{err: fmt.Errorf("tracking is not configured")}
		}
		ctx := context.Background()
		summary, err := port.Summary(ctx, refresh)
		if err != nil {
			return loadedMsg{err: err}
		}
		reports, err := port.Reports(ctx, false)
		return loadedMsg{summary: summary, reports: reports, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, max(msg.Height-16, 6))
		return m, nil

	case loadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err != nil {
			return m, nil
		}
		m.summary = msg.summary
		items := make([]list.Item, len(msg.reports))
		for i, r := range msg.reports {
			items[i] = reportItem{report: r}
		}
		cmd := m.list.SetItems(items)
		if m.list.Index() >= len(items) {
			m.list.Select(max(len(items)-1, 0))
		}
		return m, cmd

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.Filtering() {
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			break
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, tea.Batch(m.loadCmd(true), m.spinner.Tick)
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(theme.Title.Render("IRC requests"))
	if m.loading {
		b.WriteString("  " + m.spinner.View() + theme.Muted.Render(" loading…"))
	}
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(theme.Alert.Render("error: "+m.err.Error()) + "\n\n")
	}

	b.WriteString(theme.Pane.Render(m.renderSummary()))
	b.WriteString("\n")
	if len(m.list.Items()) == 0 {
		b.WriteString(theme.Muted.Render("no requests"))
	} else {
		b.WriteString(m.list.View())
	}
	b.WriteString("\n")
	if detail := m.renderSelected(); detail != "" {
		b.WriteString(theme.Pane.Render(detail))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return theme.App.Render(b.String())
}

func (m Model) renderSummary() string {
	s := m.summary
	counts := []string{fmt.Sprintf("total %d", s.Total)}
	for _, bucket := range s.Buckets {
		counts = append(counts, theme.Status(bucket.Color, fmt.Sprintf("%s %d", bucket.Label, bucket.Count)))
	}
	lines := []string{
		strings.Join(counts, "  "),
		fmt.Sprintf("sessions today %d  this week %d", s.SessionsToday, s.SessionsThisWeek),
	}
	if s.Overdue > 0 {
		lines = append(lines, theme.Hot.Render(fmt.Sprintf("overdue %d", s.Overdue)))
	}
	if s.NeedsAttention > 0 {
		lines = append(lines, theme.Alert.Render(fmt.Sprintf("needs attention %d: %s", s.NeedsAttention, strings.Join(s.AttentionIDs, ", "))))
	}
	if s.Issues > 0 {
		lines = append(lines, theme.Muted.Render(fmt.Sprintf("%d row issues, see log", s.Issues)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSelected() string {
	r, ok := m.Selected()
	if !ok {
		return ""
	}
	lines := []string{
		theme.Selected.Render(r.RequestID) + "  " + r.Service,
		fmt.Sprintf("progress %s (%.0f%%)", r.Label, r.Percentage),
		fmt.Sprintf("sessions performed %d, planned %d", r.SessionsPerformed, r.SessionsPlanned),
	}
	if r.LastPerformed != "" {
		lines = append(lines, "last performed "+r.LastPerformed)
	}
	if r.NextPlanned != "" {
		lines = append(lines, "next planned "+r.NextPlanned)
	}
	if r.StoredStatus != "" && r.StoredStatus != r.Status {
		lines = append(lines, theme.Muted.Render("stored status "+r.StoredStatus))
	}
	return strings.Join(lines, "\n")
}

// Selected returns the report under the cursor.
func (m Model) Selected() (dto.ReportOutput, bool) {
	if item, ok := m.list.SelectedItem().(reportItem); ok {
		return item.report, true
	}
	return dto.ReportOutput{}, false
}

// Filtering reports whether the list's search filter is taking keystrokes.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
