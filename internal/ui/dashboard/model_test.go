package dashboard

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irctrack/internal/modules/tracking/dto"
)

type fakePort struct {
	summary   dto.SummaryOutput
	reports   []dto.ReportOutput
	err       error
	refreshes int
}

func (f *fakePort) Summary(_ context.Context, refresh bool) (dto.SummaryOutput, error) {
	if refresh {
		f.refreshes++
	}
	return f.summary, f.err
}

func (f *fakePort) Reports(context.Context, bool) ([]dto.ReportOutput, error) {
	return f.reports, f.err
}

func sample() *fakePort {
	return &fakePort{
		summary: dto.SummaryOutput{
			Total: 2, Pending: 1, InProgress: 1, NeedsAttention: 1, AttentionIDs: []string{"IRC-Sol-0000001"},
			Buckets: []dto.StatusCount{
				{Status: "pending", Label: "Pendiente", Color: "#F44336", Count: 1},
				{Status: "in_progress", Label: "En progreso", Color: "#FF9800", Count: 1},
			},
		},
		reports: []dto.ReportOutput{
			{RequestID: "IRC-Sol-0000001", Service: "Irradiación", Status: "pending", StatusLabel: "Pendiente", StatusColor: "#F44336", Label: "0/4 canisters", NeedsAttention: true},
			{RequestID: "IRC-Sol-0000002", Service: "Dosimetría", Status: "in_progress", StatusLabel: "En progreso", StatusColor: "#FF9800", Percentage: 50, Label: "1/2 months (3 dosimeters)", SessionsPerformed: 1},
		},
	}
}

func load(t *testing.T, m Model, refresh bool) Model {
	t.Helper()
	msg := m.loadCmd(refresh)()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestLoadPopulatesSummaryAndReports(t *testing.T) {
	t.Parallel()
	m := load(t, New(sample()), false)

	assert.False(t, m.loading)
	require.Len(t, m.list.Items(), 2)
	view := m.View()
	assert.Contains(t, view, "IRC-Sol-0000001")
	assert.Contains(t, view, "Pendiente 1")
	assert.Contains(t, view, "needs attention 1")
	assert.Contains(t, view, "0/4 canisters")
}

func TestCursorMovesWithinBounds(t *testing.T) {
	t.Parallel()
	m := load(t, New(sample()), false)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)
	assert.Equal(t, 1, m.list.Index())
	got, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "IRC-Sol-0000002", got.RequestID)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	got, _ = m.Selected()
	assert.Equal(t, "IRC-Sol-0000001", got.RequestID)
}

func TestRefreshKeyReloadsWithRefresh(t *testing.T) {
	t.Parallel()
	port := sample()
	m := load(t, New(port), false)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m = next.(Model)
	require.NotNil(t, cmd)
	assert.True(t, m.loading)

	m = load(t, m, true)
	assert.Equal(t, 1, port.refreshes)
	assert.False(t, m.loading)
}

func TestLoadErrorIsShown(t *testing.T) {
	t.Parallel()
	m := load(t, New(&fakePort{err: errors.New("sheet unreachable")}), false)

	assert.Contains(t, m.View(), "sheet unreachable")
	_, ok := m.Selected()
	assert.False(t, ok)
}

func TestQuitKey(t *testing.T) {
	t.Parallel()
	m := New(sample())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestFilterInputTakesRefreshAndQuitKeys(t *testing.T) {
	t.Parallel()
	port := sample()
	m := load(t, New(port), false)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	m = next.(Model)
	require.True(t, m.Filtering())

	for _, r := range "rq" {
		next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	assert.False(t, m.loading)
	assert.Zero(t, port.refreshes)
	assert.Equal(t, "rq", m.list.FilterValue())
}

func TestReloadKeepsSelectionInRange(t *testing.T) {
	t.Parallel()
	port := sample()
	m := load(t, New(port), false)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(Model)

	port.reports = port.reports[:1]
	m = load(t, m, true)
	got, ok := m.Selected()
	require.True(t, ok)
	assert.Equal(t, "IRC-Sol-0000001", got.RequestID)
}
