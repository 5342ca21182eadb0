package out_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	datastoredto "irctrack/internal/modules/datastore/dto"
	"irctrack/internal/modules/tracking/adapter/out"
	"irctrack/internal/modules/tracking/domain"
)

type memoryStore struct {
	tables  map[string][]datastoredto.Row
	updates map[int]datastoredto.Row
	deleted []int
	cleared int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{tables: map[string][]datastoredto.Row{}, updates: map[int]datastoredto.Row{}}
}

func (m *memoryStore) ReadRows(_ context.Context, table, _ string) ([]datastoredto.Row, error) {
	return m.tables[table], nil
}

func (m *memoryStore) AppendRow(_ context.Context, table string, row datastoredto.Row) error {
	m.tables[table] = append(m.tables[table], row)
	return nil
}

func (m *memoryStore) UpdateRow(_ context.Context, _ string, index int, row datastoredto.Row) error {
	m.updates[index] = row
	return nil
}

func (m *memoryStore) DeleteRow(_ context.Context, _ string, index int) error {
	m.deleted = append(m.deleted, index)
	return nil
}

func (m *memoryStore) ClearCache()                          { m.cleared++ }
func (m *memoryStore) Ping(context.Context) (string, error) { return "memory", nil }

func TestRequestTableKeepsRowPositions(t *testing.T) {
	t.Parallel()
	store := newMemoryStore()
	store.tables["Solicitudes"] = []datastoredto.Row{
		{"IRC-Sol-a", "2025-01-02", "Pendiente", "Trámites regulatorios"},
		{"", "", ""},
		{"IRC-Sol-b", "bad date", "✅ Completado", "Gestión dosimétrica", "", "{}"},
	}
	table := out.NewRequestTable(store, out.TableLocation{Name: "Solicitudes", Range: "A2:X"})

	requests, issues, err := table.List(context.Background())
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, 2, requests[1].RowIndex)
	require.Len(t, issues, 1)
	assert.Equal(t, 2, issues[0].RowIndex)

	require.NoError(t, table.Update(context.Background(), requests[1]))
	assert.Len(t, store.updates[2], domain.RequestColumns)
	assert.Equal(t, "bad date", store.updates[2][1])
	assert.Equal(t, "{}", store.updates[2][5])
}

func TestSessionTableRoundTrip(t *testing.T) {
	t.Parallel()
	store := newMemoryStore()
	table := out.NewSessionTable(store, out.TableLocation{Name: "Sesiones", Range: "A2:J"}, domain.SessionSchemaLegacy)
	assert.Equal(t, domain.SessionSchemaLegacy, table.Schema())

	session := domain.Session{RequestID: "IRC-Sol-a", Date: time.Date(2025, 1, 5, 0, 0, 0, 0, time.UTC), Kind: domain.SessionPerformed, Units: 2}
	require.NoError(t, table.Append(context.Background(), session))
	assert.Len(t, store.tables["Sesiones"][0], domain.LegacySessionColumns)

	sessions, _, err := table.List(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, 2.0, sessions[0].Units)

	require.NoError(t, table.Delete(context.Background(), sessions[0]))
	assert.Equal(t, []int{0}, store.deleted)

	out.NewCacheRefresher(store).Refresh()
	assert.Equal(t, 1, store.cleared)
}

func TestSQLiteReportProjectorUpserts(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	projector, err := out.NewSQLiteReportProjector(filepath.Join(t.TempDir(), "irctrack.db"))
	require.NoError(t, err)

	report := domain.Report{RequestID: "IRC-Sol-a", Service: "x", Category: domain.CategoryCounter, Status: domain.StatusPending, StoredStatus: domain.StatusPending, Label: "0.0/2.0 hours"}
	require.NoError(t, projector.UpsertReport(ctx, report))
	report.Status = domain.StatusCompleted
	report.Overdue = true
	require.NoError(t, projector.UpsertReport(ctx, report))

	n, err := projector.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, projector.Reset(ctx))
	n, err = projector.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
