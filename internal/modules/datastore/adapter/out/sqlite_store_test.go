package out_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"irctrack/internal/modules/datastore/adapter/out"
	"irctrack/internal/modules/datastore/dto"
	apperrors "irctrack/internal/platform/errors"
)

func TestSQLiteStorePositionalSemantics(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := out.NewSQLiteStore(filepath.Join(t.TempDir(), "data", "irctrack.db"))
	require.NoError(t, err)

	for _, id := range []string{"IRC-Sol-a", "IRC-Sol-b", "IRC-Sol-c"} {
		require.NoError(t, store.Append(ctx, "Solicitudes", dto.Row{id, "2025-01-10", "⏳ Pendiente"}))
	}
	require.NoError(t, store.Append(ctx, "Sesiones", dto.Row{"IRC-Ses-a", "IRC-Sol-a"}))

	require.NoError(t, store.Delete(ctx, "Solicitudes", 0))
	require.NoError(t, store.Update(ctx, "Solicitudes", 1, dto.Row{"IRC-Sol-c", "2025-01-10", "✅ Completado"}))

	rows, err := store.Fetch(ctx, "Solicitudes", "A2:X")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "IRC-Sol-b", rows[0][0])
	assert.Equal(t, "✅ Completado", rows[1][2])

	sessions, err := store.Fetch(ctx, "Sesiones", "")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestSQLiteStoreMissingRows(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := out.NewSQLiteStore(filepath.Join(t.TempDir(), "irctrack.db"))
	require.NoError(t, err)

	rows, err := store.Fetch(ctx, "Solicitudes", "A2:X")
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.ErrorIs(t, store.Update(ctx, "Solicitudes", 0, dto.Row{"x"}), apperrors.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, "Solicitudes", -2), apperrors.ErrNotFound)

	name, err := store.Ping(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(name, "sqlite:"))
}
