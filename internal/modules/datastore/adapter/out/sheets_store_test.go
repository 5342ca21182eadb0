package out_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"irctrack/internal/modules/datastore/adapter/out"
	"irctrack/internal/modules/datastore/dto"
	datastoreout "irctrack/internal/modules/datastore/port/out"
	apperrors "irctrack/internal/platform/errors"
)

// fakeSheets serves the subset of the Sheets v4 REST surface the store uses.
// Data rows start at sheet row 2; the header row is not modelled.
type fakeSheets struct {
	mu       sync.Mutex
	tables   map[string][][]string
	ids      map[string]int64
	denied   map[string]bool
	requests []string
}

func newFakeSheets() *fakeSheets {
	return &fakeSheets{
		tables: map[string][][]string{"Solicitudes": {}, "Sesiones": {}},
		ids:    map[string]int64{"Solicitudes": 0, "Sesiones": 7},
		denied: map[string]bool{},
	}
}

func (f *fakeSheets) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)

	rest := strings.TrimPrefix(r.URL.Path, "/v4/spreadsheets/")
	id, tail, _ := strings.Cut(rest, "/values/")
	switch {
	case tail != "":
		f.values(w, r, tail)
	case strings.HasSuffix(id, ":batchUpdate"):
		f.batchUpdate(w, r)
	default:
		f.metadata(w)
	}
}

func (f *fakeSheets) values(w http.ResponseWriter, r *http.Request, target string) {
	target = strings.TrimSuffix(target, ":append")
	table, rng, _ := strings.Cut(target, "!")
	table = strings.Trim(table, "'")
	rows, ok := f.tables[table]
	if !ok {
		writeAPIError(w, http.StatusBadRequest, "Unable to parse range: "+target)
		return
	}
	if f.denied[table] {
		writeAPIError(w, http.StatusForbidden, "The caller does not have permission")
		return
	}

	switch r.Method {
	case http.MethodGet:
		var selected [][]string
		var from, to int
		if n, _ := fmt.Sscanf(rng, "A%d:%d", &from, &to); n == 2 {
			if i := from - 2; i >= 0 && i < len(rows) {
				selected = rows[i : i+1]
			}
		} else {
			selected = rows
		}
		writeJSON(w, map[string]any{"range": target, "values": selected})
	case http.MethodPost:
		vr := decodeValues(r)
		f.tables[table] = append(rows, vr...)
		writeJSON(w, map[string]any{"spreadsheetId": "sheet-1"})
	case http.MethodPut:
		var row int
		fmt.Sscanf(rng, "A%d", &row)
		vr := decodeValues(r)
		rows[row-2] = vr[0]
		writeJSON(w, map[string]any{"updatedRows": 1})
	}
}

func (f *fakeSheets) metadata(w http.ResponseWriter) {
	var list []map[string]any
	for title, id := range f.ids {
		list = append(list, map[string]any{"properties": map[string]any{"sheetId": id, "title": title}})
	}
	writeJSON(w, map[string]any{"properties": map[string]any{"title": "IRC tracking"}, "sheets": list})
}

func (f *fakeSheets) batchUpdate(w http.ResponseWriter, r *http.Request) {
	var req sheets.BatchUpdateSpreadsheetRequest
	_ = json.NewDecoder(r.Body).Decode(&req)
	for _, op := range req.Requests {
		dr := op.DeleteDimension.Range
		for title, id := range f.ids {
			if id != dr.SheetId {
				continue
			}
			i := int(dr.StartIndex) - 1
			rows := f.tables[title]
			f.tables[title] = append(rows[:i:i], rows[i+1:]...)
		}
	}
	writeJSON(w, map[string]any{"spreadsheetId": "sheet-1"})
}

func decodeValues(r *http.Request) [][]string {
	var vr struct {
		Values [][]string `json:"values"`
	}
	_ = json.NewDecoder(r.Body).Decode(&vr)
	return vr.Values
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeAPIError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"code": code, "message": msg}})
}

func newSheetsStore(t *testing.T, fake *fakeSheets) datastoreout.RemoteStore {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)
	factory := func(ctx context.Context) (*sheets.Service, error) {
		return sheets.NewService(ctx, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	}
	return out.NewSheetsStore("sheet-1", factory)
}

func TestSheetsStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeSheets()
	store := newSheetsStore(t, fake)

	require.NoError(t, store.Append(ctx, "Sesiones", dto.Row{"IRC-Ses-1", "IRC-Sol-1", "2025-03-01"}))
	require.NoError(t, store.Append(ctx, "Sesiones", dto.Row{"IRC-Ses-2", "IRC-Sol-1", "2025-03-02"}))
	require.NoError(t, store.Append(ctx, "Sesiones", dto.Row{"IRC-Ses-3", "IRC-Sol-2", "2025-03-03"}))

	rows, err := store.Fetch(ctx, "Sesiones", "A2:N")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, dto.Row{"IRC-Ses-2", "IRC-Sol-1", "2025-03-02"}, rows[1])

	require.NoError(t, store.Update(ctx, "Sesiones", 1, dto.Row{"IRC-Ses-2", "IRC-Sol-1", "2025-03-05"}))
	require.NoError(t, store.Delete(ctx, "Sesiones", 0))

	rows, err = store.Fetch(ctx, "Sesiones", "A2:N")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2025-03-05", rows[0][2])
	assert.Equal(t, "IRC-Ses-3", rows[1][0])

	title, err := store.Ping(ctx)
	require.NoError(t, err)
	assert.Equal(t, "IRC tracking", title)
}

func TestSheetsStoreClassifiesFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	fake := newFakeSheets()
	fake.denied["Solicitudes"] = true
	store := newSheetsStore(t, fake)

	_, err := store.Fetch(ctx, "Solicitudes", "A2:X")
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)

	_, err = store.Fetch(ctx, "Missing", "A2:X")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = store.Update(ctx, "Sesiones", 4, dto.Row{"x"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = store.Delete(ctx, "Sesiones", -1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSheetsStoreRequiresSpreadsheetID(t *testing.T) {
	t.Parallel()
	called := false
	store := out.NewSheetsStore("", func(context.Context) (*sheets.Service, error) {
		called = true
		return nil, nil
	})
	_, err := store.Fetch(context.Background(), "Solicitudes", "A2:X")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.False(t, called)
}
