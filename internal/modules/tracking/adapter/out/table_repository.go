package out

import (
	"context"
	"strings"

	datastoredto "irctrack/internal/modules/datastore/dto"
	datastorein "irctrack/internal/modules/datastore/port/in"
	"irctrack/internal/modules/tracking/domain"
	trackingout "irctrack/internal/modules/tracking/port/out"
)

// TableLocation names a sheet and the A1 range holding its data rows.
type TableLocation struct {
	Name  string
	Range string
}

type RequestTable struct {
	store datastorein.Usecase
	loc   TableLocation
}

func NewRequestTable(store datastorein.Usecase, loc TableLocation) trackingout.RequestRepository {
	return &RequestTable{store: store, loc: loc}
}

// List decodes every non-blank row. Row positions are kept so later writes
// address the same row.
func (t *RequestTable) List(ctx context.Context) ([]domain.Request, []domain.Issue, error) {
	rows, err := t.store.ReadRows(ctx, t.loc.Name, t.loc.Range)
	if err != nil {
		return nil, nil, err
	}
	requests := make([]domain.Request, 0, len(rows))
	var issues []domain.Issue
	for i, row := range rows {
		if blank(row) {
			continue
		}
		req, rowIssues := domain.DecodeRequest(i, row)
		requests = append(requests, req)
		issues = append(issues, rowIssues...)
	}
	return requests, issues, nil
}

func (t *RequestTable) Append(ctx context.Context, request domain.Request) error {
	return t.store.AppendRow(ctx, t.loc.Name, domain.EncodeRequest(request))
}

func (t *RequestTable) Update(ctx context.Context, request domain.Request) error {
	return t.store.UpdateRow(ctx, t.loc.Name, request.RowIndex, domain.EncodeRequest(request))
}

type SessionTable struct {
	store  datastorein.Usecase
	loc    TableLocation
	schema domain.SessionSchema
}

func NewSessionTable(store datastorein.Usecase, loc TableLocation, schema domain.SessionSchema) trackingout.SessionRepository {
	return &SessionTable{store: store, loc: loc, schema: schema}
}

func (t *SessionTable) Schema() domain.SessionSchema { return t.schema }

func (t *SessionTable) List(ctx context.Context) ([]domain.Session, []domain.Issue, error) {
	rows, err := t.store.ReadRows(ctx, t.loc.Name, t.loc.Range)
	if err != nil {
		return nil, nil, err
	}
	sessions := make([]domain.Session, 0, len(rows))
	var issues []domain.Issue
	for i, row := range rows {
		if blank(row) {
			continue
		}
		session, rowIssues := domain.DecodeSession(t.schema, i, row)
		sessions = append(sessions, session)
		issues = append(issues, rowIssues...)
	}
	return sessions, issues, nil
}

func (t *SessionTable) Append(ctx context.Context, session domain.Session) error {
	return t.store.AppendRow(ctx, t.loc.Name, domain.EncodeSession(t.schema, session))
}

func (t *SessionTable) Update(ctx context.Context, session domain.Session) error {
	return t.store.UpdateRow(ctx, t.loc.Name, session.RowIndex, domain.EncodeSession(t.schema, session))
}

func (t *SessionTable) Delete(ctx context.Context, session domain.Session) error {
	return t.store.DeleteRow(ctx, t.loc.Name, session.RowIndex)
}

// CacheRefresher purges the data-access cache.
type CacheRefresher struct {
	store datastorein.Usecase
}

func NewCacheRefresher(store datastorein.Usecase) trackingout.Refresher {
	return CacheRefresher{store: store}
}

func (r CacheRefresher) Refresh() { r.store.ClearCache() }

func blank(row datastoredto.Row) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
