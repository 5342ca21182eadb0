package out

import (
	"context"

	"irctrack/internal/modules/tracking/domain"
)

// RequestRepository reads and writes the requests table. List never fails on
// malformed rows; it returns what it could not read as issues.
type RequestRepository interface {
	List(ctx context.Context) ([]domain.Request, []domain.Issue, error)
	Append(ctx context.Context, request domain.Request) error
	Update(ctx context.Context, request domain.Request) error
}

type SessionRepository interface {
	List(ctx context.Context) ([]domain.Session, []domain.Issue, error)
	Append(ctx context.Context, session domain.Session) error
	Update(ctx context.Context, session domain.Session) error
	Delete(ctx context.Context, session domain.Session) error
	Schema() domain.SessionSchema
}

// Refresher drops cached table reads so the next List goes to the store.
type Refresher interface {
	Refresh()
}

type ReportProjector interface {
	Reset(ctx context.Context) error
	UpsertReport(ctx context.Context, report domain.Report) error
	Count(ctx context.Context) (int, error)
}
