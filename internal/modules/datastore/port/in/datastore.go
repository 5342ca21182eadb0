package in

import (
	"context"

	"irctrack/internal/modules/datastore/dto"
)

// Usecase is the single choke point for reading and writing tables. Reads
// are served from a time-bounded cache; writes invalidate the written table.
type Usecase interface {
	ReadRows(ctx context.Context, table, rng string) ([]dto.Row, error)
	AppendRow(ctx context.Context, table string, row dto.Row) error
	UpdateRow(ctx context.Context, table string, index int, row dto.Row) error
	DeleteRow(ctx context.Context, table string, index int) error
	ClearCache()
	Ping(ctx context.Context) (string, error)
}
