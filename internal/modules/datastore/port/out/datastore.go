package out

import (
	"context"

	"golang.org/x/oauth2"

	"irctrack/internal/modules/datastore/dto"
)

// RemoteStore is the uncached row table. Implementations classify failures
// as apperrors.StoreError and never retry.
type RemoteStore interface {
	Fetch(ctx context.Context, table, rng string) ([]dto.Row, error)
	Append(ctx context.Context, table string, row dto.Row) error
	Update(ctx context.Context, table string, index int, row dto.Row) error
	Delete(ctx context.Context, table string, index int) error
	// Ping checks reachability and returns a human readable store name.
	Ping(ctx context.Context) (string, error)
}

// CredentialSource yields a token source for the spreadsheet API, or
// domain.ErrCredentialUnavailable when its backing material is absent.
type CredentialSource interface {
	Name() string
	TokenSource(ctx context.Context) (oauth2.TokenSource, error)
}
