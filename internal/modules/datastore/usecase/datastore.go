package usecase

import (
	"context"
	"fmt"
	"strings"

	"irctrack/internal/modules/datastore/dto"
	datastorein "irctrack/internal/modules/datastore/port/in"
	"irctrack/internal/modules/datastore/service"
	apperrors "irctrack/internal/platform/errors"
)

type Interactor struct {
	svc *service.CacheService
}

func NewInteractor(svc *service.CacheService) datastorein.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) ReadRows(ctx context.Context, table, rng string) ([]dto.Row, error) {
	if err := requireTable(table); err != nil {
		return nil, err
	}
	return i.svc.ReadRows(ctx, table, strings.TrimSpace(rng))
}

func (i *Interactor) AppendRow(ctx context.Context, table string, row dto.Row) error {
	if err := requireTable(table); err != nil {
		return err
	}
	if len(row) == 0 {
		return fmt.Errorf("%w: empty row", apperrors.ErrInvalidInput)
	}
	return i.svc.AppendRow(ctx, table, row)
}

func (i *Interactor) UpdateRow(ctx context.Context, table string, index int, row dto.Row) error {
	if err := requireTable(table); err != nil {
		return err
	}
	if len(row) == 0 {
		return fmt.Errorf("%w: empty row", apperrors.ErrInvalidInput)
	}
	return i.svc.UpdateRow(ctx, table, index, row)
}

func (i *Interactor) DeleteRow(ctx context.Context, table string, index int) error {
	if err := requireTable(table); err != nil {
		return err
	}
	return i.svc.DeleteRow(ctx, table, index)
}

func (i *Interactor) ClearCache() {
	i.svc.ClearCache()
}

func (i *Interactor) Ping(ctx context.Context) (string, error) {
	return i.svc.Ping(ctx)
}

func requireTable(table string) error {
	if strings.TrimSpace(table) == "" {
		return fmt.Errorf("%w: table is required", apperrors.ErrInvalidInput)
	}
	return nil
}
