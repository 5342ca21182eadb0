package in

import (
	"context"

	"irctrack/internal/modules/tracking/dto"
)

type Usecase interface {
	Summary(ctx context.Context, input dto.SummaryInput) (dto.SummaryOutput, error)
	Reports(ctx context.Context, input dto.ReportsInput) ([]dto.ReportOutput, error)
	Report(ctx context.Context, requestID string) (dto.ReportOutput, error)
	ListRequests(ctx context.Context) ([]dto.RequestOutput, error)
	AddRequest(ctx context.Context, input dto.AddRequestInput) (dto.RequestOutput, error)
	UpdateStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.RequestOutput, error)
	NormalizeStatuses(ctx context.Context) (dto.NormalizeOutput, error)
	ListSessions(ctx context.Context, requestID string) ([]dto.SessionOutput, error)
	AddSession(ctx context.Context, input dto.SessionInput) (dto.SessionOutput, error)
	UpdateSession(ctx context.Context, input dto.SessionInput) (dto.SessionOutput, error)
	DeleteSession(ctx context.Context, sessionID string) error
	Reindex(ctx context.Context, input dto.ReindexInput) error
	IndexStatus(ctx context.Context) (dto.IndexOutput, error)
}
