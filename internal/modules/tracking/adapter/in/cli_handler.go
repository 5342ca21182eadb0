package in

import (
	"context"

	"irctrack/internal/modules/tracking/dto"
	trackingin "irctrack/internal/modules/tracking/port/in"
)

type CLIHandler struct {
	usecase trackingin.Usecase
}

func NewCLIHandler(usecase trackingin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Summary(ctx context.Context, refresh bool) (dto.SummaryOutput, error) {
	return h.usecase.Summary(ctx, dto.SummaryInput{Refresh: refresh})
}

func (h CLIHandler) Reports(ctx context.Context, refresh bool) ([]dto.ReportOutput, error) {
	return h.usecase.Reports(ctx, dto.ReportsInput{Refresh: refresh})
}

func (h CLIHandler) Report(ctx context.Context, requestID string) (dto.ReportOutput, error) {
	return h.usecase.Report(ctx, requestID)
}

func (h CLIHandler) ListRequests(ctx context.Context) ([]dto.RequestOutput, error) {
	return h.usecase.ListRequests(ctx)
}

func (h CLIHandler) AddRequest(ctx context.Context, input dto.AddRequestInput) (dto.RequestOutput, error) {
	return h.usecase.AddRequest(ctx, input)
}

func (h CLIHandler) UpdateStatus(ctx context.Context, requestID, status string) (dto.RequestOutput, error) {
	return h.usecase.UpdateStatus(ctx, dto.UpdateStatusInput{RequestID: requestID, Status: status})
}

func (h CLIHandler) NormalizeStatuses(ctx context.Context) (dto.NormalizeOutput, error) {
	return h.usecase.NormalizeStatuses(ctx)
}

func (h CLIHandler) ListSessions(ctx context.Context, requestID string) ([]dto.SessionOutput, error) {
	return h.usecase.ListSessions(ctx, requestID)
}

func (h CLIHandler) AddSession(ctx context.Context, input dto.SessionInput) (dto.SessionOutput, error) {
	return h.usecase.AddSession(ctx, input)
}

func (h CLIHandler) UpdateSession(ctx context.Context, input dto.SessionInput) (dto.SessionOutput, error) {
	return h.usecase.UpdateSession(ctx, input)
}

func (h CLIHandler) DeleteSession(ctx context.Context, sessionID string) error {
	return h.usecase.DeleteSession(ctx, sessionID)
}

func (h CLIHandler) Reindex(ctx context.Context) error {
	return h.usecase.Reindex(ctx, dto.ReindexInput{})
}

func (h CLIHandler) IndexStatus(ctx context.Context) (dto.IndexOutput, error) {
	return h.usecase.IndexStatus(ctx)
}
