package usecase

import (
	"context"
	"fmt"
	"strings"

	"irctrack/internal/modules/tracking/domain"
	"irctrack/internal/modules/tracking/dto"
	trackingin "irctrack/internal/modules/tracking/port/in"
	"irctrack/internal/modules/tracking/service"
	apperrors "irctrack/internal/platform/errors"
)

type Interactor struct {
	svc *service.TrackingService
}

func NewInteractor(svc *service.TrackingService) trackingin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) Summary(ctx context.Context, input dto.SummaryInput) (dto.SummaryOutput, error) {
	summary, issues, err := i.svc.Summary(ctx, input.Refresh)
	if err != nil {
		return dto.SummaryOutput{}, err
	}
	return dto.SummaryOutput{
		Total:            summary.Total,
		Pending:          summary.Pending,
		InProgress:       summary.InProgress,
		Completed:        summary.Completed,
		Cancelled:        summary.Cancelled,
		Overdue:          summary.Overdue,
		NeedsAttention:   summary.NeedsAttention,
		AttentionIDs:     summary.AttentionIDs,
		SessionsToday:    summary.SessionsToday,
		SessionsThisWeek: summary.SessionsThisWeek,
		Issues:           issues,
		Buckets:          statusBuckets(summary),
	}, nil
}

func statusBuckets(summary domain.Summary) []dto.StatusCount {
	out := make([]dto.StatusCount, 0, len(domain.Statuses))
	for _, status := range domain.Statuses {
		out = append(out, dto.StatusCount{
			Status: string(status),
			Label:  status.Label(),
			Color:  status.Color(),
			Count:  summary.Count(status),
		})
	}
	return out
}

func (i *Interactor) Reports(ctx context.Context, input dto.ReportsInput) ([]dto.ReportOutput, error) {
	snap, err := i.svc.Snapshot(ctx, input.Refresh)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ReportOutput, 0, len(snap.Reports))
	for _, report := range snap.Reports {
		out = append(out, toReportOutput(report))
	}
	return out, nil
}

func (i *Interactor) Report(ctx context.Context, requestID string) (dto.ReportOutput, error) {
	report, err := i.svc.Report(ctx, strings.TrimSpace(requestID))
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return toReportOutput(report), nil
}

func (i *Interactor) ListRequests(ctx context.Context) ([]dto.RequestOutput, error) {
	requests, err := i.svc.ListRequests(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RequestOutput, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRequestOutput(req))
	}
	return out, nil
}

func (i *Interactor) AddRequest(ctx context.Context, input dto.AddRequestInput) (dto.RequestOutput, error) {
	category := domain.Category(strings.ToLower(strings.TrimSpace(input.Category)))
	if category == "" {
		category = domain.CategoryForService(input.Service)
	}
	if err := category.Validate(); err != nil {
		return dto.RequestOutput{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	userType := domain.UserType(strings.ToUpper(strings.TrimSpace(input.UserType)))
	req, err := i.svc.AddRequest(ctx, service.NewRequest{
		Service:       input.Service,
		Category:      category,
		Detail:        detailFromInput(category, input),
		EstimatedCost: input.EstimatedCost,
		Observations:  input.Observations,
		Requester: domain.Requester{
			Name:                  strings.TrimSpace(input.Name),
			Email:                 strings.TrimSpace(input.Email),
			Phone:                 input.Phone,
			Organisation:          input.Organisation,
			Department:            input.Department,
			PrincipalInvestigator: input.PrincipalInvestigator,
			UserType:              userType,
			BillingOrganisation:   input.BillingOrganisation,
			BillingDepartment:     input.BillingDepartment,
			CIF:                   input.CIF,
			FiscalAddress:         input.FiscalAddress,
			PostalAddress:         input.PostalAddress,
			AccountingOffice:      input.AccountingOffice,
			ManagingBody:          input.ManagingBody,
			ManagingCentre:        input.ManagingCentre,
			Project:               input.Project,
			AccountingNumber:      input.AccountingNumber,
		},
	})
	if err != nil {
		return dto.RequestOutput{}, err
	}
	return toRequestOutput(req), nil
}

func (i *Interactor) UpdateStatus(ctx context.Context, input dto.UpdateStatusInput) (dto.RequestOutput, error) {
	status, err := domain.ParseStatus(input.Status)
	if err != nil {
		return dto.RequestOutput{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	req, err := i.svc.UpdateStatus(ctx, strings.TrimSpace(input.RequestID), status)
	if err != nil {
		return dto.RequestOutput{}, err
	}
	return toRequestOutput(req), nil
}

func (i *Interactor) NormalizeStatuses(ctx context.Context) (dto.NormalizeOutput, error) {
	ids, err := i.svc.NormalizeStatuses(ctx)
	return dto.NormalizeOutput{Rewritten: ids}, err
}

func (i *Interactor) ListSessions(ctx context.Context, requestID string) ([]dto.SessionOutput, error) {
	sessions, err := i.svc.ListSessions(ctx, strings.TrimSpace(requestID))
	if err != nil {
		return nil, err
	}
	out := make([]dto.SessionOutput, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, toSessionOutput(session))
	}
	return out, nil
}

func (i *Interactor) AddSession(ctx context.Context, input dto.SessionInput) (dto.SessionOutput, error) {
	session, err := sessionFromInput(input)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	created, err := i.svc.AddSession(ctx, session)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(created), nil
}

func (i *Interactor) UpdateSession(ctx context.Context, input dto.SessionInput) (dto.SessionOutput, error) {
	if strings.TrimSpace(input.ID) == "" {
		return dto.SessionOutput{}, fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	session, err := sessionFromInput(input)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	session.ID = strings.TrimSpace(input.ID)
	updated, err := i.svc.UpdateSession(ctx, session)
	if err != nil {
		return dto.SessionOutput{}, err
	}
	return toSessionOutput(updated), nil
}

func (i *Interactor) DeleteSession(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("%w: session id is required", apperrors.ErrInvalidInput)
	}
	return i.svc.DeleteSession(ctx, strings.TrimSpace(sessionID))
}

func (i *Interactor) Reindex(ctx context.Context, _ dto.ReindexInput) error {
	return i.svc.Reindex(ctx)
}

func (i *Interactor) IndexStatus(ctx context.Context) (dto.IndexOutput, error) {
	n, err := i.svc.IndexedReports(ctx)
	if err != nil {
		return dto.IndexOutput{}, err
	}
	return dto.IndexOutput{Reports: n}, nil
}

func detailFromInput(category domain.Category, input dto.AddRequestInput) domain.Detail {
	switch category {
	case domain.CategoryIrradiation:
		return domain.IrradiationDetail{Canisters: input.Canisters, DosePerCanisterGy: input.DosePerCanisterGy, Irradiations: input.Irradiations}
	case domain.CategoryDosimetry:
		return domain.DosimetryDetail{Months: input.Months, Dosimeters: input.Dosimeters}
	case domain.CategoryCounter:
		return domain.CounterDetail{Hours: input.Hours}
	case domain.CategoryWasteManagement:
		return domain.WasteDetail{Description: input.WasteDescription}
	default:
		return domain.GenericDetail{Fields: map[string]any{}}
	}
}

func sessionFromInput(input dto.SessionInput) (domain.Session, error) {
	date, err := domain.ParseDate(input.Date)
	if err != nil {
		return domain.Session{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
	}
	var kind domain.SessionKind
	if strings.TrimSpace(input.Kind) != "" {
		kind, err = domain.ParseSessionKind(input.Kind)
		if err != nil {
			return domain.Session{}, fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
		}
	}
	return domain.Session{
		RequestID:        strings.TrimSpace(input.RequestID),
		Date:             date,
		Kind:             kind,
		Units:            input.Units,
		DoseGy:           input.DoseGy,
		MonthTag:         strings.TrimSpace(input.MonthTag),
		Dosimeters:       input.Dosimeters,
		Hours:            input.Hours,
		WasteDescription: input.WasteDescription,
		Notes:            input.Notes,
		Operator:         input.Operator,
		Cost:             input.Cost,
	}, nil
}

func toReportOutput(r domain.Report) dto.ReportOutput {
	return dto.ReportOutput{
		RequestID:         r.RequestID,
		Service:           r.Service,
		Category:          string(r.Category),
		Status:            string(r.Status),
		StatusLabel:       r.Status.Label(),
		StatusColor:       r.Status.Color(),
		StoredStatus:      string(r.StoredStatus),
		Percentage:        r.Percentage,
		Completed:         r.CompletedCount,
		Expected:          r.ExpectedCount,
		Label:             r.Label,
		SessionsPerformed: r.SessionsPerformed,
		SessionsPlanned:   r.SessionsPlanned,
		LastPerformed:     domain.FormatDate(r.LastPerformedDate),
		NextPlanned:       domain.FormatDate(r.NextPlannedDate),
		DaysSinceActivity: r.DaysSinceActivity,
		Overdue:           r.Overdue,
		NeedsAttention:    r.NeedsAttention,
	}
}

func toRequestOutput(r domain.Request) dto.RequestOutput {
	return dto.RequestOutput{
		ID:            r.ID,
		SubmittedAt:   domain.FormatDate(r.SubmittedAt),
		Status:        string(r.Status),
		StatusLabel:   r.Status.Label(),
		Service:       r.Service,
		Category:      string(r.Category),
		Requester:     r.Requester.Name,
		Email:         r.Requester.Email,
		UserType:      string(r.Requester.UserType),
		EstimatedCost: r.EstimatedCost,
		Detail:        domain.EncodeDetail(r.Detail),
	}
}

func toSessionOutput(s domain.Session) dto.SessionOutput {
	return dto.SessionOutput{
		ID:               s.ID,
		RequestID:        s.RequestID,
		Date:             domain.FormatDate(s.Date),
		Kind:             string(s.Kind),
		Service:          s.Service,
		Units:            s.Units,
		DoseGy:           s.DoseGy,
		MonthTag:         s.MonthTag,
		Dosimeters:       s.Dosimeters,
		Hours:            s.Hours,
		WasteDescription: s.WasteDescription,
		Notes:            s.Notes,
		Operator:         s.Operator,
	}
}
