package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"irctrack/internal/modules/tracking/domain"
	trackingout "irctrack/internal/modules/tracking/port/out"
	"irctrack/internal/platform/clock"
	apperrors "irctrack/internal/platform/errors"
	"irctrack/internal/platform/id"
	"irctrack/internal/platform/logging"
	"irctrack/internal/platform/metrics"
)

type TrackingService struct {
	clock      clock.Clock
	requestIDs id.Generator
	sessionIDs id.Generator
	requests   trackingout.RequestRepository
	sessions   trackingout.SessionRepository
	refresher  trackingout.Refresher
	projector  trackingout.ReportProjector
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

type Deps struct {
	Clock      clock.Clock
	RequestIDs id.Generator
	SessionIDs id.Generator
	Requests   trackingout.RequestRepository
	Sessions   trackingout.SessionRepository
	Refresher  trackingout.Refresher
	Projector  trackingout.ReportProjector
	Logger     *slog.Logger
	Metrics    *metrics.Metrics
}

func NewTrackingService(deps Deps) *TrackingService {
	if deps.Logger == nil {
		deps.Logger = logging.Discard()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	return &TrackingService{
		clock:      deps.Clock,
		requestIDs: deps.RequestIDs,
		sessionIDs: deps.SessionIDs,
		requests:   deps.Requests,
		sessions:   deps.Sessions,
		refresher:  deps.Refresher,
		projector:  deps.Projector,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
	}
}

// Snapshot is one pass of the reporting pipeline over both tables.
type Snapshot struct {
	Requests []domain.Request
	Sessions []domain.Session
	Reports  []domain.Report
	Issues   []domain.Issue
}

// Snapshot reads both tables, decodes them and reconciles every request.
// With refresh set the cache is purged first and the reports are projected
// into the local index.
func (s *TrackingService) Snapshot(ctx context.Context, refresh bool) (Snapshot, error) {
	if refresh && s.refresher != nil {
		s.refresher.Refresh()
	}
	requests, requestIssues, err := s.requests.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read requests: %w", err)
	}
	sessions, sessionIssues, err := s.sessions.List(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("read sessions: %w", err)
	}
	issues := append(requestIssues, sessionIssues...)
	s.observe(issues)

	byRequest := make(map[string][]domain.Session, len(requests))
	for _, session := range sessions {
		byRequest[session.RequestID] = append(byRequest[session.RequestID], session)
	}
	today := domain.Day(s.clock.Now())
	reports := make([]domain.Report, 0, len(requests))
	for _, req := range requests {
		reports = append(reports, domain.Reconcile(req, byRequest[req.ID], today))
	}

	if refresh {
		s.project(ctx, reports)
	}
	return Snapshot{Requests: requests, Sessions: sessions, Reports: reports, Issues: issues}, nil
}

func (s *TrackingService) Summary(ctx context.Context, refresh bool) (domain.Summary, int, error) {
	snap, err := s.Snapshot(ctx, refresh)
	if err != nil {
		return domain.Summary{}, 0, err
	}
	return domain.Summarize(snap.Reports, snap.Sessions, s.clock.Now()), len(snap.Issues), nil
}

func (s *TrackingService) Report(ctx context.Context, requestID string) (domain.Report, error) {
	snap, err := s.Snapshot(ctx, false)
	if err != nil {
		return domain.Report{}, err
	}
	for _, report := range snap.Reports {
		if report.RequestID == requestID {
			return report, nil
		}
	}
	return domain.Report{}, fmt.Errorf("request %s: %w", requestID, apperrors.ErrNotFound)
}

// Reindex rebuilds the local report index from the current tables. The
// index is only cleared once both tables have been read.
func (s *TrackingService) Reindex(ctx context.Context) error {
	if s.projector == nil {
		return nil
	}
	snap, err := s.Snapshot(ctx, false)
	if err != nil {
		return err
	}
	if err := s.projector.Reset(ctx); err != nil {
		return err
	}
	for _, report := range snap.Reports {
		if err := s.projector.UpsertReport(ctx, report); err != nil {
			return err
		}
	}
	return nil
}

// IndexedReports returns the number of reports in the local index, or zero
// when no index is configured.
func (s *TrackingService) IndexedReports(ctx context.Context) (int, error) {
	if s.projector == nil {
		return 0, nil
	}
	return s.projector.Count(ctx)
}

func (s *TrackingService) project(ctx context.Context, reports []domain.Report) {
	if s.projector == nil {
		return
	}
	for _, report := range reports {
		if err := s.projector.UpsertReport(ctx, report); err != nil {
			s.logger.Warn("project report", "request", report.RequestID, "err", err)
			return
		}
	}
}

func (s *TrackingService) observe(issues []domain.Issue) {
	for _, issue := range issues {
		s.logger.Warn("malformed field replaced by default",
			"table", issue.Table,
			"row", issue.RowIndex,
			"field", issue.Field,
			"raw", issue.Raw,
			"err", issue.Err,
		)
		s.metrics.DecodeIssues.WithLabelValues(issue.Table, issue.Field).Inc()
	}
}

func validation(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, apperrors.ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", apperrors.ErrValidation, err)
}
