package domain

import "time"

const (
	OverdueAfterDays      = 7
	PendingAttentionAfter = 10
)

// Report is the reconciled view of one request.
type Report struct {
	RequestID         string
	Service           string
	Category          Category
	Status            Status
	StoredStatus      Status
	Percentage        float64
	CompletedCount    float64
	ExpectedCount     float64
	Label             string
	SessionsPerformed int
	SessionsPlanned   int
	LastPerformedDate time.Time
	NextPlannedDate   time.Time
	DaysSinceActivity int
	Overdue           bool
	NeedsAttention    bool
}

// Reconcile computes the report for req. A request at 100% is reported as
// Completed whatever its stored status, Cancelled included; otherwise the
// stored status passes through. Days since activity are measured from the
// latest performed session and are zero when there is none.
func Reconcile(req Request, sessions []Session, today time.Time) Report {
	progress := CalculateProgress(req, sessions)

	report := Report{
		RequestID:      req.ID,
		Service:        req.Service,
		Category:       req.Category,
		StoredStatus:   req.Status,
		Status:         req.Status,
		Percentage:     progress.Percentage,
		CompletedCount: progress.Completed,
		ExpectedCount:  progress.Expected,
		Label:          progress.Label,
	}
	if progress.Percentage >= 100 {
		report.Status = StatusCompleted
	}

	for _, s := range sessions {
		switch s.Kind {
		case SessionPerformed:
			report.SessionsPerformed++
			if !s.Date.IsZero() && s.Date.After(report.LastPerformedDate) {
				report.LastPerformedDate = s.Date
			}
		case SessionPlanned:
			report.SessionsPlanned++
			if !s.Date.IsZero() && (report.NextPlannedDate.IsZero() || s.Date.Before(report.NextPlannedDate)) {
				report.NextPlannedDate = s.Date
			}
		}
	}

	if !report.LastPerformedDate.IsZero() {
		report.DaysSinceActivity = DaysBetween(report.LastPerformedDate, today)
	}
	report.Overdue = report.Percentage < 100 && report.DaysSinceActivity > OverdueAfterDays
	report.NeedsAttention = report.Overdue ||
		(req.Status == StatusPending && report.DaysSinceActivity > PendingAttentionAfter)
	return report
}
