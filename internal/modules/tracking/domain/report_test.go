package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"irctrack/internal/modules/tracking/domain"
)

func TestReconcileForcesCompletedAtFullProgress(t *testing.T) {
	t.Parallel()
	for _, stored := range []domain.Status{domain.StatusPending, domain.StatusInProgress, domain.StatusCompleted, domain.StatusCancelled} {
		req := irradiation("IRC-Sol-a", 2)
		req.Status = stored
		s := performed("IRC-Sol-a", "2025-03-01")
		s.Units = 2

		report := domain.Reconcile(req, []domain.Session{s}, day("2025-03-02"))
		assert.Equal(t, domain.StatusCompleted, report.Status, stored)
		assert.Equal(t, stored, report.StoredStatus)
	}
}

func TestReconcilePassesStoredStatusBelowFullProgress(t *testing.T) {
	t.Parallel()
	req := irradiation("IRC-Sol-a", 10)
	req.Status = domain.StatusPending
	report := domain.Reconcile(req, nil, day("2025-03-02"))
	assert.Equal(t, domain.StatusPending, report.Status)
	assert.Equal(t, 0, report.DaysSinceActivity)
	assert.False(t, report.Overdue)
	assert.False(t, report.NeedsAttention)
}

func TestReconcileActivityDates(t *testing.T) {
	t.Parallel()
	req := irradiation("IRC-Sol-a", 10)
	s1 := performed("IRC-Sol-a", "2025-03-01")
	s1.Units = 1
	s2 := performed("IRC-Sol-a", "2025-03-05")
	s2.Units = 1
	sessions := []domain.Session{s1, s2, planned("IRC-Sol-a", "2025-03-20"), planned("IRC-Sol-a", "2025-03-15")}

	report := domain.Reconcile(req, sessions, day("2025-03-14"))
	assert.Equal(t, 2, report.SessionsPerformed)
	assert.Equal(t, 2, report.SessionsPlanned)
	assert.Equal(t, day("2025-03-05"), report.LastPerformedDate)
	assert.Equal(t, day("2025-03-15"), report.NextPlannedDate)
	assert.Equal(t, 9, report.DaysSinceActivity)
	assert.True(t, report.Overdue)
	assert.True(t, report.NeedsAttention)
}

func TestReconcileOverdueThreshold(t *testing.T) {
	t.Parallel()
	req := irradiation("IRC-Sol-a", 10)
	s := performed("IRC-Sol-a", "2025-03-01")
	s.Units = 1

	assert.False(t, domain.Reconcile(req, []domain.Session{s}, day("2025-03-08")).Overdue)
	assert.True(t, domain.Reconcile(req, []domain.Session{s}, day("2025-03-09")).Overdue)
}

func TestPendingAttentionUsesPerformedActivity(t *testing.T) {
	t.Parallel()
	req := domain.Request{ID: "IRC-Sol-w", Category: domain.CategoryWasteManagement, Status: domain.StatusPending, Detail: domain.WasteDetail{}}

	// A pending request with no sessions has no activity to measure.
	assert.False(t, domain.Reconcile(req, nil, day("2025-06-01")).NeedsAttention)

	report := domain.Reconcile(req, []domain.Session{performed("IRC-Sol-w", "2025-05-01")}, day("2025-05-12"))
	assert.Equal(t, 11, report.DaysSinceActivity)
	assert.Equal(t, domain.StatusCompleted, report.Status)
	assert.False(t, report.Overdue)
	assert.True(t, report.NeedsAttention)
}
