package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"irctrack/internal/modules/tracking/domain"
)

func TestSummarizeCountsBuckets(t *testing.T) {
	t.Parallel()
	reports := []domain.Report{
		{RequestID: "a", Status: domain.StatusPending},
		{RequestID: "b", Status: domain.StatusInProgress, Overdue: true, NeedsAttention: true},
		{RequestID: "c", Status: domain.StatusCompleted},
		{RequestID: "d", Status: domain.StatusInProgress},
	}
	summary := domain.Summarize(reports, nil, day("2025-03-12"))

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, summary.Total, summary.Pending+summary.InProgress+summary.Completed)
	assert.Equal(t, 2, summary.InProgress)
	assert.Equal(t, 1, summary.Overdue)
	assert.Equal(t, []string{"b"}, summary.AttentionIDs)
	assert.Zero(t, summary.Cancelled)
}

func TestSummarizeCancelledBucket(t *testing.T) {
	t.Parallel()
	summary := domain.Summarize([]domain.Report{
		{RequestID: "a", Status: domain.StatusCancelled},
		{RequestID: "b", Status: domain.StatusPending},
	}, nil, day("2025-03-12"))
	assert.Equal(t, 1, summary.Cancelled)
	assert.Equal(t, summary.Total, summary.Pending+summary.InProgress+summary.Completed+summary.Cancelled)
}

func TestSummarizeSessionWindows(t *testing.T) {
	t.Parallel()
	reports := []domain.Report{{RequestID: "a", Status: domain.StatusInProgress}}
	sessions := []domain.Session{
		performed("a", "2025-03-12"), // Wednesday, today
		planned("a", "2025-03-12"),
		planned("a", "2025-03-10"),   // Monday
		performed("a", "2025-03-16"), // Sunday
		performed("a", "2025-03-17"), // next Monday
		performed("a", "2025-03-09"), // previous Sunday
		performed("ghost", "2025-03-12"),
	}
	summary := domain.Summarize(reports, sessions, day("2025-03-12"))
	assert.Equal(t, 2, summary.SessionsToday)
	assert.Equal(t, 4, summary.SessionsThisWeek)
}

func TestSummarizeDoesNotMutateInputs(t *testing.T) {
	t.Parallel()
	reports := []domain.Report{{RequestID: "a", Status: domain.StatusPending, NeedsAttention: true}}
	sessions := []domain.Session{performed("a", "2025-03-12")}
	first := domain.Summarize(reports, sessions, day("2025-03-12"))
	second := domain.Summarize(reports, sessions, day("2025-03-12"))
	assert.Equal(t, first, second)
	assert.Equal(t, "a", reports[0].RequestID)
}

func TestWeekBounds(t *testing.T) {
	t.Parallel()
	start, end := domain.WeekBounds(day("2025-03-16"))
	assert.Equal(t, day("2025-03-10"), start)
	assert.Equal(t, day("2025-03-16"), end)
}
