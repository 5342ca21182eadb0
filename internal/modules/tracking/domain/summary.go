package domain

import "time"

type Summary struct {
	Total            int
	Pending          int
	InProgress       int
	Completed        int
	Cancelled        int
	Overdue          int
	NeedsAttention   int
	AttentionIDs     []string
	SessionsToday    int
	SessionsThisWeek int
}

// Summarize folds reports into fleet-wide counts. Sessions of any kind are
// counted for today and for the Monday-Sunday week containing today, except
// those whose request is not among the reports.
func Summarize(reports []Report, sessions []Session, today time.Time) Summary {
	summary := Summary{Total: len(reports), AttentionIDs: []string{}}
	known := make(map[string]struct{}, len(reports))

	for _, r := range reports {
		known[r.RequestID] = struct{}{}
		switch r.Status {
		case StatusPending:
			summary.Pending++
		case StatusInProgress:
			summary.InProgress++
		case StatusCompleted:
			summary.Completed++
		case StatusCancelled:
			summary.Cancelled++
		}
		if r.Overdue {
			summary.Overdue++
		}
		if r.NeedsAttention {
			summary.NeedsAttention++
			summary.AttentionIDs = append(summary.AttentionIDs, r.RequestID)
		}
	}

	day := Day(today)
	weekStart, weekEnd := WeekBounds(day)
	for _, s := range sessions {
		if _, ok := known[s.RequestID]; !ok || s.Date.IsZero() {
			continue
		}
		d := Day(s.Date)
		if d.Equal(day) {
			summary.SessionsToday++
		}
		if !d.Before(weekStart) && !d.After(weekEnd) {
			summary.SessionsThisWeek++
		}
	}
	return summary
}

// WeekBounds returns the Monday and Sunday of the week containing day.
func WeekBounds(day time.Time) (time.Time, time.Time) {
	day = Day(day)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

// Count returns the number of requests whose effective status is status.
func (s Summary) Count(status Status) int {
	switch status {
	case StatusPending:
		return s.Pending
	case StatusInProgress:
		return s.InProgress
	case StatusCompleted:
		return s.Completed
	case StatusCancelled:
		return s.Cancelled
	default:
		return 0
	}
}
