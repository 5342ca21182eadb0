package domain

import (
	"fmt"
	"strings"
	"time"
)

type SessionKind string

const (
	SessionPerformed SessionKind = "performed"
	SessionPlanned   SessionKind = "planned"
	// SessionUnknown marks a stored flag that is neither performed nor
	// planned. Such sessions count toward neither.
	SessionUnknown SessionKind = "unknown"
)

// ParseSessionKind reads the stored kind flag. An empty flag means performed.
func ParseSessionKind(text string) (SessionKind, error) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "realizada", "performed", "":
		return SessionPerformed, nil
	case "planificada", "planned":
		return SessionPlanned, nil
	default:
		return SessionUnknown, fmt.Errorf("unknown session kind %q", text)
	}
}

func (k SessionKind) Label() string {
	switch k {
	case SessionPlanned:
		return "Planificada"
	case SessionPerformed:
		return "Realizada"
	default:
		return ""
	}
}

func (k SessionKind) Validate() error {
	switch k {
	case SessionPerformed, SessionPlanned:
		return nil
	default:
		return fmt.Errorf("unsupported session kind %q", string(k))
	}
}

// Session is one unit of work against a request. Only the metrics relevant
// to the parent's category are meaningful. KindText keeps an unreadable kind
// flag so it is written back unchanged.
type Session struct {
	ID               string
	RequestID        string
	RowIndex         int
	Date             time.Time
	Kind             SessionKind
	KindText         string
	Service          string
	Requester        string
	Units            float64
	DoseGy           float64
	MonthTag         string
	Dosimeters       int
	Hours            float64
	WasteDescription string
	Notes            string
	Operator         string
	Cost             float64
}

func (s Session) Validate() error {
	if strings.TrimSpace(s.RequestID) == "" {
		return fmt.Errorf("request id is required")
	}
	if s.Date.IsZero() {
		return fmt.Errorf("session date is required")
	}
	if err := s.Kind.Validate(); err != nil {
		return err
	}
	if s.Units < 0 || s.DoseGy < 0 || s.Hours < 0 || s.Dosimeters < 0 {
		return fmt.Errorf("session metrics cannot be negative")
	}
	if s.MonthTag != "" {
		if _, err := time.Parse("2006-01", s.MonthTag); err != nil {
			return fmt.Errorf("month tag %q is not YYYY-MM", s.MonthTag)
		}
	}
	return nil
}

// Day truncates t to its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween counts whole calendar days from a to b.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}
