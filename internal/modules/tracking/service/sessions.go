package service

import (
	"context"
	"fmt"

	"irctrack/internal/modules/tracking/domain"
	apperrors "irctrack/internal/platform/errors"
)

func (s *TrackingService) ListSessions(ctx context.Context, requestID string) ([]domain.Session, error) {
	sessions, issues, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read sessions: %w", err)
	}
	s.observe(issues)
	if requestID == "" {
		return sessions, nil
	}
	out := make([]domain.Session, 0)
	for _, session := range sessions {
		if session.RequestID == requestID {
			out = append(out, session)
		}
	}
	return out, nil
}

// AddSession appends a session to an existing request. Service and requester
// are copied from the parent; a dosimetry session without a month tag is
// tagged with its date's month.
func (s *TrackingService) AddSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	parent, err := s.findRequest(ctx, session.RequestID)
	if err != nil {
		return domain.Session{}, err
	}
	session.ID = s.sessionIDs.New()
	session.RowIndex = -1
	if session.Date.IsZero() {
		session.Date = domain.Day(s.clock.Now())
	}
	if session.Kind == "" {
		session.Kind = domain.SessionPerformed
	}
	fillFromParent(&session, parent)
	if err := session.Validate(); err != nil {
		return domain.Session{}, validation(err)
	}
	if err := s.sessions.Append(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("append session: %w", err)
	}
	s.logger.Info("session added", "session", session.ID, "request", session.RequestID, "kind", session.Kind)
	return session, nil
}

// UpdateSession replaces the stored row of an existing session wholesale.
func (s *TrackingService) UpdateSession(ctx context.Context, session domain.Session) (domain.Session, error) {
	current, err := s.findSession(ctx, session.ID)
	if err != nil {
		return domain.Session{}, err
	}
	if session.RequestID == "" {
		session.RequestID = current.RequestID
	}
	if session.Date.IsZero() {
		session.Date = current.Date
	}
	if session.Kind == "" {
		session.Kind = current.Kind
	}
	session.RowIndex = current.RowIndex
	if parent, err := s.findRequest(ctx, session.RequestID); err == nil {
		fillFromParent(&session, parent)
	}
	if err := session.Validate(); err != nil {
		return domain.Session{}, validation(err)
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return domain.Session{}, fmt.Errorf("update session %s: %w", session.ID, err)
	}
	return session, nil
}

func (s *TrackingService) DeleteSession(ctx context.Context, sessionID string) error {
	session, err := s.findSession(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, session); err != nil {
		return fmt.Errorf("delete session %s: %w", sessionID, err)
	}
	s.logger.Info("session deleted", "session", sessionID, "request", session.RequestID)
	return nil
}

func (s *TrackingService) findSession(ctx context.Context, sessionID string) (domain.Session, error) {
	sessions, err := s.ListSessions(ctx, "")
	if err != nil {
		return domain.Session{}, err
	}
	for _, session := range sessions {
		if session.ID == sessionID {
			return session, nil
		}
	}
	return domain.Session{}, fmt.Errorf("session %s: %w", sessionID, apperrors.ErrNotFound)
}

func fillFromParent(session *domain.Session, parent domain.Request) {
	if session.Service == "" {
		session.Service = parent.Service
	}
	if session.Requester == "" {
		session.Requester = parent.Requester.Name
	}
	if parent.Category == domain.CategoryDosimetry && session.MonthTag == "" && session.Kind == domain.SessionPerformed {
		session.MonthTag = session.Date.Format("2006-01")
	}
}
