package service

import (
	"context"
	"fmt"
	"strings"

	"irctrack/internal/modules/tracking/domain"
	apperrors "irctrack/internal/platform/errors"
)

// NewRequest holds what a caller supplies to open a request.
type NewRequest struct {
	Service       string
	Category      domain.Category
	Detail        domain.Detail
	Requester     domain.Requester
	Observations  string
	EstimatedCost *float64
}

// AddRequest validates and appends a new pending request. The category is
// taken from the input when given and derived from the service otherwise.
func (s *TrackingService) AddRequest(ctx context.Context, in NewRequest) (domain.Request, error) {
	category := in.Category
	if category == "" {
		category = domain.CategoryForService(in.Service)
	}
	detail := in.Detail
	if detail == nil {
		detail = domain.EmptyDetail(category)
	}
	req := domain.Request{
		ID:           s.requestIDs.New(),
		RowIndex:     -1,
		SubmittedAt:  domain.Day(s.clock.Now()),
		Status:       domain.StatusPending,
		Service:      strings.TrimSpace(in.Service),
		Category:     category,
		Detail:       detail,
		Requester:    in.Requester,
		Observations: in.Observations,
	}
	req.StatusText = req.Status.Label()
	if in.EstimatedCost != nil {
		req.EstimatedCost = *in.EstimatedCost
	} else {
		req.EstimatedCost = domain.EstimateCost(req.Service, req.Requester.UserType, detail)
	}
	if err := req.Validate(); err != nil {
		return domain.Request{}, validation(err)
	}
	if err := s.requests.Append(ctx, req); err != nil {
		return domain.Request{}, fmt.Errorf("append request: %w", err)
	}
	s.logger.Info("request added", "request", req.ID, "service", req.Service, "cost", req.EstimatedCost)
	return req, nil
}

func (s *TrackingService) ListRequests(ctx context.Context) ([]domain.Request, error) {
	requests, issues, err := s.requests.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("read requests: %w", err)
	}
	s.observe(issues)
	return requests, nil
}

// UpdateStatus records an external status edit, such as the manual move from
// Pending to InProgress once the signed form arrives.
func (s *TrackingService) UpdateStatus(ctx context.Context, requestID string, status domain.Status) (domain.Request, error) {
	if err := status.Validate(); err != nil {
		return domain.Request{}, validation(err)
	}
	req, err := s.findRequest(ctx, requestID)
	if err != nil {
		return domain.Request{}, err
	}
	req.Status = status
	req.StatusText = status.Label()
	if err := s.requests.Update(ctx, req); err != nil {
		return domain.Request{}, fmt.Errorf("update request %s: %w", requestID, err)
	}
	s.logger.Info("request status updated", "request", requestID, "status", status)
	return req, nil
}

// NormalizeStatuses rewrites readable but non-canonical status texts with the
// canonical labels. Unreadable texts are left for a person to fix.
func (s *TrackingService) NormalizeStatuses(ctx context.Context) ([]string, error) {
	requests, err := s.ListRequests(ctx)
	if err != nil {
		return nil, err
	}
	rewritten := []string{}
	for _, req := range requests {
		if req.StatusText == req.Status.Label() {
			continue
		}
		if req.StatusText != "" {
			if _, err := domain.ParseStatus(req.StatusText); err != nil {
				continue
			}
		}
		req.StatusText = req.Status.Label()
		if err := s.requests.Update(ctx, req); err != nil {
			return rewritten, fmt.Errorf("update request %s: %w", req.ID, err)
		}
		rewritten = append(rewritten, req.ID)
	}
	if len(rewritten) > 0 {
		s.logger.Info("statuses normalized", "count", len(rewritten))
	}
	return rewritten, nil
}

func (s *TrackingService) findRequest(ctx context.Context, requestID string) (domain.Request, error) {
	requests, err := s.ListRequests(ctx)
	if err != nil {
		return domain.Request{}, err
	}
	for _, req := range requests {
		if req.ID == requestID {
			return req, nil
		}
	}
	return domain.Request{}, fmt.Errorf("request %s: %w", requestID, apperrors.ErrNotFound)
}
