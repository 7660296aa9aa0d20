package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/events"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

var (
	// ErrAlreadyDecided is the single-decision guard: a request in a
	// terminal status cannot be decided again. Maps to 409.
	ErrAlreadyDecided = errors.New("request already decided")

	ErrInvalidTargetField = errors.New("target field cannot be changed through a modification request")
	ErrNotOwnRecord       = errors.New("requests can only target your own employee record")
)

type RequestStore interface {
	Create(ctx context.Context, m *models.ModificationRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ModificationRequest, error)
	Decide(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, comment *string) (bool, error)
	List(ctx context.Context, f repositories.RequestFilter) ([]models.RequestWithEmployee, error)
	Count(ctx context.Context, f repositories.RequestFilter) (int, error)
}

type AuditLogger interface {
	Log(ctx context.Context, entry models.AuditLog) error
}

type RequestService struct {
	requests  RequestStore
	audit     AuditLogger
	publisher events.Publisher
	log       *zap.Logger
}

func NewRequestService(requests RequestStore, audit AuditLogger, publisher events.Publisher, log *zap.Logger) *RequestService {
	return &RequestService{requests: requests, audit: audit, publisher: publisher, log: log}
}

type SubmitRequestInput struct {
	TargetField string
	OldValue    *string
	NewValue    *string
	Reason      *string
}

// Submit creates a pending request on the requester's own employee record.
func (s *RequestService) Submit(ctx context.Context, requesterUserID uuid.UUID, requesterEmployeID *uuid.UUID, input SubmitRequestInput) (*models.ModificationRequest, error) {
	if requesterEmployeID == nil {
		return nil, ErrNotOwnRecord
	}
	if !models.IsRequestTargetField(input.TargetField) {
		return nil, ErrInvalidTargetField
	}

	m := &models.ModificationRequest{
		EmployeID:       *requesterEmployeID,
		RequesterUserID: requesterUserID,
		TargetField:     input.TargetField,
		OldValue:        input.OldValue,
		NewValue:        input.NewValue,
		Reason:          input.Reason,
		Status:          models.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, m); err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &requesterUserID,
		Action:      models.ActionRequestSubmitted,
		TargetType:  models.TargetRequest,
		TargetID:    &m.ID,
		Details:     map[string]any{"employe_id": m.EmployeID.String(), "target_field": m.TargetField},
	})
	s.publish(ctx, events.EventRequestSubmitted, m)

	return m, nil
}

// Decide moves a pending request to approved or rejected, stamping the
// deciding admin and timestamp. Approval does not write new_value into the
// employee record; propagation stays a separate explicit admin edit.
func (s *RequestService) Decide(ctx context.Context, requestID uuid.UUID, adminUserID uuid.UUID, approve bool, comment *string) (*models.ModificationRequest, error) {
	newStatus := models.RequestStatusRejected
	action := models.ActionRequestRejected
	if approve {
		newStatus = models.RequestStatusApproved
		action = models.ActionRequestApproved
	}

	m, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !models.IsValidRequestTransition(m.Status, newStatus) {
		return nil, ErrAlreadyDecided
	}

	// The WHERE status='pending' guard in the store closes the race between
	// the read above and a concurrent decision.
	ok, err := s.requests.Decide(ctx, requestID, newStatus, adminUserID, comment)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrAlreadyDecided
	}

	m, err = s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	_ = s.audit.Log(ctx, models.AuditLog{
		ActorUserID: &adminUserID,
		Action:      action,
		TargetType:  models.TargetRequest,
		TargetID:    &m.ID,
		Details:     map[string]any{"employe_id": m.EmployeID.String(), "target_field": m.TargetField, "status": newStatus},
	})
	s.publish(ctx, events.EventRequestDecided, m)

	return m, nil
}

func (s *RequestService) Get(ctx context.Context, id uuid.UUID) (*models.ModificationRequest, error) {
	return s.requests.GetByID(ctx, id)
}

// List returns one page plus the exact total for the same filter.
func (s *RequestService) List(ctx context.Context, f repositories.RequestFilter) ([]models.RequestWithEmployee, int, error) {
	total, err := s.requests.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.requests.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *RequestService) publish(ctx context.Context, eventType string, m *models.ModificationRequest) {
	if s.publisher == nil {
		return
	}
	_ = s.publisher.Publish(ctx, events.StreamRequests, events.Event{
		Type: eventType,
		Payload: map[string]any{
			"request_id":   m.ID.String(),
			"employe_id":   m.EmployeID.String(),
			"target_field": m.TargetField,
			"status":       m.Status,
		},
	})
}
