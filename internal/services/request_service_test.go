package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

type fakeRequestStore struct {
	requests map[uuid.UUID]*models.ModificationRequest
	// decideResult forces the outcome of the guarded UPDATE, simulating a
	// concurrent decision between GetByID and Decide.
	decideResult *bool
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: map[uuid.UUID]*models.ModificationRequest{}}
}

func (f *fakeRequestStore) Create(ctx context.Context, m *models.ModificationRequest) error {
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	cp := *m
	f.requests[m.ID] = &cp
	return nil
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id uuid.UUID) (*models.ModificationRequest, error) {
	m, ok := f.requests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (f *fakeRequestStore) Decide(ctx context.Context, id uuid.UUID, status string, decidedBy uuid.UUID, comment *string) (bool, error) {
	if f.decideResult != nil {
		return *f.decideResult, nil
	}
	m, ok := f.requests[id]
	if !ok || m.Status != models.RequestStatusPending {
		return false, nil
	}
	now := time.Now()
	m.Status = status
	m.DecidedByUserID = &decidedBy
	m.DecidedAt = &now
	m.DecisionComment = comment
	m.UpdatedAt = now
	return true, nil
}

func (f *fakeRequestStore) List(ctx context.Context, filter repositories.RequestFilter) ([]models.RequestWithEmployee, error) {
	var out []models.RequestWithEmployee
	for _, m := range f.requests {
		if filter.Status != nil && m.Status != *filter.Status {
			continue
		}
		if filter.EmployeID != nil && m.EmployeID != *filter.EmployeID {
			continue
		}
		out = append(out, models.RequestWithEmployee{ModificationRequest: *m})
	}
	return out, nil
}

func (f *fakeRequestStore) Count(ctx context.Context, filter repositories.RequestFilter) (int, error) {
	items, _ := f.List(ctx, filter)
	return len(items), nil
}

type fakeAuditLogger struct {
	entries []models.AuditLog
}

func (f *fakeAuditLogger) Log(ctx context.Context, entry models.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func TestSubmitRequest(t *testing.T) {
	store := newFakeRequestStore()
	audit := &fakeAuditLogger{}
	svc := NewRequestService(store, audit, nil, zap.NewNop())

	userID := uuid.New()
	employeID := uuid.New()

	m, err := svc.Submit(context.Background(), userID, &employeID, SubmitRequestInput{
		TargetField: models.FieldTelephone,
		OldValue:    sptr("0601020304"),
		NewValue:    sptr("0605060708"),
		Reason:      sptr("nouveau numero"),
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if m.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want pending", m.Status)
	}
	if m.EmployeID != employeID || m.RequesterUserID != userID {
		t.Error("request not bound to the requester's own record")
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != models.ActionRequestSubmitted {
		t.Errorf("expected one request_submitted audit entry, got %v", audit.entries)
	}
}

func TestSubmitRequestClearingField(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewRequestService(store, &fakeAuditLogger{}, nil, zap.NewNop())

	userID := uuid.New()
	employeID := uuid.New()

	// A nil new value asks to clear the field, e.g. removing a photo.
	m, err := svc.Submit(context.Background(), userID, &employeID, SubmitRequestInput{
		TargetField: models.FieldPhotoURL,
		OldValue:    sptr("https://cdn/old.jpg"),
		NewValue:    nil,
		Reason:      sptr("photo obsolete"),
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if m.NewValue != nil {
		t.Errorf("new_value = %v, want nil", *m.NewValue)
	}
	if m.Status != models.RequestStatusPending {
		t.Errorf("status = %q, want pending", m.Status)
	}
}

func TestSubmitRequestValidation(t *testing.T) {
	svc := NewRequestService(newFakeRequestStore(), &fakeAuditLogger{}, nil, zap.NewNop())
	userID := uuid.New()
	employeID := uuid.New()

	if _, err := svc.Submit(context.Background(), userID, nil, SubmitRequestInput{TargetField: models.FieldEmail}); !errors.Is(err, ErrNotOwnRecord) {
		t.Errorf("submit without employee link: err = %v, want ErrNotOwnRecord", err)
	}

	if _, err := svc.Submit(context.Background(), userID, &employeID, SubmitRequestInput{TargetField: "matricule"}); !errors.Is(err, ErrInvalidTargetField) {
		t.Errorf("submit with protected field: err = %v, want ErrInvalidTargetField", err)
	}
}

func TestDecideRequest(t *testing.T) {
	store := newFakeRequestStore()
	audit := &fakeAuditLogger{}
	svc := NewRequestService(store, audit, nil, zap.NewNop())

	userID := uuid.New()
	employeID := uuid.New()
	adminID := uuid.New()

	m, err := svc.Submit(context.Background(), userID, &employeID, SubmitRequestInput{
		TargetField: models.FieldEmail,
		NewValue:    sptr("new@example.fr"),
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	decided, err := svc.Decide(context.Background(), m.ID, adminID, true, sptr("ok pour moi"))
	if err != nil {
		t.Fatalf("Decide() error = %v", err)
	}
	if decided.Status != models.RequestStatusApproved {
		t.Errorf("status = %q, want approved", decided.Status)
	}
	if decided.DecidedByUserID == nil || *decided.DecidedByUserID != adminID {
		t.Error("decided_by_user_id not stamped")
	}
	if decided.DecidedAt == nil {
		t.Error("decided_at not stamped")
	}
	if decided.DecisionComment == nil || *decided.DecisionComment != "ok pour moi" {
		t.Error("decision comment not recorded")
	}

	// Second decision on the same request must be refused.
	if _, err := svc.Decide(context.Background(), m.ID, adminID, false, nil); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("re-decide: err = %v, want ErrAlreadyDecided", err)
	}

	var approvals int
	for _, e := range audit.entries {
		if e.Action == models.ActionRequestApproved {
			approvals++
		}
	}
	if approvals != 1 {
		t.Errorf("approval audit entries = %d, want exactly 1", approvals)
	}
}

func TestDecideRequestConcurrentGuard(t *testing.T) {
	store := newFakeRequestStore()
	svc := NewRequestService(store, &fakeAuditLogger{}, nil, zap.NewNop())

	userID := uuid.New()
	employeID := uuid.New()

	m, err := svc.Submit(context.Background(), userID, &employeID, SubmitRequestInput{
		TargetField: models.FieldPoste,
		NewValue:    sptr("Lead"),
	})
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	// The request still reads as pending, but the guarded UPDATE loses the
	// race: another admin decided in between.
	lost := false
	store.decideResult = &lost

	if _, err := svc.Decide(context.Background(), m.ID, uuid.New(), true, nil); !errors.Is(err, ErrAlreadyDecided) {
		t.Errorf("lost race: err = %v, want ErrAlreadyDecided", err)
	}
}

func TestDecideRequestNotFound(t *testing.T) {
	svc := NewRequestService(newFakeRequestStore(), &fakeAuditLogger{}, nil, zap.NewNop())

	if _, err := svc.Decide(context.Background(), uuid.New(), uuid.New(), true, nil); !errors.Is(err, repositories.ErrNotFound) {
		t.Errorf("unknown request: err = %v, want ErrNotFound", err)
	}
}
