package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

type fakeQRTokenStore struct {
	active      *models.QRToken
	activeReads int
	creates     int
	// createErr forces the outcome of the insert, simulating the
	// one-active-per-employee index rejecting a concurrent duplicate. When
	// it fires, concurrentRow becomes the visible active token, as if the
	// other caller's insert had just committed.
	createErr     error
	concurrentRow *models.QRToken
}

func (f *fakeQRTokenStore) Create(ctx context.Context, t *models.QRToken) error {
	f.creates++
	if f.createErr != nil {
		f.active = f.concurrentRow
		return f.createErr
	}
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	f.active = t
	return nil
}

func (f *fakeQRTokenStore) GetActiveByEmployee(ctx context.Context, employeID uuid.UUID) (*models.QRToken, error) {
	f.activeReads++
	if f.active == nil {
		return nil, repositories.ErrNotFound
	}
	return f.active, nil
}

func (f *fakeQRTokenStore) RevokeActive(ctx context.Context, employeID uuid.UUID) error {
	if f.active != nil {
		f.active.Status = models.TokenStatusRevoked
		f.active = nil
	}
	return nil
}

func TestGetOrCreateReturnsExistingToken(t *testing.T) {
	employeID := uuid.New()
	existing := &models.QRToken{ID: uuid.New(), EmployeID: employeID, Token: "existing", Status: models.TokenStatusActive}
	store := &fakeQRTokenStore{active: existing}

	svc := NewTokenService(store, &fakeAuditLogger{}, nil, nil, "http://localhost:3000", zap.NewNop())

	got, err := svc.GetOrCreate(context.Background(), employeID, uuid.New())
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if got.Token != "existing" {
		t.Errorf("token = %q, want the existing one", got.Token)
	}
	if store.creates != 0 {
		t.Errorf("creates = %d, want 0", store.creates)
	}
}

func TestGetOrCreateIssuesFirstToken(t *testing.T) {
	employeID := uuid.New()
	store := &fakeQRTokenStore{}
	audit := &fakeAuditLogger{}

	svc := NewTokenService(store, audit, nil, nil, "http://localhost:3000", zap.NewNop())

	got, err := svc.GetOrCreate(context.Background(), employeID, uuid.New())
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if got.Status != models.TokenStatusActive || got.Token == "" {
		t.Errorf("issued token = %+v", got)
	}
	if len(audit.entries) != 1 || audit.entries[0].Action != models.ActionTokenIssued {
		t.Errorf("expected one token_issued audit entry, got %v", audit.entries)
	}
}

func TestGetOrCreateLostInsertRace(t *testing.T) {
	employeID := uuid.New()
	winner := &models.QRToken{ID: uuid.New(), EmployeID: employeID, Token: "winner", Status: models.TokenStatusActive}

	// First read misses, our insert trips the one-active-per-employee
	// index because a concurrent caller got there first, and the re-read
	// must hand back their token instead of surfacing the violation.
	store := &fakeQRTokenStore{
		createErr:     &pgconn.PgError{Code: "23505"},
		concurrentRow: winner,
	}
	svc := NewTokenService(store, &fakeAuditLogger{}, nil, nil, "http://localhost:3000", zap.NewNop())

	got, err := svc.GetOrCreate(context.Background(), employeID, uuid.New())
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if got.Token != "winner" {
		t.Errorf("token = %q, want the concurrent caller's", got.Token)
	}
	if store.creates != 1 {
		t.Errorf("creates = %d, want 1", store.creates)
	}
	if store.activeReads != 2 {
		t.Errorf("active reads = %d, want miss then re-read", store.activeReads)
	}
}
