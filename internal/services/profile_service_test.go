package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

type fakeTokenStore struct {
	tokens map[string]*models.QRToken
}

func (f *fakeTokenStore) GetByToken(ctx context.Context, token string) (*models.QRToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return t, nil
}

type fakeEmployeeStore struct {
	employees map[uuid.UUID]*models.EmployeeWithDepartment
}

func (f *fakeEmployeeStore) GetByIDWithDepartment(ctx context.Context, id uuid.UUID) (*models.EmployeeWithDepartment, error) {
	e, ok := f.employees[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return e, nil
}

type fakeVisibilityStore struct {
	public map[uuid.UUID]map[string]bool
}

func (f *fakeVisibilityStore) PublicMap(ctx context.Context, employeID uuid.UUID) (map[string]bool, error) {
	return f.public[employeID], nil
}

type fakeCache struct {
	data map[string][]byte
	ttls map[string]time.Duration
	sets int
}

func (f *fakeCache) Get(ctx context.Context, token string) ([]byte, error) {
	return f.data[token], nil
}

func (f *fakeCache) Set(ctx context.Context, token string, data []byte, ttl time.Duration) error {
	if f.data == nil {
		f.data = map[string][]byte{}
		f.ttls = map[string]time.Duration{}
	}
	f.data[token] = data
	f.ttls[token] = ttl
	f.sets++
	return nil
}

func (f *fakeCache) Del(ctx context.Context, tokens ...string) error {
	for _, t := range tokens {
		delete(f.data, t)
	}
	return nil
}

func sptr(s string) *string { return &s }

func newProfileFixture(t *testing.T) (*ProfileService, *fakeTokenStore, *fakeEmployeeStore, *fakeVisibilityStore, *fakeCache, uuid.UUID) {
	t.Helper()

	employeID := uuid.New()
	tokens := &fakeTokenStore{tokens: map[string]*models.QRToken{}}
	employees := &fakeEmployeeStore{employees: map[uuid.UUID]*models.EmployeeWithDepartment{
		employeID: {
			Employee: models.Employee{
				ID:        employeID,
				Matricule: "EMP001",
				Nom:       "Khan",
				Prenom:    "Sarah",
				Poste:     sptr("Developpeuse"),
				Email:     sptr("sarah.khan@example.fr"),
				Telephone: sptr("0601020304"),
				IsActive:  true,
			},
			DepartementNom: sptr("Informatique"),
		},
	}}
	visibility := &fakeVisibilityStore{public: map[uuid.UUID]map[string]bool{}}
	cache := &fakeCache{}

	svc := NewProfileService(tokens, employees, visibility, cache, time.Minute, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC) }

	return svc, tokens, employees, visibility, cache, employeID
}

func TestResolvePublicFieldFiltering(t *testing.T) {
	svc, tokens, _, visibility, _, employeID := newProfileFixture(t)

	tokens.tokens["tok-khan"] = &models.QRToken{EmployeID: employeID, Token: "tok-khan", Status: models.TokenStatusActive}
	visibility.public[employeID] = map[string]bool{
		models.FieldNom:       true,
		models.FieldPrenom:    true,
		models.FieldPoste:     true,
		models.FieldEmail:     false,
		models.FieldTelephone: false,
	}

	res, err := svc.Resolve(context.Background(), "tok-khan")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Status != ProfileStatusOK {
		t.Fatalf("status = %q, want %q", res.Status, ProfileStatusOK)
	}

	want := map[string]string{
		models.FieldNom:    "Khan",
		models.FieldPrenom: "Sarah",
		models.FieldPoste:  "Developpeuse",
	}
	if len(res.Profile) != len(want) {
		t.Errorf("profile has %d fields, want %d: %v", len(res.Profile), len(want), res.Profile)
	}
	for k, v := range want {
		if res.Profile[k] != v {
			t.Errorf("profile[%q] = %q, want %q", k, res.Profile[k], v)
		}
	}
	// Non-public fields must be absent, not empty.
	if _, ok := res.Profile[models.FieldEmail]; ok {
		t.Error("email should not be present in the projection")
	}
	if _, ok := res.Profile[models.FieldMatricule]; ok {
		t.Error("matricule has no visibility entry and should be omitted")
	}
}

func TestResolvePublicSharedButEmptyField(t *testing.T) {
	svc, tokens, employees, visibility, _, employeID := newProfileFixture(t)

	employees.employees[employeID].PhotoURL = nil
	tokens.tokens["tok"] = &models.QRToken{EmployeID: employeID, Token: "tok", Status: models.TokenStatusActive}
	visibility.public[employeID] = map[string]bool{models.FieldPhotoURL: true}

	res, err := svc.Resolve(context.Background(), "tok")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	// Shared-but-null comes back as an empty string so the consumer can tell
	// it apart from not-shared.
	v, ok := res.Profile[models.FieldPhotoURL]
	if !ok {
		t.Fatal("photo_url is public and should be present even when null")
	}
	if v != "" {
		t.Errorf("photo_url = %q, want empty string", v)
	}
}

func TestResolvePublicStatuses(t *testing.T) {
	svc, tokens, employees, _, _, employeID := newProfileFixture(t)

	now := svc.now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	inactiveID := uuid.New()
	employees.employees[inactiveID] = &models.EmployeeWithDepartment{
		Employee: models.Employee{ID: inactiveID, Matricule: "EMP002", Nom: "Martin", Prenom: "Luc", IsActive: false},
	}

	tokens.tokens["expired"] = &models.QRToken{EmployeID: employeID, Status: models.TokenStatusActive, ExpiresAt: &past}
	tokens.tokens["revoked"] = &models.QRToken{EmployeID: employeID, Status: models.TokenStatusRevoked}
	tokens.tokens["live"] = &models.QRToken{EmployeID: employeID, Status: models.TokenStatusActive, ExpiresAt: &future}
	tokens.tokens["inactive-emp"] = &models.QRToken{EmployeID: inactiveID, Status: models.TokenStatusActive, ExpiresAt: &past}
	tokens.tokens["orphan"] = &models.QRToken{EmployeID: uuid.New(), Status: models.TokenStatusActive}

	tests := []struct {
		token  string
		status string
	}{
		{"live", ProfileStatusOK},
		{"expired", ProfileStatusExpired},
		{"revoked", ProfileStatusInvalid},
		{"unknown-token", ProfileStatusInvalid},
		{"", ProfileStatusInvalid},
		// Inactive employee wins over expiry.
		{"inactive-emp", ProfileStatusInvalid},
		{"orphan", ProfileStatusInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			res, err := svc.Resolve(context.Background(), tt.token)
			if err != nil {
				t.Fatalf("Resolve(%q) error = %v", tt.token, err)
			}
			if res.Status != tt.status {
				t.Errorf("status = %q, want %q", res.Status, tt.status)
			}
			if tt.status != ProfileStatusOK && len(res.Profile) != 0 {
				t.Errorf("non-ok result should carry no profile, got %v", res.Profile)
			}
		})
	}
}

func TestResolvePublicCaching(t *testing.T) {
	svc, tokens, _, visibility, cache, employeID := newProfileFixture(t)

	soon := svc.now().Add(10 * time.Second)
	tokens.tokens["ok"] = &models.QRToken{EmployeID: employeID, Status: models.TokenStatusActive, ExpiresAt: &soon}
	tokens.tokens["revoked"] = &models.QRToken{EmployeID: employeID, Status: models.TokenStatusRevoked}
	visibility.public[employeID] = map[string]bool{models.FieldNom: true}

	if _, err := svc.Resolve(context.Background(), "ok"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache sets = %d, want 1", cache.sets)
	}
	// TTL must not outlive the token.
	if ttl := cache.ttls["ok"]; ttl != 10*time.Second {
		t.Errorf("cache ttl = %v, want 10s", ttl)
	}

	// Second resolve is served from cache.
	res, err := svc.Resolve(context.Background(), "ok")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if res.Status != ProfileStatusOK || res.Profile[models.FieldNom] != "Khan" {
		t.Errorf("cached result = %+v", res)
	}
	if cache.sets != 1 {
		t.Errorf("cache sets = %d after cached read, want still 1", cache.sets)
	}

	// Negative outcomes are never cached.
	if _, err := svc.Resolve(context.Background(), "revoked"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if _, ok := cache.data["revoked"]; ok {
		t.Error("invalid result should not be cached")
	}
}
