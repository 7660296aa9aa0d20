package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

// Public profile resolution statuses. Not-found and expired are expected
// outcomes carried in the result, never errors.
const (
	ProfileStatusOK      = "ok"
	ProfileStatusExpired = "expired"
	ProfileStatusInvalid = "invalid_or_revoked"
)

// PublicProfileResult is what /p/:token resolves to. Profile holds only the
// fields whose visibility entry is public; everything else is absent, so a
// consumer can tell "not shared" from "shared but empty".
type PublicProfileResult struct {
	Status  string            `json:"status"`
	Profile map[string]string `json:"profile,omitempty"`
}

type TokenStore interface {
	GetByToken(ctx context.Context, token string) (*models.QRToken, error)
}

type EmployeeStore interface {
	GetByIDWithDepartment(ctx context.Context, id uuid.UUID) (*models.EmployeeWithDepartment, error)
}

type VisibilityStore interface {
	PublicMap(ctx context.Context, employeID uuid.UUID) (map[string]bool, error)
}

// ProfileCache stores serialized resolution results keyed by token.
type ProfileCache interface {
	Get(ctx context.Context, token string) ([]byte, error)
	Set(ctx context.Context, token string, data []byte, ttl time.Duration) error
	Del(ctx context.Context, tokens ...string) error
}

type ProfileService struct {
	tokens     TokenStore
	employees  EmployeeStore
	visibility VisibilityStore
	cache      ProfileCache
	cacheTTL   time.Duration
	log        *zap.Logger
	now        func() time.Time
}

func NewProfileService(tokens TokenStore, employees EmployeeStore, visibility VisibilityStore, cache ProfileCache, cacheTTL time.Duration, log *zap.Logger) *ProfileService {
	return &ProfileService{
		tokens:     tokens,
		employees:  employees,
		visibility: visibility,
		cache:      cache,
		cacheTTL:   cacheTTL,
		log:        log,
		now:        time.Now,
	}
}

// Resolve maps an opaque token to a visibility-filtered projection of the
// employee. Side-effect free with respect to stored state: the same token
// and state always produce the same projection.
func (s *ProfileService) Resolve(ctx context.Context, token string) (*PublicProfileResult, error) {
	if token == "" {
		return &PublicProfileResult{Status: ProfileStatusInvalid}, nil
	}

	if s.cache != nil {
		if data, err := s.cache.Get(ctx, token); err == nil && data != nil {
			var cached PublicProfileResult
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	res, ttl, err := s.resolveUncached(ctx, token)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && res.Status == ProfileStatusOK && ttl > 0 {
		if data, err := json.Marshal(res); err == nil {
			if err := s.cache.Set(ctx, token, data, ttl); err != nil {
				s.log.Debug("profile cache set failed", zap.Error(err))
			}
		}
	}

	return res, nil
}

func (s *ProfileService) resolveUncached(ctx context.Context, token string) (*PublicProfileResult, time.Duration, error) {
	t, err := s.tokens.GetByToken(ctx, token)
	if errors.Is(err, repositories.ErrNotFound) {
		return &PublicProfileResult{Status: ProfileStatusInvalid}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}

	if t.Status != models.TokenStatusActive {
		return &PublicProfileResult{Status: ProfileStatusInvalid}, 0, nil
	}

	emp, err := s.employees.GetByIDWithDepartment(ctx, t.EmployeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return &PublicProfileResult{Status: ProfileStatusInvalid}, 0, nil
	}
	if err != nil {
		return nil, 0, err
	}
	if !emp.IsActive {
		return &PublicProfileResult{Status: ProfileStatusInvalid}, 0, nil
	}

	now := s.now()
	if !t.IsValid(now) {
		// Active but past expires_at.
		return &PublicProfileResult{Status: ProfileStatusExpired}, 0, nil
	}

	vis, err := s.visibility.PublicMap(ctx, t.EmployeID)
	if err != nil {
		return nil, 0, err
	}

	res := &PublicProfileResult{
		Status:  ProfileStatusOK,
		Profile: projectProfile(emp, vis),
	}

	ttl := s.cacheTTL
	if t.ExpiresAt != nil {
		if until := t.ExpiresAt.Sub(now); until < ttl {
			ttl = until
		}
	}
	return res, ttl, nil
}

// projectProfile emits exactly the fields flagged public. A missing
// visibility entry means the field is omitted, not nulled.
func projectProfile(emp *models.EmployeeWithDepartment, vis map[string]bool) map[string]string {
	profile := make(map[string]string)

	include := func(key, value string) {
		if vis[key] {
			profile[key] = value
		}
	}
	includeOpt := func(key string, value *string) {
		if vis[key] {
			if value != nil {
				profile[key] = *value
			} else {
				profile[key] = ""
			}
		}
	}

	include(models.FieldMatricule, emp.Matricule)
	include(models.FieldNom, emp.Nom)
	include(models.FieldPrenom, emp.Prenom)
	includeOpt(models.FieldPoste, emp.Poste)
	includeOpt(models.FieldEmail, emp.Email)
	includeOpt(models.FieldTelephone, emp.Telephone)
	includeOpt(models.FieldPhotoURL, emp.PhotoURL)
	includeOpt(models.FieldDepartement, emp.DepartementNom)

	return profile
}
