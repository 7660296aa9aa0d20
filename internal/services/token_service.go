package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/events"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

// QRTokenStore is the persistence surface the token lifecycle needs.
type QRTokenStore interface {
	Create(ctx context.Context, t *models.QRToken) error
	GetActiveByEmployee(ctx context.Context, employeID uuid.UUID) (*models.QRToken, error)
	RevokeActive(ctx context.Context, employeID uuid.UUID) error
}

type TokenService struct {
	tokenRepo QRTokenStore
	auditRepo AuditLogger
	cache     ProfileCache
	publisher events.Publisher
	baseURL   string
	log       *zap.Logger
}

func NewTokenService(
	tokenRepo QRTokenStore,
	auditRepo AuditLogger,
	cache ProfileCache,
	publisher events.Publisher,
	baseURL string,
	log *zap.Logger,
) *TokenService {
	return &TokenService{
		tokenRepo: tokenRepo,
		auditRepo: auditRepo,
		cache:     cache,
		publisher: publisher,
		baseURL:   baseURL,
		log:       log,
	}
}

// ShareURL is the link clients embed in the QR code. Image rendering is the
// client's job; the backend only hands out the URL.
func (s *TokenService) ShareURL(t *models.QRToken) string {
	return fmt.Sprintf("%s/p/%s", s.baseURL, t.Token)
}

// GetOrCreate returns the employee's current active token, issuing one when
// none exists.
func (s *TokenService) GetOrCreate(ctx context.Context, employeID uuid.UUID, actorID uuid.UUID) (*models.QRToken, error) {
	t, err := s.tokenRepo.GetActiveByEmployee(ctx, employeID)
	if err == nil {
		return t, nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	t, err = s.issue(ctx, employeID, actorID, nil)
	if repositories.IsUniqueViolation(err, "") {
		// A concurrent first call issued between our read and insert; the
		// one-active-per-employee index rejected ours, so hand back theirs.
		return s.tokenRepo.GetActiveByEmployee(ctx, employeID)
	}
	return t, err
}

// Rotate revokes the current active token and issues a fresh one. The old
// link stops resolving immediately.
func (s *TokenService) Rotate(ctx context.Context, employeID uuid.UUID, actorID uuid.UUID, expiresAt *time.Time) (*models.QRToken, error) {
	if err := s.revokeCurrent(ctx, employeID, actorID); err != nil {
		return nil, err
	}
	return s.issue(ctx, employeID, actorID, expiresAt)
}

// Revoke revokes the active token without replacement.
func (s *TokenService) Revoke(ctx context.Context, employeID uuid.UUID, actorID uuid.UUID) error {
	return s.revokeCurrent(ctx, employeID, actorID)
}

func (s *TokenService) revokeCurrent(ctx context.Context, employeID uuid.UUID, actorID uuid.UUID) error {
	current, err := s.tokenRepo.GetActiveByEmployee(ctx, employeID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.tokenRepo.RevokeActive(ctx, employeID); err != nil {
		return err
	}
	s.invalidate(ctx, current.Token)

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionTokenRevoked,
		TargetType:  models.TargetToken,
		TargetID:    &current.ID,
		Details:     map[string]any{"employe_id": employeID.String()},
	})
	return nil
}

func (s *TokenService) issue(ctx context.Context, employeID uuid.UUID, actorID uuid.UUID, expiresAt *time.Time) (*models.QRToken, error) {
	t := &models.QRToken{
		EmployeID: employeID,
		Token:     newOpaqueToken(),
		Status:    models.TokenStatusActive,
		ExpiresAt: expiresAt,
	}
	if err := s.tokenRepo.Create(ctx, t); err != nil {
		return nil, err
	}

	_ = s.auditRepo.Log(ctx, models.AuditLog{
		ActorUserID: &actorID,
		Action:      models.ActionTokenIssued,
		TargetType:  models.TargetToken,
		TargetID:    &t.ID,
		Details:     map[string]any{"employe_id": employeID.String()},
	})
	return t, nil
}

// invalidate drops the cached public profile for a token and tells listeners
// to refetch.
func (s *TokenService) invalidate(ctx context.Context, token string) {
	if s.cache != nil {
		if err := s.cache.Del(ctx, token); err != nil {
			s.log.Debug("profile cache invalidation failed", zap.Error(err))
		}
	}
	if s.publisher != nil {
		_ = s.publisher.Publish(ctx, events.StreamInvalidate, events.Event{
			Type:    events.EventCacheInvalidate,
			Payload: map[string]any{"token": token},
		})
	}
}

// InvalidateEmployee drops the cached profile reachable through the
// employee's active token, for callers that mutate employee or visibility
// state rather than the token itself.
func (s *TokenService) InvalidateEmployee(ctx context.Context, employeID uuid.UUID) {
	t, err := s.tokenRepo.GetActiveByEmployee(ctx, employeID)
	if err != nil {
		return
	}
	s.invalidate(ctx, t.Token)
}

func newOpaqueToken() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
