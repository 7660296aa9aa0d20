package models

import (
	"time"

	"github.com/google/uuid"
)

// QR token statuses
const (
	TokenStatusActive  = "ACTIVE"
	TokenStatusRevoked = "REVOKED"
)

type QRToken struct {
	ID        uuid.UUID  `json:"id"`
	EmployeID uuid.UUID  `json:"employe_id"`
	Token     string     `json:"token"`
	Status    string     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	RevokedAt *time.Time `json:"revoked_at,omitempty"`
}

// IsValid reports whether the token grants access to the public profile at
// the given instant. A revoked token is never valid, whatever expires_at says.
func (t *QRToken) IsValid(now time.Time) bool {
	if t == nil {
		return false
	}
	if t.Status != TokenStatusActive {
		return false
	}
	if t.ExpiresAt != nil && !t.ExpiresAt.After(now) {
		return false
	}
	return true
}
