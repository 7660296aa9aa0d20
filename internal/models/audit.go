package models

import (
	"time"

	"github.com/google/uuid"
)

// Audit actions
const (
	ActionEmployeeCreated     = "employee_created"
	ActionEmployeeUpdated     = "employee_updated"
	ActionEmployeeDeactivated = "employee_deactivated"
	ActionDepartmentCreated   = "department_created"
	ActionDepartmentUpdated   = "department_updated"
	ActionDepartmentDeleted   = "department_deleted"
	ActionVisibilityUpdated   = "visibility_updated"
	ActionTokenIssued         = "token_issued"
	ActionTokenRevoked        = "token_revoked"
	ActionRequestSubmitted    = "request_submitted"
	ActionRequestApproved     = "request_approved"
	ActionRequestRejected     = "request_rejected"
	ActionUserLoggedIn        = "user_logged_in"
)

var AuditActions = []string{
	ActionEmployeeCreated, ActionEmployeeUpdated, ActionEmployeeDeactivated,
	ActionDepartmentCreated, ActionDepartmentUpdated, ActionDepartmentDeleted,
	ActionVisibilityUpdated, ActionTokenIssued, ActionTokenRevoked,
	ActionRequestSubmitted, ActionRequestApproved, ActionRequestRejected,
	ActionUserLoggedIn,
}

// Audit target types
const (
	TargetEmployee   = "employee"
	TargetDepartment = "department"
	TargetRequest    = "modification_request"
	TargetToken      = "qr_token"
	TargetUser       = "user"
)

type AuditLog struct {
	ID          uuid.UUID  `json:"id"`
	ActorUserID *uuid.UUID `json:"actor_user_id,omitempty"`
	Action      string     `json:"action"`
	TargetType  string     `json:"target_type"`
	TargetID    *uuid.UUID `json:"target_id,omitempty"`
	Details     any        `json:"details,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AuditDisplayRow is an AuditLog denormalized for the admin UI: actor and
// target resolved to human-readable labels, details collapsed to a preview.
type AuditDisplayRow struct {
	ID             uuid.UUID `json:"id"`
	Action         string    `json:"action"`
	ActorLabel     string    `json:"actor_label"`
	TargetLabel    string    `json:"target_label"`
	DetailsPreview string    `json:"details_preview"`
	CreatedAt      time.Time `json:"created_at"`
}
