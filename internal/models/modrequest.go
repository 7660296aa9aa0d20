package models

import (
	"time"

	"github.com/google/uuid"
)

// Modification request statuses
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// Valid state transitions: from -> []to. Terminal statuses have no exits;
// a decided request can never be re-decided or reopened.
var ValidRequestTransitions = map[string][]string{
	RequestStatusPending:  {RequestStatusApproved, RequestStatusRejected},
	RequestStatusApproved: {},
	RequestStatusRejected: {},
}

func IsValidRequestTransition(from, to string) bool {
	allowed, ok := ValidRequestTransitions[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminalRequestStatus(status string) bool {
	allowed, ok := ValidRequestTransitions[status]
	return ok && len(allowed) == 0
}

// Fields an employee may ask to change through a modification request.
var RequestTargetFields = []string{
	FieldPoste, FieldEmail, FieldTelephone, FieldPhotoURL, FieldNom, FieldPrenom,
}

func IsRequestTargetField(field string) bool {
	for _, f := range RequestTargetFields {
		if f == field {
			return true
		}
	}
	return false
}

type ModificationRequest struct {
	ID              uuid.UUID  `json:"id"`
	EmployeID       uuid.UUID  `json:"employe_id"`
	RequesterUserID uuid.UUID  `json:"requester_user_id"`
	TargetField     string     `json:"target_field"`
	OldValue        *string    `json:"old_value,omitempty"`
	NewValue        *string    `json:"new_value,omitempty"`
	Reason          *string    `json:"reason,omitempty"`
	Status          string     `json:"status"`
	DecidedByUserID *uuid.UUID `json:"decided_by_user_id,omitempty"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	DecisionComment *string    `json:"decision_comment,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// RequestWithEmployee embeds ModificationRequest and adds employee info to
// avoid N+1 queries on the admin listing.
type RequestWithEmployee struct {
	ModificationRequest
	EmployeNom       *string `json:"employe_nom,omitempty"`
	EmployePrenom    *string `json:"employe_prenom,omitempty"`
	EmployeMatricule *string `json:"employe_matricule,omitempty"`
}
