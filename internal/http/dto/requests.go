package dto

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type CreateEmployeeRequest struct {
	Matricule     string  `json:"matricule" validate:"required,min=2,max=32"`
	Nom           string  `json:"nom" validate:"required,max=100"`
	Prenom        string  `json:"prenom" validate:"required,max=100"`
	DepartementID string  `json:"departement_id" validate:"required,uuid4"`
	Poste         *string `json:"poste,omitempty" validate:"omitempty,max=150"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Telephone     *string `json:"telephone,omitempty" validate:"omitempty,max=30"`
	PhotoURL      *string `json:"photo_url,omitempty" validate:"omitempty,url"`
}

type UpdateEmployeeRequest struct {
	Matricule     string  `json:"matricule" validate:"required,min=2,max=32"`
	Nom           string  `json:"nom" validate:"required,max=100"`
	Prenom        string  `json:"prenom" validate:"required,max=100"`
	DepartementID string  `json:"departement_id" validate:"required,uuid4"`
	Poste         *string `json:"poste,omitempty" validate:"omitempty,max=150"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Telephone     *string `json:"telephone,omitempty" validate:"omitempty,max=30"`
	PhotoURL      *string `json:"photo_url,omitempty" validate:"omitempty,url"`
	IsActive      *bool   `json:"is_active,omitempty"`
}

type CreateDepartmentRequest struct {
	Nom         string  `json:"nom" validate:"required,max=150"`
	Code        *string `json:"code,omitempty" validate:"omitempty,max=20"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type UpdateDepartmentRequest struct {
	Nom         string  `json:"nom" validate:"required,max=150"`
	Code        *string `json:"code,omitempty" validate:"omitempty,max=20"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
}

type VisibilityEntryRequest struct {
	FieldKey string `json:"field_key" validate:"required"`
	IsPublic bool   `json:"is_public"`
}

type UpdateVisibilityRequest struct {
	Entries []VisibilityEntryRequest `json:"entries" validate:"required,min=1,dive"`
}

type RotateTokenRequest struct {
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type SubmitRequestRequest struct {
	TargetField string  `json:"target_field" validate:"required"`
	OldValue    *string `json:"old_value,omitempty" validate:"omitempty,max=500"`
	NewValue    *string `json:"new_value,omitempty" validate:"omitempty,max=500"`
	Reason      *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

type DecideRequestRequest struct {
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=1000"`
}
