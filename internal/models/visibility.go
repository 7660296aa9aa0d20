package models

import (
	"time"

	"github.com/google/uuid"
)

// Public profile field keys. One visibility entry per (employee, key);
// a missing entry means the field is not public.
const (
	FieldNom         = "nom"
	FieldPrenom      = "prenom"
	FieldPoste       = "poste"
	FieldEmail       = "email"
	FieldTelephone   = "telephone"
	FieldPhotoURL    = "photo_url"
	FieldDepartement = "departement"
	FieldMatricule   = "matricule"
)

var VisibilityFieldKeys = []string{
	FieldMatricule, FieldNom, FieldPrenom, FieldPoste,
	FieldEmail, FieldTelephone, FieldDepartement, FieldPhotoURL,
}

func IsVisibilityFieldKey(key string) bool {
	for _, k := range VisibilityFieldKeys {
		if k == key {
			return true
		}
	}
	return false
}

type FieldVisibility struct {
	ID        uuid.UUID `json:"id"`
	EmployeID uuid.UUID `json:"employe_id"`
	FieldKey  string    `json:"field_key"`
	IsPublic  bool      `json:"is_public"`
	UpdatedAt time.Time `json:"updated_at"`
}
