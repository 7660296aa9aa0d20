package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID            uuid.UUID `json:"id"`
	Matricule     string    `json:"matricule"`
	Nom           string    `json:"nom"`
	Prenom        string    `json:"prenom"`
	DepartementID uuid.UUID `json:"departement_id"`
	Poste         *string   `json:"poste,omitempty"`
	Email         *string   `json:"email,omitempty"`
	Telephone     *string   `json:"telephone,omitempty"`
	PhotoURL      *string   `json:"photo_url,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmployeeWithDepartment embeds Employee and adds department info to avoid N+1 queries.
type EmployeeWithDepartment struct {
	Employee
	DepartementNom  *string `json:"departement_nom,omitempty"`
	DepartementCode *string `json:"departement_code,omitempty"`
}

func (e *Employee) FullName() string {
	return strings.TrimSpace(e.Prenom + " " + e.Nom)
}

// Completeness levels
const (
	CompletenessComplete   = "Complete"
	CompletenessVeryGood   = "Very good"
	CompletenessGood       = "Good"
	CompletenessIncomplete = "Incomplete"
)

type Completeness struct {
	Score int    `json:"score"`
	Level string `json:"level"`
}

func present(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != ""
}

// ProfileCompleteness scores four optional fields at 25 points each.
func (e *Employee) ProfileCompleteness() Completeness {
	score := 0
	for _, v := range []*string{e.PhotoURL, e.Email, e.Telephone, e.Poste} {
		if present(v) {
			score += 25
		}
	}

	level := CompletenessIncomplete
	switch {
	case score == 100:
		level = CompletenessComplete
	case score >= 75:
		level = CompletenessVeryGood
	case score >= 50:
		level = CompletenessGood
	}

	return Completeness{Score: score, Level: level}
}
