package services

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

// detailsPreviewLimit is the display cutoff for serialized details.
const detailsPreviewLimit = 100

// AllowedPageSizes for the admin audit UI.
var AllowedPageSizes = []int{10, 20, 50}

type AuditStore interface {
	List(ctx context.Context, f repositories.AuditFilter) ([]models.AuditLog, error)
	Count(ctx context.Context, f repositories.AuditFilter) (int, error)
}

type ActorDirectory interface {
	GetActorProfilesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]repositories.ActorProfile, error)
}

type EmployeeDirectory interface {
	GetIdentitiesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]repositories.EmployeeIdentity, error)
	SearchIDs(ctx context.Context, search string) ([]uuid.UUID, error)
}

type AuditService struct {
	store     AuditStore
	actors    ActorDirectory
	employees EmployeeDirectory
	log       *zap.Logger
}

func NewAuditService(store AuditStore, actors ActorDirectory, employees EmployeeDirectory, log *zap.Logger) *AuditService {
	return &AuditService{store: store, actors: actors, employees: employees, log: log}
}

type AuditQuery struct {
	Action         string // "" or "ALL" means no action filter
	EmployeeSearch string
	Page           int
	PageSize       int
}

func clampPageSize(n int) int {
	for _, s := range AllowedPageSizes {
		if n == s {
			return n
		}
	}
	return 20
}

// ListDisplay returns one page of denormalized audit rows plus the exact
// total. Actor and target identities are resolved with one batched lookup
// per id class for the whole page, never per row.
func (s *AuditService) ListDisplay(ctx context.Context, q AuditQuery) ([]models.AuditDisplayRow, int, error) {
	pageSize := clampPageSize(q.PageSize)
	page := q.Page
	if page < 1 {
		page = 1
	}

	filter := repositories.AuditFilter{
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	}
	if q.Action != "" && q.Action != "ALL" {
		filter.Action = &q.Action
	}

	if search := strings.TrimSpace(q.EmployeeSearch); search != "" {
		ids, err := s.employees.SearchIDs(ctx, search)
		if err != nil {
			return nil, 0, err
		}
		// Nobody matched: the page is empty by construction, skip the
		// main query entirely.
		if len(ids) == 0 {
			return []models.AuditDisplayRow{}, 0, nil
		}
		filter.TargetIDs = ids
	}

	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	logs, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	actorIDs := distinctActorIDs(logs)
	targetEmployeeIDs := distinctEmployeeTargetIDs(logs)

	actorProfiles, err := s.actors.GetActorProfilesByIDs(ctx, actorIDs)
	if err != nil {
		return nil, 0, err
	}
	employeeIdentities, err := s.employees.GetIdentitiesByIDs(ctx, targetEmployeeIDs)
	if err != nil {
		return nil, 0, err
	}

	rows := make([]models.AuditDisplayRow, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, models.AuditDisplayRow{
			ID:             l.ID,
			Action:         l.Action,
			ActorLabel:     actorLabel(l.ActorUserID, actorProfiles),
			TargetLabel:    targetLabel(l, employeeIdentities),
			DetailsPreview: detailsPreview(l.Details),
			CreatedAt:      l.CreatedAt,
		})
	}
	return rows, total, nil
}

func distinctActorIDs(logs []models.AuditLog) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, l := range logs {
		if l.ActorUserID == nil {
			continue
		}
		if _, ok := seen[*l.ActorUserID]; ok {
			continue
		}
		seen[*l.ActorUserID] = struct{}{}
		ids = append(ids, *l.ActorUserID)
	}
	return ids
}

func distinctEmployeeTargetIDs(logs []models.AuditLog) []uuid.UUID {
	seen := map[uuid.UUID]struct{}{}
	var ids []uuid.UUID
	for _, l := range logs {
		if l.TargetType != models.TargetEmployee || l.TargetID == nil {
			continue
		}
		if _, ok := seen[*l.TargetID]; ok {
			continue
		}
		seen[*l.TargetID] = struct{}{}
		ids = append(ids, *l.TargetID)
	}
	return ids
}

func actorLabel(actorID *uuid.UUID, profiles map[uuid.UUID]repositories.ActorProfile) string {
	if actorID == nil {
		return "System"
	}
	p, ok := profiles[*actorID]
	if !ok {
		return actorID.String()
	}
	role := strings.ToUpper(p.Role)
	if p.Prenom != nil && p.Nom != nil && (*p.Prenom != "" || *p.Nom != "") {
		return strings.TrimSpace(*p.Prenom+" "+*p.Nom) + " (" + role + ")"
	}
	return role + " (" + shortID(*actorID) + ")"
}

func targetLabel(l models.AuditLog, identities map[uuid.UUID]repositories.EmployeeIdentity) string {
	if l.TargetID == nil {
		return l.TargetType
	}
	if l.TargetType == models.TargetEmployee {
		if e, ok := identities[*l.TargetID]; ok {
			return strings.TrimSpace(e.Prenom+" "+e.Nom) + " (" + e.Matricule + ")"
		}
	}
	return l.TargetType + " (" + shortID(*l.TargetID) + ")"
}

func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func detailsPreview(details any) string {
	if details == nil {
		return ""
	}
	data, err := json.Marshal(details)
	if err != nil {
		return ""
	}
	s := string(data)
	// Truncate on rune boundaries; accented payloads are the norm here and
	// a byte slice could cut mid-rune.
	r := []rune(s)
	if len(r) > detailsPreviewLimit {
		return string(r[:detailsPreviewLimit]) + "..."
	}
	return s
}
