package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/staffhub/backend/internal/auth"
	"github.com/staffhub/backend/internal/config"
	"github.com/staffhub/backend/internal/models"
	"github.com/staffhub/backend/internal/repositories"
	"go.uber.org/zap"
)

type fakeCredentialStore struct {
	users map[string]*models.User
}

func (f *fakeCredentialStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, ok := f.users[strings.ToLower(email)]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeCredentialStore) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	return nil
}

type fakeAuditSink struct {
	entries []models.AuditLog
}

func (f *fakeAuditSink) Log(ctx context.Context, entry models.AuditLog) error {
	f.entries = append(f.entries, entry)
	return nil
}

func newLoginApp(t *testing.T) (*fiber.App, *fakeAuditSink) {
	t.Helper()

	hash, err := auth.HashPassword("correct-horse", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	store := &fakeCredentialStore{users: map[string]*models.User{
		"sarah.khan@example.fr": {
			ID:           uuid.New(),
			Email:        "sarah.khan@example.fr",
			PasswordHash: hash,
			Role:         "admin_rh",
			IsActive:     true,
		},
		"ancien@example.fr": {
			ID:           uuid.New(),
			Email:        "ancien@example.fr",
			PasswordHash: hash,
			Role:         "employe",
			IsActive:     false,
		},
	}}
	audit := &fakeAuditSink{}
	cfg := &config.Config{JWTSecret: "test-secret", JWTExpiration: time.Hour}

	app := fiber.New()
	app.Post("/auth/login", NewAuthHandler(store, audit, cfg, zap.NewNop()).Login)
	return app, audit
}

func postLogin(t *testing.T, app *fiber.App, email, password string) (int, map[string]any) {
	t.Helper()

	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req := httptest.NewRequest("POST", "/auth/login", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	var payload map[string]any
	data, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(data, &payload)
	return resp.StatusCode, payload
}

func TestLoginSuccess(t *testing.T) {
	app, audit := newLoginApp(t)

	status, payload := postLogin(t, app, "sarah.khan@example.fr", "correct-horse")
	if status != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", status)
	}
	token, _ := payload["token"].(string)
	if token == "" {
		t.Error("response should carry a token")
	}

	claims, err := auth.ParseJWT("test-secret", token)
	if err != nil {
		t.Fatalf("issued token should parse: %v", err)
	}
	if claims.Role != "admin_rh" {
		t.Errorf("token role = %q, want admin_rh", claims.Role)
	}

	if len(audit.entries) != 1 || audit.entries[0].Action != models.ActionUserLoggedIn {
		t.Errorf("expected one login audit entry, got %v", audit.entries)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	app, audit := newLoginApp(t)

	status, _ := postLogin(t, app, "sarah.khan@example.fr", "wrong-password")
	if status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if len(audit.entries) != 0 {
		t.Error("failed login should not be audited as a login")
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	app, _ := newLoginApp(t)

	status, payload := postLogin(t, app, "nobody@example.fr", "correct-horse")
	if status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	// Unknown email and wrong password are indistinguishable.
	if msg, _ := payload["error"].(string); msg != "invalid credentials" {
		t.Errorf("error = %q, want the generic credentials message", msg)
	}
}

func TestLoginInactiveAccount(t *testing.T) {
	app, audit := newLoginApp(t)

	status, _ := postLogin(t, app, "ancien@example.fr", "correct-horse")
	if status != fiber.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if len(audit.entries) != 0 {
		t.Error("disabled account login should not be audited")
	}
}
