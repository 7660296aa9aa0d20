package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestJWTRoundTrip(t *testing.T) {
	secret := "test-secret"
	userID := uuid.New()
	employeID := uuid.New()

	token, err := GenerateJWT(secret, userID, "employe", &employeID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}

	claims, err := ParseJWT(secret, token)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("user_id = %v, want %v", claims.UserID, userID)
	}
	if claims.Role != "employe" {
		t.Errorf("role = %q, want employe", claims.Role)
	}
	if claims.EmployeID == nil || *claims.EmployeID != employeID {
		t.Errorf("employe_id = %v, want %v", claims.EmployeID, employeID)
	}
}

func TestJWTWithoutEmployee(t *testing.T) {
	token, err := GenerateJWT("s", uuid.New(), "admin_rh", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	claims, err := ParseJWT("s", token)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if claims.EmployeID != nil {
		t.Errorf("employe_id = %v, want nil", claims.EmployeID)
	}
}

func TestJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("right", uuid.New(), "employe", nil, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	if _, err := ParseJWT("wrong", token); err == nil {
		t.Error("token signed with another secret should not parse")
	}
}

func TestJWTExpirationFallback(t *testing.T) {
	// Non-positive expiration falls back to 24h instead of minting an
	// already-expired token.
	token, err := GenerateJWT("s", uuid.New(), "employe", nil, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateJWT() error = %v", err)
	}
	claims, err := ParseJWT("s", token)
	if err != nil {
		t.Fatalf("ParseJWT() error = %v", err)
	}
	if claims.ExpiresAt.Time.Before(time.Now()) {
		t.Error("fallback expiration should be in the future")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if !CheckPassword(hash, "s3cret") {
		t.Error("correct password rejected")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("wrong password accepted")
	}
}
