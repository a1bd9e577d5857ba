package jwt

import (
	"testing"
	"time"

	"go-clinic-planning/config"

	"github.com/google/uuid"
)

func newTestService() *JWTService {
	return NewJWTService(config.JWTConfig{
		Secret:       "test-secret",
		AccessExpiry: 15 * time.Minute,
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	svc := newTestService()
	employeeID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(employeeID, "doc@clinic.test", "doctor")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if tokenID == "" {
		t.Fatal("expected a token id")
	}

	claims, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.EmployeeID != employeeID {
		t.Errorf("expected employee %s, got %s", employeeID, claims.EmployeeID)
	}
	if claims.Role != "doctor" {
		t.Errorf("expected role doctor, got %s", claims.Role)
	}
	if claims.TokenType != AccessToken {
		t.Errorf("expected access token type, got %s", claims.TokenType)
	}
	if claims.TokenID != tokenID {
		t.Errorf("token id mismatch: %s vs %s", claims.TokenID, tokenID)
	}

	if got := svc.GetAccessExpiry(); got != 15*time.Minute {
		t.Errorf("expected 15m expiry, got %s", got)
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	svc := newTestService()
	token, _, err := svc.GenerateAccessToken(uuid.New(), "doc@clinic.test", "doctor")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	other := NewJWTService(config.JWTConfig{Secret: "other-secret", AccessExpiry: time.Minute})
	if _, err := other.ValidateToken(token); err == nil {
		t.Fatal("expected validation to fail with a different secret")
	}
}

func TestValidateTokenGarbage(t *testing.T) {
	svc := newTestService()
	if _, err := svc.ValidateToken("not.a.token"); err == nil {
		t.Fatal("expected validation to fail for a malformed token")
	}
}
