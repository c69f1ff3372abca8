// SPDX-License-Identifier: MIT
package auth

import (
	"testing"

	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/models"
)

func TestGenerateAndValidateToken(t *testing.T) {
	config.SetTransient("auth.jwt_secret", "test-secret")
	config.SetTransient("auth.jwt_expiry_hours", 1)

	user := &models.User{
		ID:      42,
		GUID:    "abc123",
		Email:   "researcher@example.edu",
		IsAdmin: true,
	}

	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	claims, err := ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}

	if claims.UserID != 42 {
		t.Errorf("Expected UserID 42, got %d", claims.UserID)
	}
	if claims.GUID != "abc123" {
		t.Errorf("Expected GUID abc123, got %s", claims.GUID)
	}
	if claims.Email != "researcher@example.edu" {
		t.Errorf("Unexpected email: %s", claims.Email)
	}
	if !claims.IsAdmin {
		t.Error("Expected IsAdmin to be preserved")
	}
}

func TestValidateTokenEmpty(t *testing.T) {
	if _, err := ValidateToken(""); err == nil {
		t.Error("Expected error for empty token")
	}
}

func TestValidateTokenWrongSecret(t *testing.T) {
	config.SetTransient("auth.jwt_secret", "first-secret")

	user := &models.User{ID: 1, Email: "a@example.com"}
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("GenerateToken failed: %v", err)
	}

	config.SetTransient("auth.jwt_secret", "second-secret")

	if _, err := ValidateToken(token); err == nil {
		t.Error("Expected validation to fail with a different secret")
	}

	config.SetTransient("auth.jwt_secret", "test-secret")
}

func TestValidateTokenGarbage(t *testing.T) {
	config.SetTransient("auth.jwt_secret", "test-secret")

	if _, err := ValidateToken("not.a.token"); err == nil {
		t.Error("Expected error for malformed token")
	}
}

func TestEnvSecretTakesPrecedence(t *testing.T) {
	config.SetTransient("auth.jwt_secret", "config-secret")
	t.Setenv("MADRONA_JWT_SECRET", "env-secret")

	if got := getJWTSecret(); got != "env-secret" {
		t.Errorf("Expected env secret to win, got %s", got)
	}
}
