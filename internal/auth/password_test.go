// SPDX-License-Identifier: MIT
package auth

import (
	"strings"
	"testing"

	"github.com/madrona-research/madrona/internal/config"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	config.SetTransient("auth.bcrypt_cost", bcrypt.MinCost)

	hash, err := HashPassword("correct-horse-battery")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("Expected bcrypt hash, got %s", hash)
	}

	if !CheckPassword("correct-horse-battery", hash) {
		t.Error("Expected password to verify against its hash")
	}

	if CheckPassword("wrong-password", hash) {
		t.Error("Expected wrong password to fail verification")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("Expected error for empty password")
	}
}

func TestCheckPasswordEmpty(t *testing.T) {
	config.SetTransient("auth.bcrypt_cost", bcrypt.MinCost)

	hash, err := HashPassword("something")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	if CheckPassword("", hash) {
		t.Error("Empty password should never verify")
	}
}

func TestBcryptCostOutOfRangeFallsBack(t *testing.T) {
	config.SetTransient("auth.bcrypt_cost", 99)

	if got := bcryptCost(); got != defaultBcryptCost {
		t.Errorf("Expected fallback cost %d, got %d", defaultBcryptCost, got)
	}

	config.SetTransient("auth.bcrypt_cost", bcrypt.MinCost)
}
