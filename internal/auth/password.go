// SPDX-License-Identifier: MIT
package auth

import (
	"errors"

	"github.com/madrona-research/madrona/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const defaultBcryptCost = 12

func bcryptCost() int {
	if cost := config.GetInt("auth.bcrypt_cost"); cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
		return cost
	}
	return defaultBcryptCost
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost())
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword verifies a password against a bcrypt hash using constant-time comparison
func CheckPassword(password, hash string) bool {
	if password == "" {
		return false
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
