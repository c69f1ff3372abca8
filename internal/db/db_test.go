package db

import (
	"testing"

	"github.com/madrona-research/madrona/internal/models"
)

func TestInitDBSQLite(t *testing.T) {
	if err := InitDB("sqlite", ":memory:"); err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}

	if GetDB() == nil {
		t.Fatal("GetDB returned nil after InitDB")
	}

	// Migrated tables should accept rows
	user := models.User{GUID: "u-db", Email: "db@example.com", PasswordHash: "hash"}
	if err := GetDB().Create(&user).Error; err != nil {
		t.Fatalf("Failed to insert into migrated schema: %v", err)
	}
}

func TestInitDBUnsupportedType(t *testing.T) {
	if err := InitDB("mongodb", ""); err == nil {
		t.Error("Expected error for unsupported database type")
	}
}
