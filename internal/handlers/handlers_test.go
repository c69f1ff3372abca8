package handlers

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupHandlerTest(t *testing.T) *gorm.DB {
	gin.SetMode(gin.TestMode)
	config.SetTransient("auth.jwt_secret", "test-secret")
	config.SetTransient("auth.bcrypt_cost", bcrypt.MinCost)

	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	err = testDB.AutoMigrate(
		&models.User{},
		&models.Institution{},
		&models.Node{},
		&models.Contributor{},
		&models.NodeRequest{},
		&models.PreprintProvider{},
		&models.Preprint{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	db.SetDB(testDB)
	return testDB
}
