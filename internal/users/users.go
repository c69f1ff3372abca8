package users

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/madrona-research/madrona/internal/auth"
	"github.com/madrona-research/madrona/internal/models"
	"gorm.io/gorm"
)

// CreateUser creates a new user with hashed password
// If a soft-deleted user exists with this email, it will be restored
func CreateUser(db *gorm.DB, email, fullName, password string) (*models.User, error) {
	// Normalize email to lowercase
	email = strings.ToLower(strings.TrimSpace(email))

	// Check if active user already exists
	var existing models.User
	result := db.Where("email = ?", email).First(&existing)
	if result.Error == nil {
		return nil, fmt.Errorf("user with email %s already exists", email)
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Check for soft-deleted user with this email
	var deletedUser models.User
	deletedResult := db.Unscoped().Where("email = ? AND deleted_at IS NOT NULL", email).First(&deletedUser)

	var user *models.User
	if deletedResult.Error == nil {
		// Found a soft-deleted user - restore them with new password
		user = &deletedUser
		if err := db.Unscoped().Model(user).Updates(map[string]interface{}{
			"deleted_at":    nil,
			"full_name":     fullName,
			"password_hash": hashedPassword,
		}).Error; err != nil {
			return nil, fmt.Errorf("failed to restore user: %w", err)
		}
	} else {
		// No deleted user found - create new user
		user = &models.User{
			GUID:         uuid.NewString(),
			Email:        email,
			FullName:     fullName,
			PasswordHash: hashedPassword,
		}

		if err := db.Create(user).Error; err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email address
func GetUserByEmail(db *gorm.DB, email string) (*models.User, error) {
	// Normalize email to lowercase
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	result := db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found: %w", result.Error)
	}
	return &user, nil
}

// GetUserByGUID retrieves a user by GUID
func GetUserByGUID(db *gorm.DB, guid string) (*models.User, error) {
	var user models.User
	result := db.Where("guid = ?", guid).First(&user)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found: %w", result.Error)
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID
func GetUserByID(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	result := db.First(&user, id)
	if result.Error != nil {
		return nil, fmt.Errorf("user not found: %w", result.Error)
	}
	return &user, nil
}

// ListUsers returns all users
func ListUsers(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	result := db.Find(&users)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list users: %w", result.Error)
	}
	return users, nil
}

// DeleteUser soft-deletes a user
func DeleteUser(db *gorm.DB, id uint) error {
	result := db.Delete(&models.User{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("user not found")
	}
	return nil
}

// ValidatePassword checks if a password matches the user's hash
func ValidatePassword(user *models.User, password string) bool {
	return auth.CheckPassword(password, user.PasswordHash)
}

// AddInstitutionAdmin grants a user the institutional-admin role
func AddInstitutionAdmin(db *gorm.DB, institution *models.Institution, user *models.User) error {
	if err := db.Model(institution).Association("Admins").Append(user); err != nil {
		return fmt.Errorf("failed to add institution admin: %w", err)
	}
	return nil
}

// IsInstitutionAdmin reports whether the user administers any institution
func IsInstitutionAdmin(db *gorm.DB, user *models.User) (bool, error) {
	var count int64
	err := db.Table("institution_admins").Where("user_id = ?", user.ID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check institution admins: %w", err)
	}
	return count > 0, nil
}
