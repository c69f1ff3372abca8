package preprints

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/madrona-research/madrona/internal/models"
	"github.com/madrona-research/madrona/internal/search"
	"gorm.io/gorm"
)

// CreateProvider registers a preprint provider
func CreateProvider(db *gorm.DB, name, description string) (*models.PreprintProvider, error) {
	if name == "" {
		return nil, fmt.Errorf("provider name cannot be empty")
	}

	provider := &models.PreprintProvider{Name: name, Description: description}
	if err := db.Create(provider).Error; err != nil {
		return nil, fmt.Errorf("failed to create provider: %w", err)
	}
	return provider, nil
}

// GetProviderByName retrieves a provider by name
func GetProviderByName(db *gorm.DB, name string) (*models.PreprintProvider, error) {
	var provider models.PreprintProvider
	result := db.Where("name = ?", name).First(&provider)
	if result.Error != nil {
		return nil, fmt.Errorf("provider not found: %w", result.Error)
	}
	return &provider, nil
}

// ListProviders returns all providers
func ListProviders(db *gorm.DB) ([]models.PreprintProvider, error) {
	var providers []models.PreprintProvider
	result := db.Order("name ASC").Find(&providers)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list providers: %w", result.Error)
	}
	return providers, nil
}

// CreatePreprint creates an unpublished preprint with the given provider
func CreatePreprint(db *gorm.DB, provider *models.PreprintProvider, title, description string) (*models.Preprint, error) {
	if title == "" {
		return nil, fmt.Errorf("preprint title cannot be empty")
	}

	preprint := &models.Preprint{
		GUID:        uuid.NewString(),
		Title:       title,
		Description: description,
		ProviderID:  provider.ID,
	}
	if err := db.Create(preprint).Error; err != nil {
		return nil, fmt.Errorf("failed to create preprint: %w", err)
	}
	return preprint, nil
}

// GetPreprintByGUID retrieves a preprint by GUID
func GetPreprintByGUID(db *gorm.DB, guid string) (*models.Preprint, error) {
	var preprint models.Preprint
	result := db.Preload("Provider").Where("guid = ?", guid).First(&preprint)
	if result.Error != nil {
		return nil, fmt.Errorf("preprint not found: %w", result.Error)
	}
	return &preprint, nil
}

// Publish stamps DatePublished and pushes the preprint into the search index
func Publish(db *gorm.DB, preprint *models.Preprint) error {
	if preprint.DatePublished != nil {
		return fmt.Errorf("preprint %s is already published", preprint.GUID)
	}

	now := time.Now().UTC()
	preprint.DatePublished = &now
	if err := db.Save(preprint).Error; err != nil {
		return fmt.Errorf("failed to publish preprint: %w", err)
	}

	if err := search.IndexPreprint(db, preprint); err != nil {
		return fmt.Errorf("failed to index preprint: %w", err)
	}
	return nil
}

// CountByProviderSince counts preprints created by a provider in [since, until)
func CountByProviderSince(db *gorm.DB, provider *models.PreprintProvider, since, until time.Time) (int64, error) {
	var count int64
	err := db.Model(&models.Preprint{}).
		Where("provider_id = ? AND date_created >= ? AND date_created < ?", provider.ID, since, until).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count preprints: %w", err)
	}
	return count, nil
}
