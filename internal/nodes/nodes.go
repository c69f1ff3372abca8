package nodes

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/madrona-research/madrona/internal/models"
	"gorm.io/gorm"
)

// CreateNode creates a new node owned by creator. The creator is added as a
// visible (bibliographic) contributor.
func CreateNode(db *gorm.DB, creator *models.User, title, description string) (*models.Node, error) {
	if title == "" {
		return nil, fmt.Errorf("node title cannot be empty")
	}

	node := &models.Node{
		GUID:        uuid.NewString(),
		Title:       title,
		Description: description,
		CreatorID:   creator.ID,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(node).Error; err != nil {
			return fmt.Errorf("failed to create node: %w", err)
		}
		contributor := &models.Contributor{
			UserID:  creator.ID,
			NodeID:  node.ID,
			Visible: true,
		}
		if err := tx.Create(contributor).Error; err != nil {
			return fmt.Errorf("failed to add creator as contributor: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return node, nil
}

// GetNodeByGUID retrieves a node by GUID
func GetNodeByGUID(db *gorm.DB, guid string) (*models.Node, error) {
	var node models.Node
	result := db.Where("guid = ?", guid).First(&node)
	if result.Error != nil {
		return nil, fmt.Errorf("node not found: %w", result.Error)
	}
	return &node, nil
}

// ListNodesByCreator returns all nodes created by a user
func ListNodesByCreator(db *gorm.DB, creator *models.User) ([]models.Node, error) {
	var list []models.Node
	result := db.Where("creator_id = ?", creator.ID).Find(&list)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", result.Error)
	}
	return list, nil
}

// CreateRequest records an access request by user against the node
func CreateRequest(db *gorm.DB, node *models.Node, creator *models.User, institutional bool) (*models.NodeRequest, error) {
	request := &models.NodeRequest{
		TargetID:               node.ID,
		CreatorID:              creator.ID,
		IsInstitutionalRequest: institutional,
		Status:                 models.RequestPending,
	}
	if err := db.Create(request).Error; err != nil {
		return nil, fmt.Errorf("failed to create node request: %w", err)
	}
	return request, nil
}

// HasPendingInstitutionalRequest reports whether user has an open
// institutional access request against the node
func HasPendingInstitutionalRequest(db *gorm.DB, node *models.Node, user *models.User) (bool, error) {
	var count int64
	err := db.Model(&models.NodeRequest{}).
		Where("target_id = ? AND creator_id = ? AND is_institutional_request = ? AND status = ?",
			node.ID, user.ID, true, models.RequestPending).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check node requests: %w", err)
	}
	return count > 0, nil
}
