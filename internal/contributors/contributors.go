// Package contributors manages the user↔node join records and their role
// flags. Curators are administrative contributors added on behalf of an
// institution; they can never be bibliographic.
package contributors

import (
	"errors"
	"fmt"

	"github.com/madrona-research/madrona/internal/models"
	"github.com/madrona-research/madrona/internal/nodes"
	"gorm.io/gorm"
)

// AddOptions controls how a contributor is attached to a node
type AddOptions struct {
	Visible     bool
	MakeCurator bool
}

// AddContributor links user to node. A curator add for a user whose pending
// access request is institutional keeps the bibliographic flag the caller
// asked for, so an invalid combination surfaces as models.ErrCuratorVisible
// rather than being silently corrected.
func AddContributor(db *gorm.DB, node *models.Node, user *models.User, opts AddOptions) (*models.Contributor, error) {
	var existing models.Contributor
	err := db.Where("node_id = ? AND user_id = ?", node.ID, user.ID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("user %s is already a contributor on node %s", user.GUID, node.GUID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing contributor: %w", err)
	}

	contributor := &models.Contributor{
		UserID:    user.ID,
		NodeID:    node.ID,
		Visible:   opts.Visible,
		IsCurator: opts.MakeCurator,
	}
	if err := db.Create(contributor).Error; err != nil {
		return nil, err
	}
	return contributor, nil
}

// AddCurator attaches user as a curator. Curators enter invisible; any
// attempt to surface them bibliographically is rejected at save time.
func AddCurator(db *gorm.DB, node *models.Node, user *models.User) (*models.Contributor, error) {
	pending, err := nodes.HasPendingInstitutionalRequest(db, node, user)
	if err != nil {
		return nil, err
	}
	if !pending {
		return nil, fmt.Errorf("user %s has no pending institutional request on node %s", user.GUID, node.GUID)
	}
	return AddContributor(db, node, user, AddOptions{Visible: false, MakeCurator: true})
}

// Get retrieves the contributor record for user on node
func Get(db *gorm.DB, node *models.Node, user *models.User) (*models.Contributor, error) {
	var contributor models.Contributor
	result := db.Where("node_id = ? AND user_id = ?", node.ID, user.ID).First(&contributor)
	if result.Error != nil {
		return nil, fmt.Errorf("contributor not found: %w", result.Error)
	}
	return &contributor, nil
}

// ListByNode returns all contributors on a node with users preloaded
func ListByNode(db *gorm.DB, node *models.Node) ([]models.Contributor, error) {
	var list []models.Contributor
	result := db.Preload("User").Where("node_id = ?", node.ID).Order("id ASC").Find(&list)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list contributors: %w", result.Error)
	}
	return list, nil
}

// SetVisible updates the bibliographic flag. The save goes through the model
// hook, so flipping a curator visible returns models.ErrCuratorVisible and
// persists nothing.
func SetVisible(db *gorm.DB, contributor *models.Contributor, visible bool) error {
	contributor.Visible = visible
	return db.Save(contributor).Error
}

// Remove deletes the contributor record for user on node
func Remove(db *gorm.DB, node *models.Node, user *models.User) error {
	result := db.Where("node_id = ? AND user_id = ?", node.ID, user.ID).Delete(&models.Contributor{})
	if result.Error != nil {
		return fmt.Errorf("failed to remove contributor: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("contributor not found")
	}
	return nil
}
