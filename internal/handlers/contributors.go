package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/config"
	"github.com/madrona-research/madrona/internal/contributors"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/email"
	"github.com/madrona-research/madrona/internal/models"
	"github.com/madrona-research/madrona/internal/nodes"
	"github.com/madrona-research/madrona/internal/users"
)

type addContributorRequest struct {
	UserGUID    string `json:"user_guid"`
	Email       string `json:"email"`
	Visible     bool   `json:"visible"`
	MakeCurator bool   `json:"make_curator"`
}

// resolveUser finds a user by GUID or email, whichever the request carries
func resolveUser(req *addContributorRequest) (*models.User, error) {
	if req.UserGUID != "" {
		return users.GetUserByGUID(db.GetDB(), req.UserGUID)
	}
	if req.Email != "" {
		return users.GetUserByEmail(db.GetDB(), req.Email)
	}
	return nil, errors.New("user_guid or email required")
}

// AddContributorHandler attaches a user to a node. An invalid role
// combination surfaces as 400 carrying the integrity error text.
func AddContributorHandler(c *gin.Context) {
	node, err := nodes.GetNodeByGUID(db.GetDB(), c.Param("guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}

	var req addContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := resolveUser(&req)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var contributor *models.Contributor
	if req.MakeCurator && !req.Visible {
		contributor, err = contributors.AddCurator(db.GetDB(), node, user)
	} else {
		contributor, err = contributors.AddContributor(db.GetDB(), node, user, contributors.AddOptions{
			Visible:     req.Visible,
			MakeCurator: req.MakeCurator,
		})
	}
	if err != nil {
		if errors.Is(err, models.ErrCuratorVisible) {
			c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrCuratorVisible.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	notifyContributorAdded(node, user)

	c.JSON(http.StatusCreated, contributorJSON(contributor, user))
}

// notifyContributorAdded enqueues the added-to-project notification
func notifyContributorAdded(node *models.Node, user *models.User) {
	enqueueEmail(&email.Message{
		From:    config.GetString("email.from"),
		To:      user.Email,
		Subject: fmt.Sprintf("You have been added to %s", node.Title),
		HTML: fmt.Sprintf("<p>Hello %s,</p><p>You have been added as a contributor to <strong>%s</strong>.</p>",
			user.FullName, node.Title),
		Categories: []string{"contributor_added"},
	})
}

func contributorJSON(contributor *models.Contributor, user *models.User) gin.H {
	return gin.H{
		"user_guid":  user.GUID,
		"email":      user.Email,
		"full_name":  user.FullName,
		"visible":    contributor.Visible,
		"is_curator": contributor.IsCurator,
	}
}

// ListContributorsHandler returns all contributors on a node
func ListContributorsHandler(c *gin.Context) {
	node, err := nodes.GetNodeByGUID(db.GetDB(), c.Param("guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}

	list, err := contributors.ListByNode(db.GetDB(), node)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list contributors"})
		return
	}

	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, contributorJSON(&list[i], &list[i].User))
	}
	c.JSON(http.StatusOK, gin.H{"contributors": out})
}

type updateContributorRequest struct {
	Visible *bool `json:"visible" binding:"required"`
}

// UpdateContributorHandler changes the bibliographic flag. Flipping a
// curator visible is rejected with the integrity error text.
func UpdateContributorHandler(c *gin.Context) {
	node, err := nodes.GetNodeByGUID(db.GetDB(), c.Param("guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}

	user, err := users.GetUserByGUID(db.GetDB(), c.Param("user_guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	contributor, err := contributors.Get(db.GetDB(), node, user)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contributor not found"})
		return
	}

	var req updateContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Visible == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "visible required"})
		return
	}

	if err := contributors.SetVisible(db.GetDB(), contributor, *req.Visible); err != nil {
		if errors.Is(err, models.ErrCuratorVisible) {
			c.JSON(http.StatusBadRequest, gin.H{"error": models.ErrCuratorVisible.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update contributor"})
		return
	}

	c.JSON(http.StatusOK, contributorJSON(contributor, user))
}

// RemoveContributorHandler detaches a user from a node
func RemoveContributorHandler(c *gin.Context) {
	node, err := nodes.GetNodeByGUID(db.GetDB(), c.Param("guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}

	user, err := users.GetUserByGUID(db.GetDB(), c.Param("user_guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := contributors.Remove(db.GetDB(), node, user); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "contributor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"removed": true})
}
