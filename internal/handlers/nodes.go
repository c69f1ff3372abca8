package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/models"
	"github.com/madrona-research/madrona/internal/nodes"
)

type createNodeRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func nodeJSON(node *models.Node) gin.H {
	return gin.H{
		"guid":        node.GUID,
		"title":       node.Title,
		"description": node.Description,
		"public":      node.Public,
	}
}

// CreateNodeHandler creates a node owned by the authenticated user
func CreateNodeHandler(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req createNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}

	node, err := nodes.CreateNode(db.GetDB(), user, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create node"})
		return
	}

	c.JSON(http.StatusCreated, nodeJSON(node))
}

// GetNodeHandler returns a node by GUID
func GetNodeHandler(c *gin.Context) {
	node, err := nodes.GetNodeByGUID(db.GetDB(), c.Param("guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}

	c.JSON(http.StatusOK, nodeJSON(node))
}

// ListMyNodesHandler returns the nodes created by the authenticated user
func ListMyNodesHandler(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	list, err := nodes.ListNodesByCreator(db.GetDB(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list nodes"})
		return
	}

	out := make([]gin.H, 0, len(list))
	for i := range list {
		out = append(out, nodeJSON(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"nodes": out})
}

type createRequestRequest struct {
	Institutional bool `json:"institutional"`
}

// CreateNodeRequestHandler records an access request by the authenticated
// user against the node
func CreateNodeRequestHandler(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	node, err := nodes.GetNodeByGUID(db.GetDB(), c.Param("guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "node not found"})
		return
	}

	var req createRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	request, err := nodes.CreateRequest(db.GetDB(), node, user, req.Institutional)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create request"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":            request.ID,
		"status":        request.Status,
		"institutional": request.IsInstitutionalRequest,
	})
}
