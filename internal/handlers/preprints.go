package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/db"
	"github.com/madrona-research/madrona/internal/models"
	"github.com/madrona-research/madrona/internal/preprints"
	"github.com/madrona-research/madrona/internal/search"
)

type createPreprintRequest struct {
	Provider    string `json:"provider" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func preprintJSON(preprint *models.Preprint) gin.H {
	out := gin.H{
		"guid":         preprint.GUID,
		"title":        preprint.Title,
		"description":  preprint.Description,
		"date_created": preprint.DateCreated,
		"published":    preprint.DatePublished != nil,
	}
	if preprint.Provider.Name != "" {
		out["provider"] = preprint.Provider.Name
	}
	if preprint.DatePublished != nil {
		out["date_published"] = preprint.DatePublished
	}
	return out
}

// CreatePreprintHandler creates an unpublished preprint
func CreatePreprintHandler(c *gin.Context) {
	var req createPreprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provider and title required"})
		return
	}

	provider, err := preprints.GetProviderByName(db.GetDB(), req.Provider)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "provider not found"})
		return
	}

	preprint, err := preprints.CreatePreprint(db.GetDB(), provider, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create preprint"})
		return
	}
	preprint.Provider = *provider

	c.JSON(http.StatusCreated, preprintJSON(preprint))
}

// GetPreprintHandler returns a preprint by GUID
func GetPreprintHandler(c *gin.Context) {
	preprint, err := preprints.GetPreprintByGUID(db.GetDB(), c.Param("guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "preprint not found"})
		return
	}

	c.JSON(http.StatusOK, preprintJSON(preprint))
}

// PublishPreprintHandler stamps the publication date and indexes the preprint
func PublishPreprintHandler(c *gin.Context) {
	preprint, err := preprints.GetPreprintByGUID(db.GetDB(), c.Param("guid"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "preprint not found"})
		return
	}

	if err := preprints.Publish(db.GetDB(), preprint); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, preprintJSON(preprint))
}

// SearchPreprintsHandler performs full-text search over published preprints
func SearchPreprintsHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Query parameter 'q' is required"})
		return
	}

	results, err := search.Search(db.GetDB(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// ListProvidersHandler returns all preprint providers
func ListProvidersHandler(c *gin.Context) {
	providers, err := preprints.ListProviders(db.GetDB())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list providers"})
		return
	}

	out := make([]gin.H, 0, len(providers))
	for _, provider := range providers {
		out = append(out, gin.H{"name": provider.Name, "description": provider.Description})
	}
	c.JSON(http.StatusOK, gin.H{"providers": out})
}

type createProviderRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// CreateProviderHandler registers a preprint provider (admin only)
func CreateProviderHandler(c *gin.Context) {
	var req createProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	provider, err := preprints.CreateProvider(db.GetDB(), req.Name, req.Description)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "failed to create provider"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"name": provider.Name, "description": provider.Description})
}
