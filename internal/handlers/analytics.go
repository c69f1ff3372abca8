package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/analytics"
	"github.com/madrona-research/madrona/internal/db"
)

// PreprintSummaryHandler returns per-provider preprint counts for one day.
// The date query parameter defaults to yesterday.
func PreprintSummaryHandler(c *gin.Context) {
	day := time.Now().UTC().AddDate(0, 0, -1)
	if dateParam := c.Query("date"); dateParam != "" {
		parsed, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
			return
		}
		day = parsed
	}

	summary := analytics.NewPreprintSummary()
	events, err := summary.GetEvents(c.Request.Context(), db.GetDB(), day)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "analytics backend unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}
