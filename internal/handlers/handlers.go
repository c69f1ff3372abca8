// Package handlers contains the gin handlers for the JSON API.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/madrona-research/madrona/internal/email"
	"github.com/madrona-research/madrona/internal/models"
)

// dispatcher delivers notification email in the background. Nil when the
// server runs without outbound email, handlers must tolerate that.
var dispatcher *email.Dispatcher

// SetDispatcher wires the background email dispatcher into the handlers
func SetDispatcher(d *email.Dispatcher) {
	dispatcher = d
}

// currentUser returns the authenticated user placed in the context by the
// auth middleware
func currentUser(c *gin.Context) *models.User {
	userVal, exists := c.Get("user")
	if !exists {
		return nil
	}
	return userVal.(*models.User)
}

func enqueueEmail(msg *email.Message) {
	if dispatcher != nil {
		dispatcher.Enqueue(msg)
	}
}
