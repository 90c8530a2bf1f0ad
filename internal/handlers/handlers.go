// Package handlers wires the featured feed service to the HTTP surface.
package handlers

import (
	"net/http"
	"time"

	"github.com/driftnote/backend/internal/feed"
	"github.com/gin-gonic/gin"
)

// Handlers holds the services the HTTP layer depends on
type Handlers struct {
	feed         *feed.Service
	maxPageLimit int
}

// NewHandlers creates a new handlers instance
func NewHandlers(feedService *feed.Service, maxPageLimit int) *Handlers {
	if maxPageLimit <= 0 {
		maxPageLimit = 100
	}
	return &Handlers{
		feed:         feedService,
		maxPageLimit: maxPageLimit,
	}
}

// Health reports service liveness
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "driftnote-backend",
	})
}
