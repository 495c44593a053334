package handlers

import (
	"context"
	"net/http"

	"readiness-service/internal/service"

	"github.com/gin-gonic/gin"
)

type PriorityHandler struct {
	Service *service.PriorityService
}

func NewPriorityHandler(s *service.PriorityService) *PriorityHandler {
	return &PriorityHandler{Service: s}
}

// GetPriorities returns the ranked topic list for the requesting user.
// An empty result is a valid no-data response, not an error.
func (h *PriorityHandler) GetPriorities(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	subjectID := c.Query("subject_id")

	result, err := h.Service.GetPriorities(context.Background(), userID, subjectID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute priorities", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
