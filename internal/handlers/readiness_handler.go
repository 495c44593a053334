package handlers

import (
	"context"
	"errors"
	"net/http"

	"readiness-service/internal/models"
	"readiness-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ReadinessHandler struct {
	Service *service.ReadinessService
}

func NewReadinessHandler(s *service.ReadinessService) *ReadinessHandler {
	return &ReadinessHandler{Service: s}
}

func (h *ReadinessHandler) GetReadiness(c *gin.Context) {
	userID := c.GetHeader("X-User-ID")
	subjectID := c.Query("subject_id")

	index, err := h.Service.GetReadiness(context.Background(), userID, subjectID)
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute readiness", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, index)
}
