package handlers

import (
	"context"
	"net/http"

	"readiness-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	Service *service.ProgressService
}

func NewProgressHandler(s *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{Service: s}
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	progress, err := h.Service.GetProgress(context.Background(), c.GetHeader("X-User-ID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load progress", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": progress})
}
