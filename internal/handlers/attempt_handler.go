package handlers

import (
	"context"
	"errors"
	"net/http"

	"readiness-service/internal/models"
	"readiness-service/internal/service"

	"github.com/gin-gonic/gin"
)

type AttemptHandler struct {
	Service *service.EvaluationService
}

func NewAttemptHandler(s *service.EvaluationService) *AttemptHandler {
	return &AttemptHandler{Service: s}
}

// SubmitAttempt records and grades one practice answer.
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var in service.SubmitAttemptInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	in.UserID = c.GetHeader("X-User-ID")

	result, err := h.Service.SubmitAttempt(context.Background(), in)
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
	case errors.Is(err, models.ErrInvalidQuestionType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Question type cannot be graded"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record attempt", "details": err.Error()})
	default:
		c.JSON(http.StatusCreated, result)
	}
}

func (h *AttemptHandler) GetEvaluation(c *gin.Context) {
	ev, err := h.Service.GetEvaluation(context.Background(), c.Param("attemptId"))
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Evaluation not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load evaluation", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ev)
}
