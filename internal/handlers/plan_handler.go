package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"readiness-service/internal/models"
	"readiness-service/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultTargetMinutes = 120

type PlanHandler struct {
	Service *service.PlanService
}

func NewPlanHandler(s *service.PlanService) *PlanHandler {
	return &PlanHandler{Service: s}
}

func (h *PlanHandler) GetDailyPlan(c *gin.Context) {
	plan, err := h.Service.GenerateDailyPlan(context.Background(), c.GetHeader("X-User-ID"), targetMinutes(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *PlanHandler) GetWeeklyPlan(c *gin.Context) {
	plans, err := h.Service.GenerateWeeklyPlan(context.Background(), c.GetHeader("X-User-ID"), targetMinutes(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": plans})
}

func (h *PlanHandler) writeError(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate plan", "details": err.Error()})
}

func targetMinutes(c *gin.Context) int {
	if v, err := strconv.Atoi(c.Query("target_minutes")); err == nil && v > 0 {
		return v
	}
	return defaultTargetMinutes
}
