package handlers

import (
	"context"
	"errors"
	"net/http"

	"readiness-service/internal/models"
	"readiness-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	Service *service.ExamService
}

func NewExamHandler(s *service.ExamService) *ExamHandler {
	return &ExamHandler{Service: s}
}

type examRequest struct {
	ExamType   string   `json:"exam_type" binding:"required"`
	SubjectIDs []string `json:"subject_ids"`
}

// GenerateBlueprint returns a fresh blueprint without starting a session.
func (h *ExamHandler) GenerateBlueprint(c *gin.Context) {
	var req examRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	examType, err := models.ParseExamType(req.ExamType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown exam type", "exam_type": req.ExamType})
		return
	}

	bp, err := h.Service.GenerateBlueprint(context.Background(), c.GetHeader("X-User-ID"), examType, req.SubjectIDs)
	if err != nil {
		h.writeError(c, err, "Failed to generate blueprint")
		return
	}
	c.JSON(http.StatusOK, bp)
}

// StartSession generates a blueprint and opens a timed session on it.
func (h *ExamHandler) StartSession(c *gin.Context) {
	var req examRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	examType, err := models.ParseExamType(req.ExamType)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown exam type", "exam_type": req.ExamType})
		return
	}

	session, err := h.Service.StartSession(context.Background(), c.GetHeader("X-User-ID"), examType, req.SubjectIDs)
	if err != nil {
		h.writeError(c, err, "Failed to start session")
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *ExamHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(context.Background(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to load session")
		return
	}
	c.JSON(http.StatusOK, session)
}

// SaveAnswer upserts one answer while the session is in progress.
func (h *ExamHandler) SaveAnswer(c *gin.Context) {
	var req struct {
		QuestionID       string `json:"question_id" binding:"required"`
		AnswerText       string `json:"answer_text"`
		TimeTakenSeconds int    `json:"time_taken_seconds"`
		IsFlagged        bool   `json:"is_flagged"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	err := h.Service.SaveAnswer(context.Background(), c.Param("id"), req.QuestionID, req.AnswerText, req.TimeTakenSeconds, req.IsFlagged)
	if err != nil {
		h.writeError(c, err, "Failed to save answer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

func (h *ExamHandler) SubmitSession(c *gin.Context) {
	var req struct {
		AutoSubmit bool `json:"auto_submit"`
	}
	// Body is optional; a bare POST is a manual submit.
	_ = c.ShouldBindJSON(&req)

	session, err := h.Service.Submit(context.Background(), c.Param("id"), req.AutoSubmit)
	if err != nil {
		h.writeError(c, err, "Failed to submit session")
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *ExamHandler) EvaluateSession(c *gin.Context) {
	ev, err := h.Service.EvaluateSession(context.Background(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to evaluate session")
		return
	}
	c.JSON(http.StatusOK, ev)
}

func (h *ExamHandler) GetSessionResult(c *gin.Context) {
	ev, err := h.Service.GetSessionEvaluation(context.Background(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to load session result")
		return
	}
	c.JSON(http.StatusOK, ev)
}

// GetAnswerEvaluations returns the per-answer detail behind a session result.
func (h *ExamHandler) GetAnswerEvaluations(c *gin.Context) {
	evals, err := h.Service.GetAnswerEvaluations(context.Background(), c.Param("id"))
	if err != nil {
		h.writeError(c, err, "Failed to load answer evaluations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"answers": evals})
}

// GetPoolStats reports what the catalog can supply for blueprint generation.
func (h *ExamHandler) GetPoolStats(c *gin.Context) {
	var subjectIDs []string
	if subjectID := c.Query("subject_id"); subjectID != "" {
		subjectIDs = []string{subjectID}
	}
	stats, err := h.Service.GetPoolStats(context.Background(), c.GetHeader("X-User-ID"), subjectIDs)
	if err != nil {
		h.writeError(c, err, "Failed to load pool stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *ExamHandler) writeError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, models.ErrSessionNotActive):
		c.JSON(http.StatusConflict, gin.H{"error": "Session is not in the required state"})
	case errors.Is(err, models.ErrInvalidExamType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown exam type"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}
