package service

import (
	"context"
	"fmt"

	"readiness-service/internal/models"
	"readiness-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// A topic counts as completed for progress purposes at this mastery level.
const completedMasteryScore = 0.7

// ProgressService recalculates subject completion from mastery records and
// the question catalog. Progress is derived, never authored.
type ProgressService struct {
	questionRepo *repository.QuestionRepository
	masteryRepo  *repository.MasteryRepository
	progressRepo *repository.ProgressRepository
	logger       *zap.Logger
}

func NewProgressService(
	questionRepo *repository.QuestionRepository,
	masteryRepo *repository.MasteryRepository,
	progressRepo *repository.ProgressRepository,
	logger *zap.Logger,
) *ProgressService {
	return &ProgressService{
		questionRepo: questionRepo,
		masteryRepo:  masteryRepo,
		progressRepo: progressRepo,
		logger:       logger,
	}
}

// Recalculate rebuilds one subject's completion figures from scratch.
func (s *ProgressService) Recalculate(ctx context.Context, userID, subjectID string) error {
	counts, err := s.questionRepo.CountByTopic(ctx, []string{subjectID})
	if err != nil {
		return fmt.Errorf("count catalog topics: %w", err)
	}

	masteries, err := s.masteryRepo.FindByUserAndSubject(ctx, userID, subjectID)
	if err != nil {
		return fmt.Errorf("load masteries: %w", err)
	}

	completed := 0
	for _, m := range masteries {
		if _, inCatalog := counts[m.TopicTag]; inCatalog && m.MasteryScore >= completedMasteryScore {
			completed++
		}
	}

	total := len(counts)
	percentage := 0.0
	if total > 0 {
		percentage = float64(completed) / float64(total) * 100
	}

	progress := &models.SubjectProgress{
		ID:                   uuid.NewString(),
		UserID:               userID,
		SubjectID:            subjectID,
		CompletionPercentage: percentage,
		TotalItems:           total,
		CompletedItems:       completed,
	}
	if err := s.progressRepo.Upsert(ctx, progress); err != nil {
		return fmt.Errorf("store progress: %w", err)
	}

	s.logger.Debug("recalculated subject progress",
		zap.String("user_id", userID),
		zap.String("subject_id", subjectID),
		zap.Float64("completion", percentage))
	return nil
}

func (s *ProgressService) GetProgress(ctx context.Context, userID string) ([]models.SubjectProgress, error) {
	return s.progressRepo.FindByUser(ctx, userID)
}
