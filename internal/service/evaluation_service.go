package service

import (
	"context"
	"fmt"
	"time"

	"readiness-service/internal/event"
	"readiness-service/internal/models"
	"readiness-service/internal/repository"
	"readiness-service/internal/rubric"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitAttemptInput is one practice answer submission.
type SubmitAttemptInput struct {
	UserID           string `json:"-"`
	QuestionID       string `json:"question_id" binding:"required"`
	SelectedOptionID string `json:"selected_option_id"`
	AnswerText       string `json:"answer_text"`
	TimeTakenSeconds int    `json:"time_taken_seconds"`
}

// AttemptResult pairs the stored attempt with its evaluation.
type AttemptResult struct {
	Attempt    *models.PracticeAttempt    `json:"attempt"`
	Evaluation *models.PracticeEvaluation `json:"evaluation"`
}

// EvaluationService records practice attempts, grades them and folds the
// result into topic mastery.
type EvaluationService struct {
	questionRepo *repository.QuestionRepository
	attemptRepo  *repository.AttemptRepository
	evalRepo     *repository.EvaluationRepository
	masteryRepo  *repository.MasteryRepository
	readiness    *ReadinessService
	progress     *ProgressService
	scorer       *rubric.Scorer
	publisher    *event.EventPublisher
	logger       *zap.Logger
}

func NewEvaluationService(
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	evalRepo *repository.EvaluationRepository,
	masteryRepo *repository.MasteryRepository,
	readinessService *ReadinessService,
	progressService *ProgressService,
	publisher *event.EventPublisher,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		evalRepo:     evalRepo,
		masteryRepo:  masteryRepo,
		readiness:    readinessService,
		progress:     progressService,
		scorer:       rubric.NewScorer(nil),
		publisher:    publisher,
		logger:       logger,
	}
}

// SubmitAttempt grades one practice answer. MCQs resolve by option matching;
// written answers go through the rubric scorer. The attempt record is
// immutable; re-attempts get a fresh attempt_number.
func (s *EvaluationService) SubmitAttempt(ctx context.Context, in SubmitAttemptInput) (*AttemptResult, error) {
	question, err := s.questionRepo.FindByID(ctx, in.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}

	count, err := s.attemptRepo.CountByUserAndQuestion(ctx, in.UserID, in.QuestionID)
	if err != nil {
		return nil, fmt.Errorf("count attempts: %w", err)
	}

	now := time.Now().UTC()
	attempt := &models.PracticeAttempt{
		ID:               uuid.NewString(),
		UserID:           in.UserID,
		QuestionID:       in.QuestionID,
		SubjectID:        question.SubjectID,
		TopicTags:        question.TopicTags,
		SelectedOptionID: in.SelectedOptionID,
		AnswerText:       in.AnswerText,
		AttemptNumber:    int(count) + 1,
		AttemptedAt:      now,
		TimeTakenSeconds: in.TimeTakenSeconds,
	}

	evaluation := &models.PracticeEvaluation{
		ID:        uuid.NewString(),
		AttemptID: attempt.ID,
		UserID:    in.UserID,
		Status:    models.EvaluationCompleted,
		UpdatedAt: now,
	}

	var latestScore float64
	switch {
	case question.Type == models.QuestionMCQ:
		correct := in.SelectedOptionID != "" && in.SelectedOptionID == question.CorrectOptionID
		attempt.IsCorrect = &correct
		evaluation.MaxScore = float64(question.Marks)
		if correct {
			evaluation.Score = float64(question.Marks)
			evaluation.OverallFeedback = "Correct"
			latestScore = 1
		} else {
			evaluation.OverallFeedback = "Incorrect"
		}
	case question.IsWrittenType():
		result, err := s.scorer.EvaluateAnswer(in.AnswerText, *question)
		if err != nil {
			return nil, err
		}
		evaluation.Score = result.MarksAwarded
		evaluation.MaxScore = result.MaxMarks
		evaluation.RubricBreakdown = result.Breakdown
		evaluation.OverallFeedback = result.OverallFeedback
		evaluation.Strengths = result.Strengths
		evaluation.Improvements = result.Improvements
		if result.MaxMarks > 0 {
			latestScore = result.MarksAwarded / result.MaxMarks
		}
	default:
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidQuestionType, question.Type)
	}

	if err := s.attemptRepo.Create(ctx, attempt); err != nil {
		return nil, fmt.Errorf("store attempt: %w", err)
	}
	if err := s.evalRepo.Upsert(ctx, evaluation); err != nil {
		return nil, fmt.Errorf("store evaluation: %w", err)
	}

	if err := s.updateMastery(ctx, attempt, latestScore, now); err != nil {
		return nil, err
	}
	s.readiness.Invalidate(in.UserID, question.SubjectID)
	if s.progress != nil {
		if err := s.progress.Recalculate(ctx, in.UserID, question.SubjectID); err != nil {
			s.logger.Warn("progress recalculation failed",
				zap.String("user_id", in.UserID), zap.Error(err))
		}
	}

	if s.publisher != nil {
		s.publisher.Publish(event.EvaluationCompleted, map[string]any{
			"attempt_id":  attempt.ID,
			"user_id":     in.UserID,
			"question_id": in.QuestionID,
			"score":       evaluation.Score,
			"max_score":   evaluation.MaxScore,
		})
	}

	s.logger.Info("recorded practice attempt",
		zap.String("user_id", in.UserID),
		zap.String("question_id", in.QuestionID),
		zap.Int("attempt_number", attempt.AttemptNumber),
		zap.Float64("score", evaluation.Score))
	return &AttemptResult{Attempt: attempt, Evaluation: evaluation}, nil
}

func (s *EvaluationService) GetEvaluation(ctx context.Context, attemptID string) (*models.PracticeEvaluation, error) {
	return s.evalRepo.FindByAttemptID(ctx, attemptID)
}

// updateMastery blends the latest result into every topic the question tags.
func (s *EvaluationService) updateMastery(ctx context.Context, attempt *models.PracticeAttempt, latest float64, now time.Time) error {
	for _, topic := range attempt.TopicTags {
		newScore := latest
		if old, err := s.masteryRepo.FindOne(ctx, attempt.UserID, attempt.SubjectID, topic); err == nil {
			newScore = masteryOldWeight*old.MasteryScore + masteryLatestWeight*latest
		}
		if err := s.masteryRepo.Upsert(ctx, attempt.UserID, attempt.SubjectID, topic, newScore, now); err != nil {
			return fmt.Errorf("update mastery for %s: %w", topic, err)
		}
	}
	return nil
}
