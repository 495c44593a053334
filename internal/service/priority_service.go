package service

import (
	"context"
	"fmt"
	"time"

	"readiness-service/internal/models"
	"readiness-service/internal/priority"
	"readiness-service/internal/repository"

	"go.uber.org/zap"
)

// PriorityService assembles per-topic stats from the stores and delegates
// scoring to the priority engine.
type PriorityService struct {
	userRepo     *repository.UserRepository
	subjectRepo  *repository.SubjectRepository
	questionRepo *repository.QuestionRepository
	masteryRepo  *repository.MasteryRepository
	engine       *priority.Engine
	logger       *zap.Logger
}

func NewPriorityService(
	userRepo *repository.UserRepository,
	subjectRepo *repository.SubjectRepository,
	questionRepo *repository.QuestionRepository,
	masteryRepo *repository.MasteryRepository,
	logger *zap.Logger,
) *PriorityService {
	return &PriorityService{
		userRepo:     userRepo,
		subjectRepo:  subjectRepo,
		questionRepo: questionRepo,
		masteryRepo:  masteryRepo,
		engine:       priority.NewEngine(nil),
		logger:       logger,
	}
}

// GetPriorities ranks the user's practiced topics. An empty subjectID scopes
// to all enrolled subjects.
func (s *PriorityService) GetPriorities(ctx context.Context, userID, subjectID string) (*priority.Result, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	subjectIDs := user.EnrolledSubjectIDs
	if subjectID != "" {
		subjectIDs = []string{subjectID}
	}

	stats, err := s.TopicStats(ctx, userID, subjectIDs)
	if err != nil {
		return nil, err
	}

	result := s.engine.Rank(stats, user.CurrentSemester)
	s.logger.Info("ranked topic priorities",
		zap.String("user_id", userID),
		zap.Int("topics", len(result.Records)),
		zap.Bool("data_available", result.DataAvailable))
	return &result, nil
}

// TopicStats joins mastery records with the question catalog for the given
// subject scope. Shared with the study plan service.
func (s *PriorityService) TopicStats(ctx context.Context, userID string, subjectIDs []string) ([]priority.TopicStats, error) {
	counts, err := s.questionRepo.CountByTopic(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("count questions by topic: %w", err)
	}

	subjects, err := s.subjectRepo.FindByIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	semesterBySubject := make(map[string]int, len(subjects))
	for _, sub := range subjects {
		semesterBySubject[sub.ID] = sub.Semester
	}

	inScope := make(map[string]bool, len(subjectIDs))
	for _, id := range subjectIDs {
		inScope[id] = true
	}

	masteries, err := s.masteryRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load masteries: %w", err)
	}

	now := time.Now().UTC()
	stats := make([]priority.TopicStats, 0, len(masteries))
	for _, m := range masteries {
		if !inScope[m.SubjectID] {
			continue
		}
		stats = append(stats, priority.TopicStats{
			TopicTag:          m.TopicTag,
			SubjectID:         m.SubjectID,
			MasteryScore:      m.MasteryScore,
			AttemptCount:      m.AttemptCount,
			DaysSincePractice: now.Sub(m.LastPracticedAt).Hours() / 24,
			QuestionCount:     counts[m.TopicTag],
			TopicSemester:     semesterBySubject[m.SubjectID],
		})
	}
	return stats, nil
}

// TopicInsights reshapes mastery records into the map the blueprint
// generator scores against.
func (s *PriorityService) TopicInsights(ctx context.Context, userID string, subjectIDs []string) (map[string]models.TopicMastery, error) {
	inScope := make(map[string]bool, len(subjectIDs))
	for _, id := range subjectIDs {
		inScope[id] = true
	}
	masteries, err := s.masteryRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load masteries: %w", err)
	}
	out := make(map[string]models.TopicMastery)
	for _, m := range masteries {
		if inScope[m.SubjectID] {
			out[m.TopicTag] = m
		}
	}
	return out, nil
}
