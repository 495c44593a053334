package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"readiness-service/internal/event"
	"readiness-service/internal/models"
	"readiness-service/internal/priority"
	"readiness-service/internal/repository"
	"readiness-service/internal/studyplan"

	"go.uber.org/zap"
)

// PlanService resolves topic content and delegates scheduling to the
// study plan generator.
type PlanService struct {
	userRepo     *repository.UserRepository
	questionRepo *repository.QuestionRepository
	attemptRepo  *repository.AttemptRepository
	contentRepo  *repository.ContentRepository
	priority     *PriorityService
	planner      *studyplan.Planner
	publisher    *event.EventPublisher
	logger       *zap.Logger
}

func NewPlanService(
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	attemptRepo *repository.AttemptRepository,
	contentRepo *repository.ContentRepository,
	priorityService *PriorityService,
	publisher *event.EventPublisher,
	logger *zap.Logger,
) *PlanService {
	return &PlanService{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		attemptRepo:  attemptRepo,
		contentRepo:  contentRepo,
		priority:     priorityService,
		planner:      studyplan.NewPlanner(nil),
		publisher:    publisher,
		logger:       logger,
	}
}

func (s *PlanService) GenerateDailyPlan(ctx context.Context, userID string, targetMinutes int) (*studyplan.DayPlan, error) {
	records, content, err := s.prepare(ctx, userID)
	if err != nil {
		return nil, err
	}

	plan := s.planner.DailyPlan(records, content, targetMinutes, nil)
	s.publishPlan(userID, "daily", 1)
	return &plan, nil
}

func (s *PlanService) GenerateWeeklyPlan(ctx context.Context, userID string, targetMinutes int) ([]studyplan.DayPlan, error) {
	records, content, err := s.prepare(ctx, userID)
	if err != nil {
		return nil, err
	}

	plans := s.planner.WeeklyPlan(records, content, targetMinutes, 7)
	s.publishPlan(userID, "weekly", len(plans))
	return plans, nil
}

func (s *PlanService) prepare(ctx context.Context, userID string) ([]priority.Record, map[string]studyplan.TopicContent, error) {
	result, err := s.priority.GetPriorities(ctx, userID, "")
	if err != nil {
		return nil, nil, err
	}
	if !result.DataAvailable {
		return nil, map[string]studyplan.TopicContent{}, nil
	}

	content := make(map[string]studyplan.TopicContent, len(result.Records))
	for _, rec := range result.Records {
		tc, err := s.topicContent(ctx, userID, rec.SubjectID, rec.TopicTag)
		if err != nil {
			return nil, nil, err
		}
		content[rec.TopicTag] = tc
	}
	return result.Records, content, nil
}

// topicContent picks one concept, one case example and one practice question
// for a topic. Missing material leaves the slot nil.
func (s *PlanService) topicContent(ctx context.Context, userID, subjectID, topicTag string) (studyplan.TopicContent, error) {
	var tc studyplan.TopicContent

	concept, err := s.contentRepo.FindOneByTopic(ctx, subjectID, topicTag, models.ContentConcept)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return tc, fmt.Errorf("load concept content: %w", err)
	}
	tc.Concept = concept

	example, err := s.contentRepo.FindOneByTopic(ctx, subjectID, topicTag, models.ContentCaseExample)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return tc, fmt.Errorf("load case content: %w", err)
	}
	tc.Example = example

	questions, err := s.questionRepo.FindByTopic(ctx, subjectID, topicTag)
	if err != nil {
		return tc, fmt.Errorf("load topic questions: %w", err)
	}
	if q := pickPracticeQuestion(questions); q != nil {
		ref := &studyplan.PracticeRef{
			QuestionID:   q.ID,
			Marks:        q.Marks,
			QuestionType: q.Type,
		}
		if avg, err := s.averageAttemptSeconds(ctx, userID, q.ID); err == nil && avg > 0 {
			ref.AvgTimeSeconds = avg
		}
		tc.Practice = ref
	}

	return tc, nil
}

// pickPracticeQuestion chooses the lowest-id question so the slot is stable
// across regenerations.
func pickPracticeQuestion(questions []models.Question) *models.Question {
	if len(questions) == 0 {
		return nil
	}
	sort.Slice(questions, func(i, j int) bool { return questions[i].ID < questions[j].ID })
	return &questions[0]
}

func (s *PlanService) averageAttemptSeconds(ctx context.Context, userID, questionID string) (float64, error) {
	attempts, err := s.attemptRepo.FindByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	total, n := 0, 0
	for _, a := range attempts {
		if a.QuestionID == questionID && a.TimeTakenSeconds > 0 {
			total += a.TimeTakenSeconds
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return float64(total) / float64(n), nil
}

func (s *PlanService) publishPlan(userID, kind string, days int) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(event.PlanGenerated, map[string]any{
		"user_id": userID,
		"kind":    kind,
		"days":    days,
	})
}
