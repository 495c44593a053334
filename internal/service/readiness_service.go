package service

import (
	"context"
	"fmt"
	"time"

	"readiness-service/internal/cache"
	"readiness-service/internal/models"
	"readiness-service/internal/readiness"
	"readiness-service/internal/repository"
	"readiness-service/internal/rubric"

	"go.uber.org/zap"
)

// ReadinessService computes the Exam Readiness Index, caching results until
// new activity invalidates them.
type ReadinessService struct {
	userRepo     *repository.UserRepository
	questionRepo *repository.QuestionRepository
	masteryRepo  *repository.MasteryRepository
	attemptRepo  *repository.AttemptRepository
	evalRepo     *repository.EvaluationRepository
	sessionRepo  *repository.ExamSessionRepository
	answerRepo   *repository.ExamAnswerRepository
	examEvalRepo *repository.ExamEvaluationRepository
	cache        cache.Cache
	engine       *readiness.Engine
	logger       *zap.Logger
}

func NewReadinessService(
	userRepo *repository.UserRepository,
	questionRepo *repository.QuestionRepository,
	masteryRepo *repository.MasteryRepository,
	attemptRepo *repository.AttemptRepository,
	evalRepo *repository.EvaluationRepository,
	sessionRepo *repository.ExamSessionRepository,
	answerRepo *repository.ExamAnswerRepository,
	examEvalRepo *repository.ExamEvaluationRepository,
	c cache.Cache,
	logger *zap.Logger,
) *ReadinessService {
	return &ReadinessService{
		userRepo:     userRepo,
		questionRepo: questionRepo,
		masteryRepo:  masteryRepo,
		attemptRepo:  attemptRepo,
		evalRepo:     evalRepo,
		sessionRepo:  sessionRepo,
		answerRepo:   answerRepo,
		examEvalRepo: examEvalRepo,
		cache:        c,
		engine:       readiness.NewEngine(nil),
		logger:       logger,
	}
}

func readinessCacheKey(userID, subjectID string) string {
	return "eri:" + userID + ":" + subjectID
}

// Invalidate drops cached indexes for a user after new activity. Both the
// subject-scoped and the overall entry go.
func (s *ReadinessService) Invalidate(userID, subjectID string) {
	s.cache.Evict(readinessCacheKey(userID, subjectID))
	s.cache.Evict(readinessCacheKey(userID, ""))
}

// GetReadiness computes the index for a user, optionally scoped to one
// subject. Missing data degrades component scores; it never errors.
func (s *ReadinessService) GetReadiness(ctx context.Context, userID, subjectID string) (*readiness.Index, error) {
	key := readinessCacheKey(userID, subjectID)
	if v, ok := s.cache.Get(key); ok {
		return v.(*readiness.Index), nil
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	input, err := s.assembleInput(ctx, user, subjectID)
	if err != nil {
		return nil, err
	}

	index := s.engine.Calculate(*input)
	s.cache.Set(key, &index)
	s.logger.Info("computed readiness index",
		zap.String("user_id", userID),
		zap.String("subject_id", subjectID),
		zap.Float64("score", index.Score),
		zap.String("band", index.Band))
	return &index, nil
}

func (s *ReadinessService) assembleInput(ctx context.Context, user *models.UserRecord, subjectID string) (*readiness.Input, error) {
	subjectIDs := user.EnrolledSubjectIDs
	if subjectID != "" {
		subjectIDs = []string{subjectID}
	}

	cfg := readiness.DefaultConfig()
	input := &readiness.Input{}

	// Knowledge: scoped masteries against the catalog's topic universe.
	var masteries []models.TopicMastery
	var err error
	if subjectID != "" {
		masteries, err = s.masteryRepo.FindByUserAndSubject(ctx, user.ID, subjectID)
	} else {
		masteries, err = s.masteryRepo.FindByUser(ctx, user.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("load masteries: %w", err)
	}
	for _, m := range masteries {
		input.Masteries = append(input.Masteries, readiness.MasteryInput{
			TopicTag:     m.TopicTag,
			MasteryScore: m.MasteryScore,
			AttemptCount: m.AttemptCount,
		})
	}
	counts, err := s.questionRepo.CountByTopic(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("count questions by topic: %w", err)
	}
	input.TotalTopicsInScope = len(counts)

	// Application: recent evaluated written answers.
	evals, err := s.evalRepo.FindRecentByUser(ctx, user.ID, cfg.MaxRecentAnswers)
	if err != nil {
		return nil, fmt.Errorf("load evaluations: %w", err)
	}
	for _, ev := range evals {
		if ev.MaxScore > 0 {
			input.AnswerPercentages = append(input.AnswerPercentages, ev.Score/ev.MaxScore*100)
		}
		for _, c := range ev.RubricBreakdown {
			if c.Criterion == rubric.CriterionApplication && c.MaxMarks > 0 {
				input.ApplicationSubScores = append(input.ApplicationSubScores, c.Awarded/c.MaxMarks*100)
			}
		}
	}

	// Strategy: recent finished exam sessions with per-question timing.
	sessions, err := s.sessionRepo.FindRecentFinishedByUser(ctx, user.ID, cfg.MaxRecentSessions)
	if err != nil {
		return nil, fmt.Errorf("load exam sessions: %w", err)
	}
	for _, sess := range sessions {
		answers, err := s.answerRepo.FindBySession(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("load answers for session %s: %w", sess.ID, err)
		}
		answered := 0
		perQuestion := make([]float64, 0, len(answers))
		for _, a := range answers {
			if a.AnswerText != "" {
				answered++
			}
			if a.TimeTakenSeconds > 0 {
				perQuestion = append(perQuestion, float64(a.TimeTakenSeconds))
			}
		}
		total := 0
		for _, sec := range sess.BlueprintData.Sections {
			total += sec.QuestionCount
		}
		completedAt := sess.StartedAt
		if sess.SubmittedAt != nil {
			completedAt = *sess.SubmittedAt
		}
		input.Sessions = append(input.Sessions, readiness.SessionInput{
			DurationMinutes:   sess.DurationMinutes,
			TimeTakenSeconds:  sess.TimeTakenSeconds,
			AutoSubmitted:     sess.Status == models.SessionAutoSubmitted,
			QuestionsAnswered: answered,
			QuestionsTotal:    total,
			PerQuestionSecs:   perQuestion,
			CompletedAt:       completedAt,
		})
	}

	// Consistency: active days in the lookback window plus session trend.
	since := time.Now().UTC().AddDate(0, 0, -cfg.LookbackDays)
	attempts, err := s.attemptRepo.FindSince(ctx, user.ID, since)
	if err != nil {
		return nil, fmt.Errorf("load recent attempts: %w", err)
	}
	days := map[string]bool{}
	for _, a := range attempts {
		days[a.AttemptedAt.UTC().Format("2006-01-02")] = true
	}
	input.ActiveDaysLast30 = len(days)

	sessionEvals, err := s.examEvalRepo.FindRecentByUser(ctx, user.ID, cfg.MaxRecentSessions)
	if err != nil {
		return nil, fmt.Errorf("load session evaluations: %w", err)
	}
	for _, ev := range sessionEvals {
		input.SessionPercentages = append(input.SessionPercentages, ev.Percentage)
	}

	return input, nil
}
