package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"readiness-service/internal/blueprint"
	"readiness-service/internal/event"
	"readiness-service/internal/models"
	"readiness-service/internal/repository"
	"readiness-service/internal/rubric"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// Mastery write-back blend after an evaluated exam: the old score dominates so
// a single bad exam cannot erase accumulated mastery.
const (
	masteryOldWeight    = 0.7
	masteryLatestWeight = 0.3

	strongTopicPercent = 70.0
	weakTopicPercent   = 40.0
)

// Number of catalog subjects taken by the last-resort candidate fallback.
const subjectSampleSize = 3

// ExamService owns the blueprint-to-result lifecycle: generation, the timed
// session, answer capture, and deterministic evaluation.
type ExamService struct {
	userRepo       *repository.UserRepository
	subjectRepo    *repository.SubjectRepository
	questionRepo   *repository.QuestionRepository
	masteryRepo    *repository.MasteryRepository
	sessionRepo    *repository.ExamSessionRepository
	answerRepo     *repository.ExamAnswerRepository
	answerEvalRepo *repository.ExamAnswerEvaluationRepository
	examEvalRepo   *repository.ExamEvaluationRepository
	priority       *PriorityService
	readiness      *ReadinessService
	generator      *blueprint.Generator
	scorer         *rubric.Scorer
	publisher      *event.EventPublisher
	logger         *zap.Logger
}

func NewExamService(
	userRepo *repository.UserRepository,
	subjectRepo *repository.SubjectRepository,
	questionRepo *repository.QuestionRepository,
	masteryRepo *repository.MasteryRepository,
	sessionRepo *repository.ExamSessionRepository,
	answerRepo *repository.ExamAnswerRepository,
	answerEvalRepo *repository.ExamAnswerEvaluationRepository,
	examEvalRepo *repository.ExamEvaluationRepository,
	priorityService *PriorityService,
	readinessService *ReadinessService,
	publisher *event.EventPublisher,
	logger *zap.Logger,
) *ExamService {
	return &ExamService{
		userRepo:       userRepo,
		subjectRepo:    subjectRepo,
		questionRepo:   questionRepo,
		masteryRepo:    masteryRepo,
		sessionRepo:    sessionRepo,
		answerRepo:     answerRepo,
		answerEvalRepo: answerEvalRepo,
		examEvalRepo:   examEvalRepo,
		priority:       priorityService,
		readiness:      readinessService,
		generator:      blueprint.NewGenerator(nil),
		scorer:         rubric.NewScorer(nil),
		publisher:      publisher,
		logger:         logger,
	}
}

// resolveSubjectIDs builds the candidate subject scope when the caller names
// none. Degradation chain: enrolled subjects at or below the current
// semester, then subjects with any recorded mastery, then a small stable
// sample of the catalog.
func (s *ExamService) resolveSubjectIDs(ctx context.Context, user *models.UserRecord) ([]string, error) {
	enrolled, err := s.subjectRepo.FindByIDs(ctx, user.EnrolledSubjectIDs)
	if err != nil {
		return nil, fmt.Errorf("load enrolled subjects: %w", err)
	}
	if ids := subjectsAtOrBelowSemester(enrolled, user.CurrentSemester); len(ids) > 0 {
		return ids, nil
	}

	masteries, err := s.masteryRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load masteries: %w", err)
	}
	if ids := subjectsWithProgress(masteries); len(ids) > 0 {
		return ids, nil
	}

	all, err := s.subjectRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load subject catalog: %w", err)
	}
	return sampleSubjectIDs(all, subjectSampleSize), nil
}

func subjectsAtOrBelowSemester(subjects []models.Subject, semester int) []string {
	ids := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		if sub.Semester <= semester {
			ids = append(ids, sub.ID)
		}
	}
	sort.Strings(ids)
	return ids
}

func subjectsWithProgress(masteries []models.TopicMastery) []string {
	seen := map[string]bool{}
	for _, m := range masteries {
		if m.SubjectID != "" {
			seen[m.SubjectID] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// sampleSubjectIDs picks the lowest ids so the fallback is reproducible.
func sampleSubjectIDs(subjects []models.Subject, n int) []string {
	ids := make([]string, 0, len(subjects))
	for _, sub := range subjects {
		ids = append(ids, sub.ID)
	}
	sort.Strings(ids)
	if len(ids) > n {
		ids = ids[:n]
	}
	return ids
}

// GenerateBlueprint builds a fresh blueprint for the user. Empty subjectIDs
// triggers the candidate subject resolution chain.
func (s *ExamService) GenerateBlueprint(ctx context.Context, userID string, examType models.ExamType, subjectIDs []string) (*models.ExamBlueprint, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(subjectIDs) == 0 {
		subjectIDs, err = s.resolveSubjectIDs(ctx, user)
		if err != nil {
			return nil, err
		}
	}

	candidates, err := s.questionRepo.FindBySubjectIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("load candidate questions: %w", err)
	}

	masteries, err := s.priority.TopicInsights(ctx, userID, subjectIDs)
	if err != nil {
		return nil, err
	}
	insights := make(map[string]blueprint.TopicInsight, len(masteries))
	now := time.Now().UTC()
	for topic, m := range masteries {
		insights[topic] = blueprint.TopicInsight{
			MasteryScore:      m.MasteryScore,
			DaysSincePractice: now.Sub(m.LastPracticedAt).Hours() / 24,
			AttemptCount:      m.AttemptCount,
		}
	}

	bp, err := s.generator.Generate(examType, subjectIDs, candidates, insights, now)
	if err != nil {
		return nil, err
	}
	s.logger.Info("generated exam blueprint",
		zap.String("user_id", userID),
		zap.String("exam_type", string(examType)),
		zap.Int("total_marks", bp.TotalMarks),
		zap.String("structure_source", bp.StructureSource))
	return bp, nil
}

// StartSession freezes a newly generated blueprint into a timed session.
func (s *ExamService) StartSession(ctx context.Context, userID string, examType models.ExamType, subjectIDs []string) (*models.ExamSession, error) {
	bp, err := s.GenerateBlueprint(ctx, userID, examType, subjectIDs)
	if err != nil {
		return nil, err
	}

	session := &models.ExamSession{
		ID:              uuid.NewString(),
		UserID:          userID,
		ExamType:        examType,
		BlueprintData:   *bp,
		DurationMinutes: bp.DurationMinutes,
		Status:          models.SessionInProgress,
		StartedAt:       time.Now().UTC(),
	}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create exam session: %w", err)
	}

	if s.publisher != nil {
		s.publisher.Publish(event.ExamStarted, map[string]any{
			"session_id": session.ID,
			"user_id":    userID,
			"exam_type":  examType,
		})
	}
	return session, nil
}

func (s *ExamService) GetSession(ctx context.Context, sessionID string) (*models.ExamSession, error) {
	return s.sessionRepo.FindByID(ctx, sessionID)
}

// PoolStats summarises the candidate pool for a subject scope.
type PoolStats struct {
	TotalQuestions int            `json:"total_questions"`
	ByType         map[string]int `json:"by_type"`
	ByDifficulty   map[string]int `json:"by_difficulty"`
	ByMarks        map[int]int    `json:"by_marks"`
	DistinctTopics int            `json:"distinct_topics"`
}

// GetPoolStats reports what the question catalog can supply for blueprint
// generation in the given scope.
func (s *ExamService) GetPoolStats(ctx context.Context, userID string, subjectIDs []string) (*PoolStats, error) {
	if len(subjectIDs) == 0 {
		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("load user: %w", err)
		}
		subjectIDs, err = s.resolveSubjectIDs(ctx, user)
		if err != nil {
			return nil, err
		}
	}
	questions, err := s.questionRepo.FindBySubjectIDs(ctx, subjectIDs)
	if err != nil {
		return nil, fmt.Errorf("load candidate questions: %w", err)
	}

	stats := &PoolStats{
		TotalQuestions: len(questions),
		ByType:         map[string]int{},
		ByDifficulty:   map[string]int{},
		ByMarks:        map[int]int{},
	}
	topics := map[string]bool{}
	for _, q := range questions {
		stats.ByType[string(q.Type)]++
		stats.ByDifficulty[q.Difficulty]++
		stats.ByMarks[q.Marks]++
		for _, tag := range q.TopicTags {
			topics[tag] = true
		}
	}
	stats.DistinctTopics = len(topics)
	return stats, nil
}

// SaveAnswer records or overwrites an answer while the session is in
// progress. Frozen sessions reject writes.
func (s *ExamService) SaveAnswer(ctx context.Context, sessionID, questionID, answerText string, timeTakenSeconds int, flagged bool) error {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Status != models.SessionInProgress {
		return models.ErrSessionNotActive
	}

	answer := &models.ExamAnswer{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		QuestionID:       questionID,
		AnswerText:       answerText,
		TimeTakenSeconds: timeTakenSeconds,
		WordCount:        len(strings.Fields(answerText)),
		IsFlagged:        flagged,
	}
	return s.answerRepo.Upsert(ctx, answer)
}

// Submit finishes a session. autoSubmit marks timer expiry rather than a
// student action; either way the session freezes.
func (s *ExamService) Submit(ctx context.Context, sessionID string, autoSubmit bool) (*models.ExamSession, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionInProgress {
		return nil, models.ErrSessionNotActive
	}

	now := time.Now().UTC()
	status := models.SessionCompleted
	if autoSubmit {
		status = models.SessionAutoSubmitted
	}
	taken := int(now.Sub(session.StartedAt).Seconds())

	err = s.sessionRepo.Update(ctx, sessionID, bson.M{
		"status":             status,
		"submitted_at":       now,
		"time_taken_seconds": taken,
	})
	if err != nil {
		return nil, fmt.Errorf("submit session: %w", err)
	}

	session.Status = status
	session.SubmittedAt = &now
	session.TimeTakenSeconds = taken

	if s.publisher != nil {
		s.publisher.Publish(event.ExamSubmitted, map[string]any{
			"session_id":     sessionID,
			"user_id":        session.UserID,
			"auto_submitted": autoSubmit,
		})
	}
	return session, nil
}

// EvaluateSession grades every answer in a finished session, writes the
// aggregate result and folds topic percentages back into mastery.
func (s *ExamService) EvaluateSession(ctx context.Context, sessionID string) (*models.ExamSessionEvaluation, error) {
	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.SessionCompleted && session.Status != models.SessionAutoSubmitted {
		return nil, models.ErrSessionNotActive
	}

	answers, err := s.answerRepo.FindBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	answerByQuestion := make(map[string]models.ExamAnswer, len(answers))
	for _, a := range answers {
		answerByQuestion[a.QuestionID] = a
	}

	ev := &models.ExamSessionEvaluation{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		UserID:           session.UserID,
		SectionBreakdown: make(map[string]models.SectionResult),
		Status:           models.EvaluationCompleted,
		EvaluatedAt:      time.Now().UTC(),
	}

	topics := map[string]*topicTally{}

	for _, section := range session.BlueprintData.Sections {
		var sectionAwarded, sectionMax float64
		for _, bq := range section.Questions {
			answer := answerByQuestion[bq.QuestionID]
			graded, err := s.gradeAnswer(ctx, bq, answer.AnswerText)
			if err != nil {
				return nil, err
			}
			sectionAwarded += graded.awarded
			sectionMax += graded.max
			if bq.PrimaryTopic != "" {
				t := topics[bq.PrimaryTopic]
				if t == nil {
					t = &topicTally{}
					topics[bq.PrimaryTopic] = t
				}
				t.awarded += graded.awarded
				t.max += graded.max
			}

			// Unanswered questions have no answer record to attach detail to;
			// they still count against the section totals above.
			if answer.ID == "" {
				continue
			}
			answerEval := answerEvaluation(sessionID, answer, bq.QuestionID, graded)
			if err := s.answerEvalRepo.Upsert(ctx, answerEval); err != nil {
				return nil, fmt.Errorf("store answer evaluation: %w", err)
			}
		}
		pct := 0.0
		if sectionMax > 0 {
			pct = sectionAwarded / sectionMax * 100
		}
		ev.SectionBreakdown[section.Name] = models.SectionResult{
			MarksAwarded: sectionAwarded,
			MaxMarks:     sectionMax,
			Percentage:   pct,
		}
		ev.TotalMarks += sectionAwarded
		ev.MaxMarks += sectionMax
	}

	if ev.MaxMarks > 0 {
		ev.Percentage = ev.TotalMarks / ev.MaxMarks * 100
	}
	ev.GradeBand = rubric.GradeBand(ev.Percentage)
	ev.StrongTopics, ev.WeakTopics = classifyTopics(topics)

	if err := s.examEvalRepo.Upsert(ctx, ev); err != nil {
		return nil, fmt.Errorf("store session evaluation: %w", err)
	}

	if err := s.writeBackMastery(ctx, session, topics); err != nil {
		return nil, err
	}
	s.readiness.Invalidate(session.UserID, "")

	if s.publisher != nil {
		s.publisher.Publish(event.EvaluationCompleted, map[string]any{
			"session_id": sessionID,
			"user_id":    session.UserID,
			"percentage": ev.Percentage,
			"grade_band": ev.GradeBand,
		})
	}
	s.logger.Info("evaluated exam session",
		zap.String("session_id", sessionID),
		zap.Float64("percentage", ev.Percentage),
		zap.String("grade_band", ev.GradeBand))
	return ev, nil
}

func (s *ExamService) GetSessionEvaluation(ctx context.Context, sessionID string) (*models.ExamSessionEvaluation, error) {
	return s.examEvalRepo.FindBySessionID(ctx, sessionID)
}

// GetAnswerEvaluations returns the per-answer rubric detail for an already
// evaluated session, ordered by question id.
func (s *ExamService) GetAnswerEvaluations(ctx context.Context, sessionID string) ([]models.ExamAnswerEvaluation, error) {
	return s.answerEvalRepo.FindBySession(ctx, sessionID)
}

// gradedAnswer is the full result for one answer: the marks that roll up
// into the session total plus the per-answer detail worth persisting.
type gradedAnswer struct {
	awarded      float64
	max          float64
	breakdown    []models.CriterionScore
	feedback     string
	strengths    []string
	improvements []string
}

// gradeAnswer routes by question type: option matching for MCQs, the rubric
// scorer for written answers.
func (s *ExamService) gradeAnswer(ctx context.Context, bq models.BlueprintQuestion, answerText string) (gradedAnswer, error) {
	max := float64(bq.Marks)
	question, err := s.questionRepo.FindByID(ctx, bq.QuestionID)
	if err != nil {
		return gradedAnswer{max: max}, fmt.Errorf("load question %s: %w", bq.QuestionID, err)
	}

	if bq.Type == models.QuestionMCQ {
		return gradeMCQ(answerText, question.CorrectOptionID, max), nil
	}

	result, err := s.scorer.EvaluateAnswer(answerText, *question)
	if err != nil {
		return gradedAnswer{max: max}, err
	}
	return gradedAnswer{
		awarded:      result.MarksAwarded,
		max:          result.MaxMarks,
		breakdown:    result.Breakdown,
		feedback:     result.OverallFeedback,
		strengths:    result.Strengths,
		improvements: result.Improvements,
	}, nil
}

// gradeMCQ is all-or-nothing on the selected option. An empty answer never
// matches, even when the stored correct option id is empty.
func gradeMCQ(answerText, correctOptionID string, max float64) gradedAnswer {
	if answerText != "" && answerText == correctOptionID {
		return gradedAnswer{awarded: max, max: max, feedback: "Correct option selected"}
	}
	return gradedAnswer{awarded: 0, max: max, feedback: "Incorrect or missing option"}
}

// answerEvaluation maps a graded answer onto its persisted per-answer record.
func answerEvaluation(sessionID string, answer models.ExamAnswer, questionID string, graded gradedAnswer) *models.ExamAnswerEvaluation {
	return &models.ExamAnswerEvaluation{
		ID:              uuid.NewString(),
		SessionID:       sessionID,
		AnswerID:        answer.ID,
		QuestionID:      questionID,
		MarksAwarded:    graded.awarded,
		MaxMarks:        graded.max,
		Breakdown:       graded.breakdown,
		OverallFeedback: graded.feedback,
		Strengths:       graded.strengths,
		Improvements:    graded.improvements,
	}
}

type topicTally struct{ awarded, max float64 }

func classifyTopics(topics map[string]*topicTally) (strong, weak []string) {
	strong, weak = []string{}, []string{}
	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		t := topics[name]
		if t.max == 0 {
			continue
		}
		pct := t.awarded / t.max * 100
		switch {
		case pct >= strongTopicPercent:
			strong = append(strong, name)
		case pct < weakTopicPercent:
			weak = append(weak, name)
		}
	}
	return strong, weak
}

func (s *ExamService) writeBackMastery(ctx context.Context, session *models.ExamSession, topics map[string]*topicTally) error {
	now := time.Now().UTC()
	subjectByTopic := map[string]string{}
	for _, section := range session.BlueprintData.Sections {
		for _, bq := range section.Questions {
			if bq.PrimaryTopic == "" {
				continue
			}
			if _, ok := subjectByTopic[bq.PrimaryTopic]; ok {
				continue
			}
			question, err := s.questionRepo.FindByID(ctx, bq.QuestionID)
			if err == nil {
				subjectByTopic[bq.PrimaryTopic] = question.SubjectID
			}
		}
	}

	names := make([]string, 0, len(topics))
	for name := range topics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, topic := range names {
		t := topics[topic]
		if t.max == 0 {
			continue
		}
		latest := t.awarded / t.max
		subjectID := subjectByTopic[topic]

		newScore := latest
		if old, err := s.masteryRepo.FindOne(ctx, session.UserID, subjectID, topic); err == nil {
			newScore = masteryOldWeight*old.MasteryScore + masteryLatestWeight*latest
		}
		if err := s.masteryRepo.Upsert(ctx, session.UserID, subjectID, topic, newScore, now); err != nil {
			return fmt.Errorf("update mastery for %s: %w", topic, err)
		}
	}
	return nil
}
