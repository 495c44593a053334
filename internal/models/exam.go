package models

import "time"

type ExamType string

const (
	ExamInternal    ExamType = "internal"
	ExamEndSemester ExamType = "end_semester"
	ExamUnitTest    ExamType = "unit_test"
	ExamMock        ExamType = "mock"
)

func ParseExamType(s string) (ExamType, error) {
	switch ExamType(s) {
	case ExamInternal, ExamEndSemester, ExamUnitTest, ExamMock:
		return ExamType(s), nil
	}
	return "", ErrInvalidExamType
}

type SessionStatus string

const (
	SessionInProgress    SessionStatus = "in_progress"
	SessionCompleted     SessionStatus = "completed"
	SessionAutoSubmitted SessionStatus = "auto_submitted"
	SessionAbandoned     SessionStatus = "abandoned"
)

// BlueprintQuestion is a selected question inside a generated blueprint,
// with the selection rationale recorded at generation time.
type BlueprintQuestion struct {
	QuestionID     string       `bson:"question_id" json:"question_id"`
	Text           string       `bson:"text" json:"text"`
	Type           QuestionType `bson:"type" json:"type"`
	Marks          int          `bson:"marks" json:"marks"`
	Difficulty     string       `bson:"difficulty" json:"difficulty"`
	TopicTags      []string     `bson:"topic_tags" json:"topic_tags"`
	PrimaryTopic   string       `bson:"primary_topic" json:"primary_topic"`
	SelectionScore float64      `bson:"selection_score" json:"selection_score"`
	WhySelected    string       `bson:"why_selected" json:"why_selected"`
}

type BlueprintSection struct {
	Name             string              `bson:"name" json:"name"`
	MarksPerQuestion int                 `bson:"marks_per_question" json:"marks_per_question"`
	QuestionCount    int                 `bson:"question_count" json:"question_count"`
	TotalMarks       int                 `bson:"total_marks" json:"total_marks"`
	Questions        []BlueprintQuestion `bson:"questions" json:"questions"`
}

// BlueprintCoverage aggregates what the selected questions cover.
type BlueprintCoverage struct {
	DistinctTopics     int            `bson:"distinct_topics" json:"distinct_topics"`
	TopicsCovered      []string       `bson:"topics_covered" json:"topics_covered"`
	QuestionTypeCounts map[string]int `bson:"question_type_counts" json:"question_type_counts"`
	WeakTopicQuestions int            `bson:"weak_topic_questions" json:"weak_topic_questions"`
}

// ExamBlueprint is derived data: generated fresh per request and persisted
// only as the frozen snapshot inside ExamSession once an exam starts.
type ExamBlueprint struct {
	ExamType        ExamType           `bson:"exam_type" json:"exam_type"`
	SubjectIDs      []string           `bson:"subject_ids" json:"subject_ids"`
	TotalMarks      int                `bson:"total_marks" json:"total_marks"`
	DurationMinutes int                `bson:"duration_minutes" json:"duration_minutes"`
	Sections        []BlueprintSection `bson:"sections" json:"sections"`
	Coverage        BlueprintCoverage  `bson:"coverage" json:"coverage"`
	StructureSource string             `bson:"structure_source" json:"structure_source"` // "template" or "inferred"
	GeneratedAt     time.Time          `bson:"generated_at" json:"generated_at"`
}

// ExamSession freezes a blueprint once the exam starts. Only status and
// submitted_at change after submission.
type ExamSession struct {
	ID               string        `bson:"_id,omitempty" json:"id"`
	UserID           string        `bson:"user_id" json:"user_id"`
	ExamType         ExamType      `bson:"exam_type" json:"exam_type"`
	BlueprintData    ExamBlueprint `bson:"blueprint_data" json:"blueprint_data"`
	DurationMinutes  int           `bson:"duration_minutes" json:"duration_minutes"`
	Status           SessionStatus `bson:"status" json:"status"`
	StartedAt        time.Time     `bson:"started_at" json:"started_at"`
	SubmittedAt      *time.Time    `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`
	TimeTakenSeconds int           `bson:"time_taken_seconds" json:"time_taken_seconds"`
}

// ExamAnswer is mutable while the session is in progress, frozen afterwards.
type ExamAnswer struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	SessionID        string    `bson:"session_id" json:"session_id"`
	QuestionID       string    `bson:"question_id" json:"question_id"`
	AnswerText       string    `bson:"answer_text" json:"answer_text"`
	TimeTakenSeconds int       `bson:"time_taken_seconds" json:"time_taken_seconds"`
	WordCount        int       `bson:"word_count" json:"word_count"`
	IsFlagged        bool      `bson:"is_flagged" json:"is_flagged"`
	UpdatedAt        time.Time `bson:"updated_at" json:"updated_at"`
}
