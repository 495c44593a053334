package models

import "time"

// PracticeAttempt is an immutable record of one answer submission. Evaluation
// lives in a separate linked record so the attempt itself is never mutated.
type PracticeAttempt struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	UserID           string    `bson:"user_id" json:"user_id"`
	QuestionID       string    `bson:"question_id" json:"question_id"`
	SubjectID        string    `bson:"subject_id" json:"subject_id"`
	TopicTags        []string  `bson:"topic_tags" json:"topic_tags"`
	SelectedOptionID string    `bson:"selected_option_id,omitempty" json:"selected_option_id,omitempty"`
	AnswerText       string    `bson:"answer_text,omitempty" json:"answer_text,omitempty"`
	IsCorrect        *bool     `bson:"is_correct,omitempty" json:"is_correct,omitempty"` // nil = ungraded essay
	AttemptNumber    int       `bson:"attempt_number" json:"attempt_number"`
	AttemptedAt      time.Time `bson:"attempted_at" json:"attempted_at"`
	TimeTakenSeconds int       `bson:"time_taken_seconds" json:"time_taken_seconds"`
}

type EvaluationStatus string

const (
	EvaluationPending    EvaluationStatus = "pending"
	EvaluationProcessing EvaluationStatus = "processing"
	EvaluationCompleted  EvaluationStatus = "completed"
	EvaluationFailed     EvaluationStatus = "failed"
)

// CriterionScore is one row of a rubric breakdown.
type CriterionScore struct {
	Criterion string  `bson:"criterion" json:"criterion"`
	MaxMarks  float64 `bson:"max_marks" json:"max_marks"`
	Awarded   float64 `bson:"awarded" json:"awarded"`
	Band      string  `bson:"band" json:"band"`
	Comment   string  `bson:"comment" json:"comment"`
}

// PracticeEvaluation holds at most one evaluation per attempt. Re-evaluation
// overwrites in place.
type PracticeEvaluation struct {
	ID              string           `bson:"_id,omitempty" json:"id"`
	AttemptID       string           `bson:"attempt_id" json:"attempt_id"`
	UserID          string           `bson:"user_id" json:"user_id"`
	Status          EvaluationStatus `bson:"status" json:"status"`
	Score           float64          `bson:"score" json:"score"`
	MaxScore        float64          `bson:"max_score" json:"max_score"`
	RubricBreakdown []CriterionScore `bson:"rubric_breakdown,omitempty" json:"rubric_breakdown,omitempty"`
	OverallFeedback string           `bson:"overall_feedback" json:"overall_feedback"`
	Strengths       []string         `bson:"strengths" json:"strengths"`
	Improvements    []string         `bson:"improvements" json:"improvements"`
	UpdatedAt       time.Time        `bson:"updated_at" json:"updated_at"`
}
