package models

import "time"

// ExamAnswerEvaluation is the rubric result for one answer in a session.
// Recomputable on demand; idempotent per answer.
type ExamAnswerEvaluation struct {
	ID              string           `bson:"_id,omitempty" json:"id"`
	SessionID       string           `bson:"session_id" json:"session_id"`
	AnswerID        string           `bson:"answer_id" json:"answer_id"`
	QuestionID      string           `bson:"question_id" json:"question_id"`
	MarksAwarded    float64          `bson:"marks_awarded" json:"marks_awarded"`
	MaxMarks        float64          `bson:"max_marks" json:"max_marks"`
	Breakdown       []CriterionScore `bson:"breakdown" json:"breakdown"`
	OverallFeedback string           `bson:"overall_feedback" json:"overall_feedback"`
	Strengths       []string         `bson:"strengths" json:"strengths"`
	Improvements    []string         `bson:"improvements" json:"improvements"`
}

type SectionResult struct {
	MarksAwarded float64 `bson:"marks_awarded" json:"marks_awarded"`
	MaxMarks     float64 `bson:"max_marks" json:"max_marks"`
	Percentage   float64 `bson:"percentage" json:"percentage"`
}

// ExamSessionEvaluation aggregates rubric results for a whole session.
type ExamSessionEvaluation struct {
	ID               string                   `bson:"_id,omitempty" json:"id"`
	SessionID        string                   `bson:"session_id" json:"session_id"`
	UserID           string                   `bson:"user_id" json:"user_id"`
	TotalMarks       float64                  `bson:"total_marks" json:"total_marks"`
	MaxMarks         float64                  `bson:"max_marks" json:"max_marks"`
	Percentage       float64                  `bson:"percentage" json:"percentage"`
	GradeBand        string                   `bson:"grade_band" json:"grade_band"`
	SectionBreakdown map[string]SectionResult `bson:"section_breakdown" json:"section_breakdown"`
	StrongTopics     []string                 `bson:"strong_topics" json:"strong_topics"`
	WeakTopics       []string                 `bson:"weak_topics" json:"weak_topics"`
	Status           EvaluationStatus         `bson:"status" json:"status"`
	EvaluatedAt      time.Time                `bson:"evaluated_at" json:"evaluated_at"`
}
