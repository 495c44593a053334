package studyplan

import (
	"readiness-service/internal/models"
)

// Bucket names for topic categorization.
const (
	BucketWeak     = "weak"
	BucketMedium   = "medium"
	BucketStale    = "stale"
	BucketExcluded = "strong_fresh" // mastered and fresh: not planned
)

// PracticeRef points the practice slot of a session at a concrete question.
type PracticeRef struct {
	QuestionID     string
	Marks          int
	QuestionType   models.QuestionType
	AvgTimeSeconds float64 // historical time for this user, 0 when unknown
}

// TopicContent is the available material for one topic. Any slot may be nil;
// the session simply omits it.
type TopicContent struct {
	Concept  *models.ContentItem
	Example  *models.ContentItem
	Practice *PracticeRef
}

// PlanItem is one content slot of a study session.
type PlanItem struct {
	ActivityType    string `json:"activity_type"` // learn, case, practice
	Title           string `json:"title"`
	RefID           string `json:"ref_id,omitempty"`
	Minutes         int    `json:"minutes"`
	Why             string `json:"why"`
	Focus           string `json:"focus"`
	SuccessCriteria string `json:"success_criteria"`
}

// Session is one topic's slice of a day.
type Session struct {
	TopicTag         string     `json:"topic_tag"`
	SubjectID        string     `json:"subject_id"`
	Bucket           string     `json:"bucket"`
	PriorityLabel    string     `json:"priority_label"`
	EstimatedMinutes int        `json:"estimated_minutes"`
	Items            []PlanItem `json:"items"`
}

// DayPlan is the ordered output for one study day.
type DayPlan struct {
	Day            int       `json:"day"`
	TargetMinutes  int       `json:"target_minutes"`
	PlannedMinutes int       `json:"planned_minutes"`
	Sessions       []Session `json:"sessions"`
	UsedFallback   bool      `json:"used_fallback"`
	Note           string    `json:"note,omitempty"`
}

// Config holds the allocation percentages, session length table and the
// per-slot time estimation constants.
type Config struct {
	WeakShare     float64
	MediumShare   float64
	RevisionShare float64

	HighSessionMinutes      int
	MediumSessionMinutes    int
	LowSessionMinutes       int
	OverflowMinutes         int
	MinTopicsBeforeFallback int

	WeakMasteryPercent   float64
	StrongMasteryPercent float64
	StaleDays            float64

	// Learn slot: proportional to content length.
	LearnWordsPerMinute float64
	LearnMinMinutes     int
	LearnMaxMinutes     int

	// Case slot: importance-adjusted base.
	CaseBaseMinutes   float64
	CaseAdjustMinutes float64
	CaseMinMinutes    int
	CaseMaxMinutes    int

	// Practice slot: marks-driven.
	MinutesPerMark     float64
	EssayFactor        float64
	PracticeMinMinutes int
	PracticeMaxMinutes int
}

func DefaultConfig() *Config {
	return &Config{
		WeakShare:     0.40,
		MediumShare:   0.40,
		RevisionShare: 0.20,

		HighSessionMinutes:      45,
		MediumSessionMinutes:    30,
		LowSessionMinutes:       20,
		OverflowMinutes:         15,
		MinTopicsBeforeFallback: 2,

		WeakMasteryPercent:   40,
		StrongMasteryPercent: 70,
		StaleDays:            21,

		LearnWordsPerMinute: 150,
		LearnMinMinutes:     10,
		LearnMaxMinutes:     45,

		CaseBaseMinutes:   15,
		CaseAdjustMinutes: 10,
		CaseMinMinutes:    5,
		CaseMaxMinutes:    25,

		MinutesPerMark:     3,
		EssayFactor:        1.5,
		PracticeMinMinutes: 5,
		PracticeMaxMinutes: 60,
	}
}
