package readiness

import "time"

// MasteryInput is one scoped mastery record feeding the Knowledge component.
type MasteryInput struct {
	TopicTag     string
	MasteryScore float64 // 0..1
	AttemptCount int
}

// SessionInput is one completed or auto-submitted exam session feeding the
// Strategy component.
type SessionInput struct {
	DurationMinutes   int
	TimeTakenSeconds  int
	AutoSubmitted     bool
	QuestionsAnswered int
	QuestionsTotal    int
	PerQuestionSecs   []float64
	CompletedAt       time.Time
}

// Input carries everything the engine needs, already fetched and scoped to
// (user, optional subject) by the caller.
type Input struct {
	Masteries          []MasteryInput
	TotalTopicsInScope int

	AnswerPercentages    []float64 // last <=50 evaluated exam answers, as 0..100
	ApplicationSubScores []float64 // application criterion sub-scores, as 0..100

	Sessions []SessionInput // last <=10, newest last

	ActiveDaysLast30   int
	SessionPercentages []float64 // recent evaluated session percentages, chronological
}

// ComponentScore is one of the four sub-scores with its explanation.
type ComponentScore struct {
	Score       float64 `json:"score"`       // 0..100
	Explanation string  `json:"explanation"`
}

type Components struct {
	Knowledge   ComponentScore `json:"knowledge"`
	Application ComponentScore `json:"application"`
	Strategy    ComponentScore `json:"strategy"`
	Consistency ComponentScore `json:"consistency"`
}

// ComponentImpact reports a component's computed contribution to the final
// score, absolute and relative.
type ComponentImpact struct {
	Component            string  `json:"component"`
	Score                float64 `json:"score"`
	Weight               float64 `json:"weight"`
	AbsoluteContribution float64 `json:"absolute_contribution"`
	RelativePercent      float64 `json:"relative_percent"`
}

// Index is the composite readiness result.
type Index struct {
	Score          float64           `json:"eri_score"` // 0..100
	Band           string            `json:"band"`
	Components     Components        `json:"components"`
	ImpactAnalysis []ComponentImpact `json:"impact_analysis"`
}

// Config carries the component weights and sub-weights.
type Config struct {
	KnowledgeWeight   float64
	ApplicationWeight float64
	StrategyWeight    float64
	ConsistencyWeight float64

	// Knowledge sub-weights.
	MasteryAverageWeight float64
	CoverageWeight       float64

	// Application sub-weights.
	AnswerScoreWeight     float64
	ApplicationSubWeight  float64
	MaxRecentAnswers      int

	// Strategy sub-weights and timing constants.
	TimeManagementWeight float64
	CompletionWeight     float64
	EvennessWeight       float64
	ComfortableTimeRatio float64 // at or below this ratio of allowed time: full marks
	OverrunScore         float64
	AutoSubmitPenalty    float64
	MaxRecentSessions    int

	// Consistency sub-weights and lookback constants.
	FrequencyWeight   float64
	StabilityWeight   float64
	TrendWeight       float64
	LookbackDays      int
	TargetActiveDays  float64
	TrendDelta        float64 // percentage-point shift that counts as a trend
}

func DefaultConfig() *Config {
	return &Config{
		KnowledgeWeight:   0.35,
		ApplicationWeight: 0.30,
		StrategyWeight:    0.20,
		ConsistencyWeight: 0.15,

		MasteryAverageWeight: 0.60,
		CoverageWeight:       0.40,

		AnswerScoreWeight:    0.50,
		ApplicationSubWeight: 0.50,
		MaxRecentAnswers:     50,

		TimeManagementWeight: 0.50,
		CompletionWeight:     0.30,
		EvennessWeight:       0.20,
		ComfortableTimeRatio: 0.85,
		OverrunScore:         50,
		AutoSubmitPenalty:    20,
		MaxRecentSessions:    10,

		FrequencyWeight:  0.40,
		StabilityWeight:  0.35,
		TrendWeight:      0.25,
		LookbackDays:     30,
		TargetActiveDays: 15,
		TrendDelta:       5,
	}
}

// Band boundaries, inclusive on the lower bound.
func Band(score float64) string {
	switch {
	case score >= 80:
		return "Exam Ready"
	case score >= 60:
		return "Almost Ready"
	case score >= 40:
		return "Needs Revision"
	default:
		return "High Risk"
	}
}
