package priority

// TopicStats is the per-topic input assembled from mastery records and the
// question catalog before scoring.
type TopicStats struct {
	TopicTag          string
	SubjectID         string
	MasteryScore      float64 // 0..1
	AttemptCount      int
	DaysSincePractice float64
	QuestionCount     int
	TopicSemester     int
}

// ComponentBreakdown exposes the raw factor values behind a priority score.
type ComponentBreakdown struct {
	MasteryDeficit float64 `json:"mastery_deficit"`
	Staleness      float64 `json:"staleness"`
	Importance     float64 `json:"importance"`
	Urgency        float64 `json:"urgency"`
	MasteryPercent float64 `json:"mastery_percent"`
	DaysSince      int     `json:"days_since_practice"`
	QuestionCount  int     `json:"question_count"`
}

// Record is one ranked topic. Derived data, regenerated on every request.
type Record struct {
	TopicTag           string             `json:"topic_tag"`
	SubjectID          string             `json:"subject_id"`
	Score              float64            `json:"priority_score"`
	Label              string             `json:"priority_label"`
	Explanation        string             `json:"explanation"`
	RecommendedActions []string           `json:"recommended_actions"`
	Components         ComponentBreakdown `json:"component_breakdown"`
}

// Result is the tagged outcome of a priority computation: either a ranked
// list or an explicit no-data reason. Callers must check DataAvailable
// before reading Records.
type Result struct {
	Records       []Record `json:"records"`
	DataAvailable bool     `json:"data_available"`
	Reason        string   `json:"reason,omitempty"`
}

// Config holds the scoring weights and bracket boundaries. Tunable product
// constants, not algorithmic truths.
type Config struct {
	MasteryDeficitWeight float64
	StalenessWeight      float64
	ImportanceWeight     float64
	UrgencyWeight        float64

	StalenessWindowDays float64 // staleness saturates at this many days

	HighThreshold   float64 // score >= HighThreshold -> "High"
	MediumThreshold float64 // score >= MediumThreshold -> "Medium"

	WeakMasteryPercent   float64 // below this: weak
	StrongMasteryPercent float64 // at or above this: strong
	StaleDays            float64 // beyond this: revision recommended

	UrgencyCurrent float64 // topic semester == user semester
	UrgencyPast    float64 // topic semester < user semester
	UrgencyFuture  float64 // topic semester > user semester
}

func DefaultConfig() *Config {
	return &Config{
		MasteryDeficitWeight: 0.35,
		StalenessWeight:      0.30,
		ImportanceWeight:     0.20,
		UrgencyWeight:        0.15,
		StalenessWindowDays:  30,
		HighThreshold:        0.65,
		MediumThreshold:      0.40,
		WeakMasteryPercent:   40,
		StrongMasteryPercent: 70,
		StaleDays:            21,
		UrgencyCurrent:       1.0,
		UrgencyPast:          0.5,
		UrgencyFuture:        0.2,
	}
}
