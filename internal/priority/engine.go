package priority

import (
	"fmt"
	"math"
	"sort"
)

// Engine ranks topics for study and exam-question selection. All inputs are
// already-fetched data; the same inputs always produce the same output.
type Engine struct {
	config *Config
}

func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

// Rank scores every topic with at least one recorded attempt and returns
// them in descending score order. Topics without attempts are excluded, not
// zero-scored: there is no mastery record to score. An empty topic set is a
// no-data result, never an error.
func (e *Engine) Rank(topics []TopicStats, userSemester int) Result {
	maxQuestions := 0
	for _, t := range topics {
		if t.QuestionCount > maxQuestions {
			maxQuestions = t.QuestionCount
		}
	}

	records := make([]Record, 0, len(topics))
	for _, t := range topics {
		if t.AttemptCount == 0 {
			continue
		}
		records = append(records, e.score(t, userSemester, maxQuestions))
	}

	if len(records) == 0 {
		return Result{
			Records:       []Record{},
			DataAvailable: false,
			Reason:        "no practiced topics to rank",
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].Score != records[j].Score {
			return records[i].Score > records[j].Score
		}
		return records[i].TopicTag < records[j].TopicTag
	})

	return Result{Records: records, DataAvailable: true}
}

func (e *Engine) score(t TopicStats, userSemester, maxQuestions int) Record {
	cfg := e.config

	masteryPercent := t.MasteryScore * 100
	deficit := (100 - masteryPercent) / 100

	staleness := t.DaysSincePractice / cfg.StalenessWindowDays
	if staleness > 1 {
		staleness = 1
	}
	if staleness < 0 {
		staleness = 0
	}

	importance := 0.0
	if maxQuestions > 0 {
		importance = float64(t.QuestionCount) / float64(maxQuestions)
	}

	urgency := cfg.UrgencyFuture
	switch {
	case t.TopicSemester == userSemester:
		urgency = cfg.UrgencyCurrent
	case t.TopicSemester < userSemester:
		urgency = cfg.UrgencyPast
	}

	score := cfg.MasteryDeficitWeight*deficit +
		cfg.StalenessWeight*staleness +
		cfg.ImportanceWeight*importance +
		cfg.UrgencyWeight*urgency

	label := e.label(score)
	days := int(math.Floor(t.DaysSincePractice))

	return Record{
		TopicTag:           t.TopicTag,
		SubjectID:          t.SubjectID,
		Score:              round2(score),
		Label:              label,
		Explanation:        e.explain(masteryPercent, days, t.QuestionCount, label),
		RecommendedActions: e.recommend(masteryPercent, t.DaysSincePractice),
		Components: ComponentBreakdown{
			MasteryDeficit: round2(deficit),
			Staleness:      round2(staleness),
			Importance:     round2(importance),
			Urgency:        round2(urgency),
			MasteryPercent: round2(masteryPercent),
			DaysSince:      days,
			QuestionCount:  t.QuestionCount,
		},
	}
}

func (e *Engine) label(score float64) string {
	switch {
	case score >= e.config.HighThreshold:
		return "High"
	case score >= e.config.MediumThreshold:
		return "Medium"
	default:
		return "Low"
	}
}

// explain is a fixed template fill: identical inputs always produce an
// identical explanation string.
func (e *Engine) explain(masteryPercent float64, days, questionCount int, label string) string {
	return fmt.Sprintf(
		"Mastery at %.0f%%. Last practiced %d days ago. Appears in %d catalog questions. Priority: %s.",
		masteryPercent, days, questionCount, label,
	)
}

// recommend selects actions from a fixed decision table keyed on the mastery
// and staleness brackets. No randomness; first matching row wins.
func (e *Engine) recommend(masteryPercent, daysSince float64) []string {
	cfg := e.config
	stale := daysSince > cfg.StaleDays

	switch {
	case masteryPercent < cfg.WeakMasteryPercent:
		return []string{
			"Review the fundamentals before attempting questions",
			"Practice at least 5 questions on this topic",
		}
	case masteryPercent < cfg.StrongMasteryPercent && stale:
		return []string{
			"Revise your notes, then practice mixed-difficulty questions",
		}
	case masteryPercent < cfg.StrongMasteryPercent:
		return []string{
			"Practice mixed-difficulty questions to consolidate",
		}
	case stale:
		return []string{
			"Quick revision to refresh memory",
		}
	default:
		return []string{
			"Ready for advanced questions on this topic",
		}
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
