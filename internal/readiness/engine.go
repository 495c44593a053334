package readiness

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"
)

// Engine computes the Exam Readiness Index. It is a pure function over
// already-fetched data: no component ever raises for missing data, each
// degrades to its documented default instead.
type Engine struct {
	config *Config
}

func NewEngine(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config}
}

// Calculate combines the four weighted components into one 0-100 score with
// band classification and a computed per-component impact breakdown.
func (e *Engine) Calculate(in Input) Index {
	cfg := e.config

	knowledge := e.knowledgeScore(in)
	application := e.applicationScore(in)
	strategy := e.strategyScore(in)
	consistency := e.consistencyScore(in)

	score := cfg.KnowledgeWeight*knowledge.Score +
		cfg.ApplicationWeight*application.Score +
		cfg.StrategyWeight*strategy.Score +
		cfg.ConsistencyWeight*consistency.Score
	score = clamp(score, 0, 100)

	impacts := []ComponentImpact{
		impact("knowledge", knowledge.Score, cfg.KnowledgeWeight, score),
		impact("application", application.Score, cfg.ApplicationWeight, score),
		impact("strategy", strategy.Score, cfg.StrategyWeight, score),
		impact("consistency", consistency.Score, cfg.ConsistencyWeight, score),
	}

	return Index{
		Score: round2(score),
		Band:  Band(score),
		Components: Components{
			Knowledge:   knowledge,
			Application: application,
			Strategy:    strategy,
			Consistency: consistency,
		},
		ImpactAnalysis: impacts,
	}
}

// impact is computed, never estimated: contribution = score * weight.
func impact(name string, score, weight, total float64) ComponentImpact {
	abs := score * weight
	rel := 0.0
	if total > 0 {
		rel = abs / total * 100
	}
	return ComponentImpact{
		Component:            name,
		Score:                round2(score),
		Weight:               weight,
		AbsoluteContribution: round2(abs),
		RelativePercent:      round2(rel),
	}
}

// knowledgeScore blends attempt-weighted average mastery with topic
// coverage. Topics with zero attempts contribute no weight to the average
// but still count against coverage.
func (e *Engine) knowledgeScore(in Input) ComponentScore {
	cfg := e.config

	weightedSum := 0.0
	totalWeight := 0.0
	practiced := 0
	for _, m := range in.Masteries {
		if m.AttemptCount == 0 {
			continue
		}
		weightedSum += m.MasteryScore * 100 * float64(m.AttemptCount)
		totalWeight += float64(m.AttemptCount)
		practiced++
	}

	if totalWeight == 0 {
		return ComponentScore{
			Score:       0,
			Explanation: "No practiced topics yet",
		}
	}

	avgMastery := weightedSum / totalWeight

	coverage := 0.0
	if in.TotalTopicsInScope > 0 {
		coverage = float64(practiced) / float64(in.TotalTopicsInScope) * 100
	}
	coverage = clamp(coverage, 0, 100)

	score := cfg.MasteryAverageWeight*avgMastery + cfg.CoverageWeight*coverage
	return ComponentScore{
		Score: round2(clamp(score, 0, 100)),
		Explanation: fmt.Sprintf("Average mastery %.0f%% across %d practiced topics, covering %.0f%% of the syllabus",
			avgMastery, practiced, coverage),
	}
}

// applicationScore blends recent exam-answer percentages with the pooled
// application rubric-criterion sub-scores.
func (e *Engine) applicationScore(in Input) ComponentScore {
	cfg := e.config

	answers := in.AnswerPercentages
	if len(answers) > cfg.MaxRecentAnswers {
		answers = answers[len(answers)-cfg.MaxRecentAnswers:]
	}

	if len(answers) == 0 && len(in.ApplicationSubScores) == 0 {
		return ComponentScore{
			Score:       0,
			Explanation: "No evaluated answers found",
		}
	}

	answerAvg := mean(answers)
	appAvg := mean(in.ApplicationSubScores)

	// With only one of the two signals present, score on that signal alone
	// rather than halving it against a missing zero.
	var score float64
	switch {
	case len(answers) == 0:
		score = appAvg
	case len(in.ApplicationSubScores) == 0:
		score = answerAvg
	default:
		score = cfg.AnswerScoreWeight*answerAvg + cfg.ApplicationSubWeight*appAvg
	}

	return ComponentScore{
		Score: round2(clamp(score, 0, 100)),
		Explanation: fmt.Sprintf("Average answer score %.0f%% over %d answers, application criterion at %.0f%%",
			answerAvg, len(answers), appAvg),
	}
}

// strategyScore combines time management, completion rate and the evenness
// of time spent per question across recent sessions.
func (e *Engine) strategyScore(in Input) ComponentScore {
	cfg := e.config

	sessions := in.Sessions
	if len(sessions) > cfg.MaxRecentSessions {
		sessions = sessions[len(sessions)-cfg.MaxRecentSessions:]
	}
	if len(sessions) == 0 {
		return ComponentScore{
			Score:       0,
			Explanation: "No completed exam sessions",
		}
	}

	timeScores := make([]float64, 0, len(sessions))
	completionRates := make([]float64, 0, len(sessions))
	evennessScores := make([]float64, 0, len(sessions))

	for _, s := range sessions {
		timeScores = append(timeScores, e.timeManagementScore(s))

		if s.QuestionsTotal > 0 {
			completionRates = append(completionRates,
				float64(s.QuestionsAnswered)/float64(s.QuestionsTotal)*100)
		}

		evennessScores = append(evennessScores, e.evennessScore(s.PerQuestionSecs))
	}

	timeAvg := mean(timeScores)
	completionAvg := 100.0
	if len(completionRates) > 0 {
		completionAvg = mean(completionRates)
	}
	evennessAvg := mean(evennessScores)

	score := cfg.TimeManagementWeight*timeAvg +
		cfg.CompletionWeight*completionAvg +
		cfg.EvennessWeight*evennessAvg

	return ComponentScore{
		Score: round2(clamp(score, 0, 100)),
		Explanation: fmt.Sprintf("Time management %.0f, completion %.0f%%, pacing evenness %.0f over %d sessions",
			timeAvg, completionAvg, evennessAvg, len(sessions)),
	}
}

// timeManagementScore: full marks when finishing with time to spare, linear
// decay to 70 at the limit, 50 past it, minus a penalty when the session was
// auto-submitted.
func (e *Engine) timeManagementScore(s SessionInput) float64 {
	cfg := e.config
	allowed := float64(s.DurationMinutes) * 60
	if allowed <= 0 {
		return 0
	}
	ratio := float64(s.TimeTakenSeconds) / allowed

	// An auto-submitted session ran out of time by definition, whatever the
	// recorded seconds say.
	var score float64
	switch {
	case s.AutoSubmitted || ratio > 1.0:
		score = cfg.OverrunScore
	case ratio <= cfg.ComfortableTimeRatio:
		score = 100
	default:
		span := 1.0 - cfg.ComfortableTimeRatio
		score = 100 - (ratio-cfg.ComfortableTimeRatio)/span*30
	}

	if s.AutoSubmitted {
		score -= cfg.AutoSubmitPenalty
	}
	return clamp(score, 0, 100)
}

// evennessScore: 100 - 50*CV of per-question time, floored at 0. Sessions
// without per-question timing get the neutral 50.
func (e *Engine) evennessScore(perQuestion []float64) float64 {
	if len(perQuestion) < 2 {
		return 50
	}
	m, err := stats.Mean(perQuestion)
	if err != nil || m <= 0 {
		return 50
	}
	sd, err := stats.StandardDeviationPopulation(perQuestion)
	if err != nil {
		return 50
	}
	cv := sd / m
	return clamp(100-50*cv, 0, 100)
}

// consistencyScore combines practice frequency, score stability and trend
// over the lookback window.
func (e *Engine) consistencyScore(in Input) ComponentScore {
	cfg := e.config

	frequency := clamp(float64(in.ActiveDaysLast30)/cfg.TargetActiveDays, 0, 1) * 100
	stability := e.stabilityScore(in.SessionPercentages)
	trend := e.trendScore(in.SessionPercentages)

	score := cfg.FrequencyWeight*frequency +
		cfg.StabilityWeight*stability +
		cfg.TrendWeight*trend

	return ComponentScore{
		Score: round2(clamp(score, 0, 100)),
		Explanation: fmt.Sprintf("%d active days in the last %d, stability %.0f, trend %.0f",
			in.ActiveDaysLast30, cfg.LookbackDays, stability, trend),
	}
}

func (e *Engine) stabilityScore(percentages []float64) float64 {
	if len(percentages) < 2 {
		return 50
	}
	variance, err := stats.PopulationVariance(percentages)
	if err != nil {
		return 50
	}
	return clamp(100-variance/2, 0, 100)
}

// trendScore compares the mean of the earlier half against the later half.
func (e *Engine) trendScore(percentages []float64) float64 {
	if len(percentages) < 2 {
		return 50
	}
	mid := len(percentages) / 2
	earlier := mean(percentages[:mid])
	later := mean(percentages[mid:])
	delta := later - earlier

	// Improving is inclusive at +TrendDelta; declining strictly below
	// -TrendDelta. A shift of exactly -TrendDelta is still stable.
	switch {
	case delta >= e.config.TrendDelta:
		return 100
	case delta < -e.config.TrendDelta:
		return 40
	default:
		return 70
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
