package studyplan

import (
	"math"

	"readiness-service/internal/priority"
)

// Planner turns ranked topics into time-boxed study days. Pure and
// deterministic: the same priority records and content produce the same plan.
type Planner struct {
	config *Config
}

func NewPlanner(config *Config) *Planner {
	if config == nil {
		config = DefaultConfig()
	}
	return &Planner{config: config}
}

// Bucket categorizes one topic into exactly one bucket.
func (p *Planner) Bucket(rec priority.Record) string {
	cfg := p.config
	mastery := rec.Components.MasteryPercent
	switch {
	case mastery < cfg.WeakMasteryPercent:
		return BucketWeak
	case mastery < cfg.StrongMasteryPercent:
		return BucketMedium
	case float64(rec.Components.DaysSince) > cfg.StaleDays:
		return BucketStale
	default:
		return BucketExcluded
	}
}

// DailyPlan builds one day. Records must already be in descending priority
// order (the priority engine's output order). Topics in exclude are skipped;
// pass nil for a standalone day.
func (p *Planner) DailyPlan(
	records []priority.Record,
	content map[string]TopicContent,
	targetMinutes int,
	exclude map[string]bool,
) DayPlan {
	cfg := p.config

	buckets := map[string][]priority.Record{}
	for _, rec := range records {
		if exclude[rec.TopicTag] {
			continue
		}
		b := p.Bucket(rec)
		if b == BucketExcluded {
			continue
		}
		buckets[b] = append(buckets[b], rec)
	}

	type pick struct {
		rec    priority.Record
		bucket string
	}
	picks := make([]pick, 0)

	allocate := func(bucket string, budget float64) {
		used := 0.0
		for _, rec := range buckets[bucket] {
			if used >= budget {
				break
			}
			est := float64(p.sessionMinutes(rec.Label))
			if used+est > budget+float64(cfg.OverflowMinutes) {
				continue // a shorter topic further down may still fit
			}
			picks = append(picks, pick{rec, bucket})
			used += est
		}
	}

	target := float64(targetMinutes)
	allocate(BucketWeak, target*cfg.WeakShare)
	allocate(BucketMedium, target*cfg.MediumShare)
	allocate(BucketStale, target*cfg.RevisionShare)

	usedFallback := false
	note := ""
	if len(picks) < cfg.MinTopicsBeforeFallback {
		// Sparse data: pool every remaining candidate and fill the full
		// target, ignoring the bucket split.
		picks = picks[:0]
		used := 0.0
		for _, rec := range records {
			if exclude[rec.TopicTag] {
				continue
			}
			b := p.Bucket(rec)
			if b == BucketExcluded {
				b = BucketStale // still schedulable as revision in the fallback
			}
			est := float64(p.sessionMinutes(rec.Label))
			if used+est > target+float64(cfg.OverflowMinutes) {
				continue
			}
			picks = append(picks, pick{rec, b})
			used += est
		}
		usedFallback = true
		note = "sparse topic data: bucket split ignored, candidates pooled"
	}

	sessions := make([]Session, 0, len(picks))
	planned := 0
	for _, pk := range picks {
		s := p.buildSession(pk.rec, pk.bucket, content[pk.rec.TopicTag])
		planned += s.EstimatedMinutes
		sessions = append(sessions, s)
	}

	return DayPlan{
		Day:            1,
		TargetMinutes:  targetMinutes,
		PlannedMinutes: planned,
		Sessions:       sessions,
		UsedFallback:   usedFallback,
		Note:           note,
	}
}

// WeeklyPlan fills days sequentially with a shared exclusion set so the same
// topic is not scheduled twice in a week. When the pool runs dry the set is
// cleared and reuse is permitted: an explicit fallback, not silent repetition.
func (p *Planner) WeeklyPlan(
	records []priority.Record,
	content map[string]TopicContent,
	targetMinutes int,
	days int,
) []DayPlan {
	if days <= 0 {
		days = 7
	}

	exclude := map[string]bool{}
	plans := make([]DayPlan, 0, days)

	for day := 1; day <= days; day++ {
		plan := p.DailyPlan(records, content, targetMinutes, exclude)
		if len(plan.Sessions) == 0 && len(exclude) > 0 {
			exclude = map[string]bool{}
			plan = p.DailyPlan(records, content, targetMinutes, exclude)
			plan.UsedFallback = true
			plan.Note = "topic pool exhausted: weekly exclusion set cleared"
		}
		plan.Day = day
		for _, s := range plan.Sessions {
			exclude[s.TopicTag] = true
		}
		plans = append(plans, plan)
	}
	return plans
}

func (p *Planner) sessionMinutes(label string) int {
	switch label {
	case "High":
		return p.config.HighSessionMinutes
	case "Medium":
		return p.config.MediumSessionMinutes
	default:
		return p.config.LowSessionMinutes
	}
}

// buildSession composes up to three content slots. Missing material means a
// shorter session, never an error.
func (p *Planner) buildSession(rec priority.Record, bucket string, tc TopicContent) Session {
	items := make([]PlanItem, 0, 3)

	if tc.Concept != nil {
		items = append(items, PlanItem{
			ActivityType:    "learn",
			Title:           tc.Concept.Title,
			RefID:           tc.Concept.ID,
			Minutes:         p.learnMinutes(tc.Concept.LengthWords),
			Why:             whyText(bucket, "learn", rec),
			Focus:           focusText(bucket, "learn"),
			SuccessCriteria: successText(bucket, "learn"),
		})
	}
	if tc.Example != nil {
		items = append(items, PlanItem{
			ActivityType:    "case",
			Title:           tc.Example.Title,
			RefID:           tc.Example.ID,
			Minutes:         p.caseMinutes(tc.Example.Importance),
			Why:             whyText(bucket, "case", rec),
			Focus:           focusText(bucket, "case"),
			SuccessCriteria: successText(bucket, "case"),
		})
	}
	if tc.Practice != nil {
		items = append(items, PlanItem{
			ActivityType:    "practice",
			Title:           "Practice question",
			RefID:           tc.Practice.QuestionID,
			Minutes:         p.practiceMinutes(*tc.Practice),
			Why:             whyText(bucket, "practice", rec),
			Focus:           focusText(bucket, "practice"),
			SuccessCriteria: successText(bucket, "practice"),
		})
	}

	minutes := 0
	for _, it := range items {
		minutes += it.Minutes
	}
	if minutes == 0 {
		minutes = p.sessionMinutes(rec.Label)
	}

	return Session{
		TopicTag:         rec.TopicTag,
		SubjectID:        rec.SubjectID,
		Bucket:           bucket,
		PriorityLabel:    rec.Label,
		EstimatedMinutes: minutes,
		Items:            items,
	}
}

func (p *Planner) learnMinutes(lengthWords int) int {
	cfg := p.config
	m := int(math.Round(float64(lengthWords) / cfg.LearnWordsPerMinute))
	return clampInt(m, cfg.LearnMinMinutes, cfg.LearnMaxMinutes)
}

func (p *Planner) caseMinutes(importance float64) int {
	cfg := p.config
	m := int(math.Round(cfg.CaseBaseMinutes + (importance-0.5)*2*cfg.CaseAdjustMinutes))
	return clampInt(m, cfg.CaseMinMinutes, cfg.CaseMaxMinutes)
}

func (p *Planner) practiceMinutes(ref PracticeRef) int {
	cfg := p.config
	if ref.AvgTimeSeconds > 0 {
		// Time history beats the marks heuristic.
		return clampInt(int(math.Round(ref.AvgTimeSeconds/60)), cfg.PracticeMinMinutes, cfg.PracticeMaxMinutes)
	}
	m := float64(ref.Marks) * cfg.MinutesPerMark
	if ref.QuestionType == "essay" || ref.QuestionType == "case_analysis" {
		m *= cfg.EssayFactor
	}
	return clampInt(int(math.Round(m)), cfg.PracticeMinMinutes, cfg.PracticeMaxMinutes)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
