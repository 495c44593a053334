package studyplan

import (
	"testing"

	"readiness-service/internal/models"
	"readiness-service/internal/priority"
)

func record(topic string, score, masteryPercent float64, daysSince int, label string) priority.Record {
	return priority.Record{
		TopicTag:  topic,
		SubjectID: "contracts",
		Score:     score,
		Label:     label,
		Components: priority.ComponentBreakdown{
			MasteryPercent: masteryPercent,
			DaysSince:      daysSince,
		},
	}
}

func contentFor(topics ...string) map[string]TopicContent {
	out := map[string]TopicContent{}
	for _, t := range topics {
		out[t] = TopicContent{
			Concept: &models.ContentItem{
				ID:          t + "-concept",
				Title:       "Concept: " + t,
				LengthWords: 3000,
			},
			Example: &models.ContentItem{
				ID:         t + "-case",
				Title:      "Case: " + t,
				Importance: 0.5,
			},
			Practice: &PracticeRef{
				QuestionID:   t + "-q1",
				Marks:        10,
				QuestionType: models.QuestionShortAnswer,
			},
		}
	}
	return out
}

func TestBucketBoundaries(t *testing.T) {
	p := NewPlanner(nil)

	tests := []struct {
		name    string
		mastery float64
		days    int
		want    string
	}{
		{"weak below 40", 25, 3, BucketWeak},
		{"medium at 40", 40, 3, BucketMedium},
		{"medium below 70", 69, 3, BucketMedium},
		{"strong fresh excluded", 80, 10, BucketExcluded},
		{"strong at 21 days still fresh", 80, 21, BucketExcluded},
		{"strong stale past 21 days", 80, 22, BucketStale},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := p.Bucket(record("topic", 0.5, tt.mastery, tt.days, "Medium"))
			if got != tt.want {
				t.Errorf("bucket = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestDailyPlanRespectsBucketShares(t *testing.T) {
	p := NewPlanner(nil)

	records := []priority.Record{
		record("weak-1", 0.90, 20, 5, "High"),
		record("weak-2", 0.85, 30, 8, "High"),
		record("weak-3", 0.80, 35, 4, "High"),
		record("medium-1", 0.55, 50, 6, "Medium"),
		record("medium-2", 0.50, 60, 9, "Medium"),
		record("stale-1", 0.45, 85, 30, "Medium"),
		record("stale-2", 0.42, 90, 40, "Medium"),
	}

	plan := p.DailyPlan(records, nil, 120, nil)
	if plan.UsedFallback {
		t.Fatal("did not expect the sparse-data fallback")
	}

	byBucket := map[string]int{}
	for _, s := range plan.Sessions {
		byBucket[s.Bucket] += s.EstimatedMinutes
	}

	// 40% of 120 = 48 budget, +15 overflow allowed on the crossing topic.
	if byBucket[BucketWeak] == 0 {
		t.Error("expected weak-bucket sessions")
	}
	if byBucket[BucketWeak] > 48+15 {
		t.Errorf("weak bucket minutes %d exceed budget plus overflow", byBucket[BucketWeak])
	}
	if byBucket[BucketMedium] > 48+15 {
		t.Errorf("medium bucket minutes %d exceed budget plus overflow", byBucket[BucketMedium])
	}
	if byBucket[BucketStale] > 24+15 {
		t.Errorf("stale bucket minutes %d exceed budget plus overflow", byBucket[BucketStale])
	}
}

func TestStrongFreshTopicsNeverPlanned(t *testing.T) {
	p := NewPlanner(nil)

	records := []priority.Record{
		record("weak-1", 0.9, 20, 5, "High"),
		record("weak-2", 0.8, 30, 5, "High"),
		record("mastered", 0.1, 90, 2, "Low"),
	}
	plan := p.DailyPlan(records, nil, 120, nil)
	for _, s := range plan.Sessions {
		if s.TopicTag == "mastered" {
			t.Error("strong fresh topic must not be scheduled")
		}
	}
}

func TestSparseDataFallbackFillsFullTarget(t *testing.T) {
	p := NewPlanner(nil)

	// A single weak topic: below the two-topic threshold, so the bucket split
	// is abandoned and the pool fills the whole target.
	records := []priority.Record{
		record("only-topic", 0.9, 20, 5, "High"),
	}
	plan := p.DailyPlan(records, nil, 120, nil)
	if !plan.UsedFallback {
		t.Fatal("expected fallback with one candidate topic")
	}
	if len(plan.Sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(plan.Sessions))
	}
	if plan.Note == "" {
		t.Error("fallback plans must carry an explanatory note")
	}
}

func TestFallbackReclassifiesStrongFreshAsRevision(t *testing.T) {
	p := NewPlanner(nil)

	records := []priority.Record{
		record("mastered", 0.1, 90, 2, "Low"),
	}
	plan := p.DailyPlan(records, nil, 60, nil)
	if !plan.UsedFallback {
		t.Fatal("expected fallback")
	}
	if len(plan.Sessions) != 1 || plan.Sessions[0].Bucket != BucketStale {
		t.Error("in the fallback a mastered topic is schedulable as revision")
	}
}

func TestSessionComposition(t *testing.T) {
	p := NewPlanner(nil)

	records := []priority.Record{
		record("offer", 0.9, 20, 5, "High"),
		record("duress", 0.8, 30, 5, "High"),
	}
	content := contentFor("offer")

	plan := p.DailyPlan(records, content, 120, nil)

	var offer, duress *Session
	for i := range plan.Sessions {
		switch plan.Sessions[i].TopicTag {
		case "offer":
			offer = &plan.Sessions[i]
		case "duress":
			duress = &plan.Sessions[i]
		}
	}
	if offer == nil || duress == nil {
		t.Fatal("expected sessions for both topics")
	}

	if len(offer.Items) != 3 {
		t.Fatalf("expected 3 slots with full content, got %d", len(offer.Items))
	}
	order := []string{"learn", "case", "practice"}
	for i, it := range offer.Items {
		if it.ActivityType != order[i] {
			t.Errorf("slot %d = %s, want %s", i, it.ActivityType, order[i])
		}
		if it.Why == "" || it.Focus == "" || it.SuccessCriteria == "" {
			t.Errorf("slot %s missing guidance text", it.ActivityType)
		}
	}

	// 3000 words at 150 wpm = 20 minutes.
	if offer.Items[0].Minutes != 20 {
		t.Errorf("learn slot = %d minutes, want 20", offer.Items[0].Minutes)
	}
	// Importance 0.5 sits at the base.
	if offer.Items[1].Minutes != 15 {
		t.Errorf("case slot = %d minutes, want 15", offer.Items[1].Minutes)
	}
	// 10 marks x 3 min/mark, short answer.
	if offer.Items[2].Minutes != 30 {
		t.Errorf("practice slot = %d minutes, want 30", offer.Items[2].Minutes)
	}

	// No content: the session still exists at the label's default length.
	if len(duress.Items) != 0 {
		t.Errorf("expected no slots without content, got %d", len(duress.Items))
	}
	if duress.EstimatedMinutes != 45 {
		t.Errorf("high-priority session default = %d, want 45", duress.EstimatedMinutes)
	}
}

func TestPracticeMinutesEstimation(t *testing.T) {
	p := NewPlanner(nil)

	tests := []struct {
		name string
		ref  PracticeRef
		want int
	}{
		{"marks heuristic", PracticeRef{Marks: 10, QuestionType: models.QuestionShortAnswer}, 30},
		{"essay factor", PracticeRef{Marks: 10, QuestionType: models.QuestionEssay}, 45},
		{"case analysis factor", PracticeRef{Marks: 10, QuestionType: models.QuestionCaseAnalysis}, 45},
		{"history overrides marks", PracticeRef{Marks: 10, QuestionType: models.QuestionEssay, AvgTimeSeconds: 600}, 10},
		{"clamped low", PracticeRef{Marks: 1, QuestionType: models.QuestionMCQ}, 5},
		{"clamped high", PracticeRef{Marks: 25, QuestionType: models.QuestionEssay}, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.practiceMinutes(tt.ref); got != tt.want {
				t.Errorf("practiceMinutes = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLearnAndCaseMinutesClamped(t *testing.T) {
	p := NewPlanner(nil)

	if got := p.learnMinutes(500); got != 10 {
		t.Errorf("short content learn = %d, want clamp floor 10", got)
	}
	if got := p.learnMinutes(100000); got != 45 {
		t.Errorf("long content learn = %d, want clamp ceiling 45", got)
	}
	if got := p.caseMinutes(1.0); got != 25 {
		t.Errorf("landmark case = %d, want 25", got)
	}
	if got := p.caseMinutes(0.0); got != 5 {
		t.Errorf("minor case = %d, want 5", got)
	}
}

func TestWeeklyPlanAvoidsRepeatsUntilExhaustion(t *testing.T) {
	p := NewPlanner(nil)

	records := []priority.Record{
		record("offer", 0.9, 20, 5, "High"),
		record("acceptance", 0.85, 30, 5, "High"),
		record("duress", 0.6, 55, 5, "Medium"),
		record("mistake", 0.55, 60, 5, "Medium"),
	}

	plans := p.WeeklyPlan(records, nil, 60, 7)
	if len(plans) != 7 {
		t.Fatalf("expected 7 days, got %d", len(plans))
	}

	seen := map[string]int{}
	reusedBeforeExhaustion := false
	for _, plan := range plans {
		for _, s := range plan.Sessions {
			seen[s.TopicTag]++
			if seen[s.TopicTag] > 1 && !plan.UsedFallback {
				reusedBeforeExhaustion = true
			}
		}
	}
	if reusedBeforeExhaustion {
		t.Error("topics repeated within the week without an exhaustion fallback")
	}
	for day, plan := range plans {
		if plan.Day != day+1 {
			t.Errorf("day %d numbered %d", day+1, plan.Day)
		}
	}
}

func TestWeeklyPlanDeterministic(t *testing.T) {
	p := NewPlanner(nil)

	records := []priority.Record{
		record("offer", 0.9, 20, 5, "High"),
		record("acceptance", 0.85, 30, 5, "High"),
		record("duress", 0.6, 55, 5, "Medium"),
	}
	content := contentFor("offer", "acceptance", "duress")

	a := p.WeeklyPlan(records, content, 90, 7)
	b := p.WeeklyPlan(records, content, 90, 7)

	if len(a) != len(b) {
		t.Fatal("plan lengths differ")
	}
	for i := range a {
		if len(a[i].Sessions) != len(b[i].Sessions) {
			t.Fatalf("day %d session counts differ", i+1)
		}
		for j := range a[i].Sessions {
			if a[i].Sessions[j].TopicTag != b[i].Sessions[j].TopicTag {
				t.Fatalf("day %d session %d differs", i+1, j)
			}
		}
	}
}

func TestGuidanceTextVariesByBucket(t *testing.T) {
	weak := whyText(BucketWeak, "learn", record("offer", 0.9, 20, 5, "High"))
	stale := whyText(BucketStale, "learn", record("offer", 0.3, 85, 30, "Low"))
	if weak == stale {
		t.Error("expected different guidance for weak and stale topics")
	}
	if focusText(BucketWeak, "practice") == "" || successText(BucketStale, "case") == "" {
		t.Error("guidance templates must never be empty")
	}
}
