package priority

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}

func TestRankOrdersWeakStaleTopicsFirst(t *testing.T) {
	engine := NewEngine(nil)

	topics := []TopicStats{
		{
			TopicTag:          "torts-negligence",
			SubjectID:         "torts",
			MasteryScore:      0.9,
			AttemptCount:      8,
			DaysSincePractice: 2,
			QuestionCount:     10,
			TopicSemester:     3,
		},
		{
			TopicTag:          "contract-formation",
			SubjectID:         "contracts",
			MasteryScore:      0.2,
			AttemptCount:      5,
			DaysSincePractice: 10,
			QuestionCount:     10,
			TopicSemester:     3,
		},
	}

	result := engine.Rank(topics, 3)
	if !result.DataAvailable {
		t.Fatalf("expected data, got no-data result: %s", result.Reason)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0].TopicTag != "contract-formation" {
		t.Errorf("expected contract-formation ranked first, got %s", result.Records[0].TopicTag)
	}
	if result.Records[0].Label != "High" {
		t.Errorf("expected High label for contract-formation, got %s", result.Records[0].Label)
	}
	if result.Records[0].Score <= result.Records[1].Score {
		t.Errorf("expected strict ordering, got %.2f vs %.2f",
			result.Records[0].Score, result.Records[1].Score)
	}
}

func TestScoreFormulaComponents(t *testing.T) {
	engine := NewEngine(nil)

	// mastery 20% -> deficit 0.8; 10 days -> staleness 1/3;
	// sole topic -> importance 1.0; current semester -> urgency 1.0
	rec := engine.score(TopicStats{
		TopicTag:          "contract-formation",
		MasteryScore:      0.2,
		AttemptCount:      5,
		DaysSincePractice: 10,
		QuestionCount:     10,
		TopicSemester:     3,
	}, 3, 10)

	expected := 0.35*0.8 + 0.30*(10.0/30.0) + 0.20*1.0 + 0.15*1.0
	if !almostEqual(rec.Score, expected) {
		t.Errorf("expected score %.4f, got %.4f", expected, rec.Score)
	}
	if rec.Components.DaysSince != 10 {
		t.Errorf("expected 10 days since practice, got %d", rec.Components.DaysSince)
	}
}

func TestZeroAttemptTopicsExcluded(t *testing.T) {
	engine := NewEngine(nil)

	topics := []TopicStats{
		{TopicTag: "never-tried", AttemptCount: 0, QuestionCount: 5},
		{TopicTag: "practiced", MasteryScore: 0.5, AttemptCount: 2, DaysSincePractice: 5, QuestionCount: 5},
	}

	result := engine.Rank(topics, 1)
	if len(result.Records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(result.Records))
	}
	if result.Records[0].TopicTag != "practiced" {
		t.Errorf("unexpected topic %s", result.Records[0].TopicTag)
	}
}

func TestEmptyInputIsNoDataNotError(t *testing.T) {
	engine := NewEngine(nil)

	result := engine.Rank(nil, 2)
	if result.DataAvailable {
		t.Error("expected no-data result for empty input")
	}
	if len(result.Records) != 0 {
		t.Errorf("expected empty records, got %d", len(result.Records))
	}
	if result.Reason == "" {
		t.Error("expected a reason on the no-data branch")
	}
}

func TestDeterministicOutput(t *testing.T) {
	engine := NewEngine(nil)
	topics := []TopicStats{
		{TopicTag: "a", MasteryScore: 0.3, AttemptCount: 3, DaysSincePractice: 12, QuestionCount: 4, TopicSemester: 2},
		{TopicTag: "b", MasteryScore: 0.6, AttemptCount: 6, DaysSincePractice: 25, QuestionCount: 8, TopicSemester: 1},
		{TopicTag: "c", MasteryScore: 0.8, AttemptCount: 9, DaysSincePractice: 1, QuestionCount: 2, TopicSemester: 3},
	}

	first := engine.Rank(topics, 2)
	second := engine.Rank(topics, 2)

	for i := range first.Records {
		if first.Records[i].TopicTag != second.Records[i].TopicTag ||
			first.Records[i].Score != second.Records[i].Score ||
			first.Records[i].Explanation != second.Records[i].Explanation {
			t.Fatalf("non-deterministic output at index %d", i)
		}
	}
}

func TestLabelBoundaries(t *testing.T) {
	engine := NewEngine(nil)
	cases := []struct {
		score float64
		want  string
	}{
		{0.65, "High"},
		{0.64, "Medium"},
		{0.40, "Medium"},
		{0.39, "Low"},
		{0.0, "Low"},
	}
	for _, tc := range cases {
		if got := engine.label(tc.score); got != tc.want {
			t.Errorf("label(%.2f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestRecommendedActionsDecisionTable(t *testing.T) {
	engine := NewEngine(nil)

	weak := engine.recommend(30, 5)
	if len(weak) != 2 {
		t.Errorf("expected two actions for weak mastery, got %v", weak)
	}

	strongStale := engine.recommend(80, 25)
	if len(strongStale) != 1 || strongStale[0] != "Quick revision to refresh memory" {
		t.Errorf("unexpected actions for strong+stale: %v", strongStale)
	}

	strongFresh := engine.recommend(85, 3)
	if len(strongFresh) != 1 || strongFresh[0] != "Ready for advanced questions on this topic" {
		t.Errorf("unexpected actions for strong+fresh: %v", strongFresh)
	}
}
