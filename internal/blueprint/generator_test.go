package blueprint

import (
	"fmt"
	"testing"
	"time"

	"readiness-service/internal/models"
)

var testNow = time.Date(2024, 11, 4, 9, 0, 0, 0, time.UTC)

func question(id, topic string, marks int, qt models.QuestionType, difficulty string) models.Question {
	return models.Question{
		ID:         id,
		SubjectID:  "contracts",
		Text:       "Question " + id,
		Type:       qt,
		Marks:      marks,
		Difficulty: difficulty,
		TopicTags:  []string{topic},
	}
}

// mockPool builds enough questions across topics to fill a mock exam.
func mockPool() []models.Question {
	topics := []string{"offer", "acceptance", "consideration", "capacity", "duress", "mistake"}
	pool := make([]models.Question, 0)
	n := 0
	for _, topic := range topics {
		for i := 0; i < 3; i++ {
			n++
			pool = append(pool, question(fmt.Sprintf("q%02d", n), topic, 5, models.QuestionShortAnswer, "easy"))
		}
		n++
		pool = append(pool, question(fmt.Sprintf("q%02d", n), topic, 10, models.QuestionEssay, "medium"))
		n++
		pool = append(pool, question(fmt.Sprintf("q%02d", n), topic, 15, models.QuestionCaseAnalysis, "hard"))
	}
	return pool
}

func flatten(bp *models.ExamBlueprint) []models.BlueprintQuestion {
	var out []models.BlueprintQuestion
	for _, s := range bp.Sections {
		out = append(out, s.Questions...)
	}
	return out
}

func TestNoDuplicateQuestionsOrAdjacentTopics(t *testing.T) {
	gen := NewGenerator(nil)

	insights := map[string]TopicInsight{
		"offer":      {MasteryScore: 0.2, DaysSincePractice: 12, AttemptCount: 4},
		"acceptance": {MasteryScore: 0.8, DaysSincePractice: 2, AttemptCount: 9},
	}

	bp, err := gen.Generate(models.ExamMock, []string{"contracts"}, mockPool(), insights, testNow)
	if err != nil {
		t.Fatal(err)
	}

	flat := flatten(bp)
	if len(flat) == 0 {
		t.Fatal("empty blueprint")
	}

	seen := map[string]bool{}
	for i, q := range flat {
		if seen[q.QuestionID] {
			t.Errorf("duplicate question %s", q.QuestionID)
		}
		seen[q.QuestionID] = true
		if i > 0 && q.PrimaryTopic == flat[i-1].PrimaryTopic {
			t.Errorf("consecutive questions %d and %d share topic %s", i-1, i, q.PrimaryTopic)
		}
	}
}

func TestRepeatAllowedOnlyOnExhaustion(t *testing.T) {
	gen := NewGenerator(nil)

	// Three questions, all the same topic: the anti-repetition rule cannot
	// hold, and the generator must tolerate repeats rather than under-fill.
	pool := []models.Question{
		question("q1", "offer", 5, models.QuestionShortAnswer, "easy"),
		question("q2", "offer", 5, models.QuestionShortAnswer, "easy"),
		question("q3", "offer", 5, models.QuestionShortAnswer, "easy"),
	}

	bp, err := gen.Generate(models.ExamUnitTest, []string{"contracts"}, pool, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	flat := flatten(bp)
	if len(flat) != 3 {
		t.Fatalf("expected all 3 questions used on exhaustion, got %d", len(flat))
	}
	seen := map[string]bool{}
	for _, q := range flat {
		if seen[q.QuestionID] {
			t.Error("question ids must still be unique even on topic exhaustion")
		}
		seen[q.QuestionID] = true
	}
}

func TestZeroHistoryStillProducesBlueprint(t *testing.T) {
	gen := NewGenerator(nil)

	bp, err := gen.Generate(models.ExamMock, []string{"contracts"}, mockPool(), nil, testNow)
	if err != nil {
		t.Fatalf("zero practice history must not error: %v", err)
	}
	if len(flatten(bp)) == 0 {
		t.Fatal("expected a non-empty blueprint with no practice history")
	}
	for _, q := range flatten(bp) {
		if q.WhySelected == "" {
			t.Errorf("question %s missing selection rationale", q.QuestionID)
		}
	}
}

func TestUnknownExamTypeIsHardFailure(t *testing.T) {
	gen := NewGenerator(nil)
	if _, err := gen.Generate(models.ExamType("viva"), nil, mockPool(), nil, testNow); err == nil {
		t.Error("expected error for unknown exam type")
	}
}

func TestStructureInferenceAdjustsMarksOnly(t *testing.T) {
	gen := NewGenerator(nil)

	// Pool marks are 4 and 12: both sections of the unit test template
	// (5 and 10) should remap to the nearest available values.
	pool := []models.Question{
		question("q1", "offer", 4, models.QuestionShortAnswer, "easy"),
		question("q2", "acceptance", 4, models.QuestionShortAnswer, "easy"),
		question("q3", "capacity", 4, models.QuestionShortAnswer, "easy"),
		question("q4", "duress", 12, models.QuestionEssay, "medium"),
	}

	bp, err := gen.Generate(models.ExamUnitTest, []string{"contracts"}, pool, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if bp.StructureSource != "inferred" {
		t.Fatalf("expected inferred structure, got %s", bp.StructureSource)
	}
	tpl := DefaultConfig().Templates[models.ExamUnitTest]
	if len(bp.Sections) != len(tpl.Sections) {
		t.Error("inference must never change the section count")
	}
	if bp.DurationMinutes != tpl.DurationMinutes {
		t.Error("inference must never change the duration")
	}
	if bp.Sections[0].MarksPerQuestion != 4 || bp.Sections[1].MarksPerQuestion != 12 {
		t.Errorf("expected marks 4/12, got %d/%d",
			bp.Sections[0].MarksPerQuestion, bp.Sections[1].MarksPerQuestion)
	}
}

func TestSingleMarksValueKeepsTemplate(t *testing.T) {
	gen := NewGenerator(nil)

	pool := []models.Question{
		question("q1", "offer", 5, models.QuestionShortAnswer, "easy"),
		question("q2", "acceptance", 5, models.QuestionShortAnswer, "easy"),
	}
	bp, err := gen.Generate(models.ExamUnitTest, []string{"contracts"}, pool, nil, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if bp.StructureSource != "template" {
		t.Errorf("one distinct marks value should keep the static template, got %s", bp.StructureSource)
	}
}

func TestWeakTopicsScoreAboveStrongOnes(t *testing.T) {
	gen := NewGenerator(nil)

	insights := map[string]TopicInsight{
		"offer":      {MasteryScore: 0.2, DaysSincePractice: 20, AttemptCount: 5},
		"acceptance": {MasteryScore: 0.95, DaysSincePractice: 1, AttemptCount: 10},
	}
	pool := []models.Question{
		question("qa", "offer", 5, models.QuestionShortAnswer, "easy"),
		question("qb", "acceptance", 5, models.QuestionShortAnswer, "easy"),
	}

	ranked := gen.rank(pool, insights, map[string]int{"offer": 1, "acceptance": 1}, 1)
	if ranked[0].question.PrimaryTopic() != "offer" {
		t.Errorf("weak stale topic should rank first, got %s", ranked[0].question.PrimaryTopic())
	}
	if ranked[0].question.ID != "qa" {
		t.Errorf("expected qa first, got %s", ranked[0].question.ID)
	}
}

func TestDifficultyAlignmentInvertsForWeakTopics(t *testing.T) {
	gen := NewGenerator(nil)

	insights := map[string]TopicInsight{
		"offer": {MasteryScore: 0.2, DaysSincePractice: 10, AttemptCount: 5},
	}
	pool := []models.Question{
		question("easy", "offer", 5, models.QuestionShortAnswer, "easy"),
		question("hard", "offer", 5, models.QuestionShortAnswer, "hard"),
	}
	ranked := gen.rank(pool, insights, map[string]int{"offer": 2}, 2)
	if ranked[0].question.ID != "easy" {
		t.Errorf("weak topic should prefer the easier question, got %s", ranked[0].question.ID)
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	gen := NewGenerator(nil)
	insights := map[string]TopicInsight{
		"offer":    {MasteryScore: 0.3, DaysSincePractice: 9, AttemptCount: 3},
		"capacity": {MasteryScore: 0.7, DaysSincePractice: 22, AttemptCount: 6},
	}

	a, err := gen.Generate(models.ExamMock, []string{"contracts"}, mockPool(), insights, testNow)
	if err != nil {
		t.Fatal(err)
	}
	b, err := gen.Generate(models.ExamMock, []string{"contracts"}, mockPool(), insights, testNow)
	if err != nil {
		t.Fatal(err)
	}

	fa, fb := flatten(a), flatten(b)
	if len(fa) != len(fb) {
		t.Fatalf("selection sizes differ: %d vs %d", len(fa), len(fb))
	}
	for i := range fa {
		if fa[i].QuestionID != fb[i].QuestionID || fa[i].WhySelected != fb[i].WhySelected {
			t.Fatalf("selection differs at position %d", i)
		}
	}
}

func TestCoverageStats(t *testing.T) {
	gen := NewGenerator(nil)
	insights := map[string]TopicInsight{
		"offer": {MasteryScore: 0.2, DaysSincePractice: 5, AttemptCount: 4},
	}

	bp, err := gen.Generate(models.ExamMock, []string{"contracts"}, mockPool(), insights, testNow)
	if err != nil {
		t.Fatal(err)
	}
	if bp.Coverage.DistinctTopics == 0 {
		t.Error("expected distinct topic count")
	}
	if len(bp.Coverage.QuestionTypeCounts) == 0 {
		t.Error("expected question type counts")
	}
	if bp.Coverage.WeakTopicQuestions == 0 {
		t.Error("expected weak-topic questions counted when a weak topic exists in the pool")
	}
}
