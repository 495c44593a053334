package service

import (
	"testing"

	"readiness-service/internal/models"
)

func TestSubjectsAtOrBelowSemester(t *testing.T) {
	subjects := []models.Subject{
		{ID: "torts", Semester: 2},
		{ID: "contracts", Semester: 1},
		{ID: "evidence", Semester: 4},
	}

	ids := subjectsAtOrBelowSemester(subjects, 2)
	if len(ids) != 2 || ids[0] != "contracts" || ids[1] != "torts" {
		t.Errorf("ids = %v, want [contracts torts]", ids)
	}

	// A future-only enrollment yields nothing, forcing the next fallback.
	if ids := subjectsAtOrBelowSemester(subjects, 0); len(ids) != 0 {
		t.Errorf("expected empty for semester 0, got %v", ids)
	}
	if ids := subjectsAtOrBelowSemester(nil, 3); len(ids) != 0 {
		t.Errorf("expected empty for no enrollment, got %v", ids)
	}
}

func TestSubjectsWithProgress(t *testing.T) {
	masteries := []models.TopicMastery{
		{SubjectID: "torts", TopicTag: "negligence"},
		{SubjectID: "contracts", TopicTag: "offer"},
		{SubjectID: "contracts", TopicTag: "acceptance"},
		{SubjectID: "", TopicTag: "orphaned"},
	}

	ids := subjectsWithProgress(masteries)
	if len(ids) != 2 || ids[0] != "contracts" || ids[1] != "torts" {
		t.Errorf("ids = %v, want deduplicated sorted [contracts torts]", ids)
	}
	if ids := subjectsWithProgress(nil); len(ids) != 0 {
		t.Errorf("expected empty for no mastery records, got %v", ids)
	}
}

func TestSampleSubjectIDsIsStable(t *testing.T) {
	catalog := []models.Subject{
		{ID: "s-evidence"}, {ID: "s-torts"}, {ID: "s-contracts"}, {ID: "s-property"},
	}

	ids := sampleSubjectIDs(catalog, 3)
	want := []string{"s-contracts", "s-evidence", "s-property"}
	if len(ids) != len(want) {
		t.Fatalf("expected %d ids, got %v", len(want), ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}

	// Never shrinks below the catalog when it is already small.
	if ids := sampleSubjectIDs(catalog[:2], 3); len(ids) != 2 {
		t.Errorf("expected 2 ids from a 2-subject catalog, got %v", ids)
	}
}

func TestGradeMCQ(t *testing.T) {
	correct := gradeMCQ("opt-b", "opt-b", 2)
	if correct.awarded != 2 || correct.max != 2 {
		t.Errorf("correct option: awarded %.1f/%.1f, want 2/2", correct.awarded, correct.max)
	}

	wrong := gradeMCQ("opt-a", "opt-b", 2)
	if wrong.awarded != 0 || wrong.max != 2 {
		t.Errorf("wrong option: awarded %.1f/%.1f, want 0/2", wrong.awarded, wrong.max)
	}

	// An unanswered MCQ must not match a question with an empty correct id.
	blank := gradeMCQ("", "", 2)
	if blank.awarded != 0 {
		t.Errorf("blank answer scored %.1f, want 0", blank.awarded)
	}
}

func TestAnswerEvaluationCarriesRubricDetail(t *testing.T) {
	graded := gradedAnswer{
		awarded:      6.5,
		max:          10,
		breakdown:    []models.CriterionScore{{Criterion: "issue", Awarded: 1.5, MaxMarks: 2}},
		feedback:     "Scored 6.50 of 10 marks (65%).",
		strengths:    []string{"issue"},
		improvements: []string{"conclusion"},
	}
	answer := models.ExamAnswer{ID: "ans-1", SessionID: "sess-1", QuestionID: "q-1"}

	ev := answerEvaluation("sess-1", answer, "q-1", graded)
	if ev.ID == "" {
		t.Error("evaluation needs its own id")
	}
	if ev.AnswerID != "ans-1" || ev.SessionID != "sess-1" || ev.QuestionID != "q-1" {
		t.Errorf("identity fields wrong: %+v", ev)
	}
	if ev.MarksAwarded != 6.5 || ev.MaxMarks != 10 {
		t.Errorf("marks %.2f/%.2f, want 6.5/10", ev.MarksAwarded, ev.MaxMarks)
	}
	if len(ev.Breakdown) != 1 || ev.Breakdown[0].Criterion != "issue" {
		t.Errorf("breakdown not carried: %+v", ev.Breakdown)
	}
	if len(ev.Strengths) != 1 || len(ev.Improvements) != 1 || ev.OverallFeedback == "" {
		t.Errorf("feedback fields not carried: %+v", ev)
	}
}

func TestClassifyTopics(t *testing.T) {
	topics := map[string]*topicTally{
		"offer":         {awarded: 9, max: 10},  // 90% strong
		"acceptance":    {awarded: 3, max: 10},  // 30% weak
		"consideration": {awarded: 5, max: 10},  // 50% neither
		"empty":         {awarded: 0, max: 0},   // skipped
	}

	strong, weak := classifyTopics(topics)

	if len(strong) != 1 || strong[0] != "offer" {
		t.Errorf("strong = %v, want [offer]", strong)
	}
	if len(weak) != 1 || weak[0] != "acceptance" {
		t.Errorf("weak = %v, want [acceptance]", weak)
	}
}

func TestClassifyTopicsIsSorted(t *testing.T) {
	topics := map[string]*topicTally{
		"torts":     {awarded: 1, max: 10},
		"contracts": {awarded: 2, max: 10},
		"evidence":  {awarded: 0, max: 10},
	}

	_, weak := classifyTopics(topics)
	if len(weak) != 3 {
		t.Fatalf("expected 3 weak topics, got %d", len(weak))
	}
	for i := 1; i < len(weak); i++ {
		if weak[i-1] > weak[i] {
			t.Errorf("weak topics not sorted: %v", weak)
		}
	}
}

func TestReadinessCacheKeyScoping(t *testing.T) {
	if readinessCacheKey("u1", "contracts") == readinessCacheKey("u1", "") {
		t.Error("subject-scoped and overall keys must differ")
	}
	if readinessCacheKey("u1", "") == readinessCacheKey("u2", "") {
		t.Error("keys must differ per user")
	}
}
