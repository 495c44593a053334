package rubric

import (
	"strings"
	"testing"

	"readiness-service/internal/models"
)

var essayQuestion = models.Question{
	ID:       "q1",
	Text:     "Discuss whether a contract was formed between the parties.",
	Type:     models.QuestionEssay,
	Marks:    15,
	Keywords: []string{"contract", "offer", "acceptance", "consideration"},
}

const strongAnswer = `The issue is whether a valid contract was formed between the parties.
Firstly, under Section 10 of the Contract Act, an agreement requires offer, acceptance and consideration. The precedent of Carlill v. Carbolic establishes that a unilateral offer can be accepted by conduct.
Applying these principles, in this case the seller made a definite offer and the buyer communicated acceptance. Because consideration moved from both sides, the statutory requirements are satisfied. Moreover, there is no evidence of duress.
In conclusion, the agreement is enforceable and the defendant is liable for breach.`

func TestEmptyAnswerScoresZeroEverywhere(t *testing.T) {
	scorer := NewScorer(nil)

	for _, answer := range []string{"", "   ", "\n\t "} {
		eval, err := scorer.EvaluateAnswer(answer, essayQuestion)
		if err != nil {
			t.Fatalf("empty answer must not error: %v", err)
		}
		if eval.MarksAwarded != 0 {
			t.Errorf("expected 0 marks, got %.2f", eval.MarksAwarded)
		}
		sawFeedback := false
		for _, c := range eval.Breakdown {
			if c.Awarded != 0 {
				t.Errorf("criterion %s awarded %.2f on empty answer", c.Criterion, c.Awarded)
			}
			if c.Comment == "No answer provided" {
				sawFeedback = true
			}
		}
		if !sawFeedback {
			t.Error("expected 'No answer provided' feedback on at least one criterion")
		}
	}
}

func TestStrongAnswerOutscoresWeakAnswer(t *testing.T) {
	scorer := NewScorer(nil)

	strong, err := scorer.EvaluateAnswer(strongAnswer, essayQuestion)
	if err != nil {
		t.Fatal(err)
	}
	weak, err := scorer.EvaluateAnswer("Yes there was a contract.", essayQuestion)
	if err != nil {
		t.Fatal(err)
	}

	if strong.MarksAwarded <= weak.MarksAwarded {
		t.Errorf("strong answer (%.2f) should outscore weak answer (%.2f)",
			strong.MarksAwarded, weak.MarksAwarded)
	}
	if len(strong.Strengths) == 0 {
		t.Error("expected strengths on the strong answer")
	}
	if len(weak.Improvements) == 0 {
		t.Error("expected improvements on the weak answer")
	}
}

func TestScoresNeverExceedCriterionMax(t *testing.T) {
	scorer := NewScorer(nil)

	answers := []string{
		strongAnswer,
		strings.Repeat(strongAnswer+" ", 5),
		"The issue is whether. Whether whether whether. Issue issue issue issue.",
	}
	for _, a := range answers {
		eval, err := scorer.EvaluateAnswer(a, essayQuestion)
		if err != nil {
			t.Fatal(err)
		}
		sum := 0.0
		for _, c := range eval.Breakdown {
			if c.Awarded > c.MaxMarks {
				t.Errorf("criterion %s: awarded %.2f exceeds max %.2f", c.Criterion, c.Awarded, c.MaxMarks)
			}
			if c.Awarded < 0 {
				t.Errorf("criterion %s: negative award", c.Criterion)
			}
			sum += c.Awarded
		}
		// Total is the literal sum of criterion scores.
		if diff := eval.MarksAwarded - sum; diff > 0.011 || diff < -0.011 {
			t.Errorf("total %.2f is not the sum of criterion scores %.2f", eval.MarksAwarded, sum)
		}
		if eval.MarksAwarded > eval.MaxMarks {
			t.Errorf("total %.2f exceeds max %.2f", eval.MarksAwarded, eval.MaxMarks)
		}
	}
}

func TestEvaluationIsDeterministic(t *testing.T) {
	scorer := NewScorer(nil)

	first, err := scorer.EvaluateAnswer(strongAnswer, essayQuestion)
	if err != nil {
		t.Fatal(err)
	}
	second, err := scorer.EvaluateAnswer(strongAnswer, essayQuestion)
	if err != nil {
		t.Fatal(err)
	}

	if first.MarksAwarded != second.MarksAwarded {
		t.Fatalf("marks differ across runs: %.2f vs %.2f", first.MarksAwarded, second.MarksAwarded)
	}
	if first.OverallFeedback != second.OverallFeedback {
		t.Fatal("feedback differs across runs")
	}
	for i := range first.Breakdown {
		if first.Breakdown[i] != second.Breakdown[i] {
			t.Fatalf("criterion %s differs across runs", first.Breakdown[i].Criterion)
		}
	}
}

func TestConclusionTailBonus(t *testing.T) {
	scorer := NewScorer(nil)

	withTail := "The facts are set out above. In conclusion, the defendant is liable."
	buried := "In conclusion the defendant is liable. " + strings.Repeat("Further facts follow without any concluding language whatsoever here. ", 20)

	fracTail, _, _ := scorer.scoreConclusion(strings.ToLower(withTail))
	fracBuried, _, _ := scorer.scoreConclusion(strings.ToLower(buried))

	if fracTail <= fracBuried {
		t.Errorf("conclusion in final 500 chars should score higher: %.2f vs %.2f", fracTail, fracBuried)
	}
}

func TestStructureSubChecksAreAdditive(t *testing.T) {
	scorer := NewScorer(nil)

	structured := "Firstly, the offer was made with clear and certain terms to the buyer in question. Secondly, the acceptance was communicated promptly and without any variation of terms. Moreover, consideration was present on both sides of the agreement as required."
	wall := "offer acceptance consideration"

	fracGood, _, _ := scorer.scoreStructure(structured, strings.ToLower(structured))
	fracBad, _, _ := scorer.scoreStructure(wall, wall)

	if fracGood <= fracBad {
		t.Errorf("structured answer should score higher: %.2f vs %.2f", fracGood, fracBad)
	}
}
