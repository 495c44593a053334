package rubric

import (
	"fmt"
	"math"
	"strings"

	"readiness-service/internal/models"
)

// Evaluation is the deterministic grading result for one free-text answer.
type Evaluation struct {
	MarksAwarded    float64                 `json:"marks_awarded"`
	MaxMarks        float64                 `json:"max_marks"`
	Percentage      float64                 `json:"percentage"`
	Breakdown       []models.CriterionScore `json:"breakdown"`
	OverallFeedback string                  `json:"overall_feedback"`
	Strengths       []string                `json:"strengths"`
	Improvements    []string                `json:"improvements"`
}

// Scorer grades free-text legal answers against an IRAC-style rubric using
// keyword and structural pattern counts only. Same answer, same question,
// same result.
type Scorer struct {
	config *Config
}

func NewScorer(config *Config) *Scorer {
	if config == nil {
		config = DefaultConfig()
	}
	return &Scorer{config: config}
}

// EvaluateAnswer grades answerText against the rubric for the question's
// type and marks. An empty or whitespace-only answer is the defined
// zero-case, not an error.
func (s *Scorer) EvaluateAnswer(answerText string, question models.Question) (*Evaluation, error) {
	r, err := Build(s.config, question.Type, question.Marks)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(answerText) == "" {
		return s.zeroEvaluation(r), nil
	}

	lower := strings.ToLower(answerText)
	breakdown := make([]models.CriterionScore, 0, len(r.Criteria))
	total := 0.0

	for _, c := range r.Criteria {
		var fraction float64
		var band, comment string

		switch c.Name {
		case CriterionIssue:
			fraction, band, comment = s.scoreIssue(lower, question)
		case CriterionPrinciples:
			fraction, band, comment = s.scorePrinciples(answerText, lower)
		case CriterionApplication:
			fraction, band, comment = s.scoreApplication(lower)
		case CriterionStructure:
			fraction, band, comment = s.scoreStructure(answerText, lower)
		case CriterionConclusion:
			fraction, band, comment = s.scoreConclusion(lower)
		}

		awarded := round2(fraction * c.MaxMarks)
		total += awarded
		breakdown = append(breakdown, models.CriterionScore{
			Criterion: c.Name,
			MaxMarks:  c.MaxMarks,
			Awarded:   awarded,
			Band:      band,
			Comment:   comment,
		})
	}

	total = round2(total)
	percentage := 0.0
	if r.TotalMarks > 0 {
		percentage = round2(total / float64(r.TotalMarks) * 100)
	}

	return &Evaluation{
		MarksAwarded: total,
		MaxMarks:     float64(r.TotalMarks),
		Percentage:   percentage,
		Breakdown:    breakdown,
		OverallFeedback: fmt.Sprintf("Scored %.2f of %d marks (%.0f%%).",
			total, r.TotalMarks, percentage),
		Strengths:    s.strengths(breakdown),
		Improvements: s.improvements(breakdown),
	}, nil
}

func (s *Scorer) zeroEvaluation(r *Rubric) *Evaluation {
	breakdown := make([]models.CriterionScore, 0, len(r.Criteria))
	for _, c := range r.Criteria {
		breakdown = append(breakdown, models.CriterionScore{
			Criterion: c.Name,
			MaxMarks:  c.MaxMarks,
			Awarded:   0,
			Band:      "missing",
			Comment:   "No answer provided",
		})
	}
	return &Evaluation{
		MarksAwarded:    0,
		MaxMarks:        float64(r.TotalMarks),
		Percentage:      0,
		Breakdown:       breakdown,
		OverallFeedback: "No answer provided",
		Strengths:       []string{},
		Improvements:    []string{"Attempt the question: any structured answer scores above zero"},
	}
}

func (s *Scorer) scoreIssue(lower string, question models.Question) (float64, string, string) {
	cfg := s.config
	indicators := countPhrases(lower, issueIndicators)
	keywords := countKeywordOverlap(lower, question.Keywords)

	var fraction float64
	var band string
	switch {
	case indicators >= cfg.IssueExcellentIndicators && keywords >= cfg.IssueExcellentKeywords:
		fraction, band = cfg.ExcellentFraction, "excellent"
	case indicators >= cfg.IssueGoodIndicators && keywords >= cfg.IssueGoodKeywords:
		fraction, band = cfg.GoodFraction, "good"
	case indicators+keywords >= cfg.IssueFairCombined:
		fraction, band = cfg.FairFraction, "fair"
	default:
		fraction, band = cfg.PoorFraction, "poor"
	}

	comment := fmt.Sprintf("Issue framing: %d indicator phrases, %d question-keyword matches", indicators, keywords)
	return fraction, band, comment
}

func (s *Scorer) scorePrinciples(raw, lower string) (float64, string, string) {
	cfg := s.config
	citations := 0
	for _, re := range citationPatterns {
		citations += len(re.FindAllString(raw, -1))
	}
	terms := countPhrases(lower, legalTerms)

	var fraction float64
	var band string
	switch {
	case citations >= cfg.PrinciplesExcellentCitations && terms >= cfg.PrinciplesExcellentTerms:
		fraction, band = cfg.ExcellentFraction, "excellent"
	case citations >= cfg.PrinciplesGoodCitations && terms >= cfg.PrinciplesGoodTerms:
		fraction, band = cfg.GoodFraction, "good"
	case citations >= 1 || terms >= cfg.PrinciplesGoodTerms:
		fraction, band = cfg.FairFraction, "fair"
	default:
		fraction, band = cfg.PoorFraction, "poor"
	}

	comment := fmt.Sprintf("Legal grounding: %d citations, %d legal terms", citations, terms)
	return fraction, band, comment
}

func (s *Scorer) scoreApplication(lower string) (float64, string, string) {
	cfg := s.config
	transitions := countPhrases(lower, applicationTransitions)
	causal := countPhrases(lower, causalPhrases)

	var fraction float64
	var band string
	switch {
	case transitions >= cfg.ApplicationExcellentTransitions && causal >= cfg.ApplicationExcellentCausal:
		fraction, band = cfg.ExcellentFraction, "excellent"
	case transitions >= cfg.ApplicationGoodTransitions && causal >= 1:
		fraction, band = cfg.GoodFraction, "good"
	case transitions >= 1 || causal >= 1:
		fraction, band = cfg.FairFraction, "fair"
	default:
		fraction, band = cfg.PoorFraction, "poor"
	}

	comment := fmt.Sprintf("Application to facts: %d transition phrases, %d causal links", transitions, causal)
	return fraction, band, comment
}

// scoreStructure is additive over three sub-checks rather than banded:
// paragraphing, sentence length, and discourse connectives.
func (s *Scorer) scoreStructure(raw, lower string) (float64, string, string) {
	cfg := s.config

	paragraphs := countParagraphs(raw)
	avgSentence := averageSentenceLength(raw)
	connectives := countPhrases(lower, discourseConnectives)

	fraction := 0.0
	switch {
	case paragraphs >= cfg.MinParagraphs:
		fraction += 0.40
	case paragraphs == 2:
		fraction += 0.20
	}
	switch {
	case avgSentence >= cfg.IdealSentenceMin && avgSentence <= cfg.IdealSentenceMax:
		fraction += 0.30
	case avgSentence >= cfg.TolerableSentenceMin && avgSentence <= cfg.TolerableSentenceMax:
		fraction += 0.15
	}
	switch {
	case connectives >= 2:
		fraction += 0.30
	case connectives == 1:
		fraction += 0.15
	}

	band := "poor"
	switch {
	case fraction >= cfg.ExcellentFraction:
		band = "excellent"
	case fraction >= cfg.GoodFraction:
		band = "good"
	case fraction >= cfg.FairFraction:
		band = "fair"
	}

	comment := fmt.Sprintf("Structure: %d paragraphs, %.0f words per sentence, %d connectives",
		paragraphs, avgSentence, connectives)
	return fraction, band, comment
}

func (s *Scorer) scoreConclusion(lower string) (float64, string, string) {
	cfg := s.config
	indicators := countPhrases(lower, conclusionIndicators)
	verdicts := countPhrases(lower, conclusiveVerdicts)

	var fraction float64
	var band string
	switch {
	case indicators >= 1 && verdicts >= 1:
		fraction, band = cfg.GoodFraction, "good"
	case indicators >= 1 || verdicts >= 1:
		fraction, band = cfg.FairFraction, "fair"
	default:
		fraction, band = cfg.PoorFraction, "poor"
	}

	// Concluding language in the final stretch of the answer earns a bonus.
	tail := lower
	if len(tail) > cfg.ConclusionTailChars {
		tail = tail[len(tail)-cfg.ConclusionTailChars:]
	}
	inTail := countPhrases(tail, conclusionIndicators)+countPhrases(tail, conclusiveVerdicts) > 0
	if inTail && fraction >= cfg.FairFraction {
		fraction += cfg.ConclusionTailBonus
		if fraction > cfg.ConclusionMaxFraction {
			fraction = cfg.ConclusionMaxFraction
		}
		if fraction >= cfg.ConclusionMaxFraction {
			band = "excellent"
		}
	}

	comment := fmt.Sprintf("Conclusion: %d concluding phrases, %d verdicts, closing position: %t",
		indicators, verdicts, inTail)
	return fraction, band, comment
}

func (s *Scorer) strengths(breakdown []models.CriterionScore) []string {
	out := []string{}
	for _, c := range breakdown {
		if c.MaxMarks > 0 && c.Awarded/c.MaxMarks >= s.config.GoodFraction {
			out = append(out, "Strong "+displayName(c.Criterion))
		}
	}
	return out
}

func (s *Scorer) improvements(breakdown []models.CriterionScore) []string {
	out := []string{}
	for _, c := range breakdown {
		if c.MaxMarks > 0 && c.Awarded/c.MaxMarks <= s.config.FairFraction {
			out = append(out, improvementHint(c.Criterion))
		}
	}
	return out
}

func displayName(criterion string) string {
	switch criterion {
	case CriterionIssue:
		return "issue identification"
	case CriterionPrinciples:
		return "use of legal principles"
	case CriterionApplication:
		return "application to facts"
	case CriterionStructure:
		return "structure and clarity"
	case CriterionConclusion:
		return "conclusion"
	}
	return criterion
}

func improvementHint(criterion string) string {
	switch criterion {
	case CriterionIssue:
		return "State the legal issue explicitly, e.g. 'The issue is whether...'"
	case CriterionPrinciples:
		return "Cite the governing sections, articles or cases by name"
	case CriterionApplication:
		return "Apply each rule to the facts: 'In this case...' followed by reasoning"
	case CriterionStructure:
		return "Break the answer into paragraphs and use connectives to order arguments"
	case CriterionConclusion:
		return "End with a clear verdict on the issue raised"
	}
	return "Revisit " + criterion
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
