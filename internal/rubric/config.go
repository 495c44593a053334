package rubric

import (
	"regexp"

	"readiness-service/internal/models"
)

// Criterion names, in rubric order.
const (
	CriterionIssue       = "issue_identification"
	CriterionPrinciples  = "legal_principles"
	CriterionApplication = "application"
	CriterionStructure   = "structure_clarity"
	CriterionConclusion  = "conclusion"
)

var criterionOrder = []string{
	CriterionIssue,
	CriterionPrinciples,
	CriterionApplication,
	CriterionStructure,
	CriterionConclusion,
}

// Config carries the rubric weight tables, band fractions and the
// keyword-count thresholds. These are tunable product constants copied from
// the original grading scheme, not algorithmic truths.
type Config struct {
	// Weights per question type, per criterion. Each row sums to 1.
	Weights map[models.QuestionType]map[string]float64

	// Band fractions of a criterion's max marks.
	ExcellentFraction float64
	GoodFraction      float64
	FairFraction      float64
	PoorFraction      float64

	// Issue identification thresholds.
	IssueExcellentIndicators int
	IssueExcellentKeywords   int
	IssueGoodIndicators      int
	IssueGoodKeywords        int
	IssueFairCombined        int

	// Legal principles thresholds.
	PrinciplesExcellentCitations int
	PrinciplesExcellentTerms     int
	PrinciplesGoodCitations      int
	PrinciplesGoodTerms          int

	// Application thresholds.
	ApplicationExcellentTransitions int
	ApplicationExcellentCausal      int
	ApplicationGoodTransitions      int

	// Structure scoring.
	IdealSentenceMin     float64
	IdealSentenceMax     float64
	TolerableSentenceMin float64
	TolerableSentenceMax float64
	MinParagraphs        int

	// Conclusion scoring.
	ConclusionTailChars   int
	ConclusionTailBonus   float64
	ConclusionMaxFraction float64
}

func DefaultConfig() *Config {
	return &Config{
		Weights: map[models.QuestionType]map[string]float64{
			models.QuestionEssay: {
				CriterionIssue:       0.20,
				CriterionPrinciples:  0.25,
				CriterionApplication: 0.25,
				CriterionStructure:   0.20,
				CriterionConclusion:  0.10,
			},
			models.QuestionCaseAnalysis: {
				CriterionIssue:       0.20,
				CriterionPrinciples:  0.20,
				CriterionApplication: 0.35,
				CriterionStructure:   0.10,
				CriterionConclusion:  0.15,
			},
			models.QuestionShortAnswer: {
				CriterionIssue:       0.25,
				CriterionPrinciples:  0.30,
				CriterionApplication: 0.25,
				CriterionStructure:   0.10,
				CriterionConclusion:  0.10,
			},
		},

		ExcellentFraction: 0.90,
		GoodFraction:      0.75,
		FairFraction:      0.50,
		PoorFraction:      0.25,

		IssueExcellentIndicators: 2,
		IssueExcellentKeywords:   3,
		IssueGoodIndicators:      1,
		IssueGoodKeywords:        2,
		IssueFairCombined:        2,

		PrinciplesExcellentCitations: 3,
		PrinciplesExcellentTerms:     3,
		PrinciplesGoodCitations:      2,
		PrinciplesGoodTerms:          2,

		ApplicationExcellentTransitions: 3,
		ApplicationExcellentCausal:      2,
		ApplicationGoodTransitions:      2,

		IdealSentenceMin:     15,
		IdealSentenceMax:     30,
		TolerableSentenceMin: 10,
		TolerableSentenceMax: 40,
		MinParagraphs:        3,

		ConclusionTailChars:   500,
		ConclusionTailBonus:   0.15,
		ConclusionMaxFraction: 0.90,
	}
}

// Indicator phrase lists. Matching is case-insensitive on the lowercased
// answer text.
var (
	issueIndicators = []string{
		"issue", "whether", "question is", "matter of", "dispute",
	}

	legalTerms = []string{
		"liability", "negligence", "consideration", "statute", "precedent",
		"jurisdiction", "damages", "breach", "duty of care", "obligation",
		"remedy", "doctrine", "mens rea", "actus reus",
	}

	applicationTransitions = []string{
		"in this case", "applying", "in the present case", "on these facts",
		"on the facts", "here the", "this means that",
	}

	causalPhrases = []string{
		"because", "as a result", "consequently", "due to", "it follows",
		"therefore",
	}

	discourseConnectives = []string{
		"firstly", "secondly", "thirdly", "moreover", "furthermore",
		"however", "in addition", "finally",
	}

	conclusionIndicators = []string{
		"in conclusion", "to conclude", "in summary", "thus", "hence",
		"accordingly",
	}

	conclusiveVerdicts = []string{
		"liable", "not liable", "void", "voidable", "enforceable",
		"unenforceable", "valid", "invalid", "guilty", "acquitted",
	}

	citationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bsection\s+\d+`),
		regexp.MustCompile(`(?i)\barticle\s+\d+`),
		regexp.MustCompile(`\b[A-Z][A-Za-z]*\.?\s+v\.?\s+[A-Z][A-Za-z]*`),
		regexp.MustCompile(`(?i)\b[a-z]+\s+act\b`),
	}
)
