package blueprint

import "readiness-service/internal/models"

// TopicInsight is the per-topic mastery view the generator scores against.
// Topics absent from the map fall back to the configured defaults.
type TopicInsight struct {
	MasteryScore      float64 // 0..1
	DaysSincePractice float64
	AttemptCount      int
}

// SectionTemplate fixes one section of an exam structure.
type SectionTemplate struct {
	Name             string
	MarksPerQuestion int
	QuestionCount    int
}

// Template fixes the structure for one exam type.
type Template struct {
	TotalMarks      int
	DurationMinutes int
	Sections        []SectionTemplate
}

// Config holds the structure table, the question scoring weights and the
// selection defaults.
type Config struct {
	Templates map[models.ExamType]Template

	MasteryDeficitWeight float64
	FrequencyWeight      float64
	StalenessWeight      float64
	DifficultyWeight     float64

	StalenessWindowDays float64
	WeakMasteryScore    float64 // below this, prefer easier questions

	// Defaults for topics with no mastery record.
	DefaultDeficit   float64
	DefaultStaleness float64

	// Inference needs at least this many distinct marks values in the pool.
	MinDistinctMarksForInference int
}

func DefaultConfig() *Config {
	return &Config{
		Templates: map[models.ExamType]Template{
			models.ExamInternal: {
				TotalMarks:      50,
				DurationMinutes: 90,
				Sections: []SectionTemplate{
					{Name: "Section A", MarksPerQuestion: 5, QuestionCount: 4},
					{Name: "Section B", MarksPerQuestion: 10, QuestionCount: 3},
				},
			},
			models.ExamEndSemester: {
				TotalMarks:      100,
				DurationMinutes: 180,
				Sections: []SectionTemplate{
					{Name: "Section A", MarksPerQuestion: 5, QuestionCount: 4},
					{Name: "Section B", MarksPerQuestion: 10, QuestionCount: 5},
					{Name: "Section C", MarksPerQuestion: 15, QuestionCount: 2},
				},
			},
			models.ExamUnitTest: {
				TotalMarks:      25,
				DurationMinutes: 45,
				Sections: []SectionTemplate{
					{Name: "Section A", MarksPerQuestion: 5, QuestionCount: 3},
					{Name: "Section B", MarksPerQuestion: 10, QuestionCount: 1},
				},
			},
			models.ExamMock: {
				TotalMarks:      80,
				DurationMinutes: 180,
				Sections: []SectionTemplate{
					{Name: "Section A", MarksPerQuestion: 5, QuestionCount: 4},
					{Name: "Section B", MarksPerQuestion: 10, QuestionCount: 3},
					{Name: "Section C", MarksPerQuestion: 15, QuestionCount: 2},
				},
			},
		},

		MasteryDeficitWeight: 0.40,
		FrequencyWeight:      0.30,
		StalenessWeight:      0.20,
		DifficultyWeight:     0.10,

		StalenessWindowDays: 30,
		WeakMasteryScore:    0.40,

		DefaultDeficit:   0.50,
		DefaultStaleness: 1.0,

		MinDistinctMarksForInference: 2,
	}
}

// typesForMarks is the marks-appropriate question-type whitelist.
func typesForMarks(marks int) []models.QuestionType {
	switch {
	case marks < 8:
		return []models.QuestionType{models.QuestionShortAnswer, models.QuestionMCQ}
	case marks < 13:
		return []models.QuestionType{models.QuestionShortAnswer, models.QuestionEssay}
	default:
		return []models.QuestionType{models.QuestionEssay, models.QuestionCaseAnalysis}
	}
}

// scoredQuestion carries a candidate with its component contributions, kept
// so the dominant one can be named in why_selected.
type scoredQuestion struct {
	question models.Question
	score    float64

	deficitPart    float64
	frequencyPart  float64
	stalenessPart  float64
	difficultyPart float64

	daysSince float64
	weakTopic bool
}
