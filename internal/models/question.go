package models

type QuestionType string

const (
	QuestionMCQ          QuestionType = "mcq"
	QuestionShortAnswer  QuestionType = "short_answer"
	QuestionEssay        QuestionType = "essay"
	QuestionCaseAnalysis QuestionType = "case_analysis"
)

type Option struct {
	ID   string `bson:"id" json:"id"`
	Text string `bson:"text" json:"text"`
}

type Question struct {
	ID              string       `bson:"_id,omitempty" json:"id"`
	SubjectID       string       `bson:"subject_id" json:"subject_id"`
	Text            string       `bson:"text" json:"text"`
	Type            QuestionType `bson:"type" json:"type"`
	Options         []Option     `bson:"options,omitempty" json:"options,omitempty"`
	CorrectOptionID string       `bson:"correct_option_id,omitempty" json:"-"`
	Marks           int          `bson:"marks" json:"marks"`
	Difficulty      string       `bson:"difficulty" json:"difficulty"`
	TopicTags       []string     `bson:"topic_tags" json:"topic_tags"`
	Semester        int          `bson:"semester" json:"semester"`
	Keywords        []string     `bson:"keywords,omitempty" json:"keywords,omitempty"`
}

// DifficultyWeights maps the catalog difficulty labels onto [0,1] for the
// blueprint difficulty-alignment term.
var DifficultyWeights = map[string]float64{
	"easy":   0.33,
	"medium": 0.67,
	"hard":   1.0,
}

func (q Question) DifficultyWeight() float64 {
	if w, ok := DifficultyWeights[q.Difficulty]; ok {
		return w
	}
	return 0.67
}

// PrimaryTopic is the tag used by the blueprint anti-repetition rule.
func (q Question) PrimaryTopic() string {
	if len(q.TopicTags) == 0 {
		return ""
	}
	return q.TopicTags[0]
}

// IsWrittenType reports whether the question is graded by the rubric engine
// rather than by option matching.
func (q Question) IsWrittenType() bool {
	switch q.Type {
	case QuestionShortAnswer, QuestionEssay, QuestionCaseAnalysis:
		return true
	}
	return false
}
