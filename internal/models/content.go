package models

type ContentType string

const (
	ContentConcept     ContentType = "concept"
	ContentCaseExample ContentType = "case_example"
)

// ContentItem is study material attached to a topic, consumed by the study
// plan generator for the learn and case slots of a session.
type ContentItem struct {
	ID          string      `bson:"_id,omitempty" json:"id"`
	SubjectID   string      `bson:"subject_id" json:"subject_id"`
	TopicTag    string      `bson:"topic_tag" json:"topic_tag"`
	Type        ContentType `bson:"type" json:"type"`
	Title       string      `bson:"title" json:"title"`
	LengthWords int         `bson:"length_words" json:"length_words"`
	Importance  float64     `bson:"importance" json:"importance"` // 0..1
}
