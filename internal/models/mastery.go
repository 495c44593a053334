package models

import "time"

// TopicMastery is unique per (user, subject, topic_tag). It is created on the
// first attempt for a topic, updated after every attempt and never deleted.
type TopicMastery struct {
	ID              string    `bson:"_id,omitempty" json:"id"`
	UserID          string    `bson:"user_id" json:"user_id"`
	SubjectID       string    `bson:"subject_id" json:"subject_id"`
	TopicTag        string    `bson:"topic_tag" json:"topic_tag"`
	MasteryScore    float64   `bson:"mastery_score" json:"mastery_score"` // 0..1
	AttemptCount    int       `bson:"attempt_count" json:"attempt_count"`
	LastPracticedAt time.Time `bson:"last_practiced_at" json:"last_practiced_at"`
	UpdatedAt       time.Time `bson:"updated_at" json:"updated_at"`
}

// SubjectProgress is recalculated from underlying records, never authored
// independently.
type SubjectProgress struct {
	ID                   string    `bson:"_id,omitempty" json:"id"`
	UserID               string    `bson:"user_id" json:"user_id"`
	SubjectID            string    `bson:"subject_id" json:"subject_id"`
	CompletionPercentage float64   `bson:"completion_percentage" json:"completion_percentage"`
	TotalItems           int       `bson:"total_items" json:"total_items"`
	CompletedItems       int       `bson:"completed_items" json:"completed_items"`
	LastActivityAt       time.Time `bson:"last_activity_at" json:"last_activity_at"`
}
