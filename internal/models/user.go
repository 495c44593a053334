package models

import "time"

// UserRecord is the persisted student profile.
type UserRecord struct {
	ID                 string    `bson:"_id,omitempty" json:"id"`
	Name               string    `bson:"name" json:"name"`
	CurrentSemester    int       `bson:"current_semester" json:"current_semester"`
	EnrolledSubjectIDs []string  `bson:"enrolled_subject_ids" json:"enrolled_subject_ids"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// StudyUser is the user context passed into every scoring function.
// It carries no role information; access control lives outside this service.
type StudyUser struct {
	UserID             string   `json:"user_id"`
	EnrolledSubjectIDs []string `json:"enrolled_subject_ids"`
	CurrentSemester    int      `json:"current_semester"`
}

func (u UserRecord) StudyContext() StudyUser {
	return StudyUser{
		UserID:             u.ID,
		EnrolledSubjectIDs: u.EnrolledSubjectIDs,
		CurrentSemester:    u.CurrentSemester,
	}
}

type Subject struct {
	ID       string `bson:"_id,omitempty" json:"id"`
	Name     string `bson:"name" json:"name"`
	Code     string `bson:"code" json:"code"`
	Semester int    `bson:"semester" json:"semester"`
}
