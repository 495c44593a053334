package models

import "errors"

// Identity and configuration errors propagate to the caller unchanged.
// Missing data never surfaces as an error; engines return explicit
// no-data results instead.
var (
	ErrNotFound            = errors.New("record not found")
	ErrInvalidExamType     = errors.New("unknown exam type")
	ErrInvalidQuestionType = errors.New("unsupported question type for rubric")
	ErrSessionNotActive    = errors.New("exam session is not in progress")
)
