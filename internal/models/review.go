package models

import "time"

// ReviewResult is the outcome of a single flashcard review
type ReviewResult string

const (
	ReviewPass ReviewResult = "pass"
	ReviewFail ReviewResult = "fail"
)

// Valid reports whether the result is one of the known outcomes
func (r ReviewResult) Valid() bool {
	return r == ReviewPass || r == ReviewFail
}

// Review is an append-only record of one review submission. Reviews are
// never updated or deleted; they are the audit trail for mastery.
type Review struct {
	ID           int64
	FlashcardID  int64
	Result       ReviewResult
	Score        int
	UserInput    string
	FeedbackText string
	ReviewedAt   time.Time
}
