package models

import "time"

// FlashcardState is the spaced-repetition learning state of a card
type FlashcardState string

const (
	StatePending     FlashcardState = "pending"
	StateMemorizing  FlashcardState = "memorizing"
	StateMatured     FlashcardState = "matured"
	StateDeepMatured FlashcardState = "deep_matured"
	StateSuspended   FlashcardState = "suspended"
)

// FlashcardStates lists every state a card can be in
var FlashcardStates = []FlashcardState{
	StatePending,
	StateMemorizing,
	StateMatured,
	StateDeepMatured,
	StateSuspended,
}

// Flashcard tracks spaced-repetition scheduling for exactly one vocab item
type Flashcard struct {
	ID             int64
	VocabItemID    int64
	State          FlashcardState
	DueAt          time.Time
	LastReviewedAt *time.Time
	IntervalDays   int
	EaseFactor     float64
	ReviewCount    int
	LapseCount     int
	CorrectStreak  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ReviewSchedule is the scheduler's computed next state for a flashcard
type ReviewSchedule struct {
	State         FlashcardState
	DueAt         time.Time
	IntervalDays  int
	EaseFactor    float64
	CorrectStreak int
	LapseCount    int
}

// StudyCard is a flashcard joined with its vocab item, as served to a learner
type StudyCard struct {
	FlashcardID  int64          `json:"flashcardId"`
	VocabItemID  int64          `json:"vocabItemId"`
	Word         string         `json:"word"`
	PartOfSpeech string         `json:"partOfSpeech"`
	Definition   string         `json:"definition"`
	Example      *string        `json:"example"`
	State        FlashcardState `json:"state"`
	DueAt        time.Time      `json:"dueAt"`
}

// StubbornWord is a vocab item with a high review count but persistently
// low computed mastery
type StubbornWord struct {
	VocabItemID  int64          `json:"vocabItemId"`
	Term         string         `json:"term"`
	State        FlashcardState `json:"state"`
	IntervalDays int            `json:"intervalDays"`
	ReviewCount  int            `json:"reviewCount"`
	LapseCount   int            `json:"lapseCount"`
	Mastery      int            `json:"mastery"`
}
