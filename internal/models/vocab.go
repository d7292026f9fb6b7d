package models

import "time"

// ListSource identifies how a vocab list was created
type ListSource string

const (
	ListSourceManual ListSource = "manual"
	ListSourceCSV    ListSource = "csv"
)

// VocabList represents a user's collection of vocabulary items
type VocabList struct {
	ID               int64
	UserID           int64
	Name             string
	Source           ListSource
	OriginalFilename string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// VocabItem represents a single vocabulary entry in a list.
// NormalizedTerm is the dedup key: (ListID, NormalizedTerm) is unique.
type VocabItem struct {
	ID              int64
	ListID          int64
	Term            string
	NormalizedTerm  string
	PartOfSpeech    string
	Definition      string
	ExampleSentence *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewVocabItem carries the fields needed to insert a vocab item
type NewVocabItem struct {
	ListID          int64
	Term            string
	NormalizedTerm  string
	PartOfSpeech    string
	Definition      string
	ExampleSentence *string
}

// ListWithItems combines a vocab list with its items
type ListWithItems struct {
	List  VocabList
	Items []VocabItem
}
