package models

import "time"

// ImportStatus is the lifecycle state of an import job
type ImportStatus string

const (
	ImportStatusQueued         ImportStatus = "queued"
	ImportStatusParsing        ImportStatus = "parsing"
	ImportStatusImporting      ImportStatus = "importing"
	ImportStatusCompleted      ImportStatus = "completed"
	ImportStatusPartialSuccess ImportStatus = "partial_success"
	ImportStatusFailed         ImportStatus = "failed"
)

// Terminal reports whether the status is final. Terminal jobs are never
// resurrected.
func (s ImportStatus) Terminal() bool {
	switch s {
	case ImportStatusCompleted, ImportStatusPartialSuccess, ImportStatusFailed:
		return true
	}
	return false
}

// ImportRowError describes a single rejected CSV row
type ImportRowError struct {
	Row     int    `json:"row"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportErrorSummary holds a capped sample of row errors plus the true
// total, so responses stay bounded regardless of how bad the file was
type ImportErrorSummary struct {
	Sample      []ImportRowError `json:"sample"`
	TotalErrors int              `json:"totalErrors"`
}

// ImportPayload is the raw import input stored with a queued job. It is
// cleared once the job reaches a terminal state.
type ImportPayload struct {
	CSVContent string `json:"csvContent"`
	ListID     *int64 `json:"listId,omitempty"`
	ListName   string `json:"listName,omitempty"`
}

// ImportJob is the persistent record of one bulk import's lifecycle
type ImportJob struct {
	ID               int64
	UserID           int64
	ListID           *int64
	Status           ImportStatus
	Source           string
	OriginalFilename string
	IdempotencyKey   *string
	TotalCount       int
	InsertedCount    int
	DuplicateCount   int
	InvalidCount     int
	ErrorSummary     *ImportErrorSummary
	Payload          *ImportPayload
	LastError        *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	StartedAt        *time.Time
	FinishedAt       *time.Time
}
