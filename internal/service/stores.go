package service

import (
	"time"

	"lexidrill/internal/models"
	"lexidrill/internal/repository"
)

// The services consume their storage through these interfaces so tests
// can substitute in-memory fakes. The repository types satisfy them.

// UserStore is the persistence surface the auth service needs
type UserStore interface {
	CreateUser(email, passwordHash, name string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(userID int64) (*models.User, error)
}

// VocabStore is the persistence surface for lists and items
type VocabStore interface {
	CreateList(userID int64, name string, source models.ListSource, originalFilename string) (*models.VocabList, error)
	GetListForUser(listID, userID int64) (*models.VocabList, error)
	GetListsForUser(userID int64) ([]models.VocabList, error)
	GetItemsForList(listID int64) ([]models.VocabItem, error)
	CountItemsForList(listID int64) (int, error)
	InsertItemWithFlashcard(item models.NewVocabItem) (int64, error)
	DeleteListForUser(listID, userID int64) (bool, error)
}

// FlashcardStore is the persistence surface for the study scheduler
type FlashcardStore interface {
	GetFlashcardForUser(flashcardID, userID int64) (*models.Flashcard, error)
	StudyQueue(userID int64, now time.Time, limit int, excludeIDs []int64) ([]models.StudyCard, error)
	ApplyReview(flashcardID int64, schedule models.ReviewSchedule, review models.Review) error
	DueCount(userID int64, now time.Time) (int, error)
	ReviewCountSince(userID int64, since time.Time) (int, error)
	StateCounts(userID int64) (map[models.FlashcardState]int, error)
	StubbornCandidates(userID int64, minReviews, limit int) ([]models.StubbornWord, error)
}

// ImportJobStore is the persistence surface for the import pipeline
type ImportJobStore interface {
	CreateJob(job repository.NewImportJob) (*models.ImportJob, bool, error)
	GetJob(jobID int64) (*models.ImportJob, error)
	GetJobForUser(jobID, userID int64) (*models.ImportJob, error)
	ClaimJob(jobID int64) (bool, error)
	OldestQueuedJobID() (int64, bool, error)
	MarkJobImporting(jobID, listID int64, totalCount, invalidCount int) error
	FinishJob(jobID int64, status models.ImportStatus, inserted, duplicate, invalid int, summary *models.ImportErrorSummary) error
	FailJobParse(jobID int64, parseErr models.ImportRowError) error
	MarkJobFailed(jobID int64, message string) error
}
