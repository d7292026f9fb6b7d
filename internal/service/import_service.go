package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"

	"lexidrill/internal/csvimport"
	"lexidrill/internal/models"
	"lexidrill/internal/repository"
	"lexidrill/internal/validation"
)

// ErrImportNotFound is returned when no owned import matches an ID
var ErrImportNotFound = errors.New("import not found")

var importIDPattern = regexp.MustCompile(`^imp_(\d+)$`)

// FormatImportID renders the public form of an import job ID
func FormatImportID(jobID int64) string {
	return fmt.Sprintf("imp_%d", jobID)
}

// ParseImportID accepts either the public "imp_<n>" form or a bare
// numeric ID. Returns 0 and false when the value matches neither.
func ParseImportID(value string) (int64, bool) {
	if jobID, err := strconv.ParseInt(value, 10, 64); err == nil && jobID > 0 {
		return jobID, true
	}
	match := importIDPattern.FindStringSubmatch(value)
	if match == nil {
		return 0, false
	}
	jobID, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil || jobID <= 0 {
		return 0, false
	}
	return jobID, true
}

// ImportService coordinates the CSV import pipeline: enqueueing jobs,
// claiming them, and running them to a terminal state
type ImportService struct {
	jobStore   ImportJobStore
	vocabStore VocabStore
	userStore  UserStore
	email      *EmailService
}

// NewImportService creates a new import service. The email service may
// be nil when completion notifications are not wanted.
func NewImportService(jobStore ImportJobStore, vocabStore VocabStore, userStore UserStore, email *EmailService) *ImportService {
	return &ImportService{
		jobStore:   jobStore,
		vocabStore: vocabStore,
		userStore:  userStore,
		email:      email,
	}
}

// CreateJob validates the request target and enqueues an import job.
// CSV content is not parsed here; it is stored with the job and handled
// asynchronously. The returned bool is false when an idempotency key
// matched an existing job instead of creating a new one.
func (s *ImportService) CreateJob(userID int64, req *validation.CreateImportRequest) (*models.ImportJob, bool, error) {
	if req.ListID != nil {
		list, err := s.vocabStore.GetListForUser(*req.ListID, userID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to check target list: %w", err)
		}
		if list == nil {
			return nil, false, ErrListNotFound
		}
	}

	var idempotencyKey *string
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		idempotencyKey = &key
	}

	job, created, err := s.jobStore.CreateJob(repository.NewImportJob{
		UserID:           userID,
		ListID:           req.ListID,
		OriginalFilename: req.Filename,
		IdempotencyKey:   idempotencyKey,
		Payload: models.ImportPayload{
			CSVContent: req.CSVContent,
			ListID:     req.ListID,
			ListName:   req.ListName,
		},
	})
	if err != nil {
		return nil, false, err
	}
	return job, created, nil
}

// GetJobForUser retrieves an import job scoped to its owner
func (s *ImportService) GetJobForUser(jobID, userID int64) (*models.ImportJob, error) {
	job, err := s.jobStore.GetJobForUser(jobID, userID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrImportNotFound
	}
	return job, nil
}

// ProcessJob runs a specific job to a terminal state. Claiming is
// idempotent: a terminal job is left untouched, a queued job is claimed
// and run, and a job stuck in parsing from a crashed attempt is
// resumed. Safe to call repeatedly and from multiple workers.
func (s *ImportService) ProcessJob(ctx context.Context, jobID int64) error {
	claimed, err := s.jobStore.ClaimJob(jobID)
	if err != nil {
		return err
	}
	if claimed {
		return s.executeJob(ctx, jobID)
	}

	job, err := s.jobStore.GetJob(jobID)
	if err != nil {
		return err
	}
	if job == nil || job.Status != models.ImportStatusParsing {
		return nil
	}
	return s.executeJob(ctx, jobID)
}

// ProcessBatch claims and runs queued jobs oldest first, up to limit.
// It stops early when the queue drains or another worker wins a claim
// race, and returns how many jobs it ran.
func (s *ImportService) ProcessBatch(ctx context.Context, limit int) (int, error) {
	processed := 0
	for processed < limit {
		jobID, found, err := s.jobStore.OldestQueuedJobID()
		if err != nil {
			return processed, err
		}
		if !found {
			break
		}

		claimed, err := s.jobStore.ClaimJob(jobID)
		if err != nil {
			return processed, err
		}
		if !claimed {
			// Another worker took it; let them have the rest
			break
		}

		if err := s.executeJob(ctx, jobID); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// executeJob runs a claimed job. Panics and unexpected errors mark the
// job failed rather than leaving it stuck in parsing.
func (s *ImportService) executeJob(ctx context.Context, jobID int64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Import job %d panicked: %v", jobID, r)
			if markErr := s.jobStore.MarkJobFailed(jobID, fmt.Sprintf("import processing panicked: %v", r)); markErr != nil {
				log.Printf("Failed to mark import job %d failed: %v", jobID, markErr)
			}
			err = fmt.Errorf("import job %d panicked: %v", jobID, r)
		}
	}()

	job, err := s.jobStore.GetJob(jobID)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("import job %d vanished after claim", jobID)
	}

	if runErr := s.runJob(job); runErr != nil {
		log.Printf("Import job %d failed: %v", jobID, runErr)
		if markErr := s.jobStore.MarkJobFailed(jobID, runErr.Error()); markErr != nil {
			return fmt.Errorf("failed to record import failure: %w (original: %v)", markErr, runErr)
		}
		s.notifyFinished(ctx, jobID)
		return nil
	}

	s.notifyFinished(ctx, jobID)
	return nil
}

func (s *ImportService) runJob(job *models.ImportJob) error {
	if job.Payload == nil || job.Payload.CSVContent == "" {
		return errors.New("import payload is missing CSV content")
	}

	parseResult, parseErr := csvimport.Parse(job.Payload.CSVContent)
	if parseErr != nil {
		return s.jobStore.FailJobParse(job.ID, *parseErr)
	}

	targetListID, err := s.resolveTargetList(job)
	if err != nil {
		return err
	}

	if err := s.jobStore.MarkJobImporting(job.ID, targetListID, parseResult.TotalCount, len(parseResult.Errors)); err != nil {
		return err
	}

	rowErrors := append([]models.ImportRowError(nil), parseResult.Errors...)
	insertedCount := 0
	duplicateCount := 0

	for _, row := range parseResult.ValidRows {
		_, err := s.vocabStore.InsertItemWithFlashcard(models.NewVocabItem{
			ListID:          targetListID,
			Term:            row.Term,
			NormalizedTerm:  row.NormalizedTerm,
			PartOfSpeech:    row.PartOfSpeech,
			Definition:      row.Definition,
			ExampleSentence: row.ExampleSentence,
		})
		if err == nil {
			insertedCount++
			continue
		}
		if errors.Is(err, repository.ErrDuplicateItem) {
			duplicateCount++
			continue
		}
		log.Printf("Import job %d: row %d insert failed: %v", job.ID, row.Number, err)
		rowErrors = append(rowErrors, models.ImportRowError{
			Row:     row.Number,
			Code:    csvimport.CodeRowInsertFailed,
			Message: "Failed to insert row",
		})
	}

	invalidCount := len(rowErrors)
	status := resolveTerminalStatus(insertedCount, duplicateCount, invalidCount)

	var summary *models.ImportErrorSummary
	if invalidCount > 0 {
		sample := rowErrors
		if len(sample) > csvimport.MaxErrorSampleSize {
			sample = sample[:csvimport.MaxErrorSampleSize]
		}
		summary = &models.ImportErrorSummary{
			Sample:      sample,
			TotalErrors: invalidCount,
		}
	}

	return s.jobStore.FinishJob(job.ID, status, insertedCount, duplicateCount, invalidCount, summary)
}

// resolveTargetList returns the list the rows go into: either an owned
// existing list or a fresh csv-sourced list named in the payload
func (s *ImportService) resolveTargetList(job *models.ImportJob) (int64, error) {
	if job.Payload.ListID != nil {
		list, err := s.vocabStore.GetListForUser(*job.Payload.ListID, job.UserID)
		if err != nil {
			return 0, fmt.Errorf("failed to check target list: %w", err)
		}
		if list == nil {
			return 0, errors.New("target list does not exist or is not owned by user")
		}
		return list.ID, nil
	}

	if job.Payload.ListName == "" {
		return 0, errors.New("target list name is required")
	}

	list, err := s.vocabStore.CreateList(job.UserID, job.Payload.ListName, models.ListSourceCSV, job.OriginalFilename)
	if err != nil {
		return 0, fmt.Errorf("failed to create target list: %w", err)
	}
	return list.ID, nil
}

// notifyFinished sends the completion email if the job reached a
// terminal state. Best effort only.
func (s *ImportService) notifyFinished(ctx context.Context, jobID int64) {
	if s.email == nil || s.userStore == nil {
		return
	}

	job, err := s.jobStore.GetJob(jobID)
	if err != nil || job == nil || !job.Status.Terminal() {
		return
	}
	user, err := s.userStore.GetUserByID(job.UserID)
	if err != nil || user == nil {
		return
	}
	if err := s.email.SendImportFinishedEmail(ctx, user.Email, user.Name, job); err != nil {
		log.Printf("Failed to send import notification for job %d: %v", jobID, err)
	}
}

// resolveTerminalStatus picks the terminal status from the final
// counters. Duplicates count as handled work, so a file of pure
// duplicates still completes.
func resolveTerminalStatus(insertedCount, duplicateCount, invalidCount int) models.ImportStatus {
	if invalidCount > 0 && insertedCount == 0 && duplicateCount == 0 {
		return models.ImportStatusFailed
	}
	if invalidCount > 0 {
		return models.ImportStatusPartialSuccess
	}
	return models.ImportStatusCompleted
}
