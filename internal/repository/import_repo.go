package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"lexidrill/internal/database"
	"lexidrill/internal/models"
)

// ImportRepository handles database operations for import jobs
type ImportRepository struct {
	db *database.DB
}

// NewImportRepository creates a new import repository
func NewImportRepository(db *database.DB) *ImportRepository {
	return &ImportRepository{db: db}
}

// NewImportJob carries the fields needed to enqueue an import
type NewImportJob struct {
	UserID           int64
	ListID           *int64
	OriginalFilename string
	IdempotencyKey   *string
	Payload          models.ImportPayload
}

// CreateJob enqueues a new import job. When an idempotency key is set
// and a job with the same (user, key) already exists, that job is
// returned unchanged and created is false. The insert runs first and
// the unique index arbitrates races between concurrent submissions.
func (r *ImportRepository) CreateJob(job NewImportJob) (*models.ImportJob, bool, error) {
	if job.IdempotencyKey != nil {
		existing, err := r.getJobByIdempotencyKey(job.UserID, *job.IdempotencyKey)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			return existing, false, nil
		}
	}

	payloadJSON, err := json.Marshal(job.Payload)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode import payload: %w", err)
	}

	query := `
		INSERT INTO import_jobs (user_id, list_id, status, source, original_filename, idempotency_key, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	jobID, err := r.db.ExecReturningID(query,
		job.UserID,
		job.ListID,
		string(models.ImportStatusQueued),
		"csv",
		job.OriginalFilename,
		job.IdempotencyKey,
		string(payloadJSON),
	)
	if err != nil {
		if job.IdempotencyKey != nil && r.db.GetDialect().IsUniqueViolation(err) {
			existing, readErr := r.getJobByIdempotencyKey(job.UserID, *job.IdempotencyKey)
			if readErr != nil {
				return nil, false, readErr
			}
			if existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create import job: %w", err)
	}

	created, err := r.GetJob(jobID)
	if err != nil {
		return nil, false, err
	}
	return created, true, nil
}

// GetJob retrieves an import job by ID, or nil when none exists
func (r *ImportRepository) GetJob(jobID int64) (*models.ImportJob, error) {
	row := r.db.QueryRow(importJobSelect+" WHERE id = ?", jobID)
	return scanImportJob(row)
}

// GetJobForUser retrieves an import job scoped to its owner, or nil
func (r *ImportRepository) GetJobForUser(jobID, userID int64) (*models.ImportJob, error) {
	row := r.db.QueryRow(importJobSelect+" WHERE id = ? AND user_id = ?", jobID, userID)
	return scanImportJob(row)
}

func (r *ImportRepository) getJobByIdempotencyKey(userID int64, key string) (*models.ImportJob, error) {
	row := r.db.QueryRow(importJobSelect+" WHERE user_id = ? AND idempotency_key = ?", userID, key)
	return scanImportJob(row)
}

// ClaimJob atomically moves a queued job to parsing. Exactly one caller
// wins when several race for the same job; the rest see false. Claiming
// also resets last_error and finished_at from any earlier attempt.
func (r *ImportRepository) ClaimJob(jobID int64) (bool, error) {
	query := `
		UPDATE import_jobs
		SET status = ?, started_at = ?, last_error = NULL, finished_at = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`
	result, err := r.db.Exec(query,
		string(models.ImportStatusParsing),
		time.Now().UTC(),
		jobID,
		string(models.ImportStatusQueued),
	)
	if err != nil {
		return false, fmt.Errorf("failed to claim import job: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read claim result: %w", err)
	}
	return affected > 0, nil
}

// OldestQueuedJobID returns the ID of the oldest queued job, or false
// when the queue is empty
func (r *ImportRepository) OldestQueuedJobID() (int64, bool, error) {
	query := `
		SELECT id FROM import_jobs
		WHERE status = ?
		ORDER BY created_at ASC, id ASC
		LIMIT 1
	`
	var jobID int64
	err := r.db.QueryRow(query, string(models.ImportStatusQueued)).Scan(&jobID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find queued import job: %w", err)
	}
	return jobID, true, nil
}

// MarkJobImporting moves a job into the importing phase once parsing
// succeeded, recording the resolved target list and the parse counts
func (r *ImportRepository) MarkJobImporting(jobID, listID int64, totalCount, invalidCount int) error {
	query := `
		UPDATE import_jobs
		SET status = ?, list_id = ?, total_count = ?, invalid_count = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, string(models.ImportStatusImporting), listID, totalCount, invalidCount, jobID)
	if err != nil {
		return fmt.Errorf("failed to mark import job importing: %w", err)
	}
	return nil
}

// FinishJob records the terminal outcome of a processed job and clears
// the stored payload
func (r *ImportRepository) FinishJob(jobID int64, status models.ImportStatus, inserted, duplicate, invalid int, summary *models.ImportErrorSummary) error {
	summaryJSON, err := marshalErrorSummary(summary)
	if err != nil {
		return err
	}

	query := `
		UPDATE import_jobs
		SET status = ?, inserted_count = ?, duplicate_count = ?, invalid_count = ?,
		    error_summary = ?, payload = NULL, finished_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err = r.db.Exec(query,
		string(status),
		inserted,
		duplicate,
		invalid,
		summaryJSON,
		time.Now().UTC(),
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish import job: %w", err)
	}
	return nil
}

// FailJobParse marks a job failed on a schema-level parse error. The
// single error becomes the whole summary and the payload is cleared.
func (r *ImportRepository) FailJobParse(jobID int64, parseErr models.ImportRowError) error {
	summary := &models.ImportErrorSummary{
		Sample:      []models.ImportRowError{parseErr},
		TotalErrors: 1,
	}
	summaryJSON, err := marshalErrorSummary(summary)
	if err != nil {
		return err
	}

	query := `
		UPDATE import_jobs
		SET status = ?, invalid_count = 1, total_count = 0, error_summary = ?,
		    last_error = ?, payload = NULL, finished_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err = r.db.Exec(query,
		string(models.ImportStatusFailed),
		summaryJSON,
		parseErr.Message,
		time.Now().UTC(),
		jobID,
	)
	if err != nil {
		return fmt.Errorf("failed to record import parse failure: %w", err)
	}
	return nil
}

// MarkJobFailed marks a job failed with an operational error message
// and clears the stored payload
func (r *ImportRepository) MarkJobFailed(jobID int64, message string) error {
	query := `
		UPDATE import_jobs
		SET status = ?, last_error = ?, payload = NULL, finished_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(query, string(models.ImportStatusFailed), message, time.Now().UTC(), jobID)
	if err != nil {
		return fmt.Errorf("failed to mark import job failed: %w", err)
	}
	return nil
}

const importJobSelect = `
	SELECT id, user_id, list_id, status, source, original_filename, idempotency_key,
	       total_count, inserted_count, duplicate_count, invalid_count,
	       error_summary, payload, last_error,
	       created_at, updated_at, started_at, finished_at
	FROM import_jobs
`

func scanImportJob(row *sql.Row) (*models.ImportJob, error) {
	job := &models.ImportJob{}
	var summaryJSON, payloadJSON sql.NullString
	err := row.Scan(
		&job.ID,
		&job.UserID,
		&job.ListID,
		&job.Status,
		&job.Source,
		&job.OriginalFilename,
		&job.IdempotencyKey,
		&job.TotalCount,
		&job.InsertedCount,
		&job.DuplicateCount,
		&job.InvalidCount,
		&summaryJSON,
		&payloadJSON,
		&job.LastError,
		&job.CreatedAt,
		&job.UpdatedAt,
		&job.StartedAt,
		&job.FinishedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import job: %w", err)
	}

	if summaryJSON.Valid && summaryJSON.String != "" {
		summary := &models.ImportErrorSummary{}
		if err := json.Unmarshal([]byte(summaryJSON.String), summary); err != nil {
			return nil, fmt.Errorf("failed to decode error summary: %w", err)
		}
		job.ErrorSummary = summary
	}
	if payloadJSON.Valid && payloadJSON.String != "" {
		payload := &models.ImportPayload{}
		if err := json.Unmarshal([]byte(payloadJSON.String), payload); err != nil {
			return nil, fmt.Errorf("failed to decode import payload: %w", err)
		}
		job.Payload = payload
	}
	return job, nil
}

func marshalErrorSummary(summary *models.ImportErrorSummary) (interface{}, error) {
	if summary == nil {
		return nil, nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode error summary: %w", err)
	}
	return string(data), nil
}
