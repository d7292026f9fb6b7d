package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"lexidrill/internal/models"
	"lexidrill/internal/service"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, map[string]errorBody{
		"error": {Code: code, Message: message},
	})
}

// respondInternalError logs the real error and sends a generic message
func respondInternalError(w http.ResponseWriter, logMsg string, err error) {
	log.Printf("%s: %v", logMsg, err)
	respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Something went wrong")
}

// importJobResponse is the public shape of an import job. The stored
// payload never leaves the server.
type importJobResponse struct {
	ImportID       string                     `json:"importId"`
	ListID         *int64                     `json:"listId"`
	Status         models.ImportStatus        `json:"status"`
	TotalCount     int                        `json:"totalCount"`
	InsertedCount  int                        `json:"insertedCount"`
	DuplicateCount int                        `json:"duplicateCount"`
	InvalidCount   int                        `json:"invalidCount"`
	ErrorSummary   *models.ImportErrorSummary `json:"errorSummary"`
	CreatedAt      string                     `json:"createdAt"`
	UpdatedAt      string                     `json:"updatedAt"`
	StartedAt      *string                    `json:"startedAt"`
	FinishedAt     *string                    `json:"finishedAt"`
}

func serializeImportJob(job *models.ImportJob) importJobResponse {
	resp := importJobResponse{
		ImportID:       service.FormatImportID(job.ID),
		ListID:         job.ListID,
		Status:         job.Status,
		TotalCount:     job.TotalCount,
		InsertedCount:  job.InsertedCount,
		DuplicateCount: job.DuplicateCount,
		InvalidCount:   job.InvalidCount,
		ErrorSummary:   job.ErrorSummary,
		CreatedAt:      job.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      job.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if job.StartedAt != nil {
		startedAt := job.StartedAt.UTC().Format(time.RFC3339)
		resp.StartedAt = &startedAt
	}
	if job.FinishedAt != nil {
		finishedAt := job.FinishedAt.UTC().Format(time.RFC3339)
		resp.FinishedAt = &finishedAt
	}
	return resp
}
