package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"lexidrill/internal/csvimport"
	"lexidrill/internal/service"
	"lexidrill/internal/validation"
)

// ImportHandler handles CSV import HTTP requests
type ImportHandler struct {
	importService *service.ImportService
	workerSecret  string
}

// NewImportHandler creates a new import handler. The worker secret
// guards the internal processing endpoint; leaving it empty disables
// that endpoint.
func NewImportHandler(importService *service.ImportService, workerSecret string) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		workerSecret:  workerSecret,
	}
}

// Create handles POST /api/vocab/imports. The upload is validated and
// stored, a job is queued, and 202 comes back immediately; parsing and
// inserting happen asynchronously.
func (h *ImportHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	if err := r.ParseMultipartForm(csvimport.MaxFileSizeBytes + 64*1024); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_FORM", "Request must be multipart form data")
		return
	}

	form := validation.ImportUploadForm{
		ListID:         r.FormValue("listId"),
		ListName:       r.FormValue("listName"),
		IdempotencyKey: r.FormValue("idempotencyKey"),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()
		form.Filename = header.Filename
		form.FileSize = header.Size

		content, readErr := io.ReadAll(io.LimitReader(file, csvimport.MaxFileSizeBytes+1))
		if readErr != nil {
			respondInternalError(w, "Failed to read upload", readErr)
			return
		}
		if int64(len(content)) > csvimport.MaxFileSizeBytes {
			form.FileSize = int64(len(content))
		}
		form.CSVContent = string(content)
	}

	req, err := validation.ValidateCreateImportRequest(form)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			respondError(w, http.StatusBadRequest, verr.Code, verr.Message)
			return
		}
		respondInternalError(w, "Failed to validate import request", err)
		return
	}

	job, created, err := h.importService.CreateJob(userID, req)
	if err != nil {
		if errors.Is(err, service.ErrListNotFound) {
			respondError(w, http.StatusNotFound, "LIST_NOT_FOUND", "Target list does not exist")
			return
		}
		respondInternalError(w, "Failed to create import job", err)
		return
	}

	// Kick processing without holding the response. The internal
	// endpoint and the worker binary will pick the job up anyway if
	// this goroutine dies with the process.
	if created {
		jobID := job.ID
		go func() {
			if err := h.importService.ProcessJob(context.Background(), jobID); err != nil {
				log.Printf("Background processing of import %d failed: %v", jobID, err)
			}
		}()
	}

	respondJSON(w, http.StatusAccepted, serializeImportJob(job))
}

// Get handles GET /api/vocab/imports/{importId}
func (h *ImportHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := GetUserIDFromContext(r.Context())

	jobID, ok := service.ParseImportID(r.PathValue("importId"))
	if !ok {
		respondError(w, http.StatusBadRequest, "INVALID_IMPORT_ID", "Import ID must look like imp_123")
		return
	}

	job, err := h.importService.GetJobForUser(jobID, userID)
	if err != nil {
		if errors.Is(err, service.ErrImportNotFound) {
			respondError(w, http.StatusNotFound, "IMPORT_NOT_FOUND", "Import not found")
			return
		}
		respondInternalError(w, "Failed to load import job", err)
		return
	}

	respondJSON(w, http.StatusOK, serializeImportJob(job))
}

// Process handles POST /api/internal/vocab-imports/process. It lets an
// external scheduler drain queued jobs, authenticated by a shared
// worker secret rather than a user token.
func (h *ImportHandler) Process(w http.ResponseWriter, r *http.Request) {
	if h.workerSecret == "" {
		respondError(w, http.StatusInternalServerError, "WORKER_DISABLED", "Worker secret is not configured")
		return
	}

	provided := r.Header.Get("X-Worker-Secret")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(h.workerSecret)) != 1 {
		respondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid worker secret")
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			respondError(w, http.StatusBadRequest, "INVALID_LIMIT", "limit must be between 1 and 100")
			return
		}
		limit = parsed
	}

	processed, err := h.importService.ProcessBatch(r.Context(), limit)
	if err != nil {
		log.Printf("Batch import processing stopped after %d jobs: %v", processed, err)
	}
	respondJSON(w, http.StatusOK, map[string]int{"processed": processed})
}
