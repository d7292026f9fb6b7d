package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"lexidrill/internal/csvimport"
)

// MaxListNameLength caps list names on both the manual and import paths
const MaxListNameLength = 120

// MaxIdempotencyKeyLength caps client-chosen idempotency keys
const MaxIdempotencyKeyLength = 120

// CreateImportRequest is the validated form of an import upload
type CreateImportRequest struct {
	Filename       string
	CSVContent     string
	ListID         *int64
	ListName       string
	IdempotencyKey string
}

// ImportUploadForm carries the raw multipart form values before validation
type ImportUploadForm struct {
	Filename       string
	FileSize       int64
	CSVContent     string
	ListID         string
	ListName       string
	IdempotencyKey string
}

// ValidateCreateImportRequest checks an upload form and returns the
// validated request. It enforces the file type and size caps and the
// exactly-one-of listId/listName target rule. CSV content itself is not
// inspected here; that happens asynchronously in the worker.
func ValidateCreateImportRequest(form ImportUploadForm) (*CreateImportRequest, error) {
	if form.Filename == "" {
		return nil, &Error{Code: "MISSING_FILE", Message: "CSV file is required"}
	}
	if !strings.HasSuffix(strings.ToLower(form.Filename), ".csv") {
		return nil, &Error{Code: "INVALID_FILE_TYPE", Message: "Only CSV files are supported"}
	}
	if form.FileSize > csvimport.MaxFileSizeBytes {
		return nil, &Error{
			Code:    "FILE_TOO_LARGE",
			Message: fmt.Sprintf("CSV file exceeds max size (%d bytes)", csvimport.MaxFileSizeBytes),
		}
	}

	rawListID := strings.TrimSpace(form.ListID)
	listName := strings.TrimSpace(form.ListName)
	idempotencyKey := strings.TrimSpace(form.IdempotencyKey)

	hasListID := rawListID != ""
	hasListName := listName != ""
	if hasListID == hasListName {
		return nil, &Error{Code: "INVALID_TARGET", Message: "Provide exactly one of listId or listName"}
	}

	var listID *int64
	if hasListID {
		value, err := strconv.ParseInt(rawListID, 10, 64)
		if err != nil || value <= 0 {
			return nil, &Error{Code: "INVALID_LIST_ID", Message: "listId must be a positive integer"}
		}
		listID = &value
	}

	if hasListName && utf8.RuneCountInString(listName) > MaxListNameLength {
		return nil, &Error{
			Code:    "INVALID_LIST_NAME",
			Message: fmt.Sprintf("listName must be %d characters or fewer", MaxListNameLength),
		}
	}

	if utf8.RuneCountInString(idempotencyKey) > MaxIdempotencyKeyLength {
		return nil, &Error{
			Code:    "INVALID_IDEMPOTENCY_KEY",
			Message: fmt.Sprintf("idempotencyKey must be %d characters or fewer", MaxIdempotencyKeyLength),
		}
	}

	return &CreateImportRequest{
		Filename:       form.Filename,
		CSVContent:     form.CSVContent,
		ListID:         listID,
		ListName:       listName,
		IdempotencyKey: idempotencyKey,
	}, nil
}
