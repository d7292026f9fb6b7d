package csvimport

import (
	"fmt"
	"strings"

	"lexidrill/internal/models"
)

// ValidateHeaders checks the tokenized header row against the allowed
// schema. Header validation is all-or-nothing: any failure aborts the
// whole import before row processing starts.
func ValidateHeaders(headers []string) *models.ImportRowError {
	if len(headers) == 0 {
		return &models.ImportRowError{
			Row:     1,
			Code:    CodeMissingHeaders,
			Message: "CSV header row is required",
		}
	}

	trimmed := make([]string, len(headers))
	for i, header := range headers {
		trimmed[i] = strings.TrimSpace(header)
	}
	headers = trimmed

	seen := make(map[string]bool, len(headers))
	for _, header := range headers {
		if seen[header] {
			return &models.ImportRowError{
				Row:     1,
				Code:    CodeDuplicateHeaders,
				Message: "CSV headers must not contain duplicates",
			}
		}
		seen[header] = true
	}

	var unknown []string
	for _, header := range headers {
		if !headerAllowed(header) {
			unknown = append(unknown, header)
		}
	}
	if len(unknown) > 0 {
		return &models.ImportRowError{
			Row:     1,
			Code:    CodeUnknownHeaders,
			Message: fmt.Sprintf("Unsupported headers: %s", strings.Join(unknown, ", ")),
		}
	}

	var missing []string
	for _, required := range RequiredHeaders {
		if !seen[required] {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return &models.ImportRowError{
			Row:     1,
			Code:    CodeMissingRequiredHeaders,
			Message: fmt.Sprintf("Missing required headers: %s", strings.Join(missing, ", ")),
		}
	}

	return nil
}

func headerAllowed(header string) bool {
	for _, allowed := range AllowedHeaders {
		if header == allowed {
			return true
		}
	}
	return false
}
