package validation

import (
	"errors"
	"strings"
	"testing"
)

func validUploadForm() ImportUploadForm {
	return ImportUploadForm{
		Filename:   "words.csv",
		FileSize:   128,
		CSVContent: "term\napple\n",
		ListName:   "Unit 1",
	}
}

func TestValidateCreateImportRequest(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*ImportUploadForm)
		wantCode string
	}{
		{
			name:   "valid with list name",
			mutate: func(f *ImportUploadForm) {},
		},
		{
			name: "valid with list id",
			mutate: func(f *ImportUploadForm) {
				f.ListName = ""
				f.ListID = "42"
			},
		},
		{
			name: "uppercase extension accepted",
			mutate: func(f *ImportUploadForm) {
				f.Filename = "WORDS.CSV"
			},
		},
		{
			name:     "missing file",
			mutate:   func(f *ImportUploadForm) { f.Filename = "" },
			wantCode: "MISSING_FILE",
		},
		{
			name:     "wrong extension",
			mutate:   func(f *ImportUploadForm) { f.Filename = "words.xlsx" },
			wantCode: "INVALID_FILE_TYPE",
		},
		{
			name:     "file too large",
			mutate:   func(f *ImportUploadForm) { f.FileSize = 2*1024*1024 + 1 },
			wantCode: "FILE_TOO_LARGE",
		},
		{
			name: "both list id and name",
			mutate: func(f *ImportUploadForm) {
				f.ListID = "7"
			},
			wantCode: "INVALID_TARGET",
		},
		{
			name: "neither list id nor name",
			mutate: func(f *ImportUploadForm) {
				f.ListName = ""
			},
			wantCode: "INVALID_TARGET",
		},
		{
			name: "non-numeric list id",
			mutate: func(f *ImportUploadForm) {
				f.ListName = ""
				f.ListID = "abc"
			},
			wantCode: "INVALID_LIST_ID",
		},
		{
			name: "zero list id",
			mutate: func(f *ImportUploadForm) {
				f.ListName = ""
				f.ListID = "0"
			},
			wantCode: "INVALID_LIST_ID",
		},
		{
			name: "list name too long",
			mutate: func(f *ImportUploadForm) {
				f.ListName = strings.Repeat("n", MaxListNameLength+1)
			},
			wantCode: "INVALID_LIST_NAME",
		},
		{
			name: "idempotency key too long",
			mutate: func(f *ImportUploadForm) {
				f.IdempotencyKey = strings.Repeat("k", MaxIdempotencyKeyLength+1)
			},
			wantCode: "INVALID_IDEMPOTENCY_KEY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validUploadForm()
			tt.mutate(&form)

			req, err := ValidateCreateImportRequest(form)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if req == nil {
					t.Fatal("request is nil")
				}
				return
			}

			if err == nil {
				t.Fatalf("expected code %s, got nil (req %+v)", tt.wantCode, req)
			}
			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("error type = %T, want *Error", err)
			}
			if verr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", verr.Code, tt.wantCode)
			}
		})
	}
}

func TestValidateCreateImportRequestParsesListID(t *testing.T) {
	form := validUploadForm()
	form.ListName = ""
	form.ListID = " 42 "

	req, err := ValidateCreateImportRequest(form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.ListID == nil || *req.ListID != 42 {
		t.Errorf("ListID = %v, want 42", req.ListID)
	}
	if req.ListName != "" {
		t.Errorf("ListName = %q, want empty", req.ListName)
	}
}
