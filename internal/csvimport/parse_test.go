package csvimport

import (
	"fmt"
	"strings"
	"testing"
)

func TestValidateHeaders(t *testing.T) {
	tests := []struct {
		name     string
		headers  []string
		wantCode string
	}{
		{
			name:     "no headers",
			headers:  nil,
			wantCode: CodeMissingHeaders,
		},
		{
			name:     "term only",
			headers:  []string{"term"},
			wantCode: "",
		},
		{
			name:     "all allowed headers",
			headers:  []string{"term", "definition", "partOfSpeech", "exampleSentence"},
			wantCode: "",
		},
		{
			name:     "headers trimmed before matching",
			headers:  []string{" term ", "definition"},
			wantCode: "",
		},
		{
			name:     "duplicate header",
			headers:  []string{"term", "term"},
			wantCode: CodeDuplicateHeaders,
		},
		{
			name:     "unknown header",
			headers:  []string{"term", "notes"},
			wantCode: CodeUnknownHeaders,
		},
		{
			name:     "case sensitive header names",
			headers:  []string{"Term"},
			wantCode: CodeUnknownHeaders,
		},
		{
			name:     "missing required term header",
			headers:  []string{"definition", "partOfSpeech"},
			wantCode: CodeMissingRequiredHeaders,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeaders(tt.headers)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("ValidateHeaders(%v) = %+v, want nil", tt.headers, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("ValidateHeaders(%v) = nil, want code %s", tt.headers, tt.wantCode)
			}
			if err.Code != tt.wantCode {
				t.Errorf("ValidateHeaders(%v) code = %s, want %s", tt.headers, err.Code, tt.wantCode)
			}
			if err.Row != 1 {
				t.Errorf("header error row = %d, want 1", err.Row)
			}
		})
	}
}

func TestParseSchemaFailures(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		wantCode string
	}{
		{
			name:     "empty file",
			content:  "",
			wantCode: CodeMissingHeaders,
		},
		{
			name:     "unknown header aborts",
			content:  "term,notes\nfoo,bar\n",
			wantCode: CodeUnknownHeaders,
		},
		{
			name:     "duplicate header aborts",
			content:  "term,term\nfoo,bar\n",
			wantCode: CodeDuplicateHeaders,
		},
		{
			name:     "missing required header aborts",
			content:  "definition\nsomething\n",
			wantCode: CodeMissingRequiredHeaders,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, schemaErr := Parse(tt.content)
			if schemaErr == nil {
				t.Fatalf("Parse(%q) schema error = nil, want code %s (result %+v)", tt.content, tt.wantCode, result)
			}
			if schemaErr.Code != tt.wantCode {
				t.Errorf("Parse(%q) code = %s, want %s", tt.content, schemaErr.Code, tt.wantCode)
			}
		})
	}
}

func TestParseRowLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("term\n")
	for i := 0; i <= MaxRowCount; i++ {
		fmt.Fprintf(&sb, "word%d\n", i)
	}

	_, schemaErr := Parse(sb.String())
	if schemaErr == nil {
		t.Fatal("expected ROW_LIMIT_EXCEEDED, got nil")
	}
	if schemaErr.Code != CodeRowLimitExceeded {
		t.Errorf("code = %s, want %s", schemaErr.Code, CodeRowLimitExceeded)
	}
}

func TestParseRows(t *testing.T) {
	content := strings.Join([]string{
		"term,definition,partOfSpeech,exampleSentence",
		"Apple,a fruit,noun,An apple a day.",
		" ,missing term here,,",
		"banana,short row",
		"cherry,too many,noun,example,extra",
		`"  Run   Fast  ",to move quickly,,`,
	}, "\n")

	result, schemaErr := Parse(content)
	if schemaErr != nil {
		t.Fatalf("unexpected schema error: %+v", schemaErr)
	}

	if result.TotalCount != 5 {
		t.Errorf("TotalCount = %d, want 5", result.TotalCount)
	}
	if len(result.ValidRows) != 3 {
		t.Fatalf("got %d valid rows, want 3: %+v", len(result.ValidRows), result.ValidRows)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %+v", len(result.Errors), result.Errors)
	}

	first := result.ValidRows[0]
	if first.Number != 2 {
		t.Errorf("first valid row number = %d, want 2", first.Number)
	}
	if first.Term != "Apple" || first.NormalizedTerm != "apple" {
		t.Errorf("term = %q normalized %q, want Apple/apple", first.Term, first.NormalizedTerm)
	}
	if first.PartOfSpeech != "noun" {
		t.Errorf("partOfSpeech = %q, want noun", first.PartOfSpeech)
	}
	if first.ExampleSentence == nil || *first.ExampleSentence != "An apple a day." {
		t.Errorf("exampleSentence = %v, want An apple a day.", first.ExampleSentence)
	}

	if result.Errors[0].Row != 3 || result.Errors[0].Code != CodeMissingTerm {
		t.Errorf("first error = %+v, want MISSING_TERM at row 3", result.Errors[0])
	}
	if result.Errors[1].Row != 5 || result.Errors[1].Code != CodeInvalidColumnCount {
		t.Errorf("second error = %+v, want INVALID_COLUMN_COUNT at row 5", result.Errors[1])
	}

	// Padded short row defaults
	short := result.ValidRows[1]
	if short.Term != "banana" || short.PartOfSpeech != DefaultPartOfSpeech {
		t.Errorf("short row = %+v, want banana with default part of speech", short)
	}
	if short.ExampleSentence != nil {
		t.Errorf("short row example = %v, want nil", short.ExampleSentence)
	}

	// Quoted term is trimmed; interior whitespace runs collapse on normalization
	quoted := result.ValidRows[2]
	if quoted.Term != "Run   Fast" {
		t.Errorf("quoted term = %q, want interior spacing preserved after trim", quoted.Term)
	}
	if quoted.NormalizedTerm != "run fast" {
		t.Errorf("normalized = %q, want %q", quoted.NormalizedTerm, "run fast")
	}
}

func TestParseFieldLengthLimits(t *testing.T) {
	longTerm := strings.Repeat("a", MaxTermLength+1)
	longPOS := strings.Repeat("b", MaxPartOfSpeechLength+1)
	longText := strings.Repeat("c", MaxTextFieldLength+1)

	tests := []struct {
		name     string
		row      string
		wantCode string
	}{
		{"term too long", longTerm + ",def,noun,ex", CodeTermTooLong},
		{"part of speech too long", "word,def," + longPOS + ",ex", CodePartOfSpeechTooLong},
		{"definition too long", "word," + longText + ",noun,ex", CodeDefinitionTooLong},
		{"example too long", "word,def,noun," + longText, CodeExampleSentenceTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := "term,definition,partOfSpeech,exampleSentence\n" + tt.row + "\n"
			result, schemaErr := Parse(content)
			if schemaErr != nil {
				t.Fatalf("unexpected schema error: %+v", schemaErr)
			}
			if len(result.ValidRows) != 0 {
				t.Errorf("valid rows = %d, want 0", len(result.ValidRows))
			}
			if len(result.Errors) != 1 || result.Errors[0].Code != tt.wantCode {
				t.Fatalf("errors = %+v, want single %s", result.Errors, tt.wantCode)
			}
		})
	}
}

func TestParseTermAtExactLimit(t *testing.T) {
	term := strings.Repeat("x", MaxTermLength)
	result, schemaErr := Parse("term\n" + term + "\n")
	if schemaErr != nil {
		t.Fatalf("unexpected schema error: %+v", schemaErr)
	}
	if len(result.ValidRows) != 1 {
		t.Fatalf("valid rows = %d, want 1 (errors %+v)", len(result.ValidRows), result.Errors)
	}
}

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Apple", "apple"},
		{"  Run   Fast  ", "run fast"},
		{"ALREADY lower", "already lower"},
		{"tab\tand\nnewline", "tab and newline"},
	}

	for _, tt := range tests {
		if got := NormalizeTerm(tt.in); got != tt.want {
			t.Errorf("NormalizeTerm(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
