package csvimport

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"lexidrill/internal/models"
)

// Row is a single validated data row from an import file. Number is the
// 1-based line in the original file, so the first data row is 2.
type Row struct {
	Number          int
	Term            string
	NormalizedTerm  string
	PartOfSpeech    string
	Definition      string
	ExampleSentence *string
}

// ParseResult holds the outcome of parsing a whole file. TotalCount is
// the number of data rows seen, valid or not.
type ParseResult struct {
	TotalCount int
	ValidRows  []Row
	Errors     []models.ImportRowError
}

// Parse tokenizes and validates CSV content for import. A non-nil
// second return value is a schema-level failure (bad headers or row
// limit) that aborts the whole job. Row-level problems never abort:
// they are collected in ParseResult.Errors and the remaining rows are
// still processed.
func Parse(content string) (*ParseResult, *models.ImportRowError) {
	rows := SplitRows(content)
	if len(rows) == 0 {
		return nil, &models.ImportRowError{
			Row:     1,
			Code:    CodeMissingHeaders,
			Message: "CSV header row is required",
		}
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}
	if err := ValidateHeaders(headers); err != nil {
		return nil, err
	}

	dataRows := rows[1:]
	if len(dataRows) > MaxRowCount {
		return nil, &models.ImportRowError{
			Row:     1,
			Code:    CodeRowLimitExceeded,
			Message: fmt.Sprintf("CSV row count exceeds limit (%d)", MaxRowCount),
		}
	}

	result := &ParseResult{TotalCount: len(dataRows)}

	for i, record := range dataRows {
		rowNumber := i + 2

		if len(record) > len(headers) {
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:     rowNumber,
				Code:    CodeInvalidColumnCount,
				Message: "Row has more columns than the header",
			})
			continue
		}

		// Short rows are padded with empty values
		values := make(map[string]string, len(headers))
		for headerIndex, header := range headers {
			value := ""
			if headerIndex < len(record) {
				value = strings.TrimSpace(record[headerIndex])
			}
			values[header] = value
		}

		term := values["term"]
		if term == "" {
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:     rowNumber,
				Code:    CodeMissingTerm,
				Message: "term is required",
			})
			continue
		}
		if utf8.RuneCountInString(term) > MaxTermLength {
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:     rowNumber,
				Code:    CodeTermTooLong,
				Message: fmt.Sprintf("term exceeds max length (%d)", MaxTermLength),
			})
			continue
		}

		partOfSpeech := values["partOfSpeech"]
		if utf8.RuneCountInString(partOfSpeech) > MaxPartOfSpeechLength {
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:     rowNumber,
				Code:    CodePartOfSpeechTooLong,
				Message: fmt.Sprintf("partOfSpeech exceeds max length (%d)", MaxPartOfSpeechLength),
			})
			continue
		}
		if partOfSpeech == "" {
			partOfSpeech = DefaultPartOfSpeech
		}

		definition := values["definition"]
		if utf8.RuneCountInString(definition) > MaxTextFieldLength {
			result.Errors = append(result.Errors, models.ImportRowError{
				Row:     rowNumber,
				Code:    CodeDefinitionTooLong,
				Message: fmt.Sprintf("definition exceeds max length (%d)", MaxTextFieldLength),
			})
			continue
		}

		var exampleSentence *string
		if example := values["exampleSentence"]; example != "" {
			if utf8.RuneCountInString(example) > MaxTextFieldLength {
				result.Errors = append(result.Errors, models.ImportRowError{
					Row:     rowNumber,
					Code:    CodeExampleSentenceTooLong,
					Message: fmt.Sprintf("exampleSentence exceeds max length (%d)", MaxTextFieldLength),
				})
				continue
			}
			exampleSentence = &example
		}

		result.ValidRows = append(result.ValidRows, Row{
			Number:          rowNumber,
			Term:            term,
			NormalizedTerm:  NormalizeTerm(term),
			PartOfSpeech:    partOfSpeech,
			Definition:      definition,
			ExampleSentence: exampleSentence,
		})
	}

	return result, nil
}

// NormalizeTerm lowercases a term and collapses all interior whitespace
// runs to single spaces. Items within a list are deduplicated on this
// normalized form.
func NormalizeTerm(term string) string {
	return strings.Join(strings.Fields(strings.ToLower(term)), " ")
}
