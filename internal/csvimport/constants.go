package csvimport

// AllowedHeaders is the fixed set of CSV columns an import may contain
var AllowedHeaders = []string{"term", "definition", "partOfSpeech", "exampleSentence"}

// RequiredHeaders is the subset of AllowedHeaders that must be present
var RequiredHeaders = []string{"term"}

const (
	// MaxFileSizeBytes caps the uploaded CSV size
	MaxFileSizeBytes = 2 * 1024 * 1024

	// MaxRowCount caps the number of data rows per import
	MaxRowCount = 5000

	// MaxTermLength caps the term field
	MaxTermLength = 255

	// MaxPartOfSpeechLength caps the partOfSpeech field
	MaxPartOfSpeechLength = 32

	// MaxTextFieldLength caps definition and exampleSentence
	MaxTextFieldLength = 2000

	// MaxErrorSampleSize caps the row-error sample kept on a job
	MaxErrorSampleSize = 20

	// DefaultPartOfSpeech is used when a row leaves partOfSpeech empty
	DefaultPartOfSpeech = "unknown"
)

// Schema-level error codes; any of these aborts the whole job
const (
	CodeMissingHeaders         = "MISSING_HEADERS"
	CodeDuplicateHeaders       = "DUPLICATE_HEADERS"
	CodeUnknownHeaders         = "UNKNOWN_HEADERS"
	CodeMissingRequiredHeaders = "MISSING_REQUIRED_HEADERS"
	CodeRowLimitExceeded       = "ROW_LIMIT_EXCEEDED"
)

// Row-level error codes; these reject a single row and processing continues
const (
	CodeInvalidColumnCount     = "INVALID_COLUMN_COUNT"
	CodeMissingTerm            = "MISSING_TERM"
	CodeTermTooLong            = "TERM_TOO_LONG"
	CodePartOfSpeechTooLong    = "PART_OF_SPEECH_TOO_LONG"
	CodeDefinitionTooLong      = "DEFINITION_TOO_LONG"
	CodeExampleSentenceTooLong = "EXAMPLE_SENTENCE_TOO_LONG"
	CodeRowInsertFailed        = "ROW_INSERT_FAILED"
)
