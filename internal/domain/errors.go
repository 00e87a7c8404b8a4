package domain

import "errors"

var (
	ErrMissingFile            = errors.New("no file selected for upload")
	ErrNotCSV                 = errors.New("uploaded file is not a CSV file")
	ErrFileTooLarge           = errors.New("file exceeds maximum allowed size")
	ErrRowLimitExceeded       = errors.New("file exceeds maximum allowed rows")
	ErrUnknownUpdateOption    = errors.New("unknown update option")
	ErrValidationUnavailable  = errors.New("record validation unavailable")
	ErrUpdateSubmissionFailed = errors.New("record update submission failed")
	ErrReportRenderFailed     = errors.New("invalid id report could not be rendered")
	ErrNoValidIDs             = errors.New("no valid ids to submit")
	ErrEmptyReport            = errors.New("report requires at least one id")
)

// Failure codes recorded on run snapshots and returned to API clients.
const (
	CodeMissingFile            = "MISSING_FILE"
	CodeUnknownOption          = "UNKNOWN_OPTION"
	CodeNotCSV                 = "NOT_CSV"
	CodeFileTooLarge           = "FILE_TOO_LARGE"
	CodeRowLimitExceeded       = "ROW_LIMIT_EXCEEDED"
	CodeValidationUnavailable  = "VALIDATION_UNAVAILABLE"
	CodeUpdateSubmissionFailed = "UPDATE_SUBMISSION_FAILED"
	CodeReportRenderFailed     = "REPORT_RENDER_FAILED"
	CodeInternal               = "INTERNAL_ERROR"
)

// FailureCode classifies a pipeline error into its stable failure code.
func FailureCode(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingFile):
		return CodeMissingFile
	case errors.Is(err, ErrUnknownUpdateOption):
		return CodeUnknownOption
	case errors.Is(err, ErrNotCSV):
		return CodeNotCSV
	case errors.Is(err, ErrFileTooLarge):
		return CodeFileTooLarge
	case errors.Is(err, ErrRowLimitExceeded):
		return CodeRowLimitExceeded
	case errors.Is(err, ErrValidationUnavailable):
		return CodeValidationUnavailable
	case errors.Is(err, ErrUpdateSubmissionFailed):
		return CodeUpdateSubmissionFailed
	case errors.Is(err, ErrReportRenderFailed):
		return CodeReportRenderFailed
	default:
		return CodeInternal
	}
}
