package service

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"eposupdate/internal/domain"
)

const (
	titleError   = "Error"
	titleSuccess = "Success"
)

// Messages shown to the user. The row-limit message is built from the
// configured limit by RowLimitNotification.
const (
	MsgNotCSV             = "Please upload a valid CSV file."
	MsgFileTooLarge       = "File Size is too large"
	MsgValidationFailed   = "Failed to validate IDs"
	MsgInvalidIDsReported = "Some IDs are invalid. Check the exported file for details."
	MsgReportFailed       = "Failed to export the invalid IDs report"
	MsgUpdateFailed       = "Failed to update EPOS records"
	MsgUpdateSucceeded    = "Updated Successfully!!!"
)

func errorNotification(msg string, mode domain.NotificationMode) domain.Notification {
	return domain.Notification{
		Title:    titleError,
		Message:  msg,
		Severity: domain.SeverityError,
		Mode:     mode,
	}
}

// RowLimitNotification reports an upload with more rows than maxRows.
func RowLimitNotification(maxRows int) domain.Notification {
	return errorNotification(
		message.NewPrinter(language.English).Sprintf("The CSV file exceeds the maximum allowed rows of %d.", maxRows),
		domain.ModeDismissable,
	)
}

// InvalidIDsNotification tells the user a report of invalid ids is ready.
func InvalidIDsNotification() domain.Notification {
	return errorNotification(MsgInvalidIDsReported, domain.ModeDismissable)
}

// SuccessNotification confirms a completed bulk update.
func SuccessNotification() domain.Notification {
	return domain.Notification{
		Title:    titleSuccess,
		Message:  MsgUpdateSucceeded,
		Severity: domain.SeveritySuccess,
		Mode:     domain.ModeDismissable,
	}
}

// FailureNotification maps a pipeline error to its notification. The
// second return value is false for errors the user is not told about.
func FailureNotification(err error, maxRows int) (domain.Notification, bool) {
	switch {
	case errors.Is(err, domain.ErrNotCSV):
		return errorNotification(MsgNotCSV, domain.ModeDismissable), true
	case errors.Is(err, domain.ErrFileTooLarge):
		return errorNotification(MsgFileTooLarge, domain.ModeSticky), true
	case errors.Is(err, domain.ErrRowLimitExceeded):
		return RowLimitNotification(maxRows), true
	case errors.Is(err, domain.ErrValidationUnavailable):
		return errorNotification(MsgValidationFailed, domain.ModeDismissable), true
	case errors.Is(err, domain.ErrReportRenderFailed):
		return errorNotification(MsgReportFailed, domain.ModeDismissable), true
	case errors.Is(err, domain.ErrUpdateSubmissionFailed):
		return errorNotification(MsgUpdateFailed, domain.ModeSticky), true
	default:
		return domain.Notification{}, false
	}
}
