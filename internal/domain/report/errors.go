package report

import "errors"

var (
	ErrReportNotFound  = errors.New("report not found")
	ErrReporterBanned  = errors.New("banned users cannot submit reports")
	ErrWhisperNotFound = errors.New("whisper not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrAlreadyResolved = errors.New("report already resolved")
)
