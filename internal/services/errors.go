package services

import "errors"

var (
	ErrInsightsDisabled = errors.New("market insights are not configured")
	ErrNotPDF           = errors.New("only PDF files are accepted")
	ErrFileTooLarge     = errors.New("file exceeds the 10 MiB limit")
	ErrUploadNotFound   = errors.New("upload not found")
	ErrEmptyFile        = errors.New("file is empty")
	ErrSessionChanged   = errors.New("signed-in user changed before the upload was sent")
)
