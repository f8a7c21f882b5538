package upload

import "errors"

var (
	ErrMissingFile     = errors.New("file is required")
	ErrInvalidFileType = errors.New("file type not allowed")
	ErrFileTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrLimitExceeded   = errors.New("maximum number of images reached")
	ErrNotOwner        = errors.New("you do not own this record")
	ErrTypeMismatch    = errors.New("record type mismatch")
	ErrUploadFailed    = errors.New("file upload failed")
	ErrRecordNotFound  = errors.New("record not found")
)
