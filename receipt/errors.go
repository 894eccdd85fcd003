package receipt

import "errors"

var (
	// ErrExtractionFailed is the single error callers see when a receipt could
	// not be read, whatever went wrong underneath.
	ErrExtractionFailed = errors.New("failed to extract VAT from receipt, please try again")

	// ErrUnsupportedFormat is returned for uploads that are not PNG, JPEG or WEBP images.
	ErrUnsupportedFormat = errors.New("unsupported receipt format")

	ErrEmptyUpload = errors.New("empty receipt upload")
)
