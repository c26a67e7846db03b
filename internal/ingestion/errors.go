package ingestion

import "fmt"

// Kind classifies an extraction failure.
type Kind string

const (
	// KindUnsupported is a file format with no extractor
	KindUnsupported Kind = "unsupported"
	// KindScannedPDF is a PDF with no usable text layer
	KindScannedPDF Kind = "scanned_pdf"
	// KindEmpty is a readable document with no text
	KindEmpty Kind = "empty"
	// KindUnreadable is a corrupt or undecodable document
	KindUnreadable Kind = "unreadable"
)

// ExtractionError represents a failure to turn an uploaded file into text
type ExtractionError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed (%s): %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed (%s): %s", e.Kind, e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}
