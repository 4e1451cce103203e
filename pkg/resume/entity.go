package resume

import (
	"errors"
	"time"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format: only pdf, docx and txt are allowed")
	ErrUnreadable        = errors.New("failed to read resume")
	ErrEmptyContent      = errors.New("empty resume content")
	ErrTooLarge          = errors.New("file too large")
)

// Extraction describes one extracted upload.
type Extraction struct {
	Filename    string    `json:"filename"`
	MimeType    string    `json:"mimeType"`
	Size        int64     `json:"size"`
	Text        string    `json:"-"`
	Chars       int       `json:"chars"`
	ExtractedAt time.Time `json:"extractedAt"`
}
