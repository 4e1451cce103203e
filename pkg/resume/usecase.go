package resume

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// DefaultMaxBytes caps uploads read into memory.
const DefaultMaxBytes = 15 << 20 // 15MB

// ExtractionService describes the text extraction use case behind
// POST /extract-resume-text.
type ExtractionService interface {
	Extract(ctx context.Context, filename, mimeType string, data []byte) (Extraction, error)
	MaxBytes() int64
}

type extractionService struct {
	maxBytes int64
	log      *zap.Logger
	now      func() time.Time
}

// NewExtractionService creates the default implementation. maxBytes <= 0 uses DefaultMaxBytes.
func NewExtractionService(maxBytes int64, log *zap.Logger) ExtractionService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &extractionService{maxBytes: maxBytes, log: log, now: time.Now}
}

func (s *extractionService) MaxBytes() int64 { return s.maxBytes }

func (s *extractionService) Extract(ctx context.Context, filename, mimeType string, data []byte) (Extraction, error) {
	if err := ctx.Err(); err != nil {
		return Extraction{}, err
	}
	if int64(len(data)) > s.maxBytes {
		return Extraction{}, fmt.Errorf("%w: limit is %d bytes", ErrTooLarge, s.maxBytes)
	}
	text, err := ParseResumeText(filename, data)
	if err != nil {
		s.log.Warn("extract: parse failed", zap.String("file", filename), zap.Error(err))
		return Extraction{}, err
	}
	if text == "" {
		return Extraction{}, ErrEmptyContent
	}
	ex := Extraction{
		Filename:    filename,
		MimeType:    mimeType,
		Size:        int64(len(data)),
		Text:        text,
		Chars:       utf8.RuneCountInString(text),
		ExtractedAt: s.now().UTC(),
	}
	s.log.Debug("extract: done", zap.String("file", filename), zap.Int("chars", ex.Chars))
	return ex, nil
}
