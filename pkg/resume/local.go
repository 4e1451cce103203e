package resume

import (
	"context"
	"errors"

	"github.com/artem13815/careerdesk/pkg/desk"
)

// LocalExtractor runs extraction in-process for the desk, skipping the HTTP hop.
type LocalExtractor struct {
	svc ExtractionService
}

func NewLocalExtractor(svc ExtractionService) *LocalExtractor {
	return &LocalExtractor{svc: svc}
}

// Extract implements desk.Extractor. Domain errors carry their message as the
// detail, the same text the HTTP endpoint would answer with.
func (l *LocalExtractor) Extract(ctx context.Context, f desk.File) (string, error) {
	ex, err := l.svc.Extract(ctx, f.Name, f.ContentType, f.Data)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", &detailError{err: err}
	}
	return ex.Text, nil
}

type detailError struct{ err error }

func (e *detailError) Error() string  { return e.err.Error() }
func (e *detailError) Unwrap() error  { return e.err }
func (e *detailError) Detail() string { return e.err.Error() }
