package storage

import (
	"context"
	"errors"
)

// Keys written by the resume desk.
const (
	KeyResumeData       = "resumeData"
	KeyPreloadedFeature = "resumePreloadedForFeature"
)

var (
	// ErrQuotaExceeded is returned when a write does not fit into the scope quota.
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	// ErrUnavailable is returned when the backend is disabled or unreachable.
	ErrUnavailable = errors.New("storage unavailable")
)

// Store is a string key/value store bound to one scope (a session or a client).
// It mirrors the browser Storage API: removing an absent key is not an error.
type Store interface {
	SetItem(ctx context.Context, key, value string) error
	GetItem(ctx context.Context, key string) (string, bool, error)
	RemoveItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Backend hands out stores per scope id.
type Backend interface {
	Scope(id string) Store
}
