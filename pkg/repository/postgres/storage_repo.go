package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/artem13815/careerdesk/pkg/storage"
)

// querier is the subset of *pgxpool.Pool used by the repository.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// StorageRepository keeps persistent-scope items (the localStorage analogue)
// in a single table keyed by (scope_id, key).
type StorageRepository struct {
	pool  querier
	quota int
}

// NewStorageRepository ensures the schema. quota bounds the total bytes
// (keys + values) of one scope (0 = unlimited).
func NewStorageRepository(pool querier, quota int) (*StorageRepository, error) {
	r := &StorageRepository{pool: pool, quota: quota}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *StorageRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS persistent_items (
	scope_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (scope_id, key)
);
`)
	if err != nil {
		return fmt.Errorf("ensure persistent_items schema: %w", err)
	}
	return nil
}

// Scope implements storage.Backend.
func (r *StorageRepository) Scope(id string) storage.Store {
	return &scopedItems{repo: r, scopeID: id}
}

type scopedItems struct {
	repo    *StorageRepository
	scopeID string
}

func (s *scopedItems) SetItem(ctx context.Context, key, value string) error {
	if s.repo.quota > 0 && len(key)+len(value) > s.repo.quota {
		return fmt.Errorf("set %q: %w", key, storage.ErrQuotaExceeded)
	}
	tag, err := s.repo.pool.Exec(ctx, `
INSERT INTO persistent_items (scope_id, key, value, updated_at)
SELECT $1, $2, $3, $4
WHERE $5 = 0 OR (
	SELECT COALESCE(SUM(octet_length(key) + octet_length(value)), 0)
	FROM persistent_items WHERE scope_id = $1 AND key <> $2
) + octet_length($2::text) + octet_length($3::text) <= $5
ON CONFLICT (scope_id, key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`, s.scopeID, key, value, time.Now().UTC(), s.repo.quota)
	if err != nil {
		return unavailable("set", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("set %q: %w", key, storage.ErrQuotaExceeded)
	}
	return nil
}

func (s *scopedItems) GetItem(ctx context.Context, key string) (string, bool, error) {
	row := s.repo.pool.QueryRow(ctx, `
SELECT value FROM persistent_items WHERE scope_id = $1 AND key = $2
`, s.scopeID, key)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, unavailable("get", err)
	}
	return v, true, nil
}

func (s *scopedItems) RemoveItem(ctx context.Context, key string) error {
	_, err := s.repo.pool.Exec(ctx, `
DELETE FROM persistent_items WHERE scope_id = $1 AND key = $2
`, s.scopeID, key)
	if err != nil {
		return unavailable("remove", err)
	}
	return nil
}

func (s *scopedItems) Clear(ctx context.Context) error {
	_, err := s.repo.pool.Exec(ctx, `
DELETE FROM persistent_items WHERE scope_id = $1
`, s.scopeID)
	if err != nil {
		return unavailable("clear", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("persistent_items %s: %w: %v", op, storage.ErrUnavailable, err)
}
