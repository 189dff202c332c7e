package pglookups

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS lookups (
  id BIGSERIAL PRIMARY KEY,
  public_id UUID NOT NULL UNIQUE,
  raw_input TEXT NOT NULL,
  clean_number TEXT NOT NULL,
  kind TEXT NOT NULL,
  carrier_code TEXT NULL,
  success BOOLEAN NOT NULL,
  status TEXT NULL,
  source_name TEXT NULL,
  error_kind TEXT NULL,
  error_count INT NOT NULL DEFAULT 0,
  created_at TIMESTAMPTZ NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_created_at ON lookups(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_lookups_clean_number ON lookups(clean_number)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
