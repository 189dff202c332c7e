package pglookups

import (
	"context"
	"time"

	"github.com/BearBump/CargoDesk/internal/models"
	"github.com/pkg/errors"
)

func (s *Storage) RecordLookup(ctx context.Context, rec *models.LookupRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	err := s.db.QueryRow(ctx, `
INSERT INTO lookups (
  public_id, raw_input, clean_number, kind, carrier_code,
  success, status, source_name, error_kind, error_count, created_at
)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING id
`, rec.PublicID, rec.RawInput, rec.CleanNumber, rec.Kind, rec.CarrierCode,
		rec.Success, rec.Status, rec.SourceName, rec.ErrorKind, rec.ErrorCount, rec.CreatedAt).Scan(&rec.ID)
	if err != nil {
		return errors.Wrap(err, "insert lookup")
	}
	return nil
}

func (s *Storage) ListRecent(ctx context.Context, limit, offset int) ([]*models.LookupRecord, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, `
SELECT
  id, public_id, raw_input, clean_number, kind, carrier_code,
  success, status, source_name, error_kind, error_count, created_at
FROM lookups
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "select lookups")
	}
	defer rows.Close()

	var out []*models.LookupRecord
	for rows.Next() {
		var r models.LookupRecord
		if err := rows.Scan(
			&r.ID, &r.PublicID, &r.RawInput, &r.CleanNumber, &r.Kind, &r.CarrierCode,
			&r.Success, &r.Status, &r.SourceName, &r.ErrorKind, &r.ErrorCount, &r.CreatedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan lookup")
		}
		out = append(out, &r)
	}
	return out, rows.Err()
}
