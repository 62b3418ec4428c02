package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func timePtrToNull(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	out := t.Time
	return &out
}

// describeStoreError prefixes postgres errors with their SQLSTATE so callers
// see which class of failure the store reported. The original error stays
// wrapped.
func describeStoreError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	if pqErr.Detail != "" {
		return fmt.Errorf("sqlstate %s (%s): %w; detail: %s", pqErr.Code, pqErr.Code.Name(), err, pqErr.Detail)
	}
	return fmt.Errorf("sqlstate %s (%s): %w", pqErr.Code, pqErr.Code.Name(), err)
}
