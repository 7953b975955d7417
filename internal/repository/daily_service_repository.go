// This file implements the interval store behind the "service of the
// day" roster.  Rows sharing one starts_at timestamp form an atomic
// batch; reads resolve the active batch with a strict interval
// overlap predicate (starts_at < window end AND ends_at > window
// start) so a batch spanning several days still matches any day it
// covers.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vmartins/escala-service/internal/model"
)

// DailyServiceRepo manages persistence for daily_service rows.
type DailyServiceRepo struct {
	db *sql.DB
}

// NewDailyServiceRepo constructs a DailyServiceRepo with the given DB
// handle.
func NewDailyServiceRepo(db *sql.DB) *DailyServiceRepo {
	return &DailyServiceRepo{db: db}
}

// FindActiveBatchStart returns the starts_at of the most recently
// started batch overlapping [windowStart, windowEnd).  ok is false
// when no batch overlaps the window; this is a normal state, not an
// error.
func (r *DailyServiceRepo) FindActiveBatchStart(ctx context.Context, windowStart, windowEnd string) (string, bool, error) {
	const q = `SELECT starts_at FROM daily_service
               WHERE starts_at < ? AND ends_at > ?
               ORDER BY starts_at DESC
               LIMIT 1`
	var start time.Time
	err := r.db.QueryRowContext(ctx, q, windowEnd, windowStart).Scan(&start)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}
	return start.UTC().Format(dbTimeLayout), true, nil
}

// ListByBatchStart returns all assignments whose starts_at equals the
// given batch start, ordered by role then id for deterministic
// output.
func (r *DailyServiceRepo) ListByBatchStart(ctx context.Context, batchStart string) ([]model.DailyRoleAssignment, error) {
	const q = `SELECT id, role, person_kind, person_id, starts_at, ends_at
               FROM daily_service
               WHERE starts_at = ?
               ORDER BY role, id`
	rows, err := r.db.QueryContext(ctx, q, batchStart)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.DailyRoleAssignment, 0)
	for rows.Next() {
		var (
			a          model.DailyRoleAssignment
			kind       string
			start, end time.Time
		)
		if err := rows.Scan(&a.ID, &a.Role, &kind, &a.Person.ID, &start, &end); err != nil {
			return nil, err
		}
		a.Person.Kind = model.PersonKind(kind)
		a.StartsAt = start.UTC().Format(dbTimeLayout)
		a.EndsAt = end.UTC().Format(dbTimeLayout)
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceBatch atomically replaces a roster batch: inside one
// transaction it deletes all rows with the original batch start, then
// clears any rows overlapping the new [start, end) window, then
// bulk-inserts the given entries with the new interval.  Clearing the
// destination window prevents two overlapping batches when an update
// moves a batch's start.  Entries must already be deduplicated.
func (r *DailyServiceRepo) ReplaceBatch(ctx context.Context, originalStart, newStart, newEnd string, entries []model.DailyRoleAssignment) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			_ = tx.Commit()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM daily_service WHERE starts_at = ?`, originalStart); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx,
		`DELETE FROM daily_service WHERE starts_at < ? AND ends_at > ?`, newEnd, newStart); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	query := `INSERT INTO daily_service (role, person_kind, person_id, starts_at, ends_at) VALUES `
	args := make([]interface{}, 0, len(entries)*5)
	for i, e := range entries {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?)"
		args = append(args, e.Role, string(e.Person.Kind), e.Person.ID, newStart, newEnd)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// DeleteByBatchStart removes the whole batch with the given start.
// Deleting an absent batch is a no-op.
func (r *DailyServiceRepo) DeleteByBatchStart(ctx context.Context, batchStart string) error {
	const q = `DELETE FROM daily_service WHERE starts_at = ?`
	_, err := r.db.ExecContext(ctx, q, batchStart)
	return err
}
