package repository // repository for shift crew persistence

import (
	"context"
	"database/sql"

	"github.com/vmartins/escala-service/internal/model"
)

// CrewRepo encapsulates database operations for the shift_crew link
// table.  The pair (shift_id, personnel_id) is the primary key, so
// duplicate assignments are idempotently ignored rather than errored.
type CrewRepo struct {
	db *sql.DB
}

// NewCrewRepo constructs a CrewRepo given a DB handle.
func NewCrewRepo(db *sql.DB) *CrewRepo {
	return &CrewRepo{db: db}
}

// GetByShift returns all crew assignments for a shift ordered by
// personnel id.  An empty slice means an empty crew.
func (r *CrewRepo) GetByShift(ctx context.Context, shiftID uint64) ([]model.CrewAssignment, error) {
	const q = `SELECT shift_id, personnel_id, role FROM shift_crew WHERE shift_id = ? ORDER BY personnel_id`
	rows, err := r.db.QueryContext(ctx, q, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.CrewAssignment, 0)
	for rows.Next() {
		var (
			ca   model.CrewAssignment
			role sql.NullString
		)
		if err := rows.Scan(&ca.ShiftID, &ca.PersonnelID, &role); err != nil {
			return nil, err
		}
		if role.Valid {
			v := role.String
			ca.Role = &v
		}
		result = append(result, ca)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceAll replaces the full crew of a shift as a unit: all
// existing rows are deleted and the given members are bulk-inserted
// inside one transaction.  Members must already be deduplicated by
// personnel id; INSERT IGNORE additionally shields against
// concurrent duplicates.  An empty member list leaves the crew empty.
func (r *CrewRepo) ReplaceAll(ctx context.Context, shiftID uint64, members []model.CrewMember) error {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM shift_crew WHERE shift_id = ?`, shiftID); err != nil {
		return err
	}
	if len(members) == 0 {
		return nil
	}
	query := `INSERT IGNORE INTO shift_crew (shift_id, personnel_id, role) VALUES `
	args := make([]interface{}, 0, len(members)*3)
	for i, m := range members {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, shiftID, m.PersonnelID, m.Role)
	}
	_, err = tx.ExecContext(ctx, query, args...)
	return err
}

// Add assigns a single person to a shift.  Adding an already
// assigned person is a no-op, not an error.
func (r *CrewRepo) Add(ctx context.Context, shiftID, personnelID uint64, role *string) error {
	const q = `INSERT IGNORE INTO shift_crew (shift_id, personnel_id, role) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, q, shiftID, personnelID, role)
	return err
}

// Remove unassigns a single person from a shift.  Removing an absent
// assignment is a no-op.
func (r *CrewRepo) Remove(ctx context.Context, shiftID, personnelID uint64) error {
	const q = `DELETE FROM shift_crew WHERE shift_id = ? AND personnel_id = ?`
	_, err := r.db.ExecContext(ctx, q, shiftID, personnelID)
	return err
}
