// Package repository contains data access logic for the duty roster.
// This file implements persistence for shift rows. A Shift is one
// vehicle's duty period on one date; uniqueness of (date, vehicle) is
// backed by a UNIQUE KEY on the shifts table so that racing creates
// cannot both land even when they pass the existence pre-check.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/vmartins/escala-service/internal/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

// ShiftRepo manages persistence for shifts.
type ShiftRepo struct {
	db *sql.DB
}

// NewShiftRepo constructs a ShiftRepo with the given DB handle.
func NewShiftRepo(db *sql.DB) *ShiftRepo {
	return &ShiftRepo{db: db}
}

// isDuplicateKey reports whether err is a MySQL duplicate-key error
// (errno 1062).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}

// ExistsByDateVehicle reports whether a shift already exists for the
// (date, vehicle) pair.  excludeID skips one shift id so updates can
// re-check the invariant without colliding with themselves; pass 0 on
// create.
func (r *ShiftRepo) ExistsByDateVehicle(ctx context.Context, date string, vehicleID, excludeID uint64) (bool, error) {
	const q = `SELECT 1 FROM shifts WHERE shift_date = ? AND vehicle_id = ? AND id <> ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, date, vehicleID, excludeID).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Create inserts a new shift row and assigns the generated ID back to
// the struct, then reselects the row to populate DB defaults
// (is_active, timestamps).  A duplicate (date, vehicle) insert is
// reported as ErrConflict via the unique key.
func (r *ShiftRepo) Create(ctx context.Context, s *model.Shift) error {
	const q = `INSERT INTO shifts (name, shift_type, shift_date, starts_at, ends_at, unit_id, vehicle_id, notes)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q,
		s.Name, s.ShiftType, s.Date, s.StartsAt, s.EndsAt, s.UnitID, s.VehicleID, s.Notes)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	fresh, err := r.GetByID(ctx, s.ID)
	if err != nil {
		return err
	}
	*s = *fresh
	return nil
}

// GetByID retrieves a shift by its ID.  It returns ErrShiftNotFound
// when there is no matching row.
func (r *ShiftRepo) GetByID(ctx context.Context, id uint64) (*model.Shift, error) {
	const q = `SELECT id, name, shift_type, shift_date, starts_at, ends_at, unit_id, vehicle_id, is_active, notes, created_at, updated_at
               FROM shifts WHERE id = ?`
	var (
		s        model.Shift
		date     time.Time
		created  time.Time
		updated  time.Time
		startsAt sql.NullString
		endsAt   sql.NullString
		notes    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.Name, &s.ShiftType, &date, &startsAt, &endsAt,
		&s.UnitID, &s.VehicleID, &s.IsActive, &notes, &created, &updated,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	s.Date = date.Format("2006-01-02")
	s.CreatedAt = created.UTC().Format(dbTimeLayout)
	s.UpdatedAt = updated.UTC().Format(dbTimeLayout)
	if startsAt.Valid {
		v := startsAt.String
		s.StartsAt = &v
	}
	if endsAt.Valid {
		v := endsAt.String
		s.EndsAt = &v
	}
	if notes.Valid {
		v := notes.String
		s.Notes = &v
	}
	return &s, nil
}

// CrewDetail is one hydrated crew line returned inside ShiftDetail.
type CrewDetail struct {
	PersonnelID uint64  `json:"personnel_id"`
	Role        *string `json:"role,omitempty"`
	Rank        string  `json:"rank"`
	DisplayName string  `json:"display_name"`
}

// ShiftDetail combines a shift with the display fields joined from
// units and vehicles plus the hydrated crew.  It is the shape served
// by the detail and list endpoints.
type ShiftDetail struct {
	ID          uint64       `json:"id"`
	Name        string       `json:"name"`
	ShiftType   string       `json:"shift_type"`
	Date        string       `json:"date"`
	StartsAt    *string      `json:"starts_at"`
	EndsAt      *string      `json:"ends_at"`
	UnitID      uint64       `json:"unit_id"`
	UnitName    string       `json:"unit_name"`
	VehicleID   uint64       `json:"vehicle_id"`
	VehicleName string       `json:"vehicle_prefix"`
	IsActive    bool         `json:"is_active"`
	Notes       *string      `json:"notes,omitempty"`
	Crew        []CrewDetail `json:"crew"`
}

// GetDetailByID returns a shift with unit and vehicle display fields
// and its crew, hydrating each member's rank and display name (war
// name when present, full name otherwise).  ErrShiftNotFound is
// returned when the shift does not exist.
func (r *ShiftRepo) GetDetailByID(ctx context.Context, id uint64) (*ShiftDetail, error) {
	const q = `SELECT s.id, s.name, s.shift_type, s.shift_date, s.starts_at, s.ends_at,
                      s.unit_id, u.name, s.vehicle_id, v.prefix, s.is_active, s.notes
               FROM shifts s
               JOIN units u ON u.id = s.unit_id
               JOIN vehicles v ON v.id = s.vehicle_id
               WHERE s.id = ?`
	var (
		det      ShiftDetail
		date     time.Time
		startsAt sql.NullString
		endsAt   sql.NullString
		notes    sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&det.ID, &det.Name, &det.ShiftType, &date, &startsAt, &endsAt,
		&det.UnitID, &det.UnitName, &det.VehicleID, &det.VehicleName, &det.IsActive, &notes,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShiftNotFound
		}
		return nil, err
	}
	det.Date = date.Format("2006-01-02")
	if startsAt.Valid {
		v := startsAt.String
		det.StartsAt = &v
	}
	if endsAt.Valid {
		v := endsAt.String
		det.EndsAt = &v
	}
	if notes.Valid {
		v := notes.String
		det.Notes = &v
	}
	det.Crew = []CrewDetail{}
	// Crew joined against personnel for rank and name resolution.
	// Ordering by personnel id keeps output deterministic.
	const crewQ = `SELECT sc.personnel_id, sc.role, p.rank, p.war_name, p.full_name
                   FROM shift_crew sc
                   JOIN personnel p ON p.id = sc.personnel_id
                   WHERE sc.shift_id = ?
                   ORDER BY sc.personnel_id`
	rows, err := r.db.QueryContext(ctx, crewQ, det.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cd      CrewDetail
			role    sql.NullString
			warName sql.NullString
			full    string
		)
		if err := rows.Scan(&cd.PersonnelID, &role, &cd.Rank, &warName, &full); err != nil {
			return nil, err
		}
		if role.Valid {
			v := role.String
			cd.Role = &v
		}
		if warName.Valid && strings.TrimSpace(warName.String) != "" {
			cd.DisplayName = warName.String
		} else {
			cd.DisplayName = full
		}
		det.Crew = append(det.Crew, cd)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &det, nil
}

// ShiftFilter narrows and pages the shift list.  Zero values are
// ignored.  VehiclePrefix matches the sanitized prefix with a LIKE
// prefix match; Page is 1-based.
type ShiftFilter struct {
	DateFrom      string
	DateTo        string
	UnitID        uint64
	VehiclePrefix string
	Page          int
	Limit         int
}

// List returns shifts matching the filter ordered by date descending
// then name, plus the total row count before paging.  Crew is not
// hydrated on list results.
func (r *ShiftRepo) List(ctx context.Context, f ShiftFilter) ([]ShiftDetail, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}
	if f.DateFrom != "" {
		where = append(where, "s.shift_date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, "s.shift_date <= ?")
		args = append(args, f.DateTo)
	}
	if f.UnitID > 0 {
		where = append(where, "s.unit_id = ?")
		args = append(args, f.UnitID)
	}
	if f.VehiclePrefix != "" {
		where = append(where, "v.prefix LIKE ?")
		args = append(args, f.VehiclePrefix+"%")
	}
	cond := strings.Join(where, " AND ")

	countQ := `SELECT COUNT(*)
               FROM shifts s
               JOIN vehicles v ON v.id = s.vehicle_id
               WHERE ` + cond
	var total int
	if err := r.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	offset := (f.Page - 1) * f.Limit

	listQ := `SELECT s.id, s.name, s.shift_type, s.shift_date, s.starts_at, s.ends_at,
                     s.unit_id, u.name, s.vehicle_id, v.prefix, s.is_active, s.notes
              FROM shifts s
              JOIN units u ON u.id = s.unit_id
              JOIN vehicles v ON v.id = s.vehicle_id
              WHERE ` + cond + `
              ORDER BY s.shift_date DESC, s.name ASC
              LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, listQ, append(args, f.Limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	result := make([]ShiftDetail, 0)
	for rows.Next() {
		var (
			det      ShiftDetail
			date     time.Time
			startsAt sql.NullString
			endsAt   sql.NullString
			notes    sql.NullString
		)
		if err := rows.Scan(
			&det.ID, &det.Name, &det.ShiftType, &date, &startsAt, &endsAt,
			&det.UnitID, &det.UnitName, &det.VehicleID, &det.VehicleName, &det.IsActive, &notes,
		); err != nil {
			return nil, 0, err
		}
		det.Date = date.Format("2006-01-02")
		if startsAt.Valid {
			v := startsAt.String
			det.StartsAt = &v
		}
		if endsAt.Valid {
			v := endsAt.String
			det.EndsAt = &v
		}
		if notes.Valid {
			v := notes.String
			det.Notes = &v
		}
		det.Crew = []CrewDetail{}
		result = append(result, det)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ShiftUpdate carries a partial update of a shift row.  Notes,
// StartsAt and EndsAt are always written (nil clears the column);
// Date, VehicleID, UnitID and Name are written only when non-nil.
type ShiftUpdate struct {
	Date      *string
	VehicleID *uint64
	UnitID    *uint64
	Name      *string
	Notes     *string
	StartsAt  *string
	EndsAt    *string
}

// Update applies a partial update to the shift row.  It returns
// ErrShiftNotFound when the row does not exist and ErrConflict when a
// date/vehicle change collides with another shift's unique key.
func (r *ShiftRepo) Update(ctx context.Context, id uint64, u ShiftUpdate) error {
	set := []string{"notes = ?", "starts_at = ?", "ends_at = ?", "updated_at = CURRENT_TIMESTAMP"}
	args := []interface{}{u.Notes, u.StartsAt, u.EndsAt}
	if u.Date != nil {
		set = append(set, "shift_date = ?")
		args = append(args, *u.Date)
	}
	if u.VehicleID != nil {
		set = append(set, "vehicle_id = ?")
		args = append(args, *u.VehicleID)
	}
	if u.UnitID != nil {
		set = append(set, "unit_id = ?")
		args = append(args, *u.UnitID)
	}
	if u.Name != nil {
		set = append(set, "name = ?")
		args = append(args, *u.Name)
	}
	q := `UPDATE shifts SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, append(args, id)...)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	// RowsAffected is 0 both for a missing row and for an update that
	// changed nothing; disambiguate with an existence probe.
	const qExists = `SELECT 1 FROM shifts WHERE id = ? LIMIT 1`
	var one int
	if err := r.db.QueryRowContext(ctx, qExists, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrShiftNotFound
		}
		return err
	}
	return nil
}

// Delete removes a shift and its dependent crew and vehicle-link rows
// inside one transaction.  It returns ErrShiftNotFound when no shift
// row was affected.
func (r *ShiftRepo) Delete(ctx context.Context, id uint64) error {
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
	if _, err = tx.ExecContext(ctx, `DELETE FROM shift_crew WHERE shift_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM shift_vehicles WHERE shift_id = ?`, id); err != nil {
		return err
	}
	var res sql.Result
	if res, err = tx.ExecContext(ctx, `DELETE FROM shifts WHERE id = ?`, id); err != nil {
		return err
	}
	n, aerr := res.RowsAffected()
	if aerr != nil {
		err = aerr
		return err
	}
	if n == 0 {
		err = ErrShiftNotFound
		return err
	}
	return nil
}
