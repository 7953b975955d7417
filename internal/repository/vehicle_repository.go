package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vmartins/escala-service/internal/model"
)

// VehicleRepo provides read access to vehicles plus the shift-vehicle
// link table.  Vehicles are owned by the fleet registry; the
// scheduler only reads them and manages link rows.
type VehicleRepo struct {
	db *sql.DB
}

// NewVehicleRepo constructs a VehicleRepo with the given DB handle.
func NewVehicleRepo(db *sql.DB) *VehicleRepo {
	return &VehicleRepo{db: db}
}

// GetByID retrieves a vehicle by its ID.  It returns
// ErrVehicleNotFound when there is no matching row.
func (r *VehicleRepo) GetByID(ctx context.Context, id uint64) (*model.Vehicle, error) {
	const q = `SELECT id, prefix, unit_id, unit_name, is_active FROM vehicles WHERE id = ?`
	var (
		v        model.Vehicle
		unitID   sql.NullInt64
		unitName sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, id).Scan(&v.ID, &v.Prefix, &unitID, &unitName, &v.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if unitID.Valid {
		u := uint64(unitID.Int64)
		v.UnitID = &u
	}
	if unitName.Valid {
		n := unitName.String
		v.UnitName = &n
	}
	return &v, nil
}

// List returns all vehicles ordered by prefix, optionally restricted
// to active ones.
func (r *VehicleRepo) List(ctx context.Context, activeOnly bool) ([]model.Vehicle, error) {
	q := `SELECT id, prefix, unit_id, unit_name, is_active FROM vehicles`
	if activeOnly {
		q += ` WHERE is_active = 1`
	}
	q += ` ORDER BY prefix`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Vehicle, 0)
	for rows.Next() {
		var (
			v        model.Vehicle
			unitID   sql.NullInt64
			unitName sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.Prefix, &unitID, &unitName, &v.IsActive); err != nil {
			return nil, err
		}
		if unitID.Valid {
			u := uint64(unitID.Int64)
			v.UnitID = &u
		}
		if unitName.Valid {
			n := unitName.String
			v.UnitName = &n
		}
		result = append(result, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// AttachToShift links a vehicle to a shift in the shift_vehicles
// table.  Attaching twice is a no-op.
func (r *VehicleRepo) AttachToShift(ctx context.Context, shiftID, vehicleID uint64) error {
	const q = `INSERT IGNORE INTO shift_vehicles (shift_id, vehicle_id) VALUES (?, ?)`
	_, err := r.db.ExecContext(ctx, q, shiftID, vehicleID)
	return err
}

// DetachFromShift removes a vehicle link from a shift.  Detaching an
// absent link is a no-op.
func (r *VehicleRepo) DetachFromShift(ctx context.Context, shiftID, vehicleID uint64) error {
	const q = `DELETE FROM shift_vehicles WHERE shift_id = ? AND vehicle_id = ?`
	_, err := r.db.ExecContext(ctx, q, shiftID, vehicleID)
	return err
}
