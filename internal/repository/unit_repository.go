package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vmartins/escala-service/internal/model"
)

// UnitRepo provides read access to organizational units.  The
// scheduler never mutates units; it only resolves and displays them.
type UnitRepo struct {
	db *sql.DB
}

// NewUnitRepo constructs a UnitRepo with the given DB handle.
func NewUnitRepo(db *sql.DB) *UnitRepo {
	return &UnitRepo{db: db}
}

// GetByID retrieves a unit by its ID.  It returns ErrUnitNotFound
// when there is no matching row.
func (r *UnitRepo) GetByID(ctx context.Context, id uint64) (*model.Unit, error) {
	const q = `SELECT id, name FROM units WHERE id = ?`
	var u model.Unit
	err := r.db.QueryRowContext(ctx, q, id).Scan(&u.ID, &u.Name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUnitNotFound
		}
		return nil, err
	}
	return &u, nil
}

// FindByName resolves a unit id from its canonical name,
// case-insensitively.  The input is trimmed before matching to cope
// with denormalized free-text sources.  ErrUnitNotFound is returned
// when no unit matches.
func (r *UnitRepo) FindByName(ctx context.Context, name string) (uint64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, ErrUnitNotFound
	}
	const q = `SELECT id FROM units WHERE LOWER(name) = LOWER(?) LIMIT 1`
	var id uint64
	err := r.db.QueryRowContext(ctx, q, name).Scan(&id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUnitNotFound
		}
		return 0, err
	}
	return id, nil
}

// List returns all units ordered by name.
func (r *UnitRepo) List(ctx context.Context) ([]model.Unit, error) {
	const q = `SELECT id, name FROM units ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Unit, 0)
	for rows.Next() {
		var u model.Unit
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
