package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vmartins/escala-service/internal/model"
)

// civilianRank is the synthesized rank label shown for civilians on
// rosters, which have no military rank of their own.
const civilianRank = "Civil"

// PersonnelRepo provides read access to military personnel and
// civilians for display hydration and existence checks.
type PersonnelRepo struct {
	db *sql.DB
}

// NewPersonnelRepo constructs a PersonnelRepo with the given DB handle.
func NewPersonnelRepo(db *sql.DB) *PersonnelRepo {
	return &PersonnelRepo{db: db}
}

// Exists reports whether a personnel row with the given id exists.
func (r *PersonnelRepo) Exists(ctx context.Context, id uint64) (bool, error) {
	const q = `SELECT 1 FROM personnel WHERE id = ? LIMIT 1`
	var one int
	err := r.db.QueryRowContext(ctx, q, id).Scan(&one)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ListMilitary returns active military personnel ordered by full
// name, for crew and roster form fills.
func (r *PersonnelRepo) ListMilitary(ctx context.Context) ([]model.Personnel, error) {
	// rank is reserved in MySQL 8 and must be quoted when unqualified.
	const q = "SELECT id, full_name, war_name, `rank`, is_active FROM personnel WHERE is_active = 1 ORDER BY full_name"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Personnel, 0)
	for rows.Next() {
		var (
			p       model.Personnel
			warName sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.FullName, &warName, &p.Rank, &p.IsActive); err != nil {
			return nil, err
		}
		if warName.Valid {
			v := warName.String
			p.WarName = &v
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListCivilians returns all civilians ordered by full name.
func (r *PersonnelRepo) ListCivilians(ctx context.Context) ([]model.Civilian, error) {
	const q = `SELECT id, full_name FROM civilians ORDER BY full_name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	result := make([]model.Civilian, 0)
	for rows.Next() {
		var cv model.Civilian
		if err := rows.Scan(&cv.ID, &cv.FullName); err != nil {
			return nil, err
		}
		result = append(result, cv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// DisplayMilitary resolves display info for a set of personnel ids in
// one query.  Display name is the war name when non-empty, the full
// name otherwise.  Missing ids are simply absent from the result map.
func (r *PersonnelRepo) DisplayMilitary(ctx context.Context, ids []uint64) (map[uint64]model.PersonDisplay, error) {
	out := make(map[uint64]model.PersonDisplay, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]interface{}, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	q := "SELECT id, `rank`, war_name, full_name FROM personnel WHERE id IN (" + strings.Join(placeholders, ",") + ")"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id      uint64
			rank    string
			warName sql.NullString
			full    string
		)
		if err := rows.Scan(&id, &rank, &warName, &full); err != nil {
			return nil, err
		}
		name := full
		if warName.Valid && strings.TrimSpace(warName.String) != "" {
			name = warName.String
		}
		out[id] = model.PersonDisplay{Rank: rank, DisplayName: name}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DisplayCivilians resolves display info for a set of civilian ids in
// one query, synthesizing the rank label.  Missing ids are absent
// from the result map.
func (r *PersonnelRepo) DisplayCivilians(ctx context.Context, ids []uint64) (map[uint64]model.PersonDisplay, error) {
	out := make(map[uint64]model.PersonDisplay, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]interface{}, 0, len(ids))
	placeholders := make([]string, 0, len(ids))
	for _, id := range ids {
		args = append(args, id)
		placeholders = append(placeholders, "?")
	}
	q := `SELECT id, full_name FROM civilians WHERE id IN (` + strings.Join(placeholders, ",") + `)`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			id   uint64
			full string
		)
		if err := rows.Scan(&id, &full); err != nil {
			return nil, err
		}
		out[id] = model.PersonDisplay{Rank: civilianRank, DisplayName: full}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
