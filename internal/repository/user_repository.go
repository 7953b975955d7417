package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/vmartins/escala-service/internal/model"
	"github.com/vmartins/escala-service/internal/utils"
)

// ErrEmailExists is returned when registering an email that is
// already taken.
var ErrEmailExists = errors.New("email already exists")

// UserRepo persists operator accounts.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo constructs a UserRepo with the given DB handle.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts an operator account and returns its id.  The email
// is normalized to lower case and the password is bcrypt-hashed with
// the given cost before anything touches the database.
func (r *UserRepo) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	const q = `INSERT INTO users (email, password_hash, role) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, normalizeEmail(email), hash, role)
	if err != nil {
		if isDuplicateKey(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches an account by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	const q = `SELECT id, email, password_hash, role, is_active, created_at, updated_at
               FROM users WHERE email = ? LIMIT 1`
	return r.scanUser(r.db.QueryRowContext(ctx, q, normalizeEmail(email)))
}

// GetByID fetches an account by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	const q = `SELECT id, email, password_hash, role, is_active, created_at, updated_at
               FROM users WHERE id = ? LIMIT 1`
	return r.scanUser(r.db.QueryRowContext(ctx, q, id))
}

func (r *UserRepo) scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
