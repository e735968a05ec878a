package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/planora/planora-api/internal/auth"
	"github.com/planora/planora-api/internal/model"
)

// UserRepo owns all SQL against the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// updatableColumns whitelists the fields the generic PATCH update may
// touch. Password changes go through UpdatePassword only, so a PATCH can
// never smuggle in an unhashed credential.
var updatableColumns = map[string]string{
	"email":        "email",
	"first_name":   "first_name",
	"last_name":    "last_name",
	"phone_number": "phone_number",
}

// UpdatableColumn reports whether a client-supplied field name may be used
// in UpdateField, returning the column it maps to.
func UpdatableColumn(field string) (string, bool) {
	col, ok := updatableColumns[field]
	return col, ok
}

// Create inserts a user and returns its ID. The password is hashed here so
// no caller can insert a plain-text credential by accident.
func (r *UserRepo) Create(ctx context.Context, email, password, firstName, lastName, phone string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := auth.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, first_name, last_name, phone_number) VALUES (?,?,?,?,?)",
		email, hash, firstName, lastName, phone)
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

// GetByEmail fetches a user by normalized email. Returns ErrUserNotFound
// when no row matches; callers treat that as authentication failure, not
// as a system fault.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,first_name,last_name,phone_number,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,email,password_hash,first_name,last_name,phone_number,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.PhoneNumber, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return u, ErrUserNotFound
	}
	return u, err
}

// UpdateField performs a single-column update by id. The column must come
// from UpdatableColumn; the name is interpolated (never the value), so the
// statement stays parameterized.
func (r *UserRepo) UpdateField(ctx context.Context, id uint64, column string, value string) error {
	if _, ok := updatableColumns[column]; !ok {
		return ErrUserNotFound
	}
	if column == "email" {
		value = strings.ToLower(strings.TrimSpace(value))
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+column+"=? WHERE id=?", value, id)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrEmailExists
		}
		return err
	}
	return requireRow(res)
}

// UpdatePassword overwrites the stored password hash for a user.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, passwordHash string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=? WHERE id=?", passwordHash, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// requireRow maps "no row touched" onto ErrUserNotFound. RowsAffected is
// also zero for a same-value update, so callers that care about the
// distinction (PATCH) verify existence with GetByID first.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// isDuplicateKey detects MySQL error 1062 (duplicate entry).
func isDuplicateKey(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
