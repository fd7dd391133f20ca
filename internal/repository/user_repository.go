package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// Roles recognised by the system. Staff (lecturer, admin) authenticate
// with email and password; students authenticate with their student code.
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RoleAdmin    = "admin"
)

// NoPassword is stored in place of a bcrypt hash for student identities.
// Students never log in with a password, and the value can never match a
// bcrypt comparison, so student accounts are locked out of staff login.
const NoPassword = "not_used"

// User mirrors the 'users' table. It is the identity record for every
// authenticated principal regardless of role.
type User struct {
	ID           uint64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. The email is normalized to
// lower case before insert so uniqueness is case-insensitive.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, passwordHash, role)
	if err != nil {
		if isDuplicate(err) {
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

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,is_active,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,email,password_hash,role,is_active,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return User{}, ErrUserNotFound
	}
	return u, err
}

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062). The driver does not export a typed error for it, so the
// code is matched in the message.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
