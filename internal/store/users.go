package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"blogd/internal/models"
)

// ErrEmailTaken reports a registration attempt for an email that already
// has an account. Uniqueness is enforced by the users.email index, so two
// concurrent registrations cannot both succeed.
var ErrEmailTaken = errors.New("email already registered")

// UserExists checks whether a user exists by id.
func (s *Store) UserExists(id string) (bool, error) {
	var exists int
	err := s.db.QueryRow("SELECT 1 FROM users WHERE id = ? LIMIT 1", id).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// CreateUser inserts a user record.
func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return fmt.Errorf("user is required")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, user_name, email, password_hash, is_admin, profile_pic_key, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		user.ID,
		user.UserName,
		user.Email,
		user.PasswordHash,
		boolToInt(user.IsAdmin),
		user.ProfilePicKey,
		formatTime(user.CreatedAt),
	)
	if isUniqueEmailConstraint(err) {
		return ErrEmailTaken
	}
	return err
}

// GetUserByEmail returns a user by email, or nil when absent.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_name, email, password_hash, is_admin, profile_pic_key, created_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`, email)
	return scanUser(row)
}

// GetUserByID returns a user by id, or nil when absent.
func (s *Store) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_name, email, password_hash, is_admin, profile_pic_key, created_at
		FROM users
		WHERE id = ?
		LIMIT 1
	`, id)
	return scanUser(row)
}

// SetAdminByEmail flips the admin bit on a user. It returns the updated
// user, or nil when no user has that email.
func (s *Store) SetAdminByEmail(ctx context.Context, email string, isAdmin bool) (*models.User, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET is_admin = ? WHERE email = ?",
		boolToInt(isAdmin), strings.TrimSpace(email),
	)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetUserByEmail(ctx, email)
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var isAdmin int
	var createdAt string
	err := row.Scan(&user.ID, &user.UserName, &user.Email, &user.PasswordHash, &isAdmin, &user.ProfilePicKey, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin != 0
	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueEmailConstraint(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed: users.email") ||
		strings.Contains(err.Error(), "idx_users_email")
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// timeLayout is fixed-width so stored timestamps sort lexicographically in
// chronological order; RFC3339Nano trims trailing fractional zeros and
// would mis-sort ".1Z" after ".100000001Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", value, err)
	}
	return t, nil
}
