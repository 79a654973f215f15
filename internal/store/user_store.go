package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/guides/internal/domain"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, username, password_hash, display_name, role, enabled, status, created_at, password_changed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	u := &domain.User{}
	var changed sql.NullTime
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.DisplayName, &u.Role, &u.Enabled, &u.Status, &u.CreatedAt, &changed); err != nil {
		return nil, err
	}
	if changed.Valid {
		t := changed.Time
		u.PasswordChangedAt = &t
	}
	return u, nil
}

func (s *UserStore) Create(ctx context.Context, username, passwordHash, displayName string, role domain.UserRole) (*domain.User, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, password_hash, display_name, role, enabled, status, created_at)
		VALUES (?, ?, ?, ?, 1, 0, ?)
	`, username, passwordHash, displayName, role, time.Now().UTC())
	if err != nil {
		if isConstraint(err) {
			return nil, fmt.Errorf("failed to create user: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// GetByUsername matches case-insensitively.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func (s *UserStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return n, nil
}

func (s *UserStore) UpdateUsername(ctx context.Context, id int64, username string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET username = ? WHERE id = ?`, username, id)
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("failed to update username: %w", ErrConflict)
		}
		return fmt.Errorf("failed to update username: %w", err)
	}
	return checkAffected(result.RowsAffected())
}

// SetPasswordHash replaces the hash without touching password_changed_at.
func (s *UserStore) SetPasswordHash(ctx context.Context, id int64, hash string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
	if err != nil {
		return fmt.Errorf("failed to set password: %w", err)
	}
	return checkAffected(result.RowsAffected())
}

// ChangePassword replaces the hash and records when the user changed it.
func (s *UserStore) ChangePassword(ctx context.Context, id int64, hash string, changedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash = ?, password_changed_at = ? WHERE id = ?
	`, hash, changedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to change password: %w", err)
	}
	return checkAffected(result.RowsAffected())
}

func (s *UserStore) UpdateAccess(ctx context.Context, id int64, enabled bool, role domain.UserRole) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET enabled = ?, role = ? WHERE id = ?`, enabled, role, id)
	if err != nil {
		return fmt.Errorf("failed to update user access: %w", err)
	}
	return checkAffected(result.RowsAffected())
}

func (s *UserStore) SetStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	result, err := s.db.ExecContext(ctx, `UPDATE users SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set user status: %w", err)
	}
	return checkAffected(result.RowsAffected())
}
