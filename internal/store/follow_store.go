package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/guides/internal/domain"
)

type FollowStore struct {
	db *sql.DB
}

func NewFollowStore(db *sql.DB) *FollowStore {
	return &FollowStore{db: db}
}

// Add is idempotent.
func (s *FollowStore) Add(ctx context.Context, userID, followUserID int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO follows (user_id, follow_user_id, created_at) VALUES (?, ?, ?)
	`, userID, followUserID, time.Now().UTC())
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("failed to follow user: %w", ErrConflict)
		}
		return fmt.Errorf("failed to follow user: %w", err)
	}
	return nil
}

func (s *FollowStore) Remove(ctx context.Context, userID, followUserID int64) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM follows WHERE user_id = ? AND follow_user_id = ?
	`, userID, followUserID)
	if err != nil {
		return fmt.Errorf("failed to unfollow user: %w", err)
	}
	return nil
}

func (s *FollowStore) Exists(ctx context.Context, userID, followUserID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM follows WHERE user_id = ? AND follow_user_id = ?
	`, userID, followUserID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return n > 0, nil
}

// ListFollowing returns the users that userID follows, most recent first.
func (s *FollowStore) ListFollowing(ctx context.Context, userID int64) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username, u.password_hash, u.display_name, u.role, u.enabled, u.status, u.created_at, u.password_changed_at
		FROM follows f JOIN users u ON u.id = f.follow_user_id
		WHERE f.user_id = ? ORDER BY f.created_at DESC, f.id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list following: %w", err)
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
		return nil, fmt.Errorf("error iterating following: %w", err)
	}
	return users, nil
}
