package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ReactionStore records a per-user toggle on a guide. Likes and favorites
// share the same shape and differ only in the backing table.
type ReactionStore struct {
	db    *sql.DB
	table string
	noun  string
}

func NewLikeStore(db *sql.DB) *ReactionStore {
	return &ReactionStore{db: db, table: "guide_likes", noun: "like"}
}

func NewFavoriteStore(db *sql.DB) *ReactionStore {
	return &ReactionStore{db: db, table: "guide_favorites", noun: "favorite"}
}

// Add is idempotent: adding an existing reaction is a no-op.
func (s *ReactionStore) Add(ctx context.Context, userID, guideID int64) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO `+s.table+` (user_id, guide_id, created_at) VALUES (?, ?, ?)`,
		userID, guideID, time.Now().UTC())
	if err != nil {
		if isConstraint(err) {
			return fmt.Errorf("failed to add %s: %w", s.noun, ErrConflict)
		}
		return fmt.Errorf("failed to add %s: %w", s.noun, err)
	}
	return nil
}

// Remove is idempotent: removing a missing reaction is a no-op.
func (s *ReactionStore) Remove(ctx context.Context, userID, guideID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM `+s.table+` WHERE user_id = ? AND guide_id = ?`, userID, guideID)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", s.noun, err)
	}
	return nil
}

func (s *ReactionStore) Exists(ctx context.Context, userID, guideID int64) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+s.table+` WHERE user_id = ? AND guide_id = ?`, userID, guideID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", s.noun, err)
	}
	return n > 0, nil
}

func (s *ReactionStore) CountByGuide(ctx context.Context, guideID int64) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM `+s.table+` WHERE guide_id = ?`, guideID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count %ss: %w", s.noun, err)
	}
	return n, nil
}
