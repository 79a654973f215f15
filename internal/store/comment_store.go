package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/guides/internal/domain"
)

type CommentStore struct {
	db *sql.DB
}

func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentSelect = `
	SELECT c.id, c.guide_id, c.user_id, u.display_name, u.status, c.content, c.created_at
	FROM comments c JOIN users u ON u.id = c.user_id`

func scanComment(row rowScanner) (*domain.Comment, error) {
	c := &domain.Comment{}
	if err := row.Scan(&c.ID, &c.GuideID, &c.UserID, &c.UserName, &c.UserStatus, &c.Content, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CommentStore) Create(ctx context.Context, guideID, userID int64, content string) (*domain.Comment, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO comments (guide_id, user_id, content, created_at) VALUES (?, ?, ?, ?)
	`, guideID, userID, content, time.Now().UTC())
	if err != nil {
		if isConstraint(err) {
			return nil, fmt.Errorf("failed to create comment: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	c, err := scanComment(s.db.QueryRowContext(ctx, commentSelect+` WHERE c.id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	return c, nil
}

// ListByGuide returns comments oldest first.
func (s *CommentStore) ListByGuide(ctx context.Context, guideID int64) ([]*domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, commentSelect+`
		WHERE c.guide_id = ? ORDER BY c.created_at ASC, c.id ASC
	`, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating comments: %w", err)
	}
	return comments, nil
}
