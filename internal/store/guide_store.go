package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/guides/internal/domain"
)

type GuideStore struct {
	db *sql.DB
}

func NewGuideStore(db *sql.DB) *GuideStore {
	return &GuideStore{db: db}
}

// GuideSort selects the ordering of guide listings.
type GuideSort string

const (
	SortLatest  GuideSort = "latest"
	SortUpdated GuideSort = "updated"
)

// GuideQuery filters a guide search. Zero values mean "no filter".
type GuideQuery struct {
	Category domain.GuideCategory
	Text     string
	Sort     GuideSort
	Limit    int
	Offset   int
}

const guideSelect = `
	SELECT g.id, g.author_id, u.display_name, u.status, g.title, g.category, g.template_key,
	       g.content_markdown, g.created_at, g.updated_at, g.deleted
	FROM guides g JOIN users u ON u.id = g.author_id`

func scanGuide(row rowScanner) (*domain.Guide, error) {
	g := &domain.Guide{}
	var templateKey sql.NullString
	if err := row.Scan(&g.ID, &g.AuthorID, &g.AuthorName, &g.AuthorStatus, &g.Title, &g.Category, &templateKey,
		&g.ContentMarkdown, &g.CreatedAt, &g.UpdatedAt, &g.Deleted); err != nil {
		return nil, err
	}
	if templateKey.Valid {
		k := templateKey.String
		g.TemplateKey = &k
	}
	return g, nil
}

func (s *GuideStore) queryGuides(ctx context.Context, query string, args ...any) ([]*domain.Guide, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list guides: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var guides []*domain.Guide
	for rows.Next() {
		g, err := scanGuide(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan guide: %w", err)
		}
		guides = append(guides, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guides: %w", err)
	}
	return guides, nil
}

func (s *GuideStore) Create(ctx context.Context, authorID int64, title string, category domain.GuideCategory, templateKey *string, content string) (*domain.Guide, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO guides (author_id, title, category, template_key, content_markdown, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, authorID, title, category, templateKey, content, now, now)
	if err != nil {
		if isConstraint(err) {
			return nil, fmt.Errorf("failed to create guide: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to create guide: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

// GetByID returns nil for missing and soft-deleted guides.
func (s *GuideStore) GetByID(ctx context.Context, id int64) (*domain.Guide, error) {
	g, err := scanGuide(s.db.QueryRowContext(ctx, guideSelect+` WHERE g.id = ? AND g.deleted = 0`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get guide: %w", err)
	}
	return g, nil
}

// Search returns one page of non-deleted guides matching q together with the
// total number of matches.
func (s *GuideStore) Search(ctx context.Context, q GuideQuery) ([]*domain.Guide, int64, error) {
	var (
		where []string
		args  []any
	)
	where = append(where, "g.deleted = 0")
	if q.Category != "" {
		where = append(where, "g.category = ?")
		args = append(args, q.Category)
	}
	if text := strings.TrimSpace(q.Text); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		where = append(where, "(LOWER(g.title) LIKE ? OR LOWER(g.content_markdown) LIKE ?)")
		args = append(args, pattern, pattern)
	}
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guides g`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count guides: %w", err)
	}

	order := " ORDER BY g.created_at DESC, g.id DESC"
	if q.Sort == SortUpdated {
		order = " ORDER BY g.updated_at DESC, g.id DESC"
	}
	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	pageArgs := append(append([]any{}, args...), limit, q.Offset)

	guides, err := s.queryGuides(ctx, guideSelect+clause+order+` LIMIT ? OFFSET ?`, pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return guides, total, nil
}

func (s *GuideStore) Update(ctx context.Context, id int64, title string, category domain.GuideCategory, templateKey *string, content string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE guides SET title = ?, category = ?, template_key = ?, content_markdown = ?, updated_at = ?
		WHERE id = ? AND deleted = 0
	`, title, category, templateKey, content, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update guide: %w", err)
	}
	return checkAffected(result.RowsAffected())
}

// SoftDelete marks the guide deleted. Its likes, comments and check-ins are
// kept but no longer reachable through listings.
func (s *GuideStore) SoftDelete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE guides SET deleted = 1 WHERE id = ? AND deleted = 0`, id)
	if err != nil {
		return fmt.Errorf("failed to delete guide: %w", err)
	}
	return checkAffected(result.RowsAffected())
}

func (s *GuideStore) ListByAuthor(ctx context.Context, authorID int64, limit int) ([]*domain.Guide, error) {
	return s.queryGuides(ctx, guideSelect+`
		WHERE g.author_id = ? AND g.deleted = 0
		ORDER BY g.created_at DESC, g.id DESC LIMIT ?
	`, authorID, limit)
}

// ListFavoritedBy returns the user's favorited guides, most recently
// favorited first.
func (s *GuideStore) ListFavoritedBy(ctx context.Context, userID int64) ([]*domain.Guide, error) {
	return s.queryGuides(ctx, guideSelect+`
		JOIN guide_favorites f ON f.guide_id = g.id
		WHERE f.user_id = ? AND g.deleted = 0
		ORDER BY f.created_at DESC, f.id DESC
	`, userID)
}

// ListByFollowedAuthors returns guides written by anyone the user follows,
// newest first.
func (s *GuideStore) ListByFollowedAuthors(ctx context.Context, userID int64, limit, offset int) ([]*domain.Guide, error) {
	return s.queryGuides(ctx, guideSelect+`
		WHERE g.deleted = 0 AND g.author_id IN (SELECT follow_user_id FROM follows WHERE user_id = ?)
		ORDER BY g.created_at DESC, g.id DESC LIMIT ? OFFSET ?
	`, userID, limit, offset)
}

func (s *GuideStore) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM guides`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count guides: %w", err)
	}
	return n, nil
}
