package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vbonduro/guides/internal/domain"
)

type CheckInStore struct {
	db *sql.DB
}

func NewCheckInStore(db *sql.DB) *CheckInStore {
	return &CheckInStore{db: db}
}

const checkInColumns = `id, user_id, guide_id, check_day, progress, note, created_at`

func scanCheckIn(row rowScanner) (*domain.CheckIn, error) {
	c := &domain.CheckIn{}
	var note sql.NullString
	if err := row.Scan(&c.ID, &c.UserID, &c.GuideID, &c.Day, &c.Progress, &note, &c.CreatedAt); err != nil {
		return nil, err
	}
	if note.Valid {
		n := note.String
		c.Note = &n
	}
	return c, nil
}

// Upsert records progress for (user, guide, day). An existing record for the
// same day has its progress and note replaced; created_at is preserved.
func (s *CheckInStore) Upsert(ctx context.Context, userID, guideID int64, day string, progress int, note *string) (*domain.CheckIn, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_checkins (user_id, guide_id, check_day, progress, note, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, guide_id, check_day) DO UPDATE SET progress = excluded.progress, note = excluded.note
	`, userID, guideID, day, progress, note, time.Now().UTC())
	if err != nil {
		if isConstraint(err) {
			return nil, fmt.Errorf("failed to save check-in: %w", ErrConflict)
		}
		return nil, fmt.Errorf("failed to save check-in: %w", err)
	}

	c, err := s.Get(ctx, userID, guideID, day)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("failed to save check-in: %w", ErrNotFound)
	}
	return c, nil
}

func (s *CheckInStore) Get(ctx context.Context, userID, guideID int64, day string) (*domain.CheckIn, error) {
	c, err := scanCheckIn(s.db.QueryRowContext(ctx, `
		SELECT `+checkInColumns+` FROM study_checkins WHERE user_id = ? AND guide_id = ? AND check_day = ?
	`, userID, guideID, day))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get check-in: %w", err)
	}
	return c, nil
}

// ListByUserAndGuide returns the user's check-ins on a guide, earliest day
// first.
func (s *CheckInStore) ListByUserAndGuide(ctx context.Context, userID, guideID int64) ([]*domain.CheckIn, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+checkInColumns+` FROM study_checkins
		WHERE user_id = ? AND guide_id = ? ORDER BY check_day ASC, id ASC
	`, userID, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-ins: %w", err)
	}
	defer rows.Close()

	var out []*domain.CheckIn
	for rows.Next() {
		c, err := scanCheckIn(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan check-in: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-ins: %w", err)
	}
	return out, nil
}

// CountUsers returns how many distinct users have checked in on the guide.
func (s *CheckInStore) CountUsers(ctx context.Context, guideID int64) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT user_id) FROM study_checkins WHERE guide_id = ?
	`, guideID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count check-ins: %w", err)
	}
	return n, nil
}

// ListRecordsByUser returns the user's check-ins across non-deleted guides,
// most recently recorded first.
func (s *CheckInStore) ListRecordsByUser(ctx context.Context, userID int64, limit int) ([]domain.CheckInRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.guide_id, g.title, c.check_day, c.created_at
		FROM study_checkins c JOIN guides g ON g.id = c.guide_id
		WHERE c.user_id = ? AND g.deleted = 0
		ORDER BY c.created_at DESC, c.id DESC LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list check-in records: %w", err)
	}
	defer rows.Close()

	var out []domain.CheckInRecord
	for rows.Next() {
		var r domain.CheckInRecord
		if err := rows.Scan(&r.ID, &r.GuideID, &r.GuideTitle, &r.CheckinDate, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check-in record: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating check-in records: %w", err)
	}
	return out, nil
}
