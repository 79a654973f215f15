package service

import (
	"context"
	"log/slog"

	"github.com/vbonduro/guides/internal/domain"
)

// followRepository is the subset of store.FollowStore that FollowService requires.
type followRepository interface {
	Add(ctx context.Context, userID, followUserID int64) error
	Remove(ctx context.Context, userID, followUserID int64) error
	Exists(ctx context.Context, userID, followUserID int64) (bool, error)
	ListFollowing(ctx context.Context, userID int64) ([]*domain.User, error)
}

// userLookup is the subset of store.UserStore that FollowService requires.
type userLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

type FollowService struct {
	follows followRepository
	users   userLookup
	logger  *slog.Logger
}

func NewFollowService(follows followRepository, users userLookup, logger *slog.Logger) *FollowService {
	return &FollowService{follows: follows, users: users, logger: logger}
}

// Follow is idempotent.
func (s *FollowService) Follow(ctx context.Context, userID, targetID int64) error {
	if userID == targetID {
		return invalid("you cannot follow yourself")
	}
	target, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}
	if target == nil {
		return errUserNotFound
	}
	if err := s.follows.Add(ctx, userID, targetID); err != nil {
		return storeErr(err, errUserNotFound)
	}
	s.logger.Debug("user followed", "user_id", userID, "target_id", targetID)
	return nil
}

func (s *FollowService) Unfollow(ctx context.Context, userID, targetID int64) error {
	return s.follows.Remove(ctx, userID, targetID)
}

// IsFollowing is false for anonymous callers (userID zero).
func (s *FollowService) IsFollowing(ctx context.Context, userID, targetID int64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.follows.Exists(ctx, userID, targetID)
}

// Following lists the users the caller follows, most recently followed
// first.
func (s *FollowService) Following(ctx context.Context, userID int64) ([]domain.UserBrief, error) {
	users, err := s.follows.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.UserBrief, 0, len(users))
	for _, u := range users {
		out = append(out, domain.UserBrief{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Following:   true,
		})
	}
	return out, nil
}
