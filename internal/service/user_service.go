package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vbonduro/guides/internal/domain"
)

// userRepository is the subset of store.UserStore that UserService requires.
type userRepository interface {
	Create(ctx context.Context, username, passwordHash, displayName string, role domain.UserRole) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateUsername(ctx context.Context, id int64, username string) error
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	ChangePassword(ctx context.Context, id int64, hash string, changedAt time.Time) error
	UpdateAccess(ctx context.Context, id int64, enabled bool, role domain.UserRole) error
	SetStatus(ctx context.Context, id int64, status domain.UserStatus) error
}

// PasswordHasher hashes and verifies passwords. auth.PasswordHasher
// implements it with bcrypt.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// maxPasswordBytes is the bcrypt input limit.
const maxPasswordBytes = 72

type UserService struct {
	users        userRepository
	hasher       PasswordHasher
	cooldownDays int
	now          func() time.Time
	logger       *slog.Logger
}

func NewUserService(users userRepository, hasher PasswordHasher, cooldownDays int, logger *slog.Logger) *UserService {
	return &UserService{
		users:        users,
		hasher:       hasher,
		cooldownDays: cooldownDays,
		now:          time.Now,
		logger:       logger,
	}
}

func (s *UserService) hash(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", invalid("password must be at most %d bytes", maxPasswordBytes)
	}
	h, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return h, nil
}

// Register creates an active USER account.
func (s *UserService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.User, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, newError(ErrConflict, "username already exists")
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, req.Username, hash, req.DisplayName, domain.RoleUser)
	if err != nil {
		return nil, storeErr(err, errUserNotFound)
	}
	s.logger.Info("user registered", "user_id", u.ID, "username", u.Username)
	return u, nil
}

// Login verifies credentials. Unknown users, disabled accounts and wrong
// passwords all produce the same error.
func (s *UserService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	u, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if u == nil || !u.Enabled || !s.hasher.Compare(u.PasswordHash, req.Password) {
		return nil, errBadLogin
	}
	if u.Status != domain.StatusActive {
		return nil, errInactive
	}
	return u, nil
}

// Me returns the caller's account. A token for a user that no longer exists
// is treated as unauthenticated.
func (s *UserService) Me(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, newError(ErrUnauthorized, "please log in")
	}
	if u.Status != domain.StatusActive {
		return nil, errInactive
	}
	return u, nil
}

func (s *UserService) activeUser(ctx context.Context, userID int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	if u.Status != domain.StatusActive {
		return nil, forbidden("account is not active")
	}
	return u, nil
}

// UpdateUsername renames the caller. Changing only the letter case of the
// current name is allowed.
func (s *UserService) UpdateUsername(ctx context.Context, userID int64, req domain.UpdateUsernameRequest) error {
	req.Username = strings.TrimSpace(req.Username)
	if err := check(req); err != nil {
		return err
	}

	u, err := s.activeUser(ctx, userID)
	if err != nil {
		return err
	}

	holder, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return err
	}
	if holder != nil && holder.ID != u.ID {
		return newError(ErrConflict, "username already taken")
	}

	if err := s.users.UpdateUsername(ctx, u.ID, req.Username); err != nil {
		if err = storeErr(err, errUserNotFound); errors.Is(err, ErrConflict) {
			return newError(ErrConflict, "username already taken")
		}
		return err
	}
	return nil
}

// UpdatePassword changes the caller's password. Changes are rate limited to
// one per cooldown window.
func (s *UserService) UpdatePassword(ctx context.Context, userID int64, req domain.UpdatePasswordRequest) error {
	if err := check(req); err != nil {
		return err
	}

	u, err := s.activeUser(ctx, userID)
	if err != nil {
		return err
	}

	now := s.now()
	if u.PasswordChangedAt != nil {
		allowedAfter := u.PasswordChangedAt.Add(time.Duration(s.cooldownDays) * 24 * time.Hour)
		if now.Before(allowedAfter) {
			return invalid("password was changed recently, try again in %d days", s.cooldownDays)
		}
	}
	if !s.hasher.Compare(u.PasswordHash, req.OldPassword) {
		return invalid("old password is incorrect")
	}

	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.ChangePassword(ctx, u.ID, hash, now); err != nil {
		return storeErr(err, errUserNotFound)
	}
	s.logger.Info("password changed", "user_id", u.ID)
	return nil
}

// RequireAdmin checks the stored account rather than token claims so that a
// demoted admin loses access immediately.
func (s *UserService) RequireAdmin(ctx context.Context, userID int64) error {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return newError(ErrUnauthorized, "please log in")
	}
	if u.Role != domain.RoleAdmin || !u.Enabled || u.Status != domain.StatusActive {
		return forbidden("admin access required")
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]domain.AdminUser, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.AdminUser, 0, len(users))
	for _, u := range users {
		out = append(out, domain.AdminUser{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Role:        u.Role,
			Enabled:     u.Enabled,
			Status:      u.Status,
			CreatedAt:   u.CreatedAt,
		})
	}
	return out, nil
}

func (s *UserService) requireUser(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, errUserNotFound
	}
	return u, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, req domain.AdminUpdateUserRequest) error {
	if err := check(req); err != nil {
		return err
	}
	if _, err := s.requireUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.UpdateAccess(ctx, id, *req.Enabled, req.Role); err != nil {
		return storeErr(err, errUserNotFound)
	}
	s.logger.Info("user access updated", "user_id", id, "enabled", *req.Enabled, "role", req.Role)
	return nil
}

func (s *UserService) SetStatus(ctx context.Context, id int64, req domain.StatusRequest) error {
	if err := check(req); err != nil {
		return err
	}
	if _, err := s.requireUser(ctx, id); err != nil {
		return err
	}
	status := domain.UserStatus(*req.Status)
	if err := s.users.SetStatus(ctx, id, status); err != nil {
		return storeErr(err, errUserNotFound)
	}
	s.logger.Info("user status updated", "user_id", id, "status", status)
	return nil
}

// ResetPassword sets a new password on behalf of the user. It does not start
// the user's change cooldown.
func (s *UserService) ResetPassword(ctx context.Context, id int64, req domain.ResetPasswordRequest) error {
	if err := check(req); err != nil {
		return err
	}
	if _, err := s.requireUser(ctx, id); err != nil {
		return err
	}
	hash, err := s.hash(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.users.SetPasswordHash(ctx, id, hash); err != nil {
		return storeErr(err, errUserNotFound)
	}
	s.logger.Info("password reset by admin", "user_id", id)
	return nil
}

// DeactivateUser is the admin delete. Rows are kept so the user's guides and
// comments remain, shown under the deactivated name.
func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	if _, err := s.requireUser(ctx, id); err != nil {
		return err
	}
	if err := s.users.SetStatus(ctx, id, domain.StatusDeactivated); err != nil {
		return storeErr(err, errUserNotFound)
	}
	s.logger.Info("user deactivated", "user_id", id)
	return nil
}
