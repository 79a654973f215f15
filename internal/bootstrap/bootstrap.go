// Package bootstrap prepares a fresh database: it guarantees a usable admin
// account and optionally seeds demo content.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/guides/internal/domain"
)

type userRepository interface {
	Create(ctx context.Context, username, passwordHash, displayName string, role domain.UserRole) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Count(ctx context.Context) (int64, error)
	SetPasswordHash(ctx context.Context, id int64, hash string) error
	UpdateAccess(ctx context.Context, id int64, enabled bool, role domain.UserRole) error
	SetStatus(ctx context.Context, id int64, status domain.UserStatus) error
}

type guideRepository interface {
	Create(ctx context.Context, authorID int64, title string, category domain.GuideCategory, templateKey *string, content string) (*domain.Guide, error)
	Count(ctx context.Context) (int64, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

const (
	adminDisplayName = "Administrator"
	demoPassword     = "123456"
	// Seeding is skipped once the database holds more users than this.
	maxUsersForSeed = 3
)

type Bootstrapper struct {
	users  userRepository
	guides guideRepository
	hasher PasswordHasher
	logger *slog.Logger
}

func New(users userRepository, guides guideRepository, hasher PasswordHasher, logger *slog.Logger) *Bootstrapper {
	return &Bootstrapper{users: users, guides: guides, hasher: hasher, logger: logger}
}

// EnsureAdmin creates the admin account or repairs it so that it is an
// enabled, active ADMIN whose password matches the configured one.
func (b *Bootstrapper) EnsureAdmin(ctx context.Context, username, password string) error {
	admin, err := b.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	if admin == nil {
		hash, err := b.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		if _, err := b.users.Create(ctx, username, hash, adminDisplayName, domain.RoleAdmin); err != nil {
			return fmt.Errorf("failed to create admin: %w", err)
		}
		b.logger.Warn("created default admin account, change its password before going live", "username", username)
		return nil
	}

	changed := false
	if admin.Role != domain.RoleAdmin || !admin.Enabled {
		if err := b.users.UpdateAccess(ctx, admin.ID, true, domain.RoleAdmin); err != nil {
			return fmt.Errorf("failed to restore admin access: %w", err)
		}
		changed = true
	}
	if admin.Status != domain.StatusActive {
		if err := b.users.SetStatus(ctx, admin.ID, domain.StatusActive); err != nil {
			return fmt.Errorf("failed to reactivate admin: %w", err)
		}
		changed = true
	}
	if admin.PasswordHash == "" || !b.hasher.Compare(admin.PasswordHash, password) {
		hash, err := b.hasher.Hash(password)
		if err != nil {
			return fmt.Errorf("failed to hash admin password: %w", err)
		}
		if err := b.users.SetPasswordHash(ctx, admin.ID, hash); err != nil {
			return fmt.Errorf("failed to reset admin password: %w", err)
		}
		changed = true
	}

	if changed {
		b.logger.Warn("repaired default admin account, change its password before going live", "username", username)
	}
	return nil
}

type demoUser struct {
	username    string
	displayName string
}

type demoGuide struct {
	author      int
	title       string
	category    domain.GuideCategory
	templateKey string
	content     string
}

var demoUsers = []demoUser{
	{"alice", "Alice"},
	{"bob", "Bob"},
	{"cathy", "Cathy"},
}

var demoGuides = []demoGuide{
	{
		author:      0,
		title:       "3 days in Chengdu: food, tea and sights",
		category:    domain.CategoryTravel,
		templateKey: "itinerary_table",
		content: `# Chengdu in 3 days (sample)

Keywords: Kuanzhai Alley / Chunxi Road / Jinli / hotpot / teahouses

| Day | Place | Transport | Stay | Budget | Notes |
|---|---|---|---|---:|---|
| Day1 | Chunxi Road - Taikoo Li | Metro | Near Chunxi Road | 400 | Hotpot dinner |
| Day2 | Kuanzhai Alley - People's Park | Metro + walk | Same | 350 | Teahouse afternoon |
| Day3 | Jinli - Wuhou Shrine | Taxi | - | 250 | Souvenirs |
`,
	},
	{
		author:      1,
		title:       "Early game walkthrough: a plan that carries you",
		category:    domain.CategoryGame,
		templateKey: "game_build",
		content: `# Early game plan (sample)

## When to use
- Resources are tight early on
- You want steady main quest progress

## Core idea
- Survive first, then add damage
- Grab general purpose gear and skills

## Gear and skills
- Weapon: XXX
- Armor: YYY
- Skills: AAA + BBB

## Tips
- Clear the adds before the boss and keep potions topped up
`,
	},
	{
		author:      2,
		title:       "Learn Vue 3 in 4 weeks (with check-ins)",
		category:    domain.CategoryStudy,
		templateKey: "study_plan",
		content: `# Vue 3 starter plan (sample)

## Goal
- In 4 weeks: components, Router, Pinia and basic tooling

## Weekly plan
| Week | Topic | Tasks | Hours | Outcome |
|---|---|---|---:|---|
| Week1 | Basics | ref/reactive, templates, lifecycle | 6h | Small exercises |
| Week2 | Components | props/emit, slots, composables | 8h | Component kit |
| Week3 | State and routing | Router, Pinia, access control | 8h | Multi page demo |
| Week4 | Project | Build and deploy a small app | 10h | Live site |

## Check-in tips
- Log progress (0-100), what you finished today and tomorrow's plan
`,
	},
}

// SeedDemo fills a nearly empty database with three demo users and one guide
// per category. It does nothing once real data exists.
func (b *Bootstrapper) SeedDemo(ctx context.Context) error {
	userCount, err := b.users.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	guideCount, err := b.guides.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count guides: %w", err)
	}
	if userCount > maxUsersForSeed || guideCount > 0 {
		return nil
	}

	authors := make([]int64, len(demoUsers))
	for i, du := range demoUsers {
		u, err := b.ensureUser(ctx, du)
		if err != nil {
			return err
		}
		authors[i] = u.ID
	}

	for _, g := range demoGuides {
		key := g.templateKey
		if _, err := b.guides.Create(ctx, authors[g.author], g.title, g.category, &key, g.content); err != nil {
			return fmt.Errorf("failed to seed guide %q: %w", g.title, err)
		}
	}
	b.logger.Info("seeded demo data", "users", len(demoUsers), "guides", len(demoGuides))
	return nil
}

func (b *Bootstrapper) ensureUser(ctx context.Context, du demoUser) (*domain.User, error) {
	u, err := b.users.GetByUsername(ctx, du.username)
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s: %w", du.username, err)
	}
	if u != nil {
		return u, nil
	}
	hash, err := b.hasher.Hash(demoPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	u, err = b.users.Create(ctx, du.username, hash, du.displayName, domain.RoleUser)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", du.username, err)
	}
	return u, nil
}
