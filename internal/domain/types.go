package domain

import "time"

type GuideCategory string

const (
	CategoryTravel GuideCategory = "TRAVEL"
	CategoryGame   GuideCategory = "GAME"
	CategoryStudy  GuideCategory = "STUDY"
)

func (c GuideCategory) Valid() bool {
	switch c {
	case CategoryTravel, CategoryGame, CategoryStudy:
		return true
	}
	return false
}

// SupportsCheckIn reports whether readers can record daily progress against
// guides of this category.
func (c GuideCategory) SupportsCheckIn() bool {
	return c == CategoryStudy || c == CategoryGame
}

type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

func (r UserRole) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// UserStatus is the account lifecycle state. Accounts are never physically
// deleted; deactivation sets StatusDeactivated.
type UserStatus int

const (
	StatusActive      UserStatus = 0
	StatusBanned      UserStatus = 1
	StatusDeactivated UserStatus = 2
)

func (s UserStatus) Valid() bool {
	return s >= StatusActive && s <= StatusDeactivated
}

// DeactivatedName replaces the display name of deactivated accounts wherever
// it is shown to other users.
const DeactivatedName = "Deactivated user"

type User struct {
	ID                int64
	Username          string
	PasswordHash      string
	DisplayName       string
	Role              UserRole
	Enabled           bool
	Status            UserStatus
	CreatedAt         time.Time
	PasswordChangedAt *time.Time
}

func (u *User) PublicName() string {
	return PublicName(u.DisplayName, u.Status)
}

func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName, Role: u.Role}
}

func PublicName(displayName string, status UserStatus) string {
	if status == StatusDeactivated {
		return DeactivatedName
	}
	return displayName
}

type Guide struct {
	ID              int64
	AuthorID        int64
	AuthorName      string
	AuthorStatus    UserStatus
	Title           string
	Category        GuideCategory
	TemplateKey     *string
	ContentMarkdown string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Deleted         bool
}

func (g *Guide) AuthorPublicName() string {
	return PublicName(g.AuthorName, g.AuthorStatus)
}

type Comment struct {
	ID         int64      `json:"id"`
	GuideID    int64      `json:"-"`
	UserID     int64      `json:"-"`
	UserName   string     `json:"userName"`
	UserStatus UserStatus `json:"-"`
	Content    string     `json:"content"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// CheckIn is one user's progress on a guide for a single calendar day.
type CheckIn struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"-"`
	GuideID   int64     `json:"-"`
	Day       string    `json:"day"`
	Progress  int       `json:"progress"`
	Note      *string   `json:"note"`
	CreatedAt time.Time `json:"createdAt"`
}

type Follow struct {
	ID           int64
	UserID       int64
	FollowUserID int64
	CreatedAt    time.Time
}

// DayLayout is the calendar-day format used for check-ins.
const DayLayout = "2006-01-02"
