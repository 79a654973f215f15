package domain

import "time"

// The types below are the JSON shapes exchanged between the server and the
// client SDK. Request types carry go-playground/validator rules that the
// service layer enforces.

type UserInfo struct {
	ID          int64    `json:"id"`
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Role        UserRole `json:"role"`
}

type AuthResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type Template struct {
	Key             string        `json:"key"`
	Name            string        `json:"name"`
	CategoryHint    GuideCategory `json:"categoryHint"`
	StarterMarkdown string        `json:"starterMarkdown"`
}

type GuideCard struct {
	ID            int64         `json:"id"`
	AuthorID      int64         `json:"authorId"`
	Title         string        `json:"title"`
	Category      GuideCategory `json:"category"`
	TemplateKey   *string       `json:"templateKey"`
	AuthorName    string        `json:"authorName"`
	CreatedAt     time.Time     `json:"createdAt"`
	LikeCount     int64         `json:"likeCount"`
	FavoriteCount int64         `json:"favoriteCount"`
}

type GuideDetail struct {
	ID              int64         `json:"id"`
	AuthorID        int64         `json:"authorId"`
	Title           string        `json:"title"`
	Category        GuideCategory `json:"category"`
	TemplateKey     *string       `json:"templateKey"`
	ContentMarkdown string        `json:"contentMarkdown"`
	AuthorName      string        `json:"authorName"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
	LikeCount       int64         `json:"likeCount"`
	FavoriteCount   int64         `json:"favoriteCount"`
	Liked           bool          `json:"liked"`
	Favorited       bool          `json:"favorited"`
	CheckinCount    int64         `json:"checkinCount"`
	CheckinToday    bool          `json:"checkinToday"`
}

type CheckInRecord struct {
	ID          int64     `json:"id"`
	GuideID     int64     `json:"guideId"`
	GuideTitle  string    `json:"guideTitle"`
	CheckinDate string    `json:"checkinDate"`
	CreatedAt   time.Time `json:"createdAt"`
}

type GuideSimple struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserBrief struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Following   bool   `json:"following"`
}

type AdminUser struct {
	ID          int64      `json:"id"`
	Username    string     `json:"username"`
	DisplayName string     `json:"displayName"`
	Role        UserRole   `json:"role"`
	Enabled     bool       `json:"enabled"`
	Status      UserStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Page is one slice of a paginated listing. Number is zero-based.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

func NewPage[T any](content []T, total int64, number, size int) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{Content: content, TotalElements: total, TotalPages: pages, Number: number, Size: size}
}

type RegisterRequest struct {
	Username    string `json:"username" validate:"required,notblank,min=3,max=32"`
	Password    string `json:"password" validate:"required,notblank,min=6,max=72"`
	DisplayName string `json:"displayName" validate:"required,notblank,min=1,max=32"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required,notblank"`
	Password string `json:"password" validate:"required,notblank"`
}

type UpsertGuideRequest struct {
	Title           string        `json:"title" validate:"required,notblank,max=120"`
	Category        GuideCategory `json:"category" validate:"required,oneof=TRAVEL GAME STUDY"`
	TemplateKey     *string       `json:"templateKey"`
	ContentMarkdown string        `json:"contentMarkdown" validate:"required,notblank"`
}

type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,notblank,max=800"`
}

type UpsertCheckInRequest struct {
	Day      string  `json:"day" validate:"required,datetime=2006-01-02"`
	Progress *int    `json:"progress" validate:"required,min=0,max=100"`
	Note     *string `json:"note" validate:"omitempty,max=400"`
}

type UpdateUsernameRequest struct {
	Username string `json:"username" validate:"required,notblank,min=3,max=32"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required,notblank"`
	NewPassword string `json:"newPassword" validate:"required,notblank,min=6,max=72"`
}

type AdminUpdateUserRequest struct {
	Enabled *bool    `json:"enabled" validate:"required"`
	Role    UserRole `json:"role" validate:"required,oneof=USER ADMIN"`
}

type StatusRequest struct {
	Status *int `json:"status" validate:"required,min=0,max=2"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type DraftTemplateRequest struct {
	Category GuideCategory `json:"category" validate:"required,oneof=TRAVEL GAME STUDY"`
	Topic    string        `json:"topic" validate:"required,notblank,max=200"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}
