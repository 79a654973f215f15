package client

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"

	"github.com/vbonduro/guides/internal/domain"
)

func guidePath(id int64, suffix string) string {
	return "/api/guides/" + strconv.FormatInt(id, 10) + suffix
}

func userPath(id int64, suffix string) string {
	return "/api/users/" + strconv.FormatInt(id, 10) + suffix
}

func adminUserPath(id int64, suffix string) string {
	return "/api/admin/users/" + strconv.FormatInt(id, 10) + suffix
}

// getJSON issues a GET and decodes the response body as T.
func getJSON[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	if err := c.do(ctx, http.MethodGet, path, query, nil, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.UserInfo, error) {
	var u domain.UserInfo
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, req, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and stores the returned token and user in the
// client's AuthStore.
func (c *Client) Login(ctx context.Context, username, password string) (*domain.AuthResponse, error) {
	var resp domain.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, domain.LoginRequest{Username: username, Password: password}, &resp); err != nil {
		return nil, err
	}
	if err := c.auth.SetAuth(resp.Token, resp.User); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout forgets the stored login. The server keeps no session to end.
func (c *Client) Logout() error {
	return c.auth.Logout()
}

func (c *Client) Me(ctx context.Context) (*domain.UserInfo, error) {
	var u domain.UserInfo
	if err := c.do(ctx, http.MethodGet, "/api/me", nil, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUsername(ctx context.Context, username string) error {
	return c.do(ctx, http.MethodPatch, "/api/me/username", nil, domain.UpdateUsernameRequest{Username: username}, nil)
}

func (c *Client) UpdatePassword(ctx context.Context, oldPassword, newPassword string) error {
	return c.do(ctx, http.MethodPatch, "/api/me/password", nil,
		domain.UpdatePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword}, nil)
}

func (c *Client) MyGuides(ctx context.Context) ([]domain.GuideSimple, error) {
	return getJSON[[]domain.GuideSimple](ctx, c, "/api/me/guides", nil)
}

func (c *Client) MyFavorites(ctx context.Context) ([]domain.GuideSimple, error) {
	return getJSON[[]domain.GuideSimple](ctx, c, "/api/me/favorites", nil)
}

func (c *Client) MyCheckIns(ctx context.Context) ([]domain.CheckInRecord, error) {
	return getJSON[[]domain.CheckInRecord](ctx, c, "/api/me/checkins", nil)
}

func (c *Client) MyFollowing(ctx context.Context) ([]domain.UserBrief, error) {
	return getJSON[[]domain.UserBrief](ctx, c, "/api/me/following", nil)
}

// Feed pages through guides by followed authors. Zero size uses the server
// default.
func (c *Client) Feed(ctx context.Context, page, size int) ([]domain.GuideCard, error) {
	q := url.Values{"page": {strconv.Itoa(page)}}
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	return getJSON[[]domain.GuideCard](ctx, c, "/api/me/feed", q)
}

// ListGuidesParams filter a guide listing. Zero values use server defaults.
type ListGuidesParams struct {
	Category domain.GuideCategory
	Query    string
	Page     int
	Size     int
	Sort     string
}

func (p ListGuidesParams) values() url.Values {
	q := url.Values{}
	if p.Category != "" {
		q.Set("category", string(p.Category))
	}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Page > 0 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	if p.Size > 0 {
		q.Set("size", strconv.Itoa(p.Size))
	}
	if p.Sort != "" {
		q.Set("sort", p.Sort)
	}
	return q
}

func (c *Client) ListGuides(ctx context.Context, p ListGuidesParams) (*domain.Page[domain.GuideCard], error) {
	var out domain.Page[domain.GuideCard]
	if err := c.do(ctx, http.MethodGet, "/api/guides", p.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetGuide(ctx context.Context, id int64) (*domain.GuideDetail, error) {
	var out domain.GuideDetail
	if err := c.do(ctx, http.MethodGet, guidePath(id, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateGuide(ctx context.Context, req domain.UpsertGuideRequest) (*domain.GuideDetail, error) {
	var out domain.GuideDetail
	if err := c.do(ctx, http.MethodPost, "/api/guides", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateGuide(ctx context.Context, id int64, req domain.UpsertGuideRequest) (*domain.GuideDetail, error) {
	var out domain.GuideDetail
	if err := c.do(ctx, http.MethodPut, guidePath(id, ""), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteGuide(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, guidePath(id, ""), nil, nil, nil)
}

func (c *Client) Like(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, guidePath(id, "/like"), nil, nil, nil)
}

func (c *Client) Unlike(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, guidePath(id, "/like"), nil, nil, nil)
}

func (c *Client) Favorite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, guidePath(id, "/favorite"), nil, nil, nil)
}

func (c *Client) Unfavorite(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, guidePath(id, "/favorite"), nil, nil, nil)
}

func (c *Client) ListComments(ctx context.Context, guideID int64) ([]domain.Comment, error) {
	return getJSON[[]domain.Comment](ctx, c, guidePath(guideID, "/comments"), nil)
}

func (c *Client) CreateComment(ctx context.Context, guideID int64, content string) (*domain.Comment, error) {
	var out domain.Comment
	if err := c.do(ctx, http.MethodPost, guidePath(guideID, "/comments"), nil, domain.CreateCommentRequest{Content: content}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListCheckIns(ctx context.Context, guideID int64) ([]domain.CheckIn, error) {
	return getJSON[[]domain.CheckIn](ctx, c, guidePath(guideID, "/checkins"), nil)
}

func (c *Client) UpsertCheckIn(ctx context.Context, guideID int64, req domain.UpsertCheckInRequest) (*domain.CheckIn, error) {
	var out domain.CheckIn
	if err := c.do(ctx, http.MethodPost, guidePath(guideID, "/checkins"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Follow(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodPost, userPath(userID, "/follow"), nil, nil, nil)
}

func (c *Client) Unfollow(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, userPath(userID, "/follow"), nil, nil, nil)
}

func (c *Client) IsFollowing(ctx context.Context, userID int64) (bool, error) {
	return getJSON[bool](ctx, c, userPath(userID, "/following"), nil)
}

func (c *Client) ListTemplates(ctx context.Context) ([]domain.Template, error) {
	return getJSON[[]domain.Template](ctx, c, "/api/templates", nil)
}

func (c *Client) DraftTemplate(ctx context.Context, category domain.GuideCategory, topic string) (*domain.Template, error) {
	var out domain.Template
	if err := c.do(ctx, http.MethodPost, "/api/templates/draft", nil, domain.DraftTemplateRequest{Category: category, Topic: topic}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Upload sends an image as multipart field "file" and returns its public
// URL path.
func (c *Client) Upload(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
		if contentType != "" {
			h.Set("Content-Type", contentType)
		}
		part, err := mw.CreatePart(h)
		if err == nil {
			_, err = io.Copy(part, r)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("/api/upload", nil), pr)
	if err != nil {
		_ = pr.Close()
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out domain.UploadResponse
	if err := c.send(req, &out); err != nil {
		_ = pr.CloseWithError(err)
		return "", err
	}
	return out.URL, nil
}

func (c *Client) AdminListUsers(ctx context.Context) ([]domain.AdminUser, error) {
	return getJSON[[]domain.AdminUser](ctx, c, "/api/admin/users", nil)
}

func (c *Client) AdminUpdateUser(ctx context.Context, id int64, enabled bool, role domain.UserRole) error {
	return c.do(ctx, http.MethodPut, adminUserPath(id, ""), nil, domain.AdminUpdateUserRequest{Enabled: &enabled, Role: role}, nil)
}

func (c *Client) AdminSetStatus(ctx context.Context, id int64, status domain.UserStatus) error {
	s := int(status)
	return c.do(ctx, http.MethodPatch, adminUserPath(id, "/status"), nil, domain.StatusRequest{Status: &s}, nil)
}

func (c *Client) AdminResetPassword(ctx context.Context, id int64, newPassword string) error {
	return c.do(ctx, http.MethodPost, adminUserPath(id, "/reset-password"), nil, domain.ResetPasswordRequest{NewPassword: newPassword}, nil)
}

func (c *Client) AdminDeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, adminUserPath(id, ""), nil, nil, nil)
}
