package client_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vbonduro/guides/internal/auth"
	"github.com/vbonduro/guides/internal/client"
	"github.com/vbonduro/guides/internal/db"
	"github.com/vbonduro/guides/internal/domain"
	"github.com/vbonduro/guides/internal/service"
	"github.com/vbonduro/guides/internal/store"
	"github.com/vbonduro/guides/internal/uploadstore/local"
	"github.com/vbonduro/guides/internal/web"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.OpenForTesting()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := store.NewUserStore(database)
	uploads, err := local.NewLocalUploadStore(t.TempDir(), logger)
	require.NoError(t, err)

	srv := httptest.NewServer(web.NewServer(web.Deps{
		Users: service.NewUserService(users, &auth.PasswordHasher{Cost: bcrypt.MinCost}, 7, logger),
		Guides: service.NewGuideService(store.NewGuideStore(database),
			store.NewLikeStore(database), store.NewFavoriteStore(database),
			store.NewCommentStore(database), store.NewCheckInStore(database), logger),
		Follows:   service.NewFollowService(store.NewFollowStore(database), users, logger),
		Templates: service.NewTemplateService(nil, logger),
		Uploads:   uploads,
		Tokens:    auth.NewTokenIssuer("test-secret", "guides", time.Hour),
		Logger:    logger,
	}))
	t.Cleanup(func() {
		srv.Close()
		_ = database.Close()
	})
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *client.Client {
	t.Helper()
	c, err := client.New(srv.URL, client.NewAuthStore(client.NewMemoryStorage()))
	require.NoError(t, err)
	return c
}

func signUp(t *testing.T, c *client.Client, username string) *domain.UserInfo {
	t.Helper()
	ctx := context.Background()
	_, err := c.Register(ctx, domain.RegisterRequest{Username: username, Password: "secret123", DisplayName: strings.ToUpper(username)})
	require.NoError(t, err)
	resp, err := c.Login(ctx, username, "secret123")
	require.NoError(t, err)
	return &resp.User
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := client.New("localhost:8082", nil)
	assert.Error(t, err)
	_, err = client.New("://nope", nil)
	assert.Error(t, err)
}

func TestClientLoginStoresAuth(t *testing.T) {
	srv := newServer(t)
	path := filepath.Join(t.TempDir(), "auth.json")
	storage, err := client.NewFileStorage(path)
	require.NoError(t, err)
	c, err := client.New(srv.URL+"/", client.NewAuthStore(storage))
	require.NoError(t, err)

	u := signUp(t, c, "alice")
	assert.Equal(t, "alice", c.Auth().User().Username)
	assert.NotEmpty(t, c.Auth().Token())

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	// A second client over the same file is already logged in.
	reopened, err := client.NewFileStorage(path)
	require.NoError(t, err)
	c2, err := client.New(srv.URL, client.NewAuthStore(reopened))
	require.NoError(t, err)
	me, err = c2.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, u.ID, me.ID)

	require.NoError(t, c.Logout())
	_, err = c.Me(context.Background())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "please log in", apiErr.Message)
}

func TestClientAPIError(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)

	_, err := c.Login(context.Background(), "ghost", "whatever1")
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "invalid username or password", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "401")
	assert.False(t, c.Auth().LoggedIn())
}

func TestClientPlainTextError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := client.New(srv.URL, nil)
	require.NoError(t, err)
	_, err = c.ListTemplates(context.Background())
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream down", apiErr.Message)
}

func TestClientGuideFlow(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()
	author := newClient(t, srv)
	reader := newClient(t, srv)
	authorInfo := signUp(t, author, "alice")
	signUp(t, reader, "bob")

	tpls, err := reader.ListTemplates(ctx)
	require.NoError(t, err)
	require.Len(t, tpls, 3)

	g, err := author.CreateGuide(ctx, domain.UpsertGuideRequest{
		Title: "Go in a month", Category: domain.CategoryStudy, ContentMarkdown: tpls[1].StarterMarkdown,
	})
	require.NoError(t, err)

	page, err := reader.ListGuides(ctx, client.ListGuidesParams{Category: domain.CategoryStudy, Query: "go"})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, g.ID, page.Content[0].ID)

	require.NoError(t, reader.Like(ctx, g.ID))
	require.NoError(t, reader.Favorite(ctx, g.ID))
	_, err = reader.CreateComment(ctx, g.ID, "nice plan")
	require.NoError(t, err)
	progress := 10
	_, err = reader.UpsertCheckIn(ctx, g.ID, domain.UpsertCheckInRequest{Day: "2024-06-01", Progress: &progress})
	require.NoError(t, err)

	detail, err := reader.GetGuide(ctx, g.ID)
	require.NoError(t, err)
	assert.True(t, detail.Liked)
	assert.True(t, detail.Favorited)
	assert.EqualValues(t, 1, detail.CheckinCount)

	comments, err := author.ListComments(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, "BOB", comments[0].UserName)

	checkIns, err := reader.ListCheckIns(ctx, g.ID)
	require.NoError(t, err)
	assert.Len(t, checkIns, 1)

	require.NoError(t, reader.Follow(ctx, authorInfo.ID))
	following, err := reader.IsFollowing(ctx, authorInfo.ID)
	require.NoError(t, err)
	assert.True(t, following)
	feed, err := reader.Feed(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, feed, 1)

	favorites, err := reader.MyFavorites(ctx)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)

	require.NoError(t, reader.Unlike(ctx, g.ID))
	require.NoError(t, reader.Unfollow(ctx, authorInfo.ID))
	require.NoError(t, author.DeleteGuide(ctx, g.ID))
	_, err = reader.GetGuide(ctx, g.ID)
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestClientUpload(t *testing.T) {
	srv := newServer(t)
	c := newClient(t, srv)
	signUp(t, c, "alice")

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	url, err := c.Upload(context.Background(), "pic.png", "image/png", bytes.NewReader(png))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	_, err = c.Upload(context.Background(), "notes.txt", "text/plain", strings.NewReader("hello"))
	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}
