package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	json "github.com/goccy/go-json"
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

type harness struct {
	t        *testing.T
	server   string
	authFile string
}

func newHarness(t *testing.T) *harness {
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
	return &harness{t: t, server: srv.URL, authFile: filepath.Join(t.TempDir(), "auth.json")}
}

func (h *harness) run(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"-server", h.server, "-auth-file", h.authFile}, args...)
	code := run(full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

// seed creates an author with one study guide and returns its id.
func (h *harness) seed() int64 {
	h.t.Helper()
	c, err := client.New(h.server, nil)
	require.NoError(h.t, err)
	ctx := context.Background()
	_, err = c.Register(ctx, domain.RegisterRequest{Username: "author", Password: "secret123", DisplayName: "Author"})
	require.NoError(h.t, err)
	_, err = c.Register(ctx, domain.RegisterRequest{Username: "reader", Password: "secret123", DisplayName: "Reader"})
	require.NoError(h.t, err)
	_, err = c.Login(ctx, "author", "secret123")
	require.NoError(h.t, err)
	g, err := c.CreateGuide(ctx, domain.UpsertGuideRequest{
		Title:           "Learn Go",
		Category:        domain.CategoryStudy,
		ContentMarkdown: "# Week 1\nTour of Go",
	})
	require.NoError(h.t, err)
	return g.ID
}

func TestNoCommand(t *testing.T) {
	h := newHarness(t)
	code, _, stderr := h.run()
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: guidesctl")
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t)
	code, _, stderr := h.run("dance")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "usage: guidesctl")
}

func TestLoginPersistsAcrossInvocations(t *testing.T) {
	h := newHarness(t)
	h.seed()

	code, out, stderr := h.run("login", "-u", "reader", "-p", "secret123")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Logged in as Reader (USER)")

	code, out, _ = h.run("whoami")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Reader (reader)")

	code, out, _ = h.run("logout")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Logged out")

	code, _, stderr = h.run("whoami")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "please log in")
}

func TestLoginRequiresCredentials(t *testing.T) {
	t.Setenv("GUIDES_PASSWORD", "")
	h := newHarness(t)
	code, _, _ := h.run("login", "-u", "reader")
	assert.Equal(t, 2, code)
}

func TestLoginBadPassword(t *testing.T) {
	h := newHarness(t)
	h.seed()
	code, _, stderr := h.run("login", "-u", "reader", "-p", "wrong")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")
}

func TestListAndShow(t *testing.T) {
	h := newHarness(t)
	id := h.seed()

	code, out, stderr := h.run("list", "-category", "study")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Learn Go")
	assert.Contains(t, out, "1 guides")

	code, out, _ = h.run("list", "-category", "travel")
	require.Equal(t, 0, code)
	assert.NotContains(t, out, "Learn Go")

	code, out, _ = h.run("show", strconv.FormatInt(id, 10))
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Learn Go [STUDY] by Author")
	assert.Contains(t, out, "Tour of Go")

	code, _, _ = h.run("show", "abc")
	assert.Equal(t, 2, code)

	code, _, stderr = h.run("show", "999")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Error:")
}

func TestListJSON(t *testing.T) {
	h := newHarness(t)
	h.seed()

	code, out, _ := h.run("-json", "list")
	require.Equal(t, 0, code)
	var page domain.Page[domain.GuideCard]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Learn Go", page.Content[0].Title)
}

func TestReactCommentAndCheckIn(t *testing.T) {
	h := newHarness(t)
	id := strconv.FormatInt(h.seed(), 10)

	code, _, _ := h.run("like", id)
	assert.Equal(t, 1, code, "like requires a login")

	code, _, stderr := h.run("login", "-u", "reader", "-p", "secret123")
	require.Equal(t, 0, code, stderr)

	code, out, _ := h.run("like", id)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Liked guide")

	code, out, _ = h.run("favorite", id)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Favorited guide")

	code, out, stderr = h.run("comment", id, "very", "useful")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "posted")

	code, out, stderr = h.run("checkin", id, "40", "chapter", "3")
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "at 40%")

	code, _, _ = h.run("checkin", id, "lots")
	assert.Equal(t, 2, code)

	code, out, _ = h.run("-json", "show", id)
	require.Equal(t, 0, code)
	var g domain.GuideDetail
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Equal(t, int64(1), g.LikeCount)
	assert.True(t, g.Favorited)
	assert.Equal(t, int64(1), g.CheckinCount)
}
