package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/guides/internal/domain"
)

func createGuide(t *testing.T, s *GuideStore, authorID int64, title string, category domain.GuideCategory) *domain.Guide {
	t.Helper()
	g, err := s.Create(context.Background(), authorID, title, category, nil, "body of "+title)
	require.NoError(t, err)
	return g
}

func TestGuideStoreCreate(t *testing.T) {
	d := newTestDB(t)
	author := createUser(t, NewUserStore(d), "alice")
	s := NewGuideStore(d)

	key := "study_plan"
	g, err := s.Create(context.Background(), author.ID, "Go in a week", domain.CategoryStudy, &key, "# Plan")
	require.NoError(t, err)
	assert.NotZero(t, g.ID)
	assert.Equal(t, author.ID, g.AuthorID)
	assert.Equal(t, "Name alice", g.AuthorName)
	assert.Equal(t, domain.CategoryStudy, g.Category)
	require.NotNil(t, g.TemplateKey)
	assert.Equal(t, "study_plan", *g.TemplateKey)
	assert.Equal(t, "# Plan", g.ContentMarkdown)
	assert.False(t, g.Deleted)
}

func TestGuideStoreCreateUnknownAuthor(t *testing.T) {
	s := NewGuideStore(newTestDB(t))

	_, err := s.Create(context.Background(), 999, "t", domain.CategoryGame, nil, "x")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestGuideStoreSoftDelete(t *testing.T) {
	d := newTestDB(t)
	author := createUser(t, NewUserStore(d), "alice")
	s := NewGuideStore(d)
	ctx := context.Background()
	g := createGuide(t, s, author.ID, "Trip", domain.CategoryTravel)

	require.NoError(t, s.SoftDelete(ctx, g.ID))

	got, err := s.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.ErrorIs(t, s.SoftDelete(ctx, g.ID), ErrNotFound)
	assert.ErrorIs(t, s.Update(ctx, g.ID, "x", domain.CategoryTravel, nil, "y"), ErrNotFound)

	// Deleted guides still count toward the seeding check.
	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestGuideStoreUpdate(t *testing.T) {
	d := newTestDB(t)
	author := createUser(t, NewUserStore(d), "alice")
	s := NewGuideStore(d)
	ctx := context.Background()
	g := createGuide(t, s, author.ID, "Trip", domain.CategoryTravel)

	require.NoError(t, s.Update(ctx, g.ID, "Boss guide", domain.CategoryGame, nil, "new body"))

	got, err := s.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "Boss guide", got.Title)
	assert.Equal(t, domain.CategoryGame, got.Category)
	assert.Equal(t, "new body", got.ContentMarkdown)
	assert.False(t, got.UpdatedAt.Before(g.UpdatedAt))
}

func TestGuideStoreSearch(t *testing.T) {
	d := newTestDB(t)
	author := createUser(t, NewUserStore(d), "alice")
	s := NewGuideStore(d)
	ctx := context.Background()

	tokyo := createGuide(t, s, author.ID, "Tokyo in three days", domain.CategoryTravel)
	elden := createGuide(t, s, author.ID, "Elden Ring bosses", domain.CategoryGame)
	kyoto := createGuide(t, s, author.ID, "Kyoto temples", domain.CategoryTravel)
	gone := createGuide(t, s, author.ID, "Deleted trip", domain.CategoryTravel)
	require.NoError(t, s.SoftDelete(ctx, gone.ID))

	t.Run("all newest first", func(t *testing.T) {
		guides, total, err := s.Search(ctx, GuideQuery{Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, guides, 3)
		assert.Equal(t, kyoto.ID, guides[0].ID)
		assert.Equal(t, elden.ID, guides[1].ID)
		assert.Equal(t, tokyo.ID, guides[2].ID)
	})

	t.Run("category", func(t *testing.T) {
		guides, total, err := s.Search(ctx, GuideQuery{Category: domain.CategoryGame, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, guides, 1)
		assert.Equal(t, elden.ID, guides[0].ID)
	})

	t.Run("text matches title and body case-insensitively", func(t *testing.T) {
		guides, total, err := s.Search(ctx, GuideQuery{Text: "KYOTO", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, guides, 1)
		assert.Equal(t, kyoto.ID, guides[0].ID)

		_, total, err = s.Search(ctx, GuideQuery{Text: "body of elden", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	})

	t.Run("paging", func(t *testing.T) {
		guides, total, err := s.Search(ctx, GuideQuery{Limit: 2, Offset: 2})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, guides, 1)
		assert.Equal(t, tokyo.ID, guides[0].ID)
	})

	t.Run("sort by updated", func(t *testing.T) {
		require.NoError(t, s.Update(ctx, tokyo.ID, tokyo.Title, tokyo.Category, nil, "edited"))
		guides, _, err := s.Search(ctx, GuideQuery{Sort: SortUpdated, Limit: 10})
		require.NoError(t, err)
		require.NotEmpty(t, guides)
		assert.Equal(t, tokyo.ID, guides[0].ID)
	})
}

func TestGuideStoreListings(t *testing.T) {
	d := newTestDB(t)
	users := NewUserStore(d)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	s := NewGuideStore(d)
	ctx := context.Background()

	a1 := createGuide(t, s, alice.ID, "a1", domain.CategoryTravel)
	a2 := createGuide(t, s, alice.ID, "a2", domain.CategoryStudy)
	b1 := createGuide(t, s, bob.ID, "b1", domain.CategoryGame)

	mine, err := s.ListByAuthor(ctx, alice.ID, 50)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.Equal(t, a2.ID, mine[0].ID)

	favs := NewFavoriteStore(d)
	require.NoError(t, favs.Add(ctx, bob.ID, a1.ID))
	require.NoError(t, favs.Add(ctx, bob.ID, a2.ID))
	require.NoError(t, s.SoftDelete(ctx, a2.ID))
	favorited, err := s.ListFavoritedBy(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, favorited, 1)
	assert.Equal(t, a1.ID, favorited[0].ID)

	follows := NewFollowStore(d)
	require.NoError(t, follows.Add(ctx, alice.ID, bob.ID))
	feed, err := s.ListByFollowedAuthors(ctx, alice.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, b1.ID, feed[0].ID)

	feed, err = s.ListByFollowedAuthors(ctx, bob.ID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
