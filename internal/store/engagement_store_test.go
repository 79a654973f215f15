package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/guides/internal/domain"
)

func TestReactionStoreIdempotent(t *testing.T) {
	d := newTestDB(t)
	users := NewUserStore(d)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	g := createGuide(t, NewGuideStore(d), alice.ID, "g", domain.CategoryTravel)
	ctx := context.Background()

	for _, s := range []*ReactionStore{NewLikeStore(d), NewFavoriteStore(d)} {
		require.NoError(t, s.Add(ctx, bob.ID, g.ID))
		require.NoError(t, s.Add(ctx, bob.ID, g.ID))
		require.NoError(t, s.Add(ctx, alice.ID, g.ID))

		n, err := s.CountByGuide(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n, s.table)

		ok, err := s.Exists(ctx, bob.ID, g.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		require.NoError(t, s.Remove(ctx, bob.ID, g.ID))
		require.NoError(t, s.Remove(ctx, bob.ID, g.ID))

		ok, err = s.Exists(ctx, bob.ID, g.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		n, err = s.CountByGuide(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n, s.table)
	}
}

func TestReactionStoresAreSeparate(t *testing.T) {
	d := newTestDB(t)
	alice := createUser(t, NewUserStore(d), "alice")
	g := createGuide(t, NewGuideStore(d), alice.ID, "g", domain.CategoryTravel)
	ctx := context.Background()

	require.NoError(t, NewLikeStore(d).Add(ctx, alice.ID, g.ID))

	n, err := NewFavoriteStore(d).CountByGuide(ctx, g.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCommentStore(t *testing.T) {
	d := newTestDB(t)
	users := NewUserStore(d)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	g := createGuide(t, NewGuideStore(d), alice.ID, "g", domain.CategoryTravel)
	s := NewCommentStore(d)
	ctx := context.Background()

	first, err := s.Create(ctx, g.ID, bob.ID, "great guide")
	require.NoError(t, err)
	assert.Equal(t, "great guide", first.Content)
	assert.Equal(t, "Name bob", first.UserName)
	assert.Equal(t, bob.ID, first.UserID)

	second, err := s.Create(ctx, g.ID, alice.ID, "thanks")
	require.NoError(t, err)

	comments, err := s.ListByGuide(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)

	_, err = s.Create(ctx, 999, bob.ID, "orphan")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCheckInStoreUpsert(t *testing.T) {
	d := newTestDB(t)
	alice := createUser(t, NewUserStore(d), "alice")
	g := createGuide(t, NewGuideStore(d), alice.ID, "g", domain.CategoryStudy)
	s := NewCheckInStore(d)
	ctx := context.Background()

	first, err := s.Upsert(ctx, alice.ID, g.ID, "2024-05-01", 20, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, first.Progress)
	assert.Nil(t, first.Note)

	note := "chapter 3"
	again, err := s.Upsert(ctx, alice.ID, g.ID, "2024-05-01", 60, &note)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, 60, again.Progress)
	require.NotNil(t, again.Note)
	assert.Equal(t, "chapter 3", *again.Note)

	_, err = s.Upsert(ctx, alice.ID, g.ID, "2024-05-02", 80, nil)
	require.NoError(t, err)

	list, err := s.ListByUserAndGuide(ctx, alice.ID, g.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2024-05-01", list[0].Day)
	assert.Equal(t, "2024-05-02", list[1].Day)

	n, err := s.CountUsers(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	missing, err := s.Get(ctx, alice.ID, g.ID, "2024-01-01")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestCheckInStoreRecordsSkipDeletedGuides(t *testing.T) {
	d := newTestDB(t)
	alice := createUser(t, NewUserStore(d), "alice")
	guides := NewGuideStore(d)
	kept := createGuide(t, guides, alice.ID, "kept", domain.CategoryStudy)
	gone := createGuide(t, guides, alice.ID, "gone", domain.CategoryGame)
	s := NewCheckInStore(d)
	ctx := context.Background()

	_, err := s.Upsert(ctx, alice.ID, kept.ID, "2024-05-01", 10, nil)
	require.NoError(t, err)
	_, err = s.Upsert(ctx, alice.ID, gone.ID, "2024-05-02", 10, nil)
	require.NoError(t, err)
	require.NoError(t, guides.SoftDelete(ctx, gone.ID))

	records, err := s.ListRecordsByUser(ctx, alice.ID, 200)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, kept.ID, records[0].GuideID)
	assert.Equal(t, "kept", records[0].GuideTitle)
	assert.Equal(t, "2024-05-01", records[0].CheckinDate)
}

func TestFollowStore(t *testing.T) {
	d := newTestDB(t)
	users := NewUserStore(d)
	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")
	cathy := createUser(t, users, "cathy")
	s := NewFollowStore(d)
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, alice.ID, bob.ID))
	require.NoError(t, s.Add(ctx, alice.ID, bob.ID))
	require.NoError(t, s.Add(ctx, alice.ID, cathy.ID))

	ok, err := s.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.Exists(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	following, err := s.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 2)
	assert.Equal(t, cathy.ID, following[0].ID)
	assert.Equal(t, bob.ID, following[1].ID)

	require.NoError(t, s.Remove(ctx, alice.ID, cathy.ID))
	following, err = s.ListFollowing(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, following, 1)

	assert.ErrorIs(t, s.Add(ctx, alice.ID, 999), ErrConflict)
}
