package service

import (
	"context"
	"testing"
	"time"

	"digestly-be/internal/dto"
	"digestly-be/internal/model"
	"digestly-be/internal/repository/cache"
	"digestly-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func hoursAgo(h int) *time.Time {
	t := time.Now().UTC().Add(-time.Duration(h) * time.Hour)
	return &t
}

func TestPublicDigestVisibility(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPublicService(env.factory, cache.NewMemoryCache(time.Minute), env.log)
	ctx := context.Background()

	team := env.fx.Team("acme")
	published := env.fx.Digest(team.Id, "Live", hoursAgo(1))
	env.fx.TextBlocks(published.Id, "A", "B")
	draft := env.fx.Digest(team.Id, "Draft", nil)
	future := time.Now().UTC().Add(time.Hour)
	scheduled := env.fx.Digest(team.Id, "Later", &future)

	res, err := svc.Digest(ctx, "acme", published.Slug, false)
	require.NoError(t, err)
	assert.Equal(t, "Live", res.Digest.Title)
	require.Len(t, res.Digest.Blocks, 2)
	assert.Equal(t, "acme", res.Team.Slug)

	_, err = svc.Digest(ctx, "acme", draft.Slug, false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = svc.Digest(ctx, "acme", scheduled.Slug, false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	preview, err := svc.Digest(ctx, "acme", draft.Slug, true)
	require.NoError(t, err)
	assert.Equal(t, "Draft", preview.Digest.Title)

	_, err = svc.Digest(ctx, "nobody", published.Slug, false)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestPublicDigestCountsViews(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPublicService(env.factory, cache.NewMemoryCache(time.Minute), env.log)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Live", hoursAgo(1))

	for i := 0; i < 2; i++ {
		_, err := svc.Digest(ctx, "acme", digest.Slug, false)
		require.NoError(t, err)
	}
	_, err := svc.Digest(ctx, "acme", digest.Slug, true)
	require.NoError(t, err)

	var stored model.Digest
	require.NoError(t, env.db.First(&stored, "id = ?", digest.Id).Error)
	assert.Equal(t, 2, stored.Views, "previews are not counted")
}

func TestPublicDigestCacheIsInvalidatedPerDigest(t *testing.T) {
	env := newTestEnv(t)
	memory := cache.NewMemoryCache(time.Minute)
	svc := NewPublicService(env.factory, memory, env.log)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Live", hoursAgo(1))
	other := env.fx.Digest(team.Id, "Other", hoursAgo(2))
	env.fx.TextBlocks(digest.Id, "A")

	_, err := svc.Digest(ctx, "acme", digest.Slug, false)
	require.NoError(t, err)
	_, err = svc.Digest(ctx, "acme", other.Slug, false)
	require.NoError(t, err)

	env.fx.TextBlocks(digest.Id, "late")
	stale, err := svc.Digest(ctx, "acme", digest.Slug, false)
	require.NoError(t, err)
	assert.Len(t, stale.Digest.Blocks, 1, "served from cache")

	consumer := &consumerService{cache: memory, logger: env.log}
	require.NoError(t, consumer.invalidate(ctx, dto.DigestChangedMessage{TeamId: team.Id, DigestId: digest.Id}))

	fresh, err := svc.Digest(ctx, "acme", digest.Slug, false)
	require.NoError(t, err)
	assert.Len(t, fresh.Digest.Blocks, 2)

	_, ok, err := memory.Get(ctx, cache.DigestKey(other.Id))
	require.NoError(t, err)
	assert.True(t, ok, "other digests keep their cache entries")
}

func TestTeamPage(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPublicService(env.factory, cache.NewMemoryCache(time.Minute), env.log)
	ctx := context.Background()

	team := env.fx.Team("acme")
	older := env.fx.Digest(team.Id, "Older", hoursAgo(5))
	newer := env.fx.Digest(team.Id, "Newer", hoursAgo(1))
	env.fx.Digest(team.Id, "Draft", nil)
	bookmark := env.fx.Bookmark(team.Id, "https://go.dev", "Go")
	require.NoError(t, env.db.Create(&model.DigestBlock{
		Id: uuid.New(), DigestId: newer.Id, Type: "BOOKMARK", Position: 0, BookmarkId: &bookmark.Id,
	}).Error)

	res, err := svc.TeamPage(ctx, "acme")
	require.NoError(t, err)
	require.Len(t, res.Digests, 2)
	assert.Equal(t, newer.Id, res.Digests[0].Id)
	assert.Equal(t, older.Id, res.Digests[1].Id)
	require.Len(t, res.Digests[0].Bookmarks, 1)
	assert.Equal(t, "https://go.dev", res.Digests[0].Bookmarks[0].Url)
	assert.Empty(t, res.Digests[1].Bookmarks)

	_, err = svc.TeamPage(ctx, "missing")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestDiscoverAndRecentTeams(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPublicService(env.factory, cache.NewMemoryCache(time.Minute), env.log)
	ctx := context.Background()

	acme := env.fx.Team("acme")
	globex := env.fx.Team("globex")
	initech := env.fx.Team("initech")

	withLinks := env.fx.Digest(acme.Id, "Links", hoursAgo(3))
	bookmark := env.fx.Bookmark(acme.Id, "https://go.dev", "Go")
	require.NoError(t, env.db.Create(&model.DigestBlock{
		Id: uuid.New(), DigestId: withLinks.Id, Type: "BOOKMARK", Position: 0, BookmarkId: &bookmark.Id,
	}).Error)
	textOnly := env.fx.Digest(globex.Id, "Text only", hoursAgo(2))
	env.fx.TextBlocks(textOnly.Id, "hello")
	env.fx.Digest(initech.Id, "Fresh", hoursAgo(1))
	env.fx.Digest(acme.Id, "Again", hoursAgo(4))

	found, err := svc.Discover(ctx, &dto.DiscoverRequest{})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, withLinks.Id, found.Items[0].Id)
	require.NotNil(t, found.Items[0].Team)
	assert.Equal(t, "acme", found.Items[0].Team.Slug)

	filtered, err := svc.Discover(ctx, &dto.DiscoverRequest{TeamId: globex.Id.String()})
	require.NoError(t, err)
	assert.Empty(t, filtered.Items)

	_, err = svc.Discover(ctx, &dto.DiscoverRequest{TeamId: "nope"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	teams, err := svc.RecentTeams(ctx)
	require.NoError(t, err)
	slugs := make([]string, len(teams))
	for i, tm := range teams {
		slugs[i] = tm.Slug
	}
	assert.Equal(t, []string{"initech", "globex", "acme"}, slugs)
}

func TestTrackBookmarkView(t *testing.T) {
	env := newTestEnv(t)
	svc := NewPublicService(env.factory, cache.NewMemoryCache(time.Minute), env.log)
	ctx := context.Background()

	bookmark := env.fx.Bookmark(env.fx.Team("acme").Id, "https://go.dev", "Go")

	res, err := svc.TrackBookmarkView(ctx, bookmark.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Views)
	res, err = svc.TrackBookmarkView(ctx, bookmark.Id)
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Views)

	_, err = svc.TrackBookmarkView(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
