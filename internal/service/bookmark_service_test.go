package service

import (
	"context"
	"testing"

	"digestly-be/internal/dto"
	"digestly-be/internal/search"
	"digestly-be/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSearch struct {
	ids     []uuid.UUID
	healthy bool
	indexed []search.BookmarkDocument
	queries []search.Query
}

func (f *fakeSearch) SearchBookmarkIDs(q search.Query) ([]uuid.UUID, int64, bool) {
	f.queries = append(f.queries, q)
	if !f.healthy {
		return nil, 0, false
	}
	return f.ids, int64(len(f.ids)), true
}

func (f *fakeSearch) IndexBookmark(doc search.BookmarkDocument) {
	f.indexed = append(f.indexed, doc)
}

func (f *fakeSearch) DeleteBookmark(id uuid.UUID) {}

func TestCreateBookmark(t *testing.T) {
	env := newTestEnv(t)
	idx := &fakeSearch{}
	svc := NewBookmarkService(env.factory, idx, env.log)
	ctx := context.Background()

	team := env.fx.Team("acme")
	userId := uuid.New()
	env.fx.Member(team.Id, userId)

	created, err := svc.Create(ctx, team.Id, userId, &dto.CreateBookmarkRequest{Url: "https://github.com/acme/repo", Title: "Repo"})
	require.NoError(t, err)
	assert.Equal(t, "github", created.Provider)
	require.NotNil(t, created.Link)
	assert.Equal(t, "Repo", created.Link.Title)
	require.Len(t, idx.indexed, 1)
	assert.Equal(t, created.Id.String(), idx.indexed[0].ID)

	again, err := svc.Create(ctx, team.Id, userId, &dto.CreateBookmarkRequest{Url: "https://github.com/acme/repo"})
	require.NoError(t, err)
	assert.Equal(t, created.Id, again.Id, "saving a url twice returns the same bookmark")

	other := env.fx.Team("other")
	env.fx.Member(other.Id, userId)
	shared, err := svc.Create(ctx, other.Id, userId, &dto.CreateBookmarkRequest{Url: "https://github.com/acme/repo"})
	require.NoError(t, err)
	assert.NotEqual(t, created.Id, shared.Id)
	assert.Equal(t, created.Link.Id, shared.Link.Id, "teams share the link row")

	_, err = svc.Create(ctx, team.Id, uuid.New(), &dto.CreateBookmarkRequest{Url: "https://example.com"})
	assert.ErrorIs(t, err, &apperror.Error{Kind: apperror.KindForbidden})
}

func TestListBookmarksFromDatabase(t *testing.T) {
	env := newTestEnv(t)
	svc := NewBookmarkService(env.factory, &fakeSearch{}, env.log)
	ctx := context.Background()

	team := env.fx.Team("acme")
	golang := env.fx.Bookmark(team.Id, "https://go.dev", "The Go Programming Language")
	env.fx.Bookmark(team.Id, "https://rust-lang.org", "Rust")
	env.fx.Bookmark(env.fx.Team("other").Id, "https://go.dev/blog", "Go blog")

	digest := env.fx.Digest(team.Id, "Weekly", nil)
	_, err := newBlockService(env).Add(ctx, &dto.AddBlockRequest{
		TeamId:     team.Id,
		DigestId:   digest.Id,
		BookmarkId: &golang.Id,
		Position:   intPtr(0),
		Type:       "BOOKMARK",
	})
	require.NoError(t, err)

	all, err := svc.GetAll(ctx, team.Id, &dto.ListBookmarksRequest{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 10, all.Pagination.PerPage)

	found, err := svc.GetAll(ctx, team.Id, &dto.ListBookmarksRequest{Search: "PROGRAMMING"})
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, golang.Id, found.Items[0].Id)

	pool, err := svc.GetAll(ctx, team.Id, &dto.ListBookmarksRequest{OnlyNotInDigest: true})
	require.NoError(t, err)
	require.Len(t, pool.Items, 1)
	assert.Equal(t, "Rust", pool.Items[0].Link.Title)
}

func TestListBookmarksUsesSearchIndex(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	team := env.fx.Team("acme")
	a := env.fx.Bookmark(team.Id, "https://a.example", "A")
	b := env.fx.Bookmark(team.Id, "https://b.example", "B")

	idx := &fakeSearch{healthy: true, ids: []uuid.UUID{b.Id, a.Id}}
	svc := NewBookmarkService(env.factory, idx, env.log)

	res, err := svc.GetAll(ctx, team.Id, &dto.ListBookmarksRequest{Search: "example"})
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, b.Id, res.Items[0].Id, "index ranking is kept")
	assert.Equal(t, a.Id, res.Items[1].Id)
	require.Len(t, idx.queries, 1)
	assert.Equal(t, team.Id, idx.queries[0].TeamID)

	// the pool filter is answered by the database even when the index is up
	_, err = svc.GetAll(ctx, team.Id, &dto.ListBookmarksRequest{Search: "example", OnlyNotInDigest: true})
	require.NoError(t, err)
	assert.Len(t, idx.queries, 1)
}
