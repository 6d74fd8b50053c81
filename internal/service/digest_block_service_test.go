package service

import (
	"context"
	"math/rand"
	"testing"

	"digestly-be/internal/dto"
	"digestly-be/internal/model"
	"digestly-be/pkg/apperror"
	"digestly-be/pkg/events"
	"digestly-be/pkg/ordering"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlockService(env *testEnv) IDigestBlockService {
	return NewDigestBlockService(env.factory, env.publisher, env.events, env.log)
}

func digestVersion(t *testing.T, env *testEnv, id uuid.UUID) int {
	t.Helper()
	var d model.Digest
	require.NoError(t, env.db.Unscoped().First(&d, "id = ?", id).Error)
	return d.Version
}

func TestAddBookmarkBlockInMiddle(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	env.fx.TextBlocks(digest.Id, "A", "B", "C")
	bookmark := env.fx.Bookmark(team.Id, "https://example.com/x", "X")

	res, err := svc.Add(ctx, &dto.AddBlockRequest{
		TeamId:     team.Id,
		DigestId:   digest.Id,
		BookmarkId: &bookmark.Id,
		Position:   intPtr(1),
		Type:       "BOOKMARK",
		Title:      "X",
	})
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, 1, res.Block.Order)
	assert.Equal(t, 1, res.Version)
	require.NotNil(t, res.Block.Bookmark)
	assert.Equal(t, "https://example.com/x", res.Block.Bookmark.Link.Url)

	titles, positions := env.fx.Positions(digest.Id)
	assert.Equal(t, []string{"A", "X", "B", "C"}, titles)
	assert.Equal(t, []int{0, 1, 2, 3}, positions)

	assert.Equal(t, []string{"block_added"}, env.publisher.reasons())
	assert.Equal(t, []string{events.DigestBlockAdded}, env.events.types())
}

func TestAddRejectsPositionPastEnd(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	env.fx.TextBlocks(digest.Id, "A", "B", "C")

	_, err := svc.Add(context.Background(), &dto.AddBlockRequest{
		TeamId:   team.Id,
		DigestId: digest.Id,
		Position: intPtr(4),
		Type:     "TEXT",
		Title:    "late",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrValidation)

	titles, positions := env.fx.Positions(digest.Id)
	assert.Equal(t, []string{"A", "B", "C"}, titles)
	assert.Equal(t, []int{0, 1, 2}, positions)
	assert.Equal(t, 0, digestVersion(t, env, digest.Id), "a rejected insert must not bump the version")
	assert.Empty(t, env.publisher.reasons())
}

func TestAddValidatesBlockShape(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)

	team := env.fx.Team("acme")
	other := env.fx.Team("other")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	foreign := env.fx.Bookmark(other.Id, "https://example.com/foreign", "F")

	tests := []struct {
		name string
		req  dto.AddBlockRequest
	}{
		{name: "bookmark without id", req: dto.AddBlockRequest{Type: "BOOKMARK", Position: intPtr(0)}},
		{name: "text with bookmark", req: dto.AddBlockRequest{Type: "TEXT", BookmarkId: &foreign.Id, Position: intPtr(0)}},
		{name: "unknown type", req: dto.AddBlockRequest{Type: "IMAGE", Position: intPtr(0)}},
		{name: "negative position", req: dto.AddBlockRequest{Type: "TEXT", Position: intPtr(-1)}},
		{name: "bookmark of another team", req: dto.AddBlockRequest{Type: "BOOKMARK", BookmarkId: &foreign.Id, Position: intPtr(0)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			req.TeamId = team.Id
			req.DigestId = digest.Id
			_, err := svc.Add(context.Background(), &req)
			assert.ErrorIs(t, err, apperror.ErrValidation)
		})
	}

	titles, _ := env.fx.Positions(digest.Id)
	assert.Empty(t, titles)
}

func TestAddIsSafeToRetry(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	env.fx.TextBlocks(digest.Id, "A")
	bookmark := env.fx.Bookmark(team.Id, "https://example.com/x", "X")

	blockId := uuid.New()
	req := &dto.AddBlockRequest{
		TeamId:   team.Id,
		DigestId: digest.Id,
		BlockId:  &blockId,
		Position: intPtr(0),
		Type:     "TEXT",
		Title:    "intro",
	}
	first, err := svc.Add(ctx, req)
	require.NoError(t, err)
	second, err := svc.Add(ctx, req)
	require.NoError(t, err)

	assert.True(t, first.Created)
	assert.False(t, second.Created)
	assert.Equal(t, blockId, second.Block.Id)
	assert.Equal(t, first.Version, second.Version)

	bookmarkReq := &dto.AddBlockRequest{
		TeamId:     team.Id,
		DigestId:   digest.Id,
		BookmarkId: &bookmark.Id,
		Position:   intPtr(2),
		Type:       "BOOKMARK",
	}
	_, err = svc.Add(ctx, bookmarkReq)
	require.NoError(t, err)
	again, err := svc.Add(ctx, bookmarkReq)
	require.NoError(t, err)
	assert.False(t, again.Created)

	titles, positions := env.fx.Positions(digest.Id)
	assert.Len(t, titles, 3)
	assert.Equal(t, []int{0, 1, 2}, positions)
	assert.Equal(t, 2, digestVersion(t, env, digest.Id))
}

func TestAddToDeletedDigestConflicts(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	require.NoError(t, env.db.Delete(&model.Digest{}, "id = ?", digest.Id).Error)

	_, err := svc.Add(context.Background(), &dto.AddBlockRequest{
		TeamId:   team.Id,
		DigestId: digest.Id,
		Position: intPtr(0),
		Type:     "TEXT",
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	var count int64
	require.NoError(t, env.db.Model(&model.DigestBlock{}).Where("digest_id = ?", digest.Id).Count(&count).Error)
	assert.Zero(t, count)
}

func TestExpectedVersionGuardsWrites(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	blocks := env.fx.TextBlocks(digest.Id, "A", "B")

	_, err := svc.Update(ctx, &dto.UpdateBlockRequest{
		TeamId:          team.Id,
		DigestId:        digest.Id,
		BlockId:         blocks[0].Id,
		Position:        intPtr(1),
		ExpectedVersion: intPtr(3),
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, 0, digestVersion(t, env, digest.Id))

	res, err := svc.Update(ctx, &dto.UpdateBlockRequest{
		TeamId:          team.Id,
		DigestId:        digest.Id,
		BlockId:         blocks[0].Id,
		Position:        intPtr(1),
		ExpectedVersion: intPtr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Version)

	_, err = svc.Remove(ctx, &dto.RemoveBlockRequest{
		TeamId:          team.Id,
		DigestId:        digest.Id,
		BlockId:         blocks[1].Id,
		ExpectedVersion: intPtr(0),
	})
	assert.ErrorIs(t, err, apperror.ErrConflict, "a stale token is rejected after another write")
}

func TestMoveBlock(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	blocks := env.fx.TextBlocks(digest.Id, "A", "B", "C", "D")

	res, err := svc.Update(ctx, &dto.UpdateBlockRequest{
		TeamId:   team.Id,
		DigestId: digest.Id,
		BlockId:  blocks[0].Id,
		Position: intPtr(2),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Block.Order)
	assert.Equal(t, 1, res.Version)

	titles, positions := env.fx.Positions(digest.Id)
	assert.Equal(t, []string{"B", "C", "A", "D"}, titles)
	assert.Equal(t, []int{0, 1, 2, 3}, positions)
	assert.Equal(t, []string{events.DigestBlockMoved}, env.events.types())
}

func TestMoveToSamePositionIsNoop(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	blocks := env.fx.TextBlocks(digest.Id, "A", "B", "C")

	res, err := svc.Update(context.Background(), &dto.UpdateBlockRequest{
		TeamId:   team.Id,
		DigestId: digest.Id,
		BlockId:  blocks[1].Id,
		Position: intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Version)
	assert.Equal(t, 0, digestVersion(t, env, digest.Id))
	assert.Empty(t, env.publisher.reasons())

	titles, _ := env.fx.Positions(digest.Id)
	assert.Equal(t, []string{"A", "B", "C"}, titles)
}

func TestMoveValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	blocks := env.fx.TextBlocks(digest.Id, "A", "B", "C")
	otherDigest := env.fx.Digest(team.Id, "Other", nil)
	foreign := env.fx.TextBlocks(otherDigest.Id, "Z")

	_, err := svc.Update(ctx, &dto.UpdateBlockRequest{
		TeamId:   team.Id,
		DigestId: digest.Id,
		BlockId:  blocks[0].Id,
		Position: intPtr(3),
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Update(ctx, &dto.UpdateBlockRequest{
		TeamId:   team.Id,
		DigestId: digest.Id,
		BlockId:  foreign[0].Id,
		Position: intPtr(0),
	})
	assert.ErrorIs(t, err, apperror.ErrConflict)

	_, err = svc.Update(ctx, &dto.UpdateBlockRequest{
		TeamId:   uuid.New(),
		DigestId: digest.Id,
		BlockId:  blocks[0].Id,
		Position: intPtr(1),
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound, "another team cannot see the digest")

	titles, _ := env.fx.Positions(digest.Id)
	assert.Equal(t, []string{"A", "B", "C"}, titles)
	assert.Equal(t, 0, digestVersion(t, env, digest.Id))
}

func TestUpdateBlockContent(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	blocks := env.fx.TextBlocks(digest.Id, "A", "B")

	res, err := svc.Update(context.Background(), &dto.UpdateBlockRequest{
		TeamId:   team.Id,
		DigestId: digest.Id,
		BlockId:  blocks[1].Id,
		Title:    strPtr("Bee"),
		Text:     strPtr("body"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Bee", res.Block.Title)
	assert.Equal(t, "body", res.Block.Text)
	assert.Equal(t, 1, res.Block.Order)
	assert.Equal(t, 1, res.Version)
	assert.Equal(t, []string{events.DigestBlockUpdated}, env.events.types())
}

func TestRemoveBlockClosesGap(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	blocks := env.fx.TextBlocks(digest.Id, "A", "B", "C")

	req := &dto.RemoveBlockRequest{TeamId: team.Id, DigestId: digest.Id, BlockId: blocks[1].Id}
	res, err := svc.Remove(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Version)

	titles, positions := env.fx.Positions(digest.Id)
	assert.Equal(t, []string{"A", "C"}, titles)
	assert.Equal(t, []int{0, 1}, positions)

	again, err := svc.Remove(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 1, again.Version, "removing a missing block changes nothing")
}

func TestPositionsStayDense(t *testing.T) {
	env := newTestEnv(t)
	svc := newBlockService(env)
	ctx := context.Background()

	team := env.fx.Team("acme")
	digest := env.fx.Digest(team.Id, "Weekly", nil)
	rng := rand.New(rand.NewSource(7))

	ids := make([]uuid.UUID, 0)
	for step := 0; step < 40; step++ {
		n := len(ids)
		switch op := rng.Intn(3); {
		case op == 0 || n < 2:
			res, err := svc.Add(ctx, &dto.AddBlockRequest{
				TeamId:   team.Id,
				DigestId: digest.Id,
				Position: intPtr(rng.Intn(n + 1)),
				Type:     "TEXT",
			})
			require.NoError(t, err)
			ids = append(ids, res.Block.Id)
		case op == 1:
			_, err := svc.Update(ctx, &dto.UpdateBlockRequest{
				TeamId:   team.Id,
				DigestId: digest.Id,
				BlockId:  ids[rng.Intn(n)],
				Position: intPtr(rng.Intn(n)),
			})
			require.NoError(t, err)
		default:
			i := rng.Intn(n)
			_, err := svc.Remove(ctx, &dto.RemoveBlockRequest{TeamId: team.Id, DigestId: digest.Id, BlockId: ids[i]})
			require.NoError(t, err)
			ids = append(ids[:i], ids[i+1:]...)
		}

		_, positions := env.fx.Positions(digest.Id)
		require.Len(t, positions, len(ids))
		require.True(t, ordering.IsDense(positions), "step %d: %v", step, positions)
	}
}
