package digestclient

import (
	"context"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"digestly-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// serve starts app on a loopback port and returns its API root.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String() + "/api"
}

func newClient(base string) *Client {
	return New(base, "secret-token", uuid.New(), uuid.New())
}

func TestAddBlock(t *testing.T) {
	app := fiber.New()
	var got AddBlockInput
	var auth string
	app.Post("/api/teams/:teamId/digests/:digestId/blocks", func(c *fiber.Ctx) error {
		auth = c.Get(fiber.HeaderAuthorization)
		if err := c.BodyParser(&got); err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"data": fiber.Map{
				"block":   fiber.Map{"id": uuid.NewString(), "type": "BOOKMARK", "order": got.Position},
				"created": true,
				"version": 4,
			},
		})
	})
	client := newClient(serve(t, app))

	bookmarkID := uuid.New()
	block, err := client.AddBlock(context.Background(), AddBlockInput{BookmarkID: &bookmarkID, Position: 1})
	require.NoError(t, err)
	assert.Equal(t, 1, block.Order)
	assert.Equal(t, BlockTypeBookmark, got.Type)
	require.NotNil(t, got.BookmarkID)
	assert.Equal(t, bookmarkID, *got.BookmarkID)
	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, 4, client.Version())
	assert.False(t, client.Busy())
}

func TestAddBlockRejectsNegativePositionLocally(t *testing.T) {
	app := fiber.New()
	var calls atomic.Int32
	app.Use(func(c *fiber.Ctx) error {
		calls.Add(1)
		return c.SendStatus(fiber.StatusOK)
	})
	client := newClient(serve(t, app))

	_, err := client.AddBlock(context.Background(), AddBlockInput{Position: -1})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Zero(t, calls.Load())
}

func TestErrorMessages(t *testing.T) {
	app := fiber.New()
	app.Patch("/api/teams/:teamId/digests/:digestId/blocks/:blockId", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "digest was modified concurrently",
			"code":    "conflict",
		})
	})
	app.Delete("/api/teams/:teamId/digests/:digestId/blocks/:blockId", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusServiceUnavailable)
	})
	app.Get("/api/teams/:teamId/digests/:digestId", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusUnprocessableEntity).SendString("not json")
	})
	client := newClient(serve(t, app))
	ctx := context.Background()

	err := client.MoveBlock(ctx, MoveBlockInput{BlockID: uuid.New(), Position: 0})
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, "digest was modified concurrently", err.Error())

	err = client.RemoveBlock(ctx, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrNetwork)
	assert.Equal(t, "Service Unavailable", err.Error())

	_, err = client.GetDigest(ctx)
	assert.ErrorIs(t, err, apperror.ErrValidation)
	assert.Equal(t, "Unprocessable Entity", err.Error())
}

func TestTransportError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	client := newClient("http://" + addr + "/api")
	client.Timeout = time.Second

	_, err = client.GetDigest(context.Background())
	assert.ErrorIs(t, err, apperror.ErrNetwork)
	assert.NotEmpty(t, err.Error())
}

func TestCanceledContextSendsNothing(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newClient("http://127.0.0.1:1/api")
	err := client.DeleteDigest(ctx)
	assert.ErrorIs(t, err, apperror.ErrNetwork)
}

func TestLoadingFlags(t *testing.T) {
	app := fiber.New()
	release := make(chan struct{})
	entered := make(chan struct{})
	app.Patch("/api/teams/:teamId/digests/:digestId/blocks/:blockId", func(c *fiber.Ctx) error {
		close(entered)
		<-release
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{"version": 2}})
	})
	client := newClient(serve(t, app))

	done := make(chan error, 1)
	go func() {
		done <- client.MoveBlock(context.Background(), MoveBlockInput{BlockID: uuid.New(), Position: 2})
	}()

	<-entered
	assert.True(t, client.Order.IsLoading())
	assert.False(t, client.Add.IsLoading())
	assert.True(t, client.Busy())

	close(release)
	require.NoError(t, <-done)
	assert.False(t, client.Order.IsLoading())
	assert.False(t, client.Busy())
	assert.Equal(t, 2, client.Version())
}

func TestListBookmarksQuery(t *testing.T) {
	app := fiber.New()
	var query map[string]string
	app.Get("/api/teams/:teamId/bookmarks", func(c *fiber.Ctx) error {
		query = c.Queries()
		return c.JSON(fiber.Map{"success": true, "data": fiber.Map{
			"items":      []fiber.Map{{"id": uuid.NewString(), "provider": "web", "link": fiber.Map{"url": "https://go.dev"}}},
			"pagination": fiber.Map{"page": 2, "per_page": 5, "total": 6, "total_pages": 2},
		}})
	})
	client := newClient(serve(t, app))

	page, err := client.ListBookmarks(context.Background(), ListBookmarksInput{Page: 2, PerPage: 5, OnlyNotInDigest: true, Search: "go dev"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "https://go.dev", page.Items[0].Link.Url)
	assert.Equal(t, 2, page.Pagination.TotalPages)
	assert.Equal(t, map[string]string{"page": "2", "perPage": "5", "onlyNotInDigest": "true", "search": "go dev"}, query)
}
