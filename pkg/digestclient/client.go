// Package digestclient talks to the digest blocks API on behalf of an editor.
// Each mutation kind carries a loading flag so that callers can hold off new
// gestures while a write is in flight.
package digestclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"digestly-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const defaultTimeout = 15 * time.Second

// Mutation reports whether requests of one kind are pending.
type Mutation struct {
	pending atomic.Int32
}

func (m *Mutation) IsLoading() bool {
	return m.pending.Load() > 0
}

func (m *Mutation) start() func() {
	m.pending.Add(1)
	return func() { m.pending.Add(-1) }
}

type Client struct {
	// BaseURL is the API root, e.g. http://localhost:3000/api
	BaseURL  string
	Token    string
	TeamID   uuid.UUID
	DigestID uuid.UUID
	Timeout  time.Duration

	Add    Mutation
	Order  Mutation
	Remove Mutation

	version atomic.Int64
}

func New(baseURL, token string, teamID, digestID uuid.UUID) *Client {
	return &Client{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		TeamID:   teamID,
		DigestID: digestID,
		Timeout:  defaultTimeout,
	}
}

// Busy is true while any block mutation is pending.
func (c *Client) Busy() bool {
	return c.Add.IsLoading() || c.Order.IsLoading() || c.Remove.IsLoading()
}

// Version is the digest version seen in the most recent response.
func (c *Client) Version() int {
	return int(c.version.Load())
}

func (c *Client) GetDigest(ctx context.Context) (*Digest, error) {
	var digest Digest
	if err := c.do(ctx, fiber.MethodGet, c.digestPath(), "", nil, &digest); err != nil {
		return nil, err
	}
	c.version.Store(int64(digest.Version))
	return &digest, nil
}

// AddBlock inserts a block. A negative position is rejected without a request;
// the upper bound is checked by the server against the current block count.
func (c *Client) AddBlock(ctx context.Context, in AddBlockInput) (*Block, error) {
	if in.Position < 0 {
		return nil, apperror.Validation("position must be zero or greater")
	}
	if in.Type == "" {
		in.Type = BlockTypeText
		if in.BookmarkID != nil {
			in.Type = BlockTypeBookmark
		}
	}

	done := c.Add.start()
	defer done()

	var res addBlockResult
	if err := c.do(ctx, fiber.MethodPost, c.digestPath()+"/blocks", "", in, &res); err != nil {
		return nil, err
	}
	c.version.Store(int64(res.Version))
	return &res.Block, nil
}

func (c *Client) MoveBlock(ctx context.Context, in MoveBlockInput) error {
	if in.Position < 0 {
		return apperror.Validation("position must be zero or greater")
	}

	done := c.Order.start()
	defer done()

	var res versionResult
	if err := c.do(ctx, fiber.MethodPatch, c.blockPath(in.BlockID), "", in, &res); err != nil {
		return err
	}
	c.version.Store(int64(res.Version))
	return nil
}

func (c *Client) RemoveBlock(ctx context.Context, blockID uuid.UUID) error {
	done := c.Remove.start()
	defer done()

	var res versionResult
	if err := c.do(ctx, fiber.MethodDelete, c.blockPath(blockID), "", nil, &res); err != nil {
		return err
	}
	c.version.Store(int64(res.Version))
	return nil
}

func (c *Client) PatchDigest(ctx context.Context, in PatchDigestInput) (*Digest, error) {
	var digest Digest
	if err := c.do(ctx, fiber.MethodPatch, c.digestPath(), "", in, &digest); err != nil {
		return nil, err
	}
	return &digest, nil
}

func (c *Client) DeleteDigest(ctx context.Context) error {
	return c.do(ctx, fiber.MethodDelete, c.digestPath(), "", nil, nil)
}

func (c *Client) ListBookmarks(ctx context.Context, in ListBookmarksInput) (*BookmarkPage, error) {
	q := url.Values{}
	if in.Page > 0 {
		q.Set("page", strconv.Itoa(in.Page))
	}
	if in.PerPage > 0 {
		q.Set("perPage", strconv.Itoa(in.PerPage))
	}
	if in.OnlyNotInDigest {
		q.Set("onlyNotInDigest", "true")
	}
	if in.Search != "" {
		q.Set("search", in.Search)
	}

	var page BookmarkPage
	if err := c.do(ctx, fiber.MethodGet, fmt.Sprintf("/teams/%s/bookmarks", c.TeamID), q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) digestPath() string {
	return fmt.Sprintf("/teams/%s/digests/%s", c.TeamID, c.DigestID)
}

func (c *Client) blockPath(blockID uuid.UUID) string {
	return fmt.Sprintf("%s/blocks/%s", c.digestPath(), blockID)
}

// do sends one request and decodes the data field of the success envelope into out.
func (c *Client) do(ctx context.Context, method, path, query string, body, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return apperror.Network(err)
	}

	agent := fiber.AcquireAgent()
	req := agent.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.BaseURL + path)
	if query != "" {
		agent.QueryString(query)
	}
	if c.Token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.Token)
	}
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(c.timeout(ctx))

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return apperror.Network(err)
	}

	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return apperror.Network(errors.Join(errs...))
	}
	if status >= fiber.StatusBadRequest {
		return decodeError(status, raw)
	}
	if out == nil {
		return nil
	}

	env := envelope[json.RawMessage]{}
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperror.Wrap(apperror.KindNetwork, err, "malformed response body")
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperror.Wrap(apperror.KindNetwork, err, "malformed response data")
	}
	return nil
}

func (c *Client) timeout(ctx context.Context) time.Duration {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	return timeout
}

// decodeError prefers the server's error text, then the HTTP status text.
func decodeError(status int, raw []byte) error {
	var body errorBody
	message := ""
	if err := json.Unmarshal(raw, &body); err == nil {
		message = body.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}
	return &apperror.Error{
		Kind:    apperror.KindFromStatus(status),
		Message: message,
		Status:  status,
	}
}
