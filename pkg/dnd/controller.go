// Package dnd turns drag gestures over a digest editor into block mutations.
//
// Two droppable regions exist: the bookmark pool and the digest block list.
// Dropping a pool item on the list inserts a block, dragging inside the list
// moves one. A reorder is shown immediately through a tentative overlay while
// the confirmed block list only ever changes from data the server returned.
package dnd

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"digestly-be/pkg/apperror"
	"digestly-be/pkg/digestclient"
	"digestly-be/pkg/ordering"

	"github.com/google/uuid"
)

const (
	PoolDroppableID = "bookmark"
	ListDroppableID = "digest"
)

var ErrBusy = errors.New("another change is still being saved")

type Location struct {
	DroppableID string
	Index       int
}

// DropResult describes a finished gesture. Destination is nil when the item was
// dropped outside every droppable region.
type DropResult struct {
	DraggableID string
	Source      Location
	Destination *Location
}

type State int

const (
	StateIdle State = iota
	StateDragging
	StateCommitting
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateCommitting:
		return "committing"
	default:
		return "idle"
	}
}

type Intent int

const (
	IntentNone Intent = iota
	IntentInsert
	IntentReorder
)

func (i Intent) String() string {
	switch i {
	case IntentInsert:
		return "insert"
	case IntentReorder:
		return "reorder"
	default:
		return "none"
	}
}

// Outcome reports what EndDrag did. Err is already shown through the Notifier.
type Outcome struct {
	Intent Intent
	Err    error
}

type Notifier interface {
	Success(message string)
	Error(message string)
}

// BlockMutator is the part of digestclient.Client the controller drives.
type BlockMutator interface {
	GetDigest(ctx context.Context) (*digestclient.Digest, error)
	AddBlock(ctx context.Context, in digestclient.AddBlockInput) (*digestclient.Block, error)
	MoveBlock(ctx context.Context, in digestclient.MoveBlockInput) error
	Busy() bool
	// Version is the digest version carried by the last response.
	Version() int
}

type Controller struct {
	mu        sync.Mutex
	client    BlockMutator
	notifier  Notifier
	state     State
	confirmed []digestclient.Block
	overlay   []digestclient.Block
	version   int
	loaded    bool
}

func NewController(client BlockMutator, notifier Notifier) *Controller {
	return &Controller{client: client, notifier: notifier}
}

// Load replaces the confirmed blocks with the server's current list.
func (c *Controller) Load(ctx context.Context) error {
	digest, err := c.client.GetDigest(ctx)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.confirm(digest)
	c.mu.Unlock()
	return nil
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Blocks returns the tentative order while one is shown, else the confirmed blocks.
func (c *Controller) Blocks() []digestclient.Block {
	c.mu.Lock()
	defer c.mu.Unlock()
	src := c.confirmed
	if c.overlay != nil {
		src = c.overlay
	}
	out := make([]digestclient.Block, len(src))
	copy(out, src)
	return out
}

// BeginDrag starts a gesture. It refuses while a mutation is being saved.
func (c *Controller) BeginDrag() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateIdle || c.client.Busy() {
		return false
	}
	c.state = StateDragging
	return true
}

// EndDrag classifies the drop and runs the resulting mutation to completion.
// Failures are reported to the Notifier and returned in the Outcome only.
func (c *Controller) EndDrag(ctx context.Context, result DropResult) Outcome {
	c.mu.Lock()
	if c.state == StateCommitting {
		c.mu.Unlock()
		c.notifier.Error(ErrBusy.Error())
		return Outcome{Err: ErrBusy}
	}

	dest := result.Destination
	if dest == nil || dest.DroppableID != ListDroppableID {
		c.state = StateIdle
		c.mu.Unlock()
		return Outcome{Intent: IntentNone}
	}

	switch result.Source.DroppableID {
	case PoolDroppableID:
		return c.insert(ctx, result.DraggableID, dest.Index)
	case ListDroppableID:
		if result.Source.Index == dest.Index {
			c.state = StateIdle
			c.mu.Unlock()
			return Outcome{Intent: IntentNone}
		}
		return c.reorder(ctx, result.DraggableID, result.Source.Index, dest.Index)
	default:
		c.state = StateIdle
		c.mu.Unlock()
		return Outcome{Intent: IntentNone}
	}
}

// insert runs with c.mu held and releases it before the request.
func (c *Controller) insert(ctx context.Context, draggableID string, position int) Outcome {
	bookmarkID, err := uuid.Parse(draggableID)
	if err == nil {
		err = checkInsert(len(c.confirmed), position, c.loaded)
	} else {
		err = apperror.Validation("invalid bookmark id %q", draggableID)
	}
	if err != nil {
		return c.abort(IntentInsert, err)
	}

	expected := c.expectedVersion()
	c.state = StateCommitting
	c.mu.Unlock()

	block, err := c.client.AddBlock(ctx, digestclient.AddBlockInput{
		BookmarkID:      &bookmarkID,
		Position:        position,
		Type:            digestclient.BlockTypeBookmark,
		ExpectedVersion: expected,
	})
	if err == nil && block != nil {
		c.mu.Lock()
		if position <= len(c.confirmed) {
			c.overlay = ordering.Insert(c.confirmed, position, *block)
		}
		c.mu.Unlock()
	}
	return c.settle(ctx, IntentInsert, err, "Bookmark added to digest")
}

// reorder runs with c.mu held and releases it before the request.
func (c *Controller) reorder(ctx context.Context, draggableID string, from, to int) Outcome {
	blockID, err := uuid.Parse(draggableID)
	if err != nil {
		return c.abort(IntentReorder, apperror.Validation("invalid block id %q", draggableID))
	}
	if err := ordering.CheckMove(len(c.confirmed), from, to); err != nil {
		return c.abort(IntentReorder, apperror.Validation("%s", err.Error()))
	}
	if c.confirmed[from].Id != blockID {
		outcome := c.abort(IntentReorder, apperror.Conflict("block list is out of date, refresh and try again"))
		c.refresh(ctx)
		return outcome
	}

	c.overlay = ordering.Reorder(c.confirmed, from, to)
	expected := c.expectedVersion()
	c.state = StateCommitting
	c.mu.Unlock()

	err = c.client.MoveBlock(ctx, digestclient.MoveBlockInput{
		BlockID:         blockID,
		Position:        to,
		ExpectedVersion: expected,
	})
	return c.settle(ctx, IntentReorder, err, "Block moved")
}

// abort runs with c.mu held and releases it.
func (c *Controller) abort(intent Intent, err error) Outcome {
	c.state = StateIdle
	c.mu.Unlock()
	c.notifier.Error(err.Error())
	return Outcome{Intent: intent, Err: err}
}

// settle reconciles with the server after a mutation, whatever its result.
func (c *Controller) settle(ctx context.Context, intent Intent, mutationErr error, successMessage string) Outcome {
	if mutationErr != nil {
		c.notifier.Error(mutationErr.Error())
	} else {
		c.notifier.Success(successMessage)
	}

	digest, fetchErr := c.client.GetDigest(ctx)

	c.mu.Lock()
	switch {
	case fetchErr == nil:
		c.confirm(digest)
	case mutationErr != nil:
		c.overlay = nil
	default:
		// the server accepted the change, so the tentative order is the best known state
		if c.overlay != nil {
			c.confirmed = renumber(c.overlay)
			c.overlay = nil
		}
		if v := c.client.Version(); v > c.version {
			c.version = v
		}
	}
	c.state = StateIdle
	c.mu.Unlock()

	if fetchErr != nil {
		c.notifier.Error(fmt.Sprintf("could not refresh digest: %s", fetchErr.Error()))
	}
	return Outcome{Intent: intent, Err: mutationErr}
}

// refresh reloads the confirmed blocks after a drop was rejected against a stale list.
func (c *Controller) refresh(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		c.notifier.Error(fmt.Sprintf("could not refresh digest: %s", err.Error()))
	}
}

// renumber returns a copy of blocks with Order matching each index.
func renumber(blocks []digestclient.Block) []digestclient.Block {
	out := make([]digestclient.Block, len(blocks))
	copy(out, blocks)
	for i := range out {
		out[i].Order = i
	}
	return out
}

// expectedVersion runs with c.mu held. Nothing is sent before the first load.
func (c *Controller) expectedVersion() *int {
	if !c.loaded {
		return nil
	}
	v := c.version
	return &v
}

// confirm runs with c.mu held.
func (c *Controller) confirm(digest *digestclient.Digest) {
	c.confirmed = digest.Blocks
	c.version = digest.Version
	c.overlay = nil
	c.loaded = true
}

// checkInsert bounds the position by the known block count once the digest has been loaded.
func checkInsert(n, position int, loaded bool) error {
	if position < 0 || (loaded && position > n) {
		if err := ordering.CheckInsert(n, position); err != nil {
			return apperror.Validation("%s", err.Error())
		}
	}
	return nil
}
