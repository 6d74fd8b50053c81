package service

import (
	"context"
	"time"

	"digestly-be/internal/dto"
	"digestly-be/internal/entity"
	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/repository/contract"
	"digestly-be/internal/repository/specification"
	"digestly-be/internal/repository/unitofwork"
	"digestly-be/internal/tracer"
	"digestly-be/pkg/apperror"
	"digestly-be/pkg/events"
	"digestly-be/pkg/ordering"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

type IDigestBlockService interface {
	Add(ctx context.Context, req *dto.AddBlockRequest) (*dto.AddBlockResponse, error)
	Update(ctx context.Context, req *dto.UpdateBlockRequest) (*dto.UpdateBlockResponse, error)
	Remove(ctx context.Context, req *dto.RemoveBlockRequest) (*dto.RemoveBlockResponse, error)
}

type digestBlockService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   events.Publisher
	logger           logger.ILogger
}

func NewDigestBlockService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IDigestBlockService {
	return &digestBlockService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

// blockTx is an open block mutation. The digest version has already been bumped,
// so the digest row stays locked until commit or rollback.
type blockTx struct {
	uow    unitofwork.UnitOfWork
	digest *entity.Digest
	done   bool
}

// previousVersion is the version callers observed before this mutation.
func (t *blockTx) previousVersion() int {
	return t.digest.Version - 1
}

func (t *blockTx) commit() error {
	t.done = true
	return t.uow.Commit()
}

func (t *blockTx) rollback() {
	if t.done {
		return
	}
	t.done = true
	_ = t.uow.Rollback()
}

func (s *digestBlockService) begin(ctx context.Context, teamId, digestId uuid.UUID) (*blockTx, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	tx := &blockTx{uow: uow}

	rows, err := uow.DigestRepository().BumpVersion(ctx, digestId)
	if err != nil {
		tx.rollback()
		return nil, err
	}
	if rows == 0 {
		tx.rollback()
		return nil, apperror.Conflict("digest was deleted")
	}

	digest, err := uow.DigestRepository().FindOne(ctx,
		specification.ByID{ID: digestId},
		specification.ByTeamID{TeamID: teamId},
	)
	if err != nil {
		tx.rollback()
		return nil, err
	}
	if digest == nil {
		tx.rollback()
		return nil, apperror.NotFound("digest not found")
	}
	tx.digest = digest
	return tx, nil
}

func checkExpectedVersion(tx *blockTx, expected *int) error {
	if expected != nil && *expected != tx.previousVersion() {
		return apperror.Conflict("digest was modified concurrently")
	}
	return nil
}

func loadBlocks(ctx context.Context, repo contract.DigestBlockRepository, digestId uuid.UUID) ([]*entity.DigestBlock, error) {
	return repo.FindAll(ctx,
		specification.ByDigestID{DigestID: digestId},
		specification.InPositionOrder{},
	)
}

type positionChange struct {
	id       uuid.UUID
	position int
}

// planPositions lists the blocks whose stored order differs from their index in list.
func planPositions(list []*entity.DigestBlock) []positionChange {
	changes := make([]positionChange, 0)
	for i, b := range list {
		if b.Order != i {
			changes = append(changes, positionChange{id: b.Id, position: i})
		}
	}
	return changes
}

func applyPositions(ctx context.Context, repo contract.DigestBlockRepository, list []*entity.DigestBlock) error {
	for _, c := range planPositions(list) {
		if err := repo.UpdatePosition(ctx, c.id, c.position); err != nil {
			return err
		}
	}
	for i, b := range list {
		b.Order = i
	}
	return nil
}

func sameBlock(id uuid.UUID) func(*entity.DigestBlock) bool {
	return func(b *entity.DigestBlock) bool { return b.Id == id }
}

func (s *digestBlockService) Add(ctx context.Context, req *dto.AddBlockRequest) (*dto.AddBlockResponse, error) {
	ctx, span := tracer.Tracer().Start(ctx, "DigestBlockService.Add")
	defer span.End()
	span.SetAttributes(attribute.String("digest.id", req.DigestId.String()))

	blockType := entity.DigestBlockType(req.Type)
	if !blockType.Valid() {
		return nil, apperror.Validation("unknown block type %q", req.Type)
	}
	if blockType == entity.DigestBlockTypeBookmark && req.BookmarkId == nil {
		return nil, apperror.Validation("bookmark blocks require bookmark_id")
	}
	if blockType == entity.DigestBlockTypeText && req.BookmarkId != nil {
		return nil, apperror.Validation("text blocks cannot reference a bookmark")
	}
	if req.Position == nil || *req.Position < 0 {
		return nil, apperror.Validation("position must be zero or greater")
	}

	tx, err := s.begin(ctx, req.TeamId, req.DigestId)
	if err != nil {
		return nil, err
	}
	defer tx.rollback()

	blockRepo := tx.uow.DigestBlockRepository()

	if req.BlockId != nil {
		existing, err := blockRepo.FindOne(ctx, specification.ByID{ID: *req.BlockId}, specification.WithBookmarkLink{})
		if err != nil {
			return nil, err
		}
		if existing != nil {
			if existing.DigestId != req.DigestId {
				return nil, apperror.Conflict("block id already belongs to another digest")
			}
			return &dto.AddBlockResponse{Block: toBlockResponse(existing), Created: false, Version: tx.previousVersion()}, nil
		}
	}

	var bookmark *entity.Bookmark
	if req.BookmarkId != nil {
		bookmark, err = tx.uow.BookmarkRepository().FindOne(ctx,
			specification.ByID{ID: *req.BookmarkId, Table: "bookmarks"},
			specification.ByTeamID{TeamID: req.TeamId, Table: "bookmarks"},
			specification.WithLink{},
		)
		if err != nil {
			return nil, err
		}
		if bookmark == nil {
			return nil, apperror.Validation("bookmark not found in this team")
		}

		existing, err := blockRepo.FindOne(ctx,
			specification.ByDigestID{DigestID: req.DigestId},
			specification.ByBookmarkID{BookmarkID: bookmark.Id},
			specification.WithBookmarkLink{},
		)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return &dto.AddBlockResponse{Block: toBlockResponse(existing), Created: false, Version: tx.previousVersion()}, nil
		}
	}

	if err := checkExpectedVersion(tx, req.ExpectedVersion); err != nil {
		return nil, err
	}

	blocks, err := loadBlocks(ctx, blockRepo, req.DigestId)
	if err != nil {
		return nil, err
	}
	position := *req.Position
	if err := ordering.CheckInsert(len(blocks), position); err != nil {
		return nil, apperror.Validation("%s", err.Error())
	}

	id := uuid.New()
	if req.BlockId != nil {
		id = *req.BlockId
	}
	block := &entity.DigestBlock{
		Id:          id,
		DigestId:    req.DigestId,
		Type:        blockType,
		Order:       position,
		BookmarkId:  req.BookmarkId,
		Bookmark:    bookmark,
		Title:       req.Title,
		Description: req.Description,
		Text:        req.Text,
		Style:       req.Style,
		CreatedAt:   time.Now().UTC(),
	}
	if err := blockRepo.Create(ctx, block); err != nil {
		return nil, err
	}

	if err := applyPositions(ctx, blockRepo, ordering.Insert(blocks, position, block)); err != nil {
		return nil, err
	}

	if err := tx.commit(); err != nil {
		return nil, err
	}

	s.afterCommit(ctx, tx.digest, events.DigestBlockAdded, "block_added", map[string]interface{}{
		"block_id": block.Id.String(),
		"type":     string(block.Type),
		"position": position,
	})

	return &dto.AddBlockResponse{
		Block:   toBlockResponse(block),
		Created: true,
		Version: tx.digest.Version,
	}, nil
}

func (s *digestBlockService) Update(ctx context.Context, req *dto.UpdateBlockRequest) (*dto.UpdateBlockResponse, error) {
	ctx, span := tracer.Tracer().Start(ctx, "DigestBlockService.Update")
	defer span.End()
	span.SetAttributes(
		attribute.String("digest.id", req.DigestId.String()),
		attribute.String("block.id", req.BlockId.String()),
	)

	tx, err := s.begin(ctx, req.TeamId, req.DigestId)
	if err != nil {
		return nil, err
	}
	defer tx.rollback()

	blockRepo := tx.uow.DigestBlockRepository()

	blocks, err := loadBlocks(ctx, blockRepo, req.DigestId)
	if err != nil {
		return nil, err
	}
	from := ordering.IndexOf(blocks, sameBlock(req.BlockId))
	if from < 0 {
		return nil, apperror.Conflict("block is not part of this digest")
	}
	block := blocks[from]

	to := from
	if req.Position != nil {
		to = *req.Position
		if err := ordering.CheckMove(len(blocks), from, to); err != nil {
			return nil, apperror.Validation("%s", err.Error())
		}
	}

	edited := applyEdits(block, req)

	// Moving a block onto its own position with no edits is a replay.
	if from == to && !edited {
		full, err := blockRepo.FindOne(ctx, specification.ByID{ID: block.Id}, specification.WithBookmarkLink{})
		if err != nil {
			return nil, err
		}
		return &dto.UpdateBlockResponse{Block: toBlockResponse(full), Version: tx.previousVersion()}, nil
	}

	if err := checkExpectedVersion(tx, req.ExpectedVersion); err != nil {
		return nil, err
	}

	if edited {
		if err := blockRepo.UpdateContent(ctx, block); err != nil {
			return nil, err
		}
	}
	if from != to {
		if err := applyPositions(ctx, blockRepo, ordering.Reorder(blocks, from, to)); err != nil {
			return nil, err
		}
	}

	full, err := blockRepo.FindOne(ctx, specification.ByID{ID: block.Id}, specification.WithBookmarkLink{})
	if err != nil {
		return nil, err
	}

	if err := tx.commit(); err != nil {
		return nil, err
	}

	if from != to {
		s.afterCommit(ctx, tx.digest, events.DigestBlockMoved, "block_moved", map[string]interface{}{
			"block_id": block.Id.String(),
			"from":     from,
			"to":       to,
		})
	} else {
		s.afterCommit(ctx, tx.digest, events.DigestBlockUpdated, "block_updated", map[string]interface{}{
			"block_id": block.Id.String(),
		})
	}

	return &dto.UpdateBlockResponse{Block: toBlockResponse(full), Version: tx.digest.Version}, nil
}

// applyEdits copies the requested inline fields onto block and reports whether anything changed.
func applyEdits(block *entity.DigestBlock, req *dto.UpdateBlockRequest) bool {
	edited := false
	set := func(dst *string, src *string) {
		if src != nil && *dst != *src {
			*dst = *src
			edited = true
		}
	}
	set(&block.Title, req.Title)
	set(&block.Description, req.Description)
	set(&block.Text, req.Text)
	set(&block.Style, req.Style)
	return edited
}

// Remove deletes the block and closes the gap. Removing a block that is already gone succeeds.
func (s *digestBlockService) Remove(ctx context.Context, req *dto.RemoveBlockRequest) (*dto.RemoveBlockResponse, error) {
	ctx, span := tracer.Tracer().Start(ctx, "DigestBlockService.Remove")
	defer span.End()
	span.SetAttributes(
		attribute.String("digest.id", req.DigestId.String()),
		attribute.String("block.id", req.BlockId.String()),
	)

	tx, err := s.begin(ctx, req.TeamId, req.DigestId)
	if err != nil {
		return nil, err
	}
	defer tx.rollback()

	blockRepo := tx.uow.DigestBlockRepository()

	blocks, err := loadBlocks(ctx, blockRepo, req.DigestId)
	if err != nil {
		return nil, err
	}
	index := ordering.IndexOf(blocks, sameBlock(req.BlockId))
	if index < 0 {
		return &dto.RemoveBlockResponse{Id: req.BlockId, Version: tx.previousVersion()}, nil
	}

	if err := checkExpectedVersion(tx, req.ExpectedVersion); err != nil {
		return nil, err
	}

	if err := blockRepo.Delete(ctx, req.BlockId); err != nil {
		return nil, err
	}
	if err := applyPositions(ctx, blockRepo, ordering.Remove(blocks, index)); err != nil {
		return nil, err
	}

	if err := tx.commit(); err != nil {
		return nil, err
	}

	s.afterCommit(ctx, tx.digest, events.DigestBlockRemoved, "block_removed", map[string]interface{}{
		"block_id": req.BlockId.String(),
		"position": index,
	})

	return &dto.RemoveBlockResponse{Id: req.BlockId, Version: tx.digest.Version}, nil
}

// afterCommit fans a committed change out to the cache invalidator and the event bus.
// The write already succeeded, so failures are only logged.
func (s *digestBlockService) afterCommit(ctx context.Context, digest *entity.Digest, eventType, reason string, data map[string]interface{}) {
	msg := dto.DigestChangedMessage{
		TeamId:   digest.TeamId,
		DigestId: digest.Id,
		Version:  digest.Version,
		Reason:   reason,
	}
	if err := s.publisherService.PublishDigestChanged(ctx, msg); err != nil {
		s.logger.Warn("DigestBlock", "Failed to publish digest change", map[string]interface{}{
			"digest_id": digest.Id,
			"error":     err.Error(),
		})
	}

	data["version"] = digest.Version
	if err := s.eventPublisher.Publish(ctx, events.NewDigestEvent(eventType, digest.TeamId, digest.Id, data)); err != nil {
		s.logger.Warn("DigestBlock", "Failed to publish domain event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
