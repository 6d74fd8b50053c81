package service

import (
	"context"
	"fmt"
	"time"

	"digestly-be/internal/dto"
	"digestly-be/internal/entity"
	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/repository/contract"
	"digestly-be/internal/repository/specification"
	"digestly-be/internal/repository/unitofwork"
	"digestly-be/pkg/apperror"
	"digestly-be/pkg/events"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const defaultDigestsPerPage = 30

type IDigestService interface {
	Create(ctx context.Context, teamId uuid.UUID, req *dto.CreateDigestRequest) (*dto.DigestResponse, error)
	GetAll(ctx context.Context, teamId uuid.UUID, req *dto.ListDigestsRequest) (*dto.DigestListResponse, error)
	Show(ctx context.Context, teamId uuid.UUID, id uuid.UUID) (*dto.DigestResponse, error)
	Update(ctx context.Context, teamId uuid.UUID, req *dto.UpdateDigestRequest) (*dto.DigestResponse, error)
	Delete(ctx context.Context, teamId uuid.UUID, id uuid.UUID) error
}

type digestService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   events.Publisher
	logger           logger.ILogger
}

func NewDigestService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IDigestService {
	return &digestService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		logger:           log,
	}
}

func findTeam(ctx context.Context, repo contract.TeamRepository, teamId uuid.UUID) (*entity.Team, error) {
	team, err := repo.FindOne(ctx, specification.ByID{ID: teamId})
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, apperror.NotFound("team not found")
	}
	return team, nil
}

// uniqueSlug appends -2, -3, ... to base until no digest of the team uses it.
func uniqueSlug(ctx context.Context, repo contract.DigestRepository, teamId uuid.UUID, base string, exclude *uuid.UUID) (string, error) {
	if base == "" {
		base = "digest"
	}
	candidate := base
	for n := 2; ; n++ {
		exists, err := repo.SlugExists(ctx, teamId, candidate, exclude)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

func (c *digestService) Create(ctx context.Context, teamId uuid.UUID, req *dto.CreateDigestRequest) (*dto.DigestResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	team, err := findTeam(ctx, uow.TeamRepository(), teamId)
	if err != nil {
		return nil, err
	}

	var templateBlocks []*entity.DigestBlock
	if req.TemplateId != nil {
		template, err := uow.DigestRepository().FindOne(ctx,
			specification.ByID{ID: *req.TemplateId},
			specification.ByTeamID{TeamID: teamId},
			specification.IsTemplate{Value: true},
		)
		if err != nil {
			return nil, err
		}
		if template == nil {
			return nil, apperror.NotFound("template not found")
		}
		templateBlocks, err = loadBlocks(ctx, uow.DigestBlockRepository(), template.Id)
		if err != nil {
			return nil, err
		}
	}

	digestSlug, err := uniqueSlug(ctx, uow.DigestRepository(), teamId, slug.Make(req.Title), nil)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	digest := entity.Digest{
		Id:          uuid.New(),
		TeamId:      teamId,
		Title:       storedTitle(req.Title, team.Slug, req.IsTemplate),
		Slug:        digestSlug,
		Description: req.Description,
		IsTemplate:  req.IsTemplate,
		CreatedAt:   now,
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback()
	}()

	if err := uow.DigestRepository().Create(ctx, &digest); err != nil {
		return nil, err
	}

	blocks := make([]*entity.DigestBlock, 0, len(templateBlocks))
	for i, tb := range templateBlocks {
		block := &entity.DigestBlock{
			Id:          uuid.New(),
			DigestId:    digest.Id,
			Type:        tb.Type,
			Order:       i,
			BookmarkId:  tb.BookmarkId,
			Title:       tb.Title,
			Description: tb.Description,
			Text:        tb.Text,
			Style:       tb.Style,
			CreatedAt:   now,
		}
		if err := uow.DigestBlockRepository().Create(ctx, block); err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	res := toDigestResponse(&digest, team.Slug)
	res.Blocks = toBlockResponses(blocks)
	res.BlockCount = int64(len(blocks))
	return &res, nil
}

func (c *digestService) GetAll(ctx context.Context, teamId uuid.UUID, req *dto.ListDigestsRequest) (*dto.DigestListResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	team, err := findTeam(ctx, uow.TeamRepository(), teamId)
	if err != nil {
		return nil, err
	}

	q := req.PageQuery.Normalize(defaultDigestsPerPage)
	filters := []specification.Specification{
		specification.ByTeamID{TeamID: teamId},
		specification.IsTemplate{Value: req.IsTemplate},
	}

	total, err := uow.DigestRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	digests, err := uow.DigestRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Page(q.Page, q.PerPage),
	)...)
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, len(digests))
	for i, d := range digests {
		ids[i] = d.Id
	}
	counts := map[uuid.UUID]int64{}
	if len(ids) > 0 {
		counts, err = uow.DigestBlockRepository().CountByDigestIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
	}

	items := make([]dto.DigestResponse, len(digests))
	for i, d := range digests {
		items[i] = toDigestResponse(d, team.Slug)
		items[i].BlockCount = counts[d.Id]
	}

	return &dto.DigestListResponse{
		Items:      items,
		Pagination: dto.NewPagination(q.Page, q.PerPage, total),
	}, nil
}

func (c *digestService) Show(ctx context.Context, teamId uuid.UUID, id uuid.UUID) (*dto.DigestResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	team, err := findTeam(ctx, uow.TeamRepository(), teamId)
	if err != nil {
		return nil, err
	}

	digest, err := uow.DigestRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByTeamID{TeamID: teamId},
	)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		return nil, apperror.NotFound("digest not found")
	}

	blocks, err := uow.DigestBlockRepository().FindAll(ctx,
		specification.ByDigestID{DigestID: id},
		specification.InPositionOrder{},
		specification.WithBookmarkLink{},
	)
	if err != nil {
		return nil, err
	}

	res := toDigestResponse(digest, team.Slug)
	res.Blocks = toBlockResponses(blocks)
	res.BlockCount = int64(len(blocks))
	return &res, nil
}

func (c *digestService) Update(ctx context.Context, teamId uuid.UUID, req *dto.UpdateDigestRequest) (*dto.DigestResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	team, err := findTeam(ctx, uow.TeamRepository(), teamId)
	if err != nil {
		return nil, err
	}

	digest, err := uow.DigestRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByTeamID{TeamID: teamId},
	)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		return nil, apperror.NotFound("digest not found")
	}

	wasPublished := digest.PublishedAt != nil

	title := displayTitle(digest, team.Slug)
	if req.Title != nil {
		title = *req.Title
	}
	if req.IsTemplate != nil {
		digest.IsTemplate = *req.IsTemplate
	}
	digest.Title = storedTitle(title, team.Slug, digest.IsTemplate)

	if req.Description != nil {
		digest.Description = *req.Description
	}

	switch {
	case req.PublishedAt != nil:
		at := req.PublishedAt.UTC()
		digest.PublishedAt = &at
	case req.Published != nil && *req.Published:
		if digest.PublishedAt == nil {
			now := time.Now().UTC()
			digest.PublishedAt = &now
		}
	case req.Published != nil && !*req.Published:
		digest.PublishedAt = nil
	}

	if err := uow.DigestRepository().UpdateMetadata(ctx, digest); err != nil {
		return nil, err
	}

	c.notifyChanged(ctx, digest, "metadata_updated")
	if !wasPublished && digest.PublishedAt != nil {
		c.publishEvent(ctx, events.NewDigestEvent(events.DigestPublished, teamId, digest.Id, map[string]interface{}{
			"title":        title,
			"published_at": digest.PublishedAt.Format(time.RFC3339),
		}))
	}

	res := toDigestResponse(digest, team.Slug)
	return &res, nil
}

func (c *digestService) Delete(ctx context.Context, teamId uuid.UUID, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	digest, err := uow.DigestRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByTeamID{TeamID: teamId},
	)
	if err != nil {
		return err
	}
	if digest == nil {
		return apperror.NotFound("digest not found")
	}

	if err := uow.DigestRepository().Delete(ctx, id); err != nil {
		return err
	}

	c.notifyChanged(ctx, digest, "deleted")
	c.publishEvent(ctx, events.NewDigestEvent(events.DigestDeleted, teamId, id, map[string]interface{}{
		"slug": digest.Slug,
	}))
	return nil
}

func (c *digestService) notifyChanged(ctx context.Context, digest *entity.Digest, reason string) {
	err := c.publisherService.PublishDigestChanged(ctx, dto.DigestChangedMessage{
		TeamId:   digest.TeamId,
		DigestId: digest.Id,
		Version:  digest.Version,
		Reason:   reason,
	})
	if err != nil {
		c.logger.Warn("Digest", "Failed to publish digest change", map[string]interface{}{
			"digest_id": digest.Id,
			"error":     err.Error(),
		})
	}
}

func (c *digestService) publishEvent(ctx context.Context, event events.Event) {
	if err := c.eventPublisher.Publish(ctx, event); err != nil {
		c.logger.Warn("Digest", "Failed to publish domain event", map[string]interface{}{
			"event": event.EventType(),
			"error": err.Error(),
		})
	}
}
