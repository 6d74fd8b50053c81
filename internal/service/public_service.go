package service

import (
	"context"
	"encoding/json"
	"time"

	"digestly-be/internal/dto"
	"digestly-be/internal/entity"
	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/repository/cache"
	"digestly-be/internal/repository/specification"
	"digestly-be/internal/repository/unitofwork"
	"digestly-be/pkg/apperror"

	"github.com/google/uuid"
)

const (
	defaultDiscoverPerPage = 10
	recentTeamsLimit       = 5
	// how many recent publications to scan for distinct teams
	recentTeamsScan = 50
)

type IPublicService interface {
	TeamPage(ctx context.Context, teamSlug string) (*dto.PublicTeamResponse, error)
	Digest(ctx context.Context, teamSlug, digestSlug string, preview bool) (*dto.PublicDigestResponse, error)
	Discover(ctx context.Context, req *dto.DiscoverRequest) (*dto.DiscoverResponse, error)
	RecentTeams(ctx context.Context) ([]dto.TeamResponse, error)
	TrackBookmarkView(ctx context.Context, bookmarkId uuid.UUID) (*dto.BookmarkViewResponse, error)
}

type publicService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      cache.DigestCache
	logger     logger.ILogger
	now        func() time.Time
}

func NewPublicService(uowFactory unitofwork.RepositoryFactory, digestCache cache.DigestCache, log logger.ILogger) IPublicService {
	return &publicService{
		uowFactory: uowFactory,
		cache:      digestCache,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *publicService) findTeamBySlug(ctx context.Context, uow unitofwork.UnitOfWork, teamSlug string) (*entity.Team, error) {
	team, err := uow.TeamRepository().FindOne(ctx, specification.BySlug{Slug: teamSlug})
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, apperror.NotFound("team not found")
	}
	return team, nil
}

// readCache decodes a cached entry into out. Backend errors count as misses.
func (s *publicService) readCache(ctx context.Context, key string, out interface{}) bool {
	data, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Public", "Cache read failed", map[string]interface{}{"key": key, "error": err.Error()})
		return false
	}
	if !ok {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

func (s *publicService) writeCache(ctx context.Context, key string, value interface{}) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		s.logger.Warn("Public", "Cache write failed", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

func (s *publicService) TeamPage(ctx context.Context, teamSlug string) (*dto.PublicTeamResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	team, err := s.findTeamBySlug(ctx, uow, teamSlug)
	if err != nil {
		return nil, err
	}

	var cached dto.PublicTeamResponse
	if s.readCache(ctx, cache.TeamPageKey(team.Id), &cached) {
		return &cached, nil
	}

	digests, err := uow.DigestRepository().FindAll(ctx,
		specification.ByTeamID{TeamID: team.Id},
		specification.IsTemplate{Value: false},
		specification.PublishedBefore{At: s.now()},
		specification.OrderBy{Field: "published_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	teams := map[uuid.UUID]*entity.Team{team.Id: team}
	summaries, err := s.summarize(ctx, uow, digests, teams, false)
	if err != nil {
		return nil, err
	}

	res := dto.PublicTeamResponse{Team: toTeamResponse(team), Digests: summaries}
	s.writeCache(ctx, cache.TeamPageKey(team.Id), res)
	return &res, nil
}

// summarize attaches block counts and bookmark previews. withTeam embeds the owning team.
func (s *publicService) summarize(
	ctx context.Context,
	uow unitofwork.UnitOfWork,
	digests []*entity.Digest,
	teams map[uuid.UUID]*entity.Team,
	withTeam bool,
) ([]dto.PublicDigestSummary, error) {
	summaries := make([]dto.PublicDigestSummary, 0, len(digests))
	if len(digests) == 0 {
		return summaries, nil
	}

	ids := make([]uuid.UUID, len(digests))
	for i, d := range digests {
		ids[i] = d.Id
	}

	counts, err := uow.DigestBlockRepository().CountByDigestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	blocks, err := uow.DigestBlockRepository().FindAll(ctx,
		specification.ByDigestIDs{DigestIDs: ids},
		specification.ByBlockType{Type: string(entity.DigestBlockTypeBookmark)},
		specification.InPositionOrder{},
		specification.WithBookmarkLink{},
	)
	if err != nil {
		return nil, err
	}
	previews := make(map[uuid.UUID][]dto.LinkResponse)
	for _, b := range blocks {
		if b.Bookmark == nil || b.Bookmark.Link == nil {
			continue
		}
		previews[b.DigestId] = append(previews[b.DigestId], *toLinkResponse(b.Bookmark.Link))
	}

	for _, d := range digests {
		team := teams[d.TeamId]
		teamSlug := ""
		if team != nil {
			teamSlug = team.Slug
		}
		summary := dto.PublicDigestSummary{
			DigestResponse: toDigestResponse(d, teamSlug),
			Bookmarks:      previews[d.Id],
		}
		if summary.Bookmarks == nil {
			summary.Bookmarks = []dto.LinkResponse{}
		}
		summary.BlockCount = counts[d.Id]
		if withTeam && team != nil {
			tr := toTeamResponse(team)
			summary.Team = &tr
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// Digest serves a published digest. preview also serves drafts and future publications,
// and does not count as a view.
func (s *publicService) Digest(ctx context.Context, teamSlug, digestSlug string, preview bool) (*dto.PublicDigestResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	res, err := s.loadDigest(ctx, uow, teamSlug, digestSlug)
	if err != nil {
		return nil, err
	}

	if !preview {
		published := res.Digest.PublishedAt
		if published == nil || published.After(s.now()) {
			return nil, apperror.NotFound("digest not found")
		}
		if err := uow.DigestRepository().IncrementViews(ctx, res.Digest.Id); err != nil {
			s.logger.Warn("Public", "Failed to count digest view", map[string]interface{}{
				"digest_id": res.Digest.Id,
				"error":     err.Error(),
			})
		}
	}
	return res, nil
}

func (s *publicService) loadDigest(ctx context.Context, uow unitofwork.UnitOfWork, teamSlug, digestSlug string) (*dto.PublicDigestResponse, error) {
	var digestId uuid.UUID
	if s.readCache(ctx, cache.SlugKey(teamSlug, digestSlug), &digestId) {
		var cached dto.PublicDigestResponse
		// the slug entry may outlive a rename or delete, so the payload must still match
		if s.readCache(ctx, cache.DigestKey(digestId), &cached) &&
			cached.Team.Slug == teamSlug && cached.Digest.Slug == digestSlug {
			return &cached, nil
		}
	}

	team, err := s.findTeamBySlug(ctx, uow, teamSlug)
	if err != nil {
		return nil, err
	}

	digest, err := uow.DigestRepository().FindOne(ctx,
		specification.ByTeamID{TeamID: team.Id},
		specification.BySlug{Slug: digestSlug},
		specification.IsTemplate{Value: false},
	)
	if err != nil {
		return nil, err
	}
	if digest == nil {
		return nil, apperror.NotFound("digest not found")
	}

	blocks, err := uow.DigestBlockRepository().FindAll(ctx,
		specification.ByDigestID{DigestID: digest.Id},
		specification.InPositionOrder{},
		specification.WithBookmarkLink{},
	)
	if err != nil {
		return nil, err
	}

	dr := toDigestResponse(digest, team.Slug)
	dr.Blocks = toBlockResponses(blocks)
	dr.BlockCount = int64(len(blocks))
	res := dto.PublicDigestResponse{Team: toTeamResponse(team), Digest: dr}

	s.writeCache(ctx, cache.SlugKey(teamSlug, digestSlug), digest.Id)
	s.writeCache(ctx, cache.DigestKey(digest.Id), res)
	return &res, nil
}

func (s *publicService) Discover(ctx context.Context, req *dto.DiscoverRequest) (*dto.DiscoverResponse, error) {
	q := req.PageQuery.Normalize(defaultDiscoverPerPage)

	filters := []specification.Specification{
		specification.IsTemplate{Value: false},
		specification.PublishedBefore{At: s.now()},
		specification.HasBookmarkBlock{},
	}
	if req.TeamId != "" {
		teamId, err := uuid.Parse(req.TeamId)
		if err != nil {
			return nil, apperror.Validation("teamId must be a uuid")
		}
		filters = append(filters, specification.ByTeamID{TeamID: teamId, Table: "digests"})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	total, err := uow.DigestRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	digests, err := uow.DigestRepository().FindAll(ctx, append(filters,
		specification.OrderBy{Field: "digests.published_at", Desc: true},
		specification.Page(q.Page, q.PerPage),
	)...)
	if err != nil {
		return nil, err
	}

	teams, err := s.teamsOf(ctx, uow, digests)
	if err != nil {
		return nil, err
	}

	items, err := s.summarize(ctx, uow, digests, teams, true)
	if err != nil {
		return nil, err
	}

	return &dto.DiscoverResponse{Items: items, Pagination: dto.NewPagination(q.Page, q.PerPage, total)}, nil
}

func (s *publicService) teamsOf(ctx context.Context, uow unitofwork.UnitOfWork, digests []*entity.Digest) (map[uuid.UUID]*entity.Team, error) {
	teams := make(map[uuid.UUID]*entity.Team)
	ids := make([]uuid.UUID, 0)
	for _, d := range digests {
		if _, seen := teams[d.TeamId]; !seen {
			teams[d.TeamId] = nil
			ids = append(ids, d.TeamId)
		}
	}
	if len(ids) == 0 {
		return teams, nil
	}

	found, err := uow.TeamRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	for _, t := range found {
		teams[t.Id] = t
	}
	return teams, nil
}

// RecentTeams lists the teams behind the latest publications, most recent first.
func (s *publicService) RecentTeams(ctx context.Context) ([]dto.TeamResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	digests, err := uow.DigestRepository().FindAll(ctx,
		specification.IsTemplate{Value: false},
		specification.PublishedBefore{At: s.now()},
		specification.OrderBy{Field: "published_at", Desc: true},
		specification.Pagination{Limit: recentTeamsScan},
	)
	if err != nil {
		return nil, err
	}

	ordered := make([]uuid.UUID, 0, recentTeamsLimit)
	seen := make(map[uuid.UUID]bool)
	for _, d := range digests {
		if seen[d.TeamId] {
			continue
		}
		seen[d.TeamId] = true
		ordered = append(ordered, d.TeamId)
		if len(ordered) == recentTeamsLimit {
			break
		}
	}

	res := make([]dto.TeamResponse, 0, len(ordered))
	if len(ordered) == 0 {
		return res, nil
	}

	teams, err := uow.TeamRepository().FindAll(ctx, specification.ByIDs{IDs: ordered})
	if err != nil {
		return nil, err
	}
	byId := make(map[uuid.UUID]*entity.Team, len(teams))
	for _, t := range teams {
		byId[t.Id] = t
	}
	for _, id := range ordered {
		if t, ok := byId[id]; ok {
			res = append(res, toTeamResponse(t))
		}
	}
	return res, nil
}

func (s *publicService) TrackBookmarkView(ctx context.Context, bookmarkId uuid.UUID) (*dto.BookmarkViewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	views, err := uow.BookmarkRepository().IncrementViews(ctx, bookmarkId)
	if err != nil {
		return nil, err
	}
	if views == 0 {
		return nil, apperror.NotFound("bookmark not found")
	}
	return &dto.BookmarkViewResponse{Id: bookmarkId, Views: views}, nil
}
