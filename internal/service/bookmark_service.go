package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"digestly-be/internal/dto"
	"digestly-be/internal/entity"
	"digestly-be/internal/pkg/logger"
	"digestly-be/internal/repository/specification"
	"digestly-be/internal/repository/unitofwork"
	"digestly-be/internal/search"
	"digestly-be/pkg/apperror"

	"github.com/google/uuid"
)

const defaultBookmarksPerPage = 10

type IBookmarkService interface {
	GetAll(ctx context.Context, teamId uuid.UUID, req *dto.ListBookmarksRequest) (*dto.BookmarkListResponse, error)
	Create(ctx context.Context, teamId, userId uuid.UUID, req *dto.CreateBookmarkRequest) (*dto.BookmarkResponse, error)
}

type bookmarkService struct {
	uowFactory unitofwork.RepositoryFactory
	search     search.IBookmarkSearch
	logger     logger.ILogger
}

func NewBookmarkService(uowFactory unitofwork.RepositoryFactory, bookmarkSearch search.IBookmarkSearch, log logger.ILogger) IBookmarkService {
	return &bookmarkService{
		uowFactory: uowFactory,
		search:     bookmarkSearch,
		logger:     log,
	}
}

func (s *bookmarkService) GetAll(ctx context.Context, teamId uuid.UUID, req *dto.ListBookmarksRequest) (*dto.BookmarkListResponse, error) {
	q := req.PageQuery.Normalize(defaultBookmarksPerPage)
	term := strings.TrimSpace(req.Search)

	// The index knows nothing about digest membership, so that filter always reads the database.
	if term != "" && !req.OnlyNotInDigest {
		ids, total, ok := s.search.SearchBookmarkIDs(search.Query{
			TeamID: teamId,
			Text:   term,
			Limit:  q.PerPage,
			Offset: (q.Page - 1) * q.PerPage,
		})
		if ok {
			items, err := s.findInOrder(ctx, teamId, ids)
			if err != nil {
				return nil, err
			}
			return &dto.BookmarkListResponse{Items: items, Pagination: dto.NewPagination(q.Page, q.PerPage, total)}, nil
		}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	filters := []specification.Specification{
		specification.ByTeamID{TeamID: teamId, Table: "bookmarks"},
	}
	if req.OnlyNotInDigest {
		filters = append(filters, specification.NotInAnyDigest{})
	}
	if term != "" {
		filters = append(filters, specification.BookmarkSearch{Query: term})
	}

	total, err := uow.BookmarkRepository().Count(ctx, filters...)
	if err != nil {
		return nil, err
	}

	bookmarks, err := uow.BookmarkRepository().FindAll(ctx, append(filters,
		specification.WithLink{},
		specification.OrderBy{Field: "bookmarks.created_at", Desc: true},
		specification.Page(q.Page, q.PerPage),
	)...)
	if err != nil {
		return nil, err
	}

	items := make([]dto.BookmarkResponse, len(bookmarks))
	for i, b := range bookmarks {
		items[i] = *toBookmarkResponse(b)
	}
	return &dto.BookmarkListResponse{Items: items, Pagination: dto.NewPagination(q.Page, q.PerPage, total)}, nil
}

// findInOrder loads bookmarks by id and keeps the ranking the index returned.
func (s *bookmarkService) findInOrder(ctx context.Context, teamId uuid.UUID, ids []uuid.UUID) ([]dto.BookmarkResponse, error) {
	items := make([]dto.BookmarkResponse, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	bookmarks, err := uow.BookmarkRepository().FindAll(ctx,
		specification.ByIDs{IDs: ids},
		specification.ByTeamID{TeamID: teamId, Table: "bookmarks"},
		specification.WithLink{},
	)
	if err != nil {
		return nil, err
	}

	byId := make(map[uuid.UUID]*entity.Bookmark, len(bookmarks))
	for _, b := range bookmarks {
		byId[b.Id] = b
	}
	for _, id := range ids {
		if b, ok := byId[id]; ok {
			items = append(items, *toBookmarkResponse(b))
		}
	}
	return items, nil
}

// Create saves url for the team. Saving a url the team already has returns the existing bookmark.
func (s *bookmarkService) Create(ctx context.Context, teamId, userId uuid.UUID, req *dto.CreateBookmarkRequest) (*dto.BookmarkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	membership, err := uow.TeamRepository().FindMembership(ctx, specification.MemberOfTeam{TeamID: teamId, UserID: userId})
	if err != nil {
		return nil, err
	}
	if membership == nil {
		return nil, apperror.Forbidden("not a member of this team")
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = req.Url
	}
	link := entity.Link{
		Url:         req.Url,
		Title:       title,
		Description: req.Description,
		Image:       req.Image,
		CreatedAt:   time.Now().UTC(),
	}
	if err := uow.LinkRepository().FindOrCreate(ctx, &link); err != nil {
		return nil, err
	}

	existing, err := uow.BookmarkRepository().FindOne(ctx,
		specification.ByTeamID{TeamID: teamId, Table: "bookmarks"},
		specification.Filter("bookmarks.link_id", link.Id),
		specification.WithLink{},
	)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return toBookmarkResponse(existing), nil
	}

	bookmark := entity.Bookmark{
		Id:           uuid.New(),
		LinkId:       link.Id,
		TeamId:       teamId,
		MembershipId: &membership.Id,
		Provider:     providerOf(link.Url),
		Link:         &link,
		CreatedAt:    time.Now().UTC(),
	}
	if err := uow.BookmarkRepository().Create(ctx, &bookmark); err != nil {
		return nil, err
	}

	s.search.IndexBookmark(search.BookmarkDocument{
		ID:          bookmark.Id.String(),
		TeamID:      teamId.String(),
		Title:       link.Title,
		Description: link.Description,
		Url:         link.Url,
	})

	return toBookmarkResponse(&bookmark), nil
}

var knownProviders = map[string]string{
	"youtube.com": "youtube",
	"youtu.be":    "youtube",
	"github.com":  "github",
	"twitter.com": "twitter",
	"x.com":       "twitter",
}

func providerOf(rawUrl string) string {
	u, err := url.Parse(rawUrl)
	if err != nil {
		return "web"
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if p, ok := knownProviders[host]; ok {
		return p
	}
	return "web"
}
