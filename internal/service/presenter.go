package service

import (
	"strings"

	"digestly-be/internal/dto"
	"digestly-be/internal/entity"
)

func templatePrefix(teamSlug string) string {
	return teamSlug + "-template-"
}

// storedTitle is the title as persisted: templates carry their team prefix.
func storedTitle(title, teamSlug string, isTemplate bool) string {
	if isTemplate {
		return templatePrefix(teamSlug) + title
	}
	return title
}

func displayTitle(d *entity.Digest, teamSlug string) string {
	if d.IsTemplate {
		return strings.TrimPrefix(d.Title, templatePrefix(teamSlug))
	}
	return d.Title
}

func toTeamResponse(t *entity.Team) dto.TeamResponse {
	return dto.TeamResponse{
		Id:      t.Id,
		Name:    t.Name,
		Slug:    t.Slug,
		Bio:     t.Bio,
		Website: t.Website,
		Github:  t.Github,
		Twitter: t.Twitter,
		Color:   t.Color,
	}
}

func toLinkResponse(l *entity.Link) *dto.LinkResponse {
	if l == nil {
		return nil
	}
	return &dto.LinkResponse{
		Id:          l.Id,
		Url:         l.Url,
		Title:       l.Title,
		Description: l.Description,
		Image:       l.Image,
		BlurHash:    l.BlurHash,
	}
}

func toBookmarkResponse(b *entity.Bookmark) *dto.BookmarkResponse {
	if b == nil {
		return nil
	}
	return &dto.BookmarkResponse{
		Id:        b.Id,
		TeamId:    b.TeamId,
		Provider:  b.Provider,
		Views:     b.Views,
		Link:      toLinkResponse(b.Link),
		CreatedAt: b.CreatedAt,
	}
}

func toBlockResponse(b *entity.DigestBlock) dto.BlockResponse {
	return dto.BlockResponse{
		Id:          b.Id,
		DigestId:    b.DigestId,
		Type:        string(b.Type),
		Order:       b.Order,
		BookmarkId:  b.BookmarkId,
		Bookmark:    toBookmarkResponse(b.Bookmark),
		Title:       b.Title,
		Description: b.Description,
		Text:        b.Text,
		Style:       b.Style,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func toBlockResponses(blocks []*entity.DigestBlock) []dto.BlockResponse {
	res := make([]dto.BlockResponse, len(blocks))
	for i, b := range blocks {
		res[i] = toBlockResponse(b)
	}
	return res
}

func toDigestResponse(d *entity.Digest, teamSlug string) dto.DigestResponse {
	return dto.DigestResponse{
		Id:          d.Id,
		TeamId:      d.TeamId,
		Title:       displayTitle(d, teamSlug),
		Slug:        d.Slug,
		Description: d.Description,
		PublishedAt: d.PublishedAt,
		IsTemplate:  d.IsTemplate,
		Views:       d.Views,
		Version:     d.Version,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func toActivityResponse(a *entity.DigestActivity) dto.ActivityResponse {
	return dto.ActivityResponse{
		Id:        a.Id,
		Type:      a.Type,
		Metadata:  a.Metadata,
		CreatedAt: a.CreatedAt,
	}
}
