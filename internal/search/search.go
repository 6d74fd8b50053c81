// Package search serves bookmark lookups from Meilisearch when it is healthy.
// When it is not, callers answer from the database instead.
package search

import (
	"digestly-be/internal/pkg/logger"

	"github.com/google/uuid"
)

type BookmarkDocument struct {
	ID          string `json:"id"`
	TeamID      string `json:"teamId"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Url         string `json:"url"`
}

type Query struct {
	TeamID uuid.UUID
	Text   string
	Limit  int
	Offset int
}

func (q Query) limit() int {
	if q.Limit <= 0 {
		return 20
	}
	return q.Limit
}

type IBookmarkSearch interface {
	// SearchBookmarkIDs reports ok=false when the index cannot answer and the caller should query the database.
	SearchBookmarkIDs(q Query) (ids []uuid.UUID, total int64, ok bool)
	IndexBookmark(doc BookmarkDocument)
	DeleteBookmark(id uuid.UUID)
}

type Service struct {
	meili  *Meili
	logger logger.ILogger
}

// NewService accepts a nil meili, in which case every search falls back.
func NewService(meili *Meili, log logger.ILogger) *Service {
	return &Service{meili: meili, logger: log}
}

func (s *Service) available() bool {
	return s.meili != nil && s.meili.Healthy()
}

func (s *Service) SearchBookmarkIDs(q Query) ([]uuid.UUID, int64, bool) {
	if !s.available() {
		return nil, 0, false
	}
	ids, total, err := s.meili.Search(q)
	if err != nil {
		s.logger.Warn("Search", "Meilisearch error, falling back to database", map[string]interface{}{"error": err.Error()})
		return nil, 0, false
	}
	return ids, total, true
}

// IndexBookmark is fire-and-forget.
func (s *Service) IndexBookmark(doc BookmarkDocument) {
	if !s.available() {
		return
	}
	go func() {
		if err := s.meili.IndexBookmarks([]BookmarkDocument{doc}); err != nil {
			s.logger.Warn("Search", "Index bookmark failed", map[string]interface{}{"id": doc.ID, "error": err.Error()})
		}
	}()
}

func (s *Service) DeleteBookmark(id uuid.UUID) {
	if !s.available() {
		return
	}
	go func() {
		if err := s.meili.DeleteBookmark(id); err != nil {
			s.logger.Warn("Search", "Delete bookmark failed", map[string]interface{}{"id": id, "error": err.Error()})
		}
	}()
}
