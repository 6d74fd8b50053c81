package search

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"digestly-be/internal/pkg/logger"

	"github.com/google/uuid"
	meili "github.com/meilisearch/meilisearch-go"
)

// Meili indexes team bookmarks in Meilisearch.
type Meili struct {
	client  meili.ServiceManager
	index   string
	healthy atomic.Bool
	done    chan struct{}
	logger  logger.ILogger
}

// NewMeili connects and configures the bookmark index. A failed first health
// check is not fatal: the monitor keeps probing and callers fall back to the database.
func NewMeili(url, apiKey, index string, log logger.ILogger) *Meili {
	m := &Meili{
		client: meili.New(url, meili.WithAPIKey(apiKey)),
		index:  index,
		done:   make(chan struct{}),
		logger: log,
	}

	if _, err := m.client.Health(); err != nil {
		m.logger.Warn("Search", "Meilisearch unavailable", map[string]interface{}{"url": url, "error": err.Error()})
		m.healthy.Store(false)
	} else {
		m.healthy.Store(true)
		m.configureIndex()
	}

	go m.healthLoop(10 * time.Second)
	return m
}

func (m *Meili) configureIndex() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{
		Uid:        m.index,
		PrimaryKey: "id",
	}); err != nil {
		m.logger.Debug("Search", "Create index failed (may already exist)", map[string]interface{}{"index": m.index, "error": err.Error()})
	}

	idx := m.client.Index(m.index)
	filterable := []interface{}{"teamId"}
	if _, err := idx.UpdateFilterableAttributes(&filterable); err != nil {
		m.logger.Warn("Search", "Update filterable attributes failed", map[string]interface{}{"error": err.Error()})
	}
	searchable := []string{"title", "description", "url"}
	if _, err := idx.UpdateSearchableAttributes(&searchable); err != nil {
		m.logger.Warn("Search", "Update searchable attributes failed", map[string]interface{}{"error": err.Error()})
	}
}

func (m *Meili) healthLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			wasHealthy := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !wasHealthy {
				m.logger.Info("Search", "Meilisearch recovered, reconfiguring index", nil)
				m.configureIndex()
			}
		}
	}
}

func (m *Meili) Close() {
	close(m.done)
}

func (m *Meili) Healthy() bool {
	return m.healthy.Load()
}

func (m *Meili) IndexBookmarks(docs []BookmarkDocument) error {
	if len(docs) == 0 {
		return nil
	}
	_, err := m.client.Index(m.index).AddDocuments(docs, nil)
	return err
}

func (m *Meili) DeleteBookmark(id uuid.UUID) error {
	_, err := m.client.Index(m.index).DeleteDocument(id.String(), nil)
	return err
}

// Search returns matching bookmark ids in relevance order and the estimated total.
func (m *Meili) Search(q Query) ([]uuid.UUID, int64, error) {
	if !m.healthy.Load() {
		return nil, 0, fmt.Errorf("meilisearch unhealthy")
	}

	resp, err := m.client.Index(m.index).Search(q.Text, &meili.SearchRequest{
		Limit:                int64(q.limit()),
		Offset:               int64(q.Offset),
		Filter:               fmt.Sprintf("teamId = %q", q.TeamID.String()),
		AttributesToRetrieve: []string{"id"},
	})
	if err != nil {
		m.healthy.Store(false)
		return nil, 0, fmt.Errorf("meilisearch search: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		raw, ok := hit["id"]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			continue
		}
		if id, err := uuid.Parse(s); err == nil {
			ids = append(ids, id)
		}
	}
	return ids, resp.EstimatedTotalHits, nil
}
