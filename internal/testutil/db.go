// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"testing"
	"time"

	"digestly-be/internal/model"
	"digestly-be/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB(":memory:", logger.Silent)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type Fixtures struct {
	t  *testing.T
	db *gorm.DB
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	return &Fixtures{t: t, db: db}
}

func (f *Fixtures) Team(slug string) *model.Team {
	f.t.Helper()
	team := &model.Team{Id: uuid.New(), Name: slug, Slug: slug}
	require.NoError(f.t, f.db.Create(team).Error)
	return team
}

func (f *Fixtures) Member(teamId, userId uuid.UUID) *model.Membership {
	f.t.Helper()
	m := &model.Membership{Id: uuid.New(), TeamId: teamId, UserId: userId, Role: "member"}
	require.NoError(f.t, f.db.Create(m).Error)
	return m
}

func (f *Fixtures) Bookmark(teamId uuid.UUID, url, title string) *model.Bookmark {
	f.t.Helper()
	link := &model.Link{Id: uuid.New(), Url: url, Title: title}
	require.NoError(f.t, f.db.Create(link).Error)
	bookmark := &model.Bookmark{Id: uuid.New(), LinkId: link.Id, TeamId: teamId, Provider: "web"}
	require.NoError(f.t, f.db.Create(bookmark).Error)
	bookmark.Link = link
	return bookmark
}

func (f *Fixtures) Digest(teamId uuid.UUID, title string, publishedAt *time.Time) *model.Digest {
	f.t.Helper()
	d := &model.Digest{Id: uuid.New(), TeamId: teamId, Title: title, Slug: uuid.NewString()[:8], PublishedAt: publishedAt}
	require.NoError(f.t, f.db.Create(d).Error)
	return d
}

// TextBlocks appends one TEXT block per title at positions 0..n-1.
func (f *Fixtures) TextBlocks(digestId uuid.UUID, titles ...string) []*model.DigestBlock {
	f.t.Helper()
	blocks := make([]*model.DigestBlock, len(titles))
	for i, title := range titles {
		blocks[i] = &model.DigestBlock{Id: uuid.New(), DigestId: digestId, Type: "TEXT", Position: i, Title: title}
		require.NoError(f.t, f.db.Create(blocks[i]).Error)
	}
	return blocks
}

// Positions returns block titles in position order alongside their positions.
func (f *Fixtures) Positions(digestId uuid.UUID) ([]string, []int) {
	f.t.Helper()
	var blocks []model.DigestBlock
	require.NoError(f.t, f.db.Where("digest_id = ?", digestId).Order("position ASC").Find(&blocks).Error)
	titles := make([]string, len(blocks))
	positions := make([]int, len(blocks))
	for i, b := range blocks {
		titles[i] = b.Title
		positions[i] = b.Position
	}
	return titles, positions
}
