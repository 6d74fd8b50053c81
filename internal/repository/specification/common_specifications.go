package specification

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByID filters by primary key. Table qualifies the column when the query joins.
type ByID struct {
	ID    uuid.UUID
	Table string
}

func (s ByID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(qualify(s.Table, "id")+" = ?", s.ID)
}

// ByIDs filters by a list of IDs
type ByIDs struct {
	IDs []uuid.UUID
}

func (s ByIDs) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("id IN ?", s.IDs)
}

// OrderBy applies ordering
type OrderBy struct {
	Field string
	Desc  bool
}

func (s OrderBy) Apply(db *gorm.DB) *gorm.DB {
	direction := "ASC"
	if s.Desc {
		direction = "DESC"
	}
	return db.Order(fmt.Sprintf("%s %s", s.Field, direction))
}

type Pagination struct {
	Limit  int
	Offset int
}

func (s Pagination) Apply(db *gorm.DB) *gorm.DB {
	return db.Limit(s.Limit).Offset(s.Offset)
}

// Page converts a 1-based page number into a Pagination. Pages below 1 read the first page.
func Page(page, perPage int) Pagination {
	if page < 1 {
		page = 1
	}
	return Pagination{Limit: perPage, Offset: (page - 1) * perPage}
}

// FilterBy Generic Filter
type FilterBy struct {
	Field string
	Value interface{}
}

func (s FilterBy) Apply(db *gorm.DB) *gorm.DB {
	query := fmt.Sprintf("%s = ?", s.Field)
	return db.Where(query, s.Value)
}

func Filter(field string, value interface{}) Specification {
	return FilterBy{Field: field, Value: value}
}

func qualify(table, column string) string {
	if table == "" {
		return column
	}
	return table + "." + column
}
