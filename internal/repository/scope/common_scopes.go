package scope

import "gorm.io/gorm"

func OrderByPositionAsc(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
