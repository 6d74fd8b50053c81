package scope

import "gorm.io/gorm"

// WithSoftDelete includes soft-deleted digests, e.g. when reserving a slug.
func WithSoftDelete(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
