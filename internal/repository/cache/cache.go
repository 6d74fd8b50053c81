// Package cache holds serialized read models for the public surface.
// Entries are keyed by digest id so a block mutation only drops its own digest.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type DigestCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

const DefaultTTL = 5 * time.Minute

func DigestKey(digestId uuid.UUID) string {
	return "digest:" + digestId.String()
}

func TeamPageKey(teamId uuid.UUID) string {
	return "team-page:" + teamId.String()
}

// SlugKey maps a public (team slug, digest slug) pair to a digest id.
func SlugKey(teamSlug, digestSlug string) string {
	return fmt.Sprintf("slug:%s/%s", teamSlug, digestSlug)
}
