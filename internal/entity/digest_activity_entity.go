package entity

import (
	"time"

	"github.com/google/uuid"
)

type DigestActivity struct {
	Id        uuid.UUID
	DigestId  uuid.UUID
	TeamId    uuid.UUID
	Type      string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
