package entity

import (
	"time"

	"github.com/google/uuid"
)

type Team struct {
	Id        uuid.UUID
	Name      string
	Slug      string
	Bio       string
	Website   string
	Github    string
	Twitter   string
	Color     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}

type Membership struct {
	Id        uuid.UUID
	TeamId    uuid.UUID
	UserId    uuid.UUID
	Role      string
	CreatedAt time.Time
}
