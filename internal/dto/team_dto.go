package dto

import "github.com/google/uuid"

type TeamResponse struct {
	Id      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Slug    string    `json:"slug"`
	Bio     string    `json:"bio,omitempty"`
	Website string    `json:"website,omitempty"`
	Github  string    `json:"github,omitempty"`
	Twitter string    `json:"twitter,omitempty"`
	Color   string    `json:"color,omitempty"`
}
