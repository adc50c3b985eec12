package models

import "time"

// Assignee is a collaborator attached to a blog, stored as jsonb.
type Assignee struct {
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

type Blog struct {
	ID          string
	OwnerID     string
	Name        string
	Description string
	ImageURL    *string
	Assignees   []Assignee
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
