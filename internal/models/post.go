package models

import "time"

// PostComment is embedded on the post row as jsonb. Name is supplied by
// the commenter or generated for them.
type PostComment struct {
	Name      string    `json:"name"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

type PostImage struct {
	ID  string `json:"id"`
	URL string `json:"url"`
	Tag string `json:"tag,omitempty"`
}

type Post struct {
	ID         string
	BlogID     string
	Title      string
	Content    string
	Categories []string
	Comments   []PostComment
	Images     []PostImage
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
