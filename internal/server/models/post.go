package models

import "time"

type Post struct {
	ID        string
	Title     string
	Content   string
	ImageURL  string
	CreatorID string
	Creator   *User
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PostPage is one page of posts plus the total number of posts.
type PostPage struct {
	Posts      []*Post `json:"posts"`
	TotalItems int     `json:"total_items"`
}
