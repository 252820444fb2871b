// Package models holds the API shapes the CLI sends and receives.
package models

import "time"

type User struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type Post struct {
	ID        string    `json:"_id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	Creator   *User     `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PostsPage is one page of the feed.
type PostsPage struct {
	Posts      []*Post `json:"posts"`
	TotalItems int     `json:"total_items"`
}

type AuthData struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// PostInput is sent by createPost and updatePost. An empty ImageURL keeps the
// current image on update.
type PostInput struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"imageUrl,omitempty"`
}
