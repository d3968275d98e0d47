package models

import "time"

// Post is a blog entry. Comments belong to exactly one post and have no
// lifecycle of their own; deleting the post deletes them.
type Post struct {
	ID        string    `json:"id"`
	User      Identity  `json:"user"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	ImageKey  string    `json:"image_key"`
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a single comment on a post, in insertion order.
type Comment struct {
	ID        string    `json:"id"`
	User      Identity  `json:"user"`
	Text      string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}
