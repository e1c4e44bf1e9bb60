package models

import "time"

// Post represents a blog post with its tags and comments.
type Post struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Tags      []*Tag     `json:"tags,omitempty"`
	Comments  []*Comment `json:"-"`
}

// Comment represents a comment on a blog post.
type Comment struct {
	ID        int       `json:"id"`
	PostID    int       `json:"post_id"`
	Commenter string    `json:"commenter"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Post      *Post     `json:"-"`
}

// Tag is a label owned by a post. Tags are only written through their post.
type Tag struct {
	ID     int    `json:"id"`
	PostID int    `json:"post_id"`
	Name   string `json:"name"`
}

// TagAttributes is one nested tag entry of a post submission.
type TagAttributes struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Destroy bool   `json:"_destroy"`
}

// PostInput carries the fields submitted for a post. A field that was not
// submitted keeps the stored value on update.
type PostInput struct {
	Title          Optional        `json:"title"`
	Name           Optional        `json:"name"`
	URL            Optional        `json:"url"`
	Content        Optional        `json:"content"`
	TagsAttributes []TagAttributes `json:"tags_attributes"`
}

// CommentInput carries the fields submitted for a comment.
type CommentInput struct {
	Commenter Optional `json:"commenter"`
	Body      Optional `json:"body"`
}
