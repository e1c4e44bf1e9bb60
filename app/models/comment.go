package models

import (
	"errors"
	"time"
)

// BeforeCreate sets up any necessary fields before creation
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
}

// Apply copies every submitted field of in onto the comment.
func (c *Comment) Apply(in CommentInput) {
	in.Commenter.Apply(&c.Commenter)
	in.Body.Apply(&c.Body)
}

// SetPost sets the parent post and updates the PostID
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}

	c.Post = post
	c.PostID = post.ID
	return nil
}
