package models

import (
	"errors"
	"time"
)

// BeforeCreate stamps the creation and update times of a new post.
func (p *Post) BeforeCreate() {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
}

// BeforeUpdate refreshes the update time.
func (p *Post) BeforeUpdate() {
	p.UpdatedAt = time.Now().UTC()
}

// Apply copies every submitted field of in onto the post.
func (p *Post) Apply(in PostInput) {
	in.Title.Apply(&p.Title)
	in.Name.Apply(&p.Name)
	in.URL.Apply(&p.URL)
	in.Content.Apply(&p.Content)
}

// Clone returns a copy of the post with its own tag slice, so that
// attempted changes can be made without touching the loaded record.
func (p *Post) Clone() *Post {
	c := *p
	c.Tags = make([]*Tag, 0, len(p.Tags))
	for _, t := range p.Tags {
		tag := *t
		c.Tags = append(c.Tags, &tag)
	}
	return &c
}

// FindTag returns the post's tag with the given id.
func (p *Post) FindTag(id int) (*Tag, bool) {
	for _, t := range p.Tags {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// RemoveTag drops the tag with the given id from the post.
func (p *Post) RemoveTag(id int) bool {
	for i, t := range p.Tags {
		if t.ID == id {
			p.Tags = append(p.Tags[:i], p.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// AddComment adds a comment to the post
func (p *Post) AddComment(comment *Comment) error {
	if comment == nil {
		return errors.New("comment cannot be nil")
	}

	comment.PostID = p.ID
	p.Comments = append(p.Comments, comment)
	return nil
}

// LastComment returns the most recently added comment, or nil.
func (p *Post) LastComment() *Comment {
	if len(p.Comments) == 0 {
		return nil
	}
	return p.Comments[len(p.Comments)-1]
}
