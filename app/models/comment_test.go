package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommentBeforeCreate(t *testing.T) {
	comment := &Comment{
		ID:        1,
		PostID:    1,
		Commenter: "John Doe",
		Body:      "Test Comment",
	}

	assert.True(t, comment.CreatedAt.IsZero())
	comment.BeforeCreate()
	assert.False(t, comment.CreatedAt.IsZero())
}

func TestCommentApply(t *testing.T) {
	comment := &Comment{Commenter: "John Doe", Body: "Original body"}

	comment.Apply(CommentInput{Body: Some("Updated body")})

	assert.Equal(t, "John Doe", comment.Commenter)
	assert.Equal(t, "Updated body", comment.Body)
}

func TestCommentSetPost(t *testing.T) {
	comment := &Comment{
		ID:        1,
		Commenter: "John Doe",
		Body:      "Test Comment",
	}

	t.Run("set valid post", func(t *testing.T) {
		post := &Post{
			ID:    1,
			Title: "Test Post",
			Name:  "Tester",
		}

		err := comment.SetPost(post)
		assert.NoError(t, err)
		assert.Equal(t, post.ID, comment.PostID)
		assert.Equal(t, post, comment.Post)
	})

	t.Run("set nil post", func(t *testing.T) {
		err := comment.SetPost(nil)
		assert.Error(t, err)
	})
}
