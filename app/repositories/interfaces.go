package repositories

import (
	"errors"

	"simplefeed/app/models"
)

var (
	ErrNotFound = errors.New("record not found")
)

// PostRepository defines the interface for post data access. Tags are
// stored and loaded together with their post.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	List() ([]*models.Post, error)
	SearchByTitle(keyword string) ([]*models.Post, error)
	Last() (*models.Post, error)
	Update(post *models.Post) error
	Delete(id int) error
	Count() (int, error)
}

// CommentRepository defines the interface for comment data access
type CommentRepository interface {
	Create(comment *models.Comment) error
	FindForPost(postID, id int) (*models.Comment, error)
	ListByPost(postID int) ([]*models.Comment, error)
	LastForPost(postID int) (*models.Comment, error)
	Delete(postID, id int) error
	Count() (int, error)
}
