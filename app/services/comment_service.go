package services

import (
	"errors"
	"fmt"

	"simplefeed/app/models"
	"simplefeed/app/repositories"
	"simplefeed/app/validation"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	rules       *validation.Engine[models.Comment]
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, opts validation.Options) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		rules:       validation.NewCommentEngine(opts),
	}
}

func (s *CommentService) findPost(postID int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post %d: %w", postID, err)
	}
	return post, nil
}

// Create validates a comment on the given post and stores it.
func (s *CommentService) Create(postID int, in models.CommentInput) (Result[*models.Comment], error) {
	post, err := s.findPost(postID)
	if err != nil {
		return Result[*models.Comment]{}, err
	}
	if post == nil {
		return notFound[*models.Comment](MsgPostNotFound), nil
	}

	comment := &models.Comment{}
	if err := comment.SetPost(post); err != nil {
		return Result[*models.Comment]{}, err
	}
	comment.Apply(in)

	var previous *models.Comment
	if s.rules.NeedsPrevious(validation.OnCreate) {
		last, err := s.commentRepo.LastForPost(postID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return Result[*models.Comment]{}, fmt.Errorf("failed to load last comment: %w", err)
		}
		previous = last
	}

	if errs := s.rules.Validate(validation.OnCreate, comment, previous); !errs.Empty() {
		return rejected(comment, errs), nil
	}

	comment.BeforeCreate()
	if err := s.commentRepo.Create(comment); err != nil {
		return Result[*models.Comment]{}, fmt.Errorf("failed to create comment: %w", err)
	}
	return Result[*models.Comment]{Status: StatusCreated, Value: comment}, nil
}

// Delete removes a comment of the given post. The post is resolved first;
// a missing post and a missing comment are told apart by Message.
func (s *CommentService) Delete(postID, id int) (Result[*models.Comment], error) {
	post, err := s.findPost(postID)
	if err != nil {
		return Result[*models.Comment]{}, err
	}
	if post == nil {
		return notFound[*models.Comment](MsgPostNotFound), nil
	}

	comment, err := s.commentRepo.FindForPost(postID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound[*models.Comment](MsgCommentNotFound), nil
	}
	if err != nil {
		return Result[*models.Comment]{}, fmt.Errorf("failed to get comment %d: %w", id, err)
	}
	comment.Post = post

	err = s.commentRepo.Delete(postID, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound[*models.Comment](MsgCommentNotFound), nil
	}
	if err != nil {
		return Result[*models.Comment]{Status: StatusDeleteFailed, Value: comment, Message: MsgCommentDeleteFailed, Cause: err}, nil
	}
	return Result[*models.Comment]{Status: StatusDeleted, Value: comment}, nil
}

// List retrieves all comments for a post
func (s *CommentService) List(postID int) (Result[[]*models.Comment], error) {
	post, err := s.findPost(postID)
	if err != nil {
		return Result[[]*models.Comment]{}, err
	}
	if post == nil {
		return notFound[[]*models.Comment](MsgPostNotFound), nil
	}

	comments, err := s.commentRepo.ListByPost(postID)
	if err != nil {
		return Result[[]*models.Comment]{}, fmt.Errorf("failed to list comments: %w", err)
	}
	return ok(comments), nil
}
