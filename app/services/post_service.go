package services

import (
	"errors"
	"fmt"

	"simplefeed/app/models"
	"simplefeed/app/repositories"
	"simplefeed/app/validation"
)

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	rules       *validation.Engine[models.Post]
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, opts validation.Options) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		rules:       validation.NewPostEngine(opts),
	}
}

// List returns every post, or the posts whose title contains keyword. No
// match is an empty list, not an error.
func (s *PostService) List(keyword string) (Result[[]*models.Post], error) {
	var (
		posts []*models.Post
		err   error
	)
	if keyword == "" {
		posts, err = s.postRepo.List()
	} else {
		posts, err = s.postRepo.SearchByTitle(keyword)
	}
	if err != nil {
		return Result[[]*models.Post]{}, fmt.Errorf("failed to list posts: %w", err)
	}
	return ok(posts), nil
}

// Get retrieves a post by ID with its comments
func (s *PostService) Get(id int) (Result[*models.Post], error) {
	post, err := s.postRepo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound[*models.Post](MsgPostNotFound), nil
	}
	if err != nil {
		return Result[*models.Post]{}, fmt.Errorf("failed to get post %d: %w", id, err)
	}

	comments, err := s.commentRepo.ListByPost(id)
	if err != nil {
		return Result[*models.Post]{}, fmt.Errorf("failed to get comments: %w", err)
	}
	for _, c := range comments {
		if err := post.AddComment(c); err != nil {
			return Result[*models.Post]{}, err
		}
		c.Post = post
	}
	return ok(post), nil
}

// New returns a blank candidate for the creation form.
func (s *PostService) New() Result[*models.Post] {
	return ok(&models.Post{})
}

// Create validates a post built from in and stores it.
func (s *PostService) Create(in models.PostInput) (Result[*models.Post], error) {
	post := &models.Post{}
	post.Apply(in)
	tagErrs := validation.ApplyTags(post, in.TagsAttributes)

	var previous *models.Post
	if s.rules.NeedsPrevious(validation.OnCreate) {
		last, err := s.postRepo.Last()
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return Result[*models.Post]{}, fmt.Errorf("failed to load last post: %w", err)
		}
		previous = last
	}

	errs := s.rules.Validate(validation.OnCreate, post, previous)
	errs.Add(tagErrs...)
	if !errs.Empty() {
		return rejected(post, errs), nil
	}

	post.BeforeCreate()
	if err := s.postRepo.Create(post); err != nil {
		return Result[*models.Post]{}, fmt.Errorf("failed to create post: %w", err)
	}
	return Result[*models.Post]{Status: StatusCreated, Value: post}, nil
}

// Update applies the submitted fields to the stored post and revalidates
// the whole result. A rejected candidate is returned but never stored.
func (s *PostService) Update(id int, in models.PostInput) (Result[*models.Post], error) {
	stored, err := s.postRepo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound[*models.Post](MsgPostNotFound), nil
	}
	if err != nil {
		return Result[*models.Post]{}, fmt.Errorf("failed to get post %d: %w", id, err)
	}

	post := stored.Clone()
	post.Apply(in)
	tagErrs := validation.ApplyTags(post, in.TagsAttributes)

	errs := s.rules.Validate(validation.OnUpdate, post, nil)
	errs.Add(tagErrs...)
	if !errs.Empty() {
		return rejected(post, errs), nil
	}

	post.BeforeUpdate()
	err = s.postRepo.Update(post)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound[*models.Post](MsgPostNotFound), nil
	}
	if err != nil {
		return Result[*models.Post]{}, fmt.Errorf("failed to update post %d: %w", id, err)
	}
	return Result[*models.Post]{Status: StatusUpdated, Value: post}, nil
}

// Delete removes a post and all its comments. A store failure is reported
// as StatusDeleteFailed rather than an error.
func (s *PostService) Delete(id int) (Result[*models.Post], error) {
	post, err := s.postRepo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound[*models.Post](MsgPostNotFound), nil
	}
	if err != nil {
		return Result[*models.Post]{}, fmt.Errorf("failed to get post %d: %w", id, err)
	}

	err = s.postRepo.Delete(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound[*models.Post](MsgPostNotFound), nil
	}
	if err != nil {
		return Result[*models.Post]{Status: StatusDeleteFailed, Value: post, Message: MsgPostDeleteFailed, Cause: err}, nil
	}
	return Result[*models.Post]{Status: StatusDeleted, Value: post}, nil
}

// Count returns the number of stored posts.
func (s *PostService) Count() (int, error) {
	return s.postRepo.Count()
}
