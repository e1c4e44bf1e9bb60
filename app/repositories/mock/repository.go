package mock

import (
	"sort"
	"strings"
	"sync"

	"simplefeed/app/models"
	"simplefeed/app/repositories"
)

// PostRepository is an in-memory repositories.PostRepository. Records are
// copied on the way in and out, like a real store.
type PostRepository struct {
	posts     map[int]*models.Post
	nextID    int
	nextTagID int
	comments  *CommentRepository
	mutex     sync.RWMutex

	// Err, when set, is returned by every call.
	Err error
	// DeleteErr, when set, is returned by Delete for existing posts.
	DeleteErr error
}

type CommentRepository struct {
	comments map[int]*models.Comment
	nextID   int
	mutex    sync.RWMutex

	Err       error
	DeleteErr error
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:     make(map[int]*models.Post),
		nextID:    1,
		nextTagID: 1,
	}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int]*models.Comment),
		nextID:   1,
	}
}

// NewRepositories returns a post and comment repository pair where deleting
// a post removes its comments.
func NewRepositories() (*PostRepository, *CommentRepository) {
	posts, comments := NewPostRepository(), NewCommentRepository()
	posts.comments = comments
	return posts, comments
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int]*models.Post)
	m.nextID = 1
	m.nextTagID = 1
}

func (m *PostRepository) assignTagIDs(post *models.Post) {
	for _, tag := range post.Tags {
		tag.PostID = post.ID
		if tag.ID == 0 {
			tag.ID = m.nextTagID
			m.nextTagID++
		}
	}
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	post.ID = m.nextID
	m.nextID++
	m.assignTagIDs(post)
	m.posts[post.ID] = post.Clone()
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return post.Clone(), nil
}

func (m *PostRepository) sorted(keep func(*models.Post) bool) []*models.Post {
	posts := []*models.Post{}
	for _, post := range m.posts {
		if keep(post) {
			posts = append(posts, post.Clone())
		}
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
	return posts
}

func (m *PostRepository) List() ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.sorted(func(*models.Post) bool { return true }), nil
}

func (m *PostRepository) SearchByTitle(keyword string) ([]*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.sorted(func(p *models.Post) bool { return strings.Contains(p.Title, keyword) }), nil
}

func (m *PostRepository) Last() (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	var last *models.Post
	for _, post := range m.posts {
		if last == nil || post.ID > last.ID {
			last = post
		}
	}
	if last == nil {
		return nil, repositories.ErrNotFound
	}
	return last.Clone(), nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.assignTagIDs(post)
	m.posts[post.ID] = post.Clone()
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.posts, id)
	if m.comments != nil {
		m.comments.deleteForPost(id)
	}
	return nil
}

func (m *PostRepository) Count() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.posts), m.Err
}

// CommentRepository implementation
func (m *CommentRepository) Create(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	comment.ID = m.nextID
	m.nextID++
	c := *comment
	c.Post = nil
	m.comments[comment.ID] = &c
	return nil
}

func (m *CommentRepository) FindForPost(postID, id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	comment, exists := m.comments[id]
	if !exists || comment.PostID != postID {
		return nil, repositories.ErrNotFound
	}
	c := *comment
	return &c, nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if m.Err != nil {
		return nil, m.Err
	}

	comments := []*models.Comment{}
	for _, comment := range m.comments {
		if comment.PostID == postID {
			c := *comment
			comments = append(comments, &c)
		}
	}
	sort.Slice(comments, func(i, j int) bool { return comments[i].ID < comments[j].ID })
	return comments, nil
}

func (m *CommentRepository) LastForPost(postID int) (*models.Comment, error) {
	comments, err := m.ListByPost(postID)
	if err != nil {
		return nil, err
	}
	if len(comments) == 0 {
		return nil, repositories.ErrNotFound
	}
	return comments[len(comments)-1], nil
}

func (m *CommentRepository) Delete(postID, id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.Err != nil {
		return m.Err
	}

	comment, exists := m.comments[id]
	if !exists || comment.PostID != postID {
		return repositories.ErrNotFound
	}
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.comments, id)
	return nil
}

func (m *CommentRepository) Count() (int, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.comments), m.Err
}

func (m *CommentRepository) deleteForPost(postID int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for id, comment := range m.comments {
		if comment.PostID == postID {
			delete(m.comments, id)
		}
	}
}

var (
	_ repositories.PostRepository    = (*PostRepository)(nil)
	_ repositories.CommentRepository = (*CommentRepository)(nil)
)
