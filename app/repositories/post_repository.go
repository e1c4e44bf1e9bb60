package repositories

import (
	"fmt"
	"strings"

	"simplefeed/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// assignTagIDs gives every new tag of post an id and the post's id.
func assignTagIDs(txn *badger.Txn, post *models.Post) error {
	for _, tag := range post.Tags {
		tag.PostID = post.ID
		if tag.ID != 0 {
			continue
		}
		id, err := getNextID(txn, TagSeqKey)
		if err != nil {
			return err
		}
		tag.ID = id
	}
	return nil
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		// Get next ID
		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		if err := assignTagIDs(txn, post); err != nil {
			return err
		}

		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(postKey(post.ID), data)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post

	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(postKey(id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
	})

	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves every post in creation order
func (r *BadgerPostRepository) List() ([]*models.Post, error) {
	return r.filter(func(*models.Post) bool { return true })
}

// SearchByTitle returns the posts whose title contains keyword. The match
// is case-sensitive.
func (r *BadgerPostRepository) SearchByTitle(keyword string) ([]*models.Post, error) {
	return r.filter(func(p *models.Post) bool {
		return strings.Contains(p.Title, keyword)
	})
}

func (r *BadgerPostRepository) filter(keep func(*models.Post) bool) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(PostKeyPrefix), false, func(val []byte) (bool, error) {
			var post models.Post
			if err := unmarshalEntity(val, &post); err != nil {
				return false, fmt.Errorf("failed to unmarshal post: %w", err)
			}
			if keep(&post) {
				posts = append(posts, &post)
			}
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Last returns the most recently created post
func (r *BadgerPostRepository) Last() (*models.Post, error) {
	var post *models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, []byte(PostKeyPrefix), true, func(val []byte) (bool, error) {
			post = &models.Post{}
			return false, unmarshalEntity(val, post)
		})
	})
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(post.ID)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := assignTagIDs(txn, post); err != nil {
			return err
		}

		// Marshal and save updated post
		data, err := marshalEntity(post)
		if err != nil {
			return err
		}
		return txn.Set(key, data)
	})
}

// Delete deletes a post by ID together with its comments
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(id)

		// Verify post exists
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		for _, k := range keysWithPrefix(txn, commentPrefix(id)) {
			if err := txn.Delete(k); err != nil {
				return fmt.Errorf("failed to delete comment %s: %w", k, err)
			}
		}
		return txn.Delete(key)
	})
}

// Count returns the number of stored posts
func (r *BadgerPostRepository) Count() (int, error) {
	var n int
	err := r.db.View(func(txn *badger.Txn) error {
		n = len(keysWithPrefix(txn, []byte(PostKeyPrefix)))
		return nil
	})
	return n, err
}
