package repositories

import (
	"fmt"

	"simplefeed/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments are keyed by post so a post's comments are one prefix scan.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	return r.db.Update(func(txn *badger.Txn) error {
		// Get next ID
		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id

		// Marshal comment
		data, err := marshalEntity(comment)
		if err != nil {
			return err
		}

		// Save comment with post ID in key for efficient listing
		return txn.Set(commentKey(comment.PostID, comment.ID), data)
	})
}

// FindForPost retrieves a comment by ID, scoped to its post
func (r *BadgerCommentRepository) FindForPost(postID, id int) (*models.Comment, error) {
	var comment models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(commentKey(postID, id))
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		})
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListByPost retrieves all comments for a post, oldest first
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, commentPrefix(postID), false, func(val []byte) (bool, error) {
			var comment models.Comment
			if err := unmarshalEntity(val, &comment); err != nil {
				return false, fmt.Errorf("failed to unmarshal comment: %w", err)
			}
			comments = append(comments, &comment)
			return true, nil
		})
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// LastForPost returns the post's most recently created comment
func (r *BadgerCommentRepository) LastForPost(postID int) (*models.Comment, error) {
	var comment *models.Comment
	err := r.db.View(func(txn *badger.Txn) error {
		return scanPrefix(txn, commentPrefix(postID), true, func(val []byte) (bool, error) {
			comment = &models.Comment{}
			return false, unmarshalEntity(val, comment)
		})
	})
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, ErrNotFound
	}
	return comment, nil
}

// Delete deletes a comment of a post
func (r *BadgerCommentRepository) Delete(postID, id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := commentKey(postID, id)
		_, err := txn.Get(key)
		if err == badger.ErrKeyNotFound {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

// Count returns the number of stored comments
func (r *BadgerCommentRepository) Count() (int, error) {
	var n int
	err := r.db.View(func(txn *badger.Txn) error {
		n = len(keysWithPrefix(txn, []byte(CommentKeyPrefix)))
		return nil
	})
	return n, err
}
