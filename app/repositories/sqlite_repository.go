package repositories

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"simplefeed/app/models"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// openSQLite opens the database at path and applies the schema. An empty
// path opens a private in-memory database.
func openSQLite(path string) (*sql.DB, error) {
	dsn := "file::memory:?_foreign_keys=on"
	if path != "" {
		dsn = "file:" + path + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL"
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection keeps an in-memory database alive and serializes
	// writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return db, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// SQLitePostRepository implements PostRepository on SQLite
type SQLitePostRepository struct {
	db *sql.DB
}

// NewSQLitePostRepository creates a new SQLitePostRepository
func NewSQLitePostRepository(db *sql.DB) *SQLitePostRepository {
	return &SQLitePostRepository{db: db}
}

const postColumns = "id, title, name, url, content, created_at, updated_at"

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	if err := row.Scan(&p.ID, &p.Title, &p.Name, &p.URL, &p.Content, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a new post and its tags
func (r *SQLitePostRepository) Create(post *models.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO posts (title, name, url, content, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
		post.Title, post.Name, post.URL, post.Content, post.CreatedAt, post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	post.ID = int(id)

	if err := syncTags(tx, post); err != nil {
		return err
	}
	return tx.Commit()
}

// syncTags makes the stored tags of post match post.Tags, assigning ids
// to new tags.
func syncTags(tx *sql.Tx, post *models.Post) error {
	keep := map[int]bool{}
	for _, tag := range post.Tags {
		tag.PostID = post.ID
		if tag.ID == 0 {
			res, err := tx.Exec("INSERT INTO tags (post_id, name) VALUES (?, ?)", post.ID, tag.Name)
			if err != nil {
				return fmt.Errorf("failed to insert tag: %w", err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			tag.ID = int(id)
		} else if _, err := tx.Exec("UPDATE tags SET name = ? WHERE id = ? AND post_id = ?", tag.Name, tag.ID, post.ID); err != nil {
			return fmt.Errorf("failed to update tag %d: %w", tag.ID, err)
		}
		keep[tag.ID] = true
	}

	rows, err := tx.Query("SELECT id FROM tags WHERE post_id = ?", post.ID)
	if err != nil {
		return err
	}
	var stale []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		if !keep[id] {
			stale = append(stale, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, id := range stale {
		if _, err := tx.Exec("DELETE FROM tags WHERE id = ?", id); err != nil {
			return fmt.Errorf("failed to delete tag %d: %w", id, err)
		}
	}
	return nil
}

// loadTags attaches stored tags to posts.
func (r *SQLitePostRepository) loadTags(posts ...*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	byID := make(map[int]*models.Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	query := "SELECT id, post_id, name FROM tags ORDER BY id"
	var args []any
	if len(posts) == 1 {
		query = "SELECT id, post_id, name FROM tags WHERE post_id = ? ORDER BY id"
		args = append(args, posts[0].ID)
	}
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag models.Tag
		if err := rows.Scan(&tag.ID, &tag.PostID, &tag.Name); err != nil {
			return err
		}
		if p, ok := byID[tag.PostID]; ok {
			p.Tags = append(p.Tags, &tag)
		}
	}
	return rows.Err()
}

// GetByID retrieves a post by ID
func (r *SQLitePostRepository) GetByID(id int) (*models.Post, error) {
	post, err := scanPost(r.db.QueryRow("SELECT "+postColumns+" FROM posts WHERE id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(post); err != nil {
		return nil, err
	}
	return post, nil
}

func (r *SQLitePostRepository) query(where string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.Query("SELECT "+postColumns+" FROM posts "+where+" ORDER BY id", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer rows.Close()

	posts := []*models.Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.loadTags(posts...); err != nil {
		return nil, err
	}
	return posts, nil
}

// List retrieves every post in creation order
func (r *SQLitePostRepository) List() ([]*models.Post, error) {
	return r.query("")
}

// SearchByTitle returns the posts whose title contains keyword
func (r *SQLitePostRepository) SearchByTitle(keyword string) ([]*models.Post, error) {
	// instr is case-sensitive, unlike LIKE.
	return r.query("WHERE instr(title, ?) > 0", keyword)
}

// Last returns the most recently created post
func (r *SQLitePostRepository) Last() (*models.Post, error) {
	post, err := scanPost(r.db.QueryRow("SELECT " + postColumns + " FROM posts ORDER BY id DESC LIMIT 1"))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update updates an existing post and syncs its tags
func (r *SQLitePostRepository) Update(post *models.Post) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"UPDATE posts SET title = ?, name = ?, url = ?, content = ?, updated_at = ? WHERE id = ?",
		post.Title, post.Name, post.URL, post.Content, post.UpdatedAt, post.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return ErrNotFound
	}

	if err := syncTags(tx, post); err != nil {
		return err
	}
	return tx.Commit()
}

// Delete deletes a post by ID. Comments and tags go with it.
func (r *SQLitePostRepository) Delete(id int) error {
	res, err := r.db.Exec("DELETE FROM posts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored posts
func (r *SQLitePostRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM posts").Scan(&n)
	return n, err
}

// SQLiteCommentRepository implements CommentRepository on SQLite
type SQLiteCommentRepository struct {
	db *sql.DB
}

// NewSQLiteCommentRepository creates a new SQLiteCommentRepository
func NewSQLiteCommentRepository(db *sql.DB) *SQLiteCommentRepository {
	return &SQLiteCommentRepository{db: db}
}

const commentColumns = "id, post_id, commenter, body, created_at"

func scanComment(row rowScanner) (*models.Comment, error) {
	var c models.Comment
	if err := row.Scan(&c.ID, &c.PostID, &c.Commenter, &c.Body, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create creates a new comment
func (r *SQLiteCommentRepository) Create(comment *models.Comment) error {
	res, err := r.db.Exec(
		"INSERT INTO comments (post_id, commenter, body, created_at) VALUES (?, ?, ?, ?)",
		comment.PostID, comment.Commenter, comment.Body, comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	comment.ID = int(id)
	return nil
}

// FindForPost retrieves a comment by ID, scoped to its post
func (r *SQLiteCommentRepository) FindForPost(postID, id int) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRow("SELECT "+commentColumns+" FROM comments WHERE post_id = ? AND id = ?", postID, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// ListByPost retrieves all comments for a post, oldest first
func (r *SQLiteCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	rows, err := r.db.Query("SELECT "+commentColumns+" FROM comments WHERE post_id = ? ORDER BY id", postID)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []*models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// LastForPost returns the post's most recently created comment
func (r *SQLiteCommentRepository) LastForPost(postID int) (*models.Comment, error) {
	c, err := scanComment(r.db.QueryRow("SELECT "+commentColumns+" FROM comments WHERE post_id = ? ORDER BY id DESC LIMIT 1", postID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return c, err
}

// Delete deletes a comment of a post
func (r *SQLiteCommentRepository) Delete(postID, id int) error {
	res, err := r.db.Exec("DELETE FROM comments WHERE post_id = ? AND id = ?", postID, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stored comments
func (r *SQLiteCommentRepository) Count() (int, error) {
	var n int
	err := r.db.QueryRow("SELECT COUNT(*) FROM comments").Scan(&n)
	return n, err
}
