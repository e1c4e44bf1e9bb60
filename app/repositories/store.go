package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

const (
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

var (
	ErrUnknownDriver = errors.New("unknown storage driver")
	ErrEmptyBackup   = errors.New("backup file is empty")
)

// Store bundles the repositories of one open backend.
type Store struct {
	Posts    PostRepository
	Comments CommentRepository
	Driver   string

	badger *badger.DB
	sql    *sql.DB
}

// badgerLogger routes badger's internal logging through zap.
type badgerLogger struct {
	*zap.SugaredLogger
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.Warnf(format, args...)
}

// Open opens the backend named by driver at path. An empty path opens an
// in-memory store.
func Open(driver, path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch driver {
	case DriverBadger, "":
		opts := badger.DefaultOptions(path).
			WithLogger(badgerLogger{logger.Named("badger").Sugar()}).
			WithLoggingLevel(badger.WARNING).
			WithNumVersionsToKeep(1)
		if path == "" {
			opts = opts.WithInMemory(true)
		}
		db, err := badger.Open(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open badger at %q: %w", path, err)
		}
		return &Store{
			Posts:    NewBadgerPostRepository(db),
			Comments: NewBadgerCommentRepository(db),
			Driver:   DriverBadger,
			badger:   db,
		}, nil

	case DriverSQLite:
		if path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err := openSQLite(path)
		if err != nil {
			return nil, err
		}
		return &Store{
			Posts:    NewSQLitePostRepository(db),
			Comments: NewSQLiteCommentRepository(db),
			Driver:   DriverSQLite,
			sql:      db,
		}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// Close closes the backend.
func (s *Store) Close() error {
	if s.badger != nil {
		return s.badger.Close()
	}
	return s.sql.Close()
}

// Empty reports whether the store holds no posts.
func (s *Store) Empty() (bool, error) {
	n, err := s.Posts.Count()
	return n == 0, err
}

// Backup writes a full copy of the store into dir and returns the file name.
func (s *Store) Backup(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	stamp := time.Now().UTC().Format("20060102T150405.000000000")

	if s.badger != nil {
		file := filepath.Join(dir, fmt.Sprintf("backup_%s.badger", stamp))
		f, err := os.Create(file)
		if err != nil {
			return "", fmt.Errorf("failed to create backup file: %w", err)
		}
		defer f.Close()

		if _, err := s.badger.Backup(f, 0); err != nil {
			return "", fmt.Errorf("failed to backup database: %w", err)
		}
		return file, f.Sync()
	}

	file := filepath.Join(dir, fmt.Sprintf("backup_%s.db", stamp))
	if _, err := s.sql.Exec("VACUUM INTO ?", file); err != nil {
		return "", fmt.Errorf("failed to backup database: %w", err)
	}
	return file, nil
}

// Restore loads a backup written by Backup on the same driver. Existing
// records are dropped first.
func (s *Store) Restore(file string) error {
	fi, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("failed to stat backup file: %w", err)
	}
	if fi.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyBackup, file)
	}

	if s.badger != nil {
		return s.restoreBadger(file)
	}
	return s.restoreSQLite(file)
}

func (s *Store) restoreBadger(file string) error {
	// The live store is cleared only once the file loads cleanly into a
	// scratch database.
	scratch, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		return fmt.Errorf("failed to open scratch database: %w", err)
	}
	defer scratch.Close()
	if err := loadBadger(scratch, file); err != nil {
		return fmt.Errorf("invalid backup %s: %w", file, err)
	}

	if err := s.badger.DropAll(); err != nil {
		return fmt.Errorf("failed to clear database: %w", err)
	}
	if err := loadBadger(s.badger, file); err != nil {
		return fmt.Errorf("failed to restore database: %w", err)
	}
	return nil
}

// loadBadger streams a backup file into db.
func loadBadger(db *badger.DB, file string) (err error) {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	defer func() {
		// Load panics on some malformed inputs.
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during load: %v", r)
		}
	}()
	return db.Load(f, 16)
}

func (s *Store) restoreSQLite(file string) error {
	ctx := context.Background()
	// ATTACH is per connection, so every statement runs on one.
	conn, err := s.sql.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "ATTACH DATABASE ? AS backup", file); err != nil {
		return fmt.Errorf("failed to attach backup: %w", err)
	}
	defer conn.ExecContext(ctx, "DETACH DATABASE backup")

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		"DELETE FROM tags",
		"DELETE FROM comments",
		"DELETE FROM posts",
		"INSERT INTO posts SELECT " + postColumns + " FROM backup.posts",
		"INSERT INTO comments SELECT " + commentColumns + " FROM backup.comments",
		"INSERT INTO tags SELECT id, post_id, name FROM backup.tags",
	}
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to restore database: %w", err)
		}
	}
	return tx.Commit()
}
