package service

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"simplefeed/app/models"
	"simplefeed/app/repositories"
	"simplefeed/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupConfig writes a config file whose store and backups live in a
// temporary directory and returns its path.
func setupConfig(t *testing.T, driver string) (string, *config.Config) {
	t.Helper()
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.Storage.Driver = driver
	cfg.Storage.Path = filepath.Join(dir, "store")
	if driver == repositories.DriverSQLite {
		cfg.Storage.Path = filepath.Join(dir, "simplefeed.db")
	}
	cfg.Storage.BackupDir = filepath.Join(dir, "backups")
	cfg.Logging.Level = "error"

	body := fmt.Sprintf("storage:\n  driver: %s\n  path: %s\n  backup_dir: %s\nlogging:\n  level: error\n",
		driver, cfg.Storage.Path, cfg.Storage.BackupDir)
	path := filepath.Join(dir, "simplefeed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path, cfg
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func run(t *testing.T, configPath, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetArgs(append([]string{"--config", configPath}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func addPost(t *testing.T, cfg *config.Config, title string) {
	t.Helper()
	store, err := repositories.Open(cfg.Storage.Driver, cfg.StoragePath(), nil)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Posts.Create(&models.Post{Title: title, Name: "kim"}))
}

func countPosts(t *testing.T, cfg *config.Config) int {
	t.Helper()
	store, err := repositories.Open(cfg.Storage.Driver, cfg.StoragePath(), nil)
	require.NoError(t, err)
	defer store.Close()
	n, err := store.Posts.Count()
	require.NoError(t, err)
	return n
}

func TestVersion(t *testing.T) {
	path, _ := setupConfig(t, repositories.DriverBadger)
	output, err := run(t, path, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "simplefeed version "+Version+"\n", output)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: postgres\n"), 0644))

	_, err := run(t, path, "", "version")
	assert.ErrorIs(t, err, config.ErrInvalidDriver)
}

func TestUnknownCommand(t *testing.T) {
	path, _ := setupConfig(t, repositories.DriverBadger)
	_, err := run(t, path, "", "frobnicate")
	assert.Error(t, err)
}

func TestRestoreRequiresFile(t *testing.T) {
	path, _ := setupConfig(t, repositories.DriverBadger)
	_, err := run(t, path, "", "restore")
	assert.Error(t, err)
}

func TestStoreCommands(t *testing.T) {
	for _, driver := range []string{repositories.DriverBadger, repositories.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			path, cfg := setupConfig(t, driver)

			t.Run("clean non-existent store", func(t *testing.T) {
				output, err := run(t, path, "", "clean")
				require.NoError(t, err)
				assert.Contains(t, output, "Store is already clean")
			})

			t.Run("backup without store", func(t *testing.T) {
				_, err := run(t, path, "", "backup")
				assert.ErrorIs(t, err, ErrNoStore)
			})

			t.Run("init new store", func(t *testing.T) {
				output, err := run(t, path, "", "init")
				require.NoError(t, err)
				assert.Contains(t, output, "Store initialized successfully")
				assert.True(t, exists(cfg.StoragePath()))
			})

			t.Run("init existing store", func(t *testing.T) {
				_, err := run(t, path, "", "init")
				assert.ErrorIs(t, err, ErrStoreExists)
			})

			t.Run("clean cancelled", func(t *testing.T) {
				output, err := run(t, path, "n\n", "clean")
				require.NoError(t, err)
				assert.Contains(t, output, "Operation cancelled")
				assert.True(t, exists(cfg.StoragePath()))
			})

			var backupFile string
			t.Run("backup and restore", func(t *testing.T) {
				addPost(t, cfg, "Backed up post")

				output, err := run(t, path, "", "backup")
				require.NoError(t, err)
				assert.Contains(t, output, "Store backed up successfully")
				files, err := filepath.Glob(filepath.Join(cfg.Storage.BackupDir, "backup_*"))
				require.NoError(t, err)
				require.Len(t, files, 1)
				backupFile = files[0]

				output, err = run(t, path, "y\n", "clean")
				require.NoError(t, err)
				assert.Contains(t, output, "Store cleaned successfully")
				assert.False(t, exists(cfg.StoragePath()))

				output, err = run(t, path, "", "restore", backupFile)
				require.NoError(t, err)
				assert.Contains(t, output, "Store restored successfully")
				assert.Equal(t, 1, countPosts(t, cfg))
			})

			t.Run("restore into non-empty store", func(t *testing.T) {
				addPost(t, cfg, "Second post here")

				output, err := run(t, path, "n\n", "restore", backupFile)
				assert.ErrorIs(t, err, ErrCancelled)
				assert.Contains(t, output, "Operation cancelled")
				assert.Equal(t, 2, countPosts(t, cfg))

				_, err = run(t, path, "", "restore", "--yes", backupFile)
				require.NoError(t, err)
				assert.Equal(t, 1, countPosts(t, cfg))
			})

			t.Run("restore missing file", func(t *testing.T) {
				_, err := run(t, path, "", "restore", filepath.Join(t.TempDir(), "nope"))
				assert.ErrorIs(t, err, ErrNoBackupFile)
			})

			t.Run("clean without prompt", func(t *testing.T) {
				_, err := run(t, path, "", "clean", "--yes")
				require.NoError(t, err)
				assert.False(t, exists(cfg.StoragePath()))
			})
		})
	}
}

func TestRunServer(t *testing.T) {
	_, cfg := setupConfig(t, repositories.DriverSQLite)
	cfg.Server.ShutdownTimeout = "2s"

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runServer(ctx, cfg, zap.NewNop(), ln) }()

	url := fmt.Sprintf("http://%s/api/posts", ln.Addr())
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
