package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"simplefeed/app/flash"
	"simplefeed/app/repositories"
	"simplefeed/app/routes"
	"simplefeed/app/services"
	"simplefeed/app/validation"
	"simplefeed/app/views"
	"simplefeed/config"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func (c *cli) serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the blog service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ln, err := net.Listen("tcp", c.cfg.Server.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", c.cfg.Server.Addr, err)
			}
			return runServer(ctx, c.cfg, c.logger, ln)
		},
	}
}

// newHandler wires an open store into the route table.
func newHandler(cfg *config.Config, store *repositories.Store, logger *zap.Logger) (http.Handler, error) {
	templates, err := views.Load()
	if err != nil {
		return nil, err
	}
	flashes, err := flash.NewStore(cfg.Flash.Secret)
	if err != nil {
		return nil, err
	}
	opts := validation.Options{
		DuplicatePostCheck:    cfg.Validation.DuplicatePostCheck,
		DuplicateCommentCheck: cfg.Validation.DuplicateCommentCheck,
	}
	return routes.Handler(routes.Deps{
		Posts:     services.NewPostService(store.Posts, store.Comments, opts),
		Comments:  services.NewCommentService(store.Comments, store.Posts, opts),
		Flash:     flashes,
		Templates: templates,
		Logger:    logger,
	}), nil
}

// runServer serves on ln until ctx is done, then shuts down within the
// configured shutdown timeout.
func runServer(ctx context.Context, cfg *config.Config, logger *zap.Logger, ln net.Listener) error {
	store, err := repositories.Open(cfg.Storage.Driver, cfg.StoragePath(), logger)
	if err != nil {
		ln.Close()
		return err
	}
	defer store.Close()

	handler, err := newHandler(cfg, store, logger)
	if err != nil {
		ln.Close()
		return err
	}
	srv := routes.NewServer(ln.Addr().String(), handler, cfg.GetReadTimeout(), cfg.GetWriteTimeout())

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting blog service",
			zap.String("addr", ln.Addr().String()),
			zap.String("driver", store.Driver),
			zap.String("path", cfg.StoragePath()),
		)
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.GetShutdownTimeout()))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GetShutdownTimeout())
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("server stopped with error", zap.Error(err))
	}
	logger.Info("server stopped")
	return nil
}
