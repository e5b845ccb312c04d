package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/apermo/friends/api"
	"github.com/apermo/friends/api/validator"
	"github.com/apermo/friends/emoji"
	"github.com/apermo/friends/postgres"
	"github.com/apermo/friends/redis"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the reactions HTTP server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := postgres.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	cache, err := redis.Connect(ctx, cfg.Redis.Addr)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	catalog, err := emoji.New(cfg.Reactions.AvailableEmojis)
	if err != nil {
		return fmt.Errorf("build emoji catalog: %w", err)
	}

	a := &api.API{
		Logger:        logger,
		DB:            pg,
		Cache:         cache,
		Emoji:         catalog,
		Auth:          headerAuth{users: pg},
		Val:           validator.New(),
		Notifier:      logNotifier{logger: logger},
		PrimaryUserID: cfg.Reactions.PrimaryUserID,
	}

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: a,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	logger.Info("Listening", "addr", cfg.ListenAddr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// userIDHeader carries the authenticated user id, set by the identity
// proxy in front of the service.
const userIDHeader = "X-Friends-User-ID"

// headerAuth trusts the identity proxy's user id header and resolves it
// against the user directory.
type headerAuth struct {
	users interface {
		GetUser(ctx context.Context, userID int64) (api.User, error)
	}
}

func (h headerAuth) Authenticate(r *http.Request) (api.User, error) {
	id, err := strconv.ParseInt(r.Header.Get(userIDHeader), 10, 64)
	if err != nil || id <= 0 {
		return api.User{}, fmt.Errorf("no authenticated user")
	}
	u, err := h.users.GetUser(r.Context(), id)
	if err != nil {
		return api.User{}, fmt.Errorf("unknown user %d: %w", id, err)
	}
	return u, nil
}

// logNotifier stands in for the remote cross-poster subscribed to
// user-reacted events.
type logNotifier struct {
	logger *slog.Logger
}

func (n logNotifier) UserReacted(postID int64) {
	n.logger.Info("User reacted", "post_id", postID)
}
