package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/agencydesk/internal/breaker"
	"github.com/rpggio/agencydesk/internal/config"
	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/favorite"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/rpggio/agencydesk/internal/logging"
	"github.com/rpggio/agencydesk/internal/mcp"
	"github.com/rpggio/agencydesk/internal/sqlite"
	"github.com/rpggio/agencydesk/internal/transport"
	"github.com/rpggio/agencydesk/internal/viewstate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	stream := io.Writer(os.Stdout)
	if cfg.Transport.Mode == "stdio" {
		stream = os.Stderr
	}
	logger, logCloser, err := logging.New(cfg.Log, stream)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log setup error: %v\n", err)
		os.Exit(1)
	}
	defer logCloser.Close()

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		logger.Error("failed to prepare database path", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	activityRepo := sqlite.NewActivityRepository(db)
	projectRepo := breaker.NewProjectRepository(sqlite.NewProjectRepository(db), breaker.Settings{
		Name:        "projects",
		MaxFailures: cfg.Breaker.MaxFailures,
		OpenTimeout: cfg.Breaker.OpenTimeout,
	}, logger)

	projectSvc := project.NewService(projectRepo, sqlite.NewClientRepository(db), activityRepo, logger)
	viewSvc := savedview.NewService(sqlite.NewSavedViewRepository(db), activityRepo, logger)
	favoriteSvc := favorite.NewService(sqlite.NewFavoriteRepository(db), logger)
	activitySvc := activity.NewService(activityRepo, logger)
	sessionSvc := session.NewService(sqlite.NewSessionRepository(db), logger)

	registry := viewstate.NewRegistry(viewstate.Deps{
		Projects:  projectSvc,
		Views:     viewSvc,
		Favorites: favoriteSvc,
		Activity:  activitySvc,
	}, viewstate.Options{PageSize: cfg.View.PageSize}, logger)

	handler := mcp.NewHandler(mcp.Services{
		Projects: projectSvc,
		Sessions: sessionSvc,
		Activity: activitySvc,
	}, registry, logger)

	keys := sqlite.NewAPIKeyStore(db)
	mcpServer := mcp.NewServer(mcp.Config{
		Handler:       handler,
		Resolver:      keys,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		runStdioMode(logger, mcpServer)
		return
	}

	auth := transport.StaticPrincipal(mcp.DefaultPrincipal)
	if cfg.Auth.Enabled {
		auth = transport.AuthMiddleware(keys)
	}
	runHTTPMode(logger, handler, mcpServer, auth, cfg.Server.Host, cfg.Server.Port)
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport", "auth", "disabled")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, &sdkmcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

func runHTTPMode(logger *slog.Logger, handler *mcp.Handler, mcpServer *sdkmcp.Server, auth func(http.Handler) http.Handler, host string, port int) {
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			SessionTimeout: 30 * time.Minute,
			Logger:         logger,
		},
	)

	addr := fmt.Sprintf("%s:%d", host, port)
	httpServer := &http.Server{
		Addr: addr,
		Handler: transport.NewServer(handler, transport.Options{
			Auth:   auth,
			MCP:    streamable,
			Logger: logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()

	waitForShutdown(logger, httpServer)
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func waitForShutdown(logger *slog.Logger, server *http.Server) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
