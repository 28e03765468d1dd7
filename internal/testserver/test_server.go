package testserver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/agencydesk/internal/breaker"
	"github.com/rpggio/agencydesk/internal/domain/activity"
	"github.com/rpggio/agencydesk/internal/domain/favorite"
	"github.com/rpggio/agencydesk/internal/domain/project"
	"github.com/rpggio/agencydesk/internal/domain/savedview"
	"github.com/rpggio/agencydesk/internal/domain/session"
	"github.com/rpggio/agencydesk/internal/mcp"
	"github.com/rpggio/agencydesk/internal/sqlite"
	"github.com/rpggio/agencydesk/internal/transport"
	"github.com/rpggio/agencydesk/internal/viewstate"
	"github.com/stretchr/testify/require"
)

// TestServer is the full stack behind httptest: JSON-RPC at /rpc and the
// streamable MCP handler at /mcp, both authenticated by API key.
type TestServer struct {
	Server    *httptest.Server
	DB        *sqlite.DB
	Keys      *sqlite.APIKeyStore
	Registry  *viewstate.Registry
	Token     string
	Principal session.Principal
}

// New starts a server with one API key, token, that authenticates as p.
func New(t *testing.T, token string, p session.Principal) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	activityRepo := sqlite.NewActivityRepository(db)
	projectRepo := breaker.NewProjectRepository(sqlite.NewProjectRepository(db), breaker.Settings{}, nil)

	projectSvc := project.NewService(projectRepo, sqlite.NewClientRepository(db), activityRepo, nil)
	viewSvc := savedview.NewService(sqlite.NewSavedViewRepository(db), activityRepo, nil)
	favoriteSvc := favorite.NewService(sqlite.NewFavoriteRepository(db), nil)
	activitySvc := activity.NewService(activityRepo, nil)
	sessionSvc := session.NewService(sqlite.NewSessionRepository(db), nil)

	registry := viewstate.NewRegistry(viewstate.Deps{
		Projects:  projectSvc,
		Views:     viewSvc,
		Favorites: favoriteSvc,
		Activity:  activitySvc,
	}, viewstate.Options{}, nil)

	handler := mcp.NewHandler(mcp.Services{
		Projects: projectSvc,
		Sessions: sessionSvc,
		Activity: activitySvc,
	}, registry, nil)

	keys := sqlite.NewAPIKeyStore(db)
	mcpServer := mcp.NewServer(mcp.Config{
		Handler:       handler,
		Resolver:      keys,
		AuthEnabled:   true,
		TransportMode: "http",
	})
	streamable := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)

	server := httptest.NewServer(transport.NewServer(handler, transport.Options{
		Auth: transport.AuthMiddleware(keys),
		MCP:  streamable,
	}))

	ts := &TestServer{
		Server:    server,
		DB:        db,
		Keys:      keys,
		Registry:  registry,
		Token:     token,
		Principal: p,
	}

	require.NoError(t, ts.AddAPIKey(token, p))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return ts
}

// AddAPIKey registers another token.
func (ts *TestServer) AddAPIKey(token string, p session.Principal) error {
	return ts.Keys.Create(context.Background(), token, p, "test key")
}
