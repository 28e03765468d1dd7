package mcp

import (
	"context"
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connectClient(t *testing.T, s *testStack) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := NewServer(Config{Handler: s.handler, TransportMode: "stdio"})
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()

	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "0.0.1"}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })
	return cs
}

func TestServer_ListsEveryTool(t *testing.T) {
	cs := connectClient(t, newTestStack(t))

	res, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)

	got := make(map[string]bool, len(res.Tools))
	for _, tool := range res.Tools {
		got[tool.Name] = true
	}
	for _, def := range buildToolCatalog() {
		require.True(t, got[def.Name], "tool %s not registered", def.Name)
	}
}

func TestServer_CallTool(t *testing.T) {
	cs := connectClient(t, newTestStack(t))
	ctx := context.Background()

	res, err := cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "create_project",
		Arguments: map[string]any{"name": "Brand refresh", "status": "active"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	var created ProjectResponse
	require.NoError(t, json.Unmarshal([]byte(text.Text), &created))
	require.Equal(t, "Brand refresh", created.Project.Name)

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{Name: "list_projects", Arguments: map[string]any{}})
	require.NoError(t, err)
	var page ProjectsResponse
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(*sdkmcp.TextContent).Text), &page))
	require.Equal(t, 1, page.TotalItems)

	res, err = cs.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "set_view_mode",
		Arguments: map[string]any{"mode": "spreadsheet"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)

	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(res.Content[0].(*sdkmcp.TextContent).Text), &apiErr))
	require.Equal(t, CodeValidationFailed, apiErr.Code)
}

func TestServer_ReadsDocs(t *testing.T) {
	cs := connectClient(t, newTestStack(t))

	for _, doc := range docResources {
		res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: doc.URI})
		require.NoError(t, err)
		require.Len(t, res.Contents, 1)
		require.Equal(t, doc.Content, res.Contents[0].Text)
	}
}
