package mcp

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/testutils"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/domain"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	loader, err := memory.NewFromModels(testutils.LinearModel())
	require.NoError(t, err)
	eng, err := arbor.New("", arbor.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(eng)
}

func callRequest(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestMCP_ListAndDescribe(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleListModels(ctx, callRequest(nil))
	require.NoError(t, err)
	assert.Equal(t, "linear", resultText(t, res))

	res, err = s.handleDescribe(ctx, callRequest(map[string]any{"model": "linear"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Contains(t, resultText(t, res), "linear")

	res, err = s.handleDescribe(ctx, callRequest(map[string]any{"model": "nope"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMCP_Predict(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	args := map[string]any{"model": "linear", "inputs": map[string]any{"x": 1.0, "y": 1.0}}
	resp, err := s.handlePredict(ctx, callRequest(args), args)
	require.NoError(t, err)
	assert.Equal(t, domain.Categorical(1), resp.Output)

	args = map[string]any{"model": "linear", "inputs": `{"x": 0, "y": 1}`}
	resp, err = s.handlePredict(ctx, callRequest(args), args)
	require.NoError(t, err)
	assert.Equal(t, domain.Categorical(2), resp.Output)

	args = map[string]any{"model": "linear", "inputs": map[string]any{"x": "one"}}
	_, err = s.handlePredict(ctx, callRequest(args), args)
	assert.Error(t, err)
}

func TestMCP_GenerateCode(t *testing.T) {
	s := newTestServer(t)
	args := map[string]any{"model": "linear", "language": "ruby"}

	resp, err := s.handleGenerate(context.Background(), callRequest(args), args)
	require.NoError(t, err)
	assert.Equal(t, "ruby", resp.Language)
	assert.Contains(t, resp.Source, "def predict")
}

func TestMCP_GraphTrace(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	res, err := s.handleGraph(ctx, callRequest(map[string]any{"model": "linear"}))
	require.NoError(t, err)
	plain := resultText(t, res)
	assert.False(t, strings.Contains(plain, "visited"))

	res, err = s.handleGraph(ctx, callRequest(map[string]any{
		"model":  "linear",
		"inputs": map[string]any{"x": 1.0, "y": 1.0},
	}))
	require.NoError(t, err)
	assert.Contains(t, resultText(t, res), "visited")
}

func TestMCP_ModelResource(t *testing.T) {
	s := newTestServer(t)

	var req mcp.ReadResourceRequest
	req.Params.URI = modelURIPrefix + "linear"
	contents, err := s.readModel(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text := contents[0].(mcp.TextResourceContents)
	assert.Contains(t, text.Text, "param 0")
}
