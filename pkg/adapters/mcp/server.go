// Package mcp exposes an arbor engine as a Model Context Protocol server.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/pkg/codegen"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/eval"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/schema"
)

const modelURIPrefix = "arbor://models/"

// PredictResponse is the structured result of the predict tool.
type PredictResponse struct {
	Model  string          `json:"model" jsonschema_description:"Name of the evaluated model"`
	Output domain.Variable `json:"output" jsonschema_description:"The prediction, as {kind, value}"`
}

// CodeResponse is the structured result of the generate_code tool.
type CodeResponse struct {
	Language    string   `json:"language" jsonschema_description:"Backend that produced the code"`
	Source      string   `json:"source" jsonschema_description:"Standalone predict function"`
	Diagnostics []string `json:"diagnostics,omitempty" jsonschema_description:"Warnings raised while generating"`
}

// Engine defines what the MCP server needs from arbor.
type Engine interface {
	Models(ctx context.Context) ([]string, error)
	Model(ctx context.Context, name string) (*model.Model, error)
	PredictModel(ctx context.Context, m *model.Model, row domain.Row) (domain.Variable, error)
	GenerateModel(ctx context.Context, m *model.Model, lang string) (string, codegen.Diagnostics, error)
}

// Server wraps the engine and exposes it as an MCP Server.
type Server struct {
	engine    Engine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine Engine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("arbor-mcp", strings.TrimSpace(arbor.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx
// is cancelled.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("MCP Server shutting down")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_models
	s.mcpServer.AddTool(mcp.NewTool("list_models",
		mcp.WithDescription("List the names of the available models."),
	), s.handleListModels)

	// TOOL: describe_model
	s.mcpServer.AddTool(mcp.NewTool("describe_model",
		mcp.WithDescription("Describe a model: its inputs, their types and the size of its tree."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
	), s.handleDescribe)

	// TOOL: predict
	predictTool := mcp.NewTool("predict",
		mcp.WithDescription("Evaluate a model on one row. Omitted inputs are treated as missing."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithObject("inputs", mcp.Description("Input values keyed by input name")),
		mcp.WithOutputSchema[PredictResponse](),
	)
	s.mcpServer.AddTool(predictTool, mcp.NewStructuredToolHandler(s.handlePredict))

	// TOOL: generate_code
	codeTool := mcp.NewTool("generate_code",
		mcp.WithDescription("Generate a standalone predict function for a model."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithString("language", mcp.Description("Target language"), mcp.Enum(codegen.Languages()...)),
		mcp.WithOutputSchema[CodeResponse](),
	)
	s.mcpServer.AddTool(codeTool, mcp.NewStructuredToolHandler(s.handleGenerate))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render a model as a Mermaid flowchart. With inputs, the evaluated path is highlighted."),
		mcp.WithString("model", mcp.Required(), mcp.Description("Model name")),
		mcp.WithObject("inputs", mcp.Description("Optional row to trace, keyed by input name")),
	), s.handleGraph)
}

func (s *Server) handleListModels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := s.engine.Models(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func (s *Server) handleDescribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("model")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := s.engine.Model(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(m.Summarize())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handlePredict(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (PredictResponse, error) {
	name, _ := args["model"].(string)
	m, err := s.engine.Model(ctx, name)
	if err != nil {
		return PredictResponse{}, fmt.Errorf("load failed: %w", err)
	}
	row, err := rowFrom(m, args["inputs"])
	if err != nil {
		slog.Warn("MCP Predict: Input rejected", "model", name, "error", err)
		return PredictResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	out, err := s.engine.PredictModel(ctx, m, row)
	if err != nil {
		return PredictResponse{}, fmt.Errorf("predict failed: %w", err)
	}
	return PredictResponse{Model: m.Name, Output: out}, nil
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (CodeResponse, error) {
	name, _ := args["model"].(string)
	lang, _ := args["language"].(string)
	m, err := s.engine.Model(ctx, name)
	if err != nil {
		return CodeResponse{}, fmt.Errorf("load failed: %w", err)
	}
	src, diags, err := s.engine.GenerateModel(ctx, m, lang)
	if err != nil {
		return CodeResponse{}, fmt.Errorf("generate failed: %w", err)
	}
	resp := CodeResponse{Language: codegen.Lookup(lang).Name(), Source: src}
	if lang == "" {
		resp.Language = "default"
	}
	for _, d := range diags {
		resp.Diagnostics = append(resp.Diagnostics, d.String())
	}
	return resp, nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("model")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	m, err := s.engine.Model(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}

	args := request.GetArguments()
	if args["inputs"] == nil {
		return mcp.NewToolResultText(graph.GenerateMermaid(m.Code, nil)), nil
	}
	row, err := rowFrom(m, args["inputs"])
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("input rejected: %v", err)), nil
	}
	out, visited, err := eval.Trace(m, row)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("trace failed: %v", err)), nil
	}
	overlay := &graph.GraphOverlay{Visited: visited, Result: out.String()}
	return mcp.NewToolResultText(graph.GenerateMermaid(m.Code, overlay)), nil
}

// rowFrom decodes tool arguments into a row. A missing inputs object yields
// an all-missing row.
func rowFrom(m *model.Model, raw any) (domain.Row, error) {
	inputs := map[string]any{}
	switch v := raw.(type) {
	case nil:
	case map[string]any:
		inputs = v
	case string:
		// Some clients send objects as JSON text.
		if err := json.Unmarshal([]byte(v), &inputs); err != nil {
			return nil, fmt.Errorf("inputs: %w", err)
		}
	default:
		return nil, fmt.Errorf("inputs: expected an object, got %T", raw)
	}
	return schema.DecodeRow(m.Signature, inputs)
}

func (s *Server) registerResources() {
	// EXPOSE: arbor://models/{name}
	template := mcp.NewResourceTemplate(modelURIPrefix+"{name}", "Model Definition",
		mcp.WithTemplateDescription("Text form of a model: its signature and tree."),
		mcp.WithTemplateMIMEType("text/yaml"),
	)
	s.mcpServer.AddResourceTemplate(template, s.readModel)
}

func (s *Server) readModel(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	name := strings.TrimPrefix(request.Params.URI, modelURIPrefix)
	m, err := s.engine.Model(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}
	def, err := model.DefinitionOf(m).Marshal()
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/yaml",
			Text:     string(def),
		},
	}, nil
}
