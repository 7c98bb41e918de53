// Package http exposes an arbor engine as a JSON API.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/presentation/graph"
	"github.com/aretw0/arbor/internal/syntax"
	"github.com/aretw0/arbor/pkg/adapters/compress"
	"github.com/aretw0/arbor/pkg/adapters/hash"
	"github.com/aretw0/arbor/pkg/codec"
	"github.com/aretw0/arbor/pkg/codegen"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/model"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/schema"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go openapi.yaml

//go:embed openapi.yaml
var specYAML []byte

// maxUpload bounds the size of an uploaded model, after decompression.
const maxUpload = 16 << 20

// loadSpec loads and validates the embedded document once.
var loadSpec = sync.OnceValues(func() (*openapi3.T, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, fmt.Errorf("error loading spec: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid spec: %w", err)
	}
	return doc, nil
})

// Engine is the part of arbor.Engine the API needs.
type Engine interface {
	Models(ctx context.Context) ([]string, error)
	Model(ctx context.Context, name string) (*model.Model, error)
	PredictModel(ctx context.Context, m *model.Model, row domain.Row) (domain.Variable, error)
	PredictBatchModel(ctx context.Context, m *model.Model, rows []domain.Row) ([]domain.Variable, error)
	GenerateModel(ctx context.Context, m *model.Model, lang string) (string, codegen.Diagnostics, error)
	Save(ctx context.Context, m *model.Model) error
	Delete(ctx context.Context, name string) error
	Watch(ctx context.Context) (<-chan struct{}, error)
	DefaultLanguage() string
}

// Server implements ServerInterface.
type Server struct {
	Engine   Engine
	Locker   ports.DistributedLocker
	Logger   *slog.Logger
	Gatherer prometheus.Gatherer

	lockTimeout time.Duration
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures the handler.
type Option func(*Server)

// WithLocker serializes uploads of the same model name across replicas.
func WithLocker(l ports.DistributedLocker) Option {
	return func(s *Server) { s.Locker = l }
}

// WithLockTimeout bounds how long an upload waits for the lock (default 5s).
func WithLockTimeout(d time.Duration) Option {
	return func(s *Server) { s.lockTimeout = d }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.Logger = l }
}

// WithMetrics serves /metrics from g.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.Gatherer = g }
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	server := &Server{
		Engine:      engine,
		Logger:      slog.Default(),
		lockTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(server)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(specYAML)
	})
	if server.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(server.Gatherer, promhttp.HandlerOpts{}))
	}

	return HandlerWithOptions(server, ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err)
		},
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"app":         "arbor-http",
		"version":     strings.TrimSpace(arbor.Version),
		"api_version": apiVersion,
		"languages":   codegen.Languages(),
	})
}

// ListModels handles the GET /models request.
func (s *Server) ListModels(w http.ResponseWriter, r *http.Request) {
	names, err := s.Engine.Models(r.Context())
	if err != nil {
		s.fail(w, r, "ListModels", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, ModelList{Models: names})
}

// GetModel handles the GET /models/{name} request.
func (s *Server) GetModel(w http.ResponseWriter, r *http.Request, name string) {
	m, ok := s.load(w, r, name)
	if !ok {
		return
	}
	digest, err := hash.Model(m, hash.SHA256)
	if err != nil {
		s.fail(w, r, "GetModel", err)
		return
	}
	info := ModelInfo{Name: m.Name, Digest: digest, Nodes: m.Code.Count(), Depth: m.Code.Depth(), Inputs: []Input{}}
	for i := 0; i < m.Signature.Len(); i++ {
		info.Inputs = append(info.Inputs, Input{Name: m.Signature.ParamName(i), Type: InputType(m.Signature.TypeOf(i).String())})
	}
	writeJSON(w, http.StatusOK, info)
}

// PutModel handles the PUT /models/{name} request.
func (s *Server) PutModel(w http.ResponseWriter, r *http.Request, name string, params PutModelParams) {
	var src io.Reader = http.MaxBytesReader(w, r.Body, maxUpload)
	if (params.Gzip != nil && *params.Gzip) || r.Header.Get("Content-Encoding") == "gzip" {
		zr, err := compress.NewReader(src)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		defer zr.Finish()
		src = zr
	}

	data, err := io.ReadAll(io.LimitReader(src, maxUpload+1))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, err)
			return
		}
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if len(data) > maxUpload {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Errorf("model exceeds %d bytes", maxUpload))
		return
	}
	m, err := codec.UnmarshalModel(data)
	if err != nil {
		s.Logger.Warn("PutModel: invalid model", "model", name, "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	m.Name = name
	if err := m.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if s.Locker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), s.lockTimeout)
		defer cancel()
		unlock, err := s.Locker.Lock(ctx, "model:"+name, 30*time.Second)
		if err != nil {
			writeError(w, http.StatusConflict, fmt.Errorf("model %s is being written: %w", name, err))
			return
		}
		defer func() {
			if err := unlock(context.WithoutCancel(r.Context())); err != nil {
				s.Logger.Warn("PutModel: unlock failed", "model", name, "error", err)
			}
		}()
	}

	if err := s.Engine.Save(r.Context(), m); err != nil {
		s.fail(w, r, "PutModel", err)
		return
	}
	digest, err := hash.Model(m, hash.SHA256)
	if err != nil {
		s.fail(w, r, "PutModel", err)
		return
	}
	revision := uuid.NewString()
	s.Logger.Info("model stored", "model", name, "revision", revision, "digest", digest)
	writeJSON(w, http.StatusCreated, UploadResult{Name: name, Revision: revision, Digest: digest})
}

// DeleteModel handles the DELETE /models/{name} request.
func (s *Server) DeleteModel(w http.ResponseWriter, r *http.Request, name string) {
	if err := s.Engine.Delete(r.Context(), name); err != nil {
		s.fail(w, r, "DeleteModel", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Predict handles the POST /models/{name}/predict request.
func (s *Server) Predict(w http.ResponseWriter, r *http.Request, name string) {
	var body PredictRequest
	if !s.decode(w, r, "PredictRequest", &body) {
		return
	}
	m, ok := s.load(w, r, name)
	if !ok {
		return
	}

	var row domain.Row
	var err error
	switch {
	case body.Values != nil:
		row, err = schema.DecodeValues(m.Signature, *body.Values)
	case body.Inputs != nil:
		row, err = schema.DecodeRow(m.Signature, *body.Inputs)
	default:
		row, err = schema.DecodeRow(m.Signature, nil)
	}
	if err != nil {
		s.fail(w, r, "Predict", err)
		return
	}

	out, err := s.Engine.PredictModel(r.Context(), m, row)
	if err != nil {
		s.fail(w, r, "Predict", err)
		return
	}
	writeJSON(w, http.StatusOK, PredictResponse{Output: toVariable(out)})
}

// PredictBatch handles the POST /models/{name}/predict/batch request.
func (s *Server) PredictBatch(w http.ResponseWriter, r *http.Request, name string) {
	var body BatchRequest
	if !s.decode(w, r, "BatchRequest", &body) {
		return
	}
	m, ok := s.load(w, r, name)
	if !ok {
		return
	}

	rows := make([]domain.Row, len(body.Rows))
	for i, inputs := range body.Rows {
		row, err := schema.DecodeRow(m.Signature, inputs)
		if err != nil {
			s.fail(w, r, "PredictBatch", fmt.Errorf("row %d: %w", i, err))
			return
		}
		rows[i] = row
	}

	out, err := s.Engine.PredictBatchModel(r.Context(), m, rows)
	if err != nil {
		s.fail(w, r, "PredictBatch", err)
		return
	}
	outputs := make([]Variable, len(out))
	for i, v := range out {
		outputs[i] = toVariable(v)
	}
	writeJSON(w, http.StatusOK, BatchResponse{Outputs: outputs})
}

// GetCode handles the GET /models/{name}/code request.
func (s *Server) GetCode(w http.ResponseWriter, r *http.Request, name string, params GetCodeParams) {
	m, ok := s.load(w, r, name)
	if !ok {
		return
	}
	lang := s.Engine.DefaultLanguage()
	if params.Lang != nil && *params.Lang != "" {
		lang = *params.Lang
	}
	if !codegen.Known(lang) {
		writeError(w, http.StatusBadRequest, fmt.Errorf("unknown language %q", lang))
		return
	}

	etag, err := s.etag(m, fmt.Sprintf("code:%s:%t", lang, params.Check != nil && *params.Check))
	if err == nil && notModified(w, r, etag) {
		return
	}

	src, diags, err := s.Engine.GenerateModel(r.Context(), m, lang)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err, diagStrings(diags)...)
		return
	}
	if params.Check != nil && *params.Check {
		if err := syntax.Check(r.Context(), lang, src); err != nil {
			s.Logger.Error("GetCode: generated code does not parse", "model", name, "language", lang, "error", err)
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if len(diags) > 0 {
		w.Header().Set("X-Arbor-Diagnostics", fmt.Sprint(len(diags)))
	}
	io.WriteString(w, src)
}

// GetGraph handles the GET /models/{name}/graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request, name string) {
	m, ok := s.load(w, r, name)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(m.Code, nil))
}

// GetBinary handles the GET /models/{name}/binary request.
func (s *Server) GetBinary(w http.ResponseWriter, r *http.Request, name string, params GetBinaryParams) {
	m, ok := s.load(w, r, name)
	if !ok {
		return
	}
	gz := params.Gzip != nil && *params.Gzip

	etag, err := s.etag(m, fmt.Sprintf("binary:%t", gz))
	if err == nil && notModified(w, r, etag) {
		return
	}

	w.Header().Set("Content-Type", "application/octet-stream")
	var dst io.Writer = w
	if gz {
		zw, err := compress.NewWriter(w)
		if err != nil {
			s.fail(w, r, "GetBinary", err)
			return
		}
		defer zw.Finish()
		dst = zw
	}
	if err := codec.EncodeModel(dst, m); err != nil {
		s.Logger.Error("GetBinary: encode failed", "model", name, "error", err)
	}
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		s.Logger.Error("SubscribeEvents: Streaming not supported")
		return
	}

	events, err := s.Engine.Watch(r.Context())
	if err != nil {
		writeError(w, http.StatusNotImplemented, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case _, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: reload\n\n")
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) load(w http.ResponseWriter, r *http.Request, name string) (*model.Model, bool) {
	m, err := s.Engine.Model(r.Context(), name)
	if err != nil {
		s.fail(w, r, "Load", err)
		return nil, false
	}
	return m, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, schemaName string, dst any) bool {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxUpload))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return false
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := validateBody(schemaName, raw); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return false
	}
	return true
}

// etag digests the model together with what the response depends on.
func (s *Server) etag(m *model.Model, variant string) (string, error) {
	digest, err := hash.Model(m, hash.XXH64)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%q", digest+":"+variant), nil
}

func notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// fail maps engine errors to status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	status := http.StatusInternalServerError
	var details []string
	switch {
	case errors.Is(err, domain.ErrModelNotFound):
		status = http.StatusNotFound
	case errors.Is(err, arbor.ErrReadOnly):
		status = http.StatusMethodNotAllowed
	case schema.IsValidation(err):
		status = http.StatusBadRequest
		for _, e := range schema.ValidationErrors(err) {
			details = append(details, e.Error())
		}
	case errors.Is(err, domain.ErrModelCorrupt):
		status = http.StatusUnprocessableEntity
	case isRowError(err):
		status = http.StatusBadRequest
	}

	if status >= 500 {
		s.Logger.Error(op+" failed", "error", err, "request_id", middleware.GetReqID(r.Context()))
	} else {
		s.Logger.Warn(op+": rejected", "error", err, "status", status)
	}
	writeError(w, status, err, details...)
}

// isRowError reports errors from Signature.Check and evaluation invariants,
// both caused by the submitted row.
func isRowError(err error) bool {
	var ie *domain.InvariantError
	return errors.Is(err, domain.ErrRowMismatch) || errors.As(err, &ie)
}

// toVariable converts an evaluation result to its wire form. Missing
// values carry no value.
func toVariable(v domain.Variable) Variable {
	var value any
	switch v.Kind {
	case domain.KindCategorical:
		value = v.Category
	case domain.KindContinuous:
		value = v.Value
	case domain.KindText:
		value = v.Text
	default:
		return Variable{Kind: VariableKindMissing}
	}
	return Variable{Kind: VariableKind(v.Kind.String()), Value: &value}
}

func diagStrings(diags codegen.Diagnostics) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.String()
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error, details ...string) {
	body := Error{Error: err.Error()}
	if len(details) > 0 {
		body.Details = &details
	}
	writeJSON(w, status, body)
}

// validateBody checks a decoded JSON body against a component schema.
func validateBody(schemaName string, body any) error {
	doc, err := loadSpec()
	if err != nil {
		return err
	}
	ref, ok := doc.Components.Schemas[schemaName]
	if !ok || ref.Value == nil {
		return fmt.Errorf("schema %s not found", schemaName)
	}
	return ref.Value.VisitJSON(body, openapi3.MultiErrors())
}
