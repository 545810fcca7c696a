// Package server exposes the configuration form, the sandboxed HTML preview,
// and the chat endpoint over a local HTTP listener.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/preview"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/internal/settings"
	"github.com/ET-n-pan/sample-cognito-integrated-bedrock-agents-chat-ui/pkg/types"
)

// AgentInvoker invokes the active agent configuration with a user prompt.
type AgentInvoker interface {
	Invoke(ctx context.Context, cfg *types.AppConfig, sessionID, prompt string) (string, error)
}

// Authenticator signs a user in against the applied identity configuration
// and returns an agent backend carrying the user's federated credentials.
type Authenticator interface {
	SignIn(ctx context.Context, username, password string) (AgentInvoker, error)
}

// Server wires the settings manager, the preview frame, and the agent
// backend into an HTTP surface.
type Server struct {
	cfg       Config
	settings  *settings.Manager
	frame     *preview.Frame
	auth      Authenticator
	logger    *zap.Logger
	sessionID string

	mu    sync.RWMutex
	agent AgentInvoker
}

// New creates a Server. agent is the backend used before sign-in and may be
// nil when no backend is reachable; the chat endpoint then answers 503 until
// a sign-in succeeds. auth may be nil when no identity provider is wired.
func New(cfg Config, mgr *settings.Manager, frame *preview.Frame, agent AgentInvoker, auth Authenticator, logger *zap.Logger) *Server {
	return &Server{
		cfg:       cfg,
		settings:  mgr,
		frame:     frame,
		agent:     agent,
		auth:      auth,
		logger:    logger,
		sessionID: uuid.NewString(),
	}
}

// Handler returns the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleFormPage)
	mux.HandleFunc("POST /{$}", s.handleFormSubmit)
	mux.HandleFunc("GET /api/config", s.handleGetConfig)
	mux.HandleFunc("PUT /api/config", s.handlePutConfig)
	mux.HandleFunc("POST /api/config/validate", s.handleValidate)
	mux.HandleFunc("POST /api/config/cancel", s.handleCancel)
	mux.HandleFunc("POST /api/config/edit", s.handleEdit)
	mux.HandleFunc("GET /preview", s.handlePreviewPage)
	mux.HandleFunc("GET /preview/ws", s.handlePreviewSocket)
	mux.HandleFunc("POST /api/preview", s.handleSetPreview)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/signin", s.handleSignIn)
	return mux
}

// ListenAndServe runs the server until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Info("server started", zap.String("addr", s.cfg.Addr()))
	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) handleFormPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderForm(w, s.settings.Config(), s.settings.Errors(), s.settings.Editing()); err != nil {
		s.logger.Error("failed to render form", zap.Error(err))
	}
}

// formTextFields lists the text inputs of the form in submission order. The
// agent-type toggle is applied first so the derived-region rule sees the
// selected mode when the function ARN lands.
var formTextFields = [][2]string{
	{"cognito", "userPoolId"},
	{"cognito", "userPoolClientId"},
	{"cognito", "region"},
	{"cognito", "identityPoolId"},
	{"bedrockAgent", "name"},
	{"bedrockAgent", "agentId"},
	{"bedrockAgent", "agentAliasId"},
	{"bedrockAgent", "region"},
	{"lambdaAgent", "name"},
	{"lambdaAgent", "functionArn"},
	{"lambdaAgent", "region"},
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "malformed form", http.StatusBadRequest)
		return
	}

	if r.PostForm.Get("action") == "cancel" {
		s.settings.Cancel()
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	s.settings.SelectLambdaAgent(r.PostForm.Get("agentType") == "lambda")
	for _, f := range formTextFields {
		name := f[0] + "." + f[1]
		if !r.PostForm.Has(name) {
			continue
		}
		if err := s.settings.UpdateField(f[0], f[1], r.PostForm.Get(name)); err != nil {
			s.logger.Debug("field update rejected", zap.String("field", name), zap.Error(err))
		}
	}

	ok, err := s.settings.Save(r.Context())
	if err != nil {
		s.logger.Error("failed to save configuration", zap.Error(err))
		http.Error(w, "failed to save configuration", http.StatusInternalServerError)
		return
	}
	if !ok {
		// Validation failed; re-render with the populated error mapping.
		w.WriteHeader(http.StatusUnprocessableEntity)
		s.handleFormPage(w, r)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.settings.Config())
}

func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	var cfg types.AppConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "malformed configuration", http.StatusBadRequest)
		return
	}

	s.applyConfig(&cfg)
	ok, err := s.settings.Save(r.Context())
	if err != nil {
		s.logger.Error("failed to save configuration", zap.Error(err))
		http.Error(w, "failed to save configuration", http.StatusInternalServerError)
		return
	}
	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, s.settings.Errors())
		return
	}
	writeJSON(w, http.StatusOK, s.settings.Config())
}

// applyConfig feeds a full configuration document through the manager's
// field-update path so the derived-region rule and per-field error clearing
// behave the same as interactive edits.
func (s *Server) applyConfig(cfg *types.AppConfig) {
	la := cfg.LambdaAgent
	if la == nil {
		la = types.DefaultLambdaAgent()
	}
	s.settings.SelectLambdaAgent(la.Enabled)

	values := map[string]string{
		"cognito.userPoolId":        cfg.Cognito.UserPoolID,
		"cognito.userPoolClientId":  cfg.Cognito.UserPoolClientID,
		"cognito.region":            cfg.Cognito.Region,
		"cognito.identityPoolId":    cfg.Cognito.IdentityPoolID,
		"bedrockAgent.name":         cfg.BedrockAgent.Name,
		"bedrockAgent.agentId":      cfg.BedrockAgent.AgentID,
		"bedrockAgent.agentAliasId": cfg.BedrockAgent.AgentAliasID,
		"bedrockAgent.region":       cfg.BedrockAgent.Region,
		"lambdaAgent.name":          la.Name,
		"lambdaAgent.functionArn":   la.FunctionARN,
		"lambdaAgent.region":        la.Region,
	}
	for _, f := range formTextFields {
		name := f[0] + "." + f[1]
		if err := s.settings.UpdateField(f[0], f[1], values[name]); err != nil {
			s.logger.Debug("field update rejected", zap.String("field", name), zap.Error(err))
		}
	}
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	valid := s.settings.Validate()
	writeJSON(w, http.StatusOK, map[string]any{
		"valid":  valid,
		"errors": s.settings.Errors(),
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	s.settings.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	s.settings.BeginEditing()
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// previewPage hosts the sandboxed iframe and swaps its srcdoc wholesale on
// every websocket message.
const previewPage = `<!DOCTYPE html>
<html>
<head><title>Preview</title></head>
<body style="margin:0">
<iframe id="frame" sandbox="allow-scripts" srcdoc="{{.}}" style="width:100%;min-height:400px;border:1px solid #ccc"></iframe>
<script>
const ws = new WebSocket("ws://" + location.host + "/preview/ws");
ws.onmessage = (ev) => { document.getElementById("frame").srcdoc = ev.data; };
</script>
</body>
</html>
`

var previewTemplate = template.Must(template.New("preview").Parse(previewPage))

func (s *Server) handlePreviewPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, s.frame.HTML()); err != nil {
		s.logger.Error("failed to render preview page", zap.Error(err))
	}
}

func (s *Server) handlePreviewSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.CloseNow()

	updates := s.frame.Subscribe()
	defer s.frame.Unsubscribe(updates)

	// The connection is write-only, so reads are delegated to CloseRead:
	// it keeps processing control frames and cancels the context when the
	// client closes or the connection drops.
	ctx := conn.CloseRead(r.Context())
	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusGoingAway, "")
			return
		case html := <-updates:
			if err := conn.Write(ctx, websocket.MessageText, []byte(html)); err != nil {
				return
			}
		}
	}
}

func (s *Server) handleSetPreview(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 4<<20))
	if err != nil {
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	s.frame.Set(string(body))
	w.WriteHeader(http.StatusNoContent)
}

type chatRequest struct {
	Prompt string `json:"prompt"`
}

type chatResponse struct {
	Response string `json:"response"`
}

// currentAgent returns the active agent backend: the federated one after a
// successful sign-in, otherwise the one the server started with.
func (s *Server) currentAgent() AgentInvoker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.agent
}

type signInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if s.auth == nil {
		http.Error(w, "identity provider is not available", http.StatusServiceUnavailable)
		return
	}

	var req signInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	agent, err := s.auth.SignIn(r.Context(), req.Username, req.Password)
	if err != nil {
		s.logger.Warn("sign in failed", zap.String("username", req.Username), zap.Error(err))
		http.Error(w, "sign in failed", http.StatusUnauthorized)
		return
	}

	// Subsequent chat calls run under the signed-in user's credentials.
	s.mu.Lock()
	s.agent = agent
	s.mu.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	agent := s.currentAgent()
	if agent == nil {
		http.Error(w, "agent backend is not available", http.StatusServiceUnavailable)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "malformed request", http.StatusBadRequest)
		return
	}

	response, err := agent.Invoke(r.Context(), s.settings.Config(), s.sessionID, req.Prompt)
	if err != nil {
		s.logger.Error("agent invocation failed", zap.Error(err))
		http.Error(w, "agent invocation failed", http.StatusBadGateway)
		return
	}

	// Agent responses are HTML payloads; render them in the preview frame.
	s.frame.Set(response)
	writeJSON(w, http.StatusOK, chatResponse{Response: response})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
