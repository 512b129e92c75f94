package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/assistant"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/palette"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

type fakeGateway struct {
	assist   *gateway.AssistResponse
	generate *gateway.GenerateResponse
	err      error

	lastAssist gateway.AssistRequest
}

func (f *fakeGateway) Assist(_ context.Context, req gateway.AssistRequest) (*gateway.AssistResponse, error) {
	f.lastAssist = req
	if f.err != nil {
		return nil, f.err
	}
	return f.assist, nil
}

func (f *fakeGateway) Generate(_ context.Context, _ gateway.GenerateRequest) (*gateway.GenerateResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.generate, nil
}

type testEnv struct {
	router *gin.Engine
	store  *workspace.Store
	gw     *fakeGateway
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := workspace.New()
	cat, err := catalog.Load()
	require.NoError(t, err)

	gw := &fakeGateway{
		assist: &gateway.AssistResponse{Result: "It renders a button."},
		generate: &gateway.GenerateResponse{
			Code:     "export default function LoginForm() {}",
			FileName: "LoginForm.tsx",
			Language: "typescript",
		},
	}

	h := NewHandlers(Deps{
		Store:            store,
		Assistant:        assistant.New(store, gw),
		Generator:        assistant.NewGenerator(store, gw),
		Catalog:          cat,
		Explorer:         explorer.New(cat, store),
		AssistFunction:   gw,
		GenerateFunction: gw,
		GatewayMode:      "local",
	})

	router := gin.New()
	h.Register(router)
	return &testEnv{router: router, store: store, gw: gw}
}

func (e *testEnv) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestRootAndHealth(t *testing.T) {
	env := setup(t)

	w := env.do("GET", "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "online", decode(t, w)["status"])

	w = env.do("GET", "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "local", body["gateway"].(map[string]interface{})["mode"])
}

func TestSessionLifecycle(t *testing.T) {
	env := setup(t)

	open := types.OpenSessionRequest{ID: "1", Title: "App.tsx", Content: "x", Language: "typescript"}
	w := env.do("POST", "/workspace/sessions", open)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "1", decode(t, w)["active_session_id"])

	w = env.do("POST", "/workspace/sessions", open)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do("POST", "/workspace/sessions", types.OpenSessionRequest{ID: "2", Title: "b.ts"})
	require.Equal(t, http.StatusCreated, w.Code)
	session, ok := env.store.Session("2")
	require.True(t, ok)
	assert.Equal(t, types.DefaultLanguage, session.Language)

	w = env.do("POST", "/workspace/sessions/1/activate", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", *env.store.ActiveSessionID())

	w = env.do("POST", "/workspace/sessions/missing/activate", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do("PUT", "/workspace/sessions/2/content", types.ContentRequest{Content: "changed"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode(t, w)["session"].(map[string]interface{})
	assert.Equal(t, "changed", updated["content"])
	assert.Equal(t, true, updated["modified"])

	// unknown ids are no-ops, not errors
	w = env.do("PUT", "/workspace/sessions/missing/content", types.ContentRequest{Content: "x"})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["updated"])
	assert.NotContains(t, body, "error")

	w = env.do("DELETE", "/workspace/sessions/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	closed := decode(t, w)
	assert.Equal(t, true, closed["closed"])
	assert.Equal(t, "2", closed["active_session_id"])

	w = env.do("DELETE", "/workspace/sessions/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	assert.Equal(t, false, body["closed"])
	assert.Equal(t, "2", body["active_session_id"])

	w = env.do("DELETE", "/workspace/sessions/never-opened", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["closed"])

	w = env.do("GET", "/workspace", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var snap types.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	require.Len(t, snap.Sessions, 1)
	assert.Equal(t, "2", snap.Sessions[0].ID)
}

func TestOpenSessionValidation(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name string
		body interface{}
	}{
		{"missing title", map[string]string{"id": "1"}},
		{"bad id", types.OpenSessionRequest{ID: "a b", Title: "x"}},
		{"bad language", types.OpenSessionRequest{ID: "1", Title: "x", Language: "Type Script"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do("POST", "/workspace/sessions", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decode(t, w), "error")
		})
	}
	assert.Empty(t, env.store.Sessions())
}

func TestPanelsAndTheme(t *testing.T) {
	env := setup(t)

	w := env.do("POST", "/workspace/panels/terminal/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["open"])

	w = env.do("POST", "/workspace/panels/sidebar/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("PUT", "/workspace/theme", types.ThemeRequest{Theme: types.ThemePearl})
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "pearl", body["theme"])
	assert.Contains(t, body, "info")

	w = env.do("PUT", "/workspace/theme", types.ThemeRequest{Theme: "neon"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, types.ThemePearl, env.store.Theme())
}

func TestAssistRequiresActiveSession(t *testing.T) {
	env := setup(t)

	w := env.do("POST", "/workspace/assist", types.AssistRequest{Mode: types.ModeExplain, Prompt: "what is this"})
	assert.Equal(t, http.StatusPreconditionFailed, w.Code)
	assert.Empty(t, env.store.Conversation())
}

func TestAssistSuccess(t *testing.T) {
	env := setup(t)
	require.NoError(t, env.store.OpenSession(types.Session{ID: "1", Title: "Button.tsx", Content: "<button/>", Language: "typescript"}))

	w := env.do("POST", "/workspace/assist", types.AssistRequest{Mode: types.ModeExplain, Prompt: "explain"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var reply assistant.Reply
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &reply))
	assert.Equal(t, "It renders a button.", reply.Answer.Content)
	assert.True(t, reply.Latest)
	assert.Equal(t, "<button/>", env.gw.lastAssist.Code)

	w = env.do("GET", "/workspace/conversation", nil)
	assert.Equal(t, float64(2), decode(t, w)["count"])

	w = env.do("DELETE", "/workspace/conversation", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, env.store.Conversation())
}

func TestAssistGatewayFailures(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"rate limited", gateway.FromStatus(429, ""), http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."},
		{"payment required", gateway.FromStatus(402, ""), http.StatusPaymentRequired, "Payment required. Please add credits to your workspace."},
		{"gateway error", gateway.FromStatus(500, "boom"), http.StatusBadGateway, "AI gateway error"},
		{"unknown", gateway.Unknown(errors.New("connection reset")), http.StatusInternalServerError, "connection reset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t)
			env.gw.err = tt.err

			w := env.do("POST", "/workspace/assist", types.AssistRequest{Mode: types.ModeChat, Prompt: "hello"})
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decode(t, w)["error"])

			conversation := env.store.Conversation()
			require.Len(t, conversation, 1)
			assert.Equal(t, types.RoleUser, conversation[0].Role)
		})
	}
}

func TestGenerate(t *testing.T) {
	env := setup(t)

	w := env.do("POST", "/workspace/generate", types.GenerateRequest{Prompt: "login form", Framework: types.FrameworkReact})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.NotContains(t, body, "session")
	assert.Empty(t, env.store.Sessions())

	w = env.do("POST", "/workspace/generate", types.GenerateRequest{Prompt: "login form", Framework: types.FrameworkReact, AddToEditor: true})
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	session := body["session"].(map[string]interface{})
	assert.Equal(t, "LoginForm.tsx", session["title"])
	assert.Equal(t, false, session["modified"])
	assert.Equal(t, session["id"], *env.store.ActiveSessionID())

	w = env.do("POST", "/workspace/generate", types.GenerateRequest{Prompt: "x", Framework: "svelte"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExplorerOpen(t *testing.T) {
	env := setup(t)

	w := env.do("POST", "/explorer/open", types.OpenFileRequest{Path: "src/App.tsx"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode(t, w)
	assert.Equal(t, false, first["focused"])

	w = env.do("POST", "/explorer/open", types.OpenFileRequest{Path: "src/App.tsx"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["focused"])
	assert.Len(t, env.store.Sessions(), 1)

	w = env.do("POST", "/explorer/open", types.OpenFileRequest{Path: "src"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("POST", "/explorer/open", types.OpenFileRequest{Path: "src/missing.ts"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do("POST", "/explorer/open", types.OpenFileRequest{Path: "../etc/passwd"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogFiles(t *testing.T) {
	env := setup(t)

	w := env.do("GET", "/catalog/files", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["files"])

	w = env.do("GET", "/catalog/files/search?pattern=src/**/*.tsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["count"])

	w = env.do("GET", "/catalog/files/search?pattern=[", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("GET", "/catalog/files/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStaging(t *testing.T) {
	env := setup(t)

	w := env.do("GET", "/catalog/changes/can-commit?message=init", nil)
	assert.Equal(t, false, decode(t, w)["can_commit"])

	w = env.do("POST", "/catalog/changes/stage", map[string]string{"file": "src/App.tsx"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["staged"])

	w = env.do("POST", "/catalog/changes/stage", map[string]string{"file": "nope.txt"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do("GET", "/catalog/changes/can-commit?message=init", nil)
	assert.Equal(t, true, decode(t, w)["can_commit"])

	w = env.do("GET", "/catalog/changes/can-commit", nil)
	assert.Equal(t, false, decode(t, w)["can_commit"])

	w = env.do("GET", "/catalog/changes", nil)
	body := decode(t, w)
	assert.Equal(t, "main", body["branch"])
	assert.Equal(t, []interface{}{"src/App.tsx"}, body["staged"])
}

func TestDevicesAndThemes(t *testing.T) {
	env := setup(t)

	w := env.do("GET", "/catalog/devices", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode(t, w)["devices"])

	w = env.do("GET", "/catalog/devices/iphone15/viewport?orientation=landscape", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var vp catalog.Viewport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vp))
	assert.Equal(t, 852, vp.Width)
	assert.Equal(t, 393, vp.Height)

	w = env.do("GET", "/catalog/devices/iphone15/viewport?orientation=diagonal", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("GET", "/catalog/devices/nokia3310/viewport", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do("GET", "/catalog/themes", nil)
	body := decode(t, w)
	assert.Len(t, body["themes"], 3)
	assert.Equal(t, "obsidian", body["active"])
}

func TestPalette(t *testing.T) {
	env := setup(t)

	w := env.do("GET", "/palette/commands?q=theme", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["commands"], 3)

	require.False(t, env.store.PanelOpen(types.PanelCommandPalette))
	w = env.do("POST", "/palette/commands/theme.titanium", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, types.ThemeTitanium, env.store.Theme())
	assert.True(t, env.store.PanelOpen(types.PanelCommandPalette))

	w = env.do("POST", "/palette/commands/theme.neon", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFunctions(t *testing.T) {
	env := setup(t)

	w := env.do("POST", "/functions/ai-code-assist", gateway.AssistRequest{Mode: types.ModeExplain, Code: "x", Language: "go"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"result":"It renders a button."}`, w.Body.String())

	w = env.do("POST", "/functions/code-generator", gateway.GenerateRequest{Prompt: "login form", Framework: types.FrameworkReact})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "LoginForm.tsx", decode(t, w)["fileName"])

	env.gw.err = gateway.FromStatus(402, "")
	w = env.do("POST", "/functions/code-generator", gateway.GenerateRequest{Prompt: "x"})
	assert.Equal(t, http.StatusPaymentRequired, w.Code)
	assert.JSONEq(t, `{"error":"Payment required. Please add credits to your workspace."}`, w.Body.String())

	env.gw.err = gateway.FromStatus(503, "down")
	w = env.do("POST", "/functions/ai-code-assist", gateway.AssistRequest{Mode: types.ModeChat})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"AI gateway error"}`, w.Body.String())

	env.gw.err = errors.New("upstream API key not configured")
	w = env.do("POST", "/functions/ai-code-assist", gateway.AssistRequest{Mode: types.ModeChat})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"upstream API key not configured"}`, w.Body.String())
}

func TestStreamLogs(t *testing.T) {
	env := setup(t)

	w := env.do("POST", "/logs", UILogStreamRequest{Source: "ui", Entries: []UILogEntry{
		{ID: "1", Level: "error", Message: "render failed", Context: map[string]interface{}{"component": "Editor"}},
		{ID: "2", Level: "verbose", Message: "tick"},
	}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), decode(t, w)["entries_received"])

	w = env.do("POST", "/logs", UILogStreamRequest{Source: "backend", Entries: []UILogEntry{{ID: "1"}}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do("POST", "/logs", UILogStreamRequest{Source: "ui"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUILevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"error":   zapcore.ErrorLevel,
		"warn":    zapcore.WarnLevel,
		"debug":   zapcore.DebugLevel,
		"verbose": zapcore.DebugLevel,
		"":        zapcore.InfoLevel,
		"loud":    zapcore.InfoLevel,
		"fatal":   zapcore.ErrorLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, uiLevel(in), in)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{workspace.ErrNotFound, http.StatusNotFound},
		{catalog.ErrNotFound, http.StatusNotFound},
		{palette.ErrUnknownCommand, http.StatusNotFound},
		{workspace.ErrDuplicateSession, http.StatusConflict},
		{workspace.ErrUnknownPanel, http.StatusBadRequest},
		{assistant.ErrEmptyPrompt, http.StatusBadRequest},
		{explorer.ErrNotAFile, http.StatusBadRequest},
		{assistant.ErrNoActiveSession, http.StatusPreconditionFailed},
		{gateway.FromStatus(429, ""), http.StatusTooManyRequests},
		{gateway.FromStatus(402, ""), http.StatusPaymentRequired},
		{gateway.FromStatus(500, ""), http.StatusBadGateway},
		{gateway.Unknown(errors.New("x")), http.StatusInternalServerError},
		{errors.New("anything"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.status, statusFor(tt.err))
		})
	}
}
