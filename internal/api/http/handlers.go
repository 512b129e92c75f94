package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/assistant"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
)

// Version is reported by the root endpoint
const Version = "0.1.0"

// Deps are the collaborators the handlers serve
type Deps struct {
	Store     *workspace.Store
	Assistant *assistant.Assistant
	Generator *assistant.Generator
	Catalog   *catalog.Catalog
	Explorer  *explorer.Explorer
	Staging   *catalog.Staging

	// Functions answer the hosted assist and generation endpoints
	AssistFunction   gateway.Assist
	GenerateFunction gateway.Generate

	// GatewayMode is "remote" or "local", reported by /health
	GatewayMode string
	Logger      *zap.Logger
}

// Handlers contains all HTTP handlers
type Handlers struct {
	store     *workspace.Store
	assistant *assistant.Assistant
	generator *assistant.Generator
	catalog   *catalog.Catalog
	explorer  *explorer.Explorer
	staging   *catalog.Staging

	assistFn   gateway.Assist
	generateFn gateway.Generate

	gatewayMode string
	logger      *zap.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(d Deps) *Handlers {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	staging := d.Staging
	if staging == nil {
		staging = catalog.NewStaging()
	}
	return &Handlers{
		store:       d.Store,
		assistant:   d.Assistant,
		generator:   d.Generator,
		catalog:     d.Catalog,
		explorer:    d.Explorer,
		staging:     staging,
		assistFn:    d.AssistFunction,
		generateFn:  d.GenerateFunction,
		gatewayMode: d.GatewayMode,
		logger:      logger,
	}
}

// Register mounts every route on r
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)

	ws := r.Group("/workspace")
	ws.GET("", h.GetWorkspace)
	ws.GET("/stats", h.GetStats)
	ws.POST("/sessions", h.OpenSession)
	ws.DELETE("/sessions/:id", h.CloseSession)
	ws.POST("/sessions/:id/activate", h.ActivateSession)
	ws.PUT("/sessions/:id/content", h.UpdateContent)
	ws.POST("/panels/:panel/toggle", h.TogglePanel)
	ws.PUT("/theme", h.SetTheme)
	ws.GET("/conversation", h.GetConversation)
	ws.DELETE("/conversation", h.ClearConversation)
	ws.POST("/assist", h.Assist)
	ws.POST("/generate", h.Generate)

	cat := r.Group("/catalog")
	cat.GET("/files", h.ListFiles)
	cat.GET("/files/search", h.SearchFiles)
	cat.GET("/changes", h.ListChanges)
	cat.POST("/changes/stage", h.ToggleStaged)
	cat.GET("/changes/can-commit", h.CanCommit)
	cat.GET("/devices", h.ListDevices)
	cat.GET("/devices/:id/viewport", h.GetViewport)
	cat.GET("/themes", h.ListThemes)

	r.POST("/explorer/open", h.OpenFile)

	r.GET("/palette/commands", h.ListCommands)
	r.POST("/palette/commands/:id", h.ExecuteCommand)

	if h.assistFn != nil {
		r.POST("/functions"+gateway.AssistPath, h.AssistFunction)
	}
	if h.generateFn != nil {
		r.POST("/functions"+gateway.GeneratePath, h.GenerateFunction)
	}

	r.POST("/logs", h.StreamLogs)
}

// Root handles the liveness check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "Nebula Studio backend",
		"version": Version,
	})
}

// Health reports workspace statistics and the gateway mode
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "healthy",
		"workspace":   h.store.Stats(),
		"subscribers": h.store.Subscribers(),
		"gateway":     gin.H{"mode": h.gatewayMode},
	})
}
