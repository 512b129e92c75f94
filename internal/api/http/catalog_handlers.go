package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/palette"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/utils"
)

// ListFiles returns the project tree
func (h *Handlers) ListFiles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"files": h.catalog.Files()})
}

// SearchFiles returns the files matching a doublestar pattern
func (h *Handlers) SearchFiles(c *gin.Context) {
	pattern := c.Query("pattern")
	if pattern == "" {
		badInput(c, fmt.Errorf("pattern is required"))
		return
	}

	matches, err := h.catalog.Glob(pattern)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"pattern": pattern,
		"files":   matches,
		"count":   len(matches),
	})
}

// OpenFile opens a file in the editor, or focuses the session already showing it
func (h *Handlers) OpenFile(c *gin.Context) {
	var req types.OpenFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	if err := utils.ValidatePath(req.Path); err != nil {
		badInput(c, err)
		return
	}

	result, err := h.explorer.Open(req.Path)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListChanges returns the working-tree changes and the staged files
func (h *Handlers) ListChanges(c *gin.Context) {
	changes := h.catalog.Changes()
	c.JSON(http.StatusOK, gin.H{
		"branch":  changes.Branch,
		"changes": changes.Changes,
		"staged":  h.staging.Staged(),
	})
}

// ToggleStaged stages or unstages one changed file
func (h *Handlers) ToggleStaged(c *gin.Context) {
	var req struct {
		File string `json:"file" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	known := false
	for _, change := range h.catalog.Changes().Changes {
		if change.File == req.File {
			known = true
			break
		}
	}
	if !known {
		h.fail(c, fmt.Errorf("%w: change %s", catalog.ErrNotFound, req.File))
		return
	}

	staged := h.staging.Toggle(req.File)
	c.JSON(http.StatusOK, gin.H{
		"file":   req.File,
		"staged": staged,
		"files":  h.staging.Staged(),
	})
}

// CanCommit reports whether a commit with the given message would be allowed
func (h *Handlers) CanCommit(c *gin.Context) {
	message := c.Query("message")
	c.JSON(http.StatusOK, gin.H{
		"can_commit": h.staging.CanCommit(message),
		"staged":     len(h.staging.Staged()),
	})
}

// ListDevices returns the simulator devices
func (h *Handlers) ListDevices(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"devices": h.catalog.Devices()})
}

// GetViewport returns a device's size in the requested orientation (portrait by default)
func (h *Handlers) GetViewport(c *gin.Context) {
	orientation := catalog.Orientation(c.DefaultQuery("orientation", string(catalog.Portrait)))

	viewport, err := h.catalog.Viewport(c.Param("id"), orientation)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, viewport)
}

// ListThemes returns the theme catalog and the active theme
func (h *Handlers) ListThemes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"themes": h.catalog.Themes(),
		"active": h.store.Theme(),
	})
}

// ListCommands returns the palette commands matching q
func (h *Handlers) ListCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": palette.Search(c.Query("q"))})
}

// ExecuteCommand runs a palette command
func (h *Handlers) ExecuteCommand(c *gin.Context) {
	cmd, err := palette.Execute(h.store, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"command": cmd,
		"theme":   h.store.Theme(),
		"panels":  h.store.Panels(),
	})
}
