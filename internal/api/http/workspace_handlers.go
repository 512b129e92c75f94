package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/utils"
)

// GetWorkspace returns a snapshot of the whole workspace
func (h *Handlers) GetWorkspace(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// GetStats returns workspace statistics
func (h *Handlers) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Stats())
}

// OpenSession opens a new editor session and makes it active
func (h *Handlers) OpenSession(c *gin.Context) {
	var req types.OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	if err := utils.ValidateSessionID(req.ID); err != nil {
		badInput(c, err)
		return
	}
	if err := utils.ValidateTitle(req.Title); err != nil {
		badInput(c, err)
		return
	}
	if err := utils.ValidateLanguage(req.Language); err != nil {
		badInput(c, err)
		return
	}
	if err := utils.ValidateContent(req.Content); err != nil {
		badInput(c, err)
		return
	}

	session := types.Session{
		ID:       req.ID,
		Title:    req.Title,
		Content:  req.Content,
		Language: req.Language,
	}
	if session.Language == "" {
		session.Language = types.DefaultLanguage
	}

	if err := h.store.OpenSession(session); err != nil {
		h.fail(c, err)
		return
	}

	opened, _ := h.store.Session(session.ID)
	c.JSON(http.StatusCreated, gin.H{
		"session":           opened,
		"active_session_id": h.store.ActiveSessionID(),
	})
}

// CloseSession closes a session; closing the active one activates the first
// remaining. An unknown id is a no-op reported as closed=false.
func (h *Handlers) CloseSession(c *gin.Context) {
	sessionID := c.Param("id")
	closed := h.store.CloseSession(sessionID)

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"closed":            closed,
		"session_id":        sessionID,
		"active_session_id": h.store.ActiveSessionID(),
	})
}

// ActivateSession makes a session the active one
func (h *Handlers) ActivateSession(c *gin.Context) {
	sessionID := c.Param("id")

	if err := h.store.SetActiveSession(sessionID); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"active_session_id": h.store.ActiveSessionID(),
	})
}

// UpdateContent replaces a session's content and marks it modified.
// An unknown id is a no-op reported as updated=false.
func (h *Handlers) UpdateContent(c *gin.Context) {
	sessionID := c.Param("id")

	var req types.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	if err := utils.ValidateContent(req.Content); err != nil {
		badInput(c, err)
		return
	}

	if !h.store.UpdateSessionContent(sessionID, req.Content) {
		c.JSON(http.StatusOK, gin.H{"success": true, "updated": false, "session_id": sessionID})
		return
	}

	session, _ := h.store.Session(sessionID)
	c.JSON(http.StatusOK, gin.H{"success": true, "updated": true, "session": session})
}

// TogglePanel flips one panel's visibility
func (h *Handlers) TogglePanel(c *gin.Context) {
	panel := types.Panel(c.Param("panel"))

	open, err := h.store.TogglePanel(panel)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"panel": panel,
		"open":  open,
	})
}

// SetTheme switches the active theme
func (h *Handlers) SetTheme(c *gin.Context) {
	var req types.ThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	if err := h.store.SetTheme(req.Theme); err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{"theme": h.store.Theme()}
	if info, ok := h.catalog.Theme(req.Theme); ok {
		resp["info"] = info
	}
	c.JSON(http.StatusOK, resp)
}

// GetConversation returns the assistant conversation log
func (h *Handlers) GetConversation(c *gin.Context) {
	messages := h.store.Conversation()
	c.JSON(http.StatusOK, gin.H{
		"messages": messages,
		"count":    len(messages),
	})
}

// ClearConversation empties the conversation log
func (h *Handlers) ClearConversation(c *gin.Context) {
	h.store.ClearConversation()
	c.JSON(http.StatusOK, gin.H{"success": true})
}
