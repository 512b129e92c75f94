package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/utils"
)

// Assist asks the assistant about the active session and returns the exchange
func (h *Handlers) Assist(c *gin.Context) {
	var req types.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	if err := utils.ValidatePrompt(req.Prompt); err != nil {
		badInput(c, err)
		return
	}

	reply, err := h.assistant.Submit(c.Request.Context(), req.Mode, req.Prompt)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, reply)
}

// Generate asks for generated code and optionally opens it in the editor
func (h *Handlers) Generate(c *gin.Context) {
	var req types.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	if err := utils.ValidatePrompt(req.Prompt); err != nil {
		badInput(c, err)
		return
	}

	gen, err := h.generator.Generate(c.Request.Context(), req.Prompt, req.Framework)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := gin.H{"generation": gen}
	if req.AddToEditor {
		session, err := h.generator.AddToEditor(*gen)
		if err != nil {
			h.fail(c, err)
			return
		}
		resp["session"] = session
	}

	c.JSON(http.StatusOK, resp)
}
