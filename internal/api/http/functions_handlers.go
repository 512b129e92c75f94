package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
)

// AssistFunction serves the assist gateway contract
func (h *Handlers) AssistFunction(c *gin.Context) {
	var req gateway.AssistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gateway.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.assistFn.Assist(c.Request.Context(), req)
	if err != nil {
		h.functionError(c, "ai-code-assist", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateFunction serves the generation gateway contract
func (h *Handlers) GenerateFunction(c *gin.Context) {
	var req gateway.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gateway.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := h.generateFn.Generate(c.Request.Context(), req)
	if err != nil {
		h.functionError(c, "code-generator", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// functionError answers with the status and text a gateway client classifies:
// 429 and 402 keep their meaning, everything else is a 500.
func (h *Handlers) functionError(c *gin.Context, name string, err error) {
	var gwErr *gateway.Error
	if !errors.As(err, &gwErr) {
		gwErr = gateway.Unknown(err)
	}

	h.logger.Error("function failed",
		zap.String("function", name),
		zap.String("kind", string(gwErr.Kind)),
		zap.Error(err))

	_ = c.Error(err)
	c.JSON(gwErr.HTTPStatus(), gateway.ErrorResponse{Error: gwErr.PublicMessage()})
}
