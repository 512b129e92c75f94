package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/assistant"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/catalog"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/explorer"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/palette"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/NebulaStudio/backend/internal/gateway"
)

var badRequest = []error{
	workspace.ErrInvalidSession,
	workspace.ErrUnknownPanel,
	workspace.ErrUnknownTheme,
	workspace.ErrInvalidMessage,
	assistant.ErrUnknownMode,
	assistant.ErrEmptyPrompt,
	assistant.ErrUnknownFramework,
	explorer.ErrNotAFile,
	catalog.ErrInvalidPattern,
	catalog.ErrUnknownOrientation,
}

// statusFor maps a domain or gateway error to its HTTP status
func statusFor(err error) int {
	var gwErr *gateway.Error
	switch {
	case errors.Is(err, workspace.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, palette.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, workspace.ErrDuplicateSession):
		return http.StatusConflict
	case errors.Is(err, assistant.ErrNoActiveSession):
		return http.StatusPreconditionFailed
	case errors.As(err, &gwErr):
		switch gwErr.Kind {
		case gateway.KindRateLimited:
			return http.StatusTooManyRequests
		case gateway.KindPaymentRequired:
			return http.StatusPaymentRequired
		case gateway.KindGatewayError:
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	}
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

// fail writes {"error": ...}. Gateway failures carry their user-facing text.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()

	var gwErr *gateway.Error
	if errors.As(err, &gwErr) {
		message = gwErr.PublicMessage()
	}

	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Int("status", status),
			zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

func badInput(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
