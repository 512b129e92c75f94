package gateway

import (
	"context"

	"github.com/GriffinCanCode/NebulaStudio/backend/internal/shared/types"
)

// AssistRequest asks the assistant to work on a piece of code
type AssistRequest struct {
	Mode     types.AssistMode `json:"mode"`
	Code     string           `json:"code"`
	Language string           `json:"language"`
	Context  string           `json:"context"`
}

// AssistResponse carries the assistant's answer
type AssistResponse struct {
	Result string `json:"result"`
}

// GenerateRequest asks for code in a target framework
type GenerateRequest struct {
	Prompt    string          `json:"prompt"`
	Framework types.Framework `json:"framework"`
}

// GenerateResponse carries generated code ready to open in the editor
type GenerateResponse struct {
	Code     string `json:"code"`
	FileName string `json:"fileName"`
	Language string `json:"language"`
}

// ErrorResponse is the JSON body of a failed gateway call
type ErrorResponse struct {
	Error string `json:"error"`
}

// Assist answers code questions
type Assist interface {
	Assist(ctx context.Context, req AssistRequest) (*AssistResponse, error)
}

// Generate produces code from a prompt
type Generate interface {
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)
}

// Generation converts the response to the shared type
func (r *GenerateResponse) Generation() types.Generation {
	return types.Generation{Code: r.Code, FileName: r.FileName, Language: r.Language}
}
