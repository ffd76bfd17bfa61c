package server

import "github.com/crylonblue/invoice-api/internal/model"

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ValidationResponse reports all input-contract violations by field path
type ValidationResponse struct {
	Error   string                 `json:"error"`
	Details model.ValidationErrors `json:"details"`
}
