package llm

import "context"

// Provider defines the interface for completion services.
type Provider interface {
	// Complete sends a completion request and returns the response.
	// Failures of the backend itself are reported as *ServiceError.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
