package reembed

import "errors"

var (
	// ErrEntityRepositoryRequired is returned when an entity repository is not provided.
	ErrEntityRepositoryRequired = errors.New("entity repository required")

	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidMaxAttempts is returned when a retry is configured with
	// fewer than one attempt.
	ErrInvalidMaxAttempts = errors.New("max attempts must be at least 1")
)
