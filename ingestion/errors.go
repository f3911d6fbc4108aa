package ingestion

import "errors"

var (
	// ErrEntityRepositoryRequired is returned when an entity repository is not provided.
	ErrEntityRepositoryRequired = errors.New("entity repository required")

	// ErrVectorRepositoryRequired is returned when a vector repository is not provided.
	ErrVectorRepositoryRequired = errors.New("vector repository required")

	// ErrNormalizerRequired is returned when a normalizer is not provided.
	ErrNormalizerRequired = errors.New("normalizer required")

	// ErrAIProviderRequired is returned when an AI provider is not provided.
	ErrAIProviderRequired = errors.New("AI provider required")
)
