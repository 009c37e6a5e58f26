package agent

import "errors"

var (
	// ErrModelRequired is returned when a language model is not provided.
	ErrModelRequired = errors.New("language model required")

	// ErrStoreRequired is returned when the store read surfaces are not provided.
	ErrStoreRequired = errors.New("schema reader and querier required")

	// ErrEmptyQuestion is returned for a blank question.
	ErrEmptyQuestion = errors.New("question cannot be empty")

	// ErrNoResponse is returned when the model produces no usable output.
	ErrNoResponse = errors.New("model returned no response")
)
