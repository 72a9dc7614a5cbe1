package engine

import (
	"errors"
	"fmt"
)

// ErrorApology is the answer for any failure other than a generation backend error.
const ErrorApology = "Sorry, an error occurred while answering your question."

// ErrData reports that the usage log could not be read.
var ErrData = errors.New("usage log unavailable")

// Backend operations named in BackendError.
const (
	OpEmbedding  = "embedding"
	OpGeneration = "generation"
)

// BackendError wraps a failure of the embedding or generation backend.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s backend failed: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}
