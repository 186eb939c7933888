package ai

import (
	"fmt"

	"github.com/openai/openai-go"
	"github.com/pkg/errors"
)

// ProviderError reports a failed embedding or completion call. StatusCode is
// zero when no HTTP response was received.
type ProviderError struct {
	Op         string
	Model      string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s): status %d: %v", e.Op, e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func newProviderError(op, model string, err error) *ProviderError {
	pe := &ProviderError{Op: op, Model: model, Err: err}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		pe.StatusCode = apiErr.StatusCode
	}
	return pe
}
