package profile

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrEmptyInput means no item survived normalization and selection. The
// pipeline treats it as an early return, not a failure.
var ErrEmptyInput = errors.New("no eligible items")

// ParseError reports model output that could not be decoded into the
// expected JSON shape.
type ParseError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
