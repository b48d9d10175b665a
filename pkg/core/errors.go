package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrSourceUnavailable = errors.New("article source unavailable")
	ErrDecode            = errors.New("unable to decode file")
	ErrTemplateRender    = errors.New("template render failed")
	ErrPersistence       = errors.New("persistence failed")
	ErrNoSource          = errors.New("no usable article source")
)

// TemplateError describes a failed template render. It unwraps to
// ErrTemplateRender so callers can pick a fallback with errors.Is.
type TemplateError struct {
	Template string
	Err      error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Template, e.Err)
}

func (e *TemplateError) Unwrap() []error {
	return []error{ErrTemplateRender, e.Err}
}
