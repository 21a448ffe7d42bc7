// Package apperr holds the error values shared across the service layers.
// Callers wrap them with fmt.Errorf("...: %w", ...) and match with errors.Is.
package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrValidation    = errors.New("validation failed")
	ErrUpstreamFetch = errors.New("upstream fetch failed")
	ErrUpstreamParse = errors.New("upstream payload invalid")
)
