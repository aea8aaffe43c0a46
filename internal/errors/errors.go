// Package errors wraps the standard library errors package so callers only
// need a single import for both the sentinel values used across the app and
// the usual Is/As helpers.
package errors

import "errors"

var (
	As  = errors.As
	Is  = errors.Is
	New = errors.New
)

var (
	ErrNotFound   = errors.New("resource could not be found")
	ErrInvalidUrl = errors.New("url is invalid")

	// Lookup keys: neither 64 hex chars (content hash) nor 8 chars (alias)
	ErrInvalidKey = errors.New("lookup key has invalid shape")

	// Metadata extraction
	ErrNoTitle = errors.New("page has no title element")

	// Redirect resolution
	ErrBadRedirect = errors.New("redirect response without location header")
)
