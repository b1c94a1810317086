// Package service holds the domain logic behind the HTTP handlers.
// Every failure a caller can act on is a sentinel error from this file;
// anything else is an internal failure the boundary reports generically
package service

import "errors"

var (
	// ErrNotFound covers both absence and lack of authorization so
	// callers can't probe for existence
	ErrNotFound = errors.New("not found")

	ErrExpired              = errors.New("share link has expired")
	ErrDownloadLimitReached = errors.New("download limit reached")
	ErrBadPassword          = errors.New("invalid share password")

	ErrQuotaExceeded    = errors.New("storage quota exceeded")
	ErrDuplicateContent = errors.New("file already exists")

	ErrValidation = errors.New("invalid input")
)
