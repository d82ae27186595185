package domain

import "errors"

// ErrEmptyDraft signals a submission without draft text. It is a recoverable
// validation outcome, not a backend failure.
var ErrEmptyDraft = errors.New("draft text is required")

var ErrSessionNotFound = errors.New("session not found")

var ErrSessionExists = errors.New("session already exists")
