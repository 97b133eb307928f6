package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Callers add detail with fmt.Errorf("%w: ...") and match with errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrUpstreamNotFound    = errors.New("candidate not found in hr directory")
	ErrUpstreamMalformed   = errors.New("malformed hr directory response")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrUpstreamTimeout     = errors.New("upstream request timed out")
	ErrNotFound            = errors.New("not found")
	ErrExpired             = errors.New("expired")
	ErrConflict            = errors.New("conflict")
	ErrPersistence         = errors.New("persistence error")
	ErrMalformedExpiry     = errors.New("invalid expires_at format")
)

var (
	ErrMissingCandidateID = fmt.Errorf("%w: candidate_id is required", ErrValidation)
	ErrCandidateNotFound  = fmt.Errorf("%w: candidate", ErrNotFound)
	ErrAlreadyExists      = fmt.Errorf("%w: candidate record already exists", ErrConflict)
	ErrAlreadyCompleted   = fmt.Errorf("%w: test already submitted", ErrConflict)
)
