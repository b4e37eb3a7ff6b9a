// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNoFact indicates no fact has ever been fetched successfully, so there is
// nothing to serve, not even stale data.
var ErrNoFact = errors.New("no fact available")

// ErrValidation indicates invalid caller-supplied input.
var ErrValidation = errors.New("validation failed")
