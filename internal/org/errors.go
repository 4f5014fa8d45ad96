package org

import "errors"

var (
	ErrNotFound     = errors.New("org: not found")
	ErrInvalidInput = errors.New("org: invalid input")

	// ErrForbidden is returned by the access policy for guests and
	// non-members attempting to mutate an organization.
	ErrForbidden = errors.New("org: read-only access")
)
