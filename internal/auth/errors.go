package auth

import "errors"

var (
	ErrNotFound     = errors.New("auth: not found")
	ErrConflict     = errors.New("auth: already exists")
	ErrInvalidInput = errors.New("auth: invalid input")
	ErrUnauthorized = errors.New("auth: unauthorized")

	// ErrInvalidToken indicates the token failed signature, expiry or kind checks.
	ErrInvalidToken = errors.New("invalid token")

	// ErrRevokedToken indicates a refresh token whose jti is on the revocation ledger.
	ErrRevokedToken = errors.New("refresh token is revoked")
)
