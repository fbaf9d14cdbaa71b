package auth

import "errors"

var (
	// ErrUnauthorized covers every missing or invalid session or credential.
	// Callers must not reveal which check failed.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUpstream marks failures talking to the identity provider.
	ErrUpstream = errors.New("identity provider request failed")
)
