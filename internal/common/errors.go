// Package common defines shared sentinel errors used across repository,
// service and transport layers. Callers should use errors.Is to match
// these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Account lifecycle errors.
	ErrDuplicateAccount   = errors.New("username or email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNoFieldsProvided   = errors.New("no fields provided")

	// Token lifecycle errors.
	ErrInvalidToken  = errors.New("invalid token")
	ErrTokenExpired  = errors.New("token expired")
	ErrWrongTokenUse = errors.New("token presented in wrong context")
	ErrTokenMismatch = errors.New("token is not the active one for this account")
)
