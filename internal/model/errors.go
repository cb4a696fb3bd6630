package model

import "errors"

var (
	// Account related errors
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already in use")

	// Credential related errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")

	// Permission/Access related errors
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrSelfDelete   = errors.New("cannot delete own account")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
