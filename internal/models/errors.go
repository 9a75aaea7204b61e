package models

import (
	"errors"
)

var (
	ErrNoRecord           = errors.New("models: no matching record found")
	ErrInvalidCredentials = errors.New("models: invalid credentials")
	ErrDuplicateEmail     = errors.New("models: duplicate email")
	ErrUserNotFound       = errors.New("models: user not found")
	ErrInvalidRole        = errors.New("models: invalid role")
	ErrValidation         = errors.New("models: validation failed")
	ErrNotParticipant     = errors.New("models: not a conversation participant")
	ErrForbidden          = errors.New("models: forbidden")
)
