package ledger

import (
	"errors"

	"collabBack/internal/marketplace/repo"
)

var (
	// ErrValidation reports malformed input.
	ErrValidation = errors.New("validation error")
	// ErrInvalidTransition reports a status change the transition table does not allow.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrDuplicateApplication reports a second open application for the same campaign.
	ErrDuplicateApplication = errors.New("duplicate application")
	// ErrInvalidApplication reports a submission against an application that cannot take one.
	ErrInvalidApplication = errors.New("invalid application")
	// ErrForbidden reports an actor acting outside its role or ownership.
	ErrForbidden = errors.New("forbidden")

	ErrNotFound            = repo.ErrNotFound
	ErrInsufficientBalance = repo.ErrInsufficientBalance
	ErrHasDependents       = repo.ErrHasDependents
)
