package entity

import "errors"

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalid           = errors.New("invalid input")
	ErrConflict          = errors.New("conflict")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrAlreadyInProgress = errors.New("promotion already in progress")
	ErrInternal          = errors.New("internal error")
)
