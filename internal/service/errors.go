package service

import "errors"

// Shared sentinels used by more than one service.
var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrTrainerNotFound = errors.New("trainer not found")
	ErrUserNotFound    = errors.New("user not found")
)
