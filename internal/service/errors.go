package service

import "errors"

// --- Error Definitions ---
var (
	ErrCourseNotFound       = errors.New("course not found")
	ErrSectionNotFound      = errors.New("section not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrUserAlreadyExists    = errors.New("user with this email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrAuthenticationFailed = errors.New("invalid credentials")
	ErrValidation           = errors.New("validation failed")
	ErrStorageNotConfigured = errors.New("storage is not configured")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
)
