package domain

import "errors"

// Common domain errors
var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrInternalServer  = errors.New("internal server error")
	ErrDuplicateEntry  = errors.New("duplicate entry")
)

// Request lifecycle errors
var (
	ErrRequestNotFound = errors.New("request not found")
	ErrStatusConflict  = errors.New("request status conflict")
	ErrInvalidAmount   = errors.New("amount must be greater than 0")
	ErrReasonRequired  = errors.New("rejection reason is required")
	ErrNotCertifiable  = errors.New("request is not paid and validated")
	ErrUpstreamFailure = errors.New("upstream service failure")
)

// User errors
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrInvalidRole       = errors.New("invalid role")
)
