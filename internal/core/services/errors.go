package services

import "errors"

// Auth errors
var (
	ErrAuthInvalidEmail       = errors.New("auth: invalid email address")
	ErrAuthWeakPassword       = errors.New("auth: password must be at least 8 characters")
	ErrAuthEmailTaken         = errors.New("auth: email already registered")
	ErrAuthInvalidCredentials = errors.New("auth: invalid email or password")
	ErrAuthInvalidToken       = errors.New("auth: invalid token")
	ErrAuthExpiredToken       = errors.New("auth: token has expired")
	ErrAuthNoSession          = errors.New("auth: no authenticated session")
	ErrAuthUserNotFound       = errors.New("auth: user not found")
)

// Task errors
var (
	ErrTaskNotFound     = errors.New("task: not found")
	ErrTaskEmptyText    = errors.New("task: text must not be empty")
	ErrTaskInvalidValue = errors.New("task: progress must be between 0 and 100")
)

// History errors
var (
	ErrHistoryNotFound = errors.New("history: not found")
)

// Stream errors
var (
	ErrStreamUnknownKind = errors.New("stream: unknown stream kind")
)
