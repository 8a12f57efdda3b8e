package services

import "errors"

// Caller-facing error taxonomy. Every operation returns one of these for
// domain violations; nothing in this package is worth crashing over.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrInvalidState     = errors.New("operation not valid for session state")
	ErrForbidden        = errors.New("forbidden")
	ErrOutsideWindow    = errors.New("outside attendance window")
	ErrAlreadySubmitted = errors.New("assignment already submitted")
	ErrAlreadyGraded    = errors.New("assignment already graded")
	ErrNoSubmission     = errors.New("no submission to grade")
	ErrOutOfRange       = errors.New("score out of range")
	ErrConflict         = errors.New("conflict")
	ErrUserNotFound     = errors.New("user not found")
)
