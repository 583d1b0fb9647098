package xjudge_errors

import (
	"errors"
)

const (
	CodeUniqueConstraint     = "23505"
	CodeForeignKeyConstraint = "23503"
)

var (
	ErrInternal            = errors.New("internal service error. please try again later")
	ErrInvalidRequest      = errors.New("invalid request")
	ErrInvalidInput        = errors.New("invalid input")
	ErrNotFound            = errors.New("entity not found")
	ErrUnAuthorized        = errors.New("user not allowed to perform this action")
	ErrUnauthenticated     = errors.New("authentication required to perform this action")
	ErrEntityAlreadyExist  = errors.New("entity with given key already exist")
	ErrUpstreamUnavailable = errors.New("remote judge is unreachable. please try again later")
	ErrHttpResponse        = errors.New("error occurred with http response")
	ErrEmailServiceStopped = errors.New("email service is stopped currently")
	ErrSubmissionFailed    = errors.New("submission failed")
)
