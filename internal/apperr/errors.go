package apperr

import "errors"

var (
	ErrInvalidPattern      = errors.New("invalid pattern")
	ErrInvalidPath         = errors.New("invalid path")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrWorkspaceNotAllowed = errors.New("workspace not allowed")
)
