package domain

import "errors"

// ErrNotFound is returned by repositories when no row matched the given id
var ErrNotFound = errors.New("note not found")
