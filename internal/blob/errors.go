package blob

import "errors"

// ErrNotFound is returned by Get when no blob exists at (bucket, key).
var ErrNotFound = errors.New("blob not found")
