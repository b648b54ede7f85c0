package store

import "errors"

// ErrNotFound indicates a missing or unauthorized resource lookup. A row
// owned by a different user is indistinguishable from a nonexistent one.
var ErrNotFound = errors.New("record not found")
