package prefrepo

import "errors"

// ErrNotFound indicates the (trip, member) pair has no preference record.
var ErrNotFound = errors.New("preference record not found")
