package repository

import "errors"

// ErrStatusConflict is returned by conditional status updates when the row
// was not in the expected status, either because the caller raced another
// writer or because the transition was already taken.
var ErrStatusConflict = errors.New("row not in expected status")
