package media

import (
	"errors"
	"fmt"
)

// FileAccessError reports a stat, move, copy, remove or read failure on a
// single path. It aborts the batch operation that produced it.
type FileAccessError struct {
	Op   string
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error { return e.Err }

// IsFileAccess reports whether err is (or wraps) a *FileAccessError.
func IsFileAccess(err error) bool {
	var e *FileAccessError
	return errors.As(err, &e)
}
