package relocate

import (
	"io"
	"os"

	"mediaphile/internal/media"
)

// renameFunc is swapped in tests to simulate cross-device moves.
var renameFunc = os.Rename

// moveFile renames src to dst, falling back to copy+remove when the two
// paths are on different filesystems.
func moveFile(src, dst string) error {
	err := renameFunc(src, dst)
	if err == nil {
		return nil
	}
	if !isEXDEV(err) {
		return &media.FileAccessError{Op: "move", Path: src, Err: err}
	}
	if err := copyFile(src, dst, true); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return &media.FileAccessError{Op: "remove", Path: src, Err: err}
	}
	return nil
}

// copyFile copies src to dst, which must not exist yet. The permission bits
// are kept; with keepTimes the modification time is kept too.
func copyFile(src, dst string, keepTimes bool) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return &media.FileAccessError{Op: "copy", Path: src, Err: err}
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return &media.FileAccessError{Op: "copy", Path: src, Err: err}
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return &media.FileAccessError{Op: "copy", Path: dst, Err: err}
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = &media.FileAccessError{Op: "copy", Path: dst, Err: cerr}
		}
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return &media.FileAccessError{Op: "copy", Path: dst, Err: err}
	}
	if keepTimes {
		if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
			return &media.FileAccessError{Op: "copy", Path: dst, Err: err}
		}
	}
	return nil
}
