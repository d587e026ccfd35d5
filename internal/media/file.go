// Package media describes the files the organizer works on: their names,
// sizes and the filesystem timestamps used when no capture date is embedded.
package media

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File holds what the organizer knows about a single photo or movie on disk.
type File struct {
	Path  string    // Absolute path
	Name  string    // Base name, including extension
	Ext   string    // Lowercased extension without the leading dot
	Size  int64     // Size in bytes
	CTime time.Time // Status change (or creation) time reported by the filesystem
	MTime time.Time // Modification time
}

// CreationEvent returns the timestamp treated as the moment the file was created.
// Some filesystems report ctime as the last metadata change rather than the
// creation, so the earlier of the two wins.
func (f File) CreationEvent() time.Time {
	return CreationEvent(f.CTime, f.MTime)
}

// CreationEvent applies the ctime/mtime rule to a raw pair of timestamps.
func CreationEvent(ctime, mtime time.Time) time.Time {
	if mtime.Before(ctime) {
		return mtime
	}
	return ctime
}

// Ext returns the lowercased extension of name without its leading dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// Stat builds a File for path. Any failure is reported as a *FileAccessError.
func Stat(path string) (File, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return File{}, &FileAccessError{Op: "stat", Path: path, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return File{}, &FileAccessError{Op: "stat", Path: abs, Err: err}
	}
	return FromInfo(abs, info), nil
}

// FromInfo builds a File from an already obtained os.FileInfo.
func FromInfo(path string, info os.FileInfo) File {
	return File{
		Path:  path,
		Name:  info.Name(),
		Ext:   Ext(info.Name()),
		Size:  info.Size(),
		CTime: changeTime(info),
		MTime: info.ModTime(),
	}
}

// CreationEventOf is a shortcut for FromInfo(path, info).CreationEvent().
func CreationEventOf(info os.FileInfo) time.Time {
	return CreationEvent(changeTime(info), info.ModTime())
}
