// Package catalog lists media files with the details shown by the list command.
package catalog

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"

	"mediaphile/internal/media"
	"mediaphile/internal/metadata"
	"mediaphile/internal/walk"
)

// Entry is one listed file.
type Entry struct {
	Path  string
	Size  int64
	Make  string
	Model string
	MIME  string
}

// HumanSize renders Size the way the list command prints it.
func (e Entry) HumanSize() string { return HumanSize(e.Size) }

// List returns the files under source accepted by opts. Camera make and model
// come from reader when it has them; a nil reader skips metadata entirely.
func List(source string, opts walk.Options, reader metadata.Reader) ([]Entry, error) {
	files, err := walk.Files(source, opts)
	if err != nil {
		return nil, err
	}

	out := make([]Entry, 0, len(files))
	for _, f := range files {
		e := Entry{Path: f.Path, Size: f.Info.Size()}
		mt, err := mimetype.DetectFile(f.Path)
		if err != nil {
			return nil, &media.FileAccessError{Op: "read", Path: f.Path, Err: err}
		}
		e.MIME = mt.String()
		if reader != nil {
			// Make/model survive a missing capture date.
			m := reader.Read(f.Path).Metadata
			e.Make, e.Model = m.Make, m.Model
		}
		out = append(out, e)
	}
	return out, nil
}

var sizeUnits = []string{"bytes", "KB", "MB", "GB"}

// HumanSize formats n with one decimal and a binary unit, e.g. "1.5MB".
func HumanSize(n int64) string {
	v := float64(n)
	for _, unit := range sizeUnits {
		if v < 1024 && v > -1024 {
			return fmt.Sprintf("%3.1f%s", v, unit)
		}
		v /= 1024
	}
	return fmt.Sprintf("%3.1f%s", v, "TB")
}
