// Package metadata reads the embedded capture information of media files.
//
// Decoding is delegated to goexif. Callers never see decoder errors as Go
// errors: Read returns a Result that is either a success carrying Metadata or
// a failure carrying the reason the metadata is unavailable.
package metadata

import (
	"errors"
	"strings"
	"time"
)

// ErrNoDate is the failure reason when metadata decoded but carries no capture date.
var ErrNoDate = errors.New("no capture date in metadata")

// Metadata is the subset of embedded tags the organizer uses.
type Metadata struct {
	Date  time.Time // Digitized/original capture time, zero when absent
	Make  string
	Model string
}

// Result is the outcome of reading one file.
type Result struct {
	Metadata Metadata
	Reason   error // nil on success
}

// Found wraps successfully decoded metadata.
func Found(m Metadata) Result { return Result{Metadata: m} }

// Unavailable reports why no metadata could be produced.
func Unavailable(reason error) Result { return Result{Reason: reason} }

// OK reports whether the read succeeded.
func (r Result) OK() bool { return r.Reason == nil }

// Reader extracts metadata from a file on disk.
type Reader interface {
	Read(path string) Result
}

// ReaderFunc adapts a plain function to Reader.
type ReaderFunc func(path string) Result

func (f ReaderFunc) Read(path string) Result { return f(path) }

// makeNames maps verbose manufacturer strings to the short names shown to users.
var makeNames = map[string]string{
	"NIKON CORPORATION": "Nikon",
	"NIKON":             "Nikon",
}

// NormalizeMake trims the NUL padding cameras leave in string tags and maps
// known manufacturer spellings to a short name.
func NormalizeMake(name string) string {
	name = clean(name)
	if short, ok := makeNames[strings.ToUpper(name)]; ok {
		return short
	}
	return name
}

func clean(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}
