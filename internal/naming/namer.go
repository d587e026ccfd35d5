package naming

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"mediaphile/internal/media"
)

// Defaults matching a freshly created configuration.
const (
	DefaultTimestampLayout   = "20060102_150405"
	DefaultNewFilename       = "{filename}_{timestamp}{file_extension}"
	DefaultDuplicateFilename = "{filename}~{counter}{file_extension}"
)

// monthNames is fixed English so folder names never depend on the locale.
var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the full English name of m, or "" outside 1..12.
func MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return ""
	}
	return monthNames[m-1]
}

// ParseNewFilename parses a new-filename template.
func ParseNewFilename(s string) (Template, error) {
	return ParseTemplate(s, TokenFilename, TokenTimestamp, TokenFileExtension)
}

// ParseDuplicateFilename parses a duplicate-filename template. The counter
// token is required, otherwise every candidate would be the same name.
func ParseDuplicateFilename(s string) (Template, error) {
	t, err := ParseTemplate(s, TokenFilename, TokenCounter, TokenFileExtension)
	if err != nil {
		return Template{}, err
	}
	if !t.Has(TokenCounter) {
		return Template{}, &ConfigurationError{Template: s, Reason: "missing {counter}"}
	}
	return t, nil
}

// FolderPath returns the folder segments for date:
// [prefix?, year, month name, tag or day of month].
func FolderPath(date time.Time, tag, prefix string) []string {
	last := tag
	if last == "" {
		last = strconv.Itoa(date.Day())
	}
	segs := make([]string, 0, 4)
	if prefix != "" {
		segs = append(segs, prefix)
	}
	return append(segs, strconv.Itoa(date.Year()), MonthName(date.Month()), last)
}

// FileName builds the timestamped name for original. A timestamp already
// present in the name is removed first so renaming is idempotent.
func FileName(original string, date time.Time, layout string, tmpl Template) string {
	name := filepath.Base(original)
	ts := date.Format(layout)

	if frag := tmpl.fragment(TokenTimestamp, ts); frag != ts && strings.Contains(name, frag) {
		name = strings.Replace(name, frag, "", 1)
	} else if ts != "" && strings.Contains(name, ts) {
		name = strings.Replace(name, ts, "", 1)
	}

	ext := filepath.Ext(name)
	return tmpl.Render(map[string]string{
		TokenFilename:      strings.TrimSuffix(name, ext),
		TokenTimestamp:     ts,
		TokenFileExtension: ext,
	})
}

// UniqueTarget returns path if nothing exists there. Otherwise it renders the
// duplicate template with counter 1, 2, ... until a free name turns up.
//
// This is check-then-act: another process creating the same name between the
// check and the caller's write is not detected.
func UniqueTarget(path string, tmpl Template) (string, error) {
	return UniqueTargetAvoiding(path, tmpl, nil)
}

// UniqueTargetAvoiding is UniqueTarget that also treats every path reserved
// reports as taken. Dry runs use it to account for files they did not write.
func UniqueTargetAvoiding(path string, tmpl Template, reserved func(string) bool) (string, error) {
	taken, err := occupied(path, reserved)
	if err != nil || !taken {
		return path, err
	}

	dir, name := filepath.Split(path)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	for counter := 1; ; counter++ {
		candidate := filepath.Join(dir, tmpl.Render(map[string]string{
			TokenFilename:      stem,
			TokenCounter:       strconv.Itoa(counter),
			TokenFileExtension: ext,
		}))
		taken, err := occupied(candidate, reserved)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

func occupied(path string, reserved func(string) bool) (bool, error) {
	if reserved != nil && reserved(path) {
		return true, nil
	}
	return exists(path)
}

func exists(path string) (bool, error) {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, &media.FileAccessError{Op: "stat", Path: path, Err: err}
	}
}
