// Package relocate moves or copies media files into a date-based folder
// hierarchy: <target>/[prefix/]<year>/<month name>/<tag or day>/<name>.
package relocate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"mediaphile/internal/checksum"
	"mediaphile/internal/dates"
	"mediaphile/internal/media"
	"mediaphile/internal/naming"
	"mediaphile/internal/walk"
)

// Options controls a relocation run.
type Options struct {
	Extensions    []string // lowercased, no dot
	IgnoreFolders []string

	Tag        string // replaces the day folder for every file
	AutoTag    bool   // tag = first folder below the source dir
	PathPrefix string

	AppendTimestamp           bool
	RemoveSource              bool // move instead of copy
	SkipExisting              bool
	UseChecksumExistenceCheck bool
	DryRun                    bool

	TimestampLayout   string
	NewFilename       naming.Template
	DuplicateFilename naming.Template
}

// DefaultOptions returns options using the default naming templates.
func DefaultOptions() Options {
	return Options{
		AppendTimestamp:   true,
		TimestampLayout:   naming.DefaultTimestampLayout,
		NewFilename:       naming.MustParseTemplate(naming.DefaultNewFilename, naming.TokenFilename, naming.TokenTimestamp, naming.TokenFileExtension),
		DuplicateFilename: naming.MustParseTemplate(naming.DefaultDuplicateFilename, naming.TokenFilename, naming.TokenCounter, naming.TokenFileExtension),
	}
}

// Action is what happened to one file.
type Action int

const (
	Moved Action = iota
	Copied
	Skipped
)

func (a Action) String() string {
	switch a {
	case Moved:
		return "move"
	case Copied:
		return "copy"
	default:
		return "skip"
	}
}

// Outcome describes one processed file.
type Outcome struct {
	Source string
	Target string
	Date   time.Time
	Tag    string
	Action Action
	DryRun bool
}

// Summary totals a run.
type Summary struct {
	Moved          int
	Copied         int
	Skipped        int
	RemovedFolders int
}

func (s *Summary) add(o Outcome) {
	switch o.Action {
	case Moved:
		s.Moved++
	case Copied:
		s.Copied++
	default:
		s.Skipped++
	}
}

// Observer receives progress events. Relocate calls it from the calling
// goroutine only.
type Observer interface {
	OnStart(total int)
	OnFile(o Outcome)
}

// Relocator runs relocations. It is not safe for concurrent use, and two
// processes relocating into the same tree race on folder creation and name
// selection.
type Relocator struct {
	Options
	Dates    *dates.Resolver
	Observer Observer // optional
	Log      zerolog.Logger

	// planned maps targets a dry run would have written to their sources.
	planned map[string]string
}

// New returns a Relocator resolving dates with resolver.
func New(opts Options, resolver *dates.Resolver, log zerolog.Logger) *Relocator {
	return &Relocator{
		Options: opts,
		Dates:   resolver,
		Log:     log.With().Str("component", "relocate").Logger(),
	}
}

// Relocate processes every matching file under source. An empty target
// reorganizes source in place. The first failing file aborts the run.
func (r *Relocator) Relocate(source, target string) (Summary, error) {
	var sum Summary
	if target == "" {
		target = source
	}
	source, err := filepath.Abs(source)
	if err != nil {
		return sum, err
	}
	target, err = filepath.Abs(target)
	if err != nil {
		return sum, err
	}

	folders, err := walk.FilesByFolder(source, walk.Options{
		Extensions:    r.Extensions,
		IgnoreFolders: r.IgnoreFolders,
	})
	if err != nil {
		return sum, err
	}

	total := 0
	for _, f := range folders {
		total += len(f.Names)
	}
	r.Log.Info().Str("source", source).Str("target", target).Int("files", total).Bool("dry_run", r.DryRun).Msg("relocating")
	if r.Observer != nil {
		r.Observer.OnStart(total)
	}

	if r.DryRun {
		r.planned = make(map[string]string)
		defer func() { r.planned = nil }()
	}

	tags := newTagCache(source)
	for _, folder := range folders {
		tag := r.Tag
		if tag == "" && r.AutoTag {
			tag = tags.tagFor(folder.Path)
		}
		for _, name := range folder.Names {
			o, err := r.RelocateFile(filepath.Join(folder.Path, name), target, tag, time.Time{})
			if err != nil {
				return sum, err
			}
			sum.add(o)
			if r.Observer != nil {
				r.Observer.OnFile(o)
			}
		}
	}

	if r.RemoveSource && !r.DryRun {
		paths := make([]string, 0, len(folders))
		for _, f := range folders {
			paths = append(paths, f.Path)
		}
		sum.RemovedFolders = removeEmptyFolders(source, paths, r.Log)
	}

	r.Log.Info().
		Int("moved", sum.Moved).
		Int("copied", sum.Copied).
		Int("skipped", sum.Skipped).
		Int("removed_folders", sum.RemovedFolders).
		Msg("relocation finished")
	return sum, nil
}

// RelocateFile files a single photo or movie under target. A zero date is
// resolved from the file; an empty tag falls back to the day of month.
func (r *Relocator) RelocateFile(path, target, tag string, date time.Time) (Outcome, error) {
	o := Outcome{Source: path, Tag: tag, DryRun: r.DryRun}

	if date.IsZero() {
		d, err := r.Dates.Resolve(path)
		if err != nil {
			return o, err
		}
		date = d
	}
	o.Date = date

	dir := filepath.Join(append([]string{target}, naming.FolderPath(date, tag, r.PathPrefix)...)...)
	if !r.DryRun {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return o, &media.FileAccessError{Op: "mkdir", Path: dir, Err: err}
		}
	}

	name := filepath.Base(path)
	if r.AppendTimestamp {
		name = naming.FileName(path, date, r.TimestampLayout, r.NewFilename)
	}
	dest := filepath.Join(dir, name)
	o.Target = dest

	if dest == path {
		r.Log.Debug().Str("path", path).Msg("already in place")
		o.Action = Skipped
		return o, nil
	}

	if r.SkipExisting {
		skip, err := r.alreadyPresent(path, dest)
		if err != nil {
			return o, err
		}
		if skip {
			r.Log.Debug().Str("source", path).Str("target", dest).Msg("target exists, skipping")
			o.Action = Skipped
			return o, nil
		}
	}

	dest, err := naming.UniqueTargetAvoiding(dest, r.DuplicateFilename, r.isPlanned)
	if err != nil {
		return o, err
	}
	o.Target = dest
	if r.planned != nil {
		r.planned[dest] = path
	}

	o.Action = Copied
	if r.RemoveSource {
		o.Action = Moved
	}

	r.Log.Info().
		Bool("dry_run", r.DryRun).
		Str("action", o.Action.String()).
		Str("source", path).
		Str("target", dest).
		Msg("relocate")
	if r.DryRun {
		return o, nil
	}

	if r.RemoveSource {
		err = moveFile(path, dest)
	} else {
		err = copyFile(path, dest, false)
	}
	if err != nil {
		return o, err
	}
	return o, nil
}

func (r *Relocator) isPlanned(path string) bool {
	_, ok := r.planned[path]
	return ok
}

// alreadyPresent reports whether dest exists and, with the checksum check
// enabled, also holds the same content as path.
func (r *Relocator) alreadyPresent(path, dest string) (bool, error) {
	if src, ok := r.planned[dest]; ok {
		if !r.UseChecksumExistenceCheck {
			return true, nil
		}
		return checksum.Equal(path, src)
	}
	if _, err := os.Stat(dest); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, &media.FileAccessError{Op: "stat", Path: dest, Err: err}
	}
	if !r.UseChecksumExistenceCheck {
		return true, nil
	}
	same, err := checksum.Equal(path, dest)
	if err != nil {
		return false, fmt.Errorf("compare with existing target: %w", err)
	}
	return same, nil
}

// tagCache remembers the auto-tag of each top-level source folder so every
// file from that folder gets the same tag, even once the folder's files have
// been moved away.
type tagCache struct {
	source string
	tags   map[string]string
}

func newTagCache(source string) *tagCache {
	return &tagCache{source: source, tags: make(map[string]string)}
}

func (c *tagCache) tagFor(folder string) string {
	rel, err := filepath.Rel(c.source, folder)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	top := strings.SplitN(rel, string(filepath.Separator), 2)[0]
	key := filepath.Join(c.source, top)
	if tag, ok := c.tags[key]; ok {
		return tag
	}
	c.tags[key] = top
	return top
}

// TagFor returns the auto-tag a file under source would receive.
func TagFor(source, path string) string {
	return newTagCache(filepath.Clean(source)).tagFor(filepath.Dir(path))
}
