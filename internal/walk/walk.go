// Package walk enumerates the files of a folder tree. Symlinked directories
// are never entered, which keeps link cycles from looping forever.
package walk

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"mediaphile/internal/media"
)

// Options filters a walk. Empty fields mean "no filter".
type Options struct {
	Extensions    []string // lowercased, without leading dot
	IgnoreFolders []string // folder names, case-insensitive
	IgnoreFiles   []string // base names, case-insensitive
}

// Entry is one file found by a walk.
type Entry struct {
	Path string
	Info fs.FileInfo
}

type filter struct {
	exts    map[string]bool
	folders map[string]bool
	files   map[string]bool
}

func newFilter(opts Options) filter {
	return filter{
		exts:    lowerSet(opts.Extensions),
		folders: lowerSet(opts.IgnoreFolders),
		files:   lowerSet(opts.IgnoreFiles),
	}
}

func lowerSet(items []string) map[string]bool {
	if len(items) == 0 {
		return nil
	}
	set := make(map[string]bool, len(items))
	for _, it := range items {
		it = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(it), "."))
		if it != "" {
			set[it] = true
		}
	}
	return set
}

func (f filter) includeFile(name string) bool {
	if f.files[strings.ToLower(name)] {
		return false
	}
	return f.exts == nil || f.exts[media.Ext(name)]
}

// Files returns every file under root accepted by opts, in lexical walk order.
//
// root itself may be a symlink to a folder; it is followed and the reported
// paths keep root as their prefix.
func Files(root string, opts Options) ([]Entry, error) {
	root = filepath.Clean(root)
	flt := newFilter(opts)

	start := root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		start = resolved
	}

	var entries []Entry
	err := filepath.WalkDir(start, func(walked string, d fs.DirEntry, walkErr error) error {
		path := walked
		if start != root {
			rel, err := filepath.Rel(start, walked)
			if err != nil {
				return &media.FileAccessError{Op: "walk", Path: walked, Err: err}
			}
			path = filepath.Join(root, rel)
		}
		if walkErr != nil {
			return &media.FileAccessError{Op: "walk", Path: path, Err: walkErr}
		}
		if d.IsDir() {
			if walked != start && flt.folders[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}
		if !flt.includeFile(d.Name()) {
			return nil
		}

		var info fs.FileInfo
		var err error
		if d.Type()&fs.ModeSymlink != 0 {
			// Links are followed for files only.
			info, err = os.Stat(walked)
			if err == nil && info.IsDir() {
				return nil
			}
		} else {
			info, err = d.Info()
		}
		if err != nil {
			return &media.FileAccessError{Op: "stat", Path: path, Err: err}
		}
		entries = append(entries, Entry{Path: path, Info: info})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Folder groups the matching files of one directory.
type Folder struct {
	Path  string
	Names []string // reverse lexicographic order
}

// FilesByFolder groups the files accepted by opts by their containing
// folder. Folders come back sorted by path; the names inside each folder are
// sorted descending, which is the order relocation processes them in.
func FilesByFolder(root string, opts Options) ([]Folder, error) {
	entries, err := Files(root, opts)
	if err != nil {
		return nil, err
	}

	byDir := make(map[string][]string)
	for _, e := range entries {
		dir, name := filepath.Split(e.Path)
		dir = filepath.Clean(dir)
		byDir[dir] = append(byDir[dir], name)
	}

	folders := make([]Folder, 0, len(byDir))
	for dir, names := range byDir {
		sort.Sort(sort.Reverse(sort.StringSlice(names)))
		folders = append(folders, Folder{Path: dir, Names: names})
	}
	sort.Slice(folders, func(i, j int) bool { return folders[i].Path < folders[j].Path })
	return folders, nil
}
