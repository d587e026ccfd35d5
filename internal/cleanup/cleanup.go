// Package cleanup tidies a source tree after an import: it deletes the
// clutter files cameras and photo tools leave behind and then removes every
// folder left empty.
package cleanup

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"mediaphile/internal/media"
	"mediaphile/internal/relocate"
	"mediaphile/internal/walk"
)

// Result totals a cleanup.
type Result struct {
	RemovedFiles   []string
	RemovedFolders int
}

// Clean deletes files under source whose base name is in ignoreFiles
// (case-insensitive) and removes empty folders below source. With dryRun
// nothing is deleted; the files that would go are still reported.
func Clean(source string, ignoreFiles []string, dryRun bool, log zerolog.Logger) (Result, error) {
	var res Result
	source, err := filepath.Abs(source)
	if err != nil {
		return res, err
	}
	if resolved, err := filepath.EvalSymlinks(source); err == nil {
		source = resolved
	}
	log = log.With().Str("component", "cleanup").Logger()
	log.Debug().Str("folder", source).Msg("cleaning up")

	ignored := make(map[string]bool, len(ignoreFiles))
	for _, n := range ignoreFiles {
		ignored[strings.ToLower(n)] = true
	}

	files, err := walk.Files(source, walk.Options{})
	if err != nil {
		return res, err
	}
	for _, f := range files {
		if !ignored[strings.ToLower(filepath.Base(f.Path))] {
			continue
		}
		if !dryRun {
			if err := os.Remove(f.Path); err != nil {
				return res, &media.FileAccessError{Op: "remove", Path: f.Path, Err: err}
			}
		}
		log.Info().Bool("dry_run", dryRun).Str("path", f.Path).Msg("removed ignored file")
		res.RemovedFiles = append(res.RemovedFiles, f.Path)
	}
	if dryRun {
		return res, nil
	}

	var dirs []string
	err = filepath.WalkDir(source, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &media.FileAccessError{Op: "walk", Path: path, Err: err}
		}
		if d.IsDir() && path != source {
			dirs = append(dirs, path)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	res.RemovedFolders = relocate.RemoveEmptyFolders(source, dirs, log)
	return res, nil
}
