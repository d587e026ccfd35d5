package relocate

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// removeEmptyFolders removes each folder that no longer contains any file,
// deepest first, then its parents up to (not including) root while they are
// empty too. Failures are logged and skipped. Returns the number of
// directories removed.
func removeEmptyFolders(root string, folders []string, log zerolog.Logger) int {
	sorted := append([]string(nil), folders...)
	sort.Slice(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	removed := 0
	for _, dir := range sorted {
		if dir == root || !under(dir, root) {
			continue
		}
		n, err := removeEmptyTree(dir)
		removed += n
		if err != nil {
			log.Debug().Err(err).Str("folder", dir).Msg("folder not removed")
			continue
		}
		for parent := filepath.Dir(dir); parent != root && under(parent, root); parent = filepath.Dir(parent) {
			if err := os.Remove(parent); err != nil {
				break
			}
			removed++
		}
	}
	return removed
}

// RemoveEmptyFolders is removeEmptyFolders for callers outside a relocation.
func RemoveEmptyFolders(root string, folders []string, log zerolog.Logger) int {
	return removeEmptyFolders(filepath.Clean(root), folders, log)
}

// removeEmptyTree removes dir and its subdirectories if none of them holds a
// file. A tree with any file is left untouched.
func removeEmptyTree(dir string) (int, error) {
	var dirs []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return fs.ErrExist
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for i := len(dirs) - 1; i >= 0; i-- {
		if err := os.Remove(dirs[i]); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

func under(path, root string) bool {
	return strings.HasPrefix(path, root+string(filepath.Separator))
}
