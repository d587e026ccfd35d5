package compare

import (
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// checksumFinder compares by content only.
func checksumFinder() *Finder {
	f := NewFinder(zerolog.Nop())
	f.SelfMatchPrefix = 0
	return f
}

func count(t *testing.T, seq iter.Seq2[string, error]) int {
	t.Helper()
	return len(mustCollect(t, seq))
}

func TestFindDuplicates_IdenticalPair(t *testing.T) {
	root := t.TempDir()
	a := write(t, filepath.Join(root, "source", "A", "0.txt"), "foobar")
	write(t, filepath.Join(root, "target", "B", "0.txt"), "foobar")

	f := checksumFinder()
	got, err := Collect(f.FindDuplicates(filepath.Join(root, "source"), filepath.Join(root, "target")))
	require.NoError(t, err)
	assert.Equal(t, []string{a}, got)

	newFiles, err := Collect(f.FindNewFiles(filepath.Join(root, "source"), filepath.Join(root, "target")))
	require.NoError(t, err)
	assert.Empty(t, newFiles)
}

func TestFindDuplicatesAndNewFiles_Evolving(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "A")
	tgt := filepath.Join(root, "B")
	f := checksumFinder()

	write(t, filepath.Join(src, "0.txt"), "foobar")
	fileB := write(t, filepath.Join(tgt, "0.txt"), "foobar")
	assert.Equal(t, 1, count(t, f.FindDuplicates(src, tgt)))

	write(t, filepath.Join(src, "1.txt"), strings.Repeat("foobar", 2))
	assert.Equal(t, 1, count(t, f.FindDuplicates(src, tgt)), "target unchanged")

	fileC := write(t, filepath.Join(tgt, "1.txt"), strings.Repeat("foobar", 2))
	assert.Equal(t, 2, count(t, f.FindDuplicates(src, tgt)))

	require.NoError(t, os.Remove(fileC))
	assert.Equal(t, 1, count(t, f.FindDuplicates(src, tgt)))

	write(t, fileB, "test")
	assert.Equal(t, 0, count(t, f.FindDuplicates(src, tgt)))
	assert.Equal(t, []string{fileB}, mustCollect(t, f.FindNewFiles(src, tgt)))

	write(t, filepath.Join(tgt, "1.txt"), "foobar")
	assert.Equal(t, 1, count(t, f.FindNewFiles(src, tgt)), "same content as A/0.txt")

	write(t, filepath.Join(tgt, "2.txt"), strings.Repeat("foobar", 3))
	assert.Equal(t, 2, count(t, f.FindNewFiles(src, tgt)))
}

func mustCollect(t *testing.T, seq iter.Seq2[string, error]) []string {
	t.Helper()
	out, err := Collect(seq)
	require.NoError(t, err)
	return out
}

func TestFindDuplicates_OncePerPair(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	tgt := filepath.Join(root, "tgt")
	a := write(t, filepath.Join(src, "a.jpg"), "same")
	write(t, filepath.Join(tgt, "x.jpg"), "same")
	write(t, filepath.Join(tgt, "y.jpg"), "same")
	write(t, filepath.Join(tgt, "z.jpg"), "diff")

	got := mustCollect(t, checksumFinder().FindDuplicates(src, tgt))
	assert.Equal(t, []string{a, a}, got)
}

func TestFindDuplicates_Delete(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	tgt := filepath.Join(root, "tgt")
	a := write(t, filepath.Join(src, "a.jpg"), "same")
	write(t, filepath.Join(tgt, "x.jpg"), "same")
	write(t, filepath.Join(tgt, "y.jpg"), "same")

	dry := checksumFinder()
	dry.Delete = true
	dry.DryRun = true
	assert.Equal(t, []string{a, a}, mustCollect(t, dry.FindDuplicates(src, tgt)))
	assert.FileExists(t, a)

	f := checksumFinder()
	f.Delete = true
	assert.Equal(t, []string{a}, mustCollect(t, f.FindDuplicates(src, tgt)))
	assert.NoFileExists(t, a)
}

func TestFindDuplicates_TimestampHeuristic(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	tgt := filepath.Join(root, "tgt")
	a := write(t, filepath.Join(src, "a.jpg"), "aaaa")
	b := write(t, filepath.Join(tgt, "b.jpg"), "bbbb")

	when := time.Date(2006, 4, 17, 13, 43, 47, 0, time.Local)
	require.NoError(t, os.Chtimes(a, when, when))
	require.NoError(t, os.Chtimes(b, when, when))

	f := checksumFinder()
	assert.Empty(t, mustCollect(t, f.FindDuplicates(src, tgt)), "content differs")

	f.UseTimestamp = true
	assert.Equal(t, []string{a}, mustCollect(t, f.FindDuplicates(src, tgt)))
}

func TestFindDuplicates_StopEarly(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	tgt := filepath.Join(root, "tgt")
	for _, n := range []string{"a", "b", "c"} {
		write(t, filepath.Join(src, n+".jpg"), "same")
	}
	write(t, filepath.Join(tgt, "x.jpg"), "same")

	seen := 0
	for _, err := range checksumFinder().FindDuplicates(src, tgt) {
		require.NoError(t, err)
		seen++
		break
	}
	assert.Equal(t, 1, seen)
}

func TestFind_SymlinkedSource(t *testing.T) {
	root := t.TempDir()
	realDir := filepath.Join(root, "real")
	tgt := filepath.Join(root, "tgt")
	write(t, filepath.Join(realDir, "a.jpg"), "same")
	write(t, filepath.Join(tgt, "b.jpg"), "same")
	link := filepath.Join(root, "Pictures")
	require.NoError(t, os.Symlink(realDir, link))

	f := checksumFinder()
	assert.Equal(t, []string{filepath.Join(link, "a.jpg")}, mustCollect(t, f.FindDuplicates(link, tgt)))
	assert.Empty(t, mustCollect(t, f.FindNewFiles(link, tgt)))
}

func TestFind_MissingFolder(t *testing.T) {
	root := t.TempDir()
	f := checksumFinder()

	_, err := Collect(f.FindDuplicates(filepath.Join(root, "nope"), root))
	assert.Error(t, err)
	_, err = Collect(f.FindNewFiles(root, filepath.Join(root, "nope")))
	assert.Error(t, err)
}

func TestFindNewFiles_IgnoreFiles(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	tgt := filepath.Join(root, "tgt")
	require.NoError(t, os.MkdirAll(src, 0o755))
	write(t, filepath.Join(tgt, "Thumbs.db"), "cache")
	photo := write(t, filepath.Join(tgt, "new.jpg"), "photo")

	f := checksumFinder()
	f.IgnoreFiles = []string{"thumbs.db"}
	assert.Equal(t, []string{photo}, mustCollect(t, f.FindNewFiles(src, tgt)))
}

func TestFindNewFiles_SelfMatchPrefix(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	tgt := filepath.Join(root, "tgt")
	write(t, filepath.Join(src, "a.jpg"), "aaaa")
	b := write(t, filepath.Join(tgt, "b.jpg"), "bbbb")

	// Both paths live under the same temp dir, so their first 8 characters
	// agree and the candidate is presumed to be the same file.
	f := NewFinder(zerolog.Nop())
	assert.Empty(t, mustCollect(t, f.FindNewFiles(src, tgt)))

	f.SelfMatchPrefix = 0
	assert.Equal(t, []string{b}, mustCollect(t, f.FindNewFiles(src, tgt)))
}

func TestPrefix(t *testing.T) {
	assert.Equal(t, "/tmp", prefix("/tmp", 8))
	assert.Equal(t, "/tmp/abc", prefix("/tmp/abcdef", 8))
}
