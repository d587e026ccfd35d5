// Package compare finds duplicate and new files between two folder trees.
//
// Both comparisons bucket files by size first, so only files of equal size
// are ever compared by content. Results are produced lazily: the trees are
// walked when iteration starts and a fresh iteration walks them again.
package compare

import (
	"iter"
	"os"

	"github.com/rs/zerolog"

	"mediaphile/internal/checksum"
	"mediaphile/internal/media"
	"mediaphile/internal/walk"
)

// DefaultSelfMatchPrefix is the number of leading path characters that,
// when equal, make FindNewFiles treat a source candidate as the target file
// itself.
const DefaultSelfMatchPrefix = 8

// Finder holds the options shared by FindDuplicates and FindNewFiles.
type Finder struct {
	// Delete removes each duplicate from the source tree as it is found.
	Delete bool
	// DryRun suppresses Delete.
	DryRun bool
	// UseTimestamp matches duplicates on equal creation-event timestamps
	// instead of checksums. Fast, but only a heuristic.
	UseTimestamp bool
	// IgnoreFiles are base names left out of FindNewFiles inventories.
	IgnoreFiles []string
	// SelfMatchPrefix: see DefaultSelfMatchPrefix. Zero disables the check.
	SelfMatchPrefix int
	// CacheSize bounds the per-call checksum memo.
	CacheSize int

	Log zerolog.Logger
}

// NewFinder returns a Finder with the default self-match prefix.
func NewFinder(log zerolog.Logger) *Finder {
	return &Finder{
		SelfMatchPrefix: DefaultSelfMatchPrefix,
		CacheSize:       checksum.DefaultCacheSize,
		Log:             log.With().Str("component", "compare").Logger(),
	}
}

// FindDuplicates yields every source file whose content (or creation
// timestamp, with UseTimestamp) equals a target file of the same size, once
// per matching pair. The first error is yielded and ends the sequence.
func (f *Finder) FindDuplicates(source, target string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f.Log.Debug().Str("folder", source).Msg("scanning source folder")
		src, err := walk.SizeInventory(source, nil)
		if err != nil {
			yield("", err)
			return
		}
		f.Log.Debug().Str("folder", target).Msg("scanning target folder")
		tgt, err := walk.SizeInventory(target, nil)
		if err != nil {
			yield("", err)
			return
		}
		sums, err := checksum.NewCache(f.CacheSize)
		if err != nil {
			yield("", err)
			return
		}

		for _, size := range tgt.Sizes() {
			for _, t := range tgt[size] {
				candidates := src[size]
				for i := 0; i < len(candidates); {
					s := candidates[i]
					dup, err := f.duplicate(sums, s, t)
					if err != nil {
						yield("", err)
						return
					}
					if !dup {
						i++
						continue
					}

					f.Log.Debug().Str("source", s.Path).Str("target", t.Path).Msg("duplicate")
					if f.Delete && !f.DryRun {
						if err := os.Remove(s.Path); err != nil {
							yield("", &media.FileAccessError{Op: "remove", Path: s.Path, Err: err})
							return
						}
						// Gone from disk, so it cannot match anything else.
						candidates = append(candidates[:i:i], candidates[i+1:]...)
						src[size] = candidates
					} else {
						i++
					}
					if !yield(s.Path, nil) {
						return
					}
				}
			}
		}
	}
}

func (f *Finder) duplicate(sums *checksum.Cache, s, t walk.Entry) (bool, error) {
	if s.Path == t.Path {
		return false, nil
	}
	if f.UseTimestamp {
		return media.CreationEventOf(s.Info).Equal(media.CreationEventOf(t.Info)), nil
	}
	return sameSum(sums, s.Path, t.Path)
}

// FindNewFiles yields every target file with no equal-content counterpart of
// the same size in source. The first error is yielded and ends the sequence.
//
// A source candidate whose path shares the first SelfMatchPrefix characters
// with the target path is presumed to be the same file and is not hashed.
func (f *Finder) FindNewFiles(source, target string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		f.Log.Debug().Str("folder", source).Msg("scanning source folder")
		src, err := walk.SizeInventory(source, f.IgnoreFiles)
		if err != nil {
			yield("", err)
			return
		}
		f.Log.Debug().Str("folder", target).Msg("scanning target folder")
		tgt, err := walk.SizeInventory(target, f.IgnoreFiles)
		if err != nil {
			yield("", err)
			return
		}
		sums, err := checksum.NewCache(f.CacheSize)
		if err != nil {
			yield("", err)
			return
		}

		f.Log.Debug().Msg("locating new content")
		for _, size := range tgt.Sizes() {
			candidates := src[size]
			for _, t := range tgt[size] {
				present := false
				for _, s := range candidates {
					// A prefix match settles the file as present; later candidates are not consulted.
					if f.selfMatch(s.Path, t.Path) {
						present = true
						break
					}
					same, err := sameSum(sums, s.Path, t.Path)
					if err != nil {
						yield("", err)
						return
					}
					if same {
						present = true
						break
					}
				}
				if present {
					continue
				}
				f.Log.Debug().Str("path", t.Path).Msg("new file")
				if !yield(t.Path, nil) {
					return
				}
			}
		}
	}
}

func (f *Finder) selfMatch(a, b string) bool {
	n := f.SelfMatchPrefix
	if n <= 0 {
		return false
	}
	return prefix(a, n) == prefix(b, n)
}

func prefix(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}

func sameSum(sums *checksum.Cache, a, b string) (bool, error) {
	sa, err := sums.Sum(a)
	if err != nil {
		return false, err
	}
	sb, err := sums.Sum(b)
	if err != nil {
		return false, err
	}
	return sa == sb, nil
}

// Collect drains seq into a slice, stopping at the first error.
func Collect(seq iter.Seq2[string, error]) ([]string, error) {
	var out []string
	for p, err := range seq {
		if err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, nil
}
