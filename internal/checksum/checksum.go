// Package checksum computes full-content SHA-512 digests of files.
package checksum

import (
	"crypto/sha512"
	"encoding/hex"
	"io"
	"os"

	lru "github.com/hashicorp/golang-lru"

	"mediaphile/internal/media"
)

const chunkSize = 4096

// File returns the hex SHA-512 digest of the file at path. The file handle is
// closed before File returns.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", &media.FileAccessError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	h := sha512.New()
	if _, err := io.CopyBuffer(h, f, make([]byte, chunkSize)); err != nil {
		return "", &media.FileAccessError{Op: "read", Path: path, Err: err}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Equal reports whether a and b have the same content digest.
func Equal(a, b string) (bool, error) {
	da, err := File(a)
	if err != nil {
		return false, err
	}
	db, err := File(b)
	if err != nil {
		return false, err
	}
	return da == db, nil
}

// Cache memoizes digests by path for the duration of one comparison. It is
// bounded so huge trees cannot exhaust memory; an evicted path is simply
// hashed again.
type Cache struct {
	entries *lru.Cache
	hashes  int
}

// DefaultCacheSize is used when NewCache gets a non-positive size.
const DefaultCacheSize = 65536

// NewCache returns a cache holding at most size digests.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

// Sum returns the digest of path, computing it on first use.
func (c *Cache) Sum(path string) (string, error) {
	if v, ok := c.entries.Get(path); ok {
		return v.(string), nil
	}
	sum, err := File(path)
	if err != nil {
		return "", err
	}
	c.hashes++
	c.entries.Add(path, sum)
	return sum, nil
}

// Hashes returns how many files were actually read.
func (c *Cache) Hashes() int { return c.hashes }
