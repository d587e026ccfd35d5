package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"NIKON CORPORATION", "Nikon"},
		{"NIKON\x00", "Nikon"},
		{"Canon", "Canon"},
		{"  Apple ", "Apple"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMake(tt.in))
		})
	}
}

func TestResult(t *testing.T) {
	ok := Found(Metadata{Date: time.Now()})
	assert.True(t, ok.OK())

	failed := Unavailable(errors.New("boom"))
	assert.False(t, failed.OK())
	assert.EqualError(t, failed.Reason, "boom")
}

func TestReaderFunc(t *testing.T) {
	var r Reader = ReaderFunc(func(path string) Result {
		return Found(Metadata{Make: path})
	})
	assert.Equal(t, "x.jpg", r.Read("x.jpg").Metadata.Make)
}

func TestExifReader_NotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.jpg")
	require.NoError(t, os.WriteFile(path, []byte("plain text, no exif"), 0o644))

	res := NewExifReader().Read(path)
	assert.False(t, res.OK())
	assert.True(t, res.Metadata.Date.IsZero())
}

func TestExifReader_MissingFile(t *testing.T) {
	res := NewExifReader().Read(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Reason, os.ErrNotExist)
}
