package metadata

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tagMake              = 0x010F
	tagModel             = 0x0110
	tagDateTime          = 0x0132
	tagDateTimeOriginal  = 0x9003
	tagDateTimeDigitized = 0x9004
	tagMakerNote         = 0x927C

	typeASCII     = 2
	typeUndefined = 7
)

type ifdEntry struct {
	id  uint16
	typ uint16
	val []byte
}

func ascii(id uint16, s string) ifdEntry {
	return ifdEntry{id: id, typ: typeASCII, val: append([]byte(s), 0)}
}

// tiffFixture encodes entries as a little-endian TIFF with a single IFD.
func tiffFixture(entries ...ifdEntry) []byte {
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })
	le := binary.LittleEndian

	buf := []byte{'I', 'I'}
	buf = le.AppendUint16(buf, 42)
	buf = le.AppendUint32(buf, 8)

	dataOff := 8 + 2 + 12*len(entries) + 4
	var data []byte
	buf = le.AppendUint16(buf, uint16(len(entries)))
	for _, e := range entries {
		buf = le.AppendUint16(buf, e.id)
		buf = le.AppendUint16(buf, e.typ)
		buf = le.AppendUint32(buf, uint32(len(e.val)))
		if len(e.val) <= 4 {
			v := make([]byte, 4)
			copy(v, e.val)
			buf = append(buf, v...)
			continue
		}
		buf = le.AppendUint32(buf, uint32(dataOff+len(data)))
		data = append(data, e.val...)
		if len(data)%2 == 1 {
			data = append(data, 0)
		}
	}
	buf = le.AppendUint32(buf, 0)
	return append(buf, data...)
}

func writeFixture(t *testing.T, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "DSC_1807.NEF")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestExifReader_Fields(t *testing.T) {
	captured := time.Date(2006, 4, 17, 13, 43, 47, 0, time.Local)

	tests := []struct {
		name    string
		entries []ifdEntry
		want    time.Time
	}{
		{
			name: "original beats datetime",
			entries: []ifdEntry{
				ascii(tagDateTimeOriginal, "2006:04:17 13:43:47"),
				ascii(tagDateTime, "2007:01:01 00:00:00"),
			},
			want: captured,
		},
		{
			name: "digitized beats original",
			entries: []ifdEntry{
				ascii(tagDateTimeDigitized, "2006:04:17 13:43:47"),
				ascii(tagDateTimeOriginal, "2001:09:09 01:46:40"),
			},
			want: captured,
		},
		{
			name:    "datetime only",
			entries: []ifdEntry{ascii(tagDateTime, "2006:04:17 13:43:47")},
			want:    captured,
		},
		{
			name: "unparseable digitized falls through",
			entries: []ifdEntry{
				ascii(tagDateTimeDigitized, "0000:00:00 00:00:00"),
				ascii(tagDateTimeOriginal, "2006:04:17 13:43:47"),
			},
			want: captured,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := append([]ifdEntry{
				ascii(tagMake, "NIKON CORPORATION"),
				ascii(tagModel, "NIKON D70"),
			}, tt.entries...)

			res := NewExifReader().Read(writeFixture(t, tiffFixture(entries...)))
			require.True(t, res.OK(), "reason: %v", res.Reason)
			assert.True(t, tt.want.Equal(res.Metadata.Date), "got %v", res.Metadata.Date)
			assert.Equal(t, "Nikon", res.Metadata.Make)
			assert.Equal(t, "NIKON D70", res.Metadata.Model)
		})
	}
}

func TestExifReader_PaddedValues(t *testing.T) {
	path := writeFixture(t, tiffFixture(
		ifdEntry{id: tagMake, typ: typeASCII, val: []byte("NIKON\x00\x00\x00")},
		ascii(tagModel, "D70   "),
		ascii(tagDateTimeOriginal, "2006:04:17 13:43:47"),
	))

	res := NewExifReader().Read(path)
	require.True(t, res.OK())
	assert.Equal(t, "Nikon", res.Metadata.Make)
	assert.Equal(t, "D70", res.Metadata.Model)
}

func TestExifReader_NoDate(t *testing.T) {
	path := writeFixture(t, tiffFixture(ascii(tagMake, "Canon"), ascii(tagModel, "EOS 5D")))

	res := NewExifReader().Read(path)
	assert.False(t, res.OK())
	assert.ErrorIs(t, res.Reason, ErrNoDate)
	assert.Equal(t, "Canon", res.Metadata.Make)
	assert.Equal(t, "EOS 5D", res.Metadata.Model)
}

func TestExifReader_TruncatedMakerNote(t *testing.T) {
	// A Nikon makernote header cut short of its embedded TIFF.
	path := writeFixture(t, tiffFixture(
		ascii(tagMake, "NIKON CORPORATION"),
		ascii(tagDateTimeOriginal, "2006:04:17 13:43:47"),
		ifdEntry{id: tagMakerNote, typ: typeUndefined, val: []byte("Nikon\x00\x02\x10\x00")},
	))

	var res Result
	require.NotPanics(t, func() { res = NewExifReader().Read(path) })
	require.True(t, res.OK())
	assert.Equal(t, 2006, res.Metadata.Date.Year())
}

func TestExifReader_DecoderPanic(t *testing.T) {
	orig := decodeExif
	t.Cleanup(func() { decodeExif = orig })
	decodeExif = func(io.Reader) (*exif.Exif, error) {
		panic("slice bounds out of range [10:9]")
	}

	path := writeFixture(t, tiffFixture(ascii(tagDateTime, "2006:04:17 13:43:47")))

	var res Result
	require.NotPanics(t, func() { res = NewExifReader().Read(path) })
	assert.False(t, res.OK())
	assert.ErrorContains(t, res.Reason, "slice bounds")
}
