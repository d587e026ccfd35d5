package metadata

import (
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// exifDateLayout is the fixed EXIF date format: "2006:04:17 13:43:47".
const exifDateLayout = "2006:01:02 15:04:05"

// dateFields are consulted in order; the first parseable one wins.
var dateFields = []exif.FieldName{
	exif.DateTimeDigitized,
	exif.DateTimeOriginal,
	exif.DateTime,
}

// decodeExif is swapped out by tests.
var decodeExif = exif.Decode

// ExifReader reads EXIF data with goexif. Dates are interpreted in Location
// (time.Local when nil) because EXIF stores wall-clock time without a zone.
type ExifReader struct {
	Location *time.Location
}

// NewExifReader returns a reader interpreting dates in local time.
func NewExifReader() *ExifReader {
	return &ExifReader{Location: time.Local}
}

// Read decodes path. Open and decode failures become an Unavailable result.
// goexif can panic on truncated tag data; that is reported as Unavailable too.
func (r *ExifReader) Read(path string) (res Result) {
	f, err := os.Open(path)
	if err != nil {
		return Unavailable(err)
	}
	defer f.Close()
	defer func() {
		if v := recover(); v != nil {
			res = Unavailable(fmt.Errorf("decode exif: %v", v))
		}
	}()

	x, err := decodeExif(f)
	if err != nil {
		return Unavailable(fmt.Errorf("decode exif: %w", err))
	}

	m := Metadata{
		Make:  NormalizeMake(stringTag(x, exif.Make)),
		Model: clean(stringTag(x, exif.Model)),
	}
	date, ok := r.captureDate(x)
	if !ok {
		// Make/model are still useful for listings.
		return Result{Metadata: m, Reason: ErrNoDate}
	}
	m.Date = date
	return Found(m)
}

func (r *ExifReader) captureDate(x *exif.Exif) (time.Time, bool) {
	loc := r.Location
	if loc == nil {
		loc = time.Local
	}
	for _, name := range dateFields {
		raw := stringTag(x, name)
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation(exifDateLayout, clean(raw), loc)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func stringTag(x *exif.Exif, name exif.FieldName) string {
	tag, err := x.Get(name)
	if err != nil || tag.Format() != tiff.StringVal {
		return ""
	}
	s, err := tag.StringVal()
	if err != nil {
		return ""
	}
	return s
}
