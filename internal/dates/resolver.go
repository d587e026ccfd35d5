// Package dates decides which timestamp a media file is filed under.
package dates

import (
	"time"

	"github.com/rs/zerolog"

	"mediaphile/internal/media"
	"mediaphile/internal/metadata"
)

// Resolver produces the authoritative date of a file: the embedded capture
// date when the metadata reader provides one, the filesystem creation event
// otherwise.
type Resolver struct {
	Reader metadata.Reader // nil means filesystem timestamps only
	Log    zerolog.Logger
}

// NewResolver returns a Resolver using reader (which may be nil).
func NewResolver(reader metadata.Reader, log zerolog.Logger) *Resolver {
	return &Resolver{
		Reader: reader,
		Log:    log.With().Str("component", "dates").Logger(),
	}
}

// Resolve returns the date for path. It only fails when the file itself
// cannot be stat'ed, in which case the error is a *media.FileAccessError.
func (r *Resolver) Resolve(path string) (time.Time, error) {
	if r.Reader != nil {
		res := r.Reader.Read(path)
		if res.OK() && !res.Metadata.Date.IsZero() {
			return res.Metadata.Date, nil
		}
		reason := res.Reason
		if reason == nil {
			reason = metadata.ErrNoDate
		}
		r.Log.Warn().Err(reason).Str("path", path).Msg("metadata date unavailable, using filesystem timestamps")
	} else {
		r.Log.Debug().Str("path", path).Msg("no metadata reader, using filesystem timestamps")
	}

	f, err := media.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return f.CreationEvent(), nil
}
