//go:build !linux && !darwin

package media

import (
	"os"
	"time"
)

// No portable ctime here; mtime makes CreationEvent fall back to it.
func changeTime(info os.FileInfo) time.Time {
	return info.ModTime()
}
