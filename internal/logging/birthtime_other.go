//go:build !linux

package logging

import (
	"os"
	"time"
)

func birthTime(_ string, info os.FileInfo) time.Time {
	return info.ModTime()
}
