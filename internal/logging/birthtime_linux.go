//go:build linux

package logging

import (
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// birthTime returns the creation time of path, falling back to the
// modification time on filesystems that do not record one.
func birthTime(path string, info os.FileInfo) time.Time {
	var stx unix.Statx_t
	err := unix.Statx(unix.AT_FDCWD, path, 0, unix.STATX_BTIME, &stx)
	if err != nil || stx.Mask&unix.STATX_BTIME == 0 {
		return info.ModTime()
	}
	return time.Unix(stx.Btime.Sec, int64(stx.Btime.Nsec))
}
