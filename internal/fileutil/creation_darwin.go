//go:build darwin

package fileutil

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// CreationTime returns the file's birth timestamp.
func CreationTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return time.Unix(st.Birthtimespec.Sec, st.Birthtimespec.Nsec), nil
}
