//go:build linux

package fileutil

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// CreationTime approximates a file's creation timestamp. Linux exposes no
// portable birth time through os.Stat, so the earlier of ctime and mtime is
// used, matching how backup tools treat restored trees.
func CreationTime(path string) (time.Time, error) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, fmt.Errorf("stat %s: %w", path, err)
	}
	ctime := time.Unix(st.Ctim.Sec, st.Ctim.Nsec)
	mtime := time.Unix(st.Mtim.Sec, st.Mtim.Nsec)
	if mtime.Before(ctime) {
		return mtime, nil
	}
	return ctime, nil
}
