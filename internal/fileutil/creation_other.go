//go:build !linux && !darwin

package fileutil

import (
	"os"
	"time"
)

// CreationTime falls back to the modification timestamp on platforms without
// a reliable creation time.
func CreationTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}
