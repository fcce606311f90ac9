// Package filex contains small filesystem helpers shared by the upload and
// download paths.
package filex

import (
	"fmt"
	"os"
)

// FileSize returns the size in bytes of the file at path.
func FileSize(path string) (int64, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	if fi.IsDir() {
		return 0, fmt.Errorf("stat %s: is a directory", path)
	}
	return fi.Size(), nil
}

// RemoveQuietly deletes the file at path, ignoring a missing file. It is used
// for temp-file cleanup where the file must be gone on every exit path and a
// second removal attempt is not an error.
func RemoveQuietly(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}
