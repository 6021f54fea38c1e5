package internal

import (
	"io/fs"
	"strings"
)

// ValidPath reports whether name is a valid fs.FS path that also contains no
// backslashes.
func ValidPath(name string) bool {
	if strings.Contains(name, "\\") {
		return false
	}

	return fs.ValidPath(name)
}

// CleanRepoPath converts a caller-supplied path into the form used by the
// repository APIs: no leading or trailing slashes, and "" for the root.
func CleanRepoPath(p string) string {
	p = strings.Trim(p, "/")
	if p == "." {
		return ""
	}

	return p
}
