package fsspec

import (
	"context"
	"io/fs"
	"mime"
	"path/filepath"
	"sync"

	"github.com/gchaperon/gitlab-fsspec/internal"
)

// WithContextFS injects a context into the filesystem fs, if the filesystem
// supports it (i.e. has a WithContext method).
func WithContextFS(ctx context.Context, fsys fs.FS) fs.FS {
	if cfsys, ok := fsys.(internal.WithContexter); ok {
		return cfsys.WithContext(ctx)
	}

	return fsys
}

// common types we want to be able to handle which can be missing by default
//
//nolint:gochecknoglobals
var (
	extraMimeTypes = map[string]string{
		".yml":  "application/yaml",
		".yaml": "application/yaml",
		".csv":  "text/csv",
		".toml": "application/toml",
		".env":  "application/x-env",
		".txt":  "text/plain",
		".md":   "text/markdown",
		".sh":   "application/x-sh",
		".py":   "text/x-python",
	}
	extraMimeInit sync.Once
)

// ContentType returns the MIME content type for the given fs.FileInfo, guessed
// by the filename's extension. See the docs for mime.TypeByExtension for
// details on how extension lookup works.
//
// The returned value may have parameters (e.g. "application/json; charset=utf-8")
// which can be parsed with mime.ParseMediaType.
func ContentType(fi fs.FileInfo) string {
	extraMimeInit.Do(func() {
		for k, v := range extraMimeTypes {
			_ = mime.AddExtensionType(k, v)
		}
	})

	ext := filepath.Ext(fi.Name())

	return mime.TypeByExtension(ext)
}
