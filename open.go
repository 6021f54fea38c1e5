package fsspec

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// OpenFile is a file opened by URL, along with the path it was opened from.
type OpenFile struct {
	fs.File

	// Path of the file within its filesystem
	Path string
}

// Files is a set of files opened together. Close them all with Close.
type Files []*OpenFile

// Close closes every file, returning the errors from all that failed.
func (f Files) Close() error {
	errs := make([]error, 0, len(f))

	for _, file := range f {
		if err := file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %q: %w", file.Path, err))
		}
	}

	return errors.Join(errs...)
}

// Paths returns the path of each file.
func (f Files) Paths() []string {
	paths := make([]string, len(f))
	for i, file := range f {
		paths[i] = file.Path
	}

	return paths
}

// Glob returns the names of all files in fsys matching pattern. In addition to
// the syntax of path.Match, "**" matches any number of directories, and
// "{a,b}" matches either alternative. Only fs.ReadDirFS and fs.StatFS are used
// to walk fsys, so any filesystem with accurate listings will do.
//
// No matches is not an error.
func Glob(fsys fs.FS, pattern string, filesOnly bool) ([]string, error) {
	opts := []doublestar.GlobOption{}
	if filesOnly {
		opts = append(opts, doublestar.WithFilesOnly())
	}

	matches, err := doublestar.Glob(fsys, pattern, opts...)
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}

	return matches, nil
}

// HasMeta reports whether p contains any of the glob meta characters
// recognized by Glob.
func HasMeta(p string) bool {
	return strings.ContainsAny(p, `*?[{\`)
}

// OpenFiles opens every file named by u. When the URL's path contains glob
// meta characters, it is expanded with Glob and every matching file (but no
// directory) is opened, otherwise the single named file is. ctx is passed to
// the filesystem with WithContextFS.
//
// On error, files opened so far are closed.
func (m FSMux) OpenFiles(ctx context.Context, u string) (Files, error) {
	fsys, p, err := m.URLToFS(u)
	if err != nil {
		return nil, err
	}

	fsys = WithContextFS(ctx, fsys)

	paths := []string{p}

	if HasMeta(p) {
		paths, err = Glob(fsys, strings.Trim(p, "/"), true)
		if err != nil {
			return nil, err
		}
	}

	files := make(Files, 0, len(paths))

	for _, name := range paths {
		f, err := fsys.Open(openName(name))
		if err != nil {
			return nil, errors.Join(err, files.Close())
		}

		files = append(files, &OpenFile{File: f, Path: name})
	}

	return files, nil
}

// Open opens the single file named by u.
func (m FSMux) Open(ctx context.Context, u string) (*OpenFile, error) {
	fsys, p, err := m.URLToFS(u)
	if err != nil {
		return nil, err
	}

	f, err := WithContextFS(ctx, fsys).Open(openName(p))
	if err != nil {
		return nil, err
	}

	return &OpenFile{File: f, Path: p}, nil
}

// openName converts a URL path to an fs.FS name.
func openName(p string) string {
	p = strings.Trim(p, "/")
	if p == "" {
		return "."
	}

	return p
}
