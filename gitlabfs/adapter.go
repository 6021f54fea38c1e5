package gitlabfs

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	fsspec "github.com/gchaperon/gitlab-fsspec"
)

// adapter is implemented by filesystems returned from New and NewWithConfig.
type adapter interface {
	List(name string) ([]Entry, error)
	ListRecursive(name string) ([]Entry, error)
	ReadRange(name string, start, end int64) ([]byte, error)
	Info(name string) (Entry, error)
	FSID() string
}

func asAdapter(op string, fsys fs.FS) (adapter, error) {
	a, ok := fsys.(adapter)
	if !ok {
		return nil, fmt.Errorf("%s: %T is not a gitlab filesystem: %w", op, fsys, errors.ErrUnsupported)
	}

	return a, nil
}

// List returns the entries directly under the directory name in fsys, which
// must be a filesystem returned by New or NewWithConfig. The root is named ""
// (or "."). Entries are sorted by name, their names are relative to the
// repository root, and their sizes are SizeUnknown.
func List(fsys fs.FS, name string) ([]Entry, error) {
	a, err := asAdapter("list", fsys)
	if err != nil {
		return nil, err
	}

	return a.List(name)
}

// ListPaths is like List, but returns only the entry names.
func ListPaths(fsys fs.FS, name string) ([]string, error) {
	entries, err := List(fsys, name)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}

	return names, nil
}

// ListRecursive returns every entry under the directory name, at any depth,
// using a single recursive tree request.
func ListRecursive(fsys fs.FS, name string) ([]Entry, error) {
	a, err := asAdapter("listRecursive", fsys)
	if err != nil {
		return nil, err
	}

	return a.ListRecursive(name)
}

// ReadRange returns bytes [start, end) of the file name, clamped to the file
// length. Use ToEnd as end to read to the end of the file. An end of 0 yields
// an empty slice.
func ReadRange(fsys fs.FS, name string, start, end int64) ([]byte, error) {
	a, err := asAdapter("readRange", fsys)
	if err != nil {
		return nil, err
	}

	return a.ReadRange(name, start, end)
}

// Info describes the file or directory name. Files carry their size and
// metadata; directories have a size of 0.
func Info(fsys fs.FS, name string) (Entry, error) {
	a, err := asAdapter("info", fsys)
	if err != nil {
		return Entry{}, err
	}

	return a.Info(name)
}

// GlobInfo returns the entries matching pattern (see fsspec.Glob), keyed by
// name, as described by Info. Leading and trailing slashes in pattern are
// ignored. Each matching file costs one metadata request.
func GlobInfo(fsys fs.FS, pattern string, filesOnly bool) (map[string]Entry, error) {
	a, err := asAdapter("globInfo", fsys)
	if err != nil {
		return nil, err
	}

	matches, err := fsspec.Glob(fsys, strings.Trim(pattern, "/"), filesOnly)
	if err != nil {
		return nil, err
	}

	entries := make(map[string]Entry, len(matches))

	for _, m := range matches {
		e, err := a.Info(m)
		if err != nil {
			return nil, err
		}

		entries[m] = e
	}

	return entries, nil
}

// FSID returns an identifier for the repository and ref fsys reads from, in
// the form gitlab://<project-path>@<ref>.
func FSID(fsys fs.FS) (string, error) {
	a, err := asAdapter("fsid", fsys)
	if err != nil {
		return "", err
	}

	return a.FSID(), nil
}
