// Package filefs wraps os.DirFS to provide a local filesystem for file:// URLs
// and plain paths.
package filefs

import (
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	fsspec "github.com/gchaperon/gitlab-fsspec"
)

// Scheme is the URL scheme served by this filesystem. fsspec.ParseURL gives
// plain paths this scheme.
const Scheme = "file"

type fileFS struct {
	root fs.FS
}

// New returns a filesystem (an fs.FS) for the local files named by u. The
// filesystem is rooted at "/" (or the volume) for absolute paths, and at the
// working directory for relative paths. Use PathFromURL for the name of u's
// file within it.
//
// This is effectively a wrapper for os.DirFS.
func New(u *url.URL) (fs.FS, error) {
	root, _ := splitRoot(pathForDirFS(u))

	return &fileFS{root: os.DirFS(root)}, nil
}

// PathFromURL returns the name of the file u names, relative to the root of
// the filesystem returned by New ("" for the root itself).
func PathFromURL(u *url.URL) string {
	_, name := splitRoot(pathForDirFS(u))

	return name
}

// return the correct filesystem path for the given URL. Supports Windows paths
// and UNCs as well
func pathForDirFS(u *url.URL) string {
	if u.Path == "" {
		return ""
	}

	rootPath := u.Path
	if len(rootPath) >= 3 {
		if rootPath[0] == '/' && rootPath[2] == ':' {
			rootPath = rootPath[1:]
		}
	}

	// a file:// URL with a host part should be interpreted as a UNC
	switch u.Host {
	case ".":
		rootPath = "//./" + rootPath
	case "":
		// nothin'
	default:
		rootPath = "//" + u.Host + rootPath
	}

	return rootPath
}

// splitRoot splits a local path into the directory passed to os.DirFS and a
// slash-separated name within it. Relative paths that leave the working
// directory are made absolute first.
func splitRoot(p string) (root, name string) {
	vol := filepath.VolumeName(p)
	rest := filepath.ToSlash(p[len(vol):])

	switch {
	case strings.HasPrefix(rest, "/"):
		root = vol + "/"
	case vol != "":
		root = vol
	default:
		root = "."
	}

	name = path.Clean(strings.TrimPrefix(rest, "/"))

	if root == "." && (name == ".." || strings.HasPrefix(name, "../")) {
		if abs, err := filepath.Abs(p); err == nil {
			return splitRoot(abs)
		}
	}

	if name == "." {
		name = ""
	}

	return root, name
}

// FS is used to register this filesystem with an fsspec.FSMux
//
//nolint:gochecknoglobals
var FS = fsspec.FSProviderWithPath(New, PathFromURL, Scheme)

var (
	_ fs.FS         = (*fileFS)(nil)
	_ fs.ReadDirFS  = (*fileFS)(nil)
	_ fs.ReadFileFS = (*fileFS)(nil)
	_ fs.StatFS     = (*fileFS)(nil)
	_ fs.GlobFS     = (*fileFS)(nil)
	_ fs.SubFS      = (*fileFS)(nil)
)

func (f *fileFS) Open(name string) (fs.File, error) {
	return f.root.Open(name)
}

func (f *fileFS) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(f.root, name)
}

func (f *fileFS) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(f.root, name)
}

func (f *fileFS) Stat(name string) (fs.FileInfo, error) {
	return fs.Stat(f.root, name)
}

func (f *fileFS) Glob(name string) ([]string, error) {
	return fs.Glob(f.root, name)
}

func (f *fileFS) Sub(name string) (fs.FS, error) {
	return fs.Sub(f.root, name)
}
