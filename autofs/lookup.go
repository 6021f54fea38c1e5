// Package autofs provides the ability to look up all filesystems supported by
// this module, along with the URL-based helpers of fsspec.FSMux bound to that
// set of filesystems.
package autofs

import (
	"context"
	"io/fs"
	"net/url"
	"sync"

	fsspec "github.com/gchaperon/gitlab-fsspec"
	"github.com/gchaperon/gitlab-fsspec/filefs"
	"github.com/gchaperon/gitlab-fsspec/gitlabfs"
)

// Lookup returns an appropriate filesystem for the given URL. Strings without
// a scheme are treated as local paths. If a filesystem can't be found for the provided URL's scheme, an error will
// be returned.
func Lookup(u string) (fs.FS, error) {
	return initMux().Lookup(u)
}

// URLToFS returns an appropriate filesystem for the given URL, along with the
// path within it that the URL names.
func URLToFS(u string) (fs.FS, string, error) {
	return initMux().URLToFS(u)
}

// OpenFiles opens every file named by u, expanding glob patterns. See
// fsspec.FSMux.OpenFiles.
func OpenFiles(ctx context.Context, u string) (fsspec.Files, error) {
	return initMux().OpenFiles(ctx, u)
}

// Open opens the single file named by u.
func Open(ctx context.Context, u string) (*fsspec.OpenFile, error) {
	return initMux().Open(ctx, u)
}

// FS is used to register this filesystem with an fsspec.FSMux
//
//nolint:gochecknoglobals
var FS = &autoFS{}

type autoFS struct{}

var (
	_ fsspec.FSProvider    = (*autoFS)(nil)
	_ fsspec.PathFromURLer = (*autoFS)(nil)
)

func (c *autoFS) Schemes() []string {
	return initMux().Schemes()
}

func (c *autoFS) New(u *url.URL) (fs.FS, error) {
	return initMux().New(u)
}

func (c *autoFS) PathFromURL(u *url.URL) string {
	return initMux().PathFromURL(u)
}

//nolint:gochecknoglobals
var initMux = sync.OnceValue(func() fsspec.FSMux {
	mux := fsspec.NewMux()
	mux.Add(filefs.FS)
	mux.Add(gitlabfs.FS)

	return mux
})
