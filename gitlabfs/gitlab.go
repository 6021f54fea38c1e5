package gitlabfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	fsspec "github.com/gchaperon/gitlab-fsspec"
	"github.com/gchaperon/gitlab-fsspec/internal"
)

// ToEnd can be given as the end offset to ReadRange to read to the end of the
// file.
const ToEnd int64 = -1

var errIsDir = errors.New("is a directory")

type gitlabFS struct {
	ctx     context.Context
	client  Client
	project string
	ref     string
}

// New provides a read-only filesystem (an fs.FS) backed by a GitLab
// repository, identified by a URL of the form:
//
//	gitlab://<project-path>[@<ref>][:<file-path>]
//
// The filesystem is always rooted at the repository root. Use PathFromURL (or
// fsspec.URLToFS) to get the file path named by the URL.
//
// Credentials and the GitLab instance URL are read from the environment (see
// the package documentation). Use NewWithConfig for full control.
//
// The project is resolved before New returns, so an unknown project is
// reported here, as an error wrapping fs.ErrNotExist.
func New(u *url.URL) (fs.FS, error) {
	if u.Scheme != Scheme {
		return nil, fmt.Errorf("invalid URL scheme %q", u.Scheme)
	}

	raw := rawURL(u)

	cfg := ConfigFromURL(raw)
	if cfg.ProjectPath == "" {
		return nil, fmt.Errorf("invalid gitlab URL %q: %w", raw, ErrMissingProjectPath)
	}

	return NewWithConfig(context.Background(), cfg)
}

// NewWithConfig provides a filesystem backed by the GitLab repository
// described by cfg. The project is resolved and, when cfg.Ref is empty, its
// default branch is bound for the lifetime of the filesystem.
//
// ctx is used to resolve the project and for all subsequent remote calls,
// until replaced with fsspec.WithContextFS.
func NewWithConfig(ctx context.Context, cfg Config) (fs.FS, error) {
	return newFS(ctx, cfg, os.DirFS("/"))
}

func newFS(ctx context.Context, cfg Config, envfsys fs.FS) (*gitlabFS, error) {
	if cfg.ProjectPath == "" {
		return nil, ErrMissingProjectPath
	}

	client, err := cfg.newClient(envfsys)
	if err != nil {
		return nil, err
	}

	client = instrument(client, cfg.TracerProvider, cfg.Logger)

	project, err := client.GetProject(ctx, cfg.ProjectPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q: %w", ErrProjectNotFound, cfg.ProjectPath, err)
		}

		return nil, fmt.Errorf("resolve project %q: %w", cfg.ProjectPath, err)
	}

	ref := cfg.Ref
	if ref == "" {
		ref = project.DefaultBranch
	}

	if ref == "" {
		return nil, fmt.Errorf("project %q has no default branch, a ref must be given", cfg.ProjectPath)
	}

	return &gitlabFS{
		ctx:     ctx,
		client:  client,
		project: cfg.ProjectPath,
		ref:     ref,
	}, nil
}

// PathFromURL returns the file path named by a gitlab:// URL, relative to the
// repository root. See StripScheme.
func PathFromURL(u *url.URL) string {
	return StripScheme(rawURL(u))
}

// rawURL reconstructs the URL string as written. net/url splits
// "gitlab://group/project@ref:path" into host, userinfo, and path in ways
// that don't follow the gitlab:// grammar, so the pieces are put back
// together before matching. Strings net/url can't parse at all arrive as
// opaque URLs.
func rawURL(u *url.URL) string {
	if u.Opaque != "" {
		return u.Scheme + ":" + u.Opaque
	}

	sb := strings.Builder{}
	sb.WriteString(u.Scheme + "://")

	if u.User != nil {
		sb.WriteString(u.User.String() + "@")
	}

	sb.WriteString(u.Host)

	// the decoded path and fragment would lose escapes like %2F that are
	// part of the file path
	if u.RawPath != "" {
		sb.WriteString(u.RawPath)
	} else {
		sb.WriteString(u.EscapedPath())
	}

	if u.ForceQuery || u.RawQuery != "" {
		sb.WriteString("?" + u.RawQuery)
	}

	switch {
	case u.RawFragment != "":
		sb.WriteString("#" + u.RawFragment)
	case u.Fragment != "":
		sb.WriteString("#" + u.EscapedFragment())
	}

	return sb.String()
}

// FS is used to register this filesystem with an fsspec.FSMux
//
//nolint:gochecknoglobals
var FS = fsspec.FSProviderWithPath(New, PathFromURL, Scheme)

var (
	_ fs.FS                  = (*gitlabFS)(nil)
	_ fs.ReadFileFS          = (*gitlabFS)(nil)
	_ fs.ReadDirFS           = (*gitlabFS)(nil)
	_ fs.StatFS              = (*gitlabFS)(nil)
	_ internal.WithContexter = (*gitlabFS)(nil)
	_ adapter                = (*gitlabFS)(nil)
)

// URL returns the gitlab:// URL of the repository root, with the bound ref.
func (f *gitlabFS) URL() string {
	return Location{ProjectPath: f.project, Ref: f.ref}.String()
}

// FSID identifies the project and ref this filesystem reads from.
func (f *gitlabFS) FSID() string {
	return f.URL()
}

// Ref returns the bound ref.
func (f *gitlabFS) Ref() string {
	return f.ref
}

func (f *gitlabFS) WithContext(ctx context.Context) fs.FS {
	if ctx == nil {
		return f
	}

	fsys := *f
	fsys.ctx = ctx

	return &fsys
}

func (f *gitlabFS) Open(name string) (fs.File, error) {
	if !internal.ValidPath(name) {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrInvalid}
	}

	file := &gitlabFile{
		fsys: f,
		name: name,
		path: internal.CleanRepoPath(name),
	}

	if file.path == "" {
		file.fi = internal.DirInfo(".", time.Time{})
	}

	return file, nil
}

// ReadFile implements fs.ReadFileFS. The file is fetched with a single
// request.
func (f *gitlabFS) ReadFile(name string) ([]byte, error) {
	if !internal.ValidPath(name) {
		return nil, &fs.PathError{Op: "readFile", Path: name, Err: fs.ErrInvalid}
	}

	return f.readFile("readFile", name, internal.CleanRepoPath(name))
}

func (f *gitlabFS) readFile(op, name, repoPath string) ([]byte, error) {
	if repoPath == "" {
		return nil, &fs.PathError{Op: op, Path: name, Err: errIsDir}
	}

	b, err := f.client.GetRawFile(f.ctx, f.project, repoPath, f.ref)
	if err != nil {
		return nil, &fs.PathError{Op: op, Path: name, Err: err}
	}

	return b, nil
}

// ReadDir implements fs.ReadDirFS. Entries are sorted by name. Calling Info on
// a file entry performs a metadata lookup, so that the size is accurate.
func (f *gitlabFS) ReadDir(name string) ([]fs.DirEntry, error) {
	if !internal.ValidPath(name) {
		return nil, &fs.PathError{Op: "readDir", Path: name, Err: fs.ErrInvalid}
	}

	entries, err := f.children(internal.CleanRepoPath(name))
	if err != nil {
		return nil, &fs.PathError{Op: "readDir", Path: name, Err: err}
	}

	return f.dirEntries(entries), nil
}

// Stat implements fs.StatFS. Files are looked up first, then directories.
func (f *gitlabFS) Stat(name string) (fs.FileInfo, error) {
	if !internal.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}

	e, err := f.info(internal.CleanRepoPath(name))
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}

	return e.fileInfo(), nil
}

// List returns the entries directly under name ("" for the repository root).
func (f *gitlabFS) List(name string) ([]Entry, error) {
	p, ok := repoPath(name)
	if !ok {
		return nil, &fs.PathError{Op: "list", Path: name, Err: fs.ErrInvalid}
	}

	entries, err := f.children(p)
	if err != nil {
		return nil, &fs.PathError{Op: "list", Path: name, Err: err}
	}

	return entries, nil
}

// ListRecursive returns every entry under name, at any depth.
func (f *gitlabFS) ListRecursive(name string) ([]Entry, error) {
	p, ok := repoPath(name)
	if !ok {
		return nil, &fs.PathError{Op: "listRecursive", Path: name, Err: fs.ErrInvalid}
	}

	entries, err := f.descendants(p)
	if err != nil {
		return nil, &fs.PathError{Op: "listRecursive", Path: name, Err: err}
	}

	return entries, nil
}

// ReadRange returns bytes [start, end) of the file, clamped to its length.
// An end of ToEnd (or any negative value) reads to the end of the file.
func (f *gitlabFS) ReadRange(name string, start, end int64) ([]byte, error) {
	p, ok := repoPath(name)
	if !ok || start < 0 {
		return nil, &fs.PathError{Op: "readRange", Path: name, Err: fs.ErrInvalid}
	}

	b, err := f.readFile("readRange", name, p)
	if err != nil {
		return nil, err
	}

	size := int64(len(b))
	if end < 0 || end > size {
		end = size
	}

	if start >= end {
		return []byte{}, nil
	}

	return b[start:end], nil
}

// Info describes the file or directory at name.
func (f *gitlabFS) Info(name string) (Entry, error) {
	p, ok := repoPath(name)
	if !ok {
		return Entry{}, &fs.PathError{Op: "info", Path: name, Err: fs.ErrInvalid}
	}

	e, err := f.info(p)
	if err != nil {
		return Entry{}, &fs.PathError{Op: "info", Path: name, Err: err}
	}

	return e, nil
}

// info looks p up as a file, and falls back to a listing at p when there's no
// such file. The root is always a directory.
func (f *gitlabFS) info(p string) (Entry, error) {
	if p == "" {
		return syntheticDir(""), nil
	}

	md, err := f.client.GetFileMetadata(f.ctx, f.project, p, f.ref)
	if err == nil {
		return metadataEntry(md), nil
	}

	if !errors.Is(err, fs.ErrNotExist) {
		return Entry{}, err
	}

	if _, err := f.children(p); err != nil {
		return Entry{}, err
	}

	return syntheticDir(p), nil
}

// repoPath converts a name given to one of the Entry-returning operations to
// a repository path. These accept "" for the root, and leading or trailing
// slashes, as URL-derived paths often have them.
func repoPath(name string) (string, bool) {
	p := internal.CleanRepoPath(name)
	if p == "" {
		return "", true
	}

	return p, internal.ValidPath(p)
}
