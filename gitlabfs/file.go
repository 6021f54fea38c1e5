package gitlabfs

import (
	"bytes"
	"io"
	"io/fs"
)

type gitlabFile struct {
	fsys *gitlabFS
	fi   fs.FileInfo
	body *bytes.Reader
	name string
	path string

	children []fs.DirEntry
	diroff   int
}

var (
	_ fs.ReadDirFile = (*gitlabFile)(nil)
	_ io.ReaderAt    = (*gitlabFile)(nil)
	_ io.Seeker      = (*gitlabFile)(nil)
)

func (f *gitlabFile) Close() error {
	// no-op - no state is kept
	return nil
}

// fetch reads the whole file into memory on first use.
func (f *gitlabFile) fetch(op string) error {
	if f.body != nil {
		return nil
	}

	if f.fi != nil && f.fi.IsDir() {
		return &fs.PathError{Op: op, Path: f.name, Err: errIsDir}
	}

	b, err := f.fsys.readFile(op, f.name, f.path)
	if err != nil {
		return err
	}

	f.body = bytes.NewReader(b)

	return nil
}

func (f *gitlabFile) Read(p []byte) (int, error) {
	if err := f.fetch("read"); err != nil {
		return 0, err
	}

	return f.body.Read(p)
}

func (f *gitlabFile) ReadAt(p []byte, off int64) (int, error) {
	if err := f.fetch("readAt"); err != nil {
		return 0, err
	}

	return f.body.ReadAt(p, off)
}

func (f *gitlabFile) Seek(offset int64, whence int) (int64, error) {
	if err := f.fetch("seek"); err != nil {
		return 0, err
	}

	return f.body.Seek(offset, whence)
}

func (f *gitlabFile) Stat() (fs.FileInfo, error) {
	if f.fi != nil {
		return f.fi, nil
	}

	e, err := f.fsys.info(f.path)
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: f.name, Err: err}
	}

	f.fi = e.fileInfo()

	return f.fi, nil
}

// If n > 0, ReadDir returns at most n DirEntry structures.
// In this case, if ReadDir returns an empty slice, it will return
// a non-nil error explaining why.
// At the end of a directory, the error is io.EOF.
//
// If n <= 0, ReadDir returns all the DirEntry values from the directory
// in a single slice.
func (f *gitlabFile) ReadDir(n int) ([]fs.DirEntry, error) {
	if f.children == nil {
		entries, err := f.fsys.children(f.path)
		if err != nil {
			return nil, &fs.PathError{Op: "readDir", Path: f.name, Err: err}
		}

		f.children = f.fsys.dirEntries(entries)
	}

	if n > 0 && f.diroff >= len(f.children) {
		return nil, io.EOF
	}

	low := f.diroff
	high := f.diroff + n

	// clamp high at the max, and ensure it's higher than low
	if high >= len(f.children) || high <= low {
		high = len(f.children)
	}

	entries := make([]fs.DirEntry, high-low)
	copy(entries, f.children[low:high])

	f.diroff = high

	return entries, nil
}
