package gitlabfs

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// children lists the entries directly under the directory p ("" for the
// root). The listing is requested non-recursively, but rows that aren't
// direct children of p are still dropped. Git has no empty directories, so
// an empty result means p doesn't exist.
func (f *gitlabFS) children(p string) ([]Entry, error) {
	rows, err := f.client.ListTree(f.ctx, f.project, TreeOptions{Path: p, Ref: f.ref})
	if err != nil {
		return nil, err
	}

	parent := p
	if parent == "" {
		parent = "."
	}

	entries := make([]Entry, 0, len(rows))

	for _, row := range rows {
		e, err := parseTreeNode(row)
		if err != nil {
			return nil, err
		}

		if path.Dir(e.Name) != parent {
			continue
		}

		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries under %q at %s", fs.ErrNotExist, p, f.ref)
	}

	sortEntries(entries)

	return entries, nil
}

// descendants lists every entry under the directory p, at any depth, with a
// single recursive request.
func (f *gitlabFS) descendants(p string) ([]Entry, error) {
	rows, err := f.client.ListTree(f.ctx, f.project, TreeOptions{Path: p, Ref: f.ref, Recursive: true})
	if err != nil {
		return nil, err
	}

	prefix := ""
	if p != "" {
		prefix = p + "/"
	}

	entries := make([]Entry, 0, len(rows))

	for _, row := range rows {
		e, err := parseTreeNode(row)
		if err != nil {
			return nil, err
		}

		if !strings.HasPrefix(e.Name, prefix) {
			continue
		}

		entries = append(entries, e)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no entries under %q at %s", fs.ErrNotExist, p, f.ref)
	}

	sortEntries(entries)

	return entries, nil
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
}

// dirEntries converts entries to fs.DirEntry values.
func (f *gitlabFS) dirEntries(entries []Entry) []fs.DirEntry {
	des := make([]fs.DirEntry, len(entries))
	for i, e := range entries {
		des[i] = &dirEntry{fsys: f, e: e}
	}

	return des
}

// dirEntry is an fs.DirEntry for a listed entry. Listings don't carry file
// sizes, so Info looks files up individually.
type dirEntry struct {
	fsys *gitlabFS
	e    Entry
}

var _ fs.DirEntry = (*dirEntry)(nil)

func (d *dirEntry) Name() string      { return path.Base(d.e.Name) }
func (d *dirEntry) IsDir() bool       { return d.e.IsDir() }
func (d *dirEntry) Type() fs.FileMode { return d.e.Mode.Type() }

func (d *dirEntry) Info() (fs.FileInfo, error) {
	if d.e.IsDir() {
		return d.e.fileInfo(), nil
	}

	e, err := d.fsys.info(d.e.Name)
	if err != nil {
		return nil, &fs.PathError{Op: "info", Path: d.e.Name, Err: err}
	}

	return e.fileInfo(), nil
}

func (d *dirEntry) String() string {
	return fs.FormatDirEntry(d)
}
