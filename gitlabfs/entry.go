package gitlabfs

import (
	"fmt"
	"io/fs"
	"path"
	"time"

	"github.com/gchaperon/gitlab-fsspec/internal"
	"github.com/go-git/go-git/v5/plumbing/filemode"
)

// SizeUnknown is the Size of entries produced by a tree listing, which never
// carries file sizes.
const SizeUnknown int64 = -1

// EntryType is the type of a filesystem entry: TypeFile or TypeDirectory.
type EntryType int

const (
	// TypeFile - a blob
	TypeFile EntryType = iota + 1
	// TypeDirectory - a tree
	TypeDirectory
)

func (t EntryType) String() string {
	switch t {
	case TypeFile:
		return "file"
	case TypeDirectory:
		return "directory"
	default:
		return fmt.Sprintf("EntryType(%d)", int(t))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t EntryType) MarshalText() ([]byte, error) {
	switch t {
	case TypeFile, TypeDirectory:
		return []byte(t.String()), nil
	default:
		return nil, fmt.Errorf("invalid entry type %d", int(t))
	}
}

// Entry is a normalized filesystem entry, built either from a tree listing
// row or from a file metadata lookup.
type Entry struct {
	// Metadata is set only for entries built from a file lookup.
	Metadata *FileMetadata

	// Name is the path of the entry, relative to the repository root.
	Name string

	// ID is the blob or tree object ID.
	ID string

	// Size in bytes, or SizeUnknown.
	Size int64

	Type EntryType

	// Mode is 0644, 0755 for executable files, or fs.ModeDir|0755.
	Mode fs.FileMode
}

// IsDir reports whether e is a directory.
func (e Entry) IsDir() bool {
	return e.Type == TypeDirectory
}

// fileInfo converts e to an fs.FileInfo named with the base name of the
// entry. An unknown size is reported as 0.
func (e Entry) fileInfo() fs.FileInfo {
	size := e.Size
	if size < 0 {
		size = 0
	}

	return internal.FileInfo(path.Base(e.Name), size, e.Mode, time.Time{}, e)
}

// parseTreeNode validates a tree row and converts it to an Entry. Rows that
// aren't well-formed blobs or trees are rejected.
func parseTreeNode(n TreeNode) (Entry, error) {
	var typ EntryType

	switch n.Type {
	case "blob":
		typ = TypeFile
	case "tree":
		typ = TypeDirectory
	default:
		return Entry{}, fmt.Errorf("%w: %q has type %q, want blob or tree", ErrInvalidTreeNode, n.Path, n.Type)
	}

	switch {
	case n.Path == "":
		return Entry{}, fmt.Errorf("%w: missing path", ErrInvalidTreeNode)
	case n.ID == "":
		return Entry{}, fmt.Errorf("%w: %q has no id", ErrInvalidTreeNode, n.Path)
	case n.Mode == "":
		return Entry{}, fmt.Errorf("%w: %q has no mode", ErrInvalidTreeNode, n.Path)
	}

	mode, err := parseMode(n.Mode)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: %q: %w", ErrInvalidTreeNode, n.Path, err)
	}

	if mode.IsDir() != (typ == TypeDirectory) {
		return Entry{}, fmt.Errorf("%w: %q: mode %s doesn't match type %q", ErrInvalidTreeNode, n.Path, n.Mode, n.Type)
	}

	return Entry{
		Name: n.Path,
		ID:   n.ID,
		Size: SizeUnknown,
		Type: typ,
		Mode: mode,
	}, nil
}

// Modes reported for entries. A file lookup can only tell executable files
// from others, so listings report the same three modes.
const (
	dirMode  fs.FileMode = fs.ModeDir | 0o755
	fileMode fs.FileMode = 0o644
	execMode fs.FileMode = 0o755
)

// parseMode validates a git file mode and maps it to one of the entry modes.
// Symlinks are served as regular files holding the link target, as the
// files API does.
func parseMode(s string) (fs.FileMode, error) {
	m, err := filemode.New(s)
	if err != nil {
		return 0, fmt.Errorf("parse mode %q: %w", s, err)
	}

	switch m {
	case filemode.Dir:
		return dirMode, nil
	case filemode.Executable:
		return execMode, nil
	case filemode.Regular, filemode.Deprecated, filemode.Symlink:
		return fileMode, nil
	default:
		return 0, fmt.Errorf("unsupported mode %s", m)
	}
}

// metadataEntry converts a file metadata lookup result to an Entry.
func metadataEntry(md *FileMetadata) Entry {
	mode := fileMode
	if md.Executable {
		mode = execMode
	}

	return Entry{
		Name:     md.Path,
		ID:       md.BlobID,
		Size:     md.Size,
		Type:     TypeFile,
		Mode:     mode,
		Metadata: md,
	}
}

// syntheticDir returns the entry for a directory known only from a listing
// at its path.
func syntheticDir(name string) Entry {
	return Entry{Name: name, Type: TypeDirectory, Mode: dirMode}
}
