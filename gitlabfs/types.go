package gitlabfs

import (
	"context"
)

// Client is the subset of the GitLab API used by this filesystem. The default
// implementation is backed by gitlab.com/gitlab-org/api/client-go; a custom
// implementation can be provided with Config.Client.
//
// Implementations must return errors wrapping fs.ErrNotExist when the
// requested project, path, or file does not exist at the given ref, and
// errors wrapping fs.ErrPermission for authorization failures. All other
// errors are propagated to callers unchanged.
type Client interface {
	// GetProject resolves a project by its full path (e.g. "group/project").
	GetProject(ctx context.Context, project string) (*Project, error)

	// ListTree lists the repository tree, following pagination until all
	// rows have been returned.
	ListTree(ctx context.Context, project string, opts TreeOptions) ([]TreeNode, error)

	// GetRawFile returns the full content of the file at path.
	GetRawFile(ctx context.Context, project, path, ref string) ([]byte, error)

	// GetFileMetadata returns metadata for the file at path.
	GetFileMetadata(ctx context.Context, project, path, ref string) (*FileMetadata, error)
}

// Project is a resolved reference to a GitLab project.
type Project struct {
	PathWithNamespace string
	DefaultBranch     string
	ID                int64
}

// TreeOptions selects a subtree of the repository at a given ref.
type TreeOptions struct {
	// Path within the repository - empty for the root
	Path      string
	Ref       string
	Recursive bool
}

// TreeNode is one row of a repository tree listing, as returned by the API.
// Rows are not validated - see parseTreeNode.
type TreeNode struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
	Path string `json:"path"`
	Mode string `json:"mode"`
}

// FileMetadata describes a single file at a given ref. Unlike TreeNode, it
// carries the file's size.
type FileMetadata struct {
	Path          string `json:"path" yaml:"path"`
	Ref           string `json:"ref,omitempty" yaml:"ref,omitempty"`
	BlobID        string `json:"blob_id" yaml:"blob_id"`
	Encoding      string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
	ContentSHA256 string `json:"content_sha256,omitempty" yaml:"content_sha256,omitempty"`
	CommitID      string `json:"commit_id,omitempty" yaml:"commit_id,omitempty"`
	LastCommitID  string `json:"last_commit_id,omitempty" yaml:"last_commit_id,omitempty"`
	Size          int64  `json:"size" yaml:"size"`
	Executable    bool   `json:"executable" yaml:"executable"`
}
