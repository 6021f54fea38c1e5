package gitlabfs

import (
	"context"
	"fmt"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"
)

// maximum page size allowed by the GitLab API
const perPage = 100

// apiClient implements Client with the GitLab REST API (v4).
type apiClient struct {
	gl *gl.Client
}

var _ Client = (*apiClient)(nil)

// newAPIClient creates a Client for the GitLab instance at baseURL. At most
// one kind of token is forwarded - see ResolveToken. Failed requests are not
// retried.
func newAPIClient(baseURL string, token Token, httpClient *http.Client) (*apiClient, error) {
	opts := []gl.ClientOptionFunc{gl.WithBaseURL(baseURL), gl.WithoutRetries()}
	if httpClient != nil {
		opts = append(opts, gl.WithHTTPClient(httpClient))
	}

	var (
		c   *gl.Client
		err error
	)

	switch token.Kind {
	case TokenOAuth:
		c, err = gl.NewOAuthClient(token.Value, opts...)
	case TokenJob:
		c, err = gl.NewJobClient(token.Value, opts...)
	default:
		// private tokens, and unauthenticated access (empty token)
		c, err = gl.NewClient(token.Value, opts...)
	}

	if err != nil {
		return nil, fmt.Errorf("gitlab client creation failed: %w", err)
	}

	return &apiClient{gl: c}, nil
}

func (c *apiClient) GetProject(ctx context.Context, project string) (*Project, error) {
	p, resp, err := c.gl.Projects.GetProject(project, nil, gl.WithContext(ctx))
	if err != nil {
		return nil, convertGitLabError(resp, err)
	}

	return &Project{
		ID:                int64(p.ID),
		PathWithNamespace: p.PathWithNamespace,
		DefaultBranch:     p.DefaultBranch,
	}, nil
}

func (c *apiClient) ListTree(ctx context.Context, project string, opts TreeOptions) ([]TreeNode, error) {
	opt := &gl.ListTreeOptions{
		ListOptions: gl.ListOptions{PerPage: perPage},
		Ref:         gl.Ptr(opts.Ref),
		Recursive:   gl.Ptr(opts.Recursive),
	}

	if opts.Path != "" {
		opt.Path = gl.Ptr(opts.Path)
	}

	rows := []TreeNode{}

	for {
		nodes, resp, err := c.gl.Repositories.ListTree(project, opt, gl.WithContext(ctx))
		if err != nil {
			return nil, convertGitLabError(resp, err)
		}

		for _, n := range nodes {
			if n == nil {
				continue
			}

			rows = append(rows, TreeNode{
				ID:   n.ID,
				Name: n.Name,
				Type: n.Type,
				Path: n.Path,
				Mode: n.Mode,
			})
		}

		if resp.NextPage == 0 {
			break
		}

		opt.Page = resp.NextPage
	}

	return rows, nil
}

func (c *apiClient) GetRawFile(ctx context.Context, project, path, ref string) ([]byte, error) {
	b, resp, err := c.gl.RepositoryFiles.GetRawFile(project, path,
		&gl.GetRawFileOptions{Ref: gl.Ptr(ref)},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, convertGitLabError(resp, err)
	}

	return b, nil
}

// GetFileMetadata uses a HEAD request, so the file content is not
// transferred.
func (c *apiClient) GetFileMetadata(ctx context.Context, project, path, ref string) (*FileMetadata, error) {
	f, resp, err := c.gl.RepositoryFiles.GetFileMetaData(project, path,
		&gl.GetFileMetaDataOptions{Ref: gl.Ptr(ref)},
		gl.WithContext(ctx),
	)
	if err != nil {
		return nil, convertGitLabError(resp, err)
	}

	filePath := f.FilePath
	if filePath == "" {
		filePath = path
	}

	return &FileMetadata{
		Path:          filePath,
		Ref:           f.Ref,
		Size:          int64(f.Size),
		BlobID:        f.BlobID,
		Encoding:      f.Encoding,
		ContentSHA256: f.SHA256,
		CommitID:      f.CommitID,
		LastCommitID:  f.LastCommitID,
		Executable:    f.ExecuteFilemode,
	}, nil
}
