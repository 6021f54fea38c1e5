package gitlabfs

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	gl "gitlab.com/gitlab-org/api/client-go"
)

var (
	// ErrMissingProjectPath is returned when a filesystem is constructed
	// without a project path.
	ErrMissingProjectPath = errors.New("gitlabfs: project path must not be empty")

	// ErrProjectNotFound is returned (along with fs.ErrNotExist) when the
	// project path does not resolve to a project visible to the caller.
	ErrProjectNotFound = errors.New("gitlabfs: project not found")

	// ErrInvalidTreeNode is returned when a tree listing contains a row that
	// is not a well-formed blob or tree.
	ErrInvalidTreeNode = errors.New("gitlabfs: invalid tree node")
)

// convertGitLabError converts an error from the GitLab client into an error
// that can be matched with errors.Is against the io/fs sentinel errors. The
// original error stays in the chain.
func convertGitLabError(resp *gl.Response, err error) error {
	if err == nil {
		return nil
	}

	switch statusCode(resp, err) {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %w", fs.ErrNotExist, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %w", fs.ErrPermission, err)
	default:
		return err
	}
}

func statusCode(resp *gl.Response, err error) int {
	if resp != nil && resp.Response != nil {
		return resp.StatusCode
	}

	var errResp *gl.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return errResp.Response.StatusCode
	}

	return 0
}
