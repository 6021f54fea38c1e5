package gitlabfs

import (
	"context"
	"crypto/sha1" //nolint:gosec
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"
	"testing"
)

// fakeClient is an in-memory GitLab with a single project.
type fakeClient struct {
	t *testing.T

	// refs maps each ref to the files at that ref
	refs          map[string]map[string]*testFile
	project       string
	defaultBranch string

	projectErr error
	listErr    error
	rawErr     error
	metaErr    error

	// extraRows are appended to every tree listing
	extraRows []TreeNode
	// alwaysRecursive ignores the Recursive option, like some GitLab
	// versions do for paths with many descendants
	alwaysRecursive bool

	mu    sync.Mutex
	calls map[string]int
}

var _ Client = (*fakeClient)(nil)

type testFile struct {
	content    string
	executable bool
}

func tf(s string) *testFile {
	return &testFile{content: s}
}

func tx(s string) *testFile {
	return &testFile{content: s, executable: true}
}

func (c *fakeClient) record(op string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.calls == nil {
		c.calls = map[string]int{}
	}

	c.calls[op]++
}

func (c *fakeClient) count(op string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.calls[op]
}

func (c *fakeClient) totalCalls() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, v := range c.calls {
		n += v
	}

	return n
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: 404 %s", fs.ErrNotExist, fmt.Sprintf(format, args...))
}

func (c *fakeClient) GetProject(_ context.Context, project string) (*Project, error) {
	c.t.Helper()
	c.record("GetProject")

	if c.projectErr != nil {
		return nil, c.projectErr
	}

	if project != c.project {
		return nil, notFound("Project Not Found")
	}

	return &Project{ID: 42, PathWithNamespace: c.project, DefaultBranch: c.defaultBranch}, nil
}

func (c *fakeClient) files(ref string) (map[string]*testFile, error) {
	files, ok := c.refs[ref]
	if !ok {
		return nil, notFound("ref %q", ref)
	}

	return files, nil
}

func (c *fakeClient) ListTree(_ context.Context, project string, opts TreeOptions) ([]TreeNode, error) {
	c.t.Helper()
	c.record("ListTree")

	if c.listErr != nil {
		return nil, c.listErr
	}

	if project != c.project {
		return nil, notFound("Project Not Found")
	}

	files, err := c.files(opts.Ref)
	if err != nil {
		return nil, err
	}

	if opts.Path != "" {
		if _, isFile := files[opts.Path]; isFile {
			return []TreeNode{}, nil
		}
	}

	prefix := ""
	if opts.Path != "" {
		prefix = opts.Path + "/"
	}

	recursive := opts.Recursive || c.alwaysRecursive
	rows := map[string]TreeNode{}

	for name, f := range files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}

		// every directory between the listed path and the file
		for dir := path.Dir(name); dir != "." && strings.HasPrefix(dir+"/", prefix) && dir+"/" != prefix; dir = path.Dir(dir) {
			rows[dir] = TreeNode{ID: objectID("tree", dir), Name: path.Base(dir), Type: "tree", Path: dir, Mode: "040000"}
		}

		mode := "100644"
		if f.executable {
			mode = "100755"
		}

		rows[name] = TreeNode{ID: objectID("blob", f.content), Name: path.Base(name), Type: "blob", Path: name, Mode: mode}
	}

	if len(rows) == 0 && opts.Path != "" {
		return nil, notFound("Tree Not Found")
	}

	out := make([]TreeNode, 0, len(rows))

	for p, row := range rows {
		depth := strings.Count(strings.TrimPrefix(p, prefix), "/")
		if !recursive && depth > 0 {
			continue
		}

		out = append(out, row)
	}

	// reverse order, so callers have to sort
	sort.Slice(out, func(i, j int) bool { return out[i].Path > out[j].Path })

	return append(out, c.extraRows...), nil
}

func (c *fakeClient) GetRawFile(_ context.Context, project, p, ref string) ([]byte, error) {
	c.t.Helper()
	c.record("GetRawFile")

	if c.rawErr != nil {
		return nil, c.rawErr
	}

	f, err := c.lookup(project, p, ref)
	if err != nil {
		return nil, err
	}

	return []byte(f.content), nil
}

func (c *fakeClient) GetFileMetadata(_ context.Context, project, p, ref string) (*FileMetadata, error) {
	c.t.Helper()
	c.record("GetFileMetadata")

	if c.metaErr != nil {
		return nil, c.metaErr
	}

	f, err := c.lookup(project, p, ref)
	if err != nil {
		return nil, err
	}

	sum := sha256.Sum256([]byte(f.content))

	return &FileMetadata{
		Path:          p,
		Ref:           ref,
		Size:          int64(len(f.content)),
		BlobID:        objectID("blob", f.content),
		Encoding:      "base64",
		ContentSHA256: hex.EncodeToString(sum[:]),
		CommitID:      objectID("commit", ref),
		LastCommitID:  objectID("commit", ref+p),
		Executable:    f.executable,
	}, nil
}

func (c *fakeClient) lookup(project, p, ref string) (*testFile, error) {
	if project != c.project {
		return nil, notFound("Project Not Found")
	}

	files, err := c.files(ref)
	if err != nil {
		return nil, err
	}

	f, ok := files[p]
	if !ok {
		return nil, notFound("File Not Found")
	}

	return f, nil
}

func objectID(kind, s string) string {
	//nolint:gosec
	sum := sha1.Sum([]byte(kind + " " + s))

	return hex.EncodeToString(sum[:])
}

const testProject = "gitlab-filesystem-test-repos/public"

const readme = "# GitLab Filesystem Test Repository\n\nA repository for testing filesystem operations.\n"

// testRepo mirrors the layout of a small repository with various file types
// and nested directories.
func testRepo() map[string]*testFile {
	return map[string]*testFile{
		"data/config.xml":                    tf("<config><debug>true</debug></config>\n"),
		"data/data.csv":                      tf("id,name\n1,alpha\n2,beta\n"),
		"data/sample.json":                   tf(`{"sample": true}` + "\n"),
		"docs/README_internal.md":            tf("# Internal\n"),
		"docs/sample.txt":                    tf("sample text\n"),
		"empty":                              tf(""),
		"media/image_info.txt":               tf("tiny.png is a 1x1 pixel\n"),
		"media/tiny.png":                     tf("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"),
		"nested/deep/very/far/deep_file.txt": tf("you found me\n"),
		"nested/intermediate.md":             tf("# Intermediate\n"),
		"README.md":                          tf(readme),
		"scripts/config.sh":                  tx("#!/bin/sh\nexport DEBUG=1\n"),
		"scripts/example.py":                 tf("print('hello')\n"),
		"scripts/package.json":               tf(`{"name": "example"}` + "\n"),
	}
}

func newFakeClient(t *testing.T) *fakeClient {
	t.Helper()

	return &fakeClient{
		t:             t,
		project:       testProject,
		defaultBranch: "main",
		refs: map[string]map[string]*testFile{
			"main": testRepo(),
			"v1.0": {
				"README.md": tf("# v1\n"),
			},
		},
	}
}

// setupFS returns a filesystem at the default branch of the test repo,
// along with the fake client so calls can be inspected.
func setupFS(t *testing.T, opts ...func(*Config)) (*gitlabFS, *fakeClient) {
	t.Helper()

	client := newFakeClient(t)
	cfg := Config{ProjectPath: testProject, Client: client}

	for _, o := range opts {
		o(&cfg)
	}

	fsys, err := newFS(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("newFS: %v", err)
	}

	return fsys, client
}
