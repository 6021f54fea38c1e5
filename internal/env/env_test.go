package env

import (
	"io/fs"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tfs "gotest.tools/v3/fs"
)

func TestGetenvFS(t *testing.T) {
	fsys := fstest.MapFS{}

	t.Setenv("FOOBARBAZ", "")
	assert.Empty(t, GetenvFS(fsys, "FOOBARBAZ"))

	t.Setenv("FOOBARBAZ", "set")
	assert.Equal(t, "set", GetenvFS(fsys, "FOOBARBAZ"))
}

func TestGetenvFS_File(t *testing.T) {
	fsys := fstest.MapFS{
		"tmp":     &fstest.MapFile{Mode: fs.ModeDir},
		"tmp/foo": &fstest.MapFile{Data: []byte("foo\n")},
	}

	t.Setenv("FOO", "")
	t.Setenv("FOO_FILE", "/tmp/foo")
	assert.Equal(t, "foo", GetenvFS(fsys, "FOO"))

	t.Setenv("FOO_FILE", "/tmp/missing")
	assert.Empty(t, GetenvFS(fsys, "FOO"))

	// the variable itself wins over the file
	t.Setenv("FOO", "direct")
	t.Setenv("FOO_FILE", "/tmp/foo")
	assert.Equal(t, "direct", GetenvFS(fsys, "FOO"))
}

func TestSnapshot(t *testing.T) {
	fsys := fstest.MapFS{
		"secrets/token": &fstest.MapFile{Data: []byte("from-file")},
	}

	t.Setenv("SNAP_A", "a")
	t.Setenv("SNAP_B", "")
	t.Setenv("SNAP_B_FILE", "/secrets/token")
	t.Setenv("SNAP_C", "")

	snap := Snapshot(fsys, "SNAP_A", "SNAP_B", "SNAP_C")
	assert.Equal(t, map[string]string{"SNAP_A": "a", "SNAP_B": "from-file"}, snap)
}

func TestReadEnvFile(t *testing.T) {
	dir := tfs.NewDir(t, "gitlab-fsspec-env",
		tfs.WithFile(".env", "GITLAB_PRIVATE_TOKEN=file_token\n# comment\nGITLAB_URL=https://gitlab.example.com\n"),
	)
	t.Cleanup(dir.Remove)

	vals, err := ReadEnvFile(filepath.Join(dir.Path(), ".env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"GITLAB_PRIVATE_TOKEN": "file_token",
		"GITLAB_URL":           "https://gitlab.example.com",
	}, vals)

	_, err = ReadEnvFile(filepath.Join(dir.Path(), "missing.env"))
	require.Error(t, err)
}

func TestReadEnvFile_DefaultMissing(t *testing.T) {
	dir := tfs.NewDir(t, "gitlab-fsspec-noenv")
	t.Cleanup(dir.Remove)
	t.Chdir(dir.Path())

	vals, err := ReadEnvFile("")
	require.NoError(t, err)
	assert.Empty(t, vals)
}
