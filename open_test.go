package fsspec

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"README.md":                          {Data: []byte("# readme\n")},
		"data/config.xml":                    {Data: []byte("<config/>")},
		"data/data.csv":                      {Data: []byte("a,b\n")},
		"data/sample.json":                   {Data: []byte("{}")},
		"docs/sample.txt":                    {Data: []byte("sample")},
		"media/image_info.txt":               {Data: []byte("info")},
		"nested/deep/very/far/deep_file.txt": {Data: []byte("deep")},
		"nested/intermediate.md":             {Data: []byte("# mid")},
	}
}

func testMux() FSMux {
	m := NewMux()
	m.Add(WrappedFSProvider(testFS(), "mem"))

	return m
}

func TestGlob(t *testing.T) {
	t.Parallel()

	fsys := testFS()

	matches, err := Glob(fsys, "**/*.txt", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"docs/sample.txt",
		"media/image_info.txt",
		"nested/deep/very/far/deep_file.txt",
	}, matches)

	matches, err = Glob(fsys, "nested/*", false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"nested/deep", "nested/intermediate.md"}, matches)

	matches, err = Glob(fsys, "nested/*", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/intermediate.md"}, matches)

	matches, err = Glob(fsys, "data/*.{csv,json}", true)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"data/data.csv", "data/sample.json"}, matches)

	matches, err = Glob(fsys, "data/*.exe", true)
	require.NoError(t, err)
	assert.Empty(t, matches)

	_, err = Glob(fsys, "data/[", true)
	assert.Error(t, err)
}

func TestHasMeta(t *testing.T) {
	t.Parallel()

	assert.True(t, HasMeta("**/*.txt"))
	assert.True(t, HasMeta("data/file?.csv"))
	assert.True(t, HasMeta("data/[ab].csv"))
	assert.True(t, HasMeta("data/{a,b}.csv"))
	assert.False(t, HasMeta("data/data.csv"))
	assert.False(t, HasMeta(""))
}

func TestOpenFiles(t *testing.T) {
	m := testMux()

	files, err := m.OpenFiles(context.Background(), "mem:///**/*.txt")
	require.NoError(t, err)

	defer files.Close()

	assert.ElementsMatch(t, []string{
		"docs/sample.txt",
		"media/image_info.txt",
		"nested/deep/very/far/deep_file.txt",
	}, files.Paths())

	for _, f := range files {
		b, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.NotEmpty(t, b, f.Path)
	}

	require.NoError(t, files.Close())

	files, err = m.OpenFiles(context.Background(), "mem:///data/data.csv")
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "data/data.csv", files[0].Path)

	files, err = m.OpenFiles(context.Background(), "mem:///*.missing")
	require.NoError(t, err)
	assert.Empty(t, files)

	_, err = m.OpenFiles(context.Background(), "mem:///missing.txt")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = m.OpenFiles(context.Background(), "nope:///x")
	assert.Error(t, err)
}

func TestOpenFiles_LeadingSlash(t *testing.T) {
	fsys := testFS()

	// the path is everything after the second ':', as written
	m := NewMux()
	m.Add(FSProviderWithPath(
		func(_ *url.URL) (fs.FS, error) { return fsys, nil },
		func(u *url.URL) string {
			_, p, _ := strings.Cut(u.Opaque, ":")

			return p
		},
		"x"))

	files, err := m.OpenFiles(context.Background(), "x:repo:/data/*.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"data/data.csv"}, files.Paths())
	require.NoError(t, files.Close())

	files, err = m.OpenFiles(context.Background(), "x:repo:/data/data.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"/data/data.csv"}, files.Paths())
	require.NoError(t, files.Close())

	files, err = m.OpenFiles(context.Background(), "x:repo:/nested/**/*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{"nested/intermediate.md"}, files.Paths())
	require.NoError(t, files.Close())
}

func TestOpen(t *testing.T) {
	m := testMux()

	f, err := m.Open(context.Background(), "mem:///README.md")
	require.NoError(t, err)

	defer f.Close()

	b, err := io.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, "# readme\n", string(b))

	d, err := m.Open(context.Background(), "mem:///")
	require.NoError(t, err)

	fi, err := d.Stat()
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
}

type closeErrFile struct {
	fs.File

	err error
}

func (f closeErrFile) Close() error { return f.err }

func TestFiles_Close(t *testing.T) {
	t.Parallel()

	errA := errors.New("a")
	errB := errors.New("b")

	files := Files{
		{File: closeErrFile{err: errA}, Path: "a"},
		{File: closeErrFile{}, Path: "ok"},
		{File: closeErrFile{err: errB}, Path: "b"},
	}

	err := files.Close()
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)

	assert.NoError(t, Files{}.Close())
}
